package matching

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/pactlab/pactmock/pkg/pact"
)

// MatchFormBody compares application/x-www-form-urlencoded bodies as
// maps of ordered value sequences, the same semantic shape Query uses.
func MatchFormBody(expectedRaw, actualRaw []byte, rules pact.RuleSet) []Mismatch {
	expected, err := url.ParseQuery(string(expectedRaw))
	if err != nil {
		return []Mismatch{newMismatch(MismatchBodyType, "$", fmt.Sprintf("expected body is not valid form data: %v", err))}
	}
	actual, err := url.ParseQuery(string(actualRaw))
	if err != nil {
		return []Mismatch{newMismatch(MismatchBodyType, "$", fmt.Sprintf("actual body is not valid form data: %v", err))}
	}

	var out []Mismatch
	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := "$." + name
		expValues := expected[name]
		actValues, present := actual[name]
		if !present {
			out = append(out, newMismatch(MismatchBody, path, "missing form field"))
			continue
		}
		if group, ok := ResolveGroup(rules, pact.CategoryBody, path); ok {
			for i, ev := range expValues {
				var av any
				if i < len(actValues) {
					av = actValues[i]
				}
				out = append(out, ApplyGroup(group, path, ev, av)...)
			}
			continue
		}
		if len(expValues) != len(actValues) {
			out = append(out, newMismatch(MismatchBody, path, "form field value count differs"))
			continue
		}
		for i, ev := range expValues {
			if ev != actValues[i] {
				out = append(out, newMismatch(MismatchBody, path, fmt.Sprintf("expected %q but got %q", ev, actValues[i])))
			}
		}
	}
	return out
}
