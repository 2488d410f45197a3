package matching

import (
	"fmt"
	"strings"

	"github.com/pactlab/pactmock/pkg/pact"
)

// MatchTextBody compares text/plain bodies: if a body rule applies it
// decides the match, otherwise both sides are trimmed and compared for
// string equality.
func MatchTextBody(expectedRaw, actualRaw []byte, rules pact.RuleSet) []Mismatch {
	expected, actual := string(expectedRaw), string(actualRaw)
	if group, ok := ResolveGroup(rules, pact.CategoryBody, "$"); ok {
		return ApplyGroup(group, "$", expected, actual)
	}
	if strings.TrimSpace(expected) == strings.TrimSpace(actual) {
		return nil
	}
	return []Mismatch{newMismatch(MismatchBody, "$", fmt.Sprintf("expected %q but got %q", expected, actual))}
}
