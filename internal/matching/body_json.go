package matching

import (
	"encoding/json"
	"fmt"

	"github.com/pactlab/pactmock/pkg/pact"
)

// terminalRules are rule variants that fully decide a match at the node
// they're attached to and do not cascade structural comparison into
// nested collections — matching spec's "MinType/MaxType non-cascading"
// and "Values ignoring key names non-cascading" requirements.
var terminalRules = map[pact.RuleType]bool{
	pact.RuleType_:        true,
	pact.RuleMinType:      true,
	pact.RuleMaxType:      true,
	pact.RuleMinMaxType:   true,
	pact.RuleValues:       true,
	pact.RuleArrayContains: true,
	pact.RuleEachKey:      true,
	pact.RuleEachValue:    true,
	pact.RuleNotEmpty:     true,
}

// MatchJSONBody performs a lock-step tree walk of expected vs. actual
// JSON, resolving the body rule set at each path and delegating leaf
// comparisons to the rule engine (C1). When no rule applies at a path,
// comparison falls back to structural equality.
func MatchJSONBody(expectedRaw, actualRaw []byte, rules pact.RuleSet) []Mismatch {
	var expected, actual any
	if err := json.Unmarshal(expectedRaw, &expected); err != nil {
		return []Mismatch{newMismatch(MismatchBodyType, "$", fmt.Sprintf("expected body is not valid JSON: %v", err))}
	}
	if err := json.Unmarshal(actualRaw, &actual); err != nil {
		return []Mismatch{newMismatch(MismatchBodyType, "$", fmt.Sprintf("actual body is not valid JSON: %v", err))}
	}
	return walkJSON("$", expected, actual, rules)
}

func walkJSON(path string, expected, actual any, rules pact.RuleSet) []Mismatch {
	if group, ok := ResolveGroup(rules, pact.CategoryBody, path); ok {
		mismatches := ApplyGroup(group, path, expected, actual)
		if terminalGroup(group) {
			return mismatches
		}
		if len(mismatches) > 0 {
			return mismatches
		}
		// Non-terminal rule (e.g. Regex) passed at this node: it decides a
		// leaf on its own, while an object or array is still walked so
		// nested mismatches are reported with full paths.
		switch expected.(type) {
		case map[string]any, []any:
		default:
			return nil
		}
	}

	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return []Mismatch{newMismatch(MismatchBody, path, fmt.Sprintf("expected an object but got %T", actual))}
		}
		return walkJSONObject(path, exp, act, rules)
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return []Mismatch{newMismatch(MismatchBody, path, fmt.Sprintf("expected an array but got %T", actual))}
		}
		return walkJSONArray(path, exp, act, rules)
	default:
		ok, detail, err := EvaluateRule(pact.MatchingRule{Type: pact.RuleEquality}, expected, actual)
		if err != nil {
			return []Mismatch{newMismatch(MismatchBody, path, err.Error())}
		}
		if ok {
			return nil
		}
		return []Mismatch{newMismatch(MismatchBody, path, detail)}
	}
}

func terminalGroup(group pact.RuleGroup) bool {
	for _, r := range group.Rules {
		if terminalRules[r.Type] {
			return true
		}
	}
	return false
}

func walkJSONObject(path string, expected, actual map[string]any, rules pact.RuleSet) []Mismatch {
	var out []Mismatch
	allowExtra := hasValuesRule(rules, path)
	for key, expVal := range expected {
		childPath := path + "." + key
		actVal, present := actual[key]
		if !present {
			out = append(out, newMismatch(MismatchBody, childPath, "missing key"))
			continue
		}
		out = append(out, walkJSON(childPath, expVal, actVal, rules)...)
	}
	if !allowExtra {
		for key := range actual {
			if _, ok := expected[key]; !ok {
				out = append(out, newMismatch(MismatchBody, path+"."+key, "unexpected key"))
			}
		}
	}
	return out
}

func hasValuesRule(rules pact.RuleSet, path string) bool {
	group, ok := ResolveGroup(rules, pact.CategoryBody, path)
	if !ok {
		return false
	}
	for _, r := range group.Rules {
		if r.Type == pact.RuleValues || r.Type == pact.RuleEachValue {
			return true
		}
	}
	return false
}

func walkJSONArray(path string, expected, actual []any, rules pact.RuleSet) []Mismatch {
	// An EachValue/Type rule at this path already decided whether
	// variable-length arrays are acceptable (see terminalGroup above);
	// plain arrays without such a rule must match element-for-element.
	if len(expected) != len(actual) {
		return []Mismatch{newMismatch(MismatchBody, path, fmt.Sprintf("array length %d does not match expected %d", len(actual), len(expected)))}
	}
	var out []Mismatch
	for i, expVal := range expected {
		childPath := fmt.Sprintf("%s[%d]", path, i)
		out = append(out, walkJSON(childPath, expVal, actual[i], rules)...)
	}
	return out
}
