package matching

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pactlab/pactmock/pkg/pact"
)

// PathMatches reports whether a rule group's (possibly wildcarded) path
// expression covers a concrete path produced while walking an actual
// value, e.g. group "$.items[*].name" covers concrete "$.items[2].name".
func PathMatches(group, concrete pact.PathExpression) bool {
	gs, cs := group.Segments(), concrete.Segments()
	if len(gs) != len(cs) {
		return false
	}
	for i, g := range gs {
		c := cs[i]
		switch g.Kind {
		case pact.SegmentWildcard:
			continue
		case pact.SegmentField:
			if c.Kind != pact.SegmentField || c.Field != g.Field {
				return false
			}
		case pact.SegmentIndex:
			if c.Kind != pact.SegmentIndex || c.Index != g.Index {
				return false
			}
		}
	}
	return true
}

// ResolveGroup finds the most-specific rule group in category cat whose
// path expression covers concretePath. Tie-break: longest literal prefix
// wins (PathExpression.Specificity), then declaration order within the
// category's slice (earlier wins), matching the core's documented
// most-specific-wins policy.
func ResolveGroup(rs pact.RuleSet, cat pact.RuleCategory, concretePath string) (pact.RuleGroup, bool) {
	concrete := pact.ParsePathExpression(concretePath)
	candidates := rs.Lookup(cat)
	best := -1
	bestScore := -1
	for idx, g := range candidates {
		if !PathMatches(g.Path, concrete) {
			continue
		}
		score := g.Path.Specificity()
		if score > bestScore {
			bestScore = score
			best = idx
		}
	}
	if best < 0 {
		return pact.RuleGroup{}, false
	}
	return candidates[best], true
}

// ApplyGroup evaluates every rule in a group against expected/actual and
// combines the results per the group's CombinePolicy. AND requires every
// rule to pass (accumulating every failing rule's mismatch); OR requires
// at least one rule to pass (mismatches are only reported when all fail,
// and then every rule's detail is included so the caller can see why).
func ApplyGroup(group pact.RuleGroup, path string, expected, actual any) []Mismatch {
	if len(group.Rules) == 0 {
		return nil
	}
	var all []Mismatch
	passCount := 0
	for _, rule := range group.Rules {
		ok, detail, err := EvaluateRule(rule, expected, actual)
		if err != nil {
			all = append(all, newMismatch(MismatchBody, path, fmt.Sprintf("rule %s: %v", rule.Type, err)))
			continue
		}
		if ok {
			passCount++
		} else {
			all = append(all, newMismatch(MismatchBody, path, detail))
		}
	}
	if group.Combine == pact.CombineOr {
		if passCount > 0 {
			return nil
		}
		return all
	}
	// AND (default): any failure is reported.
	if passCount == len(group.Rules) {
		return nil
	}
	return all
}

// EvaluateRule evaluates a single matching rule against a pair of
// decoded values (strings, float64s, bools, maps, slices, or nil, per
// encoding/json's untyped decoding). err is non-nil only for internal
// failures: an unknown rule Type, or a malformed regex/date format —
// everything else is reported via the ok/detail return so the caller can
// accumulate it as an ordinary Mismatch.
func EvaluateRule(rule pact.MatchingRule, expected, actual any) (ok bool, detail string, err error) {
	switch rule.Type {
	case pact.RuleEquality, "":
		if valuesEqual(expected, actual) {
			return true, "", nil
		}
		return false, fmt.Sprintf("expected %v but got %v", expected, actual), nil

	case pact.RuleRegex:
		re, rerr := regexp.Compile(anchorPattern(rule.Pattern))
		if rerr != nil {
			return false, "", fmt.Errorf("invalid regex %q: %w", rule.Pattern, rerr)
		}
		s := toStringValue(actual)
		if re.MatchString(s) {
			return true, "", nil
		}
		return false, fmt.Sprintf("%q does not match pattern %q", s, rule.Pattern), nil

	case pact.RuleType_:
		if sameJSONType(expected, actual) {
			return true, "", nil
		}
		return false, fmt.Sprintf("expected type of %T but got %T", expected, actual), nil

	case pact.RuleMinType:
		return evalMinMaxType(expected, actual, rule.Min, -1)

	case pact.RuleMaxType:
		return evalMinMaxType(expected, actual, -1, rule.Max)

	case pact.RuleMinMaxType:
		return evalMinMaxType(expected, actual, rule.Min, rule.Max)

	case pact.RuleInclude:
		s := toStringValue(actual)
		if containsSubstr(s, rule.Substr) {
			return true, "", nil
		}
		return false, fmt.Sprintf("%q does not include %q", s, rule.Substr), nil

	case pact.RuleInteger:
		if isIntegerValue(actual) {
			return true, "", nil
		}
		return false, fmt.Sprintf("%v is not an integer", actual), nil

	case pact.RuleDecimal:
		if f, isNum := asFloat(actual); isNum && f != math.Trunc(f) {
			return true, "", nil
		}
		return false, fmt.Sprintf("%v is not a decimal", actual), nil

	case pact.RuleNumber:
		if _, isNum := asFloat(actual); isNum {
			return true, "", nil
		}
		return false, fmt.Sprintf("%v is not a number", actual), nil

	case pact.RuleNull:
		if actual == nil {
			return true, "", nil
		}
		return false, fmt.Sprintf("%v is not null", actual), nil

	case pact.RuleBoolean:
		if _, isBool := actual.(bool); isBool {
			return true, "", nil
		}
		return false, fmt.Sprintf("%v is not a boolean", actual), nil

	case pact.RuleDate:
		return evalDateTimeRule(rule.Format, actual)
	case pact.RuleTime:
		return evalDateTimeRule(rule.Format, actual)
	case pact.RuleDateTime:
		return evalDateTimeRule(rule.Format, actual)

	case pact.RuleContentType:
		s := toStringValue(actual)
		re, rerr := regexp.Compile(anchorPattern(rule.Pattern))
		if rerr != nil {
			return false, "", fmt.Errorf("invalid content-type pattern %q: %w", rule.Pattern, rerr)
		}
		if re.MatchString(s) {
			return true, "", nil
		}
		return false, fmt.Sprintf("content type %q does not match %q", s, rule.Pattern), nil

	case pact.RuleValues:
		// Values ignores key names; structural shape only. Treated as
		// always-pass at the leaf level since key-name independence is
		// enforced by the body walker, not by this leaf rule.
		return true, "", nil

	case pact.RuleNotEmpty:
		if !isEmptyValue(actual) {
			return true, "", nil
		}
		return false, "value is empty", nil

	case pact.RuleSemver:
		s := toStringValue(actual)
		if semverPattern.MatchString(s) {
			return true, "", nil
		}
		return false, fmt.Sprintf("%q is not a valid semantic version", s), nil

	case pact.RuleStatusCode:
		return evalStatusClass(rule.StatusClass, actual)

	case pact.RuleArrayContains:
		return evalArrayContains(rule, actual)

	case pact.RuleEachKey:
		return evalEachKey(rule.Nested, actual)

	case pact.RuleEachValue:
		return evalEachValue(rule.Nested, actual)

	default:
		return false, "", fmt.Errorf("unknown matching rule variant %q", rule.Type)
	}
}

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

// anchorPattern wraps a Regex/ContentType rule's pattern in ^(?:...)$
// when the author didn't already anchor both ends, per spec §4.1: the
// actual value must match the *whole* string, not merely contain a
// substring matching the pattern somewhere.
func anchorPattern(pattern string) string {
	if strings.HasPrefix(pattern, "^") && strings.HasSuffix(pattern, "$") {
		return pattern
	}
	return "^(?:" + pattern + ")$"
}

func evalDateTimeRule(format string, actual any) (bool, string, error) {
	s := toStringValue(actual)
	ok, err := MatchesFormat(format, s)
	if err != nil {
		return false, "", err
	}
	if ok {
		return true, "", nil
	}
	return false, fmt.Sprintf("%q does not match format %q", s, format), nil
}

func evalStatusClass(class pact.StatusCodeClass, actual any) (bool, string, error) {
	code, isNum := asFloat(actual)
	if !isNum {
		return false, fmt.Sprintf("%v is not a status code", actual), nil
	}
	n := int(code)
	var ok bool
	switch class {
	case pact.StatusInfo:
		ok = n >= 100 && n < 200
	case pact.StatusSuccess:
		ok = n >= 200 && n < 300
	case pact.StatusRedirect:
		ok = n >= 300 && n < 400
	case pact.StatusClientError:
		ok = n >= 400 && n < 500
	case pact.StatusServerError:
		ok = n >= 500 && n < 600
	case pact.StatusNonError:
		ok = n < 400
	case pact.StatusError:
		ok = n >= 400
	default:
		return false, "", fmt.Errorf("unknown status code class %q", class)
	}
	if ok {
		return true, "", nil
	}
	return false, fmt.Sprintf("status %d is not in class %q", n, class), nil
}

func evalMinMaxType(expected, actual any, min, max int) (bool, string, error) {
	length, ok := collectionLength(actual)
	if !ok {
		return false, fmt.Sprintf("%v is not a collection", actual), nil
	}
	if min >= 0 && length < min {
		return false, fmt.Sprintf("collection has %d elements, fewer than minimum %d", length, min), nil
	}
	if max >= 0 && length > max {
		return false, fmt.Sprintf("collection has %d elements, more than maximum %d", length, max), nil
	}
	return true, "", nil
}

func evalArrayContains(rule pact.MatchingRule, actual any) (bool, string, error) {
	arr, ok := actual.([]any)
	if !ok {
		return false, fmt.Sprintf("%v is not an array", actual), nil
	}
	used := make([]bool, len(arr))
	for _, variant := range rule.Variants {
		found := false
		for i, elem := range arr {
			if used[i] {
				continue
			}
			if matchesVariant(variant, elem) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false, fmt.Sprintf("no array element matched variant %d", variant.Index), nil
		}
	}
	return true, "", nil
}

func matchesVariant(variant pact.ArrayContainsVariant, elem any) bool {
	for _, groups := range variant.Rules {
		for _, g := range groups {
			if len(ApplyGroup(g, g.Path.String(), nil, elem)) > 0 {
				return false
			}
		}
	}
	return true
}

func evalEachKey(rules []pact.MatchingRule, actual any) (bool, string, error) {
	m, ok := actual.(map[string]any)
	if !ok {
		return false, fmt.Sprintf("%v is not an object", actual), nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, rule := range rules {
			ok, detail, err := EvaluateRule(rule, nil, k)
			if err != nil {
				return false, "", err
			}
			if !ok {
				return false, fmt.Sprintf("key %q: %s", k, detail), nil
			}
		}
	}
	return true, "", nil
}

func evalEachValue(rules []pact.MatchingRule, actual any) (bool, string, error) {
	var values []any
	switch t := actual.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			values = append(values, t[k])
		}
	case []any:
		values = t
	default:
		return false, fmt.Sprintf("%v is not a collection", actual), nil
	}
	for _, v := range values {
		for _, rule := range rules {
			ok, detail, err := EvaluateRule(rule, nil, v)
			if err != nil {
				return false, "", err
			}
			if !ok {
				return false, detail, nil
			}
		}
	}
	return true, "", nil
}

func valuesEqual(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == actual
	}
	ef, eok := asFloat(expected)
	af, aok := asFloat(actual)
	if eok && aok {
		return ef == af
	}
	return fmt.Sprintf("%v", expected) == fmt.Sprintf("%v", actual)
}

func sameJSONType(expected, actual any) bool {
	if expected == nil {
		return actual == nil
	}
	switch expected.(type) {
	case string:
		_, ok := actual.(string)
		return ok
	case bool:
		_, ok := actual.(bool)
		return ok
	case map[string]any:
		_, ok := actual.(map[string]any)
		return ok
	case []any:
		_, ok := actual.([]any)
		return ok
	default:
		_, ok := asFloat(actual)
		return ok
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func isIntegerValue(v any) bool {
	f, ok := asFloat(v)
	return ok && f == math.Trunc(f)
}

func collectionLength(v any) (int, bool) {
	switch t := v.(type) {
	case []any:
		return len(t), true
	case map[string]any:
		return len(t), true
	case string:
		return len(t), true
	default:
		return 0, false
	}
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toStringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func containsSubstr(s, substr string) bool {
	return strings.Contains(s, substr)
}
