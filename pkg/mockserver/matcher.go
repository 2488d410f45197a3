package mockserver

import (
	"strings"

	"github.com/pactlab/pactmock/internal/matching"
	"github.com/pactlab/pactmock/pkg/httputil"
	"github.com/pactlab/pactmock/pkg/pact"
)

// ResultKind is the outcome classification for one incoming request:
// matched, mismatched, not found, or (for an interaction no request
// reached) missing.
type ResultKind int

const (
	ResultMatched ResultKind = iota
	ResultMismatch
	ResultNotFound
	ResultMissing
)

// MatchResult records what happened when a live request was matched
// against a contract's interactions.
type MatchResult struct {
	Kind            ResultKind
	InteractionKey  string
	Request         *ActualRequest
	MatchedResponse *pact.HttpResponse
	Mismatches      []matching.Mismatch
}

type candidate struct {
	interaction pact.Interaction
	mismatches  []matching.Mismatch
	specificity int
}

// SelectInteraction scores req against every HttpRequestResponse
// interaction, picking the one with the fewest mismatches; ties are
// broken first by summed rule-path specificity (most specific wins),
// then by declaration order (the earlier interaction in the contract
// wins). Zero mismatches on the winner yields RequestMatched; some
// mismatches but a matching method+path yields RequestMismatch;
// otherwise RequestNotFound.
func SelectInteraction(req *ActualRequest, interactions []pact.Interaction) MatchResult {
	var best *candidate
	for _, it := range interactions {
		if it.Type != pact.InteractionHTTP {
			continue
		}
		mismatches, specificity := evaluateInteraction(req, it)
		c := candidate{interaction: it, mismatches: mismatches, specificity: specificity}
		if best == nil || betterCandidate(c, *best) {
			cCopy := c
			best = &cCopy
		}
	}
	if best == nil {
		return MatchResult{Kind: ResultNotFound, Request: req}
	}
	if len(best.mismatches) == 0 {
		resp := best.interaction.Response
		return MatchResult{Kind: ResultMatched, InteractionKey: best.interaction.Key(), Request: req, MatchedResponse: &resp}
	}
	if methodAndPathMatch(best.mismatches) {
		return MatchResult{Kind: ResultMismatch, InteractionKey: best.interaction.Key(), Request: req, Mismatches: best.mismatches}
	}
	return MatchResult{Kind: ResultNotFound, Request: req, Mismatches: best.mismatches}
}

func betterCandidate(a, b candidate) bool {
	if len(a.mismatches) != len(b.mismatches) {
		return len(a.mismatches) < len(b.mismatches)
	}
	return a.specificity > b.specificity
}

func methodAndPathMatch(mismatches []matching.Mismatch) bool {
	for _, m := range mismatches {
		if m.Kind == matching.MismatchMethod || m.Kind == matching.MismatchPath {
			return false
		}
	}
	return true
}

func evaluateInteraction(req *ActualRequest, it pact.Interaction) ([]matching.Mismatch, int) {
	var mismatches []matching.Mismatch
	specificity := 0

	if !strings.EqualFold(req.Method, it.Request.Method) {
		mismatches = append(mismatches, newMismatch(matching.MismatchMethod, "$.method",
			"expected "+it.Request.Method+" but got "+req.Method))
	}

	pathMismatches, pathSpec := matchPath(req.Path, it.Request.Path, it.Request.MatchingRules)
	mismatches = append(mismatches, pathMismatches...)
	specificity += pathSpec

	queryMismatches, querySpec := matchQuery(req.Query, it.Request.Query, it.Request.MatchingRules)
	mismatches = append(mismatches, queryMismatches...)
	specificity += querySpec

	headerMismatches, headerSpec := matchHeaders(req.Headers, it.Request.Headers, it.Request.MatchingRules)
	mismatches = append(mismatches, headerMismatches...)
	specificity += headerSpec

	bodyMismatches := matching.MatchBody(it.Request.Body, req.Body, it.Request.MatchingRules)
	mismatches = append(mismatches, bodyMismatches...)
	if len(it.Request.MatchingRules.Lookup(pact.CategoryBody)) > 0 {
		specificity += matching.ScoreBodyMatch
	}

	return mismatches, specificity
}

func matchPath(actual, expected string, rules pact.RuleSet) ([]matching.Mismatch, int) {
	decodedActual, ok := httputil.DecodePathOrQuery(actual)
	if !ok {
		return []matching.Mismatch{newMismatch(matching.MismatchPath, "$.path", "path is not validly percent-encoded")}, 0
	}
	decodedExpected, _ := httputil.DecodePathOrQuery(expected)

	if group, ok := matching.ResolveGroup(rules, pact.CategoryPath, "$"); ok {
		return withKind(matching.ApplyGroup(group, "$.path", decodedExpected, decodedActual), matching.MismatchPath), matching.ScorePathRule + group.Path.Specificity()
	}
	if decodedActual == decodedExpected {
		return nil, matching.ScorePathExact
	}
	return []matching.Mismatch{newMismatch(matching.MismatchPath, "$.path",
		"expected path "+decodedExpected+" but got "+decodedActual)}, 0
}

func matchQuery(actual, expected pact.Query, rules pact.RuleSet) ([]matching.Mismatch, int) {
	var mismatches []matching.Mismatch
	specificity := 0
	allowExtra := hasQueryValuesRule(rules)

	for name, expValues := range expected {
		path := "$.query." + name
		actValues, present := actual[name]
		if !present {
			mismatches = append(mismatches, newMismatch(matching.MismatchQuery, path, "missing query parameter"))
			continue
		}
		if group, ok := matching.ResolveGroup(rules, pact.CategoryQuery, path); ok {
			specificity += matching.ScoreQueryMatch + group.Path.Specificity()
			for i, ev := range expValues {
				var av any
				if i < len(actValues) {
					av = derefOrNil(actValues[i])
				}
				mismatches = append(mismatches, withKind(matching.ApplyGroup(group, path, derefOrNil(ev), av), matching.MismatchQuery)...)
			}
			continue
		}
		if !queryValuesEqual(expValues, actValues) {
			mismatches = append(mismatches, newMismatch(matching.MismatchQuery, path, "query parameter values differ"))
		} else {
			specificity += matching.ScoreQueryMatch
		}
	}
	if !allowExtra {
		for name := range actual {
			if _, ok := expected[name]; !ok {
				mismatches = append(mismatches, newMismatch(matching.MismatchQuery, "$.query."+name, "unexpected query parameter"))
			}
		}
	}
	return mismatches, specificity
}

func hasQueryValuesRule(rules pact.RuleSet) bool {
	for _, g := range rules.Lookup(pact.CategoryQuery) {
		for _, r := range g.Rules {
			if r.Type == pact.RuleValues || r.Type == pact.RuleEachValue {
				return true
			}
		}
	}
	return false
}

func queryValuesEqual(expected, actual []*string) bool {
	if len(expected) != len(actual) {
		return false
	}
	for i, e := range expected {
		if derefOrEmpty(e) != derefOrEmpty(actual[i]) {
			return false
		}
	}
	return true
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func matchHeaders(actual, expected *pact.Headers, rules pact.RuleSet) ([]matching.Mismatch, int) {
	if expected == nil {
		return nil, 0
	}
	var mismatches []matching.Mismatch
	specificity := 0
	for _, name := range expected.Names() {
		path := "$.headers." + name
		expValue := expected.Get(name)
		if actual == nil || !actual.Has(name) {
			mismatches = append(mismatches, newMismatch(matching.MismatchHeader, path, "missing header"))
			continue
		}
		actValue := actual.Get(name)

		if group, ok := matching.ResolveGroup(rules, pact.CategoryHeader, path); ok {
			specificity += matching.ScoreHeaderMatch + group.Path.Specificity()
			mismatches = append(mismatches, withKind(matching.ApplyGroup(group, path, expValue, actValue), matching.MismatchHeader)...)
			continue
		}

		if strings.EqualFold(name, "Content-Type") {
			if httputil.ContentTypesEqual(expValue, actValue) {
				specificity += matching.ScoreHeaderMatch
			} else {
				mismatches = append(mismatches, newMismatch(matching.MismatchHeader, path, "content types differ"))
			}
			continue
		}

		if foldedHeadersEqual(expValue, actValue) {
			specificity += matching.ScoreHeaderMatch
		} else {
			mismatches = append(mismatches, newMismatch(matching.MismatchHeader, path, "expected "+expValue+" but got "+actValue))
		}
	}
	return mismatches, specificity
}

// foldedHeadersEqual compares multi-valued headers after splitting on
// comma and trimming whitespace from each value, ignoring declaration
// order across the comma-joined list (per "Accept header multi-value
// order-insensitive match").
func foldedHeadersEqual(expected, actual string) bool {
	exp := httputil.SplitFoldedHeader(expected)
	act := httputil.SplitFoldedHeader(actual)
	if len(exp) != len(act) {
		return false
	}
	seen := make(map[string]int, len(act))
	for _, v := range act {
		seen[v]++
	}
	for _, v := range exp {
		if seen[v] == 0 {
			return false
		}
		seen[v]--
	}
	return true
}

func newMismatch(kind matching.MismatchKind, path, detail string) matching.Mismatch {
	return matching.Mismatch{Kind: kind, Path: path, Detail: detail}
}

// withKind retags mismatches from matching.ApplyGroup, which tags every
// mismatch as Body, with the request part they concern.
func withKind(ms []matching.Mismatch, kind matching.MismatchKind) []matching.Mismatch {
	for i := range ms {
		ms[i].Kind = kind
	}
	return ms
}
