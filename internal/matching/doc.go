// Package matching implements the matching rule engine (evaluating a
// declarative pact.MatchingRule set against concrete request/response
// values) and the per-content-type body matchers that delegate to it.
//
// The rule engine never panics on malformed input: EvaluateRule returns
// an error for an unknown rule variant and for a malformed regex or
// date/time format, and ApplyGroup turns any such error into a
// descriptive Mismatch for the path. A path with no applicable rule
// falls back to plain equality.
package matching
