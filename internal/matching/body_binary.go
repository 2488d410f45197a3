package matching

import (
	"bytes"
	"fmt"

	"github.com/pactlab/pactmock/pkg/pact"
)

// MatchBinaryBody compares binary bodies. A ContentType or Type rule at
// the body root decides the match (length/shape only); absent a rule,
// comparison is byte-exact.
func MatchBinaryBody(expectedRaw, actualRaw []byte, rules pact.RuleSet) []Mismatch {
	if group, ok := ResolveGroup(rules, pact.CategoryBody, "$"); ok {
		for _, r := range group.Rules {
			if r.Type == pact.RuleContentType || r.Type == pact.RuleType_ {
				if len(actualRaw) == 0 {
					return []Mismatch{newMismatch(MismatchBody, "$", "expected binary content but actual body is empty")}
				}
				return nil
			}
		}
	}
	if bytes.Equal(expectedRaw, actualRaw) {
		return nil
	}
	return []Mismatch{newMismatch(MismatchBody, "$", fmt.Sprintf(
		"binary body differs (%d bytes expected, %d bytes actual)", len(expectedRaw), len(actualRaw)))}
}
