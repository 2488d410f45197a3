package matching

// Weighted scores used by the interaction matcher (C4, in pkg/mockserver)
// to pick the best-matching interaction when more than one is eligible.
// Values are arbitrary but ordered: more specific matches always
// outweigh less specific ones, mirroring the additive scoring table
// mockd's request matcher uses for mock selection.
const (
	ScoreMethodExact   = 10
	ScorePathExact     = 20
	ScorePathRule      = 15
	ScoreHeaderMatch   = 8
	ScoreQueryMatch    = 5
	ScoreBodyMatch     = 25
	ScoreStatusMatch   = 3
)

// Specificity returns pathSpecificity unchanged. The ordering itself is
// computed by pact.PathExpression.Specificity, which backs the "most
// specific wins" path-selection rule.
func Specificity(pathSpecificity int) int { return pathSpecificity }
