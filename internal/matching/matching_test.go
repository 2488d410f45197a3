package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pactlab/pactmock/pkg/pact"
)

func TestEvaluateRuleRegex(t *testing.T) {
	ok, _, err := EvaluateRule(pact.MatchingRule{Type: pact.RuleRegex, Pattern: `^\d+$`}, nil, "123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _, err = EvaluateRule(pact.MatchingRule{Type: pact.RuleRegex, Pattern: `^\d+$`}, nil, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateRuleRegexAnchorsUnanchoredPattern(t *testing.T) {
	ok, _, err := EvaluateRule(pact.MatchingRule{Type: pact.RuleRegex, Pattern: `[0-9]+`}, nil, "7")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _, err = EvaluateRule(pact.MatchingRule{Type: pact.RuleRegex, Pattern: `[0-9]+`}, nil, "42abc")
	require.NoError(t, err)
	assert.False(t, ok, "an unanchored-looking pattern must still match the whole actual value")
}

func TestEvaluateRuleUnknownVariant(t *testing.T) {
	_, _, err := EvaluateRule(pact.MatchingRule{Type: "bogus"}, nil, "x")
	assert.Error(t, err)
}

func TestEvaluateRuleMinType(t *testing.T) {
	ok, _, err := EvaluateRule(pact.MatchingRule{Type: pact.RuleMinType, Min: 2}, nil, []any{"a", "b", "c"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _, err = EvaluateRule(pact.MatchingRule{Type: pact.RuleMinType, Min: 4}, nil, []any{"a", "b", "c"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDateTimeFormatConversion(t *testing.T) {
	layout, err := ConvertJavaFormat("yyyy-MM-dd'T'HH:mm:ss")
	require.NoError(t, err)
	assert.Equal(t, "2006-01-02T15:04:05", layout)

	ok, err := MatchesFormat("yyyy-MM-dd", "2024-01-15")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = MatchesFormat("qqq", "whatever")
	assert.Error(t, err)
}

func TestResolveGroupMostSpecificWins(t *testing.T) {
	rules := pact.RuleSet{
		pact.CategoryBody: []pact.RuleGroup{
			{Path: pact.ParsePathExpression("$.items[*].id"), Rules: []pact.MatchingRule{{Type: pact.RuleType_}}},
			{Path: pact.ParsePathExpression("$.items[0].id"), Rules: []pact.MatchingRule{{Type: pact.RuleRegex, Pattern: `^\d+$`}}},
		},
	}
	group, ok := ResolveGroup(rules, pact.CategoryBody, "$.items[0].id")
	require.True(t, ok)
	assert.Equal(t, pact.RuleRegex, group.Rules[0].Type)
}

func TestMatchJSONBodyWithRegexRule(t *testing.T) {
	rules := pact.RuleSet{
		pact.CategoryBody: []pact.RuleGroup{
			{Path: pact.ParsePathExpression("$.id"), Rules: []pact.MatchingRule{{Type: pact.RuleRegex, Pattern: `^\d+$`}}},
		},
	}
	mismatches := MatchJSONBody([]byte(`{"id":"123","name":"a"}`), []byte(`{"id":"999","name":"a"}`), rules)
	assert.Empty(t, mismatches)

	mismatches = MatchJSONBody([]byte(`{"id":"123"}`), []byte(`{"id":"abc"}`), rules)
	assert.NotEmpty(t, mismatches)
}

func TestMatchJSONBodyMissingKey(t *testing.T) {
	mismatches := MatchJSONBody([]byte(`{"id":1,"name":"a"}`), []byte(`{"id":1}`), nil)
	require.Len(t, mismatches, 1)
	assert.Equal(t, MismatchBody, mismatches[0].Kind)
}

func TestMatchTextBodyTrimmed(t *testing.T) {
	assert.Empty(t, MatchTextBody([]byte(" hello \n"), []byte("hello"), nil))
}

func TestMatchFormBody(t *testing.T) {
	assert.Empty(t, MatchFormBody([]byte("a=1&b=2"), []byte("a=1&b=2"), nil))
	assert.NotEmpty(t, MatchFormBody([]byte("a=1"), []byte("a=2"), nil))
}
