package pact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractRoundTrip(t *testing.T) {
	headers := NewHeaders()
	headers.Add("Content-Type", "application/json")

	c := &Contract{
		Consumer: "orders-ui",
		Provider: "orders-api",
		Metadata: Metadata{SpecVersion: SpecV3, ProducerID: "pactmock"},
		Interactions: []Interaction{
			{
				Type:        InteractionHTTP,
				Description: "a request for an order",
				ProviderStates: []ProviderState{
					{Name: "order 123 exists"},
				},
				Request: HttpRequest{
					Method: "GET",
					Path:   "/orders/123",
				},
				Response: HttpResponse{
					Status:  200,
					Headers: headers,
					Body:    Present([]byte(`{"id":123}`), "application/json"),
				},
			},
		},
	}

	require.NoError(t, c.Validate())

	data, err := MarshalContract(c)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	round, err := UnmarshalContract(data)
	require.NoError(t, err)
	assert.Equal(t, c.Consumer, round.Consumer)
	assert.Equal(t, c.Provider, round.Provider)
	require.Len(t, round.Interactions, 1)
	assert.Equal(t, "a request for an order", round.Interactions[0].Description)
	assert.Equal(t, "GET", round.Interactions[0].Request.Method)
	assert.Equal(t, 200, round.Interactions[0].Response.Status)
	assert.True(t, round.Interactions[0].Response.Body.IsPresent())
}

func TestContractValidateDuplicateKey(t *testing.T) {
	c := &Contract{
		Interactions: []Interaction{
			{Description: "same", Request: HttpRequest{Method: "GET", Path: "/a"}},
			{Description: "same", Request: HttpRequest{Method: "GET", Path: "/b"}},
		},
	}
	err := c.Validate()
	assert.Error(t, err)
}

func TestPathExpressionSpecificity(t *testing.T) {
	a := ParsePathExpression("$.body.items[0].name")
	b := ParsePathExpression("$.body.items[*].name")
	assert.Greater(t, a.Specificity(), b.Specificity())
}

func TestHeadersCaseInsensitive(t *testing.T) {
	h := NewHeaders()
	h.Add("X-Trace-Id", "abc")
	assert.True(t, h.Has("x-trace-id"))
	assert.Equal(t, "abc", h.Get("X-TRACE-ID"))
}

func TestQueryRoundTrip(t *testing.T) {
	req := HttpRequest{
		Method: "GET",
		Path:   "/search",
		Query: Query{
			"tag": {strPtr("a"), strPtr("b")},
		},
	}
	data, err := req.MarshalJSON()
	require.NoError(t, err)

	var round HttpRequest
	require.NoError(t, round.UnmarshalJSON(data))
	require.Len(t, round.Query["tag"], 2)
	assert.Equal(t, "a", *round.Query["tag"][0])
}

func strPtr(s string) *string { return &s }

func TestRuleSetRoundTripEachValueAndArrayContains(t *testing.T) {
	rs := RuleSet{
		CategoryBody: []RuleGroup{
			{
				Path:    ParsePathExpression("$.tags"),
				Combine: CombineAnd,
				Rules: []MatchingRule{
					{Type: RuleEachValue, Nested: []MatchingRule{{Type: RuleType_}}},
				},
			},
			{
				Path:    ParsePathExpression("$.items"),
				Combine: CombineAnd,
				Rules: []MatchingRule{
					{
						Type: RuleArrayContains,
						Variants: []ArrayContainsVariant{
							{Index: 0, Rules: RuleSet{CategoryBody: []RuleGroup{
								{Path: ParsePathExpression("$.id"), Rules: []MatchingRule{{Type: RuleInteger}}},
							}}},
						},
					},
				},
			},
		},
	}

	data, err := rs.MarshalJSON()
	require.NoError(t, err)

	var round RuleSet
	require.NoError(t, round.UnmarshalJSON(data))

	tagsGroup, ok := findRuleGroup(round[CategoryBody], "$.tags")
	require.True(t, ok)
	require.Len(t, tagsGroup.Rules, 1)
	require.Len(t, tagsGroup.Rules[0].Nested, 1, "EachValue's nested rules must survive a marshal round trip")
	assert.Equal(t, RuleType_, tagsGroup.Rules[0].Nested[0].Type)

	itemsGroup, ok := findRuleGroup(round[CategoryBody], "$.items")
	require.True(t, ok)
	require.Len(t, itemsGroup.Rules, 1)
	require.Len(t, itemsGroup.Rules[0].Variants, 1, "ArrayContains variants must survive a marshal round trip")
	assert.Len(t, itemsGroup.Rules[0].Variants[0].Rules[CategoryBody], 1)
}

func findRuleGroup(groups []RuleGroup, path string) (RuleGroup, bool) {
	for _, g := range groups {
		if g.Path.String() == path {
			return g, true
		}
	}
	return RuleGroup{}, false
}
