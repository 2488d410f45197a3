package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pactlab/pactmock/pkg/logging"
	"github.com/pactlab/pactmock/pkg/pact"
)

func TestGenerateValueRandomInt(t *testing.T) {
	SeedForTest(1)
	v, err := GenerateValue(pact.Generator{Type: pact.GenRandomInt, Min: 5, Max: 5}, ModeConsumer, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestGenerateValueUuid(t *testing.T) {
	v, err := GenerateValue(pact.Generator{Type: pact.GenUuid, Format: pact.UuidSimple}, ModeConsumer, nil)
	require.NoError(t, err)
	s, ok := v.(string)
	require.True(t, ok)
	assert.Len(t, s, 32)
}

func TestGenerateValueProviderState(t *testing.T) {
	ctx := &Context{ProviderState: map[string]any{"orderId": 42}}
	v, err := GenerateValue(pact.Generator{Type: pact.GenProviderState, Expression: "orderId"}, ModeConsumer, ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGenerateValueMockServerURL(t *testing.T) {
	ctx := &Context{MockServerBaseURL: "http://127.0.0.1:54321"}
	gen := pact.Generator{Type: pact.GenMockServerURL, Regex: `^https?://[^/]+`, Example: "http://example.org/orders/1"}
	v, err := GenerateValue(gen, ModeConsumer, ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:54321/orders/1", v)
}

func TestApplyToResponseBody(t *testing.T) {
	resp := pact.HttpResponse{
		Status: 200,
		Body:   pact.Present([]byte(`{"id":"placeholder","name":"fixed"}`), "application/json"),
		Generators: pact.GeneratorSet{
			pact.CategoryBody: {
				"$.body.id": {Type: pact.GenUuid, Format: pact.UuidSimple},
			},
		},
	}
	resp.Headers = pact.NewHeaders()

	out := ApplyToResponse(resp, ModeConsumer, nil, logging.Nop())
	assert.Contains(t, string(out.Body.Content), `"name":"fixed"`)
	assert.NotContains(t, string(out.Body.Content), "placeholder")
}
