package contractfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pactlab/pactmock/pkg/pact"
)

func sampleContract(description string) *pact.Contract {
	return &pact.Contract{
		Consumer: "order-service",
		Provider: "billing-service",
		Metadata: pact.Metadata{SpecVersion: pact.SpecV3},
		Interactions: []pact.Interaction{
			{
				Type:        pact.InteractionHTTP,
				Description: description,
				Request:     pact.HttpRequest{Method: "GET", Path: "/orders/1"},
				Response:    pact.HttpResponse{Status: 200},
			},
		},
	}
}

func TestWriteCreatesNewFile(t *testing.T) {
	dir := t.TempDir()
	c := sampleContract("get an order")
	require.NoError(t, Write(dir, c, false))

	data, err := os.ReadFile(filepath.Join(dir, c.FileName()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "get an order")
}

func TestWriteMergesNewInteraction(t *testing.T) {
	dir := t.TempDir()
	first := sampleContract("get an order")
	require.NoError(t, Write(dir, first, false))

	second := sampleContract("cancel an order")
	require.NoError(t, Write(dir, second, false))

	merged, err := readExisting(filepath.Join(dir, first.FileName()))
	require.NoError(t, err)
	require.Len(t, merged.Interactions, 2)
}

func TestWriteOverwriteDiscardsExisting(t *testing.T) {
	dir := t.TempDir()
	first := sampleContract("get an order")
	require.NoError(t, Write(dir, first, false))

	second := sampleContract("cancel an order")
	require.NoError(t, Write(dir, second, true))

	merged, err := readExisting(filepath.Join(dir, first.FileName()))
	require.NoError(t, err)
	require.Len(t, merged.Interactions, 1)
	assert.Equal(t, "cancel an order", merged.Interactions[0].Description)
}

func TestMergeRejectsDifferentProvider(t *testing.T) {
	existing := sampleContract("get an order")
	incoming := sampleContract("get an order")
	incoming.Provider = "different-service"

	_, err := Merge(existing, incoming)
	require.Error(t, err)
	var conflict *MergeConflictError
	assert.ErrorAs(t, err, &conflict)
}
