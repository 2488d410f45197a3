package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "application/json", DetectContentType("", []byte(`{"a":1}`)))
	assert.Equal(t, "application/xml", DetectContentType("", []byte(`<root/>`)))
	assert.Equal(t, "text/custom", DetectContentType("text/custom", []byte(`{"a":1}`)))
	assert.Equal(t, "text/plain; charset=UTF-8", DetectContentType("", nil))
}

func TestIsJSONType(t *testing.T) {
	assert.True(t, IsJSONType("application/json"))
	assert.True(t, IsJSONType("application/vnd.api+json"))
	assert.False(t, IsJSONType("application/xml"))
}

func TestContentTypesEqual(t *testing.T) {
	assert.True(t, ContentTypesEqual("application/json; charset=utf-8", "application/json"))
	assert.True(t, ContentTypesEqual("application/json; charset=utf-8", "application/json; charset=UTF-8"))
	assert.False(t, ContentTypesEqual("application/json; charset=utf-8", "application/json; charset=latin1"))
	assert.False(t, ContentTypesEqual("application/json", "application/xml"))
}

func TestDecodePathOrQuery(t *testing.T) {
	d, ok := DecodePathOrQuery("%2Fusers%2F1")
	assert.True(t, ok)
	assert.Equal(t, "/users/1", d)

	_, ok = DecodePathOrQuery("%zz")
	assert.False(t, ok)
}

func TestFoldAndSplitHeader(t *testing.T) {
	folded := FoldHeaderValues([]string{" a", "b ", " c "})
	assert.Equal(t, "a, b, c", folded)
	assert.Equal(t, []string{"a", "b", "c"}, SplitFoldedHeader(folded))
}
