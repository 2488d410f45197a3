// Package httputil provides shared HTTP utilities: JSON response writing
// (response.go, carried from the wider mockd toolkit) plus the
// content-type detection, header folding, and percent-encoding helpers
// the mock server's matching and response pipeline depend on.
package httputil

import (
	"bytes"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

// DetectContentType resolves the effective content type for a body using
// the core's documented precedence: an explicitly declared Content-Type
// always wins, then magic-byte sniffing, then a text/plain default. A
// declared type is returned as given; the "+json"/"+xml" structured
// syntax suffix (e.g. "application/vnd.api+json") is recognized by
// IsJSONType and IsXMLType, not here.
func DetectContentType(declared string, body []byte) string {
	if declared != "" {
		return declared
	}
	if len(body) == 0 {
		return "text/plain; charset=UTF-8"
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return "application/json"
	}
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return "application/xml"
	}
	return http.DetectContentType(body)
}

// BaseMediaType strips parameters (e.g. ";charset=utf-8") from a
// Content-Type value, returning just the type/subtype.
func BaseMediaType(contentType string) string {
	base, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Fall back to a manual split; mime.ParseMediaType is strict
		// about parameter syntax and real-world Content-Type headers
		// aren't always well-formed.
		if i := strings.IndexByte(contentType, ';'); i >= 0 {
			return strings.TrimSpace(contentType[:i])
		}
		return strings.TrimSpace(contentType)
	}
	return base
}

// IsJSONType reports whether a content type denotes JSON, including the
// "+json" structured syntax suffix.
func IsJSONType(contentType string) bool {
	base := BaseMediaType(contentType)
	return base == "application/json" || strings.HasSuffix(base, "+json")
}

// IsXMLType reports whether a content type denotes XML, including the
// "+xml" structured syntax suffix.
func IsXMLType(contentType string) bool {
	base := BaseMediaType(contentType)
	return base == "application/xml" || base == "text/xml" || strings.HasSuffix(base, "+xml")
}

func IsFormType(contentType string) bool {
	return BaseMediaType(contentType) == "application/x-www-form-urlencoded"
}

func IsMultipartType(contentType string) bool {
	return strings.HasPrefix(BaseMediaType(contentType), "multipart/")
}

// ContentTypesEqual compares two Content-Type header values ignoring
// trailing parameters except charset, per the header-matching rule: two
// Content-Type headers are considered equal if their base media type
// matches and, when both specify a charset, the charsets also match.
func ContentTypesEqual(a, b string) bool {
	baseA, baseB := BaseMediaType(a), BaseMediaType(b)
	if !strings.EqualFold(baseA, baseB) {
		return false
	}
	chA, okA := charsetOf(a)
	chB, okB := charsetOf(b)
	if okA && okB {
		return strings.EqualFold(chA, chB)
	}
	return true
}

func charsetOf(contentType string) (string, bool) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	cs, ok := params["charset"]
	return cs, ok
}

// DecodePathOrQuery percent-decodes a path or query component for
// comparison purposes. Invalid percent-escapes or invalid UTF-8 are
// reported via ok=false so the caller can turn that into a Mismatch
// instead of propagating a decode panic.
func DecodePathOrQuery(s string) (decoded string, ok bool) {
	d, err := url.PathUnescape(s)
	if err != nil || !utf8.ValidString(d) {
		return "", false
	}
	return d, true
}

// FoldHeaderValues joins multi-valued header values the way a single
// request-line header is folded: comma-separated, with surrounding
// whitespace trimmed from each value before comparison.
func FoldHeaderValues(values []string) string {
	trimmed := make([]string, len(values))
	for i, v := range values {
		trimmed[i] = strings.TrimSpace(v)
	}
	return strings.Join(trimmed, ", ")
}

// SplitFoldedHeader reverses FoldHeaderValues for comparison against a
// multi-valued expectation: splits a comma-joined header value back into
// its component values, trimming whitespace from each.
func SplitFoldedHeader(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
