package matching

import (
	"bytes"

	"github.com/pactlab/pactmock/pkg/httputil"
	"github.com/pactlab/pactmock/pkg/pact"
)

// MatchBody compares an expected interaction body against an actual
// request/response body, dispatching by content type per the precedence
// order: (1) a ContentType rule in the body rule-set, (2) the expected
// side's declared Content-Type, (3) magic-byte sniffing of the actual
// body, (4) text/plain.
func MatchBody(expected, actual pact.Body, rules pact.RuleSet) []Mismatch {
	if expected.State == pact.BodyMissing {
		return nil // no expectation recorded for this side
	}
	if (expected.State == pact.BodyNull || expected.State == pact.BodyEmpty) &&
		(actual.State == pact.BodyNull || actual.State == pact.BodyEmpty) {
		return nil
	}
	if expected.State != pact.BodyPresent {
		if bytes.Equal(expected.Content, actual.Content) {
			return nil
		}
		return []Mismatch{newMismatch(MismatchBody, "$", "expected empty/null body but actual body differs")}
	}
	if actual.State != pact.BodyPresent {
		return []Mismatch{newMismatch(MismatchBody, "$", "expected a body but actual body is absent")}
	}

	contentType := resolveBodyContentType(expected, actual, rules)
	switch {
	case httputil.IsJSONType(contentType):
		return MatchJSONBody(expected.Content, actual.Content, rules)
	case httputil.IsXMLType(contentType):
		return MatchXMLBody(expected.Content, actual.Content, rules)
	case httputil.IsFormType(contentType):
		return MatchFormBody(expected.Content, actual.Content, rules)
	case httputil.IsMultipartType(contentType):
		return MatchMultipartBody(expected.Content, actual.Content, contentType, rules)
	case isBinaryType(contentType):
		return MatchBinaryBody(expected.Content, actual.Content, rules)
	default:
		return MatchTextBody(expected.Content, actual.Content, rules)
	}
}

func resolveBodyContentType(expected, actual pact.Body, rules pact.RuleSet) string {
	if group, ok := ResolveGroup(rules, pact.CategoryBody, "$"); ok {
		for _, r := range group.Rules {
			if r.Type == pact.RuleContentType && r.Pattern != "" {
				return r.Pattern
			}
		}
	}
	return httputil.DetectContentType(expected.ContentType, actual.Content)
}

func isBinaryType(contentType string) bool {
	base := httputil.BaseMediaType(contentType)
	return base == "application/octet-stream" || base == "image/png" || base == "image/jpeg" || base == "application/pdf"
}
