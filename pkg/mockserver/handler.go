package mockserver

import (
	"net/http"

	"github.com/pactlab/pactmock/pkg/httputil"
	"github.com/pactlab/pactmock/pkg/pact"
)

// writeHTTPResponse writes a matched interaction's (already generator-
// applied) response verbatim: status, every recorded header, and the
// raw body bytes.
func writeHTTPResponse(w http.ResponseWriter, resp pact.HttpResponse) {
	header := w.Header()
	if resp.Headers != nil {
		for _, name := range resp.Headers.Names() {
			for _, v := range resp.Headers.Values(name) {
				header.Add(name, v)
			}
		}
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if resp.Body.IsPresent() {
		_, _ = w.Write(resp.Body.Content)
	}
}

type mismatchDetail struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Detail string `json:"detail"`
}

type mismatchResponseBody struct {
	Error      string           `json:"error"`
	Method     string           `json:"method"`
	Path       string           `json:"path"`
	Mismatches []mismatchDetail `json:"mismatches,omitempty"`
}

// writeMismatchResponse answers an unmatched or partially-matched
// request with a 500 and a JSON body listing every accumulated
// mismatch, so a consumer test failure is diagnosable without cross-
// referencing server logs.
func writeMismatchResponse(w http.ResponseWriter, result MatchResult) {
	body := mismatchResponseBody{
		Method: result.Request.Method,
		Path:   result.Request.Path,
	}
	switch result.Kind {
	case ResultNotFound:
		body.Error = "no interaction found matching this request"
	case ResultMismatch:
		body.Error = "request matched an interaction's method and path but not its other fields"
	default:
		body.Error = "request did not match any configured interaction"
	}
	for _, m := range result.Mismatches {
		body.Mismatches = append(body.Mismatches, mismatchDetail{Kind: string(m.Kind), Path: m.Path, Detail: m.Detail})
	}
	httputil.WriteJSON(w, http.StatusInternalServerError, body)
}
