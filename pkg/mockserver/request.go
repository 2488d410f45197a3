package mockserver

import (
	"io"
	"net/http"
	"net/url"

	"github.com/pactlab/pactmock/pkg/httputil"
	"github.com/pactlab/pactmock/pkg/pact"
)

// ActualRequest is the concrete, already-consumed form of an incoming
// *http.Request: the body is read exactly once by readActualRequest and
// carried as bytes from there on, since both the interaction matcher and
// (on a 500) the mismatch response need to inspect it without the
// re-read-the-socket problem a live *http.Request body poses.
type ActualRequest struct {
	Method  string
	Path    string
	Query   pact.Query
	Headers *pact.Headers
	Body    pact.Body
}

// readActualRequest drains r.Body once and builds an ActualRequest from
// it. Percent-decoding of the path is deferred to the matcher, which
// needs to report a Mismatch (not panic) on invalid escapes.
func readActualRequest(r *http.Request) (*ActualRequest, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	defer r.Body.Close()

	headers := pact.NewHeaders()
	for name, values := range r.Header {
		for _, v := range values {
			headers.Add(name, v)
		}
	}

	query := pact.Query{}
	for name, values := range r.URL.Query() {
		for _, v := range values {
			vv := v
			query[name] = append(query[name], &vv)
		}
	}

	body := pact.Empty()
	if len(raw) > 0 {
		declared := r.Header.Get("Content-Type")
		body = pact.Present(raw, httputil.DetectContentType(declared, raw))
	}

	return &ActualRequest{
		Method:  r.Method,
		Path:    r.URL.EscapedPath(),
		Query:   query,
		Headers: headers,
		Body:    body,
	}, nil
}

// rawQueryValues builds a pact.Query from url.Values without going
// through an *http.Request.
func rawQueryValues(values url.Values) pact.Query {
	q := pact.Query{}
	for name, vs := range values {
		for _, v := range vs {
			vv := v
			q[name] = append(q[name], &vv)
		}
	}
	return q
}
