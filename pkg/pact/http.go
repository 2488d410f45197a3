package pact

import (
	"encoding/json"
	"sort"
	"strings"
)

// Query is name -> ordered sequence of optional string values. A nil
// element is a name given without a value, as "?flag" in a contract's
// query-string form is read; a name that does not occur has no entry at
// all. Values taken from a live request are never nil: there "?flag"
// gives a pointer to an empty string.
type Query map[string][]*string

// Headers is a case-insensitive name -> ordered sequence of string values
// map. Lookups normalize the key to lower-case internally while
// preserving the original casing supplied at construction for output.
type Headers struct {
	order  []string          // original-case names, insertion order
	lower  map[string]string // lower -> original case
	values map[string][]string
}

func NewHeaders() *Headers {
	return &Headers{lower: map[string]string{}, values: map[string][]string{}}
}

// Add appends a value under name, preserving the first-seen casing.
func (h *Headers) Add(name, value string) {
	lc := strings.ToLower(name)
	if _, ok := h.lower[lc]; !ok {
		h.lower[lc] = name
		h.order = append(h.order, name)
	}
	canon := h.lower[lc]
	h.values[canon] = append(h.values[canon], value)
}

// Values returns every value recorded under name, case-insensitively.
func (h *Headers) Values(name string) []string {
	lc := strings.ToLower(name)
	canon, ok := h.lower[lc]
	if !ok {
		return nil
	}
	return h.values[canon]
}

// Get returns the comma-joined single value for name, matching the
// convention HTTP uses for multi-valued headers folded into one line.
func (h *Headers) Get(name string) string {
	return strings.Join(h.Values(name), ", ")
}

func (h *Headers) Has(name string) bool {
	_, ok := h.lower[strings.ToLower(name)]
	return ok
}

// Names returns header names in first-seen order.
func (h *Headers) Names() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Set replaces every value under name with a single value, preserving
// first-seen casing if the header already exists.
func (h *Headers) Set(name, value string) {
	lc := strings.ToLower(name)
	canon, ok := h.lower[lc]
	if !ok {
		h.lower[lc] = name
		h.order = append(h.order, name)
		canon = name
	}
	h.values[canon] = []string{value}
}

// Clone returns a deep copy, since generator application must not
// mutate the Contract's own immutable request/response definitions.
func (h *Headers) Clone() *Headers {
	if h == nil {
		return NewHeaders()
	}
	out := NewHeaders()
	for _, name := range h.order {
		for _, v := range h.values[name] {
			out.Add(name, v)
		}
	}
	return out
}

func (h *Headers) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(h.order))
	for _, name := range h.order {
		out[name] = h.Get(name)
	}
	return json.Marshal(out)
}

func (h *Headers) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*h = *NewHeaders()
	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		var asSlice []string
		if err := json.Unmarshal(raw[name], &asSlice); err == nil {
			for _, v := range asSlice {
				h.Add(name, v)
			}
			continue
		}
		var asString string
		if err := json.Unmarshal(raw[name], &asString); err != nil {
			return err
		}
		for _, part := range strings.Split(asString, ",") {
			h.Add(name, strings.TrimSpace(part))
		}
	}
	return nil
}

// HttpRequest is the expected-request half of an HttpRequestResponse
// interaction.
type HttpRequest struct {
	Method         string
	Path           string
	Query          Query
	Headers        *Headers
	Body           Body
	MatchingRules  RuleSet
	Generators     GeneratorSet
}

// HttpResponse is the expected-response half of an HttpRequestResponse
// interaction.
type HttpResponse struct {
	Status        int
	Headers       *Headers
	Body          Body
	MatchingRules RuleSet
	Generators    GeneratorSet
}

type httpRequestWire struct {
	Method        string          `json:"method"`
	Path          string          `json:"path"`
	Query         json.RawMessage `json:"query,omitempty"`
	Headers       *Headers        `json:"headers,omitempty"`
	Body          *Body           `json:"body,omitempty"`
	MatchingRules RuleSet         `json:"matchingRules,omitempty"`
	Generators    GeneratorSet    `json:"generators,omitempty"`
}

func (r HttpRequest) MarshalJSON() ([]byte, error) {
	w := httpRequestWire{Method: r.Method, Path: r.Path, Headers: r.Headers,
		MatchingRules: r.MatchingRules, Generators: r.Generators}
	if r.Body.State != BodyMissing {
		w.Body = &r.Body
	}
	if len(r.Query) > 0 {
		w.Query, _ = marshalQuery(r.Query)
	}
	return json.Marshal(w)
}

func (r *HttpRequest) UnmarshalJSON(data []byte) error {
	var w httpRequestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = HttpRequest{Method: w.Method, Path: w.Path, Headers: w.Headers,
		MatchingRules: w.MatchingRules, Generators: w.Generators}
	if w.Body != nil {
		r.Body = *w.Body
	} else {
		r.Body = Missing()
	}
	if len(w.Query) > 0 {
		q, err := unmarshalQuery(w.Query)
		if err != nil {
			return err
		}
		r.Query = q
	}
	return nil
}

type httpResponseWire struct {
	Status        int          `json:"status"`
	Headers       *Headers     `json:"headers,omitempty"`
	Body          *Body        `json:"body,omitempty"`
	MatchingRules RuleSet      `json:"matchingRules,omitempty"`
	Generators    GeneratorSet `json:"generators,omitempty"`
}

func (r HttpResponse) MarshalJSON() ([]byte, error) {
	w := httpResponseWire{Status: r.Status, Headers: r.Headers,
		MatchingRules: r.MatchingRules, Generators: r.Generators}
	if r.Body.State != BodyMissing {
		w.Body = &r.Body
	}
	return json.Marshal(w)
}

func (r *HttpResponse) UnmarshalJSON(data []byte) error {
	var w httpResponseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = HttpResponse{Status: w.Status, Headers: w.Headers,
		MatchingRules: w.MatchingRules, Generators: w.Generators}
	if w.Body != nil {
		r.Body = *w.Body
	} else {
		r.Body = Missing()
	}
	return nil
}

// marshalQuery writes Query in the V3 object-of-arrays form
// ({"name": ["value", ...]}), writing a nil value as "". The older
// "name=value&name=value" string form is accepted on read via
// unmarshalQuery's fallback but never produced.
func marshalQuery(q Query) (json.RawMessage, error) {
	obj := make(map[string][]string, len(q))
	for name, values := range q {
		for _, v := range values {
			if v == nil {
				obj[name] = append(obj[name], "")
			} else {
				obj[name] = append(obj[name], *v)
			}
		}
	}
	return json.Marshal(obj)
}

func unmarshalQuery(data json.RawMessage) (Query, error) {
	// V3 object-of-arrays shape.
	var asObj map[string][]string
	if err := json.Unmarshal(data, &asObj); err == nil {
		q := Query{}
		for name, values := range asObj {
			for _, v := range values {
				vv := v
				q[name] = append(q[name], &vv)
			}
		}
		return q, nil
	}
	// V1/V1.1 query-string shape: "a=1&b=2".
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		q := Query{}
		for _, pair := range strings.Split(asString, "&") {
			if pair == "" {
				continue
			}
			parts := strings.SplitN(pair, "=", 2)
			name := parts[0]
			if len(parts) == 2 {
				v := parts[1]
				q[name] = append(q[name], &v)
			} else {
				q[name] = append(q[name], nil)
			}
		}
		return q, nil
	}
	return nil, nil
}
