package pact

import "encoding/json"

// BodyState tags which of the four body states a request/response side is
// in. Present and Empty both carry zero-length-or-more bytes; the
// distinction that matters to matching is Present-with-content-type vs.
// the other three, which always compare by byte equality (see
// internal/matching).
type BodyState int

const (
	// BodyMissing means no body field was present in the contract at all
	// (as opposed to an explicit empty/null body).
	BodyMissing BodyState = iota
	BodyNull
	BodyEmpty
	BodyPresent
)

// Body is a tagged variant over the four body states a Pact interaction
// side can declare. Present bodies carry raw bytes plus an optional
// declared content type; the other three states carry no payload.
type Body struct {
	State       BodyState
	Content     []byte
	ContentType string // only meaningful when State == BodyPresent
}

// Missing is the zero value; kept as a named constructor for clarity at
// call sites that build HttpRequest/HttpResponse literals by hand.
func Missing() Body { return Body{State: BodyMissing} }

func Null() Body { return Body{State: BodyNull} }

func Empty() Body { return Body{State: BodyEmpty} }

func Present(content []byte, contentType string) Body {
	return Body{State: BodyPresent, Content: content, ContentType: contentType}
}

func (b Body) IsPresent() bool { return b.State == BodyPresent }

// bodyWire is the on-the-wire shape of a Pact body field: either absent
// (BodyMissing, handled by the caller checking for a missing JSON key),
// JSON null (BodyNull), or a JSON value that is itself the body content.
// Pact contract files store JSON bodies as nested JSON, not as a raw
// string, so MarshalJSON/UnmarshalJSON round-trip through json.RawMessage
// rather than a wrapper struct.
func (b Body) MarshalJSON() ([]byte, error) {
	switch b.State {
	case BodyNull, BodyMissing:
		return []byte("null"), nil
	case BodyEmpty:
		return []byte(`""`), nil
	default:
		if isJSONContentType(b.ContentType) && json.Valid(b.Content) {
			return b.Content, nil
		}
		// Non-JSON bodies are embedded as a base-encoded string field by
		// most Pact implementations' "body" key when the content type
		// isn't JSON; we keep it simple and store raw text, since the
		// contract-file format this core targets is JSON bodies plus a
		// handful of text/form fixtures used in the test suite.
		return json.Marshal(string(b.Content))
	}
}

func (b *Body) UnmarshalJSON(data []byte) error {
	trimmed := trimSpaceBytes(data)
	if string(trimmed) == "null" {
		*b = Body{State: BodyNull}
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if asString == "" {
			*b = Body{State: BodyEmpty}
			return nil
		}
		*b = Body{State: BodyPresent, Content: []byte(asString), ContentType: "text/plain"}
		return nil
	}
	// Anything else is a JSON value (object/array/number/bool) representing
	// a JSON body verbatim.
	*b = Body{State: BodyPresent, Content: append([]byte(nil), data...), ContentType: "application/json"}
	return nil
}

func trimSpaceBytes(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isJSONSpace(b[start]) {
		start++
	}
	for end > start && isJSONSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isJSONContentType(ct string) bool {
	return ct == "application/json" || ct == "" ||
		len(ct) > 5 && (ct[len(ct)-5:] == "+json")
}
