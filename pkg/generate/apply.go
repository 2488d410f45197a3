package generate

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/pactlab/pactmock/pkg/httputil"
	"github.com/pactlab/pactmock/pkg/pact"
)

// ApplyToResponse regenerates an interaction's response: it walks the
// response's generator category map and splices freshly generated
// values into headers and the JSON body. Failures on any individual
// generator are logged and otherwise ignored, leaving that value as
// originally recorded in the contract — generator errors never fail the
// response pipeline.
func ApplyToResponse(resp pact.HttpResponse, mode Mode, ctx *Context, log *slog.Logger) pact.HttpResponse {
	out := resp
	out.Headers = resp.Headers.Clone()

	for path, gen := range resp.Generators[pact.CategoryHeader] {
		value, err := GenerateValue(gen, mode, ctx)
		if err != nil {
			log.Warn("header generator failed, keeping original value", "path", path, "error", err)
			continue
		}
		out.Headers.Set(headerNameFromPath(path), toDisplayString(value))
	}

	if body, ok := applyBodyGenerators(resp.Body, resp.Generators, mode, ctx, log); ok {
		out.Body = body
	}
	return out
}

func headerNameFromPath(path string) string {
	return strings.TrimPrefix(strings.TrimPrefix(path, "$.headers."), "$.header.")
}

func toDisplayString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.Trim(string(b), `"`)
}

func applyBodyGenerators(body pact.Body, generators pact.GeneratorSet, mode Mode, ctx *Context, log *slog.Logger) (pact.Body, bool) {
	byPath := generators[pact.CategoryBody]
	if len(byPath) == 0 || !body.IsPresent() || !httputil.IsJSONType(body.ContentType) {
		return pact.Body{}, false
	}
	var decoded any
	if err := json.Unmarshal(body.Content, &decoded); err != nil {
		log.Warn("body generators skipped: body is not valid JSON", "error", err)
		return pact.Body{}, false
	}
	for path, gen := range byPath {
		value, err := GenerateValue(gen, mode, ctx)
		if err != nil {
			log.Warn("body generator failed, keeping original value", "path", path, "error", err)
			continue
		}
		expr, err := jp.ParseString(bodyPathToJSONPointer(path))
		if err != nil {
			log.Warn("body generator path could not be parsed", "path", path, "error", err)
			continue
		}
		if err := expr.Set(decoded, value); err != nil {
			log.Warn("body generator path could not be applied", "path", path, "error", err)
			continue
		}
	}
	reEncoded, err := json.Marshal(decoded)
	if err != nil {
		log.Warn("body generators skipped: could not re-encode body", "error", err)
		return pact.Body{}, false
	}
	return pact.Present(reEncoded, body.ContentType), true
}

// bodyPathToJSONPointer strips the "$.body" (or bare "$") prefix a body
// generator path carries, leaving a plain ojg/jp expression relative to
// the decoded body value.
func bodyPathToJSONPointer(path string) string {
	p := strings.TrimPrefix(path, "$.body")
	p = strings.TrimPrefix(p, "$")
	p = strings.TrimPrefix(p, ".")
	if p == "" {
		return "$"
	}
	return "$." + p
}
