package pact

import "encoding/json"

// GeneratorType discriminates the Generator tagged union.
type GeneratorType string

const (
	GenRandomInt             GeneratorType = "RandomInt"
	GenRandomDecimal         GeneratorType = "RandomDecimal"
	GenRandomHex             GeneratorType = "RandomHexadecimal"
	GenRandomString          GeneratorType = "RandomString"
	GenRegex                 GeneratorType = "Regex"
	GenUuid                  GeneratorType = "Uuid"
	GenDate                  GeneratorType = "Date"
	GenTime                  GeneratorType = "Time"
	GenDateTime              GeneratorType = "DateTime"
	GenRandomBoolean         GeneratorType = "RandomBoolean"
	GenProviderState         GeneratorType = "ProviderState"
	GenMockServerURL         GeneratorType = "MockServerURL"
	GenArrayContains         GeneratorType = "ArrayContains"
)

// UuidFormat selects how a generated UUID is rendered.
type UuidFormat string

const (
	UuidSimple     UuidFormat = "simple"
	UuidLowerCase  UuidFormat = "lower-case-hyphenated"
	UuidUpperCase  UuidFormat = "upper-case-hyphenated"
	UuidUrn        UuidFormat = "URN"
)

// Generator is a tagged union over the thirteen generator variants.
type Generator struct {
	Type GeneratorType

	// RandomInt
	Min int
	Max int

	// RandomDecimal
	Digits int

	// RandomHex, RandomString
	Size int

	// Regex
	Pattern string

	// Uuid
	Format UuidFormat

	// Date, Time, DateTime
	DateFormat string

	// ProviderState
	Expression string
	DataType   string

	// MockServerURL
	Regex   string
	Example string
}

// GeneratorSet is the category->path->Generator map attached to a
// request or response side, mirroring RuleSet's shape.
type GeneratorSet map[RuleCategory]map[string]Generator

func (gs GeneratorSet) Lookup(cat RuleCategory, path string) (Generator, bool) {
	if gs == nil {
		return Generator{}, false
	}
	g, ok := gs[cat][path]
	return g, ok
}

type jsonGenerator struct {
	Type       string `json:"type"`
	Min        *int   `json:"min,omitempty"`
	Max        *int   `json:"max,omitempty"`
	Digits     *int   `json:"digits,omitempty"`
	Size       *int   `json:"size,omitempty"`
	Regex      string `json:"regex,omitempty"`
	Format     string `json:"format,omitempty"`
	Expression string `json:"expression,omitempty"`
	DataType   string `json:"dataType,omitempty"`
	Example    string `json:"example,omitempty"`
}

func (gs GeneratorSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]jsonGenerator, len(gs))
	for cat, byPath := range gs {
		pm := make(map[string]jsonGenerator, len(byPath))
		for path, g := range byPath {
			pm[path] = toJSONGenerator(g)
		}
		out[string(cat)] = pm
	}
	return json.Marshal(out)
}

func toJSONGenerator(g Generator) jsonGenerator {
	jg := jsonGenerator{Type: string(g.Type)}
	switch g.Type {
	case GenRandomInt:
		jg.Min, jg.Max = &g.Min, &g.Max
	case GenRandomDecimal:
		jg.Digits = &g.Digits
	case GenRandomHex, GenRandomString:
		jg.Size = &g.Size
	case GenRegex:
		jg.Regex = g.Pattern
	case GenUuid:
		jg.Format = string(g.Format)
	case GenDate, GenTime, GenDateTime:
		jg.Format = g.DateFormat
	case GenProviderState:
		jg.Expression, jg.DataType = g.Expression, g.DataType
	case GenMockServerURL:
		jg.Regex, jg.Example = g.Regex, g.Example
	}
	return jg
}

func (gs *GeneratorSet) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]jsonGenerator
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(GeneratorSet, len(raw))
	for cat, byPath := range raw {
		pm := make(map[string]Generator, len(byPath))
		for path, jg := range byPath {
			pm[path] = fromJSONGenerator(jg)
		}
		out[RuleCategory(cat)] = pm
	}
	*gs = out
	return nil
}

func fromJSONGenerator(jg jsonGenerator) Generator {
	g := Generator{Type: GeneratorType(jg.Type)}
	switch g.Type {
	case GenRandomInt:
		if jg.Min != nil {
			g.Min = *jg.Min
		}
		if jg.Max != nil {
			g.Max = *jg.Max
		}
	case GenRandomDecimal:
		if jg.Digits != nil {
			g.Digits = *jg.Digits
		}
	case GenRandomHex, GenRandomString:
		if jg.Size != nil {
			g.Size = *jg.Size
		}
	case GenRegex:
		g.Pattern = jg.Regex
	case GenUuid:
		g.Format = UuidFormat(jg.Format)
	case GenDate, GenTime, GenDateTime:
		g.DateFormat = jg.Format
	case GenProviderState:
		g.Expression, g.DataType = jg.Expression, jg.DataType
	case GenMockServerURL:
		g.Regex, g.Example = jg.Regex, jg.Example
	}
	return g
}
