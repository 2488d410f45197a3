package generate

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pactlab/pactmock/internal/matching"
	"github.com/pactlab/pactmock/pkg/pact"
)

// Mode selects which side of the Pact ecosystem is generating values.
// Only Consumer is exercised by the mock server core; Provider is
// modeled so the generator engine's API matches the spec's two-mode
// design and can be reused by a future provider-verification tool.
type Mode int

const (
	ModeConsumer Mode = iota
	ModeProvider
)

// Context supplies the runtime inputs a handful of generator variants
// need: the bound mock server's base URL (MockServerURL) and the active
// provider-state parameters (ProviderState).
type Context struct {
	MockServerBaseURL string
	ProviderState     map[string]any
}

// GenerateValue produces a concrete value for a single generator. A
// returned error means the caller should leave the original value
// untouched rather than splice in a zero value — generator failures are
// always non-fatal per the core's error-handling design.
func GenerateValue(gen pact.Generator, mode Mode, ctx *Context) (any, error) {
	switch gen.Type {
	case pact.GenRandomInt:
		return randomInt(gen.Min, gen.Max), nil

	case pact.GenRandomDecimal:
		return randomDecimal(gen.Digits), nil

	case pact.GenRandomHex:
		return randomHex(gen.Size), nil

	case pact.GenRandomString:
		return randomString(gen.Size), nil

	case pact.GenRegex:
		return generateFromRegex(gen.Pattern)

	case pact.GenUuid:
		return formatUUID(uuid.New(), gen.Format), nil

	case pact.GenRandomBoolean:
		return randomBoolean(), nil

	case pact.GenDate, pact.GenTime, pact.GenDateTime:
		layout, err := matching.ConvertJavaFormat(gen.DateFormat)
		if err != nil {
			return nil, err
		}
		return time.Now().UTC().Format(layout), nil

	case pact.GenProviderState:
		if ctx == nil {
			return nil, fmt.Errorf("provider-state generator used with no context")
		}
		v, ok := ctx.ProviderState[gen.Expression]
		if !ok {
			return nil, fmt.Errorf("provider state has no value for expression %q", gen.Expression)
		}
		return v, nil

	case pact.GenMockServerURL:
		if ctx == nil || ctx.MockServerBaseURL == "" {
			return nil, fmt.Errorf("mock server URL generator used with no running server context")
		}
		return rewriteMockServerURL(gen, ctx.MockServerBaseURL)

	case pact.GenArrayContains:
		return nil, fmt.Errorf("array-contains generator has no single scalar value")

	default:
		return nil, fmt.Errorf("unknown generator variant %q", gen.Type)
	}
}

func formatUUID(u uuid.UUID, format pact.UuidFormat) string {
	switch format {
	case pact.UuidSimple:
		return strings.ReplaceAll(u.String(), "-", "")
	case pact.UuidUpperCase:
		return strings.ToUpper(u.String())
	case pact.UuidUrn:
		return u.URN()
	default:
		return u.String()
	}
}

func rewriteMockServerURL(gen pact.Generator, baseURL string) (string, error) {
	re, err := regexp.Compile(gen.Regex)
	if err != nil {
		return "", fmt.Errorf("invalid mock-server-url regex %q: %w", gen.Regex, err)
	}
	loc := re.FindStringIndex(gen.Example)
	if loc == nil {
		return gen.Example, nil
	}
	return gen.Example[:loc[0]] + baseURL + gen.Example[loc[1]:], nil
}

// generateFromRegex produces a string from a (restricted) subset of the
// given regex: literal runs are copied, a character class contributes
// its first rune, and a repetition emits its minimum count (at least
// one); anchors and other zero-width nodes contribute nothing. Patterns
// that regexp/syntax cannot parse (look-around, backreferences) return
// an error rather than a value.
func generateFromRegex(pattern string) (string, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return "", fmt.Errorf("invalid regex generator pattern %q: %w", pattern, err)
	}
	var b strings.Builder
	generateFromRegexNode(re, &b)
	return b.String(), nil
}

func generateFromRegexNode(re *syntax.Regexp, b *strings.Builder) {
	switch re.Op {
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			b.WriteRune(r)
		}
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			generateFromRegexNode(sub, b)
		}
	case syntax.OpCapture:
		for _, sub := range re.Sub {
			generateFromRegexNode(sub, b)
		}
	case syntax.OpCharClass:
		if len(re.Rune) >= 2 {
			b.WriteRune(re.Rune[0])
		}
	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat:
		count := re.Min
		if count == 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			for _, sub := range re.Sub {
				generateFromRegexNode(sub, b)
			}
		}
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		b.WriteRune('x')
	}
}
