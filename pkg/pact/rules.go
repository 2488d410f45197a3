package pact

import "encoding/json"

// RuleType discriminates the MatchingRule tagged union. Names match the
// "match" field Pact implementations write on the wire.
type RuleType string

const (
	RuleEquality    RuleType = "equality"
	RuleRegex       RuleType = "regex"
	RuleType_       RuleType = "type" // trailing underscore: "type" collides with Go's builtin concept name
	RuleMinType     RuleType = "min-type"
	RuleMaxType     RuleType = "max-type"
	RuleMinMaxType  RuleType = "min-max-type"
	RuleInclude     RuleType = "include"
	RuleInteger     RuleType = "integer"
	RuleDecimal     RuleType = "decimal"
	RuleNumber      RuleType = "number"
	RuleNull        RuleType = "null"
	RuleBoolean     RuleType = "boolean"
	RuleDate        RuleType = "date"
	RuleTime        RuleType = "time"
	RuleDateTime    RuleType = "datetime"
	RuleContentType RuleType = "content-type"
	RuleValues      RuleType = "values"
	RuleArrayContains RuleType = "array-contains"
	RuleStatusCode  RuleType = "status-code"
	RuleNotEmpty    RuleType = "not-empty"
	RuleSemver      RuleType = "semver"
	RuleEachKey     RuleType = "each-key"
	RuleEachValue   RuleType = "each-value"
)

// StatusCodeClass is the payload of a StatusCode rule.
type StatusCodeClass string

const (
	StatusInfo          StatusCodeClass = "info"
	StatusSuccess       StatusCodeClass = "success"
	StatusRedirect      StatusCodeClass = "redirect"
	StatusClientError   StatusCodeClass = "clientError"
	StatusServerError   StatusCodeClass = "serverError"
	StatusNonError      StatusCodeClass = "nonError"
	StatusError         StatusCodeClass = "error"
)

// ArrayContainsVariant is one allowed shape inside an ArrayContains rule.
type ArrayContainsVariant struct {
	Index        int
	Rules        RuleSet
	Generators   GeneratorSet
}

// MatchingRule is a tagged union over the twenty-three rule variants the core
// supports. Exactly one of the typed fields is meaningful for a given
// Type; this mirrors how pkg/mock/types.go tags HTTPSpec/WebSocketSpec/...
// by a Type discriminator rather than using an open interface hierarchy.
type MatchingRule struct {
	Type RuleType

	// Regex, ContentType
	Pattern string

	// MinType, MaxType
	Min int
	Max int

	// Include
	Substr string

	// Date, Time, DateTime: a Java-DateTimeFormatter-style token format
	Format string

	// StatusCode
	StatusClass StatusCodeClass

	// ArrayContains
	Variants []ArrayContainsVariant

	// EachKey, EachValue: rules applied to every key/value of a map
	Nested []MatchingRule
}

// CombinePolicy says how multiple rules attached to the same path
// expression are combined.
type CombinePolicy string

const (
	CombineAnd CombinePolicy = "AND"
	CombineOr  CombinePolicy = "OR"
)

// RuleGroup is the set of rules attached to one path expression plus
// their combine policy.
type RuleGroup struct {
	Path    PathExpression
	Rules   []MatchingRule
	Combine CombinePolicy
}

// RuleCategory names one of the six matching-rule categories a Pact
// interaction side's rule set is partitioned into.
type RuleCategory string

const (
	CategoryPath     RuleCategory = "path"
	CategoryQuery    RuleCategory = "query"
	CategoryHeader   RuleCategory = "header"
	CategoryBody     RuleCategory = "body"
	CategoryStatus   RuleCategory = "status"
	CategoryMetadata RuleCategory = "metadata"
)

// RuleSet is the full matching-rule document attached to a request or
// response: a category -> (path expression -> rule group) map.
type RuleSet map[RuleCategory][]RuleGroup

// Lookup returns every rule group in a category whose path expression
// could plausibly apply; callers resolve "most specific wins" themselves
// since that depends on the concrete value being matched (see
// internal/matching).
func (rs RuleSet) Lookup(cat RuleCategory) []RuleGroup {
	if rs == nil {
		return nil
	}
	return rs[cat]
}

// jsonMatcherEntry is the wire shape of one entry in a "matchingRules"
// category path map: {"matchers": [...], "combine": "AND"}.
type jsonMatcherEntry struct {
	Matchers []jsonMatcher `json:"matchers"`
	Combine  string        `json:"combine,omitempty"`
}

// jsonMatcher accepts both the canonical {"match": "regex", "regex": "..."}
// shape and the integration-friendly {"pact:matcher:type": "regex",
// "value": ...} shape on read; it always writes the canonical shape.
type jsonMatcher struct {
	Match       string                     `json:"match,omitempty"`
	AltType     string                     `json:"pact:matcher:type,omitempty"`
	Regex       string                     `json:"regex,omitempty"`
	Min         *int                       `json:"min,omitempty"`
	Max         *int                       `json:"max,omitempty"`
	Value       json.RawMessage            `json:"value,omitempty"`
	Format      string                     `json:"format,omitempty"`
	Status      string                     `json:"status,omitempty"`
	Rules       []jsonMatcher              `json:"rules,omitempty"`
	Variants    []jsonArrayContainsVariant `json:"variants,omitempty"`
}

// jsonArrayContainsVariant is one entry of an ArrayContains rule's
// "variants" list: the variant's position plus its own nested rule set
// and generator set, applied to whichever array element matches it.
type jsonArrayContainsVariant struct {
	Index      int          `json:"index"`
	Rules      RuleSet      `json:"matchingRules,omitempty"`
	Generators GeneratorSet `json:"generators,omitempty"`
}

func (m jsonMatcher) resolvedType() string {
	if m.Match != "" {
		return m.Match
	}
	return m.AltType
}

// MarshalJSON serializes a RuleSet in the canonical category->path->
// {matchers,combine} shape used by spec versions V2+.
func (rs RuleSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]jsonMatcherEntry, len(rs))
	for cat, groups := range rs {
		catMap := make(map[string]jsonMatcherEntry, len(groups))
		for _, g := range groups {
			entry := jsonMatcherEntry{Combine: string(g.Combine)}
			if entry.Combine == "" {
				entry.Combine = string(CombineAnd)
			}
			for _, r := range g.Rules {
				entry.Matchers = append(entry.Matchers, toJSONMatcher(r))
			}
			catMap[g.Path.String()] = entry
		}
		out[string(cat)] = catMap
	}
	return json.Marshal(out)
}

func toJSONMatcher(r MatchingRule) jsonMatcher {
	jm := jsonMatcher{Match: string(r.Type)}
	switch r.Type {
	case RuleRegex:
		jm.Regex = r.Pattern
	case RuleMinType:
		jm.Min = &r.Min
	case RuleMaxType:
		jm.Max = &r.Max
	case RuleMinMaxType:
		jm.Min, jm.Max = &r.Min, &r.Max
	case RuleDate, RuleTime, RuleDateTime:
		jm.Format = r.Format
	case RuleContentType:
		jm.Regex = r.Pattern
	case RuleInclude:
		jm.Value, _ = json.Marshal(r.Substr)
	case RuleStatusCode:
		jm.Status = string(r.StatusClass)
	case RuleEachKey, RuleEachValue:
		for _, nested := range r.Nested {
			jm.Rules = append(jm.Rules, toJSONMatcher(nested))
		}
	case RuleArrayContains:
		for _, v := range r.Variants {
			jm.Variants = append(jm.Variants, jsonArrayContainsVariant{
				Index: v.Index, Rules: v.Rules, Generators: v.Generators})
		}
	}
	return jm
}

// UnmarshalJSON parses a RuleSet from either wire shape.
func (rs *RuleSet) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]jsonMatcherEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(RuleSet, len(raw))
	for cat, catMap := range raw {
		var groups []RuleGroup
		for path, entry := range catMap {
			g := RuleGroup{Path: ParsePathExpression(path), Combine: CombinePolicy(entry.Combine)}
			if g.Combine == "" {
				g.Combine = CombineAnd
			}
			for _, jm := range entry.Matchers {
				g.Rules = append(g.Rules, fromJSONMatcher(jm))
			}
			groups = append(groups, g)
		}
		out[RuleCategory(cat)] = groups
	}
	*rs = out
	return nil
}

func fromJSONMatcher(jm jsonMatcher) MatchingRule {
	r := MatchingRule{Type: RuleType(jm.resolvedType())}
	switch r.Type {
	case RuleRegex, RuleContentType:
		r.Pattern = jm.Regex
	case RuleMinType:
		if jm.Min != nil {
			r.Min = *jm.Min
		}
	case RuleMaxType:
		if jm.Max != nil {
			r.Max = *jm.Max
		}
	case RuleMinMaxType:
		if jm.Min != nil {
			r.Min = *jm.Min
		}
		if jm.Max != nil {
			r.Max = *jm.Max
		}
	case RuleDate, RuleTime, RuleDateTime:
		r.Format = jm.Format
	case RuleInclude:
		_ = json.Unmarshal(jm.Value, &r.Substr)
	case RuleStatusCode:
		r.StatusClass = StatusCodeClass(jm.Status)
	case RuleEachKey, RuleEachValue:
		for _, nested := range jm.Rules {
			r.Nested = append(r.Nested, fromJSONMatcher(nested))
		}
	case RuleArrayContains:
		for _, v := range jm.Variants {
			r.Variants = append(r.Variants, ArrayContainsVariant{
				Index: v.Index, Rules: v.Rules, Generators: v.Generators})
		}
	}
	return r
}
