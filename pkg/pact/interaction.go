package pact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// InteractionType discriminates the Interaction tagged union. Only
// HttpRequestResponse is handled by the mock server core; the other two
// pass through storage and (de)serialization unchanged, per spec: the
// core only drives HTTP request/response interactions.
type InteractionType string

const (
	InteractionHTTP        InteractionType = "Synchronous/HTTP"
	InteractionAsyncMsg    InteractionType = "Asynchronous/Messages"
	InteractionSyncMsg     InteractionType = "Synchronous/Messages"
)

// ProviderState is one named state (with optional parameters) a provider
// must be placed in before an interaction can be replayed.
type ProviderState struct {
	Name   string
	Params map[string]any
}

// Interaction is a tagged union over the three interaction kinds a
// contract can contain. Request/Response are populated only when Type is
// InteractionHTTP; MessageContents/MessageMetadata/ResponseContents are
// populated for the two message variants and are otherwise left zero.
type Interaction struct {
	Type InteractionType

	Description    string
	ProviderStates []ProviderState
	Pending        bool
	Comments       map[string]any

	// InteractionHTTP
	Request  HttpRequest
	Response HttpResponse

	// InteractionAsyncMsg / InteractionSyncMsg
	MessageContents   Body
	MessageMetadata   map[string]string
	MessageRules      RuleSet
	MessageGenerators GeneratorSet
	ResponseContents  []Body // InteractionSyncMsg only: one or more responses
}

// Key derives the stable identity of an interaction: description plus
// its ordered provider-state list. Two interactions with the same key in
// one Contract violate the Contract invariant that keys are unique.
func (i Interaction) Key() string {
	h := sha256.New()
	h.Write([]byte(i.Description))
	for _, ps := range i.ProviderStates {
		h.Write([]byte{0})
		h.Write([]byte(ps.Name))
		names := make([]string, 0, len(ps.Params))
		for k := range ps.Params {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			h.Write([]byte(k))
			fmt.Fprintf(h, "%v", ps.Params[k])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Metadata is the top-level Contract metadata block: producer identity,
// the spec-version marker, and optional plugin configuration.
type Metadata struct {
	ProducerID    string
	SpecVersion   SpecVersion
	PluginConfig  map[string]json.RawMessage
}

// Contract is a full consumer/provider contract document: identity,
// metadata, and an ordered, key-unique sequence of interactions.
type Contract struct {
	Consumer string
	Provider string
	Metadata Metadata

	Interactions []Interaction
}

// Validate checks the Contract invariant that every interaction has a
// key unique within the contract.
func (c *Contract) Validate() error {
	seen := make(map[string]string, len(c.Interactions))
	for _, it := range c.Interactions {
		k := it.Key()
		if prev, ok := seen[k]; ok {
			return fmt.Errorf("pact: duplicate interaction key for %q (clashes with %q); "+
				"add a distinguishing provider state or description", it.Description, prev)
		}
		seen[k] = it.Description
	}
	return nil
}

// HTTPInteractions returns only the HttpRequestResponse interactions,
// preserving declaration order — the subset the mock server core acts on.
func (c *Contract) HTTPInteractions() []Interaction {
	out := make([]Interaction, 0, len(c.Interactions))
	for _, it := range c.Interactions {
		if it.Type == InteractionHTTP {
			out = append(out, it)
		}
	}
	return out
}

// FileName returns the canonical "{consumer}-{provider}.json" contract
// file name for this contract.
func (c *Contract) FileName() string {
	return fmt.Sprintf("%s-%s.json", sanitizeFileComponent(c.Consumer), sanitizeFileComponent(c.Provider))
}

func sanitizeFileComponent(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(s)
}
