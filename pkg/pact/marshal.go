package pact

import (
	"encoding/json"
	"fmt"
)

// wireInteraction is the superset wire shape covering V1-V3 (no "type"
// discriminator, only HttpRequestResponse) and V4 (a "type" field
// selecting among the three interaction kinds). Unknown/absent Type on
// read is treated as InteractionHTTP for backward compatibility with
// V1-V3 files, matching how those spec versions only ever described
// HTTP interactions.
type wireInteraction struct {
	Type             string            `json:"type,omitempty"`
	Description      string            `json:"description"`
	ProviderState    string            `json:"providerState,omitempty"`
	ProviderStates   []wireProviderState `json:"providerStates,omitempty"`
	Request          *HttpRequest      `json:"request,omitempty"`
	Response         *HttpResponse     `json:"response,omitempty"`
	Pending          bool              `json:"pending,omitempty"`
	Comments         map[string]any    `json:"comments,omitempty"`

	Contents         *Body             `json:"contents,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

type wireProviderState struct {
	Name       string         `json:"name"`
	Params     map[string]any `json:"params,omitempty"`
}

type wireContract struct {
	Consumer     wireParty          `json:"consumer"`
	Provider     wireParty          `json:"provider"`
	Interactions []wireInteraction  `json:"interactions"`
	Metadata     wireMetadata       `json:"metadata"`
}

type wireParty struct {
	Name string `json:"name"`
}

type wireMetadata struct {
	PactSpecification wirePactSpec                 `json:"pactSpecification"`
	Producer          *wireProducer                `json:"producer,omitempty"`
	PluginConfig      map[string]json.RawMessage    `json:"plugins,omitempty"`
}

type wirePactSpec struct {
	Version string `json:"version"`
}

type wireProducer struct {
	Name string `json:"name"`
}

// MarshalContract serializes a Contract to its canonical JSON form for
// the spec version recorded in c.Metadata.SpecVersion, with a trailing
// newline as the contract-file format requires.
func MarshalContract(c *Contract) ([]byte, error) {
	w := wireContract{
		Consumer: wireParty{Name: c.Consumer},
		Provider: wireParty{Name: c.Provider},
		Metadata: wireMetadata{
			PactSpecification: wirePactSpec{Version: c.Metadata.SpecVersion.String()},
			PluginConfig:      c.Metadata.PluginConfig,
		},
	}
	if c.Metadata.ProducerID != "" {
		w.Metadata.Producer = &wireProducer{Name: c.Metadata.ProducerID}
	}
	isV4 := c.Metadata.SpecVersion == SpecV4
	for _, it := range c.Interactions {
		wi := wireInteraction{
			Description: it.Description,
			Pending:     it.Pending,
			Comments:    it.Comments,
		}
		for _, ps := range it.ProviderStates {
			wi.ProviderStates = append(wi.ProviderStates, wireProviderState{Name: ps.Name, Params: ps.Params})
		}
		if isV4 {
			wi.Type = string(it.Type)
		}
		switch it.Type {
		case InteractionHTTP:
			req, resp := it.Request, it.Response
			wi.Request, wi.Response = &req, &resp
		case InteractionAsyncMsg:
			body := it.MessageContents
			wi.Contents = &body
			wi.Metadata = it.MessageMetadata
		case InteractionSyncMsg:
			if len(it.ResponseContents) > 0 {
				body := it.ResponseContents[0]
				wi.Contents = &body
			}
			wi.Metadata = it.MessageMetadata
		}
		w.Interactions = append(w.Interactions, wi)
	}
	out, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// UnmarshalContract parses a contract file of any supported spec version.
func UnmarshalContract(data []byte) (*Contract, error) {
	var w wireContract
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("pact: parse contract: %w", err)
	}
	sv := ParseSpecVersion(w.Metadata.PactSpecification.Version)
	c := &Contract{
		Consumer: w.Consumer.Name,
		Provider: w.Provider.Name,
		Metadata: Metadata{SpecVersion: sv, PluginConfig: w.Metadata.PluginConfig},
	}
	if w.Metadata.Producer != nil {
		c.Metadata.ProducerID = w.Metadata.Producer.Name
	}
	for _, wi := range w.Interactions {
		it := Interaction{
			Description: wi.Description,
			Pending:     wi.Pending,
			Comments:    wi.Comments,
		}
		if wi.ProviderState != "" {
			it.ProviderStates = append(it.ProviderStates, ProviderState{Name: wi.ProviderState})
		}
		for _, ps := range wi.ProviderStates {
			it.ProviderStates = append(it.ProviderStates, ProviderState{Name: ps.Name, Params: ps.Params})
		}

		switch InteractionType(wi.Type) {
		case InteractionAsyncMsg:
			it.Type = InteractionAsyncMsg
		case InteractionSyncMsg:
			it.Type = InteractionSyncMsg
		default:
			// V1-V3 files have no "type" field and are always HTTP; a V4
			// file explicitly marked Synchronous/HTTP lands here too.
			it.Type = InteractionHTTP
		}

		switch it.Type {
		case InteractionHTTP:
			if wi.Request != nil {
				it.Request = *wi.Request
			}
			if wi.Response != nil {
				it.Response = *wi.Response
			}
		case InteractionAsyncMsg:
			if wi.Contents != nil {
				it.MessageContents = *wi.Contents
			}
			it.MessageMetadata = wi.Metadata
		case InteractionSyncMsg:
			if wi.Contents != nil {
				it.ResponseContents = []Body{*wi.Contents}
			}
			it.MessageMetadata = wi.Metadata
		}
		c.Interactions = append(c.Interactions, it)
	}
	return c, nil
}
