package contractfile

import (
	"fmt"

	"github.com/pactlab/pactmock/pkg/pact"
)

// MergeConflictError reports that an incoming contract could not be
// merged with the contract already on disk; the existing file is left
// untouched.
type MergeConflictError struct {
	Reason string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("contract merge conflict: %s", e.Reason)
}

// Merge combines an incoming contract with the one already on disk (nil
// if this is the first write). Interactions are matched by their stable
// key: an incoming interaction with a key already present in existing
// overwrites that entry in place; a new key is appended, preserving
// existing's declaration order followed by any genuinely new
// interactions. A mismatched Consumer or Provider name is a true
// conflict — merging interactions from two different contracts into one
// file would silently corrupt the result, so it is rejected instead.
func Merge(existing, incoming *pact.Contract) (*pact.Contract, error) {
	if existing == nil {
		return incoming, nil
	}
	if existing.Consumer != incoming.Consumer || existing.Provider != incoming.Provider {
		return nil, &MergeConflictError{Reason: fmt.Sprintf(
			"existing file is %s-%s, incoming contract is %s-%s",
			existing.Consumer, existing.Provider, incoming.Consumer, incoming.Provider)}
	}

	merged := *existing
	merged.Metadata.SpecVersion = pact.Max(existing.Metadata.SpecVersion, incoming.Metadata.SpecVersion)

	index := make(map[string]int, len(existing.Interactions))
	out := make([]pact.Interaction, len(existing.Interactions))
	copy(out, existing.Interactions)
	for i, it := range out {
		index[it.Key()] = i
	}

	for _, it := range incoming.Interactions {
		if i, ok := index[it.Key()]; ok {
			out[i] = it
		} else {
			index[it.Key()] = len(out)
			out = append(out, it)
		}
	}
	merged.Interactions = out

	if err := merged.Validate(); err != nil {
		return nil, &MergeConflictError{Reason: err.Error()}
	}
	return &merged, nil
}
