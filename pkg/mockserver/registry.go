package mockserver

import (
	"context"
	"fmt"
	"sync"

	"github.com/pactlab/pactmock/internal/id"
	"github.com/pactlab/pactmock/pkg/contractfile"
	"github.com/pactlab/pactmock/pkg/pact"
)

// Registry is the process-wide owner of every running mock server
// instance, looked up by an opaque id. It holds no reference back from
// an instance.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*instance
}

func NewRegistry() *Registry {
	return &Registry{instances: make(map[string]*instance)}
}

// Start binds a fresh ephemeral loopback server for contract and begins
// serving it. The returned id addresses the instance for every other
// Registry method; the returned address is the base URL
// (http(s)://host:port) requests must be sent to.
//
// A contract containing zero HttpRequestResponse interactions (an
// Asynchronous/Messages- or Synchronous/Messages-only pact) is not
// rejected: Start still binds a listener so the instance lifecycle
// (id, Shutdown, WritePact) stays uniform across every contract shape.
// Such an instance answers every request with RequestNotFound, since it
// has nothing to match against — message interactions are verified out
// of band, not by replaying them over this HTTP listener.
func (r *Registry) Start(contract *pact.Contract, cfg Config) (string, string, error) {
	if err := contract.Validate(); err != nil {
		return "", "", fmt.Errorf("contract failed validation: %w", err)
	}

	instID := id.UUID()
	inst := newInstance(instID, contract, cfg)

	srv, err := startHTTPServer(inst, cfg.TLS)
	if err != nil {
		return "", "", err
	}
	inst.srv = srv
	inst.baseURL = srv.addr()

	r.mu.Lock()
	r.instances[instID] = inst
	r.mu.Unlock()

	return instID, inst.baseURL, nil
}

// Shutdown stops instance id's listener and marks it unavailable to
// further requests. It reports whether id was a known, running instance.
func (r *Registry) Shutdown(ctx context.Context, id string) bool {
	r.mu.Lock()
	inst, ok := r.instances[id]
	if ok {
		delete(r.instances, id)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	inst.markShutdown()
	_ = inst.srv.shutdown(ctx)
	return true
}

// Mismatches returns every non-clean match attempt recorded against
// instance id, in the order they occurred, followed by a ResultMissing
// record for each HTTP interaction that no request has matched.
func (r *Registry) Mismatches(id string) ([]MatchResult, bool) {
	inst, ok := r.lookup(id)
	if !ok {
		return nil, false
	}
	return inst.mismatches(), true
}

// AllMatched reports whether every HTTP interaction in instance id's
// contract was hit by at least one cleanly matched request.
func (r *Registry) AllMatched(id string) (bool, bool) {
	inst, ok := r.lookup(id)
	if !ok {
		return false, false
	}
	return inst.allMatched(), true
}

// WritePact merges instance id's contract into the "{consumer}-
// {provider}.json" file under dir (or overwrites it, if overwrite is
// true) using the cross-process safe writer in pkg/contractfile.
func (r *Registry) WritePact(id, dir string, overwrite bool) error {
	inst, ok := r.lookup(id)
	if !ok {
		return fmt.Errorf("no mock server instance %q", id)
	}
	return contractfile.Write(dir, inst.contract, overwrite)
}

func (r *Registry) lookup(id string) (*instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[id]
	return inst, ok
}
