package mockserver

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/pactlab/pactmock/pkg/generate"
	"github.com/pactlab/pactmock/pkg/pact"
)

// Config controls the behavior of one running mock server instance.
type Config struct {
	TLS   bool
	CORS  CORSConfig
	Mode  generate.Mode
	Log   *slog.Logger
}

// instance is the live state behind one registered mock server: the
// contract it is replaying, every match attempt recorded against it
// (for AllMatched/Mismatches reporting), and the httpServer that owns
// its listener. It holds no reference back to the Registry it was
// started from.
type instance struct {
	id       string
	contract *pact.Contract
	config   Config
	baseURL  string

	mu       sync.Mutex
	attempts []MatchResult
	shutdown bool

	srv *httpServer
}

func newInstance(id string, contract *pact.Contract, cfg Config) *instance {
	return &instance{id: id, contract: contract, config: cfg}
}

// ServeHTTP makes an instance usable directly as the http.Handler a
// httpServer serves, satisfying the http.Handler interface.
func (inst *instance) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	inst.handle(w, r)
}

// handle is the core request pipeline: CORS preflight short-circuit,
// then (post-shutdown) a 501, then match-generate-respond.
func (inst *instance) handle(w http.ResponseWriter, r *http.Request) {
	if inst.config.CORS.Enabled && isPreflight(r) {
		inst.config.CORS.serve(w, r, inst.interactionMethods())
		return
	}

	inst.mu.Lock()
	shutdown := inst.shutdown
	inst.mu.Unlock()
	if shutdown {
		http.Error(w, "mock server instance has been shut down", http.StatusNotImplemented)
		return
	}

	actual, err := readActualRequest(r)
	if err != nil {
		http.Error(w, "failed to read request body: "+err.Error(), http.StatusInternalServerError)
		return
	}

	result := SelectInteraction(actual, inst.contract.HTTPInteractions())
	inst.record(result)
	inst.respond(w, result)
}

func (inst *instance) record(result MatchResult) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.attempts = append(inst.attempts, result)
}

func (inst *instance) respond(w http.ResponseWriter, result MatchResult) {
	switch result.Kind {
	case ResultMatched:
		ctx := &generate.Context{MockServerBaseURL: inst.baseURL}
		resp := generate.ApplyToResponse(*result.MatchedResponse, inst.config.Mode, ctx, inst.logger())
		writeHTTPResponse(w, resp)
	default:
		writeMismatchResponse(w, result)
	}
}

func (inst *instance) logger() *slog.Logger {
	if inst.config.Log != nil {
		return inst.config.Log
	}
	return slog.Default()
}

// mismatches returns every recorded attempt that did not cleanly match,
// plus a RequestMissing-equivalent (ResultMissing) record for every
// interaction in the contract that no attempt ever matched cleanly —
// computed fresh each call, not stored on the attempts log, since an
// interaction can only be known "missing" once the whole observed set
// is in hand.
func (inst *instance) mismatches() []MatchResult {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	hit := make(map[string]bool, len(inst.attempts))
	var out []MatchResult
	for _, a := range inst.attempts {
		if a.Kind == ResultMatched {
			hit[a.InteractionKey] = true
			continue
		}
		out = append(out, a)
	}
	for _, it := range inst.contract.HTTPInteractions() {
		if !hit[it.Key()] {
			out = append(out, MatchResult{Kind: ResultMissing, InteractionKey: it.Key()})
		}
	}
	return out
}

// allMatched reports whether every interaction in the contract was hit
// by at least one cleanly matched request during this instance's life.
func (inst *instance) allMatched() bool {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	hit := make(map[string]bool, len(inst.attempts))
	for _, a := range inst.attempts {
		if a.Kind == ResultMatched {
			hit[a.InteractionKey] = true
		}
	}
	for _, it := range inst.contract.HTTPInteractions() {
		if !hit[it.Key()] {
			return false
		}
	}
	return true
}

// interactionMethods lists the HTTP methods referenced by this
// instance's contract, in declaration order, for the CORS preflight
// Allow-Methods header.
func (inst *instance) interactionMethods() []string {
	its := inst.contract.HTTPInteractions()
	out := make([]string, 0, len(its))
	for _, it := range its {
		out = append(out, it.Request.Method)
	}
	return out
}

func (inst *instance) markShutdown() {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.shutdown = true
}
