package enrichment

import (
	"context"
	"sync"
)

// State is a step of the enrichment state machine.
type State string

// Enrichment states. A run goes Idle, FetchingPrimary, Parsing, then
// optionally FetchingExtended and ParsingExtended, and ends in Done or
// Failed.
const (
	StateIdle             State = "idle"
	StateFetchingPrimary  State = "fetching_primary"
	StateParsing          State = "parsing"
	StateFetchingExtended State = "fetching_extended"
	StateParsingExtended  State = "parsing_extended"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// StateHook is called on every state transition.
type StateHook func(ctx context.Context, url string, state State)

// hooks manages state callbacks.
type hooks struct {
	mu      sync.RWMutex
	onState []StateHook
}

// OnState registers a callback for state transitions.
func (h *hooks) OnState(fn StateHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onState = append(h.onState, fn)
}

func (h *hooks) trigger(ctx context.Context, url string, state State) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onState {
		fn(ctx, url, state)
	}
}
