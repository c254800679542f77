package resolver

import (
	"sync"
	"time"

	"github.com/agentstation/kitstash/pkg/constants"
)

// ResultFunc receives the results of a debounced search.
type ResultFunc func(query string, scope Scope, results []Entry)

// Debounced runs searches only after the input has been quiet for a fixed
// period. A query typed during the quiet period replaces the pending one.
type Debounced struct {
	resolver *Resolver
	delay    time.Duration
	onResult ResultFunc

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	pending *pendingSearch
	stopped bool
}

type pendingSearch struct {
	query string
	scope Scope
}

// NewDebounced creates a debounced searcher. A non-positive delay uses
// constants.SearchDebounce.
func NewDebounced(r *Resolver, delay time.Duration, onResult ResultFunc) *Debounced {
	if delay <= 0 {
		delay = constants.SearchDebounce
	}
	return &Debounced{
		resolver: r,
		delay:    delay,
		onResult: onResult,
	}
}

// Search schedules query, superseding any query not yet run.
func (d *Debounced) Search(query string, scope Scope) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = &pendingSearch{query: query, scope: scope}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// fire runs the pending search if it is still the newest one.
func (d *Debounced) fire(seq uint64) {
	d.mu.Lock()
	if d.stopped || seq != d.seq || d.pending == nil {
		d.mu.Unlock()
		return
	}
	p := d.pending
	d.pending = nil
	d.mu.Unlock()

	d.run(p)
}

// Flush runs the pending search immediately, if any, on the caller's
// goroutine.
func (d *Debounced) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	p := d.pending
	d.pending = nil
	stopped := d.stopped
	d.mu.Unlock()

	if p != nil && !stopped {
		d.run(p)
	}
}

// Stop drops the pending search and ignores later calls to Search.
func (d *Debounced) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debounced) run(p *pendingSearch) {
	results := d.resolver.Search(p.query, p.scope)
	if d.onResult != nil {
		d.onResult(p.query, p.scope, results)
	}
}
