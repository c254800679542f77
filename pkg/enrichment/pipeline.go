// Package enrichment fills kit records from external kit database pages.
//
// A run fetches the source page through a Relay, rejects block pages,
// parses what it can into a PartialKit and, when the page links to a full
// offer list, fetches that list in a second sequential call. Only an
// unusable primary page fails the run; problems with the offer list are
// recorded as soft failures and the primary data is kept.
package enrichment

import (
	"context"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/kitstash/pkg/constants"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
	"github.com/agentstation/kitstash/pkg/records"
)

// Relay fetches the body of a page. transport.Client implements it.
type Relay interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// RelayFunc adapts a function to the Relay interface.
type RelayFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f.
func (f RelayFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// Pipeline runs enrichments against one relay.
type Pipeline struct {
	hooks
	relay     Relay
	minLength int
	extended  bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStateHook registers a callback for state transitions.
func WithStateHook(fn StateHook) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.OnState(fn)
		}
	}
}

// WithMinPageLength sets the shortest body accepted as a kit page.
func WithMinPageLength(n int) Option {
	return func(p *Pipeline) {
		if n >= 0 {
			p.minLength = n
		}
	}
}

// WithoutExtendedOffers skips the second fetch for the full offer list.
func WithoutExtendedOffers() Option {
	return func(p *Pipeline) {
		p.extended = false
	}
}

// New creates a pipeline that fetches through relay.
func New(relay Relay, opts ...Option) *Pipeline {
	p := &Pipeline{
		relay:     relay,
		minLength: constants.MinPageLength,
		extended:  true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// primaryPage is the parsed primary page plus the link to the full offer
// list, if any.
type primaryPage struct {
	kit     PartialKit
	showAll string
}

// run tracks one invocation.
type run struct {
	p       *Pipeline
	url     string
	started time.Time
	result  Result
}

func (r *run) enter(ctx context.Context, state State) {
	r.result.States = append(r.result.States, state)
	logging.FromContext(ctx).Debug().Str("state", string(state)).Msg("Enrichment state")
	r.p.trigger(ctx, r.url, state)
}

func (r *run) fail(ctx context.Context, err error) (Result, error) {
	r.result.Failed = true
	r.result.Category = errors.Classify(err)
	r.enter(ctx, StateFailed)
	r.finish()
	logging.FromContext(ctx).Debug().
		Err(err).
		Str("category", string(r.result.Category)).
		Msg("Enrichment failed")
	return r.result, err
}

func (r *run) finish() {
	r.result.Duration = time.Since(r.started)
}

// Run enriches from pageURL. On failure the returned error carries exactly
// one category (see errors.Classify) and the result records the states
// reached; its Kit is empty.
func (p *Pipeline) Run(ctx context.Context, pageURL string) (Result, error) {
	pageURL = strings.TrimSpace(pageURL)
	ctx = logging.WithURL(ctx, pageURL)
	r := &run{
		p:       p,
		url:     pageURL,
		started: time.Now(),
		result: Result{
			ExecutedAt: utc.Now(),
			States:     []State{StateIdle},
		},
	}
	p.trigger(ctx, pageURL, StateIdle)

	if pageURL == "" {
		return r.fail(ctx, errors.NewValidationError("url", pageURL, "source URL is required"))
	}
	if p.relay == nil {
		return r.fail(ctx, errors.NewConfigError("enrichment", "no relay configured", nil))
	}

	r.enter(ctx, StateFetchingPrimary)
	body, err := p.fetchPage(ctx, pageURL).get()
	if err != nil {
		return r.fail(ctx, err)
	}

	r.enter(ctx, StateParsing)
	page, err := p.parsePrimary(pageURL, body).get()
	if err != nil {
		return r.fail(ctx, err)
	}
	kit := page.kit

	if p.extended && page.showAll != "" && page.showAll != pageURL {
		r.enter(ctx, StateFetchingExtended)
		extBody := p.fetchPage(ctx, page.showAll)
		if extBody.ok() {
			r.enter(ctx, StateParsingExtended)
		}
		offers, err := p.parseExtended(page.showAll, extBody).get()
		if err != nil {
			soft := SoftFailure{
				Stage:    StageExtended,
				URL:      page.showAll,
				Category: errors.Classify(err),
				Err:      err,
			}
			r.result.SoftFailures = append(r.result.SoftFailures, soft)
			logging.FromContext(ctx).Warn().
				Err(err).
				Str("offers_url", page.showAll).
				Str("category", string(soft.Category)).
				Msg("Could not load full offer list, keeping first page offers")
		} else {
			kit.Offers = MergeOffers(kit.Offers, offers)
		}
	}

	r.result.Kit = kit
	r.enter(ctx, StateDone)
	r.finish()

	logging.FromContext(ctx).Debug().
		Str("summary", kit.Summary()).
		Int("offers", len(kit.Offers)).
		Int("soft_failures", len(r.result.SoftFailures)).
		Dur("duration", r.result.Duration).
		Msg("Enrichment completed")
	return r.result, nil
}

// fetchPage fetches url and rejects block pages.
func (p *Pipeline) fetchPage(ctx context.Context, url string) outcome[string] {
	body, err := p.relay.Fetch(ctx, url)
	if err != nil {
		return fail[string](err)
	}
	if err := checkPage(url, body, p.minLength); err != nil {
		return fail[string](err)
	}
	return succeed(body)
}

// parsePrimary parses the kit page.
func (p *Pipeline) parsePrimary(url, body string) outcome[primaryPage] {
	doc, err := parseDocument(url, body)
	if err != nil {
		return fail[primaryPage](err)
	}
	kit, err := parseKit(url, doc)
	if err != nil {
		return fail[primaryPage](err)
	}
	return succeed(primaryPage{kit: kit, showAll: findShowAllOffers(url, doc)})
}

// parseExtended reads offers from the full offer list page. A failed fetch
// passes through unchanged.
func (p *Pipeline) parseExtended(url string, body outcome[string]) outcome[[]records.Offer] {
	html, err := body.get()
	if err != nil {
		return fail[[]records.Offer](err)
	}
	doc, err := parseDocument(url, html)
	if err != nil {
		return fail[[]records.Offer](err)
	}
	return succeed(parseOffers(doc))
}
