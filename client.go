// Package kitstash is the entry point of the kitstash collection manager
// engine. It wires the paint catalog, the record store, the live library
// and the enrichment pipeline into one Client.
//
// Example usage:
//
//	ks, err := kitstash.New(kitstash.WithSQLite("~/.kitstash/kitstash.db"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ks.Close()
//
//	// Find a paint in the catalog and add it to the collection
//	hits := ks.Resolver().Search("xf1", resolver.Scope{Brand: "tamiya"})
//	id, err := ks.QuickAddPaint(ctx, hits[0], records.PaintInStock)
//
//	// Edit a kit and look at its indicators
//	sess := ks.Library().NewKit()
//	_ = sess.Edit(func(k *records.Kit) { k.Brand = "Tamiya"; k.CatalogNumber = "61032" })
//	fmt.Println(sess.Indicators().Duplicates)
package kitstash

import (
	"context"
	"sync"

	"github.com/agentstation/kitstash/internal/transport"
	"github.com/agentstation/kitstash/pkg/catalogs"
	"github.com/agentstation/kitstash/pkg/enrichment"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
	"github.com/agentstation/kitstash/pkg/records"
	"github.com/agentstation/kitstash/pkg/resolver"
	"github.com/agentstation/kitstash/pkg/session"
	"github.com/agentstation/kitstash/pkg/store"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Catalog provides read access to the paint catalog.
type Catalog interface {
	// Catalog returns the loaded catalog
	Catalog() catalogs.Catalog

	// Resolver returns the resolver over the catalog
	Resolver() *resolver.Resolver

	// QuickAddPaint stores a catalog entry as a paint and returns its id
	QuickAddPaint(ctx context.Context, entry resolver.Entry, status records.PaintStatus) (string, error)
}

// Collection provides access to the stored records.
type Collection interface {
	// Store returns the record store
	Store() store.Store

	// Library returns the live indexed view of the store
	Library() *session.Library
}

// Enricher fetches kit details from external pages.
type Enricher interface {
	// Enrich runs the enrichment pipeline for url
	Enrich(ctx context.Context, url string) (enrichment.Result, error)

	// EnrichKit enriches a stored kit from url and saves it
	EnrichKit(ctx context.Context, kitID, url string) (records.Kit, enrichment.Result, error)
}

// Client manages a kit, paint and project collection.
type Client interface {

	// Catalog provides read access to the paint catalog
	Catalog

	// Collection provides access to the stored records
	Collection

	// Enricher fetches kit details from external pages
	Enricher

	// Persistence handles snapshot export and import
	Persistence

	// Hooks provides access to event callback registration
	Hooks

	// Close stops subscriptions and closes a store the client opened
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	catalog  catalogs.Catalog
	resolver *resolver.Resolver
	store    store.Store
	library  *session.Library
	pipeline *enrichment.Pipeline

	// ownsStore is set when the client opened the store itself
	ownsStore bool

	mu    sync.Mutex
	*hooks
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
	}

	log := logging.Default()

	// catalog: explicit, path override or embedded
	switch {
	case o.catalog != nil:
		c.catalog = o.catalog
	case o.catalogPath != "":
		if c.catalog, err = catalogs.NewFromPath(o.catalogPath); err != nil {
			return nil, errors.WrapResource("load", "catalog", o.catalogPath, err)
		}
	default:
		if c.catalog, err = catalogs.NewEmbedded(); err != nil {
			return nil, errors.WrapResource("load", "catalog", "embedded", err)
		}
	}
	c.resolver = resolver.New(c.catalog)
	log.Debug().
		Str("source", c.catalog.Source()).
		Int("manufacturers", c.catalog.Manufacturers().Len()).
		Int("entries", c.catalog.Len()).
		Msg("Catalog loaded")

	// store: explicit, SQLite file or memory
	switch {
	case o.store != nil:
		c.store = o.store
	case o.storePath != "":
		sqlite, err := store.NewSQLite(o.storePath)
		if err != nil {
			return nil, errors.WrapResource("open", "store", o.storePath, err)
		}
		c.store = sqlite
		c.ownsStore = true
	default:
		c.store = store.NewMemory()
		c.ownsStore = true
	}

	c.library = session.NewLibrary(c.store)
	c.hooks = newHooks(c.library.Index().Kits())
	c.library.OnChange(c.hooks.triggerChange)

	// enrichment: relay is optional until the first Enrich call
	var relay enrichment.Relay
	switch {
	case o.relay != nil:
		relay = o.relay
	case o.relayURL != "":
		relay = transport.New(o.relayURL, o.transportOptions()...)
	}
	if relay != nil {
		c.pipeline = enrichment.New(relay, o.pipelineOptions...)
	}

	return c, nil
}

// Catalog returns the loaded catalog.
func (c *client) Catalog() catalogs.Catalog {
	return c.catalog
}

// Resolver returns the resolver over the catalog.
func (c *client) Resolver() *resolver.Resolver {
	return c.resolver
}

// Store returns the record store.
func (c *client) Store() store.Store {
	return c.store
}

// Library returns the live indexed view of the store.
func (c *client) Library() *session.Library {
	return c.library
}

// QuickAddPaint stores a catalog entry as a paint. A paint with the same
// brand and code that is already stored is reported as ErrAlreadyExists.
func (c *client) QuickAddPaint(ctx context.Context, entry resolver.Entry, status records.PaintStatus) (string, error) {
	sess := c.library.NewPaint(c.resolver.QuickAdd(entry, status))
	if dup := sess.Duplicate(); dup != nil {
		return dup.ID, errors.NewResourceError("create", "paint", dup.ID, errors.ErrAlreadyExists)
	}
	return sess.Save(ctx)
}

// Close stops subscriptions and closes a store the client opened.
func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.library.Close()
	if c.ownsStore {
		return c.store.Close()
	}
	return nil
}
