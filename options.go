package kitstash

import (
	"strings"
	"time"

	"github.com/agentstation/kitstash/internal/transport"
	"github.com/agentstation/kitstash/pkg/catalogs"
	"github.com/agentstation/kitstash/pkg/enrichment"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/store"
)

// Option is a function that configures a Client instance.
type Option func(*options) error

// options holds the client configuration.
type options struct {
	catalog     catalogs.Catalog
	catalogPath string

	store     store.Store
	storePath string

	relay        enrichment.Relay
	relayURL     string
	relayAPIKey  string
	relayAuth    string
	relayParam   string
	relayTimeout time.Duration

	pipelineOptions []enrichment.Option
}

// defaults returns options for an embedded catalog and an in-memory store.
func defaults() *options {
	return &options{
		relayAuth: transport.AuthBearer,
	}
}

// apply applies the given options in order.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *options) transportOptions() []transport.Option {
	opts := []transport.Option{
		transport.WithAuthenticator(transport.AuthenticatorFor(o.relayAuth, o.relayParam)),
	}
	if o.relayAPIKey != "" {
		opts = append(opts, transport.WithAPIKey(o.relayAPIKey))
	}
	if o.relayTimeout > 0 {
		opts = append(opts, transport.WithTimeout(o.relayTimeout))
	}
	return opts
}

// WithCatalog uses an already loaded catalog.
func WithCatalog(catalog catalogs.Catalog) Option {
	return func(o *options) error {
		o.catalog = catalog
		return nil
	}
}

// WithCatalogPath loads the catalog from a directory instead of the
// embedded data. An empty path keeps the embedded catalog.
func WithCatalogPath(path string) Option {
	return func(o *options) error {
		o.catalogPath = strings.TrimSpace(path)
		return nil
	}
}

// WithStore uses an existing store. The client does not close it.
func WithStore(s store.Store) Option {
	return func(o *options) error {
		if s == nil {
			return errors.NewConfigError("store", "store is nil", nil)
		}
		o.store = s
		return nil
	}
}

// WithSQLite stores records in the SQLite file at path. An empty path keeps
// the in-memory store.
func WithSQLite(path string) Option {
	return func(o *options) error {
		o.storePath = strings.TrimSpace(path)
		return nil
	}
}

// WithRelay configures the fetch relay used for enrichment.
func WithRelay(url, apiKey string) Option {
	return func(o *options) error {
		o.relayURL = strings.TrimSpace(url)
		o.relayAPIKey = apiKey
		return nil
	}
}

// WithRelayAuth selects how the relay API key is sent: "bearer", "header"
// or "query". param names the header or query parameter.
func WithRelayAuth(kind, param string) Option {
	return func(o *options) error {
		switch kind {
		case "", transport.AuthBearer, transport.AuthHeader, transport.AuthQuery, transport.AuthNone:
		default:
			return errors.NewConfigError("relay", "unknown relay auth "+kind, nil)
		}
		if kind != "" {
			o.relayAuth = kind
		}
		o.relayParam = param
		return nil
	}
}

// WithRelayTimeout bounds each relay call.
func WithRelayTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout < 0 {
			return errors.NewConfigError("relay", "timeout must not be negative", nil)
		}
		o.relayTimeout = timeout
		return nil
	}
}

// WithRelayClient uses a custom Relay, e.g. a test fake.
func WithRelayClient(relay enrichment.Relay) Option {
	return func(o *options) error {
		o.relay = relay
		return nil
	}
}

// WithPipelineOptions passes options to the enrichment pipeline.
func WithPipelineOptions(opts ...enrichment.Option) Option {
	return func(o *options) error {
		o.pipelineOptions = append(o.pipelineOptions, opts...)
		return nil
	}
}
