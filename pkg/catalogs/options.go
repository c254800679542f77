package catalogs

import (
	"io/fs"
	"os"

	"github.com/agentstation/kitstash/internal/embedded"
)

// catalogOptions contains the options for the catalog.
type catalogOptions struct {
	readFS fs.FS // For reading catalog files
	source string
}

// apply applies the given options to the catalog options.
func (c *catalogOptions) apply(opts ...Option) *catalogOptions {
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// catalogDefaults returns the default options for a catalog.
func catalogDefaults() *catalogOptions {
	return &catalogOptions{
		readFS: nil,
		source: "memory",
	}
}

// Option configures a catalog.
type Option func(*catalogOptions)

// WithFS configures the catalog to use a custom fs.FS for reading.
func WithFS(fsys fs.FS) Option {
	return func(c *catalogOptions) {
		c.readFS = fsys
		c.source = "fs"
	}
}

// WithPath configures the catalog to read from a directory.
// This creates an os.DirFS under the hood.
func WithPath(path string) Option {
	return func(c *catalogOptions) {
		c.readFS = os.DirFS(path)
		c.source = path
	}
}

// WithEmbedded configures the catalog to use embedded files.
func WithEmbedded() Option {
	return func(c *catalogOptions) {
		// Use fs.Sub to get the catalog subdirectory
		catalogFS, err := fs.Sub(embedded.FS, "catalog")
		if err != nil {
			// Fall back to using the full embedded FS
			c.readFS = embedded.FS
		} else {
			c.readFS = catalogFS
		}
		c.source = "embedded"
	}
}
