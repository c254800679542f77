// Package catalogs provides the read-only paint catalog: manufacturers, their
// series, the color entries of each series, and per-brand paint type specs.
//
// A catalog is loaded once from an fs.FS and never changes afterwards, so it
// can be shared freely between goroutines and injected wherever lookups are
// needed.
//
// Layout of a catalog filesystem:
//
//	manufacturers.yaml                  ordered manufacturers with their series
//	brands/<brand>/series/<series>.yaml ordered color entries of one series
//	brands/<brand>/specs.yaml           paint type specs and code prefix table
//
// Example usage:
//
//	// Create an embedded catalog (production use)
//	catalog, err := catalogs.NewEmbedded()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, m := range catalog.Manufacturers().List() {
//	    fmt.Printf("%s: %d series\n", m.Name, len(m.Series))
//	}
package catalogs

import (
	"io/fs"
	"os"
	"strings"

	"github.com/agentstation/kitstash/pkg/errors"
)

// Compile-time interface check.
var _ Catalog = (*catalog)(nil)

// Catalog provides read-only access to catalog data.
type Catalog interface {
	// Manufacturers returns the manufacturers in declared order.
	Manufacturers() *Manufacturers

	// Manufacturer returns a manufacturer by id.
	Manufacturer(id string) (Manufacturer, error)

	// SeriesEntries returns the entries of one series in file order.
	// Unknown ids give nil.
	SeriesEntries(brandID, seriesID string) []Entry

	// BrandEntries returns all entries of a brand, series in declared order
	// and entries in file order. Unknown brands give nil.
	BrandEntries(brandID string) []Entry

	// Specs returns the paint type specs of a brand.
	Specs(brandID string) (BrandSpecs, bool)

	// Len returns the number of entries across all brands.
	Len() int

	// Source describes where the catalog was loaded from.
	Source() string
}

// catalog is the single concrete implementation of the Catalog interface.
// All maps are filled by Load and only read afterwards.
type catalog struct {
	options       *catalogOptions
	manufacturers *Manufacturers
	entries       map[string]map[string][]Entry
	specs         map[string]BrandSpecs
}

// New creates a catalog with the given options. With a filesystem configured
// the catalog is loaded immediately; without one it is empty.
func New(opts ...Option) (Catalog, error) {
	cat := &catalog{
		options:       catalogDefaults().apply(opts...),
		manufacturers: NewManufacturers(),
		entries:       make(map[string]map[string][]Entry),
		specs:         make(map[string]BrandSpecs),
	}

	if cat.options.readFS != nil {
		if err := cat.load(); err != nil {
			return nil, errors.WrapResource("load", "catalog", "", err)
		}
	}

	return cat, nil
}

// NewEmbedded creates a catalog backed by the catalog compiled into the binary.
// This is the catalog used in production.
func NewEmbedded() (Catalog, error) {
	return New(WithEmbedded())
}

// NewFromFS creates a catalog from a custom filesystem rooted at root.
//
// Example:
//
//	var myFS embed.FS
//	catalog, err := catalogs.NewFromFS(myFS, "catalog")
func NewFromFS(fsys fs.FS, root string) (Catalog, error) {
	subFS, err := fs.Sub(fsys, root)
	if err != nil {
		return nil, errors.WrapResource("create", "sub filesystem", root, err)
	}
	return New(WithFS(subFS))
}

// NewFromPath creates a catalog backed by files on disk.
// This is useful for editing catalog files without recompiling the binary.
func NewFromPath(path string) (Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.WrapIO("stat", path, err)
	}
	return New(WithPath(path))
}

// NewEmpty creates a catalog with no data.
func NewEmpty() Catalog {
	// cannot fail without a filesystem
	cat, _ := New()
	return cat
}

// normalizeID folds a brand or series id for lookup.
func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Manufacturers returns the manufacturers in declared order.
func (cat *catalog) Manufacturers() *Manufacturers {
	return cat.manufacturers
}

// Manufacturer returns a manufacturer by id.
func (cat *catalog) Manufacturer(id string) (Manufacturer, error) {
	m, ok := cat.manufacturers.Get(normalizeID(id))
	if !ok {
		return Manufacturer{}, errors.NewNotFoundError("manufacturer", id)
	}
	return *m, nil
}

// SeriesEntries returns the entries of one series in file order.
func (cat *catalog) SeriesEntries(brandID, seriesID string) []Entry {
	series, ok := cat.entries[normalizeID(brandID)]
	if !ok {
		return nil
	}
	return copyEntries(series[normalizeID(seriesID)])
}

// BrandEntries returns all entries of a brand.
func (cat *catalog) BrandEntries(brandID string) []Entry {
	id := normalizeID(brandID)
	m, ok := cat.manufacturers.Get(id)
	if !ok {
		return nil
	}

	var result []Entry
	for _, s := range m.Series {
		result = append(result, cat.entries[id][s.ID]...)
	}
	return result
}

// Specs returns the paint type specs of a brand.
func (cat *catalog) Specs(brandID string) (BrandSpecs, bool) {
	specs, ok := cat.specs[normalizeID(brandID)]
	return specs, ok
}

// Len returns the number of entries across all brands.
func (cat *catalog) Len() int {
	n := 0
	for _, series := range cat.entries {
		for _, entries := range series {
			n += len(entries)
		}
	}
	return n
}

// Source describes where the catalog was loaded from.
func (cat *catalog) Source() string {
	return cat.options.source
}

func copyEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	return append([]Entry(nil), entries...)
}
