// Package resolver answers catalog questions about paints: which brands and
// series exist, what a code refers to, which spec applies to a paint type,
// and which entries match a free-typed query.
//
// The resolver never fails for unknown ids. A miss is an empty slice, an
// empty map or a nil pointer so that results can feed optional UI
// affordances directly.
package resolver

import (
	"github.com/agentstation/kitstash/internal/matcher"
	"github.com/agentstation/kitstash/pkg/catalogs"
	"github.com/agentstation/kitstash/pkg/constants"
)

// Entry is a catalog color entry.
type Entry = catalogs.Entry

// Spec is the handling advice for a paint type.
type Spec = catalogs.Spec

// Option is a selectable id with its display name.
type Option struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Scope limits a search. An empty Brand searches every brand; Series narrows
// a brand search and falls back to the whole brand when unknown.
type Scope struct {
	Brand  string
	Series string
}

// Global reports whether the scope covers every brand.
func (s Scope) Global() bool {
	return s.Brand == ""
}

// Limit returns the result cap of the scope.
func (s Scope) Limit() int {
	if s.Global() {
		return constants.GlobalSearchLimit
	}
	return constants.BrandSearchLimit
}

// Resolver is a query layer over a catalog.
type Resolver struct {
	catalog catalogs.Catalog
}

// New creates a Resolver over catalog. A nil catalog behaves as empty.
func New(catalog catalogs.Catalog) *Resolver {
	if catalog == nil {
		catalog = catalogs.NewEmpty()
	}
	return &Resolver{catalog: catalog}
}

// Catalog returns the underlying catalog.
func (r *Resolver) Catalog() catalogs.Catalog {
	return r.catalog
}

// ListManufacturers returns every manufacturer in declared order.
func (r *Resolver) ListManufacturers() []Option {
	list := r.catalog.Manufacturers().List()
	options := make([]Option, 0, len(list))
	for _, m := range list {
		options = append(options, Option{ID: m.ID, DisplayName: m.Name})
	}
	return options
}

// ListSeries returns the series of a brand in declared order.
func (r *Resolver) ListSeries(brandID string) []Option {
	m, err := r.catalog.Manufacturer(brandID)
	if err != nil {
		return []Option{}
	}
	options := make([]Option, 0, len(m.Series))
	for _, s := range m.Series {
		options = append(options, Option{ID: s.ID, DisplayName: s.Name})
	}
	return options
}

// BrandEntryList returns all entries of a brand in catalog order.
func (r *Resolver) BrandEntryList(brandID string) []Entry {
	entries := r.catalog.BrandEntries(brandID)
	if entries == nil {
		return []Entry{}
	}
	return entries
}

// BrandEntries returns the merged entries of every series of a brand, keyed
// by normalized code. When two series share a code the first one wins.
func (r *Resolver) BrandEntries(brandID string) map[string]Entry {
	return keyed(r.catalog.BrandEntries(brandID))
}

// SeriesEntries returns the entries of one series keyed by normalized code.
// An empty or unknown series falls back to the whole brand.
func (r *Resolver) SeriesEntries(brandID, seriesID string) map[string]Entry {
	return keyed(r.seriesEntryList(brandID, seriesID))
}

func (r *Resolver) seriesEntryList(brandID, seriesID string) []Entry {
	if seriesID != "" {
		if entries := r.catalog.SeriesEntries(brandID, seriesID); len(entries) > 0 {
			return entries
		}
	}
	return r.catalog.BrandEntries(brandID)
}

func keyed(entries []Entry) map[string]Entry {
	result := make(map[string]Entry, len(entries))
	for _, e := range entries {
		key := matcher.Normalize(e.Code)
		if _, exists := result[key]; !exists {
			result[key] = e
		}
	}
	return result
}

// Lookup returns the entry of a brand whose normalized code equals code.
func (r *Resolver) Lookup(brandID, code string) *Entry {
	key := matcher.Normalize(code)
	if key == "" {
		return nil
	}
	for _, e := range r.catalog.BrandEntries(brandID) {
		if matcher.Normalize(e.Code) == key || matcher.Normalize(e.DisplayCode) == key {
			found := e
			return &found
		}
	}
	return nil
}

// Resolve turns free text typed for a brand into an entry: an exact code
// match first, otherwise the first search hit within the brand.
func (r *Resolver) Resolve(brandID, text string) *Entry {
	if e := r.Lookup(brandID, text); e != nil {
		return e
	}
	hits := r.Search(text, Scope{Brand: brandID})
	if len(hits) == 0 {
		return nil
	}
	return &hits[0]
}
