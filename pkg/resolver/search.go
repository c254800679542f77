package resolver

import (
	"github.com/agentstation/kitstash/internal/matcher"
	"github.com/agentstation/kitstash/pkg/catalogs"
)

// Search returns the entries in scope whose code, display code or name
// contains the normalized query. Results keep catalog iteration order and
// stop at the scope limit. An empty query matches nothing.
func (r *Resolver) Search(query string, scope Scope) []Entry {
	q := matcher.New(matcher.Substring, query)
	if q.Empty() {
		return []Entry{}
	}

	limit := scope.Limit()
	results := make([]Entry, 0, limit)
	collect := func(entries []Entry) bool {
		for _, e := range entries {
			if q.MatchAny(e.Code, e.DisplayCode, e.Name) {
				results = append(results, e)
				if len(results) >= limit {
					return false
				}
			}
		}
		return true
	}

	if !scope.Global() {
		collect(r.seriesEntryList(scope.Brand, scope.Series))
		return results
	}

	r.catalog.Manufacturers().ForEach(func(m *catalogs.Manufacturer) bool {
		return collect(r.catalog.BrandEntries(m.ID))
	})
	return results
}
