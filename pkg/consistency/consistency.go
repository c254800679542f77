// Package consistency derives read-only indicators from the user's records:
// mix availability, paint and accessory coverage, build readiness, project
// progress and duplicate detection.
//
// Every function is pure. Collections are passed in explicitly, inputs are
// never mutated, and references to missing records are tolerated: a paint id
// that no longer resolves counts as not owned, never as an error.
package consistency

import (
	"github.com/agentstation/kitstash/pkg/records"
)

// Coverage counts how many of the referenced items are owned.
type Coverage struct {
	Total int `json:"total"`
	Owned int `json:"owned"`
}

// Missing returns the number of items not owned.
func (c Coverage) Missing() int {
	return c.Total - c.Owned
}

// Complete reports whether there is at least one item and all are owned.
func (c Coverage) Complete() bool {
	return c.Total > 0 && c.Owned == c.Total
}

// byID indexes records by id. Later duplicates do not replace earlier ones.
func byID[T interface{ RecordID() string }](items []T) map[string]T {
	result := make(map[string]T, len(items))
	for _, item := range items {
		if _, exists := result[item.RecordID()]; !exists {
			result[item.RecordID()] = item
		}
	}
	return result
}

// MixComplete reports whether a paint can be used right now. A regular paint
// is complete when it is in stock. A mix is complete when it has at least one
// ingredient and every ingredient resolves to a paint that is in stock.
//
// The check is one level deep: an ingredient that is itself a mix is judged
// by its own stored status, not by its ingredients.
func MixComplete(paint records.Paint, allPaints []records.Paint) bool {
	if !paint.IsMix {
		return paint.Status == records.PaintInStock
	}
	if len(paint.MixParts) == 0 {
		return false
	}
	index := byID(allPaints)
	for _, part := range paint.MixParts {
		ingredient, ok := index[part.PaintID]
		if !ok || ingredient.Status != records.PaintInStock {
			return false
		}
	}
	return true
}

// Ingredient is one resolved part of a mix recipe.
type Ingredient struct {
	Part    records.MixPart `json:"part"`
	Paint   *records.Paint  `json:"paint,omitempty"`
	Missing bool            `json:"missing"`
	InStock bool            `json:"in_stock"`
}

// MixIngredients resolves every part of a mix against allPaints. Parts whose
// paint was deleted are reported as Missing and keep their snapshot label.
func MixIngredients(paint records.Paint, allPaints []records.Paint) []Ingredient {
	index := byID(allPaints)
	result := make([]Ingredient, 0, len(paint.MixParts))
	for _, part := range paint.MixParts {
		ing := Ingredient{Part: part}
		if p, ok := index[part.PaintID]; ok {
			found := p
			ing.Paint = &found
			ing.InStock = p.Status == records.PaintInStock
		} else {
			ing.Missing = true
		}
		result = append(result, ing)
	}
	return result
}

// PaintCoverage counts the paints of a kit and those that exist and are in
// stock. Missing references count as not owned.
func PaintCoverage(kit records.Kit, allPaints []records.Paint) Coverage {
	index := byID(allPaints)
	c := Coverage{Total: len(kit.Paints)}
	for _, ref := range kit.Paints {
		if p, ok := index[ref.PaintID]; ok && p.Status == records.PaintInStock {
			c.Owned++
		}
	}
	return c
}

// AccessoryCoverage counts the accessories of a kit and those owned.
func AccessoryCoverage(kit records.Kit) Coverage {
	return accessoryCoverage(kit.Accessories)
}

func accessoryCoverage(accessories []records.Accessory) Coverage {
	c := Coverage{Total: len(accessories)}
	for _, a := range accessories {
		if a.Owned() {
			c.Owned++
		}
	}
	return c
}

// BuildReady reports whether a kit can be started. Finished, scrapped and
// wishlist kits are never ready, and neither is a kit with no paints and no
// accessories. Otherwise every accessory must be owned and every paint must
// resolve with status in_stock or low.
//
// Low counts as ready here, unlike MixComplete.
func BuildReady(kit records.Kit, allPaints []records.Paint) bool {
	switch kit.Status {
	case records.KitFinished, records.KitScrap, records.KitWishlist:
		return false
	}
	if len(kit.Paints) == 0 && len(kit.Accessories) == 0 {
		return false
	}
	if !accessoriesOwned(kit.Accessories) {
		return false
	}
	index := byID(allPaints)
	for _, ref := range kit.Paints {
		p, ok := index[ref.PaintID]
		if !ok || !p.Status.Usable() {
			return false
		}
	}
	return true
}

func accessoriesOwned(accessories []records.Accessory) bool {
	for _, a := range accessories {
		if !a.Owned() {
			return false
		}
	}
	return true
}

// PaintUsage returns the kits that reference paintID, in collection order.
func PaintUsage(paintID string, allKits []records.Kit) []records.Kit {
	result := make([]records.Kit, 0)
	for _, k := range allKits {
		if k.HasPaint(paintID) {
			result = append(result, k)
		}
	}
	return result
}
