package resolver

import (
	"github.com/agentstation/kitstash/internal/matcher"
	"github.com/agentstation/kitstash/pkg/catalogs"
)

// SpecsForType returns the spec a brand declares for colorType, or nil.
func (r *Resolver) SpecsForType(brandID, colorType string) *Spec {
	specs, ok := r.catalog.Specs(brandID)
	if !ok {
		return nil
	}
	spec, ok := specs.ForType(colorType)
	if !ok {
		return nil
	}
	return &spec
}

// TypeForCode infers the color type of a code from the brand prefix table,
// using the leading alphabetic run of the code ("XF" for "XF-1").
func (r *Resolver) TypeForCode(brandID, code string) string {
	specs, ok := r.catalog.Specs(brandID)
	if !ok {
		return ""
	}
	colorType, _ := specs.TypeForPrefix(matcher.LeadingAlpha(code))
	return colorType
}

// SpecForSeriesPrefix returns the spec inferred from the prefix of code, or
// nil when the brand has no mapping. Callers fall back to DefaultSpec.
func (r *Resolver) SpecForSeriesPrefix(brandID, code string) *Spec {
	colorType := r.TypeForCode(brandID, code)
	if colorType == "" {
		return nil
	}
	return r.SpecsForType(brandID, colorType)
}

// DefaultSpec returns the generic spec used when nothing better is known.
func (r *Resolver) DefaultSpec() Spec {
	return catalogs.DefaultSpec()
}

// SpecOrDefault returns the best spec for a paint: the declared color type
// first, then the code prefix, then the generic default.
func (r *Resolver) SpecOrDefault(brandID, code, colorType string) Spec {
	if colorType != "" {
		if spec := r.SpecsForType(brandID, colorType); spec != nil {
			return *spec
		}
	}
	if spec := r.SpecForSeriesPrefix(brandID, code); spec != nil {
		return *spec
	}
	return r.DefaultSpec()
}
