package consistency

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/kitstash/pkg/constants"
	"github.com/agentstation/kitstash/pkg/records"
)

// WarningCode identifies the kind of an advisory warning.
type WarningCode string

// Warning codes
const (
	WarnDuplicate      WarningCode = "duplicate"
	WarnUnknownBrand   WarningCode = "unknown_brand"
	WarnUnknownScale   WarningCode = "unknown_scale"
	WarnMalformedScale WarningCode = "malformed_scale"
	WarnProgressRange  WarningCode = "progress_range"
)

// Warning is an advisory problem with a record. Warnings never block a save.
type Warning struct {
	Code    WarningCode `json:"code"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
}

// String implements fmt.Stringer.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

// KitBrands are kit manufacturers known without looking at the collection.
var KitBrands = []string{
	"Academy", "Airfix", "AMK", "Aoshima", "Arma Hobby", "Bandai", "Border Model",
	"Dragon", "Eduard", "Fujimi", "Great Wall Hobby", "Hasegawa", "Heller",
	"HobbyBoss", "ICM", "Italeri", "Kinetic", "Kitty Hawk", "KP Models",
	"Meng", "MiniArt", "Monogram", "Revell", "RFM", "Special Hobby", "Tamiya",
	"Takom", "Trumpeter", "Wingnut Wings", "Zvezda",
}

// Scales are the common kit scales. Other well-formed scales only warn.
var Scales = []string{
	"1/6", "1/9", "1/12", "1/16", "1/20", "1/24", "1/25", "1/32", "1/35",
	"1/43", "1/48", "1/72", "1/76", "1/87", "1/100", "1/144", "1/200",
	"1/350", "1/400", "1/700",
}

// ValidateKit returns advisory warnings for kit: a duplicate of another kit
// in allKits, a brand that is neither in KitBrands nor used by another kit,
// a scale that is malformed or uncommon, and progress outside 0..100.
func ValidateKit(kit records.Kit, allKits []records.Kit) []Warning {
	warnings := make([]Warning, 0)

	if dups := FindDuplicateKits(kit, allKits, kit.ID); len(dups) > 0 {
		warnings = append(warnings, Warning{
			Code:    WarnDuplicate,
			Field:   "catalog_number",
			Message: fmt.Sprintf("%s %s is already in the collection (%s)", kit.Brand, kit.CatalogNumber, dups[0].Label()),
		})
	}

	if brand := strings.TrimSpace(kit.Brand); brand != "" && !knownBrand(brand, kit.ID, allKits) {
		warnings = append(warnings, Warning{
			Code:    WarnUnknownBrand,
			Field:   "brand",
			Message: fmt.Sprintf("unknown brand %q", brand),
		})
	}

	if scale := strings.TrimSpace(kit.Scale); scale != "" {
		normalized := records.NormalizeScale(scale)
		switch {
		case !records.ValidScale(normalized):
			warnings = append(warnings, Warning{
				Code:    WarnMalformedScale,
				Field:   "scale",
				Message: fmt.Sprintf("scale %q is not of the form 1/48", scale),
			})
		case !slices.Contains(Scales, normalized):
			warnings = append(warnings, Warning{
				Code:    WarnUnknownScale,
				Field:   "scale",
				Message: fmt.Sprintf("uncommon scale %s", normalized),
			})
		}
	}

	if kit.Progress < 0 || kit.Progress > constants.MaxProgress {
		warnings = append(warnings, Warning{
			Code:    WarnProgressRange,
			Field:   "progress",
			Message: fmt.Sprintf("progress %d is outside 0..%d", kit.Progress, constants.MaxProgress),
		})
	}

	return warnings
}

func knownBrand(brand, selfID string, allKits []records.Kit) bool {
	for _, b := range KitBrands {
		if strings.EqualFold(b, brand) {
			return true
		}
	}
	for _, k := range allKits {
		if k.ID != selfID && strings.EqualFold(strings.TrimSpace(k.Brand), brand) {
			return true
		}
	}
	return false
}
