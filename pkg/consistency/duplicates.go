package consistency

import (
	"strings"

	"github.com/agentstation/kitstash/pkg/records"
)

// FindDuplicateKits returns the kits other than excludeID that share the
// candidate's brand, compared case-insensitively, and catalog number,
// compared exactly. A candidate without brand or catalog number has no
// duplicates. The result is advisory only.
func FindDuplicateKits(candidate records.Kit, allKits []records.Kit, excludeID string) []records.Kit {
	result := make([]records.Kit, 0)
	brand := strings.TrimSpace(candidate.Brand)
	if brand == "" || candidate.CatalogNumber == "" {
		return result
	}
	for _, k := range allKits {
		if excludeID != "" && k.ID == excludeID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(k.Brand), brand) && k.CatalogNumber == candidate.CatalogNumber {
			result = append(result, k)
		}
	}
	return result
}

// IsDuplicateKit reports whether FindDuplicateKits finds anything.
func IsDuplicateKit(candidate records.Kit, allKits []records.Kit, excludeID string) bool {
	return len(FindDuplicateKits(candidate, allKits, excludeID)) > 0
}

// FindDuplicatePaint returns the first non-mix paint other than excludeID
// with the same normalized brand and code, or nil.
func FindDuplicatePaint(candidate records.Paint, allPaints []records.Paint, excludeID string) *records.Paint {
	if candidate.IsMix || strings.TrimSpace(candidate.Code) == "" {
		return nil
	}
	key := candidate.Key()
	for _, p := range allPaints {
		if p.IsMix || (excludeID != "" && p.ID == excludeID) {
			continue
		}
		if p.Key() == key {
			found := p
			return &found
		}
	}
	return nil
}
