package consistency

import (
	"strings"

	"github.com/agentstation/kitstash/pkg/records"
)

// SanitizeKit returns the kit as it should be persisted: paint references
// that do not resolve are dropped, accessories without a name are dropped,
// names are trimmed and progress is clamped to 0..100.
func SanitizeKit(kit records.Kit, allPaints []records.Paint) records.Kit {
	out := kit.Clone()
	index := byID(allPaints)

	out.Paints = nil
	for _, ref := range kit.Paints {
		if _, ok := index[ref.PaintID]; ok {
			out.Paints = append(out.Paints, ref)
		}
	}

	out.Accessories = sanitizeAccessories(kit.Accessories)
	out.Progress = clampProgress(kit.Progress)
	out.Brand = strings.TrimSpace(kit.Brand)
	out.CatalogNumber = strings.TrimSpace(kit.CatalogNumber)
	out.Scale = records.NormalizeScale(kit.Scale)
	return out
}

// SanitizeProject drops nameless accessories of a project.
func SanitizeProject(project records.Project) records.Project {
	out := project
	out.Name = strings.TrimSpace(project.Name)
	out.Accessories = sanitizeAccessories(project.Accessories)
	return out
}

func sanitizeAccessories(accessories []records.Accessory) []records.Accessory {
	var result []records.Accessory
	for _, a := range accessories {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			continue
		}
		if a.ID == "" {
			a.ID = records.NewID()
		}
		if !a.Status.Valid() {
			a.Status = records.AccessoryWanted
		}
		result = append(result, a)
	}
	return result
}
