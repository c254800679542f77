package consistency

import (
	"github.com/agentstation/kitstash/pkg/records"
)

// KitIndicators are all derived indicators of one kit.
type KitIndicators struct {
	Paints      Coverage      `json:"paints"`
	Accessories Coverage      `json:"accessories"`
	Ready       bool          `json:"ready"`
	Duplicates  []records.Kit `json:"duplicates,omitempty"`
	Warnings    []Warning     `json:"warnings,omitempty"`
}

// Evaluate computes every indicator of kit against the given collections.
// Nothing is cached; call it again after every change.
func Evaluate(kit records.Kit, allPaints []records.Paint, allKits []records.Kit) KitIndicators {
	return KitIndicators{
		Paints:      PaintCoverage(kit, allPaints),
		Accessories: AccessoryCoverage(kit),
		Ready:       BuildReady(kit, allPaints),
		Duplicates:  FindDuplicateKits(kit, allKits, kit.ID),
		Warnings:    ValidateKit(kit, allKits),
	}
}

// ProjectIndicators are the derived indicators of one project.
type ProjectIndicators struct {
	Kits        int      `json:"kits"`
	Progress    int      `json:"progress"`
	Ready       int      `json:"ready"`
	Accessories Coverage `json:"accessories"`
}

// EvaluateProject computes the indicators of project.
func EvaluateProject(project records.Project, allPaints []records.Paint, allKits []records.Kit) ProjectIndicators {
	kits := ProjectKits(project, allKits)
	ind := ProjectIndicators{
		Kits:        len(kits),
		Progress:    ProjectProgress(project, allKits),
		Accessories: ProjectAccessoryCoverage(project),
	}
	for _, k := range kits {
		if BuildReady(k, allPaints) {
			ind.Ready++
		}
	}
	return ind
}
