package consistency

import (
	"math"

	"github.com/agentstation/kitstash/pkg/constants"
	"github.com/agentstation/kitstash/pkg/records"
)

// ProjectKits returns the kits whose ProjectID points at project, in
// collection order.
func ProjectKits(project records.Project, allKits []records.Kit) []records.Kit {
	result := make([]records.Kit, 0)
	if project.ID == "" {
		return result
	}
	for _, k := range allKits {
		if k.ProjectID == project.ID {
			result = append(result, k)
		}
	}
	return result
}

// KitProgress is the contribution of one kit to its project: 100 when
// finished, the recorded progress when in work, 0 otherwise.
func KitProgress(kit records.Kit) int {
	switch kit.Status {
	case records.KitFinished:
		return constants.MaxProgress
	case records.KitWIP:
		return clampProgress(kit.Progress)
	default:
		return 0
	}
}

// ProjectProgress is the mean KitProgress over the project's kits, rounded
// to the nearest integer. A project without kits is at 0.
func ProjectProgress(project records.Project, allKits []records.Kit) int {
	kits := ProjectKits(project, allKits)
	if len(kits) == 0 {
		return 0
	}
	sum := 0
	for _, k := range kits {
		sum += KitProgress(k)
	}
	return int(math.Round(float64(sum) / float64(len(kits))))
}

// ProjectAccessoryCoverage counts the accessories held on the project itself.
func ProjectAccessoryCoverage(project records.Project) Coverage {
	return accessoryCoverage(project.Accessories)
}

func clampProgress(p int) int {
	return max(0, min(p, constants.MaxProgress))
}
