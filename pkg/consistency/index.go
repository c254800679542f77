package consistency

import (
	"github.com/agentstation/kitstash/pkg/records"
)

// Index is an immutable snapshot of the three collections with id lookups.
// Build a new Index whenever a collection changes.
type Index struct {
	paints   []records.Paint
	kits     []records.Kit
	projects []records.Project

	paintByID   map[string]records.Paint
	kitByID     map[string]records.Kit
	projectByID map[string]records.Project
}

// NewIndex builds an index over the given collections. The slices are
// copied.
func NewIndex(paints []records.Paint, kits []records.Kit, projects []records.Project) *Index {
	paints = append([]records.Paint(nil), paints...)
	kits = append([]records.Kit(nil), kits...)
	projects = append([]records.Project(nil), projects...)
	return &Index{
		paints:      paints,
		kits:        kits,
		projects:    projects,
		paintByID:   byID(paints),
		kitByID:     byID(kits),
		projectByID: byID(projects),
	}
}

// Paints returns the paints in collection order.
func (x *Index) Paints() []records.Paint { return x.paints }

// Kits returns the kits in collection order.
func (x *Index) Kits() []records.Kit { return x.kits }

// Projects returns the projects in collection order.
func (x *Index) Projects() []records.Project { return x.projects }

// Paint returns a paint by id.
func (x *Index) Paint(id string) (records.Paint, bool) {
	p, ok := x.paintByID[id]
	return p, ok
}

// Kit returns a kit by id.
func (x *Index) Kit(id string) (records.Kit, bool) {
	k, ok := x.kitByID[id]
	return k, ok
}

// Project returns a project by id.
func (x *Index) Project(id string) (records.Project, bool) {
	p, ok := x.projectByID[id]
	return p, ok
}

// KitProject resolves the project of a kit, if it still exists.
func (x *Index) KitProject(kit records.Kit) (records.Project, bool) {
	if kit.ProjectID == "" {
		return records.Project{}, false
	}
	return x.Project(kit.ProjectID)
}

// Evaluate computes the indicators of kit against the snapshot.
func (x *Index) Evaluate(kit records.Kit) KitIndicators {
	return Evaluate(kit, x.paints, x.kits)
}

// EvaluateProject computes the indicators of project against the snapshot.
func (x *Index) EvaluateProject(project records.Project) ProjectIndicators {
	return EvaluateProject(project, x.paints, x.kits)
}

// MixComplete reports derived availability of paint against the snapshot.
func (x *Index) MixComplete(paint records.Paint) bool {
	return MixComplete(paint, x.paints)
}
