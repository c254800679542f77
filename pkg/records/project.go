package records

// ProjectStatus is the state of a project.
type ProjectStatus string

// Project statuses
const (
	ProjectPlanned  ProjectStatus = "planned"
	ProjectActive   ProjectStatus = "active"
	ProjectFinished ProjectStatus = "finished"
	ProjectHold     ProjectStatus = "hold"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanned, ProjectActive, ProjectFinished, ProjectHold:
		return true
	}
	return false
}

// Project groups kits. Kits point at a project through Kit.ProjectID; the
// project itself keeps no list of kits.
type Project struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Status      ProjectStatus `json:"status" yaml:"status"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Accessories []Accessory   `json:"accessories" yaml:"accessories,omitempty"`
}

// RecordID returns the project id.
func (p Project) RecordID() string { return p.ID }
