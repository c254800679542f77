package enrichment

import (
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/records"
)

// PartialKit is what one enrichment run learned about a kit. Empty fields
// were not found on the page.
type PartialKit struct {
	SourceURL     string              `json:"source_url"`
	Title         string              `json:"title,omitempty"`
	Brand         string              `json:"brand,omitempty"`
	CatalogNumber string              `json:"catalog_number,omitempty"`
	Scale         string              `json:"scale,omitempty"`
	SubjectName   string              `json:"subject_name,omitempty"`
	ImageURL      string              `json:"image_url,omitempty"`
	Year          int                 `json:"year,omitempty"`
	EAN           string              `json:"ean,omitempty"`
	MarkingsHTML  string              `json:"markings_html,omitempty"`
	Offers        []records.Offer     `json:"offers,omitempty"`
	Instructions  *records.Attachment `json:"instructions,omitempty"`
	Exact         bool                `json:"exact"`
	Notes         []string            `json:"notes,omitempty"`
	Extra         map[string]string   `json:"extra,omitempty"`
}

// Empty reports whether nothing that describes the kit was parsed: no
// brand, catalog number, scale, subject, image, EAN or year. A title alone
// does not count, since it is never merged into the kit.
func (p PartialKit) Empty() bool {
	return p.Brand == "" && p.CatalogNumber == "" && p.Scale == "" &&
		p.SubjectName == "" && p.ImageURL == "" && p.EAN == "" && p.Year == 0
}

// Stage names a step of the pipeline.
type Stage string

// Pipeline stages
const (
	StagePrimary  Stage = "primary"
	StageExtended Stage = "extended"
)

// SoftFailure is a failed optional step. The run still succeeds.
type SoftFailure struct {
	Stage    Stage           `json:"stage"`
	URL      string          `json:"url"`
	Category errors.Category `json:"category"`
	Err      error           `json:"-"`
}

// Error implements the error interface.
func (f SoftFailure) Error() string {
	return string(f.Stage) + " " + f.URL + ": " + f.Err.Error()
}

// Result is the outcome of one enrichment run.
type Result struct {
	Kit          PartialKit      `json:"kit"`
	SoftFailures []SoftFailure   `json:"soft_failures,omitempty"`
	Failed       bool            `json:"failed"`
	Category     errors.Category `json:"category,omitempty"`
	States       []State         `json:"states"`
	ExecutedAt   utc.Time        `json:"executed_at"`
	Duration     time.Duration   `json:"duration"`
}

// Final returns the last state the run reached.
func (r Result) Final() State {
	if len(r.States) == 0 {
		return StateIdle
	}
	return r.States[len(r.States)-1]
}
