package records

import (
	"fmt"

	"github.com/agentstation/kitstash/pkg/constants"
	"github.com/agentstation/kitstash/pkg/errors"
)

// PaintStatus is the stock state of a paint.
type PaintStatus string

// Paint statuses
const (
	PaintInStock PaintStatus = "in_stock"
	PaintLow     PaintStatus = "low"
	PaintWanted  PaintStatus = "wanted"
	PaintEmpty   PaintStatus = "empty"
)

// Valid reports whether s is a known paint status.
func (s PaintStatus) Valid() bool {
	switch s {
	case PaintInStock, PaintLow, PaintWanted, PaintEmpty:
		return true
	}
	return false
}

// Usable reports whether there is paint in the bottle, low or not.
func (s PaintStatus) Usable() bool {
	return s == PaintInStock || s == PaintLow
}

// Paint is a paint the user owns, wants, or has mixed.
type Paint struct {
	ID        string      `json:"id" yaml:"id"`
	Brand     string      `json:"brand" yaml:"brand"`
	Code      string      `json:"code" yaml:"code"`
	Name      string      `json:"name" yaml:"name"`
	ColorType string      `json:"color_type,omitempty" yaml:"color_type,omitempty"`
	Finish    string      `json:"finish,omitempty" yaml:"finish,omitempty"`
	Hex       string      `json:"hex,omitempty" yaml:"hex,omitempty"`
	Status    PaintStatus `json:"status" yaml:"status"`
	IsMix     bool        `json:"is_mix" yaml:"is_mix"`
	MixParts  []MixPart   `json:"mix_parts" yaml:"mix_parts,omitempty"`
	Thinner   string      `json:"thinner,omitempty" yaml:"thinner,omitempty"`
	Dilution  *Dilution   `json:"dilution,omitempty" yaml:"dilution,omitempty"`
	Notes     string      `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// RecordID returns the paint id.
func (p Paint) RecordID() string { return p.ID }

// Key returns the catalog identity of the paint. Mixes have no catalog
// identity and are keyed by their generated id.
func (p Paint) Key() string {
	if p.IsMix {
		return p.ID
	}
	return PaintKey(p.Brand, p.Code)
}

// Label is the short human label, e.g. "Tamiya XF-1 Flat Black".
func (p Paint) Label() string {
	switch {
	case p.IsMix:
		return p.Name
	case p.Code == "":
		return fmt.Sprintf("%s %s", p.Brand, p.Name)
	default:
		return fmt.Sprintf("%s %s %s", p.Brand, p.Code, p.Name)
	}
}

// Validate checks structural invariants of the record.
func (p Paint) Validate() error {
	if !p.Status.Valid() {
		return errors.NewValidationError("status", p.Status, "unknown paint status")
	}
	if !p.IsMix && len(p.MixParts) > 0 {
		return errors.NewValidationError("mix_parts", len(p.MixParts), "only mix paints may have mix parts")
	}
	for i, part := range p.MixParts {
		if part.PaintID == "" {
			return errors.NewValidationError(fmt.Sprintf("mix_parts[%d].paint_id", i), part.PaintID, "ingredient is required")
		}
		if part.Parts <= 0 {
			return errors.NewValidationError(fmt.Sprintf("mix_parts[%d].parts", i), part.Parts, "ratio must be positive")
		}
	}
	if p.Dilution != nil {
		return p.Dilution.Validate()
	}
	return nil
}

// MixPart is one ingredient of a mix recipe. Name, Code and Brand are
// captured when the ingredient is added and are not kept in sync with the
// ingredient paint afterwards.
type MixPart struct {
	PaintID string `json:"paint_id" yaml:"paint_id"`
	Parts   int    `json:"parts" yaml:"parts"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
	Brand   string `json:"brand,omitempty" yaml:"brand,omitempty"`
}

// Label is the snapshot label of the ingredient.
func (m MixPart) Label() string {
	if m.Code == "" {
		return fmt.Sprintf("%d× %s", m.Parts, m.Name)
	}
	return fmt.Sprintf("%d× %s %s", m.Parts, m.Code, m.Name)
}

// Dilution is a paint:thinner ratio in percent.
type Dilution struct {
	Paint   int `json:"paint" yaml:"paint"`
	Thinner int `json:"thinner" yaml:"thinner"`
}

// Validate checks that both parts are non-negative and sum to 100.
func (d Dilution) Validate() error {
	if d.Paint < 0 || d.Thinner < 0 {
		return errors.NewValidationError("dilution", d, "parts must not be negative")
	}
	if d.Paint+d.Thinner != constants.DilutionTotal {
		return errors.NewValidationError("dilution", d, fmt.Sprintf("parts must sum to %d", constants.DilutionTotal))
	}
	return nil
}

// String renders the ratio as "60:40".
func (d Dilution) String() string {
	return fmt.Sprintf("%d:%d", d.Paint, d.Thinner)
}
