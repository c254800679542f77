package catalogs

// Spec describes how a paint type is thinned, cleaned and handled.
type Spec struct {
	Label    string   `yaml:"label" json:"label"`
	Solvent  string   `yaml:"solvent,omitempty" json:"solvent,omitempty"`
	Thinner  string   `yaml:"thinner,omitempty" json:"thinner,omitempty"`
	Cleanup  string   `yaml:"cleanup,omitempty" json:"cleanup,omitempty"`
	Safety   []string `yaml:"safety,omitempty" json:"safety,omitempty"`
	Usage    string   `yaml:"usage,omitempty" json:"usage,omitempty"`
	Dilution string   `yaml:"dilution,omitempty" json:"dilution,omitempty"`
}

// BrandSpecs holds the specs of one brand keyed by color type, and the table
// mapping upper-cased code prefixes to color types.
type BrandSpecs struct {
	Types    map[string]Spec   `yaml:"types" json:"types"`
	Prefixes map[string]string `yaml:"prefixes,omitempty" json:"prefixes,omitempty"`
}

// ForType returns the spec of a color type.
func (b BrandSpecs) ForType(colorType string) (Spec, bool) {
	spec, ok := b.Types[colorType]
	return spec, ok
}

// TypeForPrefix returns the color type registered for an upper-cased prefix.
func (b BrandSpecs) TypeForPrefix(prefix string) (string, bool) {
	if prefix == "" {
		return "", false
	}
	colorType, ok := b.Prefixes[prefix]
	return colorType, ok
}

// DefaultSpec is the generic advice used when a brand or type has no spec.
func DefaultSpec() Spec {
	return Spec{
		Label:    "Generic hobby paint",
		Thinner:  "Thinner recommended by the manufacturer",
		Cleanup:  "Clean brushes and airbrush with the matching thinner",
		Safety:   []string{"Work in a ventilated area", "Keep away from children"},
		Usage:    "Brush or airbrush; test on a spare part first",
		Dilution: "Thin to the consistency of milk for airbrushing",
	}
}
