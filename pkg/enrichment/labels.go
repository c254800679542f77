package enrichment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agentstation/kitstash/internal/matcher"
	"github.com/agentstation/kitstash/pkg/records"
)

// Field is a canonical kit field that label/value pairs map onto.
type Field string

// Canonical fields
const (
	FieldBrand         Field = "brand"
	FieldCatalogNumber Field = "catalog_number"
	FieldScale         Field = "scale"
	FieldSubject       Field = "subject"
	FieldEAN           Field = "ean"
	FieldYear          Field = "year"
)

// labelAliases maps folded labels, in several languages, to fields.
var labelAliases = map[string]Field{
	"brand":             FieldBrand,
	"manufacturer":      FieldBrand,
	"maker":             FieldBrand,
	"vyrobce":           FieldBrand,
	"znacka":            FieldBrand,
	"hersteller":        FieldBrand,
	"catalog number":    FieldCatalogNumber,
	"catalogue number":  FieldCatalogNumber,
	"cat. no.":          FieldCatalogNumber,
	"cat no":            FieldCatalogNumber,
	"kit number":        FieldCatalogNumber,
	"item number":       FieldCatalogNumber,
	"product code":      FieldCatalogNumber,
	"katalogove cislo":  FieldCatalogNumber,
	"katalogove c.":     FieldCatalogNumber,
	"artikelnummer":     FieldCatalogNumber,
	"scale":             FieldScale,
	"meritko":           FieldScale,
	"massstab":          FieldScale,
	"maßstab":           FieldScale,
	"subject":           FieldSubject,
	"predloha":          FieldSubject,
	"ean":               FieldEAN,
	"ean code":          FieldEAN,
	"ean kod":           FieldEAN,
	"barcode":           FieldEAN,
	"bar code":          FieldEAN,
	"carovy kod":        FieldEAN,
	"gtin":              FieldEAN,
	"release":           FieldYear,
	"released":          FieldYear,
	"release date":      FieldYear,
	"year":              FieldYear,
	"status":            FieldYear,
	"rok":               FieldYear,
	"rok vydani":        FieldYear,
	"datum vydani":      FieldYear,
	"vydano":            FieldYear,
	"erscheinungsjahr":  FieldYear,
	"erscheinungsdatum": FieldYear,
}

// FieldForLabel returns the canonical field of a label, ignoring case,
// diacritics, surrounding whitespace and a trailing colon.
func FieldForLabel(label string) (Field, bool) {
	f, ok := labelAliases[matcher.Fold(label)]
	return f, ok
}

var (
	yearPattern  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	scalePattern = regexp.MustCompile(`\b1\s*[:/]\s*\d{1,4}\b`)
	digitsOnly   = regexp.MustCompile(`\d+`)
)

// extractYear returns the first four digit year in s, or 0.
func extractYear(s string) int {
	m := yearPattern.FindString(s)
	if m == "" {
		return 0
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return year
}

// extractScale returns the scale contained in s as "1/48", or "".
func extractScale(s string) string {
	m := scalePattern.FindString(s)
	if m == "" {
		return ""
	}
	return records.NormalizeScale(m)
}

// cleanEAN keeps the digits of an EAN value.
func cleanEAN(s string) string {
	return strings.Join(digitsOnly.FindAllString(s, -1), "")
}

// applyField stores value in the partial kit. Fields already set keep their
// first value.
func (p *PartialKit) applyField(field Field, value string) {
	value = matcher.CollapseSpace(value)
	if value == "" {
		return
	}
	switch field {
	case FieldBrand:
		setOnce(&p.Brand, value)
	case FieldCatalogNumber:
		setOnce(&p.CatalogNumber, value)
	case FieldScale:
		if scale := extractScale(value); scale != "" {
			setOnce(&p.Scale, scale)
		}
	case FieldSubject:
		setOnce(&p.SubjectName, value)
	case FieldEAN:
		setOnce(&p.EAN, cleanEAN(value))
	case FieldYear:
		if p.Year == 0 {
			p.Year = extractYear(value)
		}
	}
}

func setOnce(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
