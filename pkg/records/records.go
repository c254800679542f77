// Package records defines the user's own collection records: paints, kits and
// projects. Records are plain structs that round-trip through JSON without
// loss; relationships between them are weak references by id.
package records

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Collection names used by the record store.
const (
	CollectionPaints   = "paints"
	CollectionKits     = "kits"
	CollectionProjects = "projects"
)

// mixIDPrefix marks generated identities of mix paints.
const mixIDPrefix = "mix-"

var scalePattern = regexp.MustCompile(`^\d+/\d+$`)

// NewID returns a new opaque record id.
func NewID() string {
	return uuid.NewString()
}

// NewMixID returns a generated identity for a mix paint.
func NewMixID() string {
	return mixIDPrefix + uuid.NewString()
}

// IsMixID reports whether id was produced by NewMixID.
func IsMixID(id string) bool {
	return strings.HasPrefix(id, mixIDPrefix)
}

// ValidScale reports whether scale has the form digits/digits, e.g. "1/48".
func ValidScale(scale string) bool {
	return scalePattern.MatchString(scale)
}

// NormalizeScale converts "1:48" and " 1 / 48 " into "1/48". Values that do
// not look like a scale are returned trimmed but otherwise unchanged.
func NormalizeScale(scale string) string {
	s := strings.Join(strings.Fields(scale), "")
	s = strings.ReplaceAll(s, ":", "/")
	if ValidScale(s) {
		return s
	}
	return strings.TrimSpace(scale)
}

// foldIdentity lower-cases, trims and collapses inner whitespace.
func foldIdentity(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// PaintKey is the case- and whitespace-insensitive identity of a catalog
// paint: brand and code joined by "|".
func PaintKey(brand, code string) string {
	return foldIdentity(brand) + "|" + foldIdentity(code)
}
