package records

import (
	"fmt"
	"strings"
)

// KitStatus is the build state of a kit.
type KitStatus string

// Kit statuses
const (
	KitNew      KitStatus = "new"
	KitWIP      KitStatus = "wip"
	KitFinished KitStatus = "finished"
	KitWishlist KitStatus = "wishlist"
	KitScrap    KitStatus = "scrap"
)

// Valid reports whether s is a known kit status.
func (s KitStatus) Valid() bool {
	switch s {
	case KitNew, KitWIP, KitFinished, KitWishlist, KitScrap:
		return true
	}
	return false
}

// Buildable reports whether a kit in this state can still be built.
func (s KitStatus) Buildable() bool {
	return s == KitNew || s == KitWIP
}

// AccessoryStatus is whether an accessory is on hand.
type AccessoryStatus string

// Accessory statuses
const (
	AccessoryOwned  AccessoryStatus = "owned"
	AccessoryWanted AccessoryStatus = "wanted"
)

// Valid reports whether s is a known accessory status.
func (s AccessoryStatus) Valid() bool {
	return s == AccessoryOwned || s == AccessoryWanted
}

// AttachmentKind classifies an attachment.
type AttachmentKind string

// Attachment kinds
const (
	AttachmentPDF   AttachmentKind = "pdf"
	AttachmentImage AttachmentKind = "image"
	AttachmentLink  AttachmentKind = "link"
)

// Kit is a scale-model kit in the collection. Slice fields are always
// written to JSON, so an empty list and a missing one survive a round-trip.
type Kit struct {
	ID            string       `json:"id" yaml:"id"`
	Brand         string       `json:"brand" yaml:"brand"`
	CatalogNumber string       `json:"catalog_number" yaml:"catalog_number"`
	Scale         string       `json:"scale,omitempty" yaml:"scale,omitempty"`
	SubjectName   string       `json:"subject_name,omitempty" yaml:"subject_name,omitempty"`
	DisplayName   string       `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Status        KitStatus    `json:"status" yaml:"status"`
	Progress      int          `json:"progress" yaml:"progress"`
	ProjectID     string       `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	Paints        []KitPaint   `json:"paints" yaml:"paints,omitempty"`
	Accessories   []Accessory  `json:"accessories" yaml:"accessories,omitempty"`
	Attachments   []Attachment `json:"attachments" yaml:"attachments,omitempty"`
	Notes         string       `json:"notes,omitempty" yaml:"notes,omitempty"`

	// External metadata, usually filled by enrichment.
	ImageURL     string  `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Year         int     `json:"year,omitempty" yaml:"year,omitempty"`
	EAN          string  `json:"ean,omitempty" yaml:"ean,omitempty"`
	MarkingsHTML string  `json:"markings_html,omitempty" yaml:"markings_html,omitempty"`
	Offers       []Offer `json:"offers" yaml:"offers,omitempty"`
	SourceURL    string  `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}

// RecordID returns the kit id.
func (k Kit) RecordID() string { return k.ID }

// Label is the display name if set, otherwise brand, catalog number and
// subject joined.
func (k Kit) Label() string {
	if k.DisplayName != "" {
		return k.DisplayName
	}
	parts := make([]string, 0, 4)
	for _, s := range []string{k.Brand, k.CatalogNumber, k.Scale, k.SubjectName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return k.ID
	}
	return strings.Join(parts, " ")
}

// HasPaint reports whether the kit references paintID.
func (k Kit) HasPaint(paintID string) bool {
	for _, p := range k.Paints {
		if p.PaintID == paintID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the kit so that working copies never share
// slices with stored snapshots.
func (k Kit) Clone() Kit {
	c := k
	c.Paints = append([]KitPaint(nil), k.Paints...)
	c.Accessories = append([]Accessory(nil), k.Accessories...)
	c.Attachments = append([]Attachment(nil), k.Attachments...)
	c.Offers = append([]Offer(nil), k.Offers...)
	return c
}

// KitPaint is a weak reference from a kit to a paint.
type KitPaint struct {
	PaintID string `json:"paint_id" yaml:"paint_id"`
	Note    string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Accessory is an aftermarket part for a kit or project.
type Accessory struct {
	ID     string          `json:"id" yaml:"id"`
	Name   string          `json:"name" yaml:"name"`
	Status AccessoryStatus `json:"status" yaml:"status"`
	URL    string          `json:"url,omitempty" yaml:"url,omitempty"`
}

// Owned reports whether the accessory is on hand.
func (a Accessory) Owned() bool {
	return a.Status == AccessoryOwned
}

// Attachment is a file or link attached to a kit.
type Attachment struct {
	Name string         `json:"name" yaml:"name"`
	URL  string         `json:"url" yaml:"url"`
	Kind AttachmentKind `json:"kind" yaml:"kind"`
}

// Offer is a shop listing for a kit.
type Offer struct {
	Shop  string `json:"shop" yaml:"shop"`
	Price string `json:"price,omitempty" yaml:"price,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
}

// String renders the offer as "shop: price".
func (o Offer) String() string {
	if o.Price == "" {
		return o.Shop
	}
	return fmt.Sprintf("%s: %s", o.Shop, o.Price)
}
