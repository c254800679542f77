package enrichment

import (
	"strconv"
	"strings"

	"github.com/agentstation/kitstash/pkg/records"
)

// ApplyToKit merges a partial kit into kit and returns the result. Values
// found on the page replace stored ones, empty values never clear them.
// Offers are replaced when the page listed any, notes and the instructions
// attachment are only added once, so applying the same partial kit twice is
// the same as applying it once.
func ApplyToKit(kit records.Kit, pk PartialKit) records.Kit {
	out := kit.Clone()

	replace(&out.Brand, pk.Brand)
	replace(&out.CatalogNumber, pk.CatalogNumber)
	replace(&out.Scale, records.NormalizeScale(pk.Scale))
	replace(&out.SubjectName, pk.SubjectName)
	replace(&out.ImageURL, pk.ImageURL)
	replace(&out.EAN, pk.EAN)
	replace(&out.MarkingsHTML, pk.MarkingsHTML)
	replace(&out.SourceURL, pk.SourceURL)
	if pk.Year != 0 {
		out.Year = pk.Year
	}
	if len(pk.Offers) > 0 {
		out.Offers = MergeOffers(nil, pk.Offers)
	}

	if pk.Instructions != nil && !hasAttachment(out.Attachments, pk.Instructions.URL) {
		out.Attachments = append(out.Attachments, *pk.Instructions)
	}
	for _, note := range pk.Notes {
		out.Notes = appendNote(out.Notes, note)
	}
	return out
}

func replace(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func hasAttachment(list []records.Attachment, url string) bool {
	for _, a := range list {
		if a.URL == url {
			return true
		}
	}
	return false
}

func appendNote(notes, note string) string {
	note = strings.TrimSpace(note)
	if note == "" || strings.Contains(notes, note) {
		return notes
	}
	if strings.TrimSpace(notes) == "" {
		return note
	}
	return notes + "\n" + note
}

// Summary is a one-line description of what a partial kit carries.
func (p PartialKit) Summary() string {
	var parts []string
	for _, s := range []string{p.Brand, p.CatalogNumber, p.Scale, p.SubjectName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if p.Year != 0 {
		parts = append(parts, strconv.Itoa(p.Year))
	}
	if len(p.Offers) > 0 {
		parts = append(parts, strconv.Itoa(len(p.Offers))+" offers")
	}
	if len(parts) == 0 {
		return p.Title
	}
	return strings.Join(parts, ", ")
}
