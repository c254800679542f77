package enrichment

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/agentstation/kitstash/internal/matcher"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/records"
)

// CautionNote is added to a partial kit whose source marks the
// instructions as not matching the exact kit.
const CautionNote = "Caution: instructions are for a related kit, not this exact release."

// notExactMarkers are folded phrases that flag inexact instructions.
var notExactMarkers = []string{
	"not exact",
	"not the exact",
	"nepresny",
	"nepresne",
	"neni presny",
	"nicht exakt",
}

// parseDocument loads an HTML body into a goquery document.
func parseDocument(pageURL, body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, errors.WrapParse("html", pageURL, err)
	}
	return doc, nil
}

// ParseKitPage extracts what it can from a kit detail page. It returns
// ErrNothingParsed when the page yields nothing that describes the kit, see
// PartialKit.Empty.
func ParseKitPage(pageURL, body string) (PartialKit, error) {
	doc, err := parseDocument(pageURL, body)
	if err != nil {
		return PartialKit{}, err
	}
	return parseKit(pageURL, doc)
}

func parseKit(pageURL string, doc *goquery.Document) (PartialKit, error) {
	pk := PartialKit{SourceURL: pageURL, Exact: true}

	pk.Title = matcher.CollapseSpace(doc.Find("h1").First().Text())
	parseLabels(&pk, doc)
	parseHeading(&pk, doc)
	pk.ImageURL = findImage(pageURL, doc)
	pk.MarkingsHTML = findSectionHTML(doc, []string{"#markings", ".markings"}, []string{"markings", "decals", "barevna schemata", "markierungen"})
	parseInstructions(&pk, pageURL, doc)
	pk.Offers = parseOffers(doc)

	if pk.Empty() {
		return pk, errors.NewParseError("html", pageURL, "no kit details found", errors.ErrNothingParsed)
	}
	return pk, nil
}

// parseHeading reads the pipe-delimited heading many kit databases use,
// e.g. "Spitfire Mk.I | 1:48 | Tamiya 61032": the subject first, then the
// scale and a "brand number" segment in any order. Values already taken
// from the label/value lists are kept.
func parseHeading(pk *PartialKit, doc *goquery.Document) {
	var heading string
	doc.Find(".kit-header, h2, h1").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := matcher.CollapseSpace(s.Text())
		if strings.Contains(text, "|") {
			heading = text
			return false
		}
		return true
	})
	if heading == "" {
		if scale := extractScale(pk.Title); scale != "" {
			pk.Scale = scale
		}
		return
	}

	parts := strings.Split(heading, "|")
	makerSeen := false
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if scale := extractScale(part); scale != "" {
			setOnce(&pk.Scale, scale)
			continue
		}
		switch {
		case i == 0:
			setOnce(&pk.SubjectName, part)
		case !makerSeen:
			makerSeen = true
			brand, number := splitMaker(part)
			setOnce(&pk.Brand, brand)
			setOnce(&pk.CatalogNumber, number)
		}
	}
	if pk.Title == "" || strings.Contains(pk.Title, "|") {
		pk.Title = strings.TrimSpace(parts[0])
	}
}

// splitMaker splits a heading segment such as "Tamiya 61032" or
// "Special Hobby SH72345" into brand and catalog number. The catalog number
// is the last word when it contains a digit.
func splitMaker(segment string) (brand, number string) {
	words := strings.Fields(segment)
	if len(words) == 0 {
		return "", ""
	}
	last := words[len(words)-1]
	if !strings.ContainsAny(last, "0123456789") {
		return segment, ""
	}
	return strings.Join(words[:len(words)-1], " "), last
}

// parseLabels collects label/value pairs from definition lists, two-column
// tables and "<strong>Label:</strong> value" paragraphs.
func parseLabels(pk *PartialKit, doc *goquery.Document) {
	add := func(label, value string) {
		label = matcher.CollapseSpace(label)
		value = matcher.CollapseSpace(value)
		if label == "" || value == "" {
			return
		}
		if field, ok := FieldForLabel(label); ok {
			pk.applyField(field, value)
			return
		}
		if pk.Extra == nil {
			pk.Extra = make(map[string]string)
		}
		key := matcher.Fold(label)
		if _, exists := pk.Extra[key]; !exists {
			pk.Extra[key] = value
		}
	}

	doc.Find("dl dt").Each(func(_ int, dt *goquery.Selection) {
		add(dt.Text(), dt.NextFiltered("dd").Text())
	})

	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		if th := tr.Find("th"); th.Length() > 0 {
			add(th.First().Text(), tr.Find("td").First().Text())
			return
		}
		if tds := tr.Find("td"); tds.Length() == 2 {
			add(tds.Eq(0).Text(), tds.Eq(1).Text())
		}
	})

	doc.Find("p strong, li strong, div > strong").Each(func(_ int, strong *goquery.Selection) {
		label := strong.Text()
		if !strings.HasSuffix(strings.TrimSpace(label), ":") {
			return
		}
		parent := strong.Parent().Clone()
		parent.Find("strong").First().Remove()
		add(label, parent.Text())
	})
}

// findImage returns the page's main image as an absolute URL.
func findImage(pageURL string, doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && strings.TrimSpace(content) != "" {
		return resolveURL(pageURL, content)
	}
	for _, sel := range []string{".gallery img", "figure img", "img"} {
		img := doc.Find(sel).First()
		if img.Length() == 0 {
			continue
		}
		for _, attr := range []string{"src", "data-src"} {
			if src, ok := img.Attr(attr); ok && strings.TrimSpace(src) != "" {
				return resolveURL(pageURL, src)
			}
		}
	}
	return ""
}

// findSectionHTML returns the inner HTML of the first element matched by
// selectors, or of the content following a heading whose folded text is in
// titles.
func findSectionHTML(doc *goquery.Document, selectors, titles []string) string {
	for _, sel := range selectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			if html, err := s.Html(); err == nil && strings.TrimSpace(html) != "" {
				return strings.TrimSpace(html)
			}
		}
	}
	heading := findHeading(doc, titles)
	if heading == nil {
		return ""
	}
	var b strings.Builder
	heading.NextUntil("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if html, err := goquery.OuterHtml(s); err == nil {
			b.WriteString(html)
		}
	})
	return strings.TrimSpace(b.String())
}

// findHeading returns the first h2 or h3 whose folded text is one of titles.
func findHeading(doc *goquery.Document, titles []string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := matcher.Fold(s.Text())
		for _, title := range titles {
			if text == title {
				found = s
				return false
			}
		}
		return true
	})
	return found
}

// parseInstructions attaches the first instructions link and flags
// instructions that belong to a related kit.
func parseInstructions(pk *PartialKit, pageURL string, doc *goquery.Document) {
	section := doc.Find("#instructions, .instructions").First()
	if section.Length() == 0 {
		if heading := findHeading(doc, []string{"instructions", "navod", "navody", "bauanleitung"}); heading != nil {
			section = heading.NextUntil("h1, h2, h3")
		}
	}
	if section.Length() == 0 {
		return
	}

	if href, ok := section.Find("a[href]").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		link := resolveURL(pageURL, href)
		kind := records.AttachmentLink
		if strings.HasSuffix(strings.ToLower(stripQuery(link)), ".pdf") {
			kind = records.AttachmentPDF
		}
		pk.Instructions = &records.Attachment{Name: "Instructions", URL: link, Kind: kind}
	}

	if section.Find(".not-exact").Length() > 0 || section.Filter(".not-exact").Length() > 0 || containsAny(matcher.Fold(section.Text()), notExactMarkers) {
		pk.Exact = false
		pk.Notes = append(pk.Notes, CautionNote)
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// resolveURL makes ref absolute against base. Unparseable input is returned
// unchanged.
func resolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func stripQuery(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		return link[:i]
	}
	return link
}
