package enrichment

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/agentstation/kitstash/internal/matcher"
	"github.com/agentstation/kitstash/pkg/records"
)

// showAllPhrases are folded link texts that lead to the full offer list.
var showAllPhrases = []string{
	"show all offers",
	"all offers",
	"vsechny nabidky",
	"zobrazit vsechny nabidky",
	"alle angebote",
}

// parseOffers reads shop listings from ".offers .offer" blocks.
func parseOffers(doc *goquery.Document) []records.Offer {
	var offers []records.Offer
	doc.Find(".offers .offer, .offer-list .offer").Each(func(_ int, s *goquery.Selection) {
		offer := records.Offer{
			Shop:  matcher.CollapseSpace(s.Find(".shop").First().Text()),
			Price: matcher.CollapseSpace(s.Find(".price").First().Text()),
		}
		if href, ok := s.Find("a[href]").First().Attr("href"); ok {
			offer.URL = strings.TrimSpace(href)
		}
		if offer.Shop == "" {
			return
		}
		offers = append(offers, offer)
	})
	return MergeOffers(nil, offers)
}

// findShowAllOffers returns the absolute URL of the "show all offers" page,
// or "" when the page lists everything already.
func findShowAllOffers(pageURL string, doc *goquery.Document) string {
	if href, ok := doc.Find("a.show-all-offers, a.all-offers").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		return resolveURL(pageURL, href)
	}
	var link string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !containsAny(matcher.Fold(a.Text()), showAllPhrases) {
			return true
		}
		href, _ := a.Attr("href")
		if strings.TrimSpace(href) == "" {
			return true
		}
		link = resolveURL(pageURL, href)
		return false
	})
	return link
}

// offerKey identifies an offer by shop and price, ignoring case, diacritics
// and spacing.
func offerKey(o records.Offer) string {
	return matcher.Fold(o.Shop) + "|" + matcher.CollapseSpace(o.Price)
}

// MergeOffers appends the offers from more that are not already in base.
// Order is preserved and the first occurrence of a duplicate wins.
func MergeOffers(base, more []records.Offer) []records.Offer {
	seen := make(map[string]struct{}, len(base)+len(more))
	merged := make([]records.Offer, 0, len(base)+len(more))
	for _, list := range [][]records.Offer{base, more} {
		for _, o := range list {
			key := offerKey(o)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, o)
		}
	}
	return merged
}
