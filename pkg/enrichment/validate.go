package enrichment

import (
	"regexp"
	"strings"

	"github.com/agentstation/kitstash/pkg/errors"
)

// BlockMarkers are markup fragments that only appear on anti-bot
// challenge pages returned with a success status.
var BlockMarkers = []string{
	"cf-browser-verification",
	"cf-chl-",
}

// BlockTitles are page titles of challenge and denial pages. They are
// matched against the <title> only, since kit pages commonly load captcha
// widgets for comment or login forms.
var BlockTitles = []string{
	"Just a moment...",
	"Attention Required! | Cloudflare",
	"Access Denied",
	"Captcha",
	"Are you a robot?",
}

var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// pageTitle returns the lower-cased text of the first <title> in body.
func pageTitle(body string) string {
	m := titlePattern.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(m[1]))
}

// checkPage rejects bodies that are block pages or too short to be a kit
// page.
func checkPage(url, body string, minLength int) error {
	for _, marker := range BlockMarkers {
		if strings.Contains(body, marker) {
			return &errors.BlockedPageError{URL: url, Marker: marker, Length: len(body)}
		}
	}
	if title := pageTitle(body); title != "" {
		for _, marker := range BlockTitles {
			if strings.Contains(title, strings.ToLower(marker)) {
				return &errors.BlockedPageError{URL: url, Marker: marker, Length: len(body)}
			}
		}
	}
	if len(strings.TrimSpace(body)) < minLength {
		return &errors.BlockedPageError{URL: url, Length: len(body)}
	}
	return nil
}
