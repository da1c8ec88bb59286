// Package discovery derives the member roster from the listing page.
package discovery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Entry is one discovered member: a numeric identifier and the canonical
// address of its profile page.
type Entry struct {
	ID      string
	Address string
}

// Result holds the deduplicated roster in discovery order.
type Result struct {
	Entries    []Entry
	Duplicates int // links that resolved to an already-seen identifier
}

// Discover parses the roster HTML and returns the set of unique member
// identifiers with their canonical profile addresses.
//
// Profile links come in several shapes:
//
//	/meps/en/256810
//	/meps/en/256810/MIKA_AALTOLA/home
//
// Both normalize to <base><prefix><id>; the site redirects the longer
// forms to the canonical page. Multiple links yielding the same identifier
// collapse to one entry, first seen wins.
func Discover(rosterHTML, baseURL, profilePrefix string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rosterHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster HTML: %w", err)
	}

	pattern, err := regexp.Compile(regexp.QuoteMeta(profilePrefix) + `(\d+)`)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile link pattern: %w", err)
	}

	base := strings.TrimSuffix(baseURL, "/")
	seen := make(map[string]bool)
	result := &Result{}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}

		m := pattern.FindStringSubmatch(href)
		if m == nil {
			return
		}

		id := m[1]
		if seen[id] {
			result.Duplicates++
			return
		}
		seen[id] = true

		result.Entries = append(result.Entries, Entry{
			ID:      id,
			Address: base + profilePrefix + id,
		})
	})

	return result, nil
}
