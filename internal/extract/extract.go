// Package extract pulls member fields out of profile page HTML.
//
// Profile markup varies across members: older template revisions drop
// headings, some members have no contact links at all. Each field is
// therefore extracted by an ordered list of strategies, tried until one
// yields a value; a field whose strategies all miss is simply absent.
// Extraction never fails — a page with no recognizable structure still
// produces a usable record.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/leavex/mepscan/internal/config"
)

// Fields holds the best-effort values extracted from one profile page.
// Empty strings mean the field was not found.
type Fields struct {
	Name                 string
	Email                string
	SocialURL            string
	SocialHandle         string
	PoliticalGroup       string
	Country              string
	NationalParty        string
	RawCountryPartyBlock string
}

// mailScheme is the link prefix identifying an email address target.
const mailScheme = "mailto:"

// countryPartySeparator splits the combined country/national-party block.
const countryPartySeparator = " - "

// strategy is one attempt to derive a field value from the page.
// An empty return means the strategy did not match.
type strategy func(doc *goquery.Document) string

// firstMatch runs strategies in priority order until one succeeds.
func firstMatch(doc *goquery.Document, strategies []strategy) string {
	for _, attempt := range strategies {
		if v := attempt(doc); v != "" {
			return v
		}
	}
	return ""
}

// Profile extracts all member fields from the given page HTML. The id is
// used only to synthesize a placeholder name when no name can be found.
func Profile(pageHTML, id string, sel config.Selectors) Fields {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		// Unparsable content degrades to an all-absent record.
		return Fields{Name: placeholderName(id)}
	}

	f := Fields{}

	f.Name = firstMatch(doc, []strategy{
		headingName,
		contextualName(sel.GroupMarker),
	})
	if f.Name == "" {
		f.Name = placeholderName(id)
	}

	f.PoliticalGroup = firstMatch(doc, []strategy{
		selectorText(sel.PoliticalGroup),
	})

	f.RawCountryPartyBlock = firstMatch(doc, []strategy{
		selectorText(sel.CountryBlock),
	})
	f.Country, f.NationalParty = SplitCountryParty(f.RawCountryPartyBlock)

	f.Email = extractEmail(doc, sel.EmailLink)
	f.SocialURL, f.SocialHandle = extractSocial(doc, sel.SocialLink)

	return f
}

// placeholderName is the last-resort synthetic display name.
func placeholderName(id string) string {
	return "MEP-" + id
}

// headingName takes the page's primary heading as the member name.
func headingName(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// contextualName scans text nodes for the first multi-word, non-uppercase
// string, but only on pages that carry the group-affiliation marker phrase
// — without it the page is unlikely to be a member profile at all.
func contextualName(marker string) strategy {
	return func(doc *goquery.Document) string {
		if marker == "" || !strings.Contains(doc.Text(), marker) {
			return ""
		}

		var name string
		scanTextNodes(doc, func(s string) bool {
			if len(strings.Fields(s)) >= 2 && s != strings.ToUpper(s) {
				name = s
				return false
			}
			return true
		})
		return name
	}
}

// selectorText returns the trimmed, whitespace-normalized text of the
// first element matching the selector.
func selectorText(selector string) strategy {
	return func(doc *goquery.Document) string {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			return ""
		}
		return normalizeWhitespace(nodeText(el))
	}
}

// extractEmail reads the mail-link element. Targets without the mailto
// scheme are ignored rather than guessed at.
func extractEmail(doc *goquery.Document, selector string) string {
	href, ok := doc.Find(selector).First().Attr("href")
	if !ok || !strings.HasPrefix(href, mailScheme) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(href, mailScheme))
}

// extractSocial reads the social-link element and derives the handle from
// the URL path.
func extractSocial(doc *goquery.Document, selector string) (socialURL, handle string) {
	href, ok := doc.Find(selector).First().Attr("href")
	if !ok || href == "" {
		return "", ""
	}
	return href, HandleFromURL(href)
}

// HandleFromURL extracts a social handle from a URL like
// https://x.com/MikaAaltola, returning e.g. "MikaAaltola". An empty path
// yields no handle.
func HandleFromURL(socialURL string) string {
	u, err := url.Parse(socialURL)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	return strings.SplitN(path, "/", 2)[0]
}

// SplitCountryParty splits the combined block on the literal " - "
// separator. A block without the separator is treated as a bare country;
// the national party stays absent.
func SplitCountryParty(block string) (country, nationalParty string) {
	if block == "" {
		return "", ""
	}
	if !strings.Contains(block, countryPartySeparator) {
		return block, ""
	}
	parts := strings.SplitN(block, countryPartySeparator, 2)
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

// normalizeWhitespace collapses all runs of whitespace to single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nodeText returns the element's text with a space between adjacent text
// nodes, so text split across child elements doesn't run together.
func nodeText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		walkTextNodes(n, func(s string) bool {
			parts = append(parts, s)
			return true
		})
	}
	return strings.Join(parts, " ")
}

// scanTextNodes visits every non-empty text node in document order until
// visit returns false. Script and style contents are skipped.
func scanTextNodes(doc *goquery.Document, visit func(string) bool) {
	for _, n := range doc.Selection.Nodes {
		if !walkTextNodes(n, visit) {
			return
		}
	}
}

func walkTextNodes(n *html.Node, visit func(string) bool) bool {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return true
	}
	if n.Type == html.TextNode {
		if s := strings.TrimSpace(n.Data); s != "" {
			return visit(s)
		}
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkTextNodes(c, visit) {
			return false
		}
	}
	return true
}
