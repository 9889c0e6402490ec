// Package identity derives stable participant and team keys from wiki links.
//
// A wiki link either points at an existing page (the slug is the key and the
// href is the profile link) or at the "create this page" editor, a red link,
// whose query string carries the intended title.
package identity

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// redlinkMarker is the query parameter the wiki adds to links of missing pages
const redlinkMarker = "redlink=1"

// Identity is a resolved participant or team key
type Identity struct {
	Key  string `json:"key"`
	Link string `json:"link,omitempty"` // empty for red links
}

// IsRedlink reports whether href points at a page that does not exist yet
func IsRedlink(href string) bool {
	return strings.Contains(href, redlinkMarker)
}

// FromHref resolves an identity from a raw href
func FromHref(href string) Identity {
	if href == "" {
		return Identity{}
	}

	if IsRedlink(href) {
		return Identity{Key: redlinkTitle(href)}
	}

	return Identity{Key: lastSegment(href), Link: href}
}

// Resolve resolves the identity of an anchor element. Anchors without an href
// fall back to their text as key.
func Resolve(anchor *goquery.Selection) Identity {
	if anchor == nil || anchor.Length() == 0 {
		return Identity{}
	}
	href, ok := anchor.Attr("href")
	if !ok || href == "" {
		return Identity{Key: strings.TrimSpace(anchor.Text())}
	}
	return FromHref(href)
}

// ValidLink returns the anchor's href, or "" for red links and missing hrefs
func ValidLink(anchor *goquery.Selection) string {
	if anchor == nil {
		return ""
	}
	href, ok := anchor.Attr("href")
	if !ok || IsRedlink(href) {
		return ""
	}
	return href
}

func redlinkTitle(href string) string {
	raw := href
	if i := strings.Index(raw, "?"); i >= 0 {
		raw = raw[i+1:]
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return ""
	}
	return values.Get("title")
}

func lastSegment(href string) string {
	p := href
	if u, err := url.Parse(href); err == nil && u.Path != "" {
		p = u.EscapedPath()
	}
	p = strings.TrimRight(p, "/")
	return path.Base(p)
}
