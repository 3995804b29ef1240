package audit

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var navHints = []string{"nav", "menu", "header"}

// ExtractNavigationLinks finds the primary navigation region of a page
// and returns the absolute, same-host, fragment-stripped URLs it links
// to. Candidate regions are tried in order and the first non-empty set
// wins: <nav> landmarks, <header> elements, div/ul containers whose
// class or id mentions navigation, and finally the first <ul> in the
// document.
//
// URLs are deduplicated by exact string equality after fragment
// stripping; trailing slashes, letter case, and default ports are not
// canonicalized.
func ExtractNavigationLinks(body string, base *url.URL) map[string]struct{} {
	links := make(map[string]struct{})
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return links
	}

	candidates := doc.Find("nav")
	if candidates.Length() == 0 {
		candidates = doc.Find("header")
	}
	if candidates.Length() == 0 {
		candidates = doc.Find("div,ul").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return hasNavHint(s.AttrOr("class", "")) || hasNavHint(s.AttrOr("id", ""))
		})
	}
	if candidates.Length() == 0 {
		candidates = doc.Find("ul").First()
	}

	candidates.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if resolved, ok := resolveSameHost(base, href); ok {
			links[resolved] = struct{}{}
		}
	})
	return links
}

// CountInternalLinks scans a whole page body and counts hyperlinks
// resolving to the audited site's host, independent of where on the
// page they appear. Relative hrefs resolve against the page's own URL.
func CountInternalLinks(body string, pageURL, base *url.URL) int {
	if body == "" {
		return 0
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return 0
	}
	count := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if sameHost(pageURL.ResolveReference(ref), base) {
			count++
		}
	})
	return count
}

// SiteBase reduces a start URL to the scheme+host root that navigation
// links resolve against.
func SiteBase(u *url.URL) *url.URL {
	return &url.URL{Scheme: u.Scheme, Host: u.Host}
}

func resolveSameHost(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if !sameHost(resolved, base) {
		return "", false
	}
	resolved.Fragment = ""
	clean := resolved.String()
	if clean == "" {
		return "", false
	}
	return clean, true
}

func sameHost(u, base *url.URL) bool {
	return u.Host != "" && strings.EqualFold(u.Host, base.Host)
}

func hasNavHint(attr string) bool {
	if attr == "" {
		return false
	}
	lower := strings.ToLower(attr)
	for _, hint := range navHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
