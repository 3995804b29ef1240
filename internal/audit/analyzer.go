package audit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Thresholds for title and meta description lengths, in characters.
const (
	minTitleLength    = 30
	maxTitleLength    = 60
	minMetaDescLength = 120
	maxMetaDescLength = 160
)

// Analyze classifies one fetched page against the fixed rule set. It
// is a pure function: the same FetchResult always yields the same
// PageAnalysis, and malformed HTML degrades to empty fields instead of
// failing.
//
// Pages that are not plain 200-with-body short-circuit to a single
// issue code and zeroed metrics.
func Analyze(page FetchResult) PageAnalysis {
	if page.Body == "" || page.StatusCode != 200 {
		issue := IssueNoHTMLContent
		if page.StatusCode != 200 {
			issue = IssuePageNotAccessible
		}
		return PageAnalysis{
			URL:               page.URL,
			StatusCode:        page.StatusCode,
			SizeKB:            page.SizeKB,
			InternalLinkCount: page.InternalLinkCount,
			Issues:            []string{issue},
		}
	}

	title, metaDesc, h1Tags, canonicalURL, canonicalPresent, noindex := extractSEOFields(page.Body)

	analysis := PageAnalysis{
		URL:                   page.URL,
		StatusCode:            page.StatusCode,
		Title:                 title,
		TitleLength:           utf8.RuneCountInString(title),
		MetaDescription:       metaDesc,
		MetaDescriptionLength: utf8.RuneCountInString(metaDesc),
		H1Count:               len(h1Tags),
		H1Tags:                h1Tags,
		CanonicalPresent:      canonicalPresent,
		CanonicalURL:          canonicalURL,
		Noindex:               noindex,
		SizeKB:                page.SizeKB,
		InternalLinkCount:     page.InternalLinkCount,
	}
	analysis.Issues = detectIssues(analysis)
	return analysis
}

// Summarize scans the full analysis sequence once and counts the five
// site-level indicators. Each counter is bounded by len(pages).
func Summarize(pages []PageAnalysis) Summary {
	var s Summary
	for _, page := range pages {
		if page.StatusCode != 200 {
			s.Non200Pages++
		}
		if page.TitleLength == 0 {
			s.MissingTitle++
		}
		if page.MetaDescriptionLength == 0 {
			s.MissingMetaDescription++
		}
		if page.H1Count > 1 {
			s.MultipleH1++
		}
		if page.Noindex {
			s.NoindexPages++
		}
	}
	return s
}

func extractSEOFields(body string) (title, metaDesc string, h1Tags []string, canonicalURL string, canonicalPresent, noindex bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", "", nil, "", false, false
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	desc := doc.Find(`meta[name="description"]`).First()
	if desc.Length() == 0 {
		desc = doc.Find(`meta[property="og:description"]`).First()
	}
	metaDesc = strings.TrimSpace(desc.AttrOr("content", ""))

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		h1Tags = append(h1Tags, strings.TrimSpace(s.Text()))
	})

	canonical := doc.Find(`link[rel="canonical"]`).First()
	if canonical.Length() > 0 {
		canonicalPresent = true
		canonicalURL = canonical.AttrOr("href", "")
	}

	robots := doc.Find(`meta[name="robots"]`).First().AttrOr("content", "")
	noindex = strings.Contains(strings.ToLower(robots), "noindex")
	return title, metaDesc, h1Tags, canonicalURL, canonicalPresent, noindex
}

// detectIssues evaluates the rules in their fixed order. Title, meta
// description, and H1 checks are each exclusive within their group;
// the rest append independently.
func detectIssues(a PageAnalysis) []string {
	var issues []string

	switch {
	case a.TitleLength == 0:
		issues = append(issues, IssueMissingTitle)
	case a.TitleLength < minTitleLength:
		issues = append(issues, IssueTitleTooShort)
	case a.TitleLength > maxTitleLength:
		issues = append(issues, IssueTitleTooLong)
	}

	switch {
	case a.MetaDescriptionLength == 0:
		issues = append(issues, IssueMissingMetaDescription)
	case a.MetaDescriptionLength < minMetaDescLength:
		issues = append(issues, IssueMetaDescriptionTooShort)
	case a.MetaDescriptionLength > maxMetaDescLength:
		issues = append(issues, IssueMetaDescriptionTooLong)
	}

	switch {
	case a.H1Count == 0:
		issues = append(issues, IssueMissingH1)
	case a.H1Count > 1:
		issues = append(issues, IssueMultipleH1Tags)
	}

	if !a.CanonicalPresent {
		issues = append(issues, IssueMissingCanonical)
	}
	if a.Noindex {
		issues = append(issues, IssueNoindexPresent)
	}
	// Unreachable through the crawl path (non-200 short-circuits above)
	// but kept for callers constructing FetchResults directly.
	if a.StatusCode != 200 {
		issues = append(issues, fmt.Sprintf("HTTP_%d", a.StatusCode))
	}
	return issues
}
