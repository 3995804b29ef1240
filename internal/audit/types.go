// Package audit defines core types shared across subsystems.
package audit

import (
	"time"
)

// Status represents the lifecycle state of an audit.
type Status string

// Audit status values persisted in the audit store.
const (
	StatusPending   Status = "pending"
	StatusCrawling  Status = "crawling"
	StatusAnalyzing Status = "analyzing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Issue codes emitted by the rule engine, in check order.
const (
	IssueMissingTitle            = "MISSING_TITLE"
	IssueTitleTooShort           = "TITLE_TOO_SHORT"
	IssueTitleTooLong            = "TITLE_TOO_LONG"
	IssueMissingMetaDescription  = "MISSING_META_DESCRIPTION"
	IssueMetaDescriptionTooShort = "META_DESCRIPTION_TOO_SHORT"
	IssueMetaDescriptionTooLong  = "META_DESCRIPTION_TOO_LONG"
	IssueMissingH1               = "MISSING_H1"
	IssueMultipleH1Tags          = "MULTIPLE_H1_TAGS"
	IssueMissingCanonical        = "MISSING_CANONICAL"
	IssueNoindexPresent          = "NOINDEX_PRESENT"
	IssuePageNotAccessible       = "PAGE_NOT_ACCESSIBLE"
	IssueNoHTMLContent           = "NO_HTML_CONTENT"
)

// FetchResult is the raw outcome of fetching a single page.
// A StatusCode of 0 marks a transport-level failure (DNS, connect,
// timeout, TLS); the body is empty in that case.
type FetchResult struct {
	URL               string            `json:"url"`
	StatusCode        int               `json:"status_code"`
	Body              string            `json:"html"`
	Headers           map[string]string `json:"headers"`
	SizeKB            float64           `json:"page_size_kb"`
	InternalLinkCount int               `json:"internal_links"`
	Error             string            `json:"error,omitempty"`
}

// PageAnalysis is the rule engine's verdict for one fetched page.
type PageAnalysis struct {
	URL                   string   `json:"url"`
	StatusCode            int      `json:"status_code"`
	Title                 string   `json:"title"`
	TitleLength           int      `json:"title_length"`
	MetaDescription       string   `json:"meta_description"`
	MetaDescriptionLength int      `json:"meta_description_length"`
	H1Count               int      `json:"h1_count"`
	H1Tags                []string `json:"h1_tags"`
	CanonicalPresent      bool     `json:"canonical_present"`
	CanonicalURL          string   `json:"canonical_url,omitempty"`
	Noindex               bool     `json:"noindex"`
	SizeKB                float64  `json:"page_size_kb"`
	InternalLinkCount     int      `json:"internal_links"`
	Issues                []string `json:"issues"`
}

// Summary aggregates issue counts across every analyzed page.
type Summary struct {
	MissingTitle           int `json:"missing_title"`
	MissingMetaDescription int `json:"missing_meta_description"`
	MultipleH1             int `json:"multiple_h1"`
	NoindexPages           int `json:"noindex_pages"`
	Non200Pages            int `json:"non_200_pages"`
}

// Results is the terminal success payload persisted for an audit.
type Results struct {
	URL          string         `json:"url"`
	PagesCrawled int            `json:"pages_crawled"`
	Summary      Summary        `json:"summary"`
	Pages        []PageAnalysis `json:"pages"`
	CompletedAt  time.Time      `json:"completed_at"`
}

// Audit is the record tracked per submitted audit request.
type Audit struct {
	ID        string    `json:"audit_id"`
	URL       string    `json:"url"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Results   *Results  `json:"results,omitempty"`
	ErrorText string    `json:"error,omitempty"`
}
