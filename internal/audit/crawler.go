package audit

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"
)

// Crawler fetches the homepage of a site, discovers its navigation
// links, and fans out to fetch every discovered page.
type Crawler struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewCrawler constructs a Crawler.
func NewCrawler(fetcher Fetcher, logger *zap.Logger) *Crawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{fetcher: fetcher, logger: logger}
}

// CrawlNavigation fetches the start URL, extracts its navigation link
// set, and fetches every member concurrently. The start URL is always
// part of the set. A homepage transport failure aborts the crawl with
// an empty result; any other single-page failure degrades that page to
// a status-0 record without touching its siblings.
//
// Result order is completion order; each discovered URL appears
// exactly once.
func (c *Crawler) CrawlNavigation(ctx context.Context, startURL string) []FetchResult {
	start, err := url.Parse(startURL)
	if err != nil {
		c.logger.Warn("unparseable start url", zap.String("url", startURL), zap.Error(err))
		return nil
	}
	base := SiteBase(start)

	homepage := c.fetcher.Fetch(ctx, startURL)
	if homepage.StatusCode == 0 {
		c.logger.Warn("homepage unreachable, aborting crawl",
			zap.String("url", startURL),
			zap.String("error", homepage.Error),
		)
		return nil
	}

	links := ExtractNavigationLinks(homepage.Body, base)
	links[startURL] = struct{}{}
	c.logger.Info("navigation links discovered",
		zap.String("url", startURL),
		zap.Int("count", len(links)),
	)

	resultCh := make(chan FetchResult, len(links))
	var wg sync.WaitGroup
	for link := range links {
		wg.Add(1)
		go func(link string) {
			defer wg.Done()
			resultCh <- c.crawlPage(ctx, link, base)
		}(link)
	}
	wg.Wait()
	close(resultCh)

	pages := make([]FetchResult, 0, len(links))
	for page := range resultCh {
		pages = append(pages, page)
	}
	return pages
}

func (c *Crawler) crawlPage(ctx context.Context, link string, base *url.URL) FetchResult {
	page := c.fetcher.Fetch(ctx, link)
	if pageURL, err := url.Parse(page.URL); err == nil {
		page.InternalLinkCount = CountInternalLinks(page.Body, pageURL, base)
	}
	if page.StatusCode == 0 {
		c.logger.Warn("page fetch failed",
			zap.String("url", link),
			zap.String("error", page.Error),
		)
	}
	return page
}
