// Package collyfetcher implements audit.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/seoaudit/seoaudit/internal/audit"
)

// DefaultUserAgent identifies the audit bot to the crawled site.
const DefaultUserAgent = "Mozilla/5.0 (compatible; SEOAuditBot/1.0)"

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher implements audit.Fetcher using the Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// New builds a Fetcher. Robots.txt is deliberately ignored, cookies
// are disabled (no session persistence across requests), and URL
// revisits are allowed since the same page may be fetched by many
// audits, or twice within one (homepage probe plus navigation set).
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(colly.UserAgent(cfg.UserAgent))
	c.IgnoreRobotsTxt = true
	c.AllowURLRevisit = true
	c.DisableCookies()
	c.WithTransport(newHTTPTransport())
	c.SetRequestTimeout(cfg.Timeout)

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
		logger:        logger,
	}
}

// Fetch executes a single HTTP GET, following redirects. It never
// returns an error: transport failures (DNS, refused connection,
// timeout, TLS) degrade to a FetchResult with StatusCode 0 and an
// empty body, while HTTP error statuses return the real code plus
// whatever body the server sent.
//
// The result is delivered over a buffered channel guarded by a
// sync.Once so the colly callbacks, the Visit error path, and a
// canceled context never touch the same value concurrently.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) audit.FetchResult {
	results := make(chan audit.FetchResult, 1)
	var once sync.Once
	deliver := func(r audit.FetchResult) bool {
		sent := false
		once.Do(func() {
			results <- r
			sent = true
		})
		return sent
	}

	collector := f.baseCollector.Clone()
	collector.OnResponse(func(r *colly.Response) {
		deliver(fromResponse(rawURL, r))
	})
	collector.OnError(func(r *colly.Response, err error) {
		// Colly reports non-2xx statuses here with the response
		// attached; only a missing status marks a transport failure.
		if r != nil && r.StatusCode != 0 {
			deliver(fromResponse(rawURL, r))
			return
		}
		if deliver(failedFetch(rawURL, err)) {
			f.logger.Warn("fetch transport failure", zap.String("url", rawURL), zap.Error(err))
		}
	})

	go func() {
		err := collector.Visit(rawURL)
		if err == nil {
			err = errors.New("no response received")
		}
		// A no-op when a callback already produced the result; covers
		// URLs colly rejects before issuing the request.
		if deliver(failedFetch(rawURL, err)) {
			f.logger.Warn("fetch rejected", zap.String("url", rawURL), zap.Error(err))
		}
	}()

	select {
	case <-ctx.Done():
		return failedFetch(rawURL, ctx.Err())
	case result := <-results:
		return result
	}
}

func failedFetch(rawURL string, err error) audit.FetchResult {
	return audit.FetchResult{URL: rawURL, Headers: map[string]string{}, Error: err.Error()}
}

func fromResponse(rawURL string, r *colly.Response) audit.FetchResult {
	headers := map[string]string{}
	if r.Headers != nil {
		for name, values := range *r.Headers {
			if len(values) > 0 {
				headers[name] = values[len(values)-1]
			}
		}
	}
	body := string(r.Body)
	return audit.FetchResult{
		URL:        rawURL,
		StatusCode: r.StatusCode,
		Body:       body,
		Headers:    headers,
		SizeKB:     sizeKB(len(r.Body)),
	}
}

// sizeKB converts a byte length to kilobytes rounded to two decimals.
func sizeKB(byteLen int) float64 {
	return math.Round(float64(byteLen)/1024*100) / 100
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
