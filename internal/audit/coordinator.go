package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seoaudit/seoaudit/internal/metrics"
)

// Coordinator sequences one audit run: crawl, analyze, summarize, and
// record every status transition in the store.
type Coordinator struct {
	store   Store
	crawler *Crawler
	idGen   IDGenerator
	clock   Clock
	logger  *zap.Logger
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(store Store, crawler *Crawler, idGen IDGenerator, clock Clock, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		store:   store,
		crawler: crawler,
		idGen:   idGen,
		clock:   clock,
		logger:  logger,
	}
}

// StartAudit registers a pending audit and launches its run in the
// background, returning the audit ID immediately. The run is detached
// from the caller's context: once started, an audit proceeds to
// completion or failure and can only be polled, not canceled.
func (c *Coordinator) StartAudit(ctx context.Context, url string) (string, error) {
	id, err := c.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate audit id: %w", err)
	}
	if err := c.store.CreateAudit(ctx, id, url); err != nil {
		return "", fmt.Errorf("create audit: %w", err)
	}
	go c.run(context.Background(), id, url)
	return id, nil
}

// GetAudit returns the tracked record for an audit ID.
func (c *Coordinator) GetAudit(ctx context.Context, id string) (Audit, error) {
	a, err := c.store.GetAudit(ctx, id)
	if err != nil {
		return Audit{}, fmt.Errorf("get audit: %w", err)
	}
	return a, nil
}

// run executes the full pipeline for one audit. Any failure, including
// a panic from a defect in extraction logic, terminates the audit as
// failed without crashing the serving process.
func (c *Coordinator) run(ctx context.Context, id, url string) {
	metrics.IncActiveAudits()
	defer metrics.DecActiveAudits()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("audit panicked", zap.String("audit_id", id), zap.Any("panic", r))
			c.fail(ctx, id, fmt.Sprintf("audit panic: %v", r))
		}
	}()

	if err := c.runStages(ctx, id, url); err != nil {
		c.logger.Error("audit failed", zap.String("audit_id", id), zap.Error(err))
		c.fail(ctx, id, err.Error())
	}
}

func (c *Coordinator) runStages(ctx context.Context, id, url string) error {
	if err := c.store.SetStatus(ctx, id, StatusCrawling); err != nil {
		return fmt.Errorf("set status crawling: %w", err)
	}
	pages := c.crawler.CrawlNavigation(ctx, url)

	if err := c.store.SetStatus(ctx, id, StatusAnalyzing); err != nil {
		return fmt.Errorf("set status analyzing: %w", err)
	}
	analyses := make([]PageAnalysis, 0, len(pages))
	for _, page := range pages {
		analysis := Analyze(page)
		metrics.ObservePage(analysis.StatusCode)
		for _, issue := range analysis.Issues {
			metrics.ObserveIssue(issue)
		}
		analyses = append(analyses, analysis)
	}

	results := Results{
		URL:          url,
		PagesCrawled: len(analyses),
		Summary:      Summarize(analyses),
		Pages:        analyses,
		CompletedAt:  c.clock.Now(),
	}
	if err := c.store.SetResults(ctx, id, results); err != nil {
		return fmt.Errorf("set results: %w", err)
	}
	if err := c.store.SetStatus(ctx, id, StatusCompleted); err != nil {
		return fmt.Errorf("set status completed: %w", err)
	}
	metrics.ObserveAudit(string(StatusCompleted))
	c.logger.Info("audit completed",
		zap.String("audit_id", id),
		zap.String("url", url),
		zap.Int("pages_crawled", results.PagesCrawled),
	)
	return nil
}

// fail records the terminal error. SetError also discards any results
// written before the failure, covering the case where SetResults
// succeeded but the completed transition did not.
func (c *Coordinator) fail(ctx context.Context, id, message string) {
	if err := c.store.SetError(ctx, id, message); err != nil {
		c.logger.Error("record audit error failed", zap.String("audit_id", id), zap.Error(err))
	}
	if err := c.store.SetStatus(ctx, id, StatusFailed); err != nil {
		c.logger.Error("set status failed errored", zap.String("audit_id", id), zap.Error(err))
	}
	metrics.ObserveAudit(string(StatusFailed))
}
