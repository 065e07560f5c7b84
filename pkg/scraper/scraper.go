package scraper

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// DocumentCallbackFunc receives the extracted document, typically to export it.
type DocumentCallbackFunc func(doc *Document) error

var errNoExtractor = errors.New("target has no extractor")

// NewScraper wires a fetcher into the fetch -> extract -> callback pipeline.
// logger can be nil.
func NewScraper(fetcher Fetcher, logger *zap.Logger) Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Scraper{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Scrape fetches the target page once and extracts its rows.
func (s Scraper) Scrape(ctx context.Context, t Target) (*Document, error) {
	if t.Extract == nil {
		return nil, errNoExtractor
	}
	logger := s.logger.With(zap.String("target", t.Name), zap.String("url", t.URL))

	logger.Info("fetching page")
	body, err := s.fetcher.Fetch(ctx, t.URL, t.Headers)
	if err != nil {
		return nil, err
	}

	logger.Info("extracting rows", zap.Int("bytes", len(body)))
	doc, err := t.Extract(body)
	if err != nil {
		return nil, err
	}
	logger.Info("extracted rows", zap.Int("rows", doc.Len()), zap.Int("columns", len(doc.Columns)))

	return doc, nil
}

// Run scrapes the target and hands the document to callback, which can be nil.
// Nothing is passed to the callback when fetching or extraction fails.
func (s Scraper) Run(ctx context.Context, t Target, callback DocumentCallbackFunc) (*Document, error) {
	doc, err := s.Scrape(ctx, t)
	if err != nil {
		return nil, err
	}
	if callback == nil {
		return doc, nil
	}
	if err := callback(doc); err != nil {
		return doc, err
	}
	return doc, nil
}
