// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package scraper fetches recipe pages and extracts their recipe.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"codeberg.org/readeck/recipescraper/configs"
	"codeberg.org/readeck/recipescraper/internal/httpclient"
	"codeberg.org/readeck/recipescraper/internal/metrics"
	"codeberg.org/readeck/recipescraper/pkg/recipe"
)

// Scraper fetches pages and extracts their recipe.
type Scraper struct {
	client      *http.Client
	extractor   *recipe.Extractor
	maxBodySize int64
	logger      *slog.Logger
}

// New returns a new [Scraper]. Without options, it uses the
// application's configuration.
func New(options ...func(s *Scraper)) *Scraper {
	res := &Scraper{
		maxBodySize: configs.Config.Fetcher.MaxBodySize,
		logger:      slog.Default(),
	}

	for _, fn := range options {
		fn(res)
	}

	if res.client == nil {
		res.client = httpclient.New()
	}
	if tr, ok := res.client.Transport.(*httpclient.Transport); ok {
		tr.SetLogger(res.logger)
	}
	if res.extractor == nil {
		res.extractor = recipe.New(
			recipe.WithMaxDepth(configs.Config.Extractor.MaxDepth),
			recipe.WithRepair(configs.Config.Extractor.RepairJSON),
			recipe.WithLogger(res.logger),
			recipe.WithObserver(func(*recipe.BlockError) {
				metrics.MalformedBlocks.Inc()
			}),
		)
	}

	return res
}

// WithClient sets the HTTP client that fetches pages.
func WithClient(client *http.Client) func(s *Scraper) {
	return func(s *Scraper) {
		s.client = client
	}
}

// WithExtractor sets the recipe extractor.
func WithExtractor(e *recipe.Extractor) func(s *Scraper) {
	return func(s *Scraper) {
		s.extractor = e
	}
}

// WithMaxBodySize sets the maximum size of a fetched page.
// Zero or less means no limit.
func WithMaxBodySize(size int64) func(s *Scraper) {
	return func(s *Scraper) {
		s.maxBodySize = size
	}
}

// WithLogger sets the scraper's logger.
func WithLogger(logger *slog.Logger) func(s *Scraper) {
	return func(s *Scraper) {
		s.logger = logger
	}
}

// Log returns the scraper's logger.
func (s *Scraper) Log() *slog.Logger {
	return s.logger
}

// Client returns the scraper's HTTP client.
func (s *Scraper) Client() *http.Client {
	return s.client
}

// Scrape fetches a page and returns its recipe.
// When the recipe has no URL, it receives the page's final URL.
//
// It returns [recipe.ErrNotFound] when the page has no recipe and a
// [*FetchError] when the page could not be retrieved.
func (s *Scraper) Scrape(ctx context.Context, src string) (*recipe.Recipe, error) {
	logger := s.logger.With(slog.String("url", src))

	page, err := Fetch(ctx, s.client, src, s.maxBodySize)
	if err != nil {
		logger.Warn("cannot fetch page", slog.Any("err", err))
		metrics.ObserveExtraction(metrics.ResultError)
		return nil, err
	}

	return s.extract(bytes.NewReader(page.Body), page.URL, logger)
}

// ExtractHTML returns the recipe of an HTML document. baseURL, when
// not nil, is used for a recipe without URL.
func (s *Scraper) ExtractHTML(r io.Reader, baseURL *url.URL) (*recipe.Recipe, error) {
	return s.extract(r, baseURL, s.logger)
}

func (s *Scraper) extract(r io.Reader, baseURL *url.URL, logger *slog.Logger) (*recipe.Recipe, error) {
	res, err := s.extractor.Extract(r)
	switch {
	case errors.Is(err, recipe.ErrNotFound):
		logger.Info("no recipe found")
		metrics.ObserveExtraction(metrics.ResultNotFound)
		return nil, err
	case err != nil:
		logger.Error("extraction error", slog.Any("err", err))
		metrics.ObserveExtraction(metrics.ResultError)
		return nil, err
	}

	if res.URL == "" && baseURL != nil {
		res.URL = baseURL.String()
	}

	logger.Info("recipe found", slog.String("name", res.Name))
	metrics.ObserveExtraction(metrics.ResultFound)
	return res, nil
}
