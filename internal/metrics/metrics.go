// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package metrics provides the application's prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipescraper"

// Extraction results.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Registry is the application's metrics registry.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Extractions counts the recipe extractions, by result.
	Extractions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Total number of recipe extractions",
		},
		[]string{"result"},
	)

	// MalformedBlocks counts the JSON-LD blocks that could not be parsed.
	MalformedBlocks = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_blocks_total",
			Help:      "Total number of JSON-LD blocks that could not be parsed",
		},
	)

	// FetchDuration observes the time spent fetching pages, by status code.
	FetchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetcher",
			Name:      "duration_seconds",
			Help:      "Duration of page fetching in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"status"},
	)

	// Requests counts the HTTP requests received by the server.
	Requests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration observes the HTTP requests durations.
	RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveExtraction increments the extraction counter for a result.
func ObserveExtraction(result string) {
	Extractions.WithLabelValues(result).Inc()
}

// ObserveFetch records a page fetch duration. A status of 0 means
// the request failed before receiving a response.
func ObserveFetch(status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	FetchDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// Handler returns the HTTP handler that exposes the metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware counts every request and observes its duration.
// Requests are labeled with their route pattern, not their path.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		Requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
