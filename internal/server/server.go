// SPDX-FileCopyrightText: © 2020 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package server is the recipe scraper HTTP server.
// It defines common middlewares, the API routes and the JSON responses.
package server

import (
	"log/slog"
	"net/http"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"codeberg.org/readeck/recipescraper/configs"
	"codeberg.org/readeck/recipescraper/internal/metrics"
	"codeberg.org/readeck/recipescraper/internal/scraper"
)

// Server is a wrapper around chi router.
type Server struct {
	*chi.Mux
	scraper *scraper.Scraper
}

// New create a new server. Routes are added by [Server.Init].
func New() *Server {
	s := &Server{
		Mux: chi.NewRouter(),
	}

	s.Use(
		middleware.Recoverer,
		middleware.RealIP,
		InitRequest,
		Logger(),
		metrics.Middleware,
		SetSecurityHeaders,
		compressResponses(),
		middleware.CleanPath,
	)

	s.NotFound(func(w http.ResponseWriter, r *http.Request) {
		Fail(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	s.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		Fail(w, r, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return s
}

// Init adds the server's routes. Recipes are fetched
// and extracted with the given [scraper.Scraper].
func (s *Server) Init(sc *scraper.Scraper) {
	s.scraper = sc

	s.AddRoute("/api/info", infoRoutes())
	s.AddRoute("/api/recipe", s.recipeRoutes())
	s.AddRoute("/api/extract", s.extractRoutes())
	s.AddRoute("/metrics", metrics.Handler())
}

// AddRoute adds a new route to the server, prefixed with
// the configured prefix.
func (s *Server) AddRoute(pattern string, handler http.Handler) {
	s.Mount(path.Join("/", configs.Config.Server.Prefix, pattern), handler)
}

// infoRoutes returns the route returning the service information.
func infoRoutes() http.Handler {
	r := chi.NewRouter()

	type versionInfo struct {
		Canonical string `json:"canonical"`
		Release   string `json:"release"`
		Build     string `json:"build"`
	}

	type serviceInfo struct {
		Version   versionInfo `json:"version"`
		BuildDate time.Time   `json:"build_date"`
		GoVersion string      `json:"go_version"`
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		canonical := configs.Version()
		release, build, _ := strings.Cut(canonical, "-")

		res := serviceInfo{
			Version: versionInfo{
				Canonical: canonical,
				Release:   release,
				Build:     build,
			},
			BuildDate: configs.BuildTime(),
			GoVersion: runtime.Version(),
		}

		Render(w, r, 200, res)
	})

	return r
}

// Log returns a log entry including the request ID.
func Log(r *http.Request) *slog.Logger {
	return slog.With(slog.String("@id", GetReqID(r)))
}
