// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"codeberg.org/readeck/recipescraper/configs"
	"codeberg.org/readeck/recipescraper/internal/scraper"
	"codeberg.org/readeck/recipescraper/pkg/recipe"
)

// recipeResponse is the payload of a successful extraction.
type recipeResponse struct {
	RecipeData *recipe.Recipe `json:"recipeData"`
}

// recipeRoutes returns the routes that fetch a page and extract its recipe.
// The page URL is given by the "url" query or form parameter.
func (s *Server) recipeRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.scrapeRecipe)
	r.Post("/", s.scrapeRecipe)

	return r
}

// extractRoutes returns the route that extracts the recipe of an HTML
// document sent in the request body.
func (s *Server) extractRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", s.extractRecipe)

	return r
}

func (s *Server) scrapeRecipe(w http.ResponseWriter, r *http.Request) {
	src := strings.TrimSpace(r.FormValue("url"))
	if src == "" {
		Fail(w, r, http.StatusBadRequest, "No recipe URL provided")
		return
	}

	res, err := s.scraper.Scrape(r.Context(), src)
	s.renderRecipe(w, r, res, err)
}

func (s *Server) extractRecipe(w http.ResponseWriter, r *http.Request) {
	var baseURL *url.URL
	if src := strings.TrimSpace(r.URL.Query().Get("url")); src != "" {
		var err error
		if baseURL, err = scraper.ParseURL(src); err != nil {
			Err(w, r, err)
			return
		}
	}

	maxSize := configs.Config.Fetcher.MaxBodySize
	var body io.Reader = r.Body
	if maxSize > 0 {
		body = http.MaxBytesReader(w, r.Body, maxSize)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		if e := new(http.MaxBytesError); errors.As(err, &e) {
			Fail(w, r, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
			return
		}
		Err(w, r, err)
		return
	}

	if len(bytes.TrimSpace(data)) == 0 {
		Fail(w, r, http.StatusBadRequest, "No document provided")
		return
	}
	if !scraper.IsHTML(r.Header.Get("Content-Type"), data) {
		Err(w, r, &scraper.InputError{Err: scraper.ErrNotHTML})
		return
	}

	res, err := s.scraper.ExtractHTML(bytes.NewReader(data), baseURL)
	s.renderRecipe(w, r, res, err)
}

func (s *Server) renderRecipe(w http.ResponseWriter, r *http.Request, res *recipe.Recipe, err error) {
	switch {
	case errors.Is(err, recipe.ErrNotFound):
		Fail(w, r, http.StatusNotFound, "Recipe data not found")
	case err != nil:
		Err(w, r, err)
	default:
		Render(w, r, http.StatusOK, recipeResponse{RecipeData: res})
	}
}
