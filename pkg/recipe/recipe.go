// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package recipe extracts schema.org Recipe data from HTML pages.

It works in three stages:
  - every <script type="application/ld+json"> block of the page is parsed,
    malformed blocks are reported and skipped;
  - the parsed documents are walked, depth first and in document order, until a
    node typed as a Recipe is found;
  - the node is normalized into a [Recipe], whatever shape the source site used
    for images, instructions and text fields.
*/
package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"golang.org/x/net/html"
)

// DefaultMaxDepth is the default nesting limit of the recipe search.
const DefaultMaxDepth = 50

var (
	// ErrNotFound is returned when a document does not contain any recipe.
	ErrNotFound = errors.New("recipe data not found")
	// ErrNilInput is returned when there is no document to read.
	ErrNilInput = errors.New("no input document")
)

// Recipe is the normalized recipe.
// Cuisine, Category, Keywords, AggregateRating and Nutrition are
// kept as they were found in the source document.
type Recipe struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	URL             string          `json:"url"`
	ImageURL        string          `json:"imageUrl"`
	Ingredients     []string        `json:"ingredients"`
	Instructions    []string        `json:"instructions"`
	Cuisine         json.RawMessage `json:"cuisine,omitempty"`
	Category        json.RawMessage `json:"category,omitempty"`
	Keywords        json.RawMessage `json:"keywords,omitempty"`
	AggregateRating json.RawMessage `json:"aggregateRating,omitempty"`
	Nutrition       json.RawMessage `json:"nutrition,omitempty"`
}

// BlockError is a JSON-LD block that could not be parsed.
type BlockError struct {
	// Index is the block position in the document, starting at 0.
	Index int
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("json-ld block %d: %s", e.Index, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// Extractor finds and normalizes recipes.
// An Extractor holds no state between calls and can be used
// concurrently.
type Extractor struct {
	maxDepth int
	repair   bool
	logger   *slog.Logger
	observer func(*BlockError)
}

// New returns an [Extractor] with the given options.
func New(options ...func(e *Extractor)) *Extractor {
	res := &Extractor{
		maxDepth: DefaultMaxDepth,
	}

	for _, fn := range options {
		if fn != nil {
			fn(res)
		}
	}

	if res.logger == nil {
		res.logger = slog.New(slog.DiscardHandler)
	}

	return res
}

// WithMaxDepth sets the nesting limit of the recipe search.
// Nodes deeper than this limit are ignored.
func WithMaxDepth(depth int) func(e *Extractor) {
	return func(e *Extractor) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithRepair enables the repair of malformed JSON-LD blocks before
// giving up on them.
func WithRepair(repair bool) func(e *Extractor) {
	return func(e *Extractor) {
		e.repair = repair
	}
}

// WithLogger sets the extractor logger.
func WithLogger(logger *slog.Logger) func(e *Extractor) {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithObserver sets a function that receives every JSON-LD block error.
func WithObserver(fn func(*BlockError)) func(e *Extractor) {
	return func(e *Extractor) {
		e.observer = fn
	}
}

// Log returns the extractor's logger.
func (e *Extractor) Log() *slog.Logger {
	return e.logger
}

// Extract parses an HTML document and returns its recipe.
// It returns [ErrNotFound] when the document has no recipe.
func (e *Extractor) Extract(r io.Reader) (*Recipe, error) {
	if isNilReader(r) {
		return nil, ErrNilInput
	}

	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse document: %w", err)
	}

	return e.ExtractNode(root)
}

// isNilReader returns true for a nil reader, including a nil pointer
// wrapped in the interface.
func isNilReader(r io.Reader) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// ExtractNode returns the recipe of an already parsed HTML document.
func (e *Extractor) ExtractNode(root *html.Node) (*Recipe, error) {
	if root == nil {
		return nil, ErrNilInput
	}

	c, ok := FindRecipe(e.Locate(root), e.maxDepth)
	if !ok {
		e.logger.Debug("no recipe found")
		return nil, ErrNotFound
	}

	res := normalize(c, e.maxDepth)
	e.logger.Debug("recipe found",
		slog.String("name", res.Name),
		slog.Int("ingredients", len(res.Ingredients)),
		slog.Int("instructions", len(res.Instructions)),
	)
	return res, nil
}

// Extract parses an HTML document and returns its recipe, using
// an [Extractor] with default options.
func Extract(r io.Reader) (*Recipe, error) {
	return New().Extract(r)
}
