// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package recipe_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/readeck/recipescraper/pkg/recipe"
)

func openFixture(t *testing.T, name string) *os.File {
	fp, err := os.Open(filepath.Join("test-fixtures", name))
	require.NoError(t, err)
	t.Cleanup(func() { fp.Close() }) //nolint:errcheck
	return fp
}

func TestExtract(t *testing.T) {
	t.Run("graph", func(t *testing.T) {
		assert := require.New(t)
		r, err := recipe.Extract(openFixture(t, "graph.html"))
		assert.NoError(err)

		assert.Equal("Classic Pancakes", r.Name)
		assert.Equal("Fluffy pancakes & syrup, ready in 20 minutes…", r.Description)
		assert.Equal("https://kitchen.example.com/pancakes/", r.URL)
		assert.Equal("https://kitchen.example.com/img/pancakes-1x1.jpg", r.ImageURL)
		assert.Equal([]string{
			"1 ½ cups flour",
			"2 eggs",
			"Salt & pepper",
		}, r.Ingredients)
		assert.Equal([]string{
			"Whisk flour & eggs.",
			"Rest 10-15 minutes.",
			"Cook on a hot griddle.",
			`Serve with "real" maple syrup.`,
		}, r.Instructions)
		assert.JSONEq(`"American"`, string(r.Cuisine))
		assert.JSONEq(`["Breakfast", "Dessert"]`, string(r.Category))
		assert.JSONEq(`"pancakes, breakfast, easy"`, string(r.Keywords))
		assert.JSONEq(`{"@type": "AggregateRating", "ratingValue": "4.8", "reviewCount": 120}`, string(r.AggregateRating))
		assert.JSONEq(`{"@type": "NutritionInformation", "calories": "250 kcal", "servingSize": "2 pancakes"}`, string(r.Nutrition))
	})

	t.Run("nested", func(t *testing.T) {
		assert := require.New(t)
		r, err := recipe.Extract(openFixture(t, "nested.html"))
		assert.NoError(err)

		assert.Equal("Lemon Tart", r.Name)
		assert.Equal("https://tarts.example.net/lemon-thumb.jpg", r.ImageURL)
		assert.Equal([]string{"3 lemons", "1 pastry crust"}, r.Ingredients)
		assert.NotNil(r.Instructions)
		assert.Empty(r.Instructions)
		assert.Nil(r.Cuisine)
	})

	t.Run("malformed", func(t *testing.T) {
		assert := require.New(t)
		errs := []*recipe.BlockError{}
		e := recipe.New(recipe.WithObserver(func(err *recipe.BlockError) {
			errs = append(errs, err)
		}))

		r, err := e.Extract(openFixture(t, "malformed.html"))
		assert.NoError(err)
		assert.Equal("Tomato Soup", r.Name)
		assert.Equal("https://soup.example.org/tomato.jpg", r.ImageURL)
		assert.Equal([]string{"4 tomatoes"}, r.Ingredients)
		assert.Equal([]string{"Blend everything & heat."}, r.Instructions)
		assert.Len(errs, 2)
	})

	t.Run("not found", func(t *testing.T) {
		r, err := recipe.Extract(openFixture(t, "no-recipe.html"))
		require.Nil(t, r)
		require.ErrorIs(t, err, recipe.ErrNotFound)
	})

	t.Run("no json-ld", func(t *testing.T) {
		r, err := recipe.Extract(strings.NewReader("<p>Recipe</p>"))
		require.Nil(t, r)
		require.ErrorIs(t, err, recipe.ErrNotFound)
	})

	t.Run("nil input", func(t *testing.T) {
		_, err := recipe.Extract(nil)
		require.ErrorIs(t, err, recipe.ErrNilInput)

		_, err = recipe.New().ExtractNode(nil)
		require.ErrorIs(t, err, recipe.ErrNilInput)

		var br *bytes.Reader
		_, err = recipe.Extract(br)
		require.ErrorIs(t, err, recipe.ErrNilInput)

		var fp *os.File
		_, err = recipe.New().Extract(fp)
		require.ErrorIs(t, err, recipe.ErrNilInput)
	})

	t.Run("max depth", func(t *testing.T) {
		doc := `<script type="application/ld+json">` + nested(3) + `</script>`

		_, err := recipe.New(recipe.WithMaxDepth(2)).Extract(strings.NewReader(doc))
		require.True(t, errors.Is(err, recipe.ErrNotFound))

		r, err := recipe.New(recipe.WithMaxDepth(3)).Extract(strings.NewReader(doc))
		require.NoError(t, err)
		require.Equal(t, "deep", r.Name)
	})

	t.Run("json output", func(t *testing.T) {
		r, err := recipe.Extract(strings.NewReader(`<script type="application/ld+json">
			{"@type": "Recipe", "name": "Toast", "recipeIngredient": ["bread"], "recipeCuisine": null}
		</script>`))
		require.NoError(t, err)

		b, err := json.Marshal(r)
		require.NoError(t, err)
		require.JSONEq(t, `{
			"name": "Toast",
			"description": "",
			"url": "",
			"imageUrl": "",
			"ingredients": ["bread"],
			"instructions": [],
			"cuisine": null
		}`, string(b))
	})
}
