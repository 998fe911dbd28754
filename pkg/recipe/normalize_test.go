// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package recipe_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/readeck/recipescraper/pkg/jsonld"
	"codeberg.org/readeck/recipescraper/pkg/recipe"
)

func TestImageURL(t *testing.T) {
	tests := []struct {
		src      string
		fallback string
		expected string
	}{
		{`"https://a/x.jpg"`, "", "https://a/x.jpg"},
		{`{"@type": "ImageObject", "url": "https://a/y.jpg"}`, "", "https://a/y.jpg"},
		{`["https://a/1.jpg", "https://a/2.jpg"]`, "", "https://a/1.jpg"},
		{`[{"url": "https://a/3.jpg"}, "https://a/4.jpg"]`, "", "https://a/3.jpg"},
		{`["not-a-url-object", {"url": "https://a/5.jpg"}]`, "", "https://a/5.jpg"},
		{`["/images/6.jpg"]`, "", "/images/6.jpg"},
		{`["ftp://a/7.jpg", {"@type": "ImageObject"}]`, "", ""},
		{`[]`, "https://a/thumb.jpg", "https://a/thumb.jpg"},
		{`null`, "https://a/thumb.jpg", "https://a/thumb.jpg"},
		{`42`, "", ""},
		{`{"@type": "ImageObject", "contentUrl": "https://a/8.jpg"}`, "https://a/thumb.jpg", "https://a/thumb.jpg"},
		{`{"url": ["https://a/9.jpg"]}`, "fb", "fb"},
		{`["images/10.jpg", "https://a/10.jpg"]`, "", "images/10.jpg"},
		{`["11.jpg"]`, "", "11.jpg"},
		{`["//cdn.example.net/12.jpg"]`, "", "//cdn.example.net/12.jpg"},
		{`"images/13.jpg"`, "", "images/13.jpg"},
		{`["/", "not a url.jpg", "mailto:chef@example.net"]`, "fb", "fb"},
		{`[{"url": ["https://a/14.jpg"]}, {"url": 14}, {"url": "https://a/15.jpg"}]`, "", "https://a/15.jpg"},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			require.Equal(t, test.expected, recipe.ImageURL(jsonld.MustParse(test.src), test.fallback))
		})
	}

	t.Run("missing", func(t *testing.T) {
		require.Equal(t, "fb", recipe.ImageURL(nil, "fb"))
		require.Equal(t, "", recipe.ImageURL(nil, ""))
	})
}

func TestFlattenInstructions(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []string
	}{
		{
			"strings",
			`["Preheat", "Bake &amp; cool"]`,
			[]string{"Preheat", "Bake & cool"},
		},
		{
			"single string",
			`"Mix everything"`,
			[]string{"Mix everything"},
		},
		{
			"steps",
			`[{"@type": "HowToStep", "text": "Chop"}, {"@type": "HowToStep", "name": "no text"}, {"@type": "HowToStep", "text": 3}]`,
			[]string{"Chop"},
		},
		{
			"section",
			`[{"@type": "HowToSection", "itemListElement": [{"@type": "HowToStep", "text": "Mix &amp; stir"}]}]`,
			[]string{"Mix & stir"},
		},
		{
			"section elements",
			`[{"@type": "HowToSection", "itemListElement": ["Plain", {"@type": "HowToDirection", "text": "Direction"}, {"name": "no text"}]}]`,
			[]string{"Plain", "Direction"},
		},
		{
			"nested sections",
			`[{"@type": "HowToSection", "itemListElement": [
				{"@type": "HowToSection", "itemListElement": [{"@type": "HowToStep", "text": "Inner"}]},
				{"@type": "HowToStep", "text": "Outer"}
			]}]`,
			[]string{"Inner", "Outer"},
		},
		{
			"mixed",
			`["One", {"@type": "HowToStep", "text": "Two"}, {"@type": "HowToSection", "itemListElement": [{"text": "Three"}]}, {"@type": "HowToTip", "text": "tip"}, 4, null]`,
			[]string{"One", "Two", "Three"},
		},
		{
			"array type is ignored",
			`[{"@type": ["HowToStep"], "text": "ignored"}]`,
			[]string{},
		},
		{
			"empty",
			`[]`,
			[]string{},
		},
		{
			"null",
			`null`,
			[]string{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := recipe.FlattenInstructions(jsonld.MustParse(test.src))
			require.NotNil(t, res)
			require.Equal(t, test.expected, res)
		})
	}

	t.Run("missing", func(t *testing.T) {
		res := recipe.FlattenInstructions(nil)
		require.NotNil(t, res)
		require.Empty(t, res)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("empty candidate", func(t *testing.T) {
		for _, c := range []*recipe.Candidate{
			nil,
			{},
			{Node: jsonld.MustParse(`{"@type": "Recipe"}`)},
		} {
			r := recipe.Normalize(c)
			require.Equal(t, "", r.Name)
			require.Equal(t, "", r.Description)
			require.Equal(t, "", r.URL)
			require.Equal(t, "", r.ImageURL)
			require.NotNil(t, r.Ingredients)
			require.Empty(t, r.Ingredients)
			require.NotNil(t, r.Instructions)
			require.Empty(t, r.Instructions)
			require.Nil(t, r.Cuisine)
			require.Nil(t, r.Nutrition)

			b, err := json.Marshal(r)
			require.NoError(t, err)
			require.JSONEq(t, `{
				"name": "",
				"description": "",
				"url": "",
				"imageUrl": "",
				"ingredients": [],
				"instructions": []
			}`, string(b))
		}
	})

	t.Run("fields", func(t *testing.T) {
		r := recipe.Normalize(&recipe.Candidate{Node: jsonld.MustParse(`{
			"@type": "Recipe",
			"name": "Pie &amp; Co",
			"description": "Sweet &amp; sour &quot;pie&quot;",
			"url": "https://example.net/pie",
			"thumbnailUrl": "https://example.net/thumb.jpg",
			"recipeIngredient": ["1 cup flour", "salt &amp; pepper", {"name": "sugar"}],
			"recipeInstructions": [{"@type": "HowToStep", "text": "Bake"}],
			"recipeCuisine": "French",
			"recipeCategory": ["Dessert"],
			"keywords": "pie,sweet",
			"aggregateRating": {"ratingValue": 4.5, "ratingCount": "12"},
			"nutrition": {"calories": "300 cal"}
		}`)})

		require.Equal(t, "Pie &amp; Co", r.Name)
		require.Equal(t, `Sweet & sour "pie"`, r.Description)
		require.Equal(t, "https://example.net/pie", r.URL)
		require.Equal(t, "https://example.net/thumb.jpg", r.ImageURL)
		require.Equal(t, []string{"1 cup flour", "salt & pepper"}, r.Ingredients)
		require.Equal(t, []string{"Bake"}, r.Instructions)
		require.JSONEq(t, `"French"`, string(r.Cuisine))
		require.JSONEq(t, `["Dessert"]`, string(r.Category))
		require.JSONEq(t, `"pie,sweet"`, string(r.Keywords))
		require.Equal(t, `{"ratingValue":4.5,"ratingCount":"12"}`, string(r.AggregateRating))
		require.JSONEq(t, `{"calories": "300 cal"}`, string(r.Nutrition))
	})

	t.Run("ingredients", func(t *testing.T) {
		tests := []struct {
			src      string
			expected []string
		}{
			{`{"recipeIngredient": "2 eggs"}`, []string{"2 eggs"}},
			{`{"ingredients": ["old name"]}`, []string{"old name"}},
			{`{"recipeIngredient": [], "ingredients": ["old name"]}`, []string{}},
			{`{"recipeIngredient": null}`, []string{}},
			{`{"recipeIngredient": [1, true, "ok"]}`, []string{"ok"}},
		}

		for _, test := range tests {
			t.Run(test.src, func(t *testing.T) {
				r := recipe.Normalize(&recipe.Candidate{Node: jsonld.MustParse(test.src)})
				require.Equal(t, test.expected, r.Ingredients)
			})
		}
	})

	t.Run("non string text", func(t *testing.T) {
		r := recipe.Normalize(&recipe.Candidate{Node: jsonld.MustParse(`{
			"name": {"@value": "A"},
			"description": {"text": "x"},
			"url": 12
		}`)})
		require.Equal(t, "", r.Name)
		require.Equal(t, "", r.Description)
		require.Equal(t, "", r.URL)
	})

	t.Run("list text", func(t *testing.T) {
		r := recipe.Normalize(&recipe.Candidate{Node: jsonld.MustParse(`{
			"name": ["Pancakes", "Crêpes"],
			"url": [12, "https://example.net/pancakes", "https://example.net/crepes"]
		}`)})
		require.Equal(t, "Pancakes", r.Name)
		require.Equal(t, "https://example.net/pancakes", r.URL)

		r = recipe.Normalize(&recipe.Candidate{Node: jsonld.MustParse(`{"name": [1, {"a": "b"}]}`)})
		require.Equal(t, "", r.Name)
	})
}
