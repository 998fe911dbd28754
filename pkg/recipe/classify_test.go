// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/readeck/recipescraper/pkg/jsonld"
	"codeberg.org/readeck/recipescraper/pkg/recipe"
)

func TestIsRecipeType(t *testing.T) {
	tests := []struct {
		src      string
		expected bool
	}{
		{`{"@type": "Recipe"}`, true},
		{`{"@type": ["Recipe", "NewsArticle"]}`, true},
		{`{"@type": ["NewsArticle", "Recipe"]}`, true},
		{`{"@type": "https://schema.org/Recipe"}`, true},
		{`{"@type": "http://schema.org/Recipe/"}`, false},
		{`{"@type": ["http://schema.org/Recipe"]}`, true},
		{`{"@type": "Thing/Recipe"}`, false},
		{`{"@type": "recipe"}`, false},
		{`{"@type": "RecipeCollection"}`, false},
		{`{"@type": "Person"}`, false},
		{`{"@type": ["Person", 12, null]}`, false},
		{`{"@type": 12}`, false},
		{`{"@type": null}`, false},
		{`{"@type": {"name": "Recipe"}}`, false},
		{`{"name": "Recipe"}`, false},
		{`{}`, false},
		{`["Recipe"]`, false},
		{`[{"@type": "Recipe"}]`, false},
		{`"Recipe"`, false},
		{`null`, false},
		{`42`, false},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			require.Equal(t, test.expected, recipe.IsRecipeType(jsonld.MustParse(test.src)))
		})
	}

	t.Run("nil", func(t *testing.T) {
		require.False(t, recipe.IsRecipeType(nil))
	})
}

func TestIsHowTo(t *testing.T) {
	tests := []struct {
		src     string
		step    bool
		section bool
	}{
		{`{"@type": "HowToStep", "text": "Mix"}`, true, false},
		{`{"@type": "HowToSection", "itemListElement": []}`, false, true},
		{`{"@type": ["HowToStep"]}`, false, false},
		{`{"@type": "HowToTip"}`, false, false},
		{`{"text": "Mix"}`, false, false},
		{`"HowToStep"`, false, false},
		{`null`, false, false},
		{`[]`, false, false},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			v := jsonld.MustParse(test.src)
			require.Equal(t, test.step, recipe.IsHowToStep(v))
			require.Equal(t, test.section, recipe.IsHowToSection(v))
		})
	}

	t.Run("nil", func(t *testing.T) {
		require.False(t, recipe.IsHowToStep(nil))
		require.False(t, recipe.IsHowToSection(nil))
	})
}
