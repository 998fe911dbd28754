// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package recipe_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/readeck/recipescraper/pkg/jsonld"
	"codeberg.org/readeck/recipescraper/pkg/recipe"
)

func parseDocs(t *testing.T, src ...string) []*jsonld.Value {
	res := make([]*jsonld.Value, len(src))
	for i, s := range src {
		v, err := jsonld.Parse([]byte(s))
		require.NoError(t, err)
		res[i] = v
	}
	return res
}

// nested returns a chain of n objects with a Recipe at the end.
func nested(n int) string {
	return strings.Repeat(`{"a": `, n) +
		`{"@type": "Recipe", "name": "deep"}` +
		strings.Repeat(`}`, n)
}

func TestFindRecipe(t *testing.T) {
	tests := []struct {
		name     string
		docs     []string
		maxDepth int
		expected string
	}{
		{
			"bare",
			[]string{`{"@type": "Recipe", "name": "X"}`},
			0,
			"X",
		},
		{
			"graph",
			[]string{`{"@graph": [{"@type": "Person"}, {"@type": "Recipe", "name": "Y"}]}`},
			0,
			"Y",
		},
		{
			"graph single",
			[]string{`{"@graph": {"@type": "Recipe", "name": "G"}}`},
			0,
			"G",
		},
		{
			"graph before properties",
			[]string{`{"about": {"@type": "Recipe", "name": "prop"}, "@graph": [{"@type": "Recipe", "name": "graph"}]}`},
			0,
			"graph",
		},
		{
			"array",
			[]string{`[{"@type": "Organization"}, {"@type": "Recipe", "name": "Z"}]`},
			0,
			"Z",
		},
		{
			"array type",
			[]string{`{"@type": ["Recipe", "NewsArticle"], "name": "multi"}`},
			0,
			"multi",
		},
		{
			"wrapper",
			[]string{`{"@type": "WebPage", "mainEntity": {"@type": "Recipe", "name": "W"}}`},
			0,
			"W",
		},
		{
			"property order",
			[]string{`{"b": {"@type": "Recipe", "name": "first"}, "a": {"@type": "Recipe", "name": "second"}}`},
			0,
			"first",
		},
		{
			"depth first",
			[]string{`[{"x": [{"@type": "Recipe", "name": "deep"}]}, {"@type": "Recipe", "name": "shallow"}]`},
			0,
			"deep",
		},
		{
			"first document wins",
			[]string{
				`{"@type": "Person"}`,
				`{"@type": "Recipe", "name": "one"}`,
				`{"@type": "Recipe", "name": "two"}`,
			},
			0,
			"one",
		},
		{
			"within depth",
			[]string{nested(5)},
			5,
			"deep",
		},
		{
			"outer recipe",
			[]string{`{"@type": "Recipe", "name": "outer", "hasPart": {"@type": "Recipe", "name": "inner"}}`},
			0,
			"outer",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, ok := recipe.FindRecipe(parseDocs(t, test.docs...), test.maxDepth)
			require.True(t, ok)
			require.NotNil(t, c)
			name, _ := c.Node.Get("name").Text()
			require.Equal(t, test.expected, name)
		})
	}
}

func TestFindRecipeNotFound(t *testing.T) {
	tests := []struct {
		name     string
		docs     []string
		maxDepth int
	}{
		{"empty", nil, 0},
		{"person", []string{`{"@type": "Person", "name": "Jane"}`}, 0},
		{"scalars", []string{`"Recipe"`, `12`, `null`, `[]`, `{}`}, 0},
		{"type name as value", []string{`{"name": "Recipe", "about": ["Recipe"]}`}, 0},
		{"lowercase", []string{`{"@type": "recipe"}`}, 0},
		{"too deep", []string{nested(6)}, 5},
		{"default limit", []string{nested(recipe.DefaultMaxDepth + 1)}, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, ok := recipe.FindRecipe(parseDocs(t, test.docs...), test.maxDepth)
			require.False(t, ok)
			require.Nil(t, c)
		})
	}
}
