// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package recipe

import (
	"encoding/json"

	"codeberg.org/readeck/recipescraper/pkg/jsonld"
)

// Normalize converts a recipe candidate to a [Recipe].
// Missing fields are left empty, it never fails.
func Normalize(c *Candidate) *Recipe {
	return normalize(c, DefaultMaxDepth)
}

func normalize(c *Candidate, depth int) *Recipe {
	var node *jsonld.Value
	if c != nil {
		node = c.Node
	}

	thumbnail, _ := node.Get("thumbnailUrl").Text()
	description, _ := node.Get("description").Text()

	res := &Recipe{
		Name:            text(node, "name"),
		URL:             text(node, "url"),
		Description:     Decode(description),
		ImageURL:        ImageURL(node.Get("image"), thumbnail),
		Ingredients:     ingredients(node),
		Instructions:    flattenInstructions(node.Get("recipeInstructions"), depth),
		Cuisine:         raw(node.Get("recipeCuisine")),
		Category:        raw(node.Get("recipeCategory")),
		Keywords:        raw(node.Get("keywords")),
		AggregateRating: raw(node.Get("aggregateRating")),
		Nutrition:       raw(node.Get("nutrition")),
	}

	return res
}

// ingredients returns the decoded "recipeIngredient" list. It falls back
// to "ingredients", its deprecated schema.org name.
func ingredients(node *jsonld.Value) []string {
	v := node.Get("recipeIngredient")
	if !node.Has("recipeIngredient") {
		v = node.Get("ingredients")
	}

	res := []string{}
	for _, x := range asList(v) {
		if s, ok := x.Text(); ok {
			res = append(res, Decode(s))
		}
	}
	return res
}

// text returns a string property. Some sites give a list instead of a
// single value, the first string of the list is used then.
func text(node *jsonld.Value, key string) string {
	v := node.Get(key)
	if s, ok := v.Text(); ok {
		return s
	}
	for _, x := range v.Items() {
		if s, ok := x.Text(); ok {
			return s
		}
	}
	return ""
}

// raw returns a value's JSON encoding, or nil when the value
// is missing.
func raw(v *jsonld.Value) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return nil
	}
	return b
}
