// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package recipe

import (
	"slices"

	"codeberg.org/readeck/recipescraper/pkg/jsonld"
)

// Candidate is a JSON-LD node typed as a Recipe, with its fields
// as the source site wrote them.
type Candidate struct {
	Node *jsonld.Value
}

type searchFrame struct {
	node  *jsonld.Value
	depth int
}

// FindRecipe returns the first Recipe node of a list of JSON-LD documents.
//
// Each document is walked depth first, in document order. A node matches
// when it is typed as a Recipe. Otherwise the search goes into:
//   - the elements of an array,
//   - the elements of the "@graph" property of an object that has one,
//   - the property values of any other object.
//
// Nodes deeper than maxDepth are not visited. The document itself is
// at depth 0.
func FindRecipe(docs []*jsonld.Value, maxDepth int) (*Candidate, bool) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	for _, doc := range docs {
		stack := []searchFrame{{doc, 0}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if IsRecipeType(f.node) {
				return &Candidate{Node: f.node}, true
			}
			if f.depth >= maxDepth {
				continue
			}

			// Children are pushed in reverse order so that the first
			// one is visited first.
			for _, c := range slices.Backward(searchChildren(f.node)) {
				stack = append(stack, searchFrame{c, f.depth + 1})
			}
		}
	}

	return nil, false
}

func searchChildren(node *jsonld.Value) []*jsonld.Value {
	switch node.Kind() {
	case jsonld.Array:
		return node.Items()
	case jsonld.Object:
		if node.Has("@graph") {
			g := node.Get("@graph")
			if g.IsArray() {
				return g.Items()
			}
			return []*jsonld.Value{g}
		}
		return node.Children()
	}
	return nil
}
