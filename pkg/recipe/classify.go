// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package recipe

import (
	"strings"

	"codeberg.org/readeck/recipescraper/pkg/jsonld"
)

const schemaDotOrgContext = "https://schema.org"

// IsRecipeType returns true when the node is an object whose "@type"
// is "Recipe", or a list that contains "Recipe".
// The schema.org IRI form ("https://schema.org/Recipe") is accepted too.
func IsRecipeType(node *jsonld.Value) bool {
	if !node.IsObject() {
		return false
	}

	t := node.Get("@type")
	if s, ok := t.Text(); ok {
		return isType(s, "Recipe")
	}
	for _, x := range t.Items() {
		if s, ok := x.Text(); ok && isType(s, "Recipe") {
			return true
		}
	}
	return false
}

// IsHowToStep returns true when the node is an object whose "@type"
// is "HowToStep".
func IsHowToStep(node *jsonld.Value) bool {
	return hasExactType(node, "HowToStep")
}

// IsHowToSection returns true when the node is an object whose "@type"
// is "HowToSection".
func IsHowToSection(node *jsonld.Value) bool {
	return hasExactType(node, "HowToSection")
}

func hasExactType(node *jsonld.Value, name string) bool {
	s, ok := node.Get("@type").Text()
	return ok && s == name
}

func isType(s, name string) bool {
	if s == name {
		return true
	}

	idx := strings.LastIndexByte(s, '/')
	if idx < 0 {
		return false
	}
	return s[idx+1:] == name && isSchemaDotOrg(s[:idx])
}

// isSchemaDotOrg returns whether a string is a schema.org URI.
func isSchemaDotOrg(s string) bool {
	s = strings.TrimSuffix(s, "/")
	return strings.Replace(s, "http:", "https:", 1) == schemaDotOrgContext
}
