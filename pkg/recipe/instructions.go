// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package recipe

import (
	"codeberg.org/readeck/recipescraper/pkg/jsonld"
)

// instructionEntry is one element of a Recipe's "recipeInstructions".
type instructionEntry interface {
	texts(depth int) []string
}

type (
	// plainInstruction is a text instruction.
	plainInstruction string
	// stepInstruction is a HowToStep.
	stepInstruction struct{ node *jsonld.Value }
	// sectionInstruction is a HowToSection that groups other instructions.
	sectionInstruction struct{ node *jsonld.Value }
)

func newInstructionEntry(v *jsonld.Value) instructionEntry {
	switch {
	case v.Kind() == jsonld.String:
		s, _ := v.Text()
		return plainInstruction(s)
	case IsHowToSection(v):
		return sectionInstruction{v}
	case IsHowToStep(v):
		return stepInstruction{v}
	}
	return nil
}

func (i plainInstruction) texts(_ int) []string {
	return []string{Decode(string(i))}
}

func (i stepInstruction) texts(_ int) []string {
	if s, ok := i.node.Get("text").Text(); ok {
		return []string{Decode(s)}
	}
	return nil
}

// texts returns the text of every element of the section, in order.
// Sections nested in a section are expanded too.
func (i sectionInstruction) texts(depth int) []string {
	if depth <= 0 {
		return nil
	}

	res := []string{}
	for _, x := range i.node.Get("itemListElement").Items() {
		switch {
		case x.Kind() == jsonld.String:
			s, _ := x.Text()
			res = append(res, Decode(s))
		case IsHowToSection(x):
			res = append(res, sectionInstruction{x}.texts(depth-1)...)
		default:
			if s, ok := x.Get("text").Text(); ok {
				res = append(res, Decode(s))
			}
		}
	}
	return res
}

// FlattenInstructions returns the text of every instruction of a Recipe's
// "recipeInstructions" property. Sections are replaced by their steps.
// Entries that are neither text, HowToStep nor HowToSection are ignored.
func FlattenInstructions(v *jsonld.Value) []string {
	return flattenInstructions(v, DefaultMaxDepth)
}

func flattenInstructions(v *jsonld.Value, depth int) []string {
	res := []string{}
	for _, x := range asList(v) {
		if entry := newInstructionEntry(x); entry != nil {
			res = append(res, entry.texts(depth)...)
		}
	}
	return res
}

// asList returns the elements of an array, or the value itself as a
// single element list.
func asList(v *jsonld.Value) []*jsonld.Value {
	switch v.Kind() {
	case jsonld.Null:
		return nil
	case jsonld.Array:
		return v.Items()
	}
	return []*jsonld.Value{v}
}
