// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package recipe

import (
	"log/slog"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/go-shiori/dom"
	"golang.org/x/net/html"

	"codeberg.org/readeck/recipescraper/pkg/jsonld"
)

const jsonLDMediaType = "application/ld+json"

// Locate returns the parsed content of every JSON-LD script of a
// document, in document order. Blocks that are not valid JSON are
// skipped.
func Locate(root *html.Node) []*jsonld.Value {
	return New().Locate(root)
}

// Locate returns the parsed content of every JSON-LD script of a
// document, in document order.
// A block that cannot be parsed is logged, sent to the observer and
// skipped.
func (e *Extractor) Locate(root *html.Node) []*jsonld.Value {
	res := []*jsonld.Value{}
	if root == nil {
		return res
	}

	nodes, err := htmlquery.QueryAll(root, "//script[@type]")
	if err != nil {
		e.logger.Error("cannot query document", slog.Any("err", err))
		return res
	}

	parse := jsonld.Parse
	if e.repair {
		parse = jsonld.ParseRepair
	}

	i := 0
	for _, n := range nodes {
		if !isJSONLD(dom.GetAttribute(n, "type")) {
			continue
		}

		v, err := parse([]byte(dom.TextContent(n)))
		if err != nil {
			e.reportBlock(&BlockError{Index: i, Err: err})
		} else {
			res = append(res, v)
		}
		i++
	}

	e.logger.Debug("json-ld blocks",
		slog.Int("found", i),
		slog.Int("parsed", len(res)),
	)
	return res
}

func (e *Extractor) reportBlock(err *BlockError) {
	e.logger.Warn("invalid json-ld block",
		slog.Int("idx", err.Index),
		slog.Any("err", err.Err),
	)
	if e.observer != nil {
		e.observer(err)
	}
}

// isJSONLD returns true when a script type is the JSON-LD media type,
// with or without parameters.
func isJSONLD(t string) bool {
	t, _, _ = strings.Cut(t, ";")
	return strings.EqualFold(strings.TrimSpace(t), jsonLDMediaType)
}
