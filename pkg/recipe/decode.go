// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package recipe

import (
	"regexp"
	"strings"
)

var rxEntity = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)

// entities is the list of HTML entities that [Decode] knows about.
// Every replacement is shorter than its entity.
var entities = map[string]string{
	"&amp;":    "&",
	"&#38;":    "&",
	"&#038;":   "&",
	"&quot;":   `"`,
	"&lt;":     "<",
	"&gt;":     ">",
	"&#8211;":  "-",
	"&ndash;":  "–",
	"&mdash;":  "—",
	"&#8212;":  "—",
	"&hellip;": "…",
	"&#8230;":  "…",
	"&#039;":   "'",
	"&#39;":    "'",
	"&#x27;":   "'",
	"&apos;":   "'",
	"&lsquo;":  "‘",
	"&rsquo;":  "’",
	"&#8216;":  "‘",
	"&#8217;":  "’",
	"&ldquo;":  "“",
	"&rdquo;":  "”",
	"&#8220;":  "“",
	"&#8221;":  "”",
	"&nbsp;":   " ",
	"&cent;":   "¢",
	"&pound;":  "£",
	"&yen;":    "¥",
	"&euro;":   "€",
	"&copy;":   "©",
	"&reg;":    "®",
	"&deg;":    "°",
	"&times;":  "×",
	"&frac12;": "½",
	"&frac14;": "¼",
	"&frac34;": "¾",
}

// Decode replaces the known HTML entities of a string with
// their characters. Unknown entities and lone ampersands are left untouched.
//
// Replacement runs until nothing changes, so that doubly encoded text
// ("&amp;amp;") is fully decoded and Decode(Decode(s)) == Decode(s).
func Decode(s string) string {
	for strings.IndexByte(s, '&') >= 0 {
		res := rxEntity.ReplaceAllStringFunc(s, func(e string) string {
			if r, ok := entities[e]; ok {
				return r
			}
			return e
		})
		if res == s {
			break
		}
		s = res
	}
	return s
}
