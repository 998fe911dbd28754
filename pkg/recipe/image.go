// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package recipe

import (
	"net/url"
	"path"
	"strings"

	"codeberg.org/readeck/recipescraper/pkg/jsonld"
)

// imageSource is one of the shapes of a Recipe's "image" property.
type imageSource interface {
	resolve() (string, bool)
}

type (
	// imageURL is a plain URL.
	imageURL string
	// imageObject is an ImageObject (or any object with a "url").
	imageObject struct{ node *jsonld.Value }
	// imageList is a list of URLs and/or image objects.
	imageList []*jsonld.Value
)

func newImageSource(v *jsonld.Value) imageSource {
	switch v.Kind() {
	case jsonld.String:
		s, _ := v.Text()
		return imageURL(s)
	case jsonld.Object:
		return imageObject{v}
	case jsonld.Array:
		return imageList(v.Items())
	}
	return nil
}

func (s imageURL) resolve() (string, bool) {
	return string(s), true
}

func (s imageObject) resolve() (string, bool) {
	return s.node.Get("url").Text()
}

// resolve returns the URL of the first element that is either a string
// that looks like a URL or an object with a string "url" property.
func (s imageList) resolve() (string, bool) {
	for _, x := range s {
		switch x.Kind() {
		case jsonld.String:
			if u, _ := x.Text(); looksLikeURL(u) {
				return u, true
			}
		case jsonld.Object:
			if u, ok := (imageObject{x}).resolve(); ok {
				return u, true
			}
		}
	}
	return "", false
}

// ImageURL returns the URL of a Recipe's "image" property, whatever its
// shape: a URL, an image object, or a list of any of them.
// It returns fallback when no URL can be found.
func ImageURL(image *jsonld.Value, fallback string) string {
	if src := newImageSource(image); src != nil {
		if u, ok := src.resolve(); ok {
			return u
		}
	}
	return fallback
}

// looksLikeURL returns true for absolute http(s) URLs and for relative
// references with a path, such as "/img/a.jpg", "//cdn/a.jpg" or "img/a.jpg".
// A single string image is used as is, only list elements are checked.
func looksLikeURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	switch {
	case u.Scheme == "http" || u.Scheme == "https":
		return u.Host != ""
	case u.Scheme != "":
		return false
	case u.Host != "":
		return true
	}
	return u.Path != "/" && (strings.Contains(u.Path, "/") || path.Ext(u.Path) != "")
}
