// SPDX-FileCopyrightText: © 2020 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// apiHeaders are set on every response. The API only returns data,
// so nothing may run, be framed or be indexed.
var apiHeaders = map[string]string{
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	"Referrer-Policy":         "no-referrer",
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"X-Robots-Tag":            "noindex, nofollow",
}

// SetSecurityHeaders adds [apiHeaders] to the response.
func SetSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range apiHeaders {
			w.Header().Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}

// compressResponses returns a middleware that gzips recipes and metrics
// larger than 1KB. Recipe responses echo page content, so the output
// size is padded against BREACH.
func compressResponses() func(next http.Handler) http.Handler {
	wrap, err := gzhttp.NewWrapper(
		gzhttp.MinSize(1024),
		gzhttp.ContentTypes([]string{"application/json", "text/plain"}),
		gzhttp.RandomJitter(32, 0, false),
	)
	if err != nil {
		panic(err)
	}

	return func(next http.Handler) http.Handler {
		return wrap(next)
	}
}
