// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxRequestIDKey struct{}

// requestIDHeader is the response header that carries the request ID.
const requestIDHeader = "X-Request-Id"

// InitRequest gives every request a unique ID, available with
// [GetReqID] and sent back in the X-Request-Id header.
func InitRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(withReqID(r.Context(), id)))
	})
}

func withReqID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey{}, id)
}

// GetReqID returns the request ID.
func GetReqID(r *http.Request) string {
	id, _ := r.Context().Value(ctxRequestIDKey{}).(string)
	return id
}
