// SPDX-FileCopyrightText: © 2020 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// message is the body of every failed request.
type message struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Render sends a value as a JSON response. HTML characters are not
// escaped, so recipe text comes out as written.
func Render(w http.ResponseWriter, r *http.Request, status int, value any) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		Log(r).Error("cannot encode response", slog.Any("err", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck
}

// Fail sends a JSON message with an error status.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	Log(r).Debug("request failed", slog.Int("status", status), slog.String("message", msg))
	Render(w, r, status, message{Status: status, Message: msg})
}

// Err sends an error as a JSON message.
// The status comes from a StatusCode() method in the error chain and
// defaults to 500. The text of a 500 error stays in the logs.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var se interface{ StatusCode() int }
	if errors.As(err, &se) {
		status = se.StatusCode()
	}

	msg := err.Error()
	if status >= 500 {
		Log(r).Error("server error", slog.Int("status", status), slog.Any("err", err))
	}
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}

	Fail(w, r, status, msg)
}
