// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"codeberg.org/readeck/recipescraper/internal/metrics"
)

var (
	// ErrInvalidURL is returned when a URL cannot be fetched.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrNotHTML is returned when a document is not an HTML page.
	ErrNotHTML = errors.New("document is not HTML")
)

// FetchError is returned when a page could not be retrieved.
type FetchError struct {
	URL string
	// Status is the remote server's response status, or 0 when
	// no response was received.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("unable to fetch %s: HTTP error! Status: %d", e.URL, e.Status)
	}
	return fmt.Sprintf("unable to fetch %s: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status that reports the error.
func (e *FetchError) StatusCode() int {
	return http.StatusBadGateway
}

// InputError is a request that cannot be processed as given.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status that reports the error.
func (e *InputError) StatusCode() int {
	if errors.Is(e.Err, ErrNotHTML) {
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}

// Page is a fetched HTML page.
type Page struct {
	// URL is the page's URL, after redirects.
	URL  *url.URL
	Body []byte
}

// ParseURL checks that a string is an absolute http or https URL.
func ParseURL(src string) (*url.URL, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, &InputError{fmt.Errorf("%w: %s", ErrInvalidURL, err)}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &InputError{fmt.Errorf("%w: %q", ErrInvalidURL, src)}
	}
	u.Fragment = ""
	return u, nil
}

// Fetch retrieves an HTML page. Redirects are followed by the client.
// A response with a non 2xx status, a read error or a body larger
// than maxSize returns a [*FetchError].
func Fetch(ctx context.Context, client *http.Client, src string, maxSize int64) (*Page, error) {
	u, err := ParseURL(src)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &InputError{fmt.Errorf("%w: %s", ErrInvalidURL, err)}
	}

	start := time.Now()
	rsp, err := client.Do(req)
	if err != nil {
		metrics.ObserveFetch(0, time.Since(start))
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	defer rsp.Body.Close() //nolint:errcheck
	metrics.ObserveFetch(rsp.StatusCode, time.Since(start))

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		return nil, &FetchError{
			URL:    u.String(),
			Status: rsp.StatusCode,
			Err:    errors.New(http.StatusText(rsp.StatusCode)),
		}
	}

	body, err := readBody(rsp.Body, maxSize)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Status: rsp.StatusCode, Err: err}
	}

	if !IsHTML(rsp.Header.Get("Content-Type"), body) {
		return nil, &InputError{ErrNotHTML}
	}

	res := &Page{URL: u, Body: body}
	if rsp.Request != nil && rsp.Request.URL != nil {
		res.URL = rsp.Request.URL
	}
	return res, nil
}

func readBody(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		return io.ReadAll(r)
	}

	buf := new(bytes.Buffer)
	n, err := io.Copy(buf, io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if n > maxSize {
		return nil, fmt.Errorf("document is larger than %d bytes", maxSize)
	}
	return buf.Bytes(), nil
}

// IsHTML returns true when a document is an HTML page.
// The content type header wins when it is an HTML or XHTML type,
// otherwise the body is sniffed.
func IsHTML(contentType string, body []byte) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "text/html", "application/xhtml+xml":
			return true
		}
	}

	m := mimetype.Detect(body)
	for ; m != nil; m = m.Parent() {
		if m.Is("text/html") || m.Is("application/xhtml+xml") {
			return true
		}
	}
	return false
}
