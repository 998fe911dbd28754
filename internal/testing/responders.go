// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path"

	"github.com/jarcoal/httpmock"

	"codeberg.org/readeck/recipescraper/internal/httpclient"
)

func readFixture(name string) []byte {
	fd, err := os.Open(path.Join("test-fixtures", name))
	if err != nil {
		panic(err)
	}
	defer fd.Close() //nolint:errcheck

	data, err := io.ReadAll(fd)
	if err != nil {
		panic(err)
	}
	return data
}

// NewFileResponder returns a mock response for a file in test-fixtures,
// without any content type.
func NewFileResponder(name string) httpmock.Responder {
	return NewContentResponder(200, nil, name)
}

// NewContentResponder returns a mock response for a file, with extra headers.
func NewContentResponder(status int, headers map[string]string, name string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		rsp := httpmock.NewBytesResponse(status, readFixture(name))
		for k, v := range headers {
			rsp.Header.Set(k, v)
		}
		rsp.Request = req
		return rsp, nil
	}
}

// NewHTMLResponder returns a mock response with an HTML content-type.
func NewHTMLResponder(status int, name string) httpmock.Responder {
	return NewContentResponder(
		status,
		map[string]string{"content-type": "text/html; charset=utf-8"},
		name)
}

// NewRedirectResponder returns a redirection to the given location.
func NewRedirectResponder(status int, location string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		rsp := httpmock.NewBytesResponse(status, []byte{})
		rsp.Header.Set("Location", location)
		rsp.Request = req
		return rsp, nil
	}
}

type errReader int

func (errReader) Read([]byte) (n int, err error) {
	return 0, errors.New("read error")
}

func (errReader) Close() error {
	return nil
}

// NewIOErrorResponder returns a mock response with a faulty body.
func NewIOErrorResponder(status int, headers map[string]string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		rsp := httpmock.NewBytesResponse(status, []byte{})
		for k, v := range headers {
			rsp.Header.Set(k, v)
		}
		rsp.Request = req
		rsp.Body = errReader(0)
		return rsp, nil
	}
}

// MockClient replaces the wrapped transport of an [*http.Client] created by
// [httpclient.New] with a mock transport. The returned function restores
// the original transport.
func MockClient(client *http.Client) (*httpmock.MockTransport, func()) {
	tr := client.Transport.(*httpclient.Transport)
	ot := tr.RoundTripper
	mt := httpmock.NewMockTransport()
	tr.RoundTripper = mt

	return mt, func() {
		tr.RoundTripper = ot
	}
}
