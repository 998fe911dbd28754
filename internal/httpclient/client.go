// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package httpclient is the HTTP client that fetches recipe pages.
// Page requests carry browser-like headers and TLS settings, and can be
// restricted to destinations outside of denied networks.
package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math/rand/v2"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"time"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"

	"codeberg.org/readeck/recipescraper/configs"
)

// ErrDeniedIP is returned when a request destination is in a denied
// network range.
var ErrDeniedIP = errors.New("destination not allowed")

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.3"
	defaultTimeout   = 10 * time.Second
)

// pageHeaders are sent with every page request, unless the request
// already has them.
var pageHeaders = http.Header{
	"User-Agent":                []string{defaultUserAgent},
	"Accept":                    []string{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
	"Accept-Language":           []string{"en-US,en;q=0.8"},
	"Cache-Control":             []string{"max-age=0"},
	"Upgrade-Insecure-Requests": []string{"1"},
	"Sec-Ch-Ua":                 []string{`"Google Chrome";v="137", "Chromium";v="137"`},
	"Sec-Ch-Ua-Mobile":          []string{"?0"},
	"Sec-Ch-Ua-Platform":        []string{`"Windows"`},
	"Sec-Fetch-Site":            []string{"none"},
}

// browserCipherSuites follows Chrome's order. Some recipe sites still
// need the CBC suites.
var browserCipherSuites = []uint16{
	tls.TLS_AES_128_GCM_SHA256,
	tls.TLS_AES_256_GCM_SHA384,
	tls.TLS_CHACHA20_POLY1305_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA,
	tls.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA,
	tls.TLS_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_RSA_WITH_AES_128_CBC_SHA,
	tls.TLS_RSA_WITH_AES_256_CBC_SHA,
}

// greaseValues are the reserved cipher values of RFC 8701.
var greaseValues = []uint16{
	0x0a0a, 0x1a1a, 0x2a2a, 0x3a3a, 0x4a4a, 0x5a5a, 0x6a6a, 0x7a7a,
	0x8a8a, 0x9a9a, 0xaaaa, 0xbaba, 0xcaca, 0xdada, 0xeaea, 0xfafa,
}

// connCipherSuites returns a new cipher list for one connection,
// starting with a random GREASE value.
func connCipherSuites() []uint16 {
	res := make([]uint16, 0, len(browserCipherSuites)+1)
	res = append(res, greaseValues[rand.IntN(len(greaseValues))]) //nolint:gosec
	return append(res, browserCipherSuites...)
}

// Transport is the [http.RoundTripper] of page requests.
// It is safe for concurrent use once the client is built.
type Transport struct {
	http.RoundTripper
	header    http.Header
	deniedIPs []*net.IPNet
	dialer    *net.Dialer
	tlsConfig *tls.Config
	logger    *slog.Logger
}

// New returns a client for page requests, with an empty cookie storage
// and a [Transport]. The user agent, timeout and denied networks come
// from the fetcher configuration.
func New(options ...func(t *Transport)) *http.Client {
	t := &Transport{
		header: maps.Clone(pageHeaders),
		dialer: &net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 30 * time.Second,
		},
		tlsConfig: &tls.Config{
			CipherSuites: browserCipherSuites,
			MinVersion:   tls.VersionTLS12,
			NextProtos:   []string{"h2", "http/1.1"},
		},
		logger: slog.Default(),
	}

	if ua := configs.Config.Fetcher.UserAgent; ua != "" {
		t.header.Set("User-Agent", ua)
	}
	for _, n := range configs.Config.Fetcher.DeniedIPs {
		t.deniedIPs = append(t.deniedIPs, n.IPNet)
	}

	for _, fn := range options {
		fn(t)
	}
	t.RoundTripper = t.newHTTPTransport()

	timeout := configs.Config.Fetcher.Timeout.Duration()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cookies, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return &http.Client{
		Transport: t,
		Timeout:   timeout,
		Jar:       cookies,
	}
}

// WithLogger sets the transport's logger.
func WithLogger(logger *slog.Logger) func(t *Transport) {
	return func(t *Transport) {
		t.logger = logger
	}
}

// WithRootCAs sets the certificate authorities trusted by the client.
func WithRootCAs(pool *x509.CertPool) func(t *Transport) {
	return func(t *Transport) {
		t.tlsConfig.RootCAs = pool
	}
}

// newHTTPTransport returns the [http.Transport] that sends the requests.
// TLS connections are opened by [Transport.dialTLS] so every connection
// gets its own cipher list.
func (t *Transport) newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           t.dialer.DialContext,
		DialTLSContext:        t.dialTLS,
		TLSClientConfig:       t.tlsConfig.Clone(),
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

func (t *Transport) dialTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}

	conn, err := t.dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	cfg := t.tlsConfig.Clone()
	cfg.ServerName = host
	cfg.CipherSuites = connCipherSuites()

	tc := tls.Client(conn, cfg)
	if err := tc.HandshakeContext(ctx); err != nil {
		conn.Close() //nolint:errcheck
		return nil, err
	}
	return tc, nil
}

// RoundTrip implements [http.RoundTripper].
// It rejects denied destinations, adds the page headers missing from
// the request and logs the exchange at debug level.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	if err := t.checkDestination(r.Context(), r.URL.Hostname()); err != nil {
		return nil, err
	}

	// The original request must stay untouched.
	req := r.Clone(r.Context())
	for k, values := range t.header {
		if _, ok := r.Header[textproto.CanonicalMIMEHeaderKey(k)]; !ok {
			req.Header[k] = values
		}
	}

	start := time.Now()
	rsp, err := t.RoundTripper.RoundTrip(req)
	t.logExchange(req, rsp, err, time.Since(start))

	return rsp, err
}

func (t *Transport) logExchange(req *http.Request, rsp *http.Response, err error, elapsed time.Duration) {
	if !t.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []slog.Attr{
		slog.String("url", req.URL.String()),
		slog.String("method", req.Method),
	}
	if err != nil {
		attrs = append(attrs, slog.Any("err", err))
	} else {
		attrs = append(attrs,
			slog.Int("status", rsp.StatusCode),
			slog.String("content_type", rsp.Header.Get("Content-Type")),
		)
	}
	attrs = append(attrs, slog.Duration("elapsed", elapsed))

	t.logger.LogAttrs(req.Context(), slog.LevelDebug, "page request", attrs...)
}

// checkDestination returns an [ErrDeniedIP] error when the host resolves
// to an address in a denied network.
func (t *Transport) checkDestination(ctx context.Context, hostname string) error {
	if len(t.deniedIPs) == 0 {
		return nil
	}

	var ips []net.IP
	if ip := net.ParseIP(hostname); ip != nil {
		ips = []net.IP{ip}
	} else {
		host, err := idna.ToASCII(hostname)
		if err != nil {
			return fmt.Errorf("invalid hostname %s", hostname)
		}
		addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return fmt.Errorf("cannot resolve %s", host)
		}
		for _, a := range addrs {
			ips = append(ips, a.IP)
		}
	}

	for _, n := range t.deniedIPs {
		for _, ip := range ips {
			if n.Contains(ip) {
				return fmt.Errorf("%w: ip %s is blocked by rule %s", ErrDeniedIP, ip, n)
			}
		}
	}
	return nil
}

// Log returns the transport's logger.
func (t *Transport) Log() *slog.Logger {
	return t.logger
}

// SetLogger sets the transport's logger.
// It must be called before the client sends requests.
func (t *Transport) SetLogger(logger *slog.Logger) {
	t.logger = logger
}
