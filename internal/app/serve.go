// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cristalhq/acmd"

	"codeberg.org/readeck/recipescraper/configs"
	"codeberg.org/readeck/recipescraper/internal/scraper"
	"codeberg.org/readeck/recipescraper/internal/server"
)

func init() {
	commands = append(commands, acmd.Command{
		Name:        "serve",
		Description: "Start the HTTP API server",
		ExecFunc:    runServe,
	})
}

func runServe(ctx context.Context, args []string) error {
	var flags appFlags
	var host string
	var port int

	fs := flags.Flags()
	fs.StringVar(&host, "host", "", "server host (overrides server.host)")
	fs.IntVar(&port, "port", 0, "server port (overrides server.port)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := appPreRun(&flags); err != nil {
		return err
	}
	if host != "" {
		configs.Config.Server.Host = host
	}
	if port > 0 {
		configs.Config.Server.Port = port
	}

	s := server.New()
	s.Init(scraper.New())

	return listenAndServe(ctx, s)
}

// listenAndServe runs the server until the context is done, then
// waits for the current requests to finish.
func listenAndServe(ctx context.Context, handler http.Handler) error {
	srv := &http.Server{
		Addr: net.JoinHostPort(
			configs.Config.Server.Host,
			strconv.Itoa(configs.Config.Server.Port),
		),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Scraping waits for a remote server
		WriteTimeout: configs.Config.Fetcher.Timeout.Duration() + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	slog.Info("starting server",
		slog.String("url", fmt.Sprintf("http://%s%s/", ln.Addr(), configs.Config.Server.Prefix)),
		slog.String("version", configs.Version()),
	)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(ln)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	slog.Info("stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	slog.Info("server stopped")
	return nil
}
