// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cristalhq/acmd"
	"golang.org/x/sync/errgroup"

	"codeberg.org/readeck/recipescraper/configs"
	"codeberg.org/readeck/recipescraper/internal/scraper"
	"codeberg.org/readeck/recipescraper/pkg/recipe"
)

func init() {
	commands = append(commands, acmd.Command{
		Name:        "scrape",
		Description: "Fetch web pages and print their recipe",
		ExecFunc: func(ctx context.Context, args []string) error {
			return runScrape(ctx, args, os.Stdout, nil)
		},
	})
}

// scrapeResult is the outcome of one scraped URL.
type scrapeResult struct {
	URL    string
	Recipe *recipe.Recipe
	Err    error
}

// runScrape fetches every URL given in args, using up to "-j" concurrent
// workers, and prints the recipes in the order of the URLs.
// When newScraper is nil, a scraper with the configured HTTP client is used.
func runScrape(ctx context.Context, args []string, stdout io.Writer, newScraper func() *scraper.Scraper) error {
	var flags appFlags
	var out outputFlags
	var workers int
	var repair bool

	fs := flags.Flags()
	// nolint: errcheck
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: scrape [arguments...] URL...")
		fmt.Fprintln(fs.Output(), "  URL")
		fmt.Fprintln(fs.Output(), "    \tpage address, one or more")
		fs.PrintDefaults()
	}
	out.setFlags(fs)
	fs.IntVar(&workers, "j", 0, "number of pages fetched at the same time (defaults to fetcher.workers)")
	fs.BoolVar(&repair, "repair", false, "try to repair malformed JSON-LD blocks")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	urls := make([]string, 0, fs.NArg())
	for _, u := range fs.Args() {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return errors.New("at least one URL is required")
	}

	printer, err := out.newOutput(stdout)
	if err != nil {
		return err
	}

	if err := appPreRun(&flags); err != nil {
		return err
	}
	if repair {
		configs.Config.Extractor.RepairJSON = true
	}
	if workers < 1 {
		workers = configs.Config.Fetcher.Workers
	}

	var sc *scraper.Scraper
	if newScraper != nil {
		sc = newScraper()
	} else {
		sc = scraper.New()
	}

	results := scrapeAll(ctx, sc, urls, workers)

	failed := 0
	recipes := []*recipe.Recipe{}
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", //nolint:errcheck
				colorize(os.Stderr, colorRed, "✗"), res.URL, res.Err)
			continue
		}
		if len(urls) > 1 {
			fmt.Fprintf(os.Stderr, "%s %s\n", //nolint:errcheck
				colorize(os.Stderr, colorGreen, "✓"), res.URL)
		}
		recipes = append(recipes, res.Recipe)
	}

	switch {
	case len(urls) == 1 && len(recipes) == 1:
		err = printer.Write(recipes[0])
	case len(urls) > 1:
		err = printer.Write(recipes)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(urls))
	}
	return nil
}

// scrapeAll scrapes the URLs concurrently. Results are in the order of urls.
func scrapeAll(ctx context.Context, sc *scraper.Scraper, urls []string, workers int) []scrapeResult {
	results := make([]scrapeResult, len(urls))

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, u := range urls {
		g.Go(func() error {
			r, err := sc.Scrape(ctx, u)
			results[i] = scrapeResult{URL: u, Recipe: r, Err: err}
			if err != nil {
				sc.Log().Debug("scrape failed", slog.String("url", u), slog.Any("err", err))
			}
			return nil
		})
	}

	g.Wait() //nolint:errcheck
	return results
}
