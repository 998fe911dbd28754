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
	"net/url"
	"os"
	"strings"

	"github.com/cristalhq/acmd"

	"codeberg.org/readeck/recipescraper/configs"
	"codeberg.org/readeck/recipescraper/internal/scraper"
)

func init() {
	commands = append(commands, acmd.Command{
		Name:        "extract",
		Description: "Print the recipe of an HTML file",
		ExecFunc: func(_ context.Context, args []string) error {
			return runExtract(args, os.Stdin, os.Stdout)
		},
	})
}

func runExtract(args []string, stdin io.Reader, stdout io.Writer) error {
	var flags appFlags
	var out outputFlags
	var base string
	var repair bool

	fs := flags.Flags()
	// nolint: errcheck
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: extract [arguments...] FILE")
		fmt.Fprintln(fs.Output(), "  FILE")
		fmt.Fprintln(fs.Output(), "    \tHTML file, \"-\" reads the standard input")
		fs.PrintDefaults()
	}
	out.setFlags(fs)
	fs.StringVar(&base, "url", "", "page URL, used when the recipe has none")
	fs.BoolVar(&repair, "repair", false, "try to repair malformed JSON-LD blocks")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	src := strings.TrimSpace(fs.Arg(0))
	if src == "" {
		return errors.New("input file is required")
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

	var baseURL *url.URL
	if base != "" {
		if baseURL, err = scraper.ParseURL(base); err != nil {
			return err
		}
	}

	sc := scraper.New()
	var r io.Reader = stdin
	if src != "-" {
		fd, err := os.Open(src)
		if err != nil {
			return err
		}
		defer fd.Close() //nolint:errcheck
		r = fd
	}

	res, err := sc.ExtractHTML(r, baseURL)
	if err != nil {
		return err
	}

	return printer.Write(res)
}
