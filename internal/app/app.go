// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package app is the recipe scraper command line application.
package app

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cristalhq/acmd"

	"codeberg.org/readeck/recipescraper/configs"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
)

var commands = []acmd.Command{}

// appFlags are the flags shared by every command.
type appFlags struct {
	ConfigFile string
	LogLevel   string
}

// Flags returns a new [flag.FlagSet] with the common flags.
func (f *appFlags) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&f.ConfigFile, "config", "config.toml", "configuration file path")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	return fs
}

// Run starts the application's command runner.
func Run(ctx context.Context, args []string) error {
	r := acmd.RunnerOf(commands, acmd.Config{
		AppName:        "recipescraper",
		AppDescription: "Extract schema.org recipes from web pages",
		Version:        configs.Version(),
		Context:        ctx,
		Args:           args,
	})

	return r.Run()
}

// appPreRun loads the configuration and sets up the logger.
func appPreRun(flags *appFlags) error {
	if err := configs.LoadConfiguration(flags.ConfigFile); err != nil {
		return fmt.Errorf("cannot load configuration: %w", err)
	}

	if flags.LogLevel != "" {
		if err := configs.Config.Main.LogLevel.UnmarshalText([]byte(flags.LogLevel)); err != nil {
			return err
		}
	}

	initLogger(os.Stderr)
	slog.Debug("configuration loaded",
		slog.String("file", flags.ConfigFile),
		slog.String("version", configs.Version()),
	)

	return nil
}
