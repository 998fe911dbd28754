// SPDX-FileCopyrightText: © 2024 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"io"
	"log/slog"
	"os"

	. "github.com/phsym/console-slog" //nolint:revive,staticcheck
	"golang.org/x/term"

	"codeberg.org/readeck/recipescraper/configs"
)

// consoleTheme is a [Theme] for the console log handler.
// The zero value has no color at all.
type consoleTheme struct {
	timestamp      ANSIMod
	source         ANSIMod
	message        ANSIMod
	messageDebug   ANSIMod
	attrKey        ANSIMod
	attrValue      ANSIMod
	attrValueError ANSIMod
	levelError     ANSIMod
	levelWarn      ANSIMod
	levelInfo      ANSIMod
	levelDebug     ANSIMod
}

func (t consoleTheme) Name() string            { return "" }
func (t consoleTheme) Timestamp() ANSIMod      { return t.timestamp }
func (t consoleTheme) Source() ANSIMod         { return t.source }
func (t consoleTheme) Message() ANSIMod        { return t.message }
func (t consoleTheme) MessageDebug() ANSIMod   { return t.messageDebug }
func (t consoleTheme) AttrKey() ANSIMod        { return t.attrKey }
func (t consoleTheme) AttrValue() ANSIMod      { return t.attrValue }
func (t consoleTheme) AttrValueError() ANSIMod { return t.attrValueError }
func (t consoleTheme) LevelError() ANSIMod     { return t.levelError }
func (t consoleTheme) LevelWarn() ANSIMod      { return t.levelWarn }
func (t consoleTheme) LevelInfo() ANSIMod      { return t.levelInfo }
func (t consoleTheme) LevelDebug() ANSIMod     { return t.levelDebug }
func (t consoleTheme) Level(level slog.Level) ANSIMod {
	switch {
	case level >= slog.LevelError:
		return t.LevelError()
	case level >= slog.LevelWarn:
		return t.LevelWarn()
	case level >= slog.LevelInfo:
		return t.LevelInfo()
	default:
		return t.LevelDebug()
	}
}

// stdLogTheme is used when the output is not a terminal.
var stdLogTheme = consoleTheme{}

// devLogTheme is used on a terminal or in dev mode.
var devLogTheme = consoleTheme{
	timestamp:      ToANSICode(BrightBlack),
	source:         ToANSICode(Bold, BrightBlack),
	message:        ToANSICode(Bold),
	messageDebug:   ToANSICode(),
	attrKey:        ToANSICode(Cyan),
	attrValue:      ToANSICode(Faint),
	attrValueError: ToANSICode(Bold, Red),
	levelError:     ToANSICode(Bold, Red),
	levelWarn:      ToANSICode(Bold, Yellow),
	levelInfo:      ToANSICode(Bold, Green),
	levelDebug:     ToANSICode(Bold, BrightMagenta),
}

// initLogger sets the default logger, following the configuration.
func initLogger(w io.Writer) {
	var handler slog.Handler

	switch configs.Config.Main.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: configs.Config.Main.LogLevel,
		})
	default:
		colored := configs.Config.Main.DevMode || isTerminal(w)
		theme := stdLogTheme
		if colored {
			theme = devLogTheme
		}
		handler = NewHandler(w, &HandlerOptions{
			Level:   configs.Config.Main.LogLevel,
			Theme:   theme,
			NoColor: !colored,
		})
	}

	slog.SetDefault(slog.New(handler))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}

// colorize wraps a string in a color sequence, only when w is a terminal.
func colorize(w io.Writer, color, s string) string {
	if !isTerminal(w) {
		return s
	}
	return color + s + colorReset
}
