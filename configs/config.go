// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package configs contains the application's configuration.
package configs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/komkom/toml"
)

// EnvPrefix is the prefix of every environment variable that
// overrides a configuration value.
const EnvPrefix = "RECIPESCRAPER_"

var (
	version      = "dev"
	buildTimeStr string
	buildTime    time.Time
)

type config struct {
	Main      configMain      `json:"main"`
	Server    configServer    `json:"server"`
	Fetcher   configFetcher   `json:"fetcher"`
	Extractor configExtractor `json:"extractor"`
}

type configMain struct {
	LogLevel  slog.Level `json:"log_level" env:"LOG_LEVEL"`
	LogFormat string     `json:"log_format" env:"LOG_FORMAT"`
	DevMode   bool       `json:"dev_mode" env:"DEV_MODE"`
}

type configServer struct {
	Host   string `json:"host" env:"SERVER_HOST"`
	Port   int    `json:"port" env:"SERVER_PORT"`
	Prefix string `json:"prefix" env:"SERVER_PREFIX"`
}

type configFetcher struct {
	Timeout     configDuration `json:"timeout" env:"FETCHER_TIMEOUT"`
	UserAgent   string         `json:"user_agent" env:"FETCHER_USER_AGENT"`
	MaxBodySize int64          `json:"max_body_size" env:"FETCHER_MAX_BODY_SIZE"`
	Workers     int            `json:"workers" env:"FETCHER_WORKERS"`
	DeniedIPs   []configIPNet  `json:"denied_ips" env:"FETCHER_DENIED_IPS"`
}

type configExtractor struct {
	MaxDepth   int  `json:"max_depth" env:"EXTRACTOR_MAX_DEPTH"`
	RepairJSON bool `json:"repair_json" env:"EXTRACTOR_REPAIR_JSON"`
}

// Config holds the configuration data from configuration files
// or flags.
//
// This variable sets some default values that might be overwritten
// by a configuration file.
var Config = newConfig()

func newConfig() config {
	return config{
		Main: configMain{
			LogLevel:  slog.LevelInfo,
			LogFormat: "text",
		},
		Server: configServer{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Fetcher: configFetcher{
			Timeout:     configDuration(10 * time.Second),
			MaxBodySize: 10 << 20,
			Workers:     4,
		},
		Extractor: configExtractor{
			MaxDepth: 50,
		},
	}
}

// LoadConfiguration loads the configuration file, when it exists,
// and then applies the environment variables.
// An empty filename only reads the environment.
func LoadConfiguration(filename string) error {
	if filename != "" {
		fd, err := os.Open(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// A missing file only keeps the defaults
		case err != nil:
			return err
		default:
			defer fd.Close() //nolint:errcheck
			if err := loadConfig(fd); err != nil {
				return fmt.Errorf("error in config file %s: %w", filename, err)
			}
		}
	}

	if err := loadEnv(); err != nil {
		return err
	}

	return validate()
}

func loadConfig(r io.Reader) error {
	dec := json.NewDecoder(toml.New(r))
	dec.DisallowUnknownFields()
	return dec.Decode(&Config)
}

func loadEnv() error {
	return env.ParseWithOptions(&Config, env.Options{
		Prefix: EnvPrefix,
	})
}

// InitConfiguration resets the configuration to its default values.
func InitConfiguration() {
	Config = newConfig()
}

func validate() error {
	switch Config.Main.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", Config.Main.LogFormat)
	}

	if Config.Server.Port < 0 || Config.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", Config.Server.Port)
	}
	if Config.Server.Prefix != "" {
		Config.Server.Prefix = "/" + strings.Trim(Config.Server.Prefix, "/")
	}

	if Config.Fetcher.Workers < 1 {
		Config.Fetcher.Workers = 1
	}
	if Config.Extractor.MaxDepth < 1 {
		return fmt.Errorf("invalid max depth %d", Config.Extractor.MaxDepth)
	}

	return nil
}

// Version returns the current application version.
func Version() string {
	return version
}

// BuildTime returns the build time or, if empty, the time
// when the application started.
func BuildTime() time.Time {
	return buildTime
}

func init() {
	if buildTimeStr != "" {
		if t, err := time.Parse(time.RFC3339, buildTimeStr); err == nil {
			buildTime = t
		}
	}
	if buildTime.IsZero() {
		buildTime = time.Now().UTC()
	}

	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
}

// configDuration is a [time.Duration] that reads "10s" style values.
type configDuration time.Duration

func (d *configDuration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = configDuration(v)
	return nil
}

func (d configDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the value as a [time.Duration].
func (d configDuration) Duration() time.Duration {
	return time.Duration(d)
}

// configIPNet is a network range, from a CIDR or a single IP address.
type configIPNet struct {
	*net.IPNet
}

// SetDeniedIPs replaces the fetcher's denied network ranges.
func SetDeniedIPs(values ...string) error {
	res := make([]configIPNet, len(values))
	for i, v := range values {
		if err := res[i].UnmarshalText([]byte(v)); err != nil {
			return err
		}
	}
	Config.Fetcher.DeniedIPs = res
	return nil
}

func (n *configIPNet) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if !strings.Contains(s, "/") {
		ip := net.ParseIP(s)
		if ip == nil {
			return fmt.Errorf("invalid IP address %q", s)
		}
		bits := 128
		if ip.To4() != nil {
			bits = 32
		}
		s = fmt.Sprintf("%s/%d", s, bits)
	}

	_, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		return err
	}
	n.IPNet = ipnet
	return nil
}

func (n configIPNet) MarshalText() ([]byte, error) {
	if n.IPNet == nil {
		return []byte{}, nil
	}
	return []byte(n.String()), nil
}
