// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

// outputFlags are the flags of the commands that print recipes.
type outputFlags struct {
	Format string
	Filter string
}

func (f *outputFlags) setFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.Format, "format", "json", "output format (json, yaml)")
	fs.StringVar(&f.Filter, "jq", "", "jq filter applied to the output")
}

func (f *outputFlags) validate() error {
	switch f.Format {
	case "json", "yaml":
		return nil
	}
	return fmt.Errorf("invalid output format %q", f.Format)
}

// newOutput returns an [output] that follows the flags.
func (f *outputFlags) newOutput(w io.Writer) (*output, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	res := &output{w: w, format: f.Format}
	if f.Filter != "" {
		q, err := gojq.Parse(f.Filter)
		if err != nil {
			return nil, fmt.Errorf("invalid jq filter: %w", err)
		}
		if res.code, err = gojq.Compile(q); err != nil {
			return nil, fmt.Errorf("invalid jq filter: %w", err)
		}
	}
	return res, nil
}

// output writes values as JSON or YAML documents, optionally
// through a jq filter.
type output struct {
	w      io.Writer
	format string
	code   *gojq.Code
}

// Write writes a value. With a filter, every value the filter
// yields is written.
func (o *output) Write(value any) error {
	v, err := toPlain(value)
	if err != nil {
		return err
	}

	if o.code == nil {
		return o.encode(v)
	}

	iter := o.code.Run(v)
	for {
		x, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := x.(error); ok {
			var herr *gojq.HaltError
			if errors.As(err, &herr) && herr.Value() == nil {
				return nil
			}
			return err
		}
		if err := o.encode(x); err != nil {
			return err
		}
	}
}

func (o *output) encode(v any) error {
	switch o.format {
	case "yaml":
		enc := yaml.NewEncoder(o.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(o.w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// toPlain converts a value to the maps, slices and scalars that
// gojq and the YAML encoder expect.
func toPlain(value any) (any, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var res any
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, err
	}
	return res, nil
}
