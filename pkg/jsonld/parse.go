// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package jsonld

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/kaptinlin/jsonrepair"
)

// MaxNesting is the maximum nesting level of arrays and objects
// accepted by [Parse].
const MaxNesting = 1000

var (
	// ErrTooDeep is returned when a document nests deeper than [MaxNesting].
	ErrTooDeep = errors.New("json document is too deep")
	// ErrTrailingData is returned when a document has data after its
	// first value.
	ErrTrailingData = errors.New("invalid data after top-level value")
)

// Parse decodes a single JSON document.
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return nil, err
	}

	if _, err = dec.Token(); err != io.EOF {
		if err == nil {
			err = ErrTrailingData
		}
		return nil, err
	}

	return v, nil
}

// ParseRepair decodes a JSON document like [Parse]. When the document is
// malformed, it tries again after a repair pass (missing quotes or commas,
// trailing commas, comments, truncated documents...).
// The original parse error is returned when the repair does not help.
func ParseRepair(data []byte) (*Value, error) {
	v, err := Parse(data)
	if err == nil {
		return v, nil
	}

	fixed, rerr := jsonrepair.JSONRepair(string(data))
	if rerr != nil {
		return nil, err
	}

	v, rerr = Parse([]byte(fixed))
	if rerr != nil {
		return nil, err
	}
	return v, nil
}

// MustParse is like [Parse] but panics on error.
func MustParse(src string) *Value {
	v, err := Parse([]byte(src))
	if err != nil {
		panic(err)
	}
	return v
}

func decodeValue(dec *json.Decoder, depth int) (*Value, error) {
	if depth > MaxNesting {
		return nil, ErrTooDeep
	}

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec, depth)
		case '{':
			return decodeObject(dec, depth)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
	case string:
		return &Value{kind: String, scalar: t}, nil
	case json.Number:
		return &Value{kind: Number, scalar: t.String()}, nil
	case bool:
		return &Value{kind: Bool, b: t}, nil
	case nil:
		return &Value{kind: Null}, nil
	}

	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeArray(dec *json.Decoder, depth int) (*Value, error) {
	v := &Value{kind: Array, items: []*Value{}}
	for dec.More() {
		item, err := decodeValue(dec, depth+1)
		if err != nil {
			return nil, err
		}
		v.items = append(v.items, item)
	}

	// closing bracket
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeObject(dec *json.Decoder, depth int) (*Value, error) {
	v := &Value{kind: Object, fields: map[string]*Value{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid object key %v", tok)
		}

		item, err := decodeValue(dec, depth+1)
		if err != nil {
			return nil, err
		}

		// Last value wins, first position is kept.
		if _, exists := v.fields[key]; !exists {
			v.keys = append(v.keys, key)
		}
		v.fields[key] = item
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return v, nil
}
