// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package jsonld provides an order preserving JSON value tree.
// JSON-LD blocks found in web pages are untrusted and loosely typed. A [Value]
// keeps every node tagged with its [Kind] and keeps object keys in their
// source order, so a walk over a document is deterministic.
package jsonld

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind is the type of a [Value].
type Kind uint8

const (
	// Null is a JSON null, or a missing value.
	Null Kind = iota
	// Bool is a JSON boolean.
	Bool
	// Number is a JSON number.
	Number
	// String is a JSON string.
	String
	// Array is a JSON array.
	Array
	// Object is a JSON object.
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}

	return strconv.Itoa(int(k))
}

// Value is a node of a parsed JSON document.
// A nil *Value is valid and behaves like a missing value: every accessor
// returns its zero result.
type Value struct {
	kind   Kind
	scalar string // string content or number literal
	b      bool
	items  []*Value
	keys   []string
	fields map[string]*Value
}

// Kind returns the value's kind. A nil value is [Null].
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// IsObject returns true when the value is an object.
func (v *Value) IsObject() bool {
	return v.Kind() == Object
}

// IsArray returns true when the value is an array.
func (v *Value) IsArray() bool {
	return v.Kind() == Array
}

// Text returns the content of a string value.
// The boolean is false for any other kind.
func (v *Value) Text() (string, bool) {
	if v.Kind() != String {
		return "", false
	}
	return v.scalar, true
}

// Number returns the literal of a number value.
func (v *Value) Number() (json.Number, bool) {
	if v.Kind() != Number {
		return "", false
	}
	return json.Number(v.scalar), true
}

// Bool returns the content of a boolean value.
func (v *Value) Bool() (bool, bool) {
	if v.Kind() != Bool {
		return false, false
	}
	return v.b, true
}

// Has returns true when the value is an object with the given key,
// whatever the key's value is.
func (v *Value) Has(key string) bool {
	if v.Kind() != Object {
		return false
	}
	_, ok := v.fields[key]
	return ok
}

// Get returns the value of an object's key, or nil.
func (v *Value) Get(key string) *Value {
	if v.Kind() != Object {
		return nil
	}
	return v.fields[key]
}

// Keys returns an object's keys in source order.
func (v *Value) Keys() []string {
	if v.Kind() != Object {
		return nil
	}
	return v.keys
}

// Items returns an array's elements.
func (v *Value) Items() []*Value {
	if v.Kind() != Array {
		return nil
	}
	return v.items
}

// Children returns the direct children of an array (its elements) or an
// object (its property values, in key order). Scalars have no children.
func (v *Value) Children() []*Value {
	switch v.Kind() {
	case Array:
		return v.items
	case Object:
		res := make([]*Value, len(v.keys))
		for i, k := range v.keys {
			res[i] = v.fields[k]
		}
		return res
	}
	return nil
}

// Len returns the number of elements of an array or keys of an object.
func (v *Value) Len() int {
	switch v.Kind() {
	case Array:
		return len(v.items)
	case Object:
		return len(v.keys)
	}
	return 0
}

// MarshalJSON implements [json.Marshaler].
// Objects are encoded with their keys in source order.
func (v *Value) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := v.encode(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) encode(buf *bytes.Buffer) error {
	switch v.Kind() {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Number:
		buf.WriteString(v.scalar)
	case String:
		return encodeString(buf, v.scalar)
	case Array:
		buf.WriteByte('[')
		for i, x := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := x.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := v.fields[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode always adds a trailing newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Interface converts the value to the generic types produced by
// [json.Unmarshal] (map[string]any, []any, string, float64, bool, nil).
// Key order is lost.
func (v *Value) Interface() any {
	switch v.Kind() {
	case Bool:
		return v.b
	case Number:
		f, _ := strconv.ParseFloat(v.scalar, 64)
		return f
	case String:
		return v.scalar
	case Array:
		res := make([]any, len(v.items))
		for i, x := range v.items {
			res[i] = x.Interface()
		}
		return res
	case Object:
		res := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			res[k] = v.fields[k].Interface()
		}
		return res
	}
	return nil
}
