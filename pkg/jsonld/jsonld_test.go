// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package jsonld_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/readeck/recipescraper/pkg/jsonld"
)

func TestParse(t *testing.T) {
	t.Run("kinds", func(t *testing.T) {
		tests := []struct {
			src      string
			expected jsonld.Kind
		}{
			{`null`, jsonld.Null},
			{`true`, jsonld.Bool},
			{`12.5`, jsonld.Number},
			{`"abc"`, jsonld.String},
			{`[1, 2]`, jsonld.Array},
			{`{"a": 1}`, jsonld.Object},
			{"  {}\n\n", jsonld.Object},
		}

		for _, test := range tests {
			t.Run(test.src, func(t *testing.T) {
				v, err := jsonld.Parse([]byte(test.src))
				require.NoError(t, err)
				require.Equal(t, test.expected, v.Kind())
			})
		}
	})

	t.Run("key order", func(t *testing.T) {
		assert := require.New(t)
		v := jsonld.MustParse(`{"z": 1, "a": {"y": true, "b": null}, "m": [3, "x"]}`)

		assert.Equal([]string{"z", "a", "m"}, v.Keys())
		assert.Equal([]string{"y", "b"}, v.Get("a").Keys())

		children := v.Children()
		assert.Len(children, 3)
		assert.Equal(jsonld.Number, children[0].Kind())
		assert.Equal(jsonld.Object, children[1].Kind())
		assert.Equal(jsonld.Array, children[2].Kind())
	})

	t.Run("duplicate keys", func(t *testing.T) {
		assert := require.New(t)
		v := jsonld.MustParse(`{"a": 1, "b": 2, "a": "last"}`)

		assert.Equal([]string{"a", "b"}, v.Keys())
		s, ok := v.Get("a").Text()
		assert.True(ok)
		assert.Equal("last", s)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []string{
			``,
			`   `,
			`{"@type": "Recipe",}`,
			`{"@type": "Recipe"`,
			`[1, 2`,
			`{"a" 1}`,
			`{"a": tru}`,
			`{} {}`,
			`{}]`,
			`<!-- {"a": 1} -->`,
		}

		for _, src := range tests {
			t.Run(src, func(t *testing.T) {
				_, err := jsonld.Parse([]byte(src))
				require.Error(t, err)
			})
		}
	})

	t.Run("too deep", func(t *testing.T) {
		src := strings.Repeat("[", jsonld.MaxNesting+2) + strings.Repeat("]", jsonld.MaxNesting+2)
		_, err := jsonld.Parse([]byte(src))
		require.ErrorIs(t, err, jsonld.ErrTooDeep)

		src = strings.Repeat("[", 100) + strings.Repeat("]", 100)
		_, err = jsonld.Parse([]byte(src))
		require.NoError(t, err)
	})
}

func TestParseRepair(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v, err := jsonld.ParseRepair([]byte(`{"@type": "Recipe"}`))
		require.NoError(t, err)
		s, _ := v.Get("@type").Text()
		require.Equal(t, "Recipe", s)
	})

	t.Run("trailing comma", func(t *testing.T) {
		v, err := jsonld.ParseRepair([]byte(`{"@type": "Recipe", "name": "Soup",}`))
		require.NoError(t, err)
		s, _ := v.Get("name").Text()
		require.Equal(t, "Soup", s)
	})

	t.Run("unquoted keys", func(t *testing.T) {
		v, err := jsonld.ParseRepair([]byte(`{name: 'Soup'}`))
		require.NoError(t, err)
		s, _ := v.Get("name").Text()
		require.Equal(t, "Soup", s)
	})
}

func TestValue(t *testing.T) {
	t.Run("nil value", func(t *testing.T) {
		assert := require.New(t)
		var v *jsonld.Value

		assert.Equal(jsonld.Null, v.Kind())
		assert.False(v.Has("a"))
		assert.Nil(v.Get("a"))
		assert.Nil(v.Keys())
		assert.Nil(v.Items())
		assert.Nil(v.Children())
		assert.Equal(0, v.Len())

		_, ok := v.Text()
		assert.False(ok)
	})

	t.Run("scalars", func(t *testing.T) {
		assert := require.New(t)
		v := jsonld.MustParse(`{"n": 4.50, "b": false, "s": "x", "z": null}`)

		n, ok := v.Get("n").Number()
		assert.True(ok)
		assert.Equal("4.50", n.String())

		b, ok := v.Get("b").Bool()
		assert.True(ok)
		assert.False(b)

		_, ok = v.Get("s").Number()
		assert.False(ok)

		assert.True(v.Has("z"))
		assert.Equal(jsonld.Null, v.Get("z").Kind())
		assert.False(v.Has("missing"))
	})

	t.Run("marshal", func(t *testing.T) {
		assert := require.New(t)
		src := `{"z":1.0,"a":[true,null,"<b>&amp;</b>"],"m":{"y":"é"}}`
		v := jsonld.MustParse(src)

		b, err := v.MarshalJSON()
		assert.NoError(err)
		assert.Equal(src, string(b))

		b, err = json.Marshal(map[string]any{"v": v})
		assert.NoError(err)
		assert.JSONEq(`{"v":`+src+`}`, string(b))
	})

	t.Run("interface", func(t *testing.T) {
		v := jsonld.MustParse(`{"a": [1, "b", {"c": null}], "d": true}`)
		require.Equal(t, map[string]any{
			"a": []any{float64(1), "b", map[string]any{"c": nil}},
			"d": true,
		}, v.Interface())
	})
}
