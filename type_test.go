// FILE: lixenwraith/flagconf/type_test.go
package flagconf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTypedGetters tests conversion of stored values
func TestTypedGetters(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Register("s", "text"))
	require.NoError(t, cfg.Register("n", json.Number("42")))
	require.NoError(t, cfg.Register("f", 1.5))
	require.NoError(t, cfg.Register("b", true))
	require.NoError(t, cfg.Register("hex", "0x10"))
	require.NoError(t, cfg.Register("list", []any{"a", 1, nil}))
	require.NoError(t, cfg.Register("csv", "x,y"))
	require.NoError(t, cfg.Register("null", nil))

	t.Run("String", func(t *testing.T) {
		cases := map[string]string{
			"s":    "text",
			"n":    "42",
			"f":    "1.5",
			"b":    "true",
			"list": "a,1,<nil>",
			"null": "",
		}
		for path, want := range cases {
			got, err := cfg.String(path)
			require.NoError(t, err, path)
			assert.Equal(t, want, got, path)
		}
	})

	t.Run("Int64", func(t *testing.T) {
		n, err := cfg.Int64("n")
		require.NoError(t, err)
		assert.Equal(t, int64(42), n)

		n, err = cfg.Int64("hex")
		require.NoError(t, err)
		assert.Equal(t, int64(16), n)

		n, err = cfg.Int64("f")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = cfg.Int64("s")
		assert.Error(t, err)
		_, err = cfg.Int64("null")
		assert.Error(t, err)
	})

	t.Run("Bool", func(t *testing.T) {
		b, err := cfg.Bool("b")
		require.NoError(t, err)
		assert.True(t, b)

		b, err = cfg.Bool("f")
		require.NoError(t, err)
		assert.True(t, b)

		_, err = cfg.Bool("s")
		assert.Error(t, err)
	})

	t.Run("Float64", func(t *testing.T) {
		f, err := cfg.Float64("n")
		require.NoError(t, err)
		assert.Equal(t, 42.0, f)

		f, err = cfg.Float64("b")
		require.NoError(t, err)
		assert.Equal(t, 1.0, f)
	})

	t.Run("Strings", func(t *testing.T) {
		list, err := cfg.Strings("list")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "1", ""}, list)

		list, err = cfg.Strings("csv")
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, list)

		list, err = cfg.Strings("null")
		require.NoError(t, err)
		assert.Nil(t, list)

		_, err = cfg.Strings("b")
		assert.Error(t, err)
	})

	t.Run("Unregistered", func(t *testing.T) {
		_, err := cfg.String("missing")
		assert.ErrorIs(t, err, ErrNotRegistered)
		_, err = cfg.Int64("missing")
		assert.ErrorIs(t, err, ErrNotRegistered)
	})
}
