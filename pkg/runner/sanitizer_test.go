package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	t.Run("passes clean input through", func(t *testing.T) {
		out, err := SanitizeInput("ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", out)
	})

	t.Run("keeps safe whitespace", func(t *testing.T) {
		out, err := SanitizeInput("line one\nline two\ttabbed\r\n")
		require.NoError(t, err)
		assert.Equal(t, "line one\nline two\ttabbed\r\n", out)
	})

	t.Run("strips ANSI escapes and NUL", func(t *testing.T) {
		out, err := SanitizeInput("ok\x1b[2Jfine\x00done")
		require.NoError(t, err)
		assert.Equal(t, "ok[2Jfinedone", out)
	})

	t.Run("rejects oversized input", func(t *testing.T) {
		_, err := SanitizeInput(strings.Repeat("x", DefaultMaxInputSize+1))
		assert.ErrorIs(t, err, ErrInputTooLarge)
	})

	t.Run("rejects invalid utf-8", func(t *testing.T) {
		_, err := SanitizeInput("bad\xff\xfe")
		assert.ErrorIs(t, err, ErrInvalidUTF8)
	})

	t.Run("env var raises the limit", func(t *testing.T) {
		t.Setenv(EnvMaxInputSize, "8")
		_, err := SanitizeInput("123456789")
		assert.ErrorIs(t, err, ErrInputTooLarge)

		out, err := SanitizeInput("12345678")
		require.NoError(t, err)
		assert.Equal(t, "12345678", out)
	})
}

func TestDecodeOverrides(t *testing.T) {
	t.Run("empty map is a zero patch", func(t *testing.T) {
		patch, err := decodeOverrides(nil)
		require.NoError(t, err)
		assert.True(t, patch.IsZero())
	})

	t.Run("valid keys become typed fields", func(t *testing.T) {
		patch, err := decodeOverrides(map[string]any{
			"support_type": "service",
			"note":         "escalated",
		})
		require.NoError(t, err)
		require.NotNil(t, patch.SupportType)
		assert.Equal(t, "service", string(*patch.SupportType))
		require.NotNil(t, patch.Note)
		assert.Equal(t, "escalated", *patch.Note)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		_, err := decodeOverrides(map[string]any{"messages": []any{}})
		assert.ErrorIs(t, err, ErrUnknownOverride)
	})

	t.Run("invalid enum rejected", func(t *testing.T) {
		_, err := decodeOverrides(map[string]any{"support_type": "billing"})
		assert.Error(t, err)
	})
}
