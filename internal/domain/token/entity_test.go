//go:build unit

package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spa-loyalty/internal/domain/token"
)

func TestNewCode(t *testing.T) {
	seen := make(map[token.Code]struct{})
	for i := 0; i < 100; i++ {
		code, err := token.NewCode()
		require.NoError(t, err)
		assert.Len(t, code.String(), token.CodeLength)
		for _, c := range code.String() {
			assert.True(t, (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'),
				"unexpected character %q in code %s", c, code)
		}
		seen[code] = struct{}{}
	}
	// 100 draws from a 36^12 space must not collide
	assert.Len(t, seen, 100)
}

func TestParseCode(t *testing.T) {
	cases := []struct {
		name  string
		input string
		errIs error
	}{
		{name: "valid code", input: "ABC123XYZ789"},
		{name: "all digits", input: "012345678901"},
		{name: "too short", input: "ABC123", errIs: token.ErrInvalidCode},
		{name: "too long", input: "ABC123XYZ7890", errIs: token.ErrInvalidCode},
		{name: "lowercase", input: "abc123xyz789", errIs: token.ErrInvalidCode},
		{name: "symbol", input: "ABC123XYZ78!", errIs: token.ErrInvalidCode},
		{name: "empty", input: "", errIs: token.ErrInvalidCode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, err := token.ParseCode(tc.input)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.input, code.String())
		})
	}
}

func TestTokenLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	kiosk := "kiosk-1"
	guest := "walk-in"

	code, err := token.NewCode()
	require.NoError(t, err)

	tok := token.Issue(code, &kiosk, &guest, now, 15*time.Minute)

	assert.Equal(t, code, tok.Code())
	assert.Equal(t, token.StatusIssued, tok.Status())
	assert.False(t, tok.IsUsed())
	assert.Equal(t, now.Add(15*time.Minute), tok.ExpiresAt())

	t.Run("expiry is evaluated against the given instant", func(t *testing.T) {
		assert.False(t, tok.IsExpiredAt(now))
		assert.False(t, tok.IsExpiredAt(now.Add(15*time.Minute-time.Second)))
		assert.True(t, tok.IsExpiredAt(now.Add(15*time.Minute)))
		assert.True(t, tok.IsExpiredAt(now.Add(time.Hour)))
	})

	t.Run("used token knows its consumer", func(t *testing.T) {
		phone := "+905551112233"
		usedAt := now.Add(time.Minute)
		used := token.Reconstruct(code, token.StatusUsed, &kiosk, &guest, &phone, tok.ExpiresAt(), &usedAt, now, usedAt)

		assert.True(t, used.IsUsed())
		assert.True(t, used.WasUsedBy(phone))
		assert.False(t, used.WasUsedBy("+905559998877"))
	})

	t.Run("issued token was used by nobody", func(t *testing.T) {
		assert.False(t, tok.WasUsedBy("+905551112233"))
	})
}
