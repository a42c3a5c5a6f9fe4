//go:build unit

package wallet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spa-loyalty/internal/domain/wallet"
)

func TestNewPhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		errIs error
	}{
		{name: "turkish mobile", input: "+905551112233"},
		{name: "short but valid", input: "+12345678"},
		{name: "max length", input: "+123456789012345"},
		{name: "missing plus", input: "905551112233", errIs: wallet.ErrInvalidPhone},
		{name: "leading zero", input: "+0905551112233", errIs: wallet.ErrInvalidPhone},
		{name: "too short", input: "+1234567", errIs: wallet.ErrInvalidPhone},
		{name: "too long", input: "+1234567890123456", errIs: wallet.ErrInvalidPhone},
		{name: "letters", input: "+90555ABCDEFG", errIs: wallet.ErrInvalidPhone},
		{name: "empty", input: "", errIs: wallet.ErrInvalidPhone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			phone, err := wallet.NewPhone(tc.input)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.input, phone.String())
		})
	}
}

func TestRemainingToFree(t *testing.T) {
	const bundle = 4

	cases := []struct {
		balance int
		want    int
	}{
		{balance: 0, want: 4},
		{balance: 1, want: 3},
		{balance: 2, want: 2},
		{balance: 3, want: 1},
		{balance: 4, want: 0},
		{balance: 5, want: 3},
		{balance: 7, want: 1},
		{balance: 8, want: 0},
		{balance: 9, want: 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, wallet.RemainingToFree(tc.balance, bundle),
			"balance=%d", tc.balance)
	}
}

func TestRemainingToFreeWithDifferentBundleSize(t *testing.T) {
	assert.Equal(t, 6, wallet.RemainingToFree(0, 6))
	assert.Equal(t, 1, wallet.RemainingToFree(5, 6))
	assert.Equal(t, 0, wallet.RemainingToFree(6, 6))
	assert.Equal(t, 0, wallet.RemainingToFree(12, 6))
}
