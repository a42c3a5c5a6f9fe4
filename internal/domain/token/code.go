package token

import (
	"crypto/rand"
	"math/big"

	"spa-loyalty/internal/pkg/errs"
)

var ErrInvalidCode = errs.New("invalid token code")

// CodeLength is the fixed length of a coupon token code.
const CodeLength = 12

// codeAlphabet excludes lowercase so codes survive case-mangling keyboards
// on the kiosk side.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Code is an uppercase alphanumeric coupon token code.
type Code string

// NewCode generates a cryptographically random code.
func NewCode() (Code, error) {
	buf := make([]byte, CodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errs.Wrap(err, "failed to generate token code")
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return Code(buf), nil
}

// ParseCode validates an externally supplied code string.
func ParseCode(s string) (Code, error) {
	if len(s) != CodeLength {
		return "", ErrInvalidCode
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return "", ErrInvalidCode
		}
	}
	return Code(s), nil
}

func (c Code) String() string {
	return string(c)
}
