package wallet

import (
	"regexp"

	"spa-loyalty/internal/pkg/errs"
)

var ErrInvalidPhone = errs.New("invalid phone number")

// phoneRegex accepts E.164 numbers: + followed by 8 to 15 digits, no leading zero.
var phoneRegex = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)

// Phone is a validated E.164 phone number used as the wallet identity.
type Phone string

func NewPhone(s string) (Phone, error) {
	if !phoneRegex.MatchString(s) {
		return "", ErrInvalidPhone
	}
	return Phone(s), nil
}

func (p Phone) String() string {
	return string(p)
}
