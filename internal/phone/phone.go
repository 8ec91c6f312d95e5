// Package phone normalises Korean domestic phone numbers typed into the
// booking forms.  Every form runs the same routine: strip everything that is
// not a digit, check the length and regroup the digits with hyphens.
package phone

import (
	"errors"
	"regexp"
	"strings"
)

// Digit-count bounds for a domestic number (02-123-4567 to 010-1234-5678).
const (
	MinDigits = 9
	MaxDigits = 11
)

// ErrInvalid is returned by Validate for numbers outside the allowed length.
// Its text is shown to the user as is.
var ErrInvalid = errors.New("올바른 전화번호를 입력해주세요.")

var (
	nonDigit = regexp.MustCompile(`[^0-9]`)
	// prefix (Seoul 02, 0505 relay, 4-digit 1xxx reps, 3-digit mobile/area),
	// optional middle block, last four digits
	grouping = regexp.MustCompile(`^(02|0505|1[0-9]{3}|0[0-9]{2})([0-9]+)?([0-9]{4})$`)
)

// Digits strips every non-digit character from s.
func Digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// Format regroups s as prefix-middle-last4.  It is meant to run on every
// keystroke, so it never fails: inputs under three digits come back as typed
// and digit strings with no recognised prefix come back as bare digits.
// Format(Format(s)) == Format(s).
func Format(s string) string {
	d := Digits(s)
	if len(d) < 3 {
		return s
	}
	out := grouping.ReplaceAllString(d, "${1}-${2}-${3}")
	// an empty middle group leaves "--"
	return strings.Replace(out, "--", "-", 1)
}

// Validate checks the digit count of s and returns the formatted number.
func Validate(s string) (string, error) {
	d := Digits(s)
	if len(d) < MinDigits || len(d) > MaxDigits {
		return "", ErrInvalid
	}
	return Format(d), nil
}

// Valid reports whether Validate would accept s.
func Valid(s string) bool {
	_, err := Validate(s)
	return err == nil
}
