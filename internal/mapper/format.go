// internal/mapper/format.go
package mapper

import (
	"fmt"
	"strings"
)

// FormatPhone normalizes a phone number for US-style forms: 10 digits render
// as (XXX) XXX-XXXX, 11 digits with a leading country code 1 render as
// +1 (XXX) XXX-XXXX, anything else passes through untouched.
func FormatPhone(raw string) string {
	digits := digitsOnly(raw)
	switch {
	case len(digits) == 10:
		return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
	case len(digits) == 11 && digits[0] == '1':
		return fmt.Sprintf("+1 (%s) %s-%s", digits[1:4], digits[4:7], digits[7:11])
	}
	return raw
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
