// internal/mapper/validate.go
package mapper

import (
	"net/url"
	"regexp"
)

// The validators below are advisory. The mapper never blocks on an invalid
// value; callers decide whether to skip one before execution.

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like a deliverable address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s carries at least ten digits.
func ValidPhone(s string) bool {
	return len(digitsOnly(s)) >= 10
}

// ValidURL reports whether s parses as an absolute http(s) URL.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
