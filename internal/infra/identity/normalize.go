// Package identity implements contact normalization and identity key
// derivation for the person dedup index.
package identity

import (
	"strings"
)

// NormalizeEmail canonicalizes an email address for matching. Matching is
// case-insensitive; no plus-tag or dot stripping is applied because those
// rules are provider-specific.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone canonicalizes a phone number to E.164 where the input allows
// it, assuming the default AU region for national formats. Numbers that fit
// neither a national nor an international shape pass through digits-only so
// identical raw inputs still match each other.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	international := strings.HasPrefix(phone, "+")

	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return ""
	}

	switch {
	case international:
		return "+" + d
	case strings.HasPrefix(d, "0"):
		// National format: 0412... -> +61412...
		return "+61" + d[1:]
	case strings.HasPrefix(d, "61"):
		// Country-prefixed without the plus.
		return "+" + d
	default:
		return d
	}
}

// NormalizeDOB canonicalizes a date of birth string. Dates arrive already
// validated as ISO dates; only surrounding whitespace is stripped.
func NormalizeDOB(dob string) string {
	return strings.TrimSpace(dob)
}
