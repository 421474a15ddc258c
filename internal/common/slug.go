package common

import (
	"strings"
	"unicode"

	"github.com/labstack/gommon/random"
)

// Slugify lowercases s and joins its letter/digit runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	return b.String()
}

// UniqueSlug appends a short random suffix, for names that may repeat across trucks.
func UniqueSlug(s string) string {
	suffix := random.String(6, random.Lowercase, random.Numeric)
	base := Slugify(s)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
