// Package slug derives URL-safe product identifiers from titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds generated slugs so they fit the products.slug column.
const MaxLength = 50

// reservedSuffix is appended to titles whose slug would shadow a listing
// route under /products.
const reservedSuffix = "-product"

// reserved slugs name catalog listings that share the product path.
var reserved = map[string]bool{
	"featured": true,
	"search":   true,
}

// IsReserved reports whether s is taken by a catalog listing route.
func IsReserved(s string) bool {
	return reserved[s]
}

var (
	// Anything that is not a word character, whitespace, or hyphen.
	disallowed = regexp.MustCompile(`[^a-z0-9_\s-]+`)
	// Runs of whitespace and hyphens collapse to one hyphen.
	separators = regexp.MustCompile(`[\s-]+`)
)

// Make converts a title to a slug.
//
//	"Blue Shirt"        -> "blue-shirt"
//	"Café au Lait Mug"  -> "cafe-au-lait-mug"
//	"T-Shirt (XL)"      -> "t-shirt-xl"
//	"snake_case stays"  -> "snake_case-stays"
//	"Search"            -> "search-product"
func Make(title string) string {
	s := norm.NFKD.String(title)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = disallowed.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(strings.TrimSpace(s), "-")
	s = strings.Trim(s, "-_")

	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-_")
	}
	if IsReserved(s) {
		s += reservedSuffix
	}
	return s
}
