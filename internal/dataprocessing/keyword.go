package dataprocessing

import (
	"strings"
)

// MaxKeywordLength bounds a derived search keyword, in characters
const MaxKeywordLength = 80

// DeriveKeyword shortens an indicator name to a search keyword: the text
// before the first comma, then before the first opening parenthesis, cut to
// MaxKeywordLength characters. Surrounding whitespace is kept.
func DeriveKeyword(indicator string) string {
	kw := indicator
	if i := strings.Index(kw, ","); i >= 0 {
		kw = kw[:i]
	}
	if i := strings.Index(kw, "("); i >= 0 {
		kw = kw[:i]
	}
	if r := []rune(kw); len(r) > MaxKeywordLength {
		kw = string(r[:MaxKeywordLength])
	}
	return kw
}

// SearchTerm is the query sent to the search-interest provider
func SearchTerm(keyword, country string) string {
	kw := strings.TrimSpace(keyword)
	if country == "" {
		return kw
	}
	return kw + " " + country
}
