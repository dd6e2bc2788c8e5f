package common

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first character of an identifier and leaves the
// rest untouched: "name" -> "Name", "wireFormat" -> "WireFormat".
// The empty string maps to itself.
func Capitalize(s string) string {
	return mapFirst(s, unicode.ToUpper)
}

// Decapitalize lower-cases the first character of an identifier and leaves the
// rest untouched: "Name" -> "name", "URL" -> "uRL".
// The empty string maps to itself.
func Decapitalize(s string) string {
	return mapFirst(s, unicode.ToLower)
}

func mapFirst(s string, f func(rune) rune) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	mapped := f(r)
	if mapped == r {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(mapped)
	b.WriteString(s[size:])
	return b.String()
}

// GetterName derives the conventional accessor name for a property: "bar" -> "getBar".
func GetterName(property string) string {
	return "get" + Capitalize(property)
}

// SetterName derives the conventional mutator name for a property: "bar" -> "setBar".
func SetterName(property string) string {
	return "set" + Capitalize(property)
}
