// Package ddlgen provides utilities for transforming Kuzu identifiers into
// Go-idiomatic names.
package ddlgen

import (
	"strings"
	"unicode"
)

// splitName splits a string on hyphens and underscores.
func splitName(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
}

// ToPascalCase transforms a snake_case or kebab-case string into PascalCase.
func ToPascalCase(name string) string {
	parts := splitName(name)
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// CommonAcronyms defines a set of common abbreviations that should be fully
// uppercased when generating Go names.
var CommonAcronyms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uuid": "UUID",
	"api":  "API",
	"http": "HTTP",
	"db":   "DB",
	"ip":   "IP",
	"json": "JSON",
}

// ToPascalCaseAcronyms transforms a string into PascalCase while preserving
// the casing of common Go acronyms.
func ToPascalCaseAcronyms(name string) string {
	parts := splitName(name)
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		if acronym, ok := CommonAcronyms[strings.ToLower(part)]; ok {
			b.WriteString(acronym)
			continue
		}
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}
