// Package naming converts raw identifiers into rendered TypeScript names.
//
// A Policy is a pure function. Every policy here returns empty and
// whitespace-only input unchanged.
package naming

import (
	"fmt"
	"strings"
	"unicode"
)

// Policy converts a raw identifier to a rendered name.
type Policy func(name string) string

// Identity returns name unchanged.
func Identity(name string) string {
	return name
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

func isBlank(name string) bool {
	return strings.TrimSpace(name) == ""
}

// PascalCase upper-cases the first rune of every separator delimited segment
// and drops the separators ('_', '-' and whitespace). The rest of each
// segment is kept as is, so "UserID" stays "UserID" and "user_id" becomes
// "UserId".
func PascalCase(name string) string {
	if isBlank(name) {
		return name
	}

	if !strings.ContainsFunc(name, isSeparator) {
		return upperFirst(name)
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, segment := range strings.FieldsFunc(name, isSeparator) {
		b.WriteString(upperFirst(segment))
	}
	return b.String()
}

// CamelCase lower-cases the leading upper-case run of name, stopping before
// an upper-case rune that starts a new word: "Name" -> "name",
// "ID" -> "id", "URLValue" -> "urlValue", "IsActive" -> "isActive".
func CamelCase(name string) string {
	if isBlank(name) {
		return name
	}

	r := []rune(name)
	if !unicode.IsUpper(r[0]) {
		return name
	}

	for i := range r {
		if i == 1 && !unicode.IsUpper(r[i]) {
			break
		}
		if i > 0 && i+1 < len(r) && !unicode.IsUpper(r[i+1]) {
			// "URLValue": keep the 'V' that starts "Value"
			if unicode.IsSpace(r[i+1]) {
				r[i] = unicode.ToLower(r[i])
			}
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// SnakeCase converts PascalCase or camelCase to snake_case, keeping acronyms
// together ("HTTPSConnection" -> "https_connection").
func SnakeCase(name string) string {
	return delimit(name, '_')
}

// KebabCase is SnakeCase with '-' as the delimiter.
func KebabCase(name string) string {
	return delimit(name, '-')
}

func delimit(name string, delimiter rune) string {
	if isBlank(name) {
		return name
	}

	var b strings.Builder
	runes := []rune(PascalCase(name))
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !prevUpper || nextLower {
				b.WriteRune(delimiter)
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func upperFirst(s string) string {
	r := []rune(s)
	if !unicode.IsLower(r[0]) {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Lookup resolves a policy by the name used in configuration files.
// An empty name resolves to fallback.
func Lookup(name string, fallback Policy) (Policy, error) {
	switch strings.ToLower(name) {
	case "":
		return fallback, nil
	case "pascal":
		return PascalCase, nil
	case "camel":
		return CamelCase, nil
	case "snake":
		return SnakeCase, nil
	case "kebab":
		return KebabCase, nil
	case "none":
		return Identity, nil
	}
	return nil, fmt.Errorf("unknown naming policy %q (want one of pascal, camel, snake, kebab, none)", name)
}
