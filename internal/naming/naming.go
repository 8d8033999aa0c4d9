// Package naming provides shared string case conversion utilities.
package naming

import (
	"strings"
	"unicode"
)

// SplitWords breaks s into words at separators, lower-to-upper transitions
// and the end of an acronym.
// Example: "HTTPServer_config" -> [HTTP Server config]
func SplitWords(s string) []string {
	var words []string
	var cur []rune
	runes := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// ToPascalCase converts a string to PascalCase. Acronyms keep their case.
// Example: "user_profile" -> "UserProfile"
// Example: "APIClient" -> "APIClient"
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, w := range SplitWords(s) {
		b.WriteString(ToTitleCase(w))
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase.
// Like PascalCase but with the first word lowercase.
// Example: "UserProfile" -> "userProfile"
// Example: "HTTPServer" -> "httpServer"
func ToCamelCase(s string) string {
	words := SplitWords(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(ToTitleCase(w))
	}
	return b.String()
}

// ToSnakeCase converts a string to snake_case.
// Example: "UserProfile" -> "user_profile"
// Example: "APIClient" -> "api_client"
func ToSnakeCase(s string) string {
	words := SplitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// ToKebabCase converts a string to kebab-case.
// Like snake_case but with hyphens instead of underscores.
// Example: "UserProfile" -> "user-profile"
func ToKebabCase(s string) string {
	return strings.ReplaceAll(ToSnakeCase(s), "_", "-")
}

// ToTitleCase converts the first letter to uppercase.
// Example: "hello" -> "Hello"
func ToTitleCase(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
