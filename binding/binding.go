// Package binding fills {TOKEN} placeholders in template text.
package binding

import (
	"regexp"
	"slices"
	"strings"
)

// DefaultPlaceholder replaces tokens whose value is missing or blank.
const DefaultPlaceholder = "[Not provided]"

var tokenPattern = regexp.MustCompile(`\{([A-Z0-9_]+)\}`)

// Values maps token names (without braces) to their text.
type Values map[string]string

// Substitute replaces every {TOKEN} in text with its value. Tokens that
// are unknown or blank become placeholder, or DefaultPlaceholder when
// placeholder is empty. Braces that do not form a token are left alone.
func Substitute(text string, values Values, placeholder string) string {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	if !strings.Contains(text, "{") {
		return text
	}
	return tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		if v := strings.TrimSpace(values[name]); v != "" {
			return v
		}
		return placeholder
	})
}

// Tokens lists the distinct token names used in text, in order of first use.
func Tokens(text string) []string {
	var out []string
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if !slices.Contains(out, m[1]) {
			out = append(out, m[1])
		}
	}
	return out
}

// Unknown returns the tokens of text that values does not define.
func Unknown(text string, values Values) []string {
	var out []string
	for _, name := range Tokens(text) {
		if _, ok := values[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
