// Package lang derives the page language from the URL path and rewrites paths
// between the Greek (unprefixed) and English (/en) variants of the site.
package lang

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported site language.
type Language string

const (
	Greek   Language = "el"
	English Language = "en"

	// Default is served for every path without the /en prefix.
	Default = Greek

	englishPrefix = "/en"
)

var supported = []Language{Greek, English}

// Supported returns the site languages in display order.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Parse maps a language code ("el", "EN", "en-GB") to a supported language.
func Parse(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i != -1 {
		code = code[:i]
	}
	switch Language(code) {
	case Greek:
		return Greek, true
	case English:
		return English, true
	}
	return "", false
}

// String implements fmt.Stringer.
func (l Language) String() string { return string(l) }

// Tag returns the BCP 47 tag used for Content-Language and <html lang>.
func (l Language) Tag() language.Tag {
	if l == English {
		return language.English
	}
	return language.Greek
}

// Prefix returns the path prefix for the language ("" for Greek).
func (l Language) Prefix() string {
	if l == English {
		return englishPrefix
	}
	return ""
}

// Other returns the alternate site language.
func (l Language) Other() Language {
	if l == English {
		return Greek
	}
	return English
}

// Resolve returns English iff the path starts with the /en segment.
func Resolve(path string) Language {
	if hasEnglishPrefix(path) {
		return English
	}
	return Greek
}

// StripPrefix removes a leading /en segment. "/en" alone becomes "/", and a
// query or fragment directly after it is kept on the root.
func StripPrefix(path string) string {
	if !hasEnglishPrefix(path) {
		return path
	}
	rest := path[len(englishPrefix):]
	if rest == "" {
		return "/"
	}
	if rest[0] == '?' || rest[0] == '#' {
		return "/" + rest
	}
	return rest
}

// AddPrefix prefixes /en onto the normalized path for English and returns the
// path unchanged for Greek.
func AddPrefix(path string, l Language) string {
	if l != English {
		return path
	}
	return englishPrefix + Normalize(path)
}

// Switch rewrites the current path to the target language variant. Root maps to
// "/" and "/en"; all other paths keep their suffix.
func Switch(path string, target Language) string {
	current := StripPrefix(path)
	if current == "/" || current == "" {
		if target == English {
			return englishPrefix
		}
		return "/"
	}
	return AddPrefix(current, target)
}

// Normalize ensures a leading slash. The empty path becomes "/".
func Normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// hasEnglishPrefix matches "/en" as a whole segment so "/energy-studies/" stays Greek.
func hasEnglishPrefix(path string) bool {
	if !strings.HasPrefix(path, englishPrefix) {
		return false
	}
	rest := path[len(englishPrefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?' || rest[0] == '#'
}
