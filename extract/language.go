// Package extract produces best-effort structural summaries of source files.
//
// Summaries are recovered with regular expressions and brace/indentation
// counting rather than a real parser. Missed or spurious declarations are
// expected on unusual syntax and are not treated as errors.
package extract

import (
	"path/filepath"
	"sort"
	"strings"
)

// Family is the closed set of language families the extractor understands.
type Family string

const (
	FamilyNone      Family = "none"
	FamilyManaged   Family = "managed"   // C#
	FamilyScripting Family = "scripting" // Python
	FamilyWeb       Family = "web"       // JavaScript, TypeScript
)

// Language defines a supported source language and its extraction strategy.
type Language interface {
	// Name returns the language identifier (e.g., "csharp", "python").
	Name() string

	// Extensions returns lowercase file extensions for this language (e.g., [".cs"]).
	Extensions() []string

	// Family returns the language family the strategy belongs to.
	Family() Family

	// Extract scans text and returns the declarations it recognized.
	// It never fails; unmatched categories are simply empty.
	Extract(text string) *Result
}

// registry holds all registered languages.
var registry = make(map[string]Language)

// Register adds a language to the registry.
// This is called from init() functions in the strategy files.
func Register(lang Language) {
	registry[lang.Name()] = lang
}

// Get returns a language by name, or nil if not found.
func Get(name string) Language {
	return registry[name]
}

// List returns all registered language names in sorted order.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByExtension finds a language by file extension. The match is case-insensitive.
func ByExtension(ext string) Language {
	ext = strings.ToLower(ext)
	for _, lang := range registry {
		for _, e := range lang.Extensions() {
			if e == ext {
				return lang
			}
		}
	}
	return nil
}

// ForPath returns the language for a file path, or nil when unsupported.
func ForPath(path string) Language {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil
	}
	return ByExtension(ext)
}

// FamilyFor returns the language family for a file path.
func FamilyFor(path string) Family {
	lang := ForPath(path)
	if lang == nil {
		return FamilyNone
	}
	return lang.Family()
}
