package generator

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

var goInitialisms = map[string]bool{
	"API":  true,
	"HTML": true,
	"HTTP": true,
	"ID":   true,
	"IP":   true,
	"JSON": true,
	"SQL":  true,
	"URI":  true,
	"URL":  true,
	"UUID": true,
}

// goName converts a GraphQL name to an exported Go identifier, keeping
// common initialisms upper-cased (userId -> UserID).
func goName(name string) string {
	camel := strcase.ToCamel(name)
	if camel == "" {
		return "X"
	}
	if !unicode.IsLetter(rune(camel[0])) {
		camel = "X" + camel
	}

	words := splitWords(camel)
	for i, w := range words {
		if upper := strings.ToUpper(w); goInitialisms[upper] {
			words[i] = upper
		}
	}
	return strings.Join(words, "")
}

// splitWords splits a CamelCase identifier before each upper-case letter that
// starts a new word.
func splitWords(s string) []string {
	var words []string
	start := 0
	runes := []rune(s)
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && !unicode.IsUpper(runes[i-1]) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

// constName is the name of an enum constant in the Go target,
// e.g. ProductStatus + draft -> ProductStatusDraft.
func constName(enum, value string) string {
	return enum + goName(strings.ToLower(value))
}

// screamingName is used for Apollo document constants, e.g. createProduct ->
// CREATE_PRODUCT_MUTATION.
func screamingName(field string, kind string) string {
	return strcase.ToScreamingSnake(field) + "_" + strings.ToUpper(kind)
}

// modulePath turns an output file name into a relative import specifier,
// types.ts -> ./types.
func modulePath(filename string) string {
	return "./" + strings.TrimSuffix(strings.TrimSuffix(filename, ".ts"), ".tsx")
}
