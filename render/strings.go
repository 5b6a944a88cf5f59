package render

import (
	"strings"
	"unicode"
)

func toPascalCase(s string) string {
	var result strings.Builder
	for _, word := range splitWords(s) {
		result.WriteString(capitalize(word))
	}
	return result.String()
}

func toKebabCase(s string) string {
	words := splitWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "-")
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// splitWords breaks s on separators, lower-to-upper transitions and
// letter/digit boundaries. Punctuation is dropped.
func splitWords(s string) []string {
	if s == "" {
		return nil
	}

	var words []string
	var current strings.Builder
	var prevChar rune
	var prevWasUpper bool

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for i, char := range s {
		isUpper := unicode.IsUpper(char)
		isLetter := unicode.IsLetter(char)
		isDigit := unicode.IsDigit(char)

		switch {
		case char == ' ' || char == '_' || char == '-':
			flush()
		case i > 0 && isUpper && !prevWasUpper && (unicode.IsLower(prevChar) || unicode.IsDigit(prevChar)):
			flush()
			current.WriteRune(char)
		case i > 0 && isLetter && unicode.IsDigit(prevChar):
			flush()
			current.WriteRune(char)
		case i > 0 && isDigit && unicode.IsLetter(prevChar):
			flush()
			current.WriteRune(char)
		case isLetter || isDigit:
			current.WriteRune(char)
		}

		prevChar = char
		prevWasUpper = isUpper
	}
	flush()

	return words
}
