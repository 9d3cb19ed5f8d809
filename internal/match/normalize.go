package match

import (
	"strings"
	"unicode"
)

// FieldKey converts a Go identifier into the snake_case key used to address
// record fields and variant alternatives.
// Examples:
//   - "FirstName" -> "first_name"
//   - "EmployeeID" -> "employee_id"
//   - "HTTPStatus" -> "http_status"
func FieldKey(ident string) string {
	return strings.Join(TokenizeIdent(ident), "_")
}

// NormalizeIdent folds an identifier for fuzzy matching: tokens are joined,
// lowercased and separators are dropped, so "FirstName", "first_name" and
// "first-name" all normalize to "firstname".
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits an identifier into normalized lowercase tokens.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// tokenizeCamelCase splits a CamelCase, camelCase or snake_case string into tokens.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "last_name" -> ["last", "name"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// shouldStartNewToken reports whether a new token begins at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	// "orderID": lower to upper
	if !unicode.IsUpper(prev) {
		return true
	}

	// "XMLParser": last capital of an acronym starts the next word
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
