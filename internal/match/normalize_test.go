package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"FirstName", "first_name"},
		{"LastName", "last_name"},
		{"EmployeeID", "employee_id"},
		{"ID", "id"},
		{"HTTPStatus", "http_status"},
		{"parseURL", "parse_url"},
		{"Circle", "circle"},
		{"already_snake", "already_snake"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FieldKey(tt.input))
		})
	}
}

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"FirstName", "firstname"},
		{"first_name", "firstname"},
		{"first-name", "firstname"},
		{"FIRSTNAME", "firstname"},
		{"XMLParser", "xmlparser"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeIdent(tt.input); got != tt.expected {
				t.Errorf("NormalizeIdent(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTokenizeCamelCase(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"OrderID", []string{"Order", "ID"}},
		{"customerName", []string{"customer", "Name"}},
		{"XMLParser", []string{"XML", "Parser"}},
		{"getHTTPResponse", []string{"get", "HTTP", "Response"}},
		{"order_id", []string{"order", "id"}},
		{"ALLCAPS", []string{"ALLCAPS"}},
		{"", nil},
		{"a", []string{"a"}},
		{"AbC", []string{"Ab", "C"}},
		{"ABcD", []string{"A", "Bc", "D"}},
		{"__lead", []string{"lead"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenizeCamelCase(tt.input))
		})
	}
}
