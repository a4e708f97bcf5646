package validation

import (
	"strings"
	"testing"
)

func TestIsValidUserID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"user_1", true},
		{"u-123.456", true},
		{"ABCdef789", true},

		// Invalid cases
		{"", false},
		{"user 1", false},     // space
		{"user/../1", false},  // path chars
		{"user\x001", false},  // null byte
		{strings.Repeat("a", MaxUserIDLength+1), false},
	}

	for _, tc := range tests {
		result := IsValidUserID(tc.id)
		if result != tc.valid {
			t.Errorf("IsValidUserID(%q) = %v, want %v", tc.id, result, tc.valid)
		}
	}
}

func TestIsValidHex(t *testing.T) {
	tests := []struct {
		s     string
		valid bool
	}{
		{"deadbeef", true},
		{"ABCDEF01", true},

		{"", false},
		{"not-hex", false},
		{"0xdeadbeef", false}, // no prefix allowed
	}

	for _, tc := range tests {
		result := IsValidHex(tc.s)
		if result != tc.valid {
			t.Errorf("IsValidHex(%q) = %v, want %v", tc.s, result, tc.valid)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"hello", 10, "hello"},
		{"  hello  ", 10, "hello"},
		{"hello world", 5, "hello"},
		{"hello\x00world", 20, "helloworld"},
	}

	for _, tc := range tests {
		result := SanitizeString(tc.input, tc.maxLen)
		if result != tc.expected {
			t.Errorf("SanitizeString(%q, %d) = %q, want %q", tc.input, tc.maxLen, result, tc.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	// Test valid input
	errors := Validate(
		Required("name", "John"),
		MaxLength("name", "John", 10),
	)
	if len(errors) != 0 {
		t.Errorf("Expected no errors, got %v", errors)
	}

	// Test invalid input
	errors = Validate(
		Required("name", ""),
		MaxLength("merchant", strings.Repeat("x", 20), 10),
	)
	if len(errors) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(errors))
	}
}

func TestMaxLength(t *testing.T) {
	// Under limit
	err := MaxLength("field", "hello", 10)()
	if err != nil {
		t.Error("Expected no error for string under limit")
	}

	// At limit
	err = MaxLength("field", "hello", 5)()
	if err != nil {
		t.Error("Expected no error for string at limit")
	}

	// Over limit
	err = MaxLength("field", "hello world", 5)()
	if err == nil {
		t.Error("Expected error for string over limit")
	}
}
