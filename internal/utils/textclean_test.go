package utils

import (
	"reflect"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "latin letters and digits pass through",
			input:    "Widget 42",
			expected: "Widget 42",
		},
		{
			name:     "thai text is preserved",
			input:    "น้ำดื่ม ตราสิงห์",
			expected: "น้ำดื่ม ตราสิงห์",
		},
		{
			name:     "mixed thai latin with punctuation",
			input:    "กล่อง Box-01 (ใหญ่)",
			expected: "กล่อง Box-01 (ใหญ่)",
		},
		{
			name:     "disallowed characters are dropped",
			input:    "a\"b'c`d~e^f",
			expected: "abcdef",
		},
		{
			name:     "preserved punctuation set",
			input:    "@#$%&*+-=_.,:;!?()[]{}|\\/<>",
			expected: "@#$%&*+-=_.,:;!?()[]{}|\\/<>",
		},
		{
			name:     "blank input yields empty",
			input:    "   ",
			expected: "",
		},
		{
			name:     "empty input yields empty",
			input:    "",
			expected: "",
		},
		{
			name:     "tabs and newlines dropped but spaces kept",
			input:    "a\tb\nc d",
			expected: "abc d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.expected {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanLettersOnly(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"drops digits and spaces", "abc 123 def", "abcdef"},
		{"keeps thai letters", "สินค้า A1", "สินค้าA"},
		{"blank input", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanLettersOnly(tt.input); got != tt.expected {
				t.Errorf("CleanLettersOnly(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanSearchTerm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"removes all whitespace", "  big box  ", "bigbox"},
		{"keeps digits", "sku 007", "sku007"},
		{"drops punctuation", "a-b.c", "abc"},
		{"thai term", "น้ำ ดื่ม", "น้ำดื่ม"},
		{"order preserved", "z1 a2", "z1a2"},
		{"pure punctuation yields empty", "---", ""},
		{"blank yields empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanSearchTerm(tt.input); got != tt.expected {
				t.Errorf("CleanSearchTerm(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSearchWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"splits on whitespace", "big  box", []string{"big", "box"}},
		{"normalizes each word", "a-b c.d", []string{"ab", "cd"}},
		{"drops words that normalize empty", "box --- 12", []string{"box", "12"}},
		{"all dropped yields nil", "--- ...", nil},
		{"empty input yields nil", "", nil},
		{"thai words", "น้ำ ดื่ม", []string{"น้ำ", "ดื่ม"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchWords(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SearchWords(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
