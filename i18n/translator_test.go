package i18n_test

import (
	"testing"

	"github.com/reoring/gokata/i18n"
)

func TestEnglishMessages(t *testing.T) {
	cases := []struct {
		code string
		data map[string]string
		want string
	}{
		{"required", nil, "Field required"},
		{"unknown_key", nil, "Extra inputs are not permitted"},
		{"invalid_type", map[string]string{"expected": "int", "got": "str"}, "Expected int, got str"},
		{"invalid_type", map[string]string{"expected": "int", "got": "float", "exact": "true"}, "Expected exactly int, got float"},
		{"invalid_type", map[string]string{"conv": "bool to int"}, "Cannot convert bool to int"},
		{"too_small", map[string]string{"bound": "1", "got": "0"}, "Value must be >= 1, got 0"},
		{"too_small", map[string]string{"bound": "1", "got": "1", "exclusive": "true"}, "Value must be > 1, got 1"},
		{"too_big", map[string]string{"bound": "9", "got": "10"}, "Value must be <= 9, got 10"},
		{"too_short", map[string]string{"min": "1", "got": "0"}, "Length must be >= 1, got 0"},
		{"too_long", map[string]string{"max": "3", "got": "4"}, "Length must be <= 3, got 4"},
		{"not_multiple", map[string]string{"multiple": "5", "got": "7"}, "Value must be a multiple of 5, got 7"},
		{"not_finite", nil, "Value must be finite"},
		{"pattern", map[string]string{"pattern": "^a"}, `String does not match pattern "^a"`},
		{"invalid_enum", map[string]string{"allowed": "a, b"}, "Value must be one of: a, b"},
		{"invalid_format", map[string]string{"format": "email"}, "Invalid email format"},
		{"starts_with", map[string]string{"prefix": "x"}, `String must start with "x"`},
		{"duplicate_key", map[string]string{"key": "id"}, `Duplicate key "id"`},
		{"overflow", nil, "Integer out of 64-bit range"},
		{"parse_error", map[string]string{"detail": "unexpected end of input"}, "unexpected end of input"},
		{"some_new_code", nil, "some_new_code"},
	}
	for _, tc := range cases {
		if got := i18n.T(tc.code, tc.data); got != tc.want {
			t.Errorf("T(%q, %v) = %q, want %q", tc.code, tc.data, got, tc.want)
		}
	}
}

func TestSetLanguage(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")

	if got := i18n.T("required", nil); got != "必須プロパティが不足しています" {
		t.Fatalf("ja required: %q", got)
	}
	if got := i18n.T("too_small", nil); got != "値が小さすぎます" {
		t.Fatalf("ja too_small: %q", got)
	}

	// Unknown languages fall back to English.
	i18n.SetLanguage("fr")
	if got := i18n.T("required", nil); got != "Field required" {
		t.Fatalf("fallback: %q", got)
	}
}

type upperTranslator struct{}

func (upperTranslator) Message(code string, data map[string]string) string {
	return "CODE:" + code
}

func TestSetTranslator(t *testing.T) {
	i18n.SetTranslator(upperTranslator{})
	defer i18n.SetTranslator(nil)

	if got := i18n.T("required", nil); got != "CODE:required" {
		t.Fatalf("custom translator: %q", got)
	}

	i18n.SetTranslator(nil)
	if got := i18n.T("required", nil); got != "Field required" {
		t.Fatalf("nil should restore the dictionary: %q", got)
	}
}
