package gokata_test

import (
	"testing"

	gokata "github.com/reoring/gokata"
)

func TestBuiltinFormats(t *testing.T) {
	v := gokata.DefaultFormats()
	cases := []struct {
		code  gokata.FormatCode
		value string
		ok    bool
	}{
		{gokata.FormatEmail, "ann@example.com", true},
		{gokata.FormatEmail, "ann@localhost", false},
		{gokata.FormatEmail, "not-an-email", false},
		{gokata.FormatEmail, "Ann <ann@example.com>", false},
		{gokata.FormatURL, "https://example.com/x?y=1", true},
		{gokata.FormatURL, "example.com", false},
		{gokata.FormatURL, "/relative/path", false},
		{gokata.FormatUUID, "123e4567-e89b-12d3-a456-426614174000", true},
		{gokata.FormatUUID, "123e4567e89b12d3a456426614174000", false},
		{gokata.FormatUUID, "zzze4567-e89b-12d3-a456-426614174000", false},
		{gokata.FormatIPv4, "192.168.0.1", true},
		{gokata.FormatIPv4, "256.1.1.1", false},
		{gokata.FormatIPv4, "::1", false},
		{gokata.FormatIPv6, "::1", true},
		{gokata.FormatIPv6, "2001:db8::8a2e:370:7334", true},
		{gokata.FormatIPv6, "192.168.0.1", false},
		{gokata.FormatBase64, "aGVsbG8=", true},
		{gokata.FormatBase64, "aGVsbG8", false},
		{gokata.FormatDate, "2026-08-27", true},
		{gokata.FormatDate, "2026-13-01", false},
		{gokata.FormatDate, "2026-08-27T10:00:00Z", false},
		{gokata.FormatDateTime, "2026-08-27T10:00:00Z", true},
		{gokata.FormatDateTime, "2026-08-27T10:00:00+09:00", true},
		{gokata.FormatDateTime, "2026-08-27", false},
	}
	for _, tc := range cases {
		if got := v.Check(tc.code, tc.value); got != tc.ok {
			t.Errorf("Check(%v, %q) = %v, want %v", tc.code, tc.value, got, tc.ok)
		}
	}
}

func TestFormatIssue(t *testing.T) {
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("ip", gokata.TypeString).Format(gokata.FormatIPv4),
	})
	if _, err := gokata.Build(s, map[string]any{"ip": "10.0.0.1"}); err != nil {
		t.Fatalf("valid ip rejected: %v", err)
	}
	_, err := gokata.Build(s, map[string]any{"ip": "10.0.0"})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeInvalidFormat || iss[0].Path != "/ip" {
		t.Fatalf("issues: %v", iss)
	}
}

type evenLengthFormats struct{}

func (evenLengthFormats) Check(code gokata.FormatCode, s string) bool {
	return len(s)%2 == 0
}

func TestSetFormatValidator(t *testing.T) {
	gokata.SetFormatValidator(evenLengthFormats{})
	defer gokata.SetFormatValidator(nil)

	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("v", gokata.TypeString).Format(gokata.FormatEmail),
	})
	if _, err := gokata.Build(s, map[string]any{"v": "ab"}); err != nil {
		t.Fatalf("custom validator should accept even lengths: %v", err)
	}
	_, err := gokata.Build(s, map[string]any{"v": "abc"})
	iss, _ := gokata.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != gokata.CodeInvalidFormat {
		t.Fatalf("issues: %v", iss)
	}

	// nil restores the builtin checks.
	gokata.SetFormatValidator(nil)
	if _, err := gokata.Build(s, map[string]any{"v": "ann@example.com"}); err != nil {
		t.Fatalf("builtin validator should be back: %v", err)
	}
}

func TestPerSchemaFormats(t *testing.T) {
	// A schema-level validator overrides the package-wide one.
	s := gokata.MustCompile("S", []*gokata.Field{
		gokata.F("v", gokata.TypeString).Format(gokata.FormatEmail),
	}, gokata.SchemaOpt{Formats: evenLengthFormats{}})
	if _, err := gokata.Build(s, map[string]any{"v": "xy"}); err != nil {
		t.Fatalf("schema validator should accept even lengths: %v", err)
	}
	if _, err := gokata.Build(s, map[string]any{"v": "ann@example.com"}); err == nil {
		t.Fatal("odd-length value should fail the schema validator")
	}
}
