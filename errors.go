package gokata

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeDuplicateKey  = "duplicate_key"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeNotMultiple   = "not_multiple"
	CodeNotFinite     = "not_finite"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeStartsWith    = "starts_with"
	CodeEndsWith      = "ends_with"
	CodeContains      = "contains"
	CodeOverflow      = "overflow"
	// Structural failures. These abort the pass immediately.
	CodeParseError = "parse_error"
	CodeTruncated  = "truncated"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error (nested issues, parse errors).
	Offset  int64  // Byte offset in the input, -1 when unknown.
	// Params carries structured parameters (e.g., {"min":"1", "got":"0"})
	// for i18n and observability.
	Params map[string]string
	// Rule optionally records the constraint that produced this issue
	// ("gt", "min_length", "format", ...).
	Rule string
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Structural reports whether the collection carries a fatal parse-level
// failure, as opposed to field-level validation entries.
func (iss Issues) Structural() bool {
	for i := range iss {
		if iss[i].Code == CodeParseError || iss[i].Code == CodeTruncated {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
