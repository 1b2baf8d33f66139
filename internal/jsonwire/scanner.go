// Package jsonwire is the byte-level JSON scanner behind the decoder: string
// and number lexing with fast/slow paths, structural value skipping, and
// depth accounting. It has no schema knowledge; the root package drives it.
package jsonwire

import (
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// Kind tags one decoded JSON value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindNull
	KindObject
	KindArray
)

// Value is one decoded JSON scalar, or the raw subtree of a composite.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
	Bool  bool
	Raw   []byte // objects and arrays only
	// IntOverflow marks an integral token beyond int64 range; Float then
	// carries the nearest approximation.
	IntOverflow bool
}

// SyntaxError is a fatal structural failure. It aborts the whole decode.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("json: %s at offset %d", e.Msg, e.Offset)
}

const (
	// fastStringLimit bounds the inline string path: escape-free runs under
	// this length slice directly.
	fastStringLimit = 64
	// fastIntDigits bounds the inline integer path; 18 decimal digits always
	// fit int64.
	fastIntDigits = 18
)

// Scanner walks one input buffer left to right. It keeps no state across
// inputs; every decode allocates its own.
type Scanner struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int
}

// NewScanner wraps data. maxDepth 0 means unlimited nesting.
func NewScanner(data []byte, maxDepth int) *Scanner {
	return &Scanner{data: data, maxDepth: maxDepth}
}

// Pos returns the current byte offset.
func (s *Scanner) Pos() int64 { return int64(s.pos) }

// SkipSpace advances past JSON whitespace.
func (s *Scanner) SkipSpace() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// Peek skips whitespace and returns the next byte without consuming it.
func (s *Scanner) Peek() (byte, bool) {
	s.SkipSpace()
	if s.pos >= len(s.data) {
		return 0, false
	}
	return s.data[s.pos], true
}

// Advance consumes one byte. Callers pair it with Peek.
func (s *Scanner) Advance() { s.pos++ }

// Expect consumes c after whitespace or fails.
func (s *Scanner) Expect(c byte) *SyntaxError {
	s.SkipSpace()
	if s.pos >= len(s.data) {
		return s.errAt(int64(s.pos), "unexpected end of input")
	}
	if s.data[s.pos] != c {
		return s.errAt(int64(s.pos), fmt.Sprintf("expected %q", string(c)))
	}
	s.pos++
	return nil
}

// AtEnd reports whether only whitespace remains.
func (s *Scanner) AtEnd() bool {
	s.SkipSpace()
	return s.pos >= len(s.data)
}

// Push enters one nesting level, enforcing the depth cap.
func (s *Scanner) Push() *SyntaxError {
	s.depth++
	if s.maxDepth > 0 && s.depth > s.maxDepth {
		return s.errAt(int64(s.pos), "maximum depth exceeded")
	}
	return nil
}

// Pop leaves one nesting level.
func (s *Scanner) Pop() { s.depth-- }

func (s *Scanner) errAt(off int64, msg string) *SyntaxError {
	return &SyntaxError{Offset: off, Msg: msg}
}

// ReadString parses one JSON string. Escape-free runs return a direct slice
// conversion; anything with escapes goes through the unescape buffer.
func (s *Scanner) ReadString() (string, *SyntaxError) {
	s.SkipSpace()
	if s.pos >= len(s.data) || s.data[s.pos] != '"' {
		return "", s.errAt(int64(s.pos), "expected string")
	}
	s.pos++
	start := s.pos
	for i := s.pos; i < len(s.data); i++ {
		c := s.data[i]
		if c == '"' {
			if i-start < fastStringLimit {
				s.pos = i + 1
				return string(s.data[start:i]), nil
			}
			// Long run: general path, same result through the buffer.
			return s.readStringSlow(start, i)
		}
		if c == '\\' {
			return s.readStringSlow(start, i)
		}
		if c < 0x20 {
			return "", s.errAt(int64(i), "invalid control character in string")
		}
	}
	return "", s.errAt(int64(len(s.data)), "unterminated string")
}

func (s *Scanner) readStringSlow(start, firstEsc int) (string, *SyntaxError) {
	buf := make([]byte, 0, firstEsc-start+16)
	buf = append(buf, s.data[start:firstEsc]...)
	i := firstEsc
	for i < len(s.data) {
		c := s.data[i]
		switch {
		case c == '"':
			s.pos = i + 1
			return string(buf), nil
		case c == '\\':
			i++
			if i >= len(s.data) {
				return "", s.errAt(int64(len(s.data)), "unterminated string")
			}
			switch s.data[i] {
			case '"':
				buf = append(buf, '"')
				i++
			case '\\':
				buf = append(buf, '\\')
				i++
			case '/':
				buf = append(buf, '/')
				i++
			case 'b':
				buf = append(buf, '\b')
				i++
			case 'f':
				buf = append(buf, '\f')
				i++
			case 'n':
				buf = append(buf, '\n')
				i++
			case 'r':
				buf = append(buf, '\r')
				i++
			case 't':
				buf = append(buf, '\t')
				i++
			case 'u':
				r, ok := hex4(s.data, i+1)
				if !ok {
					return "", s.errAt(int64(i-1), "invalid \\u escape")
				}
				i += 5
				if utf16.IsSurrogate(r) {
					if i+1 < len(s.data) && s.data[i] == '\\' && s.data[i+1] == 'u' {
						if r2, ok2 := hex4(s.data, i+2); ok2 {
							if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
								r = dec
								i += 6
							} else {
								r = utf8.RuneError
							}
						} else {
							r = utf8.RuneError
						}
					} else {
						r = utf8.RuneError
					}
				}
				buf = utf8.AppendRune(buf, r)
			default:
				return "", s.errAt(int64(i), "invalid escape character")
			}
		case c < 0x20:
			return "", s.errAt(int64(i), "invalid control character in string")
		default:
			buf = append(buf, c)
			i++
		}
	}
	return "", s.errAt(int64(len(s.data)), "unterminated string")
}

func hex4(b []byte, i int) (rune, bool) {
	if i+4 > len(b) {
		return 0, false
	}
	var r rune
	for _, c := range b[i : i+4] {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, false
		}
	}
	return r, true
}

// ReadValue parses the next value. Scalars decode to native forms; objects
// and arrays are skipped structurally and returned as raw subtrees.
func (s *Scanner) ReadValue() (Value, *SyntaxError) {
	s.SkipSpace()
	if s.pos >= len(s.data) {
		return Value{}, s.errAt(int64(s.pos), "unexpected end of input")
	}
	switch c := s.data[s.pos]; {
	case c == '"':
		str, err := s.ReadString()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, Str: str}, nil
	case c == '{':
		raw, err := s.SkipValue()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindObject, Raw: raw}, nil
	case c == '[':
		raw, err := s.SkipValue()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindArray, Raw: raw}, nil
	case c == 't' || c == 'f' || c == 'n':
		return s.readLiteral()
	case c == '-' || (c >= '0' && c <= '9'):
		return s.readNumber()
	default:
		return Value{}, s.errAt(int64(s.pos), "unexpected character")
	}
}

func (s *Scanner) readLiteral() (Value, *SyntaxError) {
	rest := s.data[s.pos:]
	switch rest[0] {
	case 't':
		if len(rest) >= 4 && rest[1] == 'r' && rest[2] == 'u' && rest[3] == 'e' {
			s.pos += 4
			return Value{Kind: KindBool, Bool: true}, nil
		}
	case 'f':
		if len(rest) >= 5 && rest[1] == 'a' && rest[2] == 'l' && rest[3] == 's' && rest[4] == 'e' {
			s.pos += 5
			return Value{Kind: KindBool}, nil
		}
	case 'n':
		if len(rest) >= 4 && rest[1] == 'u' && rest[2] == 'l' && rest[3] == 'l' {
			s.pos += 4
			return Value{Kind: KindNull}, nil
		}
	}
	return Value{}, s.errAt(int64(s.pos), "invalid literal")
}

// readNumber lexes one JSON number. Integral tokens within the digit budget
// accumulate inline; fractional, exponent, and oversized tokens fall back to
// strconv.
func (s *Scanner) readNumber() (Value, *SyntaxError) {
	data := s.data
	start := s.pos
	i := s.pos
	neg := false
	if i < len(data) && data[i] == '-' {
		neg = true
		i++
	}
	if i >= len(data) || data[i] < '0' || data[i] > '9' {
		return Value{}, s.errAt(int64(i), "invalid number")
	}
	digStart := i
	if data[i] == '0' {
		i++
		if i < len(data) && data[i] >= '0' && data[i] <= '9' {
			return Value{}, s.errAt(int64(i), "invalid number: leading zero")
		}
	} else {
		for i < len(data) && data[i] >= '0' && data[i] <= '9' {
			i++
		}
	}
	digEnd := i
	isFloat := false
	if i < len(data) && data[i] == '.' {
		isFloat = true
		i++
		frac := i
		for i < len(data) && data[i] >= '0' && data[i] <= '9' {
			i++
		}
		if i == frac {
			return Value{}, s.errAt(int64(i), "invalid number: missing fraction digits")
		}
	}
	if i < len(data) && (data[i] == 'e' || data[i] == 'E') {
		isFloat = true
		i++
		if i < len(data) && (data[i] == '+' || data[i] == '-') {
			i++
		}
		exp := i
		for i < len(data) && data[i] >= '0' && data[i] <= '9' {
			i++
		}
		if i == exp {
			return Value{}, s.errAt(int64(i), "invalid number: missing exponent digits")
		}
	}
	s.pos = i
	if !isFloat {
		if digEnd-digStart <= fastIntDigits {
			var v int64
			for _, c := range data[digStart:digEnd] {
				v = v*10 + int64(c-'0')
			}
			if neg {
				v = -v
			}
			return Value{Kind: KindInt, Int: v}, nil
		}
		token := string(data[start:i])
		if v, err := strconv.ParseInt(token, 10, 64); err == nil {
			return Value{Kind: KindInt, Int: v}, nil
		}
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return Value{}, s.errAt(int64(start), "invalid number")
		}
		return Value{Kind: KindFloat, Float: f, IntOverflow: true}, nil
	}
	f, err := strconv.ParseFloat(string(data[start:i]), 64)
	if err != nil {
		return Value{}, s.errAt(int64(start), "invalid number")
	}
	return Value{Kind: KindFloat, Float: f}, nil
}

// SkipValue consumes the next value without decoding it and returns its raw
// bytes. Composites get bracket matching, string handling, and depth
// enforcement but no full grammar check.
func (s *Scanner) SkipValue() ([]byte, *SyntaxError) {
	s.SkipSpace()
	if s.pos >= len(s.data) {
		return nil, s.errAt(int64(s.pos), "unexpected end of input")
	}
	start := s.pos
	switch c := s.data[s.pos]; {
	case c == '"':
		if err := s.skipString(); err != nil {
			return nil, err
		}
	case c == '{' || c == '[':
		if err := s.skipComposite(); err != nil {
			return nil, err
		}
	case c == 't' || c == 'f' || c == 'n':
		if _, err := s.readLiteral(); err != nil {
			return nil, err
		}
	case c == '-' || (c >= '0' && c <= '9'):
		if _, err := s.readNumber(); err != nil {
			return nil, err
		}
	default:
		return nil, s.errAt(int64(s.pos), "unexpected character")
	}
	return s.data[start:s.pos], nil
}

func (s *Scanner) skipString() *SyntaxError {
	// Caller positioned at the opening quote.
	i := s.pos + 1
	for i < len(s.data) {
		switch c := s.data[i]; {
		case c == '"':
			s.pos = i + 1
			return nil
		case c == '\\':
			i += 2
		case c < 0x20:
			return s.errAt(int64(i), "invalid control character in string")
		default:
			i++
		}
	}
	return s.errAt(int64(len(s.data)), "unterminated string")
}

func (s *Scanner) skipComposite() *SyntaxError {
	var stack []byte
	for s.pos < len(s.data) {
		switch c := s.data[s.pos]; c {
		case '"':
			if err := s.skipString(); err != nil {
				return err
			}
		case '{', '[':
			stack = append(stack, c)
			if s.maxDepth > 0 && s.depth+len(stack) > s.maxDepth {
				return s.errAt(int64(s.pos), "maximum depth exceeded")
			}
			s.pos++
		case '}', ']':
			if len(stack) == 0 {
				return s.errAt(int64(s.pos), "unexpected closing bracket")
			}
			open := stack[len(stack)-1]
			if (c == '}' && open != '{') || (c == ']' && open != '[') {
				return s.errAt(int64(s.pos), "mismatched brackets")
			}
			stack = stack[:len(stack)-1]
			s.pos++
			if len(stack) == 0 {
				return nil
			}
		default:
			s.pos++
		}
	}
	return s.errAt(int64(len(s.data)), "unterminated value")
}
