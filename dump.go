package gokata

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ToMap walks the record back into a generic mapping in schema field order,
// recursing into nested, list, and union slots. Values are already
// validated; nothing is re-checked. Empty optional slots are omitted.
// Passthrough extras land under their original keys.
func (r *Record) ToMap() map[string]any {
	out := make(map[string]any, len(r.slots)+len(r.extra))
	for i := range r.schema.fields {
		if !r.Has(i) {
			continue
		}
		out[r.schema.fields[i].name] = dumpValue(r.slots[i])
	}
	for k, v := range r.extra {
		out[k] = v
	}
	return out
}

func dumpValue(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = dumpValue(t[i])
		}
		return out
	}
	return v
}

// MarshalJSON emits the record as a JSON object.
func (r *Record) MarshalJSON() ([]byte, error) { return r.AppendJSON(nil) }

// AppendJSON appends the record's JSON text to dst, preserving schema field
// order and then passthrough extras in sorted key order. Non-finite floats
// render as null; strings escape quotes, backslashes, and control bytes.
func (r *Record) AppendJSON(dst []byte) ([]byte, error) {
	dst = append(dst, '{')
	n := 0
	var err error
	for i := range r.schema.fields {
		if !r.Has(i) {
			continue
		}
		if n > 0 {
			dst = append(dst, ',')
		}
		n++
		dst = appendJSONString(dst, r.schema.fields[i].name)
		dst = append(dst, ':')
		dst, err = appendJSONValue(dst, r.slots[i])
		if err != nil {
			return nil, err
		}
	}
	if len(r.extra) > 0 {
		keys := make([]string, 0, len(r.extra))
		for k := range r.extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if n > 0 {
				dst = append(dst, ',')
			}
			n++
			dst = appendJSONString(dst, k)
			dst = append(dst, ':')
			dst, err = appendJSONValue(dst, r.extra[k])
			if err != nil {
				return nil, err
			}
		}
	}
	return append(dst, '}'), nil
}

func appendJSONValue(dst []byte, v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return append(dst, "null"...), nil
	case bool:
		if t {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case int64:
		return strconv.AppendInt(dst, t, 10), nil
	case int:
		return strconv.AppendInt(dst, int64(t), 10), nil
	case int32:
		return strconv.AppendInt(dst, int64(t), 10), nil
	case int16:
		return strconv.AppendInt(dst, int64(t), 10), nil
	case int8:
		return strconv.AppendInt(dst, int64(t), 10), nil
	case uint64:
		return strconv.AppendUint(dst, t, 10), nil
	case uint:
		return strconv.AppendUint(dst, uint64(t), 10), nil
	case uint32:
		return strconv.AppendUint(dst, uint64(t), 10), nil
	case uint16:
		return strconv.AppendUint(dst, uint64(t), 10), nil
	case uint8:
		return strconv.AppendUint(dst, uint64(t), 10), nil
	case float64:
		return appendJSONFloat(dst, t), nil
	case float32:
		return appendJSONFloat(dst, float64(t)), nil
	case string:
		return appendJSONString(dst, t), nil
	case []byte:
		return appendJSONString(dst, string(t)), nil
	case *Record:
		return t.AppendJSON(dst)
	case []any:
		dst = append(dst, '[')
		var err error
		for i := range t {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst, err = appendJSONValue(dst, t[i])
			if err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		dst = append(dst, '{')
		var err error
		for i, k := range keys {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendJSONString(dst, k)
			dst = append(dst, ':')
			dst, err = appendJSONValue(dst, t[k])
			if err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	}
	return nil, fmt.Errorf("gokata: cannot dump value of type %T", v)
}

// appendJSONFloat renders the shortest round-trip form; JSON has no
// Infinity/NaN, so non-finite values become null. Integral values keep a
// trailing .0 so the token re-decodes as a float, not an int.
func appendJSONFloat(dst []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, "null"...)
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'g', -1, 64)
	for _, c := range dst[start:] {
		if c == '.' || c == 'e' || c == 'E' {
			return dst
		}
	}
	return append(dst, '.', '0')
}

const hexDigits = "0123456789abcdef"

func appendJSONString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		start = i + 1
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
