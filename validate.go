package gokata

import (
	"math"
	"strconv"
)

// validateValue applies one compiled field spec to one raw value. Scalars
// yield at most one issue (the first failing rule wins); list fields may
// yield one issue per element. The returned value is the validated,
// possibly coerced form to store in the record slot.
func validateValue(s *Schema, fs *fieldSpec, raw any, path string) (any, Issues) {
	switch fs.typ {
	case TypeAny:
		return raw, nil
	case TypeInt:
		return validateInt(fs, raw, path)
	case TypeFloat:
		return validateFloat(fs, raw, path)
	case TypeString:
		sv, ok := raw.(string)
		if !ok {
			return nil, Issues{typeIssue(path, "string", raw)}
		}
		sv = fs.cons.applyTransforms(sv)
		if iss := fs.cons.checkString(path, sv, s.formatValidator()); iss != nil {
			return nil, Issues{*iss}
		}
		return sv, nil
	case TypeBool:
		bv, ok := raw.(bool)
		if !ok {
			return nil, Issues{typeIssue(path, "bool", raw)}
		}
		return bv, nil
	case TypeBytes:
		bv, ok := raw.([]byte)
		if !ok {
			return nil, Issues{typeIssue(path, "bytes", raw)}
		}
		if iss := fs.cons.checkLength(path, len(bv)); iss != nil {
			return nil, Issues{*iss}
		}
		return bv, nil
	case TypeRecord:
		return validateRecord(fs, raw, path)
	case TypeList:
		return validateList(fs, raw, path)
	case TypeUnion:
		return validateUnion(fs, raw, path)
	}
	return nil, Issues{typeIssue(path, fs.typ.String(), raw)}
}

func validateInt(fs *fieldSpec, raw any, path string) (any, Issues) {
	// bool is checked before the integer widths: it is a distinct type here,
	// never a numeric subtype.
	if _, isBool := raw.(bool); isBool {
		return nil, Issues{typeIssue(path, "int", raw)}
	}
	v, kind := toInt64(raw)
	switch kind {
	case numInt:
		// ok
	case numFloat:
		f := asFloat64(raw)
		if fs.strict {
			return nil, Issues{exactTypeIssue(path, "int", "float")}
		}
		var ok bool
		v, ok = floatToInt64(f)
		if !ok {
			return nil, Issues{convIssue(path, "float "+formatFloat(f)+" to int")}
		}
	case numOverflow:
		return nil, Issues{ruleIssue(path, CodeOverflow, "int64", nil)}
	default:
		return nil, Issues{typeIssue(path, "int", raw)}
	}
	if iss := fs.cons.checkInt(path, v); iss != nil {
		return nil, Issues{*iss}
	}
	return v, nil
}

func validateFloat(fs *fieldSpec, raw any, path string) (any, Issues) {
	if _, isBool := raw.(bool); isBool {
		return nil, Issues{typeIssue(path, "float", raw)}
	}
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		iv, kind := toInt64(raw)
		switch kind {
		case numInt:
			if fs.strict {
				return nil, Issues{exactTypeIssue(path, "float", "int")}
			}
			f = float64(iv)
		case numOverflow:
			if fs.strict {
				return nil, Issues{exactTypeIssue(path, "float", "int")}
			}
			f = asFloat64(raw)
		default:
			return nil, Issues{typeIssue(path, "float", raw)}
		}
	}
	if iss := fs.cons.checkFloat(path, f); iss != nil {
		return nil, Issues{*iss}
	}
	return f, nil
}

func validateRecord(fs *fieldSpec, raw any, path string) (any, Issues) {
	nested := fs.nested[0]
	switch v := raw.(type) {
	case *Record:
		// Already validated against a schema; only the identity matters.
		if v.schema == nested {
			return v, nil
		}
		return nil, Issues{typeIssue(path, nested.name, raw)}
	case map[string]any:
		rec, iss := buildRecord(nested, v, path)
		if len(iss) > 0 {
			return nil, iss
		}
		return rec, nil
	}
	return nil, Issues{typeIssue(path, nested.name, raw)}
}

func validateList(fs *fieldSpec, raw any, path string) (any, Issues) {
	elems, ok := asSlice(raw)
	if !ok {
		return nil, Issues{typeIssue(path, "list", raw)}
	}
	if iss := fs.cons.checkLength(path, len(elems)); iss != nil {
		return nil, Issues{*iss}
	}
	out := make([]any, 0, len(elems))
	var iss Issues
	for i, el := range elems {
		rec, elIss := coerceToOneOf(fs.nested, el, path+"/"+strconv.Itoa(i))
		if elIss != nil {
			// Keep going: remaining elements still produce diagnostics.
			iss = append(iss, *elIss)
			continue
		}
		out = append(out, rec)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func validateUnion(fs *fieldSpec, raw any, path string) (any, Issues) {
	rec, iss := coerceToOneOf(fs.nested, raw, path)
	if iss != nil {
		return nil, Issues{*iss}
	}
	return rec, nil
}

// coerceToOneOf resolves a value against an ordered set of accepted schemas:
// an existing record of any accepted schema passes through; a mapping is
// coerced against each schema in declared order, first success wins.
func coerceToOneOf(accepted []*Schema, raw any, path string) (*Record, *Issue) {
	if rec, ok := raw.(*Record); ok {
		for _, s := range accepted {
			if rec.schema == s {
				return rec, nil
			}
		}
		iss := typeIssue(path, schemaNames(accepted), raw)
		return nil, &iss
	}
	m, ok := raw.(map[string]any)
	if !ok {
		iss := typeIssue(path, schemaNames(accepted), raw)
		return nil, &iss
	}
	var first Issues
	for _, s := range accepted {
		rec, iss := buildRecord(s, m, path)
		if len(iss) == 0 {
			return rec, nil
		}
		if first == nil {
			first = iss
		}
	}
	iss := typeIssue(path, schemaNames(accepted), raw)
	iss.Cause = first
	return nil, &iss
}

func schemaNames(schemas []*Schema) string {
	if len(schemas) == 1 {
		return schemas[0].name
	}
	out := schemas[0].name
	for _, s := range schemas[1:] {
		out += "|" + s.name
	}
	return out
}

type numKind int

const (
	numNone numKind = iota
	numInt
	numFloat
	numOverflow
)

// toInt64 classifies raw as an integer width, a float, or neither. uint64
// values beyond int64 range report numOverflow.
func toInt64(raw any) (int64, numKind) {
	switch v := raw.(type) {
	case int:
		return int64(v), numInt
	case int64:
		return v, numInt
	case int32:
		return int64(v), numInt
	case int16:
		return int64(v), numInt
	case int8:
		return int64(v), numInt
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, numOverflow
		}
		return int64(v), numInt
	case uint64:
		if v > math.MaxInt64 {
			return 0, numOverflow
		}
		return int64(v), numInt
	case uint32:
		return int64(v), numInt
	case uint16:
		return int64(v), numInt
	case uint8:
		return int64(v), numInt
	case float64, float32:
		return 0, numFloat
	}
	return 0, numNone
}

func asFloat64(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return 0
}

// floatToInt64 converts exactly or not at all: fractional parts and values
// outside int64 range fail.
func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	// 2^63 is not representable; the valid range check must exclude it.
	if f < -9.223372036854776e18 || f >= 9.223372036854776e18 {
		return 0, false
	}
	return int64(f), true
}

func asSlice(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []*Record:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	}
	return nil, false
}

// typeName names a runtime value the way issue messages spell types.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case []byte:
		return "bytes"
	case float64, float32:
		return "float"
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return "int"
	case map[string]any:
		return "map"
	case []any, []*Record, []map[string]any:
		return "list"
	case *Record:
		return "record"
	}
	return "unknown"
}

func typeIssue(path, expected string, got any) Issue {
	return ruleIssue(path, CodeInvalidType, "type", map[string]string{
		"expected": expected,
		"got":      typeName(got),
	})
}

func exactTypeIssue(path, expected, got string) Issue {
	return ruleIssue(path, CodeInvalidType, "type", map[string]string{
		"expected": expected,
		"got":      got,
		"exact":    "true",
	})
}

func convIssue(path, conv string) Issue {
	return ruleIssue(path, CodeInvalidType, "type", map[string]string{"conv": conv})
}
