// Package schemayaml loads schema declarations from YAML documents and
// compiles them. A document looks like:
//
//	name: User
//	unknown: strict
//	fields:
//	  - name: id
//	    type: int
//	    required: true
//	    ge: 1
//	  - name: email
//	    type: string
//	    format: email
//
// Nested schemas declare inline under "schema" (record fields) or "schemas"
// (list and union fields).
package schemayaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	gokata "github.com/reoring/gokata"
	"gopkg.in/yaml.v3"
)

// Load compiles the first YAML document in data.
func Load(data []byte) (*gokata.Schema, error) {
	all, err := LoadAll(data)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errors.New("schemayaml: no schema document found")
	}
	return all[0], nil
}

// LoadAll scans a multi-document YAML stream and compiles every schema
// document in order.
func LoadAll(data []byte) ([]*gokata.Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []*gokata.Schema
	for {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("schemayaml: %w", err)
		}
		m := toStringMap(node)
		if m == nil {
			continue
		}
		s, err := buildSchema(m)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// LoadNamed compiles the document whose name matches.
func LoadNamed(data []byte, name string) (*gokata.Schema, error) {
	all, err := LoadAll(data)
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("schemayaml: schema %q not found", name)
}

func buildSchema(m map[string]any) (*gokata.Schema, error) {
	name, _ := m["name"].(string)
	if name == "" {
		return nil, errors.New("schemayaml: schema document missing name")
	}
	rawFields, ok := m["fields"].([]any)
	if !ok {
		return nil, fmt.Errorf("schemayaml: schema %q: missing fields list", name)
	}
	fields := make([]*gokata.Field, 0, len(rawFields))
	for i, rf := range rawFields {
		fm := toStringMap(rf)
		if fm == nil {
			return nil, fmt.Errorf("schemayaml: schema %q: field %d is not a mapping", name, i)
		}
		f, err := buildField(name, fm)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	var opt gokata.SchemaOpt
	switch pol, _ := m["unknown"].(string); pol {
	case "", "strip", "ignore":
		opt.Unknown = gokata.UnknownStrip
	case "strict", "forbid":
		opt.Unknown = gokata.UnknownStrict
	case "passthrough", "allow":
		opt.Unknown = gokata.UnknownPassthrough
	default:
		return nil, fmt.Errorf("schemayaml: schema %q: unknown policy %q", name, pol)
	}
	if tol, ok := toFloat(m["multiple_of_tolerance"]); ok {
		opt.MultipleOfTolerance = tol
	}
	return gokata.Compile(name, fields, opt)
}

func buildField(schema string, fm map[string]any) (*gokata.Field, error) {
	fname, _ := fm["name"].(string)
	if fname == "" {
		return nil, fmt.Errorf("schemayaml: schema %q: field missing name", schema)
	}
	tname, _ := fm["type"].(string)
	typ, err := typeCode(tname)
	if err != nil {
		return nil, fmt.Errorf("schemayaml: schema %q: field %q: %w", schema, fname, err)
	}
	f := gokata.F(fname, typ)
	if a, ok := fm["alias"].(string); ok {
		f.Alias(a)
	}
	if b, _ := fm["required"].(bool); b {
		f.Required()
	}
	if v, ok := fm["default"]; ok {
		f.Default(v)
	}
	if b, _ := fm["strict"].(bool); b {
		f.Strict()
	}
	if v, ok := toFloat(fm["gt"]); ok {
		f.GT(v)
	}
	if v, ok := toFloat(fm["ge"]); ok {
		f.GE(v)
	}
	if v, ok := toFloat(fm["lt"]); ok {
		f.LT(v)
	}
	if v, ok := toFloat(fm["le"]); ok {
		f.LE(v)
	}
	if v, ok := toFloat(fm["multiple_of"]); ok {
		f.MultipleOf(v)
	}
	if v, ok := toInt(fm["min_length"]); ok {
		f.MinLen(v)
	}
	if v, ok := toInt(fm["max_length"]); ok {
		f.MaxLen(v)
	}
	if b, _ := fm["allow_inf_nan"].(bool); b {
		f.AllowInfNaN()
	}
	if v, ok := fm["format"].(string); ok {
		code, err := formatCode(v)
		if err != nil {
			return nil, fmt.Errorf("schemayaml: schema %q: field %q: %w", schema, fname, err)
		}
		f.Format(code)
	}
	if b, _ := fm["strip"].(bool); b {
		f.Strip()
	}
	if b, _ := fm["lower"].(bool); b {
		f.Lower()
	}
	if b, _ := fm["upper"].(bool); b {
		f.Upper()
	}
	if v, ok := fm["pattern"].(string); ok {
		f.Pattern(v)
	}
	if vals, ok := fm["enum"].([]any); ok {
		ss := make([]string, 0, len(vals))
		for _, v := range vals {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("schemayaml: schema %q: field %q: non-string enum value", schema, fname)
			}
			ss = append(ss, s)
		}
		f.Enum(ss...)
	}
	if v, ok := fm["prefix"].(string); ok {
		f.Prefix(v)
	}
	if v, ok := fm["suffix"].(string); ok {
		f.Suffix(v)
	}
	if v, ok := fm["contains"].(string); ok {
		f.Contains(v)
	}
	if sub, ok := fm["schema"]; ok {
		sm := toStringMap(sub)
		if sm == nil {
			return nil, fmt.Errorf("schemayaml: schema %q: field %q: schema must be a mapping", schema, fname)
		}
		nested, err := buildSchema(sm)
		if err != nil {
			return nil, err
		}
		f.Schemas(nested)
	}
	if subs, ok := fm["schemas"].([]any); ok {
		for _, sub := range subs {
			sm := toStringMap(sub)
			if sm == nil {
				return nil, fmt.Errorf("schemayaml: schema %q: field %q: schemas entries must be mappings", schema, fname)
			}
			nested, err := buildSchema(sm)
			if err != nil {
				return nil, err
			}
			f.Schemas(nested)
		}
	}
	return f, nil
}

func typeCode(name string) (gokata.TypeCode, error) {
	switch name {
	case "any":
		return gokata.TypeAny, nil
	case "int", "integer":
		return gokata.TypeInt, nil
	case "float", "number":
		return gokata.TypeFloat, nil
	case "string", "":
		return gokata.TypeString, nil
	case "bool", "boolean":
		return gokata.TypeBool, nil
	case "bytes":
		return gokata.TypeBytes, nil
	case "record", "object":
		return gokata.TypeRecord, nil
	case "list", "array":
		return gokata.TypeList, nil
	case "union":
		return gokata.TypeUnion, nil
	}
	return 0, fmt.Errorf("unknown type %q", name)
}

func formatCode(name string) (gokata.FormatCode, error) {
	switch name {
	case "", "none":
		return gokata.FormatNone, nil
	case "email":
		return gokata.FormatEmail, nil
	case "url", "uri":
		return gokata.FormatURL, nil
	case "uuid":
		return gokata.FormatUUID, nil
	case "ipv4":
		return gokata.FormatIPv4, nil
	case "ipv6":
		return gokata.FormatIPv6, nil
	case "base64":
		return gokata.FormatBase64, nil
	case "date":
		return gokata.FormatDate, nil
	case "datetime", "date-time":
		return gokata.FormatDateTime, nil
	}
	return 0, fmt.Errorf("unknown format %q", name)
}

// toStringMap converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Non-map roots return nil.
func toStringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalizeValue(vv)
		}
		return out
	default:
		return nil
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return toStringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		if t > math.MaxInt32 {
			return 0, false
		}
		return int(t), true
	case float64:
		if t == math.Trunc(t) {
			return int(t), true
		}
	}
	return 0, false
}
