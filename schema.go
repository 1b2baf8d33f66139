package gokata

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// defaultMultipleOfTolerance is the absolute remainder accepted by float
// multiple-of checks when SchemaOpt does not override it.
const defaultMultipleOfTolerance = 1e-9

// fieldSpec is one compiled field. Built once by Compile, immutable
// afterward, shared read-only by every Record of the schema.
type fieldSpec struct {
	index    int
	name     string
	alias    string
	nameHash uint64
	// aliasHash is meaningful only when alias != "".
	aliasHash uint64

	typ      TypeCode
	required bool

	def        any
	hasDefault bool

	strict bool
	cons   constraintSet
	nested []*Schema
}

// Schema is a compiled schema: an ordered sequence of field specs plus
// lookup structures. Field order is declaration order and defines the slot
// index of every Record built from this schema. A Schema never changes after
// Compile and is safe for unlimited concurrent use.
type Schema struct {
	name      string
	fields    []fieldSpec
	index     map[string]int // name and alias -> slot
	unknown   UnknownPolicy
	tolerance float64
	formats   FormatValidator // nil -> package-wide validator
}

// Compile turns an ordered field declaration list into a Schema. Declaration
// errors (incompatible constraints, missing nested schemas, name collisions)
// are fatal and reported as a plain error; this step runs once per schema so
// its cost does not matter.
func Compile(name string, fields []*Field, opt ...SchemaOpt) (*Schema, error) {
	var o SchemaOpt
	if len(opt) > 0 {
		o = opt[0]
	}
	tol := o.MultipleOfTolerance
	if tol <= 0 {
		tol = defaultMultipleOfTolerance
	}
	s := &Schema{
		name:      name,
		fields:    make([]fieldSpec, 0, len(fields)),
		index:     make(map[string]int, len(fields)*2),
		unknown:   o.Unknown,
		tolerance: tol,
		formats:   o.Formats,
	}
	for i, f := range fields {
		fs, err := compileField(f, i, tol)
		if err != nil {
			return nil, fmt.Errorf("gokata: schema %q: %w", name, err)
		}
		if prev, ok := s.index[fs.name]; ok {
			return nil, fmt.Errorf("gokata: schema %q: field %q collides with field %d", name, fs.name, prev)
		}
		s.index[fs.name] = i
		if fs.alias != "" {
			if prev, ok := s.index[fs.alias]; ok {
				return nil, fmt.Errorf("gokata: schema %q: alias %q of field %q collides with field %d", name, fs.alias, fs.name, prev)
			}
			s.index[fs.alias] = i
		}
		s.fields = append(s.fields, fs)
	}
	return s, nil
}

// MustCompile is Compile that panics on error, for package-level schema
// declarations.
func MustCompile(name string, fields []*Field, opt ...SchemaOpt) *Schema {
	s, err := Compile(name, fields, opt...)
	if err != nil {
		panic(err)
	}
	return s
}

func compileField(f *Field, index int, tol float64) (fieldSpec, error) {
	if f == nil {
		return fieldSpec{}, fmt.Errorf("field %d: nil declaration", index)
	}
	if f.name == "" {
		return fieldSpec{}, fmt.Errorf("field %d: empty name", index)
	}
	fs := fieldSpec{
		index:      index,
		name:       f.name,
		alias:      f.alias,
		nameHash:   hashName(f.name),
		typ:        f.typ,
		required:   f.required,
		def:        f.def,
		hasDefault: f.hasDefault,
		strict:     f.strict,
		nested:     f.nested,
	}
	if f.alias != "" {
		if f.alias == f.name {
			return fieldSpec{}, fmt.Errorf("field %q: alias equals the field name", f.name)
		}
		fs.aliasHash = hashName(f.alias)
	}

	numeric := f.typ == TypeInt || f.typ == TypeFloat
	textual := f.typ == TypeString
	sized := textual || f.typ == TypeBytes || f.typ == TypeList

	if (f.gt != nil || f.ge != nil || f.lt != nil || f.le != nil || f.multipleOf != nil) && !numeric {
		return fieldSpec{}, fmt.Errorf("field %q: numeric bounds on %s field", f.name, f.typ)
	}
	if f.strict && !numeric {
		return fieldSpec{}, fmt.Errorf("field %q: strict on %s field", f.name, f.typ)
	}
	if f.allowInfNaN && f.typ != TypeFloat {
		return fieldSpec{}, fmt.Errorf("field %q: allow_inf_nan on %s field", f.name, f.typ)
	}
	if (f.minLen != nil || f.maxLen != nil) && !sized {
		return fieldSpec{}, fmt.Errorf("field %q: length bounds on %s field", f.name, f.typ)
	}
	if (f.format != FormatNone || f.transforms != 0 || f.hasPattern || f.enum != nil ||
		f.prefix != nil || f.suffix != nil || f.substr != nil) && !textual {
		return fieldSpec{}, fmt.Errorf("field %q: string constraints on %s field", f.name, f.typ)
	}

	switch f.typ {
	case TypeRecord:
		if len(f.nested) != 1 {
			return fieldSpec{}, fmt.Errorf("field %q: record field needs exactly one nested schema, got %d", f.name, len(f.nested))
		}
	case TypeList, TypeUnion:
		if len(f.nested) == 0 {
			return fieldSpec{}, fmt.Errorf("field %q: %s field needs at least one nested schema", f.name, f.typ)
		}
	default:
		if len(f.nested) != 0 {
			return fieldSpec{}, fmt.Errorf("field %q: nested schemas on %s field", f.name, f.typ)
		}
	}
	for _, n := range f.nested {
		if n == nil {
			return fieldSpec{}, fmt.Errorf("field %q: nil nested schema", f.name)
		}
	}

	c := &fs.cons
	c.minLen, c.maxLen = -1, -1
	c.tolerance = tol
	c.format = f.format
	c.transforms = f.transforms
	c.prefix, c.suffix, c.substr = f.prefix, f.suffix, f.substr

	intField := f.typ == TypeInt
	var err error
	if c.gt, err = compileBound(f.name, "gt", f.gt, boundFloor); err != nil {
		return fieldSpec{}, err
	}
	if c.ge, err = compileBound(f.name, "ge", f.ge, boundCeil); err != nil {
		return fieldSpec{}, err
	}
	if c.lt, err = compileBound(f.name, "lt", f.lt, boundCeil); err != nil {
		return fieldSpec{}, err
	}
	if c.le, err = compileBound(f.name, "le", f.le, boundFloor); err != nil {
		return fieldSpec{}, err
	}
	if f.multipleOf != nil {
		m := *f.multipleOf
		if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return fieldSpec{}, fmt.Errorf("field %q: multiple_of must be a positive finite number", f.name)
		}
		if intField {
			if m != math.Trunc(m) {
				return fieldSpec{}, fmt.Errorf("field %q: multiple_of must be an integer for int fields", f.name)
			}
			c.multiple = numBound{set: true, i: int64(m), f: m}
		} else {
			c.multiple = numBound{set: true, f: m}
		}
	}

	if f.minLen != nil {
		if *f.minLen < 0 {
			return fieldSpec{}, fmt.Errorf("field %q: negative min_length", f.name)
		}
		c.minLen = *f.minLen
	}
	if f.maxLen != nil {
		if *f.maxLen < 0 {
			return fieldSpec{}, fmt.Errorf("field %q: negative max_length", f.name)
		}
		c.maxLen = *f.maxLen
	}
	if c.minLen >= 0 && c.maxLen >= 0 && c.minLen > c.maxLen {
		return fieldSpec{}, fmt.Errorf("field %q: min_length %d exceeds max_length %d", f.name, c.minLen, c.maxLen)
	}

	c.allowInfNaN = f.allowInfNaN

	if f.hasPattern {
		re, err := regexp.Compile(f.pattern)
		if err != nil {
			return fieldSpec{}, fmt.Errorf("field %q: bad pattern: %w", f.name, err)
		}
		c.pattern = re
	}
	if f.enum != nil {
		if len(f.enum) == 0 {
			return fieldSpec{}, fmt.Errorf("field %q: empty enum", f.name)
		}
		c.enum = make(map[string]struct{}, len(f.enum))
		for _, v := range f.enum {
			c.enum[v] = struct{}{}
		}
		c.enumList = strings.Join(f.enum, ", ")
	}

	if f.typ == TypeAny && !c.empty() {
		return fieldSpec{}, fmt.Errorf("field %q: constraints on any field", f.name)
	}
	return fs, nil
}

type boundRound int

const (
	boundFloor boundRound = iota
	boundCeil
)

// compileBound stores a numeric bound in both floating and integer forms so
// checks never re-parse. For int fields a fractional bound rounds to the
// tightest equivalent integer bound (v > 1.5 becomes v > 1, v >= 1.5 becomes
// v >= 2, and so on).
func compileBound(field, rule string, v *float64, round boundRound) (numBound, error) {
	if v == nil {
		return numBound{}, nil
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return numBound{}, fmt.Errorf("field %q: %s bound must be finite", field, rule)
	}
	b := numBound{set: true, f: f}
	var r float64
	if round == boundFloor {
		r = math.Floor(f)
	} else {
		r = math.Ceil(f)
	}
	switch {
	case r >= math.MaxInt64:
		b.i = math.MaxInt64
	case r <= math.MinInt64:
		b.i = math.MinInt64
	default:
		b.i = int64(r)
	}
	return b, nil
}

// Name returns the schema's declared name.
func (s *Schema) Name() string { return s.name }

// NumFields returns the field count, equal to the slot count of every Record
// built from this schema.
func (s *Schema) NumFields() int { return len(s.fields) }

// Index resolves a field name or alias to its slot index.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.fields))
	for i := range s.fields {
		out[i] = s.fields[i].name
	}
	return out
}

// Unknown returns the schema's unknown-key policy.
func (s *Schema) Unknown() UnknownPolicy { return s.unknown }

// FieldInfo is a read-only view of one compiled field, for introspection
// (JSON Schema export, tooling). Bound pointers are nil when unset.
type FieldInfo struct {
	Name     string
	Alias    string
	Type     TypeCode
	Required bool

	Default    any
	HasDefault bool

	Strict      bool
	AllowInfNaN bool

	GT, GE, LT, LE *float64
	MultipleOf     *float64
	MinLen, MaxLen int // -1 when unset

	Format  FormatCode
	Pattern string
	Enum    []string

	Nested []*Schema
}

// FieldInfo returns the view of the field at slot i.
func (s *Schema) FieldInfo(i int) FieldInfo {
	fs := &s.fields[i]
	info := FieldInfo{
		Name:        fs.name,
		Alias:       fs.alias,
		Type:        fs.typ,
		Required:    fs.required,
		Default:     fs.def,
		HasDefault:  fs.hasDefault,
		Strict:      fs.strict,
		AllowInfNaN: fs.cons.allowInfNaN,
		MinLen:      fs.cons.minLen,
		MaxLen:      fs.cons.maxLen,
		Format:      fs.cons.format,
		Nested:      fs.nested,
	}
	if fs.cons.gt.set {
		v := fs.cons.gt.f
		info.GT = &v
	}
	if fs.cons.ge.set {
		v := fs.cons.ge.f
		info.GE = &v
	}
	if fs.cons.lt.set {
		v := fs.cons.lt.f
		info.LT = &v
	}
	if fs.cons.le.set {
		v := fs.cons.le.f
		info.LE = &v
	}
	if fs.cons.multiple.set {
		v := fs.cons.multiple.f
		info.MultipleOf = &v
	}
	if fs.cons.pattern != nil {
		info.Pattern = fs.cons.pattern.String()
	}
	if fs.cons.enumList != "" {
		info.Enum = strings.Split(fs.cons.enumList, ", ")
	}
	return info
}

func (s *Schema) formatValidator() FormatValidator {
	if s.formats != nil {
		return s.formats
	}
	return getFormatValidator()
}

// FNV-1a, inlined so key hashing during decode allocates nothing.
const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

func hashName(s string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

func hashBytes(b []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

// childPath appends a JSON Pointer segment with ~ and / escaped.
func childPath(base, seg string) string {
	if !strings.ContainsAny(seg, "~/") {
		return base + "/" + seg
	}
	seg = strings.ReplaceAll(seg, "~", "~0")
	seg = strings.ReplaceAll(seg, "/", "~1")
	return base + "/" + seg
}
