package gokata

import (
	"strconv"

	"github.com/reoring/gokata/internal/jsonwire"
)

// Decode parses one JSON object directly into a Record, matching keys
// against the compiled schema without building an intermediate value tree.
// Field-level issues accumulate across the whole document; malformed JSON is
// a structural failure that aborts immediately.
func Decode(s *Schema, data []byte, opt ...DecodeOpt) (*Record, error) {
	d, iss := newDecoder(data, opt)
	if iss != nil {
		return nil, iss
	}
	rec, fIss, fatal := d.decodeObject(s, "")
	d.finish()
	if fatal != nil {
		return nil, Issues{*fatal}
	}
	// FailFast stops mid-document; the trailing check only applies to a full
	// scan. Malformed trailing data preempts field-level issues.
	if !d.opts.FailFast || len(fIss) == 0 {
		if err := d.expectEnd(); err != nil {
			return nil, Issues{*err}
		}
	}
	if len(fIss) > 0 {
		return nil, fIss
	}
	return rec, nil
}

// DecodeSlice parses a JSON array of objects into a batch of Records.
// A structural failure in any element aborts the whole batch; field-level
// issues accumulate across elements with /N path prefixes.
func DecodeSlice(s *Schema, data []byte, opt ...DecodeOpt) ([]*Record, error) {
	d, iss := newDecoder(data, opt)
	if iss != nil {
		return nil, iss
	}
	recs, fIss, fatal := d.decodeArray(s)
	d.finish()
	if fatal != nil {
		return nil, Issues{*fatal}
	}
	if !d.opts.FailFast || len(fIss) == 0 {
		if err := d.expectEnd(); err != nil {
			return nil, Issues{*err}
		}
	}
	if len(fIss) > 0 {
		return nil, fIss
	}
	return recs, nil
}

type decoder struct {
	sc    *jsonwire.Scanner
	opts  DecodeOpt
	stats DecodeStats
}

func newDecoder(data []byte, opt []DecodeOpt) (*decoder, Issues) {
	var o DecodeOpt
	if len(opt) > 0 {
		o = opt[0]
	}
	if o.MaxBytes > 0 && int64(len(data)) > o.MaxBytes {
		return nil, Issues{structuralIssue("", CodeTruncated, o.MaxBytes, "", nil)}
	}
	return &decoder{sc: jsonwire.NewScanner(data, o.MaxDepth), opts: o}, nil
}

func (d *decoder) finish() {
	if d.opts.Stats != nil {
		*d.opts.Stats = d.stats
	}
}

func (d *decoder) fatal(err *jsonwire.SyntaxError) *Issue {
	is := structuralIssue("", CodeParseError, err.Offset, err.Msg, err)
	return &is
}

func (d *decoder) expectEnd() *Issue {
	if !d.sc.AtEnd() {
		is := structuralIssue("", CodeParseError, d.sc.Pos(), "unexpected trailing data", nil)
		return &is
	}
	return nil
}

// decodeObject consumes one {...} against schema s. base prefixes every
// issue path (nested fields, batch elements).
func (d *decoder) decodeObject(s *Schema, base string) (*Record, Issues, *Issue) {
	if err := d.sc.Expect('{'); err != nil {
		return nil, nil, d.fatal(err)
	}
	if err := d.sc.Push(); err != nil {
		return nil, nil, d.fatal(err)
	}
	rec := newRecord(s)
	var iss Issues
	cursor := 0
	first := true
	for {
		c, ok := d.sc.Peek()
		if !ok {
			return nil, nil, d.fatal(&jsonwire.SyntaxError{Offset: d.sc.Pos(), Msg: "unterminated object"})
		}
		if c == '}' {
			d.sc.Advance()
			break
		}
		if !first {
			if err := d.sc.Expect(','); err != nil {
				return nil, nil, d.fatal(err)
			}
		}
		first = false
		key, serr := d.sc.ReadString()
		if serr != nil {
			return nil, nil, d.fatal(serr)
		}
		if err := d.sc.Expect(':'); err != nil {
			return nil, nil, d.fatal(err)
		}

		idx, hit := d.matchKey(s, key, cursor)
		if hit {
			cursor = idx + 1
		}
		if idx < 0 {
			if fIss, fatal := d.unknownKey(s, rec, key, base); fatal != nil {
				return nil, nil, fatal
			} else if fIss != nil {
				iss = append(iss, *fIss)
				if d.opts.FailFast {
					d.sc.Pop()
					return rec, iss, nil
				}
			}
			continue
		}

		fs := &s.fields[idx]
		path := childPath(base, fs.name)
		if rec.Has(idx) {
			skip := false
			switch d.opts.OnDuplicateKey {
			case Warn:
				iss = append(iss, issueAt(path, CodeDuplicateKey, map[string]string{"key": key}))
			case Error:
				iss = append(iss, issueAt(path, CodeDuplicateKey, map[string]string{"key": key}))
				skip = true
			}
			if skip {
				if _, serr := d.sc.SkipValue(); serr != nil {
					return nil, nil, d.fatal(serr)
				}
				if d.opts.FailFast {
					d.sc.Pop()
					return rec, iss, nil
				}
				continue
			}
		}

		val, fIss, fatal := d.decodeField(s, fs, path)
		if fatal != nil {
			return nil, nil, fatal
		}
		if len(fIss) > 0 {
			iss = append(iss, fIss...)
			if d.opts.FailFast {
				d.sc.Pop()
				return rec, iss, nil
			}
			continue
		}
		rec.Set(idx, val)
	}
	d.sc.Pop()

	// Slots left empty resolve like keyword builds: required fields report,
	// optional ones take their default.
	for i := range s.fields {
		if rec.Has(i) {
			continue
		}
		fs := &s.fields[i]
		if fs.required {
			iss = append(iss, issueAt(childPath(base, fs.name), CodeRequired, nil))
			if d.opts.FailFast {
				return rec, iss, nil
			}
		} else if fs.hasDefault {
			rec.Set(i, fs.def)
		}
	}
	return rec, iss, nil
}

// matchKey resolves a JSON key to a field slot. Tier one probes the field at
// the expected cursor position, exploiting documents whose key order matches
// declaration order; tier two is a full scan over precomputed hashes with a
// byte comparison only on hash+length agreement. hit reports a tier-one
// match so the caller can advance the cursor.
func (d *decoder) matchKey(s *Schema, key string, cursor int) (idx int, hit bool) {
	h := hashName(key)
	if !d.opts.DisableOrderedFastPath && cursor < len(s.fields) {
		if fieldMatches(&s.fields[cursor], key, h) {
			d.stats.FastPathHits++
			return cursor, true
		}
	}
	d.stats.ScanFallbacks++
	for i := range s.fields {
		if fieldMatches(&s.fields[i], key, h) {
			return i, false
		}
	}
	return -1, false
}

// fieldMatches checks the alias before the name: aliases take lookup
// priority, and both resolve to the same slot.
func fieldMatches(fs *fieldSpec, key string, h uint64) bool {
	if fs.alias != "" && fs.aliasHash == h && len(fs.alias) == len(key) && fs.alias == key {
		return true
	}
	return fs.nameHash == h && len(fs.name) == len(key) && fs.name == key
}

// unknownKey applies the schema's policy to a key matching no field. Strip
// and strict skip the value structurally without decoding it; passthrough
// decodes it into the record's extra container.
func (d *decoder) unknownKey(s *Schema, rec *Record, key, base string) (*Issue, *Issue) {
	switch s.unknown {
	case UnknownStrict:
		if _, serr := d.sc.SkipValue(); serr != nil {
			return nil, d.fatal(serr)
		}
		is := issueAt(childPath(base, key), CodeUnknownKey, map[string]string{"key": key})
		return &is, nil
	case UnknownPassthrough:
		v, fatal := d.decodeAny()
		if fatal != nil {
			return nil, fatal
		}
		rec.putExtra(key, v)
		return nil, nil
	default: // UnknownStrip
		if _, serr := d.sc.SkipValue(); serr != nil {
			return nil, d.fatal(serr)
		}
		return nil, nil
	}
}

// decodeField consumes the next JSON value for one field. Scalar values
// carry the scanner's type tag; when it already agrees with the declared
// type the constraint checks run directly, skipping the general coercion
// branch.
func (d *decoder) decodeField(s *Schema, fs *fieldSpec, path string) (any, Issues, *Issue) {
	switch fs.typ {
	case TypeRecord:
		return d.decodeNestedRecord(fs, path)
	case TypeList:
		return d.decodeList(s, fs, path)
	case TypeUnion:
		return d.decodeUnion(fs, path)
	case TypeAny:
		v, fatal := d.decodeAny()
		return v, nil, fatal
	}

	v, serr := d.sc.ReadValue()
	if serr != nil {
		return nil, nil, d.fatal(serr)
	}
	switch fs.typ {
	case TypeInt:
		switch v.Kind {
		case jsonwire.KindInt:
			if iss := fs.cons.checkInt(path, v.Int); iss != nil {
				return nil, Issues{*iss}, nil
			}
			return v.Int, nil, nil
		case jsonwire.KindFloat:
			if v.IntOverflow {
				return nil, Issues{ruleIssue(path, CodeOverflow, "int64", nil)}, nil
			}
			if fs.strict {
				return nil, Issues{exactTypeIssue(path, "int", "float")}, nil
			}
			iv, ok := floatToInt64(v.Float)
			if !ok {
				return nil, Issues{convIssue(path, "float " + formatFloat(v.Float) + " to int")}, nil
			}
			if iss := fs.cons.checkInt(path, iv); iss != nil {
				return nil, Issues{*iss}, nil
			}
			return iv, nil, nil
		default:
			return nil, Issues{typeIssue(path, "int", tagValue(v))}, nil
		}
	case TypeFloat:
		switch v.Kind {
		case jsonwire.KindFloat:
			if iss := fs.cons.checkFloat(path, v.Float); iss != nil {
				return nil, Issues{*iss}, nil
			}
			return v.Float, nil, nil
		case jsonwire.KindInt:
			if fs.strict {
				return nil, Issues{exactTypeIssue(path, "float", "int")}, nil
			}
			f := float64(v.Int)
			if iss := fs.cons.checkFloat(path, f); iss != nil {
				return nil, Issues{*iss}, nil
			}
			return f, nil, nil
		default:
			return nil, Issues{typeIssue(path, "float", tagValue(v))}, nil
		}
	case TypeString:
		if v.Kind != jsonwire.KindString {
			return nil, Issues{typeIssue(path, "string", tagValue(v))}, nil
		}
		sv := fs.cons.applyTransforms(v.Str)
		if iss := fs.cons.checkString(path, sv, s.formatValidator()); iss != nil {
			return nil, Issues{*iss}, nil
		}
		return sv, nil, nil
	case TypeBool:
		if v.Kind != jsonwire.KindBool {
			return nil, Issues{typeIssue(path, "bool", tagValue(v))}, nil
		}
		return v.Bool, nil, nil
	case TypeBytes:
		if v.Kind != jsonwire.KindString {
			return nil, Issues{typeIssue(path, "bytes", tagValue(v))}, nil
		}
		b := []byte(v.Str)
		if iss := fs.cons.checkLength(path, len(b)); iss != nil {
			return nil, Issues{*iss}, nil
		}
		return b, nil, nil
	}
	return nil, Issues{typeIssue(path, fs.typ.String(), tagValue(v))}, nil
}

func (d *decoder) decodeNestedRecord(fs *fieldSpec, path string) (any, Issues, *Issue) {
	c, ok := d.sc.Peek()
	if !ok {
		return nil, nil, d.fatal(&jsonwire.SyntaxError{Offset: d.sc.Pos(), Msg: "unexpected end of input"})
	}
	if c != '{' {
		return d.mismatchedValue(path, fs.nested[0].name)
	}
	rec, iss, fatal := d.decodeObject(fs.nested[0], path)
	if fatal != nil {
		return nil, nil, fatal
	}
	if len(iss) > 0 {
		return nil, iss, nil
	}
	return rec, nil, nil
}

func (d *decoder) decodeList(s *Schema, fs *fieldSpec, path string) (any, Issues, *Issue) {
	c, ok := d.sc.Peek()
	if !ok {
		return nil, nil, d.fatal(&jsonwire.SyntaxError{Offset: d.sc.Pos(), Msg: "unexpected end of input"})
	}
	if c != '[' {
		return d.mismatchedValue(path, "list")
	}
	d.sc.Advance()
	if err := d.sc.Push(); err != nil {
		return nil, nil, d.fatal(err)
	}
	var out []any
	var iss Issues
	first := true
	n := 0
	for {
		c, ok := d.sc.Peek()
		if !ok {
			return nil, nil, d.fatal(&jsonwire.SyntaxError{Offset: d.sc.Pos(), Msg: "unterminated array"})
		}
		if c == ']' {
			d.sc.Advance()
			break
		}
		if !first {
			if err := d.sc.Expect(','); err != nil {
				return nil, nil, d.fatal(err)
			}
		}
		first = false
		elPath := path + "/" + strconv.Itoa(n)
		n++
		var rec *Record
		var elIss Issues
		var fatal *Issue
		if len(fs.nested) == 1 {
			// Single accepted schema: stream the element straight in.
			c, ok = d.sc.Peek()
			if ok && c != '{' {
				_, mIss, mFatal := d.mismatchedValue(elPath, fs.nested[0].name)
				if mFatal != nil {
					return nil, nil, mFatal
				}
				iss = append(iss, mIss...)
				continue
			}
			rec, elIss, fatal = d.decodeObject(fs.nested[0], elPath)
		} else {
			rec, elIss, fatal = d.decodeOneOf(fs.nested, elPath)
		}
		if fatal != nil {
			return nil, nil, fatal
		}
		if len(elIss) > 0 {
			// Element failures accumulate; later elements still decode.
			iss = append(iss, elIss...)
			continue
		}
		out = append(out, rec)
	}
	d.sc.Pop()
	// Length bounds report regardless of element failures, ahead of them,
	// matching the keyword-build path where length is checked first.
	if lenIss := fs.cons.checkLength(path, n); lenIss != nil {
		iss = append(Issues{*lenIss}, iss...)
	}
	if len(iss) > 0 {
		return nil, iss, nil
	}
	return out, nil, nil
}

func (d *decoder) decodeUnion(fs *fieldSpec, path string) (any, Issues, *Issue) {
	rec, iss, fatal := d.decodeOneOf(fs.nested, path)
	if fatal != nil {
		return nil, nil, fatal
	}
	if len(iss) > 0 {
		return nil, iss, nil
	}
	return rec, nil, nil
}

// decodeOneOf captures the raw subtree once and re-decodes it against each
// accepted schema in declared order, keeping the first success. The capture
// is structural, so a malformed subtree is still fatal.
func (d *decoder) decodeOneOf(accepted []*Schema, path string) (*Record, Issues, *Issue) {
	c, ok := d.sc.Peek()
	if !ok {
		return nil, nil, d.fatal(&jsonwire.SyntaxError{Offset: d.sc.Pos(), Msg: "unexpected end of input"})
	}
	if c != '{' {
		_, iss, fatal := d.mismatchedValue(path, schemaNames(accepted))
		return nil, iss, fatal
	}
	raw, serr := d.sc.SkipValue()
	if serr != nil {
		return nil, nil, d.fatal(serr)
	}
	var first Issues
	for _, s := range accepted {
		sub := &decoder{sc: jsonwire.NewScanner(raw, d.opts.MaxDepth), opts: d.opts}
		rec, iss, fatal := sub.decodeObject(s, path)
		if fatal != nil {
			return nil, nil, fatal
		}
		if len(iss) == 0 {
			return rec, nil, nil
		}
		if first == nil {
			first = iss
		}
	}
	is := typeIssue(path, schemaNames(accepted), nil)
	is.Params["got"] = "map"
	is.Cause = first
	return nil, Issues{is}, nil
}

// mismatchedValue consumes a value of the wrong shape and reports the type
// issue carrying its JSON tag.
func (d *decoder) mismatchedValue(path, expected string) (any, Issues, *Issue) {
	v, serr := d.sc.ReadValue()
	if serr != nil {
		return nil, nil, d.fatal(serr)
	}
	return nil, Issues{typeIssue(path, expected, tagValue(v))}, nil
}

// decodeAny decodes a value with no declared shape: scalars natively,
// composites through the configured JSON driver so driver numerics apply to
// subtrees.
func (d *decoder) decodeAny() (any, *Issue) {
	v, serr := d.sc.ReadValue()
	if serr != nil {
		return nil, d.fatal(serr)
	}
	switch v.Kind {
	case jsonwire.KindInt:
		return v.Int, nil
	case jsonwire.KindFloat:
		return v.Float, nil
	case jsonwire.KindString:
		return v.Str, nil
	case jsonwire.KindBool:
		return v.Bool, nil
	case jsonwire.KindNull:
		return nil, nil
	}
	var out any
	if err := getJSONDriver().Unmarshal(v.Raw, &out); err != nil {
		is := structuralIssue("", CodeParseError, d.sc.Pos(), err.Error(), err)
		return nil, &is
	}
	return out, nil
}

func (d *decoder) decodeArray(s *Schema) ([]*Record, Issues, *Issue) {
	if err := d.sc.Expect('['); err != nil {
		return nil, nil, d.fatal(err)
	}
	if err := d.sc.Push(); err != nil {
		return nil, nil, d.fatal(err)
	}
	var recs []*Record
	var iss Issues
	first := true
	n := 0
	for {
		c, ok := d.sc.Peek()
		if !ok {
			return nil, nil, d.fatal(&jsonwire.SyntaxError{Offset: d.sc.Pos(), Msg: "unterminated array"})
		}
		if c == ']' {
			d.sc.Advance()
			break
		}
		if !first {
			if err := d.sc.Expect(','); err != nil {
				return nil, nil, d.fatal(err)
			}
		}
		first = false
		rec, elIss, fatal := d.decodeObject(s, "/"+strconv.Itoa(n))
		n++
		if fatal != nil {
			return nil, nil, fatal
		}
		if len(elIss) > 0 {
			iss = append(iss, elIss...)
			if d.opts.FailFast {
				d.sc.Pop()
				return nil, iss, nil
			}
			continue
		}
		recs = append(recs, rec)
	}
	d.sc.Pop()
	if len(iss) > 0 {
		return nil, iss, nil
	}
	if recs == nil {
		recs = []*Record{}
	}
	return recs, iss, nil
}

// tagValue maps a scanner value back to a representative Go value so
// typeIssue can name what arrived.
func tagValue(v jsonwire.Value) any {
	switch v.Kind {
	case jsonwire.KindInt:
		return v.Int
	case jsonwire.KindFloat:
		return v.Float
	case jsonwire.KindString:
		return v.Str
	case jsonwire.KindBool:
		return v.Bool
	case jsonwire.KindObject:
		return map[string]any(nil)
	case jsonwire.KindArray:
		return []any(nil)
	}
	return nil
}
