package gokata

import "sort"

// Build validates a name->value mapping against a compiled schema and fills
// a Record. Field lookup tries the alias first, then the primary name.
// Missing/invalid fields never stop the pass: every issue across the whole
// record is collected and reported as one batch. On any issue the Record is
// withheld; the error is an Issues value.
func Build(s *Schema, in map[string]any) (*Record, error) {
	rec, iss := buildRecord(s, in, "")
	if len(iss) > 0 {
		return nil, iss
	}
	return rec, nil
}

func buildRecord(s *Schema, in map[string]any, base string) (*Record, Issues) {
	rec := newRecord(s)
	var iss Issues
	for i := range s.fields {
		fs := &s.fields[i]
		path := childPath(base, fs.name)
		raw, ok := lookupField(in, fs)
		if !ok {
			if fs.required {
				iss = append(iss, issueAt(path, CodeRequired, nil))
			} else if fs.hasDefault {
				// Defaults are assumed well-formed; stored without validation.
				rec.Set(i, fs.def)
			}
			continue
		}
		val, vIss := validateValue(s, fs, raw, path)
		if len(vIss) > 0 {
			iss = append(iss, vIss...)
			continue
		}
		rec.Set(i, val)
	}
	if s.unknown != UnknownStrip {
		iss = append(iss, collectUnknown(s, rec, in, base)...)
	}
	return rec, iss
}

func lookupField(in map[string]any, fs *fieldSpec) (any, bool) {
	if fs.alias != "" {
		if v, ok := in[fs.alias]; ok {
			return v, true
		}
	}
	v, ok := in[fs.name]
	return v, ok
}

// collectUnknown applies the strict/passthrough policies to input keys that
// match no field name or alias. Keys are visited in sorted order so strict
// issue batches are deterministic.
func collectUnknown(s *Schema, rec *Record, in map[string]any, base string) Issues {
	var unknown []string
	for k := range in {
		if _, ok := s.index[k]; ok {
			continue
		}
		unknown = append(unknown, k)
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	var iss Issues
	for _, k := range unknown {
		switch s.unknown {
		case UnknownStrict:
			iss = append(iss, issueAt(childPath(base, k), CodeUnknownKey, map[string]string{"key": k}))
		case UnknownPassthrough:
			rec.putExtra(k, in[k])
		}
	}
	return iss
}
