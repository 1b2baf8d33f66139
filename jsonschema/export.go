package jsonschema

import gokata "github.com/reoring/gokata"

// Export renders a compiled schema as a JSON Schema object. The mapping is
// lossy where JSON Schema has no counterpart (strict mode, transforms,
// prefix/suffix/contains).
func Export(s *gokata.Schema) *Schema {
	out := &Schema{
		Title:      s.Name(),
		Type:       "object",
		Properties: make(map[string]*Schema, s.NumFields()),
	}
	for i := 0; i < s.NumFields(); i++ {
		info := s.FieldInfo(i)
		out.Properties[info.Name] = exportField(info)
		if info.Required {
			out.Required = append(out.Required, info.Name)
		}
	}
	switch s.Unknown() {
	case gokata.UnknownStrict:
		out.AdditionalProperties = false
	case gokata.UnknownPassthrough:
		out.AdditionalProperties = true
	}
	return out
}

func exportField(info gokata.FieldInfo) *Schema {
	fs := &Schema{}
	switch info.Type {
	case gokata.TypeInt:
		fs.Type = "integer"
	case gokata.TypeFloat:
		fs.Type = "number"
	case gokata.TypeString, gokata.TypeBytes:
		fs.Type = "string"
	case gokata.TypeBool:
		fs.Type = "boolean"
	case gokata.TypeRecord:
		return withDefault(Export(info.Nested[0]), info)
	case gokata.TypeList:
		fs.Type = "array"
		if len(info.Nested) == 1 {
			fs.Items = Export(info.Nested[0])
		} else {
			items := &Schema{}
			for _, n := range info.Nested {
				items.OneOf = append(items.OneOf, Export(n))
			}
			fs.Items = items
		}
		if info.MinLen >= 0 {
			v := info.MinLen
			fs.MinItems = &v
		}
		if info.MaxLen >= 0 {
			v := info.MaxLen
			fs.MaxItems = &v
		}
		return withDefault(fs, info)
	case gokata.TypeUnion:
		for _, n := range info.Nested {
			fs.OneOf = append(fs.OneOf, Export(n))
		}
		return withDefault(fs, info)
	}

	fs.ExclusiveMinimum = info.GT
	fs.Minimum = info.GE
	fs.ExclusiveMaximum = info.LT
	fs.Maximum = info.LE
	fs.MultipleOf = info.MultipleOf
	if info.Type == gokata.TypeString || info.Type == gokata.TypeBytes {
		if info.MinLen >= 0 {
			v := info.MinLen
			fs.MinLength = &v
		}
		if info.MaxLen >= 0 {
			v := info.MaxLen
			fs.MaxLength = &v
		}
		fs.Pattern = info.Pattern
		for _, e := range info.Enum {
			fs.Enum = append(fs.Enum, e)
		}
		fs.Format = formatName(info.Format)
	}
	return withDefault(fs, info)
}

func withDefault(fs *Schema, info gokata.FieldInfo) *Schema {
	if info.HasDefault {
		fs.Default = info.Default
	}
	return fs
}

func formatName(code gokata.FormatCode) string {
	switch code {
	case gokata.FormatEmail:
		return "email"
	case gokata.FormatURL:
		return "uri"
	case gokata.FormatUUID:
		return "uuid"
	case gokata.FormatIPv4:
		return "ipv4"
	case gokata.FormatIPv6:
		return "ipv6"
	case gokata.FormatBase64:
		return "base64"
	case gokata.FormatDate:
		return "date"
	case gokata.FormatDateTime:
		return "date-time"
	}
	return ""
}
