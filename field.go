package gokata

// Field is a declarative field description consumed by Compile. Setters
// chain and record raw declarations; all checking and normalization happens
// in Compile, so a half-built Field is never observable by the engine.
type Field struct {
	name     string
	typ      TypeCode
	alias    string
	required bool

	def        any
	hasDefault bool

	strict      bool
	allowInfNaN bool

	gt, ge, lt, le *float64
	multipleOf     *float64
	minLen, maxLen *int

	format     FormatCode
	transforms uint8

	pattern    string
	hasPattern bool
	enum       []string
	prefix     *string
	suffix     *string
	substr     *string

	nested []*Schema
}

// F declares a field with the given name and type code.
func F(name string, typ TypeCode) *Field {
	return &Field{name: name, typ: typ, minLen: nil, maxLen: nil}
}

// Alias declares an alternate input key, looked up with priority over the
// primary name.
func (f *Field) Alias(a string) *Field { f.alias = a; return f }

// Required marks the field as required.
func (f *Field) Required() *Field { f.required = true; return f }

// Default stores the value used when the field is absent. Defaults are
// assumed well-formed and are never validated.
func (f *Field) Default(v any) *Field { f.def = v; f.hasDefault = true; return f }

// Strict forbids numeric coercion: int fields reject floats, float fields
// reject ints. Valid for TypeInt and TypeFloat only.
func (f *Field) Strict() *Field { f.strict = true; return f }

// GT requires values strictly greater than v.
func (f *Field) GT(v float64) *Field { f.gt = &v; return f }

// GE requires values greater than or equal to v.
func (f *Field) GE(v float64) *Field { f.ge = &v; return f }

// LT requires values strictly less than v.
func (f *Field) LT(v float64) *Field { f.lt = &v; return f }

// LE requires values less than or equal to v.
func (f *Field) LE(v float64) *Field { f.le = &v; return f }

// MultipleOf requires values to be an integer multiple of v. Float checks
// use the schema's remainder tolerance.
func (f *Field) MultipleOf(v float64) *Field { f.multipleOf = &v; return f }

// MinLen sets the minimum length (runes for strings, bytes for byte fields,
// elements for lists).
func (f *Field) MinLen(n int) *Field { f.minLen = &n; return f }

// MaxLen sets the maximum length.
func (f *Field) MaxLen(n int) *Field { f.maxLen = &n; return f }

// AllowInfNaN permits non-finite float values. Valid for TypeFloat only.
func (f *Field) AllowInfNaN() *Field { f.allowInfNaN = true; return f }

// Format attaches a string format checked through the FormatValidator.
func (f *Field) Format(code FormatCode) *Field { f.format = code; return f }

// Strip trims surrounding whitespace before constraint checks.
func (f *Field) Strip() *Field { f.transforms |= transformStrip; return f }

// Lower lowercases the value before constraint checks. Transforms always
// apply in strip, lower, upper order regardless of declaration order.
func (f *Field) Lower() *Field { f.transforms |= transformLower; return f }

// Upper uppercases the value before constraint checks.
func (f *Field) Upper() *Field { f.transforms |= transformUpper; return f }

// Pattern requires the value to match the regular expression. The pattern
// compiles at Compile time; a bad pattern is a compile error.
func (f *Field) Pattern(re string) *Field { f.pattern = re; f.hasPattern = true; return f }

// Enum restricts the value to the given set.
func (f *Field) Enum(vals ...string) *Field { f.enum = append([]string{}, vals...); return f }

// Prefix requires the value to start with p.
func (f *Field) Prefix(p string) *Field { f.prefix = &p; return f }

// Suffix requires the value to end with s.
func (f *Field) Suffix(s string) *Field { f.suffix = &s; return f }

// Contains requires the value to contain sub.
func (f *Field) Contains(sub string) *Field { f.substr = &sub; return f }

// Schemas attaches nested compiled schemas. TypeRecord takes exactly one;
// TypeList and TypeUnion take one or more, tried in declared order.
func (f *Field) Schemas(s ...*Schema) *Field { f.nested = append(f.nested, s...); return f }
