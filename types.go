package gokata

// TypeCode identifies the declared type of a field.
type TypeCode int

const (
	TypeAny    TypeCode = iota // accept anything, no checks
	TypeInt                    // 64-bit integer
	TypeFloat                  // 64-bit float
	TypeString                 // UTF-8 text
	TypeBool                   // boolean
	TypeBytes                  // raw byte string
	TypeRecord                 // nested record with its own schema
	TypeList                   // sequence of records
	TypeUnion                  // one record out of an ordered set of schemas
)

func (t TypeCode) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeBytes:
		return "bytes"
	case TypeRecord:
		return "record"
	case TypeList:
		return "list"
	case TypeUnion:
		return "union"
	default:
		return "unknown"
	}
}

// FormatCode identifies a string format understood by a FormatValidator.
type FormatCode int

const (
	FormatNone FormatCode = iota
	FormatEmail
	FormatURL
	FormatUUID
	FormatIPv4
	FormatIPv6
	FormatBase64
	FormatDate     // calendar date, 2006-01-02
	FormatDateTime // RFC 3339 timestamp
)

func (f FormatCode) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatEmail:
		return "email"
	case FormatURL:
		return "url"
	case FormatUUID:
		return "uuid"
	case FormatIPv4:
		return "ipv4"
	case FormatIPv6:
		return "ipv6"
	case FormatBase64:
		return "base64"
	case FormatDate:
		return "date"
	case FormatDateTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// displayName is the spelling used inside issue messages.
func (f FormatCode) displayName() string {
	switch f {
	case FormatEmail:
		return "email"
	case FormatURL:
		return "URL"
	case FormatUUID:
		return "UUID"
	case FormatIPv4:
		return "IPv4"
	case FormatIPv6:
		return "IPv6"
	case FormatBase64:
		return "base64"
	case FormatDate:
		return "ISO date"
	case FormatDateTime:
		return "ISO datetime"
	default:
		return "unknown"
	}
}

// UnknownPolicy controls how unknown input keys are handled. The policy is
// fixed per schema at compile time, not per call.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys (default).
	UnknownStrict                           // Reject unknown keys, one issue per key.
	UnknownPassthrough                      // Capture unknown keys into the record's extra map.
)

// Severity expresses how a recoverable decode condition is treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeStats collects counters from one decode pass when attached via
// DecodeOpt.Stats. Useful to observe the key-matching strategy.
type DecodeStats struct {
	FastPathHits  int // keys matched at the expected schema position
	ScanFallbacks int // keys that went through the full hash scan
}

// DecodeOpt bundles decoding options.
type DecodeOpt struct {
	// OnDuplicateKey handles repeated JSON keys for the same field:
	// Ignore lets the last value win, Warn records an issue and keeps the last
	// value, Error records an issue and drops the repeated value.
	OnDuplicateKey Severity
	MaxDepth       int   // nesting limit; 0 means unlimited
	MaxBytes       int64 // input size limit; 0 means unlimited
	FailFast       bool  // stop at the first field-level issue
	// DisableOrderedFastPath routes every key through the hash scan. The
	// declaration-order fast path is a heuristic; the scan is authoritative
	// for any key order.
	DisableOrderedFastPath bool
	Stats                  *DecodeStats // optional; written on return when non-nil
}

// SchemaOpt configures schema-wide behavior at compile time.
type SchemaOpt struct {
	Unknown UnknownPolicy
	// MultipleOfTolerance is the absolute remainder tolerance for float
	// multiple-of checks. Values <= 0 select the default of 1e-9.
	MultipleOfTolerance float64
	// Formats overrides the process-wide FormatValidator for this schema.
	Formats FormatValidator
}
