package gokata

// Record is a fixed-slot value container: one slot per schema field,
// addressed by compiled position. Slot occupancy is tracked explicitly so an
// empty optional slot is distinguishable from a stored nil. A Record is
// exclusively owned by its creator; concurrent mutation must be serialized
// by the caller.
type Record struct {
	schema *Schema
	slots  []any
	filled []uint64
	// extra holds unknown input keys under UnknownPassthrough. Nil otherwise.
	extra map[string]any
}

func newRecord(s *Schema) *Record {
	n := len(s.fields)
	return &Record{
		schema: s,
		slots:  make([]any, n),
		filled: make([]uint64, (n+63)/64),
	}
}

// Schema returns the compiled schema this record was built from.
func (r *Record) Schema() *Schema { return r.schema }

// Len returns the slot count.
func (r *Record) Len() int { return len(r.slots) }

// Get returns the value at slot i, nil when the slot is empty.
func (r *Record) Get(i int) any { return r.slots[i] }

// Has reports whether slot i holds a value.
func (r *Record) Has(i int) bool {
	return r.filled[i>>6]&(1<<(uint(i)&63)) != 0
}

// Set stores v into slot i and marks it filled. The value is stored as
// given; validation happens in Build/Decode, not here.
func (r *Record) Set(i int, v any) {
	r.slots[i] = v
	r.filled[i>>6] |= 1 << (uint(i) & 63)
}

// GetByName resolves name (or alias) through the schema index and returns
// the slot value. ok is false for unknown names and empty slots.
func (r *Record) GetByName(name string) (any, bool) {
	i, ok := r.schema.index[name]
	if !ok || !r.Has(i) {
		return nil, false
	}
	return r.slots[i], true
}

// SetByName resolves name (or alias) and stores v. Returns false for
// unknown names.
func (r *Record) SetByName(name string, v any) bool {
	i, ok := r.schema.index[name]
	if !ok {
		return false
	}
	r.Set(i, v)
	return true
}

// Extra returns the passthrough container for unknown keys, nil unless the
// schema uses UnknownPassthrough and the input carried unknown keys.
func (r *Record) Extra() map[string]any { return r.extra }

func (r *Record) putExtra(key string, v any) {
	if r.extra == nil {
		r.extra = make(map[string]any)
	}
	r.extra[key] = v
}
