package record

// Record is one dataset example: an ordered mapping from field name to
// Value. Field order is insertion order and is expected to be stable
// across records of one stream.
type Record struct {
	names  []string
	values map[string]Value
}

// New creates an empty record.
func New() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set stores a field, preserving the position of an existing field and
// appending new fields at the end. Returns the receiver for chaining.
func (r *Record) Set(name string, v Value) *Record {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
	return r
}

// Get returns the value of a field.
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Delete removes a field, keeping the order of the remaining fields.
func (r *Record) Delete(name string) bool {
	if _, ok := r.values[name]; !ok {
		return false
	}
	delete(r.values, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	return true
}

// Fields returns the field names in order. The slice is a copy.
func (r *Record) Fields() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.names) }

// Range calls fn for each field in order until fn returns false.
func (r *Record) Range(fn func(name string, v Value) bool) {
	for _, name := range r.names {
		if !fn(name, r.values[name]) {
			return
		}
	}
}

// Clone returns a shallow copy: field order and value slots are copied,
// underlying byte slices and nested records are shared.
func (r *Record) Clone() *Record {
	out := &Record{
		names:  make([]string, len(r.names)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(out.names, r.names)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// Native converts the record to a plain map[string]any. Field order is
// lost; use Range when order matters.
func (r *Record) Native() map[string]any {
	out := make(map[string]any, len(r.names))
	for _, name := range r.names {
		out[name] = r.values[name].Native()
	}
	return out
}

// Equal reports whether two records have the same fields in the same
// order with equal values.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if len(r.names) != len(o.names) {
		return false
	}
	for i, name := range r.names {
		if o.names[i] != name {
			return false
		}
		if !r.values[name].Equal(o.values[name]) {
			return false
		}
	}
	return true
}
