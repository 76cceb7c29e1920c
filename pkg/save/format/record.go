package format

import "strings"

// FieldSpec describes one positional field of a record of type R.
type FieldSpec[R any] struct {
	name   string
	skip   int
	decode func(segment string, r *R) error
	encode func(r *R) string
	check  func(segment string) error
}

// Field declares a field decoded with f and stored at the location returned
// by field.
func Field[R, T any](name string, f Format[T], field func(*R) *T) FieldSpec[R] {
	return FieldSpec[R]{
		name: name,
		decode: func(segment string, r *R) error {
			v, err := f.Decode(segment)
			if err != nil {
				return err
			}
			*field(r) = v
			return nil
		},
		encode: func(r *R) string {
			return f.Encode(*field(r))
		},
		check: func(segment string) error {
			return CheckInverse(f, segment)
		},
	}
}

// Reserved declares n positions the producer keeps for data this codec
// does not model. They are not inspected on decode and are written back
// empty on encode.
func Reserved[R any](name string, n int) FieldSpec[R] {
	return FieldSpec[R]{name: name, skip: max(n, 1) - 1}
}

// Skip returns a copy of the field spec that ignores n segments before its own.
// The skipped segments are written back empty on encode.
func (s FieldSpec[R]) Skip(n int) FieldSpec[R] {
	s.skip = n
	return s
}

// Name returns the field name used in error paths.
func (s FieldSpec[R]) Name() string {
	return s.name
}

// RecordOption configures a Record.
type RecordOption func(*recordOptions)

type recordOptions struct {
	trailing bool
}

// WithTrailingSeparator makes the record end with its separator, for
// producers that terminate every field instead of joining them.
func WithTrailingSeparator() RecordOption {
	return func(o *recordOptions) {
		o.trailing = true
	}
}

// Record is a Format for a fixed-shape, separator-delimited structure.
// Fields are decoded and encoded strictly in declaration order. An empty
// separator splits the text into single characters.
//
// Segments past the last field are ignored on decode and not re-emitted.
type Record[R any] struct {
	name     string
	sep      string
	trailing bool
	fields   []FieldSpec[R]
}

// NewRecord builds a record format named name (used in error paths) from an
// ordered field list.
func NewRecord[R any](name, sep string, fields []FieldSpec[R], opts ...RecordOption) *Record[R] {
	var o recordOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Record[R]{
		name:     name,
		sep:      sep,
		trailing: o.trailing,
		fields:   fields,
	}
}

// Name returns the record name.
func (r *Record[R]) Name() string {
	return r.name
}

func (r *Record[R]) split(value string) []string {
	return strings.Split(value, r.sep)
}

// Decode splits value and decodes each field in order. The first failing
// field aborts the decode and is reported as a *FieldError.
func (r *Record[R]) Decode(value string) (R, error) {
	var out, zero R
	err := r.walk(value, func(f FieldSpec[R], segment string) error {
		if f.decode == nil {
			return nil
		}
		return f.decode(segment, &out)
	})
	if err != nil {
		return zero, err
	}
	return out, nil
}

// Encode writes every field in order, joined by the separator.
func (r *Record[R]) Encode(value R) string {
	var b strings.Builder
	for i, f := range r.fields {
		n := f.skip
		if i > 0 {
			n++
		}
		for range n {
			b.WriteString(r.sep)
		}
		if f.encode != nil {
			b.WriteString(f.encode(&value))
		}
	}
	if r.trailing && len(r.fields) > 0 {
		b.WriteString(r.sep)
	}
	return b.String()
}

// CheckFields runs CheckInverse on every field's segment.
func (r *Record[R]) CheckFields(value string) error {
	return r.walk(value, func(f FieldSpec[R], segment string) error {
		if f.check == nil {
			return nil
		}
		return f.check(segment)
	})
}

// walk pairs each field with its segment, honoring skip counts.
func (r *Record[R]) walk(value string, visit func(FieldSpec[R], string) error) error {
	segments := r.split(value)
	next := 0
	for _, f := range r.fields {
		next += f.skip
		if next >= len(segments) {
			return &FieldError{Record: r.name, Field: f.name, Err: ErrInsufficientData}
		}
		if err := visit(f, segments[next]); err != nil {
			return &FieldError{Record: r.name, Field: f.name, Err: err}
		}
		next++
	}
	return nil
}
