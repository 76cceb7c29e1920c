package format

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInsufficientData is returned when a record runs out of segments
	// before all of its fields are decoded.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidBool is returned for boolean text other than "0" or "1".
	ErrInvalidBool = errors.New("cannot parse bool")

	// ErrTimestampOutOfRange is returned for millisecond counts outside the
	// years 0000 to 9999.
	ErrTimestampOutOfRange = errors.New("timestamp out of range")
)

// ParseError wraps a numeric parse failure together with the offending text.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse number %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldError records which field of which record failed to decode.
// Nested failures are reported as a dotted path starting at the outermost
// record, e.g. "save.building_data.farms.amount_owned: insufficient data".
type FieldError struct {
	Record string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	var b strings.Builder
	b.WriteString(e.Record)
	var err error = e
	for {
		fe, ok := err.(*FieldError)
		if !ok {
			break
		}
		b.WriteByte('.')
		b.WriteString(fe.Field)
		err = fe.Err
	}
	b.WriteString(": ")
	if err != nil {
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Path returns the field names from the outermost record down to the field
// that failed.
func (e *FieldError) Path() []string {
	path := []string{e.Record}
	var err error = e
	for {
		fe, ok := err.(*FieldError)
		if !ok {
			return path
		}
		path = append(path, fe.Field)
		err = fe.Err
	}
}

// MismatchError is returned by CheckInverse when re-encoding a decoded value
// does not reproduce the original text.
type MismatchError struct {
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	offset := 0
	for offset < len(e.Expected) && offset < len(e.Actual) && e.Expected[offset] == e.Actual[offset] {
		offset++
	}
	return fmt.Sprintf("round trip mismatch at offset %d: actual = %q, expected = %q",
		offset, excerpt(e.Actual, offset), excerpt(e.Expected, offset))
}

// excerpt trims s to a window around offset so long save texts stay readable.
func excerpt(s string, offset int) string {
	const window = 32
	start := max(0, offset-window)
	end := min(len(s), offset+window)
	out := s[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(s) {
		out += "..."
	}
	return out
}
