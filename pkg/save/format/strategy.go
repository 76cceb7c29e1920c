package format

import (
	"strconv"
	"strings"
	"time"
)

type noneAsEmpty[T any] struct {
	inner Format[T]
}

// NoneAsEmpty wraps inner so that the empty string stands for an absent
// value. Encoding nil yields "".
func NoneAsEmpty[T any](inner Format[T]) Format[*T] {
	return noneAsEmpty[T]{inner: inner}
}

func (f noneAsEmpty[T]) Decode(value string) (*T, error) {
	if value == "" {
		return nil, nil
	}
	v, err := f.inner.Decode(value)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (f noneAsEmpty[T]) Encode(value *T) string {
	if value == nil {
		return ""
	}
	return f.inner.Encode(*value)
}

func (f noneAsEmpty[T]) CheckFields(value string) error {
	if value == "" {
		return nil
	}
	if c, ok := f.inner.(FieldChecker); ok {
		return c.CheckFields(value)
	}
	return nil
}

type noneAsNegative struct{}

// NoneAsNegative returns the format for counters the game sets to -1 while
// they are unavailable. Any negative number decodes to nil; nil encodes as
// "-1".
func NoneAsNegative() Format[*uint64] { return noneAsNegative{} }

func (noneAsNegative) Decode(value string) (*uint64, error) {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, &ParseError{Value: value, Err: err}
	}
	if v < 0 {
		return nil, nil
	}
	u := uint64(v)
	return &u, nil
}

func (noneAsNegative) Encode(value *uint64) string {
	if value == nil {
		return "-1"
	}
	return strconv.FormatUint(*value, 10)
}

var (
	minTimestamp = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	maxTimestamp = time.Date(10000, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli() - 1
)

type timestampFormat struct{}

// Timestamp returns the format for instants written as milliseconds since
// the Unix epoch. Decoded values are in UTC and keep millisecond precision.
func Timestamp() Format[time.Time] { return timestampFormat{} }

func (timestampFormat) Decode(value string) (time.Time, error) {
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, &ParseError{Value: value, Err: err}
	}
	if ms < minTimestamp || ms > maxTimestamp {
		return time.Time{}, ErrTimestampOutOfRange
	}
	return time.UnixMilli(ms).UTC(), nil
}

func (timestampFormat) Encode(value time.Time) string {
	return strconv.FormatInt(value.UnixMilli(), 10)
}

type listFormat[T any] struct {
	sep   string
	inner Format[T]
}

// List returns the format for a sep-joined list of values. The empty
// string is the empty list.
func List[T any](sep string, inner Format[T]) Format[[]T] {
	return listFormat[T]{sep: sep, inner: inner}
}

func (f listFormat[T]) Decode(value string) ([]T, error) {
	if value == "" {
		return []T{}, nil
	}
	items := strings.Split(value, f.sep)
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := f.inner.Decode(item)
		if err != nil {
			return nil, &FieldError{Record: "list", Field: strconv.Itoa(i), Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

func (f listFormat[T]) Encode(value []T) string {
	items := make([]string, len(value))
	for i, v := range value {
		items[i] = f.inner.Encode(v)
	}
	return strings.Join(items, f.sep)
}

type boolStream struct{}

// BoolStream returns the format for a run of flags written one character
// each with no separator.
func BoolStream() Format[[]bool] { return boolStream{} }

func (boolStream) Decode(value string) ([]bool, error) {
	chars := Chars(value)
	out := make([]bool, 0, len(chars))
	for i, c := range chars {
		v, err := Bool().Decode(c)
		if err != nil {
			return nil, &FieldError{Record: "flags", Field: strconv.Itoa(i), Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

func (boolStream) Encode(value []bool) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, v := range value {
		b.WriteString(Bool().Encode(v))
	}
	return b.String()
}
