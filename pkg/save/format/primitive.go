package format

import (
	"strconv"
	"strings"
)

type boolFormat struct{}

// Bool returns the format for flags written as "0" or "1".
func Bool() Format[bool] { return boolFormat{} }

func (boolFormat) Decode(value string) (bool, error) {
	switch value {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

func (boolFormat) Encode(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

type uint8Format struct{}

// Uint8 returns the base-10 format for uint8 values.
func Uint8() Format[uint8] { return uint8Format{} }

func (uint8Format) Decode(value string) (uint8, error) {
	v, err := strconv.ParseUint(value, 10, 8)
	if err != nil {
		return 0, &ParseError{Value: value, Err: err}
	}
	return uint8(v), nil
}

func (uint8Format) Encode(value uint8) string {
	return strconv.FormatUint(uint64(value), 10)
}

type uint64Format struct{}

// Uint64 returns the base-10 format for uint64 values.
func Uint64() Format[uint64] { return uint64Format{} }

func (uint64Format) Decode(value string) (uint64, error) {
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, &ParseError{Value: value, Err: err}
	}
	return v, nil
}

func (uint64Format) Encode(value uint64) string {
	return strconv.FormatUint(value, 10)
}

type intFormat struct{}

// Int returns the base-10 format for non-negative int values such as
// indexes, levels and type ids. Negative text is a parse error.
func Int() Format[int] { return intFormat{} }

func (intFormat) Decode(value string) (int, error) {
	v, err := strconv.ParseUint(value, 10, strconv.IntSize-1)
	if err != nil {
		return 0, &ParseError{Value: value, Err: err}
	}
	return int(v), nil
}

func (intFormat) Encode(value int) string {
	return strconv.Itoa(value)
}

type float64Format struct{}

// Float64 returns the format for numbers written by the game runtime's
// Number::toString.
func Float64() Format[float64] { return float64Format{} }

func (float64Format) Decode(value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &ParseError{Value: value, Err: err}
	}
	return v, nil
}

func (float64Format) Encode(value float64) string {
	return FormatNumber(value)
}

type stringFormat struct{}

// String returns the identity format. Segments never contain the
// separator of their record, so no escaping is needed.
func String() Format[string] { return stringFormat{} }

func (stringFormat) Decode(value string) (string, error) {
	return strings.Clone(value), nil
}

func (stringFormat) Encode(value string) string {
	return value
}

type unitFormat struct{}

// Unit returns a format that accepts any text and encodes to nothing.
func Unit() Format[struct{}] { return unitFormat{} }

func (unitFormat) Decode(string) (struct{}, error) {
	return struct{}{}, nil
}

func (unitFormat) Encode(struct{}) string {
	return ""
}
