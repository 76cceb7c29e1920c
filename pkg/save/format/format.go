package format

import "strings"

// Format converts one piece of save text to a value of type T and back.
// Implementations must be pure and safe for concurrent use.
type Format[T any] interface {
	Decode(value string) (T, error)
	Encode(value T) string
}

// FieldChecker is implemented by composite formats that can run the
// round-trip check on each of their parts individually.
type FieldChecker interface {
	CheckFields(value string) error
}

// Chars splits value into its characters. Each element holds the complete
// UTF-8 sequence of one character.
func Chars(value string) []string {
	return strings.Split(value, "")
}
