package format

// CheckInverse verifies that f reproduces value exactly after a decode and
// encode cycle. Formats implementing FieldChecker are first checked part by
// part, so a failure names the innermost field that does not round-trip.
func CheckInverse[T any](f Format[T], value string) error {
	if c, ok := f.(FieldChecker); ok {
		if err := c.CheckFields(value); err != nil {
			return err
		}
	}
	decoded, err := f.Decode(value)
	if err != nil {
		return err
	}
	if actual := f.Encode(decoded); actual != value {
		return &MismatchError{Expected: value, Actual: actual}
	}
	return nil
}
