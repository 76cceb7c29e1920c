package save

import (
	"fmt"

	"github.com/entrhq/cookiebot/pkg/save/format"
)

// Decode parses an exported save.
func Decode(raw string) (*Save, error) {
	text, err := DecodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	return DecodeText(text)
}

// Encode renders s in the exported form accepted by the game's import
// prompt.
func Encode(s *Save) string {
	return EncodeEnvelope(EncodeText(s))
}

// DecodeText parses the plain record text found inside the envelope.
func DecodeText(text string) (*Save, error) {
	s, err := saveFormat.Decode(text)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// EncodeText renders s as plain record text without the envelope.
func EncodeText(s *Save) string {
	return saveFormat.Encode(*s)
}

// CheckInverse verifies that raw survives Decode followed by Encode
// unchanged. The record text is checked field by field first so that a
// failure names the field responsible.
func CheckInverse(raw string) error {
	text, err := DecodeEnvelope(raw)
	if err != nil {
		return err
	}
	if err := format.CheckInverse(saveFormat, text); err != nil {
		return err
	}
	s, err := Decode(raw)
	if err != nil {
		return err
	}
	if actual := Encode(s); actual != raw {
		return fmt.Errorf("envelope: %w", &format.MismatchError{Expected: raw, Actual: actual})
	}
	return nil
}
