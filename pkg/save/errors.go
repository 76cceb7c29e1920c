package save

import "errors"

var (
	// ErrPercentEncoding is returned when the armored text contains a
	// malformed %XX escape.
	ErrPercentEncoding = errors.New("invalid percent encoding")

	// ErrBase64 is returned when the payload is not standard base64.
	ErrBase64 = errors.New("invalid base64")

	// ErrInvalidUTF8 is returned when the decoded payload is not UTF-8 text.
	ErrInvalidUTF8 = errors.New("invalid utf-8")
)
