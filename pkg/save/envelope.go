package save

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// endMarker terminates the base64 payload of an exported save.
const endMarker = "!END!"

// DecodeEnvelope unwraps an exported save into its plain record text.
// The trailing end marker is optional.
func DecodeEnvelope(raw string) (string, error) {
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPercentEncoding, err)
	}
	unescaped = strings.TrimSuffix(unescaped, endMarker)

	payload, err := base64.StdEncoding.DecodeString(unescaped)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBase64, err)
	}
	if !utf8.Valid(payload) {
		return "", ErrInvalidUTF8
	}
	return string(payload), nil
}

// EncodeEnvelope armors plain record text the way the game exports it.
func EncodeEnvelope(text string) string {
	// The armored text is base64 plus the marker, so it never contains a
	// space and QueryEscape matches strict %XX escaping.
	return url.QueryEscape(base64.StdEncoding.EncodeToString([]byte(text)) + endMarker)
}
