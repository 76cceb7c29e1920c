package format

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v the way a JavaScript runtime's Number::toString
// does: the shortest digit string that round-trips, in plain decimal
// notation for 1e-6 <= |v| < 1e21 and in exponential notation with an
// explicit exponent sign otherwise.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		// Covers -0 as well.
		return "0"
	}

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
		v = -v
	}

	// Shortest round-trip digits as d.ddde±XX.
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exponent, _ := strings.Cut(s, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	e, _ := strconv.Atoi(exponent)

	// v = 0.digits × 10^n
	k := len(digits)
	n := e + 1

	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteString(digits[:1])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		if n-1 >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(n - 1))
	}
	return b.String()
}
