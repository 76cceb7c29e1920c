// Package export writes stored snapshots as InfluxDB line protocol.
package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/influxdata/line-protocol/v2/lineprotocol"

	"github.com/entrhq/cookiebot/pkg/save"
	"github.com/entrhq/cookiebot/pkg/store"
)

// Measurement is the measurement name of every exported line.
const Measurement = "save"

// DefaultPageSize is how many snapshots Dump reads per query.
const DefaultPageSize = 256

var (
	// ErrTimestampOutOfRange is returned for timestamps that do not fit in
	// int64 nanoseconds.
	ErrTimestampOutOfRange = errors.New("timestamp out of range")

	// ErrInvalidValue is returned for field values line protocol cannot
	// carry, such as NaN or infinities.
	ErrInvalidValue = errors.New("invalid field value")
)

var (
	minNanoTime = time.Unix(0, -1<<63)
	maxNanoTime = time.Unix(0, 1<<63-1)
)

// Point is one exported sample.
type Point struct {
	Timestamp                   time.Time
	CookiesInBank               float64
	CookiesBaked                float64
	CookiesForfeitedByAscending float64
}

// PointFromSave extracts the exported fields of s.
func PointFromSave(ts time.Time, s *save.Save) Point {
	misc := s.MiscellaneousGameData
	return Point{
		Timestamp:                   ts,
		CookiesInBank:               misc.CookiesInBank,
		CookiesBaked:                misc.CookiesBaked,
		CookiesForfeitedByAscending: misc.CookiesForfeitedByAscending,
	}
}

type field struct {
	key   string
	value lineprotocol.Value
}

// fields converts p's values, rejecting any the encoder cannot represent.
func (p Point) fields() ([]field, error) {
	if p.Timestamp.Before(minNanoTime) || p.Timestamp.After(maxNanoTime) {
		return nil, fmt.Errorf("%s: %w", p.Timestamp, ErrTimestampOutOfRange)
	}
	raw := []struct {
		key string
		v   float64
	}{
		{"cookies_in_bank", p.CookiesInBank},
		{"cookies_baked", p.CookiesBaked},
		{"cookies_forfeited_by_ascending", p.CookiesForfeitedByAscending},
	}
	fields := make([]field, 0, len(raw))
	for _, f := range raw {
		v, ok := lineprotocol.NewValue(f.v)
		if !ok {
			return nil, fmt.Errorf("%s=%v: %w", f.key, f.v, ErrInvalidValue)
		}
		fields = append(fields, field{key: f.key, value: v})
	}
	return fields, nil
}

// encodePoint adds p to enc as one complete line. Values are checked before
// the line is started so a rejected point leaves enc untouched.
func encodePoint(enc *lineprotocol.Encoder, p Point) error {
	fields, err := p.fields()
	if err != nil {
		return err
	}
	enc.StartLine(Measurement)
	for _, f := range fields {
		enc.AddField(f.key, f.value)
	}
	enc.EndLine(p.Timestamp)
	return enc.Err()
}

func newEncoder() *lineprotocol.Encoder {
	var enc lineprotocol.Encoder
	enc.SetPrecision(lineprotocol.Nanosecond)
	return &enc
}

// AppendLine appends p as a single line.
func AppendLine(dst []byte, p Point) ([]byte, error) {
	enc := newEncoder()
	if err := encodePoint(enc, p); err != nil {
		return dst, err
	}
	return append(dst, enc.Bytes()...), nil
}

// Pager reads snapshots in (timestamp, id) order. *store.Store implements
// it.
type Pager interface {
	Since(ctx context.Context, after store.Cursor, limit int) ([]store.Snapshot, error)
}

// Dump writes every snapshot from src to w, oldest first, and returns the
// number of lines written. A snapshot that fails to decode or encode stops
// the dump.
func Dump(ctx context.Context, src Pager, w io.Writer, pageSize int) (int, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	out := bufio.NewWriter(w)
	enc := newEncoder()

	var (
		after store.Cursor
		n     int
	)
	for {
		page, err := src.Since(ctx, after, pageSize)
		if err != nil {
			return n, err
		}
		if len(page) == 0 {
			break
		}

		enc.Reset()
		for _, snap := range page {
			s, err := save.Decode(snap.Value)
			if err != nil {
				return n, fmt.Errorf("snapshot %d: %w", snap.ID, err)
			}
			if err := encodePoint(enc, PointFromSave(snap.Timestamp, s)); err != nil {
				return n, fmt.Errorf("snapshot %d: %w", snap.ID, err)
			}
		}
		if _, err := out.Write(enc.Bytes()); err != nil {
			return n, err
		}
		n += len(page)
		after = page[len(page)-1].Cursor()
	}
	return n, out.Flush()
}
