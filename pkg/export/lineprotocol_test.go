package export

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/line-protocol/v2/lineprotocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/cookiebot/pkg/store"
)

type parsedLine struct {
	measurement string
	fields      map[string]float64
	timestamp   time.Time
}

// parseLines reads data back with the line protocol decoder.
func parseLines(t *testing.T, data []byte) []parsedLine {
	t.Helper()
	var lines []parsedLine
	dec := lineprotocol.NewDecoderWithBytes(data)
	for dec.Next() {
		m, err := dec.Measurement()
		require.NoError(t, err)
		line := parsedLine{measurement: string(m), fields: make(map[string]float64)}
		for {
			key, val, err := dec.NextField()
			require.NoError(t, err)
			if key == nil {
				break
			}
			require.Equal(t, lineprotocol.Float, val.Kind())
			line.fields[string(key)] = val.FloatV()
		}
		line.timestamp, err = dec.Time(lineprotocol.Nanosecond, time.Time{})
		require.NoError(t, err)
		lines = append(lines, line)
	}
	return lines
}

func TestAppendLine(t *testing.T) {
	ts := time.Unix(1700000000, 5)
	line, err := AppendLine([]byte("# header\n"), Point{
		Timestamp:                   ts,
		CookiesInBank:               17.2,
		CookiesBaked:                3.1622776601683794e+21,
		CookiesForfeitedByAscending: 0,
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(line, []byte("# header\nsave ")))

	lines := parseLines(t, bytes.TrimPrefix(line, []byte("# header\n")))
	require.Len(t, lines, 1)
	assert.Equal(t, Measurement, lines[0].measurement)
	assert.Equal(t, map[string]float64{
		"cookies_in_bank":                17.2,
		"cookies_baked":                  3.1622776601683794e+21,
		"cookies_forfeited_by_ascending": 0,
	}, lines[0].fields)
	assert.True(t, ts.Equal(lines[0].timestamp))

	_, err = AppendLine(nil, Point{Timestamp: time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrTimestampOutOfRange)
}

func TestAppendLineRejectsNonFiniteValues(t *testing.T) {
	tests := []struct {
		name  string
		point Point
		field string
	}{
		{"nan", Point{CookiesInBank: math.NaN()}, "cookies_in_bank"},
		{"positive infinity", Point{CookiesBaked: math.Inf(1)}, "cookies_baked"},
		{"negative infinity", Point{CookiesForfeitedByAscending: math.Inf(-1)}, "cookies_forfeited_by_ascending"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.point.Timestamp = time.Unix(1, 0)
			dst, err := AppendLine([]byte("kept"), tt.point)
			require.ErrorIs(t, err, ErrInvalidValue)
			assert.Contains(t, err.Error(), tt.field)
			assert.Equal(t, "kept", string(dst))
		})
	}
}

// slicePager serves snapshots sorted by (timestamp, id).
type slicePager struct {
	snapshots []store.Snapshot
	calls     int
}

func (p *slicePager) Since(ctx context.Context, after store.Cursor, limit int) ([]store.Snapshot, error) {
	p.calls++
	var page []store.Snapshot
	for _, s := range p.snapshots {
		later := s.Timestamp.After(after.Timestamp) ||
			(s.Timestamp.Equal(after.Timestamp) && s.ID > after.ID)
		if later && len(page) < limit {
			page = append(page, s)
		}
	}
	return page, nil
}

func sample(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "save", "testdata", name))
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func TestDump(t *testing.T) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	pager := &slicePager{}
	for i, name := range []string{"fresh.txt", "midgame.txt", "fresh.txt"} {
		pager.snapshots = append(pager.snapshots, store.Snapshot{
			ID:        int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Value:     sample(t, name),
		})
	}

	var buf bytes.Buffer
	n, err := Dump(context.Background(), pager, &buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, pager.calls)

	lines := parseLines(t, buf.Bytes())
	require.Len(t, lines, 3)
	assert.Equal(t, map[string]float64{
		"cookies_in_bank":                0,
		"cookies_baked":                  15,
		"cookies_forfeited_by_ascending": 0,
	}, lines[0].fields)
	assert.True(t, base.Equal(lines[0].timestamp))
	assert.Equal(t, 1.2345678901234566e+25, lines[1].fields["cookies_in_bank"])
	assert.Equal(t, 3.1622776601683794e+21, lines[1].fields["cookies_baked"])
}

func TestDumpKeepsSnapshotsSharingATimestamp(t *testing.T) {
	ts := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	pager := &slicePager{}
	for i := 1; i <= 3; i++ {
		pager.snapshots = append(pager.snapshots, store.Snapshot{ID: int64(i), Timestamp: ts, Value: sample(t, "fresh.txt")})
	}

	var buf bytes.Buffer
	n, err := Dump(context.Background(), pager, &buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, parseLines(t, buf.Bytes()), 3)
}

func TestDumpStopsOnUndecodableSnapshot(t *testing.T) {
	pager := &slicePager{snapshots: []store.Snapshot{
		{ID: 9, Timestamp: time.Unix(1, 0), Value: "%zz"},
	}}
	n, err := Dump(context.Background(), pager, &bytes.Buffer{}, 0)
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Contains(t, err.Error(), "snapshot 9")
}

type failingPager struct{}

func (failingPager) Since(context.Context, store.Cursor, int) ([]store.Snapshot, error) {
	return nil, errors.New("database is locked")
}

func TestDumpPropagatesStoreErrors(t *testing.T) {
	_, err := Dump(context.Background(), failingPager{}, &bytes.Buffer{}, 10)
	assert.EqualError(t, err, "database is locked")
}
