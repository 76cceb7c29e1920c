package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/entrhq/cookiebot/pkg/logging"
)

// timestampLayout sorts lexically in time order, unlike RFC3339Nano which
// trims trailing zeros.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot is one stored save.
type Snapshot struct {
	ID        int64
	Timestamp time.Time
	// Value is the armored save text, exactly as exported by the game.
	Value               string
	CookiesBakedAllTime float64
}

// Config holds the parameters for opening a Store.
type Config struct {
	// Path is the SQLite database file. It is created if missing.
	Path string

	// PoolSize is the number of pooled connections. Defaults to
	// max(NumCPU, 4) when zero or negative.
	PoolSize int

	Logger *logging.Logger
}

// Store is a SQLite-backed snapshot table. It is safe for concurrent use.
type Store struct {
	pool   *sqlitex.Pool
	path   string
	logger *logging.Logger
}

// Open opens or creates the database at cfg.Path.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("store: path is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewWithWriter("store", io.Discard)
	}

	pool, err := openPool(cfg.Path, cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	s := &Store{pool: pool, path: cfg.Path, logger: logger}

	// Fail early on an unusable file rather than on the first backup.
	_, put, err := take(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: %w", err)
	}
	put()

	logger.Infof("opened snapshot store %s", cfg.Path)
	return s, nil
}

// Close closes every connection. It blocks until borrowed connections are
// returned.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("store: closing %s: %w", s.path, err)
	}
	return nil
}

// Insert stores a snapshot and returns its row id. snap.ID is ignored.
func (s *Store) Insert(ctx context.Context, snap Snapshot) (int64, error) {
	conn, put, err := take(ctx, s.pool)
	if err != nil {
		return 0, fmt.Errorf("store: insert: %w", err)
	}
	defer put()

	err = sqlitex.Execute(conn,
		`INSERT OR REPLACE INTO saves(timestamp, value, cookies_baked_all_time) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				formatTimestamp(snap.Timestamp),
				snap.Value,
				snap.CookiesBakedAllTime,
			},
		})
	if err != nil {
		return 0, fmt.Errorf("store: insert: %w", err)
	}
	id := conn.LastInsertRowID()
	s.logger.Debugf("stored snapshot %d (score %g)", id, snap.CookiesBakedAllTime)
	return id, nil
}

// Best returns the snapshot with the highest score. The boolean is false
// when the store is empty.
func (s *Store) Best(ctx context.Context) (Snapshot, bool, error) {
	conn, put, err := take(ctx, s.pool)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("store: best: %w", err)
	}
	defer put()

	var (
		best  Snapshot
		found bool
	)
	err = sqlitex.Execute(conn,
		`SELECT id, timestamp, value, cookies_baked_all_time FROM saves
		ORDER BY cookies_baked_all_time DESC LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				best, err = scanSnapshot(stmt)
				found = true
				return err
			},
		})
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("store: best: %w", err)
	}
	return best, found, nil
}

// Cursor is a position in (timestamp, id) order. The zero Cursor is
// before every snapshot.
type Cursor struct {
	Timestamp time.Time
	ID        int64
}

// Cursor returns the position of snap, for resuming a Since scan after it.
func (snap Snapshot) Cursor() Cursor {
	return Cursor{Timestamp: snap.Timestamp, ID: snap.ID}
}

// Since returns up to limit snapshots positioned strictly after the
// cursor, oldest first. Snapshots sharing a timestamp are ordered by id, so
// passing the last returned snapshot's Cursor fetches the next page
// without skipping any.
func (s *Store) Since(ctx context.Context, after Cursor, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("store: since: invalid limit %d", limit)
	}
	conn, put, err := take(ctx, s.pool)
	if err != nil {
		return nil, fmt.Errorf("store: since: %w", err)
	}
	defer put()

	ts := formatTimestamp(after.Timestamp)
	var snapshots []Snapshot
	err = sqlitex.Execute(conn,
		`SELECT id, timestamp, value, cookies_baked_all_time FROM saves
		WHERE timestamp > ? OR (timestamp = ? AND id > ?)
		ORDER BY timestamp, id LIMIT ?`,
		&sqlitex.ExecOptions{
			Args: []any{ts, ts, after.ID, limit},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				snap, err := scanSnapshot(stmt)
				if err != nil {
					return err
				}
				snapshots = append(snapshots, snap)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("store: since: %w", err)
	}
	return snapshots, nil
}

// Count returns the number of stored snapshots.
func (s *Store) Count(ctx context.Context) (int64, error) {
	conn, put, err := take(ctx, s.pool)
	if err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	defer put()

	var n int64
	err = sqlitex.Execute(conn, `SELECT count(*) FROM saves`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			n = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

func scanSnapshot(stmt *sqlite.Stmt) (Snapshot, error) {
	ts, err := time.Parse(time.RFC3339Nano, stmt.ColumnText(1))
	if err != nil {
		return Snapshot{}, fmt.Errorf("row %d: bad timestamp: %w", stmt.ColumnInt64(0), err)
	}
	return Snapshot{
		ID:                  stmt.ColumnInt64(0),
		Timestamp:           ts,
		Value:               stmt.ColumnText(2),
		CookiesBakedAllTime: stmt.ColumnFloat(3),
	}, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
