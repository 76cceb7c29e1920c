package store

import (
	"context"
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// pragmas are applied to every pooled connection before first use.
var pragmas = []string{
	"PRAGMA busy_timeout=5000",
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
}

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT,
	value TEXT,
	cookies_baked_all_time REAL
);
CREATE INDEX IF NOT EXISTS cookies_baked_all_time ON saves(cookies_baked_all_time);
`

// openPool opens a pool whose connections have the standard pragmas and
// the saves schema.
func openPool(path string, size int) (*sqlitex.Pool, error) {
	if size <= 0 {
		size = max(runtime.NumCPU(), 4)
	}
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    size,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return pool, nil
}

func prepareConnection(conn *sqlite.Conn) error {
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// take borrows a connection and returns a function that gives it back.
func take(ctx context.Context, pool *sqlitex.Pool) (*sqlite.Conn, func(), error) {
	conn, err := pool.Take(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("take connection: %w", err)
	}
	return conn, func() { pool.Put(conn) }, nil
}
