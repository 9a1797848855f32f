package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLitePersister stores the snapshot as a single row in a small local
// database, for deployments that already run other engine bookkeeping
// through SQLite and want one file to back up instead of two.
type SQLitePersister struct {
	db *sql.DB
}

// NewSQLitePersister opens (creating if needed) a SQLite database at path
// and ensures its snapshot table exists.
func NewSQLitePersister(path string) (*SQLitePersister, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS engine_snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLitePersister{db: db}, nil
}

func (p *SQLitePersister) Load(ctx context.Context) ([]byte, error) {
	var packed []byte
	err := p.db.QueryRowContext(ctx, `SELECT data FROM engine_snapshot WHERE id = 1`).Scan(&packed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: query snapshot: %w", err)
	}
	return decompress(packed)
}

func (p *SQLitePersister) Save(ctx context.Context, snapshot []byte) error {
	packed, err := compress(snapshot)
	if err != nil {
		return err
	}
	const upsert = `INSERT INTO engine_snapshot (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data`
	if _, err := p.db.ExecContext(ctx, upsert, packed); err != nil {
		return fmt.Errorf("store: write snapshot: %w", err)
	}
	return nil
}

func (p *SQLitePersister) Close() error { return p.db.Close() }
