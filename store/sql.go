package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sync"

	// PostgreSQL driver
	_ "github.com/lib/pq"
)

// DefaultSQLTable is the table used when none is configured.
const DefaultSQLTable = "reqcache_records"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// SQL stores records in a PostgreSQL table, one row per key.
type SQL struct {
	dsn   string
	table string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQL creates a PostgreSQL store. An empty table selects DefaultSQLTable.
func NewSQL(dsn, table string) *SQL {
	if table == "" {
		table = DefaultSQLTable
	}
	return &SQL{dsn: dsn, table: table}
}

// Name returns "sql".
func (s *SQL) Name() string { return "sql" }

// Open connects, pings the database and creates the table if needed.
func (s *SQL) Open(ctx context.Context) error {
	if !tableName.MatchString(s.table) {
		return fmt.Errorf("store: invalid table name %q", s.table)
	}

	db, err := sql.Open("postgres", s.dsn)
	if err != nil {
		return fmt.Errorf("store: sql open: %w", err)
	}
	if err := s.open(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	return nil
}

// OpenDB uses an existing connection pool instead of dialing the DSN.
func (s *SQL) OpenDB(ctx context.Context, db *sql.DB) error {
	if !tableName.MatchString(s.table) {
		return fmt.Errorf("store: invalid table name %q", s.table)
	}
	return s.open(ctx, db)
}

func (s *SQL) open(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: sql ping: %v", ErrRead, err)
	}

	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`)
	if err != nil {
		return fmt.Errorf("%w: create table: %v", ErrWrite, err)
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
	return nil
}

// Get selects the row of key.
func (s *SQL) Get(ctx context.Context, key string) ([]byte, bool, error) {
	db, err := s.conn()
	if err != nil {
		return nil, false, err
	}

	var value []byte
	err = db.QueryRowContext(ctx, `SELECT value FROM `+s.table+` WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return value, true, nil
}

// Put upserts the row of key.
func (s *SQL) Put(ctx context.Context, key string, value []byte) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `INSERT INTO `+s.table+` (key, value, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Delete removes the row of key.
func (s *SQL) Delete(ctx context.Context, key string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE key = $1`, key); err != nil {
		return fmt.Errorf("%w: %v", ErrDelete, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *SQL) Close() error {
	s.mu.Lock()
	db := s.db
	s.db = nil
	s.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close()
}

func (s *SQL) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

var _ Store = (*SQL)(nil)
