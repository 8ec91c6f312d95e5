package store

import (
	"context"
	"database/sql"
	"errors"
)

// SQL keeps values in a two-column MySQL table.  Use EnsureSchema once at
// startup; the table is created if missing.
type SQL struct {
	db    *sql.DB
	table string
}

// NewSQL returns a store backed by table in db.  An empty table name means
// "mock_kv".
func NewSQL(db *sql.DB, table string) *SQL {
	if table == "" {
		table = "mock_kv"
	}
	return &SQL{db: db, table: table}
}

// EnsureSchema creates the key-value table when it does not exist yet.
func (s *SQL) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
		k VARCHAR(191) NOT NULL PRIMARY KEY,
		v MEDIUMBLOB NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`)
	return err
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT v FROM `+s.table+` WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+s.table+` (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		key, value)
	return err
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE k = ?`, key)
	return err
}
