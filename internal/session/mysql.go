package session

import (
	"context"
	"database/sql"
	"errors"

	intconfig "bikecare/internal/config"
)

// MySQLStore persists client state in the client_state table
// (owner VARCHAR, slot VARCHAR, value TEXT, PRIMARY KEY (owner, slot)).
type MySQLStore struct {
	DB *sql.DB
}

func (s MySQLStore) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s MySQLStore) Get(ctx context.Context, owner, key string) (string, bool, error) {
	db := s.db()
	if db == nil {
		return "", false, errors.New("client-state database not connected")
	}
	var v string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM client_state WHERE owner=? AND slot=? LIMIT 1`,
		owner, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s MySQLStore) Set(ctx context.Context, owner, key, value string) error {
	db := s.db()
	if db == nil {
		return errors.New("client-state database not connected")
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO client_state (owner, slot, value) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE value=VALUES(value)`,
		owner, key, value,
	)
	return err
}

func (s MySQLStore) Clear(ctx context.Context, owner, key string) error {
	db := s.db()
	if db == nil {
		return errors.New("client-state database not connected")
	}
	_, err := db.ExecContext(ctx,
		`DELETE FROM client_state WHERE owner=? AND slot=?`,
		owner, key,
	)
	return err
}
