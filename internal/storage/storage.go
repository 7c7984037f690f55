package storage

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/recurring-server/internal/config"
)

type Storage struct {
	SQL *sql.DB
	DB  bob.DB
}

func NewStorage(env *config.Config) (*Storage, error) {
	return Open(env.PostgresConnectionString())
}

// Open connects to the postgres database at dsn.
func Open(dsn string) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	return &Storage{
		SQL: db,
		DB:  bob.NewDB(db),
	}, nil
}

// Write opens a transaction and returns a Writer bound to it. The caller must
// Commit or Rollback.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return NewWriter(&tx), nil
}

func (s *Storage) Close() error {
	return s.SQL.Close()
}
