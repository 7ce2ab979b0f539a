package db

import (
	"context"
	"database/sql"
	"fmt"
)

type Store struct {
	*Queries
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		DB:      db,
		Queries: New(db),
	}
}

// ExecTx runs fq inside its own database transaction. Each call opens a fresh
// transaction, so callers that need per-item isolation simply call it once per item.
func (s *Store) ExecTx(ctx context.Context, fq func(q *Queries) error) error {
	// initialize transaction
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	q := New(tx)
	err = fq(q)

	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return fmt.Errorf("encountered rollback error: %v", txErr)
		}
		return err
	}

	return tx.Commit()
}
