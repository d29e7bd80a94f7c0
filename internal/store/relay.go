package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SetRelay stores the relay peer id. It succeeds once per database;
// every later call returns ErrRelayAlreadySet and leaves the value unchanged.
func (s *Store) SetRelay(ctx context.Context, relay string) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO relay (id, relay) VALUES (1, ?)
		ON CONFLICT(id) DO NOTHING
	`, relay)
	if err != nil {
		return fmt.Errorf("set relay: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set relay: %w", err)
	}
	if n == 0 {
		return ErrRelayAlreadySet
	}
	return nil
}

// Relay returns the relay peer id, or ErrNoRelay.
func (s *Store) Relay(ctx context.Context) (string, error) {
	var relay string
	err := s.db.QueryRowContext(ctx, `SELECT relay FROM relay WHERE id = 1`).Scan(&relay)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRelay
	}
	if err != nil {
		return "", fmt.Errorf("relay: %w", err)
	}
	return relay, nil
}

// HasRelay reports whether the relay has been set.
func (s *Store) HasRelay(ctx context.Context) (bool, error) {
	_, err := s.Relay(ctx)
	if errors.Is(err, ErrNoRelay) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
