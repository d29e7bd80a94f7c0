package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/spell/internal/ir"
)

// SetTriggerConfig replaces the stored trigger config.
func (s *Store) SetTriggerConfig(ctx context.Context, cfg ir.TriggerConfig) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trigger_config`); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trigger_config
			(id, start_sec, end_sec, period_sec, connect, disconnect, start_block, end_block)
			VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		`,
			cfg.Clock.StartSec,
			cfg.Clock.EndSec,
			cfg.Clock.PeriodSec,
			cfg.Connections.Connect,
			cfg.Connections.Disconnect,
			cfg.Blockchain.StartBlock,
			cfg.Blockchain.EndBlock,
		)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set trigger config: %w", err)
	}
	return nil
}

// TriggerConfig returns the stored trigger config, or ErrNoTriggerConfig.
func (s *Store) TriggerConfig(ctx context.Context) (ir.TriggerConfig, error) {
	var cfg ir.TriggerConfig
	err := s.db.QueryRowContext(ctx, `
		SELECT start_sec, end_sec, period_sec, connect, disconnect, start_block, end_block
		FROM trigger_config
		WHERE id = 1
	`).Scan(
		&cfg.Clock.StartSec,
		&cfg.Clock.EndSec,
		&cfg.Clock.PeriodSec,
		&cfg.Connections.Connect,
		&cfg.Connections.Disconnect,
		&cfg.Blockchain.StartBlock,
		&cfg.Blockchain.EndBlock,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.TriggerConfig{}, ErrNoTriggerConfig
	}
	if err != nil {
		return ir.TriggerConfig{}, fmt.Errorf("trigger config: %w", err)
	}
	return cfg, nil
}
