package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/spell/internal/ir"
)

// SetScript stores the script source, replacing any previous one.
func (s *Store) SetScript(ctx context.Context, source string) error {
	plain := []byte(source)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO script (id, source, size, checksum) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			size = excluded.size,
			checksum = excluded.checksum
	`, compressBytes(plain), len(plain), ir.Checksum(plain))
	if err != nil {
		return fmt.Errorf("set script: %w", err)
	}
	return nil
}

// Script returns the stored script source.
// Returns ErrNoScript when unset and ErrChecksumMismatch when the stored
// bytes no longer match their checksum.
func (s *Store) Script(ctx context.Context) (string, error) {
	var (
		compressed []byte
		size       int
		checksum   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT source, size, checksum FROM script WHERE id = 1`).Scan(&compressed, &size, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoScript
	}
	if err != nil {
		return "", fmt.Errorf("script: %w", err)
	}

	plain := []byte{}
	if size > 0 {
		plain, err = decompressBytes(compressed)
		if err != nil {
			return "", fmt.Errorf("script: decompress: %w", err)
		}
	}
	if len(plain) != size || ir.Checksum(plain) != checksum {
		return "", ErrChecksumMismatch
	}
	return string(plain), nil
}
