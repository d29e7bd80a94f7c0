package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/spell/internal/ir"
)

// AppendLog stores a log message stamped with the store clock.
// Returns the number of evicted entries.
func (s *Store) AppendLog(ctx context.Context, message string) (int, error) {
	ts := s.now()
	return s.appendBounded(ctx, JournalLogs, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO logs (timestamp, message) VALUES (?, ?)`, ts, message)
		return err
	})
}

// Logs returns all log entries, oldest first.
func (s *Store) Logs(ctx context.Context) ([]ir.Log, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, message FROM logs ORDER BY timestamp ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("logs: %w", err)
	}
	defer rows.Close()

	logs := []ir.Log{}
	for rows.Next() {
		var l ir.Log
		if err := rows.Scan(&l.Timestamp, &l.Message); err != nil {
			return nil, fmt.Errorf("logs: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("logs: %w", err)
	}
	return logs, nil
}

// PushMailbox stores a message attributed to initPeerID.
// Returns the number of evicted messages.
func (s *Store) PushMailbox(ctx context.Context, initPeerID, message string) (int, error) {
	ts := s.now()
	return s.appendBounded(ctx, JournalMailbox, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO mailbox (init_peer_id, timestamp, message) VALUES (?, ?, ?)`,
			initPeerID, ts, message)
		return err
	})
}

// Mailbox returns all messages, newest first.
func (s *Store) Mailbox(ctx context.Context) ([]ir.MailboxMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT init_peer_id, timestamp, message
		FROM mailbox
		ORDER BY timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("mailbox: %w", err)
	}
	defer rows.Close()

	msgs := []ir.MailboxMessage{}
	for rows.Next() {
		var m ir.MailboxMessage
		if err := rows.Scan(&m.InitPeerID, &m.Timestamp, &m.Message); err != nil {
			return nil, fmt.Errorf("mailbox: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mailbox: %w", err)
	}
	return msgs, nil
}

// PopMailbox removes and returns the newest message.
// ok is false when the mailbox is empty.
func (s *Store) PopMailbox(ctx context.Context) (msg ir.MailboxMessage, ok bool, err error) {
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx, `
			SELECT id, init_peer_id, timestamp, message
			FROM mailbox
			ORDER BY timestamp DESC, id DESC
			LIMIT 1
		`).Scan(&id, &msg.InitPeerID, &msg.Timestamp, &msg.Message)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("select newest: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM mailbox WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete newest: %w", err)
		}
		count, err := countRows(ctx, tx, "mailbox")
		if err != nil {
			return err
		}
		if err := setParam(ctx, tx, boundedTables[JournalMailbox].countParam, count); err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		return ir.MailboxMessage{}, false, fmt.Errorf("pop mailbox: %w", err)
	}
	return msg, ok, nil
}

// AppendError records an error under particleID. The particle bucket is
// created with particleTimestamp on its first error; later errors of the same
// particle keep the original timestamp. Returns the number of evicted particles.
func (s *Store) AppendError(ctx context.Context, particleID string, particleTimestamp uint64, e ir.LastError, errorIdx uint32) (int, error) {
	ts := s.now()
	return s.appendBounded(ctx, JournalErrors, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO particles (particle_id, timestamp) VALUES (?, ?)
			ON CONFLICT(particle_id) DO NOTHING
		`, particleID, particleTimestamp)
		if err != nil {
			return fmt.Errorf("particle: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO errors
			(particle_id, timestamp, error_idx, error_code, instruction, message, peer_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, particleID, ts, errorIdx, e.ErrorCode, e.Instruction, e.Message, e.PeerID)
		if err != nil {
			return fmt.Errorf("error row: %w", err)
		}
		return nil
	})
}

// Errors returns the errors of one particle in insertion order.
func (s *Store) Errors(ctx context.Context, particleID string) ([]ir.LastErrorEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT error_code, instruction, message, peer_id, error_idx
		FROM errors
		WHERE particle_id = ?
		ORDER BY id ASC
	`, particleID)
	if err != nil {
		return nil, fmt.Errorf("errors %q: %w", particleID, err)
	}
	defer rows.Close()

	entries := []ir.LastErrorEntry{}
	for rows.Next() {
		var e ir.LastErrorEntry
		if err := rows.Scan(&e.LastError.ErrorCode, &e.LastError.Instruction, &e.LastError.Message, &e.LastError.PeerID, &e.ErrorIdx); err != nil {
			return nil, fmt.Errorf("errors %q: %w", particleID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("errors %q: %w", particleID, err)
	}
	return entries, nil
}

// AllErrors returns every particle's errors, oldest particle first.
func (s *Store) AllErrors(ctx context.Context) ([]ir.ParticleErrors, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.particle_id, e.error_code, e.instruction, e.message, e.peer_id, e.error_idx
		FROM particles p
		JOIN errors e ON e.particle_id = p.particle_id
		ORDER BY p.timestamp ASC, p.id ASC, e.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("all errors: %w", err)
	}
	defer rows.Close()

	grouped := []ir.ParticleErrors{}
	for rows.Next() {
		var (
			particleID string
			e          ir.LastErrorEntry
		)
		if err := rows.Scan(&particleID, &e.LastError.ErrorCode, &e.LastError.Instruction, &e.LastError.Message, &e.LastError.PeerID, &e.ErrorIdx); err != nil {
			return nil, fmt.Errorf("all errors: %w", err)
		}
		if n := len(grouped); n == 0 || grouped[n-1].ParticleID != particleID {
			grouped = append(grouped, ir.ParticleErrors{ParticleID: particleID, Errors: []ir.LastErrorEntry{}})
		}
		last := &grouped[len(grouped)-1]
		last.Errors = append(last.Errors, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("all errors: %w", err)
	}
	return grouped, nil
}
