package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Journal names a bounded collection.
type Journal string

const (
	JournalLogs    Journal = "logs"
	JournalMailbox Journal = "mailbox"
	JournalErrors  Journal = "errors"
)

// Journals lists every bounded collection in a stable order.
var Journals = []Journal{JournalLogs, JournalMailbox, JournalErrors}

// boundedTable describes how one journal is counted and evicted.
//
// unitTable holds the eviction unit: log rows, mailbox rows, or particles
// for the error journal.
type boundedTable struct {
	journal    Journal
	unitTable  string
	maxParam   string
	countParam string
	// evictOldest removes the single oldest unit.
	evictOldest func(ctx context.Context, tx execer) error
}

var boundedTables = map[Journal]boundedTable{
	JournalLogs: {
		journal:     JournalLogs,
		unitTable:   "logs",
		maxParam:    "max_logs",
		countParam:  "count_logs",
		evictOldest: evictOldestRow("logs"),
	},
	JournalMailbox: {
		journal:     JournalMailbox,
		unitTable:   "mailbox",
		maxParam:    "max_mailbox",
		countParam:  "count_mailbox",
		evictOldest: evictOldestRow("mailbox"),
	},
	JournalErrors: {
		journal:     JournalErrors,
		unitTable:   "particles",
		maxParam:    "max_particles",
		countParam:  "count_particles",
		evictOldest: evictOldestParticle,
	},
}

func (s *Store) capacity(j Journal) int {
	switch j {
	case JournalLogs:
		return s.capacities.Logs
	case JournalMailbox:
		return s.capacities.Mailbox
	case JournalErrors:
		return s.capacities.ErrorParticles
	default:
		return DefaultCapacity
	}
}

// Excess returns how many oldest units must go so that count fits capacity.
func Excess(count, capacity int) int {
	if capacity < 0 || count <= capacity {
		return 0
	}
	return count - capacity
}

// appendBounded runs insert and the eviction pass of journal j in one
// transaction. Returns the number of evicted units.
//
// Eviction repeats until count == capacity, so a backlog left by a smaller
// capacity or an earlier failure is cleared by the next append.
func (s *Store) appendBounded(ctx context.Context, j Journal, insert func(tx *sql.Tx) error) (int, error) {
	bt, ok := boundedTables[j]
	if !ok {
		return 0, fmt.Errorf("unknown journal %q", j)
	}
	capacity := s.capacity(j)

	evicted := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := insert(tx); err != nil {
			return fmt.Errorf("insert: %w", err)
		}

		count, err := countRows(ctx, tx, bt.unitTable)
		if err != nil {
			return err
		}

		for n := Excess(count, capacity); n > 0; n-- {
			if err := bt.evictOldest(ctx, tx); err != nil {
				return fmt.Errorf("evict: %w", err)
			}
			evicted++
			count--
		}

		return setParam(ctx, tx, bt.countParam, count)
	})
	if err != nil {
		return 0, fmt.Errorf("append %s: %w", j, err)
	}
	return evicted, nil
}

func countRows(ctx context.Context, tx execer, table string) (int, error) {
	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// evictOldestRow deletes the oldest row of a flat journal: by timestamp,
// ties broken by insertion order.
func evictOldestRow(table string) func(ctx context.Context, tx execer) error {
	query := fmt.Sprintf(`
		DELETE FROM %[1]s
		WHERE id = (SELECT id FROM %[1]s ORDER BY timestamp ASC, id ASC LIMIT 1)
	`, table)
	return func(ctx context.Context, tx execer) error {
		_, err := tx.ExecContext(ctx, query)
		return err
	}
}

// evictOldestParticle deletes the oldest particle together with all of its errors.
func evictOldestParticle(ctx context.Context, tx execer) error {
	var particleID string
	err := tx.QueryRowContext(ctx, `
		SELECT particle_id FROM particles ORDER BY timestamp ASC, id ASC LIMIT 1
	`).Scan(&particleID)
	if err != nil {
		return fmt.Errorf("oldest particle: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM errors WHERE particle_id = ?`, particleID); err != nil {
		return fmt.Errorf("delete errors of %q: %w", particleID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM particles WHERE particle_id = ?`, particleID); err != nil {
		return fmt.Errorf("delete particle %q: %w", particleID, err)
	}
	return nil
}

func setParam(ctx context.Context, tx execer, name string, value int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO config_table (parameter, value) VALUES (?, ?)
		ON CONFLICT(parameter) DO UPDATE SET value = excluded.value
	`, name, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

// writeCapacities records capacities and refreshes running counts.
func (s *Store) writeCapacities(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, j := range Journals {
			bt := boundedTables[j]
			if err := setParam(ctx, tx, bt.maxParam, s.capacity(j)); err != nil {
				return err
			}
			count, err := countRows(ctx, tx, bt.unitTable)
			if err != nil {
				return err
			}
			if err := setParam(ctx, tx, bt.countParam, count); err != nil {
				return err
			}
		}
		return nil
	})
}

// JournalStat is the recorded state of one journal.
type JournalStat struct {
	Journal  Journal `json:"journal"`
	Count    int     `json:"count"`
	Capacity int     `json:"capacity"`
}

// Stats returns config_table counters for every journal, in Journals order.
func (s *Store) Stats(ctx context.Context) ([]JournalStat, error) {
	stats := make([]JournalStat, 0, len(Journals))
	for _, j := range Journals {
		bt := boundedTables[j]
		st := JournalStat{Journal: j}
		if err := s.readParam(ctx, bt.countParam, &st.Count); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
		if err := s.readParam(ctx, bt.maxParam, &st.Capacity); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func (s *Store) readParam(ctx context.Context, name string, dst *int) error {
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM config_table WHERE parameter = ?`, name).Scan(dst)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}
