package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/spell/internal/ir"
)

//go:embed schema.sql
var schemaSQL string

// currentSchemaVersion is stored in PRAGMA user_version.
// 0 is a fresh file; 1 is the schema in schema.sql.
const currentSchemaVersion = ir.SchemaVersion

// DefaultCapacity is the default size of every bounded journal.
const DefaultCapacity = 50

// Capacities bounds the journals. Zero fields fall back to DefaultCapacity.
type Capacities struct {
	Logs           int
	Mailbox        int
	ErrorParticles int
}

// DefaultCapacities returns 50 for every journal.
func DefaultCapacities() Capacities {
	return Capacities{
		Logs:           DefaultCapacity,
		Mailbox:        DefaultCapacity,
		ErrorParticles: DefaultCapacity,
	}
}

func (c Capacities) withDefaults() Capacities {
	if c.Logs <= 0 {
		c.Logs = DefaultCapacity
	}
	if c.Mailbox <= 0 {
		c.Mailbox = DefaultCapacity
	}
	if c.ErrorParticles <= 0 {
		c.ErrorParticles = DefaultCapacity
	}
	return c
}

// Clock supplies journal timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Options configures Open.
type Options struct {
	Capacities Capacities
	// Clock defaults to the wall clock.
	Clock Clock
}

// Store is the persistent state of one spell.
// Uses SQLite with WAL mode and a single connection.
type Store struct {
	db         *sql.DB
	clock      Clock
	capacities Capacities
}

// Open opens the spell database at path, creating it when missing, and
// records the journal capacities of opts. Reopening an existing database
// keeps its contents; a capacity that shrank takes effect on the next append.
//
// Connection settings are listed in sqlitePragmas. ":memory:" gives a
// private in-memory database.
func Open(path string, opts Options) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:         db,
		clock:      opts.Clock,
		capacities: opts.Capacities.withDefaults(),
	}
	if s.clock == nil {
		s.clock = SystemClock()
	}

	if err := s.writeCapacities(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to write capacities: %w", err)
	}

	return s, nil
}

// Close releases the database. Safe on a zero Store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the connection for inspection in tests and tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Capacities returns the journal bounds in effect.
func (s *Store) Capacities() Capacities {
	return s.capacities
}

func (s *Store) now() uint64 {
	sec := s.clock.Now().Unix()
	if sec < 0 {
		return 0
	}
	return uint64(sec)
}

// inTx runs fn in a transaction, committing when fn returns nil.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// sqlitePragmas are applied to every connection, in order.
// WAL lets readers proceed during a write; the busy timeout is in ms.
var sqlitePragmas = []struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "ON"},
}

func applyPragmas(db *sql.DB) error {
	for _, p := range sqlitePragmas {
		stmt := "PRAGMA " + p.name + " = " + p.value
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}
	return nil
}

// migrate applies schema.sql (idempotent) and stamps user_version.
// A database written by a newer release is refused.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d",
			version, currentSchemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

// pragma reads the current value of a pragma as text.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}

// Sentinel errors for singleton reads and writes.
var (
	ErrRelayAlreadySet  = errors.New("relay is already set")
	ErrNoRelay          = errors.New("relay is not set")
	ErrNoTriggerConfig  = errors.New("trigger config is not set")
	ErrNoScript         = errors.New("script is not set")
	ErrChecksumMismatch = errors.New("script checksum mismatch")
)
