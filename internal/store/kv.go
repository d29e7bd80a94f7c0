package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Kind discriminates what a key holds.
type Kind string

const (
	KindString Kind = "string"
	KindU32    Kind = "u32"
	KindList   Kind = "list"
)

// scalarIndex is the list_index of every scalar row.
const scalarIndex = -1

// Entry is one stored row of a key: a scalar or a single list item.
type Entry struct {
	Kind Kind
	// String is set for KindString and KindList.
	String string
	// U32 is set for KindU32.
	U32 uint32
	// Order is the list position. Only meaningful for KindList.
	Order int64
}

// StringEntry builds a scalar string entry.
func StringEntry(v string) Entry { return Entry{Kind: KindString, String: v} }

// U32Entry builds a scalar u32 entry.
func U32Entry(v uint32) Entry { return Entry{Kind: KindU32, U32: v} }

// ListItem builds a list element at the given position.
func ListItem(v string, order int64) Entry { return Entry{Kind: KindList, String: v, Order: order} }

// IsList reports whether the entry is a list element.
func (e Entry) IsList() bool { return e.Kind == KindList }

// Field is a single key/string pair written by SetStrings.
type Field struct {
	Key   string
	Value string
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Entries returns every row of key: one scalar, or list items in order.
func (s *Store) Entries(ctx context.Context, key string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, string, u32, list_index
		FROM kv
		WHERE key = ?
		ORDER BY list_index ASC
	`, key)
	if err != nil {
		return nil, fmt.Errorf("entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("entries: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("entries: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		kind  string
		str   sql.NullString
		u32   sql.NullInt64
		index int64
	)
	if err := sc.Scan(&kind, &str, &u32, &index); err != nil {
		return Entry{}, err
	}
	switch Kind(kind) {
	case KindString:
		return StringEntry(str.String), nil
	case KindU32:
		return U32Entry(uint32(u32.Int64)), nil
	case KindList:
		return ListItem(str.String, index), nil
	default:
		return Entry{}, fmt.Errorf("unknown kv kind %q", kind)
	}
}

// Put replaces everything stored under key with a single scalar entry.
func (s *Store) Put(ctx context.Context, key string, e Entry) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		return putScalar(ctx, tx, key, e)
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func putScalar(ctx context.Context, tx execer, key string, e Entry) error {
	var str, u32 any
	switch e.Kind {
	case KindString:
		str = e.String
	case KindU32:
		u32 = int64(e.U32)
	default:
		return fmt.Errorf("not a scalar entry: kind %q", e.Kind)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO kv (key, kind, string, u32, list_index)
		VALUES (?, ?, ?, ?, ?)
	`, key, string(e.Kind), str, u32, scalarIndex)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// scalar loads the scalar row of key, if any.
func (s *Store) scalar(ctx context.Context, key string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT kind, string, u32, list_index
		FROM kv
		WHERE key = ? AND list_index = ?
	`, key, scalarIndex)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

// SetString stores a scalar string under key.
func (s *Store) SetString(ctx context.Context, key, value string) error {
	return s.Put(ctx, key, StringEntry(value))
}

// SetU32 stores a scalar u32 under key.
func (s *Store) SetU32(ctx context.Context, key string, value uint32) error {
	return s.Put(ctx, key, U32Entry(value))
}

// SetStrings stores every field as a scalar string in one transaction.
// Either all fields are written or none.
func (s *Store) SetStrings(ctx context.Context, fields []Field) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, f := range fields {
			if err := putScalar(ctx, tx, f.Key, StringEntry(f.Value)); err != nil {
				return fmt.Errorf("%q: %w", f.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set strings: %w", err)
	}
	return nil
}

// GetString returns the scalar string under key.
// ok is false when the key is missing or holds something else.
func (s *Store) GetString(ctx context.Context, key string) (value string, ok bool, err error) {
	e, found, err := s.scalar(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("get string %q: %w", key, err)
	}
	if !found || e.Kind != KindString {
		return "", false, nil
	}
	return e.String, true, nil
}

// GetU32 returns the scalar u32 under key.
// ok is false when the key is missing or holds something else.
func (s *Store) GetU32(ctx context.Context, key string) (value uint32, ok bool, err error) {
	e, found, err := s.scalar(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("get u32 %q: %w", key, err)
	}
	if !found || e.Kind != KindU32 {
		return 0, false, nil
	}
	return e.U32, true, nil
}

// Remove deletes every row of key, scalar or list.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Exists reports whether key holds anything.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM kv WHERE key = ?)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists %q: %w", key, err)
	}
	return exists, nil
}

// ListPush appends value to the list under key. A scalar under key is
// dropped in the same transaction.
func (s *Store) ListPush(ctx context.Context, key, value string) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM kv WHERE key = ? AND kind != ?`, key, string(KindList)); err != nil {
			return fmt.Errorf("clear scalar: %w", err)
		}

		var next int64
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(list_index), -1) + 1 FROM kv WHERE key = ? AND kind = ?`,
			key, string(KindList)).Scan(&next)
		if err != nil {
			return fmt.Errorf("next index: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO kv (key, kind, string, u32, list_index)
			VALUES (?, ?, ?, NULL, ?)
		`, key, string(KindList), value, next)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("list push %q: %w", key, err)
	}
	return nil
}

// ListPop removes and returns the most recently pushed surviving element.
// ok is false when the list is empty or missing.
func (s *Store) ListPop(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		var index int64
		err := tx.QueryRowContext(ctx, `
			SELECT list_index, string
			FROM kv
			WHERE key = ? AND kind = ?
			ORDER BY list_index DESC
			LIMIT 1
		`, key, string(KindList)).Scan(&index, &value)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("select last: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM kv WHERE key = ? AND list_index = ?`, key, index); err != nil {
			return fmt.Errorf("delete last: %w", err)
		}
		ok = true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("list pop %q: %w", key, err)
	}
	return value, ok, nil
}

// ListGet returns the list under key in push order.
// A missing key yields an empty list.
func (s *Store) ListGet(ctx context.Context, key string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT string
		FROM kv
		WHERE key = ? AND kind = ?
		ORDER BY list_index ASC
	`, key, string(KindList))
	if err != nil {
		return nil, fmt.Errorf("list get %q: %w", key, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("list get %q: %w", key, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list get %q: %w", key, err)
	}
	return values, nil
}

// ListRemove deletes every element of the list under key equal to value.
// Returns the number of removed elements.
func (s *Store) ListRemove(ctx context.Context, key, value string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE key = ? AND kind = ? AND string = ?`,
		key, string(KindList), value)
	if err != nil {
		return 0, fmt.Errorf("list remove %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("list remove %q: %w", key, err)
	}
	return n, nil
}
