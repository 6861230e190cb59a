package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/manikin/internal/core"
)

// Session describes a journaled session.
type Session struct {
	ID             string
	Label          string
	RuntimeVersion string
	IRVersion      string
	Entries        int
}

const entryColumns = `id, session, pos, seq, depth, key, message, outcome, present, current, old, result, error_kind, error`

// ReadSession returns the entries of session in completion order.
// Returns an empty slice (not nil) if the session has no entries.
func (s *Store) ReadSession(ctx context.Context, session string) ([]Entry, error) {
	return s.readEntries(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE session = ?
		ORDER BY pos ASC
	`, session)
}

// ReadKey returns the entries of session that targeted key, in completion
// order.
func (s *Store) ReadKey(ctx context.Context, session, key string) ([]Entry, error) {
	return s.readEntries(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE session = ? AND key = ?
		ORDER BY pos ASC
	`, session, key)
}

// Sessions lists every session, oldest id first.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.label, s.runtime_version, s.ir_version, COUNT(e.id)
		FROM sessions s
		LEFT JOIN entries e ON e.session = s.id
		GROUP BY s.id
		ORDER BY s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Label, &sess.RuntimeVersion, &sess.IRVersion, &sess.Entries); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LastSeq returns the highest sequence number journaled in session, or 0.
func (s *Store) LastSeq(ctx context.Context, session string) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM entries WHERE session = ?`, session).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

func (s *Store) readEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e                    Entry
		outcome, kind        string
		current, old, result string
	)
	err := rows.Scan(
		&e.ID,
		&e.Session,
		&e.Pos,
		&e.Seq,
		&e.Depth,
		&e.Key,
		&e.Message,
		&outcome,
		&e.Present,
		&current,
		&old,
		&result,
		&kind,
		&e.Error,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	e.Outcome = core.Outcome(outcome)
	e.ErrorKind = core.Kind(kind)

	if e.Current, err = unmarshalValue(current); err != nil {
		return Entry{}, fmt.Errorf("entry %s: current: %w", e.ID, err)
	}
	if e.Old, err = unmarshalValue(old); err != nil {
		return Entry{}, fmt.Errorf("entry %s: old: %w", e.ID, err)
	}
	if e.Result, err = unmarshalValue(result); err != nil {
		return Entry{}, fmt.Errorf("entry %s: result: %w", e.ID, err)
	}
	return e, nil
}
