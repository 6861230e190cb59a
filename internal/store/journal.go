package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/manikin/internal/core"
	"github.com/roach88/manikin/internal/ir"
)

// Journal records the dispatches of one session. It implements
// core.Observer and is safe for concurrent use.
//
// Observe only buffers; nothing reaches the database until Flush. The first
// event that cannot be journaled poisons the journal: later events are
// dropped and Flush returns the error.
type Journal struct {
	store   *Store
	session string
	label   string
	logger  *slog.Logger

	mu      sync.Mutex
	pos     int64
	pending []Entry
	err     error
}

// JournalOption configures a Journal.
type JournalOption func(*Journal)

// WithSessionGenerator names the session. Defaults to UUIDv7Generator.
func WithSessionGenerator(g SessionGenerator) JournalOption {
	return func(j *Journal) {
		if g != nil {
			j.session = g.Generate()
		}
	}
}

// WithLabel attaches a free-form label to the session, such as a scenario
// name.
func WithLabel(label string) JournalOption {
	return func(j *Journal) {
		j.label = label
	}
}

// WithLogger sets the journal's logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) JournalOption {
	return func(j *Journal) {
		if l != nil {
			j.logger = l
		}
	}
}

// NewJournal starts a session in s.
func (s *Store) NewJournal(opts ...JournalOption) *Journal {
	j := &Journal{
		store:  s,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.session == "" {
		j.session = UUIDv7Generator{}.Generate()
	}
	j.logger = j.logger.With("session", j.session)
	return j
}

// Session returns the session id entries are written under.
func (j *Journal) Session() string {
	return j.session
}

// Observe implements core.Observer.
func (j *Journal) Observe(ev core.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.err != nil {
		return
	}
	e, err := newEntry(j.session, j.pos+1, ev)
	if err != nil {
		j.err = err
		j.logger.Error("journal entry dropped", "error", err)
		return
	}
	j.pos++
	j.pending = append(j.pending, e)
}

// Pending returns the number of buffered entries.
func (j *Journal) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}

// Flush writes the buffered entries in one transaction. On failure the
// entries stay buffered and a later Flush retries them.
func (j *Journal) Flush(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.err != nil {
		return fmt.Errorf("flush journal: %w", j.err)
	}
	if err := j.store.writeSession(ctx, j.session, j.label, j.pending); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}
	j.logger.Debug("journal flushed", "entries", len(j.pending))
	j.pending = j.pending[:0]
	return nil
}

// writeSession records the session and entries atomically. Both inserts are
// idempotent.
func (s *Store) writeSession(ctx context.Context, session, label string, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, label, runtime_version, ir_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, session, label, ir.RuntimeVersion, ir.IRVersion)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries
		(id, session, pos, seq, depth, key, message, outcome, present, current, old, result, error_kind, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		current, err := marshalValue(e.Current)
		if err != nil {
			return fmt.Errorf("write entry %d: current: %w", e.Pos, err)
		}
		old, err := marshalValue(e.Old)
		if err != nil {
			return fmt.Errorf("write entry %d: old: %w", e.Pos, err)
		}
		result, err := marshalValue(e.Result)
		if err != nil {
			return fmt.Errorf("write entry %d: result: %w", e.Pos, err)
		}
		_, err = stmt.ExecContext(ctx,
			e.ID,
			e.Session,
			e.Pos,
			e.Seq,
			e.Depth,
			e.Key,
			e.Message,
			string(e.Outcome),
			e.Present,
			current,
			old,
			result,
			string(e.ErrorKind),
			e.Error,
		)
		if err != nil {
			return fmt.Errorf("write entry %d: %w", e.Pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
