package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/manikin/internal/core"
	"github.com/roach88/manikin/internal/ir"
	"github.com/roach88/manikin/internal/world"
)

// ErrDiverged is matched by a *DivergenceError.
var ErrDiverged = errors.New("journal diverged from world")

// DivergenceError reports a journal whose folded state differs from a World.
type DivergenceError struct {
	Session      string
	JournalPrint string
	WorldPrint   string
	Keys         []string // identifiers whose states differ, sorted
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("session %s: journal %s != world %s (keys %v)",
		e.Session, short(e.JournalPrint), short(e.WorldPrint), e.Keys)
}

// Is matches ErrDiverged.
func (e *DivergenceError) Is(target error) bool {
	return target == ErrDiverged
}

// FinalStates folds the entries of session into the state every identifier
// holds after the last dispatch, in the shape of world.States.
//
// Each entry records its target's value once its dispatch ended, so the
// last entry per key wins; a key whose last entry is not Present is absent.
// The fold assumes the session followed one line of Worlds: sends made from
// an earlier Snapshot interleave with the rest.
func (s *Store) FinalStates(ctx context.Context, session string) (ir.IRObject, error) {
	entries, err := s.ReadSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("final states: %w", err)
	}

	states := ir.IRObject{}
	for _, e := range entries {
		if !e.Present {
			delete(states, e.Key)
			continue
		}
		states[e.Key] = ir.NewObject(
			ir.O{Key: "current", Value: e.Current},
			ir.O{Key: "old", Value: e.Old},
		)
	}
	return states, nil
}

// Verify checks that folding session reproduces w. It returns a
// *DivergenceError naming the differing identifiers when it does not.
func (s *Store) Verify(ctx context.Context, session string, w core.World) error {
	journaled, err := s.FinalStates(ctx, session)
	if err != nil {
		return err
	}
	live, err := world.States(w)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	jp, err := ir.StateHash(journaled)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	wp, err := ir.StateHash(live)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if jp == wp {
		return nil
	}

	keys, err := diffKeys(journaled, live)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	return &DivergenceError{Session: session, JournalPrint: jp, WorldPrint: wp, Keys: keys}
}

func diffKeys(a, b ir.IRObject) ([]string, error) {
	var keys []string
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			keys = append(keys, k)
			continue
		}
		same, err := canonicalEqual(av, bv)
		if err != nil {
			return nil, err
		}
		if !same {
			keys = append(keys, k)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func canonicalEqual(a, b ir.IRValue) (bool, error) {
	ab, err := ir.MarshalCanonical(a)
	if err != nil {
		return false, err
	}
	bb, err := ir.MarshalCanonical(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
