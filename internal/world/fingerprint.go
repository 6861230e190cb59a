package world

import (
	"fmt"

	"github.com/roach88/manikin/internal/core"
	"github.com/roach88/manikin/internal/ir"
)

// States returns the canonical current and old value of every identifier in
// w, keyed by identifier key.
func States(w core.World) (ir.IRObject, error) {
	ids := w.IDs()
	states := make(ir.IRObject, len(ids))
	for _, id := range ids {
		cur, err := ir.FromGo(w.Obj(id))
		if err != nil {
			return nil, fmt.Errorf("state of %s: current: %w", id.Key(), err)
		}
		old, err := ir.FromGo(w.Old(id))
		if err != nil {
			return nil, fmt.Errorf("state of %s: old: %w", id.Key(), err)
		}
		states[id.Key()] = ir.NewObject(ir.O{Key: "current", Value: cur}, ir.O{Key: "old", Value: old})
	}
	return states, nil
}

// Fingerprint hashes States(w). Two Worlds holding equal values for the same
// identifiers have equal fingerprints, whatever their store kind.
func Fingerprint(w core.World) (string, error) {
	states, err := States(w)
	if err != nil {
		return "", err
	}
	return ir.StateHash(states)
}
