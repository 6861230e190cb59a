package world

import (
	"github.com/roach88/manikin/internal/core"
)

// Mutable is a World that changes in place.
//
// Send mutates the receiver and returns it as the continuation World. A
// Mutable must not be used from more than one goroutine at a time.
type Mutable struct {
	entries map[string]entry
	rt      *runtime
}

var _ core.World = (*Mutable)(nil)

// NewMutable creates an empty Mutable.
func NewMutable(opts ...Option) *Mutable {
	return &Mutable{
		entries: make(map[string]entry),
		rt:      newRuntime(opts),
	}
}

// Obj implements core.World.
func (w *Mutable) Obj(id core.ID) core.Object {
	return current(w, id)
}

// Old implements core.World.
func (w *Mutable) Old(id core.ID) core.Object {
	return previous(w, id)
}

// Send implements core.World. The returned Value's World is w.
func (w *Mutable) Send(id core.ID, m core.Message) (core.Value, error) {
	l, result, err := dispatch(w, id, m, 0)
	return core.Value{World: l, Result: result}, err
}

// Init returns an empty Mutable sharing w's logger, observers and clock.
func (w *Mutable) Init() core.World {
	return &Mutable{
		entries: make(map[string]entry),
		rt:      w.rt,
	}
}

// IDs implements core.World.
func (w *Mutable) IDs() []core.ID {
	ids := make([]core.ID, 0, len(w.entries))
	for _, e := range w.entries {
		ids = append(ids, e.id)
	}
	return core.SortIDs(ids)
}

// Len returns the number of identifiers with committed state.
func (w *Mutable) Len() int {
	return len(w.entries)
}

func (w *Mutable) lookup(id core.ID) (entry, bool) {
	e, ok := w.entries[id.Key()]
	return e, ok
}

func (w *Mutable) store(e entry) ledger {
	w.entries[e.id.Key()] = e
	return w
}

func (w *Mutable) remove(id core.ID) ledger {
	delete(w.entries, id.Key())
	return w
}

func (w *Mutable) runtime() *runtime {
	return w.rt
}
