package world

import (
	"strings"

	"github.com/benbjohnson/immutable"

	"github.com/roach88/manikin/internal/core"
)

// Snapshot is an immutable World.
//
// Every change yields a new Snapshot sharing structure with its predecessor,
// so Send leaves the receiver exactly as it was. A Snapshot is safe for
// concurrent reads.
type Snapshot struct {
	entries *immutable.SortedMap[string, entry]
	rt      *runtime
}

var _ core.World = (*Snapshot)(nil)

// keyOrder orders entries by identifier key.
type keyOrder struct{}

func (keyOrder) Compare(a, b string) int {
	return strings.Compare(a, b)
}

// NewSnapshot creates an empty Snapshot.
func NewSnapshot(opts ...Option) *Snapshot {
	return &Snapshot{
		entries: immutable.NewSortedMap[string, entry](keyOrder{}),
		rt:      newRuntime(opts),
	}
}

// Obj implements core.World.
func (s *Snapshot) Obj(id core.ID) core.Object {
	return current(s, id)
}

// Old implements core.World.
func (s *Snapshot) Old(id core.ID) core.Object {
	return previous(s, id)
}

// Send implements core.World. s is never modified; the returned Value's World
// is the successor snapshot, also on failure.
func (s *Snapshot) Send(id core.ID, m core.Message) (core.Value, error) {
	l, result, err := dispatch(s, id, m, 0)
	return core.Value{World: l, Result: result}, err
}

// Init returns an empty Snapshot sharing s's logger, observers and clock.
func (s *Snapshot) Init() core.World {
	return &Snapshot{
		entries: immutable.NewSortedMap[string, entry](keyOrder{}),
		rt:      s.rt,
	}
}

// IDs implements core.World.
func (s *Snapshot) IDs() []core.ID {
	ids := make([]core.ID, 0, s.entries.Len())
	itr := s.entries.Iterator()
	for !itr.Done() {
		_, e, _ := itr.Next()
		ids = append(ids, e.id)
	}
	return ids
}

// Len returns the number of identifiers with committed state.
func (s *Snapshot) Len() int {
	return s.entries.Len()
}

func (s *Snapshot) lookup(id core.ID) (entry, bool) {
	return s.entries.Get(id.Key())
}

func (s *Snapshot) store(e entry) ledger {
	return &Snapshot{entries: s.entries.Set(e.id.Key(), e), rt: s.rt}
}

func (s *Snapshot) remove(id core.ID) ledger {
	return &Snapshot{entries: s.entries.Delete(id.Key()), rt: s.rt}
}

func (s *Snapshot) runtime() *runtime {
	return s.rt
}
