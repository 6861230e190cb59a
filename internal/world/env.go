package world

import "github.com/roach88/manikin/internal/core"

// entry is the committed state of one identifier.
type entry struct {
	id  core.ID
	cur core.Object
	old core.Object
}

// ledger is what the dispatch protocol needs from a store. store and remove
// return the World to continue from: the receiver itself for Mutable, a
// successor for Snapshot.
type ledger interface {
	core.World
	lookup(id core.ID) (entry, bool)
	store(e entry) ledger
	remove(id core.ID) ledger
	runtime() *runtime
}

// environment is the core.Env of one dispatch. It is rebound after every
// change the dispatch or its nested sends make.
type environment struct {
	world ledger
	self  core.ID
	depth int
}

var _ core.Env = (*environment)(nil)

func (e *environment) Self() core.ID { return e.self }

func (e *environment) Obj() core.Object { return e.world.Obj(e.self) }

func (e *environment) Old() core.Object { return e.world.Old(e.self) }

func (e *environment) ObjOf(id core.ID) core.Object { return e.world.Obj(id) }

func (e *environment) OldOf(id core.ID) core.Object { return e.world.Old(id) }

func (e *environment) World() core.World { return e.world }

func (e *environment) Depth() int { return e.depth }

// Send runs a nested dispatch and rebinds to the World it left behind,
// whether it succeeded or not.
func (e *environment) Send(id core.ID, m core.Message) (any, error) {
	w, result, err := dispatch(e.world, id, m, e.depth+1)
	e.world = w
	return result, err
}

func (e *environment) bind(w ledger) {
	e.world = w
}

func current(l ledger, id core.ID) core.Object {
	if e, ok := l.lookup(id); ok {
		return e.cur
	}
	return id.Init()
}

func previous(l ledger, id core.ID) core.Object {
	if e, ok := l.lookup(id); ok {
		return e.old
	}
	return id.Init()
}
