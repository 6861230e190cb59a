package core

// World is a versioned store of objects and the entry point for sends.
//
// A World keeps, for each ID, the current value and the old value (the value
// before the most recent successful commit). Implementations differ in how
// they evolve: a mutable World changes in place and returns itself from Send,
// an immutable World returns a successor snapshot and leaves the receiver
// untouched.
type World interface {
	// Obj returns the current value of id, or id.Init() if nothing was committed.
	Obj(id ID) Object

	// Old returns the value of id before its most recent commit, or id.Init().
	Old(id ID) Object

	// Send runs the dispatch protocol for m on id.
	//
	// On success the returned Value carries the effect result and the World to
	// continue from. On failure the error is a *ContractError and the returned
	// Value still carries the World to continue from: the target is rolled
	// back there, while objects committed by nested sends stay committed.
	Send(id ID, m Message) (Value, error)

	// Init returns a pristine World of the same kind and configuration.
	Init() World

	// IDs lists every identifier with committed state, sorted by key.
	IDs() []ID
}

// Value pairs a send result with the World that produced it.
type Value struct {
	World  World
	Result any
}

// Send continues the chain: it sends m to id on v.World.
func (v Value) Send(id ID, m Message) (Value, error) {
	return v.World.Send(id, m)
}

// Obj is v.World.Obj(id).
func (v Value) Obj(id ID) Object {
	return v.World.Obj(id)
}

// Old is v.World.Old(id).
func (v Value) Old(id ID) Object {
	return v.World.Old(id)
}

// Chain sends each step in order, stopping at the first failure. It returns
// the last Value reached, which on failure carries the World the failing send
// left behind.
func Chain(w World, steps ...Step) (Value, error) {
	v := Value{World: w}
	for _, s := range steps {
		next, err := v.Send(s.ID, s.Message)
		if err != nil {
			return next, err
		}
		v = next
	}
	return v, nil
}

// Step is one send of a Chain.
type Step struct {
	ID      ID
	Message Message
}

// To builds a Step.
func To(id ID, m Message) Step {
	return Step{ID: id, Message: m}
}
