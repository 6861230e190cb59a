package core

// Env is the execution context of one outstanding dispatch to Self.
//
// Lookups fall back to id.Init() for objects nothing was committed for.
// Send runs the complete dispatch protocol for another message, possibly to
// Self, against the same store; its commit is independent of the outcome of
// the enclosing dispatch.
//
// For snapshot stores an Env always answers from the latest World it has
// observed, which advances with every successful or failed nested Send.
type Env interface {
	// Self is the target of the dispatch.
	Self() ID

	// Obj is the current value of Self.
	Obj() Object

	// Old is the value of Self before its most recent commit.
	Old() Object

	// ObjOf is the current value of id.
	ObjOf(id ID) Object

	// OldOf is the value of id before its most recent commit.
	OldOf(id ID) Object

	// Send dispatches m to id and returns the effect result.
	Send(id ID, m Message) (any, error)

	// World is the World the environment is currently bound to.
	World() World

	// Depth is the nesting level of the dispatch; 0 for a send issued from
	// outside any handler.
	Depth() int
}
