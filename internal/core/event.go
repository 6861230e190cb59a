package core

// Outcome is the result of one dispatch as reported to observers.
type Outcome string

const (
	// OutcomeCommitted: every stage passed and the target keeps its new value.
	OutcomeCommitted Outcome = "committed"

	// OutcomeRejected: the dispatch failed before apply; nothing changed.
	OutcomeRejected Outcome = "rejected"

	// OutcomeRolledBack: the dispatch failed after apply; the target was
	// restored.
	OutcomeRolledBack Outcome = "rolled_back"
)

// Event describes one finished dispatch.
//
// Events are emitted in completion order: a nested send finishes, and is
// reported, before the dispatch whose effect issued it.
type Event struct {
	// Seq is the logical sequence number assigned when the dispatch began.
	Seq int64

	// Depth is the nesting level of the dispatch.
	Depth int

	// ID is the target of the dispatch.
	ID ID

	// Message is the message name.
	Message string

	// Outcome is how the dispatch ended.
	Outcome Outcome

	// Current and Old are the target's values once the dispatch ended.
	Current Object
	Old     Object

	// Present reports whether the target holds committed state in the World
	// once the dispatch ended. It is false after a rejected or rolled back
	// first send to a target.
	Present bool

	// Result is the effect result of a committed dispatch.
	Result any

	// Err is the error returned to the sender, nil when committed.
	Err error
}

// Observer receives an Event for every dispatch.
//
// Observe is called synchronously on the dispatching goroutine and must not
// block or send messages.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) {
	f(ev)
}

// Observers fans an event out to each observer in order.
type Observers []Observer

// Observe implements Observer.
func (os Observers) Observe(ev Event) {
	for _, o := range os {
		o.Observe(ev)
	}
}
