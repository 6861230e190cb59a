package harness

import (
	"fmt"
	"sync"

	"github.com/roach88/manikin/internal/core"
	"github.com/roach88/manikin/internal/ir"
)

// TraceEvent is one dispatch as seen by the harness. Values are canonical so
// traces compare across stores.
type TraceEvent struct {
	Seq     int64
	Depth   int
	To      string
	Message string
	Outcome string
	Kind    string
	Current ir.IRValue
	Result  ir.IRValue
}

// ir renders the event for golden files and cross-store comparison.
func (e TraceEvent) ir() ir.IRObject {
	obj := ir.NewObject(
		ir.O{Key: "seq", Value: ir.IRInt(e.Seq)},
		ir.O{Key: "depth", Value: ir.IRInt(e.Depth)},
		ir.O{Key: "to", Value: ir.IRString(e.To)},
		ir.O{Key: "message", Value: ir.IRString(e.Message)},
		ir.O{Key: "outcome", Value: ir.IRString(e.Outcome)},
		ir.O{Key: "current", Value: e.Current},
	)
	if e.Kind != "" {
		obj["kind"] = ir.IRString(e.Kind)
	}
	if _, null := e.Result.(ir.IRNull); e.Result != nil && !null {
		obj["result"] = e.Result
	}
	return obj
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool

	// Trace is every dispatch in completion order.
	Trace []TraceEvent

	// Errors lists the failed expectations and assertions.
	Errors []string

	// State is the canonical final state, as world.States returns it.
	State ir.IRObject

	// Fingerprint hashes State.
	Fingerprint string

	// Sessions are the journal sessions written, one per store.
	Sessions []string
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		State:  ir.IRObject{},
	}
}

// AddError records a failure.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// recorder is the harness's core.Observer. It keeps the trace and the last
// top-level event, which belongs to the send in progress.
type recorder struct {
	mu    sync.Mutex
	trace []TraceEvent
	last  int // index into trace, -1 when taken
	err   error
}

func newRecorder() *recorder {
	return &recorder{trace: []TraceEvent{}, last: -1}
}

func (r *recorder) Observe(ev core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	te := TraceEvent{
		Seq:     ev.Seq,
		Depth:   ev.Depth,
		To:      ev.ID.Key(),
		Message: ev.Message,
		Outcome: string(ev.Outcome),
	}
	if kind, ok := core.KindOf(ev.Err); ok {
		te.Kind = string(kind)
	}
	var err error
	if te.Current, err = ir.FromGo(ev.Current); err != nil && r.err == nil {
		r.err = fmt.Errorf("trace seq %d: current: %w", ev.Seq, err)
	}
	if te.Result, err = ir.FromGo(ev.Result); err != nil && r.err == nil {
		r.err = fmt.Errorf("trace seq %d: result: %w", ev.Seq, err)
	}

	r.trace = append(r.trace, te)
	if ev.Depth == 0 {
		r.last = len(r.trace) - 1
	}
}

// take returns and clears the last top-level event.
func (r *recorder) take() (TraceEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last < 0 {
		return TraceEvent{}, false
	}
	ev := r.trace[r.last]
	r.last = -1
	return ev, true
}
