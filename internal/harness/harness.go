package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/manikin/internal/core"
	"github.com/roach88/manikin/internal/ir"
	"github.com/roach88/manikin/internal/store"
	"github.com/roach88/manikin/internal/testutil"
	"github.com/roach88/manikin/internal/world"
)

// Store kinds a scenario can run against.
const (
	StoreMutable  = "mutable"
	StoreSnapshot = "snapshot"
)

// StoreKinds lists every store kind in run order.
var StoreKinds = []string{StoreMutable, StoreSnapshot}

// Option configures Run.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	journal   *store.Store
	observers []core.Observer
}

// WithLogger sets the logger for the Worlds and journals. Defaults to
// discarding everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithJournal writes sessions to st instead of a private in-memory database.
// Each scenario writes one session per store, "<session>/<store>"; rerunning
// a scenario into the same database rewrites identical entries.
func WithJournal(st *store.Store) Option {
	return func(c *config) {
		c.journal = st
	}
}

// WithObserver attaches o to every World the scenario runs on, such as a
// metrics.Observer.
func WithObserver(o core.Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// Run executes sc against each store kind and returns the result of the
// first, with every failure found in any of them.
//
// Failed expectations and assertions are reported in the Result. Run returns
// an error only when the scenario cannot be executed: an unresolvable
// reference, a setup send that does not commit, or a journal failure.
func Run(reg *Registry, sc *Scenario, opts ...Option) (*Result, error) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := cfg.journal
	if st == nil {
		var err error
		st, err = store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
		}
		defer st.Close()
	}

	kinds := StoreKinds
	if sc.Store != "" {
		if !slices.Contains(StoreKinds, sc.Store) {
			return nil, fmt.Errorf("scenario %s: unknown store %q", sc.Name, sc.Store)
		}
		kinds = []string{sc.Store}
	}

	ctx := context.Background()
	var first *Result
	for _, kind := range kinds {
		res, err := runStore(ctx, reg, sc, kind, st, &cfg)
		if err != nil {
			return nil, fmt.Errorf("scenario %s on %s: %w", sc.Name, kind, err)
		}
		if first == nil {
			first = res
			continue
		}
		merge(first, res, kind)
	}
	return first, nil
}

// runStore executes sc on a fresh World of the given kind.
func runStore(ctx context.Context, reg *Registry, sc *Scenario, kind string, st *store.Store, cfg *config) (*Result, error) {
	session := sessionName(sc) + "/" + kind
	rec := newRecorder()
	journal := st.NewJournal(
		store.WithSessionGenerator(testutil.NewFixedSessionGenerator(session)),
		store.WithLabel(sc.Name),
		store.WithLogger(cfg.logger),
	)

	wopts := []world.Option{
		world.WithLogger(cfg.logger),
		world.WithClock(testutil.NewDeterministicClock()),
		world.WithObserver(rec),
		world.WithObserver(journal),
	}
	for _, o := range cfg.observers {
		wopts = append(wopts, world.WithObserver(o))
	}
	var w core.World
	if kind == StoreSnapshot {
		w = world.NewSnapshot(wopts...)
	} else {
		w = world.NewMutable(wopts...)
	}

	result := NewResult()
	result.Sessions = []string{session}

	for i, step := range sc.Setup {
		id, msg, err := resolve(reg, step)
		if err != nil {
			return nil, fmt.Errorf("setup[%d]: %w", i, err)
		}
		v, err := w.Send(id, msg)
		if err != nil {
			return nil, fmt.Errorf("setup[%d]: %w", i, err)
		}
		w = v.World
		rec.take()
	}

	for i, step := range sc.Flow {
		id, msg, err := resolve(reg, step)
		if err != nil {
			return nil, fmt.Errorf("flow[%d]: %w", i, err)
		}
		v, sendErr := w.Send(id, msg)
		w = v.World
		ev, ok := rec.take()
		if !ok {
			return nil, fmt.Errorf("flow[%d]: no dispatch observed", i)
		}
		checkExpect(result, i, step, ev, sendErr)
	}

	if rec.err != nil {
		return nil, rec.err
	}
	result.Trace = rec.trace

	if err := journal.Flush(ctx); err != nil {
		return nil, err
	}
	if err := st.Verify(ctx, session, w); err != nil {
		if !errors.Is(err, store.ErrDiverged) {
			return nil, err
		}
		result.AddError("journal: %v", err)
	}

	states, err := world.States(w)
	if err != nil {
		return nil, err
	}
	result.State = states
	if result.Fingerprint, err = ir.StateHash(states); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, sc.Assertions, reg) {
		result.AddError("%s", msg)
	}
	return result, nil
}

func sessionName(sc *Scenario) string {
	if sc.Session != "" {
		return sc.Session
	}
	return sc.Name
}

func resolve(reg *Registry, step SendStep) (core.ID, core.Message, error) {
	id, err := reg.ID(step.To)
	if err != nil {
		return nil, nil, err
	}
	msg, err := reg.Message(step.Message, step.Args)
	if err != nil {
		return nil, nil, err
	}
	return id, msg, nil
}

// checkExpect compares the top-level dispatch of a flow step with its
// expect clause.
func checkExpect(result *Result, i int, step SendStep, ev TraceEvent, sendErr error) {
	want := ExpectClause{Outcome: string(core.OutcomeCommitted)}
	if step.Expect != nil {
		want = *step.Expect
	}
	where := fmt.Sprintf("flow[%d] %s to %s", i, step.Message, step.To)

	if ev.Outcome != want.Outcome {
		if sendErr != nil {
			result.AddError("%s: expected %s, got %s: %v", where, want.Outcome, ev.Outcome, sendErr)
		} else {
			result.AddError("%s: expected %s, got %s", where, want.Outcome, ev.Outcome)
		}
		return
	}
	if want.Kind != "" && ev.Kind != want.Kind {
		result.AddError("%s: expected kind %s, got %q", where, want.Kind, ev.Kind)
	}
	if want.Result != nil {
		expected, err := ir.FromGo(want.Result)
		if err != nil {
			result.AddError("%s: expected result: %v", where, err)
			return
		}
		if !canonicalEqual(expected, ev.Result) {
			result.AddError("%s: expected result %s, got %s", where, canonicalString(expected), canonicalString(ev.Result))
		}
	}
}

// merge folds the result of another store into first. The stores must agree
// on trace and final state.
func merge(first, other *Result, kind string) {
	first.Sessions = append(first.Sessions, other.Sessions...)
	if first.Fingerprint != other.Fingerprint {
		first.AddError("stores diverged: %s final state %s differs from %s", kind, other.Fingerprint, first.Fingerprint)
	}
	if !canonicalEqual(traceIR(first.Trace), traceIR(other.Trace)) {
		first.AddError("stores diverged: %s trace differs", kind)
	}
	for _, e := range other.Errors {
		if !slices.Contains(first.Errors, e) {
			first.AddError("%s: %s", kind, e)
		}
	}
}

func traceIR(trace []TraceEvent) ir.IRArray {
	arr := make(ir.IRArray, len(trace))
	for i, ev := range trace {
		arr[i] = ev.ir()
	}
	return arr
}
