package world

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/manikin/internal/core"
)

// dispatch runs the send protocol for m on id against w.
//
// It returns the World to continue from, the effect result and, on failure, a
// *core.ContractError. The returned World is valid in both cases: on failure
// the target is rolled back in it, nested commits are kept.
func dispatch(w ledger, id core.ID, m core.Message, depth int) (ledger, any, error) {
	if id == nil {
		// No target to bind, roll back or report an event for.
		return w, nil, &core.ContractError{
			Kind:    core.HandlerFault,
			Message: core.MessageName(m),
			Stage:   "msg",
			Err:     errNilID,
		}
	}
	rt := w.runtime()
	d := &dispatchRun{
		env:  &environment{world: w, self: id, depth: depth},
		rt:   rt,
		seq:  rt.clock.Next(),
		name: core.MessageName(m),
	}
	d.log = rt.logger.With("seq", d.seq, "id", id.Key(), "message", d.name, "depth", depth)
	d.log.Debug("dispatch begin")

	if depth > rt.maxDepth {
		return d.fail(core.HandlerFault, "msg", &core.DepthExceededError{Depth: depth, Limit: rt.maxDepth})
	}

	msg, err := realize(d.env, m)
	if err != nil {
		return d.fail(core.HandlerFault, "msg", err)
	}

	ok, err := holds(msg.Pre)
	if err != nil {
		return d.fail(core.HandlerFault, "pre", err)
	}
	if !ok {
		return d.fail(core.PreconditionViolation, "pre", nil)
	}

	// Capture for rollback. A target with no committed state is removed again
	// on rollback rather than pinned to its Init value.
	saved, present := d.env.world.lookup(id)
	if !present {
		saved = entry{id: id, cur: id.Init(), old: id.Init()}
	}
	d.saved, d.present = saved, present

	next, err := produce(msg.Apply)
	if err != nil {
		d.rollback()
		return d.fail(core.HandlerFault, "apply", err)
	}
	d.env.bind(d.env.world.store(entry{id: id, cur: next, old: saved.cur}))

	result, err := effect(msg.Effect)
	if err != nil {
		d.rollback()
		return d.fail(core.HandlerFault, "effect", err)
	}

	// A nested send to self committed over old; put the pre-apply value back
	// so post compares against it.
	d.env.bind(d.env.world.store(entry{id: id, cur: d.env.Obj(), old: saved.cur}))

	ok, err = holds(msg.Post)
	if err != nil {
		d.rollback()
		return d.fail(core.HandlerFault, "post", err)
	}
	if !ok {
		d.rollback()
		return d.fail(core.PostconditionViolation, "post", nil)
	}

	d.log.Debug("dispatch committed")
	d.emit(core.OutcomeCommitted, result, nil)
	return d.env.world, result, nil
}

var errNilID = errors.New("nil identifier")

// dispatchRun carries the bookkeeping of one dispatch.
type dispatchRun struct {
	env     *environment
	rt      *runtime
	log     *slog.Logger
	seq     int64
	name    string
	saved   entry
	present bool
}

func (d *dispatchRun) rollback() {
	if d.present {
		d.env.bind(d.env.world.store(d.saved))
		return
	}
	d.env.bind(d.env.world.remove(d.env.self))
}

func (d *dispatchRun) fail(kind core.Kind, stage string, cause error) (ledger, any, error) {
	err := &core.ContractError{
		Kind:    kind,
		Key:     d.env.self.Key(),
		Message: d.name,
		Stage:   stage,
		Err:     cause,
	}
	outcome := core.OutcomeRolledBack
	if stage == "msg" || stage == "pre" {
		outcome = core.OutcomeRejected
		d.log.Info("dispatch rejected", "kind", kind, "stage", stage)
	} else {
		d.log.Warn("dispatch rolled back", "kind", kind, "stage", stage, "error", cause)
	}
	d.emit(outcome, nil, err)
	return d.env.world, nil, err
}

func (d *dispatchRun) emit(outcome core.Outcome, result any, err error) {
	if len(d.rt.observers) == 0 {
		return
	}
	_, present := d.env.world.lookup(d.env.self)
	d.rt.observers.Observe(core.Event{
		Seq:     d.seq,
		Depth:   d.env.depth,
		ID:      d.env.self,
		Message: d.name,
		Outcome: outcome,
		Current: d.env.Obj(),
		Old:     d.env.Old(),
		Present: present,
		Result:  result,
		Err:     err,
	})
}

// realize asks m for its Msg and checks every stage is present.
func realize(env core.Env, m core.Message) (msg core.Msg, err error) {
	if m == nil {
		return msg, fmt.Errorf("nil message")
	}
	defer recoverInto(&err)
	msg = m.Msg(env)
	return msg, msg.Validate()
}

func holds(f func() bool) (ok bool, err error) {
	defer recoverInto(&err)
	return f(), nil
}

func produce(f func() (core.Object, error)) (v core.Object, err error) {
	defer recoverInto(&err)
	return f()
}

func effect(f func() (any, error)) (v any, err error) {
	defer recoverInto(&err)
	return f()
}

// recoverInto turns a panic in a stage into a *core.PanicError.
func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = &core.PanicError{Value: r}
	}
}
