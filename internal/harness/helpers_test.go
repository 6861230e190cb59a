package harness

import (
	"fmt"

	"github.com/roach88/manikin/internal/core"
)

type tallyID string

func (t tallyID) Key() string       { return "tally/" + string(t) }
func (t tallyID) Init() core.Object { return tally{} }

type tally struct {
	Count int `json:"count"`
}

func count(env core.Env) int { return core.ObjAs[tally](env).Count }

// add requires a positive n and returns the new count.
type add struct{ n int }

func (add) Name() string { return "Tally.add" }

func (a add) Msg(env core.Env) core.Msg {
	before := 0
	return core.NewMsg(
		func() bool {
			before = count(env)
			return a.n > 0
		},
		func() (core.Object, error) { return tally{Count: count(env) + a.n}, nil },
		func() (any, error) { return count(env), nil },
		func() bool { return count(env) == before+a.n },
	)
}

// forward adds n to itself and to another tally.
type forward struct {
	n  int
	to core.ID
}

func (forward) Name() string { return "Tally.forward" }

func (f forward) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		core.Always,
		func() (core.Object, error) { return tally{Count: count(env) + f.n}, nil },
		func() (any, error) { return env.Send(f.to, add{n: f.n}) },
		core.Always,
	)
}

// fail applies a value and then fails its post-condition.
type fail struct{}

func (fail) Name() string { return "Tally.fail" }

func (fail) Msg(env core.Env) core.Msg {
	return core.NewMsg(core.Always, core.Set(tally{Count: -1}), core.NoEffect, core.Never)
}

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.RegisterID("tally", func(name string) (core.ID, error) {
		if name == "nobody" {
			return nil, fmt.Errorf("no such tally")
		}
		return tallyID(name), nil
	})
	reg.RegisterMessage("Tally.add", func(args Args) (core.Message, error) {
		n, err := args.Int("n")
		if err != nil {
			return nil, err
		}
		return add{n: n}, nil
	})
	reg.RegisterMessage("Tally.forward", func(args Args) (core.Message, error) {
		n, err := args.Int("n")
		if err != nil {
			return nil, err
		}
		to, err := args.ID("to")
		if err != nil {
			return nil, err
		}
		return forward{n: n, to: to}, nil
	})
	reg.RegisterMessage("Tally.fail", func(Args) (core.Message, error) {
		return fail{}, nil
	})
	return reg
}

const tallyScenario = `
name: tally_basic
description: Adds, forwards, rejects and rolls back
flow:
  - to: tally/a
    message: Tally.add
    args: { n: 2 }
    expect:
      outcome: committed
      result: 2
  - to: tally/a
    message: Tally.forward
    args: { n: 3, to: tally/b }
  - to: tally/b
    message: Tally.add
    args: { n: -1 }
    expect:
      outcome: rejected
      kind: PRECONDITION_VIOLATION
  - to: tally/c
    message: Tally.fail
    args: {}
    expect:
      outcome: rolled_back
      kind: POSTCONDITION_VIOLATION
assertions:
  - type: final_state
    to: tally/a
    expect: { count: 5 }
    old: { count: 2 }
  - type: final_state
    to: tally/b
    expect: { count: 3 }
  - type: final_state
    to: tally/c
    absent: true
  - type: trace_order
    messages: [Tally.add, Tally.forward]
  - type: trace_count
    message: Tally.add
    count: 3
  - type: trace_contains
    message: Tally.add
    to: tally/b
    outcome: committed
`
