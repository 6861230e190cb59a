package world

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/manikin/internal/core"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// stores builds one World per store kind.
var stores = map[string]func(opts ...Option) core.World{
	"mutable":  func(opts ...Option) core.World { return NewMutable(append(opts, quiet())...) },
	"snapshot": func(opts ...Option) core.World { return NewSnapshot(append(opts, quiet())...) },
}

type counterID int

func (c counterID) Key() string       { return fmt.Sprintf("counter/%d", int(c)) }
func (c counterID) Init() core.Object { return counter{} }

type counter struct{ N int }

// setN sets the counter and returns the new value.
type setN struct{ n int }

func (s setN) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		core.Always,
		core.Set(counter{N: s.n}),
		core.Return(s.n),
		func() bool { return core.ObjAs[counter](env).N == s.n },
	)
}

// positive only accepts positive values.
type positive struct{ n int }

func (p positive) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		func() bool { return p.n > 0 },
		core.Set(counter{N: p.n}),
		core.NoEffect,
		core.Always,
	)
}

// broken fails its post-condition.
type broken struct{}

func (broken) Msg(env core.Env) core.Msg {
	return core.NewMsg(core.Always, core.Set(counter{N: 1000}), core.NoEffect, core.Never)
}

// relay sets itself to n and forwards setN(n) to other.
type relay struct {
	n     int
	other core.ID
	fail  bool
}

func (r relay) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		func() bool { return r.other != nil },
		core.Set(counter{N: r.n}),
		func() (any, error) { return env.Send(r.other, setN{n: r.n}) },
		func() bool {
			return !r.fail && core.ObjOfAs[counter](env, r.other).N == core.ObjAs[counter](env).N
		},
	)
}

// recurse increments itself and sends itself levels more times, checking
// that old is always the value from right before its own apply.
type recurse struct {
	levels int
	olds   *[]int
}

func (r recurse) Msg(env core.Env) core.Msg {
	var before int
	return core.NewMsg(
		func() bool {
			before = core.ObjAs[counter](env).N
			return true
		},
		func() (core.Object, error) { return counter{N: core.ObjAs[counter](env).N + 1}, nil },
		func() (any, error) {
			if r.levels == 0 {
				return nil, nil
			}
			return env.Send(env.Self(), recurse{levels: r.levels - 1, olds: r.olds})
		},
		func() bool {
			old := core.OldAs[counter](env).N
			*r.olds = append(*r.olds, old)
			return old == before
		},
	)
}

// faulty fails in the named stage by returning an error or, when panic is
// set, by panicking. post can only fail by panicking.
type faulty struct {
	stage string
	panic bool
}

var errBoom = fmt.Errorf("boom")

func (f faulty) fail() error {
	if f.panic {
		panic(errBoom)
	}
	return errBoom
}

func (f faulty) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		core.Always,
		func() (core.Object, error) {
			if f.stage == "apply" {
				return nil, f.fail()
			}
			return counter{N: 42}, nil
		},
		func() (any, error) {
			if f.stage == "effect" {
				return nil, f.fail()
			}
			return nil, nil
		},
		func() bool {
			if f.stage == "post" {
				panic(errBoom)
			}
			return true
		},
	)
}

// ask keeps its own value and returns the result of sending m to to, read
// as an R.
type ask[R any] struct {
	to core.ID
	m  core.Message
}

func (a ask[R]) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		core.Always,
		func() (core.Object, error) { return core.ObjAs[counter](env), nil },
		func() (any, error) {
			r, err := core.SendAs[R](env, a.to, a.m)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
		core.Always,
	)
}
