package core

import (
	"fmt"
	"reflect"
)

// Message is a stateless, reusable factory for the contract of one send.
//
// Msg is called once per dispatch with the environment bound to that
// dispatch. The returned Msg is single use.
type Message interface {
	Msg(env Env) Msg
}

// MessageFunc adapts a function to the Message interface.
type MessageFunc func(env Env) Msg

// Msg calls f(env).
func (f MessageFunc) Msg(env Env) Msg {
	return f(env)
}

// Named is implemented by messages that carry a stable name for logs,
// journals and metrics.
type Named interface {
	Name() string
}

// MessageName returns m's name if it implements Named, otherwise its Go type
// name ("bank.Deposit", "*harness.step").
func MessageName(m Message) string {
	if n, ok := m.(Named); ok {
		return n.Name()
	}
	if m == nil {
		return "<nil>"
	}
	return reflect.TypeOf(m).String()
}

// Msg is the realized four-stage contract of one dispatch.
//
// Each stage is lazy: the World calls Pre, then Apply, then Effect, then Post,
// and nothing else. Construct a Msg with NewMsg so the stages are supplied in
// that order.
type Msg struct {
	// Pre reads state and reports whether the send may proceed.
	Pre func() bool

	// Apply computes the candidate next value of the target.
	Apply func() (Object, error)

	// Effect computes the result returned to the sender. It may send further
	// messages through the environment.
	Effect func() (any, error)

	// Post reports whether the committed state is acceptable. It observes the
	// new current value of the target and, as old, the value immediately
	// before this dispatch's apply.
	Post func() bool
}

// NewMsg builds a Msg from its four stages, in evaluation order.
func NewMsg(pre func() bool, apply func() (Object, error), effect func() (any, error), post func() bool) Msg {
	return Msg{Pre: pre, Apply: apply, Effect: effect, Post: post}
}

// Validate reports the first missing stage.
func (m Msg) Validate() error {
	switch {
	case m.Pre == nil:
		return fmt.Errorf("msg: pre stage is missing")
	case m.Apply == nil:
		return fmt.Errorf("msg: apply stage is missing")
	case m.Effect == nil:
		return fmt.Errorf("msg: effect stage is missing")
	case m.Post == nil:
		return fmt.Errorf("msg: post stage is missing")
	}
	return nil
}

// Always is a pre- or post-condition that always holds.
func Always() bool { return true }

// Never is a pre- or post-condition that never holds.
func Never() bool { return false }

// NoEffect is an effect stage that returns no result.
func NoEffect() (any, error) { return nil, nil }

// Set returns an apply stage producing v.
func Set(v Object) func() (Object, error) {
	return func() (Object, error) { return v, nil }
}

// Return returns an effect stage producing v.
func Return(v any) func() (any, error) {
	return func() (any, error) { return v, nil }
}
