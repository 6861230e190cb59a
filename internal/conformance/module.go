package conformance

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/manikin/internal/core"
)

// CID identifies a test object.
type CID int

// Key implements core.ID.
func (c CID) Key() string { return "conformance/" + strconv.Itoa(int(c)) }

// Init implements core.ID.
func (c CID) Init() core.Object { return CObject{} }

// CObject is the value of a test object.
type CObject struct {
	Member int `json:"member"`
}

func member(env core.Env) int { return core.ObjAs[CObject](env).Member }

// CopyID sets the member to the object's own id.
type CopyID struct{}

func (CopyID) Name() string { return "CopyID" }

func (CopyID) Msg(env core.Env) core.Msg {
	self := int(env.Self().(CID))
	return core.NewMsg(
		core.Always,
		core.Set(CObject{Member: self}),
		core.NoEffect,
		func() bool { return member(env) == self },
	)
}

// SetMember sets the member and returns it.
type SetMember struct{ Member int }

func (SetMember) Name() string { return "SetMember" }

func (m SetMember) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		core.Always,
		core.Set(CObject{Member: m.Member}),
		core.Return(m.Member),
		func() bool { return member(env) == m.Member },
	)
}

// SendSetMember sets the member and forwards SetMember to Other; the
// post-condition requires both to agree.
type SendSetMember struct {
	Member int
	Other  core.ID
}

func (SendSetMember) Name() string { return "SendSetMember" }

func (m SendSetMember) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		func() bool { return m.Other != nil },
		core.Set(CObject{Member: m.Member}),
		func() (any, error) { return env.Send(m.Other, SetMember{Member: m.Member}) },
		func() bool { return core.ObjOfAs[CObject](env, m.Other).Member == member(env) },
	)
}

// FailPost applies a value and then fails its post-condition.
type FailPost struct{}

func (FailPost) Name() string { return "FailPost" }

func (FailPost) Msg(env core.Env) core.Msg {
	return core.NewMsg(core.Always, core.Set(CObject{Member: 1000}), core.NoEffect, core.Never)
}

// RequirePositive only accepts positive members.
type RequirePositive struct{ Member int }

func (RequirePositive) Name() string { return "RequirePositive" }

func (m RequirePositive) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		func() bool { return m.Member > 0 },
		core.Set(CObject{Member: m.Member}),
		core.NoEffect,
		core.Always,
	)
}

// ErrEffect is returned by FailEffect.
var ErrEffect = errors.New("conformance: effect failed")

// FailEffect applies a value and then fails in its effect.
type FailEffect struct{}

func (FailEffect) Name() string { return "FailEffect" }

func (FailEffect) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		core.Always,
		core.Set(CObject{Member: 2000}),
		func() (any, error) { return nil, ErrEffect },
		core.Always,
	)
}

// Recurse increments the member and re-sends itself Levels more times. Its
// post-condition holds only if old(self) is the value read by its own pre.
type Recurse struct{ Levels int }

func (Recurse) Name() string { return "Recurse" }

func (r Recurse) Msg(env core.Env) core.Msg {
	var before int
	return core.NewMsg(
		func() bool {
			before = member(env)
			return true
		},
		func() (core.Object, error) { return CObject{Member: member(env) + 1}, nil },
		func() (any, error) {
			if r.Levels == 0 {
				return nil, nil
			}
			return env.Send(env.Self(), Recurse{Levels: r.Levels - 1})
		},
		func() bool { return core.OldAs[CObject](env).Member == before },
	)
}

func memberOf(w core.World, id core.ID) (int, error) {
	o, ok := w.Obj(id).(CObject)
	if !ok {
		return 0, fmt.Errorf("obj(%s) is %T, want CObject", id.Key(), w.Obj(id))
	}
	return o.Member, nil
}

func oldMemberOf(w core.World, id core.ID) (int, error) {
	o, ok := w.Old(id).(CObject)
	if !ok {
		return 0, fmt.Errorf("old(%s) is %T, want CObject", id.Key(), w.Old(id))
	}
	return o.Member, nil
}
