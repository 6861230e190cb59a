package conformance

import (
	"fmt"

	"github.com/roach88/manikin/internal/core"
	"github.com/roach88/manikin/internal/world"
)

// DeterminismRuns is the number of pristine replays compared by the
// determinism check.
const DeterminismRuns = 100

// Check is one conformance check. Run receives a pristine World and returns
// the last World it reached, for failure reports.
type Check struct {
	Problem Problem
	Run     func(w core.World) (core.World, error)
}

// Checks returns the full battery in execution order.
func Checks() []Check {
	return []Check{
		{ProblemObj, checkObj},
		{ProblemOld, checkOld},
		{ProblemDeterminism, checkDeterminism},
		{ProblemSend, checkSend},
		{ProblemRollback, checkRollback},
		{ProblemPrecondition, checkPrecondition},
		{ProblemFault, checkFault},
		{ProblemRecursion, checkRecursion},
		{ProblemIsolation, checkIsolation},
	}
}

func expect(w core.World, id core.ID, want int) error {
	got, err := memberOf(w, id)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("obj(%s).member = %d, want %d", id.Key(), got, want)
	}
	return nil
}

func expectOld(w core.World, id core.ID, want int) error {
	got, err := oldMemberOf(w, id)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("old(%s).member = %d, want %d", id.Key(), got, want)
	}
	return nil
}

func checkObj(w core.World) (core.World, error) {
	a, b := CID(1), CID(2)

	if err := expect(w, a, 0); err != nil {
		return w, fmt.Errorf("pristine: %w", err)
	}
	if err := expectOld(w, a, 0); err != nil {
		return w, fmt.Errorf("pristine: %w", err)
	}

	v, err := core.Chain(w, core.To(a, CopyID{}), core.To(b, CopyID{}))
	if err != nil {
		return v.World, err
	}
	if err := expect(v.World, a, 1); err != nil {
		return v.World, err
	}
	return v.World, expect(v.World, b, 2)
}

func checkOld(w core.World) (core.World, error) {
	a, b := CID(1), CID(2)

	v, err := core.Chain(w,
		core.To(a, SetMember{10}),
		core.To(a, SetMember{20}),
		core.To(b, SetMember{100}),
		core.To(b, SetMember{200}),
	)
	if err != nil {
		return v.World, err
	}
	for _, c := range []struct {
		id       core.ID
		old, obj int
	}{{a, 10, 20}, {b, 100, 200}} {
		if err := expectOld(v.World, c.id, c.old); err != nil {
			return v.World, err
		}
		if err := expect(v.World, c.id, c.obj); err != nil {
			return v.World, err
		}
	}
	return v.World, nil
}

func checkDeterminism(w core.World) (core.World, error) {
	a, b, c, d := CID(1), CID(2), CID(3), CID(4)
	var first string

	for i := 0; i < DeterminismRuns; i++ {
		v, err := core.Chain(w.Init(),
			core.To(a, CopyID{}),
			core.To(b, CopyID{}),
			core.To(c, SetMember{20}),
			core.To(d, SetMember{200}),
		)
		if err != nil {
			return v.World, fmt.Errorf("run %d: %w", i, err)
		}
		for id, want := range map[core.ID]int{a: 1, b: 2, c: 20, d: 200} {
			if err := expect(v.World, id, want); err != nil {
				return v.World, fmt.Errorf("run %d: %w", i, err)
			}
		}
		fp, err := world.Fingerprint(v.World)
		if err != nil {
			return v.World, fmt.Errorf("run %d: %w", i, err)
		}
		if i == 0 {
			first = fp
		} else if fp != first {
			return v.World, fmt.Errorf("run %d: fingerprint %s differs from run 0 (%s)", i, fp, first)
		}
		w = v.World
	}
	return w, nil
}

func checkSend(w core.World) (core.World, error) {
	a, b := CID(1), CID(2)

	v, err := w.Send(a, SendSetMember{Member: 10, Other: b})
	if err != nil {
		return v.World, err
	}
	if v.Result != 10 {
		return v.World, fmt.Errorf("effect result = %v, want 10", v.Result)
	}
	if err := expect(v.World, b, 10); err != nil {
		return v.World, err
	}

	v, err = v.Send(b, SendSetMember{Member: 20, Other: a})
	if err != nil {
		return v.World, err
	}
	if err := expect(v.World, a, 20); err != nil {
		return v.World, err
	}
	return v.World, expect(v.World, b, 20)
}

func checkRollback(w core.World) (core.World, error) {
	a, b := CID(1), CID(2)

	v, err := w.Send(a, FailPost{})
	if !core.IsPostcondition(err) {
		return v.World, fmt.Errorf("send FailPost to a: got %v, want a postcondition violation", err)
	}
	if err := expect(v.World, a, 0); err != nil {
		return v.World, err
	}

	v, err = v.Send(b, SetMember{5})
	if err != nil {
		return v.World, err
	}
	v, err = v.Send(b, FailPost{})
	if !core.IsPostcondition(err) {
		return v.World, fmt.Errorf("send FailPost to b: got %v, want a postcondition violation", err)
	}
	if err := expect(v.World, b, 5); err != nil {
		return v.World, err
	}
	return v.World, expectOld(v.World, b, 0)
}

func checkPrecondition(w core.World) (core.World, error) {
	a := CID(1)

	v, err := w.Send(a, SetMember{7})
	if err != nil {
		return v.World, err
	}
	v, err = v.Send(a, RequirePositive{-1})
	if !core.IsPrecondition(err) {
		return v.World, fmt.Errorf("got %v, want a precondition violation", err)
	}
	if err := expect(v.World, a, 7); err != nil {
		return v.World, err
	}
	return v.World, expectOld(v.World, a, 0)
}

func checkFault(w core.World) (core.World, error) {
	a := CID(1)

	v, err := w.Send(a, SetMember{3})
	if err != nil {
		return v.World, err
	}
	v, err = v.Send(a, FailEffect{})
	if !core.IsHandlerFault(err) {
		return v.World, fmt.Errorf("got %v, want a handler fault", err)
	}
	return v.World, expect(v.World, a, 3)
}

func checkRecursion(w core.World) (core.World, error) {
	a := CID(1)

	v, err := core.Chain(w, core.To(a, SetMember{100}), core.To(a, Recurse{Levels: 3}))
	if err != nil {
		return v.World, err
	}
	if err := expect(v.World, a, 104); err != nil {
		return v.World, err
	}
	return v.World, expectOld(v.World, a, 100)
}

func checkIsolation(w core.World) (core.World, error) {
	a := CID(1)

	v, err := w.Send(a, SetMember{1})
	if err != nil {
		return v.World, err
	}
	if v.World == w {
		// Mutable store: in-place change is the contract.
		return w, nil
	}
	if err := expect(w, a, 0); err != nil {
		return w, fmt.Errorf("receiver changed by Send: %w", err)
	}
	if len(w.IDs()) != 0 {
		return w, fmt.Errorf("receiver lists %d identifiers after Send", len(w.IDs()))
	}
	return v.World, nil
}
