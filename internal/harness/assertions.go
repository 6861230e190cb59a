package harness

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/roach88/manikin/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] seq=%d depth=%d %s %s: %s\n", i+1, ev.Seq, ev.Depth, ev.To, ev.Message, ev.Outcome)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against result's trace and
// final state, returning one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion, reg *Registry) []string {
	var failures []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertFinalState:
			err = assertFinalState(result.State, reg, a)
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, reg, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			failures = append(failures, err.Error())
		}
	}

	return failures
}

// assertFinalState checks an identifier's canonical current and old value
// against the expected fields (subset semantics), or that it is absent.
func assertFinalState(states ir.IRObject, reg *Registry, a Assertion) error {
	id, err := reg.ID(a.To)
	if err != nil {
		return fmt.Errorf("final_state: %w", err)
	}
	key := id.Key()
	state, present := states[key]

	if a.Absent {
		if present {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s absent", key),
				Actual:   fmt.Sprintf("%s = %s", key, canonicalString(state)),
			}
		}
		return nil
	}
	if !present {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s to hold committed state", key),
			Actual:   "absent",
		}
	}

	pair := state.(ir.IRObject)
	if err := matchFields(key, "current", pair["current"], a.Expect); err != nil {
		return err
	}
	return matchFields(key, "old", pair["old"], a.Old)
}

// matchFields checks that actual is an object holding every expected field
// with a canonically equal value. Extra fields in actual are ignored.
func matchFields(key, which string, actual ir.IRValue, expected map[string]any) error {
	if len(expected) == 0 {
		return nil
	}
	want, err := ir.FromGo(expected)
	if err != nil {
		return fmt.Errorf("final_state %s %s: %w", key, which, err)
	}
	got, ok := actual.(ir.IRObject)
	if !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s %s to be an object", key, which),
			Actual:   canonicalString(actual),
		}
	}

	wantObj := want.(ir.IRObject)
	for _, field := range wantObj.SortedKeys() {
		gv, exists := got[field]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s %s field %q", key, which, field),
				Actual:   fmt.Sprintf("fields %v", got.SortedKeys()),
			}
		}
		if !canonicalEqual(wantObj[field], gv) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s %s.%s = %s", key, which, field, canonicalString(wantObj[field])),
				Actual:   fmt.Sprintf("%s %s.%s = %s", key, which, field, canonicalString(gv)),
			}
		}
	}
	return nil
}

// assertTraceContains checks that some dispatch of the message, optionally
// to a given identifier and with a given outcome, appears in the trace.
func assertTraceContains(trace []TraceEvent, reg *Registry, a Assertion) error {
	key := ""
	if a.To != "" {
		id, err := reg.ID(a.To)
		if err != nil {
			return fmt.Errorf("trace_contains: %w", err)
		}
		key = id.Key()
	}

	for _, ev := range trace {
		if ev.Message != a.Message {
			continue
		}
		if key != "" && ev.To != key {
			continue
		}
		if a.Outcome != "" && ev.Outcome != a.Outcome {
			continue
		}
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: describe(a.Message, key, a.Outcome),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that messages first appear in the given order.
// Other dispatches may come in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, ev := range trace {
		if _, seen := positions[ev.Message]; !seen {
			positions[ev.Message] = i + 1
		}
	}

	for _, msg := range a.Messages {
		if positions[msg] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all messages present: %v", a.Messages),
				Actual:   fmt.Sprintf("missing message: %s", msg),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Messages); i++ {
		prev, curr := a.Messages[i-1], a.Messages[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("messages in order: %v", a.Messages),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks that the message was dispatched exactly Count
// times, counting only the given outcome if one is set.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Message == a.Message && (a.Outcome == "" || ev.Outcome == a.Outcome) {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d dispatches of %s", a.Count, describe(a.Message, "", a.Outcome)),
			Actual:   fmt.Sprintf("%d dispatches", count),
			Trace:    trace,
		}
	}
	return nil
}

func describe(message, key, outcome string) string {
	s := message
	if key != "" {
		s += " to " + key
	}
	if outcome != "" {
		s += " (" + outcome + ")"
	}
	return s
}

func canonicalEqual(a, b ir.IRValue) bool {
	ab, err := ir.MarshalCanonical(a)
	if err != nil {
		return false
	}
	bb, err := ir.MarshalCanonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

func canonicalString(v ir.IRValue) string {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(data)
}
