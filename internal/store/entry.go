package store

import (
	"fmt"

	"github.com/roach88/manikin/internal/core"
	"github.com/roach88/manikin/internal/ir"
)

// Entry is the journal record of one finished dispatch.
type Entry struct {
	ID        string
	Session   string
	Pos       int64 // completion order within the session, from 1
	Seq       int64
	Depth     int
	Key       string
	Message   string
	Outcome   core.Outcome
	Present   bool
	Current   ir.IRValue
	Old       ir.IRValue
	Result    ir.IRValue
	ErrorKind core.Kind
	Error     string
}

// newEntry converts an observed event. Current and old values must have a
// canonical form; a result without one is journaled as null.
func newEntry(session string, pos int64, ev core.Event) (Entry, error) {
	key := ev.ID.Key()

	current, err := ir.FromGo(ev.Current)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s seq %d: current: %w", key, ev.Seq, err)
	}
	old, err := ir.FromGo(ev.Old)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s seq %d: old: %w", key, ev.Seq, err)
	}
	result, err := ir.FromGo(ev.Result)
	if err != nil {
		result = ir.IRNull{}
	}

	e := Entry{
		Session: session,
		Pos:     pos,
		Seq:     ev.Seq,
		Depth:   ev.Depth,
		Key:     key,
		Message: ev.Message,
		Outcome: ev.Outcome,
		Present: ev.Present,
		Current: current,
		Old:     old,
		Result:  result,
	}
	if ev.Err != nil {
		e.Error = ev.Err.Error()
		e.ErrorKind, _ = core.KindOf(ev.Err)
	}

	e.ID, err = ir.EntryID(session, ev.Seq, key, ev.Message, string(ev.Outcome), current)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s seq %d: %w", key, ev.Seq, err)
	}
	return e, nil
}

func marshalValue(v ir.IRValue) (string, error) {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	return string(data), nil
}

func unmarshalValue(data string) (ir.IRValue, error) {
	v, err := ir.UnmarshalIRValue([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	return v, nil
}
