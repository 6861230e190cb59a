package core

import (
	"slices"
	"strings"
)

// Object is the value of an entity at one point in time.
//
// Objects are treated as immutable snapshots: an apply producer returns a new
// value, it never mutates the one it read. Stores hand out the same value they
// were given, so reference types (maps, slices, pointers) inside an Object must
// not be modified after apply returns it.
//
// Fingerprints and journals see an Object through encoding/json: its exported
// fields and their tags, or its ir.Encoder form. A struct with only unexported
// fields cannot be fingerprinted and makes those conversions fail.
type Object any

// ID identifies one logical object and produces its pristine value.
//
// Key is the identity of the object: two IDs with equal keys denote the same
// object, whatever their Go types. Keys should be namespaced by the domain
// module that owns them (e.g. "account/A1") to avoid collisions.
//
// Init must be pure and deterministic. It is called whenever an ID is looked
// up before anything was committed for it, possibly many times.
type ID interface {
	Key() string
	Init() Object
}

// SortIDs orders ids by key in place and returns them.
func SortIDs(ids []ID) []ID {
	slices.SortFunc(ids, func(a, b ID) int { return strings.Compare(a.Key(), b.Key()) })
	return ids
}
