// Package world implements the manikin dispatch protocol and two stores.
//
// Mutable keeps one current/old table and changes it in place. Send returns
// the receiver. It is not safe for concurrent use; callers serialize access,
// typically one Mutable per goroutine.
//
// Snapshot keeps current/old values in persistent sorted maps. Send never
// changes the receiver; it returns a successor snapshot sharing structure with
// its predecessor. Distinct snapshots may be read concurrently. A chain of
// sends is still sequential because each step starts from the previous
// snapshot.
//
// Both stores run the same protocol for every send, nested or not:
//
//  1. Bind an environment to the target and realize the message into a Msg
//  2. Evaluate pre; false fails with a precondition violation, nothing changes
//  3. Capture the target's current and old values
//  4. Evaluate apply; commit current=result, old=captured current
//  5. Evaluate effect; nested sends commit on their own
//  6. Restore old=captured current (a nested send to self overwrote it)
//  7. Evaluate post; false rolls the target back and fails
//
// A stage that returns an error or panics rolls the target back and fails
// with a handler fault. Observers see one core.Event per dispatch, in
// completion order.
package world
