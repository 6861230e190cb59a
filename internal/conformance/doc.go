// Package conformance is the acceptance battery for World implementations.
//
// A store conforms when every check passes against pristine Worlds obtained
// from its Init:
//
//   - obj: lookups return what apply produced
//   - old: two sends leave the first value as old and the second as current
//   - send: an effect's nested send is visible to the outer post-condition
//   - determinism: 100 replays of the same 4 sends yield identical state
//   - rollback: a failing post-condition leaves the target unchanged
//   - precondition: a failing pre-condition changes nothing
//   - fault: an error raised by effect rolls the target back
//   - recursion: old(self) during post is the pre-apply value at every depth
//   - isolation: an immutable store never changes the receiver of Send
//
// Verify returns a Report for programmatic use; Run reports each check as a
// subtest:
//
//	func TestConformance(t *testing.T) {
//		conformance.Run(t, world.NewSnapshot())
//	}
package conformance
