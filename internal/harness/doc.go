// Package harness runs YAML scenarios against every World store.
//
// A scenario names messages and identifiers by string; a Registry turns
// them into core.Message and core.ID values. Each scenario runs once per
// store kind with a deterministic clock and a journal in a fresh in-memory
// SQLite database. The run fails if the stores disagree on trace or final
// state, or if the journal does not fold back into the final World.
//
// # Scenario Format
//
//	name: bank_transfer
//	description: "Booking a transfer moves money between accounts"
//	session: bank-transfer        # optional, fixes journal session ids
//	store: snapshot               # optional, default runs every store
//	setup:
//	  - to: account/A1
//	    message: Account.open
//	    args: { initial: 100 }
//	flow:
//	  - to: transfer/T1
//	    message: Transfer.book
//	    args: { from: account/A1, to: account/A2, amount: 80 }
//	    expect:
//	      outcome: committed
//	assertions:
//	  - type: final_state
//	    to: account/A1
//	    expect: { balance: 20 }
//	  - type: trace_order
//	    messages: [Account.withdraw, Account.deposit, Transfer.book]
//
// Setup sends must commit. A flow step without expect must commit too.
// Scenario documents are checked against an embedded CUE schema before they
// are decoded.
//
// # Assertion Types
//
//   - final_state: an identifier's canonical current (and old) value
//     contains the expected fields, or the identifier is absent
//   - trace_contains: a dispatch of the message appears in the trace
//   - trace_order: messages first appear in the given order
//   - trace_count: a message was dispatched exactly N times
//
// The trace holds every dispatch at every depth in completion order, so a
// nested send appears before the send whose effect issued it.
package harness
