// Package core defines the contracts of the manikin object runtime.
//
// The runtime holds a set of uniquely identified, versioned objects. Objects
// are only ever changed by sending a Message to an ID. A Message realizes into
// a Msg: four producers evaluated by the World in a fixed order.
//
//	pre    -> must hold before anything changes
//	apply  -> computes the next value of the target object
//	effect -> computes the result returned to the caller; may send further messages
//	post   -> must hold after apply and effect have committed
//
// A false pre-condition leaves the World untouched. A false post-condition, or
// a failure raised by apply, effect or post, rolls the target object back to
// the value it had before the send. Objects changed by nested sends issued from
// the effect stay committed: there is no cross-object atomicity.
//
// This package contains contracts only. Store implementations live in
// internal/world. core imports nothing internal.
//
// Handlers receive their execution context explicitly:
//
//	type Deposit struct{ Amount float64 }
//
//	func (d Deposit) Msg(env core.Env) core.Msg {
//		return core.NewMsg(
//			func() bool { return d.Amount > 0 },
//			func() (core.Object, error) { return Account{Balance: core.ObjAs[Account](env).Balance + d.Amount}, nil },
//			core.NoEffect,
//			func() bool { return core.ObjAs[Account](env).Balance == core.OldAs[Account](env).Balance+d.Amount },
//		)
//	}
package core
