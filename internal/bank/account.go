// Package bank is a small accounts-and-transfers domain built on the World
// protocol. Booking a transfer withdraws from one account and deposits into
// another through nested sends; the transfer's post-condition checks that no
// money was created or destroyed.
package bank

import (
	"github.com/roach88/manikin/internal/core"
)

// AccountID names an account.
type AccountID string

// Key implements core.ID.
func (a AccountID) Key() string { return "account/" + string(a) }

// Init implements core.ID. Accounts start empty.
func (a AccountID) Init() core.Object { return Account{} }

// Account is the state of an account.
type Account struct {
	Balance float64 `json:"balance"`
}

func balance(env core.Env) float64 { return core.ObjAs[Account](env).Balance }

func oldBalance(env core.Env) float64 { return core.OldAs[Account](env).Balance }

// Balance returns the balance of id in w.
func Balance(w core.World, id AccountID) float64 {
	return core.Get[Account](w, id).Balance
}

// Open sets the opening balance, which must not be negative.
type Open struct{ Initial float64 }

func (Open) Name() string { return "Account.open" }

func (m Open) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		func() bool { return m.Initial >= 0 },
		core.Set(Account{Balance: m.Initial}),
		core.NoEffect,
		func() bool { return balance(env) == m.Initial },
	)
}

// Deposit adds a positive amount.
type Deposit struct{ Amount float64 }

func (Deposit) Name() string { return "Account.deposit" }

func (m Deposit) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		func() bool { return m.Amount > 0 },
		func() (core.Object, error) { return Account{Balance: balance(env) + m.Amount}, nil },
		core.NoEffect,
		func() bool { return balance(env) == oldBalance(env)+m.Amount },
	)
}

// Withdraw removes a positive amount the account can cover.
type Withdraw struct{ Amount float64 }

func (Withdraw) Name() string { return "Account.withdraw" }

func (m Withdraw) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		func() bool { return m.Amount > 0 && balance(env) >= m.Amount },
		func() (core.Object, error) { return Account{Balance: balance(env) - m.Amount}, nil },
		core.NoEffect,
		func() bool { return balance(env) == oldBalance(env)-m.Amount },
	)
}
