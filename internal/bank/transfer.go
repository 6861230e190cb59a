package bank

import (
	"fmt"

	"github.com/roach88/manikin/internal/core"
)

// TransferID names a transfer.
type TransferID int64

// Key implements core.ID.
func (t TransferID) Key() string { return fmt.Sprintf("transfer/%d", int64(t)) }

// Init implements core.ID.
func (t TransferID) Init() core.Object { return Transfer{} }

// Transfer records a booked transfer.
type Transfer struct {
	From   AccountID `json:"from"`
	To     AccountID `json:"to"`
	Amount float64   `json:"amount"`
}

// Book moves Amount from one account to another.
type Book struct {
	From   AccountID
	To     AccountID
	Amount float64
}

func (Book) Name() string { return "Transfer.book" }

func (m Book) Msg(env core.Env) core.Msg {
	return core.NewMsg(
		func() bool { return m.Amount > 0 && m.From != m.To },
		core.Set(Transfer{From: m.From, To: m.To, Amount: m.Amount}),
		func() (any, error) {
			if _, err := env.Send(m.From, Withdraw{Amount: m.Amount}); err != nil {
				return nil, err
			}
			return env.Send(m.To, Deposit{Amount: m.Amount})
		},
		func() bool {
			from := core.ObjOfAs[Account](env, m.From).Balance
			to := core.ObjOfAs[Account](env, m.To).Balance
			oldFrom := core.OldOfAs[Account](env, m.From).Balance
			oldTo := core.OldOfAs[Account](env, m.To).Balance
			return from+to == oldFrom+oldTo
		},
	)
}
