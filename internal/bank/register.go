package bank

import (
	"fmt"
	"strconv"

	"github.com/roach88/manikin/internal/core"
	"github.com/roach88/manikin/internal/harness"
)

// Register binds the "account" and "transfer" identifier kinds and the bank
// messages for scenarios.
func Register(reg *harness.Registry) {
	reg.RegisterID("account", func(name string) (core.ID, error) {
		return AccountID(name), nil
	})
	reg.RegisterID("transfer", func(name string) (core.ID, error) {
		n, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transfer id: %w", err)
		}
		return TransferID(n), nil
	})

	reg.RegisterMessage(Open{}.Name(), func(args harness.Args) (core.Message, error) {
		initial, err := args.Float("initial")
		if err != nil {
			return nil, err
		}
		return Open{Initial: initial}, nil
	})
	reg.RegisterMessage(Deposit{}.Name(), func(args harness.Args) (core.Message, error) {
		amount, err := args.Float("amount")
		if err != nil {
			return nil, err
		}
		return Deposit{Amount: amount}, nil
	})
	reg.RegisterMessage(Withdraw{}.Name(), func(args harness.Args) (core.Message, error) {
		amount, err := args.Float("amount")
		if err != nil {
			return nil, err
		}
		return Withdraw{Amount: amount}, nil
	})
	reg.RegisterMessage(Book{}.Name(), func(args harness.Args) (core.Message, error) {
		from, err := account(args, "from")
		if err != nil {
			return nil, err
		}
		to, err := account(args, "to")
		if err != nil {
			return nil, err
		}
		amount, err := args.Float("amount")
		if err != nil {
			return nil, err
		}
		return Book{From: from, To: to, Amount: amount}, nil
	})
}

func account(args harness.Args, name string) (AccountID, error) {
	id, err := args.ID(name)
	if err != nil {
		return "", err
	}
	a, ok := id.(AccountID)
	if !ok {
		return "", fmt.Errorf("argument %q: %s is not an account", name, id.Key())
	}
	return a, nil
}
