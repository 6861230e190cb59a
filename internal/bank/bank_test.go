package bank

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/manikin/internal/core"
	"github.com/roach88/manikin/internal/harness"
	"github.com/roach88/manikin/internal/world"
)

var stores = map[string]func() core.World{
	"mutable": func() core.World {
		return world.NewMutable(world.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	},
	"snapshot": func() core.World {
		return world.NewSnapshot(world.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	},
}

func forEachStore(t *testing.T, fn func(t *testing.T, w core.World)) {
	for _, name := range []string{"mutable", "snapshot"} {
		t.Run(name, func(t *testing.T) {
			fn(t, stores[name]())
		})
	}
}

func opened(t *testing.T, w core.World) core.World {
	t.Helper()
	v, err := core.Chain(w,
		core.To(AccountID("A1"), Open{Initial: 50}),
		core.To(AccountID("A2"), Open{Initial: 80}),
	)
	require.NoError(t, err)
	return v.World
}

func TestBook_MovesMoney(t *testing.T) {
	forEachStore(t, func(t *testing.T, w core.World) {
		w = opened(t, w)

		v, err := w.Send(TransferID(1), Book{From: "A1", To: "A2", Amount: 30})
		require.NoError(t, err)

		assert.Equal(t, 20.0, Balance(v.World, "A1"))
		assert.Equal(t, 110.0, Balance(v.World, "A2"))
		assert.Equal(t, Account{Balance: 50}, v.Old(AccountID("A1")))
		assert.Equal(t, Transfer{From: "A1", To: "A2", Amount: 30}, v.Obj(TransferID(1)))
		assert.Len(t, v.World.IDs(), 3)
	})
}

func TestBook_Overdraft(t *testing.T) {
	forEachStore(t, func(t *testing.T, w core.World) {
		w = opened(t, w)

		v, err := w.Send(TransferID(2), Book{From: "A1", To: "A2", Amount: 100})
		require.Error(t, err)
		assert.True(t, core.IsHandlerFault(err))
		assert.True(t, core.IsPrecondition(err))

		assert.Equal(t, 50.0, Balance(v.World, "A1"))
		assert.Equal(t, 80.0, Balance(v.World, "A2"))
		assert.Equal(t, Transfer{}, v.Obj(TransferID(2)))
		assert.Len(t, v.World.IDs(), 2)
	})
}

func TestBook_SameAccount(t *testing.T) {
	forEachStore(t, func(t *testing.T, w core.World) {
		w = opened(t, w)

		v, err := w.Send(TransferID(3), Book{From: "A1", To: "A1", Amount: 5})
		require.Error(t, err)
		assert.True(t, core.IsPrecondition(err))
		assert.False(t, core.IsHandlerFault(err))
		assert.Equal(t, 50.0, Balance(v.World, "A1"))
	})
}

func TestAccount_Contracts(t *testing.T) {
	forEachStore(t, func(t *testing.T, w core.World) {
		_, err := w.Send(AccountID("X"), Open{Initial: -1})
		assert.True(t, core.IsPrecondition(err))

		w = opened(t, w.Init())

		_, err = w.Send(AccountID("A1"), Deposit{Amount: 0})
		assert.True(t, core.IsPrecondition(err))

		v, err := w.Send(AccountID("A1"), Deposit{Amount: 2.5})
		require.NoError(t, err)
		assert.Equal(t, 52.5, Balance(v.World, "A1"))

		v, err = v.Send(AccountID("A1"), Withdraw{Amount: 52.5})
		require.NoError(t, err)
		assert.Equal(t, 0.0, Balance(v.World, "A1"))

		_, err = v.Send(AccountID("A1"), Withdraw{Amount: 1})
		assert.True(t, core.IsPrecondition(err))
	})
}

func TestRegister(t *testing.T) {
	reg := harness.NewRegistry()
	Register(reg)

	id, err := reg.ID("transfer/7")
	require.NoError(t, err)
	assert.Equal(t, TransferID(7), id)

	_, err = reg.ID("transfer/seven")
	assert.Error(t, err)

	m, err := reg.Message("Transfer.book", map[string]any{"from": "account/A1", "to": "account/A2", "amount": 5})
	require.NoError(t, err)
	assert.Equal(t, Book{From: "A1", To: "A2", Amount: 5}, m)

	_, err = reg.Message("Transfer.book", map[string]any{"from": "transfer/1", "to": "account/A2", "amount": 5})
	assert.ErrorContains(t, err, "not an account")

	assert.Equal(t, []string{"Account.deposit", "Account.open", "Account.withdraw", "Transfer.book"}, reg.Messages())
}

func TestScenarios(t *testing.T) {
	reg := harness.NewRegistry()
	Register(reg)
	harness.RunDir(t, reg, "testdata/scenarios")
}
