package custody

import (
	"context"
	"math"
	"openrate/core"
	"openrate/pkg/id"
	"openrate/store/memory"
	"testing"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (core.ICustodyService, core.ICustodyStore, *core.CustodyAccount, *core.CustodyAccount) {
	ctx := context.Background()
	accounts := memory.New().Accounts()
	s := New()

	asset := id.GenTraceID()
	alice, err := s.OpenAccount(ctx, accounts, id.GenTraceID(), id.GenTraceID(), asset)
	require.Nil(t, err)
	bob, err := s.OpenAccount(ctx, accounts, id.GenTraceID(), id.GenTraceID(), asset)
	require.Nil(t, err)

	_, err = s.Deposit(ctx, accounts, id.GenTraceID(), alice.ID, 1000)
	require.Nil(t, err)

	return s, accounts, alice, bob
}

func balance(t *testing.T, accounts core.ICustodyStore, accountID string) uint64 {
	account, err := accounts.Find(context.Background(), accountID)
	require.Nil(t, err)
	return account.Balance
}

func TestOpenAccountExisting(t *testing.T) {
	ctx := context.Background()
	s, accounts, alice, _ := setup(t)

	account, err := s.OpenAccount(ctx, accounts, alice.ID, id.GenTraceID(), id.GenTraceID())
	require.Nil(t, err)
	assert.Equal(t, alice.Owner, account.Owner)
	assert.Equal(t, alice.AssetID, account.AssetID)
	assert.EqualValues(t, 1000, account.Balance)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	s, accounts, alice, bob := setup(t)

	transfer := &core.CustodyTransfer{
		TraceID:     id.GenTraceID(),
		FromAccount: alice.ID,
		ToAccount:   bob.ID,
		AssetID:     alice.AssetID,
		Amount:      400,
		Authority:   alice.Owner,
	}

	require.Nil(t, s.Transfer(ctx, accounts, transfer))
	assert.EqualValues(t, 600, balance(t, accounts, alice.ID))
	assert.EqualValues(t, 400, balance(t, accounts, bob.ID))

	transfers, err := accounts.ListTransfers(ctx, core.TransferQuery{AccountID: bob.ID})
	require.Nil(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, transfer.TraceID, transfers[0].TraceID)

	again := *transfer
	assert.Equal(t, core.ErrDuplicateTrace, s.Transfer(ctx, accounts, &again))
}

func TestTransferRejected(t *testing.T) {
	ctx := context.Background()
	s, accounts, alice, bob := setup(t)

	cases := map[string]struct {
		modify func(tr *core.CustodyTransfer)
		err    error
	}{
		"zero amount":   {func(tr *core.CustodyTransfer) { tr.Amount = 0 }, core.ErrInvalidAmount},
		"same account":  {func(tr *core.CustodyTransfer) { tr.ToAccount = alice.ID }, core.ErrInvalidArgument},
		"missing from":  {func(tr *core.CustodyTransfer) { tr.FromAccount = id.GenTraceID() }, core.ErrAccountNotFound},
		"wrong asset":   {func(tr *core.CustodyTransfer) { tr.AssetID = id.GenTraceID() }, core.ErrInvalidAssetBinding},
		"not the owner": {func(tr *core.CustodyTransfer) { tr.Authority = bob.Owner }, core.ErrUnauthorizedTransfer},
		"overdraw":      {func(tr *core.CustodyTransfer) { tr.Amount = 1001 }, core.ErrInsufficientFunds},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			transfer := &core.CustodyTransfer{
				TraceID:     id.GenTraceID(),
				FromAccount: alice.ID,
				ToAccount:   bob.ID,
				AssetID:     alice.AssetID,
				Amount:      100,
				Authority:   alice.Owner,
			}
			c.modify(transfer)

			assert.Equal(t, c.err, s.Transfer(ctx, accounts, transfer))
			assert.EqualValues(t, 1000, balance(t, accounts, alice.ID))
			assert.EqualValues(t, 0, balance(t, accounts, bob.ID))
		})
	}
}

func TestDepositOverflow(t *testing.T) {
	ctx := context.Background()
	s, accounts, alice, _ := setup(t)

	_, err := s.Deposit(ctx, accounts, id.GenTraceID(), alice.ID, math.MaxUint64)
	assert.Equal(t, core.ErrMathError, err)
	assert.EqualValues(t, 1000, balance(t, accounts, alice.ID))

	_, err = s.Deposit(ctx, accounts, id.GenTraceID(), alice.ID, 0)
	assert.Equal(t, core.ErrInvalidAmount, err)
}

func TestDuplicateTraceLoggedAsRejection(t *testing.T) {
	s, accounts, alice, bob := setup(t)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	ctx := logger.WithContext(context.Background(), logrus.NewEntry(log))

	traceID := id.GenTraceID()
	_, err := s.Deposit(ctx, accounts, traceID, bob.ID, 10)
	require.Nil(t, err)

	_, err = s.Deposit(ctx, accounts, traceID, bob.ID, 10)
	assert.Equal(t, core.ErrDuplicateTrace, err)

	transfer := &core.CustodyTransfer{
		TraceID:     traceID,
		FromAccount: alice.ID,
		ToAccount:   bob.ID,
		AssetID:     alice.AssetID,
		Amount:      1,
		Authority:   alice.Owner,
	}
	assert.Equal(t, core.ErrDuplicateTrace, s.Transfer(ctx, accounts, transfer))

	require.NotEmpty(t, hook.AllEntries())
	for _, entry := range hook.AllEntries() {
		assert.Equal(t, logrus.DebugLevel, entry.Level, entry.Message)
	}
}
