package auditor

import (
	"context"
	"openrate/core"
	"openrate/pkg/id"
	"openrate/service/audit"
	"openrate/service/custody"
	"openrate/service/ledger"
	"openrate/store/memory"
	"openrate/worker"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditorIdle(t *testing.T) {
	store := memory.New()
	w := New(store.Markets(), audit.New(store), nil, Config{Capacity: 2})
	assert.Len(t, w.Cron.Entries(), 1)

	_, err := w.onWork(context.Background())
	assert.Equal(t, worker.ErrIdle, err)
}

func TestAuditorRunUntilCanceled(t *testing.T) {
	store := memory.New()
	w := New(store.Markets(), audit.New(store), nil, Config{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	onWork := w.OnWork
	w.OnWork = func(ctx context.Context) error {
		defer cancel()
		return onWork(ctx)
	}

	assert.Equal(t, context.Canceled, w.Run(ctx))
}

func TestAuditorDetectsImbalance(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	custodySrv := custody.New()
	ledgerSrv := ledger.New(store, custodySrv)

	var vaults []*core.Vault
	for i := 0; i < 3; i++ {
		asset := id.GenTraceID()
		require.Nil(t, store.Assets().Save(ctx, &core.Asset{ID: asset, Symbol: "T", Decimals: 8}))
		_, vault, err := ledgerSrv.InitializeMarket(ctx, &core.InitializeMarketInput{AssetID: asset, Authority: id.GenTraceID()})
		require.Nil(t, err)
		vaults = append(vaults, vault)
	}

	w := New(store.Markets(), audit.New(store), nil, Config{Capacity: 2})
	unhealthy, err := w.onWork(ctx)
	require.Nil(t, err)
	assert.EqualValues(t, 0, unhealthy)

	// funds landing in a vault outside any bid break the balance
	_, err = custodySrv.Deposit(ctx, store.Accounts(), id.GenTraceID(), vaults[1].CustodyAccount, 10)
	require.Nil(t, err)

	unhealthy, err = w.onWork(ctx)
	require.Nil(t, err)
	assert.EqualValues(t, 1, unhealthy)
}
