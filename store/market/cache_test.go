package market

import (
	"context"
	"openrate/core"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	core.IMarketStore
	markets map[string]*core.Market
	calls   int
}

func (s *countingStore) Find(_ context.Context, id string) (*core.Market, error) {
	s.calls++
	if m, ok := s.markets[id]; ok {
		return m, nil
	}

	return nil, core.ErrMarketNotFound
}

func (s *countingStore) FindByAsset(_ context.Context, assetID string) (*core.Market, error) {
	s.calls++
	for _, m := range s.markets {
		if m.AssetID == assetID {
			return m, nil
		}
	}

	return nil, core.ErrMarketNotFound
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	market := &core.Market{ID: "m1", AssetID: "a1"}
	store := &countingStore{markets: map[string]*core.Market{market.ID: market}}
	cached := Cache(store, 16, time.Minute)

	m, err := cached.Find(ctx, "m1")
	require.Nil(t, err)
	assert.Equal(t, market, m)

	// filled by Find
	m, err = cached.FindByAsset(ctx, "a1")
	require.Nil(t, err)
	assert.Equal(t, market, m)
	assert.Equal(t, 1, store.calls)

	// misses are not cached
	_, err = cached.Find(ctx, "m2")
	assert.Equal(t, core.ErrMarketNotFound, err)
	_, err = cached.Find(ctx, "m2")
	assert.Equal(t, core.ErrMarketNotFound, err)
	assert.Equal(t, 3, store.calls)
}
