package market

import (
	"context"
	"fmt"
	"openrate/core"
	"time"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache wrap store with a read cache, markets never change once created
func Cache(store core.IMarketStore, size int, exp time.Duration) core.IMarketStore {
	return &cacheMarketStore{
		IMarketStore: store,
		cache:        gcache.New(size).LRU().Expiration(exp).Build(),
		sf:           &singleflight.Group{},
	}
}

type cacheMarketStore struct {
	core.IMarketStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheMarketStore) Find(ctx context.Context, id string) (*core.Market, error) {
	return s.load(s.idKey(id), func() (*core.Market, error) {
		return s.IMarketStore.Find(ctx, id)
	})
}

func (s *cacheMarketStore) FindByAsset(ctx context.Context, assetID string) (*core.Market, error) {
	return s.load(s.assetKey(assetID), func() (*core.Market, error) {
		return s.IMarketStore.FindByAsset(ctx, assetID)
	})
}

func (s *cacheMarketStore) load(key string, fn func() (*core.Market, error)) (*core.Market, error) {
	if v, err := s.cache.Get(key); err == nil {
		if market, ok := v.(*core.Market); ok {
			return market, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		market, err := fn()
		if err != nil {
			return nil, err
		}

		s.cacheMarket(market)
		return market, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*core.Market), nil
}

func (s *cacheMarketStore) cacheMarket(market *core.Market) {
	_ = s.cache.Set(s.idKey(market.ID), market)
	_ = s.cache.Set(s.assetKey(market.AssetID), market)
}

func (s *cacheMarketStore) idKey(id string) string {
	return fmt.Sprintf("market:id:%s", id)
}

func (s *cacheMarketStore) assetKey(assetID string) string {
	return fmt.Sprintf("market:asset:%s", assetID)
}
