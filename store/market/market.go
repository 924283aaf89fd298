package market

import (
	"context"
	"openrate/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type marketStore struct {
	db *db.DB
}

// New new market store
func New(db *db.DB) core.IMarketStore {
	return &marketStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Market{})
		if err := tx.AutoMigrate(core.Market{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *marketStore) Create(ctx context.Context, market *core.Market) error {
	var count int
	if err := s.db.Update().Model(core.Market{}).Where("id = ? OR asset_id = ?", market.ID, market.AssetID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return core.ErrDuplicateMarket
	}

	return s.db.Update().Create(market).Error
}

func (s *marketStore) find(query interface{}, args ...interface{}) (*core.Market, error) {
	var market core.Market
	if err := s.db.View().Where(query, args...).First(&market).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.ErrMarketNotFound
		}

		return nil, err
	}

	return &market, nil
}

func (s *marketStore) Find(ctx context.Context, id string) (*core.Market, error) {
	return s.find("id = ?", id)
}

func (s *marketStore) FindByAsset(ctx context.Context, assetID string) (*core.Market, error) {
	return s.find("asset_id = ?", assetID)
}

func (s *marketStore) All(ctx context.Context) ([]*core.Market, error) {
	var markets []*core.Market
	if err := s.db.View().Order("created_at").Find(&markets).Error; err != nil {
		return nil, err
	}

	return markets, nil
}
