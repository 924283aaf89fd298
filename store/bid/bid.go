package bid

import (
	"context"
	"openrate/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type bidStore struct {
	db *db.DB
}

// New new bid store
func New(db *db.DB) core.IBidStore {
	return &bidStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.BidOrder{})
		if err := tx.AutoMigrate(core.BidOrder{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *bidStore) Create(ctx context.Context, bid *core.BidOrder) error {
	return s.db.Update().Create(bid).Error
}

func (s *bidStore) Find(ctx context.Context, id string) (*core.BidOrder, error) {
	var bid core.BidOrder
	if err := s.db.View().Where("id = ?", id).First(&bid).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.ErrBidNotFound
		}

		return nil, err
	}

	return &bid, nil
}

func (s *bidStore) Update(ctx context.Context, bid *core.BidOrder) error {
	version := bid.Version
	tx := s.db.Update().Model(core.BidOrder{}).Where("id = ? AND version = ?", bid.ID, version).Updates(map[string]interface{}{
		"filled_amount": bid.FilledAmount,
		"active":        bid.Active,
		"cancelled":     bid.Cancelled,
		"reclaimable":   bid.Reclaimable,
		"version":       version + 1,
	})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	bid.Version = version + 1
	return nil
}

func (s *bidStore) List(ctx context.Context, query core.BidQuery) ([]*core.BidOrder, error) {
	tx := s.db.View()
	if query.MarketID != "" {
		tx = tx.Where("market_id = ?", query.MarketID)
	}

	if query.Lender != "" {
		tx = tx.Where("lender = ?", query.Lender)
	}

	if query.ActiveOnly {
		tx = tx.Where("active = ?", true)
	}

	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	var bids []*core.BidOrder
	if err := tx.Order("market_id, rate_bps, created_at, id").Find(&bids).Error; err != nil {
		return nil, err
	}

	return bids, nil
}
