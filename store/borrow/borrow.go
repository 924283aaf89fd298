package borrow

import (
	"context"
	"openrate/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type borrowStore struct {
	db *db.DB
}

// New new borrow record store
func New(db *db.DB) core.IBorrowStore {
	return &borrowStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.BorrowRecord{})
		if err := tx.AutoMigrate(core.BorrowRecord{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *borrowStore) Create(ctx context.Context, borrow *core.BorrowRecord) error {
	return s.db.Update().Create(borrow).Error
}

func (s *borrowStore) Find(ctx context.Context, id string) (*core.BorrowRecord, error) {
	var borrow core.BorrowRecord
	if err := s.db.View().Where("id = ?", id).First(&borrow).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.ErrBorrowNotFound
		}

		return nil, err
	}

	return &borrow, nil
}

func (s *borrowStore) Update(ctx context.Context, borrow *core.BorrowRecord) error {
	version := borrow.Version
	tx := s.db.Update().Model(core.BorrowRecord{}).Where("id = ? AND version = ?", borrow.ID, version).Updates(map[string]interface{}{
		"repaid":    borrow.Repaid,
		"repaid_at": borrow.RepaidAt,
		"version":   version + 1,
	})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	borrow.Version = version + 1
	return nil
}

func (s *borrowStore) List(ctx context.Context, query core.BorrowQuery) ([]*core.BorrowRecord, error) {
	tx := s.db.View()
	if query.Borrower != "" {
		tx = tx.Where("borrower = ?", query.Borrower)
	}

	if query.BidID != "" {
		tx = tx.Where("bid_id = ?", query.BidID)
	}

	if query.OpenOnly {
		tx = tx.Where("repaid = ?", false)
	}

	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	var borrows []*core.BorrowRecord
	if err := tx.Order("start_time, id").Find(&borrows).Error; err != nil {
		return nil, err
	}

	return borrows, nil
}
