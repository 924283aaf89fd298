package custody

import (
	"context"
	"openrate/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type custodyStore struct {
	db *db.DB
}

// New new custody account store
func New(db *db.DB) core.ICustodyStore {
	return &custodyStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.CustodyAccount{})
		if err := tx.AutoMigrate(core.CustodyAccount{}).Error; err != nil {
			return err
		}

		tx = db.Update().Model(core.CustodyTransfer{})
		if err := tx.AutoMigrate(core.CustodyTransfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *custodyStore) Create(ctx context.Context, account *core.CustodyAccount) error {
	return s.db.Update().Create(account).Error
}

func (s *custodyStore) Find(ctx context.Context, id string) (*core.CustodyAccount, error) {
	var account core.CustodyAccount
	if err := s.db.View().Where("id = ?", id).First(&account).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.ErrAccountNotFound
		}

		return nil, err
	}

	return &account, nil
}

func (s *custodyStore) Update(ctx context.Context, account *core.CustodyAccount) error {
	version := account.Version
	tx := s.db.Update().Model(core.CustodyAccount{}).Where("id = ? AND version = ?", account.ID, version).Updates(map[string]interface{}{
		"balance": account.Balance,
		"version": version + 1,
	})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	account.Version = version + 1
	return nil
}

func (s *custodyStore) ListByOwner(ctx context.Context, owner string) ([]*core.CustodyAccount, error) {
	var accounts []*core.CustodyAccount
	if err := s.db.View().Where("owner = ?", owner).Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}

func (s *custodyStore) CreateTransfer(ctx context.Context, transfer *core.CustodyTransfer) error {
	var count int
	if err := s.db.Update().Model(core.CustodyTransfer{}).Where("trace_id = ?", transfer.TraceID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return core.ErrDuplicateTrace
	}

	return s.db.Update().Create(transfer).Error
}

func (s *custodyStore) ListTransfers(ctx context.Context, query core.TransferQuery) ([]*core.CustodyTransfer, error) {
	tx := s.db.View().Where("id > ?", query.FromID)
	if query.AccountID != "" {
		tx = tx.Where("from_account = ? OR to_account = ?", query.AccountID, query.AccountID)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 500
	}

	var transfers []*core.CustodyTransfer
	if err := tx.Order("id").Limit(limit).Find(&transfers).Error; err != nil {
		return nil, err
	}

	return transfers, nil
}
