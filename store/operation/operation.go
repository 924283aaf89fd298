package operation

import (
	"context"
	"openrate/core"

	"github.com/fox-one/pkg/store/db"
)

type operationStore struct {
	db *db.DB
}

// New new operation store
func New(db *db.DB) core.IOperationStore {
	return &operationStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Operation{})
		if err := tx.AutoMigrate(core.Operation{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *operationStore) Create(ctx context.Context, op *core.Operation) error {
	var count int
	if err := s.db.Update().Model(core.Operation{}).Where("trace_id = ?", op.TraceID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return core.ErrDuplicateTrace
	}

	return s.db.Update().Create(op).Error
}

func (s *operationStore) List(ctx context.Context, query core.OperationQuery) ([]*core.Operation, error) {
	tx := s.db.View().Where("id > ?", query.FromID)
	if query.UserID != "" {
		tx = tx.Where("user_id = ?", query.UserID)
	}

	if query.MarketID != "" {
		tx = tx.Where("market_id = ?", query.MarketID)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 500
	}

	var ops []*core.Operation
	if err := tx.Order("id").Limit(limit).Find(&ops).Error; err != nil {
		return nil, err
	}

	return ops, nil
}
