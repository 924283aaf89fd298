package vault

import (
	"context"
	"openrate/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type vaultStore struct {
	db *db.DB
}

// New new vault store
func New(db *db.DB) core.IVaultStore {
	return &vaultStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Vault{})
		if err := tx.AutoMigrate(core.Vault{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *vaultStore) Create(ctx context.Context, vault *core.Vault) error {
	return s.db.Update().Create(vault).Error
}

func (s *vaultStore) Find(ctx context.Context, id string) (*core.Vault, error) {
	var vault core.Vault
	if err := s.db.View().Where("id = ?", id).First(&vault).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, core.ErrMarketNotFound
		}

		return nil, err
	}

	return &vault, nil
}
