package core

import (
	"context"
	"time"
)

// Market one lending market per asset
type Market struct {
	ID            string    `sql:"size:36;PRIMARY_KEY" json:"id"`
	Authority     string    `sql:"size:36" json:"authority"`
	AssetID       string    `sql:"size:36;unique_index:idx_markets_asset" json:"asset_id"`
	VaultID       string    `sql:"size:36" json:"vault_id"`
	DeriveVersion uint8     `json:"derive_version"`
	CreatedAt     time.Time `json:"created_at"`
}

// IMarketStore market store interface
type IMarketStore interface {
	Create(ctx context.Context, market *Market) error
	Find(ctx context.Context, id string) (*Market, error)
	FindByAsset(ctx context.Context, assetID string) (*Market, error)
	All(ctx context.Context) ([]*Market, error)
}
