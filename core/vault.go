package core

import (
	"context"
	"time"
)

// Vault escrow metadata of a market
//
// Authority is derived from the market id and is the only identity
// allowed to debit CustodyAccount.
type Vault struct {
	ID             string    `sql:"size:36;PRIMARY_KEY" json:"id"`
	MarketID       string    `sql:"size:36;unique_index:idx_vaults_market" json:"market_id"`
	Authority      string    `sql:"size:36" json:"authority"`
	CustodyAccount string    `sql:"size:36" json:"custody_account"`
	AssetID        string    `sql:"size:36" json:"asset_id"`
	DeriveVersion  uint8     `json:"derive_version"`
	CreatedAt      time.Time `json:"created_at"`
}

// IVaultStore vault store interface
type IVaultStore interface {
	Create(ctx context.Context, vault *Vault) error
	Find(ctx context.Context, id string) (*Vault, error)
}
