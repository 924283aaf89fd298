package core

import (
	"context"
	"time"
)

// Asset asset struct
type Asset struct {
	ID        string    `sql:"size:36;PRIMARY_KEY" json:"id"`
	Symbol    string    `sql:"size:32" json:"symbol,omitempty"`
	Decimals  int32     `json:"decimals"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// IAssetStore asset store interface
type IAssetStore interface {
	Save(ctx context.Context, asset *Asset) error
	Find(ctx context.Context, id string) (*Asset, error)
	All(ctx context.Context) ([]*Asset, error)
}

// CustodyAccount balance of one asset held for an owner
type CustodyAccount struct {
	ID        string    `sql:"size:36;PRIMARY_KEY" json:"id"`
	Owner     string    `sql:"size:36;index:idx_custody_accounts_owner" json:"owner"`
	AssetID   string    `sql:"size:36" json:"asset_id"`
	Balance   uint64    `json:"balance"`
	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// CustodyTransfer journal entry of a balance movement
//
// FromAccount is empty for deposits.
type CustodyTransfer struct {
	ID          int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TraceID     string    `sql:"size:36;unique_index:idx_custody_transfers_trace_id" json:"trace_id"`
	FromAccount string    `sql:"size:36;index:idx_custody_transfers_from" json:"from,omitempty"`
	ToAccount   string    `sql:"size:36;index:idx_custody_transfers_to" json:"to"`
	AssetID     string    `sql:"size:36" json:"asset_id"`
	Amount      uint64    `json:"amount"`
	Authority   string    `sql:"size:36" json:"authority,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransferQuery transfer journal query
type TransferQuery struct {
	AccountID string
	FromID    int64
	Limit     int
}

// ICustodyStore custody account store interface
type ICustodyStore interface {
	Create(ctx context.Context, account *CustodyAccount) error
	Find(ctx context.Context, id string) (*CustodyAccount, error)
	Update(ctx context.Context, account *CustodyAccount) error
	ListByOwner(ctx context.Context, owner string) ([]*CustodyAccount, error)
	// CreateTransfer fails with ErrDuplicateTrace if the trace id was already used
	CreateTransfer(ctx context.Context, transfer *CustodyTransfer) error
	ListTransfers(ctx context.Context, query TransferQuery) ([]*CustodyTransfer, error)
}

// ICustodyService custody service interface
//
// Methods run against the given store so they join the caller's unit of work.
type ICustodyService interface {
	// OpenAccount return the account with id, creating it for owner and asset if missing
	OpenAccount(ctx context.Context, accounts ICustodyStore, id, owner, assetID string) (*CustodyAccount, error)
	// Deposit credit amount to the account
	Deposit(ctx context.Context, accounts ICustodyStore, traceID, accountID string, amount uint64) (*CustodyTransfer, error)
	// Transfer move transfer.Amount between accounts, debit authorized by transfer.Authority
	Transfer(ctx context.Context, accounts ICustodyStore, transfer *CustodyTransfer) error
}
