package ledger

import (
	"context"
	"openrate/core"
	"openrate/store/asset"
	"openrate/store/bid"
	"openrate/store/borrow"
	"openrate/store/custody"
	"openrate/store/market"
	"openrate/store/operation"
	"openrate/store/vault"

	"github.com/fox-one/pkg/store/db"
)

type session struct {
	assets     core.IAssetStore
	markets    core.IMarketStore
	vaults     core.IVaultStore
	bids       core.IBidStore
	borrows    core.IBorrowStore
	accounts   core.ICustodyStore
	operations core.IOperationStore
}

func newSession(db *db.DB) *session {
	return &session{
		assets:     asset.New(db),
		markets:    market.New(db),
		vaults:     vault.New(db),
		bids:       bid.New(db),
		borrows:    borrow.New(db),
		accounts:   custody.New(db),
		operations: operation.New(db),
	}
}

func (s *session) Assets() core.IAssetStore         { return s.assets }
func (s *session) Markets() core.IMarketStore       { return s.markets }
func (s *session) Vaults() core.IVaultStore         { return s.vaults }
func (s *session) Bids() core.IBidStore             { return s.bids }
func (s *session) Borrows() core.IBorrowStore       { return s.borrows }
func (s *session) Accounts() core.ICustodyStore     { return s.accounts }
func (s *session) Operations() core.IOperationStore { return s.operations }

type ledgerStore struct {
	*session
	db *db.DB
}

// New new sql ledger store
//
// Reads outside Tx go through markets, typically a cached market store.
func New(db *db.DB, markets core.IMarketStore) core.ILedgerStore {
	s := newSession(db)
	if markets != nil {
		s.markets = markets
	}

	return &ledgerStore{session: s, db: db}
}

func (s *ledgerStore) Tx(ctx context.Context, fn func(tx core.Session) error) error {
	return s.db.Tx(func(tx *db.DB) error {
		return fn(newSession(tx))
	})
}
