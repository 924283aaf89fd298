package core

import "context"

// Session stores bound to one unit of work
type Session interface {
	Assets() IAssetStore
	Markets() IMarketStore
	Vaults() IVaultStore
	Bids() IBidStore
	Borrows() IBorrowStore
	Accounts() ICustodyStore
	Operations() IOperationStore
}

// ILedgerStore ledger store interface
type ILedgerStore interface {
	Session
	// Tx run fn in one unit of work, any error rolls back every write made through tx
	Tx(ctx context.Context, fn func(tx Session) error) error
}

type (
	// InitializeMarketInput initialize market params
	InitializeMarketInput struct {
		AssetID   string `json:"asset_id"`
		Authority string `json:"authority"`
		TraceID   string `json:"trace_id,omitempty"`
	}

	// PlaceBidInput place bid params
	PlaceBidInput struct {
		Lender        string `json:"lender"`
		SourceAccount string `json:"source_account"`
		MarketID      string `json:"market_id"`
		Amount        uint64 `json:"amount"`
		RateBps       uint16 `json:"rate_bps"`
		TraceID       string `json:"trace_id"`
	}

	// BorrowInput borrow params
	BorrowInput struct {
		Borrower           string `json:"borrower"`
		DestinationAccount string `json:"destination_account"`
		BidID              string `json:"bid_id"`
		Amount             uint64 `json:"amount"`
		TraceID            string `json:"trace_id"`
	}

	// RepayInput repay params, BidID is optional
	RepayInput struct {
		Borrower      string `json:"borrower"`
		SourceAccount string `json:"source_account"`
		BorrowID      string `json:"borrow_id"`
		BidID         string `json:"bid_id,omitempty"`
		TraceID       string `json:"trace_id,omitempty"`
	}

	// WithdrawInput cancel bid and reclaim params
	WithdrawInput struct {
		Lender             string `json:"lender"`
		DestinationAccount string `json:"destination_account"`
		BidID              string `json:"bid_id"`
		TraceID            string `json:"trace_id,omitempty"`
	}
)

// ILedgerService ledger transitions
//
// Every call either commits all of its effects or none of them.
type ILedgerService interface {
	InitializeMarket(ctx context.Context, input *InitializeMarketInput) (*Market, *Vault, error)
	PlaceBid(ctx context.Context, input *PlaceBidInput) (*BidOrder, error)
	Borrow(ctx context.Context, input *BorrowInput) (*BorrowRecord, error)
	Repay(ctx context.Context, input *RepayInput) (*BorrowRecord, error)
	CancelBid(ctx context.Context, input *WithdrawInput) (*BidOrder, error)
	ReclaimRepaid(ctx context.Context, input *WithdrawInput) (*BidOrder, error)
}
