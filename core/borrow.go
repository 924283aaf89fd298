package core

import (
	"context"
	"time"
)

// BorrowRecord one funded loan
type BorrowRecord struct {
	ID        string    `sql:"size:36;PRIMARY_KEY" json:"id"`
	Borrower  string    `sql:"size:36;index:idx_borrows_borrower" json:"borrower"`
	MarketID  string    `sql:"size:36" json:"market_id"`
	BidID     string    `sql:"size:36;index:idx_borrows_bid" json:"bid_id"`
	Principal uint64    `json:"principal"`
	RateBps   uint16    `json:"rate_bps"`
	StartTime time.Time `json:"start_time"`
	Repaid    bool      `json:"repaid"`
	RepaidAt  time.Time `json:"repaid_at"`
	Version   int64     `sql:"default:0" json:"version"`
}

// BorrowQuery borrow record list query
type BorrowQuery struct {
	Borrower string
	BidID    string
	OpenOnly bool
	Limit    int
}

// IBorrowStore borrow record store interface
type IBorrowStore interface {
	Create(ctx context.Context, borrow *BorrowRecord) error
	Find(ctx context.Context, id string) (*BorrowRecord, error)
	Update(ctx context.Context, borrow *BorrowRecord) error
	List(ctx context.Context, query BorrowQuery) ([]*BorrowRecord, error)
}
