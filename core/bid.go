package core

import (
	"context"
	"openrate/pkg/number"
	"time"
)

// BidOrder a lender's standing offer
type BidOrder struct {
	ID           string `sql:"size:36;PRIMARY_KEY" json:"id"`
	Lender       string `sql:"size:36;index:idx_bids_lender" json:"lender"`
	MarketID     string `sql:"size:36;index:idx_bids_market_rate" json:"market_id"`
	Amount       uint64 `json:"amount"`
	FilledAmount uint64 `json:"filled_amount"`
	RateBps      uint16 `sql:"index:idx_bids_market_rate" json:"rate_bps"`
	Active       bool   `json:"is_active"`
	// Cancelled is set once by CancelBid and never cleared
	Cancelled bool `json:"cancelled"`
	// Reclaimable principal repaid after cancellation, owed to the lender
	Reclaimable uint64    `json:"reclaimable"`
	Version     int64     `sql:"default:0" json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

// Unfilled amount still available to borrowers
func (b *BidOrder) Unfilled() (uint64, error) {
	unfilled, ok := number.SafeSub(b.Amount, b.FilledAmount)
	if !ok {
		return 0, ErrMathError
	}

	return unfilled, nil
}

// Fill match amount against the bid
func (b *BidOrder) Fill(amount uint64) error {
	if !b.Active {
		return ErrBidInactive
	}

	unfilled, err := b.Unfilled()
	if err != nil {
		return err
	}

	if amount > unfilled {
		return ErrInsufficientBidLiquidity
	}

	filled, ok := number.SafeAdd(b.FilledAmount, amount)
	if !ok {
		return ErrMathError
	}

	b.FilledAmount = filled
	if b.FilledAmount >= b.Amount {
		b.Active = false
	}

	return nil
}

// Restore give back repaid principal
//
// A cancelled bid stays closed: the principal becomes reclaimable by the lender.
func (b *BidOrder) Restore(principal uint64) error {
	if b.Cancelled {
		reclaimable, ok := number.SafeAdd(b.Reclaimable, principal)
		if !ok {
			return ErrMathError
		}

		b.Reclaimable = reclaimable
		return nil
	}

	b.FilledAmount = number.SaturatingSub(b.FilledAmount, principal)
	if b.FilledAmount < b.Amount {
		b.Active = true
	}

	return nil
}

// Close cancel the bid and return the unfilled amount to withdraw
func (b *BidOrder) Close() (uint64, error) {
	if !b.Active {
		return 0, ErrBidInactive
	}

	unfilled := number.SaturatingSub(b.Amount, b.FilledAmount)
	if unfilled == 0 {
		return 0, ErrNoFundsToWithdraw
	}

	b.FilledAmount = b.Amount
	b.Active = false
	b.Cancelled = true
	return unfilled, nil
}

// TakeReclaimable drain the reclaimable amount
func (b *BidOrder) TakeReclaimable() (uint64, error) {
	if b.Reclaimable == 0 {
		return 0, ErrNoFundsToWithdraw
	}

	amount := b.Reclaimable
	b.Reclaimable = 0
	return amount, nil
}

// BidQuery bid list query
type BidQuery struct {
	MarketID   string
	Lender     string
	ActiveOnly bool
	Limit      int
}

// IBidStore bid store interface
type IBidStore interface {
	Create(ctx context.Context, bid *BidOrder) error
	Find(ctx context.Context, id string) (*BidOrder, error)
	// Update persist bid if its stored version still equals bid.Version, then bumps it
	Update(ctx context.Context, bid *BidOrder) error
	// List bids ordered by rate_bps then created_at, cheapest first
	List(ctx context.Context, query BidQuery) ([]*BidOrder, error)
}
