package core

import (
	"context"
	"time"
)

// BidAudit a bid whose filled amount disagrees with its open loans
type BidAudit struct {
	BidID       string `json:"bid_id"`
	Filled      uint64 `json:"filled"`
	Outstanding uint64 `json:"outstanding"`
}

// AuditReport vault check result of one market
type AuditReport struct {
	MarketID string `json:"market_id"`
	VaultID  string `json:"vault_id"`
	// Balance custody account balance of the vault
	Balance uint64 `json:"balance"`
	// Expected unfilled liquidity of live bids plus reclaimable of cancelled bids
	Expected   uint64      `json:"expected"`
	Mismatches []*BidAudit `json:"mismatches,omitempty"`
	CheckedAt  time.Time   `json:"checked_at"`
}

// Healthy balance matches and no bid mismatches
func (r *AuditReport) Healthy() bool {
	return r.Balance == r.Expected && len(r.Mismatches) == 0
}

// IAuditService audit service interface
type IAuditService interface {
	Audit(ctx context.Context, marketID string) (*AuditReport, error)
}
