package audit

import (
	"context"
	"openrate/core"
	"openrate/pkg/number"
	"time"

	"github.com/fox-one/pkg/logger"
)

type service struct {
	store core.ILedgerStore
}

// New new vault audit service
func New(store core.ILedgerStore) core.IAuditService {
	return &service{store: store}
}

// Audit check the market's vault against its bids and open loans
//
// The vault balance must equal the unfilled amount of every live bid plus
// the reclaimable amount of every cancelled bid, and a live bid's filled
// amount must equal the principal of its open loans.
func (s *service) Audit(ctx context.Context, marketID string) (*core.AuditReport, error) {
	log := logger.FromContext(ctx).WithField("market", marketID)

	report := &core.AuditReport{MarketID: marketID}
	err := s.store.Tx(ctx, func(tx core.Session) error {
		market, err := tx.Markets().Find(ctx, marketID)
		if err != nil {
			return err
		}

		vault, err := tx.Vaults().Find(ctx, market.VaultID)
		if err != nil {
			return err
		}

		account, err := tx.Accounts().Find(ctx, vault.CustodyAccount)
		if err != nil {
			return err
		}

		report.VaultID = vault.ID
		report.Balance = account.Balance

		bids, err := tx.Bids().List(ctx, core.BidQuery{MarketID: market.ID})
		if err != nil {
			log.WithError(err).Errorln("bids.List")
			return err
		}

		for _, bid := range bids {
			owed := bid.Reclaimable
			if !bid.Cancelled {
				owed = number.SaturatingSub(bid.Amount, bid.FilledAmount)

				outstanding, err := s.outstanding(ctx, tx, bid.ID)
				if err != nil {
					return err
				}

				if outstanding != bid.FilledAmount {
					report.Mismatches = append(report.Mismatches, &core.BidAudit{
						BidID:       bid.ID,
						Filled:      bid.FilledAmount,
						Outstanding: outstanding,
					})
				}
			}

			expected, ok := number.SafeAdd(report.Expected, owed)
			if !ok {
				return core.ErrMathError
			}

			report.Expected = expected
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	report.CheckedAt = time.Now().UTC()
	return report, nil
}

func (s *service) outstanding(ctx context.Context, tx core.Session, bidID string) (uint64, error) {
	borrows, err := tx.Borrows().List(ctx, core.BorrowQuery{BidID: bidID, OpenOnly: true})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("borrows.List")
		return 0, err
	}

	var sum uint64
	for _, borrow := range borrows {
		var ok bool
		if sum, ok = number.SafeAdd(sum, borrow.Principal); !ok {
			return 0, core.ErrMathError
		}
	}

	return sum, nil
}
