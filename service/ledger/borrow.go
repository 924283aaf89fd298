package ledger

import (
	"context"
	"openrate/core"
	"openrate/pkg/id"

	"github.com/fox-one/pkg/logger"
)

func (s *service) Borrow(ctx context.Context, input *core.BorrowInput) (*core.BorrowRecord, error) {
	if err := validIDs(input.Borrower, input.BidID, input.TraceID); err != nil {
		return nil, err
	}

	if input.Amount == 0 {
		return nil, core.ErrInvalidAmount
	}

	borrowID, err := id.BorrowRecord(input.BidID, input.Borrower, input.TraceID)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).WithField("borrow", borrowID)
	ctx = logger.WithContext(ctx, log)

	var borrow *core.BorrowRecord
	err = s.transition(ctx, core.ActionTypeBorrow, func(tx core.Session) error {
		bid, err := tx.Bids().Find(ctx, input.BidID)
		if err != nil {
			return err
		}

		next := *bid
		if err := next.Fill(input.Amount); err != nil {
			return err
		}

		market, err := tx.Markets().Find(ctx, bid.MarketID)
		if err != nil {
			return err
		}

		destination, err := s.destination(ctx, tx, market, input.DestinationAccount, input.Borrower, core.ErrUnauthorizedBorrower)
		if err != nil {
			return err
		}

		vault, custody, err := s.vault(ctx, tx, market)
		if err != nil {
			return err
		}

		if _, err := tx.Borrows().Find(ctx, borrowID); err == nil {
			return core.ErrDuplicateTrace
		} else if err != core.ErrBorrowNotFound {
			return err
		}

		if err := s.transfer(ctx, tx, input.TraceID, custody, destination, input.Amount, vault.Authority); err != nil {
			return err
		}

		if err := tx.Bids().Update(ctx, &next); err != nil {
			return err
		}

		borrow = &core.BorrowRecord{
			ID:        borrowID,
			Borrower:  input.Borrower,
			MarketID:  market.ID,
			BidID:     bid.ID,
			Principal: input.Amount,
			RateBps:   bid.RateBps,
			StartTime: s.now(),
		}

		if err := tx.Borrows().Create(ctx, borrow); err != nil {
			return err
		}

		op := &core.Operation{
			TraceID:  input.TraceID,
			Action:   core.ActionTypeBorrow,
			UserID:   input.Borrower,
			MarketID: market.ID,
			RecordID: borrowID,
			Amount:   input.Amount,
		}
		op.SetData(map[string]interface{}{
			"bid_id":     bid.ID,
			"rate_bps":   bid.RateBps,
			"bid_filled": next.FilledAmount,
		})

		return s.record(ctx, tx, op)
	})

	if err != nil {
		return nil, err
	}

	log.Infof("borrowed %d at %d bps", borrow.Principal, borrow.RateBps)
	return borrow, nil
}

func (s *service) Repay(ctx context.Context, input *core.RepayInput) (*core.BorrowRecord, error) {
	if err := validIDs(input.Borrower, input.BorrowID); err != nil {
		return nil, err
	}

	if input.BidID != "" && !id.Valid(input.BidID) {
		return nil, core.ErrInvalidArgument
	}

	traceID, err := traceOrDerive(input.TraceID, input.BorrowID, "repay")
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).WithField("borrow", input.BorrowID)
	ctx = logger.WithContext(ctx, log)

	var borrow *core.BorrowRecord
	err = s.transition(ctx, core.ActionTypeRepay, func(tx core.Session) error {
		stored, err := tx.Borrows().Find(ctx, input.BorrowID)
		if err != nil {
			return err
		}

		if input.BidID != "" && input.BidID != stored.BidID {
			return core.ErrBidMismatch
		}

		if stored.Borrower != input.Borrower {
			return core.ErrUnauthorizedBorrower
		}

		if stored.Repaid {
			return core.ErrAlreadyRepaid
		}

		bid, err := tx.Bids().Find(ctx, stored.BidID)
		if err != nil {
			return err
		}

		nextBid := *bid
		if err := nextBid.Restore(stored.Principal); err != nil {
			return err
		}

		market, err := tx.Markets().Find(ctx, bid.MarketID)
		if err != nil {
			return err
		}

		source, err := s.account(ctx, tx, market, input.SourceAccount)
		if err != nil {
			return err
		}

		_, custody, err := s.vault(ctx, tx, market)
		if err != nil {
			return err
		}

		if err := s.transfer(ctx, tx, traceID, source, custody, stored.Principal, input.Borrower); err != nil {
			return err
		}

		next := *stored
		next.Repaid = true
		next.RepaidAt = s.now()
		if err := tx.Borrows().Update(ctx, &next); err != nil {
			return err
		}

		if err := tx.Bids().Update(ctx, &nextBid); err != nil {
			return err
		}

		borrow = &next
		op := &core.Operation{
			TraceID:  traceID,
			Action:   core.ActionTypeRepay,
			UserID:   input.Borrower,
			MarketID: market.ID,
			RecordID: borrow.ID,
			Amount:   borrow.Principal,
		}
		op.SetData(map[string]interface{}{
			"bid_id":        bid.ID,
			"bid_cancelled": bid.Cancelled,
		})

		return s.record(ctx, tx, op)
	})

	if err != nil {
		return nil, err
	}

	log.Infof("repaid %d", borrow.Principal)
	return borrow, nil
}
