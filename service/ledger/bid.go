package ledger

import (
	"context"
	"fmt"
	"openrate/core"
	"openrate/pkg/id"

	"github.com/fox-one/pkg/logger"
)

func (s *service) PlaceBid(ctx context.Context, input *core.PlaceBidInput) (*core.BidOrder, error) {
	if err := validIDs(input.Lender, input.MarketID, input.TraceID); err != nil {
		return nil, err
	}

	if input.Amount == 0 {
		return nil, core.ErrInvalidAmount
	}

	bidID, err := id.BidOrder(input.MarketID, input.Lender, input.TraceID)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).WithField("bid", bidID)
	ctx = logger.WithContext(ctx, log)

	var bid *core.BidOrder
	err = s.transition(ctx, core.ActionTypePlaceBid, func(tx core.Session) error {
		market, err := tx.Markets().Find(ctx, input.MarketID)
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

		if _, err := tx.Bids().Find(ctx, bidID); err == nil {
			return core.ErrDuplicateTrace
		} else if err != core.ErrBidNotFound {
			return err
		}

		if err := s.transfer(ctx, tx, input.TraceID, source, custody, input.Amount, input.Lender); err != nil {
			return err
		}

		bid = &core.BidOrder{
			ID:        bidID,
			Lender:    input.Lender,
			MarketID:  market.ID,
			Amount:    input.Amount,
			RateBps:   input.RateBps,
			Active:    true,
			CreatedAt: s.now(),
		}

		if err := tx.Bids().Create(ctx, bid); err != nil {
			return err
		}

		op := &core.Operation{
			TraceID:  input.TraceID,
			Action:   core.ActionTypePlaceBid,
			UserID:   input.Lender,
			MarketID: market.ID,
			RecordID: bidID,
			Amount:   input.Amount,
		}
		op.SetData(map[string]interface{}{"rate_bps": input.RateBps})

		return s.record(ctx, tx, op)
	})

	if err != nil {
		return nil, err
	}

	log.Infof("bid placed, amount %d rate %d bps", bid.Amount, bid.RateBps)
	return bid, nil
}

func (s *service) CancelBid(ctx context.Context, input *core.WithdrawInput) (*core.BidOrder, error) {
	if err := validIDs(input.Lender, input.BidID); err != nil {
		return nil, err
	}

	traceID, err := traceOrDerive(input.TraceID, input.BidID, "cancel")
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).WithField("bid", input.BidID)
	ctx = logger.WithContext(ctx, log)

	var (
		bid    *core.BidOrder
		refund uint64
	)

	err = s.transition(ctx, core.ActionTypeCancelBid, func(tx core.Session) error {
		stored, err := tx.Bids().Find(ctx, input.BidID)
		if err != nil {
			return err
		}

		if stored.Lender != input.Lender {
			return core.ErrUnauthorizedLender
		}

		next := *stored
		if refund, err = next.Close(); err != nil {
			return err
		}

		market, err := tx.Markets().Find(ctx, stored.MarketID)
		if err != nil {
			return err
		}

		destination, err := s.destination(ctx, tx, market, input.DestinationAccount, input.Lender, core.ErrUnauthorizedLender)
		if err != nil {
			return err
		}

		vault, custody, err := s.vault(ctx, tx, market)
		if err != nil {
			return err
		}

		if err := s.transfer(ctx, tx, traceID, custody, destination, refund, vault.Authority); err != nil {
			return err
		}

		if err := tx.Bids().Update(ctx, &next); err != nil {
			return err
		}

		bid = &next
		return s.record(ctx, tx, &core.Operation{
			TraceID:  traceID,
			Action:   core.ActionTypeCancelBid,
			UserID:   input.Lender,
			MarketID: market.ID,
			RecordID: bid.ID,
			Amount:   refund,
		})
	})

	if err != nil {
		return nil, err
	}

	log.Infof("bid cancelled, refund %d", refund)
	return bid, nil
}

// ReclaimRepaid withdraw principal repaid into the vault after the bid was cancelled
func (s *service) ReclaimRepaid(ctx context.Context, input *core.WithdrawInput) (*core.BidOrder, error) {
	if err := validIDs(input.Lender, input.BidID); err != nil {
		return nil, err
	}

	if input.TraceID != "" && !id.Valid(input.TraceID) {
		return nil, core.ErrInvalidArgument
	}

	log := logger.FromContext(ctx).WithField("bid", input.BidID)
	ctx = logger.WithContext(ctx, log)

	var (
		bid    *core.BidOrder
		amount uint64
	)

	err := s.transition(ctx, core.ActionTypeReclaimRepaid, func(tx core.Session) error {
		stored, err := tx.Bids().Find(ctx, input.BidID)
		if err != nil {
			return err
		}

		if stored.Lender != input.Lender {
			return core.ErrUnauthorizedLender
		}

		next := *stored
		if amount, err = next.TakeReclaimable(); err != nil {
			return err
		}

		// each reclaim bumps the bid version, so the derived trace differs per run
		traceID, err := traceOrDerive(input.TraceID, stored.ID, fmt.Sprintf("reclaim:%d", stored.Version))
		if err != nil {
			return err
		}

		market, err := tx.Markets().Find(ctx, stored.MarketID)
		if err != nil {
			return err
		}

		destination, err := s.destination(ctx, tx, market, input.DestinationAccount, input.Lender, core.ErrUnauthorizedLender)
		if err != nil {
			return err
		}

		vault, custody, err := s.vault(ctx, tx, market)
		if err != nil {
			return err
		}

		if err := s.transfer(ctx, tx, traceID, custody, destination, amount, vault.Authority); err != nil {
			return err
		}

		if err := tx.Bids().Update(ctx, &next); err != nil {
			return err
		}

		bid = &next
		return s.record(ctx, tx, &core.Operation{
			TraceID:  traceID,
			Action:   core.ActionTypeReclaimRepaid,
			UserID:   input.Lender,
			MarketID: market.ID,
			RecordID: bid.ID,
			Amount:   amount,
		})
	})

	if err != nil {
		return nil, err
	}

	log.Infof("repaid principal reclaimed, amount %d", amount)
	return bid, nil
}
