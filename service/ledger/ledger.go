package ledger

import (
	"context"
	"errors"
	"openrate/core"
	"openrate/pkg/id"
	"openrate/pkg/metrics"
	"time"

	"github.com/fox-one/pkg/logger"
	foxuuid "github.com/fox-one/pkg/uuid"
)

// Option ledger service option
type Option func(s *service)

// WithNowFunc set the clock stamping created_at, start_time and repaid_at
func WithNowFunc(now func() time.Time) Option {
	return func(s *service) {
		s.nowFn = now
	}
}

type service struct {
	store   core.ILedgerStore
	custody core.ICustodyService
	nowFn   func() time.Time
	metrics *metrics.LedgerMetrics
}

// New new ledger service
func New(
	store core.ILedgerStore,
	custody core.ICustodyService,
	opts ...Option,
) core.ILedgerService {
	s := &service{
		store:   store,
		custody: custody,
		nowFn:   time.Now,
		metrics: metrics.Ledger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) now() time.Time {
	return s.nowFn().UTC().Truncate(time.Second)
}

// transition run fn as one unit of work and observe the outcome
func (s *service) transition(ctx context.Context, action core.ActionType, fn func(tx core.Session) error) error {
	start := time.Now()
	err := s.store.Tx(ctx, fn)
	s.metrics.ObserveTransition(action.String(), err, time.Since(start))

	if err != nil {
		log := logger.FromContext(ctx).WithError(err).WithField("action", action.String())
		var code core.ErrorCode
		if errors.As(err, &code) {
			log.Debugln("transition rejected")
		} else {
			log.Errorln("transition aborted")
		}
	}

	return err
}

// vault load the market's vault and its custody account, verifying the binding
func (s *service) vault(ctx context.Context, tx core.Session, market *core.Market) (*core.Vault, *core.CustodyAccount, error) {
	vault, err := tx.Vaults().Find(ctx, market.VaultID)
	if err != nil {
		return nil, nil, err
	}

	authority, err := id.VaultAuthority(market.ID, vault.DeriveVersion)
	if err != nil {
		return nil, nil, err
	}

	if vault.MarketID != market.ID || vault.Authority != authority {
		return nil, nil, core.ErrInvalidVaultAuthority
	}

	account, err := tx.Accounts().Find(ctx, vault.CustodyAccount)
	if err != nil {
		return nil, nil, err
	}

	if account.Owner != vault.Authority {
		return nil, nil, core.ErrInvalidVaultAuthority
	}

	if vault.AssetID != market.AssetID || account.AssetID != market.AssetID {
		return nil, nil, core.ErrInvalidAssetBinding
	}

	return vault, account, nil
}

// account load a caller account holding the market asset
func (s *service) account(ctx context.Context, tx core.Session, market *core.Market, accountID string) (*core.CustodyAccount, error) {
	if !id.Valid(accountID) {
		return nil, core.ErrInvalidArgument
	}

	account, err := tx.Accounts().Find(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if account.AssetID != market.AssetID {
		return nil, core.ErrInvalidAssetBinding
	}

	return account, nil
}

// destination load an account receiving funds, it must belong to owner
func (s *service) destination(ctx context.Context, tx core.Session, market *core.Market, accountID, owner string, unauthorized core.ErrorCode) (*core.CustodyAccount, error) {
	account, err := s.account(ctx, tx, market, accountID)
	if err != nil {
		return nil, err
	}

	if account.Owner != owner {
		return nil, unauthorized
	}

	return account, nil
}

func (s *service) transfer(ctx context.Context, tx core.Session, traceID string, from, to *core.CustodyAccount, amount uint64, authority string) error {
	return s.custody.Transfer(ctx, tx.Accounts(), &core.CustodyTransfer{
		TraceID:     foxuuid.Modify(traceID, "transfer"),
		FromAccount: from.ID,
		ToAccount:   to.ID,
		AssetID:     from.AssetID,
		Amount:      amount,
		Authority:   authority,
	})
}

func (s *service) record(ctx context.Context, tx core.Session, op *core.Operation) error {
	op.CreatedAt = s.now()
	if err := tx.Operations().Create(ctx, op); err != nil {
		logger.FromContext(ctx).WithError(err).Debugln("operations.Create")
		return err
	}

	return nil
}

func traceOrDerive(traceID, ns, name string) (string, error) {
	if traceID != "" {
		if !id.Valid(traceID) {
			return "", core.ErrInvalidArgument
		}

		return traceID, nil
	}

	return id.Derive(ns, name)
}

func validIDs(ids ...string) error {
	for _, v := range ids {
		if !id.Valid(v) {
			return core.ErrInvalidArgument
		}
	}

	return nil
}
