package custody

import (
	"context"
	"errors"
	"openrate/core"
	"openrate/pkg/number"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

type service struct {
	now func() time.Time
}

// New new custody service
func New() core.ICustodyService {
	return &service{now: time.Now}
}

func (s *service) OpenAccount(ctx context.Context, accounts core.ICustodyStore, id, owner, assetID string) (*core.CustodyAccount, error) {
	account, err := accounts.Find(ctx, id)
	if err == nil {
		return account, nil
	} else if err != core.ErrAccountNotFound {
		logger.FromContext(ctx).WithError(err).Errorln("accounts.Find")
		return nil, err
	}

	account = &core.CustodyAccount{
		ID:        id,
		Owner:     owner,
		AssetID:   assetID,
		CreatedAt: s.now().UTC(),
	}

	if err := accounts.Create(ctx, account); err != nil {
		logFailure(logger.FromContext(ctx), err, "accounts.Create")
		return nil, err
	}

	return account, nil
}

func (s *service) Deposit(ctx context.Context, accounts core.ICustodyStore, traceID, accountID string, amount uint64) (*core.CustodyTransfer, error) {
	if amount == 0 {
		return nil, core.ErrInvalidAmount
	}

	account, err := accounts.Find(ctx, accountID)
	if err != nil {
		return nil, err
	}

	balance, ok := number.SafeAdd(account.Balance, amount)
	if !ok {
		return nil, core.ErrMathError
	}

	account.Balance = balance
	if err := accounts.Update(ctx, account); err != nil {
		logFailure(logger.FromContext(ctx), err, "accounts.Update")
		return nil, err
	}

	transfer := &core.CustodyTransfer{
		TraceID:   traceID,
		ToAccount: account.ID,
		AssetID:   account.AssetID,
		Amount:    amount,
		CreatedAt: s.now().UTC(),
	}

	if err := accounts.CreateTransfer(ctx, transfer); err != nil {
		logFailure(logger.FromContext(ctx), err, "accounts.CreateTransfer")
		return nil, err
	}

	return transfer, nil
}

func (s *service) Transfer(ctx context.Context, accounts core.ICustodyStore, transfer *core.CustodyTransfer) error {
	log := logger.FromContext(ctx).WithField("trace", transfer.TraceID)

	if transfer.Amount == 0 {
		return core.ErrInvalidAmount
	}

	if transfer.FromAccount == transfer.ToAccount {
		return core.ErrInvalidArgument
	}

	from, err := accounts.Find(ctx, transfer.FromAccount)
	if err != nil {
		return err
	}

	to, err := accounts.Find(ctx, transfer.ToAccount)
	if err != nil {
		return err
	}

	if from.AssetID != transfer.AssetID || to.AssetID != transfer.AssetID {
		return core.ErrInvalidAssetBinding
	}

	if from.Owner != transfer.Authority {
		log.Debugf("authority %s does not own %s", transfer.Authority, from.ID)
		return core.ErrUnauthorizedTransfer
	}

	debit, ok := number.SafeSub(from.Balance, transfer.Amount)
	if !ok {
		return core.ErrInsufficientFunds
	}

	credit, ok := number.SafeAdd(to.Balance, transfer.Amount)
	if !ok {
		return core.ErrMathError
	}

	from.Balance = debit
	if err := accounts.Update(ctx, from); err != nil {
		logFailure(log, err, "accounts.Update")
		return err
	}

	to.Balance = credit
	if err := accounts.Update(ctx, to); err != nil {
		logFailure(log, err, "accounts.Update")
		return err
	}

	transfer.CreatedAt = s.now().UTC()
	if err := accounts.CreateTransfer(ctx, transfer); err != nil {
		logFailure(log, err, "accounts.CreateTransfer")
		return err
	}

	return nil
}

// logFailure rejections carrying an ErrorCode are logged at debug level
func logFailure(log *logrus.Entry, err error, op string) {
	var code core.ErrorCode
	if errors.As(err, &code) {
		log.WithError(err).Debugln(op)
		return
	}

	log.WithError(err).Errorln(op)
}
