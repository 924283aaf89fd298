package ledger

import (
	"context"
	"openrate/core"
	"openrate/pkg/id"
	"openrate/service/audit"
	"openrate/service/custody"
	"openrate/store/memory"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *memory.DB
	custody core.ICustodyService
	ledger  core.ILedgerService
	auditor core.IAuditService

	asset  string
	market *core.Market
	vault  *core.Vault

	lender, lenderAccount     string
	borrower, borrowerAccount string
}

func newFixture(t *testing.T) *fixture {
	ctx := context.Background()
	store := memory.New()
	custodySrv := custody.New()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f := &fixture{
		t:        t,
		ctx:      ctx,
		store:    store,
		custody:  custodySrv,
		ledger:   New(store, custodySrv, WithNowFunc(func() time.Time { return now })),
		auditor:  audit.New(store),
		asset:    id.GenTraceID(),
		lender:   id.GenTraceID(),
		borrower: id.GenTraceID(),
	}

	require.Nil(t, store.Assets().Save(ctx, &core.Asset{ID: f.asset, Symbol: "USDC", Decimals: 6}))

	market, vault, err := f.ledger.InitializeMarket(ctx, &core.InitializeMarketInput{
		AssetID:   f.asset,
		Authority: id.GenTraceID(),
	})
	require.Nil(t, err)
	f.market, f.vault = market, vault

	f.lenderAccount = f.openAccount(f.lender, f.asset, 10000)
	f.borrowerAccount = f.openAccount(f.borrower, f.asset, 0)
	return f
}

func (f *fixture) openAccount(owner, asset string, deposit uint64) string {
	account, err := f.custody.OpenAccount(f.ctx, f.store.Accounts(), id.GenTraceID(), owner, asset)
	require.Nil(f.t, err)

	if deposit > 0 {
		_, err = f.custody.Deposit(f.ctx, f.store.Accounts(), id.GenTraceID(), account.ID, deposit)
		require.Nil(f.t, err)
	}

	return account.ID
}

func (f *fixture) balance(accountID string) uint64 {
	account, err := f.store.Accounts().Find(f.ctx, accountID)
	require.Nil(f.t, err)
	return account.Balance
}

func (f *fixture) bid(bidID string) *core.BidOrder {
	bid, err := f.store.Bids().Find(f.ctx, bidID)
	require.Nil(f.t, err)
	return bid
}

func (f *fixture) placeBid(amount uint64, rate uint16) *core.BidOrder {
	bid, err := f.ledger.PlaceBid(f.ctx, &core.PlaceBidInput{
		Lender:        f.lender,
		SourceAccount: f.lenderAccount,
		MarketID:      f.market.ID,
		Amount:        amount,
		RateBps:       rate,
		TraceID:       id.GenTraceID(),
	})
	require.Nil(f.t, err)
	return bid
}

func (f *fixture) borrow(bidID string, amount uint64) (*core.BorrowRecord, error) {
	return f.ledger.Borrow(f.ctx, &core.BorrowInput{
		Borrower:           f.borrower,
		DestinationAccount: f.borrowerAccount,
		BidID:              bidID,
		Amount:             amount,
		TraceID:            id.GenTraceID(),
	})
}

func (f *fixture) repay(borrowID string) (*core.BorrowRecord, error) {
	return f.ledger.Repay(f.ctx, &core.RepayInput{
		Borrower:      f.borrower,
		SourceAccount: f.borrowerAccount,
		BorrowID:      borrowID,
	})
}

func (f *fixture) cancel(bidID string) (*core.BidOrder, error) {
	return f.ledger.CancelBid(f.ctx, &core.WithdrawInput{
		Lender:             f.lender,
		DestinationAccount: f.lenderAccount,
		BidID:              bidID,
	})
}

func (f *fixture) reclaim(bidID string) (*core.BidOrder, error) {
	return f.ledger.ReclaimRepaid(f.ctx, &core.WithdrawInput{
		Lender:             f.lender,
		DestinationAccount: f.lenderAccount,
		BidID:              bidID,
	})
}

func (f *fixture) assertHealthy() {
	report, err := f.auditor.Audit(f.ctx, f.market.ID)
	require.Nil(f.t, err)
	assert.True(f.t, report.Healthy(), "balance %d expected %d mismatches %v", report.Balance, report.Expected, report.Mismatches)
}

func TestInitializeMarket(t *testing.T) {
	f := newFixture(t)

	marketID, _ := id.Market(f.asset)
	authority, _ := id.VaultAuthority(marketID, id.DeriveVersion)
	assert.Equal(t, marketID, f.market.ID)
	assert.Equal(t, f.vault.ID, f.market.VaultID)
	assert.Equal(t, authority, f.vault.Authority)

	account, err := f.store.Accounts().Find(f.ctx, f.vault.CustodyAccount)
	require.Nil(t, err)
	assert.Equal(t, authority, account.Owner)
	assert.Equal(t, f.asset, account.AssetID)

	_, _, err = f.ledger.InitializeMarket(f.ctx, &core.InitializeMarketInput{AssetID: f.asset, Authority: id.GenTraceID()})
	assert.Equal(t, core.ErrDuplicateMarket, err)

	_, _, err = f.ledger.InitializeMarket(f.ctx, &core.InitializeMarketInput{AssetID: id.GenTraceID(), Authority: id.GenTraceID()})
	assert.Equal(t, core.ErrAssetNotFound, err)
}

func TestScenario(t *testing.T) {
	f := newFixture(t)

	bid := f.placeBid(5000, 300)
	assert.EqualValues(t, 5000, f.balance(f.vault.CustodyAccount))
	assert.EqualValues(t, 5000, f.balance(f.lenderAccount))

	first, err := f.borrow(bid.ID, 2000)
	require.Nil(t, err)
	assert.EqualValues(t, 300, first.RateBps)
	assert.EqualValues(t, 2000, f.bid(bid.ID).FilledAmount)
	assert.True(t, f.bid(bid.ID).Active)

	second, err := f.borrow(bid.ID, 3000)
	require.Nil(t, err)
	assert.EqualValues(t, 5000, f.bid(bid.ID).FilledAmount)
	assert.False(t, f.bid(bid.ID).Active)
	assert.EqualValues(t, 0, f.balance(f.vault.CustodyAccount))
	f.assertHealthy()

	_, err = f.repay(first.ID)
	require.Nil(t, err)
	assert.EqualValues(t, 3000, f.bid(bid.ID).FilledAmount)
	assert.True(t, f.bid(bid.ID).Active)
	f.assertHealthy()

	cancelled, err := f.cancel(bid.ID)
	require.Nil(t, err)
	assert.EqualValues(t, 5000, cancelled.FilledAmount)
	assert.False(t, cancelled.Active)
	assert.True(t, cancelled.Cancelled)
	assert.EqualValues(t, 7000, f.balance(f.lenderAccount))
	assert.EqualValues(t, 0, f.balance(f.vault.CustodyAccount))
	f.assertHealthy()

	// the late repay of the second loan never reopens the bid
	_, err = f.repay(second.ID)
	require.Nil(t, err)
	stored := f.bid(bid.ID)
	assert.False(t, stored.Active)
	assert.EqualValues(t, 3000, stored.Reclaimable)
	f.assertHealthy()

	_, err = f.borrow(bid.ID, 1)
	assert.Equal(t, core.ErrBidInactive, err)

	_, err = f.reclaim(bid.ID)
	require.Nil(t, err)
	assert.EqualValues(t, 10000, f.balance(f.lenderAccount))
	assert.EqualValues(t, 0, f.balance(f.borrowerAccount))
	f.assertHealthy()

	_, err = f.reclaim(bid.ID)
	assert.Equal(t, core.ErrNoFundsToWithdraw, err)

	ops, err := f.store.Operations().List(f.ctx, core.OperationQuery{MarketID: f.market.ID})
	require.Nil(t, err)
	// initialize, place, 2 borrows, 2 repays, cancel, reclaim
	assert.Len(t, ops, 8)
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t)
	bid := f.placeBid(1000, 500)

	borrow, err := f.borrow(bid.ID, 1000)
	require.Nil(t, err)
	assert.EqualValues(t, 1000, f.bid(bid.ID).FilledAmount)
	assert.False(t, f.bid(bid.ID).Active)

	repaid, err := f.repay(borrow.ID)
	require.Nil(t, err)
	assert.True(t, repaid.Repaid)
	assert.False(t, repaid.RepaidAt.IsZero())
	assert.EqualValues(t, 0, f.bid(bid.ID).FilledAmount)
	assert.True(t, f.bid(bid.ID).Active)

	_, err = f.repay(borrow.ID)
	assert.Equal(t, core.ErrAlreadyRepaid, err)
	f.assertHealthy()
}

func TestBorrowBoundary(t *testing.T) {
	f := newFixture(t)
	bid := f.placeBid(1000, 500)

	_, err := f.borrow(bid.ID, 400)
	require.Nil(t, err)

	_, err = f.borrow(bid.ID, 601)
	assert.Equal(t, core.ErrInsufficientBidLiquidity, err)
	assert.EqualValues(t, 400, f.bid(bid.ID).FilledAmount)

	_, err = f.borrow(bid.ID, 600)
	require.Nil(t, err)
	assert.False(t, f.bid(bid.ID).Active)

	_, err = f.borrow(bid.ID, 1)
	assert.Equal(t, core.ErrBidInactive, err)

	_, err = f.borrow(bid.ID, 0)
	assert.Equal(t, core.ErrInvalidAmount, err)
	f.assertHealthy()
}

func TestCancelTwice(t *testing.T) {
	f := newFixture(t)
	bid := f.placeBid(1000, 500)

	_, err := f.cancel(bid.ID)
	require.Nil(t, err)
	assert.EqualValues(t, 10000, f.balance(f.lenderAccount))

	_, err = f.cancel(bid.ID)
	assert.Equal(t, core.ErrBidInactive, err)
	assert.EqualValues(t, 10000, f.balance(f.lenderAccount))
	f.assertHealthy()
}

func TestRejectedHaveNoEffect(t *testing.T) {
	f := newFixture(t)
	bid := f.placeBid(1000, 500)
	loan, err := f.borrow(bid.ID, 300)
	require.Nil(t, err)

	otherAsset := id.GenTraceID()
	require.Nil(t, f.store.Assets().Save(f.ctx, &core.Asset{ID: otherAsset, Symbol: "BTC", Decimals: 8}))
	foreignAccount := f.openAccount(f.borrower, otherAsset, 5000)
	poorAccount := f.openAccount(f.lender, f.asset, 10)
	stranger := id.GenTraceID()

	cases := map[string]struct {
		run func() error
		err error
	}{
		"borrow into foreign asset": {func() error {
			_, err := f.ledger.Borrow(f.ctx, &core.BorrowInput{Borrower: f.borrower, DestinationAccount: foreignAccount, BidID: bid.ID, Amount: 10, TraceID: id.GenTraceID()})
			return err
		}, core.ErrInvalidAssetBinding},
		"borrow into lender's account": {func() error {
			_, err := f.ledger.Borrow(f.ctx, &core.BorrowInput{Borrower: f.borrower, DestinationAccount: f.lenderAccount, BidID: bid.ID, Amount: 10, TraceID: id.GenTraceID()})
			return err
		}, core.ErrUnauthorizedBorrower},
		"cancel into borrower's account": {func() error {
			_, err := f.ledger.CancelBid(f.ctx, &core.WithdrawInput{Lender: f.lender, DestinationAccount: f.borrowerAccount, BidID: bid.ID})
			return err
		}, core.ErrUnauthorizedLender},
		"repay by stranger": {func() error {
			_, err := f.ledger.Repay(f.ctx, &core.RepayInput{Borrower: stranger, SourceAccount: f.borrowerAccount, BorrowID: loan.ID})
			return err
		}, core.ErrUnauthorizedBorrower},
		"repay against other bid": {func() error {
			_, err := f.ledger.Repay(f.ctx, &core.RepayInput{Borrower: f.borrower, SourceAccount: f.borrowerAccount, BorrowID: loan.ID, BidID: id.GenTraceID()})
			return err
		}, core.ErrBidMismatch},
		"repay from foreign asset": {func() error {
			_, err := f.ledger.Repay(f.ctx, &core.RepayInput{Borrower: f.borrower, SourceAccount: foreignAccount, BorrowID: loan.ID})
			return err
		}, core.ErrInvalidAssetBinding},
		"cancel by stranger": {func() error {
			_, err := f.ledger.CancelBid(f.ctx, &core.WithdrawInput{Lender: stranger, DestinationAccount: f.lenderAccount, BidID: bid.ID})
			return err
		}, core.ErrUnauthorizedLender},
		"place bid from someone else's account": {func() error {
			_, err := f.ledger.PlaceBid(f.ctx, &core.PlaceBidInput{Lender: stranger, SourceAccount: f.lenderAccount, MarketID: f.market.ID, Amount: 10, TraceID: id.GenTraceID()})
			return err
		}, core.ErrUnauthorizedTransfer},
		"place bid over balance": {func() error {
			_, err := f.ledger.PlaceBid(f.ctx, &core.PlaceBidInput{Lender: f.lender, SourceAccount: poorAccount, MarketID: f.market.ID, Amount: 11, TraceID: id.GenTraceID()})
			return err
		}, core.ErrInsufficientFunds},
		"place bid on missing market": {func() error {
			_, err := f.ledger.PlaceBid(f.ctx, &core.PlaceBidInput{Lender: f.lender, SourceAccount: f.lenderAccount, MarketID: id.GenTraceID(), Amount: 10, TraceID: id.GenTraceID()})
			return err
		}, core.ErrMarketNotFound},
		"repay reusing a trace": {func() error {
			ops, err := f.store.Operations().List(f.ctx, core.OperationQuery{MarketID: f.market.ID, Limit: 1})
			require.Nil(t, err)
			_, err = f.ledger.Repay(f.ctx, &core.RepayInput{Borrower: f.borrower, SourceAccount: f.borrowerAccount, BorrowID: loan.ID, TraceID: ops[0].TraceID})
			return err
		}, core.ErrDuplicateTrace},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			before, err := f.store.Snapshot()
			require.Nil(t, err)
			balances := []uint64{f.balance(f.lenderAccount), f.balance(f.borrowerAccount), f.balance(f.vault.CustodyAccount)}

			assert.Equal(t, c.err, c.run())

			after, err := f.store.Snapshot()
			require.Nil(t, err)
			assert.Equal(t, balances, []uint64{f.balance(f.lenderAccount), f.balance(f.borrowerAccount), f.balance(f.vault.CustodyAccount)})
			assert.Equal(t, len(before), len(after))
			assert.Equal(t, *loan, *f.mustBorrow(loan.ID))
		})
	}

	f.assertHealthy()
}

func (f *fixture) mustBorrow(borrowID string) *core.BorrowRecord {
	borrow, err := f.store.Borrows().Find(f.ctx, borrowID)
	require.Nil(f.t, err)
	return borrow
}

func TestInvalidVaultAuthority(t *testing.T) {
	f := newFixture(t)

	asset := id.GenTraceID()
	require.Nil(t, f.store.Assets().Save(f.ctx, &core.Asset{ID: asset, Symbol: "ETH", Decimals: 8}))

	marketID, _ := id.Market(asset)
	vaultID, _ := id.Vault(asset)
	custodyID, _ := id.VaultCustody(vaultID)
	forged := id.GenTraceID()

	require.Nil(t, f.store.Tx(f.ctx, func(tx core.Session) error {
		if _, err := f.custody.OpenAccount(f.ctx, tx.Accounts(), custodyID, forged, asset); err != nil {
			return err
		}

		if err := tx.Markets().Create(f.ctx, &core.Market{ID: marketID, Authority: forged, AssetID: asset, VaultID: vaultID, DeriveVersion: id.DeriveVersion}); err != nil {
			return err
		}

		return tx.Vaults().Create(f.ctx, &core.Vault{ID: vaultID, MarketID: marketID, Authority: forged, CustodyAccount: custodyID, AssetID: asset, DeriveVersion: id.DeriveVersion})
	}))

	source := f.openAccount(f.lender, asset, 100)
	_, err := f.ledger.PlaceBid(f.ctx, &core.PlaceBidInput{Lender: f.lender, SourceAccount: source, MarketID: marketID, Amount: 10, TraceID: id.GenTraceID()})
	assert.Equal(t, core.ErrInvalidVaultAuthority, err)
	assert.EqualValues(t, 100, f.balance(source))
}

func TestInitializeMarketAssetBinding(t *testing.T) {
	f := newFixture(t)

	asset, otherAsset := id.GenTraceID(), id.GenTraceID()
	require.Nil(t, f.store.Assets().Save(f.ctx, &core.Asset{ID: asset, Symbol: "SOL", Decimals: 9}))
	require.Nil(t, f.store.Assets().Save(f.ctx, &core.Asset{ID: otherAsset, Symbol: "BTC", Decimals: 8}))

	// the derived custody account already exists holding another asset
	marketID, _ := id.Market(asset)
	vaultID, _ := id.Vault(asset)
	authority, _ := id.VaultAuthority(marketID, id.DeriveVersion)
	custodyID, _ := id.VaultCustody(vaultID)
	_, err := f.custody.OpenAccount(f.ctx, f.store.Accounts(), custodyID, authority, otherAsset)
	require.Nil(t, err)

	_, _, err = f.ledger.InitializeMarket(f.ctx, &core.InitializeMarketInput{AssetID: asset, Authority: id.GenTraceID()})
	assert.Equal(t, core.ErrInvalidAssetBinding, err)

	_, err = f.store.Markets().Find(f.ctx, marketID)
	assert.Equal(t, core.ErrMarketNotFound, err)
	_, err = f.store.Vaults().Find(f.ctx, vaultID)
	assert.NotNil(t, err)
}
