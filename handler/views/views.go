package views

import (
	"openrate/core"
	"openrate/pkg/number"

	"github.com/shopspring/decimal"
)

func decimalsOf(asset *core.Asset) int32 {
	if asset == nil {
		return 0
	}

	return asset.Decimals
}

// Market market view
type Market struct {
	*core.Market
	Symbol   string      `json:"symbol,omitempty"`
	Decimals int32       `json:"decimals"`
	Vault    *core.Vault `json:"vault,omitempty"`
}

// MarketView market view with vault and asset info
func MarketView(market *core.Market, vault *core.Vault, asset *core.Asset) Market {
	view := Market{Market: market, Vault: vault, Decimals: decimalsOf(asset)}
	if asset != nil {
		view.Symbol = asset.Symbol
	}

	return view
}

// Bid bid view
type Bid struct {
	*core.BidOrder
	Unfilled        uint64          `json:"unfilled"`
	AmountDecimal   decimal.Decimal `json:"amount_decimal"`
	UnfilledDecimal decimal.Decimal `json:"unfilled_decimal"`
	Rate            decimal.Decimal `json:"rate"`
}

// BidView bid view
func BidView(bid *core.BidOrder, asset *core.Asset) Bid {
	decimals := decimalsOf(asset)
	unfilled := number.SaturatingSub(bid.Amount, bid.FilledAmount)
	if bid.Cancelled {
		unfilled = 0
	}

	return Bid{
		BidOrder:        bid,
		Unfilled:        unfilled,
		AmountDecimal:   number.Amount(bid.Amount, decimals),
		UnfilledDecimal: number.Amount(unfilled, decimals),
		Rate:            number.Rate(bid.RateBps),
	}
}

// BidViews bid views
func BidViews(bids []*core.BidOrder, asset *core.Asset) []Bid {
	views := make([]Bid, 0, len(bids))
	for _, bid := range bids {
		views = append(views, BidView(bid, asset))
	}

	return views
}

// Borrow borrow record view
type Borrow struct {
	*core.BorrowRecord
	PrincipalDecimal decimal.Decimal `json:"principal_decimal"`
	Rate             decimal.Decimal `json:"rate"`
}

// BorrowView borrow record view
func BorrowView(borrow *core.BorrowRecord, asset *core.Asset) Borrow {
	return Borrow{
		BorrowRecord:     borrow,
		PrincipalDecimal: number.Amount(borrow.Principal, decimalsOf(asset)),
		Rate:             number.Rate(borrow.RateBps),
	}
}

// Account custody account view
type Account struct {
	*core.CustodyAccount
	BalanceDecimal decimal.Decimal `json:"balance_decimal"`
}

// AccountView custody account view
func AccountView(account *core.CustodyAccount, asset *core.Asset) Account {
	return Account{
		CustodyAccount: account,
		BalanceDecimal: number.Amount(account.Balance, decimalsOf(asset)),
	}
}
