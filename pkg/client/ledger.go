package client

import (
	"context"
	"openrate/core"
	"openrate/handler/views"

	"github.com/spf13/cast"
)

// AuditResult vault audit response
type AuditResult struct {
	Report  *core.AuditReport `json:"report"`
	Healthy bool              `json:"healthy"`
}

// InitializeMarket create the market of the asset, caller becomes the market authority
func (c *Client) InitializeMarket(ctx context.Context, assetID, traceID string) (*views.Market, error) {
	var market views.Market
	body := map[string]string{"asset_id": assetID, "trace_id": traceID}
	if err := c.post(ctx, "/markets", body, &market); err != nil {
		return nil, err
	}

	return &market, nil
}

func (c *Client) Markets(ctx context.Context) ([]*views.Market, error) {
	var markets []*views.Market
	if err := c.get(ctx, "/markets", nil, &markets); err != nil {
		return nil, err
	}

	return markets, nil
}

func (c *Client) Market(ctx context.Context, id string) (*views.Market, error) {
	var market views.Market
	if err := c.get(ctx, "/markets/"+id, nil, &market); err != nil {
		return nil, err
	}

	return &market, nil
}

// MarketBids bids of the market ordered by rate
func (c *Client) MarketBids(ctx context.Context, marketID string, activeOnly bool, limit int) ([]*views.Bid, error) {
	query := map[string]string{"active": cast.ToString(activeOnly)}
	if limit > 0 {
		query["limit"] = cast.ToString(limit)
	}

	var bids []*views.Bid
	if err := c.get(ctx, "/markets/"+marketID+"/bids", query, &bids); err != nil {
		return nil, err
	}

	return bids, nil
}

func (c *Client) Audit(ctx context.Context, marketID string) (*AuditResult, error) {
	var result AuditResult
	if err := c.get(ctx, "/markets/"+marketID+"/audit", nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// PlaceBid lender is the caller
func (c *Client) PlaceBid(ctx context.Context, input *core.PlaceBidInput) (*views.Bid, error) {
	var bid views.Bid
	if err := c.post(ctx, "/bids", input, &bid); err != nil {
		return nil, err
	}

	return &bid, nil
}

func (c *Client) Bid(ctx context.Context, id string) (*views.Bid, error) {
	var bid views.Bid
	if err := c.get(ctx, "/bids/"+id, nil, &bid); err != nil {
		return nil, err
	}

	return &bid, nil
}

func (c *Client) CancelBid(ctx context.Context, input *core.WithdrawInput) (*views.Bid, error) {
	var bid views.Bid
	if err := c.post(ctx, "/bids/"+input.BidID+"/cancel", input, &bid); err != nil {
		return nil, err
	}

	return &bid, nil
}

func (c *Client) ReclaimRepaid(ctx context.Context, input *core.WithdrawInput) (*views.Bid, error) {
	var bid views.Bid
	if err := c.post(ctx, "/bids/"+input.BidID+"/reclaim", input, &bid); err != nil {
		return nil, err
	}

	return &bid, nil
}

// Borrow borrower is the caller
func (c *Client) Borrow(ctx context.Context, input *core.BorrowInput) (*views.Borrow, error) {
	var borrow views.Borrow
	if err := c.post(ctx, "/borrows", input, &borrow); err != nil {
		return nil, err
	}

	return &borrow, nil
}

func (c *Client) Repay(ctx context.Context, input *core.RepayInput) (*views.Borrow, error) {
	var borrow views.Borrow
	if err := c.post(ctx, "/borrows/"+input.BorrowID+"/repay", input, &borrow); err != nil {
		return nil, err
	}

	return &borrow, nil
}

func (c *Client) BorrowRecord(ctx context.Context, id string) (*views.Borrow, error) {
	var borrow views.Borrow
	if err := c.get(ctx, "/borrows/"+id, nil, &borrow); err != nil {
		return nil, err
	}

	return &borrow, nil
}

// Borrows list borrow records of a borrower or a bid
func (c *Client) Borrows(ctx context.Context, query core.BorrowQuery) ([]*views.Borrow, error) {
	params := map[string]string{
		"borrower": query.Borrower,
		"bid":      query.BidID,
		"open":     cast.ToString(query.OpenOnly),
	}
	if query.Limit > 0 {
		params["limit"] = cast.ToString(query.Limit)
	}

	var borrows []*views.Borrow
	if err := c.get(ctx, "/borrows", params, &borrows); err != nil {
		return nil, err
	}

	return borrows, nil
}

func (c *Client) Operations(ctx context.Context, query core.OperationQuery) ([]*core.Operation, error) {
	params := map[string]string{
		"user":   query.UserID,
		"market": query.MarketID,
		"from":   cast.ToString(query.FromID),
	}
	if query.Limit > 0 {
		params["limit"] = cast.ToString(query.Limit)
	}

	var ops []*core.Operation
	if err := c.get(ctx, "/operations", params, &ops); err != nil {
		return nil, err
	}

	return ops, nil
}
