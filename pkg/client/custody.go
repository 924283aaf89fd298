package client

import (
	"context"
	"openrate/core"
	"openrate/handler/views"

	"github.com/spf13/cast"
)

func (c *Client) Assets(ctx context.Context) ([]*core.Asset, error) {
	var assets []*core.Asset
	if err := c.get(ctx, "/assets", nil, &assets); err != nil {
		return nil, err
	}

	return assets, nil
}

// SaveAsset register or update an asset, admin only
func (c *Client) SaveAsset(ctx context.Context, asset *core.Asset) error {
	return c.post(ctx, "/assets", asset, nil)
}

// OpenAccount open the caller's custody account of the asset
func (c *Client) OpenAccount(ctx context.Context, assetID string) (*views.Account, error) {
	var account views.Account
	if err := c.post(ctx, "/accounts", map[string]string{"asset_id": assetID}, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

func (c *Client) Account(ctx context.Context, id string) (*views.Account, error) {
	var account views.Account
	if err := c.get(ctx, "/accounts/"+id, nil, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// Accounts list custody accounts held by owner
func (c *Client) Accounts(ctx context.Context, owner string) ([]*views.Account, error) {
	var accounts []*views.Account
	if err := c.get(ctx, "/accounts", map[string]string{"owner": owner}, &accounts); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (c *Client) Transfers(ctx context.Context, query core.TransferQuery) ([]*core.CustodyTransfer, error) {
	params := map[string]string{"from": cast.ToString(query.FromID)}
	if query.Limit > 0 {
		params["limit"] = cast.ToString(query.Limit)
	}

	var transfers []*core.CustodyTransfer
	if err := c.get(ctx, "/accounts/"+query.AccountID+"/transfers", params, &transfers); err != nil {
		return nil, err
	}

	return transfers, nil
}

// Deposit credit the account, admin only
func (c *Client) Deposit(ctx context.Context, accountID, traceID string, amount uint64) (*core.CustodyTransfer, error) {
	var transfer core.CustodyTransfer
	body := map[string]interface{}{"amount": amount, "trace_id": traceID}
	if err := c.post(ctx, "/accounts/"+accountID+"/deposit", body, &transfer); err != nil {
		return nil, err
	}

	return &transfer, nil
}
