package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"openrate/core"
	"openrate/pkg/client"
	"openrate/pkg/id"
	"openrate/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var clientFlags struct {
	caller   string
	endpoint string
}

func init() {
	rootCmd.PersistentFlags().StringVar(&clientFlags.caller, "caller", "", "caller id sent to the api")
	rootCmd.PersistentFlags().StringVar(&clientFlags.endpoint, "endpoint", "", "api endpoint, default from config")
}

func provideClient() *client.Client {
	endpoint := clientFlags.endpoint
	if endpoint == "" {
		endpoint = cfg.Client.Endpoint
	}

	return client.New(endpoint, clientFlags.caller)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	cmd.Println(string(data))
	return nil
}

// traceID the --trace flag or a new trace id
func traceID(cmd *cobra.Command) string {
	if trace, _ := cmd.Flags().GetString("trace"); trace != "" {
		return trace
	}

	return id.GenTraceID()
}

func assetDecimals(ctx context.Context, c *client.Client, assetID string) (int32, error) {
	assets, err := c.Assets(ctx)
	if err != nil {
		return 0, err
	}

	for _, asset := range assets {
		if asset.ID == assetID {
			return asset.Decimals, nil
		}
	}

	return 0, core.ErrAssetNotFound
}

// parseUnits human readable amount to base units of the asset
func parseUnits(amount string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	return number.Units(d, decimals)
}

// parseRate percent rate to bps, "2.5" => 250
func parseRate(rate string) (uint16, error) {
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q: %w", rate, err)
	}

	return number.Bps(d)
}

func marketUnits(ctx context.Context, c *client.Client, marketID, amount string) (uint64, error) {
	market, err := c.Market(ctx, marketID)
	if err != nil {
		return 0, err
	}

	return parseUnits(amount, market.Decimals)
}
