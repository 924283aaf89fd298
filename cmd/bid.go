package cmd

import (
	"openrate/core"

	"github.com/spf13/cobra"
)

var bidCmd = &cobra.Command{
	Use:   "bid",
	Short: "lender bids",
}

var placeBidCmd = &cobra.Command{
	Use:   "place",
	Short: "deposit liquidity at a fixed rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := provideClient()

		marketID, _ := cmd.Flags().GetString("market")
		account, _ := cmd.Flags().GetString("account")
		amount, _ := cmd.Flags().GetString("amount")
		rate, _ := cmd.Flags().GetString("rate")

		units, err := marketUnits(ctx, c, marketID, amount)
		if err != nil {
			return err
		}

		bps, err := parseRate(rate)
		if err != nil {
			return err
		}

		bid, err := c.PlaceBid(ctx, &core.PlaceBidInput{
			SourceAccount: account,
			MarketID:      marketID,
			Amount:        units,
			RateBps:       bps,
			TraceID:       traceID(cmd),
		})
		if err != nil {
			return err
		}

		return printJSON(cmd, bid)
	},
}

var showBidCmd = &cobra.Command{
	Use:   "show <bid id>",
	Short: "show bid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bid, err := provideClient().Bid(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(cmd, bid)
	},
}

func withdrawInput(cmd *cobra.Command, bidID string) *core.WithdrawInput {
	account, _ := cmd.Flags().GetString("account")
	trace, _ := cmd.Flags().GetString("trace")
	return &core.WithdrawInput{
		DestinationAccount: account,
		BidID:              bidID,
		TraceID:            trace,
	}
}

var cancelBidCmd = &cobra.Command{
	Use:   "cancel <bid id>",
	Short: "close the bid and withdraw the unfilled amount",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bid, err := provideClient().CancelBid(cmd.Context(), withdrawInput(cmd, args[0]))
		if err != nil {
			return err
		}

		return printJSON(cmd, bid)
	},
}

var reclaimBidCmd = &cobra.Command{
	Use:   "reclaim <bid id>",
	Short: "withdraw principal repaid after the bid was cancelled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bid, err := provideClient().ReclaimRepaid(cmd.Context(), withdrawInput(cmd, args[0]))
		if err != nil {
			return err
		}

		return printJSON(cmd, bid)
	},
}

func init() {
	rootCmd.AddCommand(bidCmd)
	bidCmd.AddCommand(placeBidCmd, showBidCmd, cancelBidCmd, reclaimBidCmd)

	placeBidCmd.Flags().String("market", "", "market id")
	placeBidCmd.Flags().String("account", "", "source custody account")
	placeBidCmd.Flags().String("amount", "", "amount to lend")
	placeBidCmd.Flags().String("rate", "", "annual rate in percent, 2.5 for 250 bps")
	placeBidCmd.Flags().String("trace", "", "trace id, random by default")
	for _, name := range []string{"market", "account", "amount", "rate"} {
		_ = placeBidCmd.MarkFlagRequired(name)
	}

	for _, c := range []*cobra.Command{cancelBidCmd, reclaimBidCmd} {
		c.Flags().String("account", "", "destination custody account")
		c.Flags().String("trace", "", "trace id, derived from the bid by default")
		_ = c.MarkFlagRequired("account")
	}
}
