package cmd

import (
	"github.com/spf13/cobra"
)

var marketCmd = &cobra.Command{
	Use:     "market",
	Aliases: []string{"m"},
	Short:   "lending markets",
}

var initMarketCmd = &cobra.Command{
	Use:   "init <asset id>",
	Short: "initialize the market of an asset, caller becomes the authority",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trace, _ := cmd.Flags().GetString("trace")
		market, err := provideClient().InitializeMarket(cmd.Context(), args[0], trace)
		if err != nil {
			return err
		}

		return printJSON(cmd, market)
	},
}

var listMarketsCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "list markets",
	RunE: func(cmd *cobra.Command, args []string) error {
		markets, err := provideClient().Markets(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(cmd, markets)
	},
}

var showMarketCmd = &cobra.Command{
	Use:   "show <market id>",
	Short: "show market and vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		market, err := provideClient().Market(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(cmd, market)
	},
}

var marketBidsCmd = &cobra.Command{
	Use:   "bids <market id>",
	Short: "list bids of the market, lowest rate first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		active, _ := cmd.Flags().GetBool("active")
		limit, _ := cmd.Flags().GetInt("limit")
		bids, err := provideClient().MarketBids(cmd.Context(), args[0], active, limit)
		if err != nil {
			return err
		}

		return printJSON(cmd, bids)
	},
}

var auditMarketCmd = &cobra.Command{
	Use:   "audit <market id>",
	Short: "check the vault balance against the bids",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := provideClient().Audit(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(cmd, result)
	},
}

func init() {
	rootCmd.AddCommand(marketCmd)
	marketCmd.AddCommand(initMarketCmd, listMarketsCmd, showMarketCmd, marketBidsCmd, auditMarketCmd)

	initMarketCmd.Flags().String("trace", "", "trace id, derived from the asset by default")
	marketBidsCmd.Flags().Bool("active", true, "only active bids")
	marketBidsCmd.Flags().Int("limit", 0, "max bids")
}
