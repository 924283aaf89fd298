package cmd

import (
	"openrate/core"

	"github.com/spf13/cobra"
)

var borrowCmd = &cobra.Command{
	Use:   "borrow",
	Short: "fixed rate loans",
}

var createBorrowCmd = &cobra.Command{
	Use:   "create",
	Short: "borrow from a bid",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := provideClient()

		bidID, _ := cmd.Flags().GetString("bid")
		account, _ := cmd.Flags().GetString("account")
		amount, _ := cmd.Flags().GetString("amount")

		bid, err := c.Bid(ctx, bidID)
		if err != nil {
			return err
		}

		units, err := marketUnits(ctx, c, bid.MarketID, amount)
		if err != nil {
			return err
		}

		borrow, err := c.Borrow(ctx, &core.BorrowInput{
			DestinationAccount: account,
			BidID:              bidID,
			Amount:             units,
			TraceID:            traceID(cmd),
		})
		if err != nil {
			return err
		}

		return printJSON(cmd, borrow)
	},
}

var repayCmd = &cobra.Command{
	Use:   "repay <borrow id>",
	Short: "repay the full principal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, _ := cmd.Flags().GetString("account")
		trace, _ := cmd.Flags().GetString("trace")

		borrow, err := provideClient().Repay(cmd.Context(), &core.RepayInput{
			SourceAccount: account,
			BorrowID:      args[0],
			TraceID:       trace,
		})
		if err != nil {
			return err
		}

		return printJSON(cmd, borrow)
	},
}

var showBorrowCmd = &cobra.Command{
	Use:   "show <borrow id>",
	Short: "show borrow record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		borrow, err := provideClient().BorrowRecord(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(cmd, borrow)
	},
}

var listBorrowsCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "list borrow records of a borrower or a bid",
	RunE: func(cmd *cobra.Command, args []string) error {
		var query core.BorrowQuery
		query.Borrower, _ = cmd.Flags().GetString("borrower")
		query.BidID, _ = cmd.Flags().GetString("bid")
		query.OpenOnly, _ = cmd.Flags().GetBool("open")

		borrows, err := provideClient().Borrows(cmd.Context(), query)
		if err != nil {
			return err
		}

		return printJSON(cmd, borrows)
	},
}

func init() {
	rootCmd.AddCommand(borrowCmd)
	borrowCmd.AddCommand(createBorrowCmd, repayCmd, showBorrowCmd, listBorrowsCmd)

	createBorrowCmd.Flags().String("bid", "", "bid id")
	createBorrowCmd.Flags().String("account", "", "destination custody account")
	createBorrowCmd.Flags().String("amount", "", "amount to borrow")
	createBorrowCmd.Flags().String("trace", "", "trace id, random by default")
	for _, name := range []string{"bid", "account", "amount"} {
		_ = createBorrowCmd.MarkFlagRequired(name)
	}

	repayCmd.Flags().String("account", "", "source custody account")
	repayCmd.Flags().String("trace", "", "trace id, derived from the borrow by default")
	_ = repayCmd.MarkFlagRequired("account")

	listBorrowsCmd.Flags().String("borrower", "", "borrower id")
	listBorrowsCmd.Flags().String("bid", "", "bid id")
	listBorrowsCmd.Flags().Bool("open", false, "only loans not yet repaid")
}
