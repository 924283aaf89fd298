package cmd

import (
	"openrate/core"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:     "account",
	Aliases: []string{"acc"},
	Short:   "custody accounts",
}

var openAccountCmd = &cobra.Command{
	Use:   "open <asset id>",
	Short: "open the caller's account of the asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := provideClient().OpenAccount(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(cmd, account)
	},
}

var showAccountCmd = &cobra.Command{
	Use:   "show <account id>",
	Short: "show account balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := provideClient().Account(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(cmd, account)
	},
}

var listAccountsCmd = &cobra.Command{
	Use:   "list",
	Short: "list accounts of an owner, the caller by default",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		if owner == "" {
			owner = clientFlags.caller
		}

		accounts, err := provideClient().Accounts(cmd.Context(), owner)
		if err != nil {
			return err
		}

		return printJSON(cmd, accounts)
	},
}

var transfersCmd = &cobra.Command{
	Use:   "transfers <account id>",
	Short: "list transfers of the account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := core.TransferQuery{AccountID: args[0]}
		query.FromID, _ = cmd.Flags().GetInt64("from")
		query.Limit, _ = cmd.Flags().GetInt("limit")

		transfers, err := provideClient().Transfers(cmd.Context(), query)
		if err != nil {
			return err
		}

		return printJSON(cmd, transfers)
	},
}

var depositCmd = &cobra.Command{
	Use:   "deposit <account id>",
	Short: "credit the account, admin only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := provideClient()

		account, err := c.Account(ctx, args[0])
		if err != nil {
			return err
		}

		decimals, err := assetDecimals(ctx, c, account.AssetID)
		if err != nil {
			return err
		}

		amount, _ := cmd.Flags().GetString("amount")
		units, err := parseUnits(amount, decimals)
		if err != nil {
			return err
		}

		transfer, err := c.Deposit(ctx, account.ID, traceID(cmd), units)
		if err != nil {
			return err
		}

		return printJSON(cmd, transfer)
	},
}

var operationsCmd = &cobra.Command{
	Use:     "operations",
	Aliases: []string{"ops"},
	Short:   "list committed ledger operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		var query core.OperationQuery
		query.UserID, _ = cmd.Flags().GetString("user")
		query.MarketID, _ = cmd.Flags().GetString("market")
		query.FromID, _ = cmd.Flags().GetInt64("from")
		query.Limit, _ = cmd.Flags().GetInt("limit")

		ops, err := provideClient().Operations(cmd.Context(), query)
		if err != nil {
			return err
		}

		return printJSON(cmd, ops)
	},
}

func init() {
	rootCmd.AddCommand(accountCmd, operationsCmd)
	accountCmd.AddCommand(openAccountCmd, showAccountCmd, listAccountsCmd, transfersCmd, depositCmd)

	listAccountsCmd.Flags().String("owner", "", "owner id")

	transfersCmd.Flags().Int64("from", 0, "list transfers after this id")
	transfersCmd.Flags().Int("limit", 0, "max transfers")

	depositCmd.Flags().String("amount", "", "amount to credit")
	depositCmd.Flags().String("trace", "", "trace id, random by default")
	_ = depositCmd.MarkFlagRequired("amount")

	operationsCmd.Flags().String("user", "", "user id")
	operationsCmd.Flags().String("market", "", "market id")
	operationsCmd.Flags().Int64("from", 0, "list operations after this id")
	operationsCmd.Flags().Int("limit", 0, "max operations")
}
