package cmd

import (
	"openrate/core"

	"github.com/spf13/cobra"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "manage custody assets",
}

var listAssetsCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "list assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		assets, err := provideClient().Assets(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(cmd, assets)
	},
}

var addAssetCmd = &cobra.Command{
	Use:   "add",
	Short: "register an asset, admin only",
	RunE: func(cmd *cobra.Command, args []string) error {
		asset := &core.Asset{}
		asset.ID, _ = cmd.Flags().GetString("id")
		asset.Symbol, _ = cmd.Flags().GetString("symbol")
		asset.Decimals, _ = cmd.Flags().GetInt32("decimals")

		if err := provideClient().SaveAsset(cmd.Context(), asset); err != nil {
			return err
		}

		return printJSON(cmd, asset)
	},
}

func init() {
	rootCmd.AddCommand(assetCmd)
	assetCmd.AddCommand(listAssetsCmd, addAssetCmd)

	addAssetCmd.Flags().String("id", "", "asset id")
	addAssetCmd.Flags().String("symbol", "", "asset symbol")
	addAssetCmd.Flags().Int32("decimals", 8, "decimal places of the base unit")
	_ = addAssetCmd.MarkFlagRequired("id")
	_ = addAssetCmd.MarkFlagRequired("symbol")
}
