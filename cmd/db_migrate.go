package cmd

import (
	"openrate/pkg/sysversion"

	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

// command for migrating database
var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "migrate database tables",
	Run: func(cmd *cobra.Command, args []string) {
		if usingMemory() {
			cmd.PrintErrln("memory ledger driver needs no migration")
			return
		}

		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			cmd.PrintErrln("migrate database error:", err)
			return
		}

		if err := sysversion.SaveSysVersion(cmd.Context(), providePropertyStore(database), sysversion.Current); err != nil {
			cmd.PrintErrln("save sysversion error:", err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
