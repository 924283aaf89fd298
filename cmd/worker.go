package cmd

import (
	"context"
	"errors"
	"openrate/worker"
	"sync"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "openrate job worker",
	Run: func(cmd *cobra.Command, args []string) {
		if usingMemory() {
			cmd.PrintErrln("memory ledger driver runs the auditor with server --audit")
			return
		}

		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		ledgerStore := provideLedgerStore(database)
		auditSrv := provideAuditService(ledgerStore)

		workers := []worker.Worker{
			provideAuditor(ledgerStore, auditSrv, providePropertyStore(database)),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.WithError(err).Errorln("worker stopped")
				}
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
