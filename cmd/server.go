package cmd

import (
	"context"
	"fmt"
	"net/http"
	"openrate/handler"
	"openrate/handler/hc"
	"openrate/pkg/sysversion"
	"time"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run openrate api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		var database *db.DB
		if !usingMemory() {
			database = provideDatabase()
			defer database.Close()
			checkSysVersion(ctx, database)
		}

		config := provideConfig()
		ledgerStore := provideLedgerStore(database)
		custodySrv := provideCustodyService()
		ledgerSrv := provideLedgerService(ledgerStore, custodySrv)
		auditSrv := provideAuditService(ledgerStore)

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		{
			//hc
			mux.Mount("/hc", hc.Handle(rootCmd.Version))
		}

		{
			//metrics
			mux.Mount("/metrics", promhttp.Handler())
		}

		{
			//restful api
			svr := handler.New(config, ledgerStore, ledgerSrv, custodySrv, auditSrv)
			mux.Mount("/api", svr.HandleRestAPI())
		}

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = config.Server.Port
		}
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		if audit, _ := cmd.Flags().GetBool("audit"); audit {
			w := provideAuditor(ledgerStore, auditSrv, providePropertyStore(database))
			go func() {
				if err := w.Run(ctx); err != nil && err != context.Canceled {
					logrus.WithError(err).Error("auditor stopped")
				}
			}()
		}

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func checkSysVersion(ctx context.Context, database *db.DB) {
	version, err := sysversion.ReadSysVersion(ctx, providePropertyStore(database))
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warnln("read sysversion")
		return
	}

	if version < sysversion.Current {
		logger.FromContext(ctx).Warnf("database schema version %d is behind %d, run migrate", version, sysversion.Current)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 0, "server port, default from config")
	serverCmd.Flags().Bool("audit", false, "run the vault auditor in process")
}
