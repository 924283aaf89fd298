package auditor

import (
	"context"
	"openrate/core"
	"openrate/pkg/metrics"
	"openrate/worker"
	"sync/atomic"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const checkpointKey = "vault_audit_checkpoint"

// Config auditor config
type Config struct {
	Interval time.Duration
	Capacity int64
}

// Auditor audit every market vault on an interval
type Auditor struct {
	worker.BaseJob
	markets  core.IMarketStore
	auditSrv core.IAuditService
	property property.Store
	metrics  *metrics.AuditMetrics
	cfg      Config
}

// New new auditor, property may be nil to skip the checkpoint
func New(
	markets core.IMarketStore,
	auditSrv core.IAuditService,
	property property.Store,
	cfg Config,
) *Auditor {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1
	}

	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	w := &Auditor{
		markets:  markets,
		auditSrv: auditSrv,
		property: property,
		metrics:  metrics.Audit(),
		cfg:      cfg,
	}

	w.Cron = cron.New(cron.WithLocation(time.UTC))
	if _, err := w.Cron.AddFunc("@every "+cfg.Interval.String(), w.BaseJob.Run); err != nil {
		logger.FromContext(context.Background()).WithError(err).Errorln("cron.AddFunc", cfg.Interval)
	}

	w.OnWork = func(ctx context.Context) error {
		_, err := w.onWork(ctx)
		return err
	}

	return w
}

// Run run worker
func (w *Auditor) Run(ctx context.Context) error {
	return w.Serve(ctx)
}

// onWork audit all markets, returns the number of unhealthy vaults
func (w *Auditor) onWork(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx).WithField("worker", "auditor")
	ctx = logger.WithContext(ctx, log)

	markets, err := w.markets.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("markets.All")
		return 0, err
	}

	if len(markets) == 0 {
		return 0, worker.ErrIdle
	}

	var (
		unhealthy int64
		sem       = semaphore.NewWeighted(w.cfg.Capacity)
		g         errgroup.Group
	)

	for idx := range markets {
		market := markets[idx]

		if err := sem.Acquire(ctx, 1); err != nil {
			_ = g.Wait()
			return unhealthy, err
		}

		g.Go(func() error {
			defer sem.Release(1)

			ok, err := w.audit(ctx, market)
			if err != nil {
				return err
			}

			if !ok {
				atomic.AddInt64(&unhealthy, 1)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return unhealthy, err
	}

	if w.property != nil {
		if err := w.property.Save(ctx, checkpointKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
			log.WithError(err).Errorln("property.Save", checkpointKey)
			return unhealthy, err
		}
	}

	return unhealthy, nil
}

func (w *Auditor) audit(ctx context.Context, market *core.Market) (bool, error) {
	log := logger.FromContext(ctx).WithField("market", market.ID)

	report, err := w.auditSrv.Audit(ctx, market.ID)
	if err != nil {
		w.metrics.ObserveFailure()
		log.WithError(err).Errorln("audit.Audit")
		return false, err
	}

	w.metrics.ObserveReport(report)
	if report.Healthy() {
		return true, nil
	}

	log = log.WithField("balance", report.Balance).WithField("expected", report.Expected)
	for _, m := range report.Mismatches {
		log.Warnf("bid %s filled %d but open loans hold %d", m.BidID, m.Filled, m.Outstanding)
	}

	log.Errorln("vault out of balance")
	return false, nil
}
