package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker long running job
type Worker interface {
	Run(ctx context.Context) error
}

// ErrIdle returned by a round that found nothing to do
var ErrIdle = errors.New("idle")

// IJob cron job
type IJob interface {
	Start() error
	Run()
	Stop() error
}

// OnWork one round of work
type OnWork func(ctx context.Context) error

// BaseJob run OnWork on the Cron schedule, skipping a round while the previous one is running
type BaseJob struct {
	Cron   *cron.Cron
	OnWork OnWork

	mux     sync.Mutex
	ctx     context.Context
	running bool
}

// Start start cron
func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

// Stop stop cron and wait for the running round
func (job *BaseJob) Stop() error {
	<-job.Cron.Stop().Done()
	return nil
}

// Run run one round unless one is already running
func (job *BaseJob) Run() {
	job.mux.Lock()
	if job.running {
		job.mux.Unlock()
		return
	}

	job.running = true
	ctx := job.ctx
	job.mux.Unlock()

	defer func() {
		job.mux.Lock()
		job.running = false
		job.mux.Unlock()
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	if err := job.OnWork(ctx); err != nil && !errors.Is(err, ErrIdle) {
		logger.FromContext(ctx).WithError(err).Debugln("job.OnWork")
	}
}

// Serve run once, then on schedule until ctx is done
func (job *BaseJob) Serve(ctx context.Context) error {
	job.mux.Lock()
	job.ctx = ctx
	job.mux.Unlock()

	_ = job.Start()
	job.Run()

	<-ctx.Done()
	_ = job.Stop()
	return ctx.Err()
}
