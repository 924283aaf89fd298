package worker

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ IJob = (*BaseJob)(nil)

func TestRunSkipsOverlappingRound(t *testing.T) {
	var (
		runs    int32
		entered = make(chan struct{}, 2)
		release = make(chan struct{})
		done    = make(chan struct{})
	)

	job := &BaseJob{
		Cron: cron.New(),
		OnWork: func(ctx context.Context) error {
			atomic.AddInt32(&runs, 1)
			entered <- struct{}{}
			<-release
			return nil
		},
	}

	go func() {
		job.Run()
		close(done)
	}()

	<-entered
	job.Run()
	assert.EqualValues(t, 1, atomic.LoadInt32(&runs))

	close(release)
	<-done

	job.Run()
	assert.EqualValues(t, 2, atomic.LoadInt32(&runs))
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs int32
	job := &BaseJob{Cron: cron.New()}
	job.OnWork = func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		cancel()
		return ErrIdle
	}

	_, err := job.Cron.AddFunc("@every 1h", job.Run)
	require.Nil(t, err)

	err = job.Serve(ctx)
	assert.Equal(t, context.Canceled, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&runs))
}
