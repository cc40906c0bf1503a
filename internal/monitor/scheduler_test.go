package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimoJanra/SitePulse/internal/checker"
	"github.com/MimoJanra/SitePulse/internal/logging"
	"github.com/MimoJanra/SitePulse/internal/models"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (c *countingRunner) RunCycle(ctx context.Context) (models.CycleSummary, error) {
	c.calls.Add(1)
	return models.CycleSummary{}, c.err
}

func TestSchedulerRunsOnInterval(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, 10*time.Millisecond, logging.NewNopLogger())

	s.Start(context.Background())
	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	after := runner.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, runner.calls.Load())
}

func TestSchedulerToleratesBusyCycles(t *testing.T) {
	runner := &countingRunner{err: ErrCycleInProgress}
	s := NewScheduler(runner, 10*time.Millisecond, logging.NewNopLogger())

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestSchedulerDisabled(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, 0, logging.NewNopLogger())

	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()
	assert.Zero(t, runner.calls.Load())
}

func TestSchedulerStopLetsInFlightCycleFinish(t *testing.T) {
	started := make(chan struct{})
	proceed := make(chan struct{})
	var once sync.Once
	checks := &fakeChecks{}

	runner := NewRunner(RunnerOptions{
		Sites:  &fakeSites{sites: []models.Site{{ID: "a", URL: "https://a.example.com"}}},
		Checks: checks,
		Prober: probeFunc(func(ctx context.Context, url string) (checker.CheckResult, error) {
			once.Do(func() { close(started) })
			<-proceed
			if err := ctx.Err(); err != nil {
				return checker.CheckResult{}, err
			}
			return success(), nil
		}),
		Correlator: &fakeCorrelator{},
		Logger:     logging.NewNopLogger(),
	})
	s := NewScheduler(runner, 10*time.Millisecond, logging.NewNopLogger())
	s.Start(context.Background())

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("cycle never started")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned before the in-flight cycle finished")
	case <-time.After(50 * time.Millisecond):
	}
	close(proceed)
	<-stopped

	checks.mu.Lock()
	defer checks.mu.Unlock()
	require.NotEmpty(t, checks.added)
	for _, c := range checks.added {
		assert.Equal(t, models.CheckSuccess, c.Status)
	}
}
