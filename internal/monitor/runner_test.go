package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimoJanra/SitePulse/internal/checker"
	"github.com/MimoJanra/SitePulse/internal/incident"
	"github.com/MimoJanra/SitePulse/internal/logging"
	"github.com/MimoJanra/SitePulse/internal/metrics"
	"github.com/MimoJanra/SitePulse/internal/models"
)

type fakeSites struct {
	sites []models.Site
	err   error
}

func (f *fakeSites) GetAll(ctx context.Context) ([]models.Site, error) {
	return f.sites, f.err
}

type fakeChecks struct {
	mu    sync.Mutex
	added []models.Check
	fail  map[string]bool
}

func (f *fakeChecks) Add(ctx context.Context, c models.Check) (models.Check, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[c.SiteID] {
		return models.Check{}, errors.New("disk I/O error")
	}
	c.ID = fmt.Sprintf("chk-%d", len(f.added)+1)
	c.CheckedAt = time.Now().UTC()
	f.added = append(f.added, c)
	return c, nil
}

type probeFunc func(ctx context.Context, url string) (checker.CheckResult, error)

func (f probeFunc) Probe(ctx context.Context, url string) (checker.CheckResult, error) {
	return f(ctx, url)
}

type fakeCorrelator struct {
	mu     sync.Mutex
	seen   []string
	open   map[string]bool
	errFor map[string]bool
}

func (f *fakeCorrelator) OnCheckResult(ctx context.Context, site models.Site, check models.Check) (*incident.NewIncidentEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, site.ID)
	if f.errFor[site.ID] {
		return nil, errors.New("db locked")
	}
	if f.open[site.ID] {
		return nil, nil
	}
	return &incident.NewIncidentEvent{Site: site, Check: check}, nil
}

func success() checker.CheckResult {
	return checker.CheckResult{Status: models.CheckSuccess, StatusCode: models.IntPtr(200), DurationMS: 12}
}

func hardFailure() checker.CheckResult {
	return checker.CheckResult{Status: models.CheckFailure, StatusCode: models.IntPtr(500), Error: models.StringPtr("HTTP 500"), DurationMS: 20}
}

func threeSites() []models.Site {
	return []models.Site{
		{ID: "a", URL: "https://a.example.com"},
		{ID: "b", URL: "https://b.example.com"},
		{ID: "c", URL: "https://c.example.com"},
	}
}

func TestRunCycleNoSites(t *testing.T) {
	probed := false
	r := NewRunner(RunnerOptions{
		Sites: &fakeSites{},
		Prober: probeFunc(func(ctx context.Context, url string) (checker.CheckResult, error) {
			probed = true
			return success(), nil
		}),
		Logger: logging.NewNopLogger(),
	})

	summary, err := r.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CycleSummary{}, summary)
	assert.False(t, probed)
}

func TestRunCycleSitesLoadError(t *testing.T) {
	r := NewRunner(RunnerOptions{Sites: &fakeSites{err: errors.New("no such table")}, Logger: logging.NewNopLogger()})

	_, err := r.RunCycle(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadSites)
}

func TestRunCycleCountsChecksAndIncidents(t *testing.T) {
	checks := &fakeChecks{}
	corr := &fakeCorrelator{}
	reg := prometheus.NewRegistry()
	r := NewRunner(RunnerOptions{
		Sites:  &fakeSites{sites: threeSites()},
		Checks: checks,
		Prober: probeFunc(func(ctx context.Context, url string) (checker.CheckResult, error) {
			if url == "https://b.example.com" {
				return hardFailure(), nil
			}
			return success(), nil
		}),
		Correlator: corr,
		Logger:     logging.NewNopLogger(),
		Metrics:    metrics.New(reg),
	})

	summary, err := r.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CycleSummary{Sites: 3, Checks: 3, Incidents: 1}, summary)
	assert.Equal(t, []string{"b"}, corr.seen)

	require.Len(t, checks.added, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{checks.added[0].SiteID, checks.added[1].SiteID, checks.added[2].SiteID})
}

func TestRunCycleRejectedProbeIsSkipped(t *testing.T) {
	checks := &fakeChecks{}
	r := NewRunner(RunnerOptions{
		Sites: &fakeSites{sites: []models.Site{
			{ID: "good", URL: "https://good.example.com"},
			{ID: "bad", URL: "https://bad.example.com"},
		}},
		Checks: checks,
		Prober: probeFunc(func(ctx context.Context, url string) (checker.CheckResult, error) {
			if url == "https://bad.example.com" {
				return checker.CheckResult{}, errors.New("probe rejected")
			}
			return success(), nil
		}),
		Correlator: &fakeCorrelator{},
		Logger:     logging.NewNopLogger(),
	})

	summary, err := r.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CycleSummary{Sites: 2, Checks: 1, Incidents: 0, Skipped: 1}, summary)
	require.Len(t, checks.added, 1)
	assert.Equal(t, "good", checks.added[0].SiteID)
}

func TestRunCyclePanickingProbeIsSkipped(t *testing.T) {
	r := NewRunner(RunnerOptions{
		Sites:  &fakeSites{sites: threeSites()},
		Checks: &fakeChecks{},
		Prober: probeFunc(func(ctx context.Context, url string) (checker.CheckResult, error) {
			if url == "https://c.example.com" {
				panic("boom")
			}
			return success(), nil
		}),
		Correlator: &fakeCorrelator{},
		Logger:     logging.NewNopLogger(),
	})

	summary, err := r.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CycleSummary{Sites: 3, Checks: 2, Skipped: 1}, summary)
}

func TestRunCycleRecordAndCorrelateFailuresAreIsolated(t *testing.T) {
	corr := &fakeCorrelator{errFor: map[string]bool{"c": true}}
	r := NewRunner(RunnerOptions{
		Sites:  &fakeSites{sites: threeSites()},
		Checks: &fakeChecks{fail: map[string]bool{"a": true}},
		Prober: probeFunc(func(ctx context.Context, url string) (checker.CheckResult, error) {
			return hardFailure(), nil
		}),
		Correlator: corr,
		Logger:     logging.NewNopLogger(),
	})

	summary, err := r.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CycleSummary{Sites: 3, Checks: 2, Incidents: 1, Skipped: 2}, summary)
	assert.Equal(t, []string{"b", "c"}, corr.seen)
}

func TestRunCycleProbesConcurrently(t *testing.T) {
	const n = 5
	var sites []models.Site
	for i := 0; i < n; i++ {
		sites = append(sites, models.Site{ID: fmt.Sprint(i), URL: fmt.Sprintf("https://%d.example.com", i)})
	}

	var wg sync.WaitGroup
	wg.Add(n)
	r := NewRunner(RunnerOptions{
		Sites:  &fakeSites{sites: sites},
		Checks: &fakeChecks{},
		Prober: probeFunc(func(ctx context.Context, url string) (checker.CheckResult, error) {
			wg.Done()
			wg.Wait()
			return success(), nil
		}),
		Correlator: &fakeCorrelator{},
		Logger:     logging.NewNopLogger(),
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		summary, err := r.RunCycle(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, n, summary.Checks)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("probes did not run concurrently")
	}
}

func TestRunCycleBusyLock(t *testing.T) {
	lock := NewLocalLock()
	release, ok, err := lock.TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	r := NewRunner(RunnerOptions{Sites: &fakeSites{sites: threeSites()}, Lock: lock, Logger: logging.NewNopLogger()})

	_, err = r.RunCycle(context.Background())
	assert.ErrorIs(t, err, ErrCycleInProgress)

	release()
	summary, err := NewRunner(RunnerOptions{Sites: &fakeSites{}, Lock: lock, Logger: logging.NewNopLogger()}).RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CycleSummary{}, summary)
}

func TestRunCycleOutlivesCancelledTrigger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	checks := &fakeChecks{}
	r := NewRunner(RunnerOptions{
		Sites:  &fakeSites{sites: threeSites()},
		Checks: checks,
		Prober: probeFunc(func(pctx context.Context, url string) (checker.CheckResult, error) {
			cancel()
			if err := pctx.Err(); err != nil {
				return checker.CheckResult{}, err
			}
			return hardFailure(), nil
		}),
		Correlator: &fakeCorrelator{},
		Logger:     logging.NewNopLogger(),
	})

	summary, err := r.RunCycle(ctx)
	require.NoError(t, err)
	assert.Error(t, ctx.Err())
	assert.Equal(t, models.CycleSummary{Sites: 3, Checks: 3, Incidents: 3}, summary)
	assert.Len(t, checks.added, 3)
}
