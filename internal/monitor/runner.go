package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/MimoJanra/SitePulse/internal/checker"
	"github.com/MimoJanra/SitePulse/internal/incident"
	"github.com/MimoJanra/SitePulse/internal/metrics"
	"github.com/MimoJanra/SitePulse/internal/models"
)

var (
	// ErrCycleInProgress is returned when another cycle holds the cycle lock.
	ErrCycleInProgress = errors.New("check cycle already in progress")
	ErrLoadSites       = errors.New("failed to load sites")
)

type SiteSource interface {
	GetAll(ctx context.Context) ([]models.Site, error)
}

type CheckRecorder interface {
	Add(ctx context.Context, c models.Check) (models.Check, error)
}

type Prober interface {
	Probe(ctx context.Context, url string) (checker.CheckResult, error)
}

type Correlator interface {
	OnCheckResult(ctx context.Context, site models.Site, check models.Check) (*incident.NewIncidentEvent, error)
}

type Runner struct {
	sites       SiteSource
	checks      CheckRecorder
	prober      Prober
	correlator  Correlator
	lock        CycleLock
	concurrency int
	logger      *logrus.Logger
	metrics     *metrics.Metrics
}

type RunnerOptions struct {
	Sites      SiteSource
	Checks     CheckRecorder
	Prober     Prober
	Correlator Correlator
	Lock       CycleLock
	// Concurrency caps in-flight probes; 0 probes every site at once.
	Concurrency int
	Logger      *logrus.Logger
	Metrics     *metrics.Metrics
}

func NewRunner(opts RunnerOptions) *Runner {
	lock := opts.Lock
	if lock == nil {
		lock = NewLocalLock()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Runner{
		sites:       opts.Sites,
		checks:      opts.Checks,
		prober:      opts.Prober,
		correlator:  opts.Correlator,
		lock:        lock,
		concurrency: opts.Concurrency,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

type probeOutcome struct {
	result checker.CheckResult
	err    error
}

// RunCycle probes every registered site once, records the results and lets
// the correlator open incidents for failures. Per-site problems are counted
// in Skipped; only lock contention and a failed site load return an error.
//
// Cancelling ctx does not abort the cycle: probes are bounded by the probe
// timeout and alerts by the dispatcher deadline, so a trigger that goes away
// cannot drop checks or lose alerts for incidents it already opened.
func (r *Runner) RunCycle(ctx context.Context) (models.CycleSummary, error) {
	ctx = context.WithoutCancel(ctx)
	var summary models.CycleSummary
	start := time.Now()

	release, ok, err := r.lock.TryAcquire(ctx)
	if err != nil {
		r.metrics.ObserveCycle("failed", time.Since(start), 0)
		return summary, err
	}
	if !ok {
		r.metrics.ObserveCycle("busy", time.Since(start), 0)
		return summary, ErrCycleInProgress
	}
	defer release()

	sites, err := r.sites.GetAll(ctx)
	if err != nil {
		r.metrics.ObserveCycle("failed", time.Since(start), 0)
		return summary, fmt.Errorf("%w: %w", ErrLoadSites, err)
	}
	summary.Sites = len(sites)
	if len(sites) == 0 {
		r.metrics.ObserveCycle("completed", time.Since(start), 0)
		return summary, nil
	}

	outcomes := r.probeAll(ctx, sites)

	for i, site := range sites {
		log := r.logger.WithFields(logrus.Fields{"site_id": site.ID, "url": site.URL})
		out := outcomes[i]
		if out.err != nil {
			log.WithError(out.err).Warn("Probe rejected, skipping site")
			summary.Skipped++
			continue
		}

		check, err := r.checks.Add(ctx, models.Check{
			SiteID:     site.ID,
			Status:     out.result.Status,
			StatusCode: out.result.StatusCode,
			Error:      out.result.Error,
			DurationMS: out.result.DurationMS,
		})
		if err != nil {
			log.WithError(err).Error("Failed to record check")
			summary.Skipped++
			continue
		}
		summary.Checks++
		r.metrics.ObserveCheck(string(check.Status), check.DurationMS)

		if check.Status != models.CheckFailure {
			continue
		}

		event, err := r.correlator.OnCheckResult(ctx, site, check)
		if err != nil {
			log.WithError(err).Error("Failed to correlate check")
			summary.Skipped++
			continue
		}
		if event != nil {
			summary.Incidents++
		}
	}

	elapsed := time.Since(start)
	r.metrics.ObserveCycle("completed", elapsed, summary.Skipped)
	r.logger.WithFields(logrus.Fields{
		"sites":       len(sites),
		"checks":      summary.Checks,
		"incidents":   summary.Incidents,
		"skipped":     summary.Skipped,
		"duration_ms": elapsed.Milliseconds(),
	}).Info("Check cycle complete")

	return summary, nil
}

// probeAll waits for every probe to settle. Outcomes keep the order of sites.
func (r *Runner) probeAll(ctx context.Context, sites []models.Site) []probeOutcome {
	outcomes := make([]probeOutcome, len(sites))

	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}

	for i, site := range sites {
		g.Go(func() error {
			outcomes[i] = r.safeProbe(ctx, site.URL)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (r *Runner) safeProbe(ctx context.Context, url string) (out probeOutcome) {
	defer func() {
		if rec := recover(); rec != nil {
			out = probeOutcome{err: fmt.Errorf("probe panicked: %v", rec)}
		}
	}()
	result, err := r.prober.Probe(ctx, url)
	return probeOutcome{result: result, err: err}
}
