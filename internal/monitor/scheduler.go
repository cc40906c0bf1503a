package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MimoJanra/SitePulse/internal/models"
)

type CycleRunner interface {
	RunCycle(ctx context.Context) (models.CycleSummary, error)
}

// Scheduler runs a check cycle on a fixed interval until stopped.
type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	logger   *logrus.Logger
	stopChan chan struct{}
	done     chan struct{}
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
}

func NewScheduler(runner CycleRunner, interval time.Duration, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the ticker loop. A non-positive interval disables it.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	if s.interval <= 0 {
		s.logger.Info("Scheduler disabled")
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true

	s.logger.WithField("interval", s.interval.String()).Info("Scheduler started")
	go s.loop(ctx, s.stopChan, s.done)
}

// Stop halts the loop and waits for an in-flight cycle to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, stopChan, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	summary, err := s.runner.RunCycle(ctx)
	if errors.Is(err, ErrCycleInProgress) {
		s.logger.Debug("Cycle already running, skipping tick")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("Scheduled check cycle failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"checks":    summary.Checks,
		"incidents": summary.Incidents,
		"skipped":   summary.Skipped,
	}).Debug("Scheduled check cycle finished")
}
