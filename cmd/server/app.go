package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/MimoJanra/SitePulse/internal/checker"
	"github.com/MimoJanra/SitePulse/internal/config"
	"github.com/MimoJanra/SitePulse/internal/incident"
	"github.com/MimoJanra/SitePulse/internal/logging"
	"github.com/MimoJanra/SitePulse/internal/metrics"
	"github.com/MimoJanra/SitePulse/internal/monitor"
	"github.com/MimoJanra/SitePulse/internal/notifications"
	"github.com/MimoJanra/SitePulse/internal/storage"
)

type app struct {
	cfg     config.Config
	logger  *logrus.Logger
	db      *storage.DB
	redis   *goredis.Client
	metrics *metrics.Metrics

	sites     *storage.SiteRepo
	checks    *storage.CheckRepo
	incidents *storage.IncidentRepo
	contacts  *storage.ContactRepo
	settings  *storage.SettingsRepo

	runner *monitor.Runner
}

func newApp(ctx context.Context) (*app, error) {
	logger := logging.NewLoggerWithService("sitepulse")
	config.LoadEnv(logger)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := storage.InitDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		metrics:   metrics.New(reg),
		sites:     storage.NewSiteRepo(db),
		checks:    storage.NewCheckRepo(db),
		incidents: storage.NewIncidentRepo(db),
		contacts:  storage.NewContactRepo(db),
		settings:  storage.NewSettingsRepo(db),
	}

	lock, err := a.cycleLock(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	correlator := incident.NewCorrelator(
		a.incidents,
		a.checks,
		a.contacts,
		a.dispatcher(),
		incident.Config{BurstWindow: cfg.BurstWindow, BurstThreshold: cfg.BurstThreshold},
		logger,
		a.metrics,
	)

	a.runner = monitor.NewRunner(monitor.RunnerOptions{
		Sites:       a.sites,
		Checks:      a.checks,
		Prober:      checker.NewHTTPProber(cfg.ProbeTimeout),
		Correlator:  correlator,
		Lock:        lock,
		Concurrency: cfg.ProbeConcurrency,
		Logger:      logger,
		Metrics:     a.metrics,
	})

	return a, nil
}

func (a *app) cycleLock(ctx context.Context) (monitor.CycleLock, error) {
	if a.cfg.RedisURL == "" {
		return monitor.NewLocalLock(), nil
	}

	opts, err := goredis.ParseURL(a.cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	a.redis = goredis.NewClient(opts)
	if err := a.redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	a.logger.WithField("key", monitor.CycleLockKey).Info("Using Redis cycle lock")
	return monitor.NewRedisLock(a.redis, a.cfg.CycleLockTTL), nil
}

// dispatcher only wires senders whose configuration is complete.
func (a *app) dispatcher() *notifications.Dispatcher {
	policy := notifications.DeliveryPolicy{
		MaxRetries: a.cfg.AlertMaxRetries,
		Timeout:    a.cfg.AlertTimeout,
	}

	opts := notifications.Options{
		Slack:   notifications.NewSlackSender(policy),
		AppURL:  a.cfg.AppURL,
		Timeout: policy.Budget(),
		Logger:  a.logger,
		Metrics: a.metrics,
	}
	if a.cfg.SMTP.Enabled() {
		opts.Email = notifications.NewSMTPSender(a.cfg.SMTP, a.cfg.AlertTimeout)
	} else {
		a.logger.Warn("SMTP_HOST not set, email alerts disabled")
	}
	if a.cfg.Twilio.Enabled() {
		opts.SMS = notifications.NewTwilioSender(a.cfg.Twilio, policy)
	} else {
		a.logger.Warn("Twilio credentials not set, SMS alerts disabled")
	}

	return notifications.NewDispatcher(opts)
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close redis client")
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close db")
	}
}
