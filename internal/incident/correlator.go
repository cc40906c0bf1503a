package incident

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MimoJanra/SitePulse/internal/checker"
	"github.com/MimoJanra/SitePulse/internal/metrics"
	"github.com/MimoJanra/SitePulse/internal/models"
)

const (
	DefaultBurstWindow    = time.Hour
	DefaultBurstThreshold = 3
)

type IncidentStore interface {
	HasOpen(ctx context.Context, siteID string) (bool, error)
	Create(ctx context.Context, inc models.Incident) (models.Incident, error)
}

type CheckHistory interface {
	GetRecentFailures(ctx context.Context, siteID string, since time.Time) ([]models.Check, error)
}

type ContactSource interface {
	GetAll(ctx context.Context) ([]models.Contact, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, inc models.Incident, site models.Site, triggeringError *string, contacts []models.Contact)
}

// NewIncidentEvent is emitted when a check opens an incident.
type NewIncidentEvent struct {
	Incident models.Incident
	Site     models.Site
	Check    models.Check
}

type Config struct {
	BurstWindow    time.Duration
	BurstThreshold int
}

type Correlator struct {
	incidents IncidentStore
	checks    CheckHistory
	contacts  ContactSource
	notifier  Notifier
	cfg       Config
	logger    *logrus.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewCorrelator(
	incidents IncidentStore,
	checks CheckHistory,
	contacts ContactSource,
	notifier Notifier,
	cfg Config,
	logger *logrus.Logger,
	m *metrics.Metrics,
) *Correlator {
	if cfg.BurstWindow <= 0 {
		cfg.BurstWindow = DefaultBurstWindow
	}
	if cfg.BurstThreshold <= 0 {
		cfg.BurstThreshold = DefaultBurstThreshold
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Correlator{
		incidents: incidents,
		checks:    checks,
		contacts:  contacts,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// OnCheckResult decides whether a freshly recorded check opens an incident.
// It returns a nil event when nothing was created. An error means the site's
// correlation was skipped and no incident was written.
func (c *Correlator) OnCheckResult(ctx context.Context, site models.Site, check models.Check) (*NewIncidentEvent, error) {
	if check.Status != models.CheckFailure {
		return nil, nil
	}

	open, err := c.incidents.HasOpen(ctx, site.ID)
	if err != nil {
		return nil, fmt.Errorf("check open incident for site %s: %w", site.ID, err)
	}
	if open {
		return nil, nil
	}

	if checker.IsSoftFailureCheck(check) {
		trigger, err := c.burstReached(ctx, site.ID)
		if err != nil {
			return nil, err
		}
		if !trigger {
			return nil, nil
		}
	}

	inc, err := c.incidents.Create(ctx, models.Incident{
		SiteID:   site.ID,
		CheckID:  check.ID,
		Status:   models.IncidentOpen,
		OpenedAt: c.now().UTC(),
	})
	if errors.Is(err, models.ErrIncidentAlreadyOpen) {
		c.logger.WithField("site_id", site.ID).Debug("Incident already open, suppressing duplicate")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create incident for site %s: %w", site.ID, err)
	}

	c.metrics.IncIncidentsOpened()
	log := c.logger.WithFields(logrus.Fields{
		"incident_id": inc.ID,
		"site_id":     site.ID,
		"check_id":    check.ID,
	})
	log.Warn("Incident opened")

	contacts, err := c.contacts.GetAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load contacts, incident alert not sent")
	} else {
		c.notifier.Dispatch(ctx, inc, site, check.Error, contacts)
	}

	return &NewIncidentEvent{Incident: inc, Site: site, Check: check}, nil
}

func (c *Correlator) burstReached(ctx context.Context, siteID string) (bool, error) {
	since := c.now().UTC().Add(-c.cfg.BurstWindow)
	failures, err := c.checks.GetRecentFailures(ctx, siteID, since)
	if err != nil {
		return false, fmt.Errorf("load recent failures for site %s: %w", siteID, err)
	}

	soft := 0
	for _, f := range failures {
		if checker.IsSoftFailureCheck(f) {
			soft++
		}
	}
	return soft >= c.cfg.BurstThreshold, nil
}
