package incident

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimoJanra/SitePulse/internal/logging"
	"github.com/MimoJanra/SitePulse/internal/models"
	"github.com/MimoJanra/SitePulse/internal/storage"
)

type fakeIncidents struct {
	open      bool
	openErr   error
	createErr error
	created   []models.Incident
}

func (f *fakeIncidents) HasOpen(ctx context.Context, siteID string) (bool, error) {
	return f.open, f.openErr
}

func (f *fakeIncidents) Create(ctx context.Context, inc models.Incident) (models.Incident, error) {
	if f.createErr != nil {
		return models.Incident{}, f.createErr
	}
	inc.ID = fmt.Sprintf("inc-%d", len(f.created)+1)
	f.created = append(f.created, inc)
	return inc, nil
}

type fakeHistory struct {
	failures []models.Check
	err      error
	since    time.Time
}

func (f *fakeHistory) GetRecentFailures(ctx context.Context, siteID string, since time.Time) ([]models.Check, error) {
	f.since = since
	return f.failures, f.err
}

type fakeContacts struct {
	contacts []models.Contact
	err      error
}

func (f *fakeContacts) GetAll(ctx context.Context) ([]models.Contact, error) {
	return f.contacts, f.err
}

type dispatchCall struct {
	incident models.Incident
	site     models.Site
	errMsg   *string
	contacts []models.Contact
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []dispatchCall
}

func (f *fakeNotifier) Dispatch(ctx context.Context, inc models.Incident, site models.Site, triggeringError *string, contacts []models.Contact) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, dispatchCall{inc, site, triggeringError, contacts})
}

var (
	site      = models.Site{ID: "site-1", Name: "Marketing", URL: "https://example.com"}
	fixedNow  = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oneAlert  = []models.Contact{{ID: "c1", Type: models.ContactEmail, Address: "ops@example.com"}}
	softError = models.StringPtr("HTTP 503")
)

func hardCheck(id string) models.Check {
	return models.Check{ID: id, SiteID: site.ID, Status: models.CheckFailure, StatusCode: models.IntPtr(500), Error: models.StringPtr("HTTP 500")}
}

func softCheck(id string) models.Check {
	return models.Check{ID: id, SiteID: site.ID, Status: models.CheckFailure, StatusCode: models.IntPtr(503), Error: softError}
}

type harness struct {
	incidents *fakeIncidents
	history   *fakeHistory
	contacts  *fakeContacts
	notifier  *fakeNotifier
	c         *Correlator
}

func newHarness() *harness {
	h := &harness{
		incidents: &fakeIncidents{},
		history:   &fakeHistory{},
		contacts:  &fakeContacts{contacts: oneAlert},
		notifier:  &fakeNotifier{},
	}
	h.c = NewCorrelator(h.incidents, h.history, h.contacts, h.notifier, Config{}, logging.NewNopLogger(), nil)
	h.c.now = func() time.Time { return fixedNow }
	return h
}

func TestHardFailureOpensIncidentAndAlertsOnce(t *testing.T) {
	h := newHarness()

	event, err := h.c.OnCheckResult(context.Background(), site, hardCheck("chk-1"))
	require.NoError(t, err)
	require.NotNil(t, event)

	require.Len(t, h.incidents.created, 1)
	inc := h.incidents.created[0]
	assert.Equal(t, "chk-1", inc.CheckID)
	assert.Equal(t, models.IncidentOpen, inc.Status)
	assert.Equal(t, fixedNow, inc.OpenedAt)

	require.Len(t, h.notifier.calls, 1)
	assert.Equal(t, "HTTP 500", *h.notifier.calls[0].errMsg)
	assert.Equal(t, oneAlert, h.notifier.calls[0].contacts)
}

func TestSuccessCheckIsNoop(t *testing.T) {
	h := newHarness()

	event, err := h.c.OnCheckResult(context.Background(), site, models.Check{ID: "ok", Status: models.CheckSuccess})
	require.NoError(t, err)
	assert.Nil(t, event)
	assert.Empty(t, h.incidents.created)
}

func TestOpenIncidentSuppressesNewOne(t *testing.T) {
	h := newHarness()
	h.incidents.open = true

	event, err := h.c.OnCheckResult(context.Background(), site, hardCheck("chk-1"))
	require.NoError(t, err)
	assert.Nil(t, event)
	assert.Empty(t, h.incidents.created)
	assert.Empty(t, h.notifier.calls)
}

func TestSoftFailuresBelowThreshold(t *testing.T) {
	h := newHarness()
	h.history.failures = []models.Check{softCheck("a"), softCheck("b")}

	event, err := h.c.OnCheckResult(context.Background(), site, softCheck("b"))
	require.NoError(t, err)
	assert.Nil(t, event)
	assert.Empty(t, h.notifier.calls)
	assert.Equal(t, fixedNow.Add(-time.Hour), h.history.since)
}

func TestSoftFailuresReachThreshold(t *testing.T) {
	h := newHarness()
	h.history.failures = []models.Check{softCheck("a"), softCheck("b"), softCheck("c")}

	event, err := h.c.OnCheckResult(context.Background(), site, softCheck("c"))
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "c", event.Incident.CheckID)
	assert.Len(t, h.notifier.calls, 1)
}

func TestHardFailuresInWindowDoNotCountTowardsBurst(t *testing.T) {
	h := newHarness()
	h.history.failures = []models.Check{hardCheck("a"), hardCheck("b"), softCheck("c")}

	event, err := h.c.OnCheckResult(context.Background(), site, softCheck("c"))
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestUniqueViolationSuppressesAlert(t *testing.T) {
	h := newHarness()
	h.incidents.createErr = fmt.Errorf("insert incident: %w", models.ErrIncidentAlreadyOpen)

	event, err := h.c.OnCheckResult(context.Background(), site, hardCheck("chk-1"))
	require.NoError(t, err)
	assert.Nil(t, event)
	assert.Empty(t, h.notifier.calls)
}

func TestStoreErrorsSkipCorrelation(t *testing.T) {
	t.Run("open incident query", func(t *testing.T) {
		h := newHarness()
		h.incidents.openErr = errors.New("db locked")
		_, err := h.c.OnCheckResult(context.Background(), site, hardCheck("chk-1"))
		require.Error(t, err)
		assert.Empty(t, h.incidents.created)
	})

	t.Run("recent failures query", func(t *testing.T) {
		h := newHarness()
		h.history.err = errors.New("db locked")
		_, err := h.c.OnCheckResult(context.Background(), site, softCheck("chk-1"))
		require.Error(t, err)
		assert.Empty(t, h.incidents.created)
	})

	t.Run("incident insert", func(t *testing.T) {
		h := newHarness()
		h.incidents.createErr = errors.New("disk full")
		_, err := h.c.OnCheckResult(context.Background(), site, hardCheck("chk-1"))
		require.Error(t, err)
		assert.Empty(t, h.notifier.calls)
	})
}

func TestContactsErrorKeepsIncidentWithoutAlert(t *testing.T) {
	h := newHarness()
	h.contacts.err = errors.New("contacts table gone")

	event, err := h.c.OnCheckResult(context.Background(), site, hardCheck("chk-1"))
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Len(t, h.incidents.created, 1)
	assert.Empty(t, h.notifier.calls)
}

func TestCorrelatorAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := storage.InitDB("sqlite3", filepath.Join(t.TempDir(), "sitepulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sites := storage.NewSiteRepo(db)
	checks := storage.NewCheckRepo(db)
	incidents := storage.NewIncidentRepo(db)
	contacts := storage.NewContactRepo(db)
	notifier := &fakeNotifier{}

	s, err := sites.Add(ctx, "API", "https://api.example.com")
	require.NoError(t, err)
	_, err = contacts.Add(ctx, models.Contact{Type: models.ContactSlack, Address: "https://hooks.slack.com/services/x"})
	require.NoError(t, err)

	c := NewCorrelator(incidents, checks, contacts, notifier, Config{}, logging.NewNopLogger(), nil)

	var last *NewIncidentEvent
	var ids []string
	for i := 0; i < 3; i++ {
		chk, err := checks.Add(ctx, models.Check{SiteID: s.ID, Status: models.CheckFailure, Error: models.StringPtr("Connection timeout"), DurationMS: 30000})
		require.NoError(t, err)
		ids = append(ids, chk.ID)

		last, err = c.OnCheckResult(ctx, s, chk)
		require.NoError(t, err)
		if i < 2 {
			assert.Nil(t, last)
		}
	}

	require.NotNil(t, last)
	assert.Equal(t, ids[2], last.Incident.CheckID)
	require.Len(t, notifier.calls, 1)
	assert.Len(t, notifier.calls[0].contacts, 1)

	chk, err := checks.Add(ctx, models.Check{SiteID: s.ID, Status: models.CheckFailure, StatusCode: models.IntPtr(500), Error: models.StringPtr("HTTP 500")})
	require.NoError(t, err)
	event, err := c.OnCheckResult(ctx, s, chk)
	require.NoError(t, err)
	assert.Nil(t, event)
	assert.Len(t, notifier.calls, 1)
}
