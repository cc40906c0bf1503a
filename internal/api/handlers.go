package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/MimoJanra/SitePulse/internal/checker"
	"github.com/MimoJanra/SitePulse/internal/metrics"
	"github.com/MimoJanra/SitePulse/internal/models"
)

type SiteStore interface {
	GetAll(ctx context.Context) ([]models.Site, error)
	Add(ctx context.Context, name, url string) (models.Site, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type CheckReader interface {
	GetSince(ctx context.Context, siteID string, since time.Time) ([]models.Check, error)
	GetBySiteID(ctx context.Context, siteID string, limit int) ([]models.Check, error)
}

type IncidentStore interface {
	List(ctx context.Context, status models.IncidentStatus) ([]models.Incident, error)
	Resolve(ctx context.Context, id string, at time.Time) (models.Incident, error)
}

type ContactStore interface {
	GetAll(ctx context.Context) ([]models.Contact, error)
	Add(ctx context.Context, c models.Contact) (models.Contact, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type CycleRunner interface {
	RunCycle(ctx context.Context) (models.CycleSummary, error)
}

type Server struct {
	SiteRepo     SiteStore
	CheckRepo    CheckReader
	IncidentRepo IncidentStore
	ContactRepo  ContactStore
	SettingsRepo SettingsStore
	Runner       CycleRunner

	CronSecret   string
	StatusWindow time.Duration
	Logger       *logrus.Logger
	Metrics      *metrics.Metrics

	now func() time.Time
}

type errorResponse struct {
	Error string `json:"error" example:"Unauthorized"`
}

func (s *Server) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Server) log() *logrus.Logger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func validateSiteURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("url required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.New("invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.New("url must use http or https")
	}
	if u.Hostname() == "" {
		return "", errors.New("url must include a host")
	}

	return u.String(), nil
}

// GetSites godoc
// @Summary      List sites
// @Description  Returns every site with its status computed over recent checks.
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.SiteWithStatus
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/sites [get]
func (s *Server) GetSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.SiteRepo.GetAll(r.Context())
	if err != nil {
		s.log().WithError(err).Error("Failed to list sites")
		writeError(w, http.StatusInternalServerError, "failed to get sites")
		return
	}

	window := s.StatusWindow
	if window <= 0 {
		window = time.Hour
	}
	since := s.clock().UTC().Add(-window)
	out := make([]models.SiteWithStatus, 0, len(sites))
	for _, site := range sites {
		checks, err := s.CheckRepo.GetSince(r.Context(), site.ID, since)
		if err != nil {
			s.log().WithError(err).WithField("site_id", site.ID).Error("Failed to load checks")
			writeError(w, http.StatusInternalServerError, "failed to get sites")
			return
		}

		item := models.SiteWithStatus{Site: site, Status: checker.ComputeSiteStatus(checks)}
		if len(checks) > 0 {
			latest := checks[0]
			item.LastCheck = &latest
		}
		out = append(out, item)
	}

	writeJSON(w, http.StatusOK, out)
}

type createSiteRequest struct {
	Name string `json:"name" example:"Marketing site"`
	URL  string `json:"url" example:"https://example.com"`
}

// CreateSite godoc
// @Summary      Register a site
// @Tags         sites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        site  body      createSiteRequest  true  "Site"
// @Success      201   {object}  models.Site
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/sites [post]
func (s *Server) CreateSite(w http.ResponseWriter, r *http.Request) {
	var body createSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	siteURL, err := validateSiteURL(body.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		name = siteURL
	}

	site, err := s.SiteRepo.Add(r.Context(), name, siteURL)
	if err != nil {
		s.log().WithError(err).Error("Failed to add site")
		writeError(w, http.StatusInternalServerError, "failed to add site")
		return
	}
	writeJSON(w, http.StatusCreated, site)
}

// DeleteSite godoc
// @Summary      Remove a site and its history
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Site ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  errorResponse
// @Router       /api/sites/{id} [delete]
func (s *Server) DeleteSite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := s.SiteRepo.DeleteByID(r.Context(), id)
	if err != nil {
		s.log().WithError(err).WithField("site_id", id).Error("Failed to delete site")
		writeError(w, http.StatusInternalServerError, "failed to delete site")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "site not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
