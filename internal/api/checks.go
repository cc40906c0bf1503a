package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MimoJanra/SitePulse/internal/monitor"
)

const (
	defaultCheckLimit = 50
	maxCheckLimit     = 500
)

type runChecksResponse struct {
	Message   string `json:"message" example:"Checks complete"`
	Checks    int    `json:"checks" example:"12"`
	Incidents int    `json:"incidents" example:"1"`
	Skipped   int    `json:"skipped" example:"0"`
}

// RunChecks godoc
// @Summary      Run one check cycle
// @Description  Probes every site, records the checks and opens incidents. Intended for an external cron.
// @Tags         checks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  runChecksResponse
// @Failure      401  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/checks/run [post]
// @Router       /api/checks/run [get]
func (s *Server) RunChecks(w http.ResponseWriter, r *http.Request) {
	// The cycle outlives the request so a caller that hangs up cannot drop
	// checks or alerts.
	summary, err := s.Runner.RunCycle(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, monitor.ErrCycleInProgress):
		writeError(w, http.StatusConflict, "Check cycle already in progress")
		return
	case errors.Is(err, monitor.ErrLoadSites):
		s.log().WithError(err).Error("Check cycle aborted")
		writeError(w, http.StatusInternalServerError, "Failed to fetch sites")
		return
	case err != nil:
		s.log().WithError(err).Error("Check cycle aborted")
		writeError(w, http.StatusInternalServerError, "Failed to run checks")
		return
	}

	message := "Checks complete"
	if summary.Sites == 0 {
		message = "No sites to check"
	}
	writeJSON(w, http.StatusOK, runChecksResponse{
		Message:   message,
		Checks:    summary.Checks,
		Incidents: summary.Incidents,
		Skipped:   summary.Skipped,
	})
}

func (s *Server) RunChecksPreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// GetSiteChecks godoc
// @Summary      Recent checks for a site
// @Tags         checks
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Site ID"
// @Param        limit  query     int     false  "Max checks (default 50)"
// @Success      200    {array}   models.Check
// @Failure      400    {object}  errorResponse
// @Router       /api/sites/{id}/checks [get]
func (s *Server) GetSiteChecks(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "id")

	limit := defaultCheckLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxCheckLimit)
	}

	checks, err := s.CheckRepo.GetBySiteID(r.Context(), siteID, limit)
	if err != nil {
		s.log().WithError(err).WithField("site_id", siteID).Error("Failed to load checks")
		writeError(w, http.StatusInternalServerError, "failed to get checks")
		return
	}
	writeJSON(w, http.StatusOK, checks)
}
