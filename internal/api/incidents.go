package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/MimoJanra/SitePulse/internal/models"
)

// GetIncidents godoc
// @Summary      List incidents
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "open or resolved"
// @Success      200     {array}   models.Incident
// @Failure      400     {object}  errorResponse
// @Router       /api/incidents [get]
func (s *Server) GetIncidents(w http.ResponseWriter, r *http.Request) {
	status := models.IncidentStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.IncidentOpen, models.IncidentResolved:
	default:
		writeError(w, http.StatusBadRequest, "status must be open or resolved")
		return
	}

	incidents, err := s.IncidentRepo.List(r.Context(), status)
	if err != nil {
		s.log().WithError(err).Error("Failed to list incidents")
		writeError(w, http.StatusInternalServerError, "failed to get incidents")
		return
	}
	writeJSON(w, http.StatusOK, incidents)
}

// ResolveIncident godoc
// @Summary      Resolve an open incident
// @Tags         incidents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Incident ID"
// @Success      200  {object}  models.Incident
// @Failure      404  {object}  errorResponse
// @Router       /api/incidents/{id}/resolve [post]
func (s *Server) ResolveIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	inc, err := s.IncidentRepo.Resolve(r.Context(), id, s.clock().UTC())
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "open incident not found")
		return
	}
	if err != nil {
		s.log().WithError(err).WithField("incident_id", id).Error("Failed to resolve incident")
		writeError(w, http.StatusInternalServerError, "failed to resolve incident")
		return
	}

	s.log().WithFields(logrus.Fields{"incident_id": inc.ID, "site_id": inc.SiteID}).Info("Incident resolved")
	writeJSON(w, http.StatusOK, inc)
}
