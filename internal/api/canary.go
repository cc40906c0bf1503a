package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/MimoJanra/SitePulse/internal/storage"
)

const defaultCanaryStatus = http.StatusOK

// Canary godoc
// @Summary      Self-test target
// @Description  Responds with the configured canary status code so the monitor can be exercised end to end.
// @Tags         public
// @Produce      html
// @Success      200  {string}  string
// @Router       /canary [get]
func (s *Server) Canary(w http.ResponseWriter, r *http.Request) {
	status := defaultCanaryStatus
	raw, ok, err := s.SettingsRepo.Get(r.Context(), storage.CanaryStatusCodeKey)
	if err != nil {
		s.log().WithError(err).Warn("Failed to read canary status, using default")
	} else if ok {
		if n, convErr := strconv.Atoi(raw); convErr == nil && validStatusCode(n) {
			status = n
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><title>Canary</title></head>\n<body><p>Canary response: %d</p></body>\n</html>", status)
}

type canaryRequest struct {
	StatusCode int `json:"status_code" example:"503"`
}

// UpdateCanary godoc
// @Summary      Set the canary status code
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      canaryRequest  true  "Status code"
// @Success      200   {object}  canaryRequest
// @Failure      400   {object}  errorResponse
// @Router       /api/settings/canary [put]
func (s *Server) UpdateCanary(w http.ResponseWriter, r *http.Request) {
	var body canaryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validStatusCode(body.StatusCode) {
		writeError(w, http.StatusBadRequest, "status_code must be between 100 and 599")
		return
	}

	if err := s.SettingsRepo.Set(r.Context(), storage.CanaryStatusCodeKey, strconv.Itoa(body.StatusCode)); err != nil {
		s.log().WithError(err).Error("Failed to save canary status")
		writeError(w, http.StatusInternalServerError, "failed to save setting")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// Healthz godoc
// @Summary      Liveness probe
// @Tags         public
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func validStatusCode(n int) bool {
	return n >= 100 && n <= 599
}
