package api

import (
	"net/http"

	"github.com/vytor/senseflash/internal/logger"
)

type healthResponse struct {
	Status      string `json:"status"`
	Today       string `json:"today,omitempty"`
	Initialized bool   `json:"initialized"`
}

// handleHealth is the liveness probe. It also reports the engine's date so a
// CustomToday override is visible at a glance.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.Learning != nil {
		resp.Today = s.Learning.Today()
		_, resp.Initialized = s.Learning.User(r.Context())
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleReady returns 200 once the database answers a ping, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			logger.FromContext(ctx).Warn("database ping failed: %v", err)
			writeJSON(w, r, http.StatusServiceUnavailable, healthResponse{Status: "database unavailable"})
			return
		}
	}
	writeJSON(w, r, http.StatusOK, healthResponse{Status: "ready"})
}
