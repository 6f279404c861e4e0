package api

import (
	"net/http"

	"github.com/vytor/senseflash/internal/gate"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/services"
)

type todayResponse struct {
	Date  string              `json:"date"`
	Words []models.Word       `json:"words"`
	Gates gate.Gates          `json:"gates"`
	Plan  models.LearningPlan `json:"plan"`
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tag string `json:"tag"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.Learning.Initialize(r.Context(), req.Tag)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.Learning.Register(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, user)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	added, err := s.Learning.Refresh(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"added": added})
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.Learning.User(r.Context())
	if !ok {
		writeJSON(w, r, http.StatusOK, map[string]any{"initialized": false})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"initialized": true, "user": user})
}

func (s *Server) handleRemoteUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.Learning.RemoteUser(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (s *Server) handlePlanSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Learning.Summary(r.Context()))
}

func (s *Server) handleSetPace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DurationDays int `json:"durationDays"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	p, err := s.Learning.SetPace(r.Context(), req.DurationDays)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleOpenChunk(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	index, err := intParam(r, "index")
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("opening chunk %d", index)

	p, err := s.Learning.OpenChunk(r.Context(), index)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	words, err := s.Learning.TodayList(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	gates, err := s.Learning.Gates(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	user, _ := s.Learning.User(ctx)

	if words == nil {
		words = []models.Word{}
	}
	writeJSON(w, r, http.StatusOK, todayResponse{
		Date:  s.Learning.Today(),
		Words: words,
		Gates: gates,
		Plan:  user.LearningPlan,
	})
}

func (s *Server) handleGates(w http.ResponseWriter, r *http.Request) {
	gates, err := s.Learning.Gates(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, gates)
}

func (s *Server) handleWordRows(w http.ResponseWriter, r *http.Request) {
	rows := s.Learning.WordRows(r.Context())
	if rows == nil {
		rows = []models.WordRow{}
	}
	writeJSON(w, r, http.StatusOK, rows)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Learning.Settings(r.Context()))
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.LearnSettings
	if err := decodeJSON(r, &settings); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Learning.SaveSettings(r.Context(), settings); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, settings)
}

func (s *Server) handleStudySet(w http.ResponseWriter, r *http.Request) {
	var req services.StudySetRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	words, err := s.Learning.BuildStudySet(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, words)
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Learning.Reviews(r.Context()))
}

func (s *Server) handleGetDate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"today": s.Learning.Today()})
}

func (s *Server) handleSetDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Learning.SetCustomToday(r.Context(), req.Date); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"today": s.Learning.Today()})
}

func (s *Server) handleClearDate(w http.ResponseWriter, r *http.Request) {
	if err := s.Learning.SetCustomToday(r.Context(), ""); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"today": s.Learning.Today()})
}
