package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/senseflash/internal/legacy"
)

func (s *Server) handleLegacyWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.Legacy.Words(r.Context(), chi.URLParam(r, "list"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if words == nil {
		words = []legacy.Word{}
	}
	writeJSON(w, r, http.StatusOK, words)
}

func (s *Server) handleLegacySaveWords(w http.ResponseWriter, r *http.Request) {
	var words []legacy.Word
	if err := decodeJSON(r, &words); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Legacy.SaveWords(r.Context(), chi.URLParam(r, "list"), words); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLegacyModes(w http.ResponseWriter, r *http.Request) {
	modes, err := s.Legacy.Modes(r.Context(), chi.URLParam(r, "list"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, modes)
}

func (s *Server) handleLegacyRanges(w http.ResponseWriter, r *http.Request) {
	ranges, err := s.Legacy.Ranges(r.Context(), chi.URLParam(r, "list"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if ranges == nil {
		ranges = []legacy.LevelRange{}
	}
	writeJSON(w, r, http.StatusOK, ranges)
}

func (s *Server) handleLegacyPrepare(w http.ResponseWriter, r *http.Request) {
	var settings legacy.Settings
	if err := decodeJSON(r, &settings); err != nil {
		handleError(w, r, err)
		return
	}

	prepared, err := s.Legacy.Prepare(r.Context(), chi.URLParam(r, "list"), settings)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, prepared)
}

func (s *Server) handleLegacyAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method  legacy.Method `json:"method"`
		Correct bool          `json:"correct"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	word, err := s.Legacy.Answer(r.Context(), chi.URLParam(r, "list"), chi.URLParam(r, "id"), req.Method, req.Correct)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, word)
}

func (s *Server) handleLegacyFinishTest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode    legacy.Mode `json:"mode"`
		Correct int         `json:"correct"`
		Total   int         `json:"total"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.Legacy.FinishTest(r.Context(), chi.URLParam(r, "list"), req.Mode, req.Correct, req.Total)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
