package api

import (
	"net/http"

	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/session"
)

type cardResponse struct {
	Active   bool          `json:"active"`
	Accepted *bool         `json:"accepted,omitempty"`
	Card     *session.Card `json:"card,omitempty"`
}

func cardBody(card session.Card, ok bool) cardResponse {
	if !ok {
		return cardResponse{}
	}
	return cardResponse{Active: true, Card: &card}
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	card, ok, err := s.Learning.StartSession(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, cardBody(card, ok))
}

func (s *Server) handleCurrentCard(w http.ResponseWriter, r *http.Request) {
	card, ok, err := s.Learning.CurrentCard(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cardBody(card, ok))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer models.Answer `json:"answer"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, accepted, err := s.Learning.Answer(r.Context(), req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	body := cardBody(card, card.Total > 0)
	body.Accepted = &accepted
	writeJSON(w, r, http.StatusOK, body)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	res, err := s.Learning.FinishSession(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	s.Learning.CloseSession(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
