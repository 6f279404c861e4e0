package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(30 * time.Second))

		r.Post("/init", s.handleInitialize)
		r.Post("/register", s.handleRegister)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/user", s.handleUser)
		r.Get("/user/remote", s.handleRemoteUser)

		r.Get("/plan", s.handlePlanSummary)
		r.Put("/plan/pace", s.handleSetPace)
		r.Post("/chunks/{index}/open", s.handleOpenChunk)
		r.Get("/today", s.handleToday)
		r.Get("/gates", s.handleGates)
		r.Get("/words", s.handleWordRows)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleSaveSettings)
		r.Post("/study-set", s.handleStudySet)
		r.Get("/reviews", s.handleReviews)

		r.Get("/date", s.handleGetDate)
		r.Put("/date", s.handleSetDate)
		r.Delete("/date", s.handleClearDate)

		r.Post("/session", s.handleStartSession)
		r.Get("/session", s.handleCurrentCard)
		r.Post("/session/answer", s.handleAnswer)
		r.Post("/session/finish", s.handleFinishSession)
		r.Delete("/session", s.handleCloseSession)

		r.Route("/legacy/{list}", func(r chi.Router) {
			r.Get("/words", s.handleLegacyWords)
			r.Put("/words", s.handleLegacySaveWords)
			r.Get("/modes", s.handleLegacyModes)
			r.Get("/ranges", s.handleLegacyRanges)
			r.Post("/prepare", s.handleLegacyPrepare)
			r.Post("/words/{id}/answer", s.handleLegacyAnswer)
			r.Post("/test", s.handleLegacyFinishTest)
		})
	})
	return r
}
