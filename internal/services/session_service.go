package services

import (
	"context"

	"github.com/vytor/senseflash/internal/errors"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/plan"
	"github.com/vytor/senseflash/internal/scheduling"
	"github.com/vytor/senseflash/internal/session"
)

// StartSession opens a session over the list being studied in the stage
// chosen in LearnSettings. Without the review overlay the stage must be
// unlocked by the gate. A stored card index resumes an interrupted session.
func (s *learningService) StartSession(ctx context.Context) (session.Card, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("learning_service")

	s.CloseSession(ctx)

	s.mu.Lock()
	settings := s.deps.Settings.Get(ctx)
	if !settings.Review {
		gates, err := s.gatesLocked(ctx)
		if err != nil {
			s.mu.Unlock()
			return session.Card{}, false, err
		}
		if !gates.Allows(settings.Mode) {
			s.mu.Unlock()
			return session.Card{}, false, errors.NewModeLockedError(string(settings.Mode))
		}
	}

	user, _ := s.deps.Users.Get(ctx)
	words := s.deps.Lists.Current(ctx)
	if len(words) == 0 {
		list, _, _, err := s.todayListLocked(ctx)
		if err != nil {
			s.mu.Unlock()
			return session.Card{}, false, err
		}
		words = list
	}
	statuses := sessionStatuses(words, s.deps.Statuses.List(ctx))
	startIndex := s.deps.Settings.CardIndex(ctx)
	s.mu.Unlock()

	sess := session.New(ctx, session.Config{
		Mode:          settings.Mode,
		Overlay:       settings.Review,
		Words:         words,
		Statuses:      statuses,
		StartIndex:    startIndex,
		DurationDays:  user.LearningPlan.DurationDays,
		Today:         s.Today(),
		AnswerTimeout: s.deps.Session.AnswerTimeout,
		ProgressTick:  s.deps.Session.ProgressTick,
		AfterFunc:     s.deps.Session.AfterFunc,
	}, &recorder{svc: s})

	s.sessMu.Lock()
	s.current = sess
	s.sessMu.Unlock()

	log.Info("session started: mode=%s overlay=%t words=%d index=%d", settings.Mode, settings.Review, len(words), sess.Index())
	card, ok := sess.Current()
	return card, ok, nil
}

// sessionStatuses returns the statuses of every sense of words.
func sessionStatuses(words []models.Word, all []models.SenseStatus) []models.SenseStatus {
	ids := make(map[int64]bool)
	for _, id := range models.SenseIDs(words) {
		ids[id] = true
	}
	var out []models.SenseStatus
	for _, st := range all {
		if ids[st.SensesID] {
			out = append(out, st)
		}
	}
	return out
}

func (s *learningService) session() (*session.Session, error) {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	if s.current == nil {
		return nil, errors.NewNotFoundError("session", "current")
	}
	return s.current, nil
}

func (s *learningService) CurrentCard(ctx context.Context) (session.Card, bool, error) {
	sess, err := s.session()
	if err != nil {
		return session.Card{}, false, err
	}
	card, ok := sess.Current()
	return card, ok, nil
}

// Answer records an answer on the current card. Answers the session cannot
// take, like a second answer during feedback, are ignored; answering a
// finished session is a conflict.
func (s *learningService) Answer(ctx context.Context, answer models.Answer) (session.Card, bool, error) {
	if !answer.Valid() {
		return session.Card{}, false, errors.NewValidationError("answer", "must be know or dontKnow")
	}
	sess, err := s.session()
	if err != nil {
		return session.Card{}, false, err
	}
	if sess.State() == session.Done {
		return session.Card{}, false, errors.NewConflictError("session already finished")
	}

	accepted := sess.Answer(answer)
	logger.FromContext(ctx).WithPrefix("learning_service").Debug("answer %s accepted=%t", answer, accepted)

	card, _ := sess.Current()
	return card, accepted, nil
}

// FinishSession completes a session whose last card has been answered
// without waiting for the feedback delay.
func (s *learningService) FinishSession(ctx context.Context) (session.Result, error) {
	sess, err := s.session()
	if err != nil {
		return session.Result{}, err
	}
	sess.Finish()
	res, ok := sess.Result()
	if !ok {
		return session.Result{}, errors.NewConflictError("session has unanswered cards")
	}
	return res, nil
}

// CloseSession abandons the running session, if any.
func (s *learningService) CloseSession(ctx context.Context) {
	s.sessMu.Lock()
	sess := s.current
	s.current = nil
	s.sessMu.Unlock()

	if sess != nil {
		sess.Close()
	}
}

// recorder persists session events. Session callbacks run under the
// session's lock, so the recorder only takes the service state lock and
// never calls back into the session.
type recorder struct {
	svc *learningService
}

func (r *recorder) RecordAnswer(ctx context.Context, status models.SenseStatus) error {
	r.svc.mu.Lock()
	defer r.svc.mu.Unlock()
	return r.svc.deps.Statuses.UpsertMany(ctx, []models.SenseStatus{status})
}

func (r *recorder) RecordIndex(ctx context.Context, index int) error {
	r.svc.mu.Lock()
	defer r.svc.mu.Unlock()
	return r.svc.deps.Settings.SaveCardIndex(ctx, index)
}

func (r *recorder) Finish(ctx context.Context, res session.Result) error {
	log := logger.FromContext(ctx).WithPrefix("learning_service")

	r.svc.mu.Lock()
	defer r.svc.mu.Unlock()

	deps := r.svc.deps
	if err := deps.Statuses.UpsertMany(ctx, res.Statuses); err != nil {
		return err
	}

	user, _ := deps.Users.Get(ctx)
	user.Progress = scheduling.AddDailyProgress(user.Progress, res.Today, res.Score.Answered, res.Mode, res.Overlay)
	patch := models.UserDataPatch{Progress: user.Progress}
	if res.ChunkCompleted {
		user.LearningPlan = plan.Complete(user.LearningPlan, res.Today)
		patch.LearningPlan = &user.LearningPlan
		log.Info("chunk %d completed, unlocked up to %d", user.LearningPlan.CurrentChunkIndex, user.LearningPlan.UnlockedChunkIndex)
	}
	if err := r.svc.saveUserLocked(ctx, user, patch); err != nil {
		return err
	}

	if err := deps.Settings.ClearCardIndex(ctx); err != nil {
		log.Warn("failed to clear card index: %v", err)
	}
	settings := deps.Settings.Get(ctx)
	if settings.Review {
		settings.Review = false
		if err := deps.Settings.Save(ctx, settings); err != nil {
			log.Warn("failed to reset review overlay: %v", err)
		}
		if err := r.svc.restoreCurrentLocked(ctx, user.LearningPlan); err != nil {
			log.Warn("failed to restore the current list: %v", err)
		}
	}
	return nil
}
