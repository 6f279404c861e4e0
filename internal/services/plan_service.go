package services

import (
	"context"

	"github.com/vytor/senseflash/internal/chunk"
	"github.com/vytor/senseflash/internal/dailylist"
	"github.com/vytor/senseflash/internal/errors"
	"github.com/vytor/senseflash/internal/gate"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/plan"
	"github.com/vytor/senseflash/internal/scheduling"
)

func (s *learningService) SetPace(ctx context.Context, durationDays int) (models.LearningPlan, error) {
	if !plan.ValidPace(durationDays) {
		return models.LearningPlan{}, errors.NewValidationError("durationDays", "must be 3, 5 or 9")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.deps.Users.Get(ctx)
	if !ok {
		return models.LearningPlan{}, errors.NewConflictError("no word list has been initialized")
	}
	user.LearningPlan = plan.SetPace(user.LearningPlan, durationDays)
	if err := s.saveUserLocked(ctx, user, models.UserDataPatch{LearningPlan: &user.LearningPlan}); err != nil {
		return models.LearningPlan{}, err
	}
	return user.LearningPlan, nil
}

// OpenChunk makes index the current chunk. Opening the frontier chunk builds
// today's list from it; opening an earlier chunk studies the whole chunk.
func (s *learningService) OpenChunk(ctx context.Context, index int) (models.LearningPlan, error) {
	log := logger.FromContext(ctx).WithPrefix("learning_service")

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.deps.Users.Get(ctx)
	if !ok {
		return models.LearningPlan{}, errors.NewConflictError("no word list has been initialized")
	}
	p := user.LearningPlan
	if _, exists := p.Chunks[index]; !exists {
		return models.LearningPlan{}, errors.NewNotFoundError("chunk", index)
	}
	if !plan.CanOpen(p, index) {
		return models.LearningPlan{}, errors.NewLockedError(index, p.UnlockedChunkIndex)
	}

	user.LearningPlan = plan.Open(p, index, s.Today())
	if err := s.saveUserLocked(ctx, user, models.UserDataPatch{LearningPlan: &user.LearningPlan}); err != nil {
		return models.LearningPlan{}, err
	}
	log.Info("opened chunk %d (unlocked %d)", index, user.LearningPlan.UnlockedChunkIndex)

	if !user.LearningPlan.OnFrontier() {
		words := s.chunkWords(s.deps.Words.List(ctx), user.LearningPlan)
		if err := s.deps.Lists.SaveCurrent(ctx, words); err != nil {
			return models.LearningPlan{}, errors.NewInternalError(err)
		}
		return user.LearningPlan, nil
	}
	list, _, _, err := s.todayListLocked(ctx)
	if err != nil {
		return models.LearningPlan{}, err
	}
	if err := s.deps.Lists.SaveCurrent(ctx, list); err != nil {
		return models.LearningPlan{}, errors.NewInternalError(err)
	}
	return user.LearningPlan, nil
}

func (s *learningService) TodayList(ctx context.Context) ([]models.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _, _, err := s.todayListLocked(ctx)
	return list, err
}

func (s *learningService) Gates(ctx context.Context) (gate.Gates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gatesLocked(ctx)
}

func (s *learningService) gatesLocked(ctx context.Context) (gate.Gates, error) {
	list, statuses, p, err := s.todayListLocked(ctx)
	if err != nil {
		return gate.Gates{}, err
	}
	return gate.Evaluate(p, list, statuses, s.Today()), nil
}

func (s *learningService) RolloverCheck(ctx context.Context) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("rollover")

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.deps.Users.Get(ctx)
	if !ok {
		return false, nil
	}
	statuses := models.IndexStatuses(s.deps.Statuses.List(ctx))
	cached := s.deps.Lists.Today(ctx)
	if len(cached) == 0 || !dailylist.ShouldRegenerate(user.LearningPlan, cached, statuses, s.Today()) {
		return false, nil
	}

	list, _, _, err := s.todayListLocked(ctx)
	if err != nil {
		return false, err
	}
	if sameWords(cached, list) {
		return false, nil
	}
	log.Info("date rolled over, today's list rebuilt with %d words", len(list))
	return true, nil
}

func sameWords(a, b []models.Word) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].WordID != b[i].WordID {
			return false
		}
	}
	return true
}

func (s *learningService) Summary(ctx context.Context) plan.Summary {
	user, _ := s.deps.Users.Get(ctx)
	return plan.Summarize(user.LearningPlan, len(user.LearningPlan.Chunks))
}

func (s *learningService) WordRows(ctx context.Context) []models.WordRow {
	words := s.deps.Words.List(ctx)
	statuses := models.IndexStatuses(s.deps.Statuses.List(ctx))
	return scheduling.WordRows(words, statuses, chunk.IndexOf(words, s.deps.ChunkSize))
}
