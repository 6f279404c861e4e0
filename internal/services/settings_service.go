package services

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/vytor/senseflash/internal/dailylist"
	"github.com/vytor/senseflash/internal/errors"
	"github.com/vytor/senseflash/internal/kvstore"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
)

// Study set orders.
const (
	OrderDefault      = "default"
	OrderAlphabetical = "alphabetical"
	OrderRandom       = "random"
	OrderLevel        = "level"
	OrderReviewDate   = "reviewDate"
)

// StudySetRequest builds an ad-hoc set. Review mode draws the words due for
// review across every chunk; the other modes draw from the current chunk.
// Count <= 0 takes every word.
type StudySetRequest struct {
	Mode         models.Mode `json:"mode"`
	Order        string      `json:"order"`
	Count        int         `json:"count"`
	OnlyMistakes bool        `json:"onlyMistakes"`
}

func (s *learningService) Settings(ctx context.Context) models.LearnSettings {
	return s.deps.Settings.Get(ctx)
}

func (s *learningService) SaveSettings(ctx context.Context, settings models.LearnSettings) error {
	if !settings.Mode.Valid() {
		return errors.NewValidationError("mode", "must be input, output, test or review")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deps.Settings.Save(ctx, settings); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// ReviewOverview is what review mode would study now and when the next
// review falls due.
type ReviewOverview struct {
	Words []models.Word        `json:"words"`
	Next  dailylist.NextReview `json:"next"`
}

func (s *learningService) Reviews(ctx context.Context) ReviewOverview {
	words := s.deps.Words.List(ctx)
	statuses := models.IndexStatuses(s.deps.Statuses.List(ctx))
	return ReviewOverview{
		Words: dailylist.ReviewList(words, statuses, s.Today()),
		Next:  dailylist.Next(words, statuses),
	}
}

// BuildStudySet picks words for req, stores them as the list to study and
// turns on the review overlay for req.Mode.
func (s *learningService) BuildStudySet(ctx context.Context, req StudySetRequest) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("learning_service")

	if !req.Mode.Valid() {
		return nil, errors.NewValidationError("mode", "must be input, output, test or review")
	}
	switch req.Order {
	case "", OrderDefault, OrderAlphabetical, OrderRandom, OrderLevel, OrderReviewDate:
	default:
		return nil, errors.NewValidationError("order", "unknown order "+req.Order)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, _ := s.deps.Users.Get(ctx)
	statuses := models.IndexStatuses(s.deps.Statuses.List(ctx))
	var words []models.Word
	if req.Mode == models.ModeReview {
		words = dailylist.ReviewList(s.deps.Words.List(ctx), statuses, s.Today())
		if len(words) == 0 {
			return nil, errors.NewBadRequestError("no words are due for review")
		}
	} else {
		words = s.chunkWords(s.deps.Words.List(ctx), user.LearningPlan)
	}

	set := StudySet(words, statuses, req, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if len(set) == 0 {
		return nil, errors.NewBadRequestError("no words match the study set filters")
	}

	if err := s.deps.Lists.SaveCurrent(ctx, set); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if err := s.deps.Settings.Save(ctx, models.LearnSettings{Mode: req.Mode, Review: true}); err != nil {
		return nil, errors.NewInternalError(err)
	}
	if err := s.deps.Settings.ClearCardIndex(ctx); err != nil {
		log.Warn("failed to clear card index: %v", err)
	}

	log.Info("study set of %d words ready: mode=%s order=%s", len(set), req.Mode, req.Order)
	return set, nil
}

// StudySet filters, samples and orders words. The mistake filter keeps words
// with a sense answered wrong in the last session.
func StudySet(words []models.Word, statuses models.StatusIndex, req StudySetRequest, rng *rand.Rand) []models.Word {
	out := make([]models.Word, 0, len(words))
	for _, w := range words {
		if !req.OnlyMistakes || missed(w, statuses) {
			out = append(out, w)
		}
	}

	if req.Count > 0 && req.Count < len(out) {
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		out = out[:req.Count]
	}

	switch req.Order {
	case OrderAlphabetical:
		slices.SortStableFunc(out, func(a, b models.Word) int {
			return strings.Compare(strings.ToLower(a.Word), strings.ToLower(b.Word))
		})
	case OrderRandom:
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	case OrderLevel:
		slices.SortStableFunc(out, func(a, b models.Word) int {
			return firstStatus(a, statuses).Level - firstStatus(b, statuses).Level
		})
	case OrderReviewDate:
		slices.SortStableFunc(out, func(a, b models.Word) int {
			return strings.Compare(firstStatus(a, statuses).ReviewDate, firstStatus(b, statuses).ReviewDate)
		})
	}
	return out
}

func missed(w models.Word, statuses models.StatusIndex) bool {
	for _, sense := range w.Senses {
		if statuses[sense.SensesID].Temp == models.TempIncorrect {
			return true
		}
	}
	return false
}

func firstStatus(w models.Word, statuses models.StatusIndex) models.SenseStatus {
	sense, _ := w.FirstSense()
	return statuses[sense.SensesID]
}

// SetCustomToday pins the date used by every scheduling decision and keeps
// it across restarts. An empty date returns to the wall clock.
func (s *learningService) SetCustomToday(ctx context.Context, date string) error {
	log := logger.FromContext(ctx).WithPrefix("learning_service")

	if err := s.deps.Clock.SetOverride(date); err != nil {
		return errors.NewValidationError("date", err.Error())
	}

	var err error
	if date == "" {
		err = s.deps.Store.Remove(ctx, kvstore.KeyCustomToday)
	} else {
		err = s.deps.Store.Set(ctx, kvstore.KeyCustomToday, date)
	}
	if err != nil {
		log.Error("failed to persist custom today: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("today is now %s (override=%q)", s.Today(), date)
	return nil
}

// LoadCustomToday applies a stored override. Invalid values are ignored.
func (s *learningService) LoadCustomToday(ctx context.Context) {
	log := logger.FromContext(ctx).WithPrefix("learning_service")

	date, ok, err := s.deps.Store.Get(ctx, kvstore.KeyCustomToday)
	if err != nil {
		log.Warn("failed to read custom today: %v", err)
		return
	}
	if !ok || date == "" {
		return
	}
	if err := s.deps.Clock.SetOverride(date); err != nil {
		log.Warn("ignoring stored custom today %q: %v", date, err)
		return
	}
	log.Info("using custom today %s", date)
}
