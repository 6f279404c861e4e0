package services

import (
	"context"
	"math/rand/v2"

	"github.com/vytor/senseflash/internal/clock"
	"github.com/vytor/senseflash/internal/errors"
	"github.com/vytor/senseflash/internal/legacy"
	"github.com/vytor/senseflash/internal/logger"
)

// LegacyService runs the flat eleven-level flow over named word lists.
type LegacyService interface {
	Words(ctx context.Context, list string) ([]legacy.Word, error)
	SaveWords(ctx context.Context, list string, words []legacy.Word) error
	Modes(ctx context.Context, list string) ([]LegacyModeAccess, error)
	Ranges(ctx context.Context, list string) ([]legacy.LevelRange, error)
	Prepare(ctx context.Context, list string, settings legacy.Settings) (LegacySession, error)
	Answer(ctx context.Context, list, wordID string, method legacy.Method, correct bool) (legacy.Word, error)
	FinishTest(ctx context.Context, list string, mode legacy.Mode, correct, total int) (legacy.TestResult, error)
}

// LegacyModeAccess reports whether a mode is open for a list.
type LegacyModeAccess struct {
	Mode   legacy.Mode   `json:"mode"`
	Open   bool          `json:"open"`
	Method legacy.Method `json:"method"`
}

// LegacySession is a prepared flat-flow session.
type LegacySession struct {
	Settings legacy.Settings `json:"settings"`
	Words    []legacy.Word   `json:"words"`
}

var legacyModes = []legacy.Mode{legacy.WordEnJa, legacy.WordJaEn, legacy.SentenceEnJa, legacy.SentenceJaEn}

type legacyService struct {
	store *legacy.Store
	clock clock.DateProvider
	rng   *rand.Rand
}

// NewLegacyService creates a new LegacyService
func NewLegacyService(store *legacy.Store, clk clock.DateProvider) LegacyService {
	return &legacyService{
		store: store,
		clock: clk,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (s *legacyService) words(ctx context.Context, list string) ([]legacy.Word, error) {
	if !legacy.ValidListName(list) {
		return nil, errors.NewNotFoundError("word list", list)
	}
	return s.store.List(ctx, list), nil
}

func (s *legacyService) Words(ctx context.Context, list string) ([]legacy.Word, error) {
	return s.words(ctx, list)
}

func (s *legacyService) SaveWords(ctx context.Context, list string, words []legacy.Word) error {
	if !legacy.ValidListName(list) {
		return errors.NewNotFoundError("word list", list)
	}
	for _, w := range words {
		if w.ID == "" {
			return errors.NewValidationError("id", "every word needs an id")
		}
		if w.Level < 1 || w.Level > legacy.MaxLevel {
			return errors.NewValidationError("level", "must be between 1 and 11")
		}
	}
	if err := s.store.SaveList(ctx, list, words); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// Modes lists each mode with whether the whole list has reached it and the
// method a session in it would use.
func (s *legacyService) Modes(ctx context.Context, list string) ([]LegacyModeAccess, error) {
	words, err := s.words(ctx, list)
	if err != nil {
		return nil, err
	}
	out := make([]LegacyModeAccess, 0, len(legacyModes))
	for _, m := range legacyModes {
		out = append(out, LegacyModeAccess{
			Mode:   m,
			Open:   legacy.CanAccess(m.AccessLevel(), words, 0),
			Method: legacy.ChooseMethod(m, words),
		})
	}
	return out, nil
}

func (s *legacyService) Ranges(ctx context.Context, list string) ([]legacy.LevelRange, error) {
	words, err := s.words(ctx, list)
	if err != nil {
		return nil, err
	}
	return legacy.AvailableRanges(words), nil
}

// Prepare checks the mode is open, fills in the method when none is given
// and returns the words the session covers.
func (s *legacyService) Prepare(ctx context.Context, list string, settings legacy.Settings) (LegacySession, error) {
	log := logger.FromContext(ctx).WithPrefix("legacy_service")

	words, err := s.words(ctx, list)
	if err != nil {
		return LegacySession{}, err
	}
	if !settings.Mode.Valid() {
		return LegacySession{}, errors.NewValidationError("mode", "unknown mode "+string(settings.Mode))
	}
	if !legacy.CanAccess(settings.Mode.AccessLevel(), words, 0) {
		return LegacySession{}, errors.NewModeLockedError(string(settings.Mode))
	}
	if settings.Method == "" {
		settings.Method = legacy.ChooseMethod(settings.Mode, words)
	}
	settings = legacy.Normalize(settings)

	selected := legacy.Select(words, settings, s.rng)
	log.Info("prepared %s session on %s: method=%s words=%d", settings.Mode, list, settings.Method, len(selected))
	return LegacySession{Settings: settings, Words: selected}, nil
}

func (s *legacyService) Answer(ctx context.Context, list, wordID string, method legacy.Method, correct bool) (legacy.Word, error) {
	if !legacy.ValidListName(list) {
		return legacy.Word{}, errors.NewNotFoundError("word list", list)
	}
	today := s.clock.Today()
	w, ok, err := s.store.Update(ctx, list, wordID, func(w legacy.Word) legacy.Word {
		return legacy.Step(w, method, correct, today)
	})
	if err != nil {
		return legacy.Word{}, errors.NewInternalError(err)
	}
	if !ok {
		return legacy.Word{}, errors.NewNotFoundError("word", wordID)
	}
	return w, nil
}

// FinishTest scores a test over the whole list and stores the promoted
// levels when it passes.
func (s *legacyService) FinishTest(ctx context.Context, list string, mode legacy.Mode, correct, total int) (legacy.TestResult, error) {
	log := logger.FromContext(ctx).WithPrefix("legacy_service")

	if total <= 0 || correct < 0 || correct > total {
		return legacy.TestResult{}, errors.NewValidationError("correct", "must be between 0 and total")
	}
	words, err := s.words(ctx, list)
	if err != nil {
		return legacy.TestResult{}, err
	}

	res := legacy.FinishTest(words, mode, correct, total)
	if res.Passed {
		if err := s.store.SaveList(ctx, list, res.Words); err != nil {
			return legacy.TestResult{}, errors.NewInternalError(err)
		}
	}
	log.Info("test on %s in %s: %d%% passed=%t skipped=%t", list, mode, res.Percent, res.Passed, res.Skipped)
	return res, nil
}
