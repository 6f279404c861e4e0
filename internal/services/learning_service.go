package services

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/senseflash/internal/chunk"
	"github.com/vytor/senseflash/internal/clock"
	"github.com/vytor/senseflash/internal/content"
	"github.com/vytor/senseflash/internal/dailylist"
	"github.com/vytor/senseflash/internal/errors"
	"github.com/vytor/senseflash/internal/gate"
	"github.com/vytor/senseflash/internal/jobs"
	"github.com/vytor/senseflash/internal/kvstore"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/plan"
	"github.com/vytor/senseflash/internal/remote"
	"github.com/vytor/senseflash/internal/repository"
	"github.com/vytor/senseflash/internal/session"
)

// LearningService is the chunked learning flow: content setup, the plan, the
// daily list, the mode gate and study sessions.
type LearningService interface {
	Initialize(ctx context.Context, tag string) (models.UserData, error)
	Refresh(ctx context.Context) (int, error)
	Register(ctx context.Context, req RegisterRequest) (models.UserData, error)
	User(ctx context.Context) (models.UserData, bool)
	RemoteUser(ctx context.Context) (models.UserData, error)

	SetPace(ctx context.Context, durationDays int) (models.LearningPlan, error)
	OpenChunk(ctx context.Context, index int) (models.LearningPlan, error)
	TodayList(ctx context.Context) ([]models.Word, error)
	Gates(ctx context.Context) (gate.Gates, error)
	Summary(ctx context.Context) plan.Summary
	WordRows(ctx context.Context) []models.WordRow
	// RolloverCheck rebuilds today's list when the date has moved on and
	// nothing in it was learned today. It reports whether the list changed.
	RolloverCheck(ctx context.Context) (bool, error)

	Settings(ctx context.Context) models.LearnSettings
	SaveSettings(ctx context.Context, settings models.LearnSettings) error
	BuildStudySet(ctx context.Context, req StudySetRequest) ([]models.Word, error)
	Reviews(ctx context.Context) ReviewOverview

	Today() string
	SetCustomToday(ctx context.Context, date string) error
	LoadCustomToday(ctx context.Context)

	StartSession(ctx context.Context) (session.Card, bool, error)
	CurrentCard(ctx context.Context) (session.Card, bool, error)
	Answer(ctx context.Context, answer models.Answer) (session.Card, bool, error)
	FinishSession(ctx context.Context) (session.Result, error)
	CloseSession(ctx context.Context)
}

// SessionOptions tunes the per-card timers.
type SessionOptions struct {
	AnswerTimeout time.Duration
	ProgressTick  time.Duration
	AfterFunc     session.AfterFunc
}

// Deps are the collaborators of the learning service.
type Deps struct {
	Store     kvstore.Store
	Words     repository.WordRepository
	Statuses  repository.StatusRepository
	Users     repository.UserRepository
	Lists     repository.LearningListRepository
	Settings  repository.SettingsRepository
	Content   content.Source
	Remote    remote.Client
	Sync      jobs.SyncQueue
	Clock     *clock.Clock
	ChunkSize int
	Session   SessionOptions
}

type learningService struct {
	deps Deps

	// mu serialises read-modify-write cycles over the key-value state.
	mu sync.Mutex

	sessMu  sync.Mutex
	current *session.Session
}

// NewLearningService creates a new LearningService
func NewLearningService(deps Deps) LearningService {
	if deps.ChunkSize <= 0 {
		deps.ChunkSize = chunk.DefaultSize
	}
	if deps.Sync == nil {
		deps.Sync = jobs.NewDisabledQueue()
	}
	return &learningService{deps: deps}
}

func (s *learningService) Today() string {
	return s.deps.Clock.Today()
}

func (s *learningService) User(ctx context.Context) (models.UserData, bool) {
	return s.deps.Users.Get(ctx)
}

// RemoteUser reads the registered user's record back from the remote store.
func (s *learningService) RemoteUser(ctx context.Context) (models.UserData, error) {
	if s.deps.Remote == nil {
		return models.UserData{}, errors.NewBadRequestError("remote sync is not configured")
	}
	user, ok := s.deps.Users.Get(ctx)
	if !ok || user.UserID == "" {
		return models.UserData{}, errors.NewNotFoundError("registered user", "local")
	}
	remoteUser, err := s.deps.Remote.Fetch(ctx, user.UserID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("learning_service").Warn("failed to fetch remote user: %v", err)
		return models.UserData{}, errors.NewInternalError(err)
	}
	return remoteUser, nil
}

// Initialize wipes the local state and rebuilds it from the content rows for
// tag. Content is fetched before anything is removed so a failed fetch
// leaves the previous state in place.
func (s *learningService) Initialize(ctx context.Context, tag string) (models.UserData, error) {
	log := logger.FromContext(ctx).WithPrefix("learning_service")
	log.Info("initializing from tag %q", tag)

	if tag == "" {
		return models.UserData{}, errors.NewValidationError("tag", "must not be empty")
	}

	rows, err := s.deps.Content.SensesByTag(ctx, tag)
	if err != nil {
		log.Error("failed to load content: %v", err)
		return models.UserData{}, errors.NewInternalError(err)
	}

	s.CloseSession(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked(ctx, tag, rows)
}

func (s *learningService) initializeLocked(ctx context.Context, tag string, rows []models.SenseRow) (models.UserData, error) {
	log := logger.FromContext(ctx).WithPrefix("learning_service")

	if err := s.deps.Store.Remove(ctx, kvstore.AppKeys...); err != nil {
		log.Error("failed to clear local state: %v", err)
		return models.UserData{}, errors.NewInternalError(err)
	}

	words := content.Group(ctx, rows)
	user := models.NewUserData()
	user.Tag = tag
	user.LearningPlan = plan.New(chunk.Count(len(words), s.deps.ChunkSize), models.PaceNormal)

	steps := []func() error{
		func() error { return s.deps.Words.Save(ctx, words) },
		func() error { return s.deps.Statuses.ReplaceAll(ctx, content.Statuses(words)) },
		func() error { return s.deps.Lists.SaveToday(ctx, nil) },
		func() error { return s.deps.Lists.SaveCurrent(ctx, nil) },
		func() error { return s.deps.Settings.Save(ctx, models.DefaultLearnSettings()) },
		func() error { return s.deps.Users.Save(ctx, user) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return models.UserData{}, errors.NewInternalError(err)
		}
	}

	log.Info("initialized %d words in %d chunks", len(words), len(user.LearningPlan.Chunks))
	return user, nil
}

// Refresh reloads the words for the user's tag. Senses already tracked keep
// their status; new senses get a level-0 status. It returns how many
// statuses were added.
func (s *learningService) Refresh(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("learning_service")

	user, ok := s.deps.Users.Get(ctx)
	if !ok || user.Tag == "" {
		return 0, errors.NewConflictError("no word list has been initialized")
	}

	rows, err := s.deps.Content.SensesByTag(ctx, user.Tag)
	if err != nil {
		log.Error("failed to load content: %v", err)
		return 0, errors.NewInternalError(err)
	}
	words := content.Group(ctx, rows)

	s.mu.Lock()
	defer s.mu.Unlock()

	missing := content.MissingStatuses(words, models.IndexStatuses(s.deps.Statuses.List(ctx)))
	if err := s.deps.Words.Save(ctx, words); err != nil {
		return 0, errors.NewInternalError(err)
	}
	if err := s.deps.Statuses.UpsertMany(ctx, missing); err != nil {
		return 0, errors.NewInternalError(err)
	}

	user, _ = s.deps.Users.Get(ctx)
	grown := plan.Grow(user.LearningPlan, chunk.Count(len(words), s.deps.ChunkSize))
	if len(grown.Chunks) != len(user.LearningPlan.Chunks) {
		log.Info("plan grew from %d to %d chunks", len(user.LearningPlan.Chunks), len(grown.Chunks))
		user.LearningPlan = grown
		if err := s.saveUserLocked(ctx, user, models.UserDataPatch{LearningPlan: &grown}); err != nil {
			return 0, err
		}
	}

	log.Info("refreshed %d words, %d new senses", len(words), len(missing))
	return len(missing), nil
}

// saveUserLocked stores user locally and queues the patch for the remote
// copy. Queueing failures are logged only.
func (s *learningService) saveUserLocked(ctx context.Context, user models.UserData, patch models.UserDataPatch) error {
	log := logger.FromContext(ctx).WithPrefix("learning_service")

	if err := s.deps.Users.Save(ctx, user); err != nil {
		log.Error("failed to save user data: %v", err)
		return errors.NewInternalError(err)
	}
	if user.UserID == "" {
		return nil
	}
	if err := s.deps.Sync.EnqueueUpdate(user.UserID, patch); err != nil {
		log.Warn("failed to queue remote update: %v", err)
	}
	return nil
}

func (s *learningService) chunkWords(words []models.Word, p models.LearningPlan) []models.Word {
	return chunk.At(words, s.deps.ChunkSize, p.CurrentChunkIndex)
}

// todayListLocked returns today's list, regenerating and saving it when the
// daily guard allows.
func (s *learningService) todayListLocked(ctx context.Context) ([]models.Word, models.StatusIndex, models.LearningPlan, error) {
	log := logger.FromContext(ctx).WithPrefix("learning_service")

	user, _ := s.deps.Users.Get(ctx)
	statuses := models.IndexStatuses(s.deps.Statuses.List(ctx))
	today := s.Today()

	cached := s.deps.Lists.Today(ctx)
	list, regenerated := dailylist.Build(dailylist.Input{
		Plan:       user.LearningPlan,
		ChunkWords: s.chunkWords(s.deps.Words.List(ctx), user.LearningPlan),
		Statuses:   statuses,
		Cached:     cached,
		Today:      today,
	})
	if !regenerated {
		return list, statuses, user.LearningPlan, nil
	}

	log.Debug("regenerated today's list: %d words for chunk %d", len(list), user.LearningPlan.CurrentChunkIndex)
	if err := s.deps.Lists.SaveToday(ctx, list); err != nil {
		return nil, nil, user.LearningPlan, errors.NewInternalError(err)
	}
	// The list being studied only follows a changed today list, and never
	// replaces a pending study set.
	if sameWords(cached, list) || s.deps.Settings.Get(ctx).Review {
		return list, statuses, user.LearningPlan, nil
	}
	if err := s.deps.Lists.SaveCurrent(ctx, list); err != nil {
		return nil, nil, user.LearningPlan, errors.NewInternalError(err)
	}
	return list, statuses, user.LearningPlan, nil
}

// restoreCurrentLocked points CurrentLearningList back at the plan's own
// list: today's list on the frontier, the whole chunk behind it.
func (s *learningService) restoreCurrentLocked(ctx context.Context, p models.LearningPlan) error {
	words := s.deps.Lists.Today(ctx)
	if !p.OnFrontier() {
		words = s.chunkWords(s.deps.Words.List(ctx), p)
	}
	return s.deps.Lists.SaveCurrent(ctx, words)
}
