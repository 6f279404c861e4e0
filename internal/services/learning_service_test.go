package services_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/senseflash/internal/clock"
	"github.com/vytor/senseflash/internal/errors"
	"github.com/vytor/senseflash/internal/kvstore"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/plan"
	"github.com/vytor/senseflash/internal/repository"
	"github.com/vytor/senseflash/internal/repository/kv"
	"github.com/vytor/senseflash/internal/services"
	"github.com/vytor/senseflash/internal/session"
	"github.com/vytor/senseflash/internal/testutil"
	"github.com/vytor/senseflash/internal/testutil/mocks"
)

const day1 = "2025-01-06"

// timerQueue runs session delays on demand. Anything a minute or longer
// (the countdown and progress tick in these tests) never fires.
type timerQueue struct {
	mu     sync.Mutex
	timers []*queuedTimer
}

type queuedTimer struct {
	q      *timerQueue
	d      time.Duration
	f      func()
	active bool
}

func (t *queuedTimer) Stop() bool {
	t.q.mu.Lock()
	defer t.q.mu.Unlock()
	was := t.active
	t.active = false
	return was
}

func (q *timerQueue) AfterFunc(d time.Duration, f func()) session.Timer {
	q.mu.Lock()
	defer q.mu.Unlock()
	t := &queuedTimer{q: q, d: d, f: f, active: true}
	q.timers = append(q.timers, t)
	return t
}

func (q *timerQueue) flush() {
	for {
		q.mu.Lock()
		var next *queuedTimer
		for _, t := range q.timers {
			if t.active && t.d < time.Minute {
				next = t
				break
			}
		}
		if next != nil {
			next.active = false
		}
		q.mu.Unlock()
		if next == nil {
			return
		}
		next.f()
	}
}

func rowsFor(words []models.Word) []models.SenseRow {
	var rows []models.SenseRow
	for _, w := range words {
		for _, s := range w.Senses {
			rows = append(rows, models.SenseRow{
				SensesID:     s.SensesID,
				WordID:       w.WordID,
				Word:         w.Word,
				PartOfSpeech: s.PartOfSpeech,
				DefinitionEn: s.DefinitionEn,
				DefinitionJa: s.DefinitionJa,
				Tags:         s.Tags,
			})
		}
	}
	return rows
}

type LearningServiceSuite struct {
	suite.Suite
	ctx      context.Context
	store    *kvstore.Memory
	clock    *clock.Clock
	content  *mocks.MockRemoteClient
	sync     *mocks.MockSyncQueue
	timers   *timerQueue
	statuses repository.StatusRepository
	users    repository.UserRepository
	lists    repository.LearningListRepository
	settings repository.SettingsRepository
	svc      services.LearningService
}

func (s *LearningServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = kvstore.NewMemory()
	s.clock = clock.Fixed(day1)
	s.content = new(mocks.MockRemoteClient)
	s.sync = new(mocks.MockSyncQueue)
	s.timers = &timerQueue{}
	s.statuses = kv.NewStatusRepository(s.store)
	s.users = kv.NewUserRepository(s.store)
	s.lists = kv.NewLearningListRepository(s.store)
	s.settings = kv.NewSettingsRepository(s.store)

	s.svc = services.NewLearningService(services.Deps{
		Store:    s.store,
		Words:    kv.NewWordRepository(s.store),
		Statuses: s.statuses,
		Users:    s.users,
		Lists:    s.lists,
		Settings: s.settings,
		Content:  s.content,
		Remote:   s.content,
		Sync:     s.sync,
		Clock:    s.clock,
		Session: services.SessionOptions{
			AnswerTimeout: time.Hour,
			ProgressTick:  time.Hour,
			AfterFunc:     s.timers.AfterFunc,
		},
	})
}

func (s *LearningServiceSuite) init(n int) []models.Word {
	words := testutil.MakeWords(n)
	s.content.On("SensesByTag", mock.Anything, "duo3").Return(rowsFor(words), nil)
	_, err := s.svc.Initialize(s.ctx, "duo3")
	s.Require().NoError(err)
	return words
}

func (s *LearningServiceSuite) setStatuses(f func(*models.SenseStatus)) {
	all := s.statuses.List(s.ctx)
	for i := range all {
		f(&all[i])
	}
	s.Require().NoError(s.statuses.ReplaceAll(s.ctx, all))
}

func (s *LearningServiceSuite) runSession(mode models.Mode, answer func(i int) models.Answer) session.Result {
	s.Require().NoError(s.svc.SaveSettings(s.ctx, models.LearnSettings{Mode: mode, Review: s.settings.Get(s.ctx).Review}))
	card, ok, err := s.svc.StartSession(s.ctx)
	s.Require().NoError(err)
	s.Require().True(ok)

	for i := 0; i < card.Total; i++ {
		_, accepted, err := s.svc.Answer(s.ctx, answer(i))
		s.Require().NoError(err)
		s.Require().True(accepted)
		s.timers.flush()
	}
	res, err := s.svc.FinishSession(s.ctx)
	s.Require().NoError(err)
	return res
}

func (s *LearningServiceSuite) TestInitialize() {
	s.Require().NoError(s.store.Set(s.ctx, kvstore.KeyCustomToday, "2030-01-01"))
	s.Require().NoError(s.store.Set(s.ctx, kvstore.KeyCurrentWordIndex, "4"))

	s.init(150)

	user, ok := s.users.Get(s.ctx)
	s.Require().True(ok)
	s.Assert().Equal("duo3", user.Tag)
	s.Assert().Len(user.LearningPlan.Chunks, 2)
	s.Assert().Equal(models.PaceNormal, user.LearningPlan.DurationDays)
	s.Assert().Len(s.statuses.List(s.ctx), 150)
	s.Assert().Equal(0, s.settings.CardIndex(s.ctx))

	v, ok, _ := s.store.Get(s.ctx, kvstore.KeyCustomToday)
	s.Assert().True(ok)
	s.Assert().Equal("2030-01-01", v)
}

func (s *LearningServiceSuite) TestInitializeKeepsStateWhenContentFails() {
	s.init(3)
	s.content.On("SensesByTag", mock.Anything, "yopio").Return(nil, stderrors.New("offline"))

	_, err := s.svc.Initialize(s.ctx, "yopio")

	s.Require().Error(err)
	s.Assert().Equal(errors.ErrCodeInternal, errors.As(err).Code)
	s.Assert().Len(s.statuses.List(s.ctx), 3)
}

func (s *LearningServiceSuite) TestRefreshAddsOnlyNewSenses() {
	s.init(100)
	s.setStatuses(func(st *models.SenseStatus) { st.Level = 2; st.Correct = 5 })

	more := testutil.MakeWords(120)
	s.content.ExpectedCalls = nil
	s.content.On("SensesByTag", mock.Anything, "duo3").Return(rowsFor(more), nil)

	added, err := s.svc.Refresh(s.ctx)

	s.Require().NoError(err)
	s.Assert().Equal(20, added)
	idx := models.IndexStatuses(s.statuses.List(s.ctx))
	s.Assert().Len(idx, 120)
	s.Assert().Equal(2, idx[10].Level)
	s.Assert().Equal(5, idx[10].Correct)
	s.Assert().Equal(0, idx[1010].Level)
	user, _ := s.users.Get(s.ctx)
	s.Assert().Len(user.LearningPlan.Chunks, 2)
}

func (s *LearningServiceSuite) TestRefreshBeforeInitialize() {
	_, err := s.svc.Refresh(s.ctx)
	s.Require().Error(err)
	s.Assert().Equal(errors.ErrCodeConflict, errors.As(err).Code)
}

func (s *LearningServiceSuite) TestRegister() {
	words := testutil.MakeWords(10)
	s.content.On("SensesByTag", mock.Anything, "yopio").Return(rowsFor(words), nil)
	s.sync.On("EnqueueInsert", mock.MatchedBy(func(u models.UserData) bool {
		return u.UserName == "たろう" && u.LearningPlan.DurationDays == 3
	})).Return(nil).Once()

	user, err := s.svc.Register(s.ctx, services.RegisterRequest{Nickname: "たろう", Tag: "yopio", DurationDays: 3})

	s.Require().NoError(err)
	s.Assert().NotEmpty(user.UserID)
	s.Assert().Equal(day1, user.CreatedAt)
	stored, _ := s.users.Get(s.ctx)
	s.Assert().Equal(user.UserID, stored.UserID)
	s.sync.AssertExpectations(s.T())
}

func (s *LearningServiceSuite) TestRegisterQueueFailureIsNotFatal() {
	s.content.On("SensesByTag", mock.Anything, "yopio").Return(rowsFor(testutil.MakeWords(2)), nil)
	s.sync.On("EnqueueInsert", mock.Anything).Return(stderrors.New("queue full"))

	_, err := s.svc.Register(s.ctx, services.RegisterRequest{Nickname: "bob", Tag: "yopio", DurationDays: 5})

	s.Assert().NoError(err)
}

func (s *LearningServiceSuite) TestRemoteUser() {
	_, err := s.svc.RemoteUser(s.ctx)
	s.Require().Error(err)
	s.Assert().Equal(errors.ErrCodeNotFound, errors.As(err).Code)

	s.content.On("SensesByTag", mock.Anything, "yopio").Return(rowsFor(testutil.MakeWords(2)), nil)
	s.sync.On("EnqueueInsert", mock.Anything).Return(nil)
	user, err := s.svc.Register(s.ctx, services.RegisterRequest{Nickname: "bob", Tag: "yopio", DurationDays: 5})
	s.Require().NoError(err)

	remoteUser := user
	remoteUser.Progress = models.Progress{"2025-01-05": {LearnCount: 4}}
	s.content.On("Fetch", mock.Anything, user.UserID).Return(remoteUser, nil).Once()

	got, err := s.svc.RemoteUser(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(4, got.Progress["2025-01-05"].LearnCount)
}

func (s *LearningServiceSuite) TestRegisterRejectsBadPace() {
	_, err := s.svc.Register(s.ctx, services.RegisterRequest{Nickname: "bob", Tag: "yopio", DurationDays: 4})
	s.Require().Error(err)
	s.Assert().Equal(errors.ErrCodeValidation, errors.As(err).Code)
}

func (s *LearningServiceSuite) TestOpenChunk() {
	s.init(250)

	p, err := s.svc.OpenChunk(s.ctx, 0)
	s.Require().NoError(err)
	s.Assert().Equal("2025-01-06", p.Chunks[0].StartDate)
	s.Assert().Equal("2025-01-10", p.Chunks[0].TargetDate)
	s.Assert().Len(s.lists.Today(s.ctx), 50)
	s.Assert().Len(s.lists.Current(s.ctx), 50)

	_, err = s.svc.OpenChunk(s.ctx, 1)
	s.Require().Error(err)
	s.Assert().Equal(errors.ErrCodeLocked, errors.As(err).Code)

	_, err = s.svc.OpenChunk(s.ctx, 7)
	s.Require().Error(err)
	s.Assert().Equal(errors.ErrCodeNotFound, errors.As(err).Code)
}

func (s *LearningServiceSuite) TestOpenPastChunkStudiesWholeChunk() {
	s.init(150)
	user, _ := s.users.Get(s.ctx)
	user.LearningPlan.UnlockedChunkIndex = 1
	user.LearningPlan.CurrentChunkIndex = 1
	s.Require().NoError(s.users.Save(s.ctx, user))

	p, err := s.svc.OpenChunk(s.ctx, 0)

	s.Require().NoError(err)
	s.Assert().False(p.OnFrontier())
	s.Assert().Len(s.lists.Current(s.ctx), 100)
	gates, err := s.svc.Gates(s.ctx)
	s.Require().NoError(err)
	s.Assert().True(gates.TestUnlocked)
}

func (s *LearningServiceSuite) TestInputSessionThenOutputLockedSameDay() {
	s.init(4)
	_, err := s.svc.OpenChunk(s.ctx, 0)
	s.Require().NoError(err)

	res := s.runSession(models.ModeInput, func(int) models.Answer { return models.AnswerKnow })

	s.Assert().Equal(4, res.Score.Answered)
	for _, st := range s.statuses.List(s.ctx) {
		s.Assert().Equal(1, st.Level)
		s.Assert().Equal(day1, st.LearnedDate)
		s.Assert().Equal("2025-01-08", st.ReviewDate)
		s.Assert().Equal(models.TempCorrect, st.Temp)
	}
	user, _ := s.users.Get(s.ctx)
	s.Assert().Equal(4, user.Progress[day1].LearnCount)
	s.Assert().Equal(0, s.settings.CardIndex(s.ctx))

	s.Require().NoError(s.svc.SaveSettings(s.ctx, models.LearnSettings{Mode: models.ModeOutput}))
	_, _, err = s.svc.StartSession(s.ctx)
	s.Require().Error(err)
	s.Assert().Equal(errors.ErrCodeModeLocked, errors.As(err).Code)

	s.Require().NoError(s.clock.SetOverride("2025-01-08"))
	_, _, err = s.svc.StartSession(s.ctx)
	s.Assert().NoError(err)
}

func (s *LearningServiceSuite) TestPassingTestCompletesChunk() {
	s.init(120)
	s.sync.On("EnqueueUpdate", mock.Anything, mock.Anything).Return(nil)
	_, err := s.svc.OpenChunk(s.ctx, 0)
	s.Require().NoError(err)
	s.setStatuses(func(st *models.SenseStatus) {
		st.Level = 2
		st.LearnedDate = "2025-01-05"
		st.ReviewDate = "2025-01-05"
	})

	res := s.runSession(models.ModeTest, func(i int) models.Answer {
		if i%5 == 0 {
			return models.AnswerDontKnow
		}
		return models.AnswerKnow
	})

	s.Assert().Equal(80, res.Score.Percent)
	s.Assert().True(res.ChunkCompleted)
	user, _ := s.users.Get(s.ctx)
	s.Assert().Equal(1, user.LearningPlan.UnlockedChunkIndex)
	s.Assert().Equal(day1, user.LearningPlan.Chunks[0].CompleteDate)
	idx := models.IndexStatuses(s.statuses.List(s.ctx))
	s.Assert().Equal(3, idx[10].Level)
	s.Assert().Equal("2025-01-10", idx[10].ReviewDate)
}

func (s *LearningServiceSuite) TestOverlaySessionOnlyMovesCounters() {
	s.init(5)
	_, err := s.svc.OpenChunk(s.ctx, 0)
	s.Require().NoError(err)

	set, err := s.svc.BuildStudySet(s.ctx, services.StudySetRequest{Mode: models.ModeTest, Order: services.OrderAlphabetical})
	s.Require().NoError(err)
	s.Require().Len(set, 5)
	s.Assert().True(s.svc.Settings(s.ctx).Review)

	res := s.runSession(models.ModeTest, func(int) models.Answer { return models.AnswerKnow })

	s.Assert().False(res.ChunkCompleted)
	for _, st := range s.statuses.List(s.ctx) {
		s.Assert().Equal(0, st.Level)
		s.Assert().Equal(1, st.Correct)
		s.Assert().Empty(st.LearnedDate)
	}
	user, _ := s.users.Get(s.ctx)
	s.Assert().Equal(5, user.Progress[day1].ReviewCount)
	s.Assert().False(s.svc.Settings(s.ctx).Review)
}

func (s *LearningServiceSuite) TestAnswerErrors() {
	_, _, err := s.svc.Answer(s.ctx, models.AnswerKnow)
	s.Assert().Equal(errors.ErrCodeNotFound, errors.As(err).Code)

	_, _, err = s.svc.Answer(s.ctx, models.Answer("maybe"))
	s.Assert().Equal(errors.ErrCodeValidation, errors.As(err).Code)

	s.init(1)
	_, err = s.svc.OpenChunk(s.ctx, 0)
	s.Require().NoError(err)
	s.runSession(models.ModeInput, func(int) models.Answer { return models.AnswerKnow })

	_, _, err = s.svc.Answer(s.ctx, models.AnswerKnow)
	s.Assert().Equal(errors.ErrCodeConflict, errors.As(err).Code)
}

func (s *LearningServiceSuite) TestResumeFromStoredIndex() {
	s.init(3)
	_, err := s.svc.OpenChunk(s.ctx, 0)
	s.Require().NoError(err)

	_, _, err = s.svc.StartSession(s.ctx)
	s.Require().NoError(err)
	_, _, err = s.svc.Answer(s.ctx, models.AnswerDontKnow)
	s.Require().NoError(err)
	s.timers.flush()
	s.svc.CloseSession(s.ctx)
	s.Assert().Equal(1, s.settings.CardIndex(s.ctx))

	card, ok, err := s.svc.StartSession(s.ctx)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Assert().Equal(1, card.Index)

	idx := models.IndexStatuses(s.statuses.List(s.ctx))
	s.Assert().Equal(models.TempIncorrect, idx[10].Temp)
}

func (s *LearningServiceSuite) TestRolloverCheck() {
	s.init(3)
	_, err := s.svc.OpenChunk(s.ctx, 0)
	s.Require().NoError(err)

	changed, err := s.svc.RolloverCheck(s.ctx)
	s.Require().NoError(err)
	s.Assert().False(changed)

	s.setStatuses(func(st *models.SenseStatus) {
		if st.SensesID == 10 {
			st.Level = 1
			st.LearnedDate = day1
			st.ReviewDate = "2025-01-09"
		}
	})
	s.Require().NoError(s.clock.SetOverride("2025-01-07"))

	changed, err = s.svc.RolloverCheck(s.ctx)
	s.Require().NoError(err)
	s.Assert().True(changed)
	s.Assert().Len(s.lists.Today(s.ctx), 2)

	changed, err = s.svc.RolloverCheck(s.ctx)
	s.Require().NoError(err)
	s.Assert().False(changed)
}

func (s *LearningServiceSuite) TestCustomToday() {
	s.Require().NoError(s.svc.SetCustomToday(s.ctx, "2026-02-01"))
	s.Assert().Equal("2026-02-01", s.svc.Today())

	s.Require().NoError(s.clock.SetOverride(""))
	s.svc.LoadCustomToday(s.ctx)
	s.Assert().Equal("2026-02-01", s.svc.Today())

	err := s.svc.SetCustomToday(s.ctx, "tomorrow")
	s.Assert().Equal(errors.ErrCodeValidation, errors.As(err).Code)

	s.Require().NoError(s.svc.SetCustomToday(s.ctx, ""))
	_, ok, _ := s.store.Get(s.ctx, kvstore.KeyCustomToday)
	s.Assert().False(ok)
}

func (s *LearningServiceSuite) TestSummaryAndRows() {
	s.init(150)
	_, err := s.svc.OpenChunk(s.ctx, 0)
	s.Require().NoError(err)

	sum := s.svc.Summary(s.ctx)
	s.Assert().Equal(2, sum.TotalChunks)
	s.Assert().Equal(day1, sum.StartDate)

	rows := s.svc.WordRows(s.ctx)
	s.Require().Len(rows, 150)
	s.Assert().Equal(1, rows[120].ChunkIndex)
	s.Assert().Nil(rows[0].Accuracy)
}

func (s *LearningServiceSuite) TestInitializeTwiceRebuildsFromScratch() {
	s.init(150)
	_, err := s.svc.OpenChunk(s.ctx, 0)
	s.Require().NoError(err)
	s.setStatuses(func(st *models.SenseStatus) {
		st.Level = 4
		st.Correct = 3
		st.Mistake = 2
		st.Temp = models.TempIncorrect
		st.LearnedDate = day1
		st.ReviewDate = "2025-01-13"
	})
	s.Require().NoError(s.settings.SaveCardIndex(s.ctx, 7))
	s.Require().NotEmpty(s.lists.Today(s.ctx))

	_, err = s.svc.Initialize(s.ctx, "duo3")
	s.Require().NoError(err)

	all := s.statuses.List(s.ctx)
	s.Require().Len(all, 150)
	for _, st := range all {
		s.Assert().Equal(models.NewSenseStatus(st.WordID, st.SensesID), st)
	}
	s.Assert().Empty(s.lists.Today(s.ctx))
	s.Assert().Empty(s.lists.Current(s.ctx))
	s.Assert().Equal(0, s.settings.CardIndex(s.ctx))
	user, _ := s.users.Get(s.ctx)
	s.Assert().Equal(plan.New(2, models.PaceNormal), user.LearningPlan)
	s.Assert().Empty(user.Progress)
}

func (s *LearningServiceSuite) TestOnlyMistakesAfterCompletedSession() {
	words := s.init(10)
	_, err := s.svc.OpenChunk(s.ctx, 0)
	s.Require().NoError(err)
	s.runSession(models.ModeInput, func(i int) models.Answer {
		if i%2 == 0 {
			return models.AnswerDontKnow
		}
		return models.AnswerKnow
	})

	set, err := s.svc.BuildStudySet(s.ctx, services.StudySetRequest{Mode: models.ModeInput, OnlyMistakes: true})

	s.Require().NoError(err)
	s.Assert().Equal([]models.Word{words[0], words[2], words[4], words[6], words[8]}, set)
}

func (s *LearningServiceSuite) TestStudySetSurvivesTodayListReads() {
	s.init(100)
	_, err := s.svc.OpenChunk(s.ctx, 0)
	s.Require().NoError(err)
	set, err := s.svc.BuildStudySet(s.ctx, services.StudySetRequest{Mode: models.ModeInput, Count: 3})
	s.Require().NoError(err)

	_, err = s.svc.TodayList(s.ctx)
	s.Require().NoError(err)
	_, err = s.svc.Gates(s.ctx)
	s.Require().NoError(err)
	_, err = s.svc.RolloverCheck(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(set, s.lists.Current(s.ctx))

	res := s.runSession(models.ModeInput, func(int) models.Answer { return models.AnswerKnow })

	s.Assert().Equal(3, res.Score.Answered)
	s.Assert().Len(s.lists.Today(s.ctx), 50)
	s.Assert().Equal(s.lists.Today(s.ctx), s.lists.Current(s.ctx))
}

func (s *LearningServiceSuite) TestReviewStudySetSpansChunks() {
	words := s.init(150)
	s.setStatuses(func(st *models.SenseStatus) {
		switch st.SensesID {
		case 10:
			st.Level, st.LearnedDate, st.ReviewDate = 3, "2025-01-01", "2025-01-05"
		case 20:
			st.Level, st.LearnedDate, st.ReviewDate = 4, "2025-01-01", "2025-01-20"
		case 1200:
			st.Level, st.LearnedDate, st.ReviewDate = 5, "2024-12-01", "2025-01-02"
		}
	})

	overview := s.svc.Reviews(s.ctx)
	s.Assert().Equal([]models.Word{words[119], words[0]}, overview.Words)
	s.Assert().Equal("2025-01-02", overview.Next.Date)
	s.Assert().Equal(1, overview.Next.Count)

	set, err := s.svc.BuildStudySet(s.ctx, services.StudySetRequest{Mode: models.ModeReview})
	s.Require().NoError(err)
	s.Require().Equal(overview.Words, set)

	res := s.runSession(models.ModeReview, func(int) models.Answer { return models.AnswerKnow })

	s.Assert().Equal(2, res.Score.Answered)
	idx := models.IndexStatuses(s.statuses.List(s.ctx))
	s.Assert().Equal(6, idx[1200].Level)
	s.Assert().Equal("2025-02-05", idx[1200].ReviewDate)
	s.Assert().Equal(4, idx[10].Level)
	s.Assert().Equal("2025-01-13", idx[10].ReviewDate)
	s.Assert().Equal("2025-01-20", idx[20].ReviewDate)
	s.Assert().Empty(s.svc.Reviews(s.ctx).Words)
}

func (s *LearningServiceSuite) TestReviewStudySetNeedsDueWords() {
	s.init(3)

	_, err := s.svc.BuildStudySet(s.ctx, services.StudySetRequest{Mode: models.ModeReview})

	s.Require().Error(err)
	s.Assert().Equal(errors.ErrCodeBadRequest, errors.As(err).Code)
}

func TestLearningServiceSuite(t *testing.T) {
	suite.Run(t, new(LearningServiceSuite))
}

func TestRefreshReportsStatusWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	users := kv.NewUserRepository(store)
	user := models.NewUserData()
	user.Tag = "duo3"
	require.NoError(t, users.Save(ctx, user))

	content := new(mocks.MockRemoteClient)
	content.On("SensesByTag", mock.Anything, "duo3").Return(rowsFor(testutil.MakeWords(2)), nil)
	statuses := new(mocks.MockStatusRepository)
	statuses.On("List", mock.Anything).Return(nil)
	statuses.On("UpsertMany", mock.Anything, mock.Anything).Return(stderrors.New("disk full"))

	svc := services.NewLearningService(services.Deps{
		Store:    store,
		Words:    kv.NewWordRepository(store),
		Statuses: statuses,
		Users:    users,
		Lists:    kv.NewLearningListRepository(store),
		Settings: kv.NewSettingsRepository(store),
		Content:  content,
		Clock:    clock.Fixed(day1),
	})

	_, err := svc.Refresh(ctx)

	require.Error(t, err)
	require.Equal(t, errors.ErrCodeInternal, errors.As(err).Code)
	statuses.AssertExpectations(t)
}
