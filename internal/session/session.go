// Package session runs one pass over a learning list: it presents cards,
// records answers as they arrive, and scores the list exactly once at the end.
package session

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/scheduling"
)

// State is where the session stands.
type State int

const (
	// Presenting waits for an answer to the current card.
	Presenting State = iota
	// Scored holds an answer while its feedback is shown.
	Scored
	// Completing means the last card was answered and scoring is pending.
	Completing
	// Done is terminal, whether completed or abandoned.
	Done
)

func (s State) String() string {
	switch s {
	case Presenting:
		return "presenting"
	case Scored:
		return "scored"
	case Completing:
		return "completing"
	case Done:
		return "done"
	}
	return "unknown"
}

// Result is handed to the Recorder when the last card completes the session.
type Result struct {
	Mode           models.Mode          `json:"mode"`
	Overlay        bool                 `json:"review"`
	Score          scheduling.Score     `json:"score"`
	Statuses       []models.SenseStatus `json:"statuses"`
	ChunkCompleted bool                 `json:"chunkCompleted"`
	Today          string               `json:"today"`
}

// Recorder persists what the session produces.
type Recorder interface {
	// RecordAnswer stores a status whose temp was just set.
	RecordAnswer(ctx context.Context, status models.SenseStatus) error
	// RecordIndex stores the card index so a reload resumes on the same card.
	RecordIndex(ctx context.Context, index int) error
	// Finish stores the scored statuses and applies progress and plan changes.
	Finish(ctx context.Context, result Result) error
}

// Config describes a session.
type Config struct {
	Mode         models.Mode
	Overlay      bool
	Words        []models.Word
	Statuses     []models.SenseStatus
	StartIndex   int
	DurationDays int
	Today        string

	AnswerTimeout time.Duration
	ProgressTick  time.Duration
	AfterFunc     AfterFunc
	Now           func() time.Time
	Rand          *rand.Rand
}

// Session is safe for concurrent use. Timers fire on their own goroutines
// and every transition is taken under mu.
type Session struct {
	mu  sync.Mutex
	cfg Config
	rec Recorder
	ctx context.Context
	log *logger.Logger

	state     State
	index     int
	statuses  []models.SenseStatus
	pos       map[int64]int
	result    *Result
	abandoned bool

	options    []Option
	optionsFor int

	cardStart time.Time
	timeLeft  float64
	countdown Timer
	ticker    Timer
	pending   Timer
}

// New starts a session on cfg.StartIndex. A session starting from the first
// card clears temp left by earlier sessions; a resumed one keeps it so the
// earlier answers still count.
func New(ctx context.Context, cfg Config, rec Recorder) *Session {
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = RealAfterFunc
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.AnswerTimeout <= 0 {
		cfg.AnswerTimeout = 3 * time.Second
	}
	if cfg.ProgressTick <= 0 {
		cfg.ProgressTick = 30 * time.Millisecond
	}
	if cfg.StartIndex < 0 || cfg.StartIndex >= len(cfg.Words) {
		cfg.StartIndex = 0
	}

	s := &Session{
		cfg:      cfg,
		rec:      rec,
		ctx:      context.WithoutCancel(ctx),
		log:      logger.FromContext(ctx).WithPrefix("session").WithField("mode", string(cfg.Mode)),
		index:    cfg.StartIndex,
		statuses: make([]models.SenseStatus, len(cfg.Statuses)),
		pos:      make(map[int64]int, len(cfg.Statuses)),

		optionsFor: -1,
	}
	copy(s.statuses, cfg.Statuses)
	for i, st := range s.statuses {
		if cfg.StartIndex == 0 {
			s.statuses[i].Temp = models.TempNone
		}
		s.pos[st.SensesID] = i
	}

	s.log.Info("session started: words=%d statuses=%d index=%d overlay=%t",
		len(cfg.Words), len(s.statuses), s.index, cfg.Overlay)

	if len(cfg.Words) == 0 {
		s.state = Done
		return s
	}
	s.armCard()
	return s
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Index returns the current card index.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Result returns the completion result once the session is done.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Answer records an answer for the current card. It reports false when the
// card already has an answer pending, the session is over, or the card's
// sense has no status.
func (s *Session) Answer(answer models.Answer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answerLocked(s.index, answer)
}

func (s *Session) answerLocked(index int, answer models.Answer) bool {
	if s.state != Presenting || index != s.index {
		return false
	}
	i, ok := s.currentStatusLocked()
	if !ok {
		s.log.Debug("no status for card %d, ignoring answer", s.index)
		return false
	}

	s.stopCardTimersLocked()

	if answer == models.AnswerKnow {
		s.statuses[i].Temp = models.TempCorrect
	} else {
		s.statuses[i].Temp = models.TempIncorrect
	}
	if err := s.rec.RecordAnswer(s.ctx, s.statuses[i]); err != nil {
		s.log.Error("failed to persist answer for sense %d: %v", s.statuses[i].SensesID, err)
	}
	s.log.Debug("card %d answered: %s", s.index, answer)

	if s.index+1 < len(s.cfg.Words) {
		s.state = Scored
		next := s.index + 1
		s.pending = s.cfg.AfterFunc(scheduling.AdvanceDelay(s.cfg.Mode, answer), func() {
			s.advance(next)
		})
		return true
	}

	s.state = Completing
	s.pending = s.cfg.AfterFunc(scheduling.CompletionDelay, s.complete)
	return true
}

func (s *Session) advance(next int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Scored || next != s.index+1 {
		return
	}
	s.index = next
	s.state = Presenting
	if err := s.rec.RecordIndex(s.ctx, s.index); err != nil {
		s.log.Warn("failed to persist card index %d: %v", s.index, err)
	}
	s.armCard()
}

// complete runs at most once. Whichever caller gets here first in the
// Completing state does the scoring.
func (s *Session) complete() {
	s.mu.Lock()
	if s.state != Completing {
		s.mu.Unlock()
		return
	}
	s.state = Done

	score := scheduling.ScoreSession(s.statuses)
	outcome := scheduling.Outcome{
		Mode:         s.cfg.Mode,
		Overlay:      s.cfg.Overlay,
		Score:        score,
		DurationDays: s.cfg.DurationDays,
		Today:        s.cfg.Today,
	}
	// Temp survives completion so the last session's misses can be reviewed.
	promoted := scheduling.PromoteAll(s.statuses, outcome)
	result := Result{
		Mode:           s.cfg.Mode,
		Overlay:        s.cfg.Overlay,
		Score:          score,
		Statuses:       promoted,
		ChunkCompleted: scheduling.CompletesChunk(outcome),
		Today:          s.cfg.Today,
	}
	s.statuses = promoted
	s.result = &result
	s.mu.Unlock()

	s.log.Info("session complete: answered=%d correct=%d percent=%d chunk_completed=%t",
		score.Answered, score.Correct, score.Percent, result.ChunkCompleted)

	if err := s.rec.Finish(s.ctx, result); err != nil {
		s.log.Error("failed to persist session result: %v", err)
	}
}

// Finish runs a pending completion immediately instead of waiting for the
// feedback delay. It is a no-op unless the last card has been answered.
func (s *Session) Finish() {
	s.mu.Lock()
	if s.pending != nil && s.state == Completing {
		s.pending.Stop()
	}
	s.mu.Unlock()
	s.complete()
}

// Close abandons the session. Answers already recorded stay; nothing is scored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCardTimersLocked()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	if s.state != Done {
		s.abandoned = true
		s.state = Done
		s.log.Info("session abandoned at card %d", s.index)
	}
}

// Abandoned reports whether Close ended the session before completion.
func (s *Session) Abandoned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abandoned
}

func (s *Session) currentStatusLocked() (int, bool) {
	if s.index >= len(s.cfg.Words) {
		return 0, false
	}
	sense, ok := s.cfg.Words[s.index].FirstSense()
	if !ok {
		return 0, false
	}
	i, ok := s.pos[sense.SensesID]
	return i, ok
}

// armCard starts the countdown and progress tick for the current card.
func (s *Session) armCard() {
	s.timeLeft = 100
	if !scheduling.Timed(s.cfg.Mode) {
		return
	}
	s.cardStart = s.cfg.Now()
	card := s.index
	s.countdown = s.cfg.AfterFunc(s.cfg.AnswerTimeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.answerLocked(card, models.AnswerDontKnow) {
			s.log.Debug("card %d timed out", card)
		}
	})
	s.armTick(card)
}

func (s *Session) armTick(card int) {
	s.ticker = s.cfg.AfterFunc(s.cfg.ProgressTick, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.state != Presenting || s.index != card {
			return
		}
		elapsed := s.cfg.Now().Sub(s.cardStart)
		s.timeLeft = max(0, 100-float64(elapsed)/float64(s.cfg.AnswerTimeout)*100)
		s.armTick(card)
	})
}

func (s *Session) stopCardTimersLocked() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}
