// Package scheduling holds the rules that turn session answers into levels,
// review dates and daily progress.
package scheduling

import (
	"math"
	"time"

	"github.com/vytor/senseflash/internal/clock"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/plan"
)

// Level bounds of the chunked flow.
const (
	MaxLevel    = 10
	ReviewFloor = 3
)

// reviewSpacing maps a level reached in review mode to days until the next review.
var reviewSpacing = map[int]int{
	3:  4,
	4:  7,
	5:  14,
	6:  30,
	7:  60,
	8:  90,
	9:  180,
	10: 365 * 100,
}

// paceSpacing maps durationDays to the review offset after input and output.
var paceSpacing = map[int]int{
	models.PaceFast:   1,
	models.PaceNormal: 2,
	models.PaceSlow:   4,
}

// Offsets used when a key is missing from the tables above.
const (
	defaultReviewOffset = 1
	defaultPaceOffset   = 2
	testOffset          = 4
)

// ReviewOffset returns the number of days until the next review.
func ReviewOffset(mode models.Mode, correct bool, level, durationDays int) int {
	if mode == models.ModeReview {
		if !correct {
			return 1
		}
		if d, ok := reviewSpacing[level]; ok {
			return d
		}
		return defaultReviewOffset
	}
	if mode == models.ModeTest {
		return testOffset
	}
	if d, ok := paceSpacing[durationDays]; ok {
		return d
	}
	return defaultPaceOffset
}

// CalcReviewDate returns today shifted by ReviewOffset.
func CalcReviewDate(today string, mode models.Mode, correct bool, level, durationDays int) string {
	return clock.AddDays(today, ReviewOffset(mode, correct, level, durationDays))
}

// Score summarizes the answered statuses of a session.
type Score struct {
	Answered int     `json:"answered"`
	Correct  int     `json:"correct"`
	Ratio    float64 `json:"ratio"`
	Percent  int     `json:"percent"`
}

// Passed reports whether the score clears the test threshold.
func (s Score) Passed() bool {
	return s.Answered > 0 && plan.Passed(s.Ratio)
}

// ScoreSession counts statuses whose temp holds an answer. With nothing
// answered the ratio is zero.
func ScoreSession(statuses []models.SenseStatus) Score {
	var s Score
	for _, st := range statuses {
		switch st.Temp {
		case models.TempCorrect:
			s.Answered++
			s.Correct++
		case models.TempIncorrect:
			s.Answered++
		}
	}
	if s.Answered > 0 {
		s.Ratio = float64(s.Correct) / float64(s.Answered)
		s.Percent = int(math.Round(s.Ratio * 100))
	}
	return s
}

// Outcome is the end-of-session context every status is judged against.
type Outcome struct {
	Mode         models.Mode
	Overlay      bool
	Score        Score
	DurationDays int
	Today        string
}

// scheduled reports whether the session may touch levels and dates.
func (o Outcome) scheduled() bool {
	return !o.Overlay || o.Mode == models.ModeReview
}

// Promote applies the end-of-session rules to one status. Counters move only
// for answered statuses. Temp is kept.
func Promote(s models.SenseStatus, o Outcome) models.SenseStatus {
	correct := s.Temp == models.TempCorrect
	switch s.Temp {
	case models.TempCorrect:
		s.Correct++
	case models.TempIncorrect:
		s.Mistake++
	}

	if !o.scheduled() {
		return s
	}

	switch {
	case o.Mode == models.ModeReview:
		if correct {
			s.Level = min(MaxLevel, s.Level+1)
		} else {
			s.Level = max(ReviewFloor, s.Level-1)
		}
	case o.Mode == models.ModeInput && s.Level < 1,
		o.Mode == models.ModeOutput && s.Level < 2,
		o.Mode == models.ModeTest && o.Score.Passed() && s.Level < 3:
		s.Level++
	default:
		return s
	}

	s.LearnedDate = o.Today
	s.ReviewDate = CalcReviewDate(o.Today, o.Mode, correct, s.Level, o.DurationDays)
	return s
}

// PromoteAll applies Promote to every status.
func PromoteAll(statuses []models.SenseStatus, o Outcome) []models.SenseStatus {
	out := make([]models.SenseStatus, len(statuses))
	for i, s := range statuses {
		out[i] = Promote(s, o)
	}
	return out
}

// CompletesChunk reports whether the session finishes the current chunk.
func CompletesChunk(o Outcome) bool {
	return o.Mode == models.ModeTest && !o.Overlay && o.Score.Passed()
}

// AddDailyProgress adds answered to today's learn or review count. Review
// mode and overlay sessions count as review.
func AddDailyProgress(p models.Progress, date string, answered int, mode models.Mode, overlay bool) models.Progress {
	out := make(models.Progress, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	day := out[date]
	if overlay || mode == models.ModeReview {
		day.ReviewCount += answered
	} else {
		day.LearnCount += answered
	}
	out[date] = day
	return out
}

// AdvanceDelay is how long feedback stays on screen before the next card.
func AdvanceDelay(mode models.Mode, answer models.Answer) time.Duration {
	if mode == models.ModeInput {
		return 300 * time.Millisecond
	}
	if answer == models.AnswerKnow {
		return 500 * time.Millisecond
	}
	return 1000 * time.Millisecond
}

// CompletionDelay is how long the last card's feedback stays before completion.
const CompletionDelay = 500 * time.Millisecond

// Timed reports whether cards in mode run the answer countdown.
func Timed(mode models.Mode) bool {
	return mode == models.ModeTest || mode == models.ModeReview
}
