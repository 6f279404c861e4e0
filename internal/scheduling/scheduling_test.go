package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/scheduling"
)

const today = "2025-01-05"

func TestCalcReviewDate(t *testing.T) {
	tests := []struct {
		name     string
		mode     models.Mode
		correct  bool
		level    int
		duration int
		want     string
	}{
		{"review incorrect", models.ModeReview, false, 3, 5, "2025-01-06"},
		{"review level 3", models.ModeReview, true, 3, 5, "2025-01-09"},
		{"review level 4", models.ModeReview, true, 4, 5, "2025-01-12"},
		{"review level 5", models.ModeReview, true, 5, 5, "2025-01-19"},
		{"review level 6", models.ModeReview, true, 6, 5, "2025-02-04"},
		{"review level 9", models.ModeReview, true, 9, 5, "2025-07-04"},
		{"review unknown level", models.ModeReview, true, 2, 5, "2025-01-06"},
		{"test", models.ModeTest, true, 3, 9, "2025-01-09"},
		{"test incorrect", models.ModeTest, false, 2, 9, "2025-01-09"},
		{"input fast", models.ModeInput, true, 1, 3, "2025-01-06"},
		{"output normal", models.ModeOutput, true, 2, 5, "2025-01-07"},
		{"input slow", models.ModeInput, false, 1, 9, "2025-01-09"},
		{"odd pace", models.ModeInput, true, 1, 7, "2025-01-07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scheduling.CalcReviewDate(today, tt.mode, tt.correct, tt.level, tt.duration))
		})
	}
}

func TestCalcReviewDate_Level10IsCenturyOut(t *testing.T) {
	got := scheduling.CalcReviewDate(today, models.ModeReview, true, 10, 5)
	gotTime, err := time.Parse("2006-01-02", got)
	require.NoError(t, err)
	base, _ := time.Parse("2006-01-02", today)

	assert.True(t, !gotTime.Before(base.AddDate(99, 11, 0)))
}

func TestScoreSession(t *testing.T) {
	statuses := make([]models.SenseStatus, 0, 11)
	for i := 0; i < 8; i++ {
		statuses = append(statuses, models.SenseStatus{Temp: models.TempCorrect})
	}
	statuses = append(statuses,
		models.SenseStatus{Temp: models.TempIncorrect},
		models.SenseStatus{Temp: models.TempIncorrect},
		models.SenseStatus{Temp: models.TempNone},
	)

	s := scheduling.ScoreSession(statuses)

	assert.Equal(t, 10, s.Answered)
	assert.Equal(t, 8, s.Correct)
	assert.InDelta(t, 0.8, s.Ratio, 1e-9)
	assert.Equal(t, 80, s.Percent)
	assert.True(t, s.Passed())
}

func TestScoreSession_NothingAnswered(t *testing.T) {
	s := scheduling.ScoreSession([]models.SenseStatus{{}})
	assert.Zero(t, s.Answered)
	assert.False(t, s.Passed())
}

func outcome(mode models.Mode, ratio float64) scheduling.Outcome {
	return scheduling.Outcome{
		Mode:         mode,
		Score:        scheduling.Score{Answered: 10, Correct: int(ratio * 10), Ratio: ratio},
		DurationDays: models.PaceNormal,
		Today:        today,
	}
}

func TestPromote_StageRules(t *testing.T) {
	tests := []struct {
		name      string
		mode      models.Mode
		ratio     float64
		level     int
		wantLevel int
		promoted  bool
	}{
		{"input promotes level 0", models.ModeInput, 1, 0, 1, true},
		{"input leaves level 1", models.ModeInput, 1, 1, 1, false},
		{"output promotes level 1", models.ModeOutput, 1, 1, 2, true},
		{"output promotes level 0", models.ModeOutput, 1, 0, 1, true},
		{"output leaves level 2", models.ModeOutput, 1, 2, 2, false},
		{"test pass promotes", models.ModeTest, 0.7, 2, 3, true},
		{"test fail holds", models.ModeTest, 0.6, 2, 2, false},
		{"test pass leaves level 3", models.ModeTest, 1, 3, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := models.SenseStatus{Level: tt.level, LearnedDate: "2025-01-01", ReviewDate: "2025-01-02", Temp: models.TempCorrect}

			got := scheduling.Promote(in, outcome(tt.mode, tt.ratio))

			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, 1, got.Correct)
			if tt.promoted {
				assert.Equal(t, today, got.LearnedDate)
				assert.NotEqual(t, "2025-01-02", got.ReviewDate)
			} else {
				assert.Equal(t, "2025-01-01", got.LearnedDate)
				assert.Equal(t, "2025-01-02", got.ReviewDate)
			}
		})
	}
}

func TestPromote_ReviewIncorrectFloorsAtThree(t *testing.T) {
	in := models.SenseStatus{Level: 3, ReviewDate: "2025-01-01", Correct: 4, Mistake: 1, Temp: models.TempIncorrect}

	got := scheduling.Promote(in, outcome(models.ModeReview, 0))

	assert.Equal(t, 3, got.Level)
	assert.Equal(t, "2025-01-06", got.ReviewDate)
	assert.Equal(t, today, got.LearnedDate)
	assert.Equal(t, 4, got.Correct)
	assert.Equal(t, 2, got.Mistake)
}

func TestPromote_ReviewCorrectCapsAtTen(t *testing.T) {
	got := scheduling.Promote(models.SenseStatus{Level: 10, Temp: models.TempCorrect}, outcome(models.ModeReview, 1))
	assert.Equal(t, 10, got.Level)

	got = scheduling.Promote(models.SenseStatus{Level: 6, Temp: models.TempCorrect}, outcome(models.ModeReview, 1))
	assert.Equal(t, 7, got.Level)
	assert.Equal(t, "2025-03-06", got.ReviewDate)
}

func TestPromote_ReviewDemotes(t *testing.T) {
	got := scheduling.Promote(models.SenseStatus{Level: 7, Temp: models.TempIncorrect}, outcome(models.ModeReview, 0))
	assert.Equal(t, 6, got.Level)
}

func TestPromote_OverlayOnlyTouchesCounters(t *testing.T) {
	in := models.SenseStatus{Level: 2, LearnedDate: "2025-01-01", ReviewDate: "2025-01-03", Temp: models.TempIncorrect}
	o := outcome(models.ModeTest, 1)
	o.Overlay = true

	got := scheduling.Promote(in, o)

	assert.Equal(t, 2, got.Level)
	assert.Equal(t, "2025-01-01", got.LearnedDate)
	assert.Equal(t, "2025-01-03", got.ReviewDate)
	assert.Equal(t, 1, got.Mistake)
}

func TestPromote_OverlayInReviewModeStillSchedules(t *testing.T) {
	o := outcome(models.ModeReview, 1)
	o.Overlay = true

	got := scheduling.Promote(models.SenseStatus{Level: 4, Temp: models.TempCorrect}, o)

	assert.Equal(t, 5, got.Level)
	assert.Equal(t, "2025-01-19", got.ReviewDate)
}

func TestPromote_UnansweredKeepsCounters(t *testing.T) {
	got := scheduling.Promote(models.SenseStatus{Level: 0}, outcome(models.ModeInput, 1))

	assert.Equal(t, 1, got.Level)
	assert.Zero(t, got.Correct)
	assert.Zero(t, got.Mistake)
}

func TestPromote_LevelNeverDropsOutsideReview(t *testing.T) {
	for _, mode := range []models.Mode{models.ModeInput, models.ModeOutput, models.ModeTest} {
		for level := 0; level <= 10; level++ {
			for _, temp := range []int{models.TempNone, models.TempCorrect, models.TempIncorrect} {
				for _, ratio := range []float64{0, 0.7, 1} {
					got := scheduling.Promote(models.SenseStatus{Level: level, Temp: temp}, outcome(mode, ratio))
					assert.GreaterOrEqual(t, got.Level, level)
				}
			}
		}
	}
}

func TestCompletesChunk(t *testing.T) {
	assert.True(t, scheduling.CompletesChunk(outcome(models.ModeTest, 0.8)))
	assert.False(t, scheduling.CompletesChunk(outcome(models.ModeTest, 0.6)))
	assert.False(t, scheduling.CompletesChunk(outcome(models.ModeOutput, 1)))

	o := outcome(models.ModeTest, 1)
	o.Overlay = true
	assert.False(t, scheduling.CompletesChunk(o))
}

func TestAddDailyProgress(t *testing.T) {
	p := models.Progress{today: {LearnCount: 2, ReviewCount: 1}}

	learn := scheduling.AddDailyProgress(p, today, 5, models.ModeOutput, false)
	assert.Equal(t, models.DailyCount{LearnCount: 7, ReviewCount: 1}, learn[today])
	assert.Equal(t, models.DailyCount{LearnCount: 2, ReviewCount: 1}, p[today], "input must not be mutated")

	review := scheduling.AddDailyProgress(p, today, 3, models.ModeReview, false)
	assert.Equal(t, models.DailyCount{LearnCount: 2, ReviewCount: 4}, review[today])

	overlay := scheduling.AddDailyProgress(nil, "2025-01-06", 4, models.ModeTest, true)
	assert.Equal(t, models.DailyCount{ReviewCount: 4}, overlay["2025-01-06"])
}

func TestAdvanceDelay(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, scheduling.AdvanceDelay(models.ModeInput, models.AnswerDontKnow))
	assert.Equal(t, 500*time.Millisecond, scheduling.AdvanceDelay(models.ModeTest, models.AnswerKnow))
	assert.Equal(t, time.Second, scheduling.AdvanceDelay(models.ModeOutput, models.AnswerDontKnow))
}

func TestTimed(t *testing.T) {
	assert.True(t, scheduling.Timed(models.ModeTest))
	assert.True(t, scheduling.Timed(models.ModeReview))
	assert.False(t, scheduling.Timed(models.ModeInput))
	assert.False(t, scheduling.Timed(models.ModeOutput))
}
