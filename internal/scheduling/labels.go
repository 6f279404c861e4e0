package scheduling

import (
	"math"

	"github.com/vytor/senseflash/internal/models"
)

// Mastery tiers.
const (
	TierNew         = "new"
	TierLearnedOnce = "learned_once"
	TierConfident   = "confident"
	TierReviewReady = "review_ready"
	TierMastered    = "mastered"
)

// MasteryTier names the display tier of a level.
func MasteryTier(level int) string {
	switch {
	case level >= 4:
		return TierMastered
	case level == 3:
		return TierReviewReady
	case level == 2:
		return TierConfident
	case level == 1:
		return TierLearnedOnce
	default:
		return TierNew
	}
}

// ButtonLabels are the know/dontKnow captions for a card.
type ButtonLabels struct {
	Know     string `json:"know"`
	DontKnow string `json:"dontKnow"`
}

var tierLabels = map[string]ButtonLabels{
	TierMastered:    {Know: "常識！", DontKnow: "ど忘れ？"},
	TierReviewReady: {Know: "マスター", DontKnow: "見直そう"},
	TierConfident:   {Know: "余裕！", DontKnow: "あやしい"},
	TierLearnedOnce: {Know: "覚えた", DontKnow: "もう一度"},
	TierNew:         {Know: "知ってる", DontKnow: "知らない"},
}

// LabelsFor returns the button captions for level.
func LabelsFor(level int) ButtonLabels {
	return tierLabels[MasteryTier(level)]
}

// Status labels for the word list.
const (
	StatusUnlearned = "未学習"
	StatusInput     = "インプット中"
	StatusOutput    = "アウトプット中"
	StatusReview    = "復習中"
	StatusDone      = "完了"
)

// StatusLabel describes where a level sits in the learning cycle.
func StatusLabel(level int) string {
	switch {
	case level <= 0:
		return StatusUnlearned
	case level == 1:
		return StatusInput
	case level == 2:
		return StatusOutput
	case level >= MaxLevel:
		return StatusDone
	default:
		return StatusReview
	}
}

// Accuracy is the rounded percentage of correct answers, nil before any answer.
func Accuracy(s models.SenseStatus) *int {
	total := s.Correct + s.Mistake
	if total == 0 {
		return nil
	}
	pct := int(math.Round(float64(s.Correct) / float64(total) * 100))
	return &pct
}

// WordRows builds one row per word from its first sense's status.
// chunkOf maps word ids to chunk indexes.
func WordRows(words []models.Word, statuses models.StatusIndex, chunkOf map[int64]int) []models.WordRow {
	rows := make([]models.WordRow, 0, len(words))
	for _, w := range words {
		sense, ok := w.FirstSense()
		if !ok {
			continue
		}
		st := statuses[sense.SensesID]
		rows = append(rows, models.WordRow{
			WordID:      w.WordID,
			Word:        w.Word,
			Tags:        sense.Tags,
			ChunkIndex:  chunkOf[w.WordID],
			Status:      StatusLabel(st.Level),
			Level:       st.Level,
			Accuracy:    Accuracy(st),
			LearnedDate: st.LearnedDate,
			ReviewDate:  st.ReviewDate,
		})
	}
	return rows
}
