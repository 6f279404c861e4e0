// Package dailylist selects the words studied on a given day.
package dailylist

import (
	"sort"

	"github.com/vytor/senseflash/internal/models"
)

// unsetDate sorts before every real date.
const unsetDate = "0000-00-00"

// DailyWordCount is the daily cap for a pace.
func DailyWordCount(durationDays int) int {
	switch durationDays {
	case models.PaceFast:
		return 100
	case models.PaceNormal:
		return 50
	case models.PaceSlow:
		return 25
	default:
		return 50
	}
}

// Input is everything Build looks at.
type Input struct {
	Plan       models.LearningPlan
	ChunkWords []models.Word
	Statuses   models.StatusIndex
	Cached     []models.Word
	Today      string
}

// Build returns today's list. The cached list is returned unchanged, with
// regenerated=false, when the plan is off the frontier or some sense in the
// cached list was already learned today.
func Build(in Input) (list []models.Word, regenerated bool) {
	if !ShouldRegenerate(in.Plan, in.Cached, in.Statuses, in.Today) {
		return in.Cached, false
	}
	return Select(in.ChunkWords, in.Statuses, in.Plan.DurationDays, in.Today), true
}

// ShouldRegenerate applies the once-a-day guard.
func ShouldRegenerate(p models.LearningPlan, cached []models.Word, statuses models.StatusIndex, today string) bool {
	return p.OnFrontier() && !LearnedToday(cached, statuses, today)
}

// LearnedToday reports whether any sense of words has learnedDate == today.
func LearnedToday(words []models.Word, statuses models.StatusIndex, today string) bool {
	for _, w := range words {
		for _, s := range w.Senses {
			if st, ok := statuses[s.SensesID]; ok && st.LearnedDate == today {
				return true
			}
		}
	}
	return false
}

// Select picks due words from a chunk, ordered by earliest learned date and
// capped by pace. A chunk whose every sense is at level 3 or above is
// returned whole.
func Select(chunkWords []models.Word, statuses models.StatusIndex, durationDays int, today string) []models.Word {
	if Mastered(chunkWords, statuses) {
		out := make([]models.Word, len(chunkWords))
		copy(out, chunkWords)
		return out
	}

	type candidate struct {
		word     models.Word
		earliest string
	}
	var pool []candidate
	for _, w := range chunkWords {
		if !Due(w, statuses, today) {
			continue
		}
		pool = append(pool, candidate{word: w, earliest: earliestLearned(w, statuses)})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].earliest < pool[j].earliest
	})

	limit := min(DailyWordCount(durationDays), len(pool))
	out := make([]models.Word, 0, limit)
	for _, c := range pool[:limit] {
		out = append(out, c.word)
	}
	return out
}

// Due reports whether any sense of w is new, overdue or due today.
// A sense with no status counts as new.
func Due(w models.Word, statuses models.StatusIndex, today string) bool {
	for _, s := range w.Senses {
		st, ok := statuses[s.SensesID]
		if !ok || st.LearnedDate == "" {
			return true
		}
		if st.ReviewDate != "" && st.ReviewDate <= today {
			return true
		}
	}
	return false
}

// Mastered reports whether every sense in words has level 3 or more.
// An empty chunk is not mastered.
func Mastered(words []models.Word, statuses models.StatusIndex) bool {
	seen := false
	for _, w := range words {
		for _, s := range w.Senses {
			seen = true
			if statuses[s.SensesID].Level < 3 {
				return false
			}
		}
	}
	return seen
}

func earliestLearned(w models.Word, statuses models.StatusIndex) string {
	earliest := ""
	for i, s := range w.Senses {
		d := statuses[s.SensesID].LearnedDate
		if d == "" {
			d = unsetDate
		}
		if i == 0 || d < earliest {
			earliest = d
		}
	}
	return earliest
}
