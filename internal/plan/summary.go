package plan

import (
	"sort"

	"github.com/vytor/senseflash/internal/clock"
	"github.com/vytor/senseflash/internal/models"
)

// Encouragement tiers shown with the summary.
const (
	TierUnset    = "unset"
	TierStarting = "starting"
	TierSteady   = "steady"
	TierNearDone = "near_done"
	TierComplete = "complete"
)

// Summary describes overall plan progress.
type Summary struct {
	StartDate       string   `json:"startDate"`
	PlannedEndDate  string   `json:"plannedEndDate"`
	TotalChunks     int      `json:"totalChunks"`
	CompletedChunks int      `json:"completedChunks"`
	ProgressRatio   *float64 `json:"progressRatio"`
	AllCompleted    bool     `json:"allCompleted"`
	FinalDate       string   `json:"finalDate"`
	DurationDays    int      `json:"durationDays"`
	Tier            string   `json:"tier"`
}

// Summarize reports progress over totalChunks chunks. Dates that cannot be
// determined are left empty.
func Summarize(p models.LearningPlan, totalChunks int) Summary {
	s := Summary{
		StartDate:       p.Chunks[0].StartDate,
		PlannedEndDate:  PlannedEndDate(p),
		TotalChunks:     totalChunks,
		CompletedChunks: p.UnlockedChunkIndex + 1,
		DurationDays:    p.DurationDays,
	}
	if totalChunks > 0 {
		r := float64(s.CompletedChunks) / float64(totalChunks)
		s.ProgressRatio = &r
	}

	var done []string
	for _, c := range p.Chunks {
		if c.Completed() {
			done = append(done, c.CompleteDate)
		}
	}
	s.AllCompleted = totalChunks > 0 && len(done) == totalChunks
	if s.AllCompleted {
		sort.Strings(done)
		s.FinalDate = done[len(done)-1]
	}

	switch {
	case s.AllCompleted:
		s.Tier = TierComplete
	case s.ProgressRatio == nil:
		s.Tier = TierUnset
	case *s.ProgressRatio >= PassRatio:
		s.Tier = TierNearDone
	case *s.ProgressRatio >= 0.3:
		s.Tier = TierSteady
	default:
		s.Tier = TierStarting
	}
	return s
}

// PlannedEndDate walks the chunks in order from the first chunk's start,
// taking each chunk's target date when set and adding durationDays otherwise.
// It returns "" while the first chunk has not been opened.
func PlannedEndDate(p models.LearningPlan) string {
	idx := sortedIndexes(p.Chunks)
	if len(idx) == 0 {
		return ""
	}
	date := p.Chunks[idx[0]].StartDate
	if !clock.Valid(date) {
		return ""
	}
	for _, i := range idx {
		if t := p.Chunks[i].TargetDate; clock.Valid(t) {
			date = t
			continue
		}
		date = clock.AddDays(date, p.DurationDays)
	}
	return date
}

func sortedIndexes(chunks map[int]models.ChunkProgress) []int {
	idx := make([]int, 0, len(chunks))
	for k := range chunks {
		idx = append(idx, k)
	}
	sort.Ints(idx)
	return idx
}
