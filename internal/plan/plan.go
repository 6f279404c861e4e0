// Package plan drives a LearningPlan through its chunk lifecycle:
// uninitialized, active once opened, completed after a passing test.
package plan

import (
	"github.com/vytor/senseflash/internal/clock"
	"github.com/vytor/senseflash/internal/models"
)

// PassRatio is the test accuracy needed to complete a chunk.
const PassRatio = 0.7

// New returns a plan with chunkCount empty chunks at the given pace.
func New(chunkCount, durationDays int) models.LearningPlan {
	if durationDays <= 0 {
		durationDays = models.PaceNormal
	}
	p := models.LearningPlan{
		DurationDays: durationDays,
		Chunks:       make(map[int]models.ChunkProgress, chunkCount),
	}
	for i := 0; i < chunkCount; i++ {
		p.Chunks[i] = models.ChunkProgress{}
	}
	return p
}

// Grow adds empty chunks until the plan has chunkCount of them. Existing
// chunks are never removed.
func Grow(p models.LearningPlan, chunkCount int) models.LearningPlan {
	out := p.Clone()
	for i := len(out.Chunks); i < chunkCount; i++ {
		out.Chunks[i] = models.ChunkProgress{}
	}
	return out
}

// Open makes index the current chunk. An uninitialized chunk gets its start
// date set to today and its target date durationDays-1 days later. Bounds are
// the caller's concern.
func Open(p models.LearningPlan, index int, today string) models.LearningPlan {
	out := p.Clone()
	out.CurrentChunkIndex = index

	c := out.Chunks[index]
	if c.Uninitialized() {
		c.StartDate = today
		c.TargetDate = clock.AddDays(today, out.DurationDays-1)
		out.Chunks[index] = c
	}
	return out
}

// Complete records today as the current chunk's completion date and unlocks
// the next chunk unless the frontier is already at the last one.
func Complete(p models.LearningPlan, today string) models.LearningPlan {
	out := p.Clone()

	c := out.Chunks[out.CurrentChunkIndex]
	c.CompleteDate = today
	out.Chunks[out.CurrentChunkIndex] = c

	if out.UnlockedChunkIndex < len(out.Chunks)-1 {
		out.UnlockedChunkIndex++
	}
	return out
}

// Passed reports whether a test ratio completes the chunk.
func Passed(ratio float64) bool {
	return ratio >= PassRatio
}

// CanOpen reports whether index is within the unlocked range.
func CanOpen(p models.LearningPlan, index int) bool {
	return index >= 0 && index <= p.UnlockedChunkIndex && index < max(len(p.Chunks), 1)
}

// SetPace changes durationDays. Already opened chunks keep their dates.
func SetPace(p models.LearningPlan, durationDays int) models.LearningPlan {
	out := p.Clone()
	out.DurationDays = durationDays
	return out
}

// ValidPace reports whether d is one of the offered paces.
func ValidPace(d int) bool {
	switch d {
	case models.PaceFast, models.PaceNormal, models.PaceSlow:
		return true
	}
	return false
}
