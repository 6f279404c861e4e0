// Package gate decides which learning modes are open for today's list.
package gate

import "github.com/vytor/senseflash/internal/models"

// Gates is the set of unlock flags for today's list.
type Gates struct {
	OutputUnlocked    bool `json:"outputUnlocked"`
	TestUnlocked      bool `json:"testUnlocked"`
	LearningCompleted bool `json:"learningCompleted"`
}

// Evaluate computes the gates for the senses of words. Off the frontier
// every gate is open.
func Evaluate(p models.LearningPlan, words []models.Word, statuses models.StatusIndex, today string) Gates {
	if !p.OnFrontier() {
		return Gates{OutputUnlocked: true, TestUnlocked: true, LearningCompleted: true}
	}
	return Gates{
		OutputUnlocked:    all(words, statuses, func(s models.SenseStatus) bool { return reached(s, 1, today) }),
		TestUnlocked:      all(words, statuses, func(s models.SenseStatus) bool { return reached(s, 2, today) }),
		LearningCompleted: all(words, statuses, func(s models.SenseStatus) bool { return s.Level >= 3 }),
	}
}

// Allows reports whether mode may be started under g. Input is always open.
func (g Gates) Allows(mode models.Mode) bool {
	switch mode {
	case models.ModeInput:
		return true
	case models.ModeOutput:
		return g.OutputUnlocked
	case models.ModeTest:
		return g.TestUnlocked
	case models.ModeReview:
		return g.LearningCompleted
	}
	return false
}

// reached: at least level by an earlier day, or level+1 if learned today.
// An empty learned date sorts before today.
func reached(s models.SenseStatus, level int, today string) bool {
	if s.LearnedDate == today {
		return s.Level >= level+1
	}
	return s.Level >= level && s.LearnedDate < today
}

// all is false for an empty list. Senses without a status fail.
func all(words []models.Word, statuses models.StatusIndex, ok func(models.SenseStatus) bool) bool {
	seen := false
	for _, w := range words {
		for _, sense := range w.Senses {
			seen = true
			st, found := statuses[sense.SensesID]
			if !found || !ok(st) {
				return false
			}
		}
	}
	return seen
}
