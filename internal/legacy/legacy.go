// Package legacy implements the older flat study flow. Words carry a single
// level from 1 to 11 and move through four translation modes. It shares no
// thresholds with the chunked flow.
package legacy

import (
	"math/rand/v2"
	"sort"
	"strings"
)

// MaxLevel is the top of the flat scale.
const MaxLevel = 11

// PassRatio is the share of correct answers a test needs.
const PassRatio = 0.7

// Word is one entry of a flat word list.
type Word struct {
	ID        string `json:"id"`
	En        string `json:"en"`
	Ja        string `json:"ja"`
	SeEn      string `json:"seEn"`
	SeJa      string `json:"seJa"`
	Level     int    `json:"level"`
	LearnedAt string `json:"learnedAt,omitempty"`
}

// Mode is the translation direction practised.
type Mode string

const (
	WordEnJa     Mode = "word-en-ja"
	WordJaEn     Mode = "word-ja-en"
	SentenceEnJa Mode = "sentence-en-ja"
	SentenceJaEn Mode = "sentence-ja-en"
)

// Method is how a session treats answers.
type Method string

const (
	MethodLearn  Method = "learn"
	MethodReview Method = "review"
	MethodTest   Method = "test"
)

// Order is how the session's words are arranged.
type Order string

const (
	OrderDefault      Order = "default"
	OrderAlphabetical Order = "alphabetical"
	OrderRandom       Order = "random"
)

// Settings is a flat-flow session configuration.
type Settings struct {
	Mode   Mode         `json:"mode"`
	Method Method       `json:"method"`
	Order  Order        `json:"order"`
	Levels map[int]bool `json:"levels"`
}

// modeLevels holds the level needed to open a mode and the level a test in
// that mode is aimed at.
var modeLevels = map[Mode]struct{ access, target, ceiling int }{
	WordEnJa:     {access: 1, target: 3, ceiling: 4},
	WordJaEn:     {access: 4, target: 6, ceiling: 7},
	SentenceEnJa: {access: 7, target: 8, ceiling: 9},
	SentenceJaEn: {access: 9, target: 10, ceiling: 11},
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	_, ok := modeLevels[m]
	return ok
}

// AccessLevel is the level every word needs before m opens.
func (m Mode) AccessLevel() int {
	return modeLevels[m].access
}

// TargetLevel is the level a test in m checks for.
func (m Mode) TargetLevel() int {
	return modeLevels[m].target
}

// AllLevels enables every level.
func AllLevels() map[int]bool {
	out := make(map[int]bool, MaxLevel)
	for l := 1; l <= MaxLevel; l++ {
		out[l] = true
	}
	return out
}

// CanAccess reports whether every word sits at minLevel or above, and at
// maxLevel or below when maxLevel is positive. An empty list has no access.
func CanAccess(minLevel int, words []Word, maxLevel int) bool {
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if w.Level < minLevel || (maxLevel > 0 && w.Level > maxLevel) {
			return false
		}
	}
	return true
}

// ChooseMethod picks test when every word sits exactly at the mode's target,
// review when all are at or past it, and learn otherwise.
func ChooseMethod(mode Mode, words []Word) Method {
	target := mode.TargetLevel()
	switch {
	case CanAccess(target, words, target):
		return MethodTest
	case CanAccess(target, words, 0):
		return MethodReview
	default:
		return MethodLearn
	}
}

// Normalize applies the defaults a method forces: tests run in random order
// and tests and reviews cover every level.
func Normalize(s Settings) Settings {
	switch s.Method {
	case MethodTest:
		s.Order = OrderRandom
		s.Levels = AllLevels()
	case MethodReview:
		s.Levels = AllLevels()
	}
	if s.Order == "" {
		s.Order = OrderDefault
	}
	if s.Levels == nil {
		s.Levels = AllLevels()
	}
	return s
}

// LevelRange is a named band offered as a filter.
type LevelRange struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// Ranges are the filter bands in display order.
var Ranges = []LevelRange{
	{Label: "初級", Min: 1, Max: 3},
	{Label: "中級", Min: 4, Max: 6},
	{Label: "上級", Min: 7, Max: 8},
	{Label: "マスター", Min: 9, Max: 10},
	{Label: "達人", Min: 11, Max: 11},
}

// AvailableRanges lists the bands that contain the whole list.
func AvailableRanges(words []Word) []LevelRange {
	var out []LevelRange
	for _, r := range Ranges {
		if CanAccess(r.Min, words, r.Max) {
			out = append(out, r)
		}
	}
	return out
}

// Select filters words to the enabled levels and arranges them.
func Select(words []Word, s Settings, rng *rand.Rand) []Word {
	var out []Word
	for _, w := range words {
		if s.Levels[w.Level] {
			out = append(out, w)
		}
	}
	switch s.Order {
	case OrderAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].En) < strings.ToLower(out[j].En)
		})
	case OrderRandom:
		if rng != nil {
			rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		}
	}
	return out
}

// Step applies one answer. A correct answer in learn sessions raises the
// level within its band: 1-2 up to 3, 4-5 up to 6, 7 to 8 and 9 to 10.
// Every answer stamps learnedAt.
func Step(w Word, method Method, correct bool, today string) Word {
	w.LearnedAt = today
	if !correct || method != MethodLearn {
		return w
	}
	switch {
	case w.Level >= 1 && w.Level <= 2:
		w.Level = min(w.Level+1, 3)
	case w.Level >= 4 && w.Level <= 5:
		w.Level = min(w.Level+1, 6)
	case w.Level == 7:
		w.Level = 8
	case w.Level == 9:
		w.Level = 10
	}
	return w
}

// TestResult reports how a finished test affected the list.
type TestResult struct {
	Percent  int    `json:"percent"`
	Passed   bool   `json:"passed"`
	Skipped  bool   `json:"skipped"`
	NewLevel int    `json:"newLevel,omitempty"`
	Words    []Word `json:"-"`
}

// FinishTest scores a test of total questions over the whole list. The test
// is skipped when any word is already past what mode can test. A pass moves
// every word to the next band: 7 if all sat at 6, 9 if all at 8, 11 if all
// at 10, otherwise 4.
func FinishTest(all []Word, mode Mode, correct, total int) TestResult {
	res := TestResult{Words: all}
	ratio := 0.0
	if total > 0 {
		ratio = float64(correct) / float64(total)
	}
	res.Percent = int(ratio*100 + 0.5)

	if !mode.Valid() {
		res.Skipped = true
		return res
	}
	ceiling := modeLevels[mode].ceiling
	for _, w := range all {
		if w.Level >= ceiling {
			res.Skipped = true
			return res
		}
	}
	if ratio < PassRatio {
		return res
	}

	res.Passed = true
	res.NewLevel = 4
	switch {
	case allAt(all, 6):
		res.NewLevel = 7
	case allAt(all, 8):
		res.NewLevel = 9
	case allAt(all, 10):
		res.NewLevel = 11
	}
	out := make([]Word, len(all))
	for i, w := range all {
		w.Level = res.NewLevel
		out[i] = w
	}
	res.Words = out
	return res
}

func allAt(words []Word, level int) bool {
	for _, w := range words {
		if w.Level != level {
			return false
		}
	}
	return len(words) > 0
}
