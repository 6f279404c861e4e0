// Package content loads vocabulary rows and shapes them into words.
package content

import (
	"context"

	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
)

// Source returns the catalog rows tagged with tag.
type Source interface {
	SensesByTag(ctx context.Context, tag string) ([]models.SenseRow, error)
}

// Group folds sense rows into words, keeping the order in which each word
// first appears. Rows without a word are skipped with a warning.
func Group(ctx context.Context, rows []models.SenseRow) []models.Word {
	log := logger.FromContext(ctx).WithPrefix("content")

	var words []models.Word
	pos := make(map[int64]int)
	skipped := 0
	for _, r := range rows {
		if r.Word == "" {
			log.Warn("sense %d has no word, skipping", r.SensesID)
			skipped++
			continue
		}
		i, ok := pos[r.WordID]
		if !ok {
			i = len(words)
			pos[r.WordID] = i
			words = append(words, models.Word{WordID: r.WordID, Word: r.Word})
		}
		words[i].Senses = append(words[i].Senses, r.Sense())
	}
	log.Debug("grouped %d rows into %d words (%d skipped)", len(rows), len(words), skipped)
	return words
}

// Statuses builds a level-0 status for every sense, ordered by word then sense.
func Statuses(words []models.Word) []models.SenseStatus {
	var out []models.SenseStatus
	for _, w := range words {
		for _, s := range w.Senses {
			out = append(out, models.NewSenseStatus(w.WordID, s.SensesID))
		}
	}
	return out
}

// MissingStatuses returns level-0 statuses for senses of words that are not
// yet tracked.
func MissingStatuses(words []models.Word, tracked models.StatusIndex) []models.SenseStatus {
	var out []models.SenseStatus
	for _, w := range words {
		for _, s := range w.Senses {
			if _, ok := tracked[s.SensesID]; !ok {
				out = append(out, models.NewSenseStatus(w.WordID, s.SensesID))
			}
		}
	}
	return out
}
