package testutil

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/senseflash/internal/db"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
)

func init() {
	logger.SetDefault(logger.Discard())
}

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	database, err := db.Open("file::memory:")
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// MakeWords builds n single-sense words with ids starting at 1.
// Sense ids are word id * 10.
func MakeWords(n int) []models.Word {
	words := make([]models.Word, 0, n)
	for i := 1; i <= n; i++ {
		id := int64(i)
		words = append(words, models.Word{
			WordID: id,
			Word:   "word" + strconv.Itoa(i),
			Senses: []models.Sense{{
				SensesID:     id * 10,
				PartOfSpeech: "noun",
				DefinitionEn: "meaning " + strconv.Itoa(i),
				DefinitionJa: "意味" + strconv.Itoa(i),
				Tags:         "test",
			}},
		})
	}
	return words
}

// MakeStatuses builds a level-0 status for every sense of words.
func MakeStatuses(words []models.Word) []models.SenseStatus {
	var out []models.SenseStatus
	for _, w := range words {
		for _, s := range w.Senses {
			out = append(out, models.NewSenseStatus(w.WordID, s.SensesID))
		}
	}
	return out
}
