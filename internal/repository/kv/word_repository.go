package kv

import (
	"context"

	"github.com/vytor/senseflash/internal/kvstore"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/repository"
)

type wordRepository struct {
	store kvstore.Store
}

// NewWordRepository creates a WordRepository over the key-value store.
func NewWordRepository(store kvstore.Store) repository.WordRepository {
	return &wordRepository{store: store}
}

func (r *wordRepository) List(ctx context.Context) []models.Word {
	var words []models.Word
	kvstore.GetJSON(ctx, r.store, kvstore.KeyWords, &words)
	return withSenses(words)
}

func (r *wordRepository) Save(ctx context.Context, words []models.Word) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("saving %d words", len(words))

	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyWords, nonNil(words)); err != nil {
		log.Error("failed to save words: %v", err)
		return err
	}
	return nil
}

// withSenses drops words that carry no senses.
func withSenses(words []models.Word) []models.Word {
	out := words[:0:0]
	for _, w := range words {
		if len(w.Senses) > 0 {
			out = append(out, w)
		}
	}
	return out
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
