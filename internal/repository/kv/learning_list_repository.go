package kv

import (
	"context"

	"github.com/vytor/senseflash/internal/kvstore"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/repository"
)

type learningListRepository struct {
	store kvstore.Store
}

// NewLearningListRepository creates a LearningListRepository over the key-value store.
func NewLearningListRepository(store kvstore.Store) repository.LearningListRepository {
	return &learningListRepository{store: store}
}

func (r *learningListRepository) Today(ctx context.Context) []models.Word {
	return r.load(ctx, kvstore.KeyTodayLearningList)
}

func (r *learningListRepository) Current(ctx context.Context) []models.Word {
	return r.load(ctx, kvstore.KeyCurrentLearningList)
}

func (r *learningListRepository) SaveToday(ctx context.Context, words []models.Word) error {
	return r.save(ctx, kvstore.KeyTodayLearningList, words)
}

func (r *learningListRepository) SaveCurrent(ctx context.Context, words []models.Word) error {
	return r.save(ctx, kvstore.KeyCurrentLearningList, words)
}

func (r *learningListRepository) load(ctx context.Context, key string) []models.Word {
	var words []models.Word
	kvstore.GetJSON(ctx, r.store, key, &words)
	return withSenses(words)
}

func (r *learningListRepository) save(ctx context.Context, key string, words []models.Word) error {
	log := logger.FromContext(ctx).WithPrefix("list_repo")
	log.Debug("saving %s: %d words", key, len(words))

	if err := kvstore.SetJSON(ctx, r.store, key, nonNil(words)); err != nil {
		log.Error("failed to save %s: %v", key, err)
		return err
	}
	return nil
}
