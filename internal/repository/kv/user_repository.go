package kv

import (
	"context"

	"github.com/vytor/senseflash/internal/kvstore"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/repository"
)

type userRepository struct {
	store kvstore.Store
}

// NewUserRepository creates a UserRepository over the key-value store.
func NewUserRepository(store kvstore.Store) repository.UserRepository {
	return &userRepository{store: store}
}

// Get returns the stored record, or an empty one with ok=false.
func (r *userRepository) Get(ctx context.Context) (models.UserData, bool) {
	user := models.NewUserData()
	if !kvstore.GetJSON(ctx, r.store, kvstore.KeyUserData, &user) {
		return models.NewUserData(), false
	}
	if user.LearningPlan.Chunks == nil {
		user.LearningPlan.Chunks = map[int]models.ChunkProgress{}
	}
	if user.Progress == nil {
		user.Progress = models.Progress{}
	}
	return user, true
}

func (r *userRepository) Save(ctx context.Context, user models.UserData) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("saving user data: user_id=%s chunk=%d unlocked=%d",
		user.UserID, user.LearningPlan.CurrentChunkIndex, user.LearningPlan.UnlockedChunkIndex)

	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyUserData, user); err != nil {
		log.Error("failed to save user data: %v", err)
		return err
	}
	return nil
}
