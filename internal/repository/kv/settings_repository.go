package kv

import (
	"context"
	"strconv"

	"github.com/vytor/senseflash/internal/kvstore"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/repository"
)

type settingsRepository struct {
	store kvstore.Store
}

// NewSettingsRepository creates a SettingsRepository over the key-value store.
func NewSettingsRepository(store kvstore.Store) repository.SettingsRepository {
	return &settingsRepository{store: store}
}

func (r *settingsRepository) Get(ctx context.Context) models.LearnSettings {
	settings := models.DefaultLearnSettings()
	if !kvstore.GetJSON(ctx, r.store, kvstore.KeyLearnSettings, &settings) || !settings.Mode.Valid() {
		return models.DefaultLearnSettings()
	}
	return settings
}

func (r *settingsRepository) Save(ctx context.Context, settings models.LearnSettings) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("saving learn settings: mode=%s review=%t", settings.Mode, settings.Review)

	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyLearnSettings, settings); err != nil {
		log.Error("failed to save learn settings: %v", err)
		return err
	}
	return nil
}

// CardIndex returns the saved card index, 0 when absent or unparsable.
func (r *settingsRepository) CardIndex(ctx context.Context) int {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")

	raw, ok, err := r.store.Get(ctx, kvstore.KeyCurrentWordIndex)
	if err != nil {
		log.Warn("failed to read card index: %v", err)
		return 0
	}
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		log.Warn("invalid card index %q, starting from 0", raw)
		return 0
	}
	return i
}

func (r *settingsRepository) SaveCardIndex(ctx context.Context, index int) error {
	return r.store.Set(ctx, kvstore.KeyCurrentWordIndex, strconv.Itoa(index))
}

func (r *settingsRepository) ClearCardIndex(ctx context.Context) error {
	return r.store.Remove(ctx, kvstore.KeyCurrentWordIndex)
}
