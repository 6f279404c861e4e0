package kv

import (
	"context"

	"github.com/vytor/senseflash/internal/kvstore"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/repository"
)

type statusRepository struct {
	store kvstore.Store
}

// NewStatusRepository creates a StatusRepository over the key-value store.
func NewStatusRepository(store kvstore.Store) repository.StatusRepository {
	return &statusRepository{store: store}
}

func (r *statusRepository) List(ctx context.Context) []models.SenseStatus {
	var statuses []models.SenseStatus
	kvstore.GetJSON(ctx, r.store, kvstore.KeyStatuses, &statuses)
	return statuses
}

func (r *statusRepository) Get(ctx context.Context, sensesID int64) (models.SenseStatus, bool) {
	for _, s := range r.List(ctx) {
		if s.SensesID == sensesID {
			return s, true
		}
	}
	return models.SenseStatus{}, false
}

func (r *statusRepository) UpsertMany(ctx context.Context, updates []models.SenseStatus) error {
	log := logger.FromContext(ctx).WithPrefix("status_repo")
	if len(updates) == 0 {
		return nil
	}

	current := r.List(ctx)
	pos := make(map[int64]int, len(current))
	for i, s := range current {
		pos[s.SensesID] = i
	}

	replaced, appended := 0, 0
	for _, u := range updates {
		if i, ok := pos[u.SensesID]; ok {
			current[i] = u
			replaced++
			continue
		}
		pos[u.SensesID] = len(current)
		current = append(current, u)
		appended++
	}
	log.Debug("upserting statuses: replaced=%d appended=%d", replaced, appended)

	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyStatuses, current); err != nil {
		log.Error("failed to save statuses: %v", err)
		return err
	}
	return nil
}

func (r *statusRepository) ReplaceAll(ctx context.Context, statuses []models.SenseStatus) error {
	log := logger.FromContext(ctx).WithPrefix("status_repo")
	log.Debug("replacing status list with %d records", len(statuses))

	if err := kvstore.SetJSON(ctx, r.store, kvstore.KeyStatuses, nonNil(statuses)); err != nil {
		log.Error("failed to save statuses: %v", err)
		return err
	}
	return nil
}
