package repository

import (
	"context"

	"github.com/vytor/senseflash/internal/models"
)

// Reads never fail: missing or malformed local state comes back as the
// empty value and is logged by the implementation. Writes report errors.

// WordRepository holds the vocabulary grouped by word.
type WordRepository interface {
	List(ctx context.Context) []models.Word
	Save(ctx context.Context, words []models.Word) error
}

// StatusRepository holds one SenseStatus per sense. There is no delete.
type StatusRepository interface {
	List(ctx context.Context) []models.SenseStatus
	Get(ctx context.Context, sensesID int64) (models.SenseStatus, bool)
	// UpsertMany replaces records with the same senses_id and appends the
	// rest, leaving unrelated records untouched.
	UpsertMany(ctx context.Context, statuses []models.SenseStatus) error
	// ReplaceAll overwrites the whole list. Only initialization uses it.
	ReplaceAll(ctx context.Context, statuses []models.SenseStatus) error
}

// UserRepository holds the singleton UserData record.
type UserRepository interface {
	Get(ctx context.Context) (models.UserData, bool)
	Save(ctx context.Context, user models.UserData) error
}

// LearningListRepository holds the cached daily list and the list being studied.
type LearningListRepository interface {
	Today(ctx context.Context) []models.Word
	Current(ctx context.Context) []models.Word
	SaveToday(ctx context.Context, words []models.Word) error
	SaveCurrent(ctx context.Context, words []models.Word) error
}

// SettingsRepository holds LearnSettings and the in-progress card index.
type SettingsRepository interface {
	Get(ctx context.Context) models.LearnSettings
	Save(ctx context.Context, settings models.LearnSettings) error
	CardIndex(ctx context.Context) int
	SaveCardIndex(ctx context.Context, index int) error
	ClearCardIndex(ctx context.Context) error
}
