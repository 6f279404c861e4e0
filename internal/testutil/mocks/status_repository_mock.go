package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/senseflash/internal/models"
)

// MockStatusRepository is a mock implementation of repository.StatusRepository
type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) List(ctx context.Context) []models.SenseStatus {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.SenseStatus)
}

func (m *MockStatusRepository) Get(ctx context.Context, sensesID int64) (models.SenseStatus, bool) {
	args := m.Called(ctx, sensesID)
	return args.Get(0).(models.SenseStatus), args.Bool(1)
}

func (m *MockStatusRepository) UpsertMany(ctx context.Context, statuses []models.SenseStatus) error {
	args := m.Called(ctx, statuses)
	return args.Error(0)
}

func (m *MockStatusRepository) ReplaceAll(ctx context.Context, statuses []models.SenseStatus) error {
	args := m.Called(ctx, statuses)
	return args.Error(0)
}
