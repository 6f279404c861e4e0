package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/senseflash/internal/models"
)

// MockSyncQueue is a mock implementation of jobs.SyncQueue
type MockSyncQueue struct {
	mock.Mock
}

func (m *MockSyncQueue) EnqueueInsert(user models.UserData) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockSyncQueue) EnqueueUpdate(userID string, patch models.UserDataPatch) error {
	args := m.Called(userID, patch)
	return args.Error(0)
}
