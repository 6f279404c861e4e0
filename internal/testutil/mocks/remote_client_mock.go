package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/senseflash/internal/models"
)

// MockRemoteClient is a mock implementation of remote.Client
type MockRemoteClient struct {
	mock.Mock
}

func (m *MockRemoteClient) Insert(ctx context.Context, user models.UserData) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRemoteClient) Update(ctx context.Context, userID string, patch models.UserDataPatch) (models.UserData, error) {
	args := m.Called(ctx, userID, patch)
	return args.Get(0).(models.UserData), args.Error(1)
}

func (m *MockRemoteClient) Fetch(ctx context.Context, userID string) (models.UserData, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.UserData), args.Error(1)
}

func (m *MockRemoteClient) SensesByTag(ctx context.Context, tag string) ([]models.SenseRow, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SenseRow), args.Error(1)
}
