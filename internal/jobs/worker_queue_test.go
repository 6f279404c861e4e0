package jobs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/senseflash/internal/jobs"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/testutil/mocks"
	"github.com/vytor/senseflash/internal/worker"
)

func TestWorkerQueueRunsSyncJobs(t *testing.T) {
	client := new(mocks.MockRemoteClient)
	user := models.UserData{UserID: "u1"}
	patch := models.UserDataPatch{Progress: models.Progress{"2025-01-05": {ReviewCount: 1}}}
	client.On("Insert", mock.Anything, user).Return(nil).Once()
	client.On("Update", mock.Anything, "u1", patch).Return(user, nil).Once()

	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	q := jobs.NewWorkerQueue(pool, client)

	require.NoError(t, q.EnqueueInsert(user))
	require.NoError(t, q.EnqueueUpdate("u1", patch))
	pool.Stop()

	client.AssertExpectations(t)
}

func TestDisabledQueue(t *testing.T) {
	q := jobs.NewDisabledQueue()
	assert.NoError(t, q.EnqueueInsert(models.UserData{UserID: "u1"}))
	assert.NoError(t, q.EnqueueUpdate("u1", models.UserDataPatch{}))
}
