package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/testutil/mocks"
	"github.com/vytor/senseflash/internal/worker"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPoolRunsJobsAndDrainsOnStop(t *testing.T) {
	pool := worker.NewPool(2, 8)
	pool.Start(context.Background())

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(funcJob{name: "count", fn: func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			ran++
			return nil
		}}))
	}
	pool.Stop()

	assert.Equal(t, 5, ran)
	assert.ErrorIs(t, pool.Submit(funcJob{name: "late"}), worker.ErrStopped)
	pool.Stop()
}

func TestPoolQueueFull(t *testing.T) {
	pool := worker.NewPool(1, 1)
	// not started: the single slot fills and stays full
	require.NoError(t, pool.Submit(funcJob{name: "a"}))
	assert.ErrorIs(t, pool.Submit(funcJob{name: "b"}), worker.ErrQueueFull)
	assert.Equal(t, 1, pool.QueueSize())
}

func TestPoolSurvivesFailingJob(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())

	done := make(chan struct{})
	require.NoError(t, pool.Submit(funcJob{name: "fail", fn: func(context.Context) error { return errors.New("boom") }}))
	require.NoError(t, pool.Submit(funcJob{name: "ok", fn: func(context.Context) error { close(done); return nil }}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second job did not run")
	}
	pool.Stop()
}

func TestUpdateUserJob(t *testing.T) {
	client := new(mocks.MockRemoteClient)
	patch := models.UserDataPatch{Progress: models.Progress{"2025-01-05": {LearnCount: 2}}}
	client.On("Update", mock.Anything, "u1", patch).Return(models.UserData{UserID: "u1"}, nil)

	job := &worker.UpdateUserJob{Client: client, UserID: "u1", Patch: patch}

	assert.Equal(t, "update_user", job.Name())
	assert.NoError(t, job.Run(context.Background()))
	client.AssertExpectations(t)
}

func TestInsertUserJobPropagatesError(t *testing.T) {
	client := new(mocks.MockRemoteClient)
	user := models.UserData{UserID: "u1"}
	client.On("Insert", mock.Anything, user).Return(errors.New("offline"))

	err := (&worker.InsertUserJob{Client: client, User: user}).Run(context.Background())

	assert.EqualError(t, err, "offline")
}
