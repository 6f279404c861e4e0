package jobs

import (
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/remote"
	"github.com/vytor/senseflash/internal/worker"
)

// WorkerQueue implements SyncQueue on a worker pool.
type WorkerQueue struct {
	pool   *worker.Pool
	client remote.Client
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, client remote.Client) SyncQueue {
	return &WorkerQueue{pool: pool, client: client}
}

func (q *WorkerQueue) EnqueueInsert(user models.UserData) error {
	return q.pool.Submit(&worker.InsertUserJob{Client: q.client, User: user})
}

func (q *WorkerQueue) EnqueueUpdate(userID string, patch models.UserDataPatch) error {
	return q.pool.Submit(&worker.UpdateUserJob{Client: q.client, UserID: userID, Patch: patch})
}

// disabledQueue drops sync work when no remote backend is configured.
type disabledQueue struct {
	log *logger.Logger
}

// NewDisabledQueue returns a SyncQueue that only logs.
func NewDisabledQueue() SyncQueue {
	return &disabledQueue{log: logger.Default().WithPrefix("sync")}
}

func (q *disabledQueue) EnqueueInsert(user models.UserData) error {
	q.log.Debug("remote disabled, not inserting user %s", user.UserID)
	return nil
}

func (q *disabledQueue) EnqueueUpdate(userID string, _ models.UserDataPatch) error {
	q.log.Debug("remote disabled, not updating user %s", userID)
	return nil
}
