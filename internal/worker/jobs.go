package worker

import (
	"context"

	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/remote"
)

// InsertUserJob creates the remote copy of a newly registered user.
type InsertUserJob struct {
	Client remote.Client
	User   models.UserData
}

func (j *InsertUserJob) Name() string { return "insert_user" }

func (j *InsertUserJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("user_id", j.User.UserID)
	log.Debug("inserting remote user record")
	return j.Client.Insert(ctx, j.User)
}

// UpdateUserJob pushes progress and plan changes after a session.
type UpdateUserJob struct {
	Client remote.Client
	UserID string
	Patch  models.UserDataPatch
}

func (j *UpdateUserJob) Name() string { return "update_user" }

func (j *UpdateUserJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("user_id", j.UserID)
	log.Debug("updating remote user record: plan=%t progress_days=%d", j.Patch.LearningPlan != nil, len(j.Patch.Progress))

	merged, err := j.Client.Update(ctx, j.UserID, j.Patch)
	if err != nil {
		return err
	}
	log.Debug("remote record now has %d progress days", len(merged.Progress))
	return nil
}
