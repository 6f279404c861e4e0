package jobs

import "github.com/vytor/senseflash/internal/models"

// SyncQueue hands remote sync work to the background so callers never wait
// on the network.
type SyncQueue interface {
	EnqueueInsert(user models.UserData) error
	EnqueueUpdate(userID string, patch models.UserDataPatch) error
}
