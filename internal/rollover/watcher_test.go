package rollover_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/senseflash/internal/rollover"
)

type fakeChecker struct {
	calls   atomic.Int32
	changed bool
	err     error
}

func (f *fakeChecker) RolloverCheck(context.Context) (bool, error) {
	f.calls.Add(1)
	return f.changed, f.err
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	assert.True(t, rollover.New(&fakeChecker{changed: true}, time.Minute).Check(ctx))
	assert.False(t, rollover.New(&fakeChecker{}, time.Minute).Check(ctx))
	assert.False(t, rollover.New(&fakeChecker{changed: true, err: errors.New("boom")}, time.Minute).Check(ctx))
}

func TestStartRunsOnSchedule(t *testing.T) {
	checker := &fakeChecker{}
	w := rollover.New(checker, time.Second)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.Eventually(t, func() bool { return checker.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}
