package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/fuel-price-page/internal/pricepage"
)

type countingRefresher struct {
	calls    int32
	deadline atomic.Bool
	err      error
}

func (r *countingRefresher) Refresh(ctx context.Context) (pricepage.Result, error) {
	atomic.AddInt32(&r.calls, 1)
	_, ok := ctx.Deadline()
	r.deadline.Store(ok)
	return pricepage.Result{RunID: "test"}, r.err
}

func TestStart_RunsImmediately(t *testing.T) {
	r := &countingRefresher{}
	s := New(time.Hour, time.Minute, r)
	require.NoError(t, s.Start())
	t.Cleanup(s.Stop)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&r.calls) == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.True(t, r.deadline.Load(), "each run is bounded by a timeout")
}

func TestRun_FailureIsLogged(t *testing.T) {
	r := &countingRefresher{err: errors.New("upload failed")}
	s := New(time.Hour, 0, r)

	s.run()
	require.Equal(t, int32(1), atomic.LoadInt32(&r.calls))
	require.False(t, r.deadline.Load())
}
