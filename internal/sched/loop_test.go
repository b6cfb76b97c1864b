package sched

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"
)

func TestLoopFiresTimersFromClock(t *testing.T) {
	mClock := quartz.NewMock(t)
	loop := NewLoop(mClock, log.New(io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	fired := make(chan time.Time, 1)
	require.NoError(t, loop.Do(ctx, func() {
		loop.Scheduler().After(time.Second, func() {
			fired <- loop.Scheduler().Now()
		})
	}))
	// The loop re-arms its wake timer before taking the next event.
	require.NoError(t, loop.Do(ctx, func() {}))

	mClock.Advance(time.Second).MustWait(ctx)

	select {
	case at := <-fired:
		require.Equal(t, mClock.Now(), at)
	case <-ctx.Done():
		t.Fatal("timer did not fire")
	}

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
}

func TestLoopRunsPostedEventsInOrder(t *testing.T) {
	mClock := quartz.NewMock(t)
	loop := NewLoop(mClock, log.New(io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	var got []int
	for i := range 10 {
		loop.Post(func() { got = append(got, i) })
	}
	var snapshot []int
	require.NoError(t, loop.Do(ctx, func() { snapshot = append(snapshot, got...) }))
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, snapshot)
}
