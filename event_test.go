package goocl_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
)

func TestUserEventLifecycle(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	e, err := goocl.NewUserEvent(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, e.Release()) })

	status, err := e.Status()
	require.NoError(t, err)
	assert.Equal(t, ocl.ExecSubmitted, status)

	require.NoError(t, e.SetStatus(ocl.ExecComplete))
	status, err = e.Status()
	require.NoError(t, err)
	assert.Equal(t, ocl.ExecComplete, status)

	err = e.SetStatus(ocl.ExecComplete)
	require.Error(t, err)
	assert.True(t, goocl.IsStatus(err, ocl.InvalidOperation), "status can only be set once, got %v", err)
}

func TestUserEventRejectsPositiveStatus(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	e, err := goocl.NewUserEvent(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, e.Release()) })

	err = e.SetStatus(ocl.ExecRunning)
	require.Error(t, err)
	assert.True(t, goocl.IsStatus(err, ocl.InvalidValue), "got %v", err)
	require.NoError(t, e.SetStatus(ocl.ExecComplete))
}

func TestEventCallbackOnCompletion(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	e, err := goocl.NewUserEvent(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, e.Release()) })

	var calls atomic.Int32
	require.NoError(t, e.SetCallback(ocl.ExecComplete, func(cb *goocl.Event, status int32) {
		assert.Same(t, e, cb)
		assert.Equal(t, ocl.ExecComplete, status)
		calls.Add(1)
	}))
	assert.Zero(t, calls.Load())

	require.NoError(t, e.SetStatus(ocl.ExecComplete))
	require.Eventually(t, func() bool { return calls.Load() == 1 },
		time.Second, time.Millisecond)

	// Registering on an already-complete event fires immediately.
	require.NoError(t, e.SetCallback(ocl.ExecComplete, func(cb *goocl.Event, status int32) {
		calls.Add(1)
	}))
	require.Eventually(t, func() bool { return calls.Load() == 2 },
		time.Second, time.Millisecond)
}

func TestWaitForUserEvent(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	e, err := goocl.NewUserEvent(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, e.Release()) })

	done := make(chan error, 1)
	go func() { done <- goocl.WaitForEvents(goocl.Wait(e)) }()

	select {
	case <-done:
		t.Fatal("wait returned before the user event completed")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, e.SetStatus(ocl.ExecComplete))
	require.NoError(t, <-done)
}

func TestCommandChainedOnUserEventError(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	buf, err := goocl.NewBuffer(ctx, 0, 8, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })

	gate, err := goocl.NewUserEvent(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, gate.Release()) })
	require.NoError(t, gate.SetStatus(-42))

	_, err = buf.Read(q, 0, make([]byte, 8), goocl.Wait(gate))
	require.Error(t, err)
	assert.True(t, goocl.IsStatus(err, ocl.ExecStatusErrorForEventsInWaitList), "got %v", err)
}

func TestEventNames(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	marker, err := q.EnqueueMarker(nil)
	require.NoError(t, err)
	assert.Equal(t, "MARKER", marker.FinalName())

	marker.SetName("phase 1 fence")
	assert.Equal(t, "phase 1 fence", marker.Name())
	assert.Equal(t, "phase 1 fence", marker.FinalName())
}

func TestEventProfilingTimestamps(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, ocl.QueueProfilingEnable)

	buf, err := goocl.NewBuffer(ctx, 0, 64, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })

	e, err := buf.Write(q, 0, make([]byte, 64), nil)
	require.NoError(t, err)
	require.NoError(t, q.Finish())

	queued, err := e.QueuedTime()
	require.NoError(t, err)
	submit, err := e.SubmitTime()
	require.NoError(t, err)
	start, err := e.StartTime()
	require.NoError(t, err)
	end, err := e.EndTime()
	require.NoError(t, err)

	assert.LessOrEqual(t, queued, submit)
	assert.LessOrEqual(t, submit, start)
	assert.Less(t, start, end)
}

func TestProfilingUnavailableWithoutFlag(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	e, err := q.EnqueueMarker(nil)
	require.NoError(t, err)

	_, err = e.StartTime()
	require.Error(t, err)
	assert.True(t, goocl.IsStatus(err, ocl.ProfilingInfoNotAvailable), "got %v", err)
}
