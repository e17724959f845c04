package goocl_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
)

func TestQueueRetainsEvents(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	buf, err := goocl.NewBuffer(ctx, 0, 8, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })

	_, err = buf.Write(q, 0, make([]byte, 8), nil)
	require.NoError(t, err)
	_, err = buf.Read(q, 0, make([]byte, 8), nil)
	require.NoError(t, err)

	events := q.Events()
	require.Len(t, events, 2)
	queued, err := events[0].CommandType()
	require.NoError(t, err)
	assert.Equal(t, ocl.CommandWriteBuffer, queued)

	q.GC()
	assert.Empty(t, q.Events())
}

func TestWaitListConsumedOnUse(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	buf, err := goocl.NewBuffer(ctx, 0, 8, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })

	e, err := buf.Write(q, 0, make([]byte, 8), nil)
	require.NoError(t, err)

	wait := goocl.Wait(e)
	assert.Equal(t, 1, wait.Len())
	_, err = buf.Read(q, 0, make([]byte, 8), wait)
	require.NoError(t, err)
	assert.Zero(t, wait.Len(), "enqueue must consume the wait list")

	// An emptied list is a valid empty dependency set.
	_, err = buf.Read(q, 0, make([]byte, 8), wait)
	require.NoError(t, err)
}

func TestMarkerAndBarrier(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	marker, err := q.EnqueueMarker(nil)
	require.NoError(t, err)
	typ, err := marker.CommandType()
	require.NoError(t, err)
	assert.Equal(t, ocl.CommandMarker, typ)

	_, err = q.EnqueueBarrier(goocl.Wait(marker))
	require.NoError(t, err)
	require.NoError(t, q.Flush())
	require.NoError(t, q.Finish())
}

func TestQueueProperties(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	plain := newTestQueue(t, ctx, 0)
	profiled := newTestQueue(t, ctx, ocl.QueueProfilingEnable)

	enabled, err := plain.ProfilingEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	enabled, err = profiled.ProfilingEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestQueueLazyResolutionConcurrent(t *testing.T) {
	d := newStub(t)
	ctx := newTestContext(t)
	dev, err := ctx.Device(0)
	require.NoError(t, err)

	// Wrap a raw handle so Context and Device resolve through the
	// runtime instead of being set by NewQueue.
	handle, st := d.CreateQueue(ctx.ID(), dev.ID(), 0)
	require.True(t, st.Ok())
	q := goocl.WrapQueue(handle)
	t.Cleanup(func() { require.NoError(t, q.Release()) })

	var wg sync.WaitGroup
	contexts := make([]*goocl.Context, 8)
	for i := range contexts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := q.Context()
			assert.NoError(t, err)
			contexts[i] = got
		}(i)
	}
	wg.Wait()
	for _, got := range contexts {
		assert.Same(t, ctx, got, "concurrent resolutions must share one wrapper")
	}

	gotDev, err := q.Device()
	require.NoError(t, err)
	assert.Same(t, dev, gotDev)
}

func TestQueueRejectsForeignDevice(t *testing.T) {
	newStub(t)

	devices, err := goocl.AllDevices()
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, dev := range devices {
			require.NoError(t, dev.Release())
		}
	})
	ctx, err := goocl.NewContext(devices[:1])
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, ctx.Release()) })

	_, err = goocl.NewQueue(ctx, devices[1], 0)
	require.Error(t, err)
	assert.True(t, goocl.IsStatus(err, ocl.InvalidDevice), "got %v", err)
}
