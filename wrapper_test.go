package goocl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
)

func TestWrapReturnsSameWrapper(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	again := goocl.WrapContext(ctx.ID())
	assert.Same(t, ctx, again, "wrapping a live handle must return the existing wrapper")
	assert.Equal(t, int32(2), again.RefCount())
	require.NoError(t, again.Release())
	assert.Equal(t, int32(1), ctx.RefCount())
}

func TestReleaseBalance(t *testing.T) {
	newStub(t)

	devices, err := goocl.AllDevices()
	require.NoError(t, err)
	require.Len(t, devices, 2)

	ctx, err := goocl.NewContext(devices[:1])
	require.NoError(t, err)
	q, err := goocl.NewQueue(ctx, devices[0], 0)
	require.NoError(t, err)
	buf, err := goocl.NewBuffer(ctx, 0, 64, nil)
	require.NoError(t, err)

	require.NoError(t, buf.Release())
	require.NoError(t, q.Release())
	require.NoError(t, ctx.Release())
	for _, dev := range devices {
		require.NoError(t, dev.Release())
	}
	assert.True(t, goocl.Memcheck(), "live wrappers left: %v", goocl.LiveWrappers())
}

func TestDoubleReleaseFails(t *testing.T) {
	newStub(t)

	devices, err := goocl.AllDevices()
	require.NoError(t, err)
	ctx, err := goocl.NewContext(devices[:1])
	require.NoError(t, err)
	for _, dev := range devices {
		require.NoError(t, dev.Release())
	}

	require.NoError(t, ctx.Release())
	assert.ErrorIs(t, ctx.Release(), goocl.ErrInvalidArgument)
}

func TestQueueOwnsContextAndDevice(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	qctx, err := q.Context()
	require.NoError(t, err)
	assert.Same(t, ctx, qctx)

	dev, err := q.Device()
	require.NoError(t, err)
	ctxDev, err := ctx.Device(0)
	require.NoError(t, err)
	assert.Same(t, ctxDev, dev)
}
