package goocl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
)

func TestQueryAcrossTargets(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	platforms, err := goocl.Platforms()
	require.NoError(t, err)
	require.Len(t, platforms, 1)
	t.Cleanup(func() { require.NoError(t, platforms[0].Release()) })

	info, err := goocl.Query(platforms[0], 0, "platform.name")
	require.NoError(t, err)
	assert.NotEmpty(t, goocl.FormatInfo("PLATFORM.NAME", info))

	dev, err := ctx.Device(0)
	require.NoError(t, err)
	info, err = goocl.Query(dev, 0, "DEVICE.MAX_COMPUTE_UNITS")
	require.NoError(t, err)
	assert.Equal(t, "32", goocl.FormatInfo("DEVICE.MAX_COMPUTE_UNITS", info))

	info, err = goocl.Query(ctx, 0, "CONTEXT.NUM_DEVICES")
	require.NoError(t, err)
	assert.Equal(t, "1", goocl.FormatInfo("CONTEXT.NUM_DEVICES", info))

	info, err = goocl.Query(q, 0, "QUEUE.PROPERTIES")
	require.NoError(t, err)
	assert.Equal(t, "None", goocl.FormatInfo("QUEUE.PROPERTIES", info))

	buf, err := goocl.NewBuffer(ctx, 0, 64, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })
	info, err = goocl.Query(buf, 0, "MEM.SIZE")
	require.NoError(t, err)
	assert.Contains(t, goocl.FormatInfo("MEM.SIZE", info), "64 bytes")

	marker, err := q.EnqueueMarker(nil)
	require.NoError(t, err)
	info, err = goocl.Query(marker, 0, "EVENT.COMMAND_TYPE")
	require.NoError(t, err)
	assert.Equal(t, ocl.CommandMarker.String(), goocl.FormatInfo("EVENT.COMMAND_TYPE", info))
}

func TestQueryRejectsMismatchedTarget(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	dev, err := ctx.Device(0)
	require.NoError(t, err)

	_, err = goocl.Query(dev, 0, "PLATFORM.NAME")
	require.Error(t, err)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "does not apply")

	_, err = goocl.Query(dev, 0, "DEVICE.NO_SUCH_ATTRIBUTE")
	require.Error(t, err)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "unknown info query")
}

func TestQueryInfoLookup(t *testing.T) {
	q, ok := goocl.QueryInfo("device.name")
	require.True(t, ok)
	assert.Equal(t, "DEVICE.NAME", q.Name)
	assert.Equal(t, ocl.InfoDevice, q.Target)

	_, ok = goocl.QueryInfo("DEVICE.")
	assert.False(t, ok)
}

func TestQueriesByPrefix(t *testing.T) {
	samplers := goocl.QueriesByPrefix("sampler.")
	require.Len(t, samplers, 4)
	for i := 1; i < len(samplers); i++ {
		assert.Less(t, samplers[i-1].Name, samplers[i].Name)
	}

	all := goocl.Queries()
	deviceOnly := goocl.QueriesByPrefix("DEVICE.")
	assert.Len(t, deviceOnly, len(goocl.DeviceQueries()))
	assert.Greater(t, len(all), len(deviceOnly))
}

func TestFormatInfoUnknownNameRendersHex(t *testing.T) {
	info := &goocl.Info{Size: 2, Bytes: []byte{0xab, 0xcd}}
	assert.Equal(t, "abcd", goocl.FormatInfo("NO.SUCH", info))
}
