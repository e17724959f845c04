package goocl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
)

func TestSuggestWorkSizesRoundsUp(t *testing.T) {
	newStub(t)
	dev := firstDevice(t)

	gws, lws, err := goocl.SuggestWorkSizes(nil, dev, []int{1000}, nil, false)
	require.NoError(t, err)
	require.Len(t, gws, 1)
	require.Len(t, lws, 1)
	assert.GreaterOrEqual(t, gws[0], 1000)
	assert.Zero(t, gws[0]%lws[0], "global size must be a multiple of the local size")
	assert.LessOrEqual(t, lws[0], 1024)
}

func TestSuggestWorkSizesExact(t *testing.T) {
	newStub(t)
	dev := firstDevice(t)

	gws, lws, err := goocl.SuggestWorkSizes(nil, dev, []int{1000}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1000}, gws, "exact mode keeps the real size")
	assert.Zero(t, gws[0]%lws[0])
	assert.Equal(t, 500, lws[0], "largest divisor within the group limit")
}

func TestSuggestWorkSizesPrimeSizes(t *testing.T) {
	newStub(t)
	dev := firstDevice(t)

	gws, lws, err := goocl.SuggestWorkSizes(nil, dev, []int{19, 13}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, []int{19, 13}, gws)
	assert.Equal(t, []int{1, 1}, lws, "prime sizes only admit trivial groups")
}

func TestSuggestWorkSizesRespectsCaps(t *testing.T) {
	newStub(t)
	dev := firstDevice(t)

	gws, lws, err := goocl.SuggestWorkSizes(nil, dev, []int{64}, []int{8}, false)
	require.NoError(t, err)
	assert.Equal(t, []int{64}, gws)
	assert.Equal(t, []int{8}, lws)

	// A zero cap entry means no cap for that dimension.
	_, lws, err = goocl.SuggestWorkSizes(nil, dev, []int{64, 64}, []int{0, 4}, false)
	require.NoError(t, err)
	assert.LessOrEqual(t, lws[1], 4)
}

func TestSuggestWorkSizesKernelMultiple(t *testing.T) {
	d := newStub(t)
	ctx := newTestContext(t)
	p := builtVecAdd(t, d, ctx)

	k, err := p.Kernel("vec_add")
	require.NoError(t, err)
	dev, err := ctx.Device(0)
	require.NoError(t, err)

	// The stub GPU reports a preferred work-group multiple of 32.
	gws, lws, err := k.SuggestWorkSizes(dev, []int{100}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []int{32}, lws)
	assert.Equal(t, []int{128}, gws)
}

func TestSuggestWorkSizesValidation(t *testing.T) {
	newStub(t)
	dev := firstDevice(t)

	_, _, err := goocl.SuggestWorkSizes(nil, dev, nil, nil, false)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)

	_, _, err = goocl.SuggestWorkSizes(nil, dev, []int{1, 2, 3, 4}, nil, false)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)

	_, _, err = goocl.SuggestWorkSizes(nil, dev, []int{0}, nil, false)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)

	_, _, err = goocl.SuggestWorkSizes(nil, dev, []int{8, 8}, []int{4}, false)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)
}
