package goocl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
)

func TestSampler(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	s, err := goocl.NewSampler(ctx, false, ocl.AddressRepeat, ocl.FilterLinear)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Release()) })

	normalized, err := s.NormalizedCoords()
	require.NoError(t, err)
	assert.False(t, normalized)

	addressing, err := s.AddressingMode()
	require.NoError(t, err)
	assert.Equal(t, ocl.AddressRepeat, addressing)

	filter, err := s.FilterMode()
	require.NoError(t, err)
	assert.Equal(t, ocl.FilterLinear, filter)
}

func TestSamplerWithProperties(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	s, err := goocl.NewSamplerWithProperties(ctx, []uint64{
		uint64(ocl.SamplerNormalizedCoords), 0,
		uint64(ocl.SamplerFilterInfo), uint64(ocl.FilterLinear),
		0,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Release()) })

	normalized, err := s.NormalizedCoords()
	require.NoError(t, err)
	assert.False(t, normalized)

	addressing, err := s.AddressingMode()
	require.NoError(t, err)
	assert.Equal(t, ocl.AddressClamp, addressing, "unset properties keep their defaults")
}

func TestSamplerDefaults(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	s, err := goocl.NewSamplerWithProperties(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Release()) })

	normalized, err := s.NormalizedCoords()
	require.NoError(t, err)
	assert.True(t, normalized)

	filter, err := s.FilterMode()
	require.NoError(t, err)
	assert.Equal(t, ocl.FilterNearest, filter)
}

func TestSamplerUnknownProperty(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	_, err := goocl.NewSamplerWithProperties(ctx, []uint64{0xDEAD, 1, 0})
	require.Error(t, err)
	assert.True(t, goocl.IsStatus(err, ocl.InvalidValue), "got %v", err)
}
