package goocl_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
)

func firstDevice(t *testing.T) *goocl.Device {
	t.Helper()
	devices, err := goocl.AllDevices()
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, dev := range devices {
			require.NoError(t, dev.Release())
		}
	})
	return devices[0]
}

func TestInfoQueriesAreCached(t *testing.T) {
	d := newStub(t)
	dev := firstDevice(t)

	before := d.InfoCalls()
	name, err := dev.Name()
	require.NoError(t, err)
	require.NotEmpty(t, name)
	assert.Equal(t, int64(2), d.InfoCalls()-before, "first query needs a size and a value round-trip")

	again, err := dev.Name()
	require.NoError(t, err)
	assert.Equal(t, name, again)
	assert.Equal(t, int64(2), d.InfoCalls()-before, "repeated query must come from the cache")
}

func TestInfoUnavailableIsCachedAsNullRecord(t *testing.T) {
	d := newStub(t)
	dev := firstDevice(t)

	const bogusParam = 0x4242
	before := d.InfoCalls()
	_, err := dev.Info(bogusParam)
	require.ErrorIs(t, err, goocl.ErrInfoUnavailable)
	assert.Equal(t, int64(1), d.InfoCalls()-before, "an absent attribute only costs the size query")

	_, err = dev.Info(bogusParam)
	require.ErrorIs(t, err, goocl.ErrInfoUnavailable)
	assert.Equal(t, int64(1), d.InfoCalls()-before, "the null record must be cached too")
}

func TestReferenceCountQueriesBypassCache(t *testing.T) {
	d := newStub(t)
	dev := firstDevice(t)

	before := d.InfoCalls()
	_, err := dev.Info(ocl.DeviceReferenceCount)
	require.NoError(t, err)
	_, err = dev.Info(ocl.DeviceReferenceCount)
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.InfoCalls()-before,
		"reference counts change over time and must hit the runtime every query")
}

func TestConcurrentInfoQueriesCoalesce(t *testing.T) {
	d := newStub(t)
	dev := firstDevice(t)

	before := d.InfoCalls()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := dev.Vendor()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, d.InfoCalls()-before, int64(2),
		"concurrent first queries must coalesce into one round-trip pair")
}

func TestInfoDecoding(t *testing.T) {
	newStub(t)
	dev := firstDevice(t)

	version, err := dev.OpenCLVersion()
	require.NoError(t, err)
	assert.Equal(t, 120, version)

	sizes, err := dev.MaxWorkItemSizes()
	require.NoError(t, err)
	assert.Equal(t, []uint64{1024, 256, 64}, sizes)

	typ, err := dev.Type()
	require.NoError(t, err)
	assert.NotZero(t, typ&(ocl.DeviceTypeCPU|ocl.DeviceTypeGPU))
}

func TestPlatformInfo(t *testing.T) {
	newStub(t)

	platforms, err := goocl.Platforms()
	require.NoError(t, err)
	require.Len(t, platforms, 1)
	platform := platforms[0]
	t.Cleanup(func() { require.NoError(t, platform.Release()) })

	name, err := platform.Name()
	require.NoError(t, err)
	assert.NotEmpty(t, name)

	version, err := platform.OpenCLVersion()
	require.NoError(t, err)
	assert.Equal(t, 120, version)

	n, err := platform.NumDevices()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
