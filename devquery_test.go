package goocl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
)

func TestDeviceQueryByName(t *testing.T) {
	newStub(t)
	dev := firstDevice(t)

	q, ok := goocl.DeviceQueryByName("max_compute_units")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Equal(t, "MAX_COMPUTE_UNITS", q.Name)

	value, err := q.Get(dev)
	require.NoError(t, err)
	assert.Equal(t, "8", value, "the stub CPU has 8 compute units")

	_, ok = goocl.DeviceQueryByName("NO_SUCH_ATTRIBUTE")
	assert.False(t, ok)
}

func TestDeviceQueriesByPrefix(t *testing.T) {
	newStub(t)

	matched := goocl.DeviceQueriesByPrefix("max_work")
	require.NotEmpty(t, matched)
	for _, q := range matched {
		assert.Contains(t, q.Name, "MAX_WORK")
	}

	assert.Empty(t, goocl.DeviceQueriesByPrefix("ZZZ"))
}

func TestDeviceQueriesSortedAndComplete(t *testing.T) {
	queries := goocl.DeviceQueries()
	require.NotEmpty(t, queries)
	for i := 1; i < len(queries); i++ {
		assert.Less(t, queries[i-1].Name, queries[i].Name, "registry must stay name-sorted")
	}
	for _, q := range queries {
		assert.NotNil(t, q.Format, "%s has no formatter", q.Name)
		assert.NotEmpty(t, q.Description, "%s has no description", q.Name)
	}
}

func TestDeviceQueryUnavailable(t *testing.T) {
	newStub(t)
	dev := firstDevice(t)

	q := goocl.DeviceQuery{
		Name:   "BOGUS",
		Param:  0x7777,
		Format: func(info *goocl.Info) string { return "never" },
	}
	value, err := q.Get(dev)
	require.NoError(t, err)
	assert.Equal(t, "N/A", value, "absent attributes render as N/A")
}

func TestDeviceQueryFormatting(t *testing.T) {
	newStub(t)
	dev := firstDevice(t)

	typ, ok := goocl.DeviceQueryByName("TYPE")
	require.True(t, ok)
	value, err := typ.Get(dev)
	require.NoError(t, err)
	assert.Equal(t, "CPU", value)

	sizes, ok := goocl.DeviceQueryByName("MAX_WORK_ITEM_SIZES")
	require.True(t, ok)
	value, err = sizes.Get(dev)
	require.NoError(t, err)
	assert.Equal(t, "1024 x 256 x 64", value)
}
