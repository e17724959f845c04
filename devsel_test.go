package goocl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
)

func releaseAll(t *testing.T, devices []*goocl.Device) {
	t.Helper()
	for _, dev := range devices {
		require.NoError(t, dev.Release())
	}
}

func TestAllDevices(t *testing.T) {
	newStub(t)

	devices, err := goocl.AllDevices()
	require.NoError(t, err)
	defer releaseAll(t, devices)
	assert.Len(t, devices, 2)
}

func TestFilterByType(t *testing.T) {
	newStub(t)

	devices, err := new(goocl.Filters).AddIndep(goocl.FilterGPU).Select()
	require.NoError(t, err)
	defer releaseAll(t, devices)

	require.Len(t, devices, 1)
	typ, err := devices[0].Type()
	require.NoError(t, err)
	assert.Equal(t, ocl.DeviceTypeGPU, typ)
}

func TestFilterNameContains(t *testing.T) {
	newStub(t)

	devices, err := new(goocl.Filters).
		AddIndep(goocl.FilterNameContains("stub cpu")).
		Select()
	require.NoError(t, err)
	defer releaseAll(t, devices)

	require.Len(t, devices, 1)
	name, err := devices[0].Name()
	require.NoError(t, err)
	assert.Contains(t, name, "CPU")
}

func TestSelectNothingFails(t *testing.T) {
	newStub(t)

	_, err := new(goocl.Filters).
		AddIndep(goocl.FilterNameContains("no such device")).
		Select()
	assert.ErrorIs(t, err, goocl.ErrDeviceNotFound)
	assert.True(t, goocl.Memcheck(), "rejected candidates must be released")
}

func TestByIndex(t *testing.T) {
	newStub(t)

	devices, err := new(goocl.Filters).AddDep(goocl.ByIndex(1)).Select()
	require.NoError(t, err)
	defer releaseAll(t, devices)
	require.Len(t, devices, 1)

	_, err = new(goocl.Filters).AddDep(goocl.ByIndex(5)).Select()
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)
}

func TestMenuSelection(t *testing.T) {
	newStub(t)

	var out bytes.Buffer
	devices, err := new(goocl.Filters).
		AddDep(goocl.Menu(strings.NewReader("bogus\n1\n"), &out)).
		Select()
	require.NoError(t, err)
	defer releaseAll(t, devices)

	require.Len(t, devices, 1)
	assert.Contains(t, out.String(), "Select device")
	assert.Contains(t, out.String(), "Invalid choice.")
}

func TestMenuAutoSelectsSingleCandidate(t *testing.T) {
	newStub(t)

	var out bytes.Buffer
	devices, err := new(goocl.Filters).
		AddIndep(goocl.FilterCPU).
		AddDep(goocl.Menu(strings.NewReader(""), &out)).
		Select()
	require.NoError(t, err)
	defer releaseAll(t, devices)

	require.Len(t, devices, 1)
	assert.Empty(t, out.String(), "a single candidate needs no prompt")
}

func TestNewContextFromType(t *testing.T) {
	newStub(t)

	ctx, err := goocl.NewContextCPU()
	require.NoError(t, err)
	n, err := ctx.NumDevices()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, ctx.Release())
	assert.True(t, goocl.Memcheck())
}

func TestNewContextFromDeviceIndex(t *testing.T) {
	newStub(t)

	ctx, err := goocl.NewContextFromDeviceIndex(0)
	require.NoError(t, err)
	require.NoError(t, ctx.Release())

	_, err = goocl.NewContextFromDeviceIndex(7)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)
}

func TestFilterErrorReleasesCandidates(t *testing.T) {
	newStub(t)
	boom := errors.New("boom")

	_, err := new(goocl.Filters).
		AddIndep(func(*goocl.Device) (bool, error) { return false, boom }).
		Select()
	require.ErrorIs(t, err, boom)
	assert.True(t, goocl.Memcheck(), "a failing independent filter must release every candidate")

	// Failure after the first candidate was kept covers both the kept
	// prefix and the not yet examined rest.
	calls := 0
	_, err = new(goocl.Filters).
		AddIndep(func(*goocl.Device) (bool, error) {
			calls++
			if calls == 1 {
				return true, nil
			}
			return false, boom
		}).
		Select()
	require.ErrorIs(t, err, boom)
	assert.True(t, goocl.Memcheck(), "a mid-list filter failure must release the kept candidates too")

	_, err = new(goocl.Filters).
		AddDep(func([]*goocl.Device) ([]*goocl.Device, error) { return nil, boom }).
		Select()
	require.ErrorIs(t, err, boom)
	assert.True(t, goocl.Memcheck(), "a failing dependent filter must release every candidate")
}

func TestSamePlatformKeepsAll(t *testing.T) {
	newStub(t)

	devices, err := new(goocl.Filters).AddDep(goocl.SamePlatform).Select()
	require.NoError(t, err)
	defer releaseAll(t, devices)
	assert.Len(t, devices, 2, "the stub devices share one platform")
}
