package goocl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
)

func TestProgramBuildFailure(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	p, err := goocl.NewProgramFromSource(ctx, "#error deliberate breakage\n")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, p.Release()) })

	err = p.Build(nil, "")
	require.Error(t, err)
	assert.True(t, goocl.IsStatus(err, ocl.BuildProgramFailure), "got %v", err)

	dev, err := ctx.Device(0)
	require.NoError(t, err)
	log, err := p.BuildLog(dev)
	require.NoError(t, err)
	assert.Contains(t, log, "deliberate breakage")

	status, err := p.BuildStatus(dev)
	require.NoError(t, err)
	assert.Equal(t, ocl.BuildError, status)
}

func TestProgramBuildLogs(t *testing.T) {
	newStub(t)

	devices, err := goocl.AllDevices()
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, dev := range devices {
			require.NoError(t, dev.Release())
		}
	})
	ctx, err := goocl.NewContext(devices)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, ctx.Release()) })

	p, err := goocl.NewProgramFromSource(ctx, "#error everywhere\n")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, p.Release()) })
	require.Error(t, p.Build(nil, ""))

	logs, err := p.BuildLogs()
	require.NoError(t, err)
	for _, dev := range devices {
		name, err := dev.Name()
		require.NoError(t, err)
		assert.Contains(t, logs, name)
	}
	assert.Contains(t, logs, "everywhere")
}

func TestProgramBuildAsync(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	p, err := goocl.NewProgramFromSource(ctx, "kernel void noop() {}\n")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, p.Release()) })

	notified := make(chan *goocl.Program, 1)
	require.NoError(t, p.BuildAsync(nil, "", func(done *goocl.Program) {
		notified <- done
	}))
	assert.Same(t, p, <-notified)

	source, err := p.Source()
	require.NoError(t, err)
	assert.Contains(t, source, "noop")
}

func TestProgramBinariesRoundTrip(t *testing.T) {
	d := newStub(t)
	registerVecAdd(d)

	devices, err := goocl.AllDevices()
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, dev := range devices {
			require.NoError(t, dev.Release())
		}
	})
	ctx, err := goocl.NewContext(devices)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, ctx.Release()) })

	p, err := goocl.NewProgramFromSource(ctx, vecAddSource)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, p.Release()) })
	require.NoError(t, p.Build(nil, ""))

	binaries, err := p.Binaries()
	require.NoError(t, err)
	require.Len(t, binaries, len(devices))
	for _, bin := range binaries {
		assert.NotEmpty(t, bin)
	}

	loaded, statuses, err := goocl.NewProgramFromBinaries(ctx, devices, binaries)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, loaded.Release()) })
	for _, st := range statuses {
		assert.Equal(t, ocl.Success, st)
	}
	require.NoError(t, loaded.Build(nil, ""))
	k, err := loaded.Kernel("vec_add")
	require.NoError(t, err)
	name, err := k.FunctionName()
	require.NoError(t, err)
	assert.Equal(t, "vec_add", name)
}

func TestProgramBinaryForDevice(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	p, err := goocl.NewProgramFromSource(ctx, "kernel void noop() {}\n")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, p.Release()) })
	require.NoError(t, p.Build(nil, ""))

	dev, err := ctx.Device(0)
	require.NoError(t, err)
	bin, err := p.BinaryForDevice(dev)
	require.NoError(t, err)
	assert.NotEmpty(t, bin)

	dir := t.TempDir()
	path := filepath.Join(dir, "noop.bin")
	require.NoError(t, p.SaveBinaryForDevice(dev, path))
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, bin, saved)

	paths, err := p.SaveAllBinaries(filepath.Join(dir, "all_"), ".bin")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.FileExists(t, paths[0])
}

func TestProgramFromFilesWithKernelPath(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "noop.cl"),
		[]byte("kernel void noop() {}\n"), 0o644))
	t.Setenv(goocl.KernelPathEnv, dir)

	p, err := goocl.NewProgramFromFiles(ctx, "noop.cl")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, p.Release()) })

	source, err := p.Source()
	require.NoError(t, err)
	assert.Contains(t, source, "noop")

	_, err = goocl.NewProgramFromFiles(ctx, "missing.cl")
	require.Error(t, err)
}

func TestCompileAndLink(t *testing.T) {
	d := newStub(t)
	ctx := newTestContext(t)
	registerVecAdd(d)

	p, err := goocl.NewProgramFromSource(ctx, vecAddSource)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, p.Release()) })
	require.NoError(t, p.Compile(nil, "", nil, nil))

	linked, err := goocl.LinkPrograms(ctx, nil, "", p)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, linked.Release()) })

	k, err := linked.Kernel("vec_add")
	require.NoError(t, err)
	numArgs, err := k.NumArgs()
	require.NoError(t, err)
	assert.Equal(t, uint32(4), numArgs)
}
