package goocl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
	"github.com/goocl/goocl/ocl/oclstub"
)

// newStub installs a fresh in-memory runtime for the test and returns
// it for direct inspection (kernel registration, info-call counting).
// At test end every wrapper must have been released; leaks fail the
// test and are drained so later tests start clean.
func newStub(t *testing.T) *oclstub.Driver {
	t.Helper()
	d := oclstub.New()
	goocl.SetDriver(d)
	t.Cleanup(func() { checkWrapperLeaks(t) })
	return d
}

func checkWrapperLeaks(t *testing.T) {
	t.Helper()
	if goocl.Memcheck() {
		return
	}
	for _, w := range goocl.LiveWrappers() {
		t.Errorf("leaked %s wrapper (handle %#x, %d refs)", w.Kind(), w.Handle(), w.RefCount())
		for w.RefCount() > 0 {
			goocl.ReleaseQuiet(w)
		}
	}
}

// newTestContext creates a single-GPU context released at test end.
func newTestContext(t *testing.T) *goocl.Context {
	t.Helper()
	ctx, err := goocl.NewContextGPU()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, ctx.Release()) })
	return ctx
}

// newTestQueue creates a queue on context device 0, released at test
// end.
func newTestQueue(t *testing.T, ctx *goocl.Context, properties ocl.QueueProperties) *goocl.Queue {
	t.Helper()
	dev, err := ctx.Device(0)
	require.NoError(t, err)
	q, err := goocl.NewQueue(ctx, dev, properties)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, q.Release()) })
	return q
}
