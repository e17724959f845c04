package prof_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
	"github.com/goocl/goocl/ocl/oclstub"
	"github.com/goocl/goocl/prof"
)

func newStub(t *testing.T) {
	t.Helper()
	goocl.SetDriver(oclstub.New())
	t.Cleanup(func() {
		if goocl.Memcheck() {
			return
		}
		for _, w := range goocl.LiveWrappers() {
			t.Errorf("leaked %s wrapper (handle %#x, %d refs)", w.Kind(), w.Handle(), w.RefCount())
			for w.RefCount() > 0 {
				goocl.ReleaseQuiet(w)
			}
		}
	})
}

func newProfiledQueue(t *testing.T, ctx *goocl.Context) *goocl.Queue {
	t.Helper()
	dev, err := ctx.Device(0)
	require.NoError(t, err)
	q, err := goocl.NewQueue(ctx, dev, ocl.QueueProfilingEnable)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, q.Release()) })
	return q
}

func newTestContext(t *testing.T) *goocl.Context {
	t.Helper()
	ctx, err := goocl.NewContextGPU()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, ctx.Release()) })
	return ctx
}

// runWorkload issues named transfers on two queues. Each queue serializes
// its own commands, so simultaneous execution only happens across queues.
func runWorkload(t *testing.T, ctx *goocl.Context, q1, q2 *goocl.Queue) {
	t.Helper()
	buf1, err := goocl.NewBuffer(ctx, 0, 256, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf1.Release()) })
	buf2, err := goocl.NewBuffer(ctx, 0, 256, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf2.Release()) })

	data := make([]byte, 256)
	for i := 0; i < 2; i++ {
		ev, err := buf1.EnqueueWrite(q1, 0, data, nil)
		require.NoError(t, err)
		ev.SetName("upload")
		ev, err = buf2.EnqueueWrite(q2, 0, data, nil)
		require.NoError(t, err)
		ev.SetName("upload")
		ev, err = buf2.EnqueueRead(q2, 0, data, nil)
		require.NoError(t, err)
		ev.SetName("download")
	}
	require.NoError(t, q1.Finish())
	require.NoError(t, q2.Finish())
}

func calcProfiler(t *testing.T) *prof.Profiler {
	t.Helper()
	newStub(t)
	ctx := newTestContext(t)
	q1 := newProfiledQueue(t, ctx)
	q2 := newProfiledQueue(t, ctx)
	runWorkload(t, ctx, q1, q2)

	p := prof.New()
	t.Cleanup(p.Release)
	p.AddQueue("q1", q1)
	p.AddQueue("q2", q2)
	require.NoError(t, p.Calc())
	return p
}

func TestProfilerCalc(t *testing.T) {
	p := calcProfiler(t)

	infos := p.Infos()
	require.Len(t, infos, 6)
	for i := 1; i < len(infos); i++ {
		assert.LessOrEqual(t, infos[i-1].Start, infos[i].Start, "records are ordered by start time")
	}
	for _, info := range infos {
		assert.LessOrEqual(t, info.Queued, info.Submit)
		assert.LessOrEqual(t, info.Submit, info.Start)
		assert.Less(t, info.Start, info.End)
	}

	assert.Greater(t, p.TotalEventsTime(), uint64(0))
	assert.GreaterOrEqual(t, p.TotalEventsTime(), p.EffectiveEventsTime())
}

func TestProfilerAggregates(t *testing.T) {
	p := calcProfiler(t)

	aggs := p.Aggregates()
	require.Len(t, aggs, 2)
	names := []string{aggs[0].Name, aggs[1].Name}
	assert.ElementsMatch(t, []string{"upload", "download"}, names)
	assert.GreaterOrEqual(t, aggs[0].Time, aggs[1].Time, "aggregates come longest first")
	assert.InDelta(t, 1.0, aggs[0].Relative+aggs[1].Relative, 1e-9)
}

func TestProfilerOverlaps(t *testing.T) {
	p := calcProfiler(t)

	overlaps := p.Overlaps()
	require.NotEmpty(t, overlaps, "the two queues execute concurrently")
	for i := 1; i < len(overlaps); i++ {
		assert.GreaterOrEqual(t, overlaps[i-1].Duration, overlaps[i].Duration)
	}
	var overlapped uint64
	for _, ov := range overlaps {
		overlapped += ov.Duration
	}
	assert.Equal(t, p.TotalEventsTime()-p.EffectiveEventsTime(), overlapped)
}

func TestCalcRequiresProfiling(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	dev, err := ctx.Device(0)
	require.NoError(t, err)
	q, err := goocl.NewQueue(ctx, dev, 0)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, q.Release()) })

	p := prof.New()
	t.Cleanup(p.Release)
	p.AddQueue("plain", q)
	err = p.Calc()
	require.Error(t, err)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "without profiling")
}

func TestCalcFailureLeavesNoData(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q1 := newProfiledQueue(t, ctx)
	q2 := newProfiledQueue(t, ctx)
	runWorkload(t, ctx, q1, q2)

	dev, err := ctx.Device(0)
	require.NoError(t, err)
	plain, err := goocl.NewQueue(ctx, dev, 0)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, plain.Release()) })

	p := prof.New()
	t.Cleanup(p.Release)
	p.AddQueue("q1", q1)
	p.AddQueue("plain", plain)

	err = p.Calc()
	require.Error(t, err)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)
	assert.Empty(t, p.Infos(), "a failed Calc must leave no partial records")
	assert.Empty(t, p.Aggregates())
	assert.Zero(t, p.TotalEventsTime())

	// The failure is repeatable, not turned into "already calculated".
	err = p.Calc()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without profiling")
}

func TestCalcRunsOnce(t *testing.T) {
	p := calcProfiler(t)

	err := p.Calc()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already calculated")
}
