package goocl_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
	"github.com/goocl/goocl/ocl/oclstub"
)

const vecAddSource = `
kernel void vec_add(global const float* a, global const float* b,
                    global float* c, const uint n) {
	size_t i = get_global_id(0);
	if (i < n) c[i] = a[i] + b[i];
}
`

func registerVecAdd(d *oclstub.Driver) {
	d.RegisterKernel("vec_add", 4, func(args []oclstub.Arg, globalOffset, globalSize []int) {
		a, b, c := args[0].Global, args[1].Global, args[2].Global
		n := binary.LittleEndian.Uint32(args[3].Value)
		for i := 0; i < globalSize[0] && i < int(n); i++ {
			x := math.Float32frombits(binary.LittleEndian.Uint32(a[i*4:]))
			y := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
			binary.LittleEndian.PutUint32(c[i*4:], math.Float32bits(x+y))
		}
	})
}

func floatBytes(values ...float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func builtVecAdd(t *testing.T, d *oclstub.Driver, ctx *goocl.Context) *goocl.Program {
	t.Helper()
	registerVecAdd(d)
	p, err := goocl.NewProgramFromSource(ctx, vecAddSource)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, p.Release()) })
	require.NoError(t, p.Build(nil, ""))
	return p
}

func TestKernelLaunch(t *testing.T) {
	d := newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)
	p := builtVecAdd(t, d, ctx)

	const n = 8
	a, err := goocl.NewBuffer(ctx, ocl.MemReadOnly|ocl.MemCopyHostPtr, 4*n,
		floatBytes(1, 2, 3, 4, 5, 6, 7, 8))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Release()) })
	b, err := goocl.NewBuffer(ctx, ocl.MemReadOnly|ocl.MemCopyHostPtr, 4*n,
		floatBytes(10, 20, 30, 40, 50, 60, 70, 80))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, b.Release()) })
	c, err := goocl.NewBuffer(ctx, ocl.MemWriteOnly, 4*n, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Release()) })

	k, err := p.Kernel("vec_add")
	require.NoError(t, err)
	require.NoError(t, k.SetArgs(a, b, c, goocl.NewArg(uint32(n))))
	_, err = k.EnqueueNDRange(q, nil, []int{n}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, q.Finish())

	out := make([]byte, 4*n)
	_, err = c.Read(q, 0, out, nil)
	require.NoError(t, err)
	assert.Equal(t, floatBytes(11, 22, 33, 44, 55, 66, 77, 88), out)
}

func TestKernelEnqueueWithArgs(t *testing.T) {
	d := newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)
	p := builtVecAdd(t, d, ctx)

	a, err := goocl.NewBuffer(ctx, ocl.MemCopyHostPtr, 8, floatBytes(1, 2))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Release()) })
	b, err := goocl.NewBuffer(ctx, ocl.MemCopyHostPtr, 8, floatBytes(3, 4))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, b.Release()) })
	c, err := goocl.NewBuffer(ctx, 0, 8, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Release()) })

	k, err := p.Kernel("vec_add")
	require.NoError(t, err)
	_, err = k.EnqueueWithArgs(q, nil, []int{2}, nil, nil, a, b, c, goocl.NewArg(uint32(2)))
	require.NoError(t, err)
	require.NoError(t, q.Finish())

	out := make([]byte, 8)
	_, err = c.Read(q, 0, out, nil)
	require.NoError(t, err)
	assert.Equal(t, floatBytes(4, 6), out)
}

func TestKernelSkipArg(t *testing.T) {
	d := newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)
	p := builtVecAdd(t, d, ctx)

	a, err := goocl.NewBuffer(ctx, ocl.MemCopyHostPtr, 8, floatBytes(1, 2))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Release()) })
	c, err := goocl.NewBuffer(ctx, 0, 8, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, c.Release()) })

	k, err := p.Kernel("vec_add")
	require.NoError(t, err)
	require.NoError(t, k.SetArgs(a, a, c, goocl.NewArg(uint32(2))))
	// Update only the output buffer; the others keep their bindings.
	require.NoError(t, k.SetArgs(goocl.SkipArg, goocl.SkipArg, c, goocl.SkipArg))
	_, err = k.EnqueueNDRange(q, nil, []int{2}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, q.Finish())

	out := make([]byte, 8)
	_, err = c.Read(q, 0, out, nil)
	require.NoError(t, err)
	assert.Equal(t, floatBytes(2, 4), out)
}

func TestKernelIntrospection(t *testing.T) {
	d := newStub(t)
	ctx := newTestContext(t)
	p := builtVecAdd(t, d, ctx)

	k, err := p.Kernel("vec_add")
	require.NoError(t, err)

	name, err := k.FunctionName()
	require.NoError(t, err)
	assert.Equal(t, "vec_add", name)

	numArgs, err := k.NumArgs()
	require.NoError(t, err)
	assert.Equal(t, uint32(4), numArgs)

	dev, err := ctx.Device(0)
	require.NoError(t, err)
	wgSize, err := k.WorkGroupSize(dev)
	require.NoError(t, err)
	assert.Equal(t, uint64(1024), wgSize)
	mult, err := k.PreferredWorkGroupSizeMultiple(dev)
	require.NoError(t, err)
	assert.Equal(t, uint64(32), mult)

	_, err = k.ArgName(0)
	require.Error(t, err)
	assert.True(t, goocl.IsStatus(err, ocl.KernelArgInfoNotAvailable), "got %v", err)
}

func TestKernelCache(t *testing.T) {
	d := newStub(t)
	ctx := newTestContext(t)
	p := builtVecAdd(t, d, ctx)

	k1, err := p.Kernel("vec_add")
	require.NoError(t, err)
	k2, err := p.Kernel("vec_add")
	require.NoError(t, err)
	assert.Same(t, k1, k2, "program-owned kernels are cached by name")

	owned, err := p.NewKernel("vec_add")
	require.NoError(t, err)
	assert.NotSame(t, k1, owned, "NewKernel returns a caller-owned kernel")
	require.NoError(t, owned.Release())
}

func TestKernelErrors(t *testing.T) {
	d := newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)
	p := builtVecAdd(t, d, ctx)

	_, err := p.Kernel("no_such_kernel")
	require.Error(t, err)
	assert.True(t, goocl.IsStatus(err, ocl.InvalidKernelName), "got %v", err)

	k, err := p.Kernel("vec_add")
	require.NoError(t, err)
	_, err = k.EnqueueNDRange(q, nil, nil, nil, nil)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument, "empty global size")

	err = k.SetArgs(struct{}{})
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument, "unbindable argument type")
}

func TestKernelMissingArgs(t *testing.T) {
	d := newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)
	p := builtVecAdd(t, d, ctx)

	k, err := p.NewKernel("vec_add")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, k.Release()) })

	_, err = k.EnqueueNDRange(q, nil, []int{4}, nil, nil)
	require.Error(t, err)
	assert.True(t, goocl.IsStatus(err, ocl.InvalidKernelArgs), "got %v", err)
}
