package goocl_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
)

func TestBufferWriteRead(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	buf, err := goocl.NewBuffer(ctx, ocl.MemReadWrite, 16, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })

	src := []byte("0123456789abcdef")
	_, err = buf.Write(q, 0, src, nil)
	require.NoError(t, err)

	dst := make([]byte, 8)
	_, err = buf.Read(q, 4, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("456789ab"), dst)

	size, err := buf.Size()
	require.NoError(t, err)
	assert.Equal(t, 16, size)
}

func TestBufferCopyHostPtr(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	host := []byte{1, 2, 3, 4}
	buf, err := goocl.NewBuffer(ctx, ocl.MemReadOnly|ocl.MemCopyHostPtr, len(host), host)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })

	host[0] = 99 // a copy must not see later host mutations
	dst := make([]byte, 4)
	_, err = buf.Read(q, 0, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, dst)
}

func TestBufferValidation(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	_, err := goocl.NewBuffer(ctx, 0, 0, nil)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)

	_, err = goocl.NewBuffer(ctx, 0, 16, make([]byte, 8))
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)
}

func TestBufferCopy(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	src, err := goocl.NewBuffer(ctx, 0, 8, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, src.Release()) })
	dst, err := goocl.NewBuffer(ctx, 0, 8, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, dst.Release()) })

	_, err = src.Write(q, 0, []byte("abcdefgh"), nil)
	require.NoError(t, err)
	_, err = src.EnqueueCopy(q, dst, 2, 0, 4, nil)
	require.NoError(t, err)
	require.NoError(t, q.Finish())

	out := make([]byte, 4)
	_, err = dst.Read(q, 0, out, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("cdef"), out)
}

func TestBufferFill(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	buf, err := goocl.NewBuffer(ctx, 0, 16, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })

	_, err = buf.EnqueueFill(q, []byte{0xAB, 0xCD}, 4, 8, nil)
	require.NoError(t, err)
	require.NoError(t, q.Finish())

	out := make([]byte, 16)
	_, err = buf.Read(q, 0, out, nil)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0}, 4), out[:4])
	assert.Equal(t, bytes.Repeat([]byte{0xAB, 0xCD}, 4), out[4:12])
	assert.Equal(t, bytes.Repeat([]byte{0}, 4), out[12:])
}

func TestBufferFillValidation(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	buf, err := goocl.NewBuffer(ctx, 0, 16, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })

	_, err = buf.EnqueueFill(q, []byte{1, 2, 3}, 0, 12, nil)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument, "pattern size must be a power of two")

	_, err = buf.EnqueueFill(q, []byte{1, 2}, 1, 8, nil)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument, "offset must be a pattern multiple")
}

func TestSubBuffer(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	parent, err := goocl.NewBuffer(ctx, 0, 256, nil)
	require.NoError(t, err)

	sub, err := parent.SubBuffer(0, 64, 32)
	require.NoError(t, err)

	// Writes through the parent are visible through the sub-buffer.
	_, err = parent.Write(q, 64, []byte("windowed"), nil)
	require.NoError(t, err)
	out := make([]byte, 8)
	_, err = sub.Read(q, 0, out, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("windowed"), out)

	// The sub-buffer keeps its parent alive.
	require.NoError(t, parent.Release())
	_, err = sub.Read(q, 0, out, nil)
	require.NoError(t, err)
	require.NoError(t, sub.Release())
}

func TestSubBufferMisaligned(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	parent, err := goocl.NewBuffer(ctx, 0, 256, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, parent.Release()) })

	// Stub devices align buffers to 64 bytes.
	_, err = parent.SubBuffer(0, 32, 32)
	require.Error(t, err)
	assert.True(t, goocl.IsStatus(err, ocl.MisalignedSubBufferOffset), "got %v", err)
}

func TestBufferMapUnmap(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	buf, err := goocl.NewBuffer(ctx, 0, 16, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })

	mapped, _, err := buf.Map(q, ocl.MapWrite, 4, 8, nil)
	require.NoError(t, err)
	require.Len(t, mapped, 8)
	copy(mapped, "mapdata!")
	_, err = buf.Unmap(q, mapped, nil)
	require.NoError(t, err)
	require.NoError(t, q.Finish())

	out := make([]byte, 8)
	_, err = buf.Read(q, 4, out, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("mapdata!"), out)
}

func TestBufferDestructorCallback(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	buf, err := goocl.NewBuffer(ctx, 0, 16, nil)
	require.NoError(t, err)

	fired := false
	require.NoError(t, buf.SetDestructorCallback(func() { fired = true }))
	assert.False(t, fired)
	require.NoError(t, buf.Release())
	assert.True(t, fired, "destructor must run when the buffer is destroyed")
}

func TestBufferUseHostPtrAliases(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	host := make([]byte, 8)
	buf, err := goocl.NewBuffer(ctx, ocl.MemUseHostPtr, 8, host)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })

	_, err = buf.Write(q, 0, []byte("hostmem!"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("hostmem!"), host)
}
