package goocl

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

// Buffer wraps an OpenCL buffer object.
type Buffer struct {
	memObject

	// parent is non-nil for region sub-buffers, which hold a reference
	// to the buffer they were carved from.
	parent *Buffer
}

// NewBuffer creates a buffer of the given size. A non-nil host slice is
// the initial content for ocl.MemCopyHostPtr (or the backing store for
// ocl.MemUseHostPtr); its length must be at least size.
func NewBuffer(ctx *Context, flags ocl.MemFlags, size int, host []byte) (*Buffer, error) {
	if size <= 0 {
		return nil, errors.WithMessagef(ErrInvalidArgument, "buffer size %d", size)
	}
	if host != nil && len(host) < size {
		return nil, errors.WithMessagef(ErrInvalidArgument,
			"host slice holds %d bytes, buffer needs %d", len(host), size)
	}
	d, err := CurrentDriver()
	if err != nil {
		return nil, err
	}
	handle, st := d.CreateBuffer(ctx.ID(), flags, size, host)
	if !st.Ok() {
		return nil, apiError("creating buffer", st)
	}
	b := wrapBuffer(handle)
	b.ctx = ctx.ID()
	return b, nil
}

// WrapBuffer wraps an existing buffer handle. If the handle is already
// wrapped the same wrapper is returned with its reference count
// incremented.
func WrapBuffer(id ocl.MemID) *Buffer {
	return wrapBuffer(id)
}

func wrapBuffer(id ocl.MemID) *Buffer {
	return wrapHandle(ocl.KindBuffer, uintptr(id), func(c *core) *Buffer {
		return &Buffer{memObject: memObject{core: c}}
	})
}

// Release decrements the reference count; at zero the native buffer is
// released (triggering any destructor callbacks once its resources go
// away) and, for sub-buffers, the parent reference is dropped.
func (b *Buffer) Release() error {
	parent := b.parent
	destroyed, err := b.unref(nil, driverRelease(ocl.KindBuffer))
	if destroyed && parent != nil {
		releaseQuiet(parent)
	}
	return err
}

// SubBuffer creates a sub-buffer over the region [origin, origin+size).
// The origin must be a multiple of the device base-address alignment;
// misalignment surfaces as an *APIError with
// ocl.MisalignedSubBufferOffset. The sub-buffer holds a reference to its
// parent.
func (b *Buffer) SubBuffer(flags ocl.MemFlags, origin, size int) (*Buffer, error) {
	if size <= 0 || origin < 0 {
		return nil, errors.WithMessagef(ErrInvalidArgument,
			"sub-buffer region [%d, %d+%d)", origin, origin, size)
	}
	handle, st := drv().CreateSubBuffer(b.MemID(), flags, origin, size)
	if !st.Ok() {
		return nil, apiError("creating sub-buffer", st)
	}
	sub := wrapBuffer(handle)
	sub.ctx = b.ctx
	b.Ref()
	sub.parent = b
	return sub, nil
}

// Read blocks until len(dst) bytes starting at offset have been copied
// out of the buffer. Consumes the wait list.
func (b *Buffer) Read(q *Queue, offset int, dst []byte, wait *WaitList) (*Event, error) {
	return b.read(q, true, offset, dst, wait)
}

// EnqueueRead schedules a read without blocking; completion is observed
// through the returned event. dst must stay untouched until then.
// Consumes the wait list.
func (b *Buffer) EnqueueRead(q *Queue, offset int, dst []byte, wait *WaitList) (*Event, error) {
	return b.read(q, false, offset, dst, wait)
}

func (b *Buffer) read(q *Queue, blocking bool, offset int, dst []byte, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueReadBuffer(q.ID(), b.MemID(), blocking, offset, dst, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing buffer read", st)
	}
	return q.retainEvent(id), nil
}

// Write blocks until len(src) bytes have been copied into the buffer at
// offset. Consumes the wait list.
func (b *Buffer) Write(q *Queue, offset int, src []byte, wait *WaitList) (*Event, error) {
	return b.write(q, true, offset, src, wait)
}

// EnqueueWrite schedules a write without blocking. src must stay
// untouched until the returned event completes. Consumes the wait list.
func (b *Buffer) EnqueueWrite(q *Queue, offset int, src []byte, wait *WaitList) (*Event, error) {
	return b.write(q, false, offset, src, wait)
}

func (b *Buffer) write(q *Queue, blocking bool, offset int, src []byte, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueWriteBuffer(q.ID(), b.MemID(), blocking, offset, src, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing buffer write", st)
	}
	return q.retainEvent(id), nil
}

// EnqueueCopy schedules a copy of size bytes from b at srcOffset into
// dst at dstOffset. Consumes the wait list.
func (b *Buffer) EnqueueCopy(q *Queue, dst *Buffer, srcOffset, dstOffset, size int, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueCopyBuffer(q.ID(), b.MemID(), dst.MemID(), srcOffset, dstOffset, size, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing buffer copy", st)
	}
	return q.retainEvent(id), nil
}

// EnqueueFill schedules filling of the region [offset, offset+size)
// with repetitions of pattern. The pattern size must be a power of two
// in [1, 128], and offset and size must be multiples of it. Consumes
// the wait list.
func (b *Buffer) EnqueueFill(q *Queue, pattern []byte, offset, size int, wait *WaitList) (*Event, error) {
	n := len(pattern)
	if n == 0 || n > 128 || bits.OnesCount(uint(n)) != 1 {
		return nil, errors.WithMessagef(ErrInvalidArgument,
			"fill pattern of %d bytes, must be a power of two in [1, 128]", n)
	}
	if offset%n != 0 || size%n != 0 {
		return nil, errors.WithMessagef(ErrInvalidArgument,
			"fill region [%d, %d+%d) not a multiple of the %d-byte pattern",
			offset, offset, size, n)
	}
	id, st := drv().EnqueueFillBuffer(q.ID(), b.MemID(), pattern, offset, size, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing buffer fill", st)
	}
	return q.retainEvent(id), nil
}

// Map blocks until the region [offset, offset+size) is mapped into host
// memory and returns the mapped bytes. Unmap the region with Unmap.
// Consumes the wait list.
func (b *Buffer) Map(q *Queue, flags ocl.MapFlags, offset, size int, wait *WaitList) ([]byte, *Event, error) {
	mapped, id, st := drv().EnqueueMapBuffer(q.ID(), b.MemID(), true, flags, offset, size, wait.take())
	if !st.Ok() {
		return nil, nil, apiError("mapping buffer", st)
	}
	return mapped, q.retainEvent(id), nil
}

// Unmap schedules the unmapping of a region previously returned by Map.
// Consumes the wait list.
func (b *Buffer) Unmap(q *Queue, mapped []byte, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueUnmapMemObject(q.ID(), b.MemID(), mapped, wait.take())
	if !st.Ok() {
		return nil, apiError("unmapping buffer", st)
	}
	return q.retainEvent(id), nil
}
