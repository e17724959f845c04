package goocl

import (
	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

// Image wraps an OpenCL image object of any dimensionality.
type Image struct {
	memObject
}

// NewImage creates an image with the given format and descriptor. A
// non-nil host slice provides the initial pixels for
// ocl.MemCopyHostPtr.
func NewImage(ctx *Context, flags ocl.MemFlags, format ocl.ImageFormat, desc ocl.ImageDesc, host []byte) (*Image, error) {
	if desc.Width <= 0 {
		return nil, errors.WithMessagef(ErrInvalidArgument, "image width %d", desc.Width)
	}
	d, err := CurrentDriver()
	if err != nil {
		return nil, err
	}
	handle, st := d.CreateImage(ctx.ID(), flags, format, desc, host)
	if !st.Ok() {
		return nil, apiError("creating image", st)
	}
	img := wrapImage(handle)
	img.ctx = ctx.ID()
	return img, nil
}

// WrapImage wraps an existing image handle. If the handle is already
// wrapped the same wrapper is returned with its reference count
// incremented.
func WrapImage(id ocl.MemID) *Image {
	return wrapImage(id)
}

func wrapImage(id ocl.MemID) *Image {
	return wrapHandle(ocl.KindImage, uintptr(id), func(c *core) *Image {
		return &Image{memObject: memObject{core: c}}
	})
}

// Release decrements the reference count, releasing the native image at
// zero.
func (img *Image) Release() error {
	_, err := img.unref(nil, driverRelease(ocl.KindImage))
	return err
}

// ImageInfo performs a generic image information query (as opposed to
// the memory-object queries available through Info).
func (img *Image) ImageInfo(param uint32) (*Info, error) {
	return img.info(ocl.InfoImage, 0, param)
}

// Format returns the image channel order and data type.
func (img *Image) Format() (ocl.ImageFormat, error) {
	info, err := img.ImageInfo(ocl.ImageFormatInfo)
	if err != nil {
		return ocl.ImageFormat{}, err
	}
	return InfoScalar[ocl.ImageFormat](info)
}

// Dimensions returns the image width, height and depth. Height and depth
// are 1 for lower-dimensional images.
func (img *Image) Dimensions() (width, height, depth int, err error) {
	for _, q := range []struct {
		param uint32
		out   *int
	}{
		{ocl.ImageWidthInfo, &width},
		{ocl.ImageHeightInfo, &height},
		{ocl.ImageDepthInfo, &depth},
	} {
		info, err := img.ImageInfo(q.param)
		if err != nil {
			return 0, 0, 0, err
		}
		value, err := InfoScalar[uintptr](info)
		if err != nil {
			return 0, 0, 0, err
		}
		*q.out = int(value)
	}
	if height == 0 {
		height = 1
	}
	if depth == 0 {
		depth = 1
	}
	return width, height, depth, nil
}

// Read blocks until the region starting at origin with the given extent
// has been copied into dst. Consumes the wait list.
func (img *Image) Read(q *Queue, origin, region [3]int, rowPitch, slicePitch int, dst []byte, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueReadImage(q.ID(), img.MemID(), true, origin, region, rowPitch, slicePitch, dst, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing image read", st)
	}
	return q.retainEvent(id), nil
}

// EnqueueRead schedules an image read without blocking. Consumes the
// wait list.
func (img *Image) EnqueueRead(q *Queue, origin, region [3]int, rowPitch, slicePitch int, dst []byte, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueReadImage(q.ID(), img.MemID(), false, origin, region, rowPitch, slicePitch, dst, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing image read", st)
	}
	return q.retainEvent(id), nil
}

// Write blocks until src has been copied into the image region starting
// at origin. Consumes the wait list.
func (img *Image) Write(q *Queue, origin, region [3]int, rowPitch, slicePitch int, src []byte, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueWriteImage(q.ID(), img.MemID(), true, origin, region, rowPitch, slicePitch, src, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing image write", st)
	}
	return q.retainEvent(id), nil
}

// EnqueueWrite schedules an image write without blocking. Consumes the
// wait list.
func (img *Image) EnqueueWrite(q *Queue, origin, region [3]int, rowPitch, slicePitch int, src []byte, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueWriteImage(q.ID(), img.MemID(), false, origin, region, rowPitch, slicePitch, src, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing image write", st)
	}
	return q.retainEvent(id), nil
}

// EnqueueCopy schedules a copy between image regions. Consumes the wait
// list.
func (img *Image) EnqueueCopy(q *Queue, dst *Image, srcOrigin, dstOrigin, region [3]int, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueCopyImage(q.ID(), img.MemID(), dst.MemID(), srcOrigin, dstOrigin, region, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing image copy", st)
	}
	return q.retainEvent(id), nil
}

// EnqueueFill schedules filling of an image region with a color. The
// color is the raw pixel value matching the image format. Consumes the
// wait list.
func (img *Image) EnqueueFill(q *Queue, color []byte, origin, region [3]int, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueFillImage(q.ID(), img.MemID(), color, origin, region, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing image fill", st)
	}
	return q.retainEvent(id), nil
}

// EnqueueCopyToBuffer schedules a copy from an image region into a
// buffer at dstOffset. Consumes the wait list.
func (img *Image) EnqueueCopyToBuffer(q *Queue, dst *Buffer, srcOrigin, region [3]int, dstOffset int, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueCopyImageToBuffer(q.ID(), img.MemID(), dst.MemID(), srcOrigin, region, dstOffset, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing image-to-buffer copy", st)
	}
	return q.retainEvent(id), nil
}

// EnqueueCopyFromBuffer schedules a copy from a buffer at srcOffset into
// an image region. Consumes the wait list.
func (img *Image) EnqueueCopyFromBuffer(q *Queue, src *Buffer, srcOffset int, dstOrigin, region [3]int, wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueCopyBufferToImage(q.ID(), src.MemID(), img.MemID(), srcOffset, dstOrigin, region, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing buffer-to-image copy", st)
	}
	return q.retainEvent(id), nil
}
