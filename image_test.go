package goocl_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/ocl"
)

var rgba8 = ocl.ImageFormat{
	ChannelOrder: ocl.ChannelOrderRGBA,
	ChannelType:  ocl.ChannelTypeUNormInt8,
}

func newTestImage(t *testing.T, ctx *goocl.Context, width, height int) *goocl.Image {
	t.Helper()
	img, err := goocl.NewImage(ctx, ocl.MemReadWrite, rgba8, ocl.ImageDesc{
		Type:   uint32(ocl.MemObjectImage2D),
		Width:  width,
		Height: height,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, img.Release()) })
	return img
}

func TestImageCreateAndQuery(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	img := newTestImage(t, ctx, 4, 4)

	typ, err := img.MemType()
	require.NoError(t, err)
	assert.Equal(t, ocl.MemObjectImage2D, typ)

	format, err := img.Format()
	require.NoError(t, err)
	assert.Equal(t, rgba8, format)

	width, height, depth, err := img.Dimensions()
	require.NoError(t, err)
	assert.Equal(t, 4, width)
	assert.Equal(t, 4, height)
	assert.Equal(t, 1, depth)
}

func TestImageWriteRead(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	img := newTestImage(t, ctx, 4, 4)

	// 4x4 RGBA pixels, each row tagged with its index.
	pixels := make([]byte, 4*4*4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			off := (y*4 + x) * 4
			pixels[off] = byte(y)
			pixels[off+3] = 0xFF
		}
	}
	_, err := img.Write(q, [3]int{0, 0, 0}, [3]int{4, 4, 1}, 0, 0, pixels, nil)
	require.NoError(t, err)

	// Read back a 2x2 window starting at (1, 1).
	out := make([]byte, 2*2*4)
	_, err = img.Read(q, [3]int{1, 1, 0}, [3]int{2, 2, 1}, 0, 0, out, nil)
	require.NoError(t, err)
	assert.Equal(t, byte(1), out[0], "first row of the window comes from image row 1")
	assert.Equal(t, byte(2), out[8], "second row of the window comes from image row 2")
}

func TestImageFill(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	img := newTestImage(t, ctx, 4, 4)

	color := []byte{0x11, 0x22, 0x33, 0x44}
	_, err := img.EnqueueFill(q, color, [3]int{0, 0, 0}, [3]int{4, 2, 1}, nil)
	require.NoError(t, err)
	require.NoError(t, q.Finish())

	out := make([]byte, 4*4*4)
	_, err = img.Read(q, [3]int{0, 0, 0}, [3]int{4, 4, 1}, 0, 0, out, nil)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat(color, 8), out[:32], "the first two rows are filled")
	assert.Equal(t, make([]byte, 32), out[32:], "the last two rows stay zero")
}

func TestImageCopy(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	src := newTestImage(t, ctx, 4, 4)
	dst := newTestImage(t, ctx, 4, 4)

	pixels := bytes.Repeat([]byte{9, 8, 7, 6}, 16)
	_, err := src.Write(q, [3]int{0, 0, 0}, [3]int{4, 4, 1}, 0, 0, pixels, nil)
	require.NoError(t, err)

	_, err = src.EnqueueCopy(q, dst, [3]int{0, 0, 0}, [3]int{2, 2, 0}, [3]int{2, 2, 1}, nil)
	require.NoError(t, err)
	require.NoError(t, q.Finish())

	out := make([]byte, 2*2*4)
	_, err = dst.Read(q, [3]int{2, 2, 0}, [3]int{2, 2, 1}, 0, 0, out, nil)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{9, 8, 7, 6}, 4), out)
}

func TestImageBufferCopies(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	img := newTestImage(t, ctx, 2, 2)
	buf, err := goocl.NewBuffer(ctx, 0, 2*2*4, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, buf.Release()) })

	pixels := bytes.Repeat([]byte{1, 2, 3, 4}, 4)
	_, err = img.Write(q, [3]int{0, 0, 0}, [3]int{2, 2, 1}, 0, 0, pixels, nil)
	require.NoError(t, err)

	_, err = img.EnqueueCopyToBuffer(q, buf, [3]int{0, 0, 0}, [3]int{2, 2, 1}, 0, nil)
	require.NoError(t, err)
	require.NoError(t, q.Finish())

	out := make([]byte, len(pixels))
	_, err = buf.Read(q, 0, out, nil)
	require.NoError(t, err)
	assert.Equal(t, pixels, out)

	// Round-trip back into a fresh image.
	back := newTestImage(t, ctx, 2, 2)
	_, err = back.EnqueueCopyFromBuffer(q, buf, 0, [3]int{0, 0, 0}, [3]int{2, 2, 1}, nil)
	require.NoError(t, err)
	require.NoError(t, q.Finish())

	_, err = back.Read(q, [3]int{0, 0, 0}, [3]int{2, 2, 1}, 0, 0, out, nil)
	require.NoError(t, err)
	assert.Equal(t, pixels, out)
}

func TestSupportedImageFormats(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)

	formats, err := ctx.SupportedImageFormats(ocl.MemReadWrite, ocl.MemObjectImage2D)
	require.NoError(t, err)
	assert.Contains(t, formats, rgba8)
}

func TestImageValidation(t *testing.T) {
	newStub(t)
	ctx := newTestContext(t)
	q := newTestQueue(t, ctx, 0)

	_, err := goocl.NewImage(ctx, 0, rgba8, ocl.ImageDesc{
		Type: uint32(ocl.MemObjectImage2D),
	}, nil)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)

	img := newTestImage(t, ctx, 4, 4)
	out := make([]byte, 4*4*4)
	_, err = img.Read(q, [3]int{2, 2, 0}, [3]int{4, 4, 1}, 0, 0, out, nil)
	require.Error(t, err, "the region must fit inside the image")
	assert.True(t, goocl.IsStatus(err, ocl.InvalidValue), "got %v", err)
}
