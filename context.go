package goocl

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

// Context wraps an OpenCL context. Contexts own their devices (lazily
// enumerated) and remember their platform (lazily resolved from the
// first device).
type Context struct {
	*core
	deviceContainer

	muPlatform sync.Mutex
	platform   *Platform
}

// NewContext creates a context over the given devices, which must all
// belong to the same platform.
func NewContext(devices []*Device) (*Context, error) {
	if len(devices) == 0 {
		return nil, errors.WithMessage(ErrInvalidArgument, "creating context with no devices")
	}
	d, err := CurrentDriver()
	if err != nil {
		return nil, err
	}
	platform, err := devices[0].Platform()
	if err != nil {
		return nil, err
	}
	properties := []uint64{ocl.ContextPlatformProperty, uint64(platform.ID()), 0}
	ids := make([]ocl.DeviceID, len(devices))
	for i, dev := range devices {
		ids[i] = dev.ID()
	}
	handle, st := d.CreateContext(properties, ids)
	if !st.Ok() {
		releaseQuiet(platform)
		return nil, apiError("creating context", st)
	}
	ctx := WrapContext(handle)
	ctx.seedDevices(devices)
	ctx.muPlatform.Lock()
	ctx.platform = platform
	ctx.muPlatform.Unlock()
	return ctx, nil
}

// WrapContext wraps an existing context handle. If the handle is already
// wrapped the same wrapper is returned with its reference count
// incremented.
func WrapContext(id ocl.ContextID) *Context {
	return wrapHandle(ocl.KindContext, uintptr(id), func(c *core) *Context {
		return &Context{core: c}
	})
}

// ID returns the native context handle.
func (ctx *Context) ID() ocl.ContextID { return ocl.ContextID(ctx.handle) }

// Release decrements the reference count, releasing the contained device
// and platform references at zero and then the native context. Devices
// still held by the user outlive the context.
func (ctx *Context) Release() error {
	_, err := ctx.unref(func() {
		ctx.releaseDevices()
		ctx.muPlatform.Lock()
		platform := ctx.platform
		ctx.platform = nil
		ctx.muPlatform.Unlock()
		if platform != nil {
			releaseQuiet(platform)
		}
	}, driverRelease(ocl.KindContext))
	return err
}

// seedDevices pre-populates the device container with the construction
// devices, taking a reference on each.
func (ctx *Context) seedDevices(devices []*Device) {
	owned := make([]*Device, len(devices))
	for i, dev := range devices {
		dev.Ref()
		owned[i] = dev
	}
	ctx.deviceContainer.mu.Lock()
	ctx.deviceContainer.devices = owned
	ctx.deviceContainer.fetched = true
	ctx.deviceContainer.mu.Unlock()
}

func (ctx *Context) fetchDevices() ([]ocl.DeviceID, error) {
	info, err := ctx.Info(ocl.ContextDevices)
	if err != nil {
		return nil, err
	}
	return InfoArray[ocl.DeviceID](info)
}

// NumDevices returns the number of devices in the context.
func (ctx *Context) NumDevices() (int, error) {
	return ctx.numDevices(ctx.fetchDevices)
}

// Device returns context device #i.
func (ctx *Context) Device(i int) (*Device, error) {
	return ctx.deviceAt(i, ctx.fetchDevices)
}

// Devices returns all devices in the context. The returned wrappers are
// owned by the context; Ref any that must outlive it.
func (ctx *Context) Devices() ([]*Device, error) {
	return ctx.allDevices(ctx.fetchDevices)
}

// Platform returns the platform the context devices belong to. The
// returned wrapper is owned by the context.
func (ctx *Context) Platform() (*Platform, error) {
	ctx.muPlatform.Lock()
	defer ctx.muPlatform.Unlock()
	if ctx.platform != nil {
		return ctx.platform, nil
	}
	dev, err := ctx.Device(0)
	if err != nil {
		return nil, err
	}
	platform, err := dev.Platform()
	if err != nil {
		return nil, err
	}
	ctx.platform = platform
	return platform, nil
}

// Info performs a generic context information query.
func (ctx *Context) Info(param uint32) (*Info, error) {
	return ctx.info(ocl.InfoContext, 0, param)
}

// SupportedImageFormats lists the image formats supported by the context
// for the given flags and image type.
func (ctx *Context) SupportedImageFormats(flags ocl.MemFlags, imageType ocl.MemObjectType) ([]ocl.ImageFormat, error) {
	formats, st := drv().GetSupportedImageFormats(ctx.ID(), flags, imageType)
	if !st.Ok() {
		return nil, apiError("querying supported image formats", st)
	}
	return formats, nil
}
