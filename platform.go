package goocl

import (
	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

// Platform wraps an OpenCL platform. Platforms are almost pure
// information façades; they also act as device containers.
type Platform struct {
	*core
	deviceContainer
}

// Platforms enumerates all platforms known to the current driver. Each
// returned wrapper must be released by the caller.
func Platforms() ([]*Platform, error) {
	d, err := CurrentDriver()
	if err != nil {
		return nil, err
	}
	ids, st := d.GetPlatformIDs()
	if !st.Ok() {
		return nil, apiError("enumerating platforms", st)
	}
	platforms := make([]*Platform, len(ids))
	for i, id := range ids {
		platforms[i] = WrapPlatform(id)
	}
	return platforms, nil
}

// WrapPlatform wraps an existing platform handle. If the handle is
// already wrapped the same wrapper is returned with its reference count
// incremented.
func WrapPlatform(id ocl.PlatformID) *Platform {
	return wrapHandle(ocl.KindPlatform, uintptr(id), func(c *core) *Platform {
		return &Platform{core: c}
	})
}

// ID returns the native platform handle.
func (p *Platform) ID() ocl.PlatformID { return ocl.PlatformID(p.handle) }

// Release decrements the reference count, dropping the contained device
// references at zero. Platforms have no native release call.
func (p *Platform) Release() error {
	_, err := p.unref(p.releaseDevices, driverRelease(ocl.KindPlatform))
	return err
}

func (p *Platform) fetchDevices() ([]ocl.DeviceID, error) {
	ids, st := drv().GetDeviceIDs(p.ID(), ocl.DeviceTypeAll)
	if !st.Ok() {
		return nil, apiError("enumerating platform devices", st)
	}
	return ids, nil
}

// NumDevices returns the number of devices in the platform.
func (p *Platform) NumDevices() (int, error) {
	return p.numDevices(p.fetchDevices)
}

// Device returns platform device #i.
func (p *Platform) Device(i int) (*Device, error) {
	return p.deviceAt(i, p.fetchDevices)
}

// Devices returns all devices in the platform. The returned wrappers are
// owned by the platform; Ref any that must outlive it.
func (p *Platform) Devices() ([]*Device, error) {
	return p.allDevices(p.fetchDevices)
}

// DevicesOfType enumerates the platform devices matching typ. Unlike
// Devices, the returned wrappers are referenced for the caller.
func (p *Platform) DevicesOfType(typ ocl.DeviceType) ([]*Device, error) {
	ids, st := drv().GetDeviceIDs(p.ID(), typ)
	if st == ocl.DeviceNotFound || (st.Ok() && len(ids) == 0) {
		return nil, errors.WithMessagef(ErrDeviceNotFound, "no %s devices in platform", typ)
	}
	if !st.Ok() {
		return nil, apiError("enumerating platform devices", st)
	}
	devices := make([]*Device, len(ids))
	for i, id := range ids {
		devices[i] = WrapDevice(id)
	}
	return devices, nil
}

// Info performs a generic platform information query.
func (p *Platform) Info(param uint32) (*Info, error) {
	return p.info(ocl.InfoPlatform, 0, param)
}

// InfoString queries a platform attribute as a string.
func (p *Platform) InfoString(param uint32) (string, error) {
	info, err := p.Info(param)
	if err != nil {
		return "", err
	}
	return InfoString(info)
}

// Name returns the platform name.
func (p *Platform) Name() (string, error) { return p.InfoString(ocl.PlatformName) }

// Vendor returns the platform vendor.
func (p *Platform) Vendor() (string, error) { return p.InfoString(ocl.PlatformVendor) }

// Version returns the platform version string, e.g. "OpenCL 1.2 ...".
func (p *Platform) Version() (string, error) { return p.InfoString(ocl.PlatformVersion) }

// Profile returns the platform profile.
func (p *Platform) Profile() (string, error) { return p.InfoString(ocl.PlatformProfile) }

// Extensions returns the space-separated platform extension list.
func (p *Platform) Extensions() (string, error) { return p.InfoString(ocl.PlatformExtensions) }

// OpenCLVersion returns the platform version encoded as an integer,
// major*100 + minor (e.g. 120 for "OpenCL 1.2").
func (p *Platform) OpenCLVersion() (int, error) {
	version, err := p.Version()
	if err != nil {
		return 0, err
	}
	return parseOpenCLVersion(version)
}
