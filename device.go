package goocl

import (
	"github.com/goocl/goocl/ocl"
)

// Device wraps an OpenCL device or sub-device. Mostly an information
// façade; Partition creates sub-devices.
type Device struct {
	*core
}

// WrapDevice wraps an existing device handle. If the handle is already
// wrapped the same wrapper is returned with its reference count
// incremented.
func WrapDevice(id ocl.DeviceID) *Device {
	return wrapHandle(ocl.KindDevice, uintptr(id), func(c *core) *Device {
		return &Device{core: c}
	})
}

// ID returns the native device handle.
func (d *Device) ID() ocl.DeviceID { return ocl.DeviceID(d.handle) }

// Release decrements the reference count. At zero the native release is
// invoked, which the runtime ignores for root devices.
func (d *Device) Release() error {
	_, err := d.unref(nil, driverRelease(ocl.KindDevice))
	return err
}

// Partition creates sub-devices according to the given partition
// property list (e.g. ocl.DevicePartitionEqually, n, 0). Each returned
// sub-device wrapper is owned by the caller.
func (d *Device) Partition(properties []uint64) ([]*Device, error) {
	ids, st := drv().CreateSubDevices(d.ID(), properties)
	if !st.Ok() {
		return nil, apiError("partitioning device", st)
	}
	subs := make([]*Device, len(ids))
	for i, id := range ids {
		subs[i] = WrapDevice(id)
	}
	return subs, nil
}

// Info performs a generic device information query.
func (d *Device) Info(param uint32) (*Info, error) {
	return d.info(ocl.InfoDevice, 0, param)
}

// InfoString queries a device attribute as a string.
func (d *Device) InfoString(param uint32) (string, error) {
	info, err := d.Info(param)
	if err != nil {
		return "", err
	}
	return InfoString(info)
}

// Name returns the device name.
func (d *Device) Name() (string, error) { return d.InfoString(ocl.DeviceNameInfo) }

// Vendor returns the device vendor.
func (d *Device) Vendor() (string, error) { return d.InfoString(ocl.DeviceVendorInfo) }

// Version returns the device version string.
func (d *Device) Version() (string, error) { return d.InfoString(ocl.DeviceVersionInfo) }

// DriverVersion returns the device driver version string.
func (d *Device) DriverVersion() (string, error) { return d.InfoString(ocl.DriverVersionInfo) }

// OpenCLVersion returns the device version encoded as an integer,
// major*100 + minor (e.g. 120 for "OpenCL 1.2").
func (d *Device) OpenCLVersion() (int, error) {
	version, err := d.Version()
	if err != nil {
		return 0, err
	}
	return parseOpenCLVersion(version)
}

// Type returns the device type bitfield.
func (d *Device) Type() (ocl.DeviceType, error) {
	info, err := d.Info(ocl.DeviceTypeInfo)
	if err != nil {
		return 0, err
	}
	return InfoScalar[ocl.DeviceType](info)
}

// Platform returns the platform the device belongs to. The returned
// wrapper is owned by the caller.
func (d *Device) Platform() (*Platform, error) {
	info, err := d.Info(ocl.DevicePlatformInfo)
	if err != nil {
		return nil, err
	}
	id, err := InfoScalar[ocl.PlatformID](info)
	if err != nil {
		return nil, err
	}
	return WrapPlatform(id), nil
}

// MaxComputeUnits returns the number of parallel compute units.
func (d *Device) MaxComputeUnits() (uint32, error) {
	info, err := d.Info(ocl.DeviceMaxComputeUnits)
	if err != nil {
		return 0, err
	}
	return InfoScalar[uint32](info)
}

// MaxWorkItemDimensions returns the maximum number of work-item
// dimensions.
func (d *Device) MaxWorkItemDimensions() (uint32, error) {
	info, err := d.Info(ocl.DeviceMaxWorkItemDimensions)
	if err != nil {
		return 0, err
	}
	return InfoScalar[uint32](info)
}

// MaxWorkItemSizes returns the per-dimension maximum work-item counts.
func (d *Device) MaxWorkItemSizes() ([]uint64, error) {
	info, err := d.Info(ocl.DeviceMaxWorkItemSizes)
	if err != nil {
		return nil, err
	}
	sizes, err := InfoArray[uintptr](info)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, len(sizes))
	for i, s := range sizes {
		out[i] = uint64(s)
	}
	return out, nil
}

// MaxWorkGroupSize returns the maximum total work-group size.
func (d *Device) MaxWorkGroupSize() (uint64, error) {
	info, err := d.Info(ocl.DeviceMaxWorkGroupSize)
	if err != nil {
		return 0, err
	}
	size, err := InfoScalar[uintptr](info)
	return uint64(size), err
}

// MemBaseAddrAlign returns the buffer base-address alignment in bits.
func (d *Device) MemBaseAddrAlign() (uint32, error) {
	info, err := d.Info(ocl.DeviceMemBaseAddrAlign)
	if err != nil {
		return 0, err
	}
	return InfoScalar[uint32](info)
}

// GlobalMemSize returns the global memory size in bytes.
func (d *Device) GlobalMemSize() (uint64, error) {
	info, err := d.Info(ocl.DeviceGlobalMemSize)
	if err != nil {
		return 0, err
	}
	return InfoScalar[uint64](info)
}

// LocalMemSize returns the local memory size in bytes.
func (d *Device) LocalMemSize() (uint64, error) {
	info, err := d.Info(ocl.DeviceLocalMemSize)
	if err != nil {
		return 0, err
	}
	return InfoScalar[uint64](info)
}
