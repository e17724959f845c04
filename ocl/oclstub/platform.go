package oclstub

import (
	"github.com/goocl/goocl/ocl"
)

type platform struct {
	handle  uintptr
	info    map[uint32][]byte
	devices []*device
}

type device struct {
	handle   uintptr
	platform *platform
	typ      ocl.DeviceType
	info     map[uint32][]byte

	// parent is non-nil for sub-devices, which are reference counted.
	parent *device
	refs   int
}

func (d *Driver) newPlatform() *platform {
	p := &platform{
		info: map[uint32][]byte{
			ocl.PlatformProfile:    stringBytes("FULL_PROFILE"),
			ocl.PlatformVersion:    stringBytes("OpenCL 1.2 goocl stub"),
			ocl.PlatformName:       stringBytes("goocl stub platform"),
			ocl.PlatformVendor:     stringBytes("goocl"),
			ocl.PlatformExtensions: stringBytes(""),
		},
	}
	p.handle = d.newHandle(p)
	p.devices = []*device{
		d.newDevice(p, ocl.DeviceTypeCPU, "goocl stub CPU", 8, 16),
		d.newDevice(p, ocl.DeviceTypeGPU, "goocl stub GPU", 32, 32),
	}
	return p
}

func (d *Driver) newDevice(p *platform, typ ocl.DeviceType, name string, computeUnits uint32, wgMultiple uintptr) *device {
	dev := &device{platform: p, typ: typ}
	dev.info = map[uint32][]byte{
		ocl.DeviceTypeInfo:                 bytesOf(typ),
		ocl.DeviceVendorID:                 bytesOf(uint32(0x6f43)),
		ocl.DeviceNameInfo:                 stringBytes(name),
		ocl.DeviceVendorInfo:               stringBytes("goocl"),
		ocl.DriverVersionInfo:              stringBytes("1.2.0"),
		ocl.DeviceProfileInfo:              stringBytes("FULL_PROFILE"),
		ocl.DeviceVersionInfo:              stringBytes("OpenCL 1.2 goocl stub"),
		ocl.DeviceOpenCLCVersion:           stringBytes("OpenCL C 1.2"),
		ocl.DeviceExtensionsInfo:           stringBytes("cl_khr_byte_addressable_store"),
		ocl.DeviceBuiltInKernels:           stringBytes(""),
		ocl.DeviceMaxComputeUnits:          bytesOf(computeUnits),
		ocl.DeviceMaxWorkItemDimensions:    bytesOf(uint32(3)),
		ocl.DeviceMaxWorkItemSizes:         sliceBytes([]uintptr{1024, 256, 64}),
		ocl.DeviceMaxWorkGroupSize:         bytesOf(uintptr(1024)),
		ocl.DeviceMaxClockFrequency:        bytesOf(uint32(1000)),
		ocl.DeviceAddressBits:              bytesOf(uint32(64)),
		ocl.DeviceMaxMemAllocSize:          bytesOf(uint64(1 << 28)),
		ocl.DeviceGlobalMemSize:            bytesOf(uint64(1 << 30)),
		ocl.DeviceGlobalMemCacheSize:       bytesOf(uint64(1 << 18)),
		ocl.DeviceGlobalMemCachelineSize:   bytesOf(uint32(64)),
		ocl.DeviceGlobalMemCacheType:       bytesOf(uint32(2)),
		ocl.DeviceLocalMemSize:             bytesOf(uint64(1 << 15)),
		ocl.DeviceLocalMemType:             bytesOf(uint32(1)),
		ocl.DeviceMaxConstantBufferSize:    bytesOf(uint64(1 << 16)),
		ocl.DeviceMaxConstantArgs:          bytesOf(uint32(8)),
		ocl.DeviceMaxParameterSize:         bytesOf(uintptr(1024)),
		ocl.DeviceMemBaseAddrAlign:         bytesOf(uint32(512)),
		ocl.DeviceMinDataTypeAlignSize:     bytesOf(uint32(64)),
		ocl.DeviceSingleFPConfig:           bytesOf(uint64(0x3f)),
		ocl.DeviceImageSupport:             bytesOf(uint32(1)),
		ocl.DeviceMaxReadImageArgs:         bytesOf(uint32(128)),
		ocl.DeviceMaxWriteImageArgs:        bytesOf(uint32(8)),
		ocl.DeviceMaxSamplers:              bytesOf(uint32(16)),
		ocl.DeviceImage2DMaxWidth:          bytesOf(uintptr(8192)),
		ocl.DeviceImage2DMaxHeight:         bytesOf(uintptr(8192)),
		ocl.DeviceImage3DMaxWidth:          bytesOf(uintptr(2048)),
		ocl.DeviceImage3DMaxHeight:         bytesOf(uintptr(2048)),
		ocl.DeviceImage3DMaxDepth:          bytesOf(uintptr(2048)),
		ocl.DeviceImageMaxBufferSize:       bytesOf(uintptr(1 << 24)),
		ocl.DeviceImageMaxArraySize:        bytesOf(uintptr(2048)),
		ocl.DeviceAvailable:                bytesOf(uint32(1)),
		ocl.DeviceCompilerAvailable:        bytesOf(uint32(1)),
		ocl.DeviceLinkerAvailable:          bytesOf(uint32(1)),
		ocl.DeviceEndianLittle:             bytesOf(uint32(1)),
		ocl.DeviceErrorCorrectionSupport:   bytesOf(uint32(0)),
		ocl.DeviceHostUnifiedMemory:        bytesOf(uint32(1)),
		ocl.DeviceProfilingTimerResolution: bytesOf(uintptr(1)),
		ocl.DeviceQueuePropertiesInfo:      bytesOf(ocl.QueueProfilingEnable | ocl.QueueOutOfOrderExec),
		ocl.DevicePartitionMaxSubDevices:   bytesOf(computeUnits),
		ocl.DevicePartitionProperties:      sliceBytes([]uint64{ocl.DevicePartitionEqually}),
		ocl.DevicePrintfBufferSize:         bytesOf(uintptr(1 << 20)),
		ocl.DevicePlatformInfo:             bytesOf(ocl.PlatformID(p.handle)),
		kernelWorkGroupMultiple:            bytesOf(wgMultiple),
	}
	dev.handle = d.newHandle(dev)
	return dev
}

// kernelWorkGroupMultiple keys the per-device preferred work-group
// multiple inside the device info map. Not a real parameter; served
// through kernel work-group queries only.
const kernelWorkGroupMultiple uint32 = 0xFFFF0001

// GetPlatformIDs implements ocl.Driver.
func (d *Driver) GetPlatformIDs() ([]ocl.PlatformID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return []ocl.PlatformID{ocl.PlatformID(d.platform.handle)}, ocl.Success
}

// GetDeviceIDs implements ocl.Driver.
func (d *Driver) GetDeviceIDs(platformID ocl.PlatformID, typ ocl.DeviceType) ([]ocl.DeviceID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := lookup[*platform](d, uintptr(platformID))
	if !ok {
		return nil, ocl.InvalidPlatform
	}
	var ids []ocl.DeviceID
	for _, dev := range p.devices {
		if typ == ocl.DeviceTypeAll || dev.typ&typ != 0 {
			ids = append(ids, ocl.DeviceID(dev.handle))
		}
	}
	if len(ids) == 0 {
		return nil, ocl.DeviceNotFound
	}
	return ids, ocl.Success
}

// CreateSubDevices implements ocl.Driver. Only equal partitioning is
// supported.
func (d *Driver) CreateSubDevices(deviceID ocl.DeviceID, properties []uint64) ([]ocl.DeviceID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	parent, ok := lookup[*device](d, uintptr(deviceID))
	if !ok {
		return nil, ocl.InvalidDevice
	}
	if len(properties) < 2 || properties[0] != ocl.DevicePartitionEqually {
		return nil, ocl.InvalidValue
	}
	per := uint32(properties[1])
	var parentUnits uint32
	if b, ok := parent.info[ocl.DeviceMaxComputeUnits]; ok {
		parentUnits = *(*uint32)(ptrOf(b))
	}
	if per == 0 || per > parentUnits {
		return nil, ocl.InvalidValue
	}
	count := parentUnits / per
	ids := make([]ocl.DeviceID, count)
	for i := range ids {
		sub := &device{platform: parent.platform, typ: parent.typ, parent: parent, refs: 1}
		sub.info = make(map[uint32][]byte, len(parent.info))
		for k, v := range parent.info {
			sub.info[k] = v
		}
		sub.info[ocl.DeviceMaxComputeUnits] = bytesOf(per)
		sub.info[ocl.DeviceParentDevice] = bytesOf(deviceID)
		sub.info[ocl.DevicePartitionType] = sliceBytes(properties)
		sub.handle = d.newHandle(sub)
		ids[i] = ocl.DeviceID(sub.handle)
	}
	return ids, ocl.Success
}
