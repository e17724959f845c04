//go:build opencl

// Package clcgo binds the ocl.Driver interface to a real OpenCL
// runtime through cgo. It is only compiled with the "opencl" build
// tag, so default builds need no OpenCL headers or library.
package clcgo

/*
#cgo LDFLAGS: -lOpenCL
#cgo darwin LDFLAGS: -framework OpenCL

#define CL_TARGET_OPENCL_VERSION 120
#define CL_USE_DEPRECATED_OPENCL_1_2_APIS

#ifdef __APPLE__
#include <OpenCL/cl.h>
#else
#include <CL/cl.h>
#endif
*/
import "C"

import (
	"unsafe"

	"github.com/goocl/goocl/ocl"
)

// DriverName is the name the cgo driver registers under.
const DriverName = "opencl"

func init() {
	ocl.Register(DriverName, func(config string) (ocl.Driver, error) {
		return &Driver{}, nil
	})
}

// Driver talks to the system OpenCL runtime. It is stateless; all state
// lives in the runtime itself.
type Driver struct{}

var _ ocl.Driver = (*Driver)(nil)

// Name implements ocl.Driver.
func (d *Driver) Name() string { return DriverName }

func status(st C.cl_int) ocl.Status { return ocl.Status(st) }

func clBool(b bool) C.cl_bool {
	if b {
		return C.CL_TRUE
	}
	return C.CL_FALSE
}

func sizeList(values []int) []C.size_t {
	if len(values) == 0 {
		return nil
	}
	out := make([]C.size_t, len(values))
	for i, v := range values {
		out[i] = C.size_t(v)
	}
	return out
}

func sizePtr(values []C.size_t) *C.size_t {
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}

func eventList(wait []ocl.EventID) (C.cl_uint, *C.cl_event) {
	if len(wait) == 0 {
		return 0, nil
	}
	events := make([]C.cl_event, len(wait))
	for i, id := range wait {
		events[i] = C.cl_event(unsafe.Pointer(id))
	}
	return C.cl_uint(len(events)), &events[0]
}

func deviceList(devices []ocl.DeviceID) (C.cl_uint, *C.cl_device_id) {
	if len(devices) == 0 {
		return 0, nil
	}
	ids := make([]C.cl_device_id, len(devices))
	for i, id := range devices {
		ids[i] = C.cl_device_id(unsafe.Pointer(id))
	}
	return C.cl_uint(len(ids)), &ids[0]
}

func propertyList(properties []uint64) *C.cl_ulong {
	if len(properties) == 0 {
		return nil
	}
	out := make([]C.cl_ulong, len(properties))
	for i, p := range properties {
		out[i] = C.cl_ulong(p)
	}
	return &out[0]
}

func bytePtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

// GetPlatformIDs implements ocl.Driver.
func (d *Driver) GetPlatformIDs() ([]ocl.PlatformID, ocl.Status) {
	var count C.cl_uint
	if st := C.clGetPlatformIDs(0, nil, &count); st != C.CL_SUCCESS {
		return nil, status(st)
	}
	if count == 0 {
		return nil, ocl.Success
	}
	platforms := make([]C.cl_platform_id, count)
	if st := C.clGetPlatformIDs(count, &platforms[0], nil); st != C.CL_SUCCESS {
		return nil, status(st)
	}
	out := make([]ocl.PlatformID, count)
	for i, p := range platforms {
		out[i] = ocl.PlatformID(uintptr(unsafe.Pointer(p)))
	}
	return out, ocl.Success
}

// GetDeviceIDs implements ocl.Driver.
func (d *Driver) GetDeviceIDs(platform ocl.PlatformID, typ ocl.DeviceType) ([]ocl.DeviceID, ocl.Status) {
	var count C.cl_uint
	p := C.cl_platform_id(unsafe.Pointer(platform))
	if st := C.clGetDeviceIDs(p, C.cl_device_type(typ), 0, nil, &count); st != C.CL_SUCCESS {
		return nil, status(st)
	}
	devices := make([]C.cl_device_id, count)
	if st := C.clGetDeviceIDs(p, C.cl_device_type(typ), count, &devices[0], nil); st != C.CL_SUCCESS {
		return nil, status(st)
	}
	out := make([]ocl.DeviceID, count)
	for i, dev := range devices {
		out[i] = ocl.DeviceID(uintptr(unsafe.Pointer(dev)))
	}
	return out, ocl.Success
}

// CreateSubDevices implements ocl.Driver.
func (d *Driver) CreateSubDevices(device ocl.DeviceID, properties []uint64) ([]ocl.DeviceID, ocl.Status) {
	props := make([]C.cl_device_partition_property, len(properties)+1)
	for i, p := range properties {
		props[i] = C.cl_device_partition_property(p)
	}
	dev := C.cl_device_id(unsafe.Pointer(device))
	var count C.cl_uint
	if st := C.clCreateSubDevices(dev, &props[0], 0, nil, &count); st != C.CL_SUCCESS {
		return nil, status(st)
	}
	subs := make([]C.cl_device_id, count)
	if st := C.clCreateSubDevices(dev, &props[0], count, &subs[0], nil); st != C.CL_SUCCESS {
		return nil, status(st)
	}
	out := make([]ocl.DeviceID, count)
	for i, sub := range subs {
		out[i] = ocl.DeviceID(uintptr(unsafe.Pointer(sub)))
	}
	return out, ocl.Success
}

// Retain implements ocl.Driver.
func (d *Driver) Retain(kind ocl.ObjectKind, handle uintptr) ocl.Status {
	p := unsafe.Pointer(handle)
	switch kind {
	case ocl.KindPlatform:
		return ocl.Success
	case ocl.KindDevice:
		return status(C.clRetainDevice(C.cl_device_id(p)))
	case ocl.KindContext:
		return status(C.clRetainContext(C.cl_context(p)))
	case ocl.KindQueue:
		return status(C.clRetainCommandQueue(C.cl_command_queue(p)))
	case ocl.KindBuffer, ocl.KindImage:
		return status(C.clRetainMemObject(C.cl_mem(p)))
	case ocl.KindSampler:
		return status(C.clRetainSampler(C.cl_sampler(p)))
	case ocl.KindProgram:
		return status(C.clRetainProgram(C.cl_program(p)))
	case ocl.KindKernel:
		return status(C.clRetainKernel(C.cl_kernel(p)))
	case ocl.KindEvent:
		return status(C.clRetainEvent(C.cl_event(p)))
	}
	return ocl.InvalidValue
}

// Release implements ocl.Driver.
func (d *Driver) Release(kind ocl.ObjectKind, handle uintptr) ocl.Status {
	p := unsafe.Pointer(handle)
	switch kind {
	case ocl.KindPlatform:
		return ocl.Success
	case ocl.KindDevice:
		return status(C.clReleaseDevice(C.cl_device_id(p)))
	case ocl.KindContext:
		return status(C.clReleaseContext(C.cl_context(p)))
	case ocl.KindQueue:
		return status(C.clReleaseCommandQueue(C.cl_command_queue(p)))
	case ocl.KindBuffer, ocl.KindImage:
		return status(C.clReleaseMemObject(C.cl_mem(p)))
	case ocl.KindSampler:
		return status(C.clReleaseSampler(C.cl_sampler(p)))
	case ocl.KindProgram:
		return status(C.clReleaseProgram(C.cl_program(p)))
	case ocl.KindKernel:
		return status(C.clReleaseKernel(C.cl_kernel(p)))
	case ocl.KindEvent:
		return status(C.clReleaseEvent(C.cl_event(p)))
	}
	return ocl.InvalidValue
}

// CreateContext implements ocl.Driver.
func (d *Driver) CreateContext(properties []uint64, devices []ocl.DeviceID) (ocl.ContextID, ocl.Status) {
	numDevices, devPtr := deviceList(devices)
	var props *C.cl_context_properties
	if len(properties) > 0 {
		list := make([]C.cl_context_properties, len(properties))
		for i, p := range properties {
			list[i] = C.cl_context_properties(p)
		}
		props = &list[0]
	}
	var st C.cl_int
	ctx := C.clCreateContext(props, numDevices, devPtr, nil, nil, &st)
	return ocl.ContextID(uintptr(unsafe.Pointer(ctx))), status(st)
}

// CreateQueue implements ocl.Driver.
func (d *Driver) CreateQueue(context ocl.ContextID, device ocl.DeviceID, properties ocl.QueueProperties) (ocl.QueueID, ocl.Status) {
	var st C.cl_int
	q := C.clCreateCommandQueue(
		C.cl_context(unsafe.Pointer(context)),
		C.cl_device_id(unsafe.Pointer(device)),
		C.cl_command_queue_properties(properties), &st)
	return ocl.QueueID(uintptr(unsafe.Pointer(q))), status(st)
}

// CreateBuffer implements ocl.Driver.
func (d *Driver) CreateBuffer(context ocl.ContextID, flags ocl.MemFlags, size int, host []byte) (ocl.MemID, ocl.Status) {
	var st C.cl_int
	mem := C.clCreateBuffer(
		C.cl_context(unsafe.Pointer(context)),
		C.cl_mem_flags(flags), C.size_t(size), bytePtr(host), &st)
	return ocl.MemID(uintptr(unsafe.Pointer(mem))), status(st)
}

// CreateSubBuffer implements ocl.Driver.
func (d *Driver) CreateSubBuffer(buffer ocl.MemID, flags ocl.MemFlags, origin, size int) (ocl.MemID, ocl.Status) {
	region := C.cl_buffer_region{origin: C.size_t(origin), size: C.size_t(size)}
	var st C.cl_int
	mem := C.clCreateSubBuffer(
		C.cl_mem(unsafe.Pointer(buffer)), C.cl_mem_flags(flags),
		C.CL_BUFFER_CREATE_TYPE_REGION, unsafe.Pointer(&region), &st)
	return ocl.MemID(uintptr(unsafe.Pointer(mem))), status(st)
}

// CreateImage implements ocl.Driver.
func (d *Driver) CreateImage(context ocl.ContextID, flags ocl.MemFlags, format ocl.ImageFormat, desc ocl.ImageDesc, host []byte) (ocl.MemID, ocl.Status) {
	cFormat := C.cl_image_format{
		image_channel_order:     C.cl_channel_order(format.ChannelOrder),
		image_channel_data_type: C.cl_channel_type(format.ChannelType),
	}
	cDesc := C.cl_image_desc{
		image_type:        C.cl_mem_object_type(desc.Type),
		image_width:       C.size_t(desc.Width),
		image_height:      C.size_t(desc.Height),
		image_depth:       C.size_t(desc.Depth),
		image_array_size:  C.size_t(desc.ArraySize),
		image_row_pitch:   C.size_t(desc.RowPitch),
		image_slice_pitch: C.size_t(desc.SlicePitch),
	}
	if desc.Buffer != 0 {
		*(*C.cl_mem)(unsafe.Pointer(&cDesc.anon0)) = C.cl_mem(unsafe.Pointer(desc.Buffer))
	}
	var st C.cl_int
	mem := C.clCreateImage(
		C.cl_context(unsafe.Pointer(context)), C.cl_mem_flags(flags),
		&cFormat, &cDesc, bytePtr(host), &st)
	return ocl.MemID(uintptr(unsafe.Pointer(mem))), status(st)
}

// GetSupportedImageFormats implements ocl.Driver.
func (d *Driver) GetSupportedImageFormats(context ocl.ContextID, flags ocl.MemFlags, imageType ocl.MemObjectType) ([]ocl.ImageFormat, ocl.Status) {
	ctx := C.cl_context(unsafe.Pointer(context))
	var count C.cl_uint
	st := C.clGetSupportedImageFormats(ctx, C.cl_mem_flags(flags),
		C.cl_mem_object_type(imageType), 0, nil, &count)
	if st != C.CL_SUCCESS {
		return nil, status(st)
	}
	if count == 0 {
		return nil, ocl.Success
	}
	formats := make([]C.cl_image_format, count)
	st = C.clGetSupportedImageFormats(ctx, C.cl_mem_flags(flags),
		C.cl_mem_object_type(imageType), count, &formats[0], nil)
	if st != C.CL_SUCCESS {
		return nil, status(st)
	}
	out := make([]ocl.ImageFormat, count)
	for i, f := range formats {
		out[i] = ocl.ImageFormat{
			ChannelOrder: uint32(f.image_channel_order),
			ChannelType:  uint32(f.image_channel_data_type),
		}
	}
	return out, ocl.Success
}

// CreateSampler implements ocl.Driver.
func (d *Driver) CreateSampler(context ocl.ContextID, normalizedCoords bool, addressingMode ocl.AddressingMode, filterMode ocl.FilterMode) (ocl.SamplerID, ocl.Status) {
	var st C.cl_int
	s := C.clCreateSampler(
		C.cl_context(unsafe.Pointer(context)), clBool(normalizedCoords),
		C.cl_addressing_mode(addressingMode), C.cl_filter_mode(filterMode), &st)
	return ocl.SamplerID(uintptr(unsafe.Pointer(s))), status(st)
}

// CreateSamplerWithProperties implements ocl.Driver. OpenCL 1.2 exposes
// no properties-list constructor, so the list is decoded and forwarded
// to CreateSampler.
func (d *Driver) CreateSamplerWithProperties(context ocl.ContextID, properties []uint64) (ocl.SamplerID, ocl.Status) {
	normalized := true
	addressing := ocl.AddressClamp
	filter := ocl.FilterNearest
	for i := 0; i+1 < len(properties) && properties[i] != 0; i += 2 {
		switch uint32(properties[i]) {
		case ocl.SamplerNormalizedCoords:
			normalized = properties[i+1] != 0
		case ocl.SamplerAddressingInfo:
			addressing = ocl.AddressingMode(properties[i+1])
		case ocl.SamplerFilterInfo:
			filter = ocl.FilterMode(properties[i+1])
		default:
			return 0, ocl.InvalidValue
		}
	}
	return d.CreateSampler(context, normalized, addressing, filter)
}

// CreateProgramWithSource implements ocl.Driver.
func (d *Driver) CreateProgramWithSource(context ocl.ContextID, sources []string) (ocl.ProgramID, ocl.Status) {
	cSources := make([]*C.char, len(sources))
	lengths := make([]C.size_t, len(sources))
	for i, src := range sources {
		cSources[i] = C.CString(src)
		lengths[i] = C.size_t(len(src))
	}
	defer func() {
		for _, cs := range cSources {
			C.free(unsafe.Pointer(cs))
		}
	}()
	var st C.cl_int
	p := C.clCreateProgramWithSource(
		C.cl_context(unsafe.Pointer(context)),
		C.cl_uint(len(sources)), &cSources[0], &lengths[0], &st)
	return ocl.ProgramID(uintptr(unsafe.Pointer(p))), status(st)
}

// CreateProgramWithBinary implements ocl.Driver.
func (d *Driver) CreateProgramWithBinary(context ocl.ContextID, devices []ocl.DeviceID, binaries [][]byte) (ocl.ProgramID, []ocl.Status, ocl.Status) {
	numDevices, devPtr := deviceList(devices)
	lengths := make([]C.size_t, len(binaries))
	pointers := make([]*C.uchar, len(binaries))
	for i, bin := range binaries {
		lengths[i] = C.size_t(len(bin))
		if len(bin) > 0 {
			pointers[i] = (*C.uchar)(unsafe.Pointer(&bin[0]))
		}
	}
	deviceStatus := make([]C.cl_int, len(devices))
	var st C.cl_int
	p := C.clCreateProgramWithBinary(
		C.cl_context(unsafe.Pointer(context)), numDevices, devPtr,
		&lengths[0], &pointers[0], &deviceStatus[0], &st)
	out := make([]ocl.Status, len(deviceStatus))
	for i, ds := range deviceStatus {
		out[i] = status(ds)
	}
	return ocl.ProgramID(uintptr(unsafe.Pointer(p))), out, status(st)
}

// BuildProgram implements ocl.Driver. Asynchronous builds run the
// blocking call on a separate goroutine and invoke notify when it
// returns.
func (d *Driver) BuildProgram(program ocl.ProgramID, devices []ocl.DeviceID, options string, notify func(ocl.ProgramID)) ocl.Status {
	build := func() ocl.Status {
		numDevices, devPtr := deviceList(devices)
		cOptions := C.CString(options)
		defer C.free(unsafe.Pointer(cOptions))
		return status(C.clBuildProgram(
			C.cl_program(unsafe.Pointer(program)),
			numDevices, devPtr, cOptions, nil, nil))
	}
	if notify == nil {
		return build()
	}
	go func() {
		build()
		notify(program)
	}()
	return ocl.Success
}

// CompileProgram implements ocl.Driver.
func (d *Driver) CompileProgram(program ocl.ProgramID, devices []ocl.DeviceID, options string, headers []ocl.ProgramID, headerNames []string, notify func(ocl.ProgramID)) ocl.Status {
	compile := func() ocl.Status {
		numDevices, devPtr := deviceList(devices)
		cOptions := C.CString(options)
		defer C.free(unsafe.Pointer(cOptions))
		var headerPtr *C.cl_program
		var namePtr **C.char
		cHeaders := make([]C.cl_program, len(headers))
		cNames := make([]*C.char, len(headerNames))
		for i, h := range headers {
			cHeaders[i] = C.cl_program(unsafe.Pointer(h))
		}
		for i, name := range headerNames {
			cNames[i] = C.CString(name)
		}
		defer func() {
			for _, cn := range cNames {
				C.free(unsafe.Pointer(cn))
			}
		}()
		if len(headers) > 0 {
			headerPtr = &cHeaders[0]
			namePtr = &cNames[0]
		}
		return status(C.clCompileProgram(
			C.cl_program(unsafe.Pointer(program)),
			numDevices, devPtr, cOptions,
			C.cl_uint(len(headers)), headerPtr, namePtr, nil, nil))
	}
	if notify == nil {
		return compile()
	}
	go func() {
		compile()
		notify(program)
	}()
	return ocl.Success
}

// LinkProgram implements ocl.Driver. Linking always runs synchronously;
// a non-nil notify is invoked before returning.
func (d *Driver) LinkProgram(context ocl.ContextID, devices []ocl.DeviceID, options string, programs []ocl.ProgramID, notify func(ocl.ProgramID)) (ocl.ProgramID, ocl.Status) {
	numDevices, devPtr := deviceList(devices)
	cOptions := C.CString(options)
	defer C.free(unsafe.Pointer(cOptions))
	cPrograms := make([]C.cl_program, len(programs))
	for i, p := range programs {
		cPrograms[i] = C.cl_program(unsafe.Pointer(p))
	}
	var st C.cl_int
	linked := C.clLinkProgram(
		C.cl_context(unsafe.Pointer(context)), numDevices, devPtr,
		cOptions, C.cl_uint(len(programs)), &cPrograms[0], nil, nil, &st)
	id := ocl.ProgramID(uintptr(unsafe.Pointer(linked)))
	if notify != nil {
		notify(id)
	}
	return id, status(st)
}

// CreateKernel implements ocl.Driver.
func (d *Driver) CreateKernel(program ocl.ProgramID, name string) (ocl.KernelID, ocl.Status) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	var st C.cl_int
	k := C.clCreateKernel(C.cl_program(unsafe.Pointer(program)), cName, &st)
	return ocl.KernelID(uintptr(unsafe.Pointer(k))), status(st)
}

// CreateKernelsInProgram implements ocl.Driver.
func (d *Driver) CreateKernelsInProgram(program ocl.ProgramID) ([]ocl.KernelID, ocl.Status) {
	p := C.cl_program(unsafe.Pointer(program))
	var count C.cl_uint
	if st := C.clCreateKernelsInProgram(p, 0, nil, &count); st != C.CL_SUCCESS {
		return nil, status(st)
	}
	kernels := make([]C.cl_kernel, count)
	if st := C.clCreateKernelsInProgram(p, count, &kernels[0], nil); st != C.CL_SUCCESS {
		return nil, status(st)
	}
	out := make([]ocl.KernelID, count)
	for i, k := range kernels {
		out[i] = ocl.KernelID(uintptr(unsafe.Pointer(k)))
	}
	return out, ocl.Success
}

// SetKernelArg implements ocl.Driver.
func (d *Driver) SetKernelArg(kernel ocl.KernelID, index uint32, size int, value []byte) ocl.Status {
	return status(C.clSetKernelArg(
		C.cl_kernel(unsafe.Pointer(kernel)),
		C.cl_uint(index), C.size_t(size), bytePtr(value)))
}

// EnqueueNDRangeKernel implements ocl.Driver.
func (d *Driver) EnqueueNDRangeKernel(queue ocl.QueueID, kernel ocl.KernelID, globalOffset, globalSize, localSize []int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	var e C.cl_event
	st := C.clEnqueueNDRangeKernel(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_kernel(unsafe.Pointer(kernel)),
		C.cl_uint(len(globalSize)),
		sizePtr(sizeList(globalOffset)),
		sizePtr(sizeList(globalSize)),
		sizePtr(sizeList(localSize)),
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueNativeKernel implements ocl.Driver. Go functions cannot cross
// the cgo boundary as native kernel entry points, so the cgo driver
// reports the operation as unsupported.
func (d *Driver) EnqueueNativeKernel(queue ocl.QueueID, fn func(args []byte), args []byte, mems []ocl.MemID, offsets []int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	return 0, ocl.InvalidOperation
}

// Flush implements ocl.Driver.
func (d *Driver) Flush(queue ocl.QueueID) ocl.Status {
	return status(C.clFlush(C.cl_command_queue(unsafe.Pointer(queue))))
}

// Finish implements ocl.Driver.
func (d *Driver) Finish(queue ocl.QueueID) ocl.Status {
	return status(C.clFinish(C.cl_command_queue(unsafe.Pointer(queue))))
}

// WaitForEvents implements ocl.Driver.
func (d *Driver) WaitForEvents(events []ocl.EventID) ocl.Status {
	numEvents, eventPtr := eventList(events)
	return status(C.clWaitForEvents(numEvents, eventPtr))
}

// CreateUserEvent implements ocl.Driver.
func (d *Driver) CreateUserEvent(context ocl.ContextID) (ocl.EventID, ocl.Status) {
	var st C.cl_int
	e := C.clCreateUserEvent(C.cl_context(unsafe.Pointer(context)), &st)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// SetUserEventStatus implements ocl.Driver.
func (d *Driver) SetUserEventStatus(event ocl.EventID, st int32) ocl.Status {
	return status(C.clSetUserEventStatus(
		C.cl_event(unsafe.Pointer(event)), C.cl_int(st)))
}
