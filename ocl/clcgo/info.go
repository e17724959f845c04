//go:build opencl

package clcgo

/*
#define CL_TARGET_OPENCL_VERSION 120
#define CL_USE_DEPRECATED_OPENCL_1_2_APIS

#ifdef __APPLE__
#include <OpenCL/cl.h>
#else
#include <CL/cl.h>
#endif
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/goocl/goocl/ocl"
)

// GetInfo implements ocl.Driver.
func (d *Driver) GetInfo(target ocl.InfoTarget, object, aux uintptr, param uint32, value []byte) (int, ocl.Status) {
	if target == ocl.InfoProgram && param == ocl.ProgramBinariesInfo {
		return d.programBinaries(object, value)
	}
	var ptr unsafe.Pointer
	var n C.size_t
	if len(value) > 0 {
		ptr = unsafe.Pointer(&value[0])
		n = C.size_t(len(value))
	}
	obj := unsafe.Pointer(object)
	var size C.size_t
	var st C.cl_int
	switch target {
	case ocl.InfoPlatform:
		st = C.clGetPlatformInfo(C.cl_platform_id(obj), C.cl_platform_info(param), n, ptr, &size)
	case ocl.InfoDevice:
		st = C.clGetDeviceInfo(C.cl_device_id(obj), C.cl_device_info(param), n, ptr, &size)
	case ocl.InfoContext:
		st = C.clGetContextInfo(C.cl_context(obj), C.cl_context_info(param), n, ptr, &size)
	case ocl.InfoQueue:
		st = C.clGetCommandQueueInfo(C.cl_command_queue(obj), C.cl_command_queue_info(param), n, ptr, &size)
	case ocl.InfoMem:
		st = C.clGetMemObjectInfo(C.cl_mem(obj), C.cl_mem_info(param), n, ptr, &size)
	case ocl.InfoImage:
		st = C.clGetImageInfo(C.cl_mem(obj), C.cl_image_info(param), n, ptr, &size)
	case ocl.InfoSampler:
		st = C.clGetSamplerInfo(C.cl_sampler(obj), C.cl_sampler_info(param), n, ptr, &size)
	case ocl.InfoProgram:
		st = C.clGetProgramInfo(C.cl_program(obj), C.cl_program_info(param), n, ptr, &size)
	case ocl.InfoProgramBuild:
		st = C.clGetProgramBuildInfo(C.cl_program(obj), C.cl_device_id(unsafe.Pointer(aux)),
			C.cl_program_build_info(param), n, ptr, &size)
	case ocl.InfoKernel:
		st = C.clGetKernelInfo(C.cl_kernel(obj), C.cl_kernel_info(param), n, ptr, &size)
	case ocl.InfoKernelArg:
		st = C.clGetKernelArgInfo(C.cl_kernel(obj), C.cl_uint(aux),
			C.cl_kernel_arg_info(param), n, ptr, &size)
	case ocl.InfoKernelWorkGroup:
		st = C.clGetKernelWorkGroupInfo(C.cl_kernel(obj), C.cl_device_id(unsafe.Pointer(aux)),
			C.cl_kernel_work_group_info(param), n, ptr, &size)
	case ocl.InfoEvent:
		st = C.clGetEventInfo(C.cl_event(obj), C.cl_event_info(param), n, ptr, &size)
	case ocl.InfoEventProfiling:
		st = C.clGetEventProfilingInfo(C.cl_event(obj), C.cl_profiling_info(param), n, ptr, &size)
	default:
		return 0, ocl.InvalidValue
	}
	return int(size), status(st)
}

// programBinaries answers program binary queries as one byte slice of
// the per-device binaries concatenated in device order, the layout the
// wrapper layer splits with the binary-sizes query.
func (d *Driver) programBinaries(object uintptr, value []byte) (int, ocl.Status) {
	p := C.cl_program(unsafe.Pointer(object))
	var sizesLen C.size_t
	if st := C.clGetProgramInfo(p, C.CL_PROGRAM_BINARY_SIZES, 0, nil, &sizesLen); st != C.CL_SUCCESS {
		return 0, status(st)
	}
	count := int(sizesLen) / int(unsafe.Sizeof(C.size_t(0)))
	if count == 0 {
		return 0, ocl.Success
	}
	sizes := make([]C.size_t, count)
	if st := C.clGetProgramInfo(p, C.CL_PROGRAM_BINARY_SIZES, sizesLen,
		unsafe.Pointer(&sizes[0]), nil); st != C.CL_SUCCESS {
		return 0, status(st)
	}
	total := 0
	for _, s := range sizes {
		total += int(s)
	}
	if value == nil {
		return total, ocl.Success
	}
	if len(value) < total {
		return 0, ocl.InvalidValue
	}
	// The binaries query fills an array of per-device pointers, so the
	// buffers and the pointer table itself must live in C memory.
	ptrBytes := C.size_t(count) * C.size_t(unsafe.Sizeof(uintptr(0)))
	table := (*unsafe.Pointer)(C.malloc(ptrBytes))
	defer C.free(unsafe.Pointer(table))
	ptrs := unsafe.Slice(table, count)
	for i, s := range sizes {
		ptrs[i] = nil
		if s > 0 {
			ptrs[i] = C.malloc(s)
		}
	}
	defer func() {
		for _, p := range ptrs {
			if p != nil {
				C.free(p)
			}
		}
	}()
	if st := C.clGetProgramInfo(p, C.CL_PROGRAM_BINARIES, ptrBytes,
		unsafe.Pointer(table), nil); st != C.CL_SUCCESS {
		return 0, status(st)
	}
	offset := 0
	for i, s := range sizes {
		if s == 0 {
			continue
		}
		copy(value[offset:], unsafe.Slice((*byte)(ptrs[i]), int(s)))
		offset += int(s)
	}
	return total, ocl.Success
}
