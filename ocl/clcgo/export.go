//go:build opencl

package clcgo

/*
#define CL_TARGET_OPENCL_VERSION 120

#ifdef __APPLE__
#include <OpenCL/cl.h>
#else
#include <CL/cl.h>
#endif
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/goocl/goocl/ocl"
)

//export goEventCallback
func goEventCallback(event C.cl_event, st C.cl_int, userData unsafe.Pointer) {
	h := cgo.Handle(uintptr(userData))
	fn := h.Value().(func(ocl.EventID, int32))
	h.Delete()
	fn(ocl.EventID(uintptr(unsafe.Pointer(event))), int32(st))
}

//export goMemDestructor
func goMemDestructor(mem C.cl_mem, userData unsafe.Pointer) {
	h := cgo.Handle(uintptr(userData))
	fn := h.Value().(func())
	h.Delete()
	fn()
}
