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
#include <stdint.h>

extern void goEventCallback(cl_event event, cl_int status, void *user_data);
extern void goMemDestructor(cl_mem mem, void *user_data);

static void CL_CALLBACK goocl_event_cb(cl_event e, cl_int status, void *user_data) {
	goEventCallback(e, status, user_data);
}

static void CL_CALLBACK goocl_mem_destructor_cb(cl_mem m, void *user_data) {
	goMemDestructor(m, user_data);
}

static cl_int goocl_set_event_callback(cl_event e, cl_int type, uintptr_t handle) {
	return clSetEventCallback(e, type, goocl_event_cb, (void *)handle);
}

static cl_int goocl_set_mem_destructor(cl_mem m, uintptr_t handle) {
	return clSetMemObjectDestructorCallback(m, goocl_mem_destructor_cb, (void *)handle);
}
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/goocl/goocl/ocl"
)

// SetEventCallback implements ocl.Driver. The callback function is held
// through a cgo handle released when the callback fires.
func (d *Driver) SetEventCallback(event ocl.EventID, callbackType int32, fn func(ocl.EventID, int32)) ocl.Status {
	if fn == nil {
		return ocl.InvalidValue
	}
	h := cgo.NewHandle(fn)
	st := status(C.goocl_set_event_callback(
		C.cl_event(unsafe.Pointer(event)), C.cl_int(callbackType), C.uintptr_t(h)))
	if st != ocl.Success {
		h.Delete()
	}
	return st
}

// SetMemDestructorCallback implements ocl.Driver.
func (d *Driver) SetMemDestructorCallback(mem ocl.MemID, fn func()) ocl.Status {
	if fn == nil {
		return ocl.InvalidValue
	}
	h := cgo.NewHandle(fn)
	st := status(C.goocl_set_mem_destructor(
		C.cl_mem(unsafe.Pointer(mem)), C.uintptr_t(h)))
	if st != ocl.Success {
		h.Delete()
	}
	return st
}
