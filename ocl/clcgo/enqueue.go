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
*/
import "C"

import (
	"unsafe"

	"github.com/goocl/goocl/ocl"
)

func origin3(o [3]int) [3]C.size_t {
	return [3]C.size_t{C.size_t(o[0]), C.size_t(o[1]), C.size_t(o[2])}
}

// EnqueueReadBuffer implements ocl.Driver.
func (d *Driver) EnqueueReadBuffer(queue ocl.QueueID, buffer ocl.MemID, blocking bool, offset int, dst []byte, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	var e C.cl_event
	st := C.clEnqueueReadBuffer(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(buffer)), clBool(blocking),
		C.size_t(offset), C.size_t(len(dst)), bytePtr(dst),
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueWriteBuffer implements ocl.Driver.
func (d *Driver) EnqueueWriteBuffer(queue ocl.QueueID, buffer ocl.MemID, blocking bool, offset int, src []byte, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	var e C.cl_event
	st := C.clEnqueueWriteBuffer(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(buffer)), clBool(blocking),
		C.size_t(offset), C.size_t(len(src)), bytePtr(src),
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueCopyBuffer implements ocl.Driver.
func (d *Driver) EnqueueCopyBuffer(queue ocl.QueueID, src, dst ocl.MemID, srcOffset, dstOffset, size int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	var e C.cl_event
	st := C.clEnqueueCopyBuffer(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(src)), C.cl_mem(unsafe.Pointer(dst)),
		C.size_t(srcOffset), C.size_t(dstOffset), C.size_t(size),
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueFillBuffer implements ocl.Driver.
func (d *Driver) EnqueueFillBuffer(queue ocl.QueueID, buffer ocl.MemID, pattern []byte, offset, size int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	var e C.cl_event
	st := C.clEnqueueFillBuffer(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(buffer)),
		bytePtr(pattern), C.size_t(len(pattern)),
		C.size_t(offset), C.size_t(size),
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueMapBuffer implements ocl.Driver.
func (d *Driver) EnqueueMapBuffer(queue ocl.QueueID, buffer ocl.MemID, blocking bool, flags ocl.MapFlags, offset, size int, wait []ocl.EventID) ([]byte, ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	var e C.cl_event
	var st C.cl_int
	ptr := C.clEnqueueMapBuffer(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(buffer)), clBool(blocking),
		C.cl_map_flags(flags), C.size_t(offset), C.size_t(size),
		numWait, waitPtr, &e, &st)
	if st != C.CL_SUCCESS {
		return nil, 0, status(st)
	}
	mapped := unsafe.Slice((*byte)(ptr), size)
	return mapped, ocl.EventID(uintptr(unsafe.Pointer(e))), ocl.Success
}

// EnqueueUnmapMemObject implements ocl.Driver.
func (d *Driver) EnqueueUnmapMemObject(queue ocl.QueueID, mem ocl.MemID, mapped []byte, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	var e C.cl_event
	st := C.clEnqueueUnmapMemObject(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(mem)), bytePtr(mapped),
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueMigrateMemObjects implements ocl.Driver.
func (d *Driver) EnqueueMigrateMemObjects(queue ocl.QueueID, mems []ocl.MemID, flags ocl.MemMigrationFlags, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	var memPtr *C.cl_mem
	cMems := make([]C.cl_mem, len(mems))
	for i, m := range mems {
		cMems[i] = C.cl_mem(unsafe.Pointer(m))
	}
	if len(cMems) > 0 {
		memPtr = &cMems[0]
	}
	var e C.cl_event
	st := C.clEnqueueMigrateMemObjects(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_uint(len(mems)), memPtr,
		C.cl_mem_migration_flags(flags),
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueReadImage implements ocl.Driver.
func (d *Driver) EnqueueReadImage(queue ocl.QueueID, image ocl.MemID, blocking bool, origin, region [3]int, rowPitch, slicePitch int, dst []byte, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	cOrigin, cRegion := origin3(origin), origin3(region)
	var e C.cl_event
	st := C.clEnqueueReadImage(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(image)), clBool(blocking),
		&cOrigin[0], &cRegion[0],
		C.size_t(rowPitch), C.size_t(slicePitch), bytePtr(dst),
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueWriteImage implements ocl.Driver.
func (d *Driver) EnqueueWriteImage(queue ocl.QueueID, image ocl.MemID, blocking bool, origin, region [3]int, rowPitch, slicePitch int, src []byte, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	cOrigin, cRegion := origin3(origin), origin3(region)
	var e C.cl_event
	st := C.clEnqueueWriteImage(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(image)), clBool(blocking),
		&cOrigin[0], &cRegion[0],
		C.size_t(rowPitch), C.size_t(slicePitch), bytePtr(src),
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueCopyImage implements ocl.Driver.
func (d *Driver) EnqueueCopyImage(queue ocl.QueueID, src, dst ocl.MemID, srcOrigin, dstOrigin, region [3]int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	cSrc, cDst, cRegion := origin3(srcOrigin), origin3(dstOrigin), origin3(region)
	var e C.cl_event
	st := C.clEnqueueCopyImage(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(src)), C.cl_mem(unsafe.Pointer(dst)),
		&cSrc[0], &cDst[0], &cRegion[0],
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueFillImage implements ocl.Driver.
func (d *Driver) EnqueueFillImage(queue ocl.QueueID, image ocl.MemID, color []byte, origin, region [3]int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	cOrigin, cRegion := origin3(origin), origin3(region)
	var e C.cl_event
	st := C.clEnqueueFillImage(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(image)), bytePtr(color),
		&cOrigin[0], &cRegion[0],
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueCopyImageToBuffer implements ocl.Driver.
func (d *Driver) EnqueueCopyImageToBuffer(queue ocl.QueueID, src, dst ocl.MemID, srcOrigin, region [3]int, dstOffset int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	cOrigin, cRegion := origin3(srcOrigin), origin3(region)
	var e C.cl_event
	st := C.clEnqueueCopyImageToBuffer(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(src)), C.cl_mem(unsafe.Pointer(dst)),
		&cOrigin[0], &cRegion[0], C.size_t(dstOffset),
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueCopyBufferToImage implements ocl.Driver.
func (d *Driver) EnqueueCopyBufferToImage(queue ocl.QueueID, src, dst ocl.MemID, srcOffset int, dstOrigin, region [3]int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	cOrigin, cRegion := origin3(dstOrigin), origin3(region)
	var e C.cl_event
	st := C.clEnqueueCopyBufferToImage(
		C.cl_command_queue(unsafe.Pointer(queue)),
		C.cl_mem(unsafe.Pointer(src)), C.cl_mem(unsafe.Pointer(dst)),
		C.size_t(srcOffset), &cOrigin[0], &cRegion[0],
		numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueMarker implements ocl.Driver.
func (d *Driver) EnqueueMarker(queue ocl.QueueID, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	var e C.cl_event
	st := C.clEnqueueMarkerWithWaitList(
		C.cl_command_queue(unsafe.Pointer(queue)), numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}

// EnqueueBarrier implements ocl.Driver.
func (d *Driver) EnqueueBarrier(queue ocl.QueueID, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	numWait, waitPtr := eventList(wait)
	var e C.cl_event
	st := C.clEnqueueBarrierWithWaitList(
		C.cl_command_queue(unsafe.Pointer(queue)), numWait, waitPtr, &e)
	return ocl.EventID(uintptr(unsafe.Pointer(e))), status(st)
}
