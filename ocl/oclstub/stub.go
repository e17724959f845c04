// Package oclstub provides a self-contained in-memory ocl.Driver with
// one platform hosting a CPU and a GPU device. It executes every
// command synchronously on the host and stamps events from a virtual
// clock, so code built on the wrapper layer (including its profiling)
// runs and can be tested on machines without an OpenCL runtime.
//
// Kernels have no compiler; named Go functions registered through
// RegisterKernel supply the kernel behavior instead.
package oclstub

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/goocl/goocl/ocl"
)

// DriverName is the name the stub registers under.
const DriverName = "stub"

func init() {
	ocl.Register(DriverName, func(config string) (ocl.Driver, error) {
		return New(), nil
	})
}

// Driver is an in-memory OpenCL runtime. All methods are safe for
// concurrent use.
type Driver struct {
	mu      sync.Mutex
	handles uintptr
	objects map[uintptr]any

	platform *platform

	// clock is the virtual device timer in nanoseconds. Every command
	// advances it a little at enqueue, while execution windows run on
	// per-queue timelines, so commands on different queues overlap.
	clock uint64

	kernelFuncs map[string]registeredKernel

	infoCalls atomic.Int64
}

var _ ocl.Driver = (*Driver)(nil)

type registeredKernel struct {
	numArgs uint32
	fn      KernelFunc
}

// New creates a fresh stub runtime with its own object space.
func New() *Driver {
	d := &Driver{
		objects:     make(map[uintptr]any),
		kernelFuncs: make(map[string]registeredKernel),
	}
	d.platform = d.newPlatform()
	return d
}

// Name implements ocl.Driver.
func (d *Driver) Name() string { return DriverName }

// InfoCalls returns how many GetInfo round-trips (size and value
// queries both count) the runtime has served. Test helper for
// observing caching behavior.
func (d *Driver) InfoCalls() int64 { return d.infoCalls.Load() }

// Arg is one bound kernel argument as seen by a registered kernel
// function.
type Arg struct {
	// Global is the storage of the memory object bound to the argument,
	// nil for private and local arguments. Writes land directly in the
	// object.
	Global []byte
	// Value holds the raw bytes of a private argument.
	Value []byte
	// LocalSize is the byte size of a local-memory reservation.
	LocalSize int
}

// KernelFunc is the host implementation of a stub kernel. It receives
// the bound arguments and the launch geometry and must perform the
// whole NDRange itself.
type KernelFunc func(args []Arg, globalOffset, globalSize []int)

// RegisterKernel declares a kernel by function name. numArgs is what
// kernel introspection will report. Programs whose source mentions the
// name can create the kernel and launching it runs fn.
func (d *Driver) RegisterKernel(name string, numArgs uint32, fn KernelFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.kernelFuncs[name] = registeredKernel{numArgs: numArgs, fn: fn}
}

// newHandle allocates a process-unique nonzero handle. Callers hold mu.
func (d *Driver) newHandle(obj any) uintptr {
	d.handles++
	h := d.handles
	d.objects[h] = obj
	return h
}

func lookup[T any](d *Driver, handle uintptr) (T, bool) {
	obj, ok := d.objects[handle].(T)
	return obj, ok
}

// tick advances the virtual clock and returns the new value. Callers
// hold mu.
func (d *Driver) tick(ns uint64) uint64 {
	d.clock += ns
	return d.clock
}

func bytesOf[T any](value T) []byte {
	size := int(unsafe.Sizeof(value))
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&value)), size))
	return out
}

func sliceBytes[T any](values []T) []byte {
	if len(values) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(values[0])) * len(values)
	return append([]byte(nil), unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), size)...)
}

func stringBytes(s string) []byte {
	return append([]byte(s), 0)
}

func ptrOf(b []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b))
}
