package goocl

import (
	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

// Kernel wraps an OpenCL kernel object. Argument binding mutates kernel
// state, so a kernel must not be enqueued concurrently while its
// arguments change; give each goroutine its own kernel via
// Program.NewKernel when in doubt.
type Kernel struct {
	*core
}

// WrapKernel wraps an existing kernel handle. If the handle is already
// wrapped the same wrapper is returned with its reference count
// incremented.
func WrapKernel(id ocl.KernelID) *Kernel {
	return wrapHandle(ocl.KindKernel, uintptr(id), func(c *core) *Kernel {
		return &Kernel{core: c}
	})
}

// ID returns the native kernel handle.
func (k *Kernel) ID() ocl.KernelID { return ocl.KernelID(k.handle) }

// Release decrements the reference count, releasing the native kernel at
// zero.
func (k *Kernel) Release() error {
	_, err := k.unref(nil, driverRelease(ocl.KindKernel))
	return err
}

// SetArg binds one argument by index.
func (k *Kernel) SetArg(index uint32, arg *Arg) error {
	if arg == nil || arg == SkipArg {
		return errors.WithMessagef(ErrInvalidArgument, "binding argument %d without a value", index)
	}
	if st := drv().SetKernelArg(k.ID(), index, arg.size, arg.bytes); !st.Ok() {
		return apiError("setting kernel argument", st)
	}
	return nil
}

// SetArgs binds arguments in declaration order starting at index 0.
// Each value is an *Arg, a memory object, a sampler or nil (a NULL
// pointer); SkipArg advances the index without touching the argument.
func (k *Kernel) SetArgs(args ...any) error {
	for i, value := range args {
		if value == SkipArg {
			continue
		}
		arg, err := argFor(value)
		if err != nil {
			return errors.WithMessagef(err, "argument %d", i)
		}
		if err := k.SetArg(uint32(i), arg); err != nil {
			return errors.WithMessagef(err, "argument %d", i)
		}
	}
	return nil
}

// EnqueueNDRange launches the kernel over len(globalSize) dimensions.
// globalOffset and localSize may be nil to use the runtime defaults.
// Consumes the wait list.
func (k *Kernel) EnqueueNDRange(q *Queue, globalOffset, globalSize, localSize []int, wait *WaitList) (*Event, error) {
	if len(globalSize) == 0 {
		return nil, errors.WithMessage(ErrInvalidArgument, "launching kernel with no global size")
	}
	id, st := drv().EnqueueNDRangeKernel(q.ID(), k.ID(), globalOffset, globalSize, localSize, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing kernel", st)
	}
	return q.retainEvent(id), nil
}

// EnqueueWithArgs binds args (as in SetArgs) and launches the kernel in
// one call. Consumes the wait list.
func (k *Kernel) EnqueueWithArgs(q *Queue, globalOffset, globalSize, localSize []int, wait *WaitList, args ...any) (*Event, error) {
	if err := k.SetArgs(args...); err != nil {
		return nil, err
	}
	return k.EnqueueNDRange(q, globalOffset, globalSize, localSize, wait)
}

// Info performs a generic kernel information query.
func (k *Kernel) Info(param uint32) (*Info, error) {
	return k.info(ocl.InfoKernel, 0, param)
}

// FunctionName returns the kernel function name.
func (k *Kernel) FunctionName() (string, error) {
	info, err := k.Info(ocl.KernelFunctionName)
	if err != nil {
		return "", err
	}
	return InfoString(info)
}

// NumArgs returns the number of arguments the kernel declares.
func (k *Kernel) NumArgs() (uint32, error) {
	info, err := k.Info(ocl.KernelNumArgs)
	if err != nil {
		return 0, err
	}
	return InfoScalar[uint32](info)
}

// ArgInfo performs a kernel argument information query. It requires the
// program to have been built with "-cl-kernel-arg-info".
func (k *Kernel) ArgInfo(index uint32, param uint32) (*Info, error) {
	return k.info(ocl.InfoKernelArg, uintptr(index), param)
}

// ArgName returns the declared name of argument #index.
func (k *Kernel) ArgName(index uint32) (string, error) {
	info, err := k.ArgInfo(index, ocl.KernelArgName)
	if err != nil {
		return "", err
	}
	return InfoString(info)
}

// ArgTypeName returns the declared type name of argument #index.
func (k *Kernel) ArgTypeName(index uint32) (string, error) {
	info, err := k.ArgInfo(index, ocl.KernelArgTypeName)
	if err != nil {
		return "", err
	}
	return InfoString(info)
}

// WorkGroupInfo performs a kernel work-group information query for one
// device.
func (k *Kernel) WorkGroupInfo(device *Device, param uint32) (*Info, error) {
	return k.info(ocl.InfoKernelWorkGroup, uintptr(device.ID()), param)
}

// WorkGroupSize returns the maximum work-group size usable to execute
// the kernel on the device.
func (k *Kernel) WorkGroupSize(device *Device) (uint64, error) {
	info, err := k.WorkGroupInfo(device, ocl.KernelWorkGroupSize)
	if err != nil {
		return 0, err
	}
	size, err := InfoScalar[uintptr](info)
	return uint64(size), err
}

// PreferredWorkGroupSizeMultiple returns the preferred work-group size
// multiple for the kernel on the device.
func (k *Kernel) PreferredWorkGroupSizeMultiple(device *Device) (uint64, error) {
	info, err := k.WorkGroupInfo(device, ocl.KernelPreferredWorkGroupMultiple)
	if err != nil {
		return 0, err
	}
	mult, err := InfoScalar[uintptr](info)
	return uint64(mult), err
}

// LocalMemSize returns the local memory the kernel uses on the device,
// in bytes.
func (k *Kernel) LocalMemSize(device *Device) (uint64, error) {
	info, err := k.WorkGroupInfo(device, ocl.KernelLocalMemSize)
	if err != nil {
		return 0, err
	}
	return InfoScalar[uint64](info)
}

// EnqueueNativeKernel schedules fn to run on the host as a queue
// command. mems and offsets locate memory-object handle slots inside
// args that the runtime patches before fn runs. Consumes the wait list.
func EnqueueNativeKernel(q *Queue, fn func(args []byte), args []byte, mems []MemObject, offsets []int, wait *WaitList) (*Event, error) {
	if fn == nil {
		return nil, errors.WithMessage(ErrInvalidArgument, "enqueueing nil native kernel")
	}
	if len(mems) != len(offsets) {
		return nil, errors.WithMessagef(ErrInvalidArgument,
			"%d memory objects and %d offsets", len(mems), len(offsets))
	}
	ids := make([]ocl.MemID, len(mems))
	for i, m := range mems {
		ids[i] = m.MemID()
	}
	id, st := drv().EnqueueNativeKernel(q.ID(), fn, args, ids, offsets, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing native kernel", st)
	}
	return q.retainEvent(id), nil
}
