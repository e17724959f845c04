package ocl

// Driver is the flat entry-point table of an OpenCL runtime. Every method
// maps to one underlying library call and returns the library's own
// Status; no method panics. Handles returned by a Driver are opaque and
// only meaningful to the same Driver instance.
//
// Blocking calls are Finish, WaitForEvents and any enqueue invoked with
// blocking=true.
type Driver interface {
	// Name identifies the driver, e.g. "opencl" or "stub".
	Name() string

	// GetPlatformIDs enumerates all platforms.
	GetPlatformIDs() ([]PlatformID, Status)
	// GetDeviceIDs enumerates the platform devices matching typ.
	GetDeviceIDs(platform PlatformID, typ DeviceType) ([]DeviceID, Status)
	// CreateSubDevices partitions a device according to the given
	// zero-terminated partition property list.
	CreateSubDevices(device DeviceID, properties []uint64) ([]DeviceID, Status)

	// GetInfo performs a generic information query against the given
	// target. aux carries the second handle (or the argument index for
	// InfoKernelArg) for targets whose NeedsAux is true. A nil value
	// slice asks only for the size. The returned size is the full size
	// of the requested information in bytes.
	GetInfo(target InfoTarget, object, aux uintptr, param uint32, value []byte) (int, Status)

	// Retain increments and Release decrements the native reference
	// count of the given handle. Platforms and devices that are not
	// sub-devices ignore both.
	Retain(kind ObjectKind, handle uintptr) Status
	Release(kind ObjectKind, handle uintptr) Status

	CreateContext(properties []uint64, devices []DeviceID) (ContextID, Status)
	CreateQueue(context ContextID, device DeviceID, properties QueueProperties) (QueueID, Status)

	// CreateBuffer allocates a buffer. A non-nil host slice is the host
	// memory for MemCopyHostPtr / MemUseHostPtr flags.
	CreateBuffer(context ContextID, flags MemFlags, size int, host []byte) (MemID, Status)
	CreateSubBuffer(buffer MemID, flags MemFlags, origin, size int) (MemID, Status)
	CreateImage(context ContextID, flags MemFlags, format ImageFormat, desc ImageDesc, host []byte) (MemID, Status)
	GetSupportedImageFormats(context ContextID, flags MemFlags, imageType MemObjectType) ([]ImageFormat, Status)
	// SetMemDestructorCallback registers fn to run when the memory
	// object's native resources are destroyed.
	SetMemDestructorCallback(mem MemID, fn func()) Status

	CreateSampler(context ContextID, normalizedCoords bool, addressingMode AddressingMode, filterMode FilterMode) (SamplerID, Status)
	CreateSamplerWithProperties(context ContextID, properties []uint64) (SamplerID, Status)

	CreateProgramWithSource(context ContextID, sources []string) (ProgramID, Status)
	// CreateProgramWithBinary returns the per-device binary load status
	// alongside the overall status.
	CreateProgramWithBinary(context ContextID, devices []DeviceID, binaries [][]byte) (ProgramID, []Status, Status)
	// BuildProgram builds for the given devices (nil means all program
	// devices). A non-nil notify makes the call asynchronous; notify
	// runs when the build completes.
	BuildProgram(program ProgramID, devices []DeviceID, options string, notify func(ProgramID)) Status
	CompileProgram(program ProgramID, devices []DeviceID, options string, headers []ProgramID, headerNames []string, notify func(ProgramID)) Status
	LinkProgram(context ContextID, devices []DeviceID, options string, programs []ProgramID, notify func(ProgramID)) (ProgramID, Status)

	CreateKernel(program ProgramID, name string) (KernelID, Status)
	CreateKernelsInProgram(program ProgramID) ([]KernelID, Status)
	// SetKernelArg binds one argument. A nil value with size > 0 is a
	// local-memory reservation; a nil value with size 0 is a NULL
	// pointer argument.
	SetKernelArg(kernel KernelID, index uint32, size int, value []byte) Status

	EnqueueReadBuffer(queue QueueID, buffer MemID, blocking bool, offset int, dst []byte, wait []EventID) (EventID, Status)
	EnqueueWriteBuffer(queue QueueID, buffer MemID, blocking bool, offset int, src []byte, wait []EventID) (EventID, Status)
	EnqueueCopyBuffer(queue QueueID, src, dst MemID, srcOffset, dstOffset, size int, wait []EventID) (EventID, Status)
	EnqueueFillBuffer(queue QueueID, buffer MemID, pattern []byte, offset, size int, wait []EventID) (EventID, Status)
	EnqueueMapBuffer(queue QueueID, buffer MemID, blocking bool, flags MapFlags, offset, size int, wait []EventID) ([]byte, EventID, Status)
	EnqueueUnmapMemObject(queue QueueID, mem MemID, mapped []byte, wait []EventID) (EventID, Status)
	EnqueueMigrateMemObjects(queue QueueID, mems []MemID, flags MemMigrationFlags, wait []EventID) (EventID, Status)

	EnqueueReadImage(queue QueueID, image MemID, blocking bool, origin, region [3]int, rowPitch, slicePitch int, dst []byte, wait []EventID) (EventID, Status)
	EnqueueWriteImage(queue QueueID, image MemID, blocking bool, origin, region [3]int, rowPitch, slicePitch int, src []byte, wait []EventID) (EventID, Status)
	EnqueueCopyImage(queue QueueID, src, dst MemID, srcOrigin, dstOrigin, region [3]int, wait []EventID) (EventID, Status)
	EnqueueFillImage(queue QueueID, image MemID, color []byte, origin, region [3]int, wait []EventID) (EventID, Status)
	EnqueueCopyImageToBuffer(queue QueueID, src, dst MemID, srcOrigin, region [3]int, dstOffset int, wait []EventID) (EventID, Status)
	EnqueueCopyBufferToImage(queue QueueID, src, dst MemID, srcOffset int, dstOrigin, region [3]int, wait []EventID) (EventID, Status)

	// EnqueueNDRangeKernel launches a kernel over len(globalSize)
	// dimensions. globalOffset and localSize may be nil.
	EnqueueNDRangeKernel(queue QueueID, kernel KernelID, globalOffset, globalSize, localSize []int, wait []EventID) (EventID, Status)
	// EnqueueNativeKernel schedules a host function. mems and offsets
	// describe memory-object handles to be patched into args before fn
	// runs; fn must not panic.
	EnqueueNativeKernel(queue QueueID, fn func(args []byte), args []byte, mems []MemID, offsets []int, wait []EventID) (EventID, Status)
	EnqueueMarker(queue QueueID, wait []EventID) (EventID, Status)
	EnqueueBarrier(queue QueueID, wait []EventID) (EventID, Status)

	Flush(queue QueueID) Status
	Finish(queue QueueID) Status

	WaitForEvents(events []EventID) Status
	// SetEventCallback registers fn for the given execution status
	// transition (ExecComplete, ExecRunning or ExecSubmitted).
	SetEventCallback(event EventID, callbackType int32, fn func(EventID, int32)) Status
	CreateUserEvent(context ContextID) (EventID, Status)
	SetUserEventStatus(event EventID, status int32) Status
}
