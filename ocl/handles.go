package ocl

// Opaque handles of the underlying runtime. Each is a distinct named type
// so handles of different entities cannot be mixed up at compile time, yet
// all convert to uintptr for the process-wide handle registry.

// PlatformID identifies an OpenCL platform.
type PlatformID uintptr

// DeviceID identifies an OpenCL device or sub-device.
type DeviceID uintptr

// ContextID identifies an OpenCL context.
type ContextID uintptr

// QueueID identifies an OpenCL command queue.
type QueueID uintptr

// MemID identifies an OpenCL memory object (buffer, sub-buffer or image).
type MemID uintptr

// SamplerID identifies an OpenCL sampler.
type SamplerID uintptr

// ProgramID identifies an OpenCL program.
type ProgramID uintptr

// KernelID identifies an OpenCL kernel.
type KernelID uintptr

// EventID identifies an OpenCL event.
type EventID uintptr

// ObjectKind enumerates the entity classes a handle may belong to. The
// generic Retain/Release driver entry points and the wrapper runtime
// dispatch on it.
type ObjectKind int

const (
	KindPlatform ObjectKind = iota
	KindDevice
	KindContext
	KindQueue
	KindBuffer
	KindImage
	KindSampler
	KindProgram
	KindKernel
	KindEvent
	kindSentinel
)

var kindNames = [...]string{
	KindPlatform: "Platform",
	KindDevice:   "Device",
	KindContext:  "Context",
	KindQueue:    "Queue",
	KindBuffer:   "Buffer",
	KindImage:    "Image",
	KindSampler:  "Sampler",
	KindProgram:  "Program",
	KindKernel:   "Kernel",
	KindEvent:    "Event",
}

// String implements fmt.Stringer.
func (k ObjectKind) String() string {
	if k < 0 || k >= kindSentinel {
		return "InvalidKind"
	}
	return kindNames[k]
}

// InfoTarget selects which underlying information query an info request
// dispatches to.
type InfoTarget int

const (
	InfoPlatform InfoTarget = iota
	InfoDevice
	InfoContext
	InfoQueue
	InfoMem
	InfoImage
	InfoSampler
	InfoProgram
	InfoProgramBuild
	InfoKernel
	InfoKernelArg
	InfoKernelWorkGroup
	InfoEvent
	InfoEventProfiling
	infoTargetSentinel
)

var infoTargetNames = [...]string{
	InfoPlatform:        "PlatformInfo",
	InfoDevice:          "DeviceInfo",
	InfoContext:         "ContextInfo",
	InfoQueue:           "QueueInfo",
	InfoMem:             "MemObjectInfo",
	InfoImage:           "ImageInfo",
	InfoSampler:         "SamplerInfo",
	InfoProgram:         "ProgramInfo",
	InfoProgramBuild:    "ProgramBuildInfo",
	InfoKernel:          "KernelInfo",
	InfoKernelArg:       "KernelArgInfo",
	InfoKernelWorkGroup: "KernelWorkGroupInfo",
	InfoEvent:           "EventInfo",
	InfoEventProfiling:  "EventProfilingInfo",
}

// String implements fmt.Stringer.
func (t InfoTarget) String() string {
	if t < 0 || t >= infoTargetSentinel {
		return "InvalidInfoTarget"
	}
	return infoTargetNames[t]
}

// NeedsAux reports whether info queries against this target require a
// second object (a device handle, or an argument index for kernel
// argument queries).
func (t InfoTarget) NeedsAux() bool {
	switch t {
	case InfoProgramBuild, InfoKernelArg, InfoKernelWorkGroup:
		return true
	}
	return false
}

// ImageFormat mirrors cl_image_format.
type ImageFormat struct {
	ChannelOrder uint32
	ChannelType  uint32
}

// ImageDesc mirrors cl_image_desc, minus the host pointer fields which the
// driver receives separately.
type ImageDesc struct {
	Type       uint32
	Width      int
	Height     int
	Depth      int
	ArraySize  int
	RowPitch   int
	SlicePitch int
	Buffer     MemID
}
