package goocl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

// InfoQuery describes one attribute of any wrapper class, addressable by
// a symbolic dotted name like "PLATFORM.NAME" or "EVENT.COMMAND_TYPE".
// The part before the dot selects the query target, the part after it
// the attribute.
type InfoQuery struct {
	// Name is the full symbolic name, always upper case.
	Name string
	// Target selects the underlying information query.
	Target ocl.InfoTarget
	// Param is the attribute's parameter value.
	Param uint32
	// Format renders the raw info record.
	Format func(*Info) string
	// Description is a one-line human description.
	Description string
}

// QueryInfo finds a query by its exact symbolic name, case-insensitively.
func QueryInfo(name string) (InfoQuery, bool) {
	q, ok := infoQueries[strings.ToUpper(name)]
	return q, ok
}

// Query resolves name and performs the query on w. For targets that need
// an auxiliary object (BUILD.* wants a device handle, ARG.* and
// WORKGROUP.* want an argument index or device handle) pass it as aux;
// otherwise aux is ignored. Querying a name whose target does not match
// the wrapper's class fails with ErrInvalidArgument.
func Query(w Wrapper, aux uintptr, name string) (*Info, error) {
	q, ok := QueryInfo(name)
	if !ok {
		return nil, errors.WithMessagef(ErrInvalidArgument, "unknown info query %q", name)
	}
	if !targetAccepts(q.Target, w.Kind()) {
		return nil, errors.WithMessagef(ErrInvalidArgument,
			"info query %q does not apply to a %s wrapper", q.Name, w.Kind())
	}
	return w.base().info(q.Target, aux, q.Param)
}

// FormatInfo renders info with the formatter registered under name. An
// unknown name renders the raw bytes in hex.
func FormatInfo(name string, info *Info) string {
	if q, ok := QueryInfo(name); ok {
		return q.Format(info)
	}
	return fmt.Sprintf("%x", info.Bytes)
}

// Queries returns all known queries, sorted by name.
func Queries() []InfoQuery {
	out := make([]InfoQuery, 0, len(infoQueries))
	for _, q := range infoQueries {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// QueriesByPrefix returns the queries whose name starts with prefix,
// case-insensitively, sorted by name. "DEVICE." enumerates every device
// attribute, "" everything.
func QueriesByPrefix(prefix string) []InfoQuery {
	want := strings.ToUpper(prefix)
	var out []InfoQuery
	for _, q := range infoQueries {
		if strings.HasPrefix(q.Name, want) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// targetAccepts reports whether a query target applies to a wrapper
// class. Buffers and images share the memory-object queries; the
// image-specific ones only apply to images.
func targetAccepts(target ocl.InfoTarget, kind ocl.ObjectKind) bool {
	switch target {
	case ocl.InfoPlatform:
		return kind == ocl.KindPlatform
	case ocl.InfoDevice:
		return kind == ocl.KindDevice
	case ocl.InfoContext:
		return kind == ocl.KindContext
	case ocl.InfoQueue:
		return kind == ocl.KindQueue
	case ocl.InfoMem:
		return kind == ocl.KindBuffer || kind == ocl.KindImage
	case ocl.InfoImage:
		return kind == ocl.KindImage
	case ocl.InfoSampler:
		return kind == ocl.KindSampler
	case ocl.InfoProgram, ocl.InfoProgramBuild:
		return kind == ocl.KindProgram
	case ocl.InfoKernel, ocl.InfoKernelArg, ocl.InfoKernelWorkGroup:
		return kind == ocl.KindKernel
	case ocl.InfoEvent, ocl.InfoEventProfiling:
		return kind == ocl.KindEvent
	}
	return false
}

func fmtNanosULong(info *Info) string {
	v, err := InfoScalar[uint64](info)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%d ns", v)
}

func fmtMemFlags(info *Info) string {
	v, err := InfoScalar[ocl.MemFlags](info)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%#x", uint64(v))
}

func fmtMemType(info *Info) string {
	v, err := InfoScalar[ocl.MemObjectType](info)
	if err != nil {
		return "?"
	}
	switch v {
	case ocl.MemObjectBuffer:
		return "Buffer"
	case ocl.MemObjectImage2D:
		return "Image2D"
	case ocl.MemObjectImage3D:
		return "Image3D"
	case ocl.MemObjectImage2DArray:
		return "Image2DArray"
	case ocl.MemObjectImage1D:
		return "Image1D"
	case ocl.MemObjectImage1DArray:
		return "Image1DArray"
	case ocl.MemObjectImage1DBuf:
		return "Image1DBuffer"
	}
	return "Unknown"
}

func fmtAddressingMode(info *Info) string {
	v, err := InfoScalar[ocl.AddressingMode](info)
	if err != nil {
		return "?"
	}
	switch v {
	case ocl.AddressNone:
		return "None"
	case ocl.AddressClampToEdge:
		return "ClampToEdge"
	case ocl.AddressClamp:
		return "Clamp"
	case ocl.AddressRepeat:
		return "Repeat"
	case ocl.AddressMirroredRepeat:
		return "MirroredRepeat"
	}
	return "Unknown"
}

func fmtFilterMode(info *Info) string {
	v, err := InfoScalar[ocl.FilterMode](info)
	if err != nil {
		return "?"
	}
	switch v {
	case ocl.FilterNearest:
		return "Nearest"
	case ocl.FilterLinear:
		return "Linear"
	}
	return "Unknown"
}

func fmtBuildStatus(info *Info) string {
	v, err := InfoScalar[int32](info)
	if err != nil {
		return "?"
	}
	switch v {
	case ocl.BuildSuccess:
		return "Success"
	case ocl.BuildNone:
		return "None"
	case ocl.BuildError:
		return "Error"
	case ocl.BuildInProgress:
		return "InProgress"
	}
	return "Unknown"
}

func fmtExecStatus(info *Info) string {
	v, err := InfoScalar[int32](info)
	if err != nil {
		return "?"
	}
	switch v {
	case ocl.ExecComplete:
		return "Complete"
	case ocl.ExecRunning:
		return "Running"
	case ocl.ExecSubmitted:
		return "Submitted"
	case ocl.ExecQueued:
		return "Queued"
	}
	if v < 0 {
		return fmt.Sprintf("Failed (%d)", v)
	}
	return "Unknown"
}

func fmtCommandType(info *Info) string {
	v, err := InfoScalar[ocl.CommandType](info)
	if err != nil {
		return "?"
	}
	return v.String()
}

// infoQueries maps upper-cased symbolic names to their queries. Built at
// init from the device registry plus the entries of the other targets.
var infoQueries = map[string]InfoQuery{}

func registerQuery(target ocl.InfoTarget, name string, param uint32,
	format func(*Info) string, description string) {
	q := InfoQuery{Name: name, Target: target, Param: param,
		Format: format, Description: description}
	infoQueries[q.Name] = q
}

func init() {
	for _, dq := range deviceQueries {
		registerQuery(ocl.InfoDevice, "DEVICE."+dq.Name, dq.Param, dq.Format, dq.Description)
	}

	registerQuery(ocl.InfoPlatform, "PLATFORM.PROFILE", ocl.PlatformProfile, fmtString, "Supported profile")
	registerQuery(ocl.InfoPlatform, "PLATFORM.VERSION", ocl.PlatformVersion, fmtString, "Highest supported OpenCL version")
	registerQuery(ocl.InfoPlatform, "PLATFORM.NAME", ocl.PlatformName, fmtString, "Platform name")
	registerQuery(ocl.InfoPlatform, "PLATFORM.VENDOR", ocl.PlatformVendor, fmtString, "Vendor name")
	registerQuery(ocl.InfoPlatform, "PLATFORM.EXTENSIONS", ocl.PlatformExtensions, fmtString, "Supported extensions")

	registerQuery(ocl.InfoContext, "CONTEXT.REFERENCE_COUNT", ocl.ContextReferenceCount, fmtUint, "Native reference count")
	registerQuery(ocl.InfoContext, "CONTEXT.NUM_DEVICES", ocl.ContextNumDevices, fmtUint, "Number of devices")

	registerQuery(ocl.InfoQueue, "QUEUE.REFERENCE_COUNT", ocl.QueueReferenceCount, fmtUint, "Native reference count")
	registerQuery(ocl.InfoQueue, "QUEUE.PROPERTIES", ocl.QueuePropertiesInfo, fmtQueueProps, "Queue properties")

	registerQuery(ocl.InfoMem, "MEM.TYPE", ocl.MemTypeInfo, fmtMemType, "Memory object type")
	registerQuery(ocl.InfoMem, "MEM.FLAGS", ocl.MemFlagsInfo, fmtMemFlags, "Creation flags")
	registerQuery(ocl.InfoMem, "MEM.SIZE", ocl.MemSizeInfo, fmtBytesSize, "Size in bytes")
	registerQuery(ocl.InfoMem, "MEM.MAP_COUNT", ocl.MemMapCount, fmtUint, "Outstanding map count")
	registerQuery(ocl.InfoMem, "MEM.REFERENCE_COUNT", ocl.MemReferenceCount, fmtUint, "Native reference count")
	registerQuery(ocl.InfoMem, "MEM.OFFSET", ocl.MemOffsetInfo, fmtSize, "Sub-buffer offset")

	registerQuery(ocl.InfoImage, "IMAGE.ELEMENT_SIZE", ocl.ImageElementSize, fmtSize, "Pixel size in bytes")
	registerQuery(ocl.InfoImage, "IMAGE.ROW_PITCH", ocl.ImageRowPitchInfo, fmtSize, "Row pitch in bytes")
	registerQuery(ocl.InfoImage, "IMAGE.SLICE_PITCH", ocl.ImageSlicePitchInfo, fmtSize, "Slice pitch in bytes")
	registerQuery(ocl.InfoImage, "IMAGE.WIDTH", ocl.ImageWidthInfo, fmtSize, "Width in pixels")
	registerQuery(ocl.InfoImage, "IMAGE.HEIGHT", ocl.ImageHeightInfo, fmtSize, "Height in pixels")
	registerQuery(ocl.InfoImage, "IMAGE.DEPTH", ocl.ImageDepthInfo, fmtSize, "Depth in pixels")

	registerQuery(ocl.InfoSampler, "SAMPLER.REFERENCE_COUNT", ocl.SamplerReferenceCount, fmtUint, "Native reference count")
	registerQuery(ocl.InfoSampler, "SAMPLER.NORMALIZED_COORDS", ocl.SamplerNormalizedCoords, fmtBool, "Coordinates are normalized")
	registerQuery(ocl.InfoSampler, "SAMPLER.ADDRESSING_MODE", ocl.SamplerAddressingInfo, fmtAddressingMode, "Out-of-range addressing")
	registerQuery(ocl.InfoSampler, "SAMPLER.FILTER_MODE", ocl.SamplerFilterInfo, fmtFilterMode, "Sampling filter")

	registerQuery(ocl.InfoProgram, "PROGRAM.REFERENCE_COUNT", ocl.ProgramReferenceCount, fmtUint, "Native reference count")
	registerQuery(ocl.InfoProgram, "PROGRAM.NUM_DEVICES", ocl.ProgramNumDevices, fmtUint, "Number of associated devices")
	registerQuery(ocl.InfoProgram, "PROGRAM.SOURCE", ocl.ProgramSourceInfo, fmtString, "Program source")
	registerQuery(ocl.InfoProgram, "PROGRAM.BINARY_SIZES", ocl.ProgramBinarySizes, fmtSizeList, "Per-device binary sizes")
	registerQuery(ocl.InfoProgram, "PROGRAM.NUM_KERNELS", ocl.ProgramNumKernels, fmtSize, "Number of kernels")
	registerQuery(ocl.InfoProgram, "PROGRAM.KERNEL_NAMES", ocl.ProgramKernelNames, fmtString, "Semicolon-separated kernel names")

	registerQuery(ocl.InfoProgramBuild, "BUILD.STATUS", ocl.ProgramBuildStatusInfo, fmtBuildStatus, "Build status for a device")
	registerQuery(ocl.InfoProgramBuild, "BUILD.OPTIONS", ocl.ProgramBuildOptions, fmtString, "Build options for a device")
	registerQuery(ocl.InfoProgramBuild, "BUILD.LOG", ocl.ProgramBuildLog, fmtString, "Build log for a device")

	registerQuery(ocl.InfoKernel, "KERNEL.FUNCTION_NAME", ocl.KernelFunctionName, fmtString, "Kernel function name")
	registerQuery(ocl.InfoKernel, "KERNEL.NUM_ARGS", ocl.KernelNumArgs, fmtUint, "Number of arguments")
	registerQuery(ocl.InfoKernel, "KERNEL.REFERENCE_COUNT", ocl.KernelReferenceCount, fmtUint, "Native reference count")
	registerQuery(ocl.InfoKernel, "KERNEL.ATTRIBUTES", ocl.KernelAttributes, fmtString, "Kernel attribute qualifiers")

	registerQuery(ocl.InfoKernelArg, "ARG.NAME", ocl.KernelArgName, fmtString, "Argument name")
	registerQuery(ocl.InfoKernelArg, "ARG.TYPE_NAME", ocl.KernelArgTypeName, fmtString, "Argument type name")

	registerQuery(ocl.InfoKernelWorkGroup, "WORKGROUP.WORK_GROUP_SIZE", ocl.KernelWorkGroupSize, fmtSize, "Max work-group size for a device")
	registerQuery(ocl.InfoKernelWorkGroup, "WORKGROUP.PREFERRED_WORK_GROUP_SIZE_MULTIPLE", ocl.KernelPreferredWorkGroupMultiple, fmtSize, "Preferred work-group size multiple")
	registerQuery(ocl.InfoKernelWorkGroup, "WORKGROUP.LOCAL_MEM_SIZE", ocl.KernelLocalMemSize, fmtBytesULong, "Local memory used by the kernel")

	registerQuery(ocl.InfoEvent, "EVENT.COMMAND_TYPE", ocl.EventCommandType, fmtCommandType, "Command that produced the event")
	registerQuery(ocl.InfoEvent, "EVENT.COMMAND_EXECUTION_STATUS", ocl.EventCommandExecStatus, fmtExecStatus, "Execution status")
	registerQuery(ocl.InfoEvent, "EVENT.REFERENCE_COUNT", ocl.EventReferenceCount, fmtUint, "Native reference count")

	registerQuery(ocl.InfoEventProfiling, "PROFILING.COMMAND_QUEUED", ocl.ProfilingCommandQueued, fmtNanosULong, "Enqueue timestamp")
	registerQuery(ocl.InfoEventProfiling, "PROFILING.COMMAND_SUBMIT", ocl.ProfilingCommandSubmit, fmtNanosULong, "Submit timestamp")
	registerQuery(ocl.InfoEventProfiling, "PROFILING.COMMAND_START", ocl.ProfilingCommandStart, fmtNanosULong, "Execution start timestamp")
	registerQuery(ocl.InfoEventProfiling, "PROFILING.COMMAND_END", ocl.ProfilingCommandEnd, fmtNanosULong, "Execution end timestamp")
}
