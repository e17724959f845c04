package goocl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

// DeviceQuery describes one device attribute addressable by symbolic
// name, with a formatter that renders the raw info record for humans.
type DeviceQuery struct {
	// Name is the symbolic attribute name, e.g. "MAX_WORK_GROUP_SIZE".
	Name string
	// Param is the attribute's parameter value.
	Param uint32
	// Format renders the raw info record.
	Format func(*Info) string
	// Description is a one-line human description.
	Description string
}

// Get queries the attribute on the device and renders it. Attributes
// the runtime reports as unavailable render as "N/A".
func (q DeviceQuery) Get(dev *Device) (string, error) {
	info, err := dev.Info(q.Param)
	if err != nil {
		if errors.Is(err, ErrInfoUnavailable) {
			return "N/A", nil
		}
		return "", err
	}
	return q.Format(info), nil
}

// DeviceQueries returns all known device attributes, sorted by name.
func DeviceQueries() []DeviceQuery {
	out := make([]DeviceQuery, len(deviceQueries))
	copy(out, deviceQueries)
	return out
}

// DeviceQueryByName finds an attribute by its exact symbolic name,
// case-insensitively.
func DeviceQueryByName(name string) (DeviceQuery, bool) {
	want := strings.ToUpper(name)
	i := sort.Search(len(deviceQueries), func(i int) bool {
		return deviceQueries[i].Name >= want
	})
	if i < len(deviceQueries) && deviceQueries[i].Name == want {
		return deviceQueries[i], true
	}
	return DeviceQuery{}, false
}

// DeviceQueriesByPrefix returns the attributes whose name starts with
// prefix, case-insensitively.
func DeviceQueriesByPrefix(prefix string) []DeviceQuery {
	want := strings.ToUpper(prefix)
	var out []DeviceQuery
	for _, q := range deviceQueries {
		if strings.HasPrefix(q.Name, want) {
			out = append(out, q)
		}
	}
	return out
}

func fmtString(info *Info) string {
	s, err := InfoString(info)
	if err != nil {
		return "?"
	}
	return s
}

func fmtUint(info *Info) string {
	v, err := InfoScalar[uint32](info)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%d", v)
}

func fmtSize(info *Info) string {
	v, err := InfoScalar[uintptr](info)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%d", v)
}

func fmtBool(info *Info) string {
	v, err := InfoScalar[uint32](info)
	if err != nil {
		return "?"
	}
	if v != 0 {
		return "Yes"
	}
	return "No"
}

func fmtBytesULong(info *Info) string {
	v, err := InfoScalar[uint64](info)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%s (%d bytes)", humanize.IBytes(v), v)
}

func fmtBytesSize(info *Info) string {
	v, err := InfoScalar[uintptr](info)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(v)), v)
}

func fmtHex(info *Info) string {
	v, err := InfoScalar[uint32](info)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%#x", v)
}

func fmtMHz(info *Info) string {
	v, err := InfoScalar[uint32](info)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%d MHz", v)
}

func fmtNanos(info *Info) string {
	v, err := InfoScalar[uintptr](info)
	if err != nil {
		return "?"
	}
	return fmt.Sprintf("%d ns", v)
}

func fmtSizeList(info *Info) string {
	sizes, err := InfoArray[uintptr](info)
	if err != nil {
		return "?"
	}
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, " x ")
}

func fmtDeviceType(info *Info) string {
	v, err := InfoScalar[ocl.DeviceType](info)
	if err != nil {
		return "?"
	}
	var parts []string
	for _, t := range []ocl.DeviceType{
		ocl.DeviceTypeCPU, ocl.DeviceTypeGPU,
		ocl.DeviceTypeAccelerator, ocl.DeviceTypeCustom,
		ocl.DeviceTypeDefault,
	} {
		if v&t != 0 {
			parts = append(parts, t.String())
		}
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, " | ")
}

func fmtQueueProps(info *Info) string {
	v, err := InfoScalar[ocl.QueueProperties](info)
	if err != nil {
		return "?"
	}
	var parts []string
	if v&ocl.QueueOutOfOrderExec != 0 {
		parts = append(parts, "OUT_OF_ORDER_EXEC")
	}
	if v&ocl.QueueProfilingEnable != 0 {
		parts = append(parts, "PROFILING")
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, " | ")
}

func fmtCacheType(info *Info) string {
	v, err := InfoScalar[uint32](info)
	if err != nil {
		return "?"
	}
	switch v {
	case 0:
		return "None"
	case 1:
		return "Read-only"
	case 2:
		return "Read-write"
	}
	return "Unknown"
}

func fmtLocalMemType(info *Info) string {
	v, err := InfoScalar[uint32](info)
	if err != nil {
		return "?"
	}
	switch v {
	case 1:
		return "Local"
	case 2:
		return "Global"
	}
	return "None"
}

func fmtFPConfig(info *Info) string {
	v, err := InfoScalar[uint64](info)
	if err != nil {
		return "?"
	}
	names := []struct {
		bit  uint64
		name string
	}{
		{1 << 0, "DENORM"},
		{1 << 1, "INF_NAN"},
		{1 << 2, "ROUND_TO_NEAREST"},
		{1 << 3, "ROUND_TO_ZERO"},
		{1 << 4, "ROUND_TO_INF"},
		{1 << 5, "FMA"},
		{1 << 6, "SOFT_FLOAT"},
		{1 << 7, "CORRECTLY_ROUNDED_DIVIDE_SQRT"},
	}
	var parts []string
	for _, n := range names {
		if v&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, " | ")
}

// deviceQueries is sorted by Name; DeviceQueryByName binary-searches it.
var deviceQueries = []DeviceQuery{
	{"ADDRESS_BITS", ocl.DeviceAddressBits, fmtUint, "Address space size in bits"},
	{"AVAILABLE", ocl.DeviceAvailable, fmtBool, "Device is available"},
	{"BUILT_IN_KERNELS", ocl.DeviceBuiltInKernels, fmtString, "Semicolon-separated built-in kernels"},
	{"COMPILER_AVAILABLE", ocl.DeviceCompilerAvailable, fmtBool, "A compiler is available"},
	{"DOUBLE_FP_CONFIG", ocl.DeviceDoubleFPConfig, fmtFPConfig, "Double-precision capabilities"},
	{"DRIVER_VERSION", ocl.DriverVersionInfo, fmtString, "Driver version"},
	{"ENDIAN_LITTLE", ocl.DeviceEndianLittle, fmtBool, "Device is little-endian"},
	{"ERROR_CORRECTION_SUPPORT", ocl.DeviceErrorCorrectionSupport, fmtBool, "Memory error correction"},
	{"EXTENSIONS", ocl.DeviceExtensionsInfo, fmtString, "Supported extensions"},
	{"GLOBAL_MEM_CACHELINE_SIZE", ocl.DeviceGlobalMemCachelineSize, fmtUint, "Global cache line size in bytes"},
	{"GLOBAL_MEM_CACHE_SIZE", ocl.DeviceGlobalMemCacheSize, fmtBytesULong, "Global cache size"},
	{"GLOBAL_MEM_CACHE_TYPE", ocl.DeviceGlobalMemCacheType, fmtCacheType, "Global cache type"},
	{"GLOBAL_MEM_SIZE", ocl.DeviceGlobalMemSize, fmtBytesULong, "Global memory size"},
	{"HOST_UNIFIED_MEMORY", ocl.DeviceHostUnifiedMemory, fmtBool, "Host and device share memory"},
	{"IMAGE2D_MAX_HEIGHT", ocl.DeviceImage2DMaxHeight, fmtSize, "Max 2D image height"},
	{"IMAGE2D_MAX_WIDTH", ocl.DeviceImage2DMaxWidth, fmtSize, "Max 2D image width"},
	{"IMAGE3D_MAX_DEPTH", ocl.DeviceImage3DMaxDepth, fmtSize, "Max 3D image depth"},
	{"IMAGE3D_MAX_HEIGHT", ocl.DeviceImage3DMaxHeight, fmtSize, "Max 3D image height"},
	{"IMAGE3D_MAX_WIDTH", ocl.DeviceImage3DMaxWidth, fmtSize, "Max 3D image width"},
	{"IMAGE_MAX_ARRAY_SIZE", ocl.DeviceImageMaxArraySize, fmtSize, "Max image array size"},
	{"IMAGE_MAX_BUFFER_SIZE", ocl.DeviceImageMaxBufferSize, fmtSize, "Max 1D image buffer pixels"},
	{"IMAGE_SUPPORT", ocl.DeviceImageSupport, fmtBool, "Images are supported"},
	{"LINKER_AVAILABLE", ocl.DeviceLinkerAvailable, fmtBool, "A linker is available"},
	{"LOCAL_MEM_SIZE", ocl.DeviceLocalMemSize, fmtBytesULong, "Local memory size"},
	{"LOCAL_MEM_TYPE", ocl.DeviceLocalMemType, fmtLocalMemType, "Local memory type"},
	{"MAX_CLOCK_FREQUENCY", ocl.DeviceMaxClockFrequency, fmtMHz, "Max clock frequency"},
	{"MAX_COMPUTE_UNITS", ocl.DeviceMaxComputeUnits, fmtUint, "Parallel compute units"},
	{"MAX_CONSTANT_ARGS", ocl.DeviceMaxConstantArgs, fmtUint, "Max __constant arguments"},
	{"MAX_CONSTANT_BUFFER_SIZE", ocl.DeviceMaxConstantBufferSize, fmtBytesULong, "Max constant buffer size"},
	{"MAX_MEM_ALLOC_SIZE", ocl.DeviceMaxMemAllocSize, fmtBytesULong, "Max single allocation"},
	{"MAX_PARAMETER_SIZE", ocl.DeviceMaxParameterSize, fmtBytesSize, "Max kernel parameter bytes"},
	{"MAX_READ_IMAGE_ARGS", ocl.DeviceMaxReadImageArgs, fmtUint, "Max read image arguments"},
	{"MAX_SAMPLERS", ocl.DeviceMaxSamplers, fmtUint, "Max samplers per kernel"},
	{"MAX_WORK_GROUP_SIZE", ocl.DeviceMaxWorkGroupSize, fmtSize, "Max work items per group"},
	{"MAX_WORK_ITEM_DIMENSIONS", ocl.DeviceMaxWorkItemDimensions, fmtUint, "Max work item dimensions"},
	{"MAX_WORK_ITEM_SIZES", ocl.DeviceMaxWorkItemSizes, fmtSizeList, "Max work items per dimension"},
	{"MAX_WRITE_IMAGE_ARGS", ocl.DeviceMaxWriteImageArgs, fmtUint, "Max write image arguments"},
	{"MEM_BASE_ADDR_ALIGN", ocl.DeviceMemBaseAddrAlign, fmtUint, "Buffer alignment in bits"},
	{"MIN_DATA_TYPE_ALIGN_SIZE", ocl.DeviceMinDataTypeAlignSize, fmtUint, "Min data type alignment in bytes"},
	{"NAME", ocl.DeviceNameInfo, fmtString, "Device name"},
	{"OPENCL_C_VERSION", ocl.DeviceOpenCLCVersion, fmtString, "Highest supported OpenCL C version"},
	{"PARTITION_MAX_SUB_DEVICES", ocl.DevicePartitionMaxSubDevices, fmtUint, "Max sub-devices"},
	{"PRINTF_BUFFER_SIZE", ocl.DevicePrintfBufferSize, fmtBytesSize, "printf buffer size"},
	{"PROFILE", ocl.DeviceProfileInfo, fmtString, "Supported profile"},
	{"PROFILING_TIMER_RESOLUTION", ocl.DeviceProfilingTimerResolution, fmtNanos, "Profiling timer resolution"},
	{"QUEUE_PROPERTIES", ocl.DeviceQueuePropertiesInfo, fmtQueueProps, "Supported queue properties"},
	{"REFERENCE_COUNT", ocl.DeviceReferenceCount, fmtUint, "Native reference count"},
	{"SINGLE_FP_CONFIG", ocl.DeviceSingleFPConfig, fmtFPConfig, "Single-precision capabilities"},
	{"TYPE", ocl.DeviceTypeInfo, fmtDeviceType, "Device type"},
	{"VENDOR", ocl.DeviceVendorInfo, fmtString, "Vendor name"},
	{"VENDOR_ID", ocl.DeviceVendorID, fmtHex, "Vendor ID"},
	{"VERSION", ocl.DeviceVersionInfo, fmtString, "Highest supported OpenCL version"},
}
