package ocl

// Parameter names and bitfield values, matching the OpenCL headers
// verbatim so drivers can pass them straight through.

// DeviceType is the bitfield selecting device classes during enumeration.
type DeviceType uint64

const (
	DeviceTypeDefault     DeviceType = 1 << 0
	DeviceTypeCPU         DeviceType = 1 << 1
	DeviceTypeGPU         DeviceType = 1 << 2
	DeviceTypeAccelerator DeviceType = 1 << 3
	DeviceTypeCustom      DeviceType = 1 << 4
	DeviceTypeAll         DeviceType = 0xFFFFFFFF
)

// String implements fmt.Stringer.
func (t DeviceType) String() string {
	switch t {
	case DeviceTypeCPU:
		return "CPU"
	case DeviceTypeGPU:
		return "GPU"
	case DeviceTypeAccelerator:
		return "Accelerator"
	case DeviceTypeCustom:
		return "Custom"
	case DeviceTypeDefault:
		return "Default"
	case DeviceTypeAll:
		return "All"
	}
	return "Unknown"
}

// QueueProperties is the command-queue properties bitfield.
type QueueProperties uint64

const (
	QueueOutOfOrderExec  QueueProperties = 1 << 0
	QueueProfilingEnable QueueProperties = 1 << 1
)

// MemFlags is the memory-object creation flags bitfield.
type MemFlags uint64

const (
	MemReadWrite     MemFlags = 1 << 0
	MemWriteOnly     MemFlags = 1 << 1
	MemReadOnly      MemFlags = 1 << 2
	MemUseHostPtr    MemFlags = 1 << 3
	MemAllocHostPtr  MemFlags = 1 << 4
	MemCopyHostPtr   MemFlags = 1 << 5
	MemHostWriteOnly MemFlags = 1 << 7
	MemHostReadOnly  MemFlags = 1 << 8
	MemHostNoAccess  MemFlags = 1 << 9
)

// MapFlags selects the access mode of a mapped region.
type MapFlags uint64

const (
	MapRead                  MapFlags = 1 << 0
	MapWrite                 MapFlags = 1 << 1
	MapWriteInvalidateRegion MapFlags = 1 << 2
)

// MemMigrationFlags controls enqueue-migrate behavior.
type MemMigrationFlags uint64

const (
	MigrateMemObjectHost             MemMigrationFlags = 1 << 0
	MigrateMemObjectContentUndefined MemMigrationFlags = 1 << 1
)

// MemObjectType enumerates memory-object shapes.
type MemObjectType uint32

const (
	MemObjectBuffer       MemObjectType = 0x10F0
	MemObjectImage2D      MemObjectType = 0x10F1
	MemObjectImage3D      MemObjectType = 0x10F2
	MemObjectImage2DArray MemObjectType = 0x10F3
	MemObjectImage1D      MemObjectType = 0x10F4
	MemObjectImage1DArray MemObjectType = 0x10F5
	MemObjectImage1DBuf   MemObjectType = 0x10F6
)

// AddressingMode enumerates sampler addressing modes.
type AddressingMode uint32

const (
	AddressNone           AddressingMode = 0x1130
	AddressClampToEdge    AddressingMode = 0x1131
	AddressClamp          AddressingMode = 0x1132
	AddressRepeat         AddressingMode = 0x1133
	AddressMirroredRepeat AddressingMode = 0x1134
)

// FilterMode enumerates sampler filter modes.
type FilterMode uint32

const (
	FilterNearest FilterMode = 0x1140
	FilterLinear  FilterMode = 0x1141
)

// Image channel orders.
const (
	ChannelOrderR         uint32 = 0x10B0
	ChannelOrderA         uint32 = 0x10B1
	ChannelOrderRG        uint32 = 0x10B2
	ChannelOrderRA        uint32 = 0x10B3
	ChannelOrderRGB       uint32 = 0x10B4
	ChannelOrderRGBA      uint32 = 0x10B5
	ChannelOrderBGRA      uint32 = 0x10B6
	ChannelOrderARGB      uint32 = 0x10B7
	ChannelOrderIntensity uint32 = 0x10B8
	ChannelOrderLuminance uint32 = 0x10B9
)

// Image channel data types.
const (
	ChannelTypeSNormInt8      uint32 = 0x10D0
	ChannelTypeSNormInt16     uint32 = 0x10D1
	ChannelTypeUNormInt8      uint32 = 0x10D2
	ChannelTypeUNormInt16     uint32 = 0x10D3
	ChannelTypeUNormShort565  uint32 = 0x10D4
	ChannelTypeUNormShort555  uint32 = 0x10D5
	ChannelTypeUNormInt101010 uint32 = 0x10D6
	ChannelTypeSignedInt8     uint32 = 0x10D7
	ChannelTypeSignedInt16    uint32 = 0x10D8
	ChannelTypeSignedInt32    uint32 = 0x10D9
	ChannelTypeUnsignedInt8   uint32 = 0x10DA
	ChannelTypeUnsignedInt16  uint32 = 0x10DB
	ChannelTypeUnsignedInt32  uint32 = 0x10DC
	ChannelTypeHalfFloat      uint32 = 0x10DD
	ChannelTypeFloat          uint32 = 0x10DE
)

// Platform info parameters.
const (
	PlatformProfile    uint32 = 0x0900
	PlatformVersion    uint32 = 0x0901
	PlatformName       uint32 = 0x0902
	PlatformVendor     uint32 = 0x0903
	PlatformExtensions uint32 = 0x0904
)

// Device info parameters.
const (
	DeviceTypeInfo                 uint32 = 0x1000
	DeviceVendorID                 uint32 = 0x1001
	DeviceMaxComputeUnits          uint32 = 0x1002
	DeviceMaxWorkItemDimensions    uint32 = 0x1003
	DeviceMaxWorkGroupSize         uint32 = 0x1004
	DeviceMaxWorkItemSizes         uint32 = 0x1005
	DevicePreferredVectorWidthChar uint32 = 0x1006
	DeviceMaxClockFrequency        uint32 = 0x100C
	DeviceAddressBits              uint32 = 0x100D
	DeviceMaxReadImageArgs         uint32 = 0x100E
	DeviceMaxWriteImageArgs        uint32 = 0x100F
	DeviceMaxMemAllocSize          uint32 = 0x1010
	DeviceImage2DMaxWidth          uint32 = 0x1011
	DeviceImage2DMaxHeight         uint32 = 0x1012
	DeviceImage3DMaxWidth          uint32 = 0x1013
	DeviceImage3DMaxHeight         uint32 = 0x1014
	DeviceImage3DMaxDepth          uint32 = 0x1015
	DeviceImageSupport             uint32 = 0x1016
	DeviceMaxParameterSize         uint32 = 0x1017
	DeviceMaxSamplers              uint32 = 0x1018
	DeviceMemBaseAddrAlign         uint32 = 0x1019
	DeviceMinDataTypeAlignSize     uint32 = 0x101A
	DeviceSingleFPConfig           uint32 = 0x101B
	DeviceGlobalMemCacheType       uint32 = 0x101C
	DeviceGlobalMemCachelineSize   uint32 = 0x101D
	DeviceGlobalMemCacheSize       uint32 = 0x101E
	DeviceGlobalMemSize            uint32 = 0x101F
	DeviceMaxConstantBufferSize    uint32 = 0x1020
	DeviceMaxConstantArgs          uint32 = 0x1021
	DeviceLocalMemType             uint32 = 0x1022
	DeviceLocalMemSize             uint32 = 0x1023
	DeviceErrorCorrectionSupport   uint32 = 0x1024
	DeviceProfilingTimerResolution uint32 = 0x1025
	DeviceEndianLittle             uint32 = 0x1026
	DeviceAvailable                uint32 = 0x1027
	DeviceCompilerAvailable        uint32 = 0x1028
	DeviceExecutionCapabilities    uint32 = 0x1029
	DeviceQueuePropertiesInfo      uint32 = 0x102A
	DeviceNameInfo                 uint32 = 0x102B
	DeviceVendorInfo               uint32 = 0x102C
	DriverVersionInfo              uint32 = 0x102D
	DeviceProfileInfo              uint32 = 0x102E
	DeviceVersionInfo              uint32 = 0x102F
	DeviceExtensionsInfo           uint32 = 0x1030
	DevicePlatformInfo             uint32 = 0x1031
	DeviceDoubleFPConfig           uint32 = 0x1032
	DeviceHostUnifiedMemory        uint32 = 0x1035
	DeviceOpenCLCVersion           uint32 = 0x103D
	DeviceLinkerAvailable          uint32 = 0x103E
	DeviceBuiltInKernels           uint32 = 0x103F
	DeviceImageMaxBufferSize       uint32 = 0x1040
	DeviceImageMaxArraySize        uint32 = 0x1041
	DeviceParentDevice             uint32 = 0x1042
	DevicePartitionMaxSubDevices   uint32 = 0x1043
	DevicePartitionProperties      uint32 = 0x1044
	DevicePartitionAffinityDomain  uint32 = 0x1045
	DevicePartitionType            uint32 = 0x1046
	DeviceReferenceCount           uint32 = 0x1047
	DevicePrintfBufferSize         uint32 = 0x1049
)

// Device partition property names.
const (
	DevicePartitionEqually          uint64 = 0x1086
	DevicePartitionByCounts         uint64 = 0x1087
	DevicePartitionByCountsListEnd  uint64 = 0x0
	DevicePartitionByAffinityDomain uint64 = 0x1088
)

// Context info parameters and creation properties.
const (
	ContextReferenceCount uint32 = 0x1080
	ContextDevices        uint32 = 0x1081
	ContextProperties     uint32 = 0x1082
	ContextNumDevices     uint32 = 0x1083

	ContextPlatformProperty uint64 = 0x1084
)

// Queue info parameters.
const (
	QueueContext        uint32 = 0x1090
	QueueDevice         uint32 = 0x1091
	QueueReferenceCount uint32 = 0x1092
	QueuePropertiesInfo uint32 = 0x1093
)

// Memory-object info parameters.
const (
	MemTypeInfo             uint32 = 0x1100
	MemFlagsInfo            uint32 = 0x1101
	MemSizeInfo             uint32 = 0x1102
	MemHostPtrInfo          uint32 = 0x1103
	MemMapCount             uint32 = 0x1104
	MemReferenceCount       uint32 = 0x1105
	MemContextInfo          uint32 = 0x1106
	MemAssociatedMemObject  uint32 = 0x1107
	MemOffsetInfo           uint32 = 0x1108
)

// Image info parameters.
const (
	ImageFormatInfo     uint32 = 0x1110
	ImageElementSize    uint32 = 0x1111
	ImageRowPitchInfo   uint32 = 0x1112
	ImageSlicePitchInfo uint32 = 0x1113
	ImageWidthInfo      uint32 = 0x1114
	ImageHeightInfo     uint32 = 0x1115
	ImageDepthInfo      uint32 = 0x1116
	ImageArraySizeInfo  uint32 = 0x1117
	ImageBufferInfo     uint32 = 0x1118
	ImageNumMipLevels   uint32 = 0x1119
	ImageNumSamples     uint32 = 0x111A
)

// Sampler info parameters; the first three double as sampler-properties
// keys for the properties-list constructor.
const (
	SamplerReferenceCount   uint32 = 0x1150
	SamplerContextInfo      uint32 = 0x1151
	SamplerNormalizedCoords uint32 = 0x1152
	SamplerAddressingInfo   uint32 = 0x1153
	SamplerFilterInfo       uint32 = 0x1154
)

// Program info parameters.
const (
	ProgramReferenceCount uint32 = 0x1160
	ProgramContextInfo    uint32 = 0x1161
	ProgramNumDevices     uint32 = 0x1162
	ProgramDevicesInfo    uint32 = 0x1163
	ProgramSourceInfo     uint32 = 0x1164
	ProgramBinarySizes    uint32 = 0x1165
	ProgramBinariesInfo   uint32 = 0x1166
	ProgramNumKernels     uint32 = 0x1167
	ProgramKernelNames    uint32 = 0x1168
)

// Program build info parameters.
const (
	ProgramBuildStatusInfo uint32 = 0x1181
	ProgramBuildOptions    uint32 = 0x1182
	ProgramBuildLog        uint32 = 0x1183
	ProgramBinaryType      uint32 = 0x1184
)

// Build status values.
const (
	BuildSuccess    int32 = 0
	BuildNone       int32 = -1
	BuildError      int32 = -2
	BuildInProgress int32 = -3
)

// Kernel info parameters.
const (
	KernelFunctionName   uint32 = 0x1190
	KernelNumArgs        uint32 = 0x1191
	KernelReferenceCount uint32 = 0x1192
	KernelContextInfo    uint32 = 0x1193
	KernelProgramInfo    uint32 = 0x1194
	KernelAttributes     uint32 = 0x1195
)

// Kernel argument info parameters.
const (
	KernelArgAddressQualifier uint32 = 0x1196
	KernelArgAccessQualifier  uint32 = 0x1197
	KernelArgTypeName         uint32 = 0x1198
	KernelArgTypeQualifier    uint32 = 0x1199
	KernelArgName             uint32 = 0x119A
)

// Kernel work-group info parameters.
const (
	KernelWorkGroupSize              uint32 = 0x11B0
	KernelCompileWorkGroupSize       uint32 = 0x11B1
	KernelLocalMemSize               uint32 = 0x11B2
	KernelPreferredWorkGroupMultiple uint32 = 0x11B3
	KernelPrivateMemSize             uint32 = 0x11B4
	KernelGlobalWorkSize             uint32 = 0x11B5
)

// Event info parameters.
const (
	EventCommandQueue    uint32 = 0x11D0
	EventCommandType     uint32 = 0x11D1
	EventReferenceCount  uint32 = 0x11D2
	EventCommandExecStatus uint32 = 0x11D3
	EventContextInfo     uint32 = 0x11D4
)

// Event profiling info parameters.
const (
	ProfilingCommandQueued uint32 = 0x1280
	ProfilingCommandSubmit uint32 = 0x1281
	ProfilingCommandStart  uint32 = 0x1282
	ProfilingCommandEnd    uint32 = 0x1283
)

// CommandType classifies the command that produced an event.
type CommandType uint32

const (
	CommandNDRangeKernel     CommandType = 0x11F0
	CommandTask              CommandType = 0x11F1
	CommandNativeKernel      CommandType = 0x11F2
	CommandReadBuffer        CommandType = 0x11F3
	CommandWriteBuffer       CommandType = 0x11F4
	CommandCopyBuffer        CommandType = 0x11F5
	CommandReadImage         CommandType = 0x11F6
	CommandWriteImage        CommandType = 0x11F7
	CommandCopyImage         CommandType = 0x11F8
	CommandCopyImageToBuffer CommandType = 0x11F9
	CommandCopyBufferToImage CommandType = 0x11FA
	CommandMapBuffer         CommandType = 0x11FB
	CommandMapImage          CommandType = 0x11FC
	CommandUnmapMemObject    CommandType = 0x11FD
	CommandMarker            CommandType = 0x11FE
	CommandUser              CommandType = 0x1204
	CommandBarrier           CommandType = 0x1205
	CommandMigrateMemObjects CommandType = 0x1206
	CommandFillBuffer        CommandType = 0x1207
	CommandFillImage         CommandType = 0x1208
)

var commandTypeNames = map[CommandType]string{
	CommandNDRangeKernel:     "NDRANGE_KERNEL",
	CommandTask:              "TASK",
	CommandNativeKernel:      "NATIVE_KERNEL",
	CommandReadBuffer:        "READ_BUFFER",
	CommandWriteBuffer:       "WRITE_BUFFER",
	CommandCopyBuffer:        "COPY_BUFFER",
	CommandReadImage:         "READ_IMAGE",
	CommandWriteImage:        "WRITE_IMAGE",
	CommandCopyImage:         "COPY_IMAGE",
	CommandCopyImageToBuffer: "COPY_IMAGE_TO_BUFFER",
	CommandCopyBufferToImage: "COPY_BUFFER_TO_IMAGE",
	CommandMapBuffer:         "MAP_BUFFER",
	CommandMapImage:          "MAP_IMAGE",
	CommandUnmapMemObject:    "UNMAP_MEM_OBJECT",
	CommandMarker:            "MARKER",
	CommandUser:              "USER",
	CommandBarrier:           "BARRIER",
	CommandMigrateMemObjects: "MIGRATE_MEM_OBJECTS",
	CommandFillBuffer:        "FILL_BUFFER",
	CommandFillImage:         "FILL_IMAGE",
}

// String implements fmt.Stringer.
func (t CommandType) String() string {
	if name, ok := commandTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN_COMMAND"
}

// Command execution status values.
const (
	ExecComplete  int32 = 0x0
	ExecRunning   int32 = 0x1
	ExecSubmitted int32 = 0x2
	ExecQueued    int32 = 0x3
)
