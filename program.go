package goocl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

// KernelPathEnv names the environment variable holding a colon-separated
// list of directories searched for kernel source files whose path is not
// found as given.
const KernelPathEnv = "GOOCL_KERNEL_PATH"

// Program wraps an OpenCL program object. Kernels obtained through
// Kernel are cached and owned by the program; NewKernel hands ownership
// to the caller.
type Program struct {
	*core
	deviceContainer

	muKernels sync.Mutex
	kernels   map[string]*Kernel
}

// NewProgramFromSource creates a program from OpenCL C source strings.
func NewProgramFromSource(ctx *Context, sources ...string) (*Program, error) {
	if len(sources) == 0 {
		return nil, errors.WithMessage(ErrInvalidArgument, "creating program with no sources")
	}
	d, err := CurrentDriver()
	if err != nil {
		return nil, err
	}
	handle, st := d.CreateProgramWithSource(ctx.ID(), sources)
	if !st.Ok() {
		return nil, apiError("creating program from source", st)
	}
	return WrapProgram(handle), nil
}

// NewProgramFromFiles creates a program from source files. Paths that do
// not resolve as given are searched for under the directories listed in
// GOOCL_KERNEL_PATH.
func NewProgramFromFiles(ctx *Context, paths ...string) (*Program, error) {
	if len(paths) == 0 {
		return nil, errors.WithMessage(ErrInvalidArgument, "creating program with no source files")
	}
	sources := make([]string, len(paths))
	for i, path := range paths {
		src, err := readKernelFile(path)
		if err != nil {
			return nil, err
		}
		sources[i] = src
	}
	return NewProgramFromSource(ctx, sources...)
}

func readKernelFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) || filepath.IsAbs(path) {
		return "", errors.Wrapf(err, "reading kernel source %q", path)
	}
	for _, dir := range filepath.SplitList(os.Getenv(KernelPathEnv)) {
		if dir == "" {
			continue
		}
		if data, err2 := os.ReadFile(filepath.Join(dir, path)); err2 == nil {
			return string(data), nil
		}
	}
	return "", errors.Wrapf(err, "kernel source %q not found (searched %s)", path, KernelPathEnv)
}

// NewProgramFromBinaries creates a program from one pre-built binary per
// device. The returned statuses report the per-device binary load
// outcome, indexed like devices.
func NewProgramFromBinaries(ctx *Context, devices []*Device, binaries [][]byte) (*Program, []ocl.Status, error) {
	if len(devices) == 0 || len(devices) != len(binaries) {
		return nil, nil, errors.WithMessagef(ErrInvalidArgument,
			"%d devices and %d binaries", len(devices), len(binaries))
	}
	d, err := CurrentDriver()
	if err != nil {
		return nil, nil, err
	}
	ids := make([]ocl.DeviceID, len(devices))
	for i, dev := range devices {
		ids[i] = dev.ID()
	}
	handle, deviceStatus, st := d.CreateProgramWithBinary(ctx.ID(), ids, binaries)
	if !st.Ok() {
		return nil, deviceStatus, apiError("creating program from binaries", st)
	}
	return WrapProgram(handle), deviceStatus, nil
}

// WrapProgram wraps an existing program handle. If the handle is already
// wrapped the same wrapper is returned with its reference count
// incremented.
func WrapProgram(id ocl.ProgramID) *Program {
	return wrapHandle(ocl.KindProgram, uintptr(id), func(c *core) *Program {
		return &Program{core: c}
	})
}

// ID returns the native program handle.
func (p *Program) ID() ocl.ProgramID { return ocl.ProgramID(p.handle) }

// Release decrements the reference count. At zero the cached kernels and
// device references are dropped, then the native program is released.
func (p *Program) Release() error {
	_, err := p.unref(func() {
		p.muKernels.Lock()
		kernels := p.kernels
		p.kernels = nil
		p.muKernels.Unlock()
		for _, k := range kernels {
			releaseQuiet(k)
		}
		p.releaseDevices()
	}, driverRelease(ocl.KindProgram))
	return err
}

// Build builds the program for the given devices (nil means all program
// devices) and blocks until done. On failure the build log explains why;
// see BuildLog.
func (p *Program) Build(devices []*Device, options string) error {
	st := drv().BuildProgram(p.ID(), deviceIDs(devices), options, nil)
	if !st.Ok() {
		return apiError("building program", st)
	}
	return nil
}

// BuildAsync starts a build and returns immediately; notify runs when
// the build completes.
func (p *Program) BuildAsync(devices []*Device, options string, notify func(*Program)) error {
	st := drv().BuildProgram(p.ID(), deviceIDs(devices), options, func(id ocl.ProgramID) {
		notify(WrapProgram(id))
	})
	if !st.Ok() {
		return apiError("building program", st)
	}
	return nil
}

// Compile compiles the program sources with the given embedded headers,
// blocking until done. headerNames[i] is the include name header[i] is
// reachable under.
func (p *Program) Compile(devices []*Device, options string, headers []*Program, headerNames []string) error {
	if len(headers) != len(headerNames) {
		return errors.WithMessagef(ErrInvalidArgument,
			"%d headers and %d header names", len(headers), len(headerNames))
	}
	headerIDs := make([]ocl.ProgramID, len(headers))
	for i, h := range headers {
		headerIDs[i] = h.ID()
	}
	st := drv().CompileProgram(p.ID(), deviceIDs(devices), options, headerIDs, headerNames, nil)
	if !st.Ok() {
		return apiError("compiling program", st)
	}
	return nil
}

// LinkPrograms links compiled programs into a new executable program,
// blocking until done.
func LinkPrograms(ctx *Context, devices []*Device, options string, programs ...*Program) (*Program, error) {
	if len(programs) == 0 {
		return nil, errors.WithMessage(ErrInvalidArgument, "linking no programs")
	}
	ids := make([]ocl.ProgramID, len(programs))
	for i, prg := range programs {
		ids[i] = prg.ID()
	}
	handle, st := drv().LinkProgram(ctx.ID(), deviceIDs(devices), options, ids, nil)
	if !st.Ok() {
		return nil, apiError("linking programs", st)
	}
	return WrapProgram(handle), nil
}

func deviceIDs(devices []*Device) []ocl.DeviceID {
	if len(devices) == 0 {
		return nil
	}
	ids := make([]ocl.DeviceID, len(devices))
	for i, dev := range devices {
		ids[i] = dev.ID()
	}
	return ids
}

// Kernel returns the kernel with the given function name, creating and
// caching it on first use. The kernel is owned by the program and is
// released with it.
func (p *Program) Kernel(name string) (*Kernel, error) {
	p.muKernels.Lock()
	defer p.muKernels.Unlock()
	if k, ok := p.kernels[name]; ok {
		return k, nil
	}
	k, err := p.newKernel(name)
	if err != nil {
		return nil, err
	}
	if p.kernels == nil {
		p.kernels = make(map[string]*Kernel)
	}
	p.kernels[name] = k
	return k, nil
}

// NewKernel creates a kernel with the given function name. Unlike
// Kernel, the result is owned by the caller and must be released by the
// caller; concurrent users should prefer this over the shared cached
// kernel because argument binding mutates kernel state.
func (p *Program) NewKernel(name string) (*Kernel, error) {
	return p.newKernel(name)
}

func (p *Program) newKernel(name string) (*Kernel, error) {
	handle, st := drv().CreateKernel(p.ID(), name)
	if !st.Ok() {
		return nil, apiError(fmt.Sprintf("creating kernel %q", name), st)
	}
	return WrapKernel(handle), nil
}

// NewKernels creates one kernel per function defined in the program.
// The kernels are owned by the caller.
func (p *Program) NewKernels() ([]*Kernel, error) {
	ids, st := drv().CreateKernelsInProgram(p.ID())
	if !st.Ok() {
		return nil, apiError("creating program kernels", st)
	}
	kernels := make([]*Kernel, len(ids))
	for i, id := range ids {
		kernels[i] = WrapKernel(id)
	}
	return kernels, nil
}

// Info performs a generic program information query.
func (p *Program) Info(param uint32) (*Info, error) {
	return p.info(ocl.InfoProgram, 0, param)
}

// BuildInfo performs a program build information query for one device.
func (p *Program) BuildInfo(device *Device, param uint32) (*Info, error) {
	return p.info(ocl.InfoProgramBuild, uintptr(device.ID()), param)
}

// BuildStatus returns the build status of the program for one device.
func (p *Program) BuildStatus(device *Device) (int32, error) {
	info, err := p.BuildInfo(device, ocl.ProgramBuildStatusInfo)
	if err != nil {
		return ocl.BuildNone, err
	}
	return InfoScalar[int32](info)
}

// BuildLog returns the build log of the program for one device.
func (p *Program) BuildLog(device *Device) (string, error) {
	info, err := p.BuildInfo(device, ocl.ProgramBuildLog)
	if err != nil {
		return "", err
	}
	return InfoString(info)
}

// BuildLogs concatenates the build logs of all program devices, each
// prefixed with the device name.
func (p *Program) BuildLogs() (string, error) {
	devices, err := p.Devices()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, dev := range devices {
		log, err := p.BuildLog(dev)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(log) == "" {
			continue
		}
		name, err := dev.Name()
		if err != nil {
			name = "unknown device"
		}
		fmt.Fprintf(&sb, "### %s ###\n%s\n", name, log)
	}
	return sb.String(), nil
}

// Source returns the concatenated program source, if available.
func (p *Program) Source() (string, error) {
	info, err := p.Info(ocl.ProgramSourceInfo)
	if err != nil {
		return "", err
	}
	return InfoString(info)
}

func (p *Program) fetchDevices() ([]ocl.DeviceID, error) {
	info, err := p.Info(ocl.ProgramDevicesInfo)
	if err != nil {
		return nil, err
	}
	return InfoArray[ocl.DeviceID](info)
}

// NumDevices returns the number of devices the program is associated
// with.
func (p *Program) NumDevices() (int, error) {
	return p.numDevices(p.fetchDevices)
}

// Device returns program device #i.
func (p *Program) Device(i int) (*Device, error) {
	return p.deviceAt(i, p.fetchDevices)
}

// Devices returns all devices the program is associated with. The
// returned wrappers are owned by the program.
func (p *Program) Devices() ([]*Device, error) {
	return p.allDevices(p.fetchDevices)
}

// Binaries returns the program binary for each device, indexed like
// Devices. Drivers report the binaries concatenated in device order;
// the per-device sizes split them.
func (p *Program) Binaries() ([][]byte, error) {
	sizesInfo, err := p.Info(ocl.ProgramBinarySizes)
	if err != nil {
		return nil, err
	}
	sizes, err := InfoArray[uintptr](sizesInfo)
	if err != nil {
		return nil, err
	}
	packedInfo, err := p.Info(ocl.ProgramBinariesInfo)
	if err != nil {
		return nil, err
	}
	packed := packedInfo.Bytes
	binaries := make([][]byte, len(sizes))
	off := 0
	for i, size := range sizes {
		n := int(size)
		if off+n > len(packed) {
			return nil, errors.WithMessagef(ErrOther,
				"program binaries hold %d bytes, sizes need %d", len(packed), off+n)
		}
		binaries[i] = packed[off : off+n : off+n]
		off += n
	}
	return binaries, nil
}

// BinaryForDevice returns the program binary for one device.
func (p *Program) BinaryForDevice(device *Device) ([]byte, error) {
	devices, err := p.Devices()
	if err != nil {
		return nil, err
	}
	binaries, err := p.Binaries()
	if err != nil {
		return nil, err
	}
	for i, dev := range devices {
		if dev.ID() == device.ID() {
			if i >= len(binaries) {
				break
			}
			return binaries[i], nil
		}
	}
	return nil, errors.WithMessage(ErrDeviceNotFound, "device not associated with program")
}

// SaveBinaryForDevice writes the program binary for one device to path.
func (p *Program) SaveBinaryForDevice(device *Device, path string) error {
	binary, err := p.BinaryForDevice(device)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, binary, 0o644), "saving program binary to %q", path)
}

// SaveAllBinaries writes one binary file per program device, named
// prefix + device index + suffix, and returns the written paths.
func (p *Program) SaveAllBinaries(prefix, suffix string) ([]string, error) {
	devices, err := p.Devices()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(devices))
	for i, dev := range devices {
		path := fmt.Sprintf("%s%02d%s", prefix, i, suffix)
		if err := p.SaveBinaryForDevice(dev, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
