package oclstub

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/goocl/goocl/ocl"
)

type program struct {
	handle  uintptr
	refs    int
	ctx     *context
	sources []string

	built       bool
	options     string
	buildStatus map[uintptr]int32
	buildLog    map[uintptr]string
}

type kernel struct {
	handle  uintptr
	refs    int
	prog    *program
	name    string
	numArgs uint32
	fn      KernelFunc
	args    map[uint32]boundArg
}

type boundArg struct {
	mem       *memObj
	value     []byte
	localSize int
}

// CreateProgramWithSource implements ocl.Driver.
func (d *Driver) CreateProgramWithSource(contextID ocl.ContextID, sources []string) (ocl.ProgramID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ctx, ok := lookup[*context](d, uintptr(contextID))
	if !ok {
		return 0, ocl.InvalidContext
	}
	if len(sources) == 0 {
		return 0, ocl.InvalidValue
	}
	p := &program{
		refs:        1,
		ctx:         ctx,
		sources:     append([]string(nil), sources...),
		buildStatus: make(map[uintptr]int32),
		buildLog:    make(map[uintptr]string),
	}
	p.handle = d.newHandle(p)
	return ocl.ProgramID(p.handle), ocl.Success
}

// CreateProgramWithBinary implements ocl.Driver. Stub binaries are the
// source bytes, so loading one restores the source.
func (d *Driver) CreateProgramWithBinary(contextID ocl.ContextID, devices []ocl.DeviceID, binaries [][]byte) (ocl.ProgramID, []ocl.Status, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ctx, ok := lookup[*context](d, uintptr(contextID))
	if !ok {
		return 0, nil, ocl.InvalidContext
	}
	if len(devices) == 0 || len(devices) != len(binaries) {
		return 0, nil, ocl.InvalidValue
	}
	deviceStatus := make([]ocl.Status, len(devices))
	for i, id := range devices {
		if _, ok := lookup[*device](d, uintptr(id)); !ok {
			return 0, nil, ocl.InvalidDevice
		}
		if len(binaries[i]) == 0 {
			deviceStatus[i] = ocl.InvalidBinary
			return 0, deviceStatus, ocl.InvalidBinary
		}
		deviceStatus[i] = ocl.Success
	}
	p := &program{
		refs:        1,
		ctx:         ctx,
		sources:     []string{string(binaries[0])},
		buildStatus: make(map[uintptr]int32),
		buildLog:    make(map[uintptr]string),
	}
	p.handle = d.newHandle(p)
	return ocl.ProgramID(p.handle), deviceStatus, ocl.Success
}

// buildTargets resolves the device list of a build-like call. Callers
// hold mu.
func (p *program) buildTargets(d *Driver, devices []ocl.DeviceID) ([]*device, ocl.Status) {
	if len(devices) == 0 {
		return p.ctx.devices, ocl.Success
	}
	out := make([]*device, len(devices))
	for i, id := range devices {
		dev, ok := lookup[*device](d, uintptr(id))
		if !ok {
			return nil, ocl.InvalidDevice
		}
		out[i] = dev
	}
	return out, ocl.Success
}

// compile records the build outcome. A source line containing "#error"
// fails the build with that line as the log, mimicking a compiler.
func (p *program) compile(targets []*device, options string) ocl.Status {
	status := ocl.Success
	for _, dev := range targets {
		failed := ""
		for _, src := range p.sources {
			if at := strings.Index(src, "#error"); at >= 0 {
				line := src[at:]
				if nl := strings.IndexByte(line, '\n'); nl >= 0 {
					line = line[:nl]
				}
				failed = line
				break
			}
		}
		if failed != "" {
			p.buildStatus[dev.handle] = ocl.BuildError
			p.buildLog[dev.handle] = fmt.Sprintf("stub compiler: %s\n", failed)
			status = ocl.BuildProgramFailure
		} else {
			p.buildStatus[dev.handle] = ocl.BuildSuccess
			p.buildLog[dev.handle] = ""
		}
	}
	if status.Ok() {
		p.built = true
		p.options = options
	}
	return status
}

// BuildProgram implements ocl.Driver.
func (d *Driver) BuildProgram(programID ocl.ProgramID, devices []ocl.DeviceID, options string, notify func(ocl.ProgramID)) ocl.Status {
	d.mu.Lock()
	p, ok := lookup[*program](d, uintptr(programID))
	if !ok {
		d.mu.Unlock()
		return ocl.InvalidProgram
	}
	targets, st := p.buildTargets(d, devices)
	if !st.Ok() {
		d.mu.Unlock()
		return st
	}
	st = p.compile(targets, options)
	d.mu.Unlock()
	if notify != nil {
		notify(programID)
		return ocl.Success
	}
	return st
}

// CompileProgram implements ocl.Driver. Headers are accepted and
// ignored; the stub has no preprocessor.
func (d *Driver) CompileProgram(programID ocl.ProgramID, devices []ocl.DeviceID, options string, headers []ocl.ProgramID, headerNames []string, notify func(ocl.ProgramID)) ocl.Status {
	if len(headers) != len(headerNames) {
		return ocl.InvalidValue
	}
	st := d.BuildProgram(programID, devices, options, notify)
	if st == ocl.BuildProgramFailure {
		return ocl.CompileProgramFailure
	}
	return st
}

// LinkProgram implements ocl.Driver. The result holds the concatenated
// sources of the inputs.
func (d *Driver) LinkProgram(contextID ocl.ContextID, devices []ocl.DeviceID, options string, programs []ocl.ProgramID, notify func(ocl.ProgramID)) (ocl.ProgramID, ocl.Status) {
	d.mu.Lock()
	ctx, ok := lookup[*context](d, uintptr(contextID))
	if !ok {
		d.mu.Unlock()
		return 0, ocl.InvalidContext
	}
	if len(programs) == 0 {
		d.mu.Unlock()
		return 0, ocl.InvalidValue
	}
	linked := &program{
		refs:        1,
		ctx:         ctx,
		buildStatus: make(map[uintptr]int32),
		buildLog:    make(map[uintptr]string),
	}
	for _, id := range programs {
		p, ok := lookup[*program](d, uintptr(id))
		if !ok {
			d.mu.Unlock()
			return 0, ocl.InvalidProgram
		}
		linked.sources = append(linked.sources, p.sources...)
	}
	targets, st := linked.buildTargets(d, devices)
	if !st.Ok() {
		d.mu.Unlock()
		return 0, st
	}
	if st := linked.compile(targets, options); !st.Ok() {
		d.mu.Unlock()
		return 0, ocl.LinkProgramFailure
	}
	linked.handle = d.newHandle(linked)
	id := ocl.ProgramID(linked.handle)
	d.mu.Unlock()
	if notify != nil {
		notify(id)
	}
	return id, ocl.Success
}

// mentionsKernel reports whether the program source declares name.
func (p *program) mentionsKernel(name string) bool {
	for _, src := range p.sources {
		if strings.Contains(src, name) {
			return true
		}
	}
	return false
}

// CreateKernel implements ocl.Driver. The program must be built and
// must mention the kernel name; a function registered through
// RegisterKernel supplies the behavior.
func (d *Driver) CreateKernel(programID ocl.ProgramID, name string) (ocl.KernelID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := lookup[*program](d, uintptr(programID))
	if !ok {
		return 0, ocl.InvalidProgram
	}
	if !p.built {
		return 0, ocl.InvalidProgramExecutable
	}
	if !p.mentionsKernel(name) {
		return 0, ocl.InvalidKernelName
	}
	reg := d.kernelFuncs[name]
	k := &kernel{
		refs:    1,
		prog:    p,
		name:    name,
		numArgs: reg.numArgs,
		fn:      reg.fn,
		args:    make(map[uint32]boundArg),
	}
	k.handle = d.newHandle(k)
	return ocl.KernelID(k.handle), ocl.Success
}

// CreateKernelsInProgram implements ocl.Driver. It creates one kernel
// per registered function the program mentions.
func (d *Driver) CreateKernelsInProgram(programID ocl.ProgramID) ([]ocl.KernelID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := lookup[*program](d, uintptr(programID))
	if !ok {
		return nil, ocl.InvalidProgram
	}
	if !p.built {
		return nil, ocl.InvalidProgramExecutable
	}
	var ids []ocl.KernelID
	for name, reg := range d.kernelFuncs {
		if !p.mentionsKernel(name) {
			continue
		}
		k := &kernel{
			refs:    1,
			prog:    p,
			name:    name,
			numArgs: reg.numArgs,
			fn:      reg.fn,
			args:    make(map[uint32]boundArg),
		}
		k.handle = d.newHandle(k)
		ids = append(ids, ocl.KernelID(k.handle))
	}
	return ids, ocl.Success
}

// SetKernelArg implements ocl.Driver. A handle-sized value matching a
// live memory object binds that object; other values bind as raw
// private bytes.
func (d *Driver) SetKernelArg(kernelID ocl.KernelID, index uint32, size int, value []byte) ocl.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	k, ok := lookup[*kernel](d, uintptr(kernelID))
	if !ok {
		return ocl.InvalidKernel
	}
	if k.numArgs > 0 && index >= k.numArgs {
		return ocl.InvalidArgIndex
	}
	if value == nil {
		if size > 0 {
			k.args[index] = boundArg{localSize: size}
		} else {
			k.args[index] = boundArg{}
		}
		return ocl.Success
	}
	if len(value) == int(unsafe.Sizeof(uintptr(0))) {
		handle := *(*uintptr)(ptrOf(value))
		if m, ok := lookup[*memObj](d, handle); ok {
			k.args[index] = boundArg{mem: m}
			return ocl.Success
		}
	}
	k.args[index] = boundArg{value: append([]byte(nil), value...)}
	return ocl.Success
}

// EnqueueNDRangeKernel implements ocl.Driver. The registered kernel
// function runs synchronously over the whole range.
func (d *Driver) EnqueueNDRangeKernel(queueID ocl.QueueID, kernelID ocl.KernelID, globalOffset, globalSize, localSize []int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	k, ok := lookup[*kernel](d, uintptr(kernelID))
	if !ok {
		d.mu.Unlock()
		return 0, ocl.InvalidKernel
	}
	dims := len(globalSize)
	if dims < 1 || dims > 3 {
		d.mu.Unlock()
		return 0, ocl.InvalidWorkDimension
	}
	items := 1
	for i, size := range globalSize {
		if size <= 0 {
			d.mu.Unlock()
			return 0, ocl.InvalidGlobalWorkSize
		}
		if localSize != nil {
			if localSize[i] <= 0 || size%localSize[i] != 0 {
				d.mu.Unlock()
				return 0, ocl.InvalidWorkGroupSize
			}
		}
		items *= size
	}
	var maxIndex uint32
	for index := range k.args {
		if index+1 > maxIndex {
			maxIndex = index + 1
		}
	}
	n := k.numArgs
	if n == 0 {
		n = maxIndex
	}
	args := make([]Arg, n)
	for i := uint32(0); i < n; i++ {
		bound, ok := k.args[i]
		if !ok {
			d.mu.Unlock()
			return 0, ocl.InvalidKernelArgs
		}
		switch {
		case bound.mem != nil:
			args[i] = Arg{Global: bound.mem.data}
		case bound.localSize > 0:
			args[i] = Arg{LocalSize: bound.localSize}
		default:
			args[i] = Arg{Value: bound.value}
		}
	}
	fn := k.fn
	e := d.newEvent(q, ocl.CommandNDRangeKernel, uint64(1000+items))
	id := ocl.EventID(e.handle)
	d.mu.Unlock()
	if fn != nil {
		fn(args, globalOffset, globalSize)
	}
	return id, ocl.Success
}

// EnqueueNativeKernel implements ocl.Driver. The storage address of
// each listed memory object is patched into args at its offset before
// fn runs.
func (d *Driver) EnqueueNativeKernel(queueID ocl.QueueID, fn func(args []byte), args []byte, mems []ocl.MemID, offsets []int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	if fn == nil || len(mems) != len(offsets) {
		return 0, ocl.InvalidValue
	}
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	patched := append([]byte(nil), args...)
	for i, id := range mems {
		m, st := d.memFromQueue(q, id)
		if !st.Ok() {
			d.mu.Unlock()
			return 0, st
		}
		off := offsets[i]
		ptrSize := int(unsafe.Sizeof(uintptr(0)))
		if off < 0 || off+ptrSize > len(patched) {
			d.mu.Unlock()
			return 0, ocl.InvalidValue
		}
		addr := uintptr(ptrOf(m.data))
		copy(patched[off:], unsafe.Slice((*byte)(unsafe.Pointer(&addr)), ptrSize))
	}
	e := d.newEvent(q, ocl.CommandNativeKernel, uint64(1000+len(args)))
	id := ocl.EventID(e.handle)
	d.mu.Unlock()
	fn(patched)
	return id, ocl.Success
}
