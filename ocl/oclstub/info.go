package oclstub

import (
	"strings"

	"github.com/goocl/goocl/ocl"
)

// GetInfo implements ocl.Driver. Parameters the stub does not model are
// reported as size zero with success, which the wrapper layer maps to
// its information-unavailable error.
func (d *Driver) GetInfo(target ocl.InfoTarget, object, aux uintptr, param uint32, value []byte) (int, ocl.Status) {
	d.infoCalls.Add(1)
	d.mu.Lock()
	b, st := d.infoBytes(target, object, aux, param)
	d.mu.Unlock()
	if !st.Ok() {
		return 0, st
	}
	if value == nil {
		return len(b), ocl.Success
	}
	if len(value) < len(b) {
		return 0, ocl.InvalidValue
	}
	copy(value, b)
	return len(b), ocl.Success
}

func (d *Driver) infoBytes(target ocl.InfoTarget, object, aux uintptr, param uint32) ([]byte, ocl.Status) {
	switch target {
	case ocl.InfoPlatform:
		p, ok := lookup[*platform](d, object)
		if !ok {
			return nil, ocl.InvalidPlatform
		}
		return p.info[param], ocl.Success

	case ocl.InfoDevice:
		dev, ok := lookup[*device](d, object)
		if !ok {
			return nil, ocl.InvalidDevice
		}
		if param == ocl.DeviceReferenceCount {
			refs := uint32(1)
			if dev.parent != nil {
				refs = uint32(dev.refs)
			}
			return bytesOf(refs), ocl.Success
		}
		if param == kernelWorkGroupMultiple {
			return nil, ocl.InvalidValue
		}
		return dev.info[param], ocl.Success

	case ocl.InfoContext:
		ctx, ok := lookup[*context](d, object)
		if !ok {
			return nil, ocl.InvalidContext
		}
		switch param {
		case ocl.ContextReferenceCount:
			return bytesOf(uint32(ctx.refs)), ocl.Success
		case ocl.ContextNumDevices:
			return bytesOf(uint32(len(ctx.devices))), ocl.Success
		case ocl.ContextDevices:
			ids := make([]ocl.DeviceID, len(ctx.devices))
			for i, dev := range ctx.devices {
				ids[i] = ocl.DeviceID(dev.handle)
			}
			return sliceBytes(ids), ocl.Success
		case ocl.ContextProperties:
			return sliceBytes(ctx.properties), ocl.Success
		}
		return nil, ocl.Success

	case ocl.InfoQueue:
		q, ok := lookup[*queue](d, object)
		if !ok {
			return nil, ocl.InvalidCommandQueue
		}
		switch param {
		case ocl.QueueContext:
			return bytesOf(ocl.ContextID(q.ctx.handle)), ocl.Success
		case ocl.QueueDevice:
			return bytesOf(ocl.DeviceID(q.dev.handle)), ocl.Success
		case ocl.QueueReferenceCount:
			return bytesOf(uint32(q.refs)), ocl.Success
		case ocl.QueuePropertiesInfo:
			return bytesOf(q.props), ocl.Success
		}
		return nil, ocl.Success

	case ocl.InfoMem:
		m, ok := lookup[*memObj](d, object)
		if !ok {
			return nil, ocl.InvalidMemObject
		}
		switch param {
		case ocl.MemTypeInfo:
			return bytesOf(m.typ), ocl.Success
		case ocl.MemFlagsInfo:
			return bytesOf(m.flags), ocl.Success
		case ocl.MemSizeInfo:
			return bytesOf(uintptr(len(m.data))), ocl.Success
		case ocl.MemMapCount:
			return bytesOf(uint32(m.mapCount)), ocl.Success
		case ocl.MemReferenceCount:
			return bytesOf(uint32(m.refs)), ocl.Success
		case ocl.MemContextInfo:
			return bytesOf(ocl.ContextID(m.ctx.handle)), ocl.Success
		case ocl.MemAssociatedMemObject:
			if m.parent == nil {
				return bytesOf(ocl.MemID(0)), ocl.Success
			}
			return bytesOf(ocl.MemID(m.parent.handle)), ocl.Success
		case ocl.MemOffsetInfo:
			return bytesOf(uintptr(m.origin)), ocl.Success
		}
		return nil, ocl.Success

	case ocl.InfoImage:
		m, ok := lookup[*memObj](d, object)
		if !ok || m.elemSize == 0 {
			return nil, ocl.InvalidMemObject
		}
		width, height, rowPitch, slicePitch := m.imageGeometry()
		switch param {
		case ocl.ImageFormatInfo:
			return bytesOf(m.format), ocl.Success
		case ocl.ImageElementSize:
			return bytesOf(uintptr(m.elemSize)), ocl.Success
		case ocl.ImageRowPitchInfo:
			return bytesOf(uintptr(rowPitch)), ocl.Success
		case ocl.ImageSlicePitchInfo:
			return bytesOf(uintptr(slicePitch)), ocl.Success
		case ocl.ImageWidthInfo:
			return bytesOf(uintptr(width)), ocl.Success
		case ocl.ImageHeightInfo:
			return bytesOf(uintptr(height)), ocl.Success
		case ocl.ImageDepthInfo:
			depth := m.desc.Depth
			if depth == 0 {
				depth = 1
			}
			return bytesOf(uintptr(depth)), ocl.Success
		case ocl.ImageArraySizeInfo:
			return bytesOf(uintptr(m.desc.ArraySize)), ocl.Success
		case ocl.ImageBufferInfo:
			return bytesOf(m.desc.Buffer), ocl.Success
		}
		return nil, ocl.Success

	case ocl.InfoSampler:
		s, ok := lookup[*sampler](d, object)
		if !ok {
			return nil, ocl.InvalidSampler
		}
		switch param {
		case ocl.SamplerReferenceCount:
			return bytesOf(uint32(s.refs)), ocl.Success
		case ocl.SamplerContextInfo:
			return bytesOf(ocl.ContextID(s.ctx.handle)), ocl.Success
		case ocl.SamplerNormalizedCoords:
			v := uint32(0)
			if s.normalizedCoords {
				v = 1
			}
			return bytesOf(v), ocl.Success
		case ocl.SamplerAddressingInfo:
			return bytesOf(s.addressingMode), ocl.Success
		case ocl.SamplerFilterInfo:
			return bytesOf(s.filterMode), ocl.Success
		}
		return nil, ocl.Success

	case ocl.InfoProgram:
		p, ok := lookup[*program](d, object)
		if !ok {
			return nil, ocl.InvalidProgram
		}
		switch param {
		case ocl.ProgramReferenceCount:
			return bytesOf(uint32(p.refs)), ocl.Success
		case ocl.ProgramContextInfo:
			return bytesOf(ocl.ContextID(p.ctx.handle)), ocl.Success
		case ocl.ProgramNumDevices:
			return bytesOf(uint32(len(p.ctx.devices))), ocl.Success
		case ocl.ProgramDevicesInfo:
			ids := make([]ocl.DeviceID, len(p.ctx.devices))
			for i, dev := range p.ctx.devices {
				ids[i] = ocl.DeviceID(dev.handle)
			}
			return sliceBytes(ids), ocl.Success
		case ocl.ProgramSourceInfo:
			return stringBytes(strings.Join(p.sources, "\n")), ocl.Success
		case ocl.ProgramBinarySizes:
			binary := []byte(strings.Join(p.sources, "\n"))
			sizes := make([]uintptr, len(p.ctx.devices))
			for i := range sizes {
				sizes[i] = uintptr(len(binary))
			}
			return sliceBytes(sizes), ocl.Success
		case ocl.ProgramBinariesInfo:
			binary := []byte(strings.Join(p.sources, "\n"))
			out := make([]byte, 0, len(binary)*len(p.ctx.devices))
			for range p.ctx.devices {
				out = append(out, binary...)
			}
			return out, ocl.Success
		case ocl.ProgramNumKernels, ocl.ProgramKernelNames:
			var names []string
			for name := range d.kernelFuncs {
				if p.mentionsKernel(name) {
					names = append(names, name)
				}
			}
			if param == ocl.ProgramNumKernels {
				return bytesOf(uintptr(len(names))), ocl.Success
			}
			return stringBytes(strings.Join(names, ";")), ocl.Success
		}
		return nil, ocl.Success

	case ocl.InfoProgramBuild:
		p, ok := lookup[*program](d, object)
		if !ok {
			return nil, ocl.InvalidProgram
		}
		if _, ok := lookup[*device](d, aux); !ok {
			return nil, ocl.InvalidDevice
		}
		switch param {
		case ocl.ProgramBuildStatusInfo:
			status, ok := p.buildStatus[aux]
			if !ok {
				status = ocl.BuildNone
			}
			return bytesOf(status), ocl.Success
		case ocl.ProgramBuildOptions:
			return stringBytes(p.options), ocl.Success
		case ocl.ProgramBuildLog:
			return stringBytes(p.buildLog[aux]), ocl.Success
		}
		return nil, ocl.Success

	case ocl.InfoKernel:
		k, ok := lookup[*kernel](d, object)
		if !ok {
			return nil, ocl.InvalidKernel
		}
		switch param {
		case ocl.KernelFunctionName:
			return stringBytes(k.name), ocl.Success
		case ocl.KernelNumArgs:
			return bytesOf(k.numArgs), ocl.Success
		case ocl.KernelReferenceCount:
			return bytesOf(uint32(k.refs)), ocl.Success
		case ocl.KernelContextInfo:
			return bytesOf(ocl.ContextID(k.prog.ctx.handle)), ocl.Success
		case ocl.KernelProgramInfo:
			return bytesOf(ocl.ProgramID(k.prog.handle)), ocl.Success
		case ocl.KernelAttributes:
			return stringBytes(""), ocl.Success
		}
		return nil, ocl.Success

	case ocl.InfoKernelArg:
		if _, ok := lookup[*kernel](d, object); !ok {
			return nil, ocl.InvalidKernel
		}
		// Argument introspection needs compiled metadata the stub does
		// not keep.
		return nil, ocl.KernelArgInfoNotAvailable

	case ocl.InfoKernelWorkGroup:
		if _, ok := lookup[*kernel](d, object); !ok {
			return nil, ocl.InvalidKernel
		}
		dev, ok := lookup[*device](d, aux)
		if !ok {
			return nil, ocl.InvalidDevice
		}
		switch param {
		case ocl.KernelWorkGroupSize:
			return dev.info[ocl.DeviceMaxWorkGroupSize], ocl.Success
		case ocl.KernelPreferredWorkGroupMultiple:
			return dev.info[kernelWorkGroupMultiple], ocl.Success
		case ocl.KernelCompileWorkGroupSize:
			return sliceBytes([]uintptr{0, 0, 0}), ocl.Success
		case ocl.KernelLocalMemSize, ocl.KernelPrivateMemSize:
			return bytesOf(uint64(0)), ocl.Success
		}
		return nil, ocl.Success

	case ocl.InfoEvent:
		e, ok := lookup[*event](d, object)
		if !ok {
			return nil, ocl.InvalidEvent
		}
		switch param {
		case ocl.EventCommandQueue:
			if e.queue == nil {
				return bytesOf(ocl.QueueID(0)), ocl.Success
			}
			return bytesOf(ocl.QueueID(e.queue.handle)), ocl.Success
		case ocl.EventCommandType:
			return bytesOf(e.cmd), ocl.Success
		case ocl.EventCommandExecStatus:
			return bytesOf(e.status), ocl.Success
		case ocl.EventReferenceCount:
			return bytesOf(uint32(e.refs)), ocl.Success
		case ocl.EventContextInfo:
			return bytesOf(ocl.ContextID(e.ctx.handle)), ocl.Success
		}
		return nil, ocl.Success

	case ocl.InfoEventProfiling:
		e, ok := lookup[*event](d, object)
		if !ok {
			return nil, ocl.InvalidEvent
		}
		if e.queue == nil || e.queue.props&ocl.QueueProfilingEnable == 0 {
			return nil, ocl.ProfilingInfoNotAvailable
		}
		switch param {
		case ocl.ProfilingCommandQueued:
			return bytesOf(e.queued), ocl.Success
		case ocl.ProfilingCommandSubmit:
			return bytesOf(e.submit), ocl.Success
		case ocl.ProfilingCommandStart:
			return bytesOf(e.start), ocl.Success
		case ocl.ProfilingCommandEnd:
			return bytesOf(e.end), ocl.Success
		}
		return nil, ocl.Success
	}
	return nil, ocl.InvalidValue
}
