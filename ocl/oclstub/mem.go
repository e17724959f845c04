package oclstub

import (
	"github.com/goocl/goocl/ocl"
)

type memObj struct {
	handle uintptr
	refs   int
	ctx    *context
	flags  ocl.MemFlags
	typ    ocl.MemObjectType
	data   []byte

	// parent and origin describe sub-buffers; data aliases the parent
	// storage.
	parent *memObj
	origin int

	format   ocl.ImageFormat
	desc     ocl.ImageDesc
	elemSize int

	mapCount    int
	destructors []func()
}

type sampler struct {
	handle           uintptr
	refs             int
	ctx              *context
	normalizedCoords bool
	addressingMode   ocl.AddressingMode
	filterMode       ocl.FilterMode
}

// CreateBuffer implements ocl.Driver.
func (d *Driver) CreateBuffer(contextID ocl.ContextID, flags ocl.MemFlags, size int, host []byte) (ocl.MemID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ctx, ok := lookup[*context](d, uintptr(contextID))
	if !ok {
		return 0, ocl.InvalidContext
	}
	if size <= 0 {
		return 0, ocl.InvalidBufferSize
	}
	if flags&(ocl.MemCopyHostPtr|ocl.MemUseHostPtr) != 0 && host == nil {
		return 0, ocl.InvalidHostPtr
	}
	m := &memObj{refs: 1, ctx: ctx, flags: flags, typ: ocl.MemObjectBuffer}
	if flags&ocl.MemUseHostPtr != 0 {
		m.data = host[:size]
	} else {
		m.data = make([]byte, size)
		if flags&ocl.MemCopyHostPtr != 0 {
			copy(m.data, host)
		}
	}
	m.handle = d.newHandle(m)
	return ocl.MemID(m.handle), ocl.Success
}

// CreateSubBuffer implements ocl.Driver. The origin must be aligned to
// the base-address alignment of at least one context device.
func (d *Driver) CreateSubBuffer(bufferID ocl.MemID, flags ocl.MemFlags, origin, size int) (ocl.MemID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	parent, ok := lookup[*memObj](d, uintptr(bufferID))
	if !ok || parent.typ != ocl.MemObjectBuffer {
		return 0, ocl.InvalidMemObject
	}
	if parent.parent != nil {
		return 0, ocl.InvalidMemObject
	}
	if origin < 0 || size <= 0 || origin+size > len(parent.data) {
		return 0, ocl.InvalidValue
	}
	aligned := false
	for _, dev := range parent.ctx.devices {
		bits := *(*uint32)(ptrOf(dev.info[ocl.DeviceMemBaseAddrAlign]))
		if origin%(int(bits)/8) == 0 {
			aligned = true
			break
		}
	}
	if !aligned {
		return 0, ocl.MisalignedSubBufferOffset
	}
	parent.refs++
	m := &memObj{
		refs:   1,
		ctx:    parent.ctx,
		flags:  flags,
		typ:    ocl.MemObjectBuffer,
		data:   parent.data[origin : origin+size : origin+size],
		parent: parent,
		origin: origin,
	}
	m.handle = d.newHandle(m)
	return ocl.MemID(m.handle), ocl.Success
}

func channelCount(order uint32) int {
	switch order {
	case ocl.ChannelOrderRGBA, ocl.ChannelOrderBGRA, ocl.ChannelOrderARGB:
		return 4
	case ocl.ChannelOrderRGB:
		return 3
	case ocl.ChannelOrderRG, ocl.ChannelOrderRA:
		return 2
	default:
		return 1
	}
}

func channelSize(typ uint32) int {
	switch typ {
	case ocl.ChannelTypeSNormInt8, ocl.ChannelTypeUNormInt8,
		ocl.ChannelTypeSignedInt8, ocl.ChannelTypeUnsignedInt8:
		return 1
	case ocl.ChannelTypeSNormInt16, ocl.ChannelTypeUNormInt16,
		ocl.ChannelTypeSignedInt16, ocl.ChannelTypeUnsignedInt16,
		ocl.ChannelTypeHalfFloat:
		return 2
	default:
		return 4
	}
}

// CreateImage implements ocl.Driver.
func (d *Driver) CreateImage(contextID ocl.ContextID, flags ocl.MemFlags, format ocl.ImageFormat, desc ocl.ImageDesc, host []byte) (ocl.MemID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ctx, ok := lookup[*context](d, uintptr(contextID))
	if !ok {
		return 0, ocl.InvalidContext
	}
	width, height, depth := desc.Width, desc.Height, desc.Depth
	if height == 0 {
		height = 1
	}
	if depth == 0 {
		depth = 1
	}
	if width <= 0 || height <= 0 || depth <= 0 {
		return 0, ocl.InvalidImageSize
	}
	elem := channelCount(format.ChannelOrder) * channelSize(format.ChannelType)
	m := &memObj{
		refs:     1,
		ctx:      ctx,
		flags:    flags,
		typ:      ocl.MemObjectType(desc.Type),
		format:   format,
		desc:     desc,
		elemSize: elem,
		data:     make([]byte, width*height*depth*elem),
	}
	if flags&(ocl.MemCopyHostPtr|ocl.MemUseHostPtr) != 0 {
		if host == nil {
			return 0, ocl.InvalidHostPtr
		}
		copy(m.data, host)
	}
	m.handle = d.newHandle(m)
	return ocl.MemID(m.handle), ocl.Success
}

// GetSupportedImageFormats implements ocl.Driver.
func (d *Driver) GetSupportedImageFormats(contextID ocl.ContextID, flags ocl.MemFlags, imageType ocl.MemObjectType) ([]ocl.ImageFormat, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := lookup[*context](d, uintptr(contextID)); !ok {
		return nil, ocl.InvalidContext
	}
	return []ocl.ImageFormat{
		{ChannelOrder: ocl.ChannelOrderRGBA, ChannelType: ocl.ChannelTypeUNormInt8},
		{ChannelOrder: ocl.ChannelOrderRGBA, ChannelType: ocl.ChannelTypeFloat},
		{ChannelOrder: ocl.ChannelOrderR, ChannelType: ocl.ChannelTypeUNormInt8},
		{ChannelOrder: ocl.ChannelOrderR, ChannelType: ocl.ChannelTypeFloat},
	}, ocl.Success
}

// SetMemDestructorCallback implements ocl.Driver.
func (d *Driver) SetMemDestructorCallback(memID ocl.MemID, fn func()) ocl.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := lookup[*memObj](d, uintptr(memID))
	if !ok {
		return ocl.InvalidMemObject
	}
	if fn == nil {
		return ocl.InvalidValue
	}
	m.destructors = append(m.destructors, fn)
	return ocl.Success
}

// CreateSampler implements ocl.Driver.
func (d *Driver) CreateSampler(contextID ocl.ContextID, normalizedCoords bool, addressingMode ocl.AddressingMode, filterMode ocl.FilterMode) (ocl.SamplerID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ctx, ok := lookup[*context](d, uintptr(contextID))
	if !ok {
		return 0, ocl.InvalidContext
	}
	s := &sampler{
		refs:             1,
		ctx:              ctx,
		normalizedCoords: normalizedCoords,
		addressingMode:   addressingMode,
		filterMode:       filterMode,
	}
	s.handle = d.newHandle(s)
	return ocl.SamplerID(s.handle), ocl.Success
}

// CreateSamplerWithProperties implements ocl.Driver. A nil property list
// yields the default sampler.
func (d *Driver) CreateSamplerWithProperties(contextID ocl.ContextID, properties []uint64) (ocl.SamplerID, ocl.Status) {
	normalized := true
	addressing := ocl.AddressClamp
	filter := ocl.FilterNearest
	for i := 0; i+1 < len(properties) && properties[i] != 0; i += 2 {
		switch uint32(properties[i]) {
		case ocl.SamplerNormalizedCoords:
			normalized = properties[i+1] != 0
		case ocl.SamplerAddressingInfo:
			addressing = ocl.AddressingMode(properties[i+1])
		case ocl.SamplerFilterInfo:
			filter = ocl.FilterMode(properties[i+1])
		default:
			return 0, ocl.InvalidValue
		}
	}
	return d.CreateSampler(contextID, normalized, addressing, filter)
}
