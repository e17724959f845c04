package goocl

import (
	"github.com/goocl/goocl/ocl"
)

// Sampler wraps an OpenCL sampler object.
type Sampler struct {
	*core
}

// NewSampler creates a sampler from the three classic parameters.
func NewSampler(ctx *Context, normalizedCoords bool, addressingMode ocl.AddressingMode, filterMode ocl.FilterMode) (*Sampler, error) {
	d, err := CurrentDriver()
	if err != nil {
		return nil, err
	}
	handle, st := d.CreateSampler(ctx.ID(), normalizedCoords, addressingMode, filterMode)
	if !st.Ok() {
		return nil, apiError("creating sampler", st)
	}
	return WrapSampler(handle), nil
}

// NewSamplerWithProperties creates a sampler from a zero-terminated
// property list of (name, value) pairs, e.g.
//
//	[]uint64{uint64(ocl.SamplerNormalizedCoords), 0, uint64(ocl.SamplerFilterInfo), uint64(ocl.FilterNearest), 0}
//
// A nil list requests the default sampler.
func NewSamplerWithProperties(ctx *Context, properties []uint64) (*Sampler, error) {
	d, err := CurrentDriver()
	if err != nil {
		return nil, err
	}
	handle, st := d.CreateSamplerWithProperties(ctx.ID(), properties)
	if !st.Ok() {
		return nil, apiError("creating sampler", st)
	}
	return WrapSampler(handle), nil
}

// WrapSampler wraps an existing sampler handle. If the handle is already
// wrapped the same wrapper is returned with its reference count
// incremented.
func WrapSampler(id ocl.SamplerID) *Sampler {
	return wrapHandle(ocl.KindSampler, uintptr(id), func(c *core) *Sampler {
		return &Sampler{core: c}
	})
}

// ID returns the native sampler handle.
func (s *Sampler) ID() ocl.SamplerID { return ocl.SamplerID(s.handle) }

// Release decrements the reference count, releasing the native sampler
// at zero.
func (s *Sampler) Release() error {
	_, err := s.unref(nil, driverRelease(ocl.KindSampler))
	return err
}

// Info performs a generic sampler information query.
func (s *Sampler) Info(param uint32) (*Info, error) {
	return s.info(ocl.InfoSampler, 0, param)
}

// NormalizedCoords reports whether the sampler uses normalized
// coordinates.
func (s *Sampler) NormalizedCoords() (bool, error) {
	info, err := s.Info(ocl.SamplerNormalizedCoords)
	if err != nil {
		return false, err
	}
	value, err := InfoScalar[uint32](info)
	return value != 0, err
}

// AddressingMode returns the sampler addressing mode.
func (s *Sampler) AddressingMode() (ocl.AddressingMode, error) {
	info, err := s.Info(ocl.SamplerAddressingInfo)
	if err != nil {
		return 0, err
	}
	return InfoScalar[ocl.AddressingMode](info)
}

// FilterMode returns the sampler filter mode.
func (s *Sampler) FilterMode() (ocl.FilterMode, error) {
	info, err := s.Info(ocl.SamplerFilterInfo)
	if err != nil {
		return 0, err
	}
	return InfoScalar[ocl.FilterMode](info)
}
