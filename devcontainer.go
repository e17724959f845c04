package goocl

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

// deviceContainer is the mixin shared by the wrapper types that contain
// devices (platform, context, program). The device list is fetched
// lazily, on first use, through the fetch callback supplied by the
// embedding wrapper; each fetched handle is wrapped through the handle
// registry, so devices shared between containers resolve to the same
// wrapper.
type deviceContainer struct {
	mu      sync.Mutex
	fetched bool
	devices []*Device
}

// initDevices runs fetch once and wraps the returned handles.
func (dc *deviceContainer) initDevices(fetch func() ([]ocl.DeviceID, error)) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if dc.fetched {
		return nil
	}
	ids, err := fetch()
	if err != nil {
		return err
	}
	devices := make([]*Device, len(ids))
	for i, id := range ids {
		devices[i] = WrapDevice(id)
	}
	dc.devices = devices
	dc.fetched = true
	return nil
}

// numDevices returns the number of contained devices.
func (dc *deviceContainer) numDevices(fetch func() ([]ocl.DeviceID, error)) (int, error) {
	if err := dc.initDevices(fetch); err != nil {
		return 0, err
	}
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return len(dc.devices), nil
}

// deviceAt returns contained device #i.
func (dc *deviceContainer) deviceAt(i int, fetch func() ([]ocl.DeviceID, error)) (*Device, error) {
	if err := dc.initDevices(fetch); err != nil {
		return nil, err
	}
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if i < 0 || i >= len(dc.devices) {
		return nil, errors.WithMessagef(ErrInvalidArgument,
			"device index %d out of range (%d devices)", i, len(dc.devices))
	}
	return dc.devices[i], nil
}

// allDevices returns a snapshot of the contained devices.
func (dc *deviceContainer) allDevices(fetch func() ([]ocl.DeviceID, error)) ([]*Device, error) {
	if err := dc.initDevices(fetch); err != nil {
		return nil, err
	}
	dc.mu.Lock()
	defer dc.mu.Unlock()
	out := make([]*Device, len(dc.devices))
	copy(out, dc.devices)
	return out, nil
}

// releaseDevices drops the container's references to its devices. Called
// from the embedding wrapper's field-release path; user-held device
// wrappers outlive the container.
func (dc *deviceContainer) releaseDevices() {
	dc.mu.Lock()
	devices := dc.devices
	dc.devices = nil
	dc.fetched = false
	dc.mu.Unlock()
	for _, d := range devices {
		releaseQuiet(d)
	}
}
