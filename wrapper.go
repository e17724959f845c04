package goocl

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
	"k8s.io/klog/v2"

	"github.com/goocl/goocl/ocl"
)

// Wrapper is the behavior common to every concrete wrapper type: an
// owning, reference-counted façade over a single opaque native handle.
type Wrapper interface {
	// Kind returns the entity class of the wrapped handle.
	Kind() ocl.ObjectKind
	// Handle returns the wrapped native handle.
	Handle() uintptr
	// Ref increments the reference count.
	Ref()
	// RefCount returns the current reference count. For debugging and
	// testing.
	RefCount() int32
	// Release decrements the reference count and destroys the wrapper
	// when it reaches zero, releasing owned children first and the
	// native handle last. The only error it can report is a failure of
	// the native release call.
	Release() error

	base() *core
}

// core carries the state shared by all wrappers: handle, refcount and the
// information cache. Concrete wrapper types embed it.
type core struct {
	kind   ocl.ObjectKind
	handle uintptr
	refs   atomic.Int32

	// muInfo guards infos; flight coalesces concurrent queries for the
	// same parameter into a single runtime round-trip.
	muInfo sync.Mutex
	infos  map[infoKey]*Info
	flight singleflight.Group
}

type infoKey struct {
	target ocl.InfoTarget
	aux    uintptr
	param  uint32
}

// Kind returns the entity class of the wrapped handle.
func (c *core) Kind() ocl.ObjectKind { return c.kind }

// Handle returns the wrapped native handle.
func (c *core) Handle() uintptr { return c.handle }

// Ref increments the reference count.
func (c *core) Ref() { c.refs.Add(1) }

// RefCount returns the current reference count.
func (c *core) RefCount() int32 { return c.refs.Load() }

func (c *core) base() *core { return c }

// registry is the process-wide bidirectional handle-to-wrapper mapping.
// Wrapping a handle that is already wrapped returns the live wrapper, so
// the many runtime calls that leak handles through return values never
// produce duplicate wrappers.
var registry = struct {
	sync.Mutex
	table map[uintptr]Wrapper
}{table: make(map[uintptr]Wrapper)}

// wrapHandle returns the wrapper for handle, creating it with build on
// first sight. The returned wrapper has its reference count incremented.
func wrapHandle[W Wrapper](kind ocl.ObjectKind, handle uintptr, build func(*core) W) W {
	registry.Lock()
	defer registry.Unlock()
	if live, ok := registry.table[handle]; ok {
		w, ok := live.(W)
		if !ok {
			panic(fmt.Sprintf("goocl: handle %#x already wrapped as %s, rewrapped as %s",
				handle, live.Kind(), kind))
		}
		w.base().refs.Add(1)
		return w
	}
	c := &core{kind: kind, handle: handle}
	c.refs.Store(1)
	w := build(c)
	registry.table[handle] = w
	return w
}

// unref decrements the reference count. At zero it runs releaseFields
// (which releases owned child wrappers), then the native release call,
// and removes the wrapper from the handle registry. Returns whether the
// wrapper was destroyed and any native release failure.
func (c *core) unref(releaseFields func(), releaseHandle func(uintptr) ocl.Status) (bool, error) {
	registry.Lock()
	left := c.refs.Add(-1)
	if left > 0 {
		registry.Unlock()
		return false, nil
	}
	if left < 0 {
		registry.Unlock()
		return false, errors.WithMessagef(ErrInvalidArgument,
			"release of already-destroyed %s wrapper", c.kind)
	}
	delete(registry.table, c.handle)
	registry.Unlock()

	if releaseFields != nil {
		releaseFields()
	}
	var err error
	if releaseHandle != nil {
		if st := releaseHandle(c.handle); !st.Ok() {
			err = apiError(fmt.Sprintf("releasing %s handle", c.kind), st)
		}
	}
	c.muInfo.Lock()
	c.infos = nil
	c.muInfo.Unlock()
	return true, err
}

// driverRelease returns the standard native release callback for the
// given entity class.
func driverRelease(kind ocl.ObjectKind) func(uintptr) ocl.Status {
	return func(handle uintptr) ocl.Status {
		return drv().Release(kind, handle)
	}
}

// ReleaseQuiet releases a wrapper on paths that have no error return
// (deferred teardown, garbage collection); a native release failure is
// logged instead.
func ReleaseQuiet(w Wrapper) {
	if err := w.Release(); err != nil {
		klog.Warningf("goocl: %v", err)
	}
}

func releaseQuiet(w Wrapper) { ReleaseQuiet(w) }

// Memcheck reports whether no wrappers are currently alive. Test helper
// for detecting reference-count leaks.
func Memcheck() bool {
	registry.Lock()
	defer registry.Unlock()
	return len(registry.table) == 0
}

// LiveWrappers returns a snapshot of all currently alive wrappers.
func LiveWrappers() []Wrapper {
	registry.Lock()
	defer registry.Unlock()
	out := make([]Wrapper, 0, len(registry.table))
	for _, w := range registry.table {
		out = append(out, w)
	}
	return out
}

// dynamicParam reports whether an attribute can change over the
// wrapper's lifetime. Dynamic attributes bypass the info cache: event
// execution status advances as the command runs, build info changes
// with every build call, and native reference counts move with every
// retain/release.
func dynamicParam(target ocl.InfoTarget, param uint32) bool {
	if target == ocl.InfoProgramBuild {
		return true
	}
	if target == ocl.InfoEvent && param == ocl.EventCommandExecStatus {
		return true
	}
	switch param {
	case ocl.DeviceReferenceCount, ocl.ContextReferenceCount,
		ocl.QueueReferenceCount, ocl.MemReferenceCount,
		ocl.SamplerReferenceCount, ocl.ProgramReferenceCount,
		ocl.KernelReferenceCount, ocl.EventReferenceCount,
		ocl.MemMapCount:
		return true
	}
	return false
}

// info performs a generic information query with caching: a cached record
// is returned as is; otherwise the runtime is asked for the size and then
// the value, and the record is stored. Concurrent first queries for the
// same parameter coalesce into one round-trip. Dynamic attributes (see
// dynamicParam) skip the cache entirely.
//
// When the runtime reports the attribute as nonexistent (a successful
// size query returning zero), a null record is stored and returned
// together with ErrInfoUnavailable, so callers can distinguish "absent"
// from a transport failure.
func (c *core) info(target ocl.InfoTarget, aux uintptr, param uint32) (*Info, error) {
	if dynamicParam(target, param) {
		return c.fetchInfo(target, aux, param, false)
	}

	key := infoKey{target: target, aux: aux, param: param}
	c.muInfo.Lock()
	if cached, ok := c.infos[key]; ok {
		c.muInfo.Unlock()
		if cached.Bytes == nil {
			return cached, errors.WithMessagef(ErrInfoUnavailable,
				"%s parameter %#x", target, param)
		}
		return cached, nil
	}
	c.muInfo.Unlock()

	flightKey := fmt.Sprintf("%d/%#x/%#x", target, aux, param)
	v, err, _ := c.flight.Do(flightKey, func() (any, error) {
		return c.fetchInfo(target, aux, param, true)
	})
	info, _ := v.(*Info)
	if info == nil {
		return nil, err
	}
	return info, err
}

// fetchInfo asks the runtime for an attribute's size and value, storing
// the record in the cache when cache is set.
func (c *core) fetchInfo(target ocl.InfoTarget, aux uintptr, param uint32, cache bool) (*Info, error) {
	d := drv()
	size, st := d.GetInfo(target, c.handle, aux, param, nil)
	if !st.Ok() {
		return nil, apiError(fmt.Sprintf("%s size query (param %#x)", target, param), st)
	}
	if size == 0 {
		info := &Info{}
		if cache {
			c.storeInfo(infoKey{target: target, aux: aux, param: param}, info)
		}
		return info, errors.WithMessagef(ErrInfoUnavailable,
			"%s parameter %#x", target, param)
	}
	info := &Info{Size: size, Bytes: make([]byte, size)}
	if _, st = d.GetInfo(target, c.handle, aux, param, info.Bytes); !st.Ok() {
		return nil, apiError(fmt.Sprintf("%s value query (param %#x)", target, param), st)
	}
	if cache {
		c.storeInfo(infoKey{target: target, aux: aux, param: param}, info)
	}
	return info, nil
}

// storeInfo attaches an information record to the wrapper, replacing any
// record cached under the same key. The record's lifetime becomes bound
// to the wrapper's.
func (c *core) storeInfo(key infoKey, info *Info) {
	c.muInfo.Lock()
	defer c.muInfo.Unlock()
	if c.infos == nil {
		c.infos = make(map[infoKey]*Info)
	}
	c.infos[key] = info
}
