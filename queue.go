package goocl

import (
	"sync"

	"github.com/goocl/goocl/ocl"
)

// Queue wraps an OpenCL command queue. Every event handed out by an
// enqueue operation is retained by the queue, so client code does not
// need to track event lifetimes: GC releases all retained events at
// once, and the prof package walks them after execution.
type Queue struct {
	*core

	// muLazy guards the lazily resolved context and device references.
	muLazy  sync.Mutex
	context *Context
	device  *Device

	muEvents sync.Mutex
	events   []*Event
}

// NewQueue creates a command queue for the (context, device, properties)
// triple. Pass ocl.QueueProfilingEnable to make the queue's events
// usable by the profiler.
func NewQueue(ctx *Context, device *Device, properties ocl.QueueProperties) (*Queue, error) {
	handle, st := drv().CreateQueue(ctx.ID(), device.ID(), properties)
	if !st.Ok() {
		return nil, apiError("creating command queue", st)
	}
	q := WrapQueue(handle)
	ctx.Ref()
	device.Ref()
	q.muLazy.Lock()
	q.context = ctx
	q.device = device
	q.muLazy.Unlock()
	return q, nil
}

// WrapQueue wraps an existing command-queue handle. If the handle is
// already wrapped the same wrapper is returned with its reference count
// incremented.
func WrapQueue(id ocl.QueueID) *Queue {
	return wrapHandle(ocl.KindQueue, uintptr(id), func(c *core) *Queue {
		return &Queue{core: c}
	})
}

// ID returns the native command-queue handle.
func (q *Queue) ID() ocl.QueueID { return ocl.QueueID(q.handle) }

// Release decrements the reference count. At zero the retained events
// and the context/device references are dropped, then the native queue
// is released.
func (q *Queue) Release() error {
	_, err := q.unref(func() {
		q.GC()
		q.muLazy.Lock()
		if q.context != nil {
			releaseQuiet(q.context)
			q.context = nil
		}
		if q.device != nil {
			releaseQuiet(q.device)
			q.device = nil
		}
		q.muLazy.Unlock()
	}, driverRelease(ocl.KindQueue))
	return err
}

// Context returns the context the queue was created on, resolving it
// through the runtime for wrapped queues. The returned wrapper is owned
// by the queue.
func (q *Queue) Context() (*Context, error) {
	q.muLazy.Lock()
	defer q.muLazy.Unlock()
	if q.context != nil {
		return q.context, nil
	}
	info, err := q.Info(ocl.QueueContext)
	if err != nil {
		return nil, err
	}
	id, err := InfoScalar[ocl.ContextID](info)
	if err != nil {
		return nil, err
	}
	q.context = WrapContext(id)
	return q.context, nil
}

// Device returns the device the queue was created on. The returned
// wrapper is owned by the queue.
func (q *Queue) Device() (*Device, error) {
	q.muLazy.Lock()
	defer q.muLazy.Unlock()
	if q.device != nil {
		return q.device, nil
	}
	info, err := q.Info(ocl.QueueDevice)
	if err != nil {
		return nil, err
	}
	id, err := InfoScalar[ocl.DeviceID](info)
	if err != nil {
		return nil, err
	}
	q.device = WrapDevice(id)
	return q.device, nil
}

// Info performs a generic command-queue information query.
func (q *Queue) Info(param uint32) (*Info, error) {
	return q.info(ocl.InfoQueue, 0, param)
}

// Properties returns the queue properties bitfield.
func (q *Queue) Properties() (ocl.QueueProperties, error) {
	info, err := q.Info(ocl.QueuePropertiesInfo)
	if err != nil {
		return 0, err
	}
	return InfoScalar[ocl.QueueProperties](info)
}

// ProfilingEnabled reports whether the queue was created with profiling
// enabled.
func (q *Queue) ProfilingEnabled() (bool, error) {
	properties, err := q.Properties()
	if err != nil {
		return false, err
	}
	return properties&ocl.QueueProfilingEnable != 0, nil
}

// retainEvent wraps an event handle produced by an enqueue and retains
// it in the queue.
func (q *Queue) retainEvent(id ocl.EventID) *Event {
	e := WrapEvent(id)
	q.muEvents.Lock()
	q.events = append(q.events, e)
	q.muEvents.Unlock()
	return e
}

// Events returns a snapshot of the events retained by the queue, in
// enqueue order. The events remain owned by the queue.
func (q *Queue) Events() []*Event {
	q.muEvents.Lock()
	defer q.muEvents.Unlock()
	out := make([]*Event, len(q.events))
	copy(out, q.events)
	return out
}

// GC releases all events retained by the queue. Call it between
// processing phases to bound event accumulation, or let Release do it.
func (q *Queue) GC() {
	q.muEvents.Lock()
	events := q.events
	q.events = nil
	q.muEvents.Unlock()
	for _, e := range events {
		releaseQuiet(e)
	}
}

// Flush submits all queued commands to the device without waiting for
// them.
func (q *Queue) Flush() error {
	if st := drv().Flush(q.ID()); !st.Ok() {
		return apiError("flushing queue", st)
	}
	return nil
}

// Finish blocks until all queued commands have completed.
func (q *Queue) Finish() error {
	if st := drv().Finish(q.ID()); !st.Ok() {
		return apiError("finishing queue", st)
	}
	return nil
}

// EnqueueMarker enqueues a marker command that completes when all events
// in the wait list (or, with an empty list, all previously enqueued
// commands) have completed. Consumes the wait list.
func (q *Queue) EnqueueMarker(wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueMarker(q.ID(), wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing marker", st)
	}
	return q.retainEvent(id), nil
}

// EnqueueBarrier enqueues a barrier: commands enqueued after it only
// start once the wait list (or all prior commands) completed. Consumes
// the wait list.
func (q *Queue) EnqueueBarrier(wait *WaitList) (*Event, error) {
	id, st := drv().EnqueueBarrier(q.ID(), wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing barrier", st)
	}
	return q.retainEvent(id), nil
}
