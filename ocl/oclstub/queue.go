package oclstub

import (
	"github.com/goocl/goocl/ocl"
)

type context struct {
	handle     uintptr
	refs       int
	devices    []*device
	properties []uint64
}

type queue struct {
	handle uintptr
	refs   int
	ctx    *context
	dev    *device
	props  ocl.QueueProperties

	// busyUntil is the end of the last execution window on this queue's
	// timeline; in-order execution serializes against it.
	busyUntil uint64
}

type event struct {
	handle uintptr
	refs   int
	ctx    *context
	queue  *queue
	cmd    ocl.CommandType
	status int32

	queued, submit, start, end uint64

	// done is closed when the event completes. Pre-closed for the
	// synchronous commands, pending for user events.
	done      chan struct{}
	callbacks []eventCallback
}

type eventCallback struct {
	status int32
	fn     func(ocl.EventID, int32)
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// CreateContext implements ocl.Driver.
func (d *Driver) CreateContext(properties []uint64, devices []ocl.DeviceID) (ocl.ContextID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(devices) == 0 {
		return 0, ocl.InvalidValue
	}
	ctx := &context{refs: 1, properties: append([]uint64(nil), properties...)}
	for _, id := range devices {
		dev, ok := lookup[*device](d, uintptr(id))
		if !ok {
			return 0, ocl.InvalidDevice
		}
		ctx.devices = append(ctx.devices, dev)
	}
	ctx.handle = d.newHandle(ctx)
	return ocl.ContextID(ctx.handle), ocl.Success
}

// CreateQueue implements ocl.Driver.
func (d *Driver) CreateQueue(contextID ocl.ContextID, deviceID ocl.DeviceID, properties ocl.QueueProperties) (ocl.QueueID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ctx, ok := lookup[*context](d, uintptr(contextID))
	if !ok {
		return 0, ocl.InvalidContext
	}
	var dev *device
	for _, candidate := range ctx.devices {
		if candidate.handle == uintptr(deviceID) {
			dev = candidate
			break
		}
	}
	if dev == nil {
		return 0, ocl.InvalidDevice
	}
	q := &queue{refs: 1, ctx: ctx, dev: dev, props: properties}
	q.handle = d.newHandle(q)
	return ocl.QueueID(q.handle), ocl.Success
}

// newEvent stamps a completed event on the queue's timeline: queued and
// submitted a tick after the previous command anywhere in the runtime,
// started as soon as the queue is free, and running for cost
// nanoseconds. Callers hold mu.
func (d *Driver) newEvent(q *queue, cmd ocl.CommandType, cost uint64) *event {
	e := &event{
		refs:   1,
		ctx:    q.ctx,
		queue:  q,
		cmd:    cmd,
		status: ocl.ExecComplete,
		done:   closedChan,
	}
	e.queued = d.tick(10)
	e.submit = d.tick(10)
	e.start = e.submit
	if q.busyUntil > e.start {
		e.start = q.busyUntil
	}
	e.end = e.start + cost
	q.busyUntil = e.end
	e.handle = d.newHandle(e)
	return e
}

// awaitEvents blocks until every listed event has completed, which only
// matters for user events. Must be called without holding mu.
func (d *Driver) awaitEvents(ids []ocl.EventID) ocl.Status {
	for _, id := range ids {
		d.mu.Lock()
		e, ok := lookup[*event](d, uintptr(id))
		d.mu.Unlock()
		if !ok {
			return ocl.InvalidEventWaitList
		}
		<-e.done
		if e.status < 0 {
			return ocl.ExecStatusErrorForEventsInWaitList
		}
	}
	return ocl.Success
}

// queueFromWait resolves the queue and waits out the dependency list,
// the common prologue of every enqueue.
func (d *Driver) queueFromWait(queueID ocl.QueueID, wait []ocl.EventID) (*queue, ocl.Status) {
	if st := d.awaitEvents(wait); !st.Ok() {
		return nil, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	q, ok := lookup[*queue](d, uintptr(queueID))
	if !ok {
		return nil, ocl.InvalidCommandQueue
	}
	return q, ocl.Success
}

// EnqueueMarker implements ocl.Driver.
func (d *Driver) EnqueueMarker(queueID ocl.QueueID, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.newEvent(q, ocl.CommandMarker, 1)
	return ocl.EventID(e.handle), ocl.Success
}

// EnqueueBarrier implements ocl.Driver.
func (d *Driver) EnqueueBarrier(queueID ocl.QueueID, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.newEvent(q, ocl.CommandBarrier, 1)
	return ocl.EventID(e.handle), ocl.Success
}

// Flush implements ocl.Driver. Commands execute at enqueue, so there is
// nothing to push.
func (d *Driver) Flush(queueID ocl.QueueID) ocl.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := lookup[*queue](d, uintptr(queueID)); !ok {
		return ocl.InvalidCommandQueue
	}
	return ocl.Success
}

// Finish implements ocl.Driver.
func (d *Driver) Finish(queueID ocl.QueueID) ocl.Status {
	return d.Flush(queueID)
}

// WaitForEvents implements ocl.Driver.
func (d *Driver) WaitForEvents(events []ocl.EventID) ocl.Status {
	if len(events) == 0 {
		return ocl.InvalidValue
	}
	return d.awaitEvents(events)
}

// SetEventCallback implements ocl.Driver. Callbacks for already-reached
// statuses run synchronously.
func (d *Driver) SetEventCallback(eventID ocl.EventID, callbackType int32, fn func(ocl.EventID, int32)) ocl.Status {
	if fn == nil {
		return ocl.InvalidValue
	}
	d.mu.Lock()
	e, ok := lookup[*event](d, uintptr(eventID))
	if !ok {
		d.mu.Unlock()
		return ocl.InvalidEvent
	}
	pending := e.status > callbackType
	if pending {
		e.callbacks = append(e.callbacks, eventCallback{status: callbackType, fn: fn})
	}
	d.mu.Unlock()
	if !pending {
		fn(eventID, callbackType)
	}
	return ocl.Success
}

// CreateUserEvent implements ocl.Driver.
func (d *Driver) CreateUserEvent(contextID ocl.ContextID) (ocl.EventID, ocl.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ctx, ok := lookup[*context](d, uintptr(contextID))
	if !ok {
		return 0, ocl.InvalidContext
	}
	e := &event{
		refs:   1,
		ctx:    ctx,
		cmd:    ocl.CommandUser,
		status: ocl.ExecSubmitted,
		done:   make(chan struct{}),
	}
	e.handle = d.newHandle(e)
	return ocl.EventID(e.handle), ocl.Success
}

// SetUserEventStatus implements ocl.Driver. The status may be set once,
// to ExecComplete or to a negative error code.
func (d *Driver) SetUserEventStatus(eventID ocl.EventID, status int32) ocl.Status {
	if status > 0 {
		return ocl.InvalidValue
	}
	d.mu.Lock()
	e, ok := lookup[*event](d, uintptr(eventID))
	if !ok || e.cmd != ocl.CommandUser {
		d.mu.Unlock()
		return ocl.InvalidEvent
	}
	if e.status <= ocl.ExecComplete {
		d.mu.Unlock()
		return ocl.InvalidOperation
	}
	e.status = status
	callbacks := e.callbacks
	e.callbacks = nil
	close(e.done)
	d.mu.Unlock()
	for _, cb := range callbacks {
		cb.fn(eventID, status)
	}
	return ocl.Success
}

// Retain implements ocl.Driver. Platforms and root devices are not
// reference counted.
func (d *Driver) Retain(kind ocl.ObjectKind, handle uintptr) ocl.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	obj, ok := d.objects[handle]
	if !ok {
		return invalidHandleStatus(kind)
	}
	switch o := obj.(type) {
	case *platform:
	case *device:
		if o.parent != nil {
			o.refs++
		}
	case *context:
		o.refs++
	case *queue:
		o.refs++
	case *memObj:
		o.refs++
	case *sampler:
		o.refs++
	case *program:
		o.refs++
	case *kernel:
		o.refs++
	case *event:
		o.refs++
	default:
		return invalidHandleStatus(kind)
	}
	return ocl.Success
}

// Release implements ocl.Driver. The last release of a memory object
// runs its destructor callbacks in reverse registration order.
func (d *Driver) Release(kind ocl.ObjectKind, handle uintptr) ocl.Status {
	d.mu.Lock()
	obj, ok := d.objects[handle]
	if !ok {
		d.mu.Unlock()
		return invalidHandleStatus(kind)
	}
	var destructors []func()
	switch o := obj.(type) {
	case *platform:
	case *device:
		if o.parent != nil {
			o.refs--
			if o.refs == 0 {
				delete(d.objects, handle)
			}
		}
	case *context:
		o.refs--
		if o.refs == 0 {
			delete(d.objects, handle)
		}
	case *queue:
		o.refs--
		if o.refs == 0 {
			delete(d.objects, handle)
		}
	case *memObj:
		o.refs--
		if o.refs == 0 {
			destructors = o.destructors
			o.destructors = nil
			delete(d.objects, handle)
		}
	case *sampler:
		o.refs--
		if o.refs == 0 {
			delete(d.objects, handle)
		}
	case *program:
		o.refs--
		if o.refs == 0 {
			delete(d.objects, handle)
		}
	case *kernel:
		o.refs--
		if o.refs == 0 {
			delete(d.objects, handle)
		}
	case *event:
		o.refs--
		if o.refs == 0 {
			delete(d.objects, handle)
		}
	default:
		d.mu.Unlock()
		return invalidHandleStatus(kind)
	}
	d.mu.Unlock()
	for i := len(destructors) - 1; i >= 0; i-- {
		destructors[i]()
	}
	return ocl.Success
}

func invalidHandleStatus(kind ocl.ObjectKind) ocl.Status {
	switch kind {
	case ocl.KindPlatform:
		return ocl.InvalidPlatform
	case ocl.KindDevice:
		return ocl.InvalidDevice
	case ocl.KindContext:
		return ocl.InvalidContext
	case ocl.KindQueue:
		return ocl.InvalidCommandQueue
	case ocl.KindBuffer, ocl.KindImage:
		return ocl.InvalidMemObject
	case ocl.KindSampler:
		return ocl.InvalidSampler
	case ocl.KindProgram:
		return ocl.InvalidProgram
	case ocl.KindKernel:
		return ocl.InvalidKernel
	case ocl.KindEvent:
		return ocl.InvalidEvent
	}
	return ocl.InvalidValue
}
