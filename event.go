package goocl

import (
	"sync"

	"github.com/goocl/goocl/ocl"
)

// Event wraps an OpenCL event: a thin façade over command classification,
// execution status and profiling timestamps. Events handed out by queue
// enqueues are retained by the queue; see Queue.GC.
type Event struct {
	*core

	muName sync.Mutex
	name   string
}

// WrapEvent wraps an existing event handle. If the handle is already
// wrapped the same wrapper is returned with its reference count
// incremented.
func WrapEvent(id ocl.EventID) *Event {
	return wrapHandle(ocl.KindEvent, uintptr(id), func(c *core) *Event {
		return &Event{core: c}
	})
}

// NewUserEvent creates a user event on the given context. Its status is
// controlled by the host through SetStatus.
func NewUserEvent(ctx *Context) (*Event, error) {
	handle, st := drv().CreateUserEvent(ctx.ID())
	if !st.Ok() {
		return nil, apiError("creating user event", st)
	}
	return WrapEvent(handle), nil
}

// ID returns the native event handle.
func (e *Event) ID() ocl.EventID { return ocl.EventID(e.handle) }

// Release decrements the reference count, releasing the native event at
// zero.
func (e *Event) Release() error {
	_, err := e.unref(nil, driverRelease(ocl.KindEvent))
	return err
}

// SetName gives the event a name, used by the profiler to aggregate
// events of the same kind.
func (e *Event) SetName(name string) {
	e.muName.Lock()
	e.name = name
	e.muName.Unlock()
}

// Name returns the name set with SetName, or the empty string.
func (e *Event) Name() string {
	e.muName.Lock()
	defer e.muName.Unlock()
	return e.name
}

// FinalName returns the event name if set, the command-type string
// otherwise. Never fails: an unclassifiable event reports "UNKNOWN".
func (e *Event) FinalName() string {
	if name := e.Name(); name != "" {
		return name
	}
	commandType, err := e.CommandType()
	if err != nil {
		return "UNKNOWN"
	}
	return commandType.String()
}

// Info performs a generic event information query.
func (e *Event) Info(param uint32) (*Info, error) {
	return e.info(ocl.InfoEvent, 0, param)
}

// ProfilingInfo performs a generic event profiling-information query.
func (e *Event) ProfilingInfo(param uint32) (*Info, error) {
	return e.info(ocl.InfoEventProfiling, 0, param)
}

// CommandType returns the command kind that produced the event.
func (e *Event) CommandType() (ocl.CommandType, error) {
	info, err := e.Info(ocl.EventCommandType)
	if err != nil {
		return 0, err
	}
	return InfoScalar[ocl.CommandType](info)
}

// Status returns the event execution status: one of the ocl.Exec*
// values, or a negative error code if the command terminated abnormally.
func (e *Event) Status() (int32, error) {
	info, err := e.Info(ocl.EventCommandExecStatus)
	if err != nil {
		return 0, err
	}
	return InfoScalar[int32](info)
}

func (e *Event) profilingTimestamp(param uint32) (uint64, error) {
	info, err := e.ProfilingInfo(param)
	if err != nil {
		return 0, err
	}
	return InfoScalar[uint64](info)
}

// QueuedTime returns the device timestamp, in nanoseconds, at which the
// command was enqueued on the host.
func (e *Event) QueuedTime() (uint64, error) {
	return e.profilingTimestamp(ocl.ProfilingCommandQueued)
}

// SubmitTime returns the device timestamp at which the command was
// submitted to the device.
func (e *Event) SubmitTime() (uint64, error) {
	return e.profilingTimestamp(ocl.ProfilingCommandSubmit)
}

// StartTime returns the device timestamp at which the command started
// executing.
func (e *Event) StartTime() (uint64, error) {
	return e.profilingTimestamp(ocl.ProfilingCommandStart)
}

// EndTime returns the device timestamp at which the command finished.
func (e *Event) EndTime() (uint64, error) {
	return e.profilingTimestamp(ocl.ProfilingCommandEnd)
}

// SetCallback registers fn to run when the event reaches the given
// execution status (ocl.ExecComplete, ocl.ExecRunning or
// ocl.ExecSubmitted). The callback runs on a runtime-owned goroutine or
// thread and must not call back into blocking wrapper operations.
func (e *Event) SetCallback(callbackType int32, fn func(e *Event, status int32)) error {
	st := drv().SetEventCallback(e.ID(), callbackType, func(id ocl.EventID, status int32) {
		fn(e, status)
	})
	if !st.Ok() {
		return apiError("registering event callback", st)
	}
	return nil
}

// SetStatus sets the execution status of a user event to ocl.ExecComplete
// or a negative error value.
func (e *Event) SetStatus(status int32) error {
	if st := drv().SetUserEventStatus(e.ID(), status); !st.Ok() {
		return apiError("setting user event status", st)
	}
	return nil
}

// WaitForEvents blocks until all events in the wait list are complete,
// consuming the list.
func WaitForEvents(wait *WaitList) error {
	ids := wait.take()
	if len(ids) == 0 {
		return nil
	}
	if st := drv().WaitForEvents(ids); !st.Ok() {
		return apiError("waiting for events", st)
	}
	return nil
}
