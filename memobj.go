package goocl

import (
	"github.com/goocl/goocl/ocl"
)

// MemObject is the behavior common to buffers and images.
type MemObject interface {
	Wrapper
	// MemID returns the native memory-object handle.
	MemID() ocl.MemID
}

// memObject carries the state and operations shared by Buffer and Image.
// The context handle is recorded for validation only; the memory object
// does not own a context reference.
type memObject struct {
	*core
	ctx ocl.ContextID
}

// MemID returns the native memory-object handle.
func (m *memObject) MemID() ocl.MemID { return ocl.MemID(m.handle) }

// Info performs a generic memory-object information query.
func (m *memObject) Info(param uint32) (*Info, error) {
	return m.info(ocl.InfoMem, 0, param)
}

// Size returns the memory-object size in bytes.
func (m *memObject) Size() (int, error) {
	info, err := m.Info(ocl.MemSizeInfo)
	if err != nil {
		return 0, err
	}
	size, err := InfoScalar[uintptr](info)
	return int(size), err
}

// Flags returns the creation flags.
func (m *memObject) Flags() (ocl.MemFlags, error) {
	info, err := m.Info(ocl.MemFlagsInfo)
	if err != nil {
		return 0, err
	}
	return InfoScalar[ocl.MemFlags](info)
}

// MemType returns the memory-object shape (buffer, image2d, ...).
func (m *memObject) MemType() (ocl.MemObjectType, error) {
	info, err := m.Info(ocl.MemTypeInfo)
	if err != nil {
		return 0, err
	}
	return InfoScalar[ocl.MemObjectType](info)
}

// ContextID returns the handle of the context the object belongs to,
// used to validate cross-context operations.
func (m *memObject) ContextID() ocl.ContextID { return m.ctx }

// SetDestructorCallback registers fn to run when the native memory
// object's resources are destroyed. Registration is delegated to the
// runtime; callbacks run in reverse registration order on a
// runtime-owned thread.
func (m *memObject) SetDestructorCallback(fn func()) error {
	if st := drv().SetMemDestructorCallback(m.MemID(), fn); !st.Ok() {
		return apiError("registering mem destructor callback", st)
	}
	return nil
}

// EnqueueMigrate enqueues migration of memory objects to the device
// associated with the queue. Consumes the wait list.
func EnqueueMigrate(q *Queue, mems []MemObject, flags ocl.MemMigrationFlags, wait *WaitList) (*Event, error) {
	ids := make([]ocl.MemID, len(mems))
	for i, m := range mems {
		ids[i] = m.MemID()
	}
	id, st := drv().EnqueueMigrateMemObjects(q.ID(), ids, flags, wait.take())
	if !st.Ok() {
		return nil, apiError("enqueueing mem migration", st)
	}
	return q.retainEvent(id), nil
}
