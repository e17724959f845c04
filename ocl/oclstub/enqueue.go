package oclstub

import (
	"github.com/goocl/goocl/ocl"
)

// memFromQueue resolves a memory object belonging to the queue's
// context. Callers hold mu.
func (d *Driver) memFromQueue(q *queue, memID ocl.MemID) (*memObj, ocl.Status) {
	m, ok := lookup[*memObj](d, uintptr(memID))
	if !ok {
		return nil, ocl.InvalidMemObject
	}
	if m.ctx != q.ctx {
		return nil, ocl.InvalidContext
	}
	return m, ocl.Success
}

// EnqueueReadBuffer implements ocl.Driver.
func (d *Driver) EnqueueReadBuffer(queueID ocl.QueueID, bufferID ocl.MemID, blocking bool, offset int, dst []byte, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m, st := d.memFromQueue(q, bufferID)
	if !st.Ok() {
		return 0, st
	}
	if offset < 0 || offset+len(dst) > len(m.data) {
		return 0, ocl.InvalidValue
	}
	copy(dst, m.data[offset:])
	e := d.newEvent(q, ocl.CommandReadBuffer, uint64(1000+len(dst)))
	return ocl.EventID(e.handle), ocl.Success
}

// EnqueueWriteBuffer implements ocl.Driver.
func (d *Driver) EnqueueWriteBuffer(queueID ocl.QueueID, bufferID ocl.MemID, blocking bool, offset int, src []byte, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m, st := d.memFromQueue(q, bufferID)
	if !st.Ok() {
		return 0, st
	}
	if offset < 0 || offset+len(src) > len(m.data) {
		return 0, ocl.InvalidValue
	}
	copy(m.data[offset:], src)
	e := d.newEvent(q, ocl.CommandWriteBuffer, uint64(1000+len(src)))
	return ocl.EventID(e.handle), ocl.Success
}

// EnqueueCopyBuffer implements ocl.Driver.
func (d *Driver) EnqueueCopyBuffer(queueID ocl.QueueID, srcID, dstID ocl.MemID, srcOffset, dstOffset, size int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	src, st := d.memFromQueue(q, srcID)
	if !st.Ok() {
		return 0, st
	}
	dst, st := d.memFromQueue(q, dstID)
	if !st.Ok() {
		return 0, st
	}
	if srcOffset < 0 || dstOffset < 0 || size <= 0 ||
		srcOffset+size > len(src.data) || dstOffset+size > len(dst.data) {
		return 0, ocl.InvalidValue
	}
	copy(dst.data[dstOffset:dstOffset+size], src.data[srcOffset:])
	e := d.newEvent(q, ocl.CommandCopyBuffer, uint64(1000+size))
	return ocl.EventID(e.handle), ocl.Success
}

// EnqueueFillBuffer implements ocl.Driver.
func (d *Driver) EnqueueFillBuffer(queueID ocl.QueueID, bufferID ocl.MemID, pattern []byte, offset, size int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m, st := d.memFromQueue(q, bufferID)
	if !st.Ok() {
		return 0, st
	}
	n := len(pattern)
	if n == 0 || offset%n != 0 || size%n != 0 {
		return 0, ocl.InvalidValue
	}
	if offset < 0 || size <= 0 || offset+size > len(m.data) {
		return 0, ocl.InvalidValue
	}
	for at := offset; at < offset+size; at += n {
		copy(m.data[at:at+n], pattern)
	}
	e := d.newEvent(q, ocl.CommandFillBuffer, uint64(1000+size))
	return ocl.EventID(e.handle), ocl.Success
}

// EnqueueMapBuffer implements ocl.Driver. The mapped slice aliases the
// buffer storage, so unmapping has nothing to copy back.
func (d *Driver) EnqueueMapBuffer(queueID ocl.QueueID, bufferID ocl.MemID, blocking bool, flags ocl.MapFlags, offset, size int, wait []ocl.EventID) ([]byte, ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return nil, 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m, st := d.memFromQueue(q, bufferID)
	if !st.Ok() {
		return nil, 0, st
	}
	if offset < 0 || size <= 0 || offset+size > len(m.data) {
		return nil, 0, ocl.InvalidValue
	}
	m.mapCount++
	e := d.newEvent(q, ocl.CommandMapBuffer, uint64(1000+size))
	return m.data[offset : offset+size : offset+size], ocl.EventID(e.handle), ocl.Success
}

// EnqueueUnmapMemObject implements ocl.Driver.
func (d *Driver) EnqueueUnmapMemObject(queueID ocl.QueueID, memID ocl.MemID, mapped []byte, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m, st := d.memFromQueue(q, memID)
	if !st.Ok() {
		return 0, st
	}
	if m.mapCount == 0 {
		return 0, ocl.InvalidValue
	}
	m.mapCount--
	e := d.newEvent(q, ocl.CommandUnmapMemObject, 1000)
	return ocl.EventID(e.handle), ocl.Success
}

// EnqueueMigrateMemObjects implements ocl.Driver. Migration is a no-op
// with a single address space.
func (d *Driver) EnqueueMigrateMemObjects(queueID ocl.QueueID, mems []ocl.MemID, flags ocl.MemMigrationFlags, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range mems {
		if _, st := d.memFromQueue(q, id); !st.Ok() {
			return 0, st
		}
	}
	e := d.newEvent(q, ocl.CommandMigrateMemObjects, 1000)
	return ocl.EventID(e.handle), ocl.Success
}

// imageGeometry returns the per-row and per-slice byte extents of an
// image.
func (m *memObj) imageGeometry() (width, height, rowPitch, slicePitch int) {
	width = m.desc.Width
	height = m.desc.Height
	if height == 0 {
		height = 1
	}
	rowPitch = width * m.elemSize
	slicePitch = rowPitch * height
	return width, height, rowPitch, slicePitch
}

// copyImageRegion moves pixels between an image and a host slice.
// toHost selects the direction.
func (d *Driver) copyImageRegion(m *memObj, origin, region [3]int, hostRowPitch, hostSlicePitch int, host []byte, toHost bool) ocl.Status {
	width, height, rowPitch, slicePitch := m.imageGeometry()
	if region[0] <= 0 || region[1] <= 0 || region[2] <= 0 {
		return ocl.InvalidValue
	}
	if origin[0] < 0 || origin[1] < 0 || origin[2] < 0 ||
		origin[0]+region[0] > width || origin[1]+region[1] > height {
		return ocl.InvalidValue
	}
	rowBytes := region[0] * m.elemSize
	if hostRowPitch == 0 {
		hostRowPitch = rowBytes
	}
	if hostSlicePitch == 0 {
		hostSlicePitch = hostRowPitch * region[1]
	}
	for z := 0; z < region[2]; z++ {
		for y := 0; y < region[1]; y++ {
			devOff := (origin[2]+z)*slicePitch + (origin[1]+y)*rowPitch + origin[0]*m.elemSize
			hostOff := z*hostSlicePitch + y*hostRowPitch
			if devOff+rowBytes > len(m.data) || hostOff+rowBytes > len(host) {
				return ocl.InvalidValue
			}
			if toHost {
				copy(host[hostOff:hostOff+rowBytes], m.data[devOff:])
			} else {
				copy(m.data[devOff:devOff+rowBytes], host[hostOff:])
			}
		}
	}
	return ocl.Success
}

// EnqueueReadImage implements ocl.Driver.
func (d *Driver) EnqueueReadImage(queueID ocl.QueueID, imageID ocl.MemID, blocking bool, origin, region [3]int, rowPitch, slicePitch int, dst []byte, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m, st := d.memFromQueue(q, imageID)
	if !st.Ok() {
		return 0, st
	}
	if st := d.copyImageRegion(m, origin, region, rowPitch, slicePitch, dst, true); !st.Ok() {
		return 0, st
	}
	e := d.newEvent(q, ocl.CommandReadImage, uint64(1000+len(dst)))
	return ocl.EventID(e.handle), ocl.Success
}

// EnqueueWriteImage implements ocl.Driver.
func (d *Driver) EnqueueWriteImage(queueID ocl.QueueID, imageID ocl.MemID, blocking bool, origin, region [3]int, rowPitch, slicePitch int, src []byte, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m, st := d.memFromQueue(q, imageID)
	if !st.Ok() {
		return 0, st
	}
	if st := d.copyImageRegion(m, origin, region, rowPitch, slicePitch, src, false); !st.Ok() {
		return 0, st
	}
	e := d.newEvent(q, ocl.CommandWriteImage, uint64(1000+len(src)))
	return ocl.EventID(e.handle), ocl.Success
}

// EnqueueCopyImage implements ocl.Driver.
func (d *Driver) EnqueueCopyImage(queueID ocl.QueueID, srcID, dstID ocl.MemID, srcOrigin, dstOrigin, region [3]int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	src, st := d.memFromQueue(q, srcID)
	if !st.Ok() {
		return 0, st
	}
	dst, st := d.memFromQueue(q, dstID)
	if !st.Ok() {
		return 0, st
	}
	if src.elemSize != dst.elemSize {
		return 0, ocl.ImageFormatMismatch
	}
	staging := make([]byte, region[0]*region[1]*region[2]*src.elemSize)
	if st := d.copyImageRegion(src, srcOrigin, region, 0, 0, staging, true); !st.Ok() {
		return 0, st
	}
	if st := d.copyImageRegion(dst, dstOrigin, region, 0, 0, staging, false); !st.Ok() {
		return 0, st
	}
	e := d.newEvent(q, ocl.CommandCopyImage, uint64(1000+len(staging)))
	return ocl.EventID(e.handle), ocl.Success
}

// EnqueueFillImage implements ocl.Driver. color is the raw pixel value
// matching the image format.
func (d *Driver) EnqueueFillImage(queueID ocl.QueueID, imageID ocl.MemID, color []byte, origin, region [3]int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	m, st := d.memFromQueue(q, imageID)
	if !st.Ok() {
		return 0, st
	}
	if len(color) < m.elemSize {
		return 0, ocl.InvalidValue
	}
	staging := make([]byte, region[0]*region[1]*region[2]*m.elemSize)
	for at := 0; at < len(staging); at += m.elemSize {
		copy(staging[at:at+m.elemSize], color)
	}
	if st := d.copyImageRegion(m, origin, region, 0, 0, staging, false); !st.Ok() {
		return 0, st
	}
	e := d.newEvent(q, ocl.CommandFillImage, uint64(1000+len(staging)))
	return ocl.EventID(e.handle), ocl.Success
}

// EnqueueCopyImageToBuffer implements ocl.Driver.
func (d *Driver) EnqueueCopyImageToBuffer(queueID ocl.QueueID, srcID, dstID ocl.MemID, srcOrigin, region [3]int, dstOffset int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	src, st := d.memFromQueue(q, srcID)
	if !st.Ok() {
		return 0, st
	}
	dst, st := d.memFromQueue(q, dstID)
	if !st.Ok() {
		return 0, st
	}
	size := region[0] * region[1] * region[2] * src.elemSize
	if dstOffset < 0 || dstOffset+size > len(dst.data) {
		return 0, ocl.InvalidValue
	}
	if st := d.copyImageRegion(src, srcOrigin, region, 0, 0, dst.data[dstOffset:dstOffset+size], true); !st.Ok() {
		return 0, st
	}
	e := d.newEvent(q, ocl.CommandCopyImageToBuffer, uint64(1000+size))
	return ocl.EventID(e.handle), ocl.Success
}

// EnqueueCopyBufferToImage implements ocl.Driver.
func (d *Driver) EnqueueCopyBufferToImage(queueID ocl.QueueID, srcID, dstID ocl.MemID, srcOffset int, dstOrigin, region [3]int, wait []ocl.EventID) (ocl.EventID, ocl.Status) {
	q, st := d.queueFromWait(queueID, wait)
	if !st.Ok() {
		return 0, st
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	src, st := d.memFromQueue(q, srcID)
	if !st.Ok() {
		return 0, st
	}
	dst, st := d.memFromQueue(q, dstID)
	if !st.Ok() {
		return 0, st
	}
	size := region[0] * region[1] * region[2] * dst.elemSize
	if srcOffset < 0 || srcOffset+size > len(src.data) {
		return 0, ocl.InvalidValue
	}
	if st := d.copyImageRegion(dst, dstOrigin, region, 0, 0, src.data[srcOffset:srcOffset+size], false); !st.Ok() {
		return 0, st
	}
	e := d.newEvent(q, ocl.CommandCopyBufferToImage, uint64(1000+size))
	return ocl.EventID(e.handle), ocl.Success
}
