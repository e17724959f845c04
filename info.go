package goocl

import (
	"strings"
	"unsafe"

	"github.com/pkg/errors"
)

// Info is one information record returned by a generic attribute query: a
// size and an owned byte buffer. How the bytes are interpreted (scalar of
// some type, array of some element type, string) is decided by the caller
// through the view functions below.
type Info struct {
	// Size is the full size of the information in bytes. It may exceed
	// len(Bytes) only for a null info stored after a failed query.
	Size int
	// Bytes is the raw value. Nil denotes information the runtime
	// reported as unavailable.
	Bytes []byte
}

// InfoScalar reinterprets the first unsafe.Sizeof(T) bytes of an info
// record as a value of type T. T must be a fixed-size type. Fails with
// ErrInvalidArgument if the record is too small.
func InfoScalar[T any](info *Info) (value T, err error) {
	if info == nil {
		return value, errors.WithMessage(ErrInvalidArgument, "nil info record")
	}
	size := int(unsafe.Sizeof(value))
	if len(info.Bytes) < size {
		return value, errors.WithMessagef(ErrInvalidArgument,
			"info record holds %d bytes, scalar view needs %d", len(info.Bytes), size)
	}
	value = *(*T)(unsafe.Pointer(unsafe.SliceData(info.Bytes)))
	return value, nil
}

// InfoArray reinterprets an info record as a contiguous []T. The record
// size must be a whole multiple of unsafe.Sizeof(T). The returned slice
// is a copy and remains valid after the wrapper is released.
func InfoArray[T any](info *Info) ([]T, error) {
	if info == nil {
		return nil, errors.WithMessage(ErrInvalidArgument, "nil info record")
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if len(info.Bytes)%elemSize != 0 {
		return nil, errors.WithMessagef(ErrInvalidArgument,
			"info record of %d bytes is not a multiple of element size %d", len(info.Bytes), elemSize)
	}
	n := len(info.Bytes) / elemSize
	if n == 0 {
		return nil, nil
	}
	src := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(info.Bytes))), n)
	out := make([]T, n)
	copy(out, src)
	return out, nil
}

// InfoString views an info record as a NUL-terminated string.
func InfoString(info *Info) (string, error) {
	if info == nil {
		return "", errors.WithMessage(ErrInvalidArgument, "nil info record")
	}
	return strings.TrimRight(string(info.Bytes), "\x00"), nil
}

// scalarBytes serializes a fixed-size value into a freshly allocated byte
// slice in host byte order, the inverse of InfoScalar.
func scalarBytes[T any](value T) []byte {
	size := int(unsafe.Sizeof(value))
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&value)), size))
	return out
}
