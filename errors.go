package goocl

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

// Sentinel errors for wrapper-level failures. Failures of the underlying
// runtime are reported as *APIError instead, carrying the raw status; the
// two domains never mix.
var (
	// ErrInvalidArgument reports a violated wrapper precondition.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDeviceNotFound reports that device selection produced an
	// empty set.
	ErrDeviceNotFound = errors.New("no device found")
	// ErrInfoUnavailable reports that the runtime does not know the
	// requested attribute for this object (as opposed to a failed
	// query).
	ErrInfoUnavailable = errors.New("information unavailable at the OpenCL runtime")
	// ErrOther covers residual wrapper-level failures.
	ErrOther = errors.New("error")
)

// APIError is a failure reported by the underlying OpenCL runtime.
type APIError struct {
	// Status is the runtime's own status code, passed through
	// unaltered.
	Status ocl.Status
	// Op names the wrapper operation that failed.
	Op string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: OpenCL error %d (%s)", e.Op, int32(e.Status), e.Status)
}

// apiError builds an *APIError for a non-success status.
func apiError(op string, st ocl.Status) error {
	return &APIError{Status: st, Op: op}
}

// IsStatus reports whether err is (or wraps) an *APIError with the given
// status.
func IsStatus(err error, st ocl.Status) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == st
}

// StatusOf returns the underlying runtime status of err, or ocl.Success
// if err does not carry one.
func StatusOf(err error) ocl.Status {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return ocl.Success
}
