package goocl

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

var (
	muDriver      sync.Mutex
	currentDriver ocl.Driver
)

// SetDriver installs the driver used by all wrappers created afterwards.
// It is meant for program start-up and tests; changing drivers while
// wrappers are alive is not supported.
func SetDriver(d ocl.Driver) {
	muDriver.Lock()
	defer muDriver.Unlock()
	currentDriver = d
}

// CurrentDriver returns the driver in use, resolving the default one (see
// ocl.New) on first call.
func CurrentDriver() (ocl.Driver, error) {
	muDriver.Lock()
	defer muDriver.Unlock()
	if currentDriver == nil {
		d, err := ocl.New()
		if err != nil {
			return nil, errors.WithMessage(err, "resolving default OpenCL driver")
		}
		currentDriver = d
	}
	return currentDriver, nil
}

// drv is the internal accessor used on paths that already hold a wrapper:
// a wrapper can only exist if a driver was resolved, so this never fails
// in practice.
func drv() ocl.Driver {
	muDriver.Lock()
	defer muDriver.Unlock()
	return currentDriver
}
