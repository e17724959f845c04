// Package ocl defines the flat, C-style surface of the underlying OpenCL
// runtime: opaque handle types, status codes, parameter constants and the
// Driver interface through which every call reaches the platform library.
//
// The package itself performs no device work. Concrete drivers register
// themselves here (see Register); the default driver is selected through
// the GOOCL_DRIVER environment variable or, absent that, the first driver
// registered. The real cgo driver lives in ocl/clcgo behind the "opencl"
// build tag; ocl/oclstub provides a pure-Go in-memory driver used by the
// test-suite and by machines without an OpenCL runtime.
package ocl

import (
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Constructor builds a Driver from a driver-specific configuration string
// (possibly empty).
type Constructor func(config string) (Driver, error)

var (
	muRegistry             sync.Mutex
	registeredConstructors = make(map[string]Constructor)
	firstRegistered        string
)

// Register makes a driver constructor available under the given name.
// Call it during package initialization.
func Register(name string, constructor Constructor) {
	muRegistry.Lock()
	defer muRegistry.Unlock()
	if len(registeredConstructors) == 0 {
		firstRegistered = name
	}
	registeredConstructors[name] = constructor
}

// GOOCL_DRIVER is the environment variable holding the default driver
// configuration, formatted as "<driver_name>" or "<driver_name>:<config>".
const GOOCL_DRIVER = "GOOCL_DRIVER"

// New returns a Driver built from the GOOCL_DRIVER environment variable if
// set, or from the first registered driver with an empty configuration.
func New() (Driver, error) {
	if config, found := os.LookupEnv(GOOCL_DRIVER); found {
		return NewWithConfig(config)
	}
	return NewWithConfig("")
}

// NewWithConfig builds a Driver from a "<driver_name>:<config>" string.
// An empty name selects the first registered driver.
func NewWithConfig(config string) (Driver, error) {
	muRegistry.Lock()
	defer muRegistry.Unlock()
	if len(registeredConstructors) == 0 {
		return nil, errors.New(
			`no OpenCL drivers registered -- import the cgo driver with ` +
				`import _ "github.com/goocl/goocl/ocl/clcgo" (build tag "opencl") ` +
				`or the in-memory one with import _ "github.com/goocl/goocl/ocl/oclstub"`)
	}
	name := firstRegistered
	driverConfig := config
	if idx := strings.Index(config, ":"); idx != -1 {
		name = config[:idx]
		driverConfig = config[idx+1:]
	} else if config != "" {
		name = config
		driverConfig = ""
	}
	constructor, found := registeredConstructors[name]
	if !found {
		return nil, errors.Errorf("no OpenCL driver registered under %q (configuration %q)", name, config)
	}
	return constructor(driverConfig)
}
