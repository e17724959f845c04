package goocl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/goocl/goocl/ocl"
)

// IndepFilter accepts or rejects one device on its own merits.
type IndepFilter func(*Device) (bool, error)

// DepFilter narrows a candidate list as a whole, e.g. to the devices of
// a single platform or to a user-chosen entry.
type DepFilter func([]*Device) ([]*Device, error)

// Filters is an ordered device-selection pipeline. Independent filters
// run per device, dependent filters run on the surviving list, all in
// the order they were added.
type Filters struct {
	steps []DepFilter
}

// AddIndep appends an independent filter and returns the pipeline for
// chaining. A filter error aborts the selection; the kept and not yet
// examined candidates are released.
func (f *Filters) AddIndep(filter IndepFilter) *Filters {
	f.steps = append(f.steps, func(devices []*Device) ([]*Device, error) {
		kept := devices[:0]
		for i, dev := range devices {
			ok, err := filter(dev)
			if err != nil {
				for _, d := range kept {
					releaseQuiet(d)
				}
				for _, d := range devices[i:] {
					releaseQuiet(d)
				}
				return nil, err
			}
			if ok {
				kept = append(kept, dev)
			} else {
				releaseQuiet(dev)
			}
		}
		return kept, nil
	})
	return f
}

// AddDep appends a dependent filter and returns the pipeline for
// chaining. A filter error aborts the selection and releases all
// candidates; filters must leave the list alive when they fail.
func (f *Filters) AddDep(filter DepFilter) *Filters {
	f.steps = append(f.steps, func(devices []*Device) ([]*Device, error) {
		// Filters may compact the slice in place; snapshot it so the
		// rejects can still be released.
		before := make([]*Device, len(devices))
		copy(before, devices)
		kept, err := filter(devices)
		if err != nil {
			for _, dev := range before {
				releaseQuiet(dev)
			}
			return nil, err
		}
	next:
		for _, dev := range before {
			for _, k := range kept {
				if k == dev {
					continue next
				}
			}
			releaseQuiet(dev)
		}
		return kept, nil
	})
	return f
}

// Select runs the pipeline over all devices of all platforms and
// returns the survivors. The caller owns the returned devices and must
// Release each one. An empty pipeline selects everything.
func (f *Filters) Select() ([]*Device, error) {
	devices, err := AllDevices()
	if err != nil {
		return nil, err
	}
	for _, step := range f.steps {
		// A failing step has already released the candidates.
		devices, err = step(devices)
		if err != nil {
			return nil, err
		}
	}
	if len(devices) == 0 {
		return nil, errors.WithMessage(ErrDeviceNotFound, "no device passed the selection filters")
	}
	return devices, nil
}

// AllDevices enumerates the devices of every platform. The caller owns
// the returned devices and must Release each one.
func AllDevices() ([]*Device, error) {
	platforms, err := Platforms()
	if err != nil {
		return nil, err
	}
	var all []*Device
	for _, platform := range platforms {
		devices, err := platform.Devices()
		if err != nil {
			for _, dev := range all {
				releaseQuiet(dev)
			}
			for _, p := range platforms {
				releaseQuiet(p)
			}
			return nil, err
		}
		for _, dev := range devices {
			dev.Ref()
			all = append(all, dev)
		}
	}
	for _, p := range platforms {
		releaseQuiet(p)
	}
	return all, nil
}

// FilterType keeps devices whose type intersects typ.
func FilterType(typ ocl.DeviceType) IndepFilter {
	return func(dev *Device) (bool, error) {
		t, err := dev.Type()
		if err != nil {
			return false, err
		}
		return t&typ != 0, nil
	}
}

// FilterGPU keeps GPU devices.
func FilterGPU(dev *Device) (bool, error) {
	return FilterType(ocl.DeviceTypeGPU)(dev)
}

// FilterCPU keeps CPU devices.
func FilterCPU(dev *Device) (bool, error) {
	return FilterType(ocl.DeviceTypeCPU)(dev)
}

// FilterAccelerator keeps accelerator devices.
func FilterAccelerator(dev *Device) (bool, error) {
	return FilterType(ocl.DeviceTypeAccelerator)(dev)
}

// FilterNameContains keeps devices whose name, vendor or platform name
// contains substr, case-insensitively.
func FilterNameContains(substr string) IndepFilter {
	want := strings.ToLower(substr)
	return func(dev *Device) (bool, error) {
		for _, get := range []func() (string, error){dev.Name, dev.Vendor} {
			s, err := get()
			if err != nil {
				return false, err
			}
			if strings.Contains(strings.ToLower(s), want) {
				return true, nil
			}
		}
		platform, err := dev.Platform()
		if err != nil {
			return false, err
		}
		defer releaseQuiet(platform)
		s, err := platform.Name()
		if err != nil {
			return false, err
		}
		return strings.Contains(strings.ToLower(s), want), nil
	}
}

// SamePlatform keeps only the devices sharing the first candidate's
// platform, so the selection can seed a single context.
func SamePlatform(devices []*Device) ([]*Device, error) {
	if len(devices) == 0 {
		return devices, nil
	}
	first, err := devices[0].Platform()
	if err != nil {
		return nil, err
	}
	defer releaseQuiet(first)
	kept := devices[:0]
	for _, dev := range devices {
		platform, err := dev.Platform()
		if err != nil {
			return nil, err
		}
		same := platform.ID() == first.ID()
		releaseQuiet(platform)
		if same {
			kept = append(kept, dev)
		}
	}
	return kept, nil
}

// ByIndex keeps only candidate #i.
func ByIndex(i int) DepFilter {
	return func(devices []*Device) ([]*Device, error) {
		if i < 0 || i >= len(devices) {
			return nil, errors.WithMessagef(ErrInvalidArgument,
				"device index %d out of range (%d candidates)", i, len(devices))
		}
		return devices[i : i+1], nil
	}
}

// Menu prompts the user on w to choose one candidate by number read
// from r. A single candidate is chosen without prompting.
func Menu(r io.Reader, w io.Writer) DepFilter {
	return func(devices []*Device) ([]*Device, error) {
		if len(devices) == 1 {
			return devices, nil
		}
		if err := printDeviceMenu(w, devices); err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(r)
		for {
			fmt.Fprintf(w, "Select device (0-%d): ", len(devices)-1)
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return nil, errors.Wrap(err, "reading device choice")
				}
				return nil, errors.WithMessage(ErrInvalidArgument, "no device chosen")
			}
			i, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			if err == nil && i >= 0 && i < len(devices) {
				return devices[i : i+1], nil
			}
			fmt.Fprintln(w, "Invalid choice.")
		}
	}
}

func printDeviceMenu(w io.Writer, devices []*Device) error {
	for i, dev := range devices {
		name, err := dev.Name()
		if err != nil {
			return err
		}
		platform, err := dev.Platform()
		if err != nil {
			return err
		}
		platformName, err := platform.Name()
		releaseQuiet(platform)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, " %2d. %s [%s]\n", i, name, platformName)
	}
	return nil
}

// NewContextFromFilters runs the selection pipeline, keeps the devices
// of the first survivor's platform and creates a context over them.
func NewContextFromFilters(f *Filters) (*Context, error) {
	devices, err := f.AddDep(SamePlatform).Select()
	if err != nil {
		return nil, err
	}
	ctx, err := NewContext(devices)
	for _, dev := range devices {
		releaseQuiet(dev)
	}
	return ctx, err
}

// NewContextFromType creates a context over all same-platform devices of
// the given type.
func NewContextFromType(typ ocl.DeviceType) (*Context, error) {
	return NewContextFromFilters(new(Filters).AddIndep(FilterType(typ)))
}

// NewContextGPU creates a context over the GPU devices of one platform.
func NewContextGPU() (*Context, error) {
	return NewContextFromType(ocl.DeviceTypeGPU)
}

// NewContextCPU creates a context over the CPU devices of one platform.
func NewContextCPU() (*Context, error) {
	return NewContextFromType(ocl.DeviceTypeCPU)
}

// NewContextFromMenu lets the user pick one device interactively and
// creates a context over it.
func NewContextFromMenu(r io.Reader, w io.Writer) (*Context, error) {
	return NewContextFromFilters(new(Filters).AddDep(Menu(r, w)))
}

// NewContextFromDeviceIndex creates a context over device #i of the
// global device enumeration.
func NewContextFromDeviceIndex(i int) (*Context, error) {
	return NewContextFromFilters(new(Filters).AddDep(ByIndex(i)))
}
