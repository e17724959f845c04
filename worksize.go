package goocl

import (
	"github.com/pkg/errors"
)

// SuggestWorkSizes determines efficient global and local work sizes for
// processing realSize work items per dimension on the device. k may be
// nil, in which case only device limits are considered. lwsMax
// optionally caps the local size per dimension (nil, or zero entries,
// mean the device limits apply).
//
// When exact is false the returned global size is realSize rounded up to
// a multiple of the local size, so kernels must guard against
// out-of-bounds work items. When exact is true the global size equals
// realSize and the local size evenly divides it.
func SuggestWorkSizes(k *Kernel, dev *Device, realSize, lwsMax []int, exact bool) (gws, lws []int, err error) {
	dims := len(realSize)
	if dims < 1 || dims > 3 {
		return nil, nil, errors.WithMessagef(ErrInvalidArgument,
			"worksize suggestion over %d dimensions", dims)
	}
	for i, size := range realSize {
		if size <= 0 {
			return nil, nil, errors.WithMessagef(ErrInvalidArgument,
				"real work size %d in dimension %d", size, i)
		}
	}
	if lwsMax != nil && len(lwsMax) != dims {
		return nil, nil, errors.WithMessagef(ErrInvalidArgument,
			"%d local size caps for %d dimensions", len(lwsMax), dims)
	}

	devDims, err := dev.MaxWorkItemDimensions()
	if err != nil {
		return nil, nil, err
	}
	if dims > int(devDims) {
		return nil, nil, errors.WithMessagef(ErrInvalidArgument,
			"device supports %d dimensions, %d requested", devDims, dims)
	}

	maxItemSizes, err := dev.MaxWorkItemSizes()
	if err != nil {
		return nil, nil, err
	}
	maxItems := make([]int, dims)
	for i := range maxItems {
		maxItems[i] = int(maxItemSizes[i])
		if lwsMax != nil && lwsMax[i] != 0 && lwsMax[i] < maxItems[i] {
			maxItems[i] = lwsMax[i]
		}
	}

	// The work-group limit and preferred multiple come from the kernel
	// when one was given, since compiled kernels can be more restrictive
	// than the device.
	var maxGroup, groupMult int
	if k != nil {
		size, err := k.WorkGroupSize(dev)
		if err != nil {
			return nil, nil, err
		}
		maxGroup = int(size)
		version, err := dev.OpenCLVersion()
		if err != nil {
			return nil, nil, err
		}
		if version >= 110 {
			mult, err := k.PreferredWorkGroupSizeMultiple(dev)
			if err != nil {
				return nil, nil, err
			}
			groupMult = int(mult)
		} else {
			groupMult = maxGroup
		}
	} else {
		size, err := dev.MaxWorkGroupSize()
		if err != nil {
			return nil, nil, err
		}
		maxGroup = int(size)
		groupMult = maxGroup
	}

	// Start each local dimension at the preferred multiple, capped by the
	// per-dimension limit, then shrink until the group fits both the real
	// work size and the total group limit.
	lws = make([]int, dims)
	groupSize := 1
	for i := range lws {
		lws[i] = groupMult
		if maxItems[i] < lws[i] {
			lws[i] = maxItems[i]
		}
		groupSize *= lws[i]
	}
	for i := range lws {
		for lws[i] > realSize[i] {
			lws[i] /= 2
			groupSize /= 2
		}
	}
	for groupSize > maxGroup {
		before := groupSize
		for i := dims - 1; i >= 0; i-- {
			if lws[i] > 1 {
				lws[i] /= 2
				groupSize /= 2
			}
			if groupSize <= maxGroup {
				break
			}
		}
		if groupSize == before {
			return nil, nil, errors.WithMessagef(ErrOther,
				"no work size fits the device group limit %d", maxGroup)
		}
	}

	if !exact {
		gws = make([]int, dims)
		for i := range gws {
			gws[i] = ((realSize[i] + lws[i] - 1) / lws[i]) * lws[i]
		}
		return gws, lws, nil
	}

	// Exact mode: the local size must divide the real size per dimension.
	// Keep the sizes found above when they already do; otherwise pick the
	// largest divisor per dimension within the limits.
	divides := true
	for i := range lws {
		if realSize[i]%lws[i] != 0 {
			divides = false
			break
		}
	}
	if !divides {
		groupSize = 1
		for i := range lws {
			if realSize[i]%lws[i] != 0 || lws[i]*groupSize > maxGroup {
				best := 1
				for j := 2; j <= realSize[i]/2; j++ {
					if groupSize*j > maxGroup || j > maxItems[i] {
						break
					}
					if realSize[i]%j == 0 {
						best = j
					}
				}
				lws[i] = best
			}
			groupSize *= lws[i]
		}
	}
	gws = make([]int, dims)
	copy(gws, realSize)
	return gws, lws, nil
}

// SuggestWorkSizes is the kernel-aware shorthand for the package-level
// function of the same name.
func (k *Kernel) SuggestWorkSizes(dev *Device, realSize, lwsMax []int, exact bool) (gws, lws []int, err error) {
	return SuggestWorkSizes(k, dev, realSize, lwsMax, exact)
}
