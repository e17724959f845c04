package goocl

import (
	"github.com/pkg/errors"
)

// Arg boxes one kernel argument value together with its size. Build
// scalar arguments with NewArg, local-memory reservations with LocalArg
// and NULL pointer arguments with NullArg; buffers, images and samplers
// are passed to SetArgs directly.
type Arg struct {
	size  int
	bytes []byte
}

// SkipArg marks an argument position to leave untouched in SetArgs,
// keeping a previously bound value.
var SkipArg = &Arg{size: -1}

// NewArg boxes a private scalar or vector argument. The value is copied.
func NewArg[T any](value T) *Arg {
	b := scalarBytes(value)
	return &Arg{size: len(b), bytes: b}
}

// LocalArg reserves size bytes of local memory for the argument.
func LocalArg(size int) *Arg {
	return &Arg{size: size}
}

// NullArg binds a NULL pointer to the argument.
func NullArg() *Arg {
	return &Arg{}
}

// argFor boxes the values SetArgs accepts directly.
func argFor(value any) (*Arg, error) {
	switch v := value.(type) {
	case *Arg:
		return v, nil
	case MemObject:
		return NewArg(v.MemID()), nil
	case *Sampler:
		return NewArg(v.ID()), nil
	case nil:
		return NullArg(), nil
	default:
		return nil, errors.WithMessagef(ErrInvalidArgument,
			"kernel argument of type %T, want *Arg, a memory object or a sampler", value)
	}
}
