package goocl

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// parseOpenCLVersion parses a runtime-reported version string of the form
// "OpenCL <major>.<minor> <vendor specific>" into the integer encoding
// major*100 + minor*10, e.g. "OpenCL 1.2 CUDA" -> 120.
func parseOpenCLVersion(version string) (int, error) {
	s := strings.TrimSpace(version)
	s = strings.TrimPrefix(s, "OpenCL C")
	s = strings.TrimPrefix(s, "OpenCL")
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, ' '); idx != -1 {
		s = s[:idx]
	}
	major, minor, found := strings.Cut(s, ".")
	if !found {
		return 0, errors.WithMessagef(ErrOther, "malformed OpenCL version string %q", version)
	}
	majorN, err := strconv.Atoi(major)
	if err != nil {
		return 0, errors.WithMessagef(ErrOther, "malformed OpenCL version string %q", version)
	}
	// Only the first digit of the minor version is significant.
	minorN, err := strconv.Atoi(minor[:1])
	if err != nil {
		return 0, errors.WithMessagef(ErrOther, "malformed OpenCL version string %q", version)
	}
	return majorN*100 + minorN*10, nil
}
