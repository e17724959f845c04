//go:build opencl

package main

import (
	_ "github.com/goocl/goocl/ocl/clcgo"
)
