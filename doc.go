// Package goocl is a typed, reference-counted object façade over the
// OpenCL host API.
//
// Every OpenCL entity (platform, device, context, command queue, buffer,
// image, sampler, program, kernel, event) gets a wrapper type with uniform
// semantics: constructors set the reference count to one, Ref increments
// it, Release decrements it and tears down the native object at zero, and
// wrapping the same native handle twice always yields the same wrapper.
// Information queries go through a per-wrapper cache, so repeated queries
// cost a single round-trip to the runtime; any attribute can also be
// addressed by symbolic name through the query registry (see QueryInfo,
// Query and FormatInfo).
//
// A typical program selects devices with a filter pipeline, builds a
// Context, derives a Queue and Buffers, builds a Program, extracts a
// Kernel, binds arguments with SetArgs and launches it with EnqueueNDRange
// receiving an Event, usable as a dependency for later commands through
// Wait lists. The prof subpackage analyses the events retained by queues
// after the fact.
//
// The actual device work is delegated to an ocl.Driver; see package
// ocl for driver registration and selection.
package goocl
