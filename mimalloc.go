// Package mimalloc uses the system's shared mimalloc library as a manual
// memory allocator.
//
// Mimalloc is a general purpose, performance oriented allocator built by
// Microsoft. This package does not bundle it: the library must already be
// installed on the host, e.g.
//
//	sudo apt install libmimalloc-dev
//
// With cgo enabled the package links against -lmimalloc and a missing
// library is a link error. Without cgo (or with the mimalloc_purego build
// tag) the library is opened with purego during package initialisation and
// a missing library panics before main runs. Set MIMALLOC_LIBRARY to pick a
// specific file in that mode.
//
// To install it as the process-wide allocator, call once at startup:
//
//	func main() {
//		mimalloc.Use()
//		...
//	}
//
// MiMalloc can also be used directly, or wrapped by other allocators.
package mimalloc

import "unsafe"

// Allocator is the four-operation allocator contract.
//
// All methods are unchecked. Callers must pass the layout a block was
// obtained with to Realloc and Dealloc, and must not use a pointer after it
// has been released or reallocated to a different address. A nil return
// means the allocator is exhausted.
type Allocator interface {
	// Alloc returns an uninitialised block of at least layout.Size() bytes
	// aligned to layout.Align().
	Alloc(layout Layout) unsafe.Pointer
	// AllocZeroed is like Alloc but every byte of the block is zero.
	AllocZeroed(layout Layout) unsafe.Pointer
	// Realloc resizes the block at ptr, allocated with layout, to newSize
	// bytes, keeping its first min(layout.Size(), newSize) bytes.
	Realloc(ptr unsafe.Pointer, layout Layout, newSize uintptr) unsafe.Pointer
	// Dealloc releases the block at ptr.
	Dealloc(ptr unsafe.Pointer, layout Layout)
}

// MiMalloc is an Allocator backed by the system's shared mimalloc library.
//
// It has no state; every MiMalloc value is equivalent.
type MiMalloc struct{}

var _ Allocator = MiMalloc{}

func (MiMalloc) Alloc(layout Layout) unsafe.Pointer {
	return miMallocAligned(layout.Size(), layout.Align())
}

func (MiMalloc) AllocZeroed(layout Layout) unsafe.Pointer {
	return miZallocAligned(layout.Size(), layout.Align())
}

// Realloc hands the original alignment to mimalloc so it can decide whether
// the block may grow in place.
func (MiMalloc) Realloc(ptr unsafe.Pointer, layout Layout, newSize uintptr) unsafe.Pointer {
	return miReallocAligned(ptr, newSize, layout.Align())
}

// Dealloc ignores layout: mimalloc tracks block metadata itself.
func (MiMalloc) Dealloc(ptr unsafe.Pointer, _ Layout) {
	miFree(ptr)
}

// Backend reports how the library is bound ("cgo" or "purego") and what it
// was resolved from.
func Backend() (name, path string) {
	return backendInfo()
}
