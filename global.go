package mimalloc

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/phuslu/log"
)

var (
	global      atomic.Pointer[Allocator]
	installInit atomic.Int32
)

func init() {
	var a Allocator = defaultAllocator{}
	global.Store(&a)
}

// Install makes alloc the process-wide allocator behind Alloc, AllocZeroed,
// Realloc and Dealloc. It must be called once, at startup, before any block
// is obtained from the package-level functions: blocks from the previous
// allocator cannot be released through the new one.
//
// Install panics if alloc is nil or if an allocator was already installed.
func Install(alloc Allocator) {
	if alloc == nil {
		panic("allocator cannot be nil")
	}
	if installInit.Add(1) != 1 {
		panic("global allocator can only be installed once")
	}
	global.Store(&alloc)
	log.Info().Str("allocator", fmt.Sprintf("%T", alloc)).Msg("mimalloc: global allocator installed")
}

// Use installs MiMalloc as the global allocator. See Install.
func Use() {
	Install(MiMalloc{})
}

// Global returns the installed allocator.
func Global() Allocator {
	return *global.Load()
}

func Alloc(layout Layout) unsafe.Pointer {
	return Global().Alloc(layout)
}

func AllocZeroed(layout Layout) unsafe.Pointer {
	return Global().AllocZeroed(layout)
}

func Realloc(ptr unsafe.Pointer, layout Layout, newSize uintptr) unsafe.Pointer {
	return Global().Realloc(ptr, layout, newSize)
}

func Dealloc(ptr unsafe.Pointer, layout Layout) {
	Global().Dealloc(ptr, layout)
}
