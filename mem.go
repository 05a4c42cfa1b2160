package mimalloc

import (
	"sync"
	"unsafe"

	"github.com/smasher164/mem"
)

const headerSize = unsafe.Sizeof(unsafe.Pointer(nil))

// defaultAllocator serves the package-level functions until Install is
// called. mem.Alloc has no alignment parameter, so each block is
// over-allocated and the base pointer is stored in the word right before
// the aligned address.
type defaultAllocator struct{}

// mem does not promise thread safety.
var memLock sync.Mutex

func memAlloc(size uintptr) unsafe.Pointer {
	memLock.Lock()
	defer memLock.Unlock()
	return mem.Alloc(uint(size))
}

func memFree(p unsafe.Pointer) {
	memLock.Lock()
	defer memLock.Unlock()
	mem.Free(p)
}

func (defaultAllocator) Alloc(layout Layout) unsafe.Pointer {
	align := max(layout.Align(), headerSize)
	if layout.Size() > maxSize-(align-1)-headerSize {
		return nil
	}
	total := layout.Size() + align - 1 + headerSize
	base := memAlloc(total)
	if base == nil {
		return nil
	}
	offset := (uintptr(base)+headerSize+align-1)&^(align-1) - uintptr(base)
	p := unsafe.Add(base, offset)
	*(*unsafe.Pointer)(unsafe.Add(p, -int(headerSize))) = base
	return p
}

func (a defaultAllocator) AllocZeroed(layout Layout) unsafe.Pointer {
	p := a.Alloc(layout)
	if p != nil && layout.Size() > 0 {
		clear(unsafe.Slice((*byte)(p), layout.Size()))
	}
	return p
}

// Realloc always moves the block. On failure the original block is left
// untouched.
func (a defaultAllocator) Realloc(ptr unsafe.Pointer, layout Layout, newSize uintptr) unsafe.Pointer {
	if ptr == nil {
		return a.Alloc(layout.WithSize(newSize))
	}
	p := a.Alloc(layout.WithSize(newSize))
	if p == nil {
		return nil
	}
	if n := min(layout.Size(), newSize); n > 0 {
		copy(unsafe.Slice((*byte)(p), n), unsafe.Slice((*byte)(ptr), n))
	}
	a.Dealloc(ptr, layout)
	return p
}

func (defaultAllocator) Dealloc(ptr unsafe.Pointer, _ Layout) {
	if ptr == nil {
		return
	}
	memFree(*(*unsafe.Pointer)(unsafe.Add(ptr, -int(headerSize))))
}
