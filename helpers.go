package mimalloc

import "unsafe"

// New allocates a zeroed T from a and returns nil if a is exhausted.
//
// The garbage collector does not scan manually allocated memory, so T must
// not hold pointers into the Go heap.
func New[T any](a Allocator) *T {
	return (*T)(a.AllocZeroed(LayoutOf[T]()))
}

// Free releases a value obtained from New.
func Free[T any](a Allocator, p *T) {
	if p == nil {
		return
	}
	a.Dealloc(unsafe.Pointer(p), LayoutOf[T]())
}

func sliceLayout[T any](n int) (Layout, bool) {
	l := LayoutOf[T]()
	if n < 0 || (l.size != 0 && uintptr(n) > (maxSize-(l.align-1))/l.size) {
		return Layout{}, false
	}
	return l.WithSize(l.size * uintptr(n)), true
}

// MakeSlice allocates a zeroed []T of length n from a. It returns nil for
// n == 0 and when a is exhausted. The same restriction on pointers as for
// New applies.
func MakeSlice[T any](a Allocator, n int) []T {
	if n == 0 {
		return nil
	}
	l, ok := sliceLayout[T](n)
	if !ok {
		return nil
	}
	p := a.AllocZeroed(l)
	if p == nil {
		return nil
	}
	return unsafe.Slice((*T)(p), n)
}

// FreeSlice releases a slice obtained from MakeSlice. s may be resliced but
// must keep its original capacity.
func FreeSlice[T any](a Allocator, s []T) {
	if cap(s) == 0 {
		return
	}
	l, _ := sliceLayout[T](cap(s))
	a.Dealloc(unsafe.Pointer(unsafe.SliceData(s[:cap(s)])), l)
}

// sizedAlign is the alignment of blocks handed out by Sized, enough for any
// scalar type.
const sizedAlign = 16

// Sized adapts an Allocator to the size-only Alloc/Free shape used by
// go.yuchanns.xyz/timefall and ltask:
//
//	timefall.SetAllocator(mimalloc.Sized{A: mimalloc.MiMalloc{}})
//
// Free does not know the block size, so A must ignore the size in Dealloc,
// as MiMalloc and the default allocator do. A nil A means Global().
type Sized struct {
	A Allocator
}

func (s Sized) allocator() Allocator {
	if s.A == nil {
		return Global()
	}
	return s.A
}

func (s Sized) Alloc(size uint) unsafe.Pointer {
	if uintptr(size) > maxSize-(sizedAlign-1) {
		return nil
	}
	return s.allocator().Alloc(Layout{size: uintptr(size), align: sizedAlign})
}

func (s Sized) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	s.allocator().Dealloc(ptr, Layout{align: sizedAlign})
}
