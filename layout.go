package mimalloc

import (
	"errors"
	"fmt"
	"unsafe"
)

var (
	ErrAlignNotPow2 = errors.New("alignment must be a power of two")
	ErrSizeOverflow = errors.New("size overflows when rounded up to alignment")
)

// Layout describes the size and alignment of a memory block.
//
// The zero value is a zero-size block with alignment 1.
type Layout struct {
	size  uintptr
	align uintptr
}

// maxSize mirrors the largest object the Go runtime can address.
const maxSize = ^uintptr(0) >> 1

func isPow2(x uintptr) bool {
	return x != 0 && x&(x-1) == 0
}

// NewLayout validates size and align and returns the matching Layout.
func NewLayout(size, align uintptr) (Layout, error) {
	if !isPow2(align) {
		return Layout{}, fmt.Errorf("%w: %d", ErrAlignNotPow2, align)
	}
	if size > maxSize-(align-1) {
		return Layout{}, fmt.Errorf("%w: size %d align %d", ErrSizeOverflow, size, align)
	}
	return Layout{size: size, align: align}, nil
}

// MustLayout is like NewLayout but panics on invalid input.
func MustLayout(size, align uintptr) Layout {
	l, err := NewLayout(size, align)
	if err != nil {
		panic(err)
	}
	return l
}

// LayoutOf returns the layout of a value of type T.
func LayoutOf[T any]() Layout {
	var t T
	return Layout{size: unsafe.Sizeof(t), align: unsafe.Alignof(t)}
}

func (l Layout) Size() uintptr {
	return l.size
}

func (l Layout) Align() uintptr {
	if l.align == 0 {
		return 1
	}
	return l.align
}

// WithSize returns a layout with the same alignment and the given size.
// It is what a reallocated block must be released with.
func (l Layout) WithSize(size uintptr) Layout {
	return Layout{size: size, align: l.Align()}
}

func (l Layout) String() string {
	return fmt.Sprintf("Layout{size: %d, align: %d}", l.size, l.Align())
}
