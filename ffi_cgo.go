//go:build cgo && !mimalloc_purego

package mimalloc

/*
#cgo LDFLAGS: -lmimalloc
#include <stddef.h>

void* mi_malloc_aligned(size_t size, size_t alignment);
void* mi_zalloc_aligned(size_t size, size_t alignment);
void* mi_realloc_aligned(void* p, size_t newsize, size_t alignment);
void  mi_free(void* p);
*/
import "C"

import "unsafe"

// These are the only foreign call sites of the package. Callers guarantee
// that alignment is a power of two and that every pointer handed to
// miReallocAligned or miFree was returned by this family and is still live.
// Nothing is checked here.

func miMallocAligned(size, alignment uintptr) unsafe.Pointer {
	return C.mi_malloc_aligned(C.size_t(size), C.size_t(alignment))
}

func miZallocAligned(size, alignment uintptr) unsafe.Pointer {
	return C.mi_zalloc_aligned(C.size_t(size), C.size_t(alignment))
}

func miReallocAligned(p unsafe.Pointer, newSize, alignment uintptr) unsafe.Pointer {
	return C.mi_realloc_aligned(p, C.size_t(newSize), C.size_t(alignment))
}

func miFree(p unsafe.Pointer) {
	C.mi_free(p)
}

func backendInfo() (name, path string) {
	return "cgo", "-lmimalloc"
}
