//go:build (!cgo || mimalloc_purego) && (linux || darwin || freebsd)

package mimalloc

import (
	"fmt"
	"os"
	"reflect"
	"runtime"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/phuslu/log"
)

// LibraryEnv overrides the shared library the purego binding loads.
const LibraryEnv = "MIMALLOC_LIBRARY"

type ffi struct {
	MallocAligned  func(size, alignment uintptr) unsafe.Pointer                      `ffi:"mi_malloc_aligned"`
	ZallocAligned  func(size, alignment uintptr) unsafe.Pointer                      `ffi:"mi_zalloc_aligned"`
	ReallocAligned func(p unsafe.Pointer, newSize, alignment uintptr) unsafe.Pointer `ffi:"mi_realloc_aligned"`
	Free           func(p unsafe.Pointer)                                            `ffi:"mi_free"`
}

var (
	lib         ffi
	libraryPath string
)

// The library is resolved before main runs. A host without mimalloc never
// gets past initialisation, which is as close to a link failure as a
// cgo-free build can get.
func init() {
	path, err := loadLibrary(&lib, libraryCandidates())
	if err != nil {
		panic(err)
	}
	libraryPath = path
	log.Debug().Msgf("mimalloc: loaded %s", path)
}

func libraryCandidates() []string {
	if path := os.Getenv(LibraryEnv); path != "" {
		return []string{path}
	}
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"libmimalloc.dylib",
			"libmimalloc.2.dylib",
			"/opt/homebrew/lib/libmimalloc.dylib",
			"/usr/local/lib/libmimalloc.dylib",
		}
	default:
		return []string{"libmimalloc.so.2", "libmimalloc.so"}
	}
}

func loadLibrary(f *ffi, candidates []string) (string, error) {
	var errs []string
	for _, path := range candidates {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if err := registerFuncs(f, handle); err != nil {
			_ = purego.Dlclose(handle)
			errs = append(errs, fmt.Sprintf("%s: %s", path, err))
			continue
		}
		return path, nil
	}
	return "", fmt.Errorf("mimalloc: cannot load shared library (is libmimalloc installed?): %s",
		strings.Join(errs, "; "))
}

func registerFuncs(f *ffi, handle uintptr) error {
	t := reflect.TypeOf(f).Elem()
	v := reflect.ValueOf(f).Elem()
	for i := range t.NumField() {
		field := t.Field(i)
		if field.Type.Kind() != reflect.Func {
			continue
		}
		fname := field.Tag.Get("ffi")
		if fname == "" {
			continue
		}
		// RegisterLibFunc panics on a missing symbol.
		if _, err := purego.Dlsym(handle, fname); err != nil {
			return err
		}
		purego.RegisterLibFunc(v.Field(i).Addr().Interface(), handle, fname)
	}
	return nil
}

func miMallocAligned(size, alignment uintptr) unsafe.Pointer {
	return lib.MallocAligned(size, alignment)
}

func miZallocAligned(size, alignment uintptr) unsafe.Pointer {
	return lib.ZallocAligned(size, alignment)
}

func miReallocAligned(p unsafe.Pointer, newSize, alignment uintptr) unsafe.Pointer {
	return lib.ReallocAligned(p, newSize, alignment)
}

func miFree(p unsafe.Pointer) {
	lib.Free(p)
}

func backendInfo() (name, path string) {
	return "purego", libraryPath
}
