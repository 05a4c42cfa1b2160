package mimalloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// TestInstall is not parallel: parallel tests only start once it has
// returned, so nothing else observes the swapped global.
func TestInstall(t *testing.T) {
	assert := require.New(t)

	saved := global.Load()
	t.Cleanup(func() {
		global.Store(saved)
		installInit.Store(0)
	})

	_, isDefault := Global().(defaultAllocator)
	assert.True(isDefault, "the default allocator serves requests before Install")

	assert.PanicsWithValue("allocator cannot be nil", func() { Install(nil) })

	Use()
	assert.Equal(Allocator(MiMalloc{}), Global())

	assert.PanicsWithValue("global allocator can only be installed once", func() {
		Install(defaultAllocator{})
	})
	assert.PanicsWithValue("global allocator can only be installed once", Use)
	assert.Equal(Allocator(MiMalloc{}), Global())

	l := MustLayout(24, 8)
	p := Alloc(l)
	assert.NotNil(p)
	assert.Zero(uintptr(p) % 8)
	p = Realloc(p, l, 48)
	assert.NotNil(p)
	Dealloc(p, l.WithSize(48))

	z := AllocZeroed(MustLayout(128, 64))
	assert.NotNil(z)
	assert.Equal(make([]byte, 128), unsafe.Slice((*byte)(z), 128))
	Dealloc(z, MustLayout(128, 64))
}

func TestMiMallocIsStateless(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	assert.Zero(unsafe.Sizeof(MiMalloc{}))
	a, b := MiMalloc{}, MiMalloc{}
	assert.Equal(a, b)

	// Blocks are interchangeable between values.
	l := MustLayout(32, 32)
	p := a.Alloc(l)
	assert.NotNil(p)
	b.Dealloc(p, l)
}

func TestBackend(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	name, path := Backend()
	assert.Contains([]string{"cgo", "purego"}, name)
	assert.NotEmpty(path)
}
