package mimalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLayout(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	for _, align := range testAlignments {
		l, err := NewLayout(24, align)
		assert.NoError(err)
		assert.Equal(uintptr(24), l.Size())
		assert.Equal(align, l.Align())
	}

	for _, align := range []uintptr{0, 3, 6, 12, 4095} {
		_, err := NewLayout(8, align)
		assert.ErrorIs(err, ErrAlignNotPow2)
	}

	_, err := NewLayout(maxSize, 1)
	assert.NoError(err)
	_, err = NewLayout(maxSize, 16)
	assert.ErrorIs(err, ErrSizeOverflow)
	_, err = NewLayout(maxSize+1, 1)
	assert.ErrorIs(err, ErrSizeOverflow)

	assert.Panics(func() { MustLayout(1, 3) })
}

func TestLayoutOf(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	type point struct {
		X, Y int32
		Z    int64
	}
	l := LayoutOf[point]()
	assert.Equal(uintptr(16), l.Size())
	assert.Equal(uintptr(8), l.Align())

	assert.Equal(uintptr(0), LayoutOf[struct{}]().Size())
	assert.Equal(uintptr(1), LayoutOf[struct{}]().Align())
}

func TestLayoutWithSize(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	l := MustLayout(100, 64).WithSize(4096)
	assert.Equal(uintptr(4096), l.Size())
	assert.Equal(uintptr(64), l.Align())

	var zero Layout
	assert.Equal(uintptr(1), zero.Align())
	assert.Equal("Layout{size: 0, align: 1}", zero.String())
}
