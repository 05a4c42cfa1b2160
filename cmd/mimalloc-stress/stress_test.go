package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.yuchanns.xyz/mimalloc"
)

func TestCmdArgs(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	var out bytes.Buffer
	ca := newCmdArgs(&out)
	assert.NoError(ca.Parse(nil))
	assert.Equal(32, ca.Threads)
	assert.Equal(10000, ca.Iterations)
	assert.Equal(uint(4096), ca.MaxSize)

	ca = newCmdArgs(&out)
	assert.NoError(ca.Parse([]string{"-threads", "4", "-iterations", "50", "-max-size", "128", "-verbose"}))
	assert.Equal(4, ca.Threads)
	assert.Equal(50, ca.Iterations)
	assert.Equal(uint(128), ca.MaxSize)
	assert.True(ca.Verbose)

	assert.Error(newCmdArgs(&out).Parse([]string{"-threads", "0"}))
	assert.Error(newCmdArgs(&out).Parse([]string{"-iterations", "-1"}))
	assert.Error(newCmdArgs(&out).Parse([]string{"-max-size", "0"}))
	assert.Error(newCmdArgs(&out).Parse([]string{"-max-size", "18446744073709551615"}))
	assert.Error(newCmdArgs(&out).Parse([]string{"-max-size", "1073741825"}))
	assert.NoError(newCmdArgs(&out).Parse([]string{"-max-size", "1073741824"}))
	assert.Error(newCmdArgs(&out).Parse([]string{"-unknown"}))
}

func TestStress(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	ca := newCmdArgs(&bytes.Buffer{})
	args := []string{"-threads", "32", "-iterations", "2000"}
	if testing.Short() {
		args = []string{"-threads", "8", "-iterations", "200"}
	}
	assert.NoError(ca.Parse(args))

	s := &stress{alloc: mimalloc.MiMalloc{}, args: ca}
	assert.NoError(s.run())
	assert.Positive(s.rep.Allocs.Load())
	assert.Equal(s.rep.Allocs.Load(), s.rep.Frees.Load(), "every block is released")
}

func TestBlockVerify(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	a := mimalloc.MiMalloc{}
	b := block{layout: mimalloc.MustLayout(64, 16), pattern: 0x5A}
	b.ptr = a.Alloc(b.layout)
	assert.NotNil(b.ptr)
	defer a.Dealloc(b.ptr, b.layout)

	b.fill()
	assert.NoError(b.verify(64))
	b.bytes()[10] = 0
	assert.ErrorContains(b.verify(64), "byte 10")
	assert.NoError(b.verify(10))
}
