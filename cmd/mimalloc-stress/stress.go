package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/phuslu/log"
	"go.yuchanns.xyz/mimalloc"
)

const slotsPerWorker = 16

var alignments = []uintptr{1, 2, 4, 8, 16, 32, 64, 4096}

type report struct {
	Allocs   atomic.Int64
	Reallocs atomic.Int64
	Frees    atomic.Int64
	Bytes    atomic.Int64
}

type block struct {
	ptr     unsafe.Pointer
	layout  mimalloc.Layout
	pattern byte
}

func (b *block) bytes() []byte {
	return unsafe.Slice((*byte)(b.ptr), b.layout.Size())
}

func (b *block) fill() {
	data := b.bytes()
	for i := range data {
		data[i] = b.pattern
	}
}

func (b *block) verify(n uintptr) error {
	if uintptr(b.ptr)%b.layout.Align() != 0 {
		return fmt.Errorf("block %p is not aligned to %d", b.ptr, b.layout.Align())
	}
	data := b.bytes()[:min(n, b.layout.Size())]
	for i, c := range data {
		if c != b.pattern {
			return fmt.Errorf("block %p byte %d is %#x, want %#x", b.ptr, i, c, b.pattern)
		}
	}
	return nil
}

type stress struct {
	alloc mimalloc.Allocator
	args  *cmdArgs
	rep   report
}

func (s *stress) run() error {
	errs := make([]error, s.args.Threads)
	var wg sync.WaitGroup
	for id := range s.args.Threads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[id] = s.worker(id)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (s *stress) randomLayout(rng *rand.Rand) mimalloc.Layout {
	size := uintptr(rng.UintN(s.args.MaxSize + 1))
	align := alignments[rng.IntN(len(alignments))]
	return mimalloc.MustLayout(size, align)
}

func (s *stress) worker(id int) (err error) {
	rng := rand.New(rand.NewPCG(uint64(s.args.Seed), uint64(id)))
	var slots [slotsPerWorker]block
	defer func() {
		for i := range slots {
			if slots[i].ptr != nil {
				s.alloc.Dealloc(slots[i].ptr, slots[i].layout)
				s.rep.Frees.Add(1)
			}
		}
	}()

	for i := range s.args.Iterations {
		b := &slots[rng.IntN(slotsPerWorker)]
		switch {
		case b.ptr == nil:
			b.layout = s.randomLayout(rng)
			b.pattern = byte(id*31 + i)
			b.ptr = s.alloc.Alloc(b.layout)
			if b.ptr == nil {
				return fmt.Errorf("worker %d: allocator exhausted for %s", id, b.layout)
			}
			b.fill()
			s.rep.Allocs.Add(1)
			s.rep.Bytes.Add(int64(b.layout.Size()))
		case rng.IntN(2) == 0:
			old := b.layout.Size()
			newSize := uintptr(rng.UintN(s.args.MaxSize + 1))
			p := s.alloc.Realloc(b.ptr, b.layout, newSize)
			if p == nil {
				return fmt.Errorf("worker %d: allocator exhausted reallocating to %d", id, newSize)
			}
			b.ptr, b.layout = p, b.layout.WithSize(newSize)
			if err = b.verify(old); err != nil {
				return fmt.Errorf("worker %d: after realloc: %w", id, err)
			}
			b.pattern++
			b.fill()
			s.rep.Reallocs.Add(1)
		default:
			if err = b.verify(b.layout.Size()); err != nil {
				return fmt.Errorf("worker %d: before free: %w", id, err)
			}
			s.alloc.Dealloc(b.ptr, b.layout)
			b.ptr = nil
			s.rep.Frees.Add(1)
		}
	}
	log.Debug().Msgf("Worker %d finished %d iterations", id, s.args.Iterations)
	return nil
}
