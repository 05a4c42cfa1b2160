package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

const maxBlockSize = 1 << 30

type cmdArgs struct {
	fs         *flag.FlagSet
	Threads    int
	Iterations int
	MaxSize    uint
	Seed       int64
	Verbose    bool
}

func newCmdArgs(output io.Writer) (ca *cmdArgs) {
	ca = &cmdArgs{
		fs: flag.NewFlagSet("mimalloc-stress", flag.ContinueOnError),
	}
	ca.fs.SetOutput(output)
	ca.fs.IntVar(&ca.Threads, "threads", 32, "Number of concurrent workers")
	ca.fs.IntVar(&ca.Iterations, "iterations", 10000, "Allocation cycles per worker")
	ca.fs.UintVar(&ca.MaxSize, "max-size", 4096, "Largest block size in bytes")
	ca.fs.Int64Var(&ca.Seed, "seed", 1, "Random seed")
	ca.fs.BoolVar(&ca.Verbose, "verbose", false, "Enable debug logging")
	return
}

func (ca *cmdArgs) Parse(arguments []string) (err error) {
	if err = ca.fs.Parse(arguments); err != nil {
		return
	}
	switch {
	case ca.Threads <= 0:
		err = errors.New("threads must be positive")
	case ca.Iterations <= 0:
		err = errors.New("iterations must be positive")
	case ca.MaxSize == 0:
		err = errors.New("max-size must be positive")
	case ca.MaxSize > maxBlockSize:
		err = fmt.Errorf("max-size must not exceed %d", maxBlockSize)
	}
	return
}
