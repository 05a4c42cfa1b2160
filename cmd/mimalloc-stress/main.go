package main

import (
	"os"
	"time"

	"github.com/phuslu/log"
	"go.yuchanns.xyz/mimalloc"
)

func main() {
	ca := newCmdArgs(os.Stderr)
	if err := ca.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if ca.Verbose {
		log.DefaultLogger.SetLevel(log.DebugLevel)
	} else {
		log.DefaultLogger.SetLevel(log.InfoLevel)
	}

	mimalloc.Use()
	name, path := mimalloc.Backend()
	log.Info().Str("backend", name).Str("library", path).Msg("mimalloc-stress starting")

	s := &stress{alloc: mimalloc.Global(), args: ca}
	start := time.Now()
	if err := s.run(); err != nil {
		log.Fatal().Err(err).Msg("stress run failed")
	}
	log.Info().
		Int("threads", ca.Threads).
		Int("iterations", ca.Iterations).
		Int64("allocs", s.rep.Allocs.Load()).
		Int64("reallocs", s.rep.Reallocs.Load()).
		Int64("frees", s.rep.Frees.Load()).
		Int64("bytes", s.rep.Bytes.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("mimalloc-stress done")
}
