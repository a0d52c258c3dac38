package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"minimax-chess/board"
	"minimax-chess/engine"
)

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", engine.DefaultConfig().MaxDepth, "search depth in plies")
	workersFlag := flag.Int("workers", engine.DefaultConfig().Workers, "parallel root workers")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", board.FENStartPos, "FEN to search")
	seedFlag := flag.Uint64("seed", 1, "fingerprint seed (0 = random)")
	verbose := flag.Bool("v", false, "log per-worker progress")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if *depthFlag <= 0 {
		log.Fatal().Int("depth", *depthFlag).Msg("depth must be positive")
	}

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	e := engine.New(engine.Config{
		MaxDepth: *depthFlag,
		Workers:  *workersFlag,
		Seed:     *seedFlag,
		Logger:   log.Logger,
	})

	fmt.Printf("searchbench: fen=%q depth=%d workers=%d repeat=%d\n", *fenFlag, *depthFlag, *workersFlag, *repeatFlag)

	var totalNodes uint64
	startAll := time.Now()
	for i := 0; i < *repeatFlag; i++ {
		// Fresh position for each run
		b, err := board.ParseFEN(*fenFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("parsing FEN")
		}

		iterStart := time.Now()
		res, err := e.Search(b)
		if err != nil {
			log.Fatal().Err(err).Msg("search failed")
		}
		iterElapsed := time.Since(iterStart)
		totalNodes += res.Nodes

		fmt.Printf("iteration %d: bestmove %v score %s nodes=%d cachehits=%d cutoffs=%d time=%v\n",
			i+1, res.Move, engine.ScoreString(res.Score), res.Nodes, res.CacheHits, res.Cutoffs, iterElapsed)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v nps=%.0f\n", totalElapsed, float64(totalNodes)/totalElapsed.Seconds())

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create memory profile")
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not write memory profile")
		}
	}
}
