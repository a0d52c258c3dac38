package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"slices"
	"time"

	"github.com/dylhunn/dragontoothmg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"

	"minimax-chess/board"
)

func main() {
	fen := flag.String("fen", board.FENStartPos, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	verify := flag.Bool("verify", false, "Cross-check node counts against dragontoothmg")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *depth <= 0 {
		log.Fatal().Msg("-depth must be > 0")
	}

	b, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal().Err(err).Str("fen", *fen).Msg("parsing FEN")
	}

	if *divide {
		div := board.PerftDivide(b, *depth)
		moves := maps.Keys(div)
		slices.Sort(moves)
		var sum uint64
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Printf("Total: %d\n", sum)
		if *verify {
			verifyDivide(*fen, *depth, div)
		}
		return
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.Fatal().Err(err).Msg("creating cpuprofile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("start cpu profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += board.Perft(b, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)

	if *verify {
		oracle := dragontoothmg.ParseFen(*fen)
		want := dragontoothPerft(&oracle, *depth)
		got := totalNodes / uint64(*repeat)
		if got != want {
			log.Fatal().Uint64("nodes", got).Uint64("dragontoothmg", want).Msg("perft mismatch")
		}
		log.Info().Uint64("nodes", got).Msg("verified against dragontoothmg")
	}
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += dragontoothPerft(b, depth-1)
		undo()
	}
	return nodes
}

// verifyDivide compares every root subtree with dragontoothmg so a mismatch
// points at the offending move.
func verifyDivide(fen string, depth int, div map[string]uint64) {
	oracle := dragontoothmg.ParseFen(fen)
	want := make(map[string]uint64)
	for _, m := range oracle.GenerateLegalMoves() {
		undo := oracle.Apply(m)
		want[m.String()] = dragontoothPerft(&oracle, depth-1)
		undo()
	}
	bad := 0
	for _, m := range sortedUnion(div, want) {
		if div[m] != want[m] {
			log.Error().Str("move", m).Uint64("ours", div[m]).Uint64("dragontoothmg", want[m]).Msg("divide mismatch")
			bad++
		}
	}
	if bad > 0 {
		log.Fatal().Int("moves", bad).Msg("divide does not match dragontoothmg")
	}
	log.Info().Int("moves", len(div)).Msg("divide verified against dragontoothmg")
}

func sortedUnion(a, b map[string]uint64) []string {
	keys := maps.Keys(a)
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
