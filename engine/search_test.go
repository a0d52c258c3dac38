package engine_test

import (
	"testing"

	"github.com/rs/zerolog"

	"minimax-chess/board"
	"minimax-chess/engine"
)

func newEngine(depth, workers int) *engine.Engine {
	return engine.New(engine.Config{
		MaxDepth: depth,
		Workers:  workers,
		Seed:     12345,
		Logger:   zerolog.Nop(),
	})
}

func referenceTerminal(b *board.Board, side board.Side, ply int) int32 {
	us := b.SideToMove()
	if !b.InCheck(us) {
		return engine.DrawScore
	}
	if us == side {
		return -(engine.Checkmate - int32(ply))
	}
	return engine.Checkmate - int32(ply)
}

// referenceMinimax is plain minimax without pruning or caching.
func referenceMinimax(b *board.Board, side board.Side, ply, maxDepth int) int32 {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return referenceTerminal(b, side, ply)
	}
	if ply >= maxDepth {
		return engine.Evaluation(b, side)
	}
	maximizing := b.SideToMove() == side
	best := engine.Infinity
	if maximizing {
		best = -engine.Infinity
	}
	for _, m := range moves {
		u := b.MakeMove(m)
		score := referenceMinimax(b, side, ply+1, maxDepth)
		b.UnmakeMove(u)
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

func referenceRoot(b *board.Board, maxDepth int) (board.Move, int32) {
	side := b.SideToMove()
	best, bestScore := board.NoMove, -engine.Infinity
	for _, m := range b.LegalMoves() {
		u := b.MakeMove(m)
		score := referenceMinimax(b, side, 1, maxDepth)
		b.UnmakeMove(u)
		if best.IsZero() || score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, bestScore
}

func TestSearchMatchesPlainMinimax(t *testing.T) {
	cases := []struct {
		fen   string
		depth int
	}{
		{board.FENStartPos, 3},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
		{"r1bqkbnr/pppp1ppp/2n5/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 3 3", 2},
		{"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", 4},
	}
	for _, tc := range cases {
		b := mustFEN(t, tc.fen)
		wantMove, wantScore := referenceRoot(b, tc.depth)
		for _, workers := range []int{1, 4} {
			res, err := newEngine(tc.depth, workers).Search(b)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Score != wantScore || res.Move != wantMove {
				t.Errorf("%s depth %d workers %d: got %v (%d), minimax %v (%d)",
					tc.fen, tc.depth, workers, res.Move, res.Score, wantMove, wantScore)
			}
		}
	}
}

func TestParallelAgreesWithSingleWorker(t *testing.T) {
	fens := []string{
		board.FENStartPos,
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		b := mustFEN(t, fen)
		single, err := newEngine(3, 1).Search(b)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		for _, workers := range []int{2, 4, 7} {
			res, err := newEngine(3, workers).Search(b)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Move != single.Move || res.Score != single.Score {
				t.Errorf("%s workers %d: %v (%d), single worker %v (%d)",
					fen, workers, res.Move, res.Score, single.Move, single.Score)
			}
		}
	}
}

func TestFindsMateInOne(t *testing.T) {
	cases := []struct {
		name, fen, mate string
	}{
		{"back rank", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8"},
		{"scholar", "r1bqkbnr/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4", "h5f7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for depth := 1; depth <= 3; depth++ {
				res, err := newEngine(depth, 4).Search(mustFEN(t, tc.fen))
				if err != nil {
					t.Fatalf("Search: %v", err)
				}
				if res.Move.String() != tc.mate {
					t.Fatalf("depth %d: got %v, want %s", depth, res.Move, tc.mate)
				}
				if res.Score != engine.Checkmate-1 {
					t.Fatalf("depth %d: score %d, want %d", depth, res.Score, engine.Checkmate-1)
				}
			}
		})
	}
}

func TestBlackFindsFoolsMate(t *testing.T) {
	b := board.New()
	for _, text := range []string{"f2f3", "e7e5", "g2g4"} {
		m, err := b.ParseMove(text)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", text, err)
		}
		b.ApplyMoveAndUpdate(m)
	}
	m, ok := newEngine(2, 4).FindBestMove(b)
	if !ok || m.String() != "d8h4" {
		t.Fatalf("got %v (ok=%v), want d8h4", m, ok)
	}
}

func TestAvoidsStalemate(t *testing.T) {
	b := mustFEN(t, "7k/8/6K1/8/8/8/8/5Q2 w - - 0 1")
	m, ok := newEngine(1, 4).FindBestMove(b)
	if !ok {
		t.Fatalf("expected a move")
	}
	if m.String() == "f1f7" {
		t.Fatalf("engine chose the stalemating move")
	}
}

func TestNoLegalMoves(t *testing.T) {
	cases := []struct {
		fen   string
		score int32
	}{
		{"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", -engine.Checkmate},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", engine.DrawScore},
	}
	for _, tc := range cases {
		e := newEngine(3, 4)
		b := mustFEN(t, tc.fen)
		if m, ok := e.FindBestMove(b); ok || !m.IsZero() {
			t.Fatalf("%s: expected no move, got %v", tc.fen, m)
		}
		res, err := e.Search(b)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if res.Score != tc.score {
			t.Fatalf("%s: score %d, want %d", tc.fen, res.Score, tc.score)
		}
	}
}

func TestSearchLeavesBoardUntouched(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	b := mustFEN(t, fen)
	res, err := newEngine(2, 4).Search(b)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if b.ToFEN() != fen || !b.Validate() {
		t.Fatalf("search modified the caller's board: %s", b.ToFEN())
	}
	if res.Nodes == 0 {
		t.Fatalf("no nodes counted")
	}
	if !hasLegal(b, res.Move) {
		t.Fatalf("best move %v is not legal", res.Move)
	}
}

func TestSearchSmallRootWithManyWorkers(t *testing.T) {
	// Fewer root moves than workers.
	b := mustFEN(t, "k7/8/8/8/8/8/8/7K w - - 0 1")
	res, err := newEngine(2, 16).Search(b)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !hasLegal(b, res.Move) {
		t.Fatalf("best move %v is not legal", res.Move)
	}
}

func TestCacheIsUsed(t *testing.T) {
	res, err := newEngine(4, 1).Search(board.New())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.CacheHits == 0 {
		t.Fatalf("expected transpositions to hit the cache at depth 4")
	}
	if res.Cutoffs == 0 {
		t.Fatalf("expected alpha-beta cutoffs at depth 4")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := engine.DefaultConfig()
	if cfg.MaxDepth != 4 || cfg.Workers != 4 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	e := engine.New(engine.Config{Logger: zerolog.Nop()})
	if got := e.Config(); got.MaxDepth != 1 || got.Workers != 1 {
		t.Fatalf("zero config not raised to one: %+v", got)
	}
}

func hasLegal(b *board.Board, m board.Move) bool {
	for _, legal := range b.LegalMoves() {
		if legal == m {
			return true
		}
	}
	return false
}

func BenchmarkSearchDepth3(b *testing.B) {
	e := newEngine(3, 4)
	pos := board.New()
	for i := 0; i < b.N; i++ {
		if _, err := e.Search(pos); err != nil {
			b.Fatalf("Search: %v", err)
		}
	}
}
