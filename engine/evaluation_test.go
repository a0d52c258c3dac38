package engine_test

import (
	"strings"
	"testing"

	"minimax-chess/board"
	"minimax-chess/engine"
)

func mustFEN(t testing.TB, fen string) *board.Board {
	t.Helper()
	b, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

// mirrorFEN flips the placement vertically, swaps colours and the side to
// move. Castling and en passant are dropped.
func mirrorFEN(fen string) string {
	fields := strings.Fields(fen)
	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	swapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		}
		return r
	}, strings.Join(ranks, "/"))
	side := "b"
	if fields[1] == "b" {
		side = "w"
	}
	return swapped + " " + side + " - - 0 1"
}

func TestEvaluationStartIsBalanced(t *testing.T) {
	b := board.New()
	if got := engine.Evaluation(b, board.White); got != 0 {
		t.Fatalf("start position scored %d for White", got)
	}
	if got := engine.Evaluation(b, board.Black); got != 0 {
		t.Fatalf("start position scored %d for Black", got)
	}
}

func TestEvaluationIsZeroSum(t *testing.T) {
	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		b := mustFEN(t, fen)
		w, bl := engine.Evaluation(b, board.White), engine.Evaluation(b, board.Black)
		if w != -bl {
			t.Errorf("%s: White %d, Black %d", fen, w, bl)
		}
	}
}

func TestEvaluationMirrorSymmetry(t *testing.T) {
	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/8/8/8/3P4/4K3 w - - 0 1",
	}
	for _, fen := range fens {
		b := mustFEN(t, fen)
		m := mustFEN(t, mirrorFEN(fen))
		if got, want := engine.Evaluation(m, board.Black), engine.Evaluation(b, board.White); got != want {
			t.Errorf("%s: mirrored Black %d, White %d", fen, got, want)
		}
	}
}

func TestEvaluationIgnoresSideToMove(t *testing.T) {
	w := mustFEN(t, "4k3/8/8/8/8/8/3P4/4K3 w - - 0 1")
	b := mustFEN(t, "4k3/8/8/8/8/8/3P4/4K3 b - - 0 1")
	if engine.Evaluation(w, board.White) != engine.Evaluation(b, board.White) {
		t.Fatalf("score depends on the side to move")
	}
}

func TestEvaluationMaterial(t *testing.T) {
	b := mustFEN(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if got := engine.Evaluation(b, board.White); got < 800 {
		t.Fatalf("a queen up scored only %d", got)
	}
	if got := engine.Evaluation(b, board.Black); got > -800 {
		t.Fatalf("a queen down scored %d", got)
	}
}

func TestGamePhase(t *testing.T) {
	cases := []struct {
		fen   string
		phase int
	}{
		{board.FENStartPos, engine.TotalPhase},
		{"4k3/pppppppp/8/8/8/8/PPPPPPPP/4K3 w - - 0 1", 0},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", engine.RookPhase},
		{"qqqqkqqq/8/8/8/8/8/8/QQQQKQQQ w - - 0 1", engine.TotalPhase},
	}
	for _, tc := range cases {
		if got := engine.GamePhase(mustFEN(t, tc.fen)); got != tc.phase {
			t.Errorf("%s: phase %d, want %d", tc.fen, got, tc.phase)
		}
	}
}

func TestEvaluationEndgameUsesEndgameTables(t *testing.T) {
	// With only kings and pawns the midgame weight is zero, so a centralised
	// king is preferred over a cornered one.
	center := mustFEN(t, "7k/8/8/8/4K3/8/8/8 w - - 0 1")
	corner := mustFEN(t, "7k/8/8/8/8/8/8/K7 w - - 0 1")
	if engine.Evaluation(center, board.White) <= engine.Evaluation(corner, board.White) {
		t.Fatalf("endgame king placement not rewarded")
	}
}

func BenchmarkEvaluation(b *testing.B) {
	pos := mustFEN(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	for i := 0; i < b.N; i++ {
		engine.Evaluation(pos, board.White)
	}
}
