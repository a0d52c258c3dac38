package board_test

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"

	"minimax-chess/board"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestPerftInitialPosition(t *testing.T) {
	b := board.New()
	want := []uint64{1, 20, 400, 8902}
	for depth, nodes := range want {
		if got := board.Perft(b, depth); got != nodes {
			t.Fatalf("perft(%d) = %d, want %d", depth, got, nodes)
		}
	}
	if b.ToFEN() != board.FENStartPos || !b.Validate() {
		t.Fatalf("perft left the board modified")
	}
}

func TestPerftDepth4(t *testing.T) {
	if testing.Short() {
		t.Skip("slow")
	}
	if got := board.Perft(board.New(), 4); got != 197281 {
		t.Fatalf("perft(4) = %d, want 197281", got)
	}
}

func TestPerftPositions(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		depth int
		nodes uint64
	}{
		{"kiwipete d1", kiwipete, 1, 48},
		{"kiwipete d2", kiwipete, 2, 2039},
		{"en passant d1", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", 1, 5},
		{"en passant d2", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", 2, 19},
		{"promotion d1", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", 1, 11},
		{"endgame d3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
		{"position 4 d3", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9467},
		{"position 5 d2", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 2, 1486},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := mustFEN(t, tc.fen)
			if got := board.Perft(b, tc.depth); got != tc.nodes {
				t.Fatalf("perft(%d) = %d, want %d", tc.depth, got, tc.nodes)
			}
		})
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	b := mustFEN(t, kiwipete)
	div := board.PerftDivide(b, 2)
	if len(div) != 48 {
		t.Fatalf("divide has %d root moves, want 48", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 2039 {
		t.Fatalf("divide sums to %d, want 2039", sum)
	}
	if div["e1g1"] == 0 || div["e1c1"] == 0 {
		t.Fatalf("castles missing from divide: %v", div)
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

// The bitboard generator serves as an independent oracle for the mailbox one.
func TestPerftMatchesDragontooth(t *testing.T) {
	fens := []string{
		board.FENStartPos,
		kiwipete,
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	}
	for _, fen := range fens {
		ours := mustFEN(t, fen)
		oracle := dragontoothmg.ParseFen(fen)
		for depth := 1; depth <= 2; depth++ {
			want := dragontoothPerft(&oracle, depth)
			if got := board.Perft(ours, depth); got != want {
				t.Fatalf("%s perft(%d) = %d, dragontoothmg says %d", fen, depth, got, want)
			}
		}
	}
}

func BenchmarkPerft3(b *testing.B) {
	pos := board.New()
	for i := 0; i < b.N; i++ {
		board.Perft(pos, 3)
	}
}

func BenchmarkLegalMovesKiwipete(b *testing.B) {
	pos, err := board.ParseFEN(kiwipete)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pos.LegalMoves()
	}
}
