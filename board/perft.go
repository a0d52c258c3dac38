package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		u := b.MakeMove(m)
		nodes += Perft(b, depth-1)
		b.UnmakeMove(u)
	}
	return nodes
}

// PerftDivide returns the perft count below each root move, keyed by its
// coordinate notation.
func PerftDivide(b *Board, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth <= 0 {
		return out
	}
	for _, m := range b.LegalMoves() {
		u := b.MakeMove(m)
		out[m.String()] = Perft(b, depth-1)
		b.UnmakeMove(u)
	}
	return out
}
