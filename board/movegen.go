package board

// Direction vectors as (row, col) deltas.
var (
	rookDirs    = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs  = [4][2]int{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	queenDirs   = [8][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	knightJumps = [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// PieceMovesInto appends the pseudo-legal moves of the piece on from to buf.
//
// With attack=false it produces ordinary generation: captures only ever take
// an enemy non-king piece, pawns push, promote and capture en passant.
// With attack=true it produces one move per square the piece attacks, that is
// every square on which an enemy king would stand in check; pawns only attack
// diagonally and rays stop at, and include, the first occupied square.
//
// Castling is not produced here; see CastleMovesInto.
func (b *Board) PieceMovesInto(buf []Move, from Square, attack bool) []Move {
	p := b.grid[from.Row][from.Col]
	switch p.Kind {
	case Pawn:
		return b.pawnMoves(buf, from, p, attack)
	case Knight:
		return b.stepMoves(buf, from, p, knightJumps[:], attack)
	case King:
		return b.stepMoves(buf, from, p, queenDirs[:], attack)
	case Bishop:
		return b.slideMoves(buf, from, p, bishopDirs[:], attack)
	case Rook:
		return b.slideMoves(buf, from, p, rookDirs[:], attack)
	case Queen:
		return b.slideMoves(buf, from, p, queenDirs[:], attack)
	}
	return buf
}

// canLand reports whether a normal move of p may end on a square holding target.
func canLand(p, target Piece) bool {
	return target.IsEmpty() || (target.Side != p.Side && target.Kind != King)
}

func (b *Board) stepMoves(buf []Move, from Square, p Piece, offsets [][2]int, attack bool) []Move {
	for _, d := range offsets {
		to := from.Offset(d[0], d[1])
		if !to.Valid() {
			continue
		}
		if attack || canLand(p, b.grid[to.Row][to.Col]) {
			buf = append(buf, NewOrdinary(from, to))
		}
	}
	return buf
}

func (b *Board) slideMoves(buf []Move, from Square, p Piece, dirs [][2]int, attack bool) []Move {
	for _, d := range dirs {
		for to := from.Offset(d[0], d[1]); to.Valid(); to = to.Offset(d[0], d[1]) {
			target := b.grid[to.Row][to.Col]
			if target.IsEmpty() {
				buf = append(buf, NewOrdinary(from, to))
				continue
			}
			if attack || canLand(p, target) {
				buf = append(buf, NewOrdinary(from, to))
			}
			break
		}
	}
	return buf
}

func (b *Board) pawnMoves(buf []Move, from Square, p Piece, attack bool) []Move {
	fwd := p.Side.forward()
	lastRow := p.Side.Other().backRow()

	if attack {
		for _, dc := range [2]int{-1, 1} {
			if to := from.Offset(fwd, dc); to.Valid() {
				buf = append(buf, NewOrdinary(from, to))
			}
		}
		return buf
	}

	one := from.Offset(fwd, 0)
	if one.Valid() && b.grid[one.Row][one.Col].IsEmpty() {
		buf = appendPawnMove(buf, from, one, lastRow)
		two := one.Offset(fwd, 0)
		if !p.Moved && two.Valid() && b.grid[two.Row][two.Col].IsEmpty() {
			buf = append(buf, NewOrdinary(from, two))
		}
	}

	for _, dc := range [2]int{-1, 1} {
		to := from.Offset(fwd, dc)
		if !to.Valid() {
			continue
		}
		target := b.grid[to.Row][to.Col]
		if !target.IsEmpty() {
			if target.Side != p.Side && target.Kind != King {
				buf = appendPawnMove(buf, from, to, lastRow)
			}
			continue
		}
		if b.enPassantTarget(from, p, to) {
			buf = append(buf, NewEnPassant(from, to))
		}
	}
	return buf
}

// appendPawnMove adds a pawn move, expanding it into four promotions on the last rank.
func appendPawnMove(buf []Move, from, to Square, lastRow int) []Move {
	if to.Row != lastRow {
		return append(buf, NewOrdinary(from, to))
	}
	for _, k := range PromotionKinds {
		buf = append(buf, NewPromotion(from, to, k))
	}
	return buf
}

// enPassantTarget reports whether the pawn p on from may capture en passant
// onto the empty square to: the last move must be an enemy pawn double step
// that landed beside from on the column of to.
func (b *Board) enPassantTarget(from Square, p Piece, to Square) bool {
	last := b.lastMove
	if last.Kind != Ordinary || last.To.Row != from.Row || last.To.Col != to.Col {
		return false
	}
	if d := last.From.Row - last.To.Row; d != 2 && d != -2 {
		return false
	}
	victim := b.grid[last.To.Row][last.To.Col]
	return victim.Kind == Pawn && victim.Side != p.Side
}

// CastleMovesInto appends castle candidates for the king on kingSq: the king
// and the corner rook are unmoved and every square between them is empty.
// Attack conditions are checked by LegalMoves.
func (b *Board) CastleMovesInto(buf []Move, kingSq Square) []Move {
	king := b.grid[kingSq.Row][kingSq.Col]
	if king.Kind != King || king.Moved {
		return buf
	}
	row := kingSq.Row
	for _, rookCol := range [2]int{7, 0} {
		rook := b.grid[row][rookCol]
		if rook.Kind != Rook || rook.Side != king.Side || rook.Moved {
			continue
		}
		lo, hi := kingSq.Col, rookCol
		if lo > hi {
			lo, hi = hi, lo
		}
		free := true
		for col := lo + 1; col < hi; col++ {
			if !b.grid[row][col].IsEmpty() {
				free = false
				break
			}
		}
		if free {
			buf = append(buf, NewCastle(kingSq, Square{row, rookCol}))
		}
	}
	return buf
}

// PseudoLegalMoves returns every generated move of the side to move before the
// self-check filter.
func (b *Board) PseudoLegalMoves() []Move {
	buf := make([]Move, 0, 64)
	us := b.sideToMove
	for _, sq := range b.occupied[us] {
		buf = b.PieceMovesInto(buf, sq, false)
		if b.grid[sq.Row][sq.Col].Kind == King {
			buf = b.CastleMovesInto(buf, sq)
		}
	}
	return buf
}
