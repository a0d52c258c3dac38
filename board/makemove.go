package board

import "fmt"

// Undo holds what UnmakeMove needs to restore the position before a move.
type Undo struct {
	move        Move
	moved       Piece // mover before the move (Moved flag included)
	rook        Piece // castling rook before the move
	captured    Piece
	capturedSq  Square
	capturedIdx int // slot in the victim's list, -1 when nothing was captured
	prevLast    Move
	prevStatus  Status
}

// Move returns the move this record undoes.
func (u Undo) Move() Move { return u.move }

// ApplyMove plays m without computing the resulting status. m must come from
// the move generator; a missing piece is an invariant violation and panics.
func (b *Board) ApplyMove(m Move) {
	_ = b.MakeMove(m)
}

// MakeMove plays m and returns the record needed to take it back.
func (b *Board) MakeMove(m Move) Undo {
	u := Undo{move: m, capturedIdx: -1, prevLast: b.lastMove, prevStatus: b.status}

	p := b.grid[m.From.Row][m.From.Col]
	if p.IsEmpty() {
		panic(fmt.Sprintf("piece not found for %s %v\n%s", m, m.Kind, b))
	}
	u.moved = p
	moved := p
	moved.Moved = true

	switch m.Kind {
	case Ordinary, Promotion:
		if target := b.grid[m.To.Row][m.To.Col]; !target.IsEmpty() {
			u.captured, u.capturedIdx = b.capture(m.To)
			u.capturedSq = m.To
		}
		if m.Kind == Promotion {
			moved.Kind = m.Promote
		}
		b.relocate(m.From, m.To, moved)
	case EnPassant:
		victim := Square{m.From.Row, m.To.Col}
		if b.grid[victim.Row][victim.Col].Kind != Pawn {
			panic(fmt.Sprintf("en passant victim not found for %s\n%s", m, b))
		}
		u.captured, u.capturedIdx = b.capture(victim)
		u.capturedSq = victim
		b.relocate(m.From, m.To, moved)
	case Castle:
		rook := b.grid[m.To.Row][m.To.Col]
		if rook.Kind != Rook || p.Kind != King {
			panic(fmt.Sprintf("castle pieces not found for %s\n%s", m, b))
		}
		u.rook = rook
		rook.Moved = true
		kingTo, rookTo := castleSquares(m.From, m.To)
		b.relocate(m.From, kingTo, moved)
		b.relocate(m.To, rookTo, rook)
	default:
		panic(fmt.Sprintf("unknown move kind %d", m.Kind))
	}

	b.lastMove = m
	b.sideToMove = b.sideToMove.Other()
	return u
}

// UnmakeMove takes back the move recorded in u. Moves must be undone in
// reverse order of making.
func (b *Board) UnmakeMove(u Undo) {
	m := u.move
	b.sideToMove = b.sideToMove.Other()
	b.lastMove = u.prevLast
	b.status = u.prevStatus

	switch m.Kind {
	case Ordinary, Promotion, EnPassant:
		b.relocate(m.To, m.From, u.moved)
	case Castle:
		kingTo, rookTo := castleSquares(m.From, m.To)
		b.relocate(rookTo, m.To, u.rook)
		b.relocate(kingTo, m.From, u.moved)
	}
	if u.capturedIdx >= 0 {
		b.restore(u.capturedSq, u.captured, u.capturedIdx)
	}
}
