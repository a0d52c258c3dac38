package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIllegalMove is returned when text names no legal move in the position.
var ErrIllegalMove = errors.New("illegal move")

// Attacked reports whether any piece of side by attacks sq, using attack-mode
// generation for every piece of that side.
func (b *Board) Attacked(sq Square, by Side) bool {
	var scratch [32]Move
	for _, from := range b.occupied[by] {
		for _, m := range b.PieceMovesInto(scratch[:0], from, true) {
			if m.To == sq {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether the king of side s is attacked.
func (b *Board) InCheck(s Side) bool {
	return b.Attacked(b.KingSquare(s), s.Other())
}

// LegalMoves returns the legal moves of the side to move.
//
// Every generated move, castles and promotions included, is played on the
// board and kept only if the mover's king is not attacked afterwards. A castle
// is further rejected when the king is in check or crosses an attacked square.
func (b *Board) LegalMoves() []Move {
	moves, _ := b.legalMovesAndStatus()
	return moves
}

func (b *Board) legalMovesAndStatus() ([]Move, Status) {
	us := b.sideToMove
	inCheck := b.InCheck(us)

	pseudo := b.PseudoLegalMoves()
	legal := pseudo[:0]
	for _, m := range pseudo {
		if b.isLegal(m, inCheck) {
			legal = append(legal, m)
		}
	}
	return legal, deriveStatus(inCheck, len(legal))
}

// HasLegalMove reports whether the side to move has any legal move, stopping
// at the first one found.
func (b *Board) HasLegalMove() bool {
	inCheck := b.InCheck(b.sideToMove)
	for _, m := range b.PseudoLegalMoves() {
		if b.isLegal(m, inCheck) {
			return true
		}
	}
	return false
}

// isLegal plays a pseudo-legal move and reports whether the mover's king is
// safe afterwards. inCheck is the mover's check state before the move.
func (b *Board) isLegal(m Move, inCheck bool) bool {
	us := b.sideToMove
	if m.Kind == Castle {
		if inCheck {
			return false
		}
		_, crossed := castleSquares(m.From, m.To)
		if b.Attacked(crossed, us.Other()) {
			return false
		}
	}
	u := b.MakeMove(m)
	safe := !b.InCheck(us)
	b.UnmakeMove(u)
	return safe
}

func deriveStatus(inCheck bool, legal int) Status {
	switch {
	case inCheck && legal == 0:
		return Checkmate
	case inCheck:
		return Check
	case legal == 0:
		return Stalemate
	default:
		return Normal
	}
}

// ApplyMoveAndUpdate plays m, recomputes the status and returns the legal moves
// of the side now to move. This is the entry point for driving a game.
func (b *Board) ApplyMoveAndUpdate(m Move) []Move {
	b.MakeMove(m)
	return b.UpdateStatus()
}

// UpdateStatus recomputes the status of the side to move and returns its legal moves.
func (b *Board) UpdateStatus() []Move {
	moves, st := b.legalMovesAndStatus()
	b.status = st
	return moves
}

// ParseMove resolves coordinate notation ("e2e4", "e7e8q", "e1g1") into a
// legal move of the side to move.
func (b *Board) ParseMove(text string) (Move, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, m := range b.LegalMoves() {
		if m.String() == text {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, text)
}
