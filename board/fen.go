package board

import (
	"errors"
	"fmt"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN wraps every FEN parsing failure.
var ErrInvalidFEN = errors.New("invalid FEN")

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

// ParseFEN parses a FEN string and returns a new Board set up to that position.
//
// Move flags are derived from the position: pawns off their starting rank have
// moved, and a king or corner rook is unmoved only when the castling field
// grants the matching right. The en passant field becomes the last move, a
// double step of the enemy pawn. Clock fields are accepted and ignored.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fenError("not enough fields")
	}

	b := empty()

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fenError("incorrect number of ranks")
	}
	for i, rankStr := range ranks {
		row := 7 - i
		col := 0
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			p, ok := pieceFromChar(ch)
			if !ok {
				return nil, fenError("unrecognized piece character %q", ch)
			}
			if col >= 8 {
				return nil, fenError("too many squares in rank %d", row+1)
			}
			if p.Kind == Pawn {
				if row == 0 || row == 7 {
					return nil, fenError("pawn on back rank")
				}
				p.Moved = row != pawnRow(p.Side)
			}
			if p.Kind == King || p.Kind == Rook {
				p.Moved = true
			}
			b.put(Square{row, col}, p)
			col++
		}
		if col != 8 {
			return nil, fenError("rank %d does not cover 8 files", row+1)
		}
	}

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fenError("invalid side to move %q", fields[1])
	}

	for s := White; s <= Black; s++ {
		kings := 0
		for _, sq := range b.occupied[s] {
			if b.grid[sq.Row][sq.Col].Kind == King {
				kings++
			}
		}
		if kings != 1 {
			return nil, fenError("%s has %d kings", s, kings)
		}
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			var s Side
			var rookCol int
			switch fields[2][i] {
			case 'K':
				s, rookCol = White, 7
			case 'Q':
				s, rookCol = White, 0
			case 'k':
				s, rookCol = Black, 7
			case 'q':
				s, rookCol = Black, 0
			default:
				return nil, fenError("invalid castling field %q", fields[2])
			}
			row := s.backRow()
			king, rook := &b.grid[row][4], &b.grid[row][rookCol]
			if king.Kind != King || king.Side != s || rook.Kind != Rook || rook.Side != s {
				return nil, fenError("castling right %c without king and rook in place", fields[2][i])
			}
			king.Moved = false
			rook.Moved = false
		}
	}

	if fields[3] != "-" {
		ep, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fenError("invalid en passant square %q", fields[3])
		}
		mover := b.sideToMove.Other()
		fwd := mover.forward()
		from, to := ep.Offset(-fwd, 0), ep.Offset(fwd, 0)
		if !from.Valid() || !to.Valid() {
			return nil, fenError("en passant square %s on wrong rank", ep)
		}
		if pawn := b.grid[to.Row][to.Col]; pawn.Kind != Pawn || pawn.Side != mover {
			return nil, fenError("no pawn behind en passant square %s", ep)
		}
		b.lastMove = NewOrdinary(from, to)
	}

	b.UpdateStatus()
	return b, nil
}

// pawnRow is the row a side's pawns start on.
func pawnRow(s Side) int {
	if s == White {
		return 1
	}
	return 6
}

// ToFEN renders the position as FEN. Castling rights are read from the move
// flags of kings and corner rooks; the clocks are always "0 1".
func (b *Board) ToFEN() string {
	var sb strings.Builder
	for row := 7; row >= 0; row-- {
		gap := 0
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p.IsEmpty() {
				gap++
				continue
			}
			if gap > 0 {
				sb.WriteByte('0' + byte(gap))
				gap = 0
			}
			sb.WriteByte(p.Char())
		}
		if gap > 0 {
			sb.WriteByte('0' + byte(gap))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	if b.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	rights := ""
	for _, r := range [4]struct {
		s       Side
		rookCol int
		ch      byte
	}{{White, 7, 'K'}, {White, 0, 'Q'}, {Black, 7, 'k'}, {Black, 0, 'q'}} {
		row := r.s.backRow()
		king, rook := b.grid[row][4], b.grid[row][r.rookCol]
		if king.Kind == King && king.Side == r.s && !king.Moved &&
			rook.Kind == Rook && rook.Side == r.s && !rook.Moved {
			rights += string(r.ch)
		}
	}
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	sb.WriteByte(' ')
	sb.WriteString(b.enPassantSquare())
	sb.WriteString(" 0 1")
	return sb.String()
}

// enPassantSquare names the square skipped by a pawn double step on the last
// move, or "-".
func (b *Board) enPassantSquare() string {
	last := b.lastMove
	if last.Kind != Ordinary || b.grid[last.To.Row][last.To.Col].Kind != Pawn {
		return "-"
	}
	if d := last.To.Row - last.From.Row; d == 2 || d == -2 {
		return Square{(last.From.Row + last.To.Row) / 2, last.To.Col}.String()
	}
	return "-"
}
