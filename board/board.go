package board

import "fmt"

// Grid is an 8x8 array of squares indexed [row][col].
type Grid [8][8]Piece

// Board represents the chess board state: piece placement, the squares each
// side occupies, the side to move, the last move played and the game status.
type Board struct {
	grid Grid

	// Occupied squares per side (index 0 = white, 1 = black). Always the
	// exact set of squares holding a piece of that side.
	occupied [2][]Square

	sideToMove Side

	// Last move played, needed for en passant.
	lastMove Move

	status Status
}

var backRank = [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// New returns a board in the standard initial arrangement, White to move.
func New() *Board {
	b := &Board{}
	b.occupied[White] = make([]Square, 0, 16)
	b.occupied[Black] = make([]Square, 0, 16)
	for col, k := range backRank {
		b.put(Square{0, col}, Piece{Kind: k, Side: White})
		b.put(Square{7, col}, Piece{Kind: k, Side: Black})
	}
	for col := 0; col < 8; col++ {
		b.put(Square{1, col}, Piece{Kind: Pawn, Side: White})
		b.put(Square{6, col}, Piece{Kind: Pawn, Side: Black})
	}
	return b
}

// empty returns a board with no pieces. Callers must add both kings.
func empty() *Board {
	b := &Board{}
	b.occupied[White] = make([]Square, 0, 16)
	b.occupied[Black] = make([]Square, 0, 16)
	return b
}

// Clone returns a deep copy that shares nothing with b.
func (b *Board) Clone() *Board {
	c := *b
	c.occupied[White] = append(make([]Square, 0, 16), b.occupied[White]...)
	c.occupied[Black] = append(make([]Square, 0, 16), b.occupied[Black]...)
	return &c
}

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Side { return b.sideToMove }

// Status returns the status computed after the last ApplyMoveAndUpdate.
func (b *Board) Status() Status { return b.status }

// LastMove returns the last move applied, or NoMove.
func (b *Board) LastMove() Move { return b.lastMove }

// PieceAt returns the content of a square.
func (b *Board) PieceAt(sq Square) Piece { return b.grid[sq.Row][sq.Col] }

// Snapshot returns a copy of the grid for rendering.
func (b *Board) Snapshot() Grid { return b.grid }

// Occupied returns a copy of the squares held by the given side, in list order.
func (b *Board) Occupied(s Side) []Square {
	return append([]Square(nil), b.occupied[s]...)
}

// KingSquare locates the king of the given side. A missing king is an
// invariant violation and panics.
func (b *Board) KingSquare(s Side) Square {
	for _, sq := range b.occupied[s] {
		if b.grid[sq.Row][sq.Col].Kind == King {
			return sq
		}
	}
	panic(fmt.Sprintf("%s king not found\n%s", s, b))
}

// ==========================
// Mutation primitives
// ==========================

// put places a piece on an empty square and appends it to the side's list.
func (b *Board) put(sq Square, p Piece) {
	b.grid[sq.Row][sq.Col] = p
	b.occupied[p.Side] = append(b.occupied[p.Side], sq)
}

// indexOf returns the position of sq in the side's list or panics.
func (b *Board) indexOf(s Side, sq Square) int {
	for i, o := range b.occupied[s] {
		if o == sq {
			return i
		}
	}
	panic(fmt.Sprintf("%s piece not found on %s", s, sq))
}

// capture removes the piece on sq from grid and list, returning it and its
// former list index.
func (b *Board) capture(sq Square) (Piece, int) {
	p := b.grid[sq.Row][sq.Col]
	idx := b.indexOf(p.Side, sq)
	list := b.occupied[p.Side]
	copy(list[idx:], list[idx+1:])
	b.occupied[p.Side] = list[:len(list)-1]
	b.grid[sq.Row][sq.Col] = Piece{}
	return p, idx
}

// restore puts a captured piece back at its former list index.
func (b *Board) restore(sq Square, p Piece, idx int) {
	list := append(b.occupied[p.Side], Square{})
	copy(list[idx+1:], list[idx:])
	list[idx] = sq
	b.occupied[p.Side] = list
	b.grid[sq.Row][sq.Col] = p
}

// relocate moves the piece on from to the empty square to, keeping its list slot.
func (b *Board) relocate(from, to Square, p Piece) {
	idx := b.indexOf(p.Side, from)
	b.occupied[p.Side][idx] = to
	b.grid[from.Row][from.Col] = Piece{}
	b.grid[to.Row][to.Col] = p
}

// Validate checks that the per-side lists match the grid exactly and that
// each side has one king.
func (b *Board) Validate() bool {
	var seen [2]map[Square]bool
	for s := White; s <= Black; s++ {
		seen[s] = make(map[Square]bool, len(b.occupied[s]))
		kings := 0
		for _, sq := range b.occupied[s] {
			if !sq.Valid() || seen[s][sq] {
				return false
			}
			seen[s][sq] = true
			p := b.grid[sq.Row][sq.Col]
			if p.IsEmpty() || p.Side != s {
				return false
			}
			if p.Kind == King {
				kings++
			}
		}
		if kings != 1 {
			return false
		}
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if !p.IsEmpty() && !seen[p.Side][Square{row, col}] {
				return false
			}
		}
	}
	return true
}

// String draws the board with rank 8 on top.
func (b *Board) String() string {
	out := make([]byte, 0, 200)
	out = append(out, "  a b c d e f g h\n"...)
	for row := 7; row >= 0; row-- {
		out = append(out, '1'+byte(row), ' ')
		for col := 0; col < 8; col++ {
			out = append(out, b.grid[row][col].Char(), ' ')
		}
		out = append(out, '1'+byte(row), '\n')
	}
	out = append(out, "  a b c d e f g h\n"...)
	return string(out)
}
