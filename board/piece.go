package board

import "fmt"

// Side identifies the owner of a piece or the player to move.
type Side uint8

const (
	White Side = 0
	Black Side = 1
)

// Other returns the opposing side.
func (s Side) Other() Side { return s ^ 1 }

func (s Side) String() string {
	switch s {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		panic(fmt.Sprintf("unknown side %d", uint8(s)))
	}
}

// forward is the row delta of a pawn push for the side.
func (s Side) forward() int {
	if s == White {
		return 1
	}
	return -1
}

// backRow is the row holding the side's king and rooks at the start.
func (s Side) backRow() int {
	if s == White {
		return 0
	}
	return 7
}

// PieceKind is a colorless piece type. KindNone marks an empty square.
type PieceKind uint8

const (
	KindNone PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PromotionKinds lists the kinds a pawn may become, strongest first.
var PromotionKinds = [4]PieceKind{Queen, Rook, Bishop, Knight}

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Piece is the content of one square. The zero value is an empty square.
type Piece struct {
	Kind PieceKind
	Side Side
	// Moved gates castling and the pawn double step. Never reset once set.
	Moved bool
}

// IsEmpty reports whether the square holding p is empty.
func (p Piece) IsEmpty() bool { return p.Kind == KindNone }

// Char returns the FEN letter of the piece, '.' for an empty square.
func (p Piece) Char() byte {
	var c byte
	switch p.Kind {
	case Pawn:
		c = 'p'
	case Knight:
		c = 'n'
	case Bishop:
		c = 'b'
	case Rook:
		c = 'r'
	case Queen:
		c = 'q'
	case King:
		c = 'k'
	default:
		return '.'
	}
	if p.Side == White {
		c -= 'a' - 'A'
	}
	return c
}

// pieceFromChar converts a FEN letter into a piece (Moved left false).
func pieceFromChar(ch byte) (Piece, bool) {
	side := White
	if ch >= 'a' && ch <= 'z' {
		side = Black
		ch -= 'a' - 'A'
	}
	var k PieceKind
	switch ch {
	case 'P':
		k = Pawn
	case 'N':
		k = Knight
	case 'B':
		k = Bishop
	case 'R':
		k = Rook
	case 'Q':
		k = Queen
	case 'K':
		k = King
	default:
		return Piece{}, false
	}
	return Piece{Kind: k, Side: side}, true
}

// Square is a board coordinate. Row 0 is rank 1, Col 0 is file a.
type Square struct {
	Row, Col int
}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// Index returns the 0..63 index of the square (a1 = 0, h8 = 63).
func (s Square) Index() int { return s.Row*8 + s.Col }

// Offset returns the square shifted by the given row and column deltas.
func (s Square) Offset(dr, dc int) Square { return Square{s.Row + dr, s.Col + dc} }

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{'a' + byte(s.Col), '1' + byte(s.Row)})
}

// SquareFromIndex is the inverse of Index.
func SquareFromIndex(i int) Square { return Square{Row: i / 8, Col: i % 8} }

// ParseSquare converts algebraic notation ("e4") into a Square.
func ParseSquare(alg string) (Square, error) {
	if len(alg) != 2 {
		return Square{}, fmt.Errorf("invalid square %q", alg)
	}
	file, rank := alg[0], alg[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("invalid square %q", alg)
	}
	return Square{Row: int(rank - '1'), Col: int(file - 'a')}, nil
}

// Status is the game state of the side to move.
type Status uint8

const (
	Normal Status = iota
	Check
	Checkmate
	Stalemate
)

// Terminal reports whether the game is over.
func (s Status) Terminal() bool { return s == Checkmate || s == Stalemate }

func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "normal"
	}
}
