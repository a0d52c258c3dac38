package board

// MoveKind tags the variant held by a Move.
type MoveKind uint8

const (
	// NoMoveKind is the zero value; a Move with it is "no move".
	NoMoveKind MoveKind = iota
	Ordinary
	Castle
	Promotion
	EnPassant
)

// Move is a closed tagged union over the four move variants.
//
//	Ordinary:  From -> To
//	Castle:    From is the king square, To is the rook square
//	Promotion: From -> To, Promote is the new kind
//	EnPassant: From -> To, the captured pawn stands on (From.Row, To.Col)
type Move struct {
	Kind    MoveKind
	From    Square
	To      Square
	Promote PieceKind
}

// NoMove is returned where a move is absent.
var NoMove = Move{}

// NewOrdinary builds a plain move or capture.
func NewOrdinary(from, to Square) Move { return Move{Kind: Ordinary, From: from, To: to} }

// NewCastle builds a castle from the king and rook origin squares.
func NewCastle(kingFrom, rookFrom Square) Move {
	return Move{Kind: Castle, From: kingFrom, To: rookFrom}
}

// NewPromotion builds a pawn move onto the last rank.
func NewPromotion(from, to Square, kind PieceKind) Move {
	return Move{Kind: Promotion, From: from, To: to, Promote: kind}
}

// NewEnPassant builds an en passant capture.
func NewEnPassant(from, to Square) Move { return Move{Kind: EnPassant, From: from, To: to} }

// IsZero reports whether m is NoMove.
func (m Move) IsZero() bool { return m.Kind == NoMoveKind }

// castleSquares returns where the king and rook land for a castle move.
func castleSquares(kingFrom, rookFrom Square) (kingTo, rookTo Square) {
	if rookFrom.Col > kingFrom.Col {
		return Square{kingFrom.Row, kingFrom.Col + 2}, Square{kingFrom.Row, kingFrom.Col + 1}
	}
	return Square{kingFrom.Row, kingFrom.Col - 2}, Square{kingFrom.Row, kingFrom.Col - 1}
}

// Destination is the square the moving piece (the king, for castles) ends on.
func (m Move) Destination() Square {
	if m.Kind == Castle {
		kingTo, _ := castleSquares(m.From, m.To)
		return kingTo
	}
	return m.To
}

// String renders the move in coordinate notation ("e2e4", "e7e8q", castles as "e1g1").
func (m Move) String() string {
	switch m.Kind {
	case NoMoveKind:
		return "0000"
	case Promotion:
		return m.From.String() + m.To.String() + string(promotionChar(m.Promote))
	default:
		return m.From.String() + m.Destination().String()
	}
}

func promotionChar(k PieceKind) byte {
	switch k {
	case Queen:
		return 'q'
	case Rook:
		return 'r'
	case Bishop:
		return 'b'
	case Knight:
		return 'n'
	default:
		panic("promotion to " + k.String())
	}
}
