package board

import (
	"encoding/binary"
	"fmt"
	"io"

	"lukechampine.com/frand"
)

// Keys holds the random values of a Zobrist fingerprint: one per square and
// piece identity (6 kinds x 2 sides) plus one for Black to move.
type Keys struct {
	piece [64][12]uint64
	black uint64
}

// NewKeys fills a key table from src. A nil src uses a fresh frand generator
// seeded from the operating system. A short read is fatal.
func NewKeys(src io.Reader) *Keys {
	if src == nil {
		src = frand.New()
	}
	var buf [8]byte
	next := func() uint64 {
		if _, err := io.ReadFull(src, buf[:]); err != nil {
			panic(fmt.Sprintf("zobrist: reading random source: %v", err))
		}
		return binary.LittleEndian.Uint64(buf[:])
	}

	k := &Keys{}
	for sq := 0; sq < 64; sq++ {
		for id := 0; id < 12; id++ {
			k.piece[sq][id] = next()
		}
	}
	k.black = next()
	return k
}

// NewSeededKeys builds a deterministic key table from seed.
func NewSeededKeys(seed uint64) *Keys {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return NewKeys(frand.NewCustom(key[:], 1024, 12))
}

func pieceID(p Piece) int {
	return int(p.Kind-Pawn)*2 + int(p.Side)
}

func (k *Keys) of(sq Square, p Piece) uint64 {
	return k.piece[sq.Index()][pieceID(p)]
}

// Hash computes the fingerprint of b from scratch.
func (k *Keys) Hash(b *Board) uint64 {
	var h uint64
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b.grid[row][col]; !p.IsEmpty() {
				h ^= k.piece[row*8+col][pieceID(p)]
			}
		}
	}
	if b.sideToMove == Black {
		h ^= k.black
	}
	return h
}

// Next returns the fingerprint of the position reached by playing m on b,
// given h = Hash(b). It must be called before m is applied.
func (k *Keys) Next(h uint64, b *Board, m Move) uint64 {
	p := b.grid[m.From.Row][m.From.Col]
	switch m.Kind {
	case Ordinary, Promotion:
		if target := b.grid[m.To.Row][m.To.Col]; !target.IsEmpty() {
			h ^= k.of(m.To, target)
		}
		landed := p
		if m.Kind == Promotion {
			landed.Kind = m.Promote
		}
		h ^= k.of(m.From, p) ^ k.of(m.To, landed)
	case EnPassant:
		victim := Square{m.From.Row, m.To.Col}
		h ^= k.of(victim, b.grid[victim.Row][victim.Col])
		h ^= k.of(m.From, p) ^ k.of(m.To, p)
	case Castle:
		rook := b.grid[m.To.Row][m.To.Col]
		kingTo, rookTo := castleSquares(m.From, m.To)
		h ^= k.of(m.From, p) ^ k.of(kingTo, p)
		h ^= k.of(m.To, rook) ^ k.of(rookTo, rook)
	}
	return h ^ k.black
}
