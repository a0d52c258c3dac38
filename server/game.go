package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"minimax-chess/board"
	"minimax-chess/engine"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameOver     = errors.New("game is over")
	ErrNotYourTurn  = errors.New("it is the engine's turn")
	ErrInvalidSide  = errors.New("engine side must be \"white\", \"black\" or empty")
	ErrEngineFailed = errors.New("engine failed to reply")
)

// searcher picks the engine's reply.
type searcher interface {
	Search(b *board.Board) (engine.Result, error)
}

// client serializes writes to one websocket connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newClient(c *websocket.Conn) *client { return &client{conn: c} }

func (cl *client) send(msg Message) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteJSON(msg)
}

// GameState is the JSON view of a game sent over REST and websocket.
type GameState struct {
	ID         string       `json:"id"`
	FEN        string       `json:"fen"`
	Turn       string       `json:"turn"`
	Status     string       `json:"status"`
	EngineSide string       `json:"engineSide,omitempty"`
	Moves      []string     `json:"moves"`
	LegalMoves []string     `json:"legalMoves"`
	Board      [8][8]string `json:"board"`
	LastMove   string       `json:"lastMove,omitempty"`
}

// Game is one session between a client and, optionally, the engine.
type Game struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	startFEN   string
	board      *board.Board
	legal      []board.Move
	moves      []board.Move
	engine     searcher
	engineSide board.Side
	hasEngine  bool
	clients    map[*client]struct{}
}

func newGame(id string, b *board.Board, eng searcher) *Game {
	return &Game{
		ID:        id,
		CreatedAt: time.Now(),
		startFEN:  b.ToFEN(),
		board:     b,
		legal:     b.LegalMoves(),
		engine:    eng,
		clients:   make(map[*client]struct{}),
	}
}

func parseSide(s string) (board.Side, bool, error) {
	switch strings.ToLower(s) {
	case "":
		return board.White, false, nil
	case "white", "w":
		return board.White, true, nil
	case "black", "b":
		return board.Black, true, nil
	}
	return board.White, false, ErrInvalidSide
}

// State returns a snapshot of the game.
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Game) stateLocked() GameState {
	st := GameState{
		ID:         g.ID,
		FEN:        g.board.ToFEN(),
		Turn:       g.board.SideToMove().String(),
		Status:     g.board.Status().String(),
		Moves:      make([]string, len(g.moves)),
		LegalMoves: make([]string, len(g.legal)),
	}
	if g.hasEngine {
		st.EngineSide = g.engineSide.String()
	}
	for i, m := range g.moves {
		st.Moves[i] = m.String()
	}
	for i, m := range g.legal {
		st.LegalMoves[i] = m.String()
	}
	if last := g.board.LastMove(); !last.IsZero() {
		st.LastMove = last.String()
	}
	grid := g.board.Snapshot()
	for row := range grid {
		for col, p := range grid[row] {
			if !p.IsEmpty() {
				st.Board[row][col] = string(p.Char())
			}
		}
	}
	return st
}

// Play applies a move in coordinate notation for the client and lets the
// engine answer when it is its turn. When the engine fails the client's move
// stands and the state is returned along with an error wrapping
// ErrEngineFailed.
func (g *Game) Play(text string) (GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.board.Status().Terminal() {
		return GameState{}, ErrGameOver
	}
	if g.engineToMove() {
		return GameState{}, ErrNotYourTurn
	}
	m, err := g.board.ParseMove(text)
	if err != nil {
		return GameState{}, err
	}
	g.applyLocked(m)
	if err := g.replyLocked(); err != nil {
		return g.stateLocked(), err
	}
	return g.stateLocked(), nil
}

func (g *Game) engineToMove() bool {
	return g.hasEngine && g.board.SideToMove() == g.engineSide
}

func (g *Game) applyLocked(m board.Move) {
	g.legal = g.board.ApplyMoveAndUpdate(m)
	g.moves = append(g.moves, m)
}

// replyLocked plays the engine's move when it is to move in a live game.
func (g *Game) replyLocked() error {
	if !g.engineToMove() || g.board.Status().Terminal() {
		return nil
	}
	res, err := g.engine.Search(g.board)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineFailed, err)
	}
	if res.Move.IsZero() {
		return nil
	}
	g.applyLocked(res.Move)
	return nil
}

// History returns the starting FEN and the moves played so far.
func (g *Game) History() (string, []board.Move) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.startFEN, append([]board.Move(nil), g.moves...)
}

// subscribe registers cl and sends it the current state. Holding the game
// lock keeps the first message ahead of any broadcast.
func (g *Game) subscribe(cl *client) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	msg, err := newMessage(MessageTypeGameState, g.stateLocked())
	if err != nil {
		return err
	}
	if err := cl.send(msg); err != nil {
		return err
	}
	g.clients[cl] = struct{}{}
	return nil
}

func (g *Game) unsubscribe(cl *client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, cl)
}

// broadcast sends the current state to every subscribed client and drops
// clients that fail.
func (g *Game) broadcast() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	msg, err := newMessage(MessageTypeGameState, g.stateLocked())
	if err != nil {
		return err
	}
	var errs []error
	for cl := range g.clients {
		if err := cl.send(msg); err != nil {
			delete(g.clients, cl)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
