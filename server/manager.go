package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"minimax-chess/board"
	"minimax-chess/engine"
)

// CreateOptions configures a new game.
type CreateOptions struct {
	// EngineSide is "white", "black" or empty for a game without the engine.
	EngineSide string `json:"engineSide"`
	// FEN is the starting position; empty means the standard one.
	FEN string `json:"fen"`
}

// GameManager owns every live game, keyed by uuid.
type GameManager struct {
	mu    sync.RWMutex
	games map[string]*Game
	cfg   engine.Config
	log   zerolog.Logger
}

func NewGameManager(cfg engine.Config, logger zerolog.Logger) *GameManager {
	cfg.Logger = logger
	return &GameManager{
		games: make(map[string]*Game),
		cfg:   cfg,
		log:   logger,
	}
}

// CreateGame starts a game. When the engine plays White it moves at once.
func (gm *GameManager) CreateGame(opts CreateOptions) (GameState, error) {
	side, hasEngine, err := parseSide(opts.EngineSide)
	if err != nil {
		return GameState{}, err
	}
	b := board.New()
	if opts.FEN != "" {
		if b, err = board.ParseFEN(opts.FEN); err != nil {
			return GameState{}, err
		}
	}

	id := uuid.New().String()
	g := newGame(id, b, engine.New(gm.cfg))
	g.engineSide, g.hasEngine = side, hasEngine

	gm.mu.Lock()
	gm.games[id] = g
	gm.mu.Unlock()

	gm.log.Info().Str("game", id).Str("engineSide", opts.EngineSide).Msg("game-created")

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.replyLocked(); err != nil {
		gm.log.Error().Str("game", id).Err(err).Msg("engine-reply-failed")
	}
	return g.stateLocked(), nil
}

// GetGame looks a game up by id.
func (gm *GameManager) GetGame(id string) (*Game, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrGameNotFound
	}
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	g, ok := gm.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (gm *GameManager) GetGameState(id string) (GameState, error) {
	g, err := gm.GetGame(id)
	if err != nil {
		return GameState{}, err
	}
	return g.State(), nil
}

// MakeMove plays text in game id and pushes the new state to its websocket
// clients. An engine failure is logged and the client's move still counts.
func (gm *GameManager) MakeMove(id, text string) (GameState, error) {
	g, err := gm.GetGame(id)
	if err != nil {
		return GameState{}, err
	}
	st, err := g.Play(text)
	switch {
	case errors.Is(err, ErrEngineFailed):
		// The client's move was played; report the engine and carry on.
		gm.log.Error().Str("game", id).Str("move", text).Err(err).Msg("engine-reply-failed")
	case err != nil:
		gm.log.Debug().Str("game", id).Str("move", text).Err(err).Msg("move-rejected")
		return GameState{}, err
	}
	gm.log.Debug().Str("game", id).Str("move", text).Str("status", st.Status).Msg("move-played")
	if err := g.broadcast(); err != nil {
		gm.log.Warn().Str("game", id).Err(err).Msg("broadcast failed")
	}
	return st, nil
}

// PGN exports game id.
func (gm *GameManager) PGN(id string) (string, error) {
	g, err := gm.GetGame(id)
	if err != nil {
		return "", err
	}
	return exportPGN(g)
}

// Len returns the number of games.
func (gm *GameManager) Len() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}
