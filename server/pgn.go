package server

import (
	"fmt"

	"github.com/notnil/chess"

	"minimax-chess/board"
)

// exportPGN replays the game through notnil/chess, which renders the moves in
// standard algebraic notation and fills in the result.
func exportPGN(g *Game) (string, error) {
	startFEN, moves := g.History()

	var opts []func(*chess.Game)
	if startFEN != board.FENStartPos {
		fen, err := chess.FEN(startFEN)
		if err != nil {
			return "", fmt.Errorf("pgn start position: %w", err)
		}
		opts = append(opts, fen)
	}
	game := chess.NewGame(opts...)

	white, black := "Player", "Player"
	g.mu.Lock()
	if g.hasEngine {
		if g.engineSide == board.White {
			white = "Engine"
		} else {
			black = "Engine"
		}
	}
	g.mu.Unlock()
	game.AddTagPair("Event", "Casual game")
	game.AddTagPair("Site", g.ID)
	game.AddTagPair("Date", g.CreatedAt.Format("2006.01.02"))
	game.AddTagPair("White", white)
	game.AddTagPair("Black", black)
	if startFEN != board.FENStartPos {
		game.AddTagPair("SetUp", "1")
		game.AddTagPair("FEN", startFEN)
	}

	for i, m := range moves {
		mv, err := chess.UCINotation{}.Decode(game.Position(), m.String())
		if err != nil {
			return "", fmt.Errorf("pgn move %d %s: %w", i+1, m, err)
		}
		if err := game.Move(mv); err != nil {
			return "", fmt.Errorf("pgn move %d %s: %w", i+1, m, err)
		}
	}
	return game.String(), nil
}
