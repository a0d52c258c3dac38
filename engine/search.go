package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"minimax-chess/board"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	Checkmate     int32 = 30000
	MateThreshold int32 = Checkmate - 1000
	DrawScore     int32 = 0
	Infinity      int32 = 32000
)

// Config tunes a search.
type Config struct {
	// MaxDepth is the number of plies searched below the root.
	MaxDepth int
	// Workers is the number of root chunks searched in parallel.
	Workers int
	// Seed makes fingerprints deterministic when non-zero.
	Seed   uint64
	Logger zerolog.Logger
}

// DefaultConfig returns a four-ply search split over four workers.
func DefaultConfig() Config {
	return Config{MaxDepth: 4, Workers: 4, Logger: log.Logger}
}

// Result is the outcome of a search. Score is from the searching side's
// point of view.
type Result struct {
	Move      board.Move
	Score     int32
	Nodes     uint64
	CacheHits uint64
	Cutoffs   uint64
}

// Engine picks moves with a fixed-depth alpha-beta search. The fingerprint
// keys are built once and shared read-only by every worker.
type Engine struct {
	cfg  Config
	keys *board.Keys
}

// New returns an engine for cfg. Depth and worker counts below one are raised
// to one.
func New(cfg Config) *Engine {
	cfg.MaxDepth = max(cfg.MaxDepth, 1)
	cfg.Workers = max(cfg.Workers, 1)
	var keys *board.Keys
	if cfg.Seed != 0 {
		keys = board.NewSeededKeys(cfg.Seed)
	} else {
		keys = board.NewKeys(nil)
	}
	return &Engine{cfg: cfg, keys: keys}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// FindBestMove searches b for the side to move. It reports false only when
// that side has no legal move.
func (e *Engine) FindBestMove(b *board.Board) (board.Move, bool) {
	res, err := e.Search(b)
	if err != nil {
		panic(err)
	}
	return res.Move, !res.Move.IsZero()
}

// searchState carries the per-node search parameters down the tree.
type searchState struct {
	depth    int
	maxDepth int
	side     board.Side
	alpha    int32
	beta     int32
}

type chunkResult struct {
	index     int
	move      board.Move
	score     int32
	nodes     uint64
	cacheHits uint64
	cutoffs   uint64
}

// Search splits the root moves of b into contiguous chunks and searches each
// on its own goroutine with a private board clone and cache. The best score
// wins; ties go to the earliest chunk. b is not modified.
func (e *Engine) Search(b *board.Board) (Result, error) {
	start := time.Now()
	side := b.SideToMove()
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return Result{Score: terminalScore(b, side, 0)}, nil
	}

	chunks := splitChunks(moves, e.cfg.Workers)
	e.cfg.Logger.Debug().
		Str("side", side.String()).
		Int("moves", len(moves)).
		Int("chunks", len(chunks)).
		Int("depth", e.cfg.MaxDepth).
		Msg("search-start")

	results := make(chan chunkResult, len(chunks))
	g := errgroup.Group{}
	for i, chunk := range chunks {
		i, chunk := i, chunk
		w := &worker{
			b:     b.Clone(),
			keys:  e.keys,
			cache: NewCache(1 << 12),
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("worker %d: %v", i, r)
				}
			}()
			st := searchState{maxDepth: e.cfg.MaxDepth, side: side, alpha: -Infinity, beta: Infinity}
			move, score := w.searchRoot(st, chunk)
			hits, _ := w.cache.Stats()
			e.cfg.Logger.Debug().
				Int("thread", i).
				Str("move", move.String()).
				Int32("score", score).
				Uint64("nodes", w.nodes).
				Msg("worker-done")
			results <- chunkResult{index: i, move: move, score: score, nodes: w.nodes, cacheHits: hits, cutoffs: w.cutoffs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	close(results)

	res := Result{Score: -Infinity}
	bestIndex := len(chunks)
	for r := range results {
		res.Nodes += r.nodes
		res.CacheHits += r.cacheHits
		res.Cutoffs += r.cutoffs
		if r.score > res.Score || (r.score == res.Score && r.index < bestIndex) {
			res.Move, res.Score, bestIndex = r.move, r.score, r.index
		}
	}

	e.cfg.Logger.Info().
		Str("move", res.Move.String()).
		Str("score", ScoreString(res.Score)).
		Uint64("nodes", res.Nodes).
		Uint64("cache-hits", res.CacheHits).
		Uint64("cutoffs", res.Cutoffs).
		Dur("took", time.Since(start)).
		Msg("search-done")
	return res, nil
}

// splitChunks cuts moves into at most n contiguous, non-empty slices.
func splitChunks(moves []board.Move, n int) [][]board.Move {
	size := (len(moves) + n - 1) / n
	chunks := make([][]board.Move, 0, n)
	for lo := 0; lo < len(moves); lo += size {
		chunks = append(chunks, moves[lo:min(lo+size, len(moves))])
	}
	return chunks
}

// terminalScore scores a position without legal moves: mate is worse the
// sooner it happens for the mated side, stalemate is a draw.
func terminalScore(b *board.Board, side board.Side, ply int) int32 {
	us := b.SideToMove()
	if !b.InCheck(us) {
		return DrawScore
	}
	if us == side {
		return -(Checkmate - int32(ply))
	}
	return Checkmate - int32(ply)
}

type worker struct {
	b       *board.Board
	keys    *board.Keys
	cache   *Cache
	nodes   uint64
	cutoffs uint64
}

// searchRoot searches the given root moves as a maximizing node and returns
// the first move reaching the best score.
func (w *worker) searchRoot(st searchState, moves []board.Move) (board.Move, int32) {
	hash := w.keys.Hash(w.b)
	best, bestScore := board.NoMove, -Infinity
	for _, m := range moves {
		child := st
		child.depth++
		next := w.keys.Next(hash, w.b, m)
		u := w.b.MakeMove(m)
		score := w.alphabeta(child, next)
		w.b.UnmakeMove(u)
		if best.IsZero() || score > bestScore {
			best, bestScore = m, score
		}
		st.alpha = max(st.alpha, bestScore)
	}
	return best, bestScore
}

// alphabeta is a minimax search with alpha-beta pruning. Nodes where the
// searching side moves maximize, the others minimize. Only static leaf
// evaluations are cached, so the result does not depend on the window.
func (w *worker) alphabeta(st searchState, hash uint64) int32 {
	w.nodes++

	if st.depth >= st.maxDepth {
		if !w.b.HasLegalMove() {
			return terminalScore(w.b, st.side, st.depth)
		}
		if score, ok := w.cache.Lookup(hash); ok {
			return score
		}
		score := Evaluation(w.b, st.side)
		w.cache.Store(hash, score)
		return score
	}

	moves := w.b.LegalMoves()
	if len(moves) == 0 {
		return terminalScore(w.b, st.side, st.depth)
	}

	maximizing := w.b.SideToMove() == st.side
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, m := range moves {
		child := st
		child.depth++
		next := w.keys.Next(hash, w.b, m)
		u := w.b.MakeMove(m)
		score := w.alphabeta(child, next)
		w.b.UnmakeMove(u)

		if maximizing {
			best = max(best, score)
			st.alpha = max(st.alpha, best)
		} else {
			best = min(best, score)
			st.beta = min(st.beta, best)
		}
		if st.alpha >= st.beta {
			w.cutoffs++
			break
		}
	}
	return best
}
