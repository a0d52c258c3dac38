package engine

import (
	"testing"

	"minimax-chess/board"
)

func TestCacheLookupStore(t *testing.T) {
	c := NewCache(0)
	if _, ok := c.Lookup(42); ok {
		t.Fatalf("empty cache returned a hit")
	}
	c.Store(42, -17)
	if got, ok := c.Lookup(42); !ok || got != -17 {
		t.Fatalf("Lookup(42) = %d, %v", got, ok)
	}
	c.Store(42, 99)
	if got, _ := c.Lookup(42); got != 99 {
		t.Fatalf("Store did not overwrite, got %d", got)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	hits, misses := c.Stats()
	if hits != 2 || misses != 1 {
		t.Fatalf("stats hits=%d misses=%d", hits, misses)
	}
}

func TestSplitChunks(t *testing.T) {
	moves := board.New().LegalMoves()
	cases := []struct {
		n, workers int
		sizes      []int
	}{
		{20, 4, []int{5, 5, 5, 5}},
		{20, 3, []int{7, 7, 6}},
		{3, 4, []int{1, 1, 1}},
		{1, 4, []int{1}},
		{5, 1, []int{5}},
	}
	for _, tc := range cases {
		chunks := splitChunks(moves[:tc.n], tc.workers)
		if len(chunks) != len(tc.sizes) {
			t.Fatalf("%d moves over %d workers: %d chunks, want %d", tc.n, tc.workers, len(chunks), len(tc.sizes))
		}
		next := 0
		for i, c := range chunks {
			if len(c) != tc.sizes[i] {
				t.Fatalf("%d moves over %d workers: chunk %d has %d moves, want %d", tc.n, tc.workers, i, len(c), tc.sizes[i])
			}
			for _, m := range c {
				if m != moves[next] {
					t.Fatalf("chunks are not contiguous in root order")
				}
				next++
			}
		}
	}
}

func TestScoreString(t *testing.T) {
	cases := []struct {
		score int32
		want  string
	}{
		{35, "cp 35"},
		{-120, "cp -120"},
		{Checkmate - 1, "mate 1"},
		{Checkmate - 3, "mate 2"},
		{-(Checkmate - 2), "mate -1"},
		{-Checkmate, "mate 0"},
	}
	for _, tc := range cases {
		if got := ScoreString(tc.score); got != tc.want {
			t.Errorf("ScoreString(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if clamp(30, 0, 24) != 24 || clamp(-3, 0, 24) != 0 || clamp(10, 0, 24) != 10 {
		t.Fatalf("clamp")
	}
	if abs(int32(-5)) != 5 || abs(7) != 7 {
		t.Fatalf("abs")
	}
}
