package engine

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// clamp restricts v to the inclusive range [low, high].
func clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// IsMateScore reports whether score encodes a forced mate rather than a
// static evaluation.
func IsMateScore(score int32) bool {
	return abs(score) >= MateThreshold
}

// ScoreString formats a score the way UCI "info" lines expect: "mate N" in
// moves (negative when the searching side is mated) or "cp N".
func ScoreString(score int32) string {
	if !IsMateScore(score) {
		return fmt.Sprintf("cp %d", score)
	}
	plies := Checkmate - abs(score)
	mateIn := (plies + 1) / 2
	if score < 0 {
		mateIn = -mateIn
	}
	return fmt.Sprintf("mate %d", mateIn)
}
