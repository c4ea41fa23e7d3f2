package negamax

import (
	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/game"
)

const (
	// WinScore is the value of a win on a board with no stones. Wins found
	// with fewer stones on the board score higher, so faster wins are
	// preferred and slower losses are preferred.
	WinScore = int32(1_000_000)
	Infinity = WinScore + 1

	// provenMargin separates proven results from heuristic values.
	provenMargin = WinScore - board.NumCells - 1

	CenterBonus = int32(100)
)

// centers are the middle cells of the four quadrants.
var centers = [4]uint64{1 << 7, 1 << 10, 1 << 25, 1 << 28}

// Evaluate scores a non-terminal board from p's point of view.
func Evaluate(b board.BitBoard, p board.Player) int32 {
	var eval int32
	mine, theirs := b.Mask(p), b.Mask(p.Opponent())
	for _, c := range centers {
		if mine&c != 0 {
			eval += CenterBonus
		} else if theirs&c != 0 {
			eval -= CenterBonus
		}
	}
	return eval
}

// terminalScore scores a finished game from p's point of view.
func terminalScore(b board.BitBoard, o game.Outcome, p board.Player) int32 {
	winner, ok := o.Winner()
	if !ok {
		return 0
	}
	score := WinScore - int32(b.NumStones())
	if winner != p {
		return -score
	}
	return score
}

// IsProven is true for values that come from a forced win or loss rather
// than from the heuristic.
func IsProven(v int32) bool {
	return v >= provenMargin || v <= -provenMargin
}
