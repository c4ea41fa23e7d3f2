// Package movegen enumerates legal moves. A move is legal when its stone
// goes on an empty cell; every quadrant pair is allowed, so a board with n
// empty cells has exactly n*NumPairs moves.
package movegen

import (
	"iter"
	"math/bits"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/move"
)

// NumPairs is the number of unordered quadrant pairs, including a quadrant
// paired with itself.
const NumPairs = 10

// QuadrantPairs lists the unordered pairs in generation order: ascending
// by first quadrant, then by second, with first <= second.
var QuadrantPairs [NumPairs][2]board.Quadrant

// DistinctPairs keeps only one of the four self-pairs, since they all leave
// the board as it is. Searches use it to avoid expanding the same child
// four times.
var DistinctPairs [7][2]board.Quadrant

func init() {
	i, j := 0, 0
	for qa := board.Quadrant(0); qa < board.NumQuadrants; qa++ {
		for qb := qa; qb < board.NumQuadrants; qb++ {
			QuadrantPairs[i] = [2]board.Quadrant{qa, qb}
			i++
			if qa != qb || qa == board.TopLeft {
				DistinctPairs[j] = [2]board.Quadrant{qa, qb}
				j++
			}
		}
	}
}

// Moves yields every legal move of p on b: row-major over the empty cells,
// then over QuadrantPairs. The sequence can be ranged over any number of
// times and always produces the same moves in the same order.
func Moves(b board.BitBoard, p board.Player) iter.Seq[move.Move] {
	return func(yield func(move.Move) bool) {
		for empty := b.EmptyCells(); empty != 0; empty &= empty - 1 {
			sq := bits.TrailingZeros64(empty)
			for _, pair := range QuadrantPairs {
				if !yield(move.NewFromSquare(sq, pair[0], pair[1], p)) {
					return
				}
			}
		}
	}
}

// Children yields every distinct (move, resulting board) pair reachable
// from b by p. Self-pairs are collapsed into a single no-swap move.
func Children(b board.BitBoard, p board.Player) iter.Seq2[move.Move, board.BitBoard] {
	return func(yield func(move.Move, board.BitBoard) bool) {
		for empty := b.EmptyCells(); empty != 0; empty &= empty - 1 {
			sq := bits.TrailingZeros64(empty)
			placed, err := b.Place(sq, p)
			if err != nil {
				// Unreachable: sq comes from the empty mask.
				panic(err)
			}
			for _, pair := range DistinctPairs {
				child, _ := board.Swap(placed, pair[0], pair[1])
				if !yield(move.NewFromSquare(sq, pair[0], pair[1], p), child) {
					return
				}
			}
		}
	}
}

// NumLegal returns the number of moves Moves would yield.
func NumLegal(b board.BitBoard) int {
	return bits.OnesCount64(b.EmptyCells()) * NumPairs
}

// IsLegal reports whether m is a legal move for p on b. Moves whose
// quadrants come in descending order are accepted, as they are equivalent
// to the generated ascending form.
func IsLegal(b board.BitBoard, m move.Move, p board.Player) bool {
	if m.Player() != p {
		return false
	}
	if !m.QuadrantA().Valid() || !m.QuadrantB().Valid() {
		return false
	}
	sq := m.Square()
	if sq < 0 || sq >= board.NumCells {
		return false
	}
	return b.EmptyCells()&(1<<sq) != 0
}

// MoveTo finds the move by p that turns parent into child. When several
// moves produce child the first one in generation order is returned.
func MoveTo(parent, child board.BitBoard, p board.Player) (move.Move, bool) {
	if child.NumStonesFor(p) != parent.NumStonesFor(p)+1 ||
		child.NumStonesFor(p.Opponent()) != parent.NumStonesFor(p.Opponent()) {
		return move.Move{}, false
	}
	for m, b := range Children(parent, p) {
		if b == child {
			return m, true
		}
	}
	return move.Move{}, false
}
