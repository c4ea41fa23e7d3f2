package movegen

import (
	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/move"
)

// winsFor reports whether p alone has a line on b. A line for both players
// is a draw, not a win.
func winsFor(b board.BitBoard, p board.Player) bool {
	return b.HasFive(p) && !b.HasFive(p.Opponent())
}

// WinningMove returns a move that wins on the spot for p, if there is one.
func WinningMove(b board.BitBoard, p board.Player) (move.Move, board.BitBoard, bool) {
	for m, child := range Children(b, p) {
		if winsFor(child, p) {
			return m, child, true
		}
	}
	return move.Move{}, board.BitBoard{}, false
}

// ForcedSquare finds an empty square where the opponent of p would win on
// the spot if it were the opponent's turn. Putting p's stone there is the
// only way to take that particular win away.
func ForcedSquare(b board.BitBoard, p board.Player) (int, bool) {
	opp := p.Opponent()
	for m, child := range Children(b, opp) {
		if winsFor(child, opp) {
			return m.Square(), true
		}
	}
	return 0, false
}

// Child is a move together with the board it produces.
type Child struct {
	Move  move.Move
	Board board.BitBoard
}

// SearchChildren returns the children worth searching from b for p. If p
// can win at once only that move is returned. If the opponent threatens an
// immediate win, only moves that block the threatened square are returned.
// Otherwise every distinct child is returned.
func SearchChildren(b board.BitBoard, p board.Player, buf []Child) []Child {
	buf = buf[:0]
	if m, child, ok := WinningMove(b, p); ok {
		return append(buf, Child{m, child})
	}
	if sq, ok := ForcedSquare(b, p); ok {
		placed, err := b.Place(sq, p)
		if err == nil {
			for _, pair := range DistinctPairs {
				child, _ := board.Swap(placed, pair[0], pair[1])
				buf = append(buf, Child{move.NewFromSquare(sq, pair[0], pair[1], p), child})
			}
			return buf
		}
	}
	for m, child := range Children(b, p) {
		buf = append(buf, Child{m, child})
	}
	return buf
}
