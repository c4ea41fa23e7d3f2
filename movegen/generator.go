package movegen

import (
	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/move"
)

// Generator keeps the last generated move list around so callers that
// generate once per turn don't allocate every time.
type Generator struct {
	plays []move.Move
}

func NewGenerator() *Generator {
	return &Generator{plays: make([]move.Move, 0, board.NumCells*NumPairs)}
}

// GenAll generates every legal move of p on b and returns them. The
// returned slice is reused by the next call to GenAll.
func (g *Generator) GenAll(b board.BitBoard, p board.Player) []move.Move {
	g.plays = g.plays[:0]
	for m := range Moves(b, p) {
		g.plays = append(g.plays, m)
	}
	return g.plays
}

// Plays returns the moves of the last GenAll call.
func (g *Generator) Plays() []move.Move {
	return g.plays
}
