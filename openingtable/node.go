package openingtable

import (
	"math"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/game"
)

// Node is the table's knowledge about one canonical position.
type Node struct {
	Board       board.BitBoard
	GamesPlayed int64
	WinsA       int64
	WinsB       int64
	Expanded    bool
}

func (n Node) Wins(p board.Player) int64 {
	if p == board.PlayerA {
		return n.WinsA
	}
	return n.WinsB
}

// WinRate is the fraction of games through n that p won.
func (n Node) WinRate(p board.Player) float64 {
	if n.GamesPlayed == 0 {
		return 0
	}
	return float64(n.Wins(p)) / float64(n.GamesPlayed)
}

// ucbC is the exploration constant.
var ucbC = math.Sqrt2

// UCB is the upper confidence bound of n for p, who is choosing among the
// children of a node with parentGames playouts.
func (n Node) UCB(p board.Player, parentGames int64) float64 {
	if n.GamesPlayed == 0 {
		return math.Inf(1)
	}
	nn := float64(n.GamesPlayed)
	return n.WinRate(p) + ucbC*math.Sqrt(math.Log(float64(parentGames))/nn)
}

func (n *Node) addResult(o game.Outcome) {
	n.GamesPlayed++
	switch o {
	case game.WinA:
		n.WinsA++
	case game.WinB:
		n.WinsB++
	}
}
