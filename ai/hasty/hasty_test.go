package hasty

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/game"
	"github.com/domino14/pentaswap/movegen"
	"github.com/domino14/pentaswap/tinymove"
)

func TestTakesWin(t *testing.T) {
	is := is.New(t)
	b := board.FromRows([board.Dim][board.Dim]int{
		{1, 2, 0, 0, 0, 0},
		{1, 2, 0, 1, 2, 0},
		{1, 2, 0, 0, 0, 0},
	})
	m, ok := NewEngine().Pick(b, board.PlayerA)
	is.True(ok)
	child, err := m.Apply(b)
	is.NoErr(err)
	o, _ := game.DetectOutcome(child)
	is.Equal(o, game.WinA)
}

func TestBlocks(t *testing.T) {
	is := is.New(t)
	b := board.FromRows([board.Dim][board.Dim]int{
		{1, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 1, 0, 0},
		{0, 0, 1, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{2, 2, 2, 2, 0, 0},
	})
	e := NewEngine()
	for i := 0; i < 20; i++ {
		m, ok := e.Pick(b, board.PlayerA)
		is.True(ok)
		is.Equal(m.Square(), 34)
	}
}

func TestChooseMoveIsLegal(t *testing.T) {
	is := is.New(t)
	e := NewEngine()
	g := game.NewGame([2]game.PlayerInfo{})
	for g.Playing() {
		p := g.PlayerOnTurn()
		raw := e.ChooseMove(engine.MasksFor(g.Board(), p))
		m, err := tinymove.Decode(tinymove.TinyMove(raw))
		is.NoErr(err)
		is.True(movegen.IsLegal(g.Board(), m, p))
		is.NoErr(g.PlayMove(m))
	}
}
