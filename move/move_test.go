package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/pentaswap/board"
)

type coordTestStruct struct {
	row    int
	col    int
	output string
}

var coordTests = []coordTestStruct{
	{0, 0, "a1"},
	{5, 5, "f6"},
	{2, 1, "b3"},
	{4, 3, "d5"},
}

func TestToBoardGameCoords(t *testing.T) {
	for _, tc := range coordTests {
		calc := ToBoardGameCoords(tc.row, tc.col)
		if calc != tc.output {
			t.Errorf("For row=%v col=%v got %v, expected %v",
				tc.row, tc.col, calc, tc.output)
		}
	}
}

func TestFromBoardGameCoords(t *testing.T) {
	for _, tc := range coordTests {
		row, col, err := FromBoardGameCoords(tc.output)
		if err != nil || row != tc.row || col != tc.col {
			t.Errorf("For coord %v expected (%v, %v) got (%v, %v, %v)",
				tc.output, tc.row, tc.col, row, col, err)
		}
	}
	for _, bad := range []string{"g1", "a7", "a0", "", "aa1", "1a"} {
		_, _, err := FromBoardGameCoords(bad)
		if !errors.Is(err, ErrBadNotation) {
			t.Errorf("expected notation error for %q, got %v", bad, err)
		}
	}
}

func TestNewMoveValidation(t *testing.T) {
	is := is.New(t)
	_, err := NewMove(6, 0, board.TopLeft, board.TopLeft, board.PlayerA)
	is.True(errors.Is(err, board.ErrInvalidCoordinate))
	_, err = NewMove(0, 0, board.Quadrant(4), board.TopLeft, board.PlayerA)
	is.True(errors.Is(err, board.ErrInvalidQuadrantIndex))
	m, err := NewMove(2, 4, board.BottomRight, board.TopLeft, board.PlayerB)
	is.NoErr(err)
	is.Equal(m.Square(), 16)
	is.True(m.IsSwap())
	is.Equal(m.Canonical().QuadrantA(), board.TopLeft)
	is.Equal(m.Canonical().QuadrantB(), board.BottomRight)
}

func TestEquivalent(t *testing.T) {
	is := is.New(t)
	m1, _ := NewMove(1, 1, board.TopRight, board.BottomLeft, board.PlayerA)
	m2, _ := NewMove(1, 1, board.BottomLeft, board.TopRight, board.PlayerA)
	m3, _ := NewMove(1, 1, board.BottomLeft, board.TopRight, board.PlayerB)
	is.True(m1 != m2)
	is.True(m1.Equivalent(m2))
	is.True(!m1.Equivalent(m3))
}

func TestParseMove(t *testing.T) {
	is := is.New(t)
	m, err := ParseMove("c3", "TL-br", board.PlayerA)
	is.NoErr(err)
	is.Equal(m.Row(), 2)
	is.Equal(m.Col(), 2)
	is.Equal(m.QuadrantA(), board.TopLeft)
	is.Equal(m.QuadrantB(), board.BottomRight)
	is.Equal(m.ShortDescription(), "c3 tl-br")

	m, err = ParseMove("f1", "-", board.PlayerB)
	is.NoErr(err)
	is.True(!m.IsSwap())
	is.Equal(m.ShortDescription(), "f1 -")

	_, err = ParseMove("f1", "tl", board.PlayerB)
	is.True(errors.Is(err, ErrBadNotation))
	_, err = ParseMove("f1", "tl-xx", board.PlayerB)
	is.True(errors.Is(err, board.ErrInvalidQuadrantIndex))
}

func TestApply(t *testing.T) {
	is := is.New(t)
	b := board.FromRows([board.Dim][board.Dim]int{
		{0, 0, 0, 0, 0, 0},
		{0, 2, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	})
	m, _ := ParseMove("a1", "tl-br", board.PlayerA)
	nb, err := m.Apply(b)
	is.NoErr(err)
	is.Equal(nb, board.FromRows([board.Dim][board.Dim]int{
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 1, 0, 0},
		{0, 0, 0, 0, 2, 0},
		{0, 0, 0, 0, 0, 0},
	}))

	occupied, _ := ParseMove("b2", "-", board.PlayerA)
	after, err := occupied.Apply(b)
	is.True(errors.Is(err, board.ErrOccupiedCellViolation))
	is.Equal(after, b)
}
