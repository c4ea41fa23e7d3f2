package board

import (
	"errors"
	"math/bits"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"lukechampine.com/frand"
)

func randomBoard() BitBoard {
	var rows [Dim][Dim]int
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			rows[r][c] = frand.Intn(3)
		}
	}
	return FromRows(rows)
}

func TestFromRows(t *testing.T) {
	is := is.New(t)
	b := FromRows([Dim][Dim]int{
		{0, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 2, 0, 0},
		{0, 0, 0, 0, 0, 0},
	})
	is.Equal(b.Mask(PlayerA), uint64(0x0_0000_0002))
	is.Equal(b.Mask(PlayerB), uint64(0x0_0800_0000))
	is.True(b.Valid())
}

func TestFromMasks(t *testing.T) {
	is := is.New(t)
	_, err := FromMasks(1, 1)
	is.True(errors.Is(err, ErrInvalidMasks))
	_, err = FromMasks(1<<36, 0)
	is.True(errors.Is(err, ErrInvalidMasks))
	b, err := FromMasks(0b101, 0b010)
	is.NoErr(err)
	is.Equal(b.NumStones(), 3)
	is.Equal(b.NumStonesFor(PlayerA), 2)
}

func TestGetSet(t *testing.T) {
	is := is.New(t)
	var b BitBoard
	is.NoErr(b.Set(1, 1, PlayerA))
	c, err := b.Get(1, 1)
	is.NoErr(err)
	is.Equal(c, OccupiedA)
	empty, err := b.IsEmpty(1, 2)
	is.NoErr(err)
	is.True(empty)

	is.NoErr(b.Set(5, 5, PlayerB))
	c, _ = b.Get(5, 5)
	is.Equal(c, OccupiedB)
	is.Equal(b.Mask(PlayerA), uint64(1)<<7)
	is.Equal(b.Mask(PlayerB), uint64(1)<<35)
}

func TestSetOccupiedLeavesBoardUntouched(t *testing.T) {
	is := is.New(t)
	var b BitBoard
	is.NoErr(b.Set(2, 3, PlayerA))
	before := b

	err := b.Set(2, 3, PlayerB)
	is.True(errors.Is(err, ErrOccupiedCellViolation))
	is.Equal(b, before)

	err = b.Set(2, 3, PlayerA)
	is.True(errors.Is(err, ErrOccupiedCellViolation))
	is.Equal(b, before)
}

func TestInvalidCoordinates(t *testing.T) {
	var b BitBoard
	for _, tc := range [][2]int{{-1, 0}, {0, -1}, {6, 0}, {0, 6}, {10, 10}} {
		_, err := b.Get(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
		err = b.Set(tc[0], tc[1], PlayerA)
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	}
	assert.Equal(t, BitBoard{}, b)
}

func TestSetRejectsUnknownPlayer(t *testing.T) {
	is := is.New(t)
	var b BitBoard
	err := b.Set(0, 0, Player(2))
	is.True(errors.Is(err, ErrInvalidPlayer))
	is.Equal(b, BitBoard{})

	_, err = b.Place(7, Player(255))
	is.True(errors.Is(err, ErrInvalidPlayer))
}

func TestQuadrantCells(t *testing.T) {
	is := is.New(t)
	cells, err := QuadrantCells(TopLeft)
	is.NoErr(err)
	is.Equal(cells, [9]int{0, 1, 2, 6, 7, 8, 12, 13, 14})
	cells, _ = QuadrantCells(TopRight)
	is.Equal(cells, [9]int{3, 4, 5, 9, 10, 11, 15, 16, 17})
	cells, _ = QuadrantCells(BottomLeft)
	is.Equal(cells, [9]int{18, 19, 20, 24, 25, 26, 30, 31, 32})
	cells, _ = QuadrantCells(BottomRight)
	is.Equal(cells, [9]int{21, 22, 23, 27, 28, 29, 33, 34, 35})

	_, err = QuadrantCells(Quadrant(4))
	is.True(errors.Is(err, ErrInvalidQuadrantIndex))

	var all uint64
	for q := TopLeft; q <= BottomRight; q++ {
		is.Equal(bits.OnesCount64(q.Mask()), 9)
		all |= q.Mask()
	}
	is.Equal(all, FullMask)
}

func TestQuadrantOf(t *testing.T) {
	assert.Equal(t, TopLeft, QuadrantOf(2, 2))
	assert.Equal(t, TopRight, QuadrantOf(0, 3))
	assert.Equal(t, BottomLeft, QuadrantOf(3, 0))
	assert.Equal(t, BottomRight, QuadrantOf(5, 5))
}

func TestParseQuadrant(t *testing.T) {
	is := is.New(t)
	q, err := ParseQuadrant("br")
	is.NoErr(err)
	is.Equal(q, BottomRight)
	_, err = ParseQuadrant("xx")
	is.True(errors.Is(err, ErrInvalidQuadrantIndex))
	_, err = QuadrantFromIndex(4)
	is.True(errors.Is(err, ErrInvalidQuadrantIndex))
}

func TestSwap(t *testing.T) {
	is := is.New(t)
	b, err := Swap(FromRows([Dim][Dim]int{
		{1, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	}), TopLeft, BottomLeft)
	is.NoErr(err)
	is.Equal(b, FromRows([Dim][Dim]int{
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{1, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	}))

	b, _ = Swap(FromRows([Dim][Dim]int{
		{1, 1, 1, 0, 0, 0},
		{1, 1, 1, 0, 0, 0},
		{1, 1, 1, 0, 0, 0},
		{0, 0, 0, 2, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	}), TopLeft, BottomRight)
	is.Equal(b, FromRows([Dim][Dim]int{
		{2, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 1, 1, 1},
		{0, 0, 0, 1, 1, 1},
		{0, 0, 0, 1, 1, 1},
	}))

	// Argument order does not matter.
	b, _ = Swap(FromRows([Dim][Dim]int{
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{2, 2, 2, 0, 0, 0},
		{2, 2, 2, 0, 0, 0},
		{2, 2, 2, 0, 0, 0},
	}), BottomLeft, TopRight)
	is.Equal(b, FromRows([Dim][Dim]int{
		{0, 0, 0, 2, 2, 2},
		{0, 0, 0, 2, 2, 2},
		{0, 0, 0, 2, 2, 2},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	}))

	_, err = Swap(b, TopLeft, Quadrant(7))
	is.True(errors.Is(err, ErrInvalidQuadrantIndex))
}

func TestSwapIdentityAndInvolution(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 500; i++ {
		b := randomBoard()
		for qa := TopLeft; qa <= BottomRight; qa++ {
			same, err := Swap(b, qa, qa)
			is.NoErr(err)
			is.Equal(same, b)
			for qb := TopLeft; qb <= BottomRight; qb++ {
				once, _ := Swap(b, qa, qb)
				twice, _ := Swap(once, qa, qb)
				is.Equal(twice, b)
				is.True(once.Valid())
				is.Equal(once.NumStonesFor(PlayerA), b.NumStonesFor(PlayerA))
				is.Equal(once.NumStonesFor(PlayerB), b.NumStonesFor(PlayerB))
			}
		}
	}
}

func TestSwapMovesCellsPairwise(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 100; i++ {
		b := randomBoard()
		for qa := TopLeft; qa <= BottomRight; qa++ {
			for qb := qa + 1; qb <= BottomRight; qb++ {
				s, _ := Swap(b, qa, qb)
				ca, _ := QuadrantCells(qa)
				cb, _ := QuadrantCells(qb)
				for k := 0; k < 9; k++ {
					is.Equal(s.At(ca[k]), b.At(cb[k]))
					is.Equal(s.At(cb[k]), b.At(ca[k]))
				}
			}
		}
	}
}

func TestWinLines(t *testing.T) {
	is := is.New(t)
	lines := WinLines()
	is.Equal(len(lines), 32)
	for _, l := range lines {
		is.Equal(bits.OnesCount64(l), WinLength)
	}
}

func TestHasFive(t *testing.T) {
	cases := []struct {
		name   string
		rows   [Dim][Dim]int
		player Player
		want   bool
	}{
		{"row", [Dim][Dim]int{
			{1, 1, 1, 1, 1, 0},
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
		}, PlayerA, true},
		{"column", [Dim][Dim]int{
			{0, 0, 0, 0, 0, 0},
			{0, 0, 2, 0, 0, 0},
			{0, 0, 2, 0, 0, 0},
			{0, 0, 2, 0, 0, 0},
			{0, 0, 2, 0, 0, 0},
			{0, 0, 2, 0, 0, 0},
		}, PlayerB, true},
		{"short diagonal", [Dim][Dim]int{
			{0, 1, 0, 0, 0, 0},
			{0, 0, 1, 0, 0, 0},
			{0, 0, 0, 1, 0, 0},
			{0, 0, 0, 0, 1, 0},
			{0, 0, 0, 0, 0, 1},
			{0, 0, 0, 0, 0, 0},
		}, PlayerA, true},
		{"anti diagonal", [Dim][Dim]int{
			{0, 0, 0, 0, 0, 2},
			{0, 0, 0, 0, 2, 0},
			{0, 0, 0, 2, 0, 0},
			{0, 0, 2, 0, 0, 0},
			{0, 2, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
		}, PlayerB, true},
		{"row wrapping", [Dim][Dim]int{
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 1, 1, 1},
			{1, 1, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
		}, PlayerA, false},
		{"diagonal wrapping", [Dim][Dim]int{
			{0, 0, 0, 1, 0, 0},
			{0, 0, 0, 0, 1, 0},
			{0, 0, 0, 0, 0, 1},
			{0, 0, 0, 0, 0, 0},
			{1, 0, 0, 0, 0, 0},
			{0, 1, 0, 0, 0, 0},
		}, PlayerA, false},
		{"anti diagonal wrapping", [Dim][Dim]int{
			{0, 1, 0, 0, 0, 0},
			{1, 0, 0, 0, 0, 1},
			{0, 0, 0, 0, 1, 0},
			{0, 0, 0, 1, 0, 0},
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
		}, PlayerA, false},
		{"four only", [Dim][Dim]int{
			{1, 1, 1, 1, 0, 1},
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0},
		}, PlayerA, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FromRows(tc.rows).HasFive(tc.player))
		})
	}
}

var board1 = FromRows([Dim][Dim]int{
	{1, 1, 1, 0, 0, 0},
	{0, 1, 1, 0, 0, 0},
	{0, 0, 1, 0, 0, 0},
	{0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0},
})

func TestFlips(t *testing.T) {
	is := is.New(t)
	is.Equal(FlipVertical(board1), FromRows([Dim][Dim]int{
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 1, 0, 0, 0},
		{0, 1, 1, 0, 0, 0},
		{1, 1, 1, 0, 0, 0},
	}))
	is.Equal(FlipHorizontal(board1), FromRows([Dim][Dim]int{
		{0, 0, 0, 1, 1, 1},
		{0, 0, 0, 1, 1, 0},
		{0, 0, 0, 1, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	}))
	is.Equal(FlipDiagonal(board1), FromRows([Dim][Dim]int{
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 1, 1, 1},
		{0, 0, 0, 0, 1, 1},
		{0, 0, 0, 0, 0, 1},
	}))
	is.Equal(FlipAntiDiagonal(board1), FromRows([Dim][Dim]int{
		{1, 0, 0, 0, 0, 0},
		{1, 1, 0, 0, 0, 0},
		{1, 1, 1, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	}))
}

func TestFlipsAreInvolutions(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 200; i++ {
		b := randomBoard()
		is.Equal(FlipVertical(FlipVertical(b)), b)
		is.Equal(FlipHorizontal(FlipHorizontal(b)), b)
		is.Equal(FlipDiagonal(FlipDiagonal(b)), b)
		is.Equal(FlipAntiDiagonal(FlipAntiDiagonal(b)), b)
		is.Equal(b.HasFive(PlayerA), FlipDiagonal(b).HasFive(PlayerA))
	}
}

func TestCanonical(t *testing.T) {
	is := is.New(t)
	b := FromRows([Dim][Dim]int{
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0},
	})
	is.Equal(b.Canonical(), FromRows([Dim][Dim]int{
		{0, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	}))
	for i := 0; i < 100; i++ {
		r := randomBoard()
		c := r.Canonical()
		for _, s := range Symmetries(r) {
			is.Equal(s.Canonical(), c)
		}
	}
}

func TestToDisplayText(t *testing.T) {
	b := FromRows([Dim][Dim]int{
		{1, 0, 0, 0, 0, 2},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	})
	assert.Contains(t, b.ToDisplayText(), " 1  x . .  . . o\n")
}
