// Package board implements the bit-packed Pentago-Swap board: a 6x6 grid,
// split into four 3x3 quadrants, stored as one 64-bit occupancy mask per
// player.
package board

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	// Dim is the number of rows (and columns) of the board.
	Dim = 6
	// NumCells is the number of cells on the board.
	NumCells = Dim * Dim
	// FullMask has a bit set for every cell of the board. Bits past the
	// 36th must always stay clear.
	FullMask uint64 = 1<<NumCells - 1
)

var (
	ErrInvalidCoordinate     = errors.New("coordinate out of range")
	ErrInvalidQuadrantIndex  = errors.New("quadrant index out of range")
	ErrOccupiedCellViolation = errors.New("cell is already occupied")
	ErrInvalidMasks          = errors.New("invalid occupancy masks")
	ErrInvalidPlayer         = errors.New("invalid player")
)

// Player is one of the two sides. PlayerA always moves first in a fresh game.
type Player uint8

const (
	PlayerA Player = iota
	PlayerB
)

func (p Player) Opponent() Player {
	return p ^ 1
}

func (p Player) Valid() bool {
	return p <= PlayerB
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return fmt.Sprintf("Player(%d)", uint8(p))
}

// CellState is the contents of a single cell.
type CellState uint8

const (
	Empty CellState = iota
	OccupiedA
	OccupiedB
)

// CellFor returns the cell state a stone of player p produces.
func CellFor(p Player) CellState {
	if p == PlayerA {
		return OccupiedA
	}
	return OccupiedB
}

func (c CellState) String() string {
	switch c {
	case Empty:
		return "."
	case OccupiedA:
		return "x"
	case OccupiedB:
		return "o"
	}
	return "?"
}

// BitBoard holds the occupancy of both players. Bit 6*row+col of a mask is
// set when that player has a stone on (row, col). The masks are never
// allowed to overlap; the only way to build a BitBoard from raw integers is
// FromMasks, which checks this.
type BitBoard struct {
	masks [2]uint64
}

// FromMasks builds a board from raw masks, as received on the wire.
func FromMasks(a, b uint64) (BitBoard, error) {
	if a&^FullMask != 0 || b&^FullMask != 0 {
		return BitBoard{}, fmt.Errorf("%w: bits set past cell %d (a=%#x b=%#x)",
			ErrInvalidMasks, NumCells-1, a, b)
	}
	if a&b != 0 {
		return BitBoard{}, fmt.Errorf("%w: masks overlap at %#x", ErrInvalidMasks, a&b)
	}
	return BitBoard{masks: [2]uint64{a, b}}, nil
}

// CellIndex converts a coordinate to a bit index.
func CellIndex(row, col int) (int, error) {
	if row < 0 || row >= Dim || col < 0 || col >= Dim {
		return 0, fmt.Errorf("%w: row %d, col %d", ErrInvalidCoordinate, row, col)
	}
	return Dim*row + col, nil
}

// Mask returns the occupancy mask of a player.
func (b BitBoard) Mask(p Player) uint64 {
	return b.masks[p&1]
}

// Occupied returns a mask of every non-empty cell.
func (b BitBoard) Occupied() uint64 {
	return b.masks[0] | b.masks[1]
}

// EmptyCells returns a mask of every empty cell.
func (b BitBoard) EmptyCells() uint64 {
	return ^b.Occupied() & FullMask
}

func (b BitBoard) NumStones() int {
	return bits.OnesCount64(b.Occupied())
}

func (b BitBoard) NumStonesFor(p Player) int {
	return bits.OnesCount64(b.Mask(p))
}

func (b BitBoard) IsFull() bool {
	return b.Occupied() == FullMask
}

// Valid reports whether the masks respect the board invariants. Boards
// built through this package are always valid.
func (b BitBoard) Valid() bool {
	return b.masks[0]&^FullMask == 0 && b.masks[1]&^FullMask == 0 &&
		b.masks[0]&b.masks[1] == 0
}

// Get returns the contents of (row, col).
func (b BitBoard) Get(row, col int) (CellState, error) {
	idx, err := CellIndex(row, col)
	if err != nil {
		return Empty, err
	}
	return b.At(idx), nil
}

// At returns the contents of cell idx, which must be in [0, NumCells).
func (b BitBoard) At(idx int) CellState {
	bit := uint64(1) << idx
	switch {
	case b.masks[0]&bit != 0:
		return OccupiedA
	case b.masks[1]&bit != 0:
		return OccupiedB
	}
	return Empty
}

func (b BitBoard) IsEmpty(row, col int) (bool, error) {
	c, err := b.Get(row, col)
	if err != nil {
		return false, err
	}
	return c == Empty, nil
}

// Set places a stone for p on (row, col). The cell must be empty; on error
// the board is left untouched.
func (b *BitBoard) Set(row, col int, p Player) error {
	idx, err := CellIndex(row, col)
	if err != nil {
		return err
	}
	nb, err := b.Place(idx, p)
	if err != nil {
		return err
	}
	*b = nb
	return nil
}

// Place returns a copy of the board with a stone for p on cell idx.
func (b BitBoard) Place(idx int, p Player) (BitBoard, error) {
	if idx < 0 || idx >= NumCells {
		return b, fmt.Errorf("%w: cell %d", ErrInvalidCoordinate, idx)
	}
	if !p.Valid() {
		return b, fmt.Errorf("%w: %d", ErrInvalidPlayer, p)
	}
	bit := uint64(1) << idx
	if b.Occupied()&bit != 0 {
		return b, fmt.Errorf("%w: cell %d holds %v", ErrOccupiedCellViolation,
			idx, b.At(idx))
	}
	b.masks[p] |= bit
	return b, nil
}

// Less orders boards by player A's mask, then player B's. Canonical uses
// it to pick a representative among symmetric boards.
func (b BitBoard) Less(o BitBoard) bool {
	if b.masks[0] != o.masks[0] {
		return b.masks[0] < o.masks[0]
	}
	return b.masks[1] < o.masks[1]
}

// FromRows builds a board from a grid where 1 marks a stone of PlayerA and
// 2 a stone of PlayerB. Any other value is an empty cell.
func FromRows(rows [Dim][Dim]int) BitBoard {
	var b BitBoard
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			switch rows[r][c] {
			case 1:
				b.masks[0] |= 1 << (Dim*r + c)
			case 2:
				b.masks[1] |= 1 << (Dim*r + c)
			}
		}
	}
	return b
}
