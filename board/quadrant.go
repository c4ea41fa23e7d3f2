package board

import (
	"fmt"
	"strings"
)

// Quadrant is one of the four 3x3 sub-boards. The numbering is part of the
// move encoding and must not change.
type Quadrant uint8

const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

const NumQuadrants = 4

// quadrantMask covers the top-left quadrant; shifting it by a quadrant's
// offset covers that quadrant.
const quadrantMask uint64 = 0b111_000_111_000_111

var quadrantOffsets = [NumQuadrants]int{0, 3, 18, 21}

var quadrantNames = [NumQuadrants]string{"TL", "TR", "BL", "BR"}

func (q Quadrant) Valid() bool {
	return q < NumQuadrants
}

func (q Quadrant) String() string {
	if !q.Valid() {
		return fmt.Sprintf("Quadrant(%d)", uint8(q))
	}
	return quadrantNames[q]
}

// Mask returns the cells covered by q.
func (q Quadrant) Mask() uint64 {
	return quadrantMask << quadrantOffsets[q&3]
}

// QuadrantFromIndex validates a raw quadrant index.
func QuadrantFromIndex(i int) (Quadrant, error) {
	if i < 0 || i >= NumQuadrants {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuadrantIndex, i)
	}
	return Quadrant(i), nil
}

// ParseQuadrant accepts the short names (TL, TR, BL, BR) in any case.
func ParseQuadrant(s string) (Quadrant, error) {
	for i, n := range quadrantNames {
		if strings.EqualFold(s, n) {
			return Quadrant(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidQuadrantIndex, s)
}

// QuadrantOf returns the quadrant holding (row, col). The coordinate is
// assumed to be on the board.
func QuadrantOf(row, col int) Quadrant {
	q := Quadrant(0)
	if col >= 3 {
		q |= 1
	}
	if row >= 3 {
		q |= 2
	}
	return q
}

// QuadrantCells returns the nine cell indices of q, row-major within the
// quadrant.
func QuadrantCells(q Quadrant) ([9]int, error) {
	var cells [9]int
	if !q.Valid() {
		return cells, fmt.Errorf("%w: %d", ErrInvalidQuadrantIndex, q)
	}
	off := quadrantOffsets[q]
	for i := 0; i < 9; i++ {
		cells[i] = off + Dim*(i/3) + i%3
	}
	return cells, nil
}

// Swap exchanges the full contents of quadrants qa and qb. Swapping a
// quadrant with itself returns the board unchanged.
func Swap(b BitBoard, qa, qb Quadrant) (BitBoard, error) {
	if !qa.Valid() || !qb.Valid() {
		return b, fmt.Errorf("%w: swap %d with %d", ErrInvalidQuadrantIndex, qa, qb)
	}
	return b.swap(qa, qb), nil
}

func (b BitBoard) swap(qa, qb Quadrant) BitBoard {
	if qa == qb {
		return b
	}
	if qa > qb {
		qa, qb = qb, qa
	}
	// Offsets grow with the quadrant index, so qb's cells sit exactly
	// diff bits above qa's.
	diff := quadrantOffsets[qb] - quadrantOffsets[qa]
	lo, hi := qa.Mask(), qb.Mask()
	for i, m := range b.masks {
		b.masks[i] = (m &^ (lo | hi)) | ((m & lo) << diff) | ((m & hi) >> diff)
	}
	return b
}
