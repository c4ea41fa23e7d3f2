// Package tinymove packs a move into the 64-bit integer exchanged with
// decision engines.
package tinymove

import (
	"errors"
	"fmt"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/move"
)

// TinyMove is the wire representation of a move.
type TinyMove uint64

// Schema, low to high:
// 63   59   55   51   47   43   39   35   31   27   23   19   15   11    7    3
//  xxxx xxxx xxxx xxxx xxxx xxxx PPPP PPPP BBBB BBBB AAAA AAAA RRRR RRRR CCCC CCCC
//
// C = column, R = row, A = first quadrant, B = second quadrant, P = player id.
// x bits are reserved and must be zero.

const (
	ColShift       = 0
	RowShift       = 8
	QuadrantAShift = 16
	QuadrantBShift = 24
	PlayerShift    = 32

	FieldMask             = 0xff
	ReservedMask TinyMove = 0xffffff << 40
)

// InvalidTinyMove can never be decoded; engines return it when they have
// nothing to play.
const InvalidTinyMove TinyMove = 1 << 63

var ErrMalformedEncoding = errors.New("malformed move encoding")

func (t TinyMove) field(shift int) int {
	return int((t >> shift) & FieldMask)
}

// Encode packs a move. It is total over moves built by the move package.
func Encode(m move.Move) TinyMove {
	return TinyMove(m.Col())<<ColShift |
		TinyMove(m.Row())<<RowShift |
		TinyMove(m.QuadrantA())<<QuadrantAShift |
		TinyMove(m.QuadrantB())<<QuadrantBShift |
		TinyMove(m.Player())<<PlayerShift
}

// Decode unpacks t. Out-of-range fields and set reserved bits are
// rejected rather than masked, so Encode(Decode(t)) == t whenever Decode
// succeeds.
func Decode(t TinyMove) (move.Move, error) {
	if t&ReservedMask != 0 {
		return move.Move{}, fmt.Errorf("%w: reserved bits set in %#x", ErrMalformedEncoding, uint64(t))
	}
	col, row := t.field(ColShift), t.field(RowShift)
	qa, qb := t.field(QuadrantAShift), t.field(QuadrantBShift)
	pid := t.field(PlayerShift)
	switch {
	case col >= board.Dim || row >= board.Dim:
		return move.Move{}, fmt.Errorf("%w: cell (%d, %d) in %#x", ErrMalformedEncoding, row, col, uint64(t))
	case qa >= board.NumQuadrants || qb >= board.NumQuadrants:
		return move.Move{}, fmt.Errorf("%w: quadrants %d, %d in %#x", ErrMalformedEncoding, qa, qb, uint64(t))
	case pid > int(board.PlayerB):
		return move.Move{}, fmt.Errorf("%w: player id %d in %#x", ErrMalformedEncoding, pid, uint64(t))
	}
	return move.NewMove(row, col, board.Quadrant(qa), board.Quadrant(qb), board.Player(pid))
}

func (t TinyMove) String() string {
	m, err := Decode(t)
	if err != nil {
		return fmt.Sprintf("TinyMove(%#x)", uint64(t))
	}
	return m.ShortDescription()
}
