package move

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/domino14/pentaswap/board"
)

var ErrBadNotation = errors.New("cannot parse move notation")

// Move is a single turn: put the mover's stone on (row, col), then exchange
// the contents of quadrants qa and qb. qa == qb means no exchange. Moves
// are small values; they are never modified after construction.
type Move struct {
	row    uint8
	col    uint8
	qa     board.Quadrant
	qb     board.Quadrant
	player board.Player
}

var reCoords *regexp.Regexp

func init() {
	reCoords = regexp.MustCompile(`^(?P<col>[a-fA-F])(?P<row>[1-6])$`)
}

// NewMove validates its arguments and builds a move.
func NewMove(row, col int, qa, qb board.Quadrant, p board.Player) (Move, error) {
	if _, err := board.CellIndex(row, col); err != nil {
		return Move{}, err
	}
	if !qa.Valid() || !qb.Valid() {
		return Move{}, fmt.Errorf("%w: %d, %d", board.ErrInvalidQuadrantIndex, qa, qb)
	}
	if !p.Valid() {
		return Move{}, fmt.Errorf("%w: %d", board.ErrInvalidPlayer, p)
	}
	return Move{row: uint8(row), col: uint8(col), qa: qa, qb: qb, player: p}, nil
}

// NewFromSquare builds a move without any validation. It is meant for move
// generators, which only produce in-range squares and quadrants.
func NewFromSquare(square int, qa, qb board.Quadrant, p board.Player) Move {
	return Move{
		row:    uint8(square / board.Dim),
		col:    uint8(square % board.Dim),
		qa:     qa,
		qb:     qb,
		player: p,
	}
}

func (m Move) Row() int                  { return int(m.row) }
func (m Move) Col() int                  { return int(m.col) }
func (m Move) Square() int               { return int(m.row)*board.Dim + int(m.col) }
func (m Move) QuadrantA() board.Quadrant { return m.qa }
func (m Move) QuadrantB() board.Quadrant { return m.qb }
func (m Move) Player() board.Player      { return m.player }

// IsSwap is false when the move only places a stone.
func (m Move) IsSwap() bool {
	return m.qa != m.qb
}

// Canonical orders the quadrant pair so that QuadrantA <= QuadrantB.
// Swapping A with B is the same as swapping B with A.
func (m Move) Canonical() Move {
	if m.qa > m.qb {
		m.qa, m.qb = m.qb, m.qa
	}
	return m
}

// Equivalent reports whether two moves have the same effect on any board.
func (m Move) Equivalent(o Move) bool {
	return m.Canonical() == o.Canonical()
}

// Apply places the stone and performs the swap. The original board is
// never modified; if the target cell is occupied the error is returned
// before anything else happens.
func (m Move) Apply(b board.BitBoard) (board.BitBoard, error) {
	nb, err := b.Place(m.Square(), m.player)
	if err != nil {
		return b, err
	}
	return board.Swap(nb, m.qa, m.qb)
}

// ShortDescription returns the move in the notation ParseMove accepts, for
// example "c3 tl-br" or "c3 -" when no quadrants are swapped.
func (m Move) ShortDescription() string {
	coords := ToBoardGameCoords(int(m.row), int(m.col))
	if !m.IsSwap() {
		return coords + " -"
	}
	return coords + " " + strings.ToLower(m.qa.String()+"-"+m.qb.String())
}

// String provides a string just for debugging purposes.
func (m Move) String() string {
	return fmt.Sprintf("<player: %v square: %v swap: %v-%v>",
		m.player, ToBoardGameCoords(int(m.row), int(m.col)), m.qa, m.qb)
}

// ToBoardGameCoords converts a row and column to a coordinate like c3;
// the letter is the column, the number the 1-based row.
func ToBoardGameCoords(row, col int) string {
	return string(rune('a'+col)) + strconv.Itoa(row+1)
}

// FromBoardGameCoords does the inverse operation of ToBoardGameCoords above.
func FromBoardGameCoords(c string) (int, int, error) {
	matches := reCoords.FindStringSubmatch(c)
	if len(matches) != 3 {
		return 0, 0, fmt.Errorf("%w: coordinates %q", ErrBadNotation, c)
	}
	row, _ := strconv.Atoi(matches[2])
	col := int(strings.ToLower(matches[1])[0] - 'a')
	return row - 1, col, nil
}

// ParseSwap parses a quadrant pair such as "tl-br". "-", "" and "none"
// mean no swap and return (TopLeft, TopLeft).
func ParseSwap(s string) (board.Quadrant, board.Quadrant, error) {
	switch strings.ToLower(s) {
	case "", "-", "none":
		return board.TopLeft, board.TopLeft, nil
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: swap %q", ErrBadNotation, s)
	}
	qa, err := board.ParseQuadrant(parts[0])
	if err != nil {
		return 0, 0, err
	}
	qb, err := board.ParseQuadrant(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return qa, qb, nil
}

// ParseMove builds a move for player p from coordinates and a swap, as
// written by ShortDescription.
func ParseMove(coords, swap string, p board.Player) (Move, error) {
	row, col, err := FromBoardGameCoords(coords)
	if err != nil {
		return Move{}, err
	}
	qa, qb, err := ParseSwap(swap)
	if err != nil {
		return Move{}, err
	}
	return NewMove(row, col, qa, qb, p)
}
