package game

import "github.com/domino14/pentaswap/board"

// Outcome is the state of a game as far as winning is concerned.
type Outcome uint8

const (
	Ongoing Outcome = iota
	WinA
	WinB
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case WinA:
		return "A wins"
	case WinB:
		return "B wins"
	case Draw:
		return "draw"
	}
	return "unknown"
}

// Terminal is true once the game can no longer continue.
func (o Outcome) Terminal() bool {
	return o != Ongoing
}

// Winner returns the winning player, if any.
func (o Outcome) Winner() (board.Player, bool) {
	switch o {
	case WinA:
		return board.PlayerA, true
	case WinB:
		return board.PlayerB, true
	}
	return board.PlayerA, false
}

// WinFor is the outcome in which p wins.
func WinFor(p board.Player) Outcome {
	if p == board.PlayerA {
		return WinA
	}
	return WinB
}

// EndReason says why a game ended.
type EndReason uint8

const (
	NotEnded EndReason = iota
	FiveInARow
	// BothFive means one move completed a line for both players at once.
	BothFive
	BoardFull
	Forfeited
)

func (r EndReason) String() string {
	switch r {
	case NotEnded:
		return "not ended"
	case FiveInARow:
		return "five in a row"
	case BothFive:
		return "five in a row for both players"
	case BoardFull:
		return "board full"
	case Forfeited:
		return "forfeit"
	}
	return "unknown"
}

// DetectOutcome looks at a board right after a move. Lines for both
// players are a draw no matter who moved. A full board without any line is
// also a draw.
func DetectOutcome(b board.BitBoard) (Outcome, EndReason) {
	a := b.HasFive(board.PlayerA)
	bb := b.HasFive(board.PlayerB)
	switch {
	case a && bb:
		return Draw, BothFive
	case a:
		return WinA, FiveInARow
	case bb:
		return WinB, FiveInARow
	case b.IsFull():
		return Draw, BoardFull
	}
	return Ongoing, NotEnded
}
