// Package engine defines the boundary between the game and whatever picks
// moves: a local search, a Lua script, or a remote bot.
package engine

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/game"
)

var (
	// ErrEngineUnavailable means an engine could not be built or reached.
	// It is returned at construction time and ends the session.
	ErrEngineUnavailable = errors.New("decision engine unavailable")
	// ErrIllegalMoveReturned means an engine answered with a move that is
	// malformed or not legal in the position it was given.
	ErrIllegalMoveReturned = errors.New("engine returned an illegal move")
)

// DecisionEngine picks a move. mover holds the stones of the player to
// move and opponent the other player's stones, whichever colour the mover
// has. The answer is an encoded move (see package tinymove) whose player id
// is the mover's absolute id. ChooseMove blocks for as long as the engine
// needs; it must not keep references to anything after it returns.
type DecisionEngine interface {
	ChooseMove(mover, opponent uint64) uint64
}

// EngineFunc adapts a plain function to DecisionEngine.
type EngineFunc func(mover, opponent uint64) uint64

func (f EngineFunc) ChooseMove(mover, opponent uint64) uint64 {
	return f(mover, opponent)
}

// MasksFor returns the masks of b from p's point of view.
func MasksFor(b board.BitBoard, p board.Player) (mover, opponent uint64) {
	return b.Mask(p), b.Mask(p.Opponent())
}

// Position rebuilds the absolute board from mover-relative masks. The
// mover's colour follows from stone parity, as PlayerA always moves first.
func Position(mover, opponent uint64) (board.BitBoard, board.Player, error) {
	nm, no := bits.OnesCount64(mover), bits.OnesCount64(opponent)
	var p board.Player
	var b board.BitBoard
	var err error
	switch {
	case nm == no:
		p = board.PlayerA
		b, err = board.FromMasks(mover, opponent)
	case no == nm+1:
		p = board.PlayerB
		b, err = board.FromMasks(opponent, mover)
	default:
		return board.BitBoard{}, 0, fmt.Errorf("%w: mover has %d stones, opponent %d",
			game.ErrInvalidPosition, nm, no)
	}
	if err != nil {
		return board.BitBoard{}, 0, err
	}
	return b, p, nil
}
