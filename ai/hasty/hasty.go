// Package hasty is a fast engine without search: it wins when it can,
// avoids handing the opponent a win when it can, and otherwise plays at
// random.
package hasty

import (
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/move"
	"github.com/domino14/pentaswap/movegen"
	"github.com/domino14/pentaswap/tinymove"
)

type Engine struct {
	children []movegen.Child
}

func NewEngine() *Engine {
	return &Engine{}
}

// Pick returns the hasty choice for p on b. b must not be a finished game.
func (e *Engine) Pick(b board.BitBoard, p board.Player) (move.Move, bool) {
	if m, _, ok := movegen.WinningMove(b, p); ok {
		return m, true
	}
	e.children = movegen.SearchChildren(b, p, e.children)
	if len(e.children) == 0 {
		return move.Move{}, false
	}
	frand.Shuffle(len(e.children), func(i, j int) {
		e.children[i], e.children[j] = e.children[j], e.children[i]
	})
	for _, c := range e.children {
		if c.Board.HasFive(p.Opponent()) {
			continue
		}
		if _, _, ok := movegen.WinningMove(c.Board, p.Opponent()); !ok {
			return c.Move, true
		}
	}
	log.Debug().Str("player", p.String()).Msg("no-safe-move")
	return e.children[0].Move, true
}

func (e *Engine) ChooseMove(mover, opponent uint64) uint64 {
	b, p, err := engine.Position(mover, opponent)
	if err != nil {
		log.Error().Err(err).Msg("bad-position")
		return uint64(tinymove.InvalidTinyMove)
	}
	m, ok := e.Pick(b, p)
	if !ok {
		return uint64(tinymove.InvalidTinyMove)
	}
	return uint64(tinymove.Encode(m))
}
