// Package runner plays games: it asks each side's decision engine for a
// move, checks the answer against the legal moves, and applies it.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/game"
	"github.com/domino14/pentaswap/move"
	"github.com/domino14/pentaswap/movegen"
	"github.com/domino14/pentaswap/tinymove"
)

var ErrNoEngine = errors.New("no engine assigned to the player on turn")

// IllegalMoveError is returned when an engine answers with a move that
// cannot be played. The offending side forfeits.
type IllegalMoveError struct {
	Player  board.Player
	Encoded uint64
	Err     error
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("player %v: %v %#x: %v", e.Player, engine.ErrIllegalMoveReturned, e.Encoded, e.Err)
}

func (e *IllegalMoveError) Unwrap() []error {
	return []error{engine.ErrIllegalMoveReturned, e.Err}
}

// GameRunner is a game with an optional decision engine per side.
type GameRunner struct {
	*game.Game

	engines [2]engine.DecisionEngine
}

func NewGameRunner(opts *GameOptions) *GameRunner {
	g := game.NewGame(opts.Players)
	return &GameRunner{Game: g}
}

func NewGameRunnerFromGame(g *game.Game) *GameRunner {
	return &GameRunner{Game: g}
}

// SetEngine assigns an engine to p. A nil engine means p's moves come from
// PlayHumanMove.
func (g *GameRunner) SetEngine(p board.Player, e engine.DecisionEngine) {
	g.engines[p&1] = e
}

func (g *GameRunner) Engine(p board.Player) engine.DecisionEngine {
	return g.engines[p&1]
}

// PlayEngineTurn asks the engine of the player on turn for a move and plays
// it. A malformed or illegal answer is returned as an *IllegalMoveError and
// forfeits the whole game for that player, not just the turn: the game
// ends with EndReason Forfeited. Skipping the turn instead would leave the
// stone counts out of step with the side to move.
func (g *GameRunner) PlayEngineTurn() (move.Move, error) {
	if !g.Playing() {
		return move.Move{}, game.ErrGameOver
	}
	onturn := g.PlayerOnTurn()
	eng := g.engines[onturn]
	if eng == nil {
		return move.Move{}, ErrNoEngine
	}
	b := g.Board()
	mover, opp := engine.MasksFor(b, onturn)
	raw := eng.ChooseMove(mover, opp)
	log.Debug().Uint64("mover", mover).Uint64("opponent", opp).
		Uint64("move", raw).Str("player", onturn.String()).Msg("engine-answered")

	m, err := g.validate(b, onturn, tinymove.TinyMove(raw))
	if err != nil {
		ierr := &IllegalMoveError{Player: onturn, Encoded: raw, Err: err}
		log.Error().Err(ierr).Msg("illegal-engine-move")
		if ferr := g.Forfeit(onturn); ferr != nil {
			return move.Move{}, errors.Join(ierr, ferr)
		}
		return move.Move{}, ierr
	}
	if err = g.PlayMove(m); err != nil {
		return move.Move{}, err
	}
	return m, nil
}

func (g *GameRunner) validate(b board.BitBoard, onturn board.Player, t tinymove.TinyMove) (move.Move, error) {
	m, err := tinymove.Decode(t)
	if err != nil {
		return move.Move{}, err
	}
	if m.Player() != onturn {
		return move.Move{}, fmt.Errorf("%w: move is for %v", game.ErrWrongPlayer, m.Player())
	}
	if !movegen.IsLegal(b, m, onturn) {
		return move.Move{}, fmt.Errorf("%w: %s", board.ErrOccupiedCellViolation, m.ShortDescription())
	}
	return m, nil
}

// PlayHumanMove parses a move in notation ("c3", "tl-br") for the player
// on turn and plays it.
func (g *GameRunner) PlayHumanMove(coords, swap string) (move.Move, error) {
	m, err := move.ParseMove(coords, swap, g.PlayerOnTurn())
	if err != nil {
		return move.Move{}, err
	}
	if err = g.PlayMove(m); err != nil {
		return move.Move{}, err
	}
	return m, nil
}

// PlayToEnd lets the engines play until the game is over. An engine that
// returns an illegal move loses; its error is returned along with the
// final outcome.
func (g *GameRunner) PlayToEnd(ctx context.Context) (game.Outcome, error) {
	for g.Playing() {
		if err := ctx.Err(); err != nil {
			return g.Outcome(), err
		}
		if _, err := g.PlayEngineTurn(); err != nil {
			return g.Outcome(), err
		}
	}
	return g.Outcome(), nil
}
