// Package automatic plays engines against each other, logs every turn and
// summarizes the results.
package automatic

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/game"
	"github.com/domino14/pentaswap/runner"
	"github.com/domino14/pentaswap/tinymove"
)

// LogHeader is the first line of a turn log.
const LogHeader = "gameID,turn,player,engine,move,encoded,maskA,maskB,outcome\n"

// GameResult is how one autoplay game ended.
type GameResult struct {
	GameID    string
	Outcome   game.Outcome
	EndReason game.EndReason
	Turns     int
	// FirstEngine is the index of the engine that played A.
	FirstEngine int
}

// GameRunner plays games between two engines.
type GameRunner struct {
	names   [2]string
	engines [2]engine.DecisionEngine
	logchan chan string
}

// NewGameRunner returns a runner for engines, which are labelled with
// names in the log. logchan may be nil.
func NewGameRunner(logchan chan string, names [2]string, engines [2]engine.DecisionEngine) *GameRunner {
	return &GameRunner{names: names, engines: engines, logchan: logchan}
}

// Close releases engines that hold resources, such as Lua states.
func (r *GameRunner) Close() {
	for _, e := range r.engines {
		if c, ok := e.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

// PlayGame plays one game to the end. When swap is set the second engine
// moves first.
func (r *GameRunner) PlayGame(ctx context.Context, swap bool) (GameResult, error) {
	first := 0
	if swap {
		first = 1
	}
	sideEngine := [2]int{first, 1 - first}
	players := [2]game.PlayerInfo{
		{Nickname: "p1", RealName: r.names[sideEngine[0]]},
		{Nickname: "p2", RealName: r.names[sideEngine[1]]},
	}
	gr := runner.NewGameRunner(&runner.GameOptions{Players: players})
	gr.SetBackupMode(game.NoBackup)
	gr.SetEngine(board.PlayerA, r.engines[sideEngine[0]])
	gr.SetEngine(board.PlayerB, r.engines[sideEngine[1]])

	for gr.Playing() {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		onturn := gr.PlayerOnTurn()
		m, err := gr.PlayEngineTurn()
		var ierr *runner.IllegalMoveError
		if errors.As(err, &ierr) {
			log.Warn().Err(err).Str("engine", r.names[sideEngine[onturn]]).Msg("engine-forfeited")
			r.logTurn(gr, onturn, r.names[sideEngine[onturn]], "forfeit", ierr.Encoded)
			break
		}
		if err != nil {
			return GameResult{}, err
		}
		r.logTurn(gr, onturn, r.names[sideEngine[onturn]], m.ShortDescription(), uint64(tinymove.Encode(m)))
	}
	return GameResult{
		GameID:      gr.Uid(),
		Outcome:     gr.Outcome(),
		EndReason:   gr.EndReason(),
		Turns:       gr.Turn(),
		FirstEngine: first,
	}, nil
}

func (r *GameRunner) logTurn(gr *runner.GameRunner, p board.Player, name, desc string, encoded uint64) {
	if r.logchan == nil {
		return
	}
	b := gr.Board()
	r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v,%v\n",
		gr.Uid(),
		gr.Turn(),
		p,
		name,
		desc,
		encoded,
		b.Mask(board.PlayerA),
		b.Mask(board.PlayerB),
		gr.Outcome())
}
