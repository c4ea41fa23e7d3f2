package openingtable

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/move"
	"github.com/domino14/pentaswap/movegen"
	"github.com/domino14/pentaswap/tinymove"
)

// Engine plays from the opening table while the position is in it and
// well explored, and hands over to a fallback engine after that.
type Engine struct {
	table    *Table
	minGames int64
	fallback engine.DecisionEngine
}

func NewEngine(t *Table, minGames int, fallback engine.DecisionEngine) *Engine {
	return &Engine{table: t, minGames: int64(minGames), fallback: fallback}
}

// Lookup returns the table's best move for p on b, if the table knows one.
func (e *Engine) Lookup(ctx context.Context, b board.BitBoard, p board.Player) (move.Move, bool, error) {
	node, err := e.table.Get(ctx, b)
	if errors.Is(err, ErrNotFound) {
		return move.Move{}, false, nil
	}
	if err != nil {
		return move.Move{}, false, err
	}
	if !node.Expanded || node.GamesPlayed < e.minGames {
		return move.Move{}, false, nil
	}
	seen := map[board.BitBoard]Node{}
	var best move.Move
	bestRate, found := -1.0, false
	for m, child := range movegen.Children(b, p) {
		c := child.Canonical()
		cn, ok := seen[c]
		if !ok {
			cn, err = e.table.Get(ctx, c)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return move.Move{}, false, err
			}
			seen[c] = cn
		}
		if cn.GamesPlayed < e.minGames {
			continue
		}
		if r := cn.WinRate(p); r > bestRate {
			best, bestRate, found = m, r, true
		}
	}
	return best, found, nil
}

func (e *Engine) ChooseMove(mover, opponent uint64) uint64 {
	b, p, err := engine.Position(mover, opponent)
	if err != nil {
		log.Err(err).Msg("opening-bad-position")
		return uint64(tinymove.InvalidTinyMove)
	}
	m, ok, err := e.Lookup(context.Background(), b, p)
	if err != nil {
		log.Err(err).Msg("opening-lookup-failed")
	}
	if ok {
		log.Debug().Str("move", m.ShortDescription()).Msg("opening-table-move")
		return uint64(tinymove.Encode(m))
	}
	if e.fallback == nil {
		return uint64(tinymove.InvalidTinyMove)
	}
	return e.fallback.ChooseMove(mover, opponent)
}

// Close closes the table, and the fallback engine if it holds resources.
func (e *Engine) Close() {
	if err := e.table.Close(); err != nil {
		log.Err(err).Msg("opening-table-close")
	}
	if c, ok := e.fallback.(interface{ Close() }); ok {
		c.Close()
	}
}
