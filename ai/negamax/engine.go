package negamax

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/tinymove"
)

// Options configures an Engine.
type Options struct {
	SearchTime      time.Duration
	MaxDepth        int
	Threads         int
	TTFractionOfMem float64
}

// Engine is a DecisionEngine backed by a Solver. It is not safe for
// concurrent use; give every game its own Engine.
type Engine struct {
	solver     *Solver
	searchTime time.Duration
}

func NewEngine(opts Options) *Engine {
	tt := &TranspositionTable{}
	if opts.TTFractionOfMem > 0 {
		tt.Reset(opts.TTFractionOfMem)
	} else {
		tt.Resize(20)
	}
	s := NewSolver(tt)
	s.SetThreads(opts.Threads)
	if opts.MaxDepth > 0 {
		s.SetMaxDepth(opts.MaxDepth)
	}
	return &Engine{solver: s, searchTime: opts.SearchTime}
}

func (e *Engine) Solver() *Solver {
	return e.solver
}

func (e *Engine) ChooseMove(mover, opponent uint64) uint64 {
	b, p, err := engine.Position(mover, opponent)
	if err != nil {
		log.Error().Err(err).Uint64("mover", mover).Uint64("opponent", opponent).Msg("bad-position")
		return uint64(tinymove.InvalidTinyMove)
	}
	ctx := context.Background()
	if e.searchTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.searchTime)
		defer cancel()
	}
	m, err := e.solver.Solve(ctx, b, p)
	if err != nil {
		log.Error().Err(err).Msg("solve-failed")
		return uint64(tinymove.InvalidTinyMove)
	}
	log.Debug().Str("move", m.ShortDescription()).Int32("value", e.solver.BestValue()).
		Int("depth", e.solver.CompletedDepth()).Uint64("nodes", e.solver.Nodes()).
		Msg("negamax-move")
	return uint64(tinymove.Encode(m))
}
