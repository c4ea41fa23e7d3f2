// Package runner builds decision engines from configuration, and game
// runners whose sides are played by them.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/pentaswap/ai/hasty"
	"github.com/domino14/pentaswap/ai/luaengine"
	"github.com/domino14/pentaswap/ai/negamax"
	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/bot"
	"github.com/domino14/pentaswap/config"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/game"
	"github.com/domino14/pentaswap/openingtable"
	"github.com/domino14/pentaswap/runner"
)

// lambdaSlack is added to the search time when waiting on a Lambda
// function, to cover invocation overhead and cold starts.
const lambdaSlack = 5 * time.Second

// NewEngine builds the engine named by kind, or the configured engine if
// kind is empty. Failing to build or reach it gives ErrEngineUnavailable.
func NewEngine(ctx context.Context, cfg *config.Config, kind string) (engine.DecisionEngine, error) {
	return newEngine(ctx, cfg, kind, cfg.GetDuration(config.ConfigSearchTime))
}

// Factory returns a bot.EngineFactory that builds engines from cfg.
func Factory(ctx context.Context, cfg *config.Config) bot.EngineFactory {
	return func(kind string, searchTime time.Duration) (engine.DecisionEngine, error) {
		if searchTime <= 0 {
			searchTime = cfg.GetDuration(config.ConfigSearchTime)
		}
		return newEngine(ctx, cfg, kind, searchTime)
	}
}

func newEngine(ctx context.Context, cfg *config.Config, kind string, searchTime time.Duration) (engine.DecisionEngine, error) {
	if kind == "" {
		kind = cfg.GetString(config.ConfigEngine)
	}
	log.Debug().Str("kind", kind).Dur("search-time", searchTime).Msg("new-engine")
	switch kind {
	case config.EngineHasty:
		return hasty.NewEngine(), nil

	case config.EngineNegamax:
		return negamax.NewEngine(negamax.Options{
			SearchTime:      searchTime,
			Threads:         cfg.GetInt(config.ConfigSearchThreads),
			TTFractionOfMem: cfg.GetFloat64(config.ConfigTTFractionOfMem),
		}), nil

	case config.EngineLua:
		return luaengine.NewEngine(cfg.GetString(config.ConfigLuaScript))

	case config.EngineNats:
		return bot.Dial(ctx, cfg.GetString(config.ConfigNatsURL),
			cfg.GetString(config.ConfigNatsChannel), cfg.GetDuration(config.ConfigNatsTimeout))

	case config.EngineLambda:
		return bot.NewLambdaEngine(ctx, cfg.GetString(config.ConfigLambdaFunction), searchTime+lambdaSlack)

	case config.EngineOpening:
		fbKind := cfg.GetString(config.ConfigOpeningFallback)
		if fbKind == config.EngineOpening {
			return nil, fmt.Errorf("%w: opening table cannot fall back to itself", engine.ErrEngineUnavailable)
		}
		fallback, err := newEngine(ctx, cfg, fbKind, searchTime)
		if err != nil {
			return nil, err
		}
		return newOpeningEngine(cfg, fallback)
	}
	return nil, fmt.Errorf("%w: unknown engine kind %q", engine.ErrEngineUnavailable, kind)
}

// newOpeningEngine takes ownership of fallback: it is closed if the table
// cannot be opened.
func newOpeningEngine(cfg *config.Config, fallback engine.DecisionEngine) (engine.DecisionEngine, error) {
	tbl, err := openingtable.Open(cfg.GetString(config.ConfigOpeningDB), nil)
	if err != nil {
		CloseEngine(fallback)
		return nil, err
	}
	return openingtable.NewEngine(tbl, cfg.GetInt(config.ConfigOpeningMinGames), fallback), nil
}

// CloseEngine releases whatever e holds on to, if anything.
func CloseEngine(e engine.DecisionEngine) {
	if c, ok := e.(interface{ Close() }); ok {
		c.Close()
	}
}

// AIGameRunner is a game runner whose computer sides are built from
// configuration.
type AIGameRunner struct {
	*runner.GameRunner

	cfg *config.Config
}

// NewAIGameRunner starts a game with an engine for every side whose kind
// is set in opts.Engines. Sides left empty are played by a human.
func NewAIGameRunner(ctx context.Context, cfg *config.Config, opts *runner.GameOptions) (*AIGameRunner, error) {
	return NewAIGameRunnerFromGame(ctx, game.NewGame(opts.Players), cfg, opts.Engines)
}

func NewAIGameRunnerFromGame(ctx context.Context, g *game.Game, cfg *config.Config, kinds [2]string) (*AIGameRunner, error) {
	gr := &AIGameRunner{GameRunner: runner.NewGameRunnerFromGame(g), cfg: cfg}
	for _, p := range []board.Player{board.PlayerA, board.PlayerB} {
		if err := gr.SetEngineKind(ctx, p, kinds[p]); err != nil {
			gr.Close()
			return nil, err
		}
	}
	return gr, nil
}

// SetEngineKind replaces p's engine with a new one of the given kind; an
// empty kind makes p a human.
func (g *AIGameRunner) SetEngineKind(ctx context.Context, p board.Player, kind string) error {
	var e engine.DecisionEngine
	if kind != "" {
		var err error
		if e, err = NewEngine(ctx, g.cfg, kind); err != nil {
			return err
		}
	}
	if old := g.Engine(p); old != nil {
		CloseEngine(old)
	}
	g.SetEngine(p, e)
	return nil
}

func (g *AIGameRunner) Close() {
	for _, p := range []board.Player{board.PlayerA, board.PlayerB} {
		if e := g.Engine(p); e != nil {
			CloseEngine(e)
			g.SetEngine(p, nil)
		}
	}
}
