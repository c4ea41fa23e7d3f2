package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/pentaswap/ai/hasty"
	"github.com/domino14/pentaswap/ai/luaengine"
	"github.com/domino14/pentaswap/ai/negamax"
	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/config"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/openingtable"
	"github.com/domino14/pentaswap/runner"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	if err := cfg.Load(nil); err != nil {
		t.Fatal(err)
	}
	cfg.Set(config.ConfigTTFractionOfMem, 0)
	cfg.Set(config.ConfigSearchTime, 50*time.Millisecond)
	cfg.Set(config.ConfigLuaScript, "../luaengine/testdata/greedy.lua")
	cfg.Set(config.ConfigOpeningDB, filepath.Join(t.TempDir(), "openings.db"))
	cfg.Set(config.ConfigOpeningFallback, config.EngineHasty)
	return cfg
}

func TestNewEngineKinds(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	cfg := testConfig(t)

	e, err := NewEngine(ctx, cfg, config.EngineHasty)
	is.NoErr(err)
	_, ok := e.(*hasty.Engine)
	is.True(ok)

	// empty kind means the configured default
	e, err = NewEngine(ctx, cfg, "")
	is.NoErr(err)
	_, ok = e.(*negamax.Engine)
	is.True(ok)

	e, err = NewEngine(ctx, cfg, config.EngineLua)
	is.NoErr(err)
	_, ok = e.(*luaengine.Engine)
	is.True(ok)
	CloseEngine(e)

	e, err = NewEngine(ctx, cfg, config.EngineOpening)
	is.NoErr(err)
	_, ok = e.(*openingtable.Engine)
	is.True(ok)
	// Nothing in the table, so the fallback answers.
	mv := e.ChooseMove(0, 0)
	is.True(mv>>32 == 0)
	CloseEngine(e)
}

func TestNewEngineUnavailable(t *testing.T) {
	is := is.New(t)
	cfg := testConfig(t)
	ctx := context.Background()

	_, err := NewEngine(ctx, cfg, "alphazero")
	is.True(errors.Is(err, engine.ErrEngineUnavailable))

	_, err = NewEngine(ctx, cfg, config.EngineLambda)
	is.True(errors.Is(err, engine.ErrEngineUnavailable))

	cfg.Set(config.ConfigLuaScript, "/does/not/exist.lua")
	_, err = NewEngine(ctx, cfg, config.EngineLua)
	is.True(errors.Is(err, engine.ErrEngineUnavailable))

	cfg.Set(config.ConfigOpeningFallback, config.EngineOpening)
	_, err = NewEngine(ctx, cfg, config.EngineOpening)
	is.True(errors.Is(err, engine.ErrEngineUnavailable))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	cfg.Set(config.ConfigNatsURL, "nats://127.0.0.1:1")
	_, err = NewEngine(cancelled, cfg, config.EngineNats)
	is.True(errors.Is(err, engine.ErrEngineUnavailable))
}

type closeRecorder struct {
	engine.DecisionEngine
	closed int
}

func (c *closeRecorder) Close() { c.closed++ }

func TestOpeningEngineClosesFallbackWhenTableFails(t *testing.T) {
	is := is.New(t)
	cfg := testConfig(t)
	notADir := filepath.Join(t.TempDir(), "plain-file")
	is.NoErr(os.WriteFile(notADir, []byte("x"), 0o644))
	cfg.Set(config.ConfigOpeningDB, filepath.Join(notADir, "openings.db"))

	fallback := &closeRecorder{DecisionEngine: hasty.NewEngine()}
	_, err := newOpeningEngine(cfg, fallback)
	is.True(errors.Is(err, engine.ErrEngineUnavailable))
	is.Equal(fallback.closed, 1)

	// With a usable table the fallback stays open, owned by the engine.
	cfg.Set(config.ConfigOpeningDB, filepath.Join(t.TempDir(), "openings.db"))
	fallback = &closeRecorder{DecisionEngine: hasty.NewEngine()}
	e, err := newOpeningEngine(cfg, fallback)
	is.NoErr(err)
	is.Equal(fallback.closed, 0)
	CloseEngine(e)
	is.Equal(fallback.closed, 1)
}

func TestFactory(t *testing.T) {
	is := is.New(t)
	f := Factory(context.Background(), testConfig(t))
	e, err := f(config.EngineHasty, 0)
	is.NoErr(err)
	is.True(e != nil)
}

func TestAIGameRunner(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	opts := runner.DefaultGameOptions()
	opts.Engines = [2]string{config.EngineHasty, config.EngineHasty}
	g, err := NewAIGameRunner(ctx, testConfig(t), opts)
	is.NoErr(err)
	defer g.Close()
	o, err := g.PlayToEnd(ctx)
	is.NoErr(err)
	is.True(o.Terminal())

	is.NoErr(g.SetEngineKind(ctx, board.PlayerB, ""))
	is.Equal(g.Engine(board.PlayerB), nil)

	opts.Engines[1] = "alphazero"
	_, err = NewAIGameRunner(ctx, testConfig(t), opts)
	is.True(errors.Is(err, engine.ErrEngineUnavailable))
}
