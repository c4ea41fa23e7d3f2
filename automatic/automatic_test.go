package automatic

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/pentaswap/ai/hasty"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/game"
	"github.com/domino14/pentaswap/tinymove"
)

func hastyPair() ([2]engine.DecisionEngine, error) {
	return [2]engine.DecisionEngine{hasty.NewEngine(), hasty.NewEngine()}, nil
}

var invalid = engine.EngineFunc(func(mover, opponent uint64) uint64 {
	return uint64(tinymove.InvalidTinyMove)
})

type closeCounter struct {
	engine.DecisionEngine
	closed *int
}

func (c closeCounter) Close() { *c.closed++ }

func TestCompVCompClosesEnginesOnSetupError(t *testing.T) {
	is := is.New(t)
	boom := errors.New("no more engines")
	closed, built := 0, 0
	pairs := func(limit int) EnginePairFunc {
		return func() ([2]engine.DecisionEngine, error) {
			if built == limit {
				return [2]engine.DecisionEngine{}, boom
			}
			built++
			return [2]engine.DecisionEngine{
				closeCounter{hasty.NewEngine(), &closed},
				closeCounter{hasty.NewEngine(), &closed},
			}, nil
		}
	}

	// The third thread cannot get its engines.
	_, err := StartCompVComp(context.Background(), Options{
		NumGames:       2,
		Threads:        3,
		OutputFilename: filepath.Join(t.TempDir(), "autoplay.txt"),
		NewEngines:     pairs(2),
	})
	is.True(errors.Is(err, boom))
	is.Equal(closed, 4)

	// All engines are built but the log cannot be created.
	closed, built = 0, 0
	_, err = StartCompVComp(context.Background(), Options{
		NumGames:       2,
		Threads:        2,
		OutputFilename: filepath.Join(t.TempDir(), "missing", "autoplay.txt"),
		NewEngines:     pairs(-1),
	})
	is.True(err != nil)
	is.Equal(closed, 4)
	is.Equal(IsPlaying.Value(), int64(0))
}

func TestPlayGame(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 100)
	e, _ := hastyPair()
	r := NewGameRunner(logchan, [2]string{"hasty-1", "hasty-2"}, e)
	res, err := r.PlayGame(context.Background(), true)
	is.NoErr(err)
	close(logchan)
	is.True(res.Outcome.Terminal())
	is.Equal(res.FirstEngine, 1)
	lines := 0
	for range logchan {
		lines++
	}
	is.Equal(lines, res.Turns)
}

func TestPlayGameForfeit(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, [2]string{"bad", "hasty"}, [2]engine.DecisionEngine{invalid, hasty.NewEngine()})
	res, err := r.PlayGame(context.Background(), false)
	is.NoErr(err)
	is.Equal(res.Outcome, game.WinB)
	is.Equal(res.EndReason, game.Forfeited)
	is.Equal(res.Turns, 0)
}

func TestCompVComp(t *testing.T) {
	is := is.New(t)
	out := filepath.Join(t.TempDir(), "autoplay.txt")
	summary, err := StartCompVComp(context.Background(), Options{
		NumGames:       6,
		Threads:        2,
		OutputFilename: out,
		Names:          [2]string{"hasty-1", "hasty-2"},
		NewEngines:     hastyPair,
	})
	is.NoErr(err)
	is.Equal(summary.Games(), 6)
	is.Equal(CVCCounter.Value(), int64(6))
	is.Equal(IsPlaying.Value(), int64(0))
	e0, e1 := summary.Engine(0), summary.Engine(1)
	is.Equal(e0.Wins, e1.Losses)
	is.Equal(e0.Draws, e1.Draws)
	is.Equal(summary.FirstPlayer().Games(), 6)

	fromLog, err := AnalyzeLogFile(out)
	is.NoErr(err)
	is.Equal(fromLog.Games(), 6)
	assert.InDelta(t, summary.Length().Mean(), fromLog.Length().Mean(), 1e-9)
	is.Equal(fromLog.FirstPlayer().Wins, summary.FirstPlayer().Wins)
	assert.Contains(t, summary.String(), "Games played: 6")
}

func TestCompVCompForfeits(t *testing.T) {
	is := is.New(t)
	out := filepath.Join(t.TempDir(), "autoplay.txt")
	summary, err := StartCompVComp(context.Background(), Options{
		NumGames:       4,
		Threads:        1,
		OutputFilename: out,
		Names:          [2]string{"bad", "hasty"},
		NewEngines: func() ([2]engine.DecisionEngine, error) {
			return [2]engine.DecisionEngine{invalid, hasty.NewEngine()}, nil
		},
	})
	is.NoErr(err)
	is.Equal(summary.Engine(0).Losses, 4)
	is.Equal(summary.Engine(1).Wins, 4)
	is.Equal(summary.Forfeits(), 4)

	fromLog, err := AnalyzeLogFile(out)
	is.NoErr(err)
	is.Equal(fromLog.Forfeits(), 4)
	is.Equal(fromLog.Games(), 4)
}

func TestCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := StartCompVComp(ctx, Options{
		NumGames:       100,
		Threads:        2,
		OutputFilename: filepath.Join(t.TempDir(), "autoplay.txt"),
		Names:          [2]string{"a", "b"},
		NewEngines:     hastyPair,
	})
	is.NoErr(err)
	is.True(summary.Games() < 100)
}

func TestSummaryAdd(t *testing.T) {
	is := is.New(t)
	s := NewSummary([2]string{"x", "y"})
	s.Add(GameResult{Outcome: game.WinA, Turns: 9, FirstEngine: 1})
	s.Add(GameResult{Outcome: game.WinB, Turns: 10, FirstEngine: 1})
	s.Add(GameResult{Outcome: game.Draw, Turns: 36, FirstEngine: 0})
	is.Equal(s.Engine(1).Wins, 1)
	is.Equal(s.Engine(0).Wins, 1)
	is.Equal(s.Engine(0).Draws, 1)
	is.Equal(s.FirstPlayer().Wins, 1)
	is.Equal(s.FirstPlayer().Losses, 1)
}
