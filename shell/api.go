package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/pentaswap/ai/negamax"
	airunner "github.com/domino14/pentaswap/ai/runner"
	"github.com/domino14/pentaswap/automatic"
	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/config"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/game"
	"github.com/domino14/pentaswap/move"
	"github.com/domino14/pentaswap/movegen"
)

const defaultNumPlays = 15

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	if sc.game != nil {
		sc.game.Close()
		sc.game = nil
	}
	opts := *sc.options
	if frand.Intn(2) == 1 {
		opts.Players[0], opts.Players[1] = opts.Players[1], opts.Players[0]
		opts.Engines[0], opts.Engines[1] = opts.Engines[1], opts.Engines[0]
	}
	g, err := airunner.NewAIGameRunner(context.Background(), sc.config, &opts)
	if err != nil {
		return nil, err
	}
	sc.game = g
	sc.curPlays = nil
	return msg(opts.ToDisplayString() + sc.game.ToDisplayText()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a file to load")
	}
	data, err := os.ReadFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	g, err := game.FromYAML(data)
	if err != nil {
		return nil, err
	}
	if sc.game != nil {
		sc.game.Close()
	}
	sc.game, err = airunner.NewAIGameRunnerFromGame(context.Background(), g, sc.config, sc.options.Engines)
	if err != nil {
		sc.game = nil
		return nil, err
	}
	sc.curPlays = nil
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

func moveTableHeader() string {
	return "      Move       Eval\n"
}

func moveTableRow(idx int, c movegen.Child, eval string) string {
	return fmt.Sprintf("%3d: %-12s%s", idx+1, c.Move.ShortDescription(), eval)
}

// generate lists the moves worth considering, best static evaluation
// first. Winning moves and forced blocks are all that is listed when they
// exist.
func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if !sc.game.Playing() {
		return nil, game.ErrGameOver
	}
	numPlays := defaultNumPlays
	if len(cmd.args) > 0 {
		var err error
		if numPlays, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	b, p := sc.game.Board(), sc.game.PlayerOnTurn()
	children := movegen.SearchChildren(b, p, nil)
	scores := lo.Map(children, func(c movegen.Child, _ int) int32 {
		if o, _ := game.DetectOutcome(c.Board); o.Terminal() {
			if w, ok := o.Winner(); ok && w == p {
				return negamax.WinScore
			}
			if o == game.Draw {
				return 0
			}
			return -negamax.WinScore
		}
		return negamax.Evaluate(c.Board, p)
	})
	idx := lo.Range(len(children))
	sort.SliceStable(idx, func(i, j int) bool { return scores[idx[i]] > scores[idx[j]] })
	idx = idx[:min(numPlays, len(idx))]
	sc.curPlays = lo.Map(idx, func(i, _ int) movegen.Child { return children[i] })

	var out strings.Builder
	out.WriteString(moveTableHeader())
	for i, ci := range idx {
		eval := strconv.Itoa(int(scores[ci]))
		if negamax.IsProven(scores[ci]) {
			eval = lo.Ternary(scores[ci] > 0, "win", "loss")
		}
		out.WriteString(moveTableRow(i, children[ci], eval) + "\n")
	}
	return msg(out.String()), nil
}

// play commits a move given in notation ("play c3 tl-br"), or one from the
// last generated list ("play #2").
func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("play <coords> [<swap>] or play #<n>")
	}
	if strings.HasPrefix(cmd.args[0], "#") {
		n, err := strconv.Atoi(cmd.args[0][1:])
		if err != nil {
			return nil, err
		}
		if n < 1 || n > len(sc.curPlays) {
			return nil, errors.New("play outside range")
		}
		return sc.commit(sc.curPlays[n-1].Move)
	}
	swap := ""
	if len(cmd.args) > 1 {
		swap = cmd.args[1]
	}
	m, err := move.ParseMove(cmd.args[0], swap, sc.game.PlayerOnTurn())
	if err != nil {
		return nil, err
	}
	return sc.commit(m)
}

func (sc *ShellController) commit(m move.Move) (*Response, error) {
	if err := sc.game.PlayMove(m); err != nil {
		return nil, err
	}
	sc.curPlays = nil
	return msg("Committing move: " + m.ShortDescription() + "\n" + sc.game.ToDisplayText()), nil
}

// aiplay lets the engine of the side on turn move. Sides without an engine
// use the configured default one.
func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if !sc.game.Playing() {
		return nil, game.ErrGameOver
	}
	p := sc.game.PlayerOnTurn()
	if sc.game.Engine(p) == nil {
		if sc.analysis == nil {
			e, err := airunner.NewEngine(context.Background(), sc.config, "")
			if err != nil {
				return nil, err
			}
			sc.analysis = e
		}
		sc.game.SetEngine(p, sc.analysis)
		defer sc.game.SetEngine(p, nil)
	}
	m, err := sc.game.PlayEngineTurn()
	if err != nil {
		return nil, err
	}
	sc.curPlays = nil
	return msg("Engine played: " + m.ShortDescription() + "\n" + sc.game.ToDisplayText()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if err := sc.game.UnplayLastMove(); err != nil {
		return nil, err
	}
	sc.curPlays = nil
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) export(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("please provide a filename to save to")
	}
	filename := cmd.args[0]
	contents, err := sc.game.ToYAML()
	if err != nil {
		return nil, err
	}
	if err = os.WriteFile(filename, contents, 0o644); err != nil {
		return nil, err
	}
	log.Debug().Str("filename", filename).Msg("exported-game")
	return msg("game written to " + filename), nil
}

func parseSide(s string) (board.Player, error) {
	switch strings.ToLower(s) {
	case "a", "1":
		return board.PlayerA, nil
	case "b", "2":
		return board.PlayerB, nil
	}
	return board.PlayerA, fmt.Errorf("no such side %q; use a or b", s)
}

// setEngine assigns an engine kind to a side, for this game and new ones.
// "human" clears it.
func (sc *ShellController) setEngine(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("setengine <a|b> <kind|human>")
	}
	p, err := parseSide(cmd.args[0])
	if err != nil {
		return nil, err
	}
	kind := cmd.args[1]
	if kind == "human" {
		kind = ""
	}
	if sc.game != nil {
		if err = sc.game.SetEngineKind(context.Background(), p, kind); err != nil {
			return nil, err
		}
	}
	sc.options.Engines[p] = kind
	return msg(sc.options.ToDisplayString()), nil
}

// autoplay plays engines against each other in the background:
//
//	autoplay [kind1] [kind2] -games n -threads t -file path
//	autoplay stop
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 1 && cmd.args[0] == "stop" {
		if sc.autoplayCancel == nil || !sc.autoplayRunning() {
			return nil, errors.New("no autoplay to stop")
		}
		sc.autoplayCancel()
		return msg("stopping autoplay"), nil
	}
	if sc.autoplayRunning() {
		return nil, errAutoplaying
	}
	kinds := [2]string{config.EngineHasty, config.EngineHasty}
	for i := range min(2, len(cmd.args)) {
		kinds[i] = cmd.args[i]
	}
	numGames, err := cmd.options.IntDefault("games", 100)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigAutoplayThreads))
	if err != nil {
		return nil, err
	}
	outFile := cmd.options.String("file")
	if outFile == "" {
		outFile = sc.config.GetString(config.ConfigAutoplayOutput)
	}
	opts := autoplayOptions(sc.config, kinds, numGames, threads, outFile)

	ctx, cancel := context.WithCancel(context.Background())
	sc.autoplayCancel = cancel
	go func() {
		defer cancel()
		summary, err := automatic.StartCompVComp(ctx, opts)
		if err != nil {
			sc.showError(err)
			return
		}
		sc.showMessage(summary.String())
	}()
	return msg(fmt.Sprintf("autoplaying %d games of %s vs %s, logging to %s",
		numGames, opts.Names[0], opts.Names[1], outFile)), nil
}

func autoplayOptions(cfg *config.Config, kinds [2]string, numGames, threads int, outFile string) automatic.Options {
	return automatic.Options{
		NumGames:       numGames,
		Threads:        threads,
		OutputFilename: outFile,
		Names:          [2]string{kinds[0] + "-1", kinds[1] + "-2"},
		NewEngines: func() ([2]engine.DecisionEngine, error) {
			var engines [2]engine.DecisionEngine
			for i, k := range kinds {
				e, err := airunner.NewEngine(context.Background(), cfg, k)
				if err != nil {
					if i == 1 {
						airunner.CloseEngine(engines[0])
					}
					return engines, err
				}
				engines[i] = e
			}
			return engines, nil
		},
	}
}
