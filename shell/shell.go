// Package shell is an interactive REPL for playing and analysing games.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"

	airunner "github.com/domino14/pentaswap/ai/runner"
	"github.com/domino14/pentaswap/automatic"
	"github.com/domino14/pentaswap/config"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/movegen"
	"github.com/domino14/pentaswap/runner"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game; start one with `new`")
	errAutoplaying       = errors.New("autoplay is running; `autoplay stop` first")
	errQuit              = errors.New("sending quit signal")
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// extractFields splits a line into a command, its arguments, and its
// -option value pairs.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: CmdOptions{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if !strings.HasPrefix(f, "-") || f == "-" {
			cmd.args = append(cmd.args, f)
			continue
		}
		if i+1 >= len(fields) {
			return nil, errWrongOptionSyntax
		}
		key := strings.TrimPrefix(f, "-")
		cmd.options[key] = append(cmd.options[key], fields[i+1])
		i++
	}
	return cmd, nil
}

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	options *runner.GameOptions
	game    *airunner.AIGameRunner
	// analysis answers `aiplay` for sides without their own engine.
	analysis engine.DecisionEngine
	curPlays []movegen.Child

	autoplayCancel context.CancelFunc
	out            *termenv.Output
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := newController(cfg)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mpentaswap>\033[0m ",
		HistoryFile:     "/tmp/pentaswap-readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

func newController(cfg *config.Config) *ShellController {
	opts := runner.DefaultGameOptions()
	opts.Players[0].Nickname = "tzaddi"
	opts.Players[1].Nickname = "nomad"
	return &ShellController{config: cfg, options: opts, out: termenv.NewOutput(os.Stdout)}
}

func (sc *ShellController) stderr() io.Writer {
	if sc.l == nil {
		return os.Stderr
	}
	return sc.l.Stderr()
}

func (sc *ShellController) showMessage(msg string) {
	writeln(colorizeStones(sc.out, msg), sc.stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		sig <- syscall.SIGINT
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "gen":
		return sc.generate(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "aiplay", "ai":
		return sc.aiplay(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "export":
		return sc.export(cmd)
	case "setengine":
		return sc.setEngine(cmd)
	case "settings":
		return msg(fmt.Sprintf("%v", sc.config.SanitizedSettings())), nil
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Close releases the engines the shell holds.
func (sc *ShellController) Close() {
	if sc.autoplayCancel != nil {
		sc.autoplayCancel()
	}
	if sc.game != nil {
		sc.game.Close()
	}
	if sc.analysis != nil {
		airunner.CloseEngine(sc.analysis)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	defer sc.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// autoplayRunning reports whether background games are being played.
func (sc *ShellController) autoplayRunning() bool {
	return automatic.IsPlaying.Value() > 0
}
