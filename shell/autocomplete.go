package shell

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/config"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var engineKinds = []string{
	config.EngineHasty, config.EngineNegamax, config.EngineLua,
	config.EngineNats, config.EngineLambda, config.EngineOpening,
}

var swapNames = func() []string {
	names := []string{"-"}
	for qa := board.TopLeft; qa <= board.BottomRight; qa++ {
		for qb := qa + 1; qb <= board.BottomRight; qb++ {
			names = append(names, strings.ToLower(qa.String()+"-"+qb.String()))
		}
	}
	return names
}()

var commandMetadata = map[string]CommandMetadata{
	"autoplay": {
		Options: []string{"-games", "-threads", "-file"},
		Args:    append([]string{"stop"}, engineKinds...),
	},
	"setengine": {
		Args: []string{"a", "b"},
	},
	"help": {
		Args: helpTopics,
	},
}

// Common command names for command completion
var commandNames = []string{
	"help", "new", "load", "show", "gen", "play", "aiplay", "undo",
	"autoplay", "export", "setengine", "settings", "exit",
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		// position of the argument being completed
		argPos := len(fields) - 1
		if !endsWithSpace {
			argPos--
		}
		switch {
		case cmdName == "setengine" && argPos == 1:
			completions = append([]string{"human"}, engineKinds...)
		case cmdName == "play" && argPos == 1:
			completions = swapNames
		case cmdName == "play" && argPos == 0 && strings.HasPrefix(prefix, "#"):
			completions = lo.Map(lo.Range(len(c.sc.curPlays)), func(i, _ int) string {
				return "#" + strconv.Itoa(i+1)
			})
		default:
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
