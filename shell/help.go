package shell

import (
	"embed"
	"strings"
)

//go:embed helptext/*.txt
var helptext embed.FS

var helpTopics = []string{"new", "load", "gen", "play", "aiplay", "undo", "autoplay", "export", "setengine"}

func usage(mode string) (*Response, error) {
	dat, err := helptext.ReadFile("helptext/usage-" + mode + ".txt")
	if err != nil {
		return nil, err
	}
	return msg(string(dat)), nil
}

func usageTopic(topic string) (*Response, error) {
	dat, err := helptext.ReadFile("helptext/" + strings.ToLower(topic) + ".txt")
	if err != nil {
		return msg("There is no help text for the topic " + topic), nil
	}
	return msg(string(dat)), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return usage("standard")
	}
	return usageTopic(cmd.args[0])
}
