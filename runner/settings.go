package runner

import (
	"fmt"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/game"
)

// GameOptions holds what a new game needs to know up front.
type GameOptions struct {
	Players [2]game.PlayerInfo
	// Engines names the engine kind for each side; empty means a human.
	Engines [2]string
}

func DefaultGameOptions() *GameOptions {
	return &GameOptions{
		Players: [2]game.PlayerInfo{{Nickname: "player1"}, {Nickname: "player2"}},
	}
}

func (opts *GameOptions) ToDisplayString() string {
	s := ""
	for i, p := range opts.Players {
		e := opts.Engines[i]
		if e == "" {
			e = "human"
		}
		s += fmt.Sprintf("%v: %s (%s)\n", board.Player(i), p.Nickname, e)
	}
	return s
}
