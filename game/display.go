package game

import (
	"fmt"
	"strings"

	"github.com/domino14/pentaswap/board"
)

// ToDisplayText turns the current state of the game into a displayable
// string: the board, with player and turn info to its right.
func (g *Game) ToDisplayText() string {
	lines := strings.Split(strings.TrimRight(g.board.ToDisplayText(), "\n"), "\n")
	hpadding := 4

	info := make([]string, 0, 5)
	for _, p := range []board.Player{board.PlayerA, board.PlayerB} {
		marker := "   "
		if g.onturn == p && g.Playing() {
			marker = "-> "
		}
		name := g.players[p].Nickname
		if name == "" {
			name = "player " + p.String()
		}
		info = append(info, fmt.Sprintf("%s%-16s %s", marker, name, board.CellFor(p)))
	}
	info = append(info, fmt.Sprintf("Turn %d", g.turnnum))
	if m, ok := g.LastMove(); ok {
		info = append(info, "Last move: "+m.ShortDescription())
	}
	if !g.Playing() {
		info = append(info, fmt.Sprintf("Game over: %v (%v)", g.outcome, g.endReason))
	}
	for i, s := range info {
		row := i + 1
		if row >= len(lines) {
			break
		}
		lines[row] += strings.Repeat(" ", hpadding) + s
	}
	return strings.Join(lines, "\n") + "\n"
}
