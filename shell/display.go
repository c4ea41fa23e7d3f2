package shell

import (
	"strings"

	"github.com/muesli/termenv"

	"github.com/domino14/pentaswap/board"
)

// stoneColors are ANSI codes for the two players' stones.
var stoneColors = map[string]string{
	board.OccupiedA.String(): "9",
	board.OccupiedB.String(): "12",
}

// colorizeStones paints every stone glyph that stands alone between
// spaces. Terminals without color support get the text back unchanged.
func colorizeStones(out *termenv.Output, text string) string {
	if out == nil || out.Profile == termenv.Ascii {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		fields := strings.Split(line, " ")
		for j, f := range fields {
			if c, ok := stoneColors[f]; ok {
				fields[j] = out.String(f).Foreground(out.Color(c)).Bold().String()
			}
		}
		lines[i] = strings.Join(fields, " ")
	}
	return strings.Join(lines, "\n")
}
