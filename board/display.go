package board

import (
	"fmt"
	"strings"
)

// ToDisplayText renders the board with column letters and 1-based row
// numbers. Quadrant boundaries are drawn as gaps.
func (b BitBoard) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("    a b c   d e f\n")
	for r := 0; r < Dim; r++ {
		if r == 3 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%2d  ", r+1)
		for c := 0; c < Dim; c++ {
			if c == 3 {
				sb.WriteString("  ")
			}
			sb.WriteString(b.At(Dim*r + c).String())
			if c != Dim-1 && c != 2 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b BitBoard) String() string {
	return fmt.Sprintf("BitBoard{a: %#x, b: %#x}", b.masks[0], b.masks[1])
}
