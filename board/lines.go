package board

// WinLength is the number of stones in a row needed to win.
const WinLength = 5

// winLines holds every 5-cell window on the board, in rows, columns and
// both diagonal directions. Quadrant boundaries do not matter here. A run
// of six contains a window of five, so longer runs are covered too.
var winLines []uint64

func init() {
	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		for r := 0; r < Dim; r++ {
			for c := 0; c < Dim; c++ {
				er := r + d[0]*(WinLength-1)
				ec := c + d[1]*(WinLength-1)
				if er < 0 || er >= Dim || ec < 0 || ec >= Dim {
					continue
				}
				var m uint64
				for i := 0; i < WinLength; i++ {
					m |= 1 << (Dim*(r+d[0]*i) + c + d[1]*i)
				}
				winLines = append(winLines, m)
			}
		}
	}
}

// WinLines returns a copy of every 5-cell window mask.
func WinLines() []uint64 {
	return append([]uint64(nil), winLines...)
}

// HasFive reports whether mask contains five consecutive stones along a
// row, column or diagonal.
func HasFive(mask uint64) bool {
	for _, l := range winLines {
		if mask&l == l {
			return true
		}
	}
	return false
}

// HasFive reports whether p has a five-in-a-row on b.
func (b BitBoard) HasFive(p Player) bool {
	return HasFive(b.Mask(p))
}
