package board

// The eight dihedral symmetries of the board. Quadrant swaps map onto
// quadrant swaps under each of them and the set of win lines is invariant,
// so symmetric boards have the same game value.

func mapBoard(b BitBoard, f func(uint64) uint64) BitBoard {
	return BitBoard{masks: [2]uint64{f(b.masks[0]), f(b.masks[1])}}
}

// FlipVertical mirrors the board top to bottom.
func FlipVertical(b BitBoard) BitBoard { return mapBoard(b, flipVertical) }

// FlipHorizontal mirrors the board left to right.
func FlipHorizontal(b BitBoard) BitBoard { return mapBoard(b, flipHorizontal) }

// FlipDiagonal mirrors the board across the line joining the top-right and
// bottom-left corners.
func FlipDiagonal(b BitBoard) BitBoard { return mapBoard(b, flipDiagonal) }

// FlipAntiDiagonal mirrors the board across the line joining the top-left
// and bottom-right corners (a transpose).
func FlipAntiDiagonal(b BitBoard) BitBoard { return mapBoard(b, flipAntiDiagonal) }

// Symmetries returns the eight images of b, b itself first.
func Symmetries(b BitBoard) [8]BitBoard {
	v := FlipVertical(b)
	return [8]BitBoard{
		b,
		v,
		FlipHorizontal(b),
		FlipDiagonal(b),
		FlipAntiDiagonal(b),
		FlipAntiDiagonal(v), // rotate 90 clockwise
		FlipHorizontal(v),   // rotate 180
		FlipDiagonal(v),     // rotate 90 anticlockwise
	}
}

// Canonical returns the smallest of the eight symmetric images of b, so all
// equivalent boards share one representative.
func (b BitBoard) Canonical() BitBoard {
	syms := Symmetries(b)
	best := syms[0]
	for _, s := range syms[1:] {
		if s.Less(best) {
			best = s
		}
	}
	return best
}

func flipVertical(x uint64) uint64 {
	const k1 uint64 = 0b000000_000000_111111_000000_000000_111111
	const notK1 = ^(k1 | (k1 << 12))
	const k2 uint64 = 0b000000_000000_000000_111111_111111_111111
	x = ((x >> 12) & k1) | (x & notK1) | ((x & k1) << 12)
	x = (x >> 18) | ((x & k2) << 18)
	return x
}

func flipHorizontal(x uint64) uint64 {
	const k1 uint64 = 0b001001_001001_001001_001001_001001_001001
	const notK1 = ^(k1 | (k1 << 2))
	const k2 uint64 = 0b000111_000111_000111_000111_000111_000111
	x = ((x >> 2) & k1) | (x & notK1) | ((x & k1) << 2)
	x = (x >> 3 & k2) | ((x & k2) << 3)
	return x
}

func flipDiagonal(x uint64) uint64 {
	const k1 uint64 = 0b000000_001001_010010_000000_001001_010010
	const notK1 = ^(k1 | (k1 << 7))
	const k2 uint64 = 0b000000_000000_001001_000000_000000_001001
	const notK2 = ^(k2 | (k2 << 14))
	const k3 uint64 = 0b000000_000000_000000_000111_000111_000111
	const notK3 = ^(k3 | (k3 << 21))
	x = ((x >> 7) & k1) | (x & notK1) | ((x & k1) << 7)
	x = ((x >> 14) & k2) | (x & notK2) | ((x & k2) << 14)
	x = ((x >> 21) & k3) | (x & notK3) | ((x & k3) << 21)
	return x & FullMask
}

func flipAntiDiagonal(x uint64) uint64 {
	const k1 uint64 = 0b000000_100100_010010_000000_100100_010010
	const notK1 = ^(k1 | (k1 << 5))
	const k2 uint64 = 0b000000_000000_100100_000000_000000_100100
	const notK2 = ^(k2 | (k2 << 10))
	const k3 uint64 = 0b000000_000000_000000_111000_111000_111000
	const notK3 = ^(k3 | (k3 << 15))
	x = ((x >> 5) & k1) | (x & notK1) | ((x & k1) << 5)
	x = ((x >> 10) & k2) | (x & notK2) | ((x & k2) << 10)
	x = ((x >> 15) & k3) | (x & notK3) | ((x & k3) << 15)
	return x & FullMask
}
