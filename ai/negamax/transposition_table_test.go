package negamax

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/pentaswap/board"
)

func TestTableEntryPacking(t *testing.T) {
	is := is.New(t)
	for _, score := range []int32{0, -1, 999_991, -999_964, 300} {
		e := TableEntry{score: score, flagAndDepth: TTLower<<6 + 17}
		u := unpack(e.pack())
		is.Equal(u, e)
		is.Equal(u.flag(), uint8(TTLower))
		is.Equal(u.depth(), uint8(17))
		is.True(u.valid())
	}
}

func TestStoreLookup(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Resize(12)
	b := board.FromRows([board.Dim][board.Dim]int{{1, 2}})
	key := HashBoard(b)
	is.True(!tt.lookup(key).valid())
	tt.store(key, TableEntry{score: -42, flagAndDepth: TTExact<<6 + 3})
	e := tt.lookup(key)
	is.True(e.valid())
	is.Equal(e.score, int32(-42))
	is.Equal(e.depth(), uint8(3))

	// a different key in the same slot is a miss.
	other := key ^ (1 << 40)
	is.True(!tt.lookup(other).valid())
	_, lookups, hits, collisions := tt.Stats()
	is.Equal(lookups, uint64(3))
	is.Equal(hits, uint64(1))
	is.Equal(collisions, uint64(1))
}

func TestHashSymmetric(t *testing.T) {
	is := is.New(t)
	b := board.FromRows([board.Dim][board.Dim]int{
		{1, 0, 0, 0, 0, 0},
		{0, 0, 2, 0, 0, 0},
		{0, 0, 0, 0, 0, 1},
	})
	h := HashBoard(b)
	for _, s := range board.Symmetries(b) {
		is.Equal(HashBoard(s), h)
	}
	is.True(HashBoard(board.BitBoard{}) != h)
}
