package negamax

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/pentaswap/board"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

const entrySize = 16

const depthMask = (1 << 6) - 1

const (
	minSizePowerOf2 = 12
	maxSizePowerOf2 = 28
)

// TableEntry is what the table knows about one position.
type TableEntry struct {
	score        int32
	flagAndDepth uint8
}

func (t TableEntry) flag() uint8 {
	return t.flagAndDepth >> 6
}

func (t TableEntry) depth() uint8 {
	return t.flagAndDepth & depthMask
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag() != 0
}

func (t TableEntry) pack() uint64 {
	return uint64(uint32(t.score)) | uint64(t.flagAndDepth)<<32
}

func unpack(d uint64) TableEntry {
	return TableEntry{score: int32(uint32(d)), flagAndDepth: uint8(d >> 32)}
}

// slot holds one entry. key is stored xored with data, so a slot torn by
// two threads writing at once reads back as a miss rather than as a wrong
// entry. No lock is needed.
type slot struct {
	key  atomic.Uint64
	data atomic.Uint64
}

// TranspositionTable is shared by all search threads.
type TranspositionTable struct {
	table        []slot
	sizePowerOf2 int
	sizeMask     uint64

	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
	// "type 2" collisions: two positions landing on the same slot.
	t2collisions atomic.Uint64
}

// HashBoard hashes the canonical form of b, so all eight symmetric images of
// a position share one entry. Symmetric positions have the same value, as
// every symmetry maps win lines to win lines and swaps to swaps.
func HashBoard(b board.BitBoard) uint64 {
	c := b.Canonical()
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], c.Mask(board.PlayerA))
	binary.LittleEndian.PutUint64(buf[8:], c.Mask(board.PlayerB))
	return xxhash.Sum64(buf[:])
}

func (t *TranspositionTable) lookup(key uint64) TableEntry {
	t.lookups.Add(1)
	s := &t.table[key&t.sizeMask]
	d := s.data.Load()
	if s.key.Load()^d != key {
		if d != 0 {
			t.t2collisions.Add(1)
		}
		return TableEntry{}
	}
	t.hits.Add(1)
	return unpack(d)
}

func (t *TranspositionTable) store(key uint64, tentry TableEntry) {
	s := &t.table[key&t.sizeMask]
	d := tentry.pack()
	// just overwrite whatever is there for now.
	s.data.Store(d)
	s.key.Store(key ^ d)
	t.created.Add(1)
}

// Reset sizes the table to roughly fractionOfMemory of the system's memory
// and clears it.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	power := minSizePowerOf2
	if desiredNElems >= 1 {
		power = int(math.Log2(desiredNElems))
	}
	t.Resize(power)
	log.Info().Int("num-elems", len(t.table)).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", len(t.table)*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
}

// Resize allocates 2^power entries, clamped to a sane range, and clears
// the table.
func (t *TranspositionTable) Resize(power int) {
	power = max(minSizePowerOf2, min(power, maxSizePowerOf2))
	numElems := 1 << power
	if len(t.table) == numElems {
		for i := range t.table {
			t.table[i].key.Store(0)
			t.table[i].data.Store(0)
		}
	} else {
		t.table = make([]slot, numElems)
	}
	t.sizePowerOf2 = power
	t.sizeMask = uint64(numElems - 1)
	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

// Stats returns counters since the last reset.
func (t *TranspositionTable) Stats() (created, lookups, hits, collisions uint64) {
	return t.created.Load(), t.lookups.Load(), t.hits.Load(), t.t2collisions.Load()
}
