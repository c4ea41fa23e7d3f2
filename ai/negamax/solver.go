// Package negamax is an iterative-deepening alpha-beta searcher. It can run
// helper threads that search the same tree in a different order and share
// what they learn through the transposition table (lazy SMP).
package negamax

import (
	"context"
	"errors"
	"math/bits"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/game"
	"github.com/domino14/pentaswap/move"
	"github.com/domino14/pentaswap/movegen"
)

var ErrNoMoves = errors.New("position has no moves to search")

// orderingNoise is how far root scores are jittered between iterations,
// so equal moves aren't always tried in the same order.
const orderingNoise = 10

// The reply to an empty board: a centre cell, swapping the bottom quadrants.
var openingReply = move.NewFromSquare(7, board.BottomLeft, board.BottomRight, board.PlayerA)

type rootMove struct {
	movegen.Child
	score int32
}

type Solver struct {
	ttable *TranspositionTable

	threads  int
	maxDepth int
	nodes    atomic.Uint64

	// per-thread child buffers, indexed by remaining depth.
	childBufs [][][]movegen.Child
	orderKeys [][][]int32

	bestValue      int32
	completedDepth int
}

func NewSolver(tt *TranspositionTable) *Solver {
	s := &Solver{ttable: tt, maxDepth: board.NumCells}
	s.SetThreads(1)
	return s
}

func (s *Solver) SetThreads(threads int) {
	s.threads = max(1, threads)
	s.childBufs = make([][][]movegen.Child, s.threads)
	s.orderKeys = make([][][]int32, s.threads)
	for t := range s.childBufs {
		s.childBufs[t] = make([][]movegen.Child, board.NumCells+1)
		s.orderKeys[t] = make([][]int32, board.NumCells+1)
	}
}

// SetMaxDepth caps the iterative deepening, in plies.
func (s *Solver) SetMaxDepth(d int) {
	s.maxDepth = max(1, min(d, board.NumCells))
}

func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// BestValue and CompletedDepth describe the last Solve.
func (s *Solver) BestValue() int32 {
	return s.bestValue
}

func (s *Solver) CompletedDepth() int {
	return s.completedDepth
}

// Solve searches b for p until ctx is done, the depth limit is reached, or
// the result is proven. It always returns a legal move unless the game is
// already over.
func (s *Solver) Solve(ctx context.Context, b board.BitBoard, p board.Player) (move.Move, error) {
	s.nodes.Store(0)
	s.bestValue = 0
	s.completedDepth = 0
	if o, _ := game.DetectOutcome(b); o.Terminal() {
		return move.Move{}, ErrNoMoves
	}
	if b.NumStones() == 0 && p == board.PlayerA {
		log.Debug().Msg("opening-reply")
		return openingReply, nil
	}
	tstart := time.Now()
	children := movegen.SearchChildren(b, p, nil)
	root := make([]rootMove, len(children))
	for i, c := range children {
		root[i] = rootMove{Child: c}
	}
	best := root[0]
	if len(root) == 1 {
		if o, _ := game.DetectOutcome(best.Board); o.Terminal() {
			s.bestValue = terminalScore(best.Board, o, p)
			return best.Move, nil
		}
	}

	maxDepth := min(s.maxDepth, bits.OnesCount64(b.EmptyCells()))
	for depth := 1; depth <= maxDepth; depth++ {
		helpers, cancelHelpers := s.startHelpers(ctx, root, p, depth)
		val, idx, err := s.searchRoot(ctx, root, p, depth, 0, true)
		cancelHelpers()
		if herr := helpers.Wait(); herr != nil && !errors.Is(herr, context.Canceled) {
			log.Debug().Err(herr).Msg("helper-error")
		}
		if err != nil {
			log.Debug().Int("depth", depth).Err(err).Msg("search-interrupted")
			break
		}
		best = root[idx]
		s.bestValue = val
		s.completedDepth = depth
		log.Debug().Int("depth", depth).Int32("value", val).
			Str("move", best.Move.ShortDescription()).
			Uint64("nodes", s.nodes.Load()).
			Dur("elapsed", time.Since(tstart)).Msg("best-val")
		if IsProven(val) {
			break
		}
		s.orderRoot(root)
	}
	created, lookups, hits, collisions := s.ttable.Stats()
	log.Debug().Uint64("tt-created", created).Uint64("tt-lookups", lookups).
		Uint64("tt-hits", hits).Uint64("tt-t2collisions", collisions).
		Int("depth", s.completedDepth).Msg("solve-done")
	return best.Move, nil
}

// orderRoot sorts root moves best first, with some noise.
func (s *Solver) orderRoot(root []rootMove) {
	keys := make(map[move.Move]int32, len(root))
	for _, r := range root {
		keys[r.Move] = r.score + int32(frand.Intn(2*orderingNoise+1)) - orderingNoise
	}
	sort.SliceStable(root, func(i, j int) bool {
		return keys[root[i].Move] > keys[root[j].Move]
	})
}

// startHelpers launches lazy-SMP helper threads. Their results are thrown
// away; they only fill the transposition table.
func (s *Solver) startHelpers(ctx context.Context, root []rootMove, p board.Player, depth int) (*errgroup.Group, context.CancelFunc) {
	helperCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(helperCtx)
	for t := 1; t < s.threads; t++ {
		own := make([]rootMove, len(root))
		copy(own, root)
		if t%2 == 1 {
			frand.Shuffle(len(own), func(i, j int) {
				own[i], own[j] = own[j], own[i]
			})
		}
		hdepth := depth + t%2
		g.Go(func() error {
			_, _, err := s.searchRoot(gctx, own, p, hdepth, t, false)
			return err
		})
	}
	return g, cancel
}

func (s *Solver) searchRoot(ctx context.Context, root []rootMove, p board.Player, depth, thread int, record bool) (int32, int, error) {
	α := -Infinity
	best := -Infinity
	bestIdx := 0
	for i := range root {
		v, err := s.negamax(ctx, root[i].Board, p.Opponent(), depth-1, -Infinity, -α, thread)
		if err != nil {
			return 0, 0, err
		}
		v = -v
		if record {
			root[i].score = v
		}
		if v > best {
			best = v
			bestIdx = i
		}
		α = max(α, v)
	}
	return best, bestIdx, nil
}

func (s *Solver) negamax(ctx context.Context, b board.BitBoard, p board.Player, depth int, α, β int32, thread int) (int32, error) {
	if s.nodes.Add(1)&1023 == 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
	if o, _ := game.DetectOutcome(b); o.Terminal() {
		return terminalScore(b, o, p), nil
	}
	if depth == 0 {
		return Evaluate(b, p), nil
	}

	αOrig := α
	key := HashBoard(b)
	if e := s.ttable.lookup(key); e.valid() && int(e.depth()) >= depth {
		score := e.score
		switch e.flag() {
		case TTExact:
			return score, nil
		case TTLower:
			α = max(α, score)
		case TTUpper:
			β = min(β, score)
		}
		if α >= β {
			return score, nil
		}
	}

	children := movegen.SearchChildren(b, p, s.childBufs[thread][depth])
	s.childBufs[thread][depth] = children
	if depth > 2 && len(children) > 1 {
		s.orderChildren(children, thread, depth)
	}

	bestValue := -Infinity
	for _, c := range children {
		v, err := s.negamax(ctx, c.Board, p.Opponent(), depth-1, -β, -α, thread)
		if err != nil {
			return 0, err
		}
		v = -v
		if v > bestValue {
			bestValue = v
		}
		α = max(α, bestValue)
		if bestValue >= β {
			break // beta cut-off
		}
	}

	var flag uint8
	if bestValue <= αOrig {
		flag = TTUpper
	} else if bestValue >= β {
		flag = TTLower
	} else {
		flag = TTExact
	}
	s.ttable.store(key, TableEntry{score: bestValue, flagAndDepth: flag<<6 + uint8(depth)})
	return bestValue, nil
}

// orderChildren tries children that the table already knows to be bad for
// the opponent first. Values in the table are from the opponent's side, so
// lower is better for us.
func (s *Solver) orderChildren(children []movegen.Child, thread, depth int) {
	keys := s.orderKeys[thread][depth][:0]
	for _, c := range children {
		var k int32
		if e := s.ttable.lookup(HashBoard(c.Board)); e.valid() {
			k = e.score
		}
		keys = append(keys, k)
	}
	s.orderKeys[thread][depth] = keys
	sort.Sort(childSorter{children, keys})
}

type childSorter struct {
	children []movegen.Child
	keys     []int32
}

func (c childSorter) Len() int           { return len(c.children) }
func (c childSorter) Less(i, j int) bool { return c.keys[i] < c.keys[j] }
func (c childSorter) Swap(i, j int) {
	c.children[i], c.children[j] = c.children[j], c.children[i]
	c.keys[i], c.keys[j] = c.keys[j], c.keys[i]
}
