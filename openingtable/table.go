// Package openingtable keeps a sqlite table of opening positions with
// playout statistics. The tree below the empty board is grown one node at
// a time: walk down by UCB to an unexpanded node, add all of its children
// with a few playouts each, then recount the statistics on the way back
// up. Positions are stored in canonical form, so symmetric openings share
// one row.
package openingtable

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
	_ "modernc.org/sqlite"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/game"
	"github.com/domino14/pentaswap/movegen"
	"github.com/domino14/pentaswap/runner"
)

var (
	ErrNotFound       = errors.New("position not in opening table")
	ErrTerminalExpand = errors.New("cannot expand a finished position")
)

const schema = `CREATE TABLE node (
	mask_a INTEGER NOT NULL,
	mask_b INTEGER NOT NULL,
	stones INTEGER NOT NULL,
	games_played INTEGER NOT NULL,
	wins_a INTEGER NOT NULL,
	wins_b INTEGER NOT NULL,
	expanded INTEGER NOT NULL,
	PRIMARY KEY (mask_a, mask_b)
)`

// DefaultGamesPerNewNode is how many playouts a new node starts with.
const DefaultGamesPerNewNode = 1

type Table struct {
	db *sql.DB

	// playout plays both sides of the games that score new nodes.
	playout         engine.DecisionEngine
	gamesPerNewNode int
}

// Open opens (or creates) the database at path. playout is the engine used
// to score new nodes; it may be nil for a table that is only read.
func Open(path string, playout engine.DecisionEngine) (*Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrEngineUnavailable, err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", engine.ErrEngineUnavailable, err)
	}
	return &Table{db: db, playout: playout, gamesPerNewNode: DefaultGamesPerNewNode}, nil
}

func (t *Table) Close() error {
	return t.db.Close()
}

func (t *Table) SetGamesPerNewNode(n int) {
	t.gamesPerNewNode = max(1, n)
}

// Init drops any existing table and starts over with just the empty board.
func (t *Table) Init(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, "DROP TABLE IF EXISTS node"); err != nil {
		return err
	}
	if _, err := t.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return t.insert(ctx, Node{})
}

// Masks are stored as int64; they only use the low 36 bits.
func (t *Table) insert(ctx context.Context, n Node) error {
	_, err := t.db.ExecContext(ctx, `INSERT INTO node VALUES (?, ?, ?, ?, ?, ?, ?)`,
		int64(n.Board.Mask(board.PlayerA)), int64(n.Board.Mask(board.PlayerB)),
		n.Board.NumStones(), n.GamesPlayed, n.WinsA, n.WinsB, n.Expanded)
	return err
}

func (t *Table) update(ctx context.Context, n Node) error {
	_, err := t.db.ExecContext(ctx, `UPDATE node
		SET games_played = ?, wins_a = ?, wins_b = ?, expanded = ?
		WHERE mask_a = ? AND mask_b = ?`,
		n.GamesPlayed, n.WinsA, n.WinsB, n.Expanded,
		int64(n.Board.Mask(board.PlayerA)), int64(n.Board.Mask(board.PlayerB)))
	return err
}

// Get returns the node for b, in any orientation.
func (t *Table) Get(ctx context.Context, b board.BitBoard) (Node, error) {
	c := b.Canonical()
	row := t.db.QueryRowContext(ctx, `SELECT games_played, wins_a, wins_b, expanded
		FROM node WHERE mask_a = ? AND mask_b = ?`,
		int64(c.Mask(board.PlayerA)), int64(c.Mask(board.PlayerB)))
	n := Node{Board: c}
	err := row.Scan(&n.GamesPlayed, &n.WinsA, &n.WinsB, &n.Expanded)
	if errors.Is(err, sql.ErrNoRows) {
		return Node{}, fmt.Errorf("%w: %v", ErrNotFound, c)
	}
	if err != nil {
		return Node{}, err
	}
	return n, nil
}

// Count returns the number of stored positions.
func (t *Table) Count(ctx context.Context) (int64, error) {
	var n int64
	err := t.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM node").Scan(&n)
	return n, err
}

// CanonicalChildren returns the distinct canonical positions reachable from
// b in one move, sorted.
func CanonicalChildren(b board.BitBoard) []board.BitBoard {
	p := game.SideToMove(b)
	var children []board.BitBoard
	for _, child := range movegen.Children(b, p) {
		children = append(children, child.Canonical())
	}
	slices.SortFunc(children, func(x, y board.BitBoard) int {
		switch {
		case x.Less(y):
			return -1
		case y.Less(x):
			return 1
		}
		return 0
	})
	return slices.Compact(children)
}

func (t *Table) children(ctx context.Context, b board.BitBoard) ([]Node, error) {
	var nodes []Node
	for _, c := range CanonicalChildren(b) {
		n, err := t.Get(ctx, c)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Expand grows the tree once, starting from the empty board.
func (t *Table) Expand(ctx context.Context) (Node, error) {
	return t.expand(ctx, board.BitBoard{})
}

func (t *Table) expand(ctx context.Context, b board.BitBoard) (Node, error) {
	node, err := t.Get(ctx, b)
	if err != nil {
		return Node{}, err
	}
	if o, _ := game.DetectOutcome(node.Board); o.Terminal() {
		// Nothing below a finished game; just count it again.
		node.addResult(o)
		return node, t.update(ctx, node)
	}
	p := game.SideToMove(node.Board)

	var childNodes []Node
	if node.Expanded {
		childNodes, err = t.children(ctx, node.Board)
		if err != nil {
			return Node{}, err
		}
		if len(childNodes) == 0 {
			return Node{}, ErrTerminalExpand
		}
		best, bestUCB := 0, -1.0
		for i, c := range childNodes {
			// a little noise breaks ties
			u := c.UCB(p, node.GamesPlayed) + 0.0001*frand.Float64()
			if u > bestUCB {
				best, bestUCB = i, u
			}
		}
		childNodes[best], err = t.expand(ctx, childNodes[best].Board)
		if err != nil {
			return Node{}, err
		}
	} else {
		log.Debug().Str("position", node.Board.String()).Msg("expanding")
		node.Expanded = true
		childNodes, err = t.addChildren(ctx, node.Board)
		if err != nil {
			return Node{}, err
		}
	}

	node.GamesPlayed, node.WinsA, node.WinsB = 0, 0, 0
	for _, c := range childNodes {
		node.GamesPlayed += c.GamesPlayed
		node.WinsA += c.WinsA
		node.WinsB += c.WinsB
	}
	return node, t.update(ctx, node)
}

// addChildren stores every child of b that isn't in the table yet, scored
// by a few playouts.
func (t *Table) addChildren(ctx context.Context, b board.BitBoard) ([]Node, error) {
	var nodes []Node
	for _, c := range CanonicalChildren(b) {
		n, err := t.Get(ctx, c)
		if err == nil {
			nodes = append(nodes, n)
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		n = Node{Board: c}
		for range t.gamesPerNewNode {
			o, err := t.playGame(ctx, c)
			if err != nil {
				return nil, err
			}
			n.addResult(o)
		}
		if err = t.insert(ctx, n); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (t *Table) playGame(ctx context.Context, b board.BitBoard) (game.Outcome, error) {
	if o, _ := game.DetectOutcome(b); o.Terminal() {
		return o, nil
	}
	if t.playout == nil {
		return game.Ongoing, fmt.Errorf("%w: no playout engine", engine.ErrEngineUnavailable)
	}
	g, err := game.NewGameFromBoard(b, [2]game.PlayerInfo{})
	if err != nil {
		return game.Ongoing, err
	}
	r := runner.NewGameRunnerFromGame(g)
	r.SetEngine(board.PlayerA, t.playout)
	r.SetEngine(board.PlayerB, t.playout)
	o, err := r.PlayToEnd(ctx)
	var ierr *runner.IllegalMoveError
	if errors.As(err, &ierr) {
		// The game was forfeited; that still is a result.
		log.Warn().Err(err).Msg("playout-forfeited")
		return o, nil
	}
	return o, err
}

// Generate runs n expansions, or until ctx is done if n is 0.
func (t *Table) Generate(ctx context.Context, n int) error {
	for i := 0; n == 0 || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		root, err := t.Expand(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("iteration", i+1).Int64("games", root.GamesPlayed).
			Float64("winrate-a", root.WinRate(board.PlayerA)).Msg("expanded")
	}
	return nil
}

// MainLine follows the best-scoring child from the empty board for as long
// as the nodes are expanded.
func (t *Table) MainLine(ctx context.Context) ([]Node, error) {
	node, err := t.Get(ctx, board.BitBoard{})
	if err != nil {
		return nil, err
	}
	line := []Node{node}
	for node.Expanded {
		children, err := t.children(ctx, node.Board)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			break
		}
		p := game.SideToMove(node.Board)
		node = slices.MaxFunc(children, func(x, y Node) int {
			return cmp.Compare(x.WinRate(p), y.WinRate(p))
		})
		line = append(line, node)
	}
	return line, nil
}

