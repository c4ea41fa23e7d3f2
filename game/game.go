// Package game holds the rules-level state of a single Pentago-Swap game:
// the board, whose turn it is, and how the game ended.
// Note: a Game doesn't care how it is played. Engines, human players and
// remote bots drive it from outside of this package.
package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/move"
)

var (
	ErrGameOver        = errors.New("game is over")
	ErrWrongPlayer     = errors.New("move is for the player not on turn")
	ErrNothingToUndo   = errors.New("no move to undo")
	ErrInvalidPosition = errors.New("position cannot arise in a game")
)

// PlayerInfo describes one side of the game.
type PlayerInfo struct {
	Nickname string `yaml:"nickname"`
	RealName string `yaml:"real_name,omitempty"`
}

// Game is the actual internal game structure. It validates and applies
// moves and keeps enough history to take them back.
type Game struct {
	uid     string
	initial board.BitBoard
	board   board.BitBoard
	onturn  board.Player
	turnnum int

	outcome   Outcome
	endReason EndReason

	players [2]PlayerInfo
	// history has every move played from the initial board, in order.
	history []move.Move

	backupMode BackupMode
	stateStack []stateBackup
}

func newUID() string {
	return fmt.Sprintf("%x", frand.Bytes(8))
}

// NewGame starts a game on an empty board. Player A moves first.
func NewGame(players [2]PlayerInfo) *Game {
	g := &Game{
		uid:        newUID(),
		players:    players,
		backupMode: InteractiveGameplayMode,
	}
	return g
}

// NewGameFromBoard starts a game from an arbitrary position. As A always
// moves first, the side to move follows from the number of stones: A when
// it is even, B when it is odd.
func NewGameFromBoard(b board.BitBoard, players [2]PlayerInfo) (*Game, error) {
	na, nb := b.NumStonesFor(board.PlayerA), b.NumStonesFor(board.PlayerB)
	if na != nb && na != nb+1 {
		return nil, fmt.Errorf("%w: A has %d stones and B has %d", ErrInvalidPosition, na, nb)
	}
	g := NewGame(players)
	g.initial = b
	g.board = b
	g.turnnum = na + nb
	g.onturn = SideToMove(b)
	g.outcome, g.endReason = DetectOutcome(b)
	return g, nil
}

// SideToMove derives the player on turn from stone parity.
func SideToMove(b board.BitBoard) board.Player {
	if b.NumStones()%2 == 0 {
		return board.PlayerA
	}
	return board.PlayerB
}

// PlayMove validates m and applies it. On error the game is left exactly as
// it was.
func (g *Game) PlayMove(m move.Move) error {
	if g.outcome.Terminal() {
		return ErrGameOver
	}
	if m.Player() != g.onturn {
		return fmt.Errorf("%w: %v moved, %v on turn", ErrWrongPlayer, m.Player(), g.onturn)
	}
	nb, err := m.Apply(g.board)
	if err != nil {
		return err
	}
	g.backupState()
	g.board = nb
	g.history = append(g.history, m)
	g.turnnum++
	g.onturn = g.onturn.Opponent()
	g.outcome, g.endReason = DetectOutcome(nb)
	if g.outcome.Terminal() {
		log.Debug().Str("outcome", g.outcome.String()).Str("reason", g.endReason.String()).
			Int("turn", g.turnnum).Msg("game-ended")
	}
	return nil
}

// Forfeit ends the game with a loss for p.
func (g *Game) Forfeit(p board.Player) error {
	if g.outcome.Terminal() {
		return ErrGameOver
	}
	g.backupState()
	g.outcome = WinFor(p.Opponent())
	g.endReason = Forfeited
	log.Info().Str("player", p.String()).Int("turn", g.turnnum).Msg("forfeit")
	return nil
}

func (g *Game) Board() board.BitBoard        { return g.board }
func (g *Game) InitialBoard() board.BitBoard { return g.initial }
func (g *Game) PlayerOnTurn() board.Player   { return g.onturn }
func (g *Game) Turn() int                    { return g.turnnum }
func (g *Game) Outcome() Outcome             { return g.outcome }
func (g *Game) EndReason() EndReason         { return g.endReason }
func (g *Game) Playing() bool                { return !g.outcome.Terminal() }
func (g *Game) Uid() string                  { return g.uid }

func (g *Game) SetPlayerInfo(p board.Player, info PlayerInfo) {
	g.players[p&1] = info
}

func (g *Game) PlayerInfo(p board.Player) PlayerInfo {
	return g.players[p&1]
}

// History returns a copy of the moves played so far.
func (g *Game) History() []move.Move {
	h := make([]move.Move, len(g.history))
	copy(h, g.history)
	return h
}

// LastMove returns the last move played, if any.
func (g *Game) LastMove() (move.Move, bool) {
	if len(g.history) == 0 {
		return move.Move{}, false
	}
	return g.history[len(g.history)-1], true
}
