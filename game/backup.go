package game

import "github.com/domino14/pentaswap/board"

type BackupMode int

const (
	// NoBackup never performs game backups. It can be used for autoplay
	// that has absolutely no input.
	NoBackup BackupMode = iota
	// InteractiveGameplayMode keeps a backup before every move and forfeit
	// so that a shell user can take them back one at a time.
	InteractiveGameplayMode
)

// stateBackup is a subset of Game, meant only for backup purposes.
type stateBackup struct {
	board     board.BitBoard
	onturn    board.Player
	turnnum   int
	outcome   Outcome
	endReason EndReason
	nhistory  int
}

func (g *Game) SetBackupMode(m BackupMode) {
	g.backupMode = m
	if m == NoBackup {
		g.stateStack = nil
	}
}

func (g *Game) backupState() {
	if g.backupMode == NoBackup {
		return
	}
	g.stateStack = append(g.stateStack, stateBackup{
		board:     g.board,
		onturn:    g.onturn,
		turnnum:   g.turnnum,
		outcome:   g.outcome,
		endReason: g.endReason,
		nhistory:  len(g.history),
	})
}

// UnplayLastMove takes back the last move or forfeit.
func (g *Game) UnplayLastMove() error {
	if len(g.stateStack) == 0 {
		return ErrNothingToUndo
	}
	st := g.stateStack[len(g.stateStack)-1]
	g.stateStack = g.stateStack[:len(g.stateStack)-1]
	g.board = st.board
	g.onturn = st.onturn
	g.turnnum = st.turnnum
	g.outcome = st.outcome
	g.endReason = st.endReason
	g.history = g.history[:st.nhistory]
	return nil
}
