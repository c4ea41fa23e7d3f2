package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/game"
)

func parseOutcome(s string) (game.Outcome, error) {
	for _, o := range []game.Outcome{game.Ongoing, game.WinA, game.WinB, game.Draw} {
		if o.String() == s {
			return o, nil
		}
	}
	return game.Ongoing, fmt.Errorf("unknown outcome %q", s)
}

// AnalyzeLogFile reads a turn log written by StartCompVComp and summarizes
// the finished games in it.
func AnalyzeLogFile(filepath string) (*Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	r := csv.NewReader(file)

	// Record looks like:
	// gameID,turn,player,engine,move,encoded,maskA,maskB,outcome
	var names []string
	results := map[string]*GameResult{}
	var order []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "gameID" {
			continue
		}
		gameID, name := record[0], record[3]
		engineIdx := -1
		for i, n := range names {
			if n == name {
				engineIdx = i
			}
		}
		if engineIdx == -1 {
			names = append(names, name)
			engineIdx = len(names) - 1
		}
		turn, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, err
		}
		o, err := parseOutcome(record[8])
		if err != nil {
			return nil, err
		}
		res, ok := results[gameID]
		if !ok {
			res = &GameResult{GameID: gameID}
			results[gameID] = res
			order = append(order, gameID)
			// The first logged turn of a game is always A's.
			res.FirstEngine = engineIdx
		}
		res.Turns = turn
		res.Outcome = o
		if record[4] == "forfeit" {
			p := board.PlayerA
			if record[2] == board.PlayerB.String() {
				p = board.PlayerB
			}
			res.Outcome = game.WinFor(p.Opponent())
			res.EndReason = game.Forfeited
		}
	}
	if len(names) > 2 {
		return nil, fmt.Errorf("log has %d engines, expected at most 2", len(names))
	}
	var summaryNames [2]string
	copy(summaryNames[:], names)
	summary := NewSummary(summaryNames)
	for _, id := range order {
		if res := results[id]; res.Outcome.Terminal() {
			summary.Add(*res)
		}
	}
	return summary, nil
}
