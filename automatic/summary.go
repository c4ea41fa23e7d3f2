package automatic

import (
	"fmt"
	"strings"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/game"
	"github.com/domino14/pentaswap/stats"
)

// Summary accumulates autoplay results.
type Summary struct {
	names [2]string
	// engine[i] is from engine i's point of view; first is from the
	// point of view of whoever moved first.
	engine   [2]stats.Tally
	first    stats.Tally
	length   stats.Statistic
	lengths  []float64
	forfeits int
}

func NewSummary(names [2]string) *Summary {
	return &Summary{names: names}
}

func (s *Summary) Add(r GameResult) {
	s.length.Push(float64(r.Turns))
	s.lengths = append(s.lengths, float64(r.Turns))
	if r.EndReason == game.Forfeited {
		s.forfeits++
	}
	winner, ok := r.Outcome.Winner()
	if !ok {
		s.first.Draw()
		s.engine[0].Draw()
		s.engine[1].Draw()
		return
	}
	// A is always the player who moved first.
	winnerEngine := r.FirstEngine
	if winner == board.PlayerB {
		winnerEngine = 1 - r.FirstEngine
		s.first.Loss()
	} else {
		s.first.Win()
	}
	s.engine[winnerEngine].Win()
	s.engine[1-winnerEngine].Loss()
}

func (s *Summary) Games() int {
	return s.length.Iterations()
}

// Engine returns the results of engine i.
func (s *Summary) Engine(i int) *stats.Tally {
	return &s.engine[i]
}

func (s *Summary) FirstPlayer() *stats.Tally {
	return &s.first
}

func (s *Summary) Length() *stats.Statistic {
	return &s.length
}

func (s *Summary) Forfeits() int {
	return s.forfeits
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", s.Games())
	for i, name := range s.names {
		fmt.Fprintf(&sb, "%v: %v\n", name, s.engine[i].String())
	}
	fmt.Fprintf(&sb, "Player who went first: %v\n", s.first.String())
	fmt.Fprintf(&sb, "Forfeits: %d\n", s.forfeits)
	fmt.Fprintf(&sb, "Game length: mean %.2f  stdev %.2f\n", s.length.Mean(), s.length.Stdev())
	if len(s.lengths) > 0 {
		hist := histogram.Hist(10, s.lengths)
		if err := histogram.Fprint(&sb, hist, histogram.Linear(40)); err != nil {
			fmt.Fprintf(&sb, "(no histogram: %v)\n", err)
		}
	}
	return sb.String()
}
