// Package stats keeps running statistics over autoplay results.
package stats

import (
	"fmt"
	"math"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance (Welford's algorithm).
type Statistic struct {
	n    int
	last float64
	mean float64
	m2   float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.n++
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
}

func (s *Statistic) Mean() float64 {
	return s.mean
}

func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

func (s *Statistic) Iterations() int {
	return s.n
}

// Interval returns the bounds of the confidence interval around the mean,
// for a confidence given in percent.
func (s *Statistic) Interval(confidence float64) (float64, float64) {
	d := ZVal(confidence) * s.StandardError()
	return s.mean - d, s.mean + d
}

// Tally counts game results from one side's point of view. A win scores
// 1, a draw 0.5 and a loss 0.
type Tally struct {
	Wins   int
	Draws  int
	Losses int
	score  Statistic
}

func (t *Tally) Win() {
	t.Wins++
	t.score.Push(1)
}

func (t *Tally) Draw() {
	t.Draws++
	t.score.Push(0.5)
}

func (t *Tally) Loss() {
	t.Losses++
	t.score.Push(0)
}

func (t *Tally) Games() int {
	return t.score.Iterations()
}

// Score is the mean score per game.
func (t *Tally) Score() *Statistic {
	return &t.score
}

func (t *Tally) String() string {
	lo, hi := t.score.Interval(95)
	return fmt.Sprintf("+%d =%d -%d  score %.3f (95%% CI %.3f to %.3f)",
		t.Wins, t.Draws, t.Losses, t.score.Mean(), lo, hi)
}
