package game

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/move"
	"github.com/domino14/pentaswap/tinymove"
)

// GameRecord is the serializable form of a game.
type GameRecord struct {
	Uid          string        `yaml:"uid"`
	Players      [2]PlayerInfo `yaml:"players"`
	InitialMaskA uint64        `yaml:"initial_mask_a"`
	InitialMaskB uint64        `yaml:"initial_mask_b"`
	Turns        []TurnRecord  `yaml:"turns"`
	Outcome      string        `yaml:"outcome"`
	EndReason    string        `yaml:"end_reason"`
}

// TurnRecord is one played move, with the board it produced.
type TurnRecord struct {
	Player  string `yaml:"player"`
	Move    string `yaml:"move"`
	Encoded uint64 `yaml:"encoded"`
	MaskA   uint64 `yaml:"mask_a"`
	MaskB   uint64 `yaml:"mask_b"`
}

// Record builds the serializable form of the game so far.
func (g *Game) Record() GameRecord {
	rec := GameRecord{
		Uid:          g.uid,
		Players:      g.players,
		InitialMaskA: g.initial.Mask(board.PlayerA),
		InitialMaskB: g.initial.Mask(board.PlayerB),
		Turns:        make([]TurnRecord, 0, len(g.history)),
		Outcome:      g.outcome.String(),
		EndReason:    g.endReason.String(),
	}
	b := g.initial
	for _, m := range g.history {
		// Moves in the history were validated when played.
		b, _ = m.Apply(b)
		rec.Turns = append(rec.Turns, TurnRecord{
			Player:  m.Player().String(),
			Move:    m.ShortDescription(),
			Encoded: uint64(tinymove.Encode(m)),
			MaskA:   b.Mask(board.PlayerA),
			MaskB:   b.Mask(board.PlayerB),
		})
	}
	return rec
}

// ToYAML exports the game record.
func (g *Game) ToYAML() ([]byte, error) {
	return yaml.Marshal(g.Record())
}

// FromYAML rebuilds a game by replaying an exported record. Every move is
// validated again, and the stored boards must match the replayed ones.
func FromYAML(data []byte) (*Game, error) {
	var rec GameRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	start, err := board.FromMasks(rec.InitialMaskA, rec.InitialMaskB)
	if err != nil {
		return nil, err
	}
	g, err := NewGameFromBoard(start, rec.Players)
	if err != nil {
		return nil, err
	}
	if rec.Uid != "" {
		g.uid = rec.Uid
	}
	for i, t := range rec.Turns {
		var m move.Move
		m, err = tinymove.Decode(tinymove.TinyMove(t.Encoded))
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", i+1, err)
		}
		if err = g.PlayMove(m); err != nil {
			return nil, fmt.Errorf("turn %d: %w", i+1, err)
		}
		if g.board.Mask(board.PlayerA) != t.MaskA || g.board.Mask(board.PlayerB) != t.MaskB {
			return nil, fmt.Errorf("turn %d: %w: recorded board does not match", i+1, ErrInvalidPosition)
		}
	}
	if rec.EndReason == Forfeited.String() && g.Playing() {
		loser := g.onturn
		if rec.Outcome == WinFor(g.onturn).String() {
			loser = g.onturn.Opponent()
		}
		if err = g.Forfeit(loser); err != nil {
			return nil, err
		}
	}
	return g, nil
}
