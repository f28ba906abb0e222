package analysis

import (
	"context"
	"sort"

	"github.com/notnil/chess"

	"bookgen/internal/engine"
)

// RatedMove is a candidate move with a model probability attached.
type RatedMove struct {
	MoveUCI string
	Chance  float64
}

// Winningest orders candidates by the mover's raw winning chance, best
// first. This is the play-for-a-win strategy: a drawish +0.10 ranks below
// a sharp attacking line even when the engine scores them alike.
func Winningest(evals []MoveEval) []RatedMove {
	return rate(evals, WinChance)
}

// DontLose orders candidates by the mover's win-or-draw chance, best first.
func DontLose(evals []MoveEval) []RatedMove {
	return rate(evals, NoLossChance)
}

func rate(evals []MoveEval, chance func(engine.Score) float64) []RatedMove {
	out := make([]RatedMove, 0, len(evals))
	for _, e := range evals {
		out = append(out, RatedMove{MoveUCI: e.MoveUCI, Chance: chance(e.Score)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Chance > out[j].Chance })
	return out
}

// PopularityFunc reports, for a position, what fraction of recorded games
// continued with each move (keyed by UCI). Used to estimate how likely the
// opponent is to actually find a reply over the board.
type PopularityFunc func(ctx context.Context, fen string) (map[string]float64, error)

// AllowOne scores each candidate by how much it depends on the opponent
// finding their single best reply: the expected winning chance is the
// popularity-weighted mix of the position after the best reply and after
// the second best. A move whose refutation is obscure scores high even if
// the engine calls it equal.
func AllowOne(ctx context.Context, s Searcher, pos *chess.Position, movesUCI []string, depth int, popularity PopularityFunc) ([]RatedMove, error) {
	notation := chess.UCINotation{}
	out := make([]RatedMove, 0, len(pos.ValidMoves()))

	for _, mv := range pos.ValidMoves() {
		uci := notation.Encode(pos, mv)
		next := pos.Update(mv)
		nextMoves := append(append([]string(nil), movesUCI...), uci)

		switch next.Status() {
		case chess.Checkmate:
			out = append(out, RatedMove{MoveUCI: uci, Chance: 1})
			continue
		case chess.Stalemate:
			out = append(out, RatedMove{MoveUCI: uci, Chance: DrawChance(engine.Score{})})
			continue
		}

		replies, err := RankMoves(ctx, s, next, nextMoves, depth)
		if err != nil {
			return nil, err
		}
		best, _ := Best(replies)

		// Default to certainty: the best reply may be such an obvious
		// move that no table is needed to predict it.
		pCorrect := 1.0
		if popularity != nil {
			table, err := popularity(ctx, next.String())
			if err == nil {
				if p, ok := table[best.MoveUCI]; ok {
					pCorrect = p
				}
			}
		}

		afterBest := WinChance(best.Score.Negate())
		afterSecond := afterBest
		if len(replies) > 1 {
			second := replies[len(replies)-2]
			afterSecond = WinChance(second.Score.Negate())
		}

		out = append(out, RatedMove{MoveUCI: uci, Chance: pCorrect*afterBest + (1-pCorrect)*afterSecond})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Chance > out[j].Chance })
	return out, nil
}
