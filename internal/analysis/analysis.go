// Package analysis ranks candidate moves by asking the engine to evaluate
// the position after each one. Scores come back from the opponent's point
// of view and are flipped, so every MoveEval is from the mover's side.
package analysis

import (
	"context"
	"sort"

	"github.com/notnil/chess"

	"bookgen/internal/engine"
)

// Searcher is the slice of the engine client the ranking code needs.
type Searcher interface {
	Search(ctx context.Context, movesUCI []string, depth int) (engine.SearchResult, error)
}

// MoveEval is one candidate move with its evaluation for the side playing it.
type MoveEval struct {
	MoveUCI string
	Score   engine.Score
}

// RankMoves evaluates every legal move in the position reached by movesUCI
// and returns them worst-first. Moves that end the game on the spot are
// scored from the board, not the engine: mate is a mate in one for the
// mover, any other terminal state counts as a dead draw. Ties break on the
// lexicographically smaller UCI string so ranking is deterministic.
func RankMoves(ctx context.Context, s Searcher, pos *chess.Position, movesUCI []string, depth int) ([]MoveEval, error) {
	notation := chess.UCINotation{}
	legal := pos.ValidMoves()
	evals := make([]MoveEval, 0, len(legal))

	for _, mv := range legal {
		uci := notation.Encode(pos, mv)
		next := pos.Update(mv)

		var score engine.Score
		switch next.Status() {
		case chess.Checkmate:
			score = engine.MateIn(1)
		case chess.Stalemate:
			score = engine.Score{}
		default:
			res, err := s.Search(ctx, append(append([]string(nil), movesUCI...), uci), depth)
			if err != nil {
				return nil, err
			}
			score = res.Score.Negate()
		}
		evals = append(evals, MoveEval{MoveUCI: uci, Score: score})
	}

	sort.Slice(evals, func(i, j int) bool {
		if evals[i].Score.Less(evals[j].Score) {
			return true
		}
		if evals[j].Score.Less(evals[i].Score) {
			return false
		}
		return evals[i].MoveUCI < evals[j].MoveUCI
	})
	return evals, nil
}

// Worst returns the lowest-scoring candidate for the side to move.
func Worst(evals []MoveEval) (MoveEval, bool) {
	if len(evals) == 0 {
		return MoveEval{}, false
	}
	return evals[0], true
}

// Best returns the highest-scoring candidate for the side to move.
func Best(evals []MoveEval) (MoveEval, bool) {
	if len(evals) == 0 {
		return MoveEval{}, false
	}
	return evals[len(evals)-1], true
}
