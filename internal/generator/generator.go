// Package generator walks each opening line of a book, chooses moves
// according to the book's policy, and emits one PGN game per line.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"bookgen/internal/analysis"
	"bookgen/internal/engine"
	"bookgen/internal/repertoire"
)

// ErrIllegalMove means the engine or the repertoire produced a move the
// board rejects. That signals an engine/version mismatch and is fatal.
var ErrIllegalMove = errors.New("illegal move")

// Searcher is the slice of the engine client the generator needs.
type Searcher interface {
	Search(ctx context.Context, movesUCI []string, depth int) (engine.SearchResult, error)
}

type Generator struct {
	searcher Searcher
	depth    int
	log      *zap.SugaredLogger
}

func New(searcher Searcher, depth int, log *zap.SugaredLogger) *Generator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Generator{searcher: searcher, depth: depth, log: log}
}

// Generate plays every line of the book in registry order and writes the
// finished games to w as PGN, one block per line. It either produces every
// line or fails; there is no partial-success mode.
func (g *Generator) Generate(ctx context.Context, book repertoire.Book, w io.Writer) error {
	for i, line := range book.Lines {
		game, err := g.playLine(ctx, book, line)
		if err != nil {
			return fmt.Errorf("line %q: %w", line.Name, err)
		}
		if err := writePGN(w, book, line, i+1, game); err != nil {
			return err
		}
		g.log.Infow("line finished",
			"book", book.Name,
			"line", line.Name,
			"plies", len(game.Moves()),
			"result", string(game.Outcome()))
	}
	return nil
}

func (g *Generator) playLine(ctx context.Context, book repertoire.Book, line repertoire.Line) (*chess.Game, error) {
	game := chess.NewGame()
	moves := make([]string, 0, book.PlyCap)

	for _, uci := range line.MovesUCI {
		if game.Outcome() != chess.NoOutcome {
			break
		}
		if err := applyUCI(game, uci); err != nil {
			return nil, err
		}
		moves = append(moves, uci)
	}

	if book.Policy == repertoire.FixedBranch {
		return game, nil
	}

	for len(moves) < book.PlyCap && game.Outcome() == chess.NoOutcome {
		uci, err := g.chooseMove(ctx, book.Policy, game, moves)
		if err != nil {
			return nil, err
		}
		if uci == "" {
			break
		}
		if err := applyUCI(game, uci); err != nil {
			return nil, err
		}
		moves = append(moves, uci)
		claimDraw(game)
		g.log.Debugw("ply", "book", book.Name, "line", line.Name, "move", uci, "ply", len(moves))
	}

	return game, nil
}

func (g *Generator) chooseMove(ctx context.Context, policy repertoire.Policy, game *chess.Game, moves []string) (string, error) {
	switch policy {
	case repertoire.EngineBest:
		res, err := g.searcher.Search(ctx, moves, g.depth)
		if err != nil {
			return "", err
		}
		if res.Move == "" {
			// The board says the game is still on; the engine disagrees.
			return "", fmt.Errorf("%w: engine returned no move in a live position", engine.ErrProtocol)
		}
		return res.Move, nil
	case repertoire.EngineWorstLegal:
		evals, err := analysis.RankMoves(ctx, g.searcher, game.Position(), moves, g.depth)
		if err != nil {
			return "", err
		}
		worst, ok := analysis.Worst(evals)
		if !ok {
			return "", nil
		}
		return worst.MoveUCI, nil
	default:
		return "", fmt.Errorf("policy %v consulted for a move", policy)
	}
}

func applyUCI(game *chess.Game, uci string) error {
	notation := chess.UCINotation{}
	mv, err := notation.Decode(game.Position(), uci)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIllegalMove, uci, err)
	}
	if err := game.Move(mv); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIllegalMove, uci, err)
	}
	return nil
}

// claimDraw turns a claimable repetition or fifty-move state into a draw so
// a worst-move line cannot shuffle pieces forever under the ply cap.
func claimDraw(game *chess.Game) {
	for _, method := range game.EligibleDraws() {
		if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
			_ = game.Draw(method)
			return
		}
	}
}

func writePGN(w io.Writer, book repertoire.Book, line repertoire.Line, round int, game *chess.Game) error {
	game.AddTagPair("Event", book.Name+" opening book")
	game.AddTagPair("Site", "?")
	game.AddTagPair("Round", strconv.Itoa(round))
	game.AddTagPair("Opening", line.Name)
	game.AddTagPair("Result", string(game.Outcome()))
	_, err := fmt.Fprintf(w, "%s\n\n", game.String())
	return err
}
