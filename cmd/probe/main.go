// probe ranks the candidate moves of a single position under a few
// strategies: raw winning chance, win-or-draw chance, and "allow one good
// reply", which weights each candidate by how likely the opponent is to
// find its refutation. Refutation odds come from the opening explorer,
// once from the community database and once from the masters database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"bookgen/internal/analysis"
	"bookgen/internal/config"
	"bookgen/internal/db"
	"bookgen/internal/engine"
	"bookgen/internal/explorer"
)

func main() {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: probe <FEN>")
		os.Exit(2)
	}
	fen := strings.Join(os.Args[1:], " ")

	if err := run(logger, fen); err != nil {
		logger.Errorw("probe failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *zap.SugaredLogger, fen string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	fenOpt, err := chess.FEN(fen)
	if err != nil {
		return fmt.Errorf("bad FEN %q: %w", fen, err)
	}
	game := chess.NewGame(fenOpt)
	pos := game.Position()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer func() { _ = store.Close() }()

	eng := engine.New(cfg.EnginePath, strings.Fields(cfg.EngineArgs))
	eng.SetTimeout(cfg.SearchTimeout)
	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("engine start: %w", err)
	}
	defer func() { _ = eng.Close() }()

	expl := explorer.NewClient(cfg.ExplorerURL, store, logger)

	fmt.Println(fen)

	// Searches run from startpos in the generator, but probe analyses an
	// arbitrary position, so feed the engine the FEN directly. Results are
	// cached per position and depth; probing neighbouring positions keeps
	// hitting the same subtrees.
	searcher := &cachingSearcher{eng: eng, base: pos, store: store, log: logger}

	evals, err := analysis.RankMoves(ctx, searcher, pos, nil, cfg.SearchDepth)
	if err != nil {
		return err
	}

	printRated("winningest", analysis.Winningest(evals))
	printRated("dontlose", analysis.DontLose(evals))

	popularity := func(ctx context.Context, fen string) (map[string]float64, error) {
		table, err := expl.Lichess(ctx, fen)
		if err != nil {
			return nil, err
		}
		return table.Fractions(), nil
	}
	allowOne, err := analysis.AllowOne(ctx, searcher, pos, nil, cfg.SearchDepth, popularity)
	if err != nil {
		return err
	}
	printRated("allow_one", allowOne)

	// Masters play far more accurately, so the same candidate can rank very
	// differently when the refutation odds come from the OTB database.
	mastersPopularity := func(ctx context.Context, fen string) (map[string]float64, error) {
		table, err := expl.Masters(ctx, fen)
		if err != nil {
			return nil, err
		}
		return table.Fractions(), nil
	}
	allowOneMasters, err := analysis.AllowOne(ctx, searcher, pos, nil, cfg.SearchDepth, mastersPopularity)
	if err != nil {
		return err
	}
	printRated("allow_one_masters", allowOneMasters)

	return nil
}

func printRated(label string, moves []analysis.RatedMove) {
	fmt.Printf("%s:", label)
	for i, m := range moves {
		if i == 3 {
			break
		}
		fmt.Printf(" %s=%.3f", m.MoveUCI, m.Chance)
	}
	fmt.Println()
}

// cachingSearcher rebases searches on a fixed position instead of startpos
// and memoizes results in the sqlite store keyed by (FEN, depth).
type cachingSearcher struct {
	eng   *engine.UCI
	base  *chess.Position
	store *db.Store
	log   *zap.SugaredLogger
}

func (c *cachingSearcher) Search(ctx context.Context, movesUCI []string, depth int) (engine.SearchResult, error) {
	pos := c.base
	notation := chess.UCINotation{}
	for _, uci := range movesUCI {
		mv, err := notation.Decode(pos, uci)
		if err != nil {
			return engine.SearchResult{}, fmt.Errorf("bad move %s: %w", uci, err)
		}
		pos = pos.Update(mv)
	}
	fen := pos.String()

	row, ok, err := c.store.GetEval(ctx, fen, depth)
	if err != nil {
		// A broken cache degrades to a miss, but never silently.
		c.log.Warnw("eval cache read failed", "fen", fen, "err", err)
	} else if ok {
		return engine.SearchResult{
			Move:  row.BestMove,
			Score: engine.Score{CP: row.ScoreCP, Mate: row.Mate, IsMate: row.IsMate},
		}, nil
	}

	res, err := c.eng.SearchFEN(ctx, c.base.String(), movesUCI, depth)
	if err != nil {
		return engine.SearchResult{}, err
	}

	if err := c.store.PutEval(ctx, db.EvalRow{
		FEN:      fen,
		Depth:    depth,
		BestMove: res.Move,
		ScoreCP:  res.Score.CP,
		Mate:     res.Score.Mate,
		IsMate:   res.Score.IsMate,
	}); err != nil {
		c.log.Warnw("eval cache write failed", "err", err)
	}
	return res, nil
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger.Sugar()
}
