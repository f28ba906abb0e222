package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"bookgen/internal/config"
	"bookgen/internal/engine"
	"bookgen/internal/generator"
	"bookgen/internal/repertoire"
)

func main() {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: bookgen <configuration> [<depth>]\nconfigurations: %s\n",
			strings.Join(repertoire.Names(), " "))
		os.Exit(2)
	}

	if err := run(logger, os.Args[1], os.Args[2:]); err != nil {
		logger.Errorw("generation failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *zap.SugaredLogger, name string, extra []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// The optional second argument tunes the search depth for one run.
	depth := cfg.SearchDepth
	if len(extra) > 0 {
		d, err := strconv.Atoi(extra[0])
		if err != nil || d <= 0 {
			return fmt.Errorf("bad depth argument %q", extra[0])
		}
		depth = d
	}

	book, err := repertoire.Lookup(name)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(cfg.EnginePath, strings.Fields(cfg.EngineArgs))
	eng.SetTimeout(cfg.SearchTimeout)
	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("engine start: %w", err)
	}
	defer func() { _ = eng.Close() }()

	if err := eng.NewGame(ctx); err != nil {
		return fmt.Errorf("engine newgame: %w", err)
	}

	logger.Infow("generating book",
		"configuration", book.Name,
		"policy", book.Policy.String(),
		"lines", len(book.Lines),
		"depth", depth,
		"engine", cfg.EnginePath)

	return generator.New(eng, depth, logger).Generate(ctx, book, os.Stdout)
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
