package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"bookgen/internal/db"
	"bookgen/internal/engine"
)

const fakeEngineScript = `#!/bin/sh
while read -r line; do
	case "$line" in
	uci)
		echo "uciok"
		;;
	isready)
		echo "readyok"
		;;
	go*)
		echo "info depth 10 score cp 25 pv g1f3"
		echo "bestmove g1f3"
		;;
	quit)
		exit 0
		;;
	esac
done
`

func writeScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.sh")
	if err := os.WriteFile(path, []byte(fakeEngineScript), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func openStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestCachingSearcherHit(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	defer func() { _ = store.Close() }()

	pos := chess.StartingPosition()
	if err := store.PutEval(ctx, db.EvalRow{
		FEN:      pos.String(),
		Depth:    10,
		BestMove: "e2e4",
		ScoreCP:  34,
	}); err != nil {
		t.Fatal(err)
	}

	// The engine is never started: a cache hit must answer on its own.
	c := &cachingSearcher{
		eng:   engine.New("/does/not/exist", nil),
		base:  pos,
		store: store,
		log:   zap.NewNop().Sugar(),
	}
	res, err := c.Search(ctx, nil, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Move != "e2e4" || res.Score != (engine.Score{CP: 34}) {
		t.Fatalf("cached result = %+v", res)
	}
}

// A cache read failure must degrade to a miss and still answer from the
// engine rather than abort the probe.
func TestCachingSearcherReadErrorFallsThrough(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	_ = store.Close() // every read and write now fails

	eng := engine.New(writeScript(t), nil)
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = eng.Close() }()

	c := &cachingSearcher{
		eng:   eng,
		base:  chess.StartingPosition(),
		store: store,
		log:   zap.NewNop().Sugar(),
	}
	res, err := c.Search(ctx, nil, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Move != "g1f3" || res.Score != (engine.Score{CP: 25}) {
		t.Fatalf("engine result = %+v", res)
	}
}
