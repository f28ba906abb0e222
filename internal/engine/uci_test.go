package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseBestMove(t *testing.T) {
	tests := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{line: "bestmove e2e4", want: "e2e4"},
		{line: "bestmove e2e4 ponder e7e5", want: "e2e4"},
		{line: "bestmove (none)", want: ""},
		{line: "bestmove 0000", want: ""},
		{line: "bestmove", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseBestMove(tt.line)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseBestMove(%q): expected error", tt.line)
			}
			if !errors.Is(err, ErrProtocol) {
				t.Fatalf("parseBestMove(%q): err = %v, want ErrProtocol", tt.line, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseBestMove(%q): %v", tt.line, err)
		}
		if got != tt.want {
			t.Fatalf("parseBestMove(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestParseInfoScore(t *testing.T) {
	tests := []struct {
		line      string
		wantDepth int
		wantScore Score
		ok        bool
	}{
		{
			line:      "info depth 15 seldepth 21 multipv 1 score cp 34 nodes 12345 pv e2e4 e7e5",
			wantDepth: 15,
			wantScore: Score{CP: 34},
			ok:        true,
		},
		{
			line:      "info depth 12 score cp -210 pv d7d5",
			wantDepth: 12,
			wantScore: Score{CP: -210},
			ok:        true,
		},
		{
			line:      "info depth 20 score mate 3 pv h5f7",
			wantDepth: 20,
			wantScore: Score{Mate: 3, IsMate: true},
			ok:        true,
		},
		{
			line:      "info depth 18 score mate -2",
			wantDepth: 18,
			wantScore: Score{Mate: -2, IsMate: true},
			ok:        true,
		},
		{line: "info string NNUE evaluation enabled", ok: false},
		{line: "info depth 5 nodes 100", ok: false},
		{line: "bestmove e2e4", ok: false},
	}

	for _, tt := range tests {
		depth, score, ok := parseInfoScore(tt.line)
		if ok != tt.ok {
			t.Fatalf("parseInfoScore(%q) ok = %v, want %v", tt.line, ok, tt.ok)
		}
		if !ok {
			continue
		}
		if depth != tt.wantDepth || score != tt.wantScore {
			t.Fatalf("parseInfoScore(%q) = %d, %+v; want %d, %+v", tt.line, depth, score, tt.wantDepth, tt.wantScore)
		}
	}
}

// fakeEngineScript behaves like a minimal UCI engine. The searched position
// is echoed back through the pv field so tests can assert on wiring.
const fakeEngineScript = `#!/bin/sh
while read -r line; do
	case "$line" in
	uci)
		echo "id name fake"
		echo "uciok"
		;;
	isready)
		echo "readyok"
		;;
	ucinewgame) ;;
	position*) ;;
	go*)
		echo "info depth 10 score cp 34 pv e2e4"
		echo "info depth 11 score cp 36 pv e2e4"
		echo "bestmove e2e4 ponder e7e5"
		;;
	quit)
		exit 0
		;;
	esac
done
`

const silentEngineScript = `#!/bin/sh
while read -r line; do
	case "$line" in
	uci)
		echo "uciok"
		;;
	isready)
		echo "readyok"
		;;
	quit)
		exit 0
		;;
	esac
done
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.sh")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUCISearch(t *testing.T) {
	eng := New(writeScript(t, fakeEngineScript), nil)
	ctx := context.Background()

	if err := eng.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = eng.Close() }()

	if err := eng.NewGame(ctx); err != nil {
		t.Fatalf("newgame: %v", err)
	}

	res, err := eng.Search(ctx, []string{"e2e4", "e7e5"}, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Move != "e2e4" {
		t.Fatalf("move = %q, want e2e4", res.Move)
	}
	if res.Score != (Score{CP: 36}) {
		t.Fatalf("score = %+v, want cp 36 from the deeper info line", res.Score)
	}

	if err := eng.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestUCISearchTimeout(t *testing.T) {
	eng := New(writeScript(t, silentEngineScript), nil)
	eng.SetTimeout(100 * time.Millisecond)
	ctx := context.Background()

	if err := eng.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = eng.Close() }()

	_, err := eng.Search(ctx, nil, 10)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestUCINotStarted(t *testing.T) {
	eng := New("/does/not/matter", nil)
	if err := eng.Send("uci"); !errors.Is(err, ErrProtocol) {
		t.Fatalf("err = %v, want ErrProtocol", err)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("close before start: %v", err)
	}
}
