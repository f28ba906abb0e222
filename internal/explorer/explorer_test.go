package explorer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"bookgen/internal/db"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const tableJSON = `{
	"white": 600, "draws": 100, "black": 300,
	"moves": [
		{"uci": "e2e4", "san": "e4", "white": 350, "draws": 50, "black": 150},
		{"uci": "d2d4", "san": "d4", "white": 250, "draws": 50, "black": 150}
	]
}`

func TestLichessFetchAndRetry(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/lichess" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("fen"); got != startFEN {
			t.Fatalf("fen = %q", got)
		}
		if hits == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(tableJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	c.SetBackoff(0)

	table, err := c.Lichess(context.Background(), startFEN)
	if err != nil {
		t.Fatal(err)
	}
	if hits != 2 {
		t.Fatalf("hits = %d, want a retry after 429", hits)
	}
	if table.Total() != 1000 {
		t.Fatalf("total = %d, want 1000", table.Total())
	}
	if len(table.Moves) != 2 || table.Moves[0].UCI != "e2e4" {
		t.Fatalf("moves = %+v", table.Moves)
	}

	fr := table.Fractions()
	if fr["e2e4"] != 0.55 || fr["d2d4"] != 0.45 {
		t.Fatalf("fractions = %v", fr)
	}
}

func TestFetchUsesCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(tableJSON))
	}))
	defer srv.Close()

	store, err := db.Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	c := NewClient(srv.URL, store, nil)
	ctx := context.Background()

	if _, err := c.Masters(ctx, startFEN); err != nil {
		t.Fatal(err)
	}
	table, err := c.Masters(ctx, startFEN)
	if err != nil {
		t.Fatal(err)
	}

	if hits != 1 {
		t.Fatalf("hits = %d, want the second lookup served from cache", hits)
	}
	if table.Total() != 1000 {
		t.Fatalf("total = %d, want 1000", table.Total())
	}
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	if _, err := c.Lichess(context.Background(), startFEN); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
