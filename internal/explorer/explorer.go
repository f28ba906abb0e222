// Package explorer queries the Lichess opening explorer for the move
// statistics of a position. Responses are cached through an optional store
// so repeated probes of the same position cost one request total.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://explorer.lichess.ovh"

// Cache persists raw response bodies keyed by (source, fen).
type Cache interface {
	GetExplorer(ctx context.Context, source, fen string) (string, bool, error)
	PutExplorer(ctx context.Context, source, fen, body string) error
}

// MoveStats is the explorer's record for one continuation.
type MoveStats struct {
	UCI   string `json:"uci"`
	SAN   string `json:"san"`
	White int    `json:"white"`
	Draws int    `json:"draws"`
	Black int    `json:"black"`
}

func (m MoveStats) Total() int { return m.White + m.Draws + m.Black }

// MovesTable is the explorer's answer for one position.
type MovesTable struct {
	White int         `json:"white"`
	Draws int         `json:"draws"`
	Black int         `json:"black"`
	Moves []MoveStats `json:"moves"`
}

func (t MovesTable) Total() int { return t.White + t.Draws + t.Black }

// Fractions maps each continuation to its share of all recorded games.
func (t MovesTable) Fractions() map[string]float64 {
	total := t.Total()
	out := make(map[string]float64, len(t.Moves))
	if total == 0 {
		return out
	}
	for _, m := range t.Moves {
		out[m.UCI] = float64(m.Total()) / float64(total)
	}
	return out
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	backoff time.Duration
	log     *zap.SugaredLogger
}

func NewClient(baseURL string, cache Cache, log *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
		backoff: time.Minute,
		log:     log,
	}
}

// SetBackoff adjusts the pause taken after a rate-limit response.
func (c *Client) SetBackoff(d time.Duration) {
	if d >= 0 {
		c.backoff = d
	}
}

// Lichess returns move statistics from the community game database,
// filtered to the rating bands and speeds the books are tuned for.
func (c *Client) Lichess(ctx context.Context, fen string) (MovesTable, error) {
	params := url.Values{}
	params.Set("fen", fen)
	params.Set("moves", "15")
	params.Set("topGames", "0")
	params.Set("recentGames", "0")
	params.Set("variant", "standard")
	for _, s := range []string{"blitz", "rapid", "classical"} {
		params.Add("speeds[]", s)
	}
	for _, r := range []string{"1600", "1800", "2000", "2200"} {
		params.Add("ratings[]", r)
	}
	return c.fetch(ctx, "lichess", fen, params)
}

// Masters returns move statistics from the OTB masters database.
func (c *Client) Masters(ctx context.Context, fen string) (MovesTable, error) {
	params := url.Values{}
	params.Set("fen", fen)
	params.Set("moves", "15")
	params.Set("topGames", "0")
	params.Set("recentGames", "0")
	params.Set("variant", "standard")
	return c.fetch(ctx, "master", fen, params)
}

func (c *Client) fetch(ctx context.Context, source, fen string, params url.Values) (MovesTable, error) {
	if c.cache != nil {
		if body, ok, err := c.cache.GetExplorer(ctx, source, fen); err == nil && ok {
			var table MovesTable
			if err := json.Unmarshal([]byte(body), &table); err == nil {
				return table, nil
			}
		}
	}

	body, err := c.get(ctx, source, params)
	if err != nil {
		return MovesTable{}, err
	}

	var table MovesTable
	if err := json.Unmarshal(body, &table); err != nil {
		return MovesTable{}, fmt.Errorf("explorer %s: decode: %w", source, err)
	}

	if c.cache != nil {
		if err := c.cache.PutExplorer(ctx, source, fen, string(body)); err != nil {
			c.log.Warnw("explorer cache write failed", "source", source, "err", err)
		}
	}
	return table, nil
}

func (c *Client) get(ctx context.Context, source string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + "/" + source + "?" + params.Encode()

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		rsp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("explorer %s: %w", source, err)
		}
		body, err := io.ReadAll(rsp.Body)
		_ = rsp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("explorer %s: read: %w", source, err)
		}

		if rsp.StatusCode == http.StatusTooManyRequests && attempt == 0 {
			c.log.Infow("pausing for rate limit", "source", source, "backoff", c.backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff):
			}
			continue
		}
		if rsp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("explorer %s: status %d", source, rsp.StatusCode)
		}
		return body, nil
	}
}
