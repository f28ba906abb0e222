package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrProtocol covers malformed engine output and a dead engine channel.
var ErrProtocol = errors.New("engine protocol error")

// ErrTimeout is returned when the engine fails to answer within the bound.
var ErrTimeout = errors.New("engine timeout")

// UCI drives a single external engine process over its standard streams.
// It is strictly request/response: one outstanding search at a time. A
// single reader goroutine owns stdout so response waits can time out even
// while the engine is silent.
type UCI struct {
	path    string
	args    []string
	timeout time.Duration

	cmd   *exec.Cmd
	stdin io.WriteCloser
	lines chan string
}

func New(path string, args []string) *UCI {
	return &UCI{path: path, args: args, timeout: 2 * time.Minute}
}

// SetTimeout adjusts the per-search response bound.
func (e *UCI) SetTimeout(d time.Duration) {
	if d > 0 {
		e.timeout = d
	}
}

func (e *UCI) Start(ctx context.Context) error {
	e.cmd = exec.CommandContext(ctx, e.path, e.args...)
	stdout, err := e.cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return err
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		return err
	}

	e.lines = make(chan string, 64)
	go readLoop(bufio.NewReader(stdout), e.lines)

	if err := e.Send("uci"); err != nil {
		_ = e.Close()
		return err
	}
	if _, err := e.waitPrefix(ctx, "uciok", 5*time.Second); err != nil {
		_ = e.Close()
		return err
	}

	return nil
}

func readLoop(out *bufio.Reader, lines chan<- string) {
	defer close(lines)
	for {
		line, err := out.ReadString('\n')
		if err != nil {
			return
		}
		lines <- strings.TrimSpace(line)
	}
}

// Close tells the engine to quit and reaps it, killing after a grace
// period. Safe to call on all exit paths, including a failed Start.
func (e *UCI) Close() error {
	if e.cmd == nil {
		return nil
	}
	if e.stdin != nil {
		_, _ = io.WriteString(e.stdin, "quit\n")
		_ = e.stdin.Close()
	}

	done := make(chan error, 1)
	go func() { done <- e.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		if e.cmd.Process != nil {
			_ = e.cmd.Process.Kill()
		}
		return <-done
	}
}

func (e *UCI) Send(line string) error {
	if e.stdin == nil {
		return fmt.Errorf("%w: engine not started", ErrProtocol)
	}
	if _, err := io.WriteString(e.stdin, line+"\n"); err != nil {
		return fmt.Errorf("%w: write %q: %v", ErrProtocol, line, err)
	}
	return nil
}

func (e *UCI) readLine(ctx context.Context, deadline <-chan time.Time) (string, error) {
	if e.lines == nil {
		return "", fmt.Errorf("%w: engine not started", ErrProtocol)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-deadline:
		return "", ErrTimeout
	case line, ok := <-e.lines:
		if !ok {
			return "", fmt.Errorf("%w: engine output closed", ErrProtocol)
		}
		return line, nil
	}
}

func (e *UCI) waitPrefix(ctx context.Context, prefix string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		line, err := e.readLine(ctx, timer.C)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				return "", fmt.Errorf("%w: waiting for %q", ErrTimeout, prefix)
			}
			return "", err
		}
		if strings.HasPrefix(line, prefix) {
			return line, nil
		}
	}
}

func (e *UCI) IsReady(ctx context.Context) error {
	if err := e.Send("isready"); err != nil {
		return err
	}
	_, err := e.waitPrefix(ctx, "readyok", 5*time.Second)
	return err
}

func (e *UCI) NewGame(ctx context.Context) error {
	if err := e.Send("ucinewgame"); err != nil {
		return err
	}
	return e.IsReady(ctx)
}

// SearchResult is the engine's answer to one search request. Move is the
// bestmove in UCI notation, empty when the engine reports "(none)" or
// "0000" (terminal position). Score is from the point of view of the side
// to move, taken from the deepest info line seen before bestmove.
type SearchResult struct {
	Move  string
	Score Score
}

// Search evaluates the position reached from the start position by
// movesUCI, searching to the given depth, and blocks until bestmove.
func (e *UCI) Search(ctx context.Context, movesUCI []string, depth int) (SearchResult, error) {
	return e.search(ctx, "position startpos", movesUCI, depth)
}

// SearchFEN is Search rebased on an arbitrary position.
func (e *UCI) SearchFEN(ctx context.Context, fen string, movesUCI []string, depth int) (SearchResult, error) {
	return e.search(ctx, "position fen "+fen, movesUCI, depth)
}

func (e *UCI) search(ctx context.Context, pos string, movesUCI []string, depth int) (SearchResult, error) {
	if len(movesUCI) > 0 {
		pos += " moves " + strings.Join(movesUCI, " ")
	}
	if err := e.Send(pos); err != nil {
		return SearchResult{}, err
	}
	if err := e.Send(fmt.Sprintf("go depth %d", depth)); err != nil {
		return SearchResult{}, err
	}

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	var res SearchResult
	bestDepth := 0
	for {
		line, err := e.readLine(ctx, timer.C)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				return SearchResult{}, fmt.Errorf("%w: no bestmove after %s", ErrTimeout, e.timeout)
			}
			return SearchResult{}, err
		}

		if strings.HasPrefix(line, "bestmove") {
			move, err := parseBestMove(line)
			if err != nil {
				return SearchResult{}, err
			}
			res.Move = move
			return res, nil
		}

		if d, score, ok := parseInfoScore(line); ok && d >= bestDepth {
			bestDepth = d
			res.Score = score
		}
	}
}

func parseBestMove(line string) (string, error) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: malformed bestmove line %q", ErrProtocol, line)
	}
	move := parts[1]
	if move == "(none)" || move == "0000" {
		return "", nil
	}
	return move, nil
}

// parseInfoScore extracts the search depth and score from an "info" line.
func parseInfoScore(line string) (int, Score, bool) {
	if !strings.HasPrefix(line, "info ") {
		return 0, Score{}, false
	}
	parts := strings.Fields(line)
	depth := 0
	var score Score
	haveScore := false
	for i := 0; i < len(parts); i++ {
		switch parts[i] {
		case "depth":
			if i+1 < len(parts) {
				if v, err := strconv.Atoi(parts[i+1]); err == nil {
					depth = v
				}
				i++
			}
		case "score":
			if i+2 < len(parts) {
				if v, err := strconv.Atoi(parts[i+2]); err == nil {
					switch parts[i+1] {
					case "cp":
						score = Score{CP: v}
						haveScore = true
					case "mate":
						score = Score{Mate: v, IsMate: true}
						haveScore = true
					}
				}
				i += 2
			}
		}
	}
	if depth == 0 || !haveScore {
		return 0, Score{}, false
	}
	return depth, score, true
}
