// Package repertoire is the static registry of book configurations:
// each name maps to a color, a ply cap, a move-selection policy, and an
// ordered list of opening lines.
package repertoire

import (
	"errors"
	"fmt"
	"sort"

	"github.com/notnil/chess"
)

// ErrUnknownConfiguration is returned for names that are not registered.
var ErrUnknownConfiguration = errors.New("unknown configuration")

// Policy is the closed set of move-selection strategies.
type Policy int

const (
	// EngineBest plays the line prefix, then the engine's best move for
	// every side to move, up to the ply cap.
	EngineBest Policy = iota
	// EngineWorstLegal plays the line prefix, then the lowest-scoring
	// legal move for every side to move, by the engine's own evaluation.
	EngineWorstLegal
	// FixedBranch plays the line verbatim; the engine is never consulted.
	FixedBranch
)

func (p Policy) String() string {
	switch p {
	case EngineBest:
		return "engine-best"
	case EngineWorstLegal:
		return "engine-worst-legal"
	case FixedBranch:
		return "fixed-branch"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Line is one opening branch: a display name and a UCI move prefix.
// Under FixedBranch the prefix is the whole game.
type Line struct {
	Name     string
	MovesUCI []string
}

// Book is everything registered under one configuration name.
type Book struct {
	Name   string
	Color  chess.Color
	Policy Policy
	PlyCap int
	Lines  []Line
}

// Lookup returns the book for a configuration name.
func Lookup(name string) (Book, error) {
	b, ok := books[name]
	if !ok {
		return Book{}, fmt.Errorf("%w: %q", ErrUnknownConfiguration, name)
	}
	return b, nil
}

// Names lists every registered configuration, sorted.
func Names() []string {
	out := make([]string, 0, len(books))
	for name := range books {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
