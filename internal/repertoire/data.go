package repertoire

import (
	"strings"

	"github.com/notnil/chess"
)

// Ply caps match the original generation runs: a white book keeps the extra
// half-move so both books end after white's 8th move at the deepest.
const (
	whitePlyCap = 15
	blackPlyCap = 14
)

func line(name, moves string) Line {
	return Line{Name: name, MovesUCI: strings.Fields(moves)}
}

var books = map[string]Book{
	"licw": {
		Name: "licw", Color: chess.White, Policy: EngineBest, PlyCap: whitePlyCap,
		Lines: []Line{
			line("Italian Game", "e2e4 e7e5 g1f3 b8c6 f1c4"),
			line("Open Sicilian", "e2e4 c7c5 g1f3 d7d6 d2d4"),
			line("French Defense", "e2e4 e7e6 d2d4 d7d5"),
			line("Queen's Gambit", "d2d4 d7d5 c2c4"),
			line("London System", "d2d4 d7d5 c1f4"),
		},
	},
	"licb": {
		Name: "licb", Color: chess.Black, Policy: EngineBest, PlyCap: blackPlyCap,
		Lines: []Line{
			line("Sicilian Defense", "e2e4 c7c5"),
			line("Indian Defense", "d2d4 g8f6"),
			line("English, King's Variation", "c2c4 e7e5"),
			line("Reti, Queen's Pawn", "g1f3 d7d5"),
		},
	},
	"masw": {
		Name: "masw", Color: chess.White, Policy: EngineBest, PlyCap: whitePlyCap,
		Lines: []Line{
			line("Ruy Lopez", "e2e4 e7e5 g1f3 b8c6 f1b5"),
			line("Queen's Gambit Declined", "d2d4 d7d5 c2c4 e7e6 b1c3"),
			line("English Opening", "c2c4 e7e5 b1c3 g8f6"),
			line("Catalan", "d2d4 g8f6 c2c4 e7e6 g2g3"),
		},
	},
	"masb": {
		Name: "masb", Color: chess.Black, Policy: EngineBest, PlyCap: blackPlyCap,
		Lines: []Line{
			line("Berlin Defense", "e2e4 e7e5 g1f3 b8c6 f1b5 g8f6"),
			line("Queen's Gambit Declined", "d2d4 d7d5 c2c4 e7e6"),
			line("Nimzo-Indian", "d2d4 g8f6 c2c4 e7e6 b1c3 f8b4"),
			line("English, Reversed Sicilian", "c2c4 e7e5"),
		},
	},
	"stkw": {
		Name: "stkw", Color: chess.White, Policy: EngineBest, PlyCap: whitePlyCap,
		Lines: []Line{
			line("King's Pawn", "e2e4"),
			line("Queen's Pawn", "d2d4"),
		},
	},
	"stkb": {
		Name: "stkb", Color: chess.Black, Policy: EngineBest, PlyCap: blackPlyCap,
		Lines: []Line{
			line("vs King's Pawn", "e2e4"),
			line("vs Queen's Pawn", "d2d4"),
			line("vs English", "c2c4"),
			line("vs Reti", "g1f3"),
		},
	},
	"winw": {
		Name: "winw", Color: chess.White, Policy: EngineBest, PlyCap: whitePlyCap,
		Lines: []Line{
			line("King's Gambit", "e2e4 e7e5 f2f4"),
			line("Vienna Game", "e2e4 e7e5 b1c3"),
			line("Smith-Morra Gambit", "e2e4 c7c5 d2d4 c5d4 c2c3"),
		},
	},
	"winb": {
		Name: "winb", Color: chess.Black, Policy: EngineBest, PlyCap: blackPlyCap,
		Lines: []Line{
			line("Najdorf Sicilian", "e2e4 c7c5 g1f3 d7d6 d2d4 c5d4 f3d4 g8f6 b1c3 a7a6"),
			line("King's Indian Defense", "d2d4 g8f6 c2c4 g7g6 b1c3 f8g7"),
			line("Dutch Defense", "d2d4 f7f5"),
		},
	},
	// The *2 variants carry deeper curated prefixes; the engine still
	// fills whatever plies remain under the cap.
	"licw2": {
		Name: "licw2", Color: chess.White, Policy: EngineBest, PlyCap: whitePlyCap,
		Lines: []Line{
			line("Giuoco Pianissimo", "e2e4 e7e5 g1f3 b8c6 f1c4 f8c5 c2c3 g8f6 d2d3 d7d6 e1g1 e8g8"),
			line("Scotch Game", "e2e4 e7e5 g1f3 b8c6 d2d4 e5d4 f3d4 g8f6 d4c6 b7c6 e4e5 d8e7 d1e2 f6d5"),
			line("Ruy Lopez Exchange", "e2e4 e7e5 g1f3 b8c6 f1b5 a7a6 b5c6 d7c6 e1g1 f7f6 d2d4 e5d4 f3d4"),
		},
	},
	"licb2": {
		Name: "licb2", Color: chess.Black, Policy: EngineBest, PlyCap: blackPlyCap,
		Lines: []Line{
			line("Caro-Kann Classical", "e2e4 c7c6 d2d4 d7d5 b1c3 d5e4 c3e4 c8f5 e4g3 f5g6 h2h4 h7h6 g1f3 b8d7"),
			line("Slav Defense", "d2d4 d7d5 c2c4 c7c6 g1f3 g8f6 b1c3 d5c4 a2a4 c8f5 e2e3 e7e6 f1c4 f8b4"),
			line("Nimzo-Indian Rubinstein", "d2d4 g8f6 c2c4 e7e6 b1c3 f8b4 e2e3 e8g8 f1d3 d7d5 g1f3 c7c5 e1g1"),
		},
	},
	"modw": {
		Name: "modw", Color: chess.White, Policy: FixedBranch, PlyCap: whitePlyCap,
		Lines: []Line{
			line("Fork Trick Misplayed", "e2e4 e7e5 g1f3 b8c6 f3e5 c6e5 d2d4 e5c6"),
			line("Wayward Queen", "e2e4 e7e5 d1h5 b8c6 f1c4 g7g6 h5f3 g8f6"),
			line("Wing Gambit Declined Badly", "e2e4 c7c5 b2b4 c5b4 a2a3 d7d5 e4d5 d8d5"),
		},
	},
	"modb": {
		Name: "modb", Color: chess.Black, Policy: FixedBranch, PlyCap: blackPlyCap,
		Lines: []Line{
			line("Damiano Defense", "e2e4 e7e5 g1f3 f7f6 f3e5 f6e5 d1h5 e8e7 h5e5 e7f7 f1c4 f7g6"),
			line("Petrov Copycat Trap", "e2e4 e7e5 g1f3 g8f6 f3e5 f6e4 d1e2 e4f6 e5c6"),
			line("Kingside Collapse", "e2e4 g7g5 d2d4 f7f6 d1h5"),
		},
	},
	"losew": {
		Name: "losew", Color: chess.White, Policy: EngineWorstLegal, PlyCap: whitePlyCap,
		Lines: []Line{
			line("Barnes Opening", "f2f3 e7e5"),
			line("Grob Opening", "g2g4 d7d5"),
		},
	},
	"loseb": {
		Name: "loseb", Color: chess.Black, Policy: EngineWorstLegal, PlyCap: blackPlyCap,
		Lines: []Line{
			line("Barnes Defense", "e2e4 f7f6"),
			line("Borg Defense", "d2d4 g7g5"),
		},
	},
}
