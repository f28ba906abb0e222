package engine

import "strconv"

// Score is an engine evaluation from the point of view of the side to move.
// Either a centipawn value, or a mate distance when IsMate is set: positive
// means the side to move mates in Mate moves, negative means it gets mated.
type Score struct {
	CP     int
	Mate   int
	IsMate bool
}

// Negate flips the score to the opponent's point of view.
func (s Score) Negate() Score {
	if s.IsMate {
		return Score{Mate: -s.Mate, IsMate: true}
	}
	return Score{CP: -s.CP}
}

// Less reports whether s is strictly worse than other for the same side.
// Any mate-against loses to everything; shorter mates-for beat longer ones.
func (s Score) Less(other Score) bool {
	return s.rank() < other.rank()
}

// rank maps a score onto a single comparable axis. Mates dominate centipawn
// values in the obvious direction; within mates, fewer moves is stronger.
func (s Score) rank() int {
	const mateBase = 1 << 20
	if !s.IsMate {
		return s.CP
	}
	if s.Mate > 0 {
		return mateBase - s.Mate
	}
	return -mateBase - s.Mate
}

// String formats the score the conventional way: "+0.34", "-1.20", "#3", "#-5".
func (s Score) String() string {
	if s.IsMate {
		return "#" + strconv.Itoa(s.Mate)
	}
	cp := s.CP
	sign := "+"
	if cp < 0 {
		sign = "-"
		cp = -cp
	}
	whole := cp / 100
	frac := cp % 100
	out := sign + strconv.Itoa(whole) + "."
	if frac < 10 {
		out += "0"
	}
	return out + strconv.Itoa(frac)
}

// MateIn returns a score for a forced mate delivered by the side to move.
func MateIn(moves int) Score {
	return Score{Mate: moves, IsMate: true}
}

// MatedIn returns a score for the side to move being mated.
func MatedIn(moves int) Score {
	return Score{Mate: -moves, IsMate: true}
}
