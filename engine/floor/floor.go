// Package floor implements the interaction geometry: which entity the
// player can reach from a tile, and whether a floor's exit gate is open.
package floor

import "github.com/nathoo/mindspire/types"

// TargetKind identifies what an interact command resolved to.
type TargetKind int

const (
	TargetNPC TargetKind = iota
	TargetTerminal
	TargetStairs
)

// Target is the entity an interact command resolved to.
type Target struct {
	Kind     TargetKind
	ID       string
	Distance int
}

// Candidate pairs an entity id with its tile position.
type Candidate struct {
	ID  string
	Pos types.Point
}

// interactRadius is the Chebyshev reach of an interact command.
const interactRadius = 1

// Chebyshev returns the chessboard distance between two tiles.
func Chebyshev(a, b types.Point) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// InReach reports whether two tiles are within interaction range.
func InReach(a, b types.Point) bool {
	return Chebyshev(a, b) <= interactRadius
}

// Closest picks the single interactable within reach of pos. Ties at equal
// distance resolve NPC first, then terminal, then stairs; within a kind,
// candidate order decides (callers pass sorted lists). Returns false if
// nothing is in reach.
func Closest(pos types.Point, npcs, terminals []Candidate, stairs []types.Point) (Target, bool) {
	found := false
	var best Target

	consider := func(kind TargetKind, id string, p types.Point) {
		d := Chebyshev(pos, p)
		if d > interactRadius {
			return
		}
		if !found || d < best.Distance {
			best = Target{Kind: kind, ID: id, Distance: d}
			found = true
		}
	}

	for _, c := range npcs {
		consider(TargetNPC, c.ID, c.Pos)
	}
	for _, c := range terminals {
		consider(TargetTerminal, c.ID, c.Pos)
	}
	for _, p := range stairs {
		consider(TargetStairs, "", p)
	}

	return best, found
}

// OnStairs reports whether pos is within reach of any stairs tile.
func OnStairs(pos types.Point, stairs []types.Point) bool {
	for _, p := range stairs {
		if Chebyshev(pos, p) <= interactRadius {
			return true
		}
	}
	return false
}

// MissingRequirements returns the required ids not yet in completed,
// preserving the order of required.
func MissingRequirements(required []string, completed map[string]bool) []string {
	var out []string
	for _, id := range required {
		if !completed[id] {
			out = append(out, id)
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
