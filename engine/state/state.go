// Package state holds the immutable game definitions and the lookup
// helpers the engine and UI query them through.
package state

import (
	"sort"

	"github.com/nathoo/mindspire/types"
)

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game      types.GameDef
	Floors    map[int]types.FloorDef
	NPCs      map[string]types.NPCDef
	Terminals map[string]types.TerminalDef
	Questions map[string]types.Question
}

// NPCsOnFloor returns the NPC ids placed on the given floor, sorted for
// deterministic iteration.
func (d *Defs) NPCsOnFloor(floor int) []string {
	var ids []string
	for id, npc := range d.NPCs {
		if npc.Floor == floor {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// TerminalsOnFloor returns the terminal ids placed on the given floor, sorted.
func (d *Defs) TerminalsOnFloor(floor int) []string {
	var ids []string
	for id, term := range d.Terminals {
		if term.Floor == floor {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Question returns the question with the given id.
func (d *Defs) Question(id string) (types.Question, bool) {
	q, ok := d.Questions[id]
	return q, ok
}

// NPC returns the NPC definition with the given id.
func (d *Defs) NPC(id string) (types.NPCDef, bool) {
	n, ok := d.NPCs[id]
	return n, ok
}

// NPCName returns the display name for an NPC id, falling back to the id.
func (d *Defs) NPCName(id string) string {
	if npc, ok := d.NPCs[id]; ok && npc.Name != "" {
		return npc.Name
	}
	return id
}

// Floor returns the floor definition for the given number.
func (d *Defs) Floor(number int) (types.FloorDef, bool) {
	f, ok := d.Floors[number]
	return f, ok
}

// IsFinalFloor reports whether the given floor is flagged final.
func (d *Defs) IsFinalFloor(number int) bool {
	f, ok := d.Floors[number]
	return ok && f.Final
}

// MaxFloor returns the highest defined floor number.
func (d *Defs) MaxFloor() int {
	max := 0
	for n := range d.Floors {
		if n > max {
			max = n
		}
	}
	return max
}

// IsBoss reports whether the NPC id is in the victory boss set.
func (d *Defs) IsBoss(npcID string) bool {
	for _, id := range d.Game.Bosses {
		if id == npcID {
			return true
		}
	}
	return false
}

// Walkable reports whether the tile at p on the given floor can be
// stepped on. Out-of-bounds tiles and '#' walls are not walkable.
func (d *Defs) Walkable(floor int, p types.Point) bool {
	f, ok := d.Floors[floor]
	if !ok {
		return false
	}
	if p.Y < 0 || p.Y >= len(f.Layout) {
		return false
	}
	row := f.Layout[p.Y]
	if p.X < 0 || p.X >= len(row) {
		return false
	}
	return row[p.X] != '#'
}

// StairsAt returns the positions of stairs tiles ('>') on the floor.
func (d *Defs) StairsAt(floor int) []types.Point {
	f, ok := d.Floors[floor]
	if !ok {
		return nil
	}
	var out []types.Point
	for y, row := range f.Layout {
		for x := 0; x < len(row); x++ {
			if row[x] == '>' {
				out = append(out, types.Point{X: x, Y: y})
			}
		}
	}
	return out
}

// StartPos returns the player spawn for a floor: the first '@' tile if
// one is marked, otherwise the first walkable tile.
func (d *Defs) StartPos(floor int) types.Point {
	f, ok := d.Floors[floor]
	if !ok {
		return types.Point{}
	}
	for y, row := range f.Layout {
		for x := 0; x < len(row); x++ {
			if row[x] == '@' {
				return types.Point{X: x, Y: y}
			}
		}
	}
	for y, row := range f.Layout {
		for x := 0; x < len(row); x++ {
			if row[x] != '#' {
				return types.Point{X: x, Y: y}
			}
		}
	}
	return types.Point{}
}
