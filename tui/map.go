package tui

import (
	"strings"

	"github.com/nathoo/mindspire/types"
)

// renderMap draws the current floor as a colored tile grid: walls, open
// tiles, stairs, terminals, NPC glyphs, and the player on top.
func (m Model) renderMap() string {
	s := m.session
	fd, ok := s.Defs.Floor(s.Floor)
	if !ok {
		return ""
	}

	// NPC and terminal overlays, keyed by tile.
	type overlay struct {
		glyph string
		style func(...string) string
	}
	tiles := map[types.Point]overlay{}

	for _, id := range s.Defs.TerminalsOnFloor(s.Floor) {
		term := s.Defs.Terminals[id]
		tiles[term.Pos] = overlay{glyph: "T", style: styleTerminalTile.Render}
	}
	for _, id := range s.Defs.NPCsOnFloor(s.Floor) {
		npc := s.Defs.NPCs[id]
		glyph := npc.Glyph
		if glyph == "" {
			glyph = "?"
		}
		st := npcStyles[npc.Category]
		render := st.Render
		if s.Completed[id] {
			render = styleNPCDone.Render
		}
		tiles[npc.Pos] = overlay{glyph: glyph, style: render}
	}

	var b strings.Builder
	for y, row := range fd.Layout {
		if y > 0 {
			b.WriteString("\n")
		}
		for x := 0; x < len(row); x++ {
			p := types.Point{X: x, Y: y}
			switch {
			case p == s.Pos:
				b.WriteString(stylePlayer.Render("@"))
			case tiles[p].glyph != "":
				ov := tiles[p]
				b.WriteString(ov.style(ov.glyph))
			case row[x] == '#':
				b.WriteString(styleWall.Render("#"))
			case row[x] == '>':
				b.WriteString(styleStairs.Render(">"))
			default:
				// Spawn markers render as plain floor.
				b.WriteString(styleFloorTile.Render("."))
			}
		}
	}
	return b.String()
}

// mapHeight returns the row count of the current floor's layout.
func (m Model) mapHeight() int {
	fd, ok := m.session.Defs.Floor(m.session.Floor)
	if !ok {
		return 0
	}
	return len(fd.Layout)
}
