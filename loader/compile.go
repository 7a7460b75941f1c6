// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading — zero Lua at runtime.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/mindspire/engine/state"
	"github.com/nathoo/mindspire/types"
)

// rawFloor holds a floor table before compilation.
type rawFloor struct {
	number int
	table  *lua.LTable
}

// rawNPC holds an NPC table before compilation.
type rawNPC struct {
	id    string
	table *lua.LTable
}

// rawTerminal holds a terminal table before compilation.
type rawTerminal struct {
	id    string
	table *lua.LTable
}

// rawQuestion holds a question table before compilation.
type rawQuestion struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStringSlice converts a Lua array table to a []string.
func tableToStringSlice(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// getPoint reads a {x, y} or {x = ..., y = ...} table field as a Point.
func getPoint(tbl *lua.LTable, key string) types.Point {
	pt := getTable(tbl, key)
	if pt == nil {
		return types.Point{}
	}
	if pt.MaxN() >= 2 {
		x, _ := pt.RawGetInt(1).(lua.LNumber)
		y, _ := pt.RawGetInt(2).(lua.LNumber)
		return types.Point{X: int(x), Y: int(y)}
	}
	return types.Point{X: getInt(pt, "x"), Y: getInt(pt, "y")}
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Floors:    map[int]types.FloorDef{},
		NPCs:      map[string]types.NPCDef{},
		Terminals: map[string]types.TerminalDef{},
		Questions: map[string]types.Question{},
	}

	// Game.
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	// Floors.
	for _, raw := range coll.floors {
		if _, dup := defs.Floors[raw.number]; dup {
			return nil, fmt.Errorf("duplicate floor %d", raw.number)
		}
		defs.Floors[raw.number] = compileFloor(raw)
	}

	// NPCs.
	for _, raw := range coll.npcs {
		if _, dup := defs.NPCs[raw.id]; dup {
			return nil, fmt.Errorf("duplicate NPC %q", raw.id)
		}
		defs.NPCs[raw.id] = compileNPC(raw)
	}

	// Terminals.
	for _, raw := range coll.terminals {
		if _, dup := defs.Terminals[raw.id]; dup {
			return nil, fmt.Errorf("duplicate terminal %q", raw.id)
		}
		defs.Terminals[raw.id] = compileTerminal(raw)
	}

	// Questions.
	for _, raw := range coll.questions {
		if _, dup := defs.Questions[raw.id]; dup {
			return nil, fmt.Errorf("duplicate question %q", raw.id)
		}
		defs.Questions[raw.id] = compileQuestion(raw)
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	g := types.GameDef{
		Title:      getString(tbl, "title"),
		Author:     getString(tbl, "author"),
		Version:    getString(tbl, "version"),
		Intro:      getString(tbl, "intro"),
		StartFloor: getInt(tbl, "start_floor"),
		Bosses:     tableToStringSlice(getTable(tbl, "bosses")),
	}
	if g.StartFloor == 0 {
		g.StartFloor = 1
	}
	return g
}

func compileFloor(raw rawFloor) types.FloorDef {
	tbl := raw.table
	return types.FloorDef{
		Number:   raw.number,
		Name:     getString(tbl, "name"),
		Layout:   tableToStringSlice(getTable(tbl, "layout")),
		Required: tableToStringSlice(getTable(tbl, "required")),
		Final:    getBool(tbl, "final", false),
	}
}

func compileNPC(raw rawNPC) types.NPCDef {
	tbl := raw.table
	return types.NPCDef{
		ID:        raw.id,
		Name:      getString(tbl, "name"),
		Glyph:     getString(tbl, "glyph"),
		Category:  types.Category(getString(tbl, "category")),
		Floor:     getInt(tbl, "floor"),
		Pos:       getPoint(tbl, "pos"),
		Greeting:  getString(tbl, "greeting"),
		Questions: tableToStringSlice(getTable(tbl, "questions")),
		Flavor:    getString(tbl, "flavor"),
	}
}

func compileTerminal(raw rawTerminal) types.TerminalDef {
	tbl := raw.table
	return types.TerminalDef{
		ID:    raw.id,
		Floor: getInt(tbl, "floor"),
		Pos:   getPoint(tbl, "pos"),
		Text:  getString(tbl, "text"),
	}
}

func compileQuestion(raw rawQuestion) types.Question {
	tbl := raw.table
	q := types.Question{
		ID:            raw.id,
		Kind:          types.QuestionKind(getString(tbl, "kind")),
		Topic:         getString(tbl, "topic"),
		Text:          getString(tbl, "text"),
		Accept:        getString(tbl, "accept"),
		Mode:          types.MatchMode(getString(tbl, "mode")),
		CaseSensitive: getBool(tbl, "case_sensitive", false),
		CorrectText:   getString(tbl, "correct_text"),
		IncorrectText: getString(tbl, "incorrect_text"),
		Knowledge:     getString(tbl, "knowledge"),
	}

	if choicesTbl := getTable(tbl, "choices"); choicesTbl != nil {
		for i := 1; i <= choicesTbl.MaxN(); i++ {
			if choiceTbl, ok := choicesTbl.RawGetInt(i).(*lua.LTable); ok {
				q.Choices = append(q.Choices, compileChoice(choiceTbl))
			}
		}
	}

	// Defaults keep content terse: a question with choices is multiple
	// choice, anything else is short answer matched exactly.
	if q.Kind == "" {
		if len(q.Choices) > 0 {
			q.Kind = types.KindMultipleChoice
		} else {
			q.Kind = types.KindShortAnswer
		}
	}
	if q.Mode == "" {
		q.Mode = types.MatchExact
	}
	return q
}

func compileChoice(tbl *lua.LTable) types.Choice {
	return types.Choice{
		Text:      getString(tbl, "text"),
		Correct:   getBool(tbl, "correct", false),
		Response:  getString(tbl, "response"),
		Knowledge: getString(tbl, "knowledge"),
		Penalty:   getInt(tbl, "penalty"),
	}
}

// sortedLuaFiles returns .lua files with game.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
