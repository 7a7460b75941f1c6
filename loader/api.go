package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Floor(1) { ... } — curried: Floor(n) returns a function that takes a table.
	L.SetGlobal("Floor", L.NewFunction(func(L *lua.LState) int {
		number := L.CheckInt(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.floors = append(coll.floors, rawFloor{number: number, table: tbl})
			return 0
		}))
		return 1
	}))

	// NPC "id" { ... } — curried.
	L.SetGlobal("NPC", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.npcs = append(coll.npcs, rawNPC{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Terminal "id" { ... } — curried.
	L.SetGlobal("Terminal", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.terminals = append(coll.terminals, rawTerminal{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Question "id" { ... } — curried.
	L.SetGlobal("Question", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.questions = append(coll.questions, rawQuestion{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Choice { text = "...", correct = true, ... } — pass-through, returns the table.
	L.SetGlobal("Choice", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		L.Push(tbl)
		return 1
	}))
}
