package loader

import (
	"errors"
	"strings"
	"testing"
)

// loadExpectingErrors runs Load on the given single-file content and
// asserts validation fails mentioning want.
func loadExpectingErrors(t *testing.T, src, want string) {
	t.Helper()
	dir := writeContent(t, map[string]string{"game.lua": src})
	_, err := Load(dir)
	if err == nil {
		t.Fatalf("expected validation error mentioning %q", want)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error is %T, want *ValidationError: %v", err, err)
	}
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not mention %q", err.Error(), want)
	}
}

func TestValidate_MissingTitle(t *testing.T) {
	loadExpectingErrors(t, `
Game { bosses = { "b" } }
Floor(1) { final = true, layout = { "###", "#.#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {1, 1}, questions = { "q" } }
Question "q" { text = "?", accept = "x" }
`, "Game.Title")
}

func TestValidate_StartFloorMissing(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", start_floor = 9, bosses = { "b" } }
Floor(1) { final = true, layout = { "###", "#.#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {1, 1}, questions = { "q" } }
Question "q" { text = "?", accept = "x" }
`, "start floor 9")
}

func TestValidate_NoFinalFloor(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { layout = { "###", "#>#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {1, 1}, questions = { "q" } }
Question "q" { text = "?", accept = "x" }
`, "final")
}

func TestValidate_NonFinalFloorNeedsStairs(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { layout = { "###", "#.#", "###" } }
Floor(2) { final = true, layout = { "###", "#.#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 2, pos = {1, 1}, questions = { "q" } }
Question "q" { text = "?", accept = "x" }
`, "no stairs")
}

func TestValidate_UnknownTile(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { final = true, layout = { "###", "#?#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {1, 1}, questions = { "q" } }
Question "q" { text = "?", accept = "x" }
`, "unknown tile")
}

func TestValidate_RequiredNPCOnOtherFloor(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { required = { "b" }, layout = { "####", "#.>#", "####" } }
Floor(2) { final = true, layout = { "###", "#.#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 2, pos = {1, 1}, questions = { "q" } }
Question "q" { text = "?", accept = "x" }
`, "placed on floor 2")
}

func TestValidate_NPCOnWall(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { final = true, layout = { "###", "#.#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {0, 0}, questions = { "q" } }
Question "q" { text = "?", accept = "x" }
`, "wall")
}

func TestValidate_UnknownCategory(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { final = true, layout = { "####", "#..#", "####" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {1, 1}, questions = { "q" } }
NPC "x" { name = "X", category = "wizard", floor = 1, pos = {2, 1} }
Question "q" { text = "?", accept = "x" }
`, "unknown category")
}

func TestValidate_UndefinedQuestionRef(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { final = true, layout = { "###", "#.#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {1, 1}, questions = { "ghost" } }
`, "undefined question")
}

func TestValidate_ConversationalNPCWithoutQuestions(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { final = true, layout = { "####", "#..#", "####" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {1, 1}, questions = { "q" } }
NPC "s" { name = "S", category = "specialist", floor = 1, pos = {2, 1} }
Question "q" { text = "?", accept = "x" }
`, "no questions")
}

func TestValidate_MultipleChoiceNeedsCorrectChoice(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { final = true, layout = { "###", "#.#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {1, 1}, questions = { "q" } }
Question "q" {
    text = "?",
    choices = { Choice { text = "A" }, Choice { text = "B" } },
}
`, "no correct choice")
}

func TestValidate_TextQuestionNeedsAccept(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { final = true, layout = { "###", "#.#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {1, 1}, questions = { "q" } }
Question "q" { text = "?" }
`, "empty accept list")
}

func TestValidate_UnknownMatchMode(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { final = true, layout = { "###", "#.#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {1, 1}, questions = { "q" } }
Question "q" { text = "?", accept = "x", mode = "fuzzy" }
`, "unknown match mode")
}

func TestValidate_NoBosses(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T" }
Floor(1) { final = true, layout = { "###", "#.#", "###" } }
`, "cannot be won")
}

func TestValidate_UndefinedBoss(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "ghost" } }
Floor(1) { final = true, layout = { "###", "#.#", "###" } }
`, "undefined NPC")
}

func TestValidate_TerminalOnWall(t *testing.T) {
	loadExpectingErrors(t, `
Game { title = "T", bosses = { "b" } }
Floor(1) { final = true, layout = { "###", "#.#", "###" } }
NPC "b" { name = "B", category = "boss", floor = 1, pos = {1, 1}, questions = { "q" } }
Question "q" { text = "?", accept = "x" }
Terminal "t" { floor = 1, pos = {0, 0}, text = "hum" }
`, "terminal")
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	dir := writeContent(t, map[string]string{"game.lua": `
Game { }
Floor(1) { layout = { "###", "#.#", "###" } }
`})
	_, err := Load(dir)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error is %T, want *ValidationError: %v", err, err)
	}
	if len(ve.Errors) < 3 {
		t.Errorf("expected at least 3 accumulated errors, got %d: %v", len(ve.Errors), ve.Errors)
	}
}
