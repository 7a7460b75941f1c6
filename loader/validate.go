package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/mindspire/engine/state"
	"github.com/nathoo/mindspire/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known NPC categories.
var validCategories = map[types.Category]bool{
	types.CategorySpecialist: true,
	types.CategoryHelper:     true,
	types.CategoryEnemy:      true,
	types.CategoryQuest:      true,
	types.CategoryBoss:       true,
}

// Known question kinds.
var validKinds = map[types.QuestionKind]bool{
	types.KindMultipleChoice: true,
	types.KindShortAnswer:    true,
	types.KindYesNo:          true,
}

// Known match modes.
var validModes = map[types.MatchMode]bool{
	types.MatchExact:      true,
	types.MatchComplexity: true,
	types.MatchNumeric:    true,
}

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	// Game title required.
	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.Title is required")
	}

	// Start floor exists.
	if _, ok := defs.Floors[defs.Game.StartFloor]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start floor %d not found in defined floors", defs.Game.StartFloor))
	}

	validateFloors(defs, ve)
	validateNPCs(defs, ve)
	validateTerminals(defs, ve)
	validateQuestions(defs, ve)
	validateBosses(defs, ve)

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateFloors(defs *state.Defs, ve *ValidationError) {
	finalCount := 0
	for number, f := range defs.Floors {
		if f.Final {
			finalCount++
		}

		if len(f.Layout) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("floor %d has no layout", number))
			continue
		}

		width := len(f.Layout[0])
		walkable, stairs, spawns := 0, 0, 0
		for y, row := range f.Layout {
			if len(row) != width {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"floor %d layout row %d has length %d, expected %d", number, y, len(row), width))
			}
			for x := 0; x < len(row); x++ {
				switch row[x] {
				case '#':
				case '>':
					stairs++
					walkable++
				case '@':
					spawns++
					walkable++
				case '.':
					walkable++
				default:
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"floor %d layout has unknown tile %q at (%d,%d)", number, string(row[x]), x, y))
				}
			}
		}

		if walkable == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("floor %d has no walkable tiles", number))
		}
		if stairs == 0 && !f.Final {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"floor %d is not final but has no stairs tile", number))
		}
		if spawns > 1 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"floor %d has %d spawn tiles, only the first is used", number, spawns))
		}

		// Required NPCs exist and live on this floor.
		for _, npcID := range f.Required {
			npc, ok := defs.NPCs[npcID]
			if !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"floor %d requires undefined NPC %q", number, npcID))
				continue
			}
			if npc.Floor != number {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"floor %d requires NPC %q which is placed on floor %d", number, npcID, npc.Floor))
			}
		}
	}

	if finalCount == 0 {
		ve.Errors = append(ve.Errors, "no floor is flagged final")
	}
	if finalCount > 1 {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"%d floors are flagged final, victory checks use each of them", finalCount))
	}
}

func validateNPCs(defs *state.Defs, ve *ValidationError) {
	for id, npc := range defs.NPCs {
		if !validCategories[npc.Category] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"NPC %q has unknown category %q", id, npc.Category))
		}
		if _, ok := defs.Floors[npc.Floor]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"NPC %q is placed on undefined floor %d", id, npc.Floor))
		} else if !defs.Walkable(npc.Floor, npc.Pos) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"NPC %q is placed on a wall or out of bounds at (%d,%d)", id, npc.Pos.X, npc.Pos.Y))
		}

		for _, qid := range npc.Questions {
			if _, ok := defs.Questions[qid]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"NPC %q references undefined question %q", id, qid))
			}
		}

		switch npc.Category {
		case types.CategorySpecialist, types.CategoryEnemy, types.CategoryBoss:
			if len(npc.Questions) == 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"NPC %q is conversational but has no questions", id))
			}
		default:
			if len(npc.Questions) > 0 {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"NPC %q has questions but category %q never asks them", id, npc.Category))
			}
		}

		if npc.Name == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("NPC %q has no display name", id))
		}
	}
}

func validateTerminals(defs *state.Defs, ve *ValidationError) {
	for id, term := range defs.Terminals {
		if _, ok := defs.Floors[term.Floor]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"terminal %q is placed on undefined floor %d", id, term.Floor))
		} else if !defs.Walkable(term.Floor, term.Pos) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"terminal %q is placed on a wall or out of bounds at (%d,%d)", id, term.Pos.X, term.Pos.Y))
		}
		if term.Text == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("terminal %q has no text", id))
		}
	}
}

func validateQuestions(defs *state.Defs, ve *ValidationError) {
	for id, q := range defs.Questions {
		if !validKinds[q.Kind] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"question %q has unknown kind %q", id, q.Kind))
		}
		if !validModes[q.Mode] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"question %q has unknown match mode %q", id, q.Mode))
		}
		if q.Text == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("question %q has no text", id))
		}

		switch q.Kind {
		case types.KindMultipleChoice:
			if len(q.Choices) == 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"multiple-choice question %q has no choices", id))
				break
			}
			correct := 0
			for _, c := range q.Choices {
				if c.Correct {
					correct++
				}
			}
			if correct == 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"multiple-choice question %q has no correct choice", id))
			}
			if q.Accept != "" {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"multiple-choice question %q has an accept list, it is ignored", id))
			}
		default:
			if q.Accept == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"question %q accepts typed answers but has an empty accept list", id))
			}
			if len(q.Choices) > 0 {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"question %q has choices but kind %q ignores them", id, q.Kind))
			}
		}
	}
}

func validateBosses(defs *state.Defs, ve *ValidationError) {
	if len(defs.Game.Bosses) == 0 {
		ve.Errors = append(ve.Errors, "Game.Bosses is empty, the game cannot be won")
		return
	}
	for _, id := range defs.Game.Bosses {
		npc, ok := defs.NPCs[id]
		if !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"Game.Bosses references undefined NPC %q", id))
			continue
		}
		if npc.Category != types.CategoryBoss {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"boss NPC %q has category %q", id, npc.Category))
		}
		if f, ok := defs.Floors[npc.Floor]; ok && !f.Final {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"boss NPC %q is not on a final floor, completing it cannot win", id))
		}
	}
}
