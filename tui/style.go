package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/mindspire/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleQuestion = lipgloss.NewStyle().
			Bold(true)

	styleTopic = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleGain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	styleLoss = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	// Map tiles.
	styleWall = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleFloorTile = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	stylePlayer = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	styleStairs = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	styleTerminalTile = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	styleNPCDone = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// npcStyles colors NPC glyphs by category.
var npcStyles = map[types.Category]lipgloss.Style{
	types.CategorySpecialist: lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	types.CategoryHelper:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
	types.CategoryEnemy:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	types.CategoryQuest:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	types.CategoryBoss:       lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true),
}

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindQuestion
	kindTopic
	kindDialogue
	kindGain
	kindLoss
	kindSystem
	kindError
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindTopic
	case strings.Contains(line, "(+"):
		return kindGain
	case strings.Contains(line, "(-"):
		return kindLoss
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You are not"),
		strings.HasPrefix(line, "Invalid"),
		strings.HasPrefix(line, "Unknown"):
		return kindError
	case strings.HasPrefix(line, "  ") && len(line) > 4 && line[3] == ')':
		// Numbered answer choices.
		return kindQuestion
	case strings.Contains(line, ": "):
		return kindDialogue
	case strings.HasSuffix(line, "?"):
		return kindQuestion
	default:
		return kindNarrative
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindQuestion:
		return styleQuestion.Render(line)
	case kindTopic:
		return styleTopic.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindGain:
		return styleGain.Render(line)
	case kindLoss:
		return styleLoss.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
