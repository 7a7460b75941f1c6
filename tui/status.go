package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// floor, coherence, knowledge count, and quest progress.
func (m Model) renderStatusBar() string {
	s := m.session

	fd, _ := s.Defs.Floor(s.Floor)
	floorName := fd.Name
	if floorName == "" {
		floorName = fmt.Sprintf("Floor %d", s.Floor)
	}

	left := fmt.Sprintf(" %s | Coherence: %d/%d",
		floorName, s.Player.Coherence(), s.Player.Max())
	if id, ok := s.Active(); ok {
		left += fmt.Sprintf(" | Talking: %s", s.Defs.NPCName(id))
	}

	right := fmt.Sprintf("Know: %d ", s.Player.KnowledgeCount())
	if s.Quest.Active() {
		remaining := len(s.Quest.Remaining())
		if remaining == 0 {
			right = "Quest: done | " + right
		} else {
			right = fmt.Sprintf("Quest: %d left | ", remaining) + right
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
