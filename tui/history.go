// Package tui provides a Bubble Tea terminal UI for the Mindspire engine.
package tui

// History keeps recently submitted input lines for up/down recall at the
// prompt. It holds at most limit lines; the oldest is dropped first.
type History struct {
	lines []string
	limit int
	idx   int // -1 while not browsing, otherwise the line being shown
}

// NewHistory creates a history holding up to limit lines.
func NewHistory(limit int) *History {
	return &History{
		lines: make([]string, 0, limit),
		limit: limit,
		idx:   -1,
	}
}

// Push records a submitted line. A line equal to the most recent one is
// not recorded again.
func (h *History) Push(line string) {
	if n := len(h.lines); n > 0 && h.lines[n-1] == line {
		return
	}
	if len(h.lines) == h.limit {
		copy(h.lines, h.lines[1:])
		h.lines = h.lines[:h.limit-1]
	}
	h.lines = append(h.lines, line)
}

// Prev steps back toward older lines. The first call while not browsing
// lands on the most recent line; at the oldest it stays put.
func (h *History) Prev() (string, bool) {
	if len(h.lines) == 0 {
		return "", false
	}
	switch {
	case h.idx < 0:
		h.idx = len(h.lines) - 1
	case h.idx > 0:
		h.idx--
	}
	return h.lines[h.idx], true
}

// Next steps forward toward newer lines. Stepping past the newest line
// ends browsing and reports false so the caller can clear the input.
func (h *History) Next() (string, bool) {
	if h.idx < 0 {
		return "", false
	}
	h.idx++
	if h.idx >= len(h.lines) {
		h.idx = -1
		return "", false
	}
	return h.lines[h.idx], true
}

// ResetCursor leaves browsing mode.
func (h *History) ResetCursor() {
	h.idx = -1
}
