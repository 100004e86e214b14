// Package tui provides a Bubble Tea terminal UI for playing DRGRPG in-process.
package tui

// History remembers submitted commands for Up/Down recall.
type History struct {
	entries []string
	max     int
	cursor  int // -1 while editing fresh input
}

// NewHistory creates a history holding at most max commands.
func NewHistory(max int) *History {
	return &History{max: max, cursor: -1}
}

// Push records a command. Blank lines and repeats of the newest entry
// are ignored.
func (h *History) Push(cmd string) {
	if cmd == "" || (len(h.entries) > 0 && h.entries[len(h.entries)-1] == cmd) {
		return
	}
	h.entries = append(h.entries, cmd)
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = h.entries[over:]
	}
}

// Len is the number of remembered commands.
func (h *History) Len() int { return len(h.entries) }

// Prev steps back to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	switch {
	case len(h.entries) == 0:
		return "", false
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps forward. It reports false once the newest command is passed,
// meaning the input should go back to empty.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	if h.cursor++; h.cursor == len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor leaves history navigation.
func (h *History) ResetCursor() { h.cursor = -1 }
