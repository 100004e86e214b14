package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width status line: room and exits on
// the left, vitals on the right. The bar turns red during a battle.
func (m Model) renderStatusBar() string {
	s := m.session

	title := s.RoomTitle()
	if title == "" {
		title = "..."
	}
	left := fmt.Sprintf(" %s | Exits: %s", title, strings.Join(s.Exits(), ","))

	vitals := fmt.Sprintf("HP %d/%d MP %d/%d ", s.Stat("hp"), s.Stat("max_hp"), s.Stat("mp"), s.Stat("max_mp"))
	right := vitals
	candidate := fmt.Sprintf("Gold %d | %s", s.Stat("gold"), vitals)
	if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
		right = candidate
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + strings.Repeat(" ", gap) + right

	if s.InBattle() {
		return styleBattleBar.Width(m.width).Render(bar)
	}
	return styleStatusBar.Width(m.width).Render(bar)
}
