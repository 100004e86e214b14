package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/drgrpg/cli"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleBattleBar = styleStatusBar.
			Background(lipgloss.Color("52"))

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleRoomTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117")).
			Bold(true)

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleYouSee = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleNotification = lipgloss.NewStyle().
				Foreground(lipgloss.Color("228"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// render styles one wrapped line according to its kind.
func render(text, kind string) string {
	switch kind {
	case cli.KindRoom:
		return styleRoomTitle.Render(text)
	case cli.KindNotification:
		return styleNotification.Render("* " + text)
	case cli.KindError:
		return styleError.Render(text)
	case cli.KindCombat:
		return styleCombat.Render(text)
	case cli.KindSystem:
		if strings.HasPrefix(text, "[trace]") {
			return styleTrace.Render(text)
		}
		return styleSystem.Render("[" + text + "]")
	}
	switch {
	case strings.HasPrefix(text, "You see: "):
		return styleText.Render("You see: ") + styleYouSee.Render(text[len("You see: "):])
	case strings.HasPrefix(text, "Exits:"):
		return styleExits.Render(text)
	}
	return styleText.Render(text)
}
