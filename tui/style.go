package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusMode = lipgloss.NewStyle().
			Background(lipgloss.Color("130")).
			Foreground(lipgloss.Color("230")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleCodePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleRoomDesc = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleYouSee = lipgloss.NewStyle().
			Bold(true)

	styleUnlock = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleMapBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleMapFloor = lipgloss.NewStyle().
			Foreground(lipgloss.Color("237"))

	styleMapLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Bold(true)

	styleMapTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	styleInspect = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 2)

	styleInspectHint = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true)
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindRoomDesc lineKind = iota
	kindYouSee
	kindUnlock
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "You see:"):
		return kindYouSee
	case strings.HasSuffix(line, " unlocks."),
		strings.HasSuffix(line, " appears."):
		return kindUnlock
	case strings.HasPrefix(line, "You don't see"),
		strings.HasPrefix(line, "You don't have"),
		strings.HasPrefix(line, "I don't understand"),
		strings.HasPrefix(line, "Nothing happens"),
		strings.HasSuffix(line, " is locked."),
		line == "Wrong code.":
		return kindError
	default:
		return kindRoomDesc
	}
}

// styledYouSee renders "You see: item1, item2." with item names bold.
func styledYouSee(line string) string {
	const prefix = "You see: "
	if !strings.HasPrefix(line, prefix) {
		return styleRoomDesc.Render(line)
	}
	return styleRoomDesc.Render(prefix) + styleYouSee.Render(line[len(prefix):])
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
