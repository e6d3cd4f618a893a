package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/escapecore/engine"
)

// roomDisplayName derives a title-cased name from a room ID.
// "control_room" -> "Control Room".
func roomDisplayName(id string) string {
	words := strings.Fields(engine.DisplayName(id))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// inventoryLabel lists carried objects, the held one marked with '*'.
func inventoryLabel(inventory []string, held string) string {
	names := make([]string, 0, len(inventory))
	for _, id := range inventory {
		name := engine.DisplayName(id)
		if id == held {
			name = "*" + name
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// renderStatusBar produces a full-width inverted status line showing the
// current room, the inventory, the turn count and, outside normal mode,
// the input mode.
func (m Model) renderStatusBar() string {
	s := m.engine.State()

	left := fmt.Sprintf(" %s", roomDisplayName(s.CurrentRoom()))
	switch m.mode {
	case modeCode:
		left += " " + styleStatusMode.Render(" CODE: "+engine.DisplayName(m.engine.AwaitingCode)+" ")
	case modeInspect:
		left += " " + styleStatusMode.Render(" INSPECT ")
	case modeOver:
		left += " " + styleStatusMode.Render(" GAME OVER ")
	}

	right := fmt.Sprintf("T:%d ", s.TurnCount)

	// Show inventory items if they fit, otherwise just count.
	if n := len(s.Inventory); n > 0 {
		held, _ := s.InHand()
		candidate := fmt.Sprintf("Inv: %s | T:%d ", inventoryLabel(s.Inventory, held), s.TurnCount)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | T:%d ", n, s.TurnCount)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
