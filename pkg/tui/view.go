package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/goalie/pkg/goal"
)

const minWidth = 40
const minHeight = 12

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelp {
		return placeOverlay(m.renderHelpModal(), w, h)
	}
	if m.showDeleteConfirm {
		return placeOverlay(m.renderDeleteModal(), w, h)
	}
	if m.form != nil {
		return placeOverlay(m.renderAddModal(), w, h)
	}

	var b strings.Builder

	// Rows 0-2 are the header area; cards start at contentTop, which the
	// mouse hit-testing in drag.go depends on.
	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	colWidth := w / 2
	b.WriteString(m.renderColumnTitle(goal.ListActive, colWidth))
	b.WriteString(m.renderColumnTitle(goal.ListCompleted, w-colWidth))
	b.WriteString("\n")

	footerLines := 2
	contentHeight := h - contentTop - footerLines

	left := m.renderColumn(goal.ListActive, colWidth)
	right := m.renderColumn(goal.ListCompleted, w-colWidth)
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(left, i, colWidth))
		b.WriteString(getLine(right, i, w-colWidth))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusLine(w))
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render(m.keys.ShortHelp()))

	out := b.String()
	if m.toasts.HasToasts() {
		out = overlayBottomRight(out, m.toasts.View(), w, footerLines)
	}
	return out
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Goalie")

	badge := OnlineBadgeStyle.Render("online")
	if !m.online {
		badge = OfflineBadgeStyle.Render("offline")
	}

	queued := ""
	if m.queueCount > 0 {
		queued = StatusStyle.Render(fmt.Sprintf("  %s %d queued", IconPending, m.queueCount))
	}

	return title + "  " + badge + queued
}

func (m Model) renderColumnTitle(list goal.ListType, width int) string {
	var label string
	var count int
	if list == goal.ListActive {
		label = "Active"
		count = len(m.active)
	} else {
		label = "Completed"
		count = len(m.completed)
	}

	style := ColumnTitleDimStyle
	if m.focusedColumn == list {
		style = ColumnTitleStyle
	}
	title := style.Render(label) + ColumnCountStyle.Render(fmt.Sprintf(" (%d)", count))
	return padLine(" "+title, width)
}

// renderColumn renders one column's cards in display order: the stored
// order with any pending keyboard move or in-flight drag previewed at its
// candidate slot. Each card is exactly cardLines rows tall.
func (m Model) renderColumn(list goal.ListType, width int) string {
	sur := m.surface(list)

	ids := sur.DisplayOrder()
	var movingID string
	if sur.Pending() && m.focusedColumn == list {
		movingID = sur.FocusedID()
	}
	if m.drag.active && m.drag.list == list {
		ids = reinsert(ids, m.drag.id, m.drag.insert)
		movingID = m.drag.id
	}

	var b strings.Builder
	if len(ids) == 0 {
		b.WriteString("\n")
		b.WriteString(CardMetaStyle.Render("  nothing here yet"))
		b.WriteString("\n")
		return b.String()
	}

	focusedID := ""
	if m.focusedColumn == list {
		focusedID = sur.FocusedID()
	}

	for _, id := range ids {
		b.WriteString(m.renderCard(list, id, id == focusedID, id == movingID, width))
	}
	return b.String()
}

func (m Model) renderCard(list goal.ListType, id string, selected, moving bool, width int) string {
	var title, meta string
	var pending bool

	if list == goal.ListActive {
		for _, g := range m.active {
			if g.ID == id {
				title = g.Title
				meta = goal.Countdown(g.EndDate, m.now())
				pending = g.SyncStatus == goal.StatusPendingSync
				break
			}
		}
	} else {
		for _, c := range m.completed {
			if c.ID == id {
				title = c.Title
				meta = "done " + c.CompletedAt.Format("Jan 2")
				pending = c.SyncStatus == goal.StatusPendingSync
				break
			}
		}
	}

	icon := IconActive
	titleStyle := CardTitleStyle
	metaStyle := CardMetaStyle
	switch {
	case moving:
		icon = IconMove
		titleStyle = CardMovingStyle
	case selected:
		titleStyle = CardSelectedStyle
	case list == goal.ListCompleted:
		icon = IconCompleted
		titleStyle = CardCompletedStyle
	}

	if list == goal.ListActive {
		switch {
		case strings.Contains(meta, "overdue"):
			metaStyle = CardOverdueStyle
		case meta == "due today":
			metaStyle = CardDueTodayStyle
		}
	}

	line1 := " " + icon + " " + titleStyle.Render(truncate(title, width-6))
	if pending {
		line1 += " " + PendingSyncStyle.Render(IconPending)
	}
	line2 := "    " + metaStyle.Render(meta)

	// Two content rows plus a spacer keeps every card cardLines tall.
	return padLine(line1, width) + "\n" + padLine(line2, width) + "\n\n"
}

func (m Model) renderStatusLine(width int) string {
	if m.status.msg == "" || m.now().After(m.status.until) {
		return padLine("", width)
	}
	return padLine(" "+StatusStyle.Render(m.status.msg), width)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorPurple).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Delete Goal"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Delete '%s'?\n\n", m.deleteTitle))
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

func (m Model) renderAddModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("New Goal"))
	b.WriteString("\n\n")
	b.WriteString(m.form.form.View())

	return ModalStyle.Render(b.String())
}

// Helper functions

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		return padLine(lines[idx], width)
	}
	return strings.Repeat(" ", width)
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}

// overlayBottomRight replaces the board's lines just above the footer with
// the toast stack, right-aligned.
func overlayBottomRight(board, overlay string, width, footerLines int) string {
	boardLines := strings.Split(board, "\n")
	overlayLines := strings.Split(overlay, "\n")

	start := len(boardLines) - footerLines - len(overlayLines)
	if start < 0 {
		start = 0
	}

	for i, ol := range overlayLines {
		idx := start + i
		if idx >= len(boardLines) {
			break
		}
		pad := width - lipgloss.Width(ol) - 1
		if pad < 0 {
			pad = 0
		}
		boardLines[idx] = strings.Repeat(" ", pad) + ol
	}

	return strings.Join(boardLines, "\n")
}
