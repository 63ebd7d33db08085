package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateSignedOut:
		content = m.viewSignedOut()
	case constants.StateCalculator:
		content = m.viewCalculator()
	case constants.StateConfirmDelete:
		content = m.viewConfirm(fmt.Sprintf("Delete %q?", m.pendingDeleteLabel))
	case constants.StateConfirmClear:
		content = m.viewConfirm(fmt.Sprintf("Delete all %d countdowns?", m.list.Len()))
	default:
		content = m.viewCountdowns()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	if m.state == constants.StateSignedOut {
		return activeTabStyle.Render(constants.AppName)
	}
	countdownsTab, calculatorTab := activeTabStyle, inactiveTabStyle
	if m.state == constants.StateCalculator {
		countdownsTab, calculatorTab = inactiveTabStyle, activeTabStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		countdownsTab.Render("Countdowns"),
		calculatorTab.Render("Calculator"),
		identityStyle.Render(m.countdowns.Identity()),
	)
}

func (m Model) viewSignedOut() string {
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		warningStyle.Render(constants.MsgSignInRequired),
		"",
		m.form.View(),
	))
}

func (m Model) viewCountdowns() string {
	if m.list.Len() == 0 {
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			constants.MsgNoCountdowns,
			"",
			"Press tab to calculate and save one.",
		))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		models.Summary(m.list.Len()),
	))
}

func (m Model) viewCalculator() string {
	parts := []string{}
	if m.preview != nil {
		line := totalStyle.Render(fmt.Sprintf("Total: %d days", *m.preview))
		if m.calc.AddExtraDay {
			line += " " + warningStyle.Render("("+constants.MsgExtraDayIncluded+")")
		}
		parts = append(parts, m.calc.StartDate+" → "+m.calc.EndDate, line, "")
	}
	if m.form != nil {
		parts = append(parts, m.form.View())
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewConfirm(question string) string {
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(question),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewStatus() string {
	if m.formError != "" {
		return dangerStyle.Render(m.formError)
	}
	if m.status != "" {
		return successStyle.Render(m.status)
	}
	return ""
}
