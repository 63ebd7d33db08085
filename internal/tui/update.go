package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daycount/internal/calculator"
	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/countdown"
	"github.com/julianstephens/daycount/internal/logger"
	"github.com/julianstephens/daycount/internal/tui/components/countdownlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	case changedMsg:
		cmd := m.syncSession()
		return m, tea.Batch(cmd, waitForChange(m.changes))
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateSignedOut:
		cmd = m.updateSignIn(msg)
	case constants.StateCalculator:
		cmd = m.updateCalculator(msg)
	case constants.StateConfirmDelete, constants.StateConfirmClear:
		cmd = m.updateConfirm(msg)
	default:
		cmd = m.updateCountdowns(msg)
	}
	return m, cmd
}

// syncSession follows the store's state: a sign-out from anywhere drops
// back to the sign-in view, and a load shows the list.
func (m *Model) syncSession() tea.Cmd {
	if m.countdowns.State() != countdown.Loaded {
		m.list.SetCountdowns(nil)
		if m.state == constants.StateSignedOut {
			return nil
		}
		m.resetCalculator()
		m.pendingDeleteID = ""
		m.status = ""
		m.state = constants.StateSignedOut
		m.signIn = &SignInFormModel{}
		m.form = newSignInForm(m.signIn)
		return m.form.Init()
	}

	m.list.SetCountdowns(m.countdowns.List())
	if m.state == constants.StateSignedOut {
		m.state = constants.StateCountdowns
		m.form = nil
		m.formError = ""
	}
	return nil
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return cmd
}

func (m *Model) updateSignIn(msg tea.Msg) tea.Cmd {
	cmd := m.updateForm(msg)
	switch m.form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, m.submitSignIn())
	case huh.StateAborted:
		m.quitting = true
		return tea.Quit
	}
	return cmd
}

// submitSignIn signs in with the entered address. The store follows the
// session, so a successful sign-in has already loaded the list.
func (m *Model) submitSignIn() tea.Cmd {
	if err := m.session.SignIn(m.signIn.Email); err != nil {
		m.formError = err.Error()
		m.form = newSignInForm(m.signIn)
		return m.form.Init()
	}
	id, _ := m.session.Current()
	if m.countdowns.State() != countdown.Loaded || m.countdowns.Identity() != id {
		if err := m.countdowns.Bind(context.Background(), id); err != nil {
			m.formError = countdown.UserMessage(err)
			m.form = newSignInForm(m.signIn)
			return m.form.Init()
		}
	}
	m.formError = ""
	return m.syncSession()
}

func (m *Model) updateCountdowns(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case countdownlist.DeleteCountdownMsg:
		m.pendingDeleteID = msg.ID
		m.pendingDeleteLabel = msg.Label
		m.state = constants.StateConfirmDelete
		return nil
	case countdownlist.ClearCountdownsMsg:
		if m.list.Len() == 0 {
			return nil
		}
		m.state = constants.StateConfirmClear
		return nil
	case tea.KeyMsg:
		if m.list.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return nil
		case key.Matches(msg, m.keys.Tab):
			return m.openCalculator()
		case key.Matches(msg, m.keys.SignOut):
			return m.signOut()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *Model) signOut() tea.Cmd {
	if err := m.session.SignOut(); err != nil {
		logger.Warn("sign out failed", "error", err)
		m.formError = err.Error()
		return nil
	}
	// Stored countdowns stay; only the in-memory view is dropped.
	m.countdowns.Unbind()
	return m.syncSession()
}

func (m *Model) openCalculator() tea.Cmd {
	m.state = constants.StateCalculator
	m.status = ""
	m.formError = ""
	if m.preview != nil {
		m.form = newLabelForm(m.calc)
	} else {
		m.form = newDatesForm(m.calc)
	}
	return m.form.Init()
}

func (m *Model) resetCalculator() {
	m.calc = &CalculatorFormModel{}
	m.preview = nil
	m.form = nil
}

func (m *Model) updateCalculator(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Esc) {
			if m.preview != nil {
				// Back to the dates; changing them invalidates the preview.
				m.preview = nil
				m.formError = ""
				m.form = newDatesForm(m.calc)
				return m.form.Init()
			}
			m.state = constants.StateCountdowns
			m.form = nil
			return nil
		}
	}

	cmd := m.updateForm(msg)
	switch m.form.State {
	case huh.StateCompleted:
		if m.preview == nil {
			return tea.Batch(cmd, m.submitDates())
		}
		return tea.Batch(cmd, m.submitLabel())
	case huh.StateAborted:
		m.state = constants.StateCountdowns
		m.form = nil
	}
	return cmd
}

// submitDates calculates the span for the entered dates and moves on to
// the label, or reopens the dates with the problem shown.
func (m *Model) submitDates() tea.Cmd {
	total, err := calculator.Preview(calculator.PreviewRequest{
		StartDate:   m.calc.StartDate,
		EndDate:     m.calc.EndDate,
		AddExtraDay: m.calc.AddExtraDay,
	})
	if err != nil {
		m.preview = nil
		m.formError = countdown.UserMessage(err)
		m.form = newDatesForm(m.calc)
		return m.form.Init()
	}
	m.preview = &total
	m.formError = ""
	m.form = newLabelForm(m.calc)
	return m.form.Init()
}

// submitLabel saves the calculated countdown. On success the calculator is
// reset and the list is shown.
func (m *Model) submitLabel() tea.Cmd {
	saved, err := m.countdowns.Add(countdown.AddRequest{
		Label:            m.calc.Label,
		StartDate:        m.calc.StartDate,
		EndDate:          m.calc.EndDate,
		AddExtraDay:      m.calc.AddExtraDay,
		PreviewTotalDays: m.preview,
	})
	if err != nil {
		m.formError = countdown.UserMessage(err)
		if m.preview == nil {
			m.form = newDatesForm(m.calc)
		} else {
			m.form = newLabelForm(m.calc)
		}
		return m.form.Init()
	}

	m.resetCalculator()
	m.formError = ""
	m.status = fmt.Sprintf("✓ Saved %s: %s", saved.Label, saved.Remaining())
	m.list.SetCountdowns(m.countdowns.List())
	m.state = constants.StateCountdowns
	return nil
}

func (m *Model) updateConfirm(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		if m.state == constants.StateConfirmDelete {
			m.confirmDelete()
		} else {
			m.confirmClear()
		}
		m.list.SetCountdowns(m.countdowns.List())
		m.state = constants.StateCountdowns
	case "n", "N", "esc":
		m.pendingDeleteID = ""
		m.pendingDeleteLabel = ""
		m.state = constants.StateCountdowns
	}
	return nil
}

func (m *Model) confirmDelete() {
	id, label := m.pendingDeleteID, m.pendingDeleteLabel
	m.pendingDeleteID = ""
	m.pendingDeleteLabel = ""
	if id == "" {
		return
	}
	removed, err := m.countdowns.Remove(id)
	switch {
	case err != nil:
		m.formError = countdown.UserMessage(err)
	case removed:
		m.formError = ""
		m.status = "✓ Deleted " + label
	}
}

func (m *Model) confirmClear() {
	if err := m.countdowns.Clear(); err != nil {
		m.formError = countdown.UserMessage(err)
		return
	}
	m.formError = ""
	m.status = "✓ Cleared all countdowns"
}
