package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/countdown"
	"github.com/julianstephens/daycount/internal/identity"
	"github.com/julianstephens/daycount/internal/tui/components/countdownlist"
)

// changedMsg reports that the countdown store changed: a load, a mutation,
// a periodic refresh or a sign-out.
type changedMsg struct{}

type Model struct {
	countdowns *countdown.Store
	session    identity.Session
	changes    <-chan struct{}

	state    constants.SessionState
	keys     KeyMap
	help     help.Model
	list     countdownlist.Model
	form     *huh.Form
	signIn   *SignInFormModel
	calc     *CalculatorFormModel
	preview  *int // set once the current dates have been calculated
	quitting bool
	width    int
	height   int

	pendingDeleteID    string
	pendingDeleteLabel string
	status             string // last successful action
	formError          string // error message for the current form or action
}

// NewModel builds the TUI over a countdown store that already follows
// session. changes should receive a value whenever the store calls its
// OnChange hook; it may be nil.
func NewModel(countdowns *countdown.Store, session identity.Session, changes <-chan struct{}) Model {
	m := Model{
		countdowns: countdowns,
		session:    session,
		changes:    changes,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		list:       countdownlist.New(countdowns.List(), 0, 0),
		calc:       &CalculatorFormModel{},
	}
	if countdowns.State() == countdown.Loaded {
		m.state = constants.StateCountdowns
	} else {
		m.state = constants.StateSignedOut
		m.signIn = &SignInFormModel{}
		m.form = newSignInForm(m.signIn)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForChange(m.changes)}
	if m.form != nil {
		cmds = append(cmds, m.form.Init())
	}
	return tea.Batch(cmds...)
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateSignedOut:
		return []key.Binding{m.keys.Quit}
	case constants.StateCalculator:
		return []key.Binding{m.keys.Esc}
	case constants.StateConfirmDelete, constants.StateConfirmClear:
		return nil
	}
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.SignOut}
	if m.list.Len() > 0 {
		keys = append(keys, countdownlist.DefaultKeyMap().Delete, countdownlist.DefaultKeyMap().Clear)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	listKeys := countdownlist.DefaultKeyMap()
	return [][]key.Binding{
		{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.SignOut},
		{m.keys.Up, m.keys.Down, m.keys.Esc},
		{listKeys.Delete, listKeys.Clear},
	}
}
