package countdownlist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daycount/internal/models"
)

type DeleteCountdownMsg struct {
	ID    string
	Label string
}

type ClearCountdownsMsg struct{}

type Item struct {
	Countdown models.Countdown
}

func (i Item) Title() string { return i.Countdown.Label }

func (i Item) Description() string {
	return i.Countdown.Remaining() + " · " + i.Countdown.Span()
}

func (i Item) FilterValue() string { return i.Countdown.Label }

type KeyMap struct {
	Delete key.Binding
	Clear  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(countdowns []models.Countdown, width, height int) Model {
	l := list.New(toItems(countdowns), list.NewDefaultDelegate(), width, height)
	l.Title = "Countdowns"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("countdown", "countdowns")
	// q is handled by the parent so it can quit from every view.
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Delete, keys.Clear}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Delete, keys.Clear}
	}

	return Model{
		list: l,
		keys: keys,
	}
}

func toItems(countdowns []models.Countdown) []list.Item {
	items := make([]list.Item, len(countdowns))
	for i, c := range countdowns {
		items[i] = Item{Countdown: c}
	}
	return items
}

func (m *Model) SetCountdowns(countdowns []models.Countdown) {
	m.list.SetItems(toItems(countdowns))
}

// Len returns the number of countdowns shown, ignoring any filter.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Filtering reports whether the user is typing a filter, so the parent
// should leave single-letter keys to the list.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg {
					return DeleteCountdownMsg{ID: item.Countdown.ID, Label: item.Countdown.Label}
				}
			}
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			return m, func() tea.Msg { return ClearCountdownsMsg{} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
