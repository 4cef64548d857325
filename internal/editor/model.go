package editor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Save key.Binding
	Quit key.Binding
	Tab  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Quit: key.NewBinding(key.WithKeys("esc", "ctrl+q"), key.WithHelp("esc", "close")),
	Tab:  key.NewBinding(key.WithKeys("tab")),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")).Padding(0, 1)
	modeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// model is the bubbletea program around a Widget
type model struct {
	widget *Widget
	save   func(string) error
	help   help.Model

	saved    string // content as last written
	status   string
	warn     bool
	confirm  bool // quit pressed once with unsaved changes
	quitting bool
	err      error // last save failure
}

func newModel(w *Widget, save func(string) error) *model {
	return &model{
		widget: w,
		save:   save,
		help:   help.New(),
		saved:  w.Value(),
	}
}

func (m *model) dirty() bool {
	return m.widget.Value() != m.saved
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.widget.setSize(msg.Width, max(1, msg.Height-2))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Save):
			m.confirm = false
			m.write()
			return m, nil

		case key.Matches(msg, keys.Quit):
			if m.dirty() && !m.confirm {
				m.confirm = true
				m.status, m.warn = "unsaved changes: ctrl+s to save, esc again to discard", true
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Tab):
			m.confirm = false
			m.widget.insertTab()
			return m, nil
		}
		m.confirm = false
	}

	var cmd tea.Cmd
	m.widget.area, cmd = m.widget.area.Update(msg)
	return m, cmd
}

func (m *model) write() {
	if m.save == nil {
		m.status, m.warn = "read-only: nowhere to save", true
		return
	}
	value := m.widget.Value()
	if err := m.save(value); err != nil {
		m.err = err
		m.status, m.warn = fmt.Sprintf("save failed: %v", err), true
		return
	}
	m.saved = value
	m.err = nil
	m.status, m.warn = fmt.Sprintf("wrote %d bytes", len(value)), false
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}

	name := m.widget.Filename()
	if m.dirty() {
		name += " [+]"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(name),
		modeStyle.Render(m.widget.Mode()),
	)

	footer := m.help.View(keys)
	if m.status != "" {
		style := statusStyle
		if m.warn {
			style = warnStyle
		}
		footer = style.Render(m.status) + "  " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.widget.area.View(), footer)
}
