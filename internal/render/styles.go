package render

import "github.com/charmbracelet/lipgloss"

// Styles colours the pieces Echo draws. The zero value draws plain text.
type Styles struct {
	enabled bool
	prompt  lipgloss.Style
	search  lipgloss.Style
	notice  lipgloss.Style
	err     lipgloss.Style
}

// DefaultStyles returns the colour scheme, or plain text when color is false
func DefaultStyles(color bool) Styles {
	return Styles{
		enabled: color,
		prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		search:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		notice:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (s Styles) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

func (s Styles) Prompt(text string) string { return s.render(s.prompt, text) }
func (s Styles) Search(text string) string { return s.render(s.search, text) }
func (s Styles) Notice(text string) string { return s.render(s.notice, text) }
func (s Styles) Error(text string) string  { return s.render(s.err, text) }
