package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used across commands. The zero value
// renders everything unstyled, which is what non-TTY output gets.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

func newStyles(colored bool) Styles {
	if !colored {
		return Styles{}
	}
	return Styles{
		Header1:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:          lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		StatusSuccess: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		StatusFailed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}
