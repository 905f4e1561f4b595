package terminal

import "github.com/charmbracelet/lipgloss"

// Palette holds the colors for one theme.
type Palette struct {
	Fg      lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Ongoing lipgloss.Color
	Next    lipgloss.Color
	Error   lipgloss.Color
	Border  lipgloss.Color
}

var (
	// LightPalette is used on light terminals and by default.
	LightPalette = Palette{
		Fg:      lipgloss.Color("#1D2330"),
		Muted:   lipgloss.Color("#6B7280"),
		Accent:  lipgloss.Color("#2563EB"),
		Ongoing: lipgloss.Color("#15803D"),
		Next:    lipgloss.Color("#B45309"),
		Error:   lipgloss.Color("#B91C1C"),
		Border:  lipgloss.Color("#D1D5DB"),
	}

	// DarkPalette follows One Dark.
	DarkPalette = Palette{
		Fg:      lipgloss.Color("#ABB2BF"),
		Muted:   lipgloss.Color("#636B78"),
		Accent:  lipgloss.Color("#61AFEF"),
		Ongoing: lipgloss.Color("#98C379"),
		Next:    lipgloss.Color("#E5C07B"),
		Error:   lipgloss.Color("#E06C75"),
		Border:  lipgloss.Color("#3F4451"),
	}
)

// Styles are the lipgloss styles for a board.
type Styles struct {
	Header      lipgloss.Style
	Clock       lipgloss.Style
	Section     lipgloss.Style
	Title       lipgloss.Style
	OngoingMark lipgloss.Style
	NextMark    lipgloss.Style
	Label       lipgloss.Style
	Placeholder lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
}

// NewStyles builds styles from a palette.
func NewStyles(p Palette) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Clock: lipgloss.NewStyle().
			Foreground(p.Fg).
			Bold(true).
			PaddingLeft(2),
		Section: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(p.Muted).
			Bold(true),
		OngoingMark: lipgloss.NewStyle().
			Foreground(p.Ongoing).
			Bold(true),
		NextMark: lipgloss.NewStyle().
			Foreground(p.Next).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(p.Fg).
			Bold(true),
		Placeholder: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Status: lipgloss.NewStyle().
			Foreground(p.Muted),
		Error: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
	}
}

// DefaultStyles returns the light styles.
func DefaultStyles() Styles {
	return NewStyles(LightPalette)
}
