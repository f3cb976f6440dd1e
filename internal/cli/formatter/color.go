package formatter

import (
	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CategoryStyle gives each category its own color in item tables.
func CategoryStyle(c domain.Category) lipgloss.Style {
	switch c {
	case domain.CategoryMaterials:
		return StyleBlue
	case domain.CategoryLabor:
		return StylePurple
	case domain.CategoryTools:
		return StyleYellow
	case domain.CategoryLogistics:
		return StyleGreen
	default:
		return StyleDim
	}
}

// ConfidenceStyle colors a price by how much to trust it: red for baseline
// guesses, yellow for weak quotes and green otherwise.
func ConfidenceStyle(confidence float64) lipgloss.Style {
	switch {
	case confidence <= 0:
		return StyleRed
	case confidence < 0.7:
		return StyleYellow
	default:
		return StyleGreen
	}
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
