package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/rentdesk/internal/tui/theme"
)

var palette = theme.NewCatppuccinMocha()

func styles() *theme.Styles {
	return palette.S()
}

// Hint bar styles
var (
	styleHintKey = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgBase)).
			Bold(true)

	styleHintDesc = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgSubtle))

	styleHintSeparator = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.BgSurface1))
)

// renderHintBar renders key-description pairs.
// Example: renderHintBar("enter", "next", "esc", "back")
// Returns: "enter next • esc back"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, styleHintKey.Render(pairs[i])+" "+styleHintDesc.Render(pairs[i+1]))
	}
	return strings.Join(parts, " "+styleHintSeparator.Render("•")+" ")
}
