package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Enabled
	ButtonDisabled                    // Grayed out, e.g. while submitting
	ButtonFocused                     // The action enter triggers
)

// Button is a single entry of the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar renders a centered row of buttons.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
	}
}

// SetWidth updates the width the bar is centered in.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

var (
	buttonBase = lipgloss.NewStyle().
			Padding(0, 2).
			MarginLeft(1).
			MarginRight(1)

	buttonNormal = buttonBase.
			Foreground(lipgloss.Color(palette.FgBase)).
			Background(lipgloss.Color(palette.BgSurface0))

	buttonDisabled = buttonBase.
			Foreground(lipgloss.Color(palette.FgMuted)).
			Background(lipgloss.Color(palette.BgMantle))

	buttonFocused = buttonBase.
			Foreground(lipgloss.Color(palette.BgBase)).
			Background(lipgloss.Color(palette.Secondary)).
			Bold(true)
)

// Render renders the bar.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, buttonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, buttonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, buttonNormal.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// CreateBackNextButtons creates the Back / Next (or Submit) pair. The
// forward button is focused unless disabled.
func CreateBackNextButtons(backLabel string, backEnabled bool, nextLabel string, nextEnabled bool) []Button {
	backState := ButtonNormal
	if !backEnabled {
		backState = ButtonDisabled
	}
	nextState := ButtonFocused
	if !nextEnabled {
		nextState = ButtonDisabled
	}
	return []Button{
		{Label: "← " + backLabel, State: backState},
		{Label: nextLabel, State: nextState},
	}
}
