package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle    lipgloss.Style
	Label          lipgloss.Style
	LabelFocused   lipgloss.Style
	Value          lipgloss.Style
	Muted          lipgloss.Style
	FieldError     lipgloss.Style
	Banner         lipgloss.Style
	Success        lipgloss.Style
	StepCurrent    lipgloss.Style
	StepDone       lipgloss.Style
	StepTodo       lipgloss.Style
	Sidebar        lipgloss.Style
	ModalContainer lipgloss.Style
}
