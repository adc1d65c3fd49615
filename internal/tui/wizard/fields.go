package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/rentdesk/internal/form"
)

// fieldInput edits one schema field. Text-like kinds use a textinput;
// booleans toggle and selects cycle through their options.
type fieldInput struct {
	field  form.Field
	text   textinput.Model
	on     bool
	choice int // index into field.Options, -1 when unset
	raw    string
}

func newFieldInput(f form.Field, value any) *fieldInput {
	fi := &fieldInput{field: f, choice: -1}

	if fi.isText() {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Placeholder
		ti.SetStyles(inputStyles())
		ti.SetWidth(40)
		fi.text = ti
	}
	fi.SetValue(value)
	return fi
}

func inputStyles() textinput.Styles {
	return textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(palette.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(palette.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(palette.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(palette.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(palette.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(palette.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
}

func (fi *fieldInput) name() string {
	return fi.field.Name
}

func (fi *fieldInput) focusable() bool {
	return !fi.field.ReadOnly
}

func (fi *fieldInput) isText() bool {
	return fi.field.Kind != form.KindBool && fi.field.Kind != form.KindSelect
}

// Focus gives the input keyboard focus.
func (fi *fieldInput) Focus() tea.Cmd {
	if fi.isText() {
		return fi.text.Focus()
	}
	return nil
}

// Blur removes keyboard focus.
func (fi *fieldInput) Blur() {
	if fi.isText() {
		fi.text.Blur()
	}
}

// SetWidth sets the width of text inputs.
func (fi *fieldInput) SetWidth(w int) {
	if fi.isText() {
		fi.text.SetWidth(w)
	}
}

// SetValue shows a draft value without reporting a change.
func (fi *fieldInput) SetValue(value any) {
	switch fi.field.Kind {
	case form.KindBool:
		fi.on, _ = value.(bool)
	case form.KindSelect:
		s, _ := value.(string)
		fi.raw = s
		fi.choice = -1
		for i, opt := range fi.field.Options {
			if opt == s {
				fi.choice = i
			}
		}
	case form.KindList:
		switch v := value.(type) {
		case []string:
			fi.text.SetValue(strings.Join(v, ", "))
		case string:
			fi.text.SetValue(v)
		default:
			fi.text.SetValue("")
		}
	case form.KindFile:
		switch v := value.(type) {
		case form.File:
			fi.text.SetValue(v.Path)
		default:
			fi.text.SetValue("")
		}
	default:
		s, _ := value.(string)
		fi.text.SetValue(s)
	}
}

// Value returns the draft value for the controller.
func (fi *fieldInput) Value() any {
	switch fi.field.Kind {
	case form.KindBool:
		return fi.on
	case form.KindSelect:
		if fi.choice < 0 {
			return fi.raw
		}
		return fi.field.Options[fi.choice]
	case form.KindList:
		var items []string
		for _, item := range strings.Split(fi.text.Value(), ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	case form.KindFile:
		path := strings.TrimSpace(fi.text.Value())
		if path == "" {
			return form.File{}
		}
		return form.FileFromPath(path)
	default:
		return fi.text.Value()
	}
}

// Update handles a message while the input is focused and reports whether
// the value changed.
func (fi *fieldInput) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch fi.field.Kind {
	case form.KindBool:
		if key, ok := msg.(tea.KeyPressMsg); ok && (key.String() == "space" || key.String() == "x") {
			fi.on = !fi.on
			return true, nil
		}
		return false, nil

	case form.KindSelect:
		key, ok := msg.(tea.KeyPressMsg)
		if !ok || len(fi.field.Options) == 0 {
			return false, nil
		}
		n := len(fi.field.Options)
		switch key.String() {
		case "right", "l", "space":
			fi.choice = (fi.choice + 1) % n
		case "left", "h":
			if fi.choice < 0 {
				fi.choice = n - 1
			} else {
				fi.choice = (fi.choice - 1 + n) % n
			}
		default:
			return false, nil
		}
		return true, nil

	default:
		before := fi.text.Value()
		var cmd tea.Cmd
		fi.text, cmd = fi.text.Update(msg)
		return fi.text.Value() != before, cmd
	}
}

// View renders the input body without its label.
func (fi *fieldInput) View(focused bool) string {
	s := styles()
	switch fi.field.Kind {
	case form.KindBool:
		box := "[ ]"
		if fi.on {
			box = "[x]"
		}
		if focused {
			return s.LabelFocused.Render(box)
		}
		return s.Value.Render(box)

	case form.KindSelect:
		current := fi.raw
		if fi.choice >= 0 {
			current = fi.field.Options[fi.choice]
		}
		if current == "" {
			current = "-"
		}
		if len(fi.field.Options) == 0 {
			return s.Muted.Render("(no choices available)")
		}
		if focused {
			return s.LabelFocused.Render("‹ " + current + " ›")
		}
		return s.Value.Render(current)

	default:
		if fi.field.ReadOnly {
			v := fi.text.Value()
			if v == "" {
				v = "-"
			}
			return s.Muted.Render(v)
		}
		return fi.text.View()
	}
}
