package wizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"github.com/aymanbagabas/go-udiff"
	"github.com/mark3labs/rentdesk/internal/form"
)

// review is the read-only overlay summarizing the draft, with a diff
// against the loaded record when editing.
type review struct {
	viewport viewport.Model
	markdown string
	width    int
}

func newReview(markdown string, width, height int) *review {
	vp := viewport.New(
		viewport.WithWidth(width),
		viewport.WithHeight(height),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	vp.SetContent(renderMarkdown(markdown, width))
	return &review{viewport: vp, markdown: markdown, width: width}
}

func (r *review) SetSize(width, height int) {
	r.width = width
	r.viewport.SetWidth(width)
	r.viewport.SetHeight(height)
	r.viewport.SetContent(renderMarkdown(r.markdown, width))
}

func (r *review) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return cmd
}

func (r *review) View() string {
	return r.viewport.View()
}

// renderMarkdown renders markdown with glamour, falling back to the plain
// text if rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}

// summaryMarkdown lists every step's fields and values as markdown tables.
// noChanges is shown in edit mode when the draft matches the loaded record.
func summaryMarkdown(title, noChanges string, schema *form.Schema, draft, original form.Draft, errs form.ErrorMap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	for i, step := range schema.Steps {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, step.Title)
		b.WriteString("| Field | Value |\n|---|---|\n")
		for _, f := range schema.StepFields(i + 1) {
			value := displayValue(draft[f.Name])
			if msg, ok := errs[f.Name]; ok {
				value += " **(" + msg + ")**"
			}
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(f.Label), escapeCell(value))
		}
		b.WriteString("\n")
	}

	if original != nil {
		b.WriteString("## Changes\n\n")
		if diff := changesDiff(schema, original, draft); diff != "" {
			b.WriteString("```diff\n" + diff + "```\n")
		} else {
			b.WriteString("_" + noChanges + "_\n")
		}
	}
	return b.String()
}

// changesDiff renders a unified diff of field values, one "name: value"
// line per field, between the loaded record and the draft.
func changesDiff(schema *form.Schema, original, draft form.Draft) string {
	return udiff.Unified("saved", "draft", fieldLines(schema, original), fieldLines(schema, draft))
}

func fieldLines(schema *form.Schema, d form.Draft) string {
	var b strings.Builder
	for _, f := range schema.Fields {
		fmt.Fprintf(&b, "%s: %s\n", f.Name, displayValue(d[f.Name]))
	}
	return b.String()
}

func displayValue(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case bool:
		if tv {
			return "yes"
		}
		return "no"
	case []string:
		return strings.Join(tv, ", ")
	case form.File:
		return tv.Name
	default:
		return fmt.Sprint(tv)
	}
}

func escapeCell(s string) string {
	if s == "" {
		return " "
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
