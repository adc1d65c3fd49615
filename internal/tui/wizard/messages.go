package wizard

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/rentdesk/internal/form"
	"github.com/mark3labs/rentdesk/internal/logger"
)

// submitDoneMsg carries the gateway outcome back to the event loop.
type submitDoneMsg struct {
	record form.Record
	err    error
}

// EditorDoneMsg is sent when the external editor returns with new content
// for a text field.
type EditorDoneMsg struct {
	Field   string
	Content string
}

// openEditor edits content in $EDITOR and reports the result as an
// EditorDoneMsg. It returns nil when no editor can be started.
func openEditor(field, content string) tea.Cmd {
	tmp, err := os.CreateTemp("", "rentdesk_"+field+"_*.txt")
	if err != nil {
		logger.Warn("Creating editor temp file: %v", err)
		return nil
	}
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil
	}
	_ = tmp.Close()

	cmd, err := editor.Command("rentdesk", tmp.Name())
	if err != nil {
		_ = os.Remove(tmp.Name())
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(tmp.Name()) }()
		if err != nil {
			logger.Warn("Editor exited with error: %v", err)
			return nil
		}
		data, err := os.ReadFile(tmp.Name())
		if err != nil {
			return nil
		}
		return EditorDoneMsg{Field: field, Content: string(data)}
	})
}
