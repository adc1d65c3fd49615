package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/rentdesk/internal/config"
	"github.com/mark3labs/rentdesk/internal/journal"
	"github.com/mark3labs/rentdesk/internal/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguage(t *testing.T) {
	p := prefs.Default()
	p.AppLanguage = "fr"

	assert.Equal(t, "fr", language(&config.Config{}, p))
	assert.Equal(t, "en", language(&config.Config{Language: "en"}, p), "config overrides the saved preference")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "****", maskToken("abcd"))
	assert.Equal(t, "abcd**wxyz", maskToken("abcd12wxyz"))
}

func TestWriteHistory(t *testing.T) {
	entries := []journal.Entry{
		{Timestamp: time.Now(), Resource: "vehicles", Action: "create", RecordID: "12", Outcome: journal.OutcomeOK},
		{Timestamp: time.Now(), Resource: "clients", Action: "update", Outcome: journal.OutcomeFailed, Message: "Email already exists"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeHistory(&buf, entries))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "vehicles #12")
	assert.Contains(t, lines[1], "Email already exists")
}

func TestHighlightJSONKeepsText(t *testing.T) {
	out := highlightJSON(`{"outcome": "ok"}`)
	assert.Contains(t, out, "outcome")
	assert.Contains(t, out, "ok")
}

func TestRecordCommands(t *testing.T) {
	for _, name := range []string{"vehicle", "reservation", "client"} {
		cmd, _, err := rootCmd.Find([]string{name, "edit"})
		require.NoError(t, err, name)
		assert.Equal(t, "edit <id>", cmd.Use)
	}
}
