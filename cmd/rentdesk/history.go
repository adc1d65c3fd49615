package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/colorprofile"
	"github.com/mark3labs/rentdesk/internal/journal"
	"github.com/mark3labs/rentdesk/internal/rental"
	"github.com/mark3labs/rentdesk/internal/tui/theme"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	limit    int
	resource string
	json     bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent submissions from the local journal",
	Long: `Show recent create and update submissions, newest last.

Entries are read from the journal under <data_dir>/journal. Use --json for
machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "l", 20, "Number of entries to show")
	historyCmd.Flags().StringVarP(&historyFlags.resource, "resource", "r", "", "Only show one resource (vehicles, reservations, clients)")
	historyCmd.Flags().BoolVar(&historyFlags.json, "json", false, "Print entries as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyFlags.limit <= 0 {
		return fmt.Errorf("limit must be > 0")
	}

	resource := historyFlags.resource
	if resource != "" {
		schema, err := rental.Schema(resource, nil)
		if err != nil {
			return err
		}
		resource = schema.Resource
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := journal.Open(cmd.Context(), journalDir(cfg))
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = j.Close() }()

	entries, err := j.Recent(cmd.Context(), resource, historyFlags.limit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	// Downsample colors to what the terminal supports.
	w := colorprofile.NewWriter(cmd.OutOrStdout(), os.Environ())

	if historyFlags.json {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode entries: %w", err)
		}
		_, err = fmt.Fprintln(w, highlightJSON(string(data)))
		return err
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No submissions recorded yet.")
		return err
	}
	return writeHistory(w, entries)
}

func writeHistory(w io.Writer, entries []journal.Entry) error {
	s := theme.NewCatppuccinMocha().S()
	for _, e := range entries {
		outcome := s.Success.Render("✓")
		if e.Outcome != journal.OutcomeOK {
			outcome = s.FieldError.Render("✗")
		}

		target := e.Resource
		if e.RecordID != "" {
			target += " #" + e.RecordID
		}

		line := fmt.Sprintf("%s %s  %-6s %s",
			outcome,
			s.Muted.Render(e.Timestamp.Local().Format("2006-01-02 15:04:05")),
			e.Action,
			s.Value.Render(target),
		)
		if e.Message != "" {
			line += "  " + s.Muted.Render(e.Message)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// highlightJSON colors JSON for the terminal, returning it unchanged when
// highlighting fails.
func highlightJSON(source string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return source
	}
	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		return source
	}

	baseStyle := styles.Get("catppuccin-mocha")
	if baseStyle == nil {
		baseStyle = styles.Fallback
	}
	// Drop token backgrounds so the terminal's own background shows through.
	style, err := baseStyle.Builder().Transform(func(entry chroma.StyleEntry) chroma.StyleEntry {
		entry.Background = 0
		return entry
	}).Build()
	if err != nil {
		style = baseStyle
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
