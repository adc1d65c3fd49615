package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/rentdesk/internal/config"
	"github.com/mark3labs/rentdesk/internal/logger"
	"github.com/mark3labs/rentdesk/internal/prefs"
	"github.com/mark3labs/rentdesk/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀█ █▀▀ █▄ █ ▀█▀ █▀▄ █▀▀ █▀ █▄▀"
	logoText2 = "█▀▄ ██▄ █ ▀█  █  █▄▀ ██▄ ▄█ █ █"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootFlags struct {
	apiURL   string
	dataDir  string
	lang     string
	logLevel string
	logFile  string
}

var rootCmd = &cobra.Command{
	Use:   "rentdesk",
	Short: "Terminal back office for a vehicle rental API",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

rentdesk creates and edits vehicles, reservations and clients of a rental
backend through step-by-step wizards. Every step is validated before the
next one opens; reservation prices are computed from the vehicle's daily
rate as dates change. Submissions are recorded in a local journal.`

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.apiURL, "api-url", "", "Backend base URL (default: from config or RENTDESK_API_BASE_URL)")
	pf.StringVar(&rootFlags.dataDir, "data-dir", "", "Data directory for preferences and journal (default: .rentdesk)")
	pf.StringVar(&rootFlags.lang, "lang", "", "Interface language: en or fr (default: saved preference)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(newRecordCmd("vehicle", "vehicles"))
	rootCmd.AddCommand(newRecordCmd("reservation", "reservations"))
	rootCmd.AddCommand(newRecordCmd("client", "clients"))
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves configuration with flags applied on top and sets up
// logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if rootFlags.apiURL != "" {
		cfg.APIBaseURL = rootFlags.apiURL
	}
	if rootFlags.dataDir != "" {
		cfg.DataDir = rootFlags.dataDir
	}
	if rootFlags.lang != "" {
		cfg.Language = rootFlags.lang
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	if rootFlags.logFile != "" {
		cfg.LogFile = rootFlags.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}
	return cfg, nil
}

// language picks the interface language: flag or config first, then the
// saved preference.
func language(cfg *config.Config, p *prefs.Prefs) string {
	if cfg.Language != "" {
		return cfg.Language
	}
	return p.AppLanguage
}
