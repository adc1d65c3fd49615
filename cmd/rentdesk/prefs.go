package main

import (
	"fmt"
	"strings"

	"github.com/mark3labs/rentdesk/internal/prefs"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change saved preferences",
	Long: `Show or change the preferences saved in <data_dir>/prefs.json:
the interface language, whether the step sidebar is open and the API token.`,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(false, func(p *prefs.Prefs) error {
			token := "(none)"
			if p.Token != "" {
				token = maskToken(p.Token)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "language: %s\n", p.AppLanguage)
			fmt.Fprintf(out, "sidebar:  %s\n", onOff(p.SidebarOpen))
			fmt.Fprintf(out, "token:    %s\n", token)
			return nil
		})
	},
}

var prefsLanguageCmd = &cobra.Command{
	Use:       "language <" + strings.Join(prefs.Languages, "|") + ">",
	Short:     "Set the interface language",
	Args:      cobra.ExactArgs(1),
	ValidArgs: prefs.Languages,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(true, func(p *prefs.Prefs) error {
			return p.SetLanguage(args[0])
		})
	},
}

var prefsSidebarCmd = &cobra.Command{
	Use:       "sidebar <on|off>",
	Short:     "Open or close the step sidebar by default",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPrefs(true, func(p *prefs.Prefs) error {
			switch args[0] {
			case "on":
				p.SidebarOpen = true
			case "off":
				p.SidebarOpen = false
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			return nil
		})
	},
}

var prefsTokenFlags struct {
	clear bool
}

var prefsTokenCmd = &cobra.Command{
	Use:   "token [token]",
	Short: "Set the bearer token sent to the backend",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if prefsTokenFlags.clear == (len(args) == 1) {
			return fmt.Errorf("pass either a token or --clear")
		}
		return withPrefs(true, func(p *prefs.Prefs) error {
			if prefsTokenFlags.clear {
				p.Token = ""
				return nil
			}
			p.Token = strings.TrimSpace(args[0])
			return nil
		})
	},
}

func init() {
	prefsTokenCmd.Flags().BoolVar(&prefsTokenFlags.clear, "clear", false, "Remove the saved token")

	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsLanguageCmd)
	prefsCmd.AddCommand(prefsSidebarCmd)
	prefsCmd.AddCommand(prefsTokenCmd)
}

// withPrefs loads the preferences, applies fn and saves them when save is
// set.
func withPrefs(save bool, fn func(p *prefs.Prefs) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p := prefs.Load(cfg.DataDir)
	if err := fn(p); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := prefs.Save(cfg.DataDir, p); err != nil {
		return err
	}
	fmt.Printf("Preferences saved to %s\n", prefs.Path(cfg.DataDir))
	return nil
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
