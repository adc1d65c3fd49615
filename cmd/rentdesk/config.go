package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/rentdesk/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the rentdesk configuration file",
}

var configInitFlags struct {
	project bool
	force   bool
	apiURL  string
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Create a rentdesk configuration file with sensible defaults.

By default, creates a global config at ~/.config/rentdesk/rentdesk.yml.
Use --project to create a project-local config in the current directory.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "api_base_url:    %s\n", cfg.APIBaseURL)
		fmt.Fprintf(out, "data_dir:        %s\n", cfg.DataDir)
		fmt.Fprintf(out, "language:        %s\n", cfg.Language)
		fmt.Fprintf(out, "log_level:       %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_file:        %s\n", cfg.LogFile)
		fmt.Fprintf(out, "request_timeout: %s\n", cfg.RequestTimeout)
		fmt.Fprintf(out, "read_retries:    %d\n", cfg.ReadRetries)
		fmt.Fprintf(out, "journal:         %t\n", cfg.Journal)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	configInitCmd.Flags().BoolVarP(&configInitFlags.force, "force", "f", false, "Overwrite existing config file")
	configInitCmd.Flags().StringVar(&configInitFlags.apiURL, "api-url", "http://localhost:8080/api", "Backend base URL to write")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if configInitFlags.project {
		targetPath = config.ProjectPath()
	}

	if !configInitFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := &config.Config{
		APIBaseURL:     configInitFlags.apiURL,
		DataDir:        ".rentdesk",
		LogLevel:       "info",
		RequestTimeout: 30 * time.Second,
		ReadRetries:    2,
		Journal:        true,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var err error
	if configInitFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Config written to: %s\n\n", targetPath)
	fmt.Println("Run 'rentdesk vehicle new' to get started.")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
