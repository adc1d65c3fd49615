package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/rentdesk/internal/config"
	"github.com/mark3labs/rentdesk/internal/form"
	"github.com/mark3labs/rentdesk/internal/gateway"
	"github.com/mark3labs/rentdesk/internal/i18n"
	"github.com/mark3labs/rentdesk/internal/journal"
	"github.com/mark3labs/rentdesk/internal/logger"
	"github.com/mark3labs/rentdesk/internal/prefs"
	"github.com/mark3labs/rentdesk/internal/rental"
	"github.com/mark3labs/rentdesk/internal/tui/theme"
	"github.com/mark3labs/rentdesk/internal/tui/wizard"
	"github.com/spf13/cobra"
)

// newRecordCmd builds the "<name> new" and "<name> edit <id>" commands for
// one resource.
func newRecordCmd(name, resource string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Create or edit %s", resource),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "new",
		Short: fmt.Sprintf("Open the wizard for a new %s", name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd.Context(), resource, "")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "edit <id>",
		Short: fmt.Sprintf("Open the wizard pre-filled with an existing %s", name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd.Context(), resource, args[0])
		},
	})
	return cmd
}

func runWizard(ctx context.Context, resource, id string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p := prefs.Load(cfg.DataDir)
	lang := language(cfg, p)

	catalog, err := i18n.Default()
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}

	client, err := gateway.New(cfg.APIBaseURL,
		gateway.WithToken(p.Token),
		gateway.WithTimeout(cfg.RequestTimeout),
		gateway.WithReadRetries(cfg.ReadRetries),
	)
	if err != nil {
		return err
	}

	var fleet rental.Fleet
	if resource == "reservations" {
		vehicles, err := client.List(ctx, "vehicles")
		if err != nil {
			return fmt.Errorf("failed to load vehicles: %w", err)
		}
		fleet = rental.FleetFromRecords(vehicles)
		logger.Debug("Loaded %d vehicle(s) for reservation pricing", len(fleet))
	}

	schema, err := rental.Schema(resource, fleet)
	if err != nil {
		return err
	}

	opts := wizard.Options{
		Lang:        lang,
		Catalog:     catalog,
		SidebarOpen: p.SidebarOpen,
		OnSidebarToggle: func(open bool) {
			p.SidebarOpen = open
			if err := prefs.Save(cfg.DataDir, p); err != nil {
				logger.Warn("Failed to save sidebar preference: %v", err)
			}
		},
		Context: ctx,
	}

	var existing form.Record
	if id != "" {
		existing, err = client.Get(ctx, resource, schema.Singular, id)
		if errors.Is(err, gateway.ErrNotFound) {
			_, err := wizard.Run(wizard.NewNotFound(schema.Title+" #"+id, opts))
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to load %s %s: %w", schema.Singular, id, err)
		}
	}

	var gw form.Gateway = client
	if j := openJournal(ctx, cfg); j != nil {
		defer func() { _ = j.Close() }()
		gw = journal.NewGateway(client, j)
	}

	ctl := form.NewController(schema, gw, form.WithMessages(catalog.Messages(lang)))
	if existing != nil {
		ctl.Initialize(existing)
	}

	res, err := wizard.Run(wizard.New(ctl, opts))
	if err != nil {
		return err
	}
	if res.Saved {
		saved := catalog.T(lang, "wizard.saved", "Saved", "")
		fmt.Println(theme.NewCatppuccinMocha().S().Success.Render(
			fmt.Sprintf("✓ %s: %s #%s", saved, schema.Title, form.RecordID(res.Record))))
	}
	return nil
}

// openJournal starts the submission journal. Failures are logged and the
// wizard runs without it.
func openJournal(ctx context.Context, cfg *config.Config) *journal.Journal {
	if !cfg.Journal {
		return nil
	}
	j, err := journal.Open(ctx, journalDir(cfg))
	if err != nil {
		logger.Warn("Journal unavailable, submissions will not be recorded: %v", err)
		return nil
	}
	return j
}

func journalDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "journal")
}
