// Command portalctl runs operator tasks against the portal database.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-portal-api/internal/app"
	"github.com/noah-isme/campus-portal-api/internal/config"
	"github.com/noah-isme/campus-portal-api/internal/database"
)

// session bundles what every subcommand needs once configuration is loaded.
type session struct {
	cfg      config.Config
	db       *gorm.DB
	services app.Services
	logger   zerolog.Logger
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "portalctl",
		Short:         "Operate the campus portal",
		Long:          "portalctl migrates the schema, registers users, posts announcements and mints development tokens.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	boot := func(cmd *cobra.Command) (*session, error) {
		return bootstrap(cmd.ErrOrStderr(), verbose)
	}

	rootCmd.AddCommand(newMigrateCmd(boot))
	rootCmd.AddCommand(newAddUserCmd(boot))
	rootCmd.AddCommand(newAnnounceCmd(boot))
	rootCmd.AddCommand(newTokenCmd(boot))

	return rootCmd
}

type bootFunc func(cmd *cobra.Command) (*session, error)

func bootstrap(logOutput io.Writer, verbose bool) (*session, error) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: logOutput}).Level(level).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// Cache and events stay disabled; the API process owns those connections.
	services := app.NewServices(cfg, app.Infrastructure{DB: db}, logger)

	return &session{cfg: cfg, db: db, services: services, logger: logger}, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
