package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"defikit/internal/config"
	"defikit/internal/database"
	"defikit/internal/numeric"
	"defikit/internal/oracle"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

// Execute builds the command tree and runs it.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "defikit",
		Short:         "Concentrated liquidity and PT/YT calculators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", ".", "directory containing config.yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "debug, info, warn or error")

	root.AddCommand(serveCmd(a), clmmCmd(a), ptytCmd(a), scenariosCmd(a))
	return root
}

func (a *app) init() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
	}
	a.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	a.cfg = cfg
	a.logger.Debug("Config loaded", "path", a.configPath, "database", cfg.Database.Enabled)
	return nil
}

func (a *app) oracle() *oracle.StaticOracle {
	return oracle.NewStaticOracle(a.logger, a.cfg.Oracle.Prices)
}

// repository connects to the scenario store and ensures its schema.
func (a *app) repository(ctx context.Context) (*database.PostgresRepository, error) {
	if !a.cfg.Database.Enabled {
		return nil, fmt.Errorf("scenario store disabled: set database.enabled")
	}
	repo, err := database.NewPostgresRepository(ctx, a.cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open scenario store: %w", err)
	}
	if err := repo.Migrate(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("migrate scenario store: %w", err)
	}
	return repo, nil
}

// nudge applies an up/down step flag to v. An empty dir leaves v unchanged.
func nudge(v float64, dir string) (float64, error) {
	switch lower(dir) {
	case "":
		return v, nil
	case "up":
		return numeric.Nudge(v, 0, true, 0), nil
	case "down":
		return numeric.Nudge(v, 0, false, 0), nil
	default:
		return v, fmt.Errorf("nudge direction must be up or down, got %q", dir)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
