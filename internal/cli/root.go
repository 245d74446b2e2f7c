// Package cli provides the residents command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"residents/internal/config"
	"residents/internal/engine"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "residents",
		Short: "Singapore residents dashboard",
		Long: `residents derives population views from the Singapore residents dataset
(Year, Residents, Count): category series, female/male ratios per ethnic group
and annual growth rates.

The views are served as a JSON API, printed as reports or exported to a
workbook and charts.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, used, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			if used != "" {
				logger.Debug("using config file", "path", used)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./residents.yaml)")
	pf.StringP("data", "d", "", "Path to the residents CSV dataset")
	pf.IntSlice("ratio-years", nil, "Years sampled by the gender-ratio view")
	pf.Int("ratio-precision", engine.RatioPrecision, "Decimal places for ratios")
	pf.Int("growth-precision", engine.GrowthPrecision, "Decimal places for growth rates")
	pf.String("growth-category", "", "Category of the growth view")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.String("log-format", "", "Log format (text|json)")
	pf.StringP("output", "o", "", "Output format (table|json|csv|markdown)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "csv", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewReportCommand())
	rootCmd.AddCommand(NewExportCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		DataPath:        config.DefaultDataPath,
		Addr:            config.DefaultAddr,
		RatioYears:      config.DefaultRatioYears,
		RatioPrecision:  engine.RatioPrecision,
		GrowthPrecision: engine.GrowthPrecision,
		GrowthCategory:  config.DefaultGrowthCategory,
		CacheTTL:        config.DefaultCacheTTL,
		LogLevel:        config.DefaultLogLevel,
		LogFormat:       config.DefaultLogFormat,
		Output:          config.DefaultOutput,
	}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// viewOptions maps the configuration onto the dashboard view options.
func viewOptions(cfg *config.Config) engine.ViewOptions {
	return engine.ViewOptions{
		RatioYears:      cfg.RatioYears,
		RatioPrecision:  cfg.RatioPrecision,
		GrowthPrecision: cfg.GrowthPrecision,
		GrowthCategory:  engine.Raw(cfg.GrowthCategory),
	}
}

// loadTable reads the configured dataset.
func loadTable(ctx context.Context) (*engine.Table, *config.Config, error) {
	cfg := GetConfig(ctx)
	t, err := engine.LoadFile(cfg.DataPath, GetLogger(ctx))
	if err != nil {
		return nil, nil, err
	}
	return t, cfg, nil
}
