package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"yield-forecaster/internal/config"
	"yield-forecaster/internal/logging"
	"yield-forecaster/internal/marketdata"
	"yield-forecaster/internal/simulation"
	"yield-forecaster/internal/store"
	"yield-forecaster/pkg/utils"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Store      store.ForecastStore
	Forecaster *simulation.Forecaster

	// ForecasterOptions is kept so commands can rebuild the forecaster
	// with a seeded source for reproducible runs.
	ForecasterOptions simulation.Options
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize the forecast journal
	if cfg.Store.Enabled {
		forecastStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize forecast journal, history will be unavailable")
		} else {
			app.Store = forecastStore
			logger.Debug().Str("path", cfg.Store.Path).Msg("Forecast journal initialized")
		}
	}

	retry := utils.DefaultRetryConfig()
	if cfg.MarketData.RetryAttempts > 0 {
		retry.MaxAttempts = cfg.MarketData.RetryAttempts
	}

	app.ForecasterOptions = simulation.Options{
		Defaults: simulation.Defaults{
			Iterations:      cfg.Simulation.DefaultIterations,
			ConfidenceLevel: cfg.Simulation.DefaultConfidence,
		},
		Provider:  buildProvider(cfg.MarketData),
		Predictor: simulation.NewWeightedSumPredictor(),
		Retry:     retry,
		Logger:    logger,
	}
	app.Forecaster = simulation.NewForecaster(app.ForecasterOptions)

	rootCmd := &cobra.Command{
		Use:   "forecaster",
		Short: "Monte Carlo yield-distribution simulator",
		Long: `Forecaster draws repeated random samples of a stochastic yield variable
and reduces them to summary statistics: mean, extrema, standard deviation,
percentile confidence bounds and success probability.

Use 'forecaster run' for a single scenario or 'forecaster batch' for a
scenario file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/yield-forecaster)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newBatchCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))

	return rootCmd
}

// buildProvider selects the market-data provider from configuration. "none"
// returns nil, which makes every forecast fall back to synthetic data.
func buildProvider(cfg config.MarketDataConfig) marketdata.Provider {
	switch cfg.Source {
	case "static":
		return marketdata.NewStaticProvider(cfg.StaticVolatility, cfg.StaticPrice)
	case "csv":
		return marketdata.NewCSVProvider(cfg.CSVPath)
	default:
		return nil
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("yield-forecaster v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Simulation")
			output.Printf("  Iterations:  %d\n", app.Config.Simulation.DefaultIterations)
			output.Printf("  Confidence:  %.2f\n", app.Config.Simulation.DefaultConfidence)
			output.Printf("  Volatility:  %.2f\n", app.Config.Simulation.DefaultVolatility)
			output.Println()
			output.Bold("Market Data")
			output.Printf("  Source:      %s\n", app.Config.MarketData.Source)
			if app.Config.MarketData.CSVPath != "" {
				output.Printf("  CSV Path:    %s\n", app.Config.MarketData.CSVPath)
			}
			output.Println()
			output.Bold("Store")
			output.Printf("  Enabled:     %v\n", app.Config.Store.Enabled)
			output.Printf("  Path:        %s\n", app.Config.Store.Path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}
