package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"yield-forecaster/internal/models"
	"yield-forecaster/internal/simulation"
)

func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single yield forecast",
		Long: `Run a Monte Carlo yield forecast for one scenario.

Optional boost flags are only applied when set; leaving them out is
different from passing zero. Use --seed for a reproducible run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			params, err := paramsFromFlags(cmd, app)
			if err != nil {
				return err
			}

			forecaster := app.Forecaster
			if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
				opts := app.ForecasterOptions
				opts.Source = simulation.NewSource(seed)
				forecaster = simulation.NewForecaster(opts)
			}

			result, err := forecaster.Forecast(cmd.Context(), params)
			if err != nil {
				return err
			}

			if save, _ := cmd.Flags().GetBool("save"); save && app.Store != nil {
				name, _ := cmd.Flags().GetString("name")
				if err := app.Store.SaveForecast(cmd.Context(), name, params, result); err != nil {
					app.Logger.Warn().Err(err).Msg("Failed to save forecast to journal")
				}
			}

			if output.IsJSON() {
				return output.JSON(result)
			}
			printResult(output, result)
			return nil
		},
	}

	cmd.Flags().String("strategy", string(models.StrategyBalanced), "strategy class (aggressive, balanced, defensive, ecoWeighted)")
	cmd.Flags().Float64("volatility", 0, "market volatility (default from config)")
	cmd.Flags().String("hedge-asset", "", "hedge asset symbol")
	cmd.Flags().Float64("hedge-ratio", 0, "hedge ratio in [0,1]")
	cmd.Flags().Bool("eco-focus", false, "enable eco focus")
	cmd.Flags().Float64("eco-multiplier", 0, "eco boost multiplier")
	cmd.Flags().Float64("sentiment", 0, "sentiment score in [0,1]")
	cmd.Flags().Float64("ai-boost", 0, "explicit AI boost score")
	cmd.Flags().Int("iterations", 0, "sample count (default from config)")
	cmd.Flags().Float64("confidence", 0, "confidence level in (0,1) (default from config)")
	cmd.Flags().Int64("seed", 0, "random seed for reproducible runs (0 = time-seeded)")
	cmd.Flags().Bool("save", false, "save the result to the forecast journal")
	cmd.Flags().String("name", "", "scenario name used when saving")

	return cmd
}

// paramsFromFlags builds scenario parameters, distinguishing unset optional
// flags from explicit zeros via cobra's Changed tracking.
func paramsFromFlags(cmd *cobra.Command, app *App) (models.ScenarioParams, error) {
	strategy, _ := cmd.Flags().GetString("strategy")
	volatility, _ := cmd.Flags().GetFloat64("volatility")
	hedgeAsset, _ := cmd.Flags().GetString("hedge-asset")
	hedgeRatio, _ := cmd.Flags().GetFloat64("hedge-ratio")
	ecoFocus, _ := cmd.Flags().GetBool("eco-focus")
	iterations, _ := cmd.Flags().GetInt("iterations")
	confidence, _ := cmd.Flags().GetFloat64("confidence")

	if !cmd.Flags().Changed("volatility") {
		volatility = app.Config.Simulation.DefaultVolatility
	}

	params := models.ScenarioParams{
		StrategyClass:   models.StrategyClass(strategy),
		Volatility:      volatility,
		HedgeAsset:      hedgeAsset,
		HedgeRatio:      hedgeRatio,
		EcoFocus:        ecoFocus,
		Iterations:      iterations,
		ConfidenceLevel: confidence,
	}

	if !params.StrategyClass.Valid() {
		return params, fmt.Errorf("unknown strategy class: %s", strategy)
	}

	if cmd.Flags().Changed("eco-multiplier") {
		v, _ := cmd.Flags().GetFloat64("eco-multiplier")
		params.EcoBoostMultiplier = &v
	}
	if cmd.Flags().Changed("sentiment") {
		v, _ := cmd.Flags().GetFloat64("sentiment")
		params.SentimentBoost = &v
	}
	if cmd.Flags().Changed("ai-boost") {
		v, _ := cmd.Flags().GetFloat64("ai-boost")
		params.AIBoost = &v
	}

	return params, nil
}

func printResult(output *Output, result *models.ForecastResult) {
	output.Bold("Forecast (%s, %d iterations)", result.StrategyClass, result.Iterations)
	output.Printf("  Mean Yield:       %s\n", output.FormatYield(result.MeanYield))
	output.Printf("  Raw Mean:         %.2f%%\n", result.RawMeanYield)
	output.Printf("  Range:            %.2f%% .. %.2f%%\n", result.MinYield, result.MaxYield)
	output.Printf("  Std Dev:          %.2f\n", result.YieldStdDev)
	output.Printf("  %.0f%% Confidence:   [%.2f%%, %.2f%%]\n", result.ConfidenceLevel*100, result.ConfidenceLower, result.ConfidenceUpper)
	output.Printf("  Success Prob:     %.1f%%\n", result.SuccessProbability*100)
	output.Println()
	output.Dim("  Adjustments: strategy %+.2f, eco %+.2f, sentiment %+.2f, ai %+.2f",
		result.StrategyAdjustment, result.EcoBoost, result.SentimentBoost, result.AIBoost)
	if result.UsedSyntheticData {
		output.Warning("  Synthetic market data used")
	}
}

// batchFile mirrors the TOML scenario-file layout.
type batchFile struct {
	Scenarios []struct {
		Name               string   `mapstructure:"name"`
		Strategy           string   `mapstructure:"strategy"`
		Volatility         float64  `mapstructure:"volatility"`
		HedgeAsset         string   `mapstructure:"hedge_asset"`
		HedgeRatio         float64  `mapstructure:"hedge_ratio"`
		EcoFocus           bool     `mapstructure:"eco_focus"`
		EcoBoostMultiplier *float64 `mapstructure:"eco_boost_multiplier"`
		SentimentBoost     *float64 `mapstructure:"sentiment_boost"`
		AIBoost            *float64 `mapstructure:"ai_boost"`
		Iterations         int      `mapstructure:"iterations"`
		Confidence         float64  `mapstructure:"confidence"`
	} `mapstructure:"scenarios"`
}

func newBatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <scenario-file.toml>",
		Short: "Run forecasts for a scenario file concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			scenarios, err := loadScenarioFile(args[0], app)
			if err != nil {
				return err
			}
			if len(scenarios) == 0 {
				return fmt.Errorf("no scenarios in %s", args[0])
			}

			workers, _ := cmd.Flags().GetInt("workers")
			if workers == 0 {
				workers = app.Config.Simulation.BatchWorkers
			}

			results := simulation.RunBatch(cmd.Context(), app.Forecaster, scenarios, workers)

			save, _ := cmd.Flags().GetBool("save")
			for i, res := range results {
				if res.Err != nil {
					continue
				}
				if save && app.Store != nil {
					if err := app.Store.SaveForecast(cmd.Context(), res.Name, scenarios[i].Params, res.Result); err != nil {
						app.Logger.Warn().Err(err).Str("scenario", res.Name).Msg("Failed to save forecast to journal")
					}
				}
			}

			if output.IsJSON() {
				return output.JSON(results)
			}
			printBatchResults(output, results)
			return nil
		},
	}

	cmd.Flags().Int("workers", 0, "worker count (0 = use config, then CPU count)")
	cmd.Flags().Bool("save", false, "save results to the forecast journal")

	return cmd
}

func loadScenarioFile(path string, app *App) ([]simulation.Scenario, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("scenario file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var file batchFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}

	scenarios := make([]simulation.Scenario, 0, len(file.Scenarios))
	for _, sc := range file.Scenarios {
		volatility := sc.Volatility
		if volatility == 0 {
			volatility = app.Config.Simulation.DefaultVolatility
		}
		scenarios = append(scenarios, simulation.Scenario{
			Name: sc.Name,
			Params: models.ScenarioParams{
				StrategyClass:      models.StrategyClass(sc.Strategy),
				Volatility:         volatility,
				HedgeAsset:         sc.HedgeAsset,
				HedgeRatio:         sc.HedgeRatio,
				EcoFocus:           sc.EcoFocus,
				EcoBoostMultiplier: sc.EcoBoostMultiplier,
				SentimentBoost:     sc.SentimentBoost,
				AIBoost:            sc.AIBoost,
				Iterations:         sc.Iterations,
				ConfidenceLevel:    sc.Confidence,
			},
		})
	}
	return scenarios, nil
}

func printBatchResults(output *Output, results []simulation.BatchResult) {
	table := NewTable(output, "SCENARIO", "STRATEGY", "MEAN", "CI", "SUCCESS", "STATUS")
	for _, res := range results {
		if res.Err != nil {
			table.AddRow(res.Name, "-", "-", "-", "-", output.ColoredString(ColorRed, res.Err.Error()))
			continue
		}
		r := res.Result
		table.AddRow(
			res.Name,
			string(r.StrategyClass),
			output.FormatYield(r.MeanYield),
			fmt.Sprintf("[%.1f, %.1f]", r.ConfidenceLower, r.ConfidenceUpper),
			fmt.Sprintf("%.0f%%", r.SuccessProbability*100),
			output.ColoredString(ColorGreen, "ok"),
		)
	}
	table.Render()
}
