package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"yield-forecaster/internal/models"
	"yield-forecaster/internal/store"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved forecast runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Store == nil {
				return fmt.Errorf("forecast journal is disabled")
			}

			strategy, _ := cmd.Flags().GetString("strategy")
			limit, _ := cmd.Flags().GetInt("limit")

			records, err := app.Store.GetForecasts(cmd.Context(), store.ForecastFilter{
				StrategyClass: models.StrategyClass(strategy),
				Limit:         limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}

			if len(records) == 0 {
				output.Dim("No saved forecasts")
				return nil
			}

			table := NewTable(output, "ID", "NAME", "STRATEGY", "ITER", "MEAN", "SUCCESS", "DATA", "WHEN")
			for _, rec := range records {
				data := "market"
				if rec.Result.UsedSyntheticData {
					data = "synthetic"
				}
				table.AddRow(
					fmt.Sprintf("%d", rec.ID),
					rec.ScenarioName,
					string(rec.Result.StrategyClass),
					fmt.Sprintf("%d", rec.Result.Iterations),
					output.FormatYield(rec.Result.MeanYield),
					fmt.Sprintf("%.0f%%", rec.Result.SuccessProbability*100),
					data,
					rec.CreatedAt.Format("2006-01-02 15:04"),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("strategy", "", "filter by strategy class")
	cmd.Flags().Int("limit", 20, "maximum rows")

	return cmd
}
