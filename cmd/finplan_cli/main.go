package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/flowlance/finplan_backend/internal/core/services"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/middleware"
	"github.com/flowlance/finplan_backend/internal/platform/config"
	"github.com/flowlance/finplan_backend/internal/repositories/database/pgsql"
	"github.com/flowlance/finplan_backend/internal/utils"
	"github.com/flowlance/finplan_backend/pkg/database"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "finplan_cli",
		Short: "Operational tooling for the finplan backend",
	}

	root.AddCommand(newMaterializeCmd())
	root.AddCommand(newRefreshRatesCmd())
	root.AddCommand(newForecastCmd())
	root.AddCommand(newHashPasswordCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config, connects to the database and builds the service
// container. The returned cleanup closes the pool.
func bootstrap(ctx context.Context) (*portssvc.ServiceContainer, context.Context, func(), error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos)

	ctx = middleware.ContextWithLogger(ctx, logger)
	if err := container.Converter.LoadRates(ctx); err != nil {
		database.ClosePgxPool(dbPool)
		return nil, nil, nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}

	return container, ctx, func() { database.ClosePgxPool(dbPool) }, nil
}

func newMaterializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "materialize",
		Short: "Run one recurring-transaction materializer pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, ctx, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := container.Recurring.Materialize(ctx, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("created=%d advanced=%d resumable=%d\n",
				result.CreatedCount, result.AdvancedCount, result.ResumableCount)
			return nil
		},
	}
}

func newRefreshRatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-rates",
		Short: "Replace the exchange rate table from the configured source",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, ctx, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result := container.Converter.RefreshRates(ctx)
			if !result.Success {
				return fmt.Errorf("refresh failed: %s", result.Message)
			}
			fmt.Printf("refreshed %d rates\n", result.RateCount)
			return nil
		},
	}
}

func newForecastCmd() *cobra.Command {
	var currency string
	var months int

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print the monthly revenue forecast",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, ctx, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			forecast, err := container.Forecast.GenerateForecast(ctx, currency, months, time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("forecast in %s (slope %.2f/month)\n", forecast.CurrencyCode, forecast.Slope)
			for _, point := range forecast.Points {
				if point.Actual != nil {
					fmt.Printf("  %s  actual %.2f  fitted %.2f\n", point.PeriodLabel, *point.Actual, *point.Predicted)
				} else {
					fmt.Printf("  %s  projected %.2f\n", point.PeriodLabel, *point.Predicted)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "USD", "reporting currency")
	cmd.Flags().IntVar(&months, "months", 3, "months to project past the current one")
	return cmd
}

// newHashPasswordCmd hashes an operator password for APP_PASSWORD_HASH.
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}
