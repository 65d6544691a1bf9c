package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"FinBeta/internal/di"
	"FinBeta/internal/domain/models"
	"FinBeta/internal/report"
	"FinBeta/internal/usecase"
	"FinBeta/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "capm [asset] [market] [riskfree]",
	Short: "Estimate CAPM Alpha and Beta of an asset against a market benchmark",
	Long: `Downloads prices for the asset, the market benchmark and a risk-free yield,
regresses asset excess returns on market excess returns and prints Beta,
annualized Alpha and R-squared. Omitted tickers come from the config file.`,
	Args:          cobra.MaximumNArgs(3),
	RunE:          runEstimate,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	period     string
	interval   string
	source     string
	asJSON     bool
	summary    bool
	timeout    time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "price source: yahoo or clickhouse (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline")
	rootCmd.Flags().StringVar(&period, "period", "", "lookback period, e.g. 1y, 5y, 6mo, ytd, max")
	rootCmd.Flags().StringVar(&interval, "interval", "", "sampling interval: daily, weekly or monthly")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	rootCmd.Flags().BoolVar(&summary, "summary", false, "include the full regression summary")
}

// loadConfig reads the config file if present and applies CLI overrides.
// Logs go to stderr so stdout carries only the report.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(configPath, true)
	if err != nil {
		return nil, err
	}
	if source != "" {
		cfg.Fetcher.Source = source
	}
	cfg.Log.Output = "stderr"
	cfg.Log.Format = "console"
	cfg.Metrics.Enabled = false
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func requestFromArgs(cfg *config.Config, args []string) models.CAPMRequest {
	r := models.CAPMRequest{
		Asset:    cfg.Estimator.Asset,
		Market:   cfg.Estimator.Market,
		RiskFree: cfg.Estimator.RiskFree,
		Period:   cfg.Estimator.Period,
		Interval: cfg.Estimator.Interval,
	}
	for i, dst := range []*string{&r.Asset, &r.Market, &r.RiskFree} {
		if i < len(args) {
			*dst = args[i]
		}
	}
	if period != "" {
		r.Period = period
	}
	if interval != "" {
		r.Interval = interval
	}
	return r
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	req, err := usecase.BuildRequest(requestFromArgs(cfg, args))
	if err != nil {
		return err
	}

	uc, cleanup, err := di.InitializeEstimateUseCase(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	res, err := uc.Estimate(ctx, req)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func printResult(w io.Writer, res models.CAPMResult) error {
	if asJSON {
		if !summary {
			res.Summary = nil
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return report.Write(w, res, report.Options{Summary: summary})
}
