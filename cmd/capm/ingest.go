package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"FinBeta/internal/di"
	"FinBeta/internal/domain/models"
	internalrepo "FinBeta/internal/repository"
	"FinBeta/internal/service/yahoo"
	"FinBeta/pkg/logger"
	"FinBeta/pkg/util"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest TICKER...",
	Short: "Copy daily closes from Yahoo into ClickHouse",
	Long: `Downloads daily closes for each ticker and stores them in the ClickHouse
price table, creating it if needed. The clickhouse source then serves
estimations from the stored data.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var ingestPeriod string

func init() {
	ingestCmd.Flags().StringVar(&ingestPeriod, "period", "max", "lookback period to download")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Fetcher.Source = "clickhouse"
	cfg.ClickHouse.InitSchema = true

	log, err := di.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	ch, cleanup, err := di.ProvideClickHouseClient(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	src := yahoo.NewClient(di.ProvideHTTPClient(cfg), cfg.Fetcher.Yahoo.Hosts, log)
	store := internalrepo.NewCHPriceStore(ch, cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	tickers := make([]string, len(args))
	for i, a := range args {
		tickers[i] = util.NormalizeTicker(a)
	}
	series, err := src.Fetch(ctx, tickers, ingestPeriod, models.IntervalDaily)
	if err != nil {
		return err
	}
	for _, t := range tickers {
		n, err := store.SaveDaily(ctx, series[t])
		if err != nil {
			return fmt.Errorf("store %s: %w", t, err)
		}
		log.Info("ingested", logger.String("ticker", t), logger.Int("rows", n))
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d rows\n", t, n)
	}
	return nil
}
