package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"FinBeta/internal/domain/models"
	domrepo "FinBeta/internal/domain/repository"
	pkgch "FinBeta/pkg/clickhouse"
	"FinBeta/pkg/logger"
	"FinBeta/pkg/util"
)

// CHPriceStore serves daily closes stored in ClickHouse, resampled to the
// requested interval by taking the last close of each period.
type CHPriceStore struct {
	db    *sql.DB
	table string
	log   *logger.Logger
	now   func() time.Time
}

var _ domrepo.MarketData = (*CHPriceStore)(nil)

func NewCHPriceStore(ch *pkgch.Client, table string, log *logger.Logger) *CHPriceStore {
	return &CHPriceStore{db: ch.DB(), table: table, log: log, now: time.Now}
}

// PriceSchema returns the DDL for the daily price table.
func PriceSchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
            ticker LowCardinality(String),
            day Date,
            close Float64,
            adj_close Float64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (ticker, day)`, database, table),
	}
}

func bucketExpr(interval models.Interval) (string, error) {
	switch interval {
	case models.IntervalDaily:
		return "day", nil
	case models.IntervalWeekly:
		return "toMonday(day)", nil
	case models.IntervalMonthly:
		return "toStartOfMonth(day)", nil
	default:
		return "", models.NewUnsupportedIntervalError("clickhouse bucket", string(interval))
	}
}

func priceQuery(table string, interval models.Interval) (string, error) {
	bucket, err := bucketExpr(interval)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
        SELECT %s AS bucket, argMax(if(adj_close > 0, adj_close, close), day) AS px
        FROM %s FINAL
        WHERE ticker = ? AND day >= ? AND day <= ?
        GROUP BY bucket
        ORDER BY bucket ASC`, bucket, table), nil
}

func (s *CHPriceStore) Fetch(ctx context.Context, tickers []string, period string, interval models.Interval) (map[string]models.TimeSeries, error) {
	q, err := priceQuery(s.table, interval)
	if err != nil {
		return nil, err
	}
	to := util.Date(s.now())
	from, err := util.PeriodStart(to, period)
	if err != nil {
		return nil, models.NewFetchError(strings.Join(tickers, ","), err)
	}

	out := make(map[string]models.TimeSeries, len(tickers))
	for _, t := range tickers {
		start := time.Now()
		ts, err := s.load(ctx, q, t, from, to)
		if err != nil {
			s.log.Error("clickhouse price query failed",
				logger.String("table", s.table), logger.String("ticker", t), logger.Error(err))
			return nil, models.NewFetchError(t, err)
		}
		if ts.Len() == 0 {
			return nil, models.NewFetchError(t, fmt.Errorf("no stored prices between %s and %s",
				from.Format(time.DateOnly), to.Format(time.DateOnly)))
		}
		s.log.Debug("clickhouse price query ok",
			logger.String("ticker", t), logger.Int("rows", ts.Len()), logger.Duration("duration_ms", time.Since(start)))
		out[t] = ts
	}
	return out, nil
}

func (s *CHPriceStore) load(ctx context.Context, q, ticker string, from, to time.Time) (models.TimeSeries, error) {
	rows, err := s.db.QueryContext(ctx, q, ticker, from, to)
	if err != nil {
		return models.TimeSeries{}, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	ts := models.TimeSeries{Ticker: ticker}
	for rows.Next() {
		var (
			day time.Time
			px  float64
		)
		if err := rows.Scan(&day, &px); err != nil {
			return models.TimeSeries{}, fmt.Errorf("scan: %w", err)
		}
		ts.Points = append(ts.Points, models.Observation{Time: util.Date(day), Value: px})
	}
	if err := rows.Err(); err != nil {
		return models.TimeSeries{}, fmt.Errorf("rows: %w", err)
	}
	return ts, nil
}

// SaveDaily inserts daily closes for one ticker in a single batch.
// Rows with a missing value are skipped; re-inserting a day replaces it.
func (s *CHPriceStore) SaveDaily(ctx context.Context, series models.TimeSeries) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (ticker, day, close, adj_close)", s.table))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, p := range series.Points {
		if p.Missing() {
			continue
		}
		if _, err := stmt.ExecContext(ctx, series.Ticker, util.Date(p.Time), p.Value, p.Value); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("append row: %w", err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.log.Info("clickhouse prices saved", logger.String("ticker", series.Ticker), logger.Int("rows", n))
	return n, nil
}
