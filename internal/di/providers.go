package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"FinBeta/internal/domain/repository"
	"FinBeta/internal/handler/api"
	internalrepo "FinBeta/internal/repository"
	"FinBeta/internal/service/ratelimit"
	"FinBeta/internal/service/yahoo"
	"FinBeta/internal/services/capm"
	"FinBeta/internal/services/regression"
	"FinBeta/internal/usecase"
	"FinBeta/pkg/cache"
	pkgch "FinBeta/pkg/clickhouse"
	"FinBeta/pkg/config"
	xhttp "FinBeta/pkg/http"
	pkgkafka "FinBeta/pkg/kafka"
	"FinBeta/pkg/logger"
	"FinBeta/pkg/metrics"
	"FinBeta/pkg/server"
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
}

// ProvideMetrics returns the Prometheus recorder, or a no-op when metrics are off.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideHTTPClient creates the outbound client used by the Yahoo fetcher.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	y := cfg.Fetcher.Yahoo
	return xhttp.NewClient(
		xhttp.WithTimeout(y.Timeout),
		xhttp.WithRetries(y.Retries),
		xhttp.WithHeader("User-Agent", y.UserAgent),
		xhttp.WithHeader("Accept", "application/json"),
		xhttp.WithRateLimit(y.RequestsPerSec, 1),
	)
}

// ProvideClickHouseClient connects only when ClickHouse is the price source.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if cfg.Fetcher.Source != "clickhouse" {
		return nil, func() {}, nil
	}
	ch := cfg.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecution),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if ch.InitSchema {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, internalrepo.PriceSchema(ch.Database, ch.Table)); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideCache returns nil when caching is disabled. With redis enabled the
// in-process LRU sits in front of it.
func ProvideCache(cfg *config.Config) (cache.Service, func(), error) {
	c := cfg.Cache
	if !c.Enabled {
		return nil, func() {}, nil
	}
	if !c.Redis.Enabled {
		mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(c.MemoryMaxSize), cache.WithMemoryDefaultTTL(c.TTL))
		return mc, func() { _ = mc.Close() }, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(c.Redis.Addr),
		cache.WithRedisAuth(c.Redis.Password, c.Redis.DB),
		cache.WithRedisPrefix(c.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	lc := cache.NewLayeredCache(rc, c.MemoryMaxSize, c.TTL)
	return lc, func() { _ = lc.Close() }, nil
}

// ProvideMarketData picks the configured source and wraps it with the cache.
func ProvideMarketData(
	cfg *config.Config,
	hc *xhttp.Client,
	ch *pkgch.Client,
	c cache.Service,
	m repository.Metrics,
	log *logger.Logger,
) (repository.MarketData, error) {
	var src repository.MarketData
	switch cfg.Fetcher.Source {
	case "yahoo":
		src = yahoo.NewClient(hc, cfg.Fetcher.Yahoo.Hosts, log)
	case "clickhouse":
		if ch == nil {
			return nil, fmt.Errorf("clickhouse source selected but no client available")
		}
		src = internalrepo.NewCHPriceStore(ch, cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table, log)
	default:
		return nil, fmt.Errorf("unknown fetcher source %q", cfg.Fetcher.Source)
	}
	if c == nil {
		return src, nil
	}
	return internalrepo.NewCachedMarketData(src, c, cfg.Cache.TTL, cfg.Fetcher.Source, m, log), nil
}

func ProvideEstimator() *capm.Estimator {
	return capm.NewEstimator(regression.New())
}

func ProvideEstimateUseCase(data repository.MarketData, est *capm.Estimator, m repository.Metrics, log *logger.Logger) *usecase.EstimateUseCase {
	return usecase.NewEstimateUseCase(data, est, m, log)
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideKafkaEstimateHandler returns nil without a producer to answer on.
func ProvideKafkaEstimateHandler(
	cfg *config.Config,
	producer *pkgkafka.Producer,
	uc *usecase.EstimateUseCase,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.KafkaEstimateHandler {
	if producer == nil {
		return nil
	}
	pub := internalrepo.NewKafkaReplyPublisher(producer, cfg.Kafka.ResultTopic)
	return usecase.NewKafkaEstimateHandler(cfg.Kafka.RequestTopic, uc, pub, m, log)
}

func ProvideKafkaConsumer(cfg *config.Config, h *usecase.KafkaEstimateHandler, log *logger.Logger) (*pkgkafka.Consumer, error) {
	if h == nil {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(h, log,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Workers),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.RequestTopic+".dlq"),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.Server.RateLimit <= 0 {
		return nil
	}
	return ratelimit.New(cfg.Server.RateLimit, cfg.Server.RateBurst)
}

// ProvideHealthChecks lists the dependencies /healthz probes.
func ProvideHealthChecks(ch *pkgch.Client) map[string]api.HealthCheck {
	checks := map[string]api.HealthCheck{}
	if ch != nil {
		checks["clickhouse"] = ch.Health
	}
	return checks
}

func ProvideCAPMHandler(log *logger.Logger, uc *usecase.EstimateUseCase, limiter *ratelimit.Limiter, checks map[string]api.HealthCheck) *api.CAPMEchoHandler {
	return api.NewCAPMEchoHandler(log, uc, limiter, checks)
}

func ProvideHTTPServer(cfg *config.Config, log *logger.Logger, h *api.CAPMEchoHandler) *xhttp.Server {
	path := ""
	if cfg.Metrics.Enabled {
		path = cfg.Metrics.Path
	}
	return xhttp.NewServer(log, []xhttp.Handler{h},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(path),
	)
}

// ProvideApp assembles the server. With Kafka on, aggregated error logs are
// shipped to the log topic through the same producer.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	producer *pkgkafka.Producer,
) *server.App {
	if producer != nil && cfg.Kafka.LogTopic != "" {
		log.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogTopic,
			Publisher:      producer,
		})
	}
	return server.New(log, srv, consumer, cfg.Server.ShutdownTimeout)
}
