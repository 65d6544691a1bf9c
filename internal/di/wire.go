//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"FinBeta/internal/usecase"
	"FinBeta/pkg/config"
	"FinBeta/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		ProvideHTTPClient,
		ProvideClickHouseClient,
		ProvideCache,
		ProvideKafkaProducer,

		ProvideMarketData,
		ProvideEstimator,
		ProvideEstimateUseCase,
		ProvideKafkaEstimateHandler,
		ProvideKafkaConsumer,

		ProvideRateLimiter,
		ProvideHealthChecks,
		ProvideCAPMHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeEstimateUseCase builds just the estimation path, for the CLI.
func InitializeEstimateUseCase(cfg *config.Config) (*usecase.EstimateUseCase, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,
		ProvideClickHouseClient,
		ProvideCache,
		ProvideMarketData,
		ProvideEstimator,
		ProvideEstimateUseCase,
	)
	return nil, nil, nil
}
