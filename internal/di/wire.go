//go:build wireinject
// +build wireinject

package di

import (
	"demandcast/pkg/config"
	"demandcast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Data backends
		ProvideDatasetStore,
		ProvideForecastCache,
		ProvideLiveMentions,
		ProvideMentionSource,

		// Use cases
		ProvideForecastEngine,
		ProvideTrendEngine,

		// Broker ingest
		ProvideKafkaConsumer,
		ProvideMentionsHandler,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
