package di

import (
	"fmt"

	"demandcast/internal/domain/repository"
	"demandcast/internal/handler/api"
	internalrepo "demandcast/internal/repository"
	icache "demandcast/internal/service/cache"
	"demandcast/internal/service/ingest"
	"demandcast/internal/usecase"
	pkgch "demandcast/pkg/clickhouse"
	"demandcast/pkg/config"
	xhttp "demandcast/pkg/http"
	pkgkafka "demandcast/pkg/kafka"
	applogger "demandcast/pkg/logger"
	"demandcast/pkg/metrics"
	"demandcast/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideDatasetStore selects the dataset backend from config.
func ProvideDatasetStore(cfg *config.Config, logger *applogger.Logger) (repository.DatasetStore, error) {
	switch cfg.Data.Source {
	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		store, err := internalrepo.NewClickHouseStore(client, logger)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return store, nil
	default:
		return internalrepo.NewCSVStore(cfg.Data.Dir, cfg.Data.HistoricFile, cfg.Data.SocialFile, logger), nil
	}
}

// ProvideForecastCache selects the cache backend: Redis when enabled so
// replicas share entries, in-process TTL map otherwise.
func ProvideForecastCache(cfg *config.Config, logger *applogger.Logger) repository.ForecastCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		}, logger)
	}
	return icache.NewTTLCache()
}

// ProvideLiveMentions creates the broker-fed mention buffer.
func ProvideLiveMentions() *ingest.LiveMentions {
	return ingest.NewLiveMentions(0)
}

// ProvideMentionSource exposes the live buffer to the trend engine only when
// the broker is enabled; otherwise the engine reads datasets alone.
func ProvideMentionSource(cfg *config.Config, buffer *ingest.LiveMentions) repository.MentionSource {
	if !cfg.Kafka.Enabled {
		return nil
	}
	return buffer
}

// ProvideForecastEngine creates the forecast use case.
func ProvideForecastEngine(
	store repository.DatasetStore,
	cache repository.ForecastCache,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.ForecastEngine {
	return usecase.NewForecastEngine(store, cache, m, logger, usecase.ForecastConfig{
		WindowDays:   cfg.Forecast.WindowDays,
		ModelVersion: cfg.Forecast.ModelVersion,
		TTL:          cfg.Cache.TTL,
		Prices:       cfg.Catalog.Prices,
	})
}

// ProvideTrendEngine creates the trend scoring use case.
func ProvideTrendEngine(
	store repository.DatasetStore,
	live repository.MentionSource,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.TrendEngine {
	return usecase.NewTrendEngine(store, live, m, logger, cfg.Trends, cfg.Catalog.Titles)
}

// ProvideKafkaConsumer creates the consumer, or nil when the broker is off.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.RetryMax, cfg.Kafka.BackoffMin, cfg.Kafka.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMentionsHandler registers the handler for the mentions topic.
func ProvideMentionsHandler(
	cfg *config.Config,
	buffer *ingest.LiveMentions,
	m repository.Metrics,
	logger *applogger.Logger,
) pkgkafka.MessageHandler {
	return usecase.NewMentionsHandler(cfg.Kafka.Topic, buffer, m, logger)
}

// ProvideHTTPHandler composes the API route registrar.
func ProvideHTTPHandler(
	forecastEngine *usecase.ForecastEngine,
	trendEngine *usecase.TrendEngine,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewRouter(
		api.NewForecastHandler(forecastEngine, m),
		api.NewTrendsHandler(trendEngine, m),
		api.NewLiveTrendsHandler(trendEngine, logger, cfg.Trends.LivePushInterval),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	store repository.DatasetStore,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, logger, store, consumer, kh, handler)
}
