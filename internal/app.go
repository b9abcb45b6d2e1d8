package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/bchiyangwa9/london-property-analyzer/internal/adapters/csvexport"
	"github.com/bchiyangwa9/london-property-analyzer/internal/adapters/location_lookup"
	logger_adapter "github.com/bchiyangwa9/london-property-analyzer/internal/adapters/logger"
	postgres_adapter "github.com/bchiyangwa9/london-property-analyzer/internal/adapters/postgres"
	rabbitmq_adapter "github.com/bchiyangwa9/london-property-analyzer/internal/adapters/rabbitmq"
	"github.com/bchiyangwa9/london-property-analyzer/internal/adapters/rest"
	"github.com/bchiyangwa9/london-property-analyzer/internal/adapters/rightmovefetcher"
	"github.com/bchiyangwa9/london-property-analyzer/internal/configs"
	"github.com/bchiyangwa9/london-property-analyzer/internal/constants"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/service"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/usecase"
	fluentlogger "github.com/bchiyangwa9/london-property-analyzer/pkg/fluent_logger"
	"github.com/bchiyangwa9/london-property-analyzer/pkg/postgres"
	"github.com/bchiyangwa9/london-property-analyzer/pkg/rabbitmq/rabbitmq_common"
	"github.com/bchiyangwa9/london-property-analyzer/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/bchiyangwa9/london-property-analyzer/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App wires every adapter, service and use case together and owns their
// lifecycle.
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	scrapedEventsListener port.EventListenerPort
	resultsProducer       *rabbitmq_producer.Publisher
}

// NewApp is the composition root: every dependency is created and
// connected here, nowhere else.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// Loggers first so everything after can report failures.
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// Low-level dependencies.
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	storageAdapter, err := postgres_adapter.NewPostgresStorageAdapter(context.Background(), dbPool)
	if err != nil {
		appLogger.Error("Failed to create postgres storage adapter", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create postgres storage adapter: %w", err)
	}
	appLogger.Info("Postgres storage adapter initialized.", nil)

	var lookup port.LocationLookupPort
	lookupTimeout := time.Duration(appConfig.LocationLookup.TimeoutSeconds) * time.Second
	if appConfig.LocationLookup.Mode == "http" {
		lookup = location_lookup.NewClient(appConfig.LocationLookup.BaseURL, lookupTimeout)
	} else {
		lookup = location_lookup.NewSimulator()
	}
	appLogger.Info("Location lookup initialized.", port.Fields{"mode": appConfig.LocationLookup.Mode})

	fetcher, err := rightmovefetcher.NewRightmoveFetcherAdapter()
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create listing fetcher: %w", err)
	}

	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger)
	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, connManagerBridge)
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.ExchangeProperties,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,

		Logger: rabbitmq_adapter.NewPkgLoggerBridge(producerLogger),
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg, connManager)
	if err != nil {
		appLogger.Error("Failed to create event producer", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	appLogger.Info("RabbitMQ Event Producer initialized.", nil)

	resultsReporter, err := rabbitmq_adapter.NewProcessedPropertyReporterAdapter(eventProducer, constants.RoutingKeyProcessedProperties)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create results reporter: %w", err)
	}
	appLogger.Info("All outgoing adapters initialized.", nil)

	// Core services.
	validator, err := service.NewValidator(appConfig.Criteria)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}
	enricher, err := service.NewEnricher(lookup, appConfig.Criteria, lookupTimeout)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create enricher: %w", err)
	}
	scorer, err := service.NewScorer(appConfig.Criteria)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create scorer: %w", err)
	}
	ranker := service.NewRanker()

	// Use cases.
	processUseCase := usecase.NewProcessPropertyUseCase(validator, enricher, scorer, appConfig.Pipeline.MaxWorkers)
	savePropertyUseCase := usecase.NewSavePropertyUseCase(processUseCase, storageAdapter, resultsReporter)
	deletePropertyUseCase := usecase.NewDeletePropertyUseCase(storageAdapter)
	ingestUseCase := usecase.NewIngestPropertiesUseCase(processUseCase, storageAdapter, resultsReporter)
	getTopUseCase := usecase.NewGetTopPropertiesUseCase(storageAdapter, ranker)
	findUseCase := usecase.NewFindPropertiesUseCase(storageAdapter)
	getDetailsUseCase := usecase.NewGetPropertyDetailsUseCase(storageAdapter)
	importUseCase := usecase.NewImportListingsUseCase(fetcher, ingestUseCase, appConfig.Pipeline.MaxWorkers)
	exportUseCase := usecase.NewExportPropertiesUseCase(storageAdapter, ranker, csvexport.NewCSVExporter())
	appLogger.Info("All use cases initialized.", nil)

	// Inbound adapters.
	scrapedConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:              rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:           constants.QueueScrapedProperties,
		DurableQueue:        true,
		ExchangeNameForBind: constants.ExchangeProperties,
		RoutingKeyForBind:   constants.RoutingKeyScrapedProperties,
		PrefetchCount:       appConfig.Pipeline.ConsumerBatchSize,
		ConsumerTag:         "property-ingest-adapter",
		DeclareQueue:        true,

		EnableRetryMechanism: true,

		RetryExchange: constants.ScrapedRetryExchange,
		RetryQueue:    constants.ScrapedRetryQueue,
		RetryTTL:      10000,

		FinalDLXExchange:   constants.ScrapedFinalDLXExchange,
		FinalDLQ:           constants.ScrapedFinalDLQ,
		FinalDLQRoutingKey: constants.ScrapedFinalDLQRoutingKey,

		MaxRetries: 3,

		Logger: rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_consumer"})),
	}
	scrapedListener, err := rabbitmq_adapter.NewScrapedPropertyConsumerAdapter(
		scrapedConsumerCfg,
		connManager,
		ingestUseCase,
		baseLogger,
		appConfig.Pipeline.ConsumerBatchSize,
		time.Duration(appConfig.Pipeline.BatchTimeoutSec)*time.Second,
	)
	if err != nil {
		appLogger.Error("Failed to create Scraped Property listener", err, nil)
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("Scraped Property Events Listener initialized.", nil)

	// REST API server.
	propertyHandler := rest.NewPropertyHandler(processUseCase, savePropertyUseCase, deletePropertyUseCase, ingestUseCase, findUseCase, getDetailsUseCase)
	analysisHandler := rest.NewAnalysisHandler(getTopUseCase, exportUseCase, appConfig.Criteria)
	importHandler := rest.NewImportHandler(importUseCase)

	apiServer := rest.NewServer(appConfig.Rest.PORT, propertyHandler, analysisHandler, importHandler, appConfig.Rest.AllowedOrigins, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	application := &App{
		config:                appConfig,
		dbPool:                dbPool,
		apiServer:             apiServer,
		scrapedEventsListener: scrapedListener,
		resultsProducer:       eventProducer,

		fluentClient: fluentClient,
		logger:       appLogger,
	}

	return application, nil
}

// Run starts every component and blocks until a shutdown signal or a
// critical component failure.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.scrapedEventsListener != nil {
			if err := a.scrapedEventsListener.Close(); err != nil {
				a.logger.Error("Error closing scraped properties listener", err, nil)
			}
		}

		if a.resultsProducer != nil {
			if err := a.resultsProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// stdout fallback, fluent may already be gone
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.StartListening(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}

	wg.Add(1)
	go startListener("Scraped Property Events Listener", a.scrapedEventsListener)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	}

	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
