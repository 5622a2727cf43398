package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/shoppulse/pipeline/api/handler"
	"github.com/shoppulse/pipeline/internal/config"
	"github.com/shoppulse/pipeline/internal/infrastructure/buffer"
	"github.com/shoppulse/pipeline/internal/infrastructure/bus"
	"github.com/shoppulse/pipeline/internal/infrastructure/monitor"
	"github.com/shoppulse/pipeline/internal/infrastructure/objectstore"
	pgInfra "github.com/shoppulse/pipeline/internal/infrastructure/postgres"
	redisInfra "github.com/shoppulse/pipeline/internal/infrastructure/redis"
	appmetrics "github.com/shoppulse/pipeline/internal/metrics"
	"github.com/shoppulse/pipeline/internal/router"
	"github.com/shoppulse/pipeline/internal/services"
	"github.com/shoppulse/pipeline/internal/services/lifecycle"
	"github.com/shoppulse/pipeline/pkg/httpcontext"
	"github.com/shoppulse/pipeline/pkg/logger"
	"github.com/shoppulse/pipeline/repository"
	"github.com/shoppulse/pipeline/repository/postgres"
	redisRepo "github.com/shoppulse/pipeline/repository/redis"
	customersUC "github.com/shoppulse/pipeline/usecase/customers"
	inventoryUC "github.com/shoppulse/pipeline/usecase/inventory"
	marketingUC "github.com/shoppulse/pipeline/usecase/marketing"
	metricsUC "github.com/shoppulse/pipeline/usecase/metrics"
	notifyUC "github.com/shoppulse/pipeline/usecase/notify"
	ordersUC "github.com/shoppulse/pipeline/usecase/orders"
	reportUC "github.com/shoppulse/pipeline/usecase/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	outboxStore, err := buffer.Open(cfg.Outbox.Path, "outbox")
	if err != nil {
		zapLogger.Fatal("failed to open outbox store", zap.Error(err))
	}
	manager.Register("outbox", func(ctx context.Context) error {
		return outboxStore.Close()
	})

	reportStore, err := objectstore.NewFilesystemStore(cfg.ObjectStore.Root)
	if err != nil {
		zapLogger.Fatal("failed to open report store", zap.Error(err))
	}
	signer := objectstore.NewSigner(cfg.ObjectStore.SigningSecret, cfg.ObjectStore.URLTTL)

	mon := monitor.New(pool, redisClient, outboxStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	promMetrics := appmetrics.New()

	salesRepo := postgres.NewSalesRepository(pool)
	cohortRepo := postgres.NewCohortRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)

	publisher := bus.NewKafkaPublisher(cfg.Kafka)
	manager.Register("publisher", func(ctx context.Context) error {
		return publisher.Close()
	})

	orderSvc := ordersUC.NewService(zapLogger)
	customerSvc := customersUC.NewService(customerRepo, zapLogger)
	inventorySvc := inventoryUC.NewService(inventoryRepo, zapLogger)
	notifySvc := notifyUC.NewService(notificationRepo, zapLogger)
	marketingSvc := marketingUC.NewService(reportStore, zapLogger)
	reportSvc := reportUC.NewService(salesRepo, cohortRepo, inventoryRepo, reportStore, signer, zapLogger)

	aggregator := metricsUC.NewAggregator(salesRepo, cohortRepo, zapLogger)
	eventRouter := metricsUC.NewRouter(aggregator, notifySvc, marketingSvc, zapLogger)

	intake := services.NewIntake(orderSvc, customerSvc, inventorySvc, publisher, outboxStore, promMetrics, zapLogger)

	consumerSource := bus.NewKafkaConsumer(cfg.Kafka)
	manager.Register("consumer_source", func(ctx context.Context) error {
		return consumerSource.Close()
	})

	var dedupRepo repository.DedupRepository
	if cfg.Dedup.Enabled {
		dedupRepo = redisRepo.NewDedupRepository(redisClient, cfg.Dedup.TTL)
	}
	consumer := services.NewConsumer(consumerSource, eventRouter, dedupRepo, promMetrics, zapLogger)
	go func() {
		if err := consumer.Run(appCtx); err != nil && !services.IsShutdown(err) {
			zapLogger.Error("consumer stopped", zap.Error(err))
		}
	}()

	outboxProcessor := services.NewOutboxProcessor(outboxStore, publisher, cfg.Outbox, promMetrics, zapLogger)
	if err := outboxProcessor.Start(); err != nil {
		zapLogger.Fatal("outbox processor failed to start", zap.Error(err))
	}
	manager.Register("outbox_processor", func(ctx context.Context) error {
		return outboxProcessor.Stop(ctx)
	})

	if cfg.Simulator.Enabled {
		simulator := services.NewSimulator(intake, cfg.Simulator, zapLogger)
		if err := simulator.Start(); err != nil {
			zapLogger.Fatal("simulator failed to start", zap.Error(err))
		}
		manager.Register("simulator", func(ctx context.Context) error {
			return simulator.Stop(ctx)
		})
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
		Dashboard:    apiHandler.NewDashboardHandler(salesRepo, cohortRepo, inventoryRepo, notificationRepo, ctxAdapter, zapLogger),
		Sales:        apiHandler.NewSalesHandler(salesRepo, ctxAdapter, zapLogger),
		Customer:     apiHandler.NewCustomerHandler(cohortRepo, ctxAdapter, zapLogger),
		Inventory:    apiHandler.NewInventoryHandler(inventoryRepo, ctxAdapter, zapLogger),
		Notification: apiHandler.NewNotificationHandler(notificationRepo, ctxAdapter, zapLogger),
		Report:       apiHandler.NewReportHandler(reportSvc, ctxAdapter, zapLogger),
	}
	if cfg.HTTP.EnableMetrics {
		handlers.Metrics = apiHandler.NewMetricsHandler(promMetrics)
	}
	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
