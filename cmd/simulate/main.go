// Command simulate runs the full pipeline in-process against in-memory
// stores: it generates a batch of random transactions, pushes the derived
// events through the router, and prints the resulting rollups. Useful for
// demos and smoke checks without Postgres, Redis, or Kafka.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/internal/config"
	"github.com/shoppulse/pipeline/internal/infrastructure/buffer"
	"github.com/shoppulse/pipeline/internal/infrastructure/bus"
	"github.com/shoppulse/pipeline/internal/infrastructure/objectstore"
	appmetrics "github.com/shoppulse/pipeline/internal/metrics"
	"github.com/shoppulse/pipeline/internal/services"
	"github.com/shoppulse/pipeline/pkg/logger"
	"github.com/shoppulse/pipeline/repository"
	"github.com/shoppulse/pipeline/repository/memory"
	customersUC "github.com/shoppulse/pipeline/usecase/customers"
	inventoryUC "github.com/shoppulse/pipeline/usecase/inventory"
	marketingUC "github.com/shoppulse/pipeline/usecase/marketing"
	metricsUC "github.com/shoppulse/pipeline/usecase/metrics"
	notifyUC "github.com/shoppulse/pipeline/usecase/notify"
	ordersUC "github.com/shoppulse/pipeline/usecase/orders"
)

func main() {
	count := flag.Int("n", 25, "number of transactions to generate")
	flag.Parse()

	zapLogger, err := logger.New(logger.Config{Level: "warn", Encoding: "console"})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	salesRepo := memory.NewSalesRepository()
	cohortRepo := memory.NewCohortRepository()
	inventoryRepo := memory.NewInventoryRepository()
	customerRepo := memory.NewCustomerRepository()
	notificationRepo := memory.NewNotificationRepository()
	dedupRepo := memory.NewDedupRepository()

	tmpDir, err := os.MkdirTemp("", "shoppulse-simulate")
	if err != nil {
		log.Fatalf("tempdir error: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	store, err := objectstore.NewFilesystemStore(tmpDir)
	if err != nil {
		log.Fatalf("object store error: %v", err)
	}
	outbox, err := buffer.Open(tmpDir+"/outbox.db", "outbox")
	if err != nil {
		log.Fatalf("outbox error: %v", err)
	}
	defer outbox.Close()

	memBus := bus.NewMemoryBus(4096)
	promMetrics := appmetrics.New()

	intake := services.NewIntake(
		ordersUC.NewService(zapLogger),
		customersUC.NewService(customerRepo, zapLogger),
		inventoryUC.NewService(inventoryRepo, zapLogger),
		memBus,
		outbox,
		promMetrics,
		zapLogger,
	)

	aggregator := metricsUC.NewAggregator(salesRepo, cohortRepo, zapLogger)
	eventRouter := metricsUC.NewRouter(
		aggregator,
		notifyUC.NewService(notificationRepo, zapLogger),
		marketingUC.NewService(store, zapLogger),
		zapLogger,
	)
	consumer := services.NewConsumer(memBus, eventRouter, dedupRepo, promMetrics, zapLogger)

	simulator := services.NewSimulator(intake, config.SimulatorConfig{MinBatch: 1, MaxBatch: 1}, zapLogger)

	for n := 0; n < *count; n++ {
		tx := simulator.GenerateTransaction()
		if err := intake.Submit(ctx, tx); err != nil {
			zapLogger.Warn("transaction failed", zap.Error(err))
		}
	}

	// Drain everything the intake published.
	for memBus.Len() > 0 {
		msg, err := memBus.Fetch(ctx)
		if err != nil {
			break
		}
		if err := consumer.Process(ctx, msg.Event); err != nil {
			zapLogger.Warn("event failed", zap.String("event_id", msg.Event.ID), zap.Error(err))
		}
	}

	printSection("sales metrics", func() (interface{}, error) {
		return salesRepo.ListSales(ctx, repository.SalesFilter{TimeUnit: "date"})
	})
	printSection("cohorts", func() (interface{}, error) {
		return cohortRepo.ListCohorts(ctx)
	})
	printSection("inventory", func() (interface{}, error) {
		return inventoryRepo.List(ctx, repository.InventoryFilter{})
	})
	printSection("notifications", func() (interface{}, error) {
		return notificationRepo.List(ctx, repository.NotificationFilter{Limit: 10})
	})
}

func printSection(title string, load func() (interface{}, error)) {
	data, err := load()
	if err != nil {
		fmt.Printf("== %s: error: %v\n", title, err)
		return
	}
	out, _ := json.MarshalIndent(data, "", "  ")
	fmt.Printf("== %s ==\n%s\n", title, out)
}
