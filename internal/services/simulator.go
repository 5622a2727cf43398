package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/internal/config"
)

type catalogProduct struct {
	id       string
	name     string
	price    domain.Money
	category string
}

// The fixed demo catalog. Prices are exact decimals so generated totals
// exercise the same arithmetic as real traffic.
var catalog = []catalogProduct{
	{"p1001", "T-Shirt", domain.MustMoney("19.99"), "clothing"},
	{"p1002", "Jeans", domain.MustMoney("49.99"), "clothing"},
	{"p1003", "Sneakers", domain.MustMoney("79.99"), "footwear"},
	{"p1004", "Backpack", domain.MustMoney("39.99"), "accessories"},
	{"p1005", "Hat", domain.MustMoney("14.99"), "accessories"},
	{"p1006", "Watch", domain.MustMoney("99.99"), "accessories"},
	{"p1007", "Socks", domain.MustMoney("9.99"), "clothing"},
	{"p1008", "Headphones", domain.MustMoney("29.99"), "electronics"},
}

var (
	paymentMethods = []string{"credit_card", "paypal", "apple_pay"}
	streets        = []string{"Main St", "Broadway", "Park Ave", "Elm St", "Oak Rd"}
	cities         = []string{"New York", "Los Angeles", "Chicago", "Seattle", "Austin", "Denver", "Boston", "Miami"}
	states         = []string{"NY", "CA", "IL", "WA", "TX", "CO", "MA", "FL"}
)

// Simulator feeds synthetic transactions into the intake on a cron
// schedule. Customer IDs draw from a small pool so repeat customers emerge
// naturally over a run.
type Simulator struct {
	intake *Intake
	cfg    config.SimulatorConfig
	logger *zap.Logger

	mu   sync.Mutex
	rng  *rand.Rand
	cron *cron.Cron
}

func NewSimulator(intake *Intake, cfg config.SimulatorConfig, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		intake: intake,
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cron:   cron.New(),
	}
}

// Start schedules transaction generation.
func (s *Simulator) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Warn("simulated batch incomplete", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule.
func (s *Simulator) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce generates and submits one batch of transactions.
func (s *Simulator) RunOnce(ctx context.Context) error {
	min, max := s.cfg.MinBatch, s.cfg.MaxBatch
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}

	count := min + s.intn(max-min+1)
	for n := 0; n < count; n++ {
		tx := s.GenerateTransaction()
		if err := s.intake.Submit(ctx, tx); err != nil {
			return err
		}
		s.logger.Info("simulated transaction",
			zap.String("transaction_id", tx.TransactionID),
			zap.String("customer_id", tx.CustomerID),
			zap.String("total_amount", tx.TotalAmount.String()),
		)
	}
	return nil
}

// GenerateTransaction builds one random transaction from the demo catalog:
// 1-5 line items, quantity 1-3 each, total as the exact sum of line totals.
func (s *Simulator) GenerateTransaction() *domain.Transaction {
	numItems := 1 + s.intn(5)
	items := make([]domain.TransactionItem, 0, numItems)
	total := domain.Money{}
	for n := 0; n < numItems; n++ {
		product := catalog[s.intn(len(catalog))]
		quantity := int64(1 + s.intn(3))
		items = append(items, domain.TransactionItem{
			ProductID:   product.id,
			ProductName: product.name,
			Category:    product.category,
			Price:       product.price,
			Quantity:    quantity,
		})
		total = total.Add(product.price.MulInt64(quantity))
	}

	return &domain.Transaction{
		TransactionID: uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		CustomerID:    fmt.Sprintf("cust_%d", 1000+s.intn(9000)),
		Items:         items,
		TotalAmount:   total,
		PaymentMethod: s.pick(paymentMethods),
		ShippingAddress: domain.ShippingAddress{
			Street: fmt.Sprintf("%d %s", 100+s.intn(900), s.pick(streets)),
			City:   s.pick(cities),
			State:  s.pick(states),
			Zip:    fmt.Sprintf("%05d", 10000+s.intn(90000)),
		},
	}
}

func (s *Simulator) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *Simulator) pick(options []string) string {
	return options[s.intn(len(options))]
}
