// Package report builds sales, customer, and inventory reports, stores them
// as JSON or CSV snapshots, and hands out expiring download links.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/internal/infrastructure/objectstore"
	"github.com/shoppulse/pipeline/repository"
)

// Report types and formats accepted by Generate.
const (
	TypeSales     = "sales"
	TypeCustomers = "customers"
	TypeInventory = "inventory"

	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Request selects what to build.
type Request struct {
	ReportType string `json:"reportType"`
	Format     string `json:"format"`
	Period     string `json:"period"`
}

// Result describes a stored report and its signed download link.
type Result struct {
	ReportType string `json:"reportType"`
	Format     string `json:"format"`
	Period     string `json:"period,omitempty"`
	Timestamp  string `json:"timestamp"`
	ReportURL  string `json:"reportUrl"`
	ExpiresIn  string `json:"expiresIn"`
}

type Service struct {
	sales     repository.SalesRepository
	cohorts   repository.CohortRepository
	inventory repository.InventoryRepository
	store     objectstore.Store
	signer    *objectstore.Signer
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	sales repository.SalesRepository,
	cohorts repository.CohortRepository,
	inventory repository.InventoryRepository,
	store objectstore.Store,
	signer *objectstore.Signer,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sales:     sales,
		cohorts:   cohorts,
		inventory: inventory,
		store:     store,
		signer:    signer,
		logger:    logger,
		now:       time.Now,
	}
}

// Available lists the supported report types and formats for the dashboard.
func (s *Service) Available() map[string][]string {
	return map[string][]string{
		"reportTypes": {TypeSales, TypeCustomers, TypeInventory},
		"formats":     {FormatJSON, FormatCSV},
		"periods":     {"last7", "last30", "last12"},
	}
}

// Generate builds the requested report, stores it, and returns a signed
// download link valid for the configured TTL.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	format := req.Format
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatCSV {
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("invalid report format: %s", format))
	}

	var (
		data  interface{}
		title string
		err   error
	)
	switch req.ReportType {
	case TypeSales, "":
		data, err = s.buildSalesReport(ctx, req.Period)
		title = "Sales_Report"
	case TypeCustomers:
		data, err = s.buildCustomerReport(ctx)
		title = "Customer_Report"
	case TypeInventory:
		data, err = s.buildInventoryReport(ctx)
		title = "Inventory_Report"
	default:
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("invalid report type: %s", req.ReportType))
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	timestamp := now.Format("20060102150405")
	name := fmt.Sprintf("%s_%s", title, timestamp)

	var (
		key         string
		contentType string
		body        []byte
	)
	if format == FormatCSV {
		key = fmt.Sprintf("csv/%s.csv", name)
		contentType = "text/csv"
		body, err = renderCSV(data)
	} else {
		key = fmt.Sprintf("json/%s.json", name)
		contentType = "application/json"
		body, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Put(ctx, key, contentType, body); err != nil {
		return nil, err
	}

	s.logger.Info("report generated",
		zap.String("report_type", req.ReportType),
		zap.String("format", format),
		zap.String("key", key),
	)

	return &Result{
		ReportType: req.ReportType,
		Format:     format,
		Period:     req.Period,
		Timestamp:  timestamp,
		ReportURL:  s.signer.SignedPath(key, now),
		ExpiresIn:  "1 hour",
	}, nil
}

// Open verifies a signed download request and streams the stored object.
func (s *Service) Open(ctx context.Context, key, expires, signature string) (io.ReadCloser, *objectstore.ObjectInfo, error) {
	if err := s.signer.Verify(key, expires, signature, s.now()); err != nil {
		return nil, nil, err
	}
	return s.store.Get(ctx, key)
}

func (s *Service) buildSalesReport(ctx context.Context, period string) (*SalesReport, error) {
	unit := domain.UnitDate
	since := s.now().UTC().AddDate(0, 0, -30)
	switch period {
	case "last7":
		since = s.now().UTC().AddDate(0, 0, -7)
	case "last12":
		unit = domain.UnitMonth
		since = s.now().UTC().AddDate(0, 0, -365)
	case "last30", "":
		period = "last30"
	}

	var sinceValue string
	if unit == domain.UnitMonth {
		sinceValue = domain.MonthBucket(since)
	} else {
		sinceValue = domain.DateBucket(since)
	}

	metrics, err := s.sales.ListSales(ctx, repository.SalesFilter{TimeUnit: unit, Since: sinceValue})
	if err != nil {
		return nil, err
	}

	summary := SalesSummary{}
	for _, m := range metrics {
		summary.TotalSales = summary.TotalSales.Add(m.TotalSales)
		summary.TotalTransactions += m.TransactionCount
		summary.TotalItems += m.ItemCount
	}
	if summary.TotalTransactions > 0 {
		summary.AvgTransactionValue = summary.TotalSales.Div(domain.MoneyFromInt64(summary.TotalTransactions))
		summary.AvgItemsPerTransaction = float64(summary.TotalItems) / float64(summary.TotalTransactions)
	}

	return &SalesReport{
		ReportType:  TypeSales,
		Period:      period,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Summary:     summary,
		Details:     metrics,
	}, nil
}

func (s *Service) buildCustomerReport(ctx context.Context) (*CustomerReport, error) {
	cohorts, err := s.cohorts.ListCohorts(ctx)
	if err != nil {
		return nil, err
	}

	summary := CustomerSummary{}
	for _, c := range cohorts {
		summary.TotalCustomers += c.CustomerCount
		summary.TotalRevenue = summary.TotalRevenue.Add(c.TotalRevenue)
		summary.NewCustomers += c.NewCustomers
		summary.RepeatCustomers += c.RepeatCustomers
	}
	if summary.TotalCustomers > 0 {
		summary.AvgRevenuePerCustomer = summary.TotalRevenue.Div(domain.MoneyFromInt64(summary.TotalCustomers))
	}

	return &CustomerReport{
		ReportType:  TypeCustomers,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Summary:     summary,
		Cohorts:     cohorts,
	}, nil
}

func (s *Service) buildInventoryReport(ctx context.Context) (*InventoryReport, error) {
	records, err := s.inventory.List(ctx, repository.InventoryFilter{})
	if err != nil {
		return nil, err
	}

	summary := InventorySummary{TotalProducts: len(records)}
	categories := make(map[string]*CategoryGroup)
	for _, record := range records {
		switch record.Status {
		case domain.StockLow:
			summary.LowStockProducts++
		case domain.StockNormal:
			summary.NormalStockProducts++
		}
		group, ok := categories[record.Category]
		if !ok {
			group = &CategoryGroup{}
			categories[record.Category] = group
		}
		group.Items = append(group.Items, record)
		group.Count++
	}
	summary.CategoryCount = len(categories)

	return &InventoryReport{
		ReportType:  TypeInventory,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		Summary:     summary,
		Categories:  categories,
	}, nil
}
