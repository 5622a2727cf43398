package report

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/internal/infrastructure/objectstore"
	"github.com/shoppulse/pipeline/repository"
	"github.com/shoppulse/pipeline/repository/memory"
)

var reportNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, repository.SalesRepository, repository.CohortRepository, repository.InventoryRepository) {
	t.Helper()

	store, err := objectstore.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	sales := memory.NewSalesRepository()
	cohorts := memory.NewCohortRepository()
	inventory := memory.NewInventoryRepository()

	service := NewService(sales, cohorts, inventory, store, objectstore.NewSigner("test-secret", time.Hour), nil)
	service.now = func() time.Time { return reportNow }
	return service, sales, cohorts, inventory
}

func seedSales(t *testing.T, sales repository.SalesRepository) {
	t.Helper()
	ctx := context.Background()
	for _, day := range []struct {
		value  string
		amount string
	}{
		{"2024-04-29", "100.00"},
		{"2024-04-30", "50.00"},
		{"2024-05-01", "79.97"},
	} {
		_, err := sales.MergeSales(ctx, domain.UnitDate, day.value, domain.MergeDelta{
			Amount:           domain.MustMoney(day.amount),
			TransactionCount: 1,
			ItemCount:        2,
			Categories:       []string{"clothing"},
		})
		require.NoError(t, err)
	}
}

func TestGenerateSalesReportJSON(t *testing.T) {
	service, sales, _, _ := newTestService(t)
	seedSales(t, sales)

	result, err := service.Generate(context.Background(), Request{ReportType: TypeSales, Period: "last7"})
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, result.Format)
	assert.Equal(t, "1 hour", result.ExpiresIn)
	assert.Equal(t, "20240501120000", result.Timestamp)
	assert.True(t, strings.HasPrefix(result.ReportURL, "/reports/json/Sales_Report_20240501120000.json?"), result.ReportURL)

	u, err := url.Parse(result.ReportURL)
	require.NoError(t, err)
	body, info, err := service.Open(context.Background(),
		strings.TrimPrefix(u.Path, "/reports/"),
		u.Query().Get("expires"),
		u.Query().Get("signature"),
	)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "application/json", info.ContentType)

	raw, err := io.ReadAll(body)
	require.NoError(t, err)

	var report SalesReport
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, "last7", report.Period)
	assert.Len(t, report.Details, 3)
	assert.Equal(t, "229.97", report.Summary.TotalSales.String())
	assert.Equal(t, int64(3), report.Summary.TotalTransactions)
	assert.Equal(t, int64(6), report.Summary.TotalItems)
	assert.InDelta(t, 2.0, report.Summary.AvgItemsPerTransaction, 0.001)
}

func TestGenerateSalesReportCSV(t *testing.T) {
	service, sales, _, _ := newTestService(t)
	seedSales(t, sales)

	result, err := service.Generate(context.Background(), Request{ReportType: TypeSales, Format: FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, result.Format)
	assert.Contains(t, result.ReportURL, "csv/Sales_Report_20240501120000.csv")

	u, err := url.Parse(result.ReportURL)
	require.NoError(t, err)
	body, info, err := service.Open(context.Background(),
		strings.TrimPrefix(u.Path, "/reports/"),
		u.Query().Get("expires"),
		u.Query().Get("signature"),
	)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "text/csv", info.ContentType)

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Date,Total Sales,Transactions,Items,Categories", lines[0])
	assert.Equal(t, "2024-04-29,100.00,1,2,clothing", lines[1])
}

func TestGenerateCustomerReport(t *testing.T) {
	service, _, cohorts, _ := newTestService(t)
	ctx := context.Background()

	_, err := cohorts.MergeCohort(ctx, "2024-04", repository.CohortDelta{
		Revenue: domain.MustMoney("300.00"), CustomerCount: 2, NewCustomers: 1, RepeatCustomers: 1,
	})
	require.NoError(t, err)

	result, err := service.Generate(ctx, Request{ReportType: TypeCustomers})
	require.NoError(t, err)

	u, err := url.Parse(result.ReportURL)
	require.NoError(t, err)
	body, _, err := service.Open(ctx,
		strings.TrimPrefix(u.Path, "/reports/"),
		u.Query().Get("expires"),
		u.Query().Get("signature"),
	)
	require.NoError(t, err)
	defer body.Close()

	var report CustomerReport
	require.NoError(t, json.NewDecoder(body).Decode(&report))
	assert.Equal(t, int64(2), report.Summary.TotalCustomers)
	assert.Equal(t, "300.00", report.Summary.TotalRevenue.String())
	assert.Equal(t, 0, report.Summary.AvgRevenuePerCustomer.Cmp(domain.MustMoney("150")))
	require.Len(t, report.Cohorts, 1)
	assert.Equal(t, "2024-04", report.Cohorts[0].Cohort)
}

func TestGenerateInventoryReport(t *testing.T) {
	service, _, _, inventory := newTestService(t)
	ctx := context.Background()

	_, err := inventory.ApplySale(ctx, domain.TransactionItem{ProductID: "p1001", ProductName: "T-Shirt", Category: "clothing", Quantity: 90})
	require.NoError(t, err)
	_, err = inventory.ApplySale(ctx, domain.TransactionItem{ProductID: "p1003", ProductName: "Sneakers", Category: "footwear", Quantity: 5})
	require.NoError(t, err)

	result, err := service.Generate(ctx, Request{ReportType: TypeInventory, Format: FormatCSV})
	require.NoError(t, err)

	u, err := url.Parse(result.ReportURL)
	require.NoError(t, err)
	body, _, err := service.Open(ctx,
		strings.TrimPrefix(u.Path, "/reports/"),
		u.Query().Get("expires"),
		u.Query().Get("signature"),
	)
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Product ID,Product Name,Category,Stock Level,Status", lines[0])
	assert.Contains(t, string(raw), "p1001,T-Shirt,clothing,10,low")
	assert.Contains(t, string(raw), "p1003,Sneakers,footwear,95,normal")
}

func TestGenerateRejectsInvalidRequest(t *testing.T) {
	service, _, _, _ := newTestService(t)

	_, err := service.Generate(context.Background(), Request{ReportType: "payroll"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = service.Generate(context.Background(), Request{ReportType: TypeSales, Format: "xml"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestOpenRejectsTamperedLink(t *testing.T) {
	service, sales, _, _ := newTestService(t)
	seedSales(t, sales)

	result, err := service.Generate(context.Background(), Request{ReportType: TypeSales})
	require.NoError(t, err)

	u, err := url.Parse(result.ReportURL)
	require.NoError(t, err)
	_, _, err = service.Open(context.Background(),
		strings.TrimPrefix(u.Path, "/reports/"),
		u.Query().Get("expires"),
		"forged-signature",
	)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestAvailable(t *testing.T) {
	service, _, _, _ := newTestService(t)
	available := service.Available()
	assert.Equal(t, []string{TypeSales, TypeCustomers, TypeInventory}, available["reportTypes"])
	assert.Equal(t, []string{FormatJSON, FormatCSV}, available["formats"])
}
