package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/shoppulse/pipeline/domain"
)

// SalesReport carries bucketed sales metrics with summary statistics.
type SalesReport struct {
	ReportType  string               `json:"reportType"`
	Period      string               `json:"period"`
	GeneratedAt string               `json:"generatedAt"`
	Summary     SalesSummary         `json:"summary"`
	Details     []domain.SalesMetric `json:"details"`
}

type SalesSummary struct {
	TotalSales             domain.Money `json:"totalSales"`
	TotalTransactions      int64        `json:"totalTransactions"`
	TotalItems             int64        `json:"totalItems"`
	AvgTransactionValue    domain.Money `json:"avgTransactionValue"`
	AvgItemsPerTransaction float64      `json:"avgItemsPerTransaction"`
}

// CustomerReport carries cohort rollups with summary statistics.
type CustomerReport struct {
	ReportType  string                 `json:"reportType"`
	GeneratedAt string                 `json:"generatedAt"`
	Summary     CustomerSummary        `json:"summary"`
	Cohorts     []domain.CohortInsight `json:"cohorts"`
}

type CustomerSummary struct {
	TotalCustomers        int64        `json:"totalCustomers"`
	TotalRevenue          domain.Money `json:"totalRevenue"`
	NewCustomers          int64        `json:"newCustomers"`
	RepeatCustomers       int64        `json:"repeatCustomers"`
	AvgRevenuePerCustomer domain.Money `json:"avgRevenuePerCustomer"`
}

// InventoryReport groups stock records by category.
type InventoryReport struct {
	ReportType  string                    `json:"reportType"`
	GeneratedAt string                    `json:"generatedAt"`
	Summary     InventorySummary          `json:"summary"`
	Categories  map[string]*CategoryGroup `json:"categories"`
}

type InventorySummary struct {
	TotalProducts       int `json:"totalProducts"`
	LowStockProducts    int `json:"lowStockProducts"`
	NormalStockProducts int `json:"normalStockProducts"`
	CategoryCount       int `json:"categoryCount"`
}

type CategoryGroup struct {
	Count int                      `json:"count"`
	Items []domain.InventoryRecord `json:"items"`
}

// renderCSV flattens a report into tabular form. Each report type has a
// fixed column layout; summaries are JSON-only.
func renderCSV(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	switch report := data.(type) {
	case *SalesReport:
		if err := writer.Write([]string{"Date", "Total Sales", "Transactions", "Items", "Categories"}); err != nil {
			return nil, err
		}
		for _, m := range report.Details {
			row := []string{
				m.TimeValue,
				m.TotalSales.String(),
				strconv.FormatInt(m.TransactionCount, 10),
				strconv.FormatInt(m.ItemCount, 10),
				strings.Join(m.Categories, ", "),
			}
			if err := writer.Write(row); err != nil {
				return nil, err
			}
		}
	case *CustomerReport:
		if err := writer.Write([]string{"Cohort", "Customers", "Revenue", "New Customers", "Repeat Customers"}); err != nil {
			return nil, err
		}
		for _, c := range report.Cohorts {
			row := []string{
				c.Cohort,
				strconv.FormatInt(c.CustomerCount, 10),
				c.TotalRevenue.String(),
				strconv.FormatInt(c.NewCustomers, 10),
				strconv.FormatInt(c.RepeatCustomers, 10),
			}
			if err := writer.Write(row); err != nil {
				return nil, err
			}
		}
	case *InventoryReport:
		if err := writer.Write([]string{"Product ID", "Product Name", "Category", "Stock Level", "Status"}); err != nil {
			return nil, err
		}
		for _, group := range report.Categories {
			for _, item := range group.Items {
				row := []string{
					item.ProductID,
					item.ProductName,
					item.Category,
					strconv.FormatInt(item.StockLevel, 10),
					string(item.Status),
				}
				if err := writer.Write(row); err != nil {
					return nil, err
				}
			}
		}
	default:
		return nil, domain.NewError(domain.ErrCodeInternal, "unsupported report payload")
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
