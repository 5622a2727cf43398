package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifySegmentBoundaries(t *testing.T) {
	cases := []struct {
		spent        string
		customerType string
		want         string
	}{
		{"501", CustomerNew, SegmentVIP},
		{"500.01", CustomerNew, SegmentVIP},
		{"500.00", CustomerRepeat, SegmentFrequent},
		{"200.01", CustomerNew, SegmentFrequent},
		{"200.00", CustomerRepeat, SegmentLoyal},
		{"200.00", CustomerNew, SegmentNew},
		{"10.00", CustomerRepeat, SegmentLoyal},
		{"10.00", CustomerNew, SegmentNew},
	}
	for _, tc := range cases {
		got := ClassifySegment(MustMoney(tc.spent), tc.customerType)
		assert.Equal(t, tc.want, got, "spent=%s type=%s", tc.spent, tc.customerType)
	}
}

func TestApplyTransactionFirstPurchase(t *testing.T) {
	tx := &Transaction{
		TransactionID: "t1",
		CustomerID:    "cust_1",
		Timestamp:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		TotalAmount:   MustMoney("59.98"),
		PaymentMethod: "paypal",
		Items: []TransactionItem{
			{ProductID: "p1001", Category: "clothing", Quantity: 2, Price: MustMoney("29.99")},
		},
		ShippingAddress: ShippingAddress{State: "NY"},
	}

	var profile CustomerProfile
	profile.ApplyTransaction(tx, "2024-05")

	assert.Equal(t, CustomerNew, profile.CustomerType)
	assert.Equal(t, "2024-05", profile.Cohort)
	assert.Equal(t, int64(1), profile.TotalPurchases)
	assert.Equal(t, "59.98", profile.TotalSpent.String())
	assert.Equal(t, 0, profile.AverageOrderValue.Cmp(MustMoney("59.98")))
	assert.Equal(t, []string{"clothing"}, profile.PurchaseCategories)
}

func TestApplyTransactionRepeatPurchase(t *testing.T) {
	first := &Transaction{
		TransactionID: "t1", CustomerID: "cust_1",
		Timestamp:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: MustMoney("100.00"),
		Items:       []TransactionItem{{ProductID: "p1", Category: "clothing", Quantity: 1}},
	}
	second := &Transaction{
		TransactionID: "t2", CustomerID: "cust_1",
		Timestamp:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: MustMoney("50.00"),
		Items:       []TransactionItem{{ProductID: "p8", Category: "electronics", Quantity: 1}},
	}

	var profile CustomerProfile
	profile.ApplyTransaction(first, "2024-05")
	profile.ApplyTransaction(second, "2024-06")

	assert.Equal(t, CustomerRepeat, profile.CustomerType)
	// The cohort stays with the first observation.
	assert.Equal(t, "2024-05", profile.Cohort)
	assert.Equal(t, int64(2), profile.TotalPurchases)
	assert.Equal(t, "150.00", profile.TotalSpent.String())
	assert.Equal(t, 0, profile.AverageOrderValue.Cmp(MustMoney("75")))
	assert.Equal(t, []string{"clothing", "electronics"}, profile.PurchaseCategories)
	assert.Equal(t, "50.00", profile.LastPurchaseAmount.String())
}
