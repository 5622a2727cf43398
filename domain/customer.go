package domain

import "time"

// Customer types derived from purchase history.
const (
	CustomerNew    = "new"
	CustomerRepeat = "repeat"
)

// CustomerProfile is the cumulative per-customer state maintained by the
// analytics consumer.
type CustomerProfile struct {
	CustomerID         string    `json:"customer_id"`
	CustomerType       string    `json:"customer_type"`
	Cohort             string    `json:"year_month_cohort"`
	TotalPurchases     int64     `json:"total_purchases"`
	TotalSpent         Money     `json:"total_spent"`
	AverageOrderValue  Money     `json:"average_order_value"`
	FirstPurchaseDate  time.Time `json:"first_purchase_date"`
	LastPurchaseDate   time.Time `json:"last_purchase_date"`
	LastPurchaseAmount Money     `json:"last_purchase_amount"`
	PaymentMethod      string    `json:"payment_method"`
	ShippingState      string    `json:"shipping_state"`
	PurchaseCategories []string  `json:"purchase_categories"`
	UpdatedAt          time.Time `json:"last_updated"`
}

// ApplyTransaction folds a purchase into the profile. A nil receiver-less
// zero profile (TotalPurchases == 0) is treated as a brand-new customer.
func (p *CustomerProfile) ApplyTransaction(tx *Transaction, cohort string) {
	isNew := p.TotalPurchases == 0
	if isNew {
		p.CustomerID = tx.CustomerID
		p.FirstPurchaseDate = tx.Timestamp
		p.Cohort = cohort
		p.CustomerType = CustomerNew
	} else {
		p.CustomerType = CustomerRepeat
	}

	p.TotalPurchases++
	p.TotalSpent = p.TotalSpent.Add(tx.TotalAmount)
	p.AverageOrderValue = p.TotalSpent.Div(MoneyFromInt64(p.TotalPurchases))
	p.LastPurchaseDate = tx.Timestamp
	p.LastPurchaseAmount = tx.TotalAmount
	p.PaymentMethod = tx.PaymentMethod
	p.ShippingState = tx.ShippingAddress.State
	p.PurchaseCategories = UnionCategories(p.PurchaseCategories, tx.Categories())
}

// Customer segments, evaluated strictly in this order.
const (
	SegmentVIP      = "VIP"
	SegmentFrequent = "Frequent"
	SegmentLoyal    = "Loyal"
	SegmentNew      = "New"
)

var (
	vipThreshold      = MoneyFromInt64(500)
	frequentThreshold = MoneyFromInt64(200)
)

// ClassifySegment derives the marketing segment from cumulative spend and
// customer type. Thresholds are strict: exactly 200 is not Frequent.
func ClassifySegment(totalSpent Money, customerType string) string {
	switch {
	case totalSpent.GreaterThan(vipThreshold):
		return SegmentVIP
	case totalSpent.GreaterThan(frequentThreshold):
		return SegmentFrequent
	case customerType == CustomerRepeat:
		return SegmentLoyal
	default:
		return SegmentNew
	}
}
