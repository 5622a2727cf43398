package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event sources, one per commerce subdomain.
const (
	SourceOrders    = "com.ecommerce.orders"
	SourceCustomers = "com.ecommerce.customers"
	SourceInventory = "com.ecommerce.inventory"
)

// Detail types carried on the bus.
const (
	DetailOrderProcessed   = "order_processed"
	DetailCustomerAnalyzed = "customer_analyzed"
	DetailInventoryUpdated = "inventory_updated"
	DetailInventoryAlert   = "inventory_alert"
)

// Event is an immutable fact published on the bus. Detail holds the
// type-specific payload; consumers decode it against the structs below.
type Event struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	DetailType string          `json:"detail-type"`
	Detail     json.RawMessage `json:"detail"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NewEvent assembles an event around a detail payload.
func NewEvent(source, detailType string, detail interface{}) (Event, error) {
	payload, err := json.Marshal(detail)
	if err != nil {
		return Event{}, WrapError(ErrCodeInternal, "encode event detail", err)
	}
	return Event{
		ID:         uuid.NewString(),
		Source:     source,
		DetailType: detailType,
		Detail:     payload,
		Timestamp:  time.Now().UTC(),
	}, nil
}

// EventKind is the explicit enumeration of (source, detail-type) pairs the
// pipeline reacts to. Anything that does not resolve to a kind is skipped.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindOrderProcessed
	KindCustomerAnalyzed
	KindInventoryUpdated
	KindInventoryAlert
)

func (k EventKind) String() string {
	switch k {
	case KindOrderProcessed:
		return "order_processed"
	case KindCustomerAnalyzed:
		return "customer_analyzed"
	case KindInventoryUpdated:
		return "inventory_updated"
	case KindInventoryAlert:
		return "inventory_alert"
	default:
		return "unknown"
	}
}

var eventKinds = map[[2]string]EventKind{
	{SourceOrders, DetailOrderProcessed}:      KindOrderProcessed,
	{SourceCustomers, DetailCustomerAnalyzed}: KindCustomerAnalyzed,
	{SourceInventory, DetailInventoryUpdated}: KindInventoryUpdated,
	{SourceInventory, DetailInventoryAlert}:   KindInventoryAlert,
}

// Kind resolves the event against the dispatch table.
func (e Event) Kind() EventKind {
	return eventKinds[[2]string{e.Source, e.DetailType}]
}

// OrderProcessedDetail is published by the order processor after enrichment.
type OrderProcessedDetail struct {
	TransactionID     string            `json:"transaction_id"`
	Timestamp         string            `json:"timestamp"`
	CustomerID        string            `json:"customer_id"`
	Items             []TransactionItem `json:"items"`
	TotalAmount       Money             `json:"total_amount"`
	PaymentMethod     string            `json:"payment_method"`
	Status            string            `json:"status"`
	FulfillmentCenter string            `json:"fulfillment_center"`
	ItemCount         int64             `json:"item_count"`
	AvgItemPrice      Money             `json:"avg_item_price"`
}

// CustomerAnalyzedDetail is published after a customer profile update.
type CustomerAnalyzedDetail struct {
	CustomerID         string   `json:"customer_id"`
	CustomerType       string   `json:"customer_type"`
	Cohort             string   `json:"year_month_cohort"`
	TotalPurchases     int64    `json:"total_purchases"`
	TotalSpent         Money    `json:"total_spent"`
	AverageOrderValue  Money    `json:"average_order_value"`
	LastPurchaseDate   string   `json:"last_purchase_date"`
	PaymentMethod      string   `json:"payment_method"`
	ShippingState      string   `json:"shipping_state"`
	PurchaseCategories []string `json:"purchase_categories"`
}

// InventoryUpdatedDetail summarizes the stock changes of one transaction.
type InventoryUpdatedDetail struct {
	TransactionID  string `json:"transaction_id"`
	Timestamp      string `json:"timestamp"`
	ItemsProcessed int64  `json:"items_processed"`
}

// InventoryAlertDetail is the derived event for a normal-to-low stock crossing.
type InventoryAlertDetail struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
	StockLevel  int64  `json:"stock_level"`
}
