package domain

import "time"

// Transaction is the raw purchase fact entering the pipeline.
type Transaction struct {
	TransactionID   string            `json:"transaction_id"`
	Timestamp       time.Time         `json:"timestamp"`
	CustomerID      string            `json:"customer_id"`
	Items           []TransactionItem `json:"items"`
	TotalAmount     Money             `json:"total_amount"`
	PaymentMethod   string            `json:"payment_method"`
	ShippingAddress ShippingAddress   `json:"shipping_address"`
}

type TransactionItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
	Price       Money  `json:"price"`
	Quantity    int64  `json:"quantity"`
}

type ShippingAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Validate checks the fields every consumer relies on. A transaction failing
// validation is skipped, not fatal to its batch.
func (t *Transaction) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	if t.TransactionID == "" {
		return NewError(ErrCodeInvalid, "transaction missing transaction_id")
	}
	if t.CustomerID == "" {
		return NewError(ErrCodeInvalid, "transaction missing customer_id")
	}
	if len(t.Items) == 0 {
		return NewError(ErrCodeInvalid, "transaction has no items")
	}
	if t.Timestamp.IsZero() {
		return NewError(ErrCodeInvalid, "transaction missing timestamp")
	}
	return nil
}

// ItemCount sums the quantities across all line items.
func (t *Transaction) ItemCount() int64 {
	var n int64
	for _, item := range t.Items {
		n += item.Quantity
	}
	return n
}

// Categories returns the deduplicated category labels across line items.
// Items without a category count as "unknown", matching the rollup keys.
func (t *Transaction) Categories() []string {
	seen := make(map[string]struct{}, len(t.Items))
	var out []string
	for _, item := range t.Items {
		category := item.Category
		if category == "" {
			category = "unknown"
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		out = append(out, category)
	}
	return out
}
