package domain

import "time"

// Notification types.
const (
	NotificationInventoryAlert    = "inventory_alert"
	NotificationOrderConfirmation = "order_confirmation"
	NotificationCustomerLoyalty   = "customer_loyalty"
)

// NotificationRecord is a write-once log entry of an outbound notification.
type NotificationRecord struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Recipient string    `json:"recipient"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
