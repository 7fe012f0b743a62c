package orders

import "time"

// Status of an order
type Status string

const (
	StatusOpen      Status = "open"
	StatusCancelled Status = "cancelled"
)

// Order is a customer order. Totals are in cents.
type Order struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	Total        int64     `json:"total"`
	Status       Status    `json:"status"`
	CancelReason string    `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsCancelled reports whether the order has been cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}
