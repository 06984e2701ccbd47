package model

import "time"

// OrderStatus mirrors the remote order lifecycle. Closed and rejected are
// terminal; error is set manually and never overwritten by remote events.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusClosed    OrderStatus = "closed"
	OrderStatusError     OrderStatus = "error"
)

type Order struct {
	ID          string      `db:"id" json:"id"`
	FudoOrderID *string     `db:"fudo_order_id" json:"fudo_order_id"`
	ExternalID  *string     `db:"external_id" json:"external_id"`
	FudoStatus  OrderStatus `db:"fudo_status" json:"fudo_status"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
