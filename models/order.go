package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusCompleted = "COMPLETED"
)

type Order struct {
	ID          uint            `gorm:"column:order_id;primaryKey" json:"order_id"`
	CustomerID  *uint           `gorm:"index" json:"customer_id"`
	Customer    *Customer       `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty"`
	TicketName  *string         `gorm:"type:varchar(100)" json:"ticket_name"`
	Status      string          `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
	Details     []OrderDetail   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"details,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// IsOpen reports whether line items may still be changed.
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusPending
}

// DisplayName is what the kiosk calls out when the order is ready.
func (o *Order) DisplayName() string {
	if o.TicketName != nil && *o.TicketName != "" {
		return *o.TicketName
	}
	return fmt.Sprintf("Order #%d", o.ID)
}

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCancelled, OrderStatusCompleted:
		return true
	}
	return false
}
