package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderDetail is one line of an order. UnitPrice is the food price captured when
// the line was written; it is not re-read from the catalog on every view.
type OrderDetail struct {
	ID        uint            `gorm:"column:order_detail_id;primaryKey" json:"order_detail_id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	FoodID    uint            `gorm:"not null;index" json:"food_id"`
	Food      *FoodItem       `gorm:"foreignKey:FoodID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_total"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

func (OrderDetail) TableName() string {
	return "order_details"
}
