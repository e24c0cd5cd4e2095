package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FoodItem is a sellable menu entry. IsAvailable is a stored flag: it is forced
// off when stock runs out but may also be switched off by hand while stock remains.
type FoodItem struct {
	ID          uint            `gorm:"column:food_id;primaryKey" json:"food_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	IsAvailable bool            `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (FoodItem) TableName() string {
	return "food_items"
}
