package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Discount struct {
	ID         uint            `gorm:"column:discount_id;primaryKey" json:"discount_id"`
	Code       string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percentage"`
	UsageLimit *int            `json:"usage_limit"`
	UsageCount int             `gorm:"not null;default:0" json:"usage_count"`
	IsActive   bool            `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
}

func (Discount) TableName() string {
	return "discounts"
}

// Exhausted reports whether the code has no uses left.
func (d *Discount) Exhausted() bool {
	return d.UsageLimit != nil && d.UsageCount >= *d.UsageLimit
}
