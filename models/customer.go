package models

import (
	"time"
)

type Customer struct {
	ID        uint      `gorm:"column:customer_id;primaryKey" json:"customer_id"`
	Name      string    `gorm:"column:customer_name;type:varchar(100);not null" json:"customer_name"`
	Contact   *string   `gorm:"type:varchar(50)" json:"contact,omitempty"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
