package models

import "time"

type Category struct {
	ID        uint      `gorm:"column:category_id;primaryKey" json:"category_id"`
	Name      string    `gorm:"column:category_name;type:varchar(100);uniqueIndex;not null" json:"category_name"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
