package models

import "time"

// Revenue - إيراد
// Branch may be empty on legacy records entered before branches existed.
// Quantity and Profit are optional; their defaults are applied by the
// reporting layer, not stored here.
type Revenue struct {
	ID           uint      `gorm:"primaryKey"`
	Amount       float64   `gorm:"not null"`
	Date         time.Time `gorm:"index;not null"` // day granularity, no time of day
	Category     string    `gorm:"size:100;index;not null"`
	Branch       Branch    `gorm:"size:20;index"`
	Description  string    `gorm:"size:255"`
	CustomerName string    `gorm:"size:100"`
	ProductName  string    `gorm:"size:100"`
	Quantity     *int
	Profit       *float64
	UserID       uint `gorm:"index;not null"`
	User         User
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
