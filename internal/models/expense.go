package models

import "time"

// Expense - مصروف
type Expense struct {
	ID          uint      `gorm:"primaryKey"`
	Amount      float64   `gorm:"not null"`
	Date        time.Time `gorm:"index;not null"` // day granularity, no time of day
	Category    string    `gorm:"size:100;index;not null"`
	Branch      Branch    `gorm:"size:20;index"`
	Description string    `gorm:"size:255"`
	UserID      uint      `gorm:"index;not null"`
	User        User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
