package models

import "time"

type BonusType string

const (
	BonusTypeFixed      BonusType = "fixed"
	BonusTypePercentage BonusType = "percentage"
)

// BonusRule - قاعدة مكافأة
type BonusRule struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:150;not null"`
	Description string    `gorm:"size:1000;not null"`
	Amount      float64   `gorm:"not null"`
	Type        BonusType `gorm:"size:20;not null"`
	Active      bool      `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
