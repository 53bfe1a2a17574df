package models

import "time"

type ProductRequestStatus string

const (
	ProductRequestPending   ProductRequestStatus = "pending"
	ProductRequestApproved  ProductRequestStatus = "approved"
	ProductRequestRejected  ProductRequestStatus = "rejected"
	ProductRequestOrdered   ProductRequestStatus = "ordered"
	ProductRequestDelivered ProductRequestStatus = "delivered"
)

// ProductRequest - طلب منتج
type ProductRequest struct {
	ID              uint                 `gorm:"primaryKey"`
	Title           string               `gorm:"size:150;not null"`
	Description     string               `gorm:"size:1000"`
	Quantity        int                  `gorm:"not null"`
	UnitPrice       *float64
	TotalPrice      *float64 // quantity * unit_price, computed on write
	Status          ProductRequestStatus `gorm:"size:20;index;not null"`
	UserID          uint                 `gorm:"index;not null"`
	User            User
	AdminNotes      string `gorm:"size:1000"`
	RejectionReason string `gorm:"size:500"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
