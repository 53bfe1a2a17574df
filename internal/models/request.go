package models

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
	PriorityUrgent RequestPriority = "urgent"
)

// Request - طلب موظف (employee request: leave, advance, equipment...)
type Request struct {
	ID          uint            `gorm:"primaryKey"`
	Title       string          `gorm:"size:150;not null"`
	Description string          `gorm:"size:1000"`
	Status      RequestStatus   `gorm:"size:20;index;not null"`
	Priority    RequestPriority `gorm:"size:20;not null"`
	UserID      uint            `gorm:"index;not null"`
	User        User
	AdminNotes  string `gorm:"size:1000"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
