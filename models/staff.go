package models

import (
	"time"

	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDenied   RequestStatus = "denied"
)

// CreditAccessRequest is a staff request to award credits to a member.
// Staff file it; only an admin can approve, which executes the award.
type CreditAccessRequest struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	StaffID      uint           `json:"staff_id" gorm:"not null;index"`
	Staff        User           `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
	TargetUserID uint           `json:"target_user_id" gorm:"not null;index"`
	TargetUser   User           `json:"target_user,omitempty" gorm:"foreignKey:TargetUserID"`
	Amount       int            `json:"amount" gorm:"not null"`
	Reason       string         `json:"reason" gorm:"not null"`
	Status       RequestStatus  `json:"status" gorm:"default:'pending'"`
	ReviewedBy   *uint          `json:"reviewed_by"`
	ReviewedAt   *time.Time     `json:"reviewed_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// CreditResettlementRequest corrects a member's balance after a billing
// dispute. Amount may be negative to claw credits back.
type CreditResettlementRequest struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	StaffID      uint           `json:"staff_id" gorm:"not null;index"`
	Staff        User           `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
	TargetUserID uint           `json:"target_user_id" gorm:"not null;index"`
	TargetUser   User           `json:"target_user,omitempty" gorm:"foreignKey:TargetUserID"`
	Amount       int            `json:"amount" gorm:"not null"`
	Reason       string         `json:"reason" gorm:"not null"`
	Status       RequestStatus  `json:"status" gorm:"default:'pending'"`
	ReviewedBy   *uint          `json:"reviewed_by"`
	ReviewedAt   *time.Time     `json:"reviewed_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
