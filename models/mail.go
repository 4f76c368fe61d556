package models

import (
	"time"

	"gorm.io/gorm"
)

// MailThread tracks the first-contact-free state per (user, correspondent)
// pair. The consumed flags flip in the same transaction that waives the
// charge, so the free action can only be taken once.
type MailThread struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	UserID            uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_thread"`
	ThreadKey         string         `json:"thread_key" gorm:"not null;uniqueIndex:idx_user_thread"`
	FirstReadConsumed bool           `json:"first_read_consumed" gorm:"default:false"`
	FirstSendConsumed bool           `json:"first_send_consumed" gorm:"default:false"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

type MailDirection string

const (
	MailInbound  MailDirection = "inbound"
	MailOutbound MailDirection = "outbound"
)

// MailMessage records each charged (or waived) mail action for history views.
type MailMessage struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"not null;index"`
	ThreadKey   string         `json:"thread_key" gorm:"not null;index"`
	Direction   MailDirection  `json:"direction" gorm:"not null"`
	Body        string         `json:"body"`
	Photo       bool           `json:"photo" gorm:"default:false"`
	CostCredits int            `json:"cost_credits" gorm:"not null;default:0"`
	Free        bool           `json:"free" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
