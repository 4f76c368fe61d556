package models

import (
	"time"

	"gorm.io/gorm"
)

type CallStatus string

const (
	CallActive CallStatus = "active"
	CallEnded  CallStatus = "ended"
)

// CallSession is a billable chat/call between two members. Billing is driven
// by a server-side ticker; each elapsed minute produces one BillingTick.
type CallSession struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	PublicID      string         `json:"public_id" gorm:"uniqueIndex;not null"`
	UserID        uint           `json:"user_id" gorm:"not null;index"`
	User          User           `json:"-"`
	PartnerID     uint           `json:"partner_id" gorm:"not null"`
	Kind          SessionType    `json:"kind" gorm:"not null"`
	Status        CallStatus     `json:"status" gorm:"default:'active'"`
	StartedAt     time.Time      `json:"started_at" gorm:"not null"`
	EndedAt       *time.Time     `json:"ended_at"`
	BilledMinutes int            `json:"billed_minutes" gorm:"default:0"`
	LastTickAt    *time.Time     `json:"last_tick_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// BillingTick is the idempotency record for per-minute billing. The unique
// index makes a replayed minute a no-op instead of a double charge.
type BillingTick struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SessionID   uint      `json:"session_id" gorm:"not null;uniqueIndex:idx_session_minute"`
	MinuteIndex int       `json:"minute_index" gorm:"not null;uniqueIndex:idx_session_minute"`
	Kobos       int       `json:"kobos" gorm:"not null;default:0"`
	Credits     int       `json:"credits" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
}
