package models

import (
	"time"

	"gorm.io/gorm"
)

type SessionType string

const (
	SessionVideo SessionType = "video"
	SessionAudio SessionType = "audio"
	SessionText  SessionType = "text"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// TherapistSchedule defines a therapist's recurring weekly availability
// window. Slots are derived from these rows minus existing bookings.
type TherapistSchedule struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TherapistID uint           `json:"therapist_id" gorm:"not null;index"`
	Therapist   User           `json:"therapist,omitempty" gorm:"foreignKey:TherapistID"`
	DayOfWeek   int            `json:"day_of_week" gorm:"not null"` // 0=Sunday ... 6=Saturday
	StartTime   string         `json:"start_time" gorm:"not null"`  // "09:00"
	EndTime     string         `json:"end_time" gorm:"not null"`    // "18:00"
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// ClosedDate blocks booking on a specific calendar date (holidays etc).
type ClosedDate struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Date      time.Time      `json:"date" gorm:"not null;uniqueIndex"`
	Reason    string         `json:"reason" gorm:"not null"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type Booking struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	UserID          uint           `json:"user_id" gorm:"not null;index"`
	User            User           `json:"user,omitempty"`
	TherapistID     uint           `json:"therapist_id" gorm:"not null;index"`
	Therapist       User           `json:"therapist,omitempty" gorm:"foreignKey:TherapistID"`
	StartTime       time.Time      `json:"start_time" gorm:"not null"`
	EndTime         time.Time      `json:"end_time" gorm:"not null"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	Type            SessionType    `json:"type" gorm:"not null"`
	PriceCredits    int            `json:"price_credits" gorm:"not null"`
	Status          BookingStatus  `json:"status" gorm:"default:'confirmed'"`
	RefundedCredits int            `json:"refunded_credits" gorm:"default:0"`
	CancelledAt     *time.Time     `json:"cancelled_at"`
	CancelledBy     *uint          `json:"cancelled_by"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}
