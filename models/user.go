package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMember    UserRole = "member"
	RoleTherapist UserRole = "therapist"
	RoleStaff     UserRole = "staff"
	RoleAdmin     UserRole = "admin"
)

// StaffEmailDomain marks internal accounts. Users on this domain are exempt
// from all credit spend checks.
const StaffEmailDomain = "@dates.care"

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Name      string         `json:"name" gorm:"not null"`
	Phone     string         `json:"phone"`
	Role      UserRole       `json:"role" gorm:"default:'member'"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Therapist profile fields
	Specialty    string `json:"specialty"`
	Description  string `json:"description"`
	ProfileImage string `json:"profile_image"`

	// Relations
	Transactions []CreditTransaction `json:"transactions,omitempty"`
	Bookings     []Booking           `json:"bookings,omitempty"`
}

// IsStaff reports whether the user bypasses credit spend checks: staff and
// admin roles, plus anyone on the internal email domain.
func (u *User) IsStaff() bool {
	if u.Role == RoleStaff || u.Role == RoleAdmin {
		return true
	}
	return strings.HasSuffix(strings.ToLower(u.Email), StaffEmailDomain)
}

type Like struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_like_pair"`
	TargetID  uint           `json:"target_id" gorm:"not null;uniqueIndex:idx_like_pair"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type Match struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserAID   uint           `json:"user_a_id" gorm:"not null;uniqueIndex:idx_match_pair"`
	UserBID   uint           `json:"user_b_id" gorm:"not null;uniqueIndex:idx_match_pair"`
	UserA     User           `json:"user_a,omitempty" gorm:"foreignKey:UserAID"`
	UserB     User           `json:"user_b,omitempty" gorm:"foreignKey:UserBID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
