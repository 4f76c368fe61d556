package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeEarn  TransactionType = "earn"
	TransactionTypeSpend TransactionType = "spend"
)

type CreditCurrency string

const (
	CurrencyCredits CreditCurrency = "credits"
	CurrencyKobos   CreditCurrency = "kobos"
)

// CreditAccount is the per-user balance row. Complimentary credits are spent
// before purchased ones; kobos are a separate pool drained first for
// per-minute chat billing. Version backs optimistic concurrency on every
// balance mutation.
type CreditAccount struct {
	ID                   uint           `json:"id" gorm:"primaryKey"`
	UserID               uint           `json:"user_id" gorm:"not null;uniqueIndex"`
	User                 User           `json:"-"`
	ComplimentaryCredits int            `json:"complimentary_credits" gorm:"not null;default:0"`
	PurchasedCredits     int            `json:"purchased_credits" gorm:"not null;default:0"`
	Kobos                int            `json:"kobos" gorm:"not null;default:0"`
	Version              uint           `json:"-" gorm:"not null;default:0"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `json:"-" gorm:"index"`
}

// TotalCredits is the spendable credit balance (both pools, kobos excluded).
func (a *CreditAccount) TotalCredits() int {
	return a.ComplimentaryCredits + a.PurchasedCredits
}

type CreditTransaction struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	User        User            `json:"-"`
	Type        TransactionType `json:"type" gorm:"not null"`
	Currency    CreditCurrency  `json:"currency" gorm:"not null;default:'credits'"`
	Amount      int             `json:"amount" gorm:"not null"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

type PackageType string

const (
	PackageTypeCredits PackageType = "credits"
	PackageTypeKobos   PackageType = "kobos"
	PackageTypeCombo   PackageType = "combo"
)

// CreditPackage is a catalog entry. Rows are seeded by migration and treated
// as immutable; purchases snapshot the price.
type CreditPackage struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Code      string          `json:"code" gorm:"uniqueIndex;not null"`
	Name      string          `json:"name" gorm:"not null"`
	PriceUSD  decimal.Decimal `json:"price_usd" gorm:"type:numeric(10,2);not null"`
	Credits   int             `json:"credits" gorm:"not null;default:0"`
	Bonus     int             `json:"bonus" gorm:"not null;default:0"`
	Kobos     int             `json:"kobos" gorm:"not null;default:0"`
	Type      PackageType     `json:"type" gorm:"not null"`
	Popular   bool            `json:"popular" gorm:"default:false"`
	IsActive  bool            `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PackagePurchase records a completed purchase registered by an admin.
// Payment processing itself happens outside this system.
type PackagePurchase struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Reference     string          `json:"reference" gorm:"uniqueIndex;not null"`
	UserID        uint            `json:"user_id" gorm:"not null;index"`
	User          User            `json:"user,omitempty"`
	AdminID       uint            `json:"admin_id" gorm:"not null"`
	Admin         User            `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	PackageID     uint            `json:"package_id" gorm:"not null"`
	Package       CreditPackage   `json:"package,omitempty" gorm:"foreignKey:PackageID"`
	PricePaidUSD  decimal.Decimal `json:"price_paid_usd" gorm:"type:numeric(10,2);not null"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}
