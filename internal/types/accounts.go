package types

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account statuses. Account opening and balance settlement happen upstream;
// this service only reads accounts.
const (
	AccountStatusActive    = "ACTIVE"
	AccountStatusSuspended = "SUSPENDED"
	AccountStatusClosed    = "CLOSED"
)

type Account struct {
	gorm.Model    `json:"-"`
	AccountNumber string          `gorm:"uniqueIndex" json:"account_number"`
	AccountName   string          `json:"account_name"`
	AccountType   string          `json:"account_type"`
	Balance       decimal.Decimal `gorm:"type:decimal(19,4)" json:"balance"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
