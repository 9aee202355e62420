package types

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Position aggregates all fills for one (account, symbol) pair. Quantity is
// signed: positive long, negative short. A fully closed position rests at
// zero quantity rather than being deleted.
type Position struct {
	gorm.Model    `json:"-"`
	AccountID     int64           `gorm:"uniqueIndex:idx_account_symbol" json:"account_id"`
	Symbol        string          `gorm:"uniqueIndex:idx_account_symbol" json:"symbol"`
	Quantity      decimal.Decimal `gorm:"type:decimal(19,8)" json:"quantity"`
	AveragePrice  decimal.Decimal `gorm:"type:decimal(19,4)" json:"average_price"`
	MarketValue   decimal.Decimal `gorm:"type:decimal(19,4)" json:"market_value"`
	UnrealizedPnl decimal.Decimal `gorm:"type:decimal(19,4)" json:"unrealized_pnl"`
	RealizedPnl   decimal.Decimal `gorm:"type:decimal(19,4)" json:"realized_pnl"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ValuationRequest carries an externally sourced market price used to
// recompute a position's market value and unrealized P&L.
type ValuationRequest struct {
	AccountID   int64           `json:"account_id"`
	MarketPrice decimal.Decimal `json:"market_price"`
}
