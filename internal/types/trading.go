package types

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a brokerage order. OrderCode is the externally visible identifier
// (shareable with clients and venues); the numeric primary key stays internal.
// Orders are never deleted: cancellation and rejection are terminal statuses.
type Order struct {
	gorm.Model       `json:"-"`
	OrderCode        string              `gorm:"uniqueIndex" json:"order_code"`
	AccountID        int64               `gorm:"index" json:"account_id"`
	Symbol           string              `json:"symbol"`
	OrderType        OrderType           `json:"order_type"`
	Side             Side                `json:"side"`
	Quantity         decimal.Decimal     `gorm:"type:decimal(19,8)" json:"quantity"`
	Price            decimal.NullDecimal `gorm:"type:decimal(19,4)" json:"price"`
	Status           OrderStatus         `gorm:"index" json:"status"`
	FilledQuantity   decimal.Decimal     `gorm:"type:decimal(19,8)" json:"filled_quantity"`
	AverageFillPrice decimal.NullDecimal `gorm:"type:decimal(19,4)" json:"average_fill_price"`
	TimeInForce      TimeInForce         `json:"time_in_force"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	ExecutedAt       *time.Time          `json:"executed_at,omitempty"`
}

// RemainingQuantity is the open quantity still available to fill.
func (o *Order) RemainingQuantity() decimal.Decimal {
	return o.Quantity.Sub(o.FilledQuantity)
}

// Fill is the audit record of a single execution applied to an order.
type Fill struct {
	gorm.Model `json:"-"`
	FillID     string          `gorm:"uniqueIndex" json:"fill_id"`
	OrderCode  string          `gorm:"index" json:"order_code"`
	Quantity   decimal.Decimal `gorm:"type:decimal(19,8)" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(19,4)" json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderRequest is the inbound payload for order creation. Enumerated fields
// arrive as strings and are parsed at the service boundary.
type OrderRequest struct {
	AccountID   int64            `json:"account_id"`
	Symbol      string           `json:"symbol"`
	OrderType   string           `json:"order_type"`
	Side        string           `json:"side"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	TimeInForce string           `json:"time_in_force,omitempty"`
}

// AmendRequest carries the mutable order fields. Absent fields are left
// untouched; only PENDING orders may be amended.
type AmendRequest struct {
	Price    *decimal.Decimal `json:"price,omitempty"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
}

// FillRequest is the inbound payload from the execution feed.
type FillRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}
